package gamification

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestApplyPoints(t *testing.T) {
	s := ProfileSnapshot{TotalPoints: 95, CurrentLevel: 1}

	res := ApplyPoints(s, 10, "Expense logged")
	assert.Equal(t, 105, res.NewTotal)
	assert.Equal(t, 2, res.NewLevel)
	assert.True(t, res.LeveledUp)
	assert.Equal(t, "Expense logged", res.Reason)
}

func TestApplyPoints_NoLevelUp(t *testing.T) {
	s := ProfileSnapshot{TotalPoints: 10, CurrentLevel: 1}

	res := ApplyPoints(s, 5, "Expense logged")
	assert.Equal(t, 15, res.NewTotal)
	assert.Equal(t, 1, res.NewLevel)
	assert.False(t, res.LeveledUp)
}

// A delta that would drive the total negative floors at zero so level math
// stays defined.
func TestApplyPoints_NegativeFloor(t *testing.T) {
	s := ProfileSnapshot{TotalPoints: 20, CurrentLevel: 1}

	res := ApplyPoints(s, -50, "correction")
	assert.Equal(t, 0, res.NewTotal)
	assert.Equal(t, 1, res.NewLevel)
	assert.False(t, res.LeveledUp)
}

func TestApplyPoints_ZeroDelta(t *testing.T) {
	s := ProfileSnapshot{TotalPoints: 150, CurrentLevel: 2}

	res := ApplyPoints(s, 0, "noop")
	assert.Equal(t, 150, res.NewTotal)
	assert.Equal(t, 2, res.NewLevel)
	assert.False(t, res.LeveledUp)
}

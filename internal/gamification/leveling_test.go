package gamification

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLevelForPoints(t *testing.T) {
	assert.Equal(t, 1, LevelForPoints(0))
	assert.Equal(t, 1, LevelForPoints(99))
	assert.Equal(t, 2, LevelForPoints(100))
	assert.Equal(t, 3, LevelForPoints(250))
	assert.Equal(t, 11, LevelForPoints(1000))
}

func TestLevelForPoints_NegativeGuard(t *testing.T) {
	assert.Equal(t, 1, LevelForPoints(-50))
	assert.Equal(t, 0, PointsWithinLevel(-50))
}

func TestLevelForPoints_MatchesFormula(t *testing.T) {
	for p := 0; p <= 5000; p++ {
		assert.Equal(t, p/100+1, LevelForPoints(p), "points=%d", p)
	}
}

// Completing a level's threshold moves you into the next level; one point
// below keeps you in it.
func TestLevelThresholdBoundaries(t *testing.T) {
	for level := 1; level <= 50; level++ {
		threshold := PointsToReachLevel(level)
		assert.Equal(t, level, LevelForPoints(threshold-1), "just below threshold of level %d", level)
		assert.Equal(t, level+1, LevelForPoints(threshold), "at threshold of level %d", level)
	}
}

func TestPointsWithinLevel(t *testing.T) {
	assert.Equal(t, 0, PointsWithinLevel(0))
	assert.Equal(t, 50, PointsWithinLevel(50))
	assert.Equal(t, 0, PointsWithinLevel(100))
	assert.Equal(t, 42, PointsWithinLevel(342))
}

// Progress is relative to the cumulative threshold of the current level,
// so the same 50-point remainder means less at higher levels.
func TestLevelProgress(t *testing.T) {
	assert.InDelta(t, 0.25, LevelProgress(150), 1e-9) // 50 into level 2, threshold 200
	assert.InDelta(t, 0.0, LevelProgress(200), 1e-9)
	assert.InDelta(t, 0.99, LevelProgress(99), 1e-9)
	assert.InDelta(t, 0.1, LevelProgress(450), 1e-9) // 50 into level 5, threshold 500
	assert.InDelta(t, 0.0, LevelProgress(0), 1e-9)
}

func TestLevelProgress_MatchesComponentFormula(t *testing.T) {
	for p := 0; p <= 2000; p += 7 {
		want := float64(PointsWithinLevel(p)) / float64(PointsToReachLevel(LevelForPoints(p)))
		assert.InDelta(t, want, LevelProgress(p), 1e-9, "points=%d", p)
	}
}

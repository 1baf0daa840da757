package gamification

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var today = time.Date(2025, 6, 15, 14, 30, 0, 0, time.UTC)

func daysAgo(n int) *time.Time {
	d := today.AddDate(0, 0, -n)
	return &d
}

func TestAdvanceStreak_FirstActivity(t *testing.T) {
	res := AdvanceStreak(ProfileSnapshot{}, today)

	assert.True(t, res.Changed)
	assert.False(t, res.StreakIncreased)
	assert.Equal(t, 1, res.CurrentStreak)
	assert.Equal(t, 1, res.BestStreak)
	assert.Nil(t, res.Award, "a fresh streak earns nothing")
}

func TestAdvanceStreak_Consecutive(t *testing.T) {
	s := ProfileSnapshot{CurrentStreak: 3, BestStreak: 3, LastActivityDate: daysAgo(1)}

	res := AdvanceStreak(s, today)
	assert.True(t, res.Changed)
	assert.True(t, res.StreakIncreased)
	assert.Equal(t, 4, res.CurrentStreak)
	assert.Equal(t, 4, res.BestStreak)

	require.NotNil(t, res.Award)
	assert.Equal(t, 10, res.Award.Delta)
	assert.Equal(t, "4 day streak!", res.Award.Reason)
}

func TestAdvanceStreak_SameDayIdempotent(t *testing.T) {
	s := ProfileSnapshot{CurrentStreak: 3, BestStreak: 5, LastActivityDate: daysAgo(0)}

	res := AdvanceStreak(s, today)
	assert.False(t, res.Changed)
	assert.False(t, res.StreakIncreased)
	assert.Equal(t, 3, res.CurrentStreak)
	assert.Nil(t, res.Award)

	// Applying the (unchanged) result and advancing again still changes nothing.
	again := AdvanceStreak(s, today.Add(2*time.Hour))
	assert.False(t, again.Changed)
}

func TestAdvanceStreak_Broken(t *testing.T) {
	s := ProfileSnapshot{CurrentStreak: 5, BestStreak: 5, LastActivityDate: daysAgo(3)}

	res := AdvanceStreak(s, today)
	assert.True(t, res.Changed)
	assert.False(t, res.StreakIncreased, "a reset is not an increase")
	assert.Equal(t, 1, res.CurrentStreak)
	assert.Equal(t, 5, res.BestStreak, "best streak survives the break")
	assert.Nil(t, res.Award)
}

func TestAdvanceStreak_BestStreakTracksNewHighs(t *testing.T) {
	s := ProfileSnapshot{CurrentStreak: 7, BestStreak: 7, LastActivityDate: daysAgo(1)}

	res := AdvanceStreak(s, today)
	assert.Equal(t, 8, res.CurrentStreak)
	assert.Equal(t, 8, res.BestStreak)
}

// Activity timestamps land in UTC calendar days regardless of wall-clock
// hour, so a 23:59 ping and a 00:01 ping one minute apart count as
// different days, and two pings hours apart on the same day do not.
func TestAdvanceStreak_DayGranularity(t *testing.T) {
	lateNight := time.Date(2025, 6, 14, 23, 59, 0, 0, time.UTC)
	s := ProfileSnapshot{CurrentStreak: 1, BestStreak: 1, LastActivityDate: &lateNight}

	earlyMorning := time.Date(2025, 6, 15, 0, 1, 0, 0, time.UTC)
	res := AdvanceStreak(s, earlyMorning)
	assert.True(t, res.StreakIncreased)
	assert.Equal(t, 2, res.CurrentStreak)
	assert.Equal(t, time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC), res.LastActivityDate)
}

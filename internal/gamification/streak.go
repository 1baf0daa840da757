package gamification

import (
	"fmt"
	"time"
)

// StreakRewardPoints is granted when a streak extends past its first day.
const StreakRewardPoints = 10

// StreakResult is the state the tracker wants written back after an
// activity ping. Changed is false when today was already logged and
// nothing should be persisted.
type StreakResult struct {
	CurrentStreak    int
	BestStreak       int
	LastActivityDate time.Time
	StreakIncreased  bool
	Changed          bool
	Award            *PointsAward
}

// AdvanceStreak runs the daily-streak state machine for an activity on the
// given day. Days are compared at calendar-day granularity in UTC; callers
// must normalize "today" with the same clock every time.
//
// Transitions:
//   - last activity == today: no change.
//   - last activity == yesterday: streak extends by one.
//   - anything else (or never active): streak resets to 1. A reset is not
//     an increase and earns nothing.
//
// The 10-point reward fires once per qualifying transition, only when the
// extended streak is above 1.
func AdvanceStreak(s ProfileSnapshot, today time.Time) StreakResult {
	day := truncateToDay(today)

	if s.LastActivityDate != nil && truncateToDay(*s.LastActivityDate).Equal(day) {
		return StreakResult{
			CurrentStreak:    s.CurrentStreak,
			BestStreak:       s.BestStreak,
			LastActivityDate: day,
			StreakIncreased:  false,
			Changed:          false,
		}
	}

	yesterday := day.AddDate(0, 0, -1)

	newStreak := 1
	increased := false
	if s.LastActivityDate != nil && truncateToDay(*s.LastActivityDate).Equal(yesterday) {
		newStreak = s.CurrentStreak + 1
		increased = true
	}

	best := s.BestStreak
	if newStreak > best {
		best = newStreak
	}

	res := StreakResult{
		CurrentStreak:    newStreak,
		BestStreak:       best,
		LastActivityDate: day,
		StreakIncreased:  increased,
		Changed:          true,
	}
	if increased && newStreak > 1 {
		res.Award = &PointsAward{
			Delta:  StreakRewardPoints,
			Reason: fmt.Sprintf("%d day streak!", newStreak),
		}
	}
	return res
}

func truncateToDay(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

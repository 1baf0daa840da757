package gamification

import "time"

// ProfileSnapshot is the slice of the user profile the engine operates on.
// Mutating operations take the current snapshot and return what should be
// written back, so the storage layer can enforce atomicity instead of the
// caller's ordering.
type ProfileSnapshot struct {
	TotalPoints      int
	CurrentLevel     int
	CurrentStreak    int
	BestStreak       int
	LastActivityDate *time.Time
}

// PointsResult describes the outcome of applying a point delta.
type PointsResult struct {
	NewTotal  int    `json:"newTotal"`
	NewLevel  int    `json:"newLevel"`
	LeveledUp bool   `json:"leveledUp"`
	Reason    string `json:"reason"`
}

// PointsAward is a pending grant produced by the streak tracker or the
// achievement evaluator, routed through the ledger by the service layer.
type PointsAward struct {
	Delta  int
	Reason string
}

// ApplyPoints computes the ledger update for a point delta. Deltas are
// non-negative in normal operation; a delta that would drive the total
// negative is floored at zero so level math stays defined.
func ApplyPoints(s ProfileSnapshot, delta int, reason string) PointsResult {
	newTotal := s.TotalPoints + delta
	if newTotal < 0 {
		newTotal = 0
	}
	newLevel := LevelForPoints(newTotal)
	return PointsResult{
		NewTotal:  newTotal,
		NewLevel:  newLevel,
		LeveledUp: newLevel > s.CurrentLevel,
		Reason:    reason,
	}
}

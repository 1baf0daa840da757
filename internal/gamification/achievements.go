package gamification

import (
	"log"

	"finQuestAPI/internal/achievement"

	"github.com/google/uuid"
)

// Metrics are the live counters achievements are evaluated against.
type Metrics struct {
	ExpenseCount  int
	GoalCount     int
	CurrentStreak int
}

// metricFor maps a requirement to its metric. The switch is exhaustive over
// achievement.Requirement; rows that fail ParseRequirement never get here.
func metricFor(r achievement.Requirement, m Metrics) (int, bool) {
	switch r {
	case achievement.RequirementExpensesLogged:
		return m.ExpenseCount, true
	case achievement.RequirementStreakDays:
		return m.CurrentStreak, true
	case achievement.RequirementGoalsCreated:
		return m.GoalCount, true
	}
	return 0, false
}

// EvaluateAchievements returns the catalog entries the user newly qualifies
// for, in catalog order, each at most once. Entries already in earned are
// skipped regardless of metric values. The caller is responsible for
// recording the award idempotently before granting points.
func EvaluateAchievements(catalog []achievement.Achievement, earned map[uuid.UUID]bool, m Metrics) []achievement.Achievement {
	var qualified []achievement.Achievement
	seen := make(map[uuid.UUID]bool, len(catalog))

	for _, a := range catalog {
		if earned[a.ID] || seen[a.ID] {
			continue
		}
		seen[a.ID] = true

		metric, ok := metricFor(a.Requirement, m)
		if !ok {
			log.Printf("EvaluateAchievements: skipping %q, unknown requirement %q", a.Name, a.Requirement)
			continue
		}
		if metric >= a.RequirementValue {
			qualified = append(qualified, a)
		}
	}
	return qualified
}

package gamification

import (
	"testing"

	"finQuestAPI/internal/achievement"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func catalogEntry(name string, req achievement.Requirement, value, reward int) achievement.Achievement {
	return achievement.Achievement{
		ID:               uuid.New(),
		Name:             name,
		Requirement:      req,
		RequirementValue: value,
		PointsReward:     reward,
		Tier:             achievement.TierBronze,
	}
}

func TestEvaluateAchievements_ThresholdComparison(t *testing.T) {
	first := catalogEntry("First Steps", achievement.RequirementExpensesLogged, 1, 10)
	ten := catalogEntry("Getting Serious", achievement.RequirementExpensesLogged, 10, 25)
	catalog := []achievement.Achievement{first, ten}

	none := EvaluateAchievements(catalog, nil, Metrics{ExpenseCount: 0})
	assert.Empty(t, none)

	one := EvaluateAchievements(catalog, nil, Metrics{ExpenseCount: 1})
	require.Len(t, one, 1)
	assert.Equal(t, "First Steps", one[0].Name)

	// >= comparison: exactly at the threshold qualifies.
	both := EvaluateAchievements(catalog, nil, Metrics{ExpenseCount: 10})
	assert.Len(t, both, 2)
}

func TestEvaluateAchievements_AlreadyEarnedNeverRequalifies(t *testing.T) {
	a := catalogEntry("First Steps", achievement.RequirementExpensesLogged, 1, 10)
	earned := map[uuid.UUID]bool{a.ID: true}

	for _, count := range []int{0, 1, 100, 1 << 20} {
		got := EvaluateAchievements([]achievement.Achievement{a}, earned, Metrics{ExpenseCount: count})
		assert.Empty(t, got, "expenseCount=%d", count)
	}
}

func TestEvaluateAchievements_MultiFireInCatalogOrder(t *testing.T) {
	small := catalogEntry("Spark", achievement.RequirementStreakDays, 3, 10)
	big := catalogEntry("Blaze", achievement.RequirementStreakDays, 7, 25)
	catalog := []achievement.Achievement{small, big}

	got := EvaluateAchievements(catalog, nil, Metrics{CurrentStreak: 7})
	require.Len(t, got, 2)
	assert.Equal(t, "Spark", got[0].Name)
	assert.Equal(t, "Blaze", got[1].Name)
	assert.Equal(t, 35, got[0].PointsReward+got[1].PointsReward)
}

func TestEvaluateAchievements_EachMetricKind(t *testing.T) {
	catalog := []achievement.Achievement{
		catalogEntry("Logger", achievement.RequirementExpensesLogged, 5, 10),
		catalogEntry("Committed", achievement.RequirementStreakDays, 5, 10),
		catalogEntry("Dreamer", achievement.RequirementGoalsCreated, 2, 10),
	}

	got := EvaluateAchievements(catalog, nil, Metrics{ExpenseCount: 5, CurrentStreak: 4, GoalCount: 2})
	require.Len(t, got, 2)
	assert.Equal(t, "Logger", got[0].Name)
	assert.Equal(t, "Dreamer", got[1].Name)
}

func TestEvaluateAchievements_DuplicateCatalogEntryFiresOnce(t *testing.T) {
	a := catalogEntry("First Steps", achievement.RequirementExpensesLogged, 1, 10)
	got := EvaluateAchievements([]achievement.Achievement{a, a}, nil, Metrics{ExpenseCount: 3})
	assert.Len(t, got, 1)
}

func TestEvaluateAchievements_UnknownRequirementSkipped(t *testing.T) {
	bad := catalogEntry("Mystery", achievement.Requirement("weeks_won"), 1, 10)
	good := catalogEntry("First Steps", achievement.RequirementExpensesLogged, 1, 10)

	got := EvaluateAchievements([]achievement.Achievement{bad, good}, nil, Metrics{ExpenseCount: 1})
	require.Len(t, got, 1)
	assert.Equal(t, "First Steps", got[0].Name)
}

package budget

import (
	"fmt"
	"math/rand"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func coffee(amount float64) Estimate {
	return Estimate{Name: "Coffee", Amount: amount, Frequency: FrequencyDaily}
}

func TestAnalyze_GoalMet(t *testing.T) {
	plan, err := Analyze(2000, []Estimate{coffee(5)}, nil, 200, nil)
	require.NoError(t, err)

	// 5 $/day * 5 weekdays * 4.33 weeks.
	assert.InDelta(t, 108.25, plan.WeekdayExpenses, 0.01)
	assert.InDelta(t, 0, plan.WeekendExpenses, 0.01)
	assert.InDelta(t, 108.25, plan.TotalExpenses, 0.01)
	assert.InDelta(t, 1891.75, plan.ActualSavings, 0.01)
	assert.LessOrEqual(t, plan.SavingsShortfall, 0.0)

	// Goal met: one positive-reinforcement line citing actual savings, no cuts.
	require.Len(t, plan.Suggestions, 1)
	assert.Contains(t, plan.Suggestions[0], "1892")
	assert.NotContains(t, strings.ToLower(plan.Suggestions[0]), "short")
}

func TestAnalyze_ShortfallBranch(t *testing.T) {
	plan, err := Analyze(2000, []Estimate{coffee(5)}, nil, 1950, nil)
	require.NoError(t, err)

	assert.InDelta(t, 58.25, plan.SavingsShortfall, 0.01)
	require.NotEmpty(t, plan.Suggestions)

	// Coffee monthly-izes above $100, so a concrete cut is suggested,
	// capped by the remaining shortfall (30% of 108.25 = 32.48 < 58.25).
	assert.Contains(t, plan.Suggestions[0], "Coffee")
	assert.Contains(t, plan.Suggestions[0], "32")

	last := plan.Suggestions[len(plan.Suggestions)-1]
	assert.Contains(t, last, "58")
	assert.Contains(t, strings.ToLower(last), "short")
}

func TestAnalyze_CutCappedAtShortfall(t *testing.T) {
	// Monthly cost 21.65*5*4.33 = 468.7; 30% = 140.6, but only $20 is missing.
	plan, err := Analyze(2000, []Estimate{{Name: "Canteen", Amount: 21.65, Frequency: FrequencyDaily}}, nil, 1551.28, nil)
	require.NoError(t, err)
	require.NotEmpty(t, plan.Suggestions)
	assert.Contains(t, plan.Suggestions[0], "20")
}

func TestAnalyze_MidBandGetsOptimizationNote(t *testing.T) {
	snacks := Estimate{Name: "Snacks", Amount: 18, Frequency: FrequencyWeekly} // 77.94/mo
	plan, err := Analyze(1000, []Estimate{snacks}, nil, 990, nil)
	require.NoError(t, err)

	require.GreaterOrEqual(t, len(plan.Suggestions), 2)
	assert.Contains(t, plan.Suggestions[0], "Snacks")
}

func TestAnalyze_FallbackWhenNothingToCut(t *testing.T) {
	// Only necessities, so no discretionary estimate qualifies.
	rent := Estimate{Name: "Rent share", Amount: 120, Frequency: FrequencyWeekly}
	plan, err := Analyze(1000, []Estimate{rent}, nil, 600, nil)
	require.NoError(t, err)

	require.Len(t, plan.Suggestions, 2)
	assert.Contains(t, strings.ToLower(plan.Suggestions[0]), "small wins")
}

func TestAnalyze_NecessityClassification(t *testing.T) {
	weekday := []Estimate{
		{Name: "Commute", Amount: 3, Frequency: FrequencyDaily},
		{Name: "Groceries", Amount: 40, Frequency: FrequencyWeekly},
		{Name: "Electric bill", Amount: 25, Frequency: FrequencyWeekly},
		coffee(5),
	}
	weekend := []Estimate{{Name: "Hangouts", Amount: 20, Frequency: FrequencyDaily}}

	plan, err := Analyze(3000, weekday, weekend, 100, nil)
	require.NoError(t, err)

	var necessityNames, discretionaryNames []string
	for _, e := range plan.Necessities {
		necessityNames = append(necessityNames, e.Name)
	}
	for _, e := range plan.Discretionary {
		discretionaryNames = append(discretionaryNames, e.Name)
	}
	assert.ElementsMatch(t, []string{"Commute", "Groceries", "Electric bill"}, necessityNames)
	assert.ElementsMatch(t, []string{"Coffee", "Hangouts"}, discretionaryNames)
}

func TestAnalyze_WeekendOccurrences(t *testing.T) {
	plan, err := Analyze(1000, nil, []Estimate{{Name: "Brunch", Amount: 10, Frequency: FrequencyDaily}}, 0, nil)
	require.NoError(t, err)
	// 10 $/day * 2 weekend days * 4.33 weeks.
	assert.InDelta(t, 86.6, plan.WeekendExpenses, 0.01)
	assert.InDelta(t, plan.TotalExpenses, plan.WeekdayExpenses+plan.WeekendExpenses, 1e-9)
}

func TestAnalyze_Invariants(t *testing.T) {
	plan, err := Analyze(2500, []Estimate{coffee(4)}, []Estimate{{Name: "Shopping", Amount: 30, Frequency: FrequencyDaily}}, 500, nil)
	require.NoError(t, err)

	assert.InDelta(t, plan.TotalExpenses, plan.WeekdayExpenses+plan.WeekendExpenses, 1e-9)
	assert.InDelta(t, plan.ActualSavings, plan.MonthlyIncome-plan.TotalExpenses, 1e-9)
	assert.InDelta(t, plan.SavingsShortfall, plan.TargetSavings-plan.ActualSavings, 1e-9)
}

func TestAnalyze_RejectsNegativeInputs(t *testing.T) {
	_, err := Analyze(-1, nil, nil, 0, nil)
	assert.ErrorIs(t, err, ErrNegativeIncome)

	_, err = Analyze(1000, nil, nil, -5, nil)
	assert.ErrorIs(t, err, ErrNegativeTarget)

	_, err = Analyze(1000, []Estimate{{Name: "Coffee", Amount: -2, Frequency: FrequencyDaily}}, nil, 0, nil)
	assert.ErrorIs(t, err, ErrNegativeAmount)
}

// Numbers never vary with the wording seed; only suggestion text may.
func TestAnalyze_DeterministicNumbers(t *testing.T) {
	for seed := int64(0); seed < 10; seed++ {
		plan, err := Analyze(2000, []Estimate{coffee(5)}, nil, 1950, rand.New(rand.NewSource(seed)))
		require.NoError(t, err)
		assert.InDelta(t, 108.25, plan.TotalExpenses, 0.01, "seed=%d", seed)
		assert.InDelta(t, 58.25, plan.SavingsShortfall, 0.01, "seed=%d", seed)
		last := plan.Suggestions[len(plan.Suggestions)-1]
		assert.Contains(t, last, "58", "seed=%d", seed)
	}
}

func TestParseFrequency(t *testing.T) {
	for _, valid := range []string{"daily", "weekly"} {
		f, err := ParseFrequency(valid)
		require.NoError(t, err)
		assert.Equal(t, Frequency(valid), f)
	}
	_, err := ParseFrequency("monthly")
	assert.Error(t, err)
}

func ExampleAnalyze() {
	plan, _ := Analyze(2000, []Estimate{{Name: "Coffee", Amount: 5, Frequency: FrequencyDaily}}, nil, 200, nil)
	fmt.Printf("total %.2f savings %.2f\n", plan.TotalExpenses, plan.ActualSavings)
	// Output: total 108.25 savings 1891.75
}

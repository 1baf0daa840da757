package budget

import (
	"errors"
	"fmt"
	"math/rand"
	"sort"
	"strings"
)

// WeeksPerMonth is the calendar-accurate averaging constant (52/12).
const WeeksPerMonth = 4.33

// Occurrences per week for daily-frequency estimates in each class.
const (
	weekdayOccurrences = 5
	weekendOccurrences = 2
)

// Monthly cost bands for suggestion generation.
const (
	cutThreshold      = 100
	optimizeThreshold = 50
	cutFraction       = 0.30
)

var (
	ErrNegativeIncome = errors.New("monthly income must not be negative")
	ErrNegativeTarget = errors.New("target savings must not be negative")
	ErrNegativeAmount = errors.New("expense amount must not be negative")
)

// necessityKeywords classify an estimate by case-insensitive substring
// match on its name; everything else is discretionary.
var necessityKeywords = []string{"commute", "grocer", "rent", "bill"}

var cutTemplates = []string{
	"Consider reducing %s spending by about $%.0f/month. Try cutting back 1-2 times per week.",
	"Trimming %s could free up roughly $%.0f/month without much pain.",
	"%s is your biggest lever: cutting it by $%.0f/month closes most of the gap.",
}

var optimizeTemplates = []string{
	"Keep an eye on %s ($%.0f/month) - small swaps here add up.",
	"%s runs about $%.0f/month. A cheaper alternative once a week helps.",
}

var fallbackSuggestions = []string{
	"Look for small wins: subscriptions you can cancel, fees you can avoid, or one skipped treat a week.",
	"Consider finding additional income sources or reviewing your fixed expenses.",
	"Try the 30-day rule: wait 30 days before making non-essential purchases.",
}

var onTrackTemplates = []string{
	"You're on track! You'd save about $%.0f/month. Keep it up.",
	"Nice - your plan leaves roughly $%.0f/month in savings. Consider investing the surplus.",
	"With about $%.0f/month left over, you're ahead of your goal. Build that emergency fund.",
}

// Analyze converts per-occurrence spending estimates into a monthly Plan.
//
// Daily-frequency estimates occur 5 times/week in the weekday class and
// 2 times/week in the weekend class; weekly estimates occur once. Both are
// scaled by WeeksPerMonth. Negative inputs are rejected, never clamped.
//
// rng only varies the wording of suggestions; every number in the Plan is
// deterministic. Pass a seeded source to pin wording in tests; nil always
// picks the first template.
func Analyze(monthlyIncome float64, weekdayEstimates, weekendEstimates []Estimate, targetSavings float64, rng *rand.Rand) (*Plan, error) {
	if monthlyIncome < 0 {
		return nil, ErrNegativeIncome
	}
	if targetSavings < 0 {
		return nil, ErrNegativeTarget
	}

	weekdayTotal, weekday, err := monthlyize(weekdayEstimates, weekdayOccurrences)
	if err != nil {
		return nil, err
	}
	weekendTotal, weekend, err := monthlyize(weekendEstimates, weekendOccurrences)
	if err != nil {
		return nil, err
	}

	plan := &Plan{
		MonthlyIncome:   monthlyIncome,
		WeekdayExpenses: weekdayTotal,
		WeekendExpenses: weekendTotal,
		TotalExpenses:   weekdayTotal + weekendTotal,
		TargetSavings:   targetSavings,
	}
	plan.ActualSavings = monthlyIncome - plan.TotalExpenses
	plan.SavingsShortfall = targetSavings - plan.ActualSavings

	for _, e := range append(weekday, weekend...) {
		if isNecessity(e.Name) {
			plan.Necessities = append(plan.Necessities, e)
		} else {
			plan.Discretionary = append(plan.Discretionary, e)
		}
	}

	plan.Suggestions = suggest(plan, rng)
	return plan, nil
}

func monthlyize(estimates []Estimate, dailyPerWeek float64) (float64, []ClassifiedExpense, error) {
	var total float64
	out := make([]ClassifiedExpense, 0, len(estimates))
	for _, e := range estimates {
		if e.Amount < 0 {
			return 0, nil, fmt.Errorf("%w: %s", ErrNegativeAmount, e.Name)
		}
		perWeek := dailyPerWeek
		if e.Frequency == FrequencyWeekly {
			perWeek = 1
		}
		monthly := e.Amount * perWeek * WeeksPerMonth
		total += monthly
		out = append(out, ClassifiedExpense{Name: e.Name, MonthlyCost: monthly})
	}
	return total, out, nil
}

func isNecessity(name string) bool {
	lower := strings.ToLower(name)
	for _, kw := range necessityKeywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}

func suggest(plan *Plan, rng *rand.Rand) []string {
	if plan.SavingsShortfall <= 0 {
		return []string{fmt.Sprintf(pick(onTrackTemplates, rng), plan.ActualSavings)}
	}

	sorted := make([]ClassifiedExpense, len(plan.Discretionary))
	copy(sorted, plan.Discretionary)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].MonthlyCost > sorted[j].MonthlyCost })

	var suggestions []string
	remaining := plan.SavingsShortfall
	for _, e := range sorted {
		switch {
		case e.MonthlyCost > cutThreshold && remaining > 0:
			cut := e.MonthlyCost * cutFraction
			if cut > remaining {
				cut = remaining
			}
			suggestions = append(suggestions, fmt.Sprintf(pick(cutTemplates, rng), e.Name, cut))
			remaining -= cut
		case e.MonthlyCost > optimizeThreshold && e.MonthlyCost <= cutThreshold:
			suggestions = append(suggestions, fmt.Sprintf(pick(optimizeTemplates, rng), e.Name, e.MonthlyCost))
		}
	}

	if len(suggestions) == 0 {
		suggestions = append(suggestions, pick(fallbackSuggestions, rng))
	}

	suggestions = append(suggestions,
		fmt.Sprintf("You're $%.0f short of your monthly savings target.", plan.SavingsShortfall))
	return suggestions
}

func pick(options []string, rng *rand.Rand) string {
	if rng == nil {
		return options[0]
	}
	return options[rng.Intn(len(options))]
}

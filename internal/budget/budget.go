package budget

import "fmt"

// Frequency says how often an estimated expense occurs within its
// weekday/weekend class.
type Frequency string

const (
	FrequencyDaily  Frequency = "daily"
	FrequencyWeekly Frequency = "weekly"
)

func ParseFrequency(s string) (Frequency, error) {
	switch Frequency(s) {
	case FrequencyDaily, FrequencyWeekly:
		return Frequency(s), nil
	}
	return "", fmt.Errorf("unknown expense frequency %q", s)
}

// Estimate is a per-occurrence spending estimate collected during
// onboarding. It is transient input; only the serialized snapshot on the
// profile persists.
type Estimate struct {
	Name      string    `json:"name" validate:"required"`
	Amount    float64   `json:"amount" validate:"gte=0"`
	Frequency Frequency `json:"frequency" validate:"required,oneof=daily weekly"`
}

// ClassifiedExpense is an estimate monthly-ized and sorted into the
// necessity or discretionary bucket.
type ClassifiedExpense struct {
	Name        string  `json:"name"`
	MonthlyCost float64 `json:"monthlyCost"`
}

// Plan is the computed monthly budget. It is fully determined by its
// inputs (plus suggestion wording) and recomputable at any time; the
// persisted copy on the profile is a cache, not a source of truth.
type Plan struct {
	MonthlyIncome    float64             `json:"monthlyIncome"`
	TotalExpenses    float64             `json:"totalExpenses"`
	WeekdayExpenses  float64             `json:"weekdayExpenses"`
	WeekendExpenses  float64             `json:"weekendExpenses"`
	TargetSavings    float64             `json:"targetSavings"`
	ActualSavings    float64             `json:"actualSavings"`
	SavingsShortfall float64             `json:"savingsShortfall"`
	Necessities      []ClassifiedExpense `json:"necessities"`
	Discretionary    []ClassifiedExpense `json:"discretionary"`
	Suggestions      []string            `json:"suggestions"`
}

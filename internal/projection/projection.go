// Package projection computes multi-year compound savings projections.
package projection

import (
	"errors"
	"math"
)

var (
	ErrNegativeContribution = errors.New("monthly contribution must not be negative")
	ErrNegativeRate         = errors.New("annual rate must not be negative")
	ErrInvalidYears         = errors.New("years must be a positive integer")
)

// YearAmount is one point on the projection curve.
type YearAmount struct {
	Year   int     `json:"year"`
	Amount float64 `json:"amount"`
}

// ProjectSavings returns the future value of contributing monthlyContribution
// at the start of every month for 1..years years, compounded monthly at
// annualRate (a fraction, e.g. 0.05). Results are ordered by increasing year.
//
// Uses the closed-form annuity-due formula; it is undefined at rate zero, so
// that case degenerates explicitly to contribution*months.
func ProjectSavings(monthlyContribution float64, years int, annualRate float64) ([]YearAmount, error) {
	if monthlyContribution < 0 {
		return nil, ErrNegativeContribution
	}
	if annualRate < 0 {
		return nil, ErrNegativeRate
	}
	if years < 1 {
		return nil, ErrInvalidYears
	}

	monthlyRate := annualRate / 12
	results := make([]YearAmount, 0, years)

	for year := 1; year <= years; year++ {
		months := year * 12
		var amount float64
		if monthlyRate == 0 {
			amount = monthlyContribution * float64(months)
		} else {
			growth := math.Pow(1+monthlyRate, float64(months))
			amount = monthlyContribution * (growth - 1) / monthlyRate * (1 + monthlyRate)
		}
		results = append(results, YearAmount{Year: year, Amount: amount})
	}
	return results, nil
}

package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCalculateHealthScore(t *testing.T) {
	tests := []struct {
		name         string
		savingsRate  float64
		streak       int
		achievements int
		want         float64
	}{
		{"all zero", 0, 0, 0, 0},
		{"savings only, at cap rate", 0.30, 0, 0, 60},
		{"savings only, half rate", 0.15, 0, 0, 30},
		{"savings capped above 30 percent", 0.90, 0, 0, 60},
		{"streak of four", 0, 4, 0, 10},
		{"streak capped", 0, 100, 0, 25},
		{"achievements", 0, 0, 4, 12},
		{"achievements capped", 0, 0, 20, 15},
		{"perfect score", 0.30, 25, 5, 100},
		{"negative rate clamped", -0.5, 0, 2, 6},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CalculateHealthScore(tt.savingsRate, tt.streak, tt.achievements)
			assert.InDelta(t, tt.want, got, 1e-9)
		})
	}
}

func TestCalculateHealthScore_NeverExceeds100(t *testing.T) {
	got := CalculateHealthScore(5.0, 10000, 10000)
	assert.LessOrEqual(t, got, 100.0)
}

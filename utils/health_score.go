package utils

import "math"

// CalculateHealthScore folds savings rate, streak discipline, and earned
// achievements into a single 0-100 dashboard number.
//
// Savings rate dominates (up to 60 points at a 30% rate); streaks add up to
// 25 with diminishing returns; achievements add 3 each, capped at 15.
func CalculateHealthScore(savingsRate float64, currentStreak, achievementsCount int) float64 {
	if savingsRate < 0 {
		savingsRate = 0
	}

	savingsScore := math.Min(savingsRate/0.30, 1) * 60
	streakScore := math.Min(math.Sqrt(float64(currentStreak))*5, 25)
	achievementScore := math.Min(float64(achievementsCount)*3, 15)

	return savingsScore + streakScore + achievementScore
}

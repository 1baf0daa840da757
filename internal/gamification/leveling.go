// Package gamification holds the pure points/level/streak/achievement engine.
// Nothing in here touches storage; callers pass a profile snapshot in and
// apply the returned values through the service layer.
package gamification

// PointsPerLevel is the flat cost of every level.
const PointsPerLevel = 100

// LevelForPoints maps cumulative points to a level, starting at 1.
// Negative input is treated as 0 points; level math is undefined below that.
func LevelForPoints(totalPoints int) int {
	if totalPoints < 0 {
		totalPoints = 0
	}
	return totalPoints/PointsPerLevel + 1
}

// PointsToReachLevel is the cumulative points needed to finish the given
// level and enter the next one.
func PointsToReachLevel(level int) int {
	return level * PointsPerLevel
}

// PointsWithinLevel is how far into the current level the total sits.
func PointsWithinLevel(totalPoints int) int {
	if totalPoints < 0 {
		return 0
	}
	return totalPoints % PointsPerLevel
}

// LevelProgress is the display fraction [0,1) through the current level,
// measured against the cumulative total needed to finish it.
func LevelProgress(totalPoints int) float64 {
	threshold := PointsToReachLevel(LevelForPoints(totalPoints))
	return float64(PointsWithinLevel(totalPoints)) / float64(threshold)
}

package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"finQuestAPI/internal/achievement"
	"finQuestAPI/internal/gamification"
	"finQuestAPI/internal/profile"
	"finQuestAPI/utils"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
)

var (
	pointsAwarded = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "finquest_points_awarded_total",
		Help: "Total points granted through the ledger",
	})
	achievementsUnlocked = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "finquest_achievements_unlocked_total",
		Help: "Total achievements awarded",
	})
	streaksExtended = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "finquest_streaks_extended_total",
		Help: "Total consecutive-day streak extensions",
	})
)

// InitGamificationMetrics registers the domain counters. Call from main.go.
func InitGamificationMetrics() {
	prometheus.MustRegister(pointsAwarded, achievementsUnlocked, streaksExtended)
}

// PushProvider delivers best-effort notifications on unlocks and level-ups.
type PushProvider interface {
	SendPush(ctx context.Context, tokens []string, title, body string, data map[string]string) error
}

type GamificationService struct {
	db       *pgxpool.Pool
	notifier *NotificationService
}

func NewGamificationService(db *pgxpool.Pool, notifier *NotificationService) *GamificationService {
	return &GamificationService{db: db, notifier: notifier}
}

// StreakStatus is returned from activity pings.
type StreakStatus struct {
	StreakIncreased bool `json:"streakIncreased"`
	CurrentStreak   int  `json:"currentStreak"`
	BestStreak      int  `json:"bestStreak"`
}

// AddPoints applies a point delta with a single server-side increment, so
// overlapping requests against the same profile cannot lose an update. The
// level is recomputed in the same statement from the incremented total
// (floor(points/100)+1, floored at zero points).
func (s *GamificationService) AddPoints(ctx context.Context, userID uuid.UUID, delta int, reason string) (*gamification.PointsResult, error) {
	query := `
	UPDATE profiles p
	SET total_points = GREATEST(p.total_points + $2, 0),
	    current_level = FLOOR(GREATEST(p.total_points + $2, 0) / 100.0) + 1,
	    updated_at = NOW()
	FROM (SELECT id, current_level AS prev_level FROM profiles WHERE id = $1 FOR UPDATE) prev
	WHERE p.id = prev.id
	RETURNING p.total_points, p.current_level, p.current_level > prev.prev_level`

	res := &gamification.PointsResult{Reason: reason}
	err := s.db.QueryRow(ctx, query, userID, delta).Scan(&res.NewTotal, &res.NewLevel, &res.LeveledUp)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrProfileNotFound
		}
		return nil, fmt.Errorf("failed to add points: %w", err)
	}

	if delta > 0 {
		pointsAwarded.Add(float64(delta))
	}
	log.Printf("Points: %+d to %s (%s), total now %d (level %d)", delta, userID, reason, res.NewTotal, res.NewLevel)

	if res.LeveledUp && s.notifier != nil {
		s.notifier.SendLevelUpPush(ctx, userID, res.NewLevel)
	}
	return res, nil
}

// RecordActivity advances the daily streak for an activity happening now.
// The write is conditioned on the streak fields the decision was computed
// from, so a racing duplicate ping collapses to a no-op instead of double
// counting, same as a second ping later the same day.
func (s *GamificationService) RecordActivity(ctx context.Context, p *profile.Profile) (*StreakStatus, error) {
	res := gamification.AdvanceStreak(p.Snapshot(), time.Now().UTC())
	status := &StreakStatus{
		StreakIncreased: res.StreakIncreased,
		CurrentStreak:   res.CurrentStreak,
		BestStreak:      res.BestStreak,
	}
	if !res.Changed {
		return status, nil
	}

	tag, err := s.db.Exec(ctx, `
	UPDATE profiles
	SET current_streak = $2, best_streak = $3, last_activity_date = $4, updated_at = NOW()
	WHERE id = $1 AND last_activity_date IS NOT DISTINCT FROM $5`,
		p.ID, res.CurrentStreak, res.BestStreak, res.LastActivityDate, p.LastActivityDate)
	if err != nil {
		return nil, fmt.Errorf("failed to update streak: %w", err)
	}
	if tag.RowsAffected() == 0 {
		// A concurrent ping already logged today; it owns the reward.
		status.StreakIncreased = false
		return status, nil
	}

	if res.StreakIncreased {
		streaksExtended.Inc()
	}
	if res.Award != nil {
		if _, err := s.AddPoints(ctx, p.ID, res.Award.Delta, res.Award.Reason); err != nil {
			return nil, err
		}
	}
	return status, nil
}

// GetCatalog loads the achievement catalog in stable award order.
func (s *GamificationService) GetCatalog(ctx context.Context) ([]achievement.Achievement, error) {
	rows, err := s.db.Query(ctx, `
	SELECT id, name, description, icon, requirement_type, requirement_value, points_reward, tier, created_at
	FROM achievements
	ORDER BY points_reward ASC, created_at ASC`)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch achievement catalog: %w", err)
	}
	defer rows.Close()

	var catalog []achievement.Achievement
	for rows.Next() {
		var a achievement.Achievement
		var reqType string
		if err := rows.Scan(&a.ID, &a.Name, &a.Description, &a.Icon, &reqType, &a.RequirementValue, &a.PointsReward, &a.Tier, &a.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan achievement: %w", err)
		}
		a.Requirement, err = achievement.ParseRequirement(reqType)
		if err != nil {
			log.Printf("GetCatalog: dropping achievement %q: %v", a.Name, err)
			continue
		}
		catalog = append(catalog, a)
	}
	return catalog, rows.Err()
}

func (s *GamificationService) getEarnedIDs(ctx context.Context, userID uuid.UUID) (map[uuid.UUID]bool, error) {
	rows, err := s.db.Query(ctx, `SELECT achievement_id FROM user_achievements WHERE user_id = $1`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch earned achievements: %w", err)
	}
	defer rows.Close()

	earned := make(map[uuid.UUID]bool)
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan earned achievement: %w", err)
		}
		earned[id] = true
	}
	return earned, rows.Err()
}

// CheckAndAwardAchievements evaluates the catalog against live metrics and
// awards whatever newly qualifies, in catalog order. Award recording is
// idempotent: the insert is gated on the (user_id, achievement_id)
// uniqueness constraint, and a conflict means "already awarded", not an
// error. Points are only granted for rows this call actually inserted, so
// a failed insert grants nothing for that achievement.
func (s *GamificationService) CheckAndAwardAchievements(ctx context.Context, userID uuid.UUID, m gamification.Metrics) ([]achievement.Achievement, error) {
	catalog, err := s.GetCatalog(ctx)
	if err != nil {
		return nil, err
	}
	earned, err := s.getEarnedIDs(ctx, userID)
	if err != nil {
		return nil, err
	}

	var awarded []achievement.Achievement
	for _, a := range gamification.EvaluateAchievements(catalog, earned, m) {
		tag, err := s.db.Exec(ctx, `
		INSERT INTO user_achievements (id, user_id, achievement_id, earned_at)
		VALUES ($1, $2, $3, NOW())
		ON CONFLICT (user_id, achievement_id) DO NOTHING`,
			uuid.New(), userID, a.ID)
		if err != nil {
			return awarded, fmt.Errorf("failed to record achievement %q: %w", a.Name, err)
		}
		if tag.RowsAffected() == 0 {
			continue
		}

		if _, err := s.AddPoints(ctx, userID, a.PointsReward, "Achievement unlocked: "+a.Name); err != nil {
			return awarded, err
		}
		achievementsUnlocked.Inc()
		awarded = append(awarded, a)

		if s.notifier != nil {
			s.notifier.SendAchievementPush(ctx, userID, a.Name)
		}
	}
	return awarded, nil
}

// GetAchievements returns the full catalog with per-user earned status.
func (s *GamificationService) GetAchievements(ctx context.Context, userID uuid.UUID) ([]*achievement.AchievementWithStatus, error) {
	rows, err := s.db.Query(ctx, `
	SELECT a.id, a.name, a.description, a.icon, a.requirement_type, a.requirement_value, a.points_reward, a.tier, a.created_at,
	       ua.earned_at
	FROM achievements a
	LEFT JOIN user_achievements ua ON a.id = ua.achievement_id AND ua.user_id = $1
	ORDER BY a.points_reward ASC, a.created_at ASC`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch achievements: %w", err)
	}
	defer rows.Close()

	var achievements []*achievement.AchievementWithStatus
	for rows.Next() {
		ach := &achievement.AchievementWithStatus{}
		var reqType string
		if err := rows.Scan(&ach.ID, &ach.Name, &ach.Description, &ach.Icon, &reqType, &ach.RequirementValue, &ach.PointsReward, &ach.Tier, &ach.CreatedAt, &ach.EarnedAt); err != nil {
			return nil, fmt.Errorf("failed to scan achievement: %w", err)
		}
		ach.Requirement, err = achievement.ParseRequirement(reqType)
		if err != nil {
			log.Printf("GetAchievements: dropping achievement %q: %v", ach.Name, err)
			continue
		}
		ach.Earned = ach.EarnedAt != nil
		achievements = append(achievements, ach)
	}
	return achievements, rows.Err()
}

// GetStats assembles the dashboard readout for a profile.
func (s *GamificationService) GetStats(ctx context.Context, p *profile.Profile) (*profile.Stats, error) {
	stats := &profile.Stats{
		TotalPoints:       p.TotalPoints,
		CurrentLevel:      p.CurrentLevel,
		PointsWithinLevel: gamification.PointsWithinLevel(p.TotalPoints),
		PointsToNextLevel: gamification.PointsToReachLevel(p.CurrentLevel),
		LevelProgress:     gamification.LevelProgress(p.TotalPoints),
		CurrentStreak:     p.CurrentStreak,
		BestStreak:        p.BestStreak,
	}

	err := s.db.QueryRow(ctx, `
	SELECT
		(SELECT COUNT(*) FROM expenses WHERE user_id = $1),
		(SELECT COUNT(*) FROM savings_goals WHERE user_id = $1),
		(SELECT COUNT(*) FROM user_achievements WHERE user_id = $1),
		(SELECT COALESCE(SUM(amount), 0) FROM expenses
		 WHERE user_id = $1 AND date_trunc('month', spent_at) = date_trunc('month', NOW()))`,
		p.ID).Scan(&stats.ExpenseCount, &stats.GoalCount, &stats.AchievementsCount, &stats.MonthlySpent)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch profile stats: %w", err)
	}

	savingsRate := 0.0
	if p.MonthlyIncome > 0 {
		savingsRate = (p.MonthlyIncome - stats.MonthlySpent) / p.MonthlyIncome
	}
	stats.HealthScore = utils.CalculateHealthScore(savingsRate, stats.CurrentStreak, stats.AchievementsCount)
	return stats, nil
}

// Metrics loads the live counters the achievement evaluator needs.
func (s *GamificationService) Metrics(ctx context.Context, p *profile.Profile) (gamification.Metrics, error) {
	m := gamification.Metrics{CurrentStreak: p.CurrentStreak}
	err := s.db.QueryRow(ctx, `
	SELECT
		(SELECT COUNT(*) FROM expenses WHERE user_id = $1),
		(SELECT COUNT(*) FROM savings_goals WHERE user_id = $1)`,
		p.ID).Scan(&m.ExpenseCount, &m.GoalCount)
	if err != nil {
		return m, fmt.Errorf("failed to fetch gamification metrics: %w", err)
	}
	return m, nil
}

package services

import (
	"context"
	"errors"
	"fmt"
	"log"

	"finQuestAPI/internal/goal"
	"finQuestAPI/internal/profile"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// GoalCreatedPoints is granted for every new savings goal.
const GoalCreatedPoints = 15

var ErrGoalNotFound = errors.New("savings goal not found")

type GoalService struct {
	db           *pgxpool.Pool
	gamification *GamificationService
}

func NewGoalService(db *pgxpool.Pool, gamification *GamificationService) *GoalService {
	return &GoalService{db: db, gamification: gamification}
}

// CreateGoal stores the goal, grants the creation points, and sweeps
// achievements, since goals_created is one of the gated metrics.
func (s *GoalService) CreateGoal(ctx context.Context, p *profile.Profile, req *goal.CreateGoalRequest) (*goal.SavingsGoal, error) {
	g := &goal.SavingsGoal{
		ID:           uuid.New(),
		UserID:       p.ID,
		Name:         req.Name,
		TargetAmount: req.TargetAmount,
		Deadline:     req.Deadline,
	}
	err := s.db.QueryRow(ctx, `
	INSERT INTO savings_goals (id, user_id, name, target_amount, current_amount, deadline, created_at, updated_at)
	VALUES ($1, $2, $3, $4, 0, $5, NOW(), NOW())
	RETURNING current_amount, created_at, updated_at`,
		g.ID, g.UserID, g.Name, g.TargetAmount, g.Deadline).Scan(&g.CurrentAmount, &g.CreatedAt, &g.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to create goal: %w", err)
	}

	if _, err := s.gamification.AddPoints(ctx, p.ID, GoalCreatedPoints, "Goal created"); err != nil {
		return g, err
	}

	metrics, err := s.gamification.Metrics(ctx, p)
	if err != nil {
		return g, err
	}
	if _, err := s.gamification.CheckAndAwardAchievements(ctx, p.ID, metrics); err != nil {
		log.Printf("CreateGoal: achievement sweep failed for %s: %v", p.ID, err)
		return g, err
	}
	return g, nil
}

func (s *GoalService) ListGoals(ctx context.Context, userID uuid.UUID) ([]*goal.SavingsGoal, error) {
	rows, err := s.db.Query(ctx, `
	SELECT id, user_id, name, target_amount, current_amount, deadline, created_at, updated_at
	FROM savings_goals
	WHERE user_id = $1
	ORDER BY created_at ASC`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list goals: %w", err)
	}
	defer rows.Close()

	var goals []*goal.SavingsGoal
	for rows.Next() {
		g := &goal.SavingsGoal{}
		if err := rows.Scan(&g.ID, &g.UserID, &g.Name, &g.TargetAmount, &g.CurrentAmount, &g.Deadline, &g.CreatedAt, &g.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan goal: %w", err)
		}
		goals = append(goals, g)
	}
	return goals, rows.Err()
}

func (s *GoalService) UpdateGoal(ctx context.Context, userID, goalID uuid.UUID, req *goal.UpdateGoalRequest) (*goal.SavingsGoal, error) {
	g := &goal.SavingsGoal{}
	err := s.db.QueryRow(ctx, `
	UPDATE savings_goals
	SET name = COALESCE($3, name),
	    target_amount = COALESCE($4, target_amount),
	    current_amount = COALESCE($5, current_amount),
	    updated_at = NOW()
	WHERE id = $1 AND user_id = $2
	RETURNING id, user_id, name, target_amount, current_amount, deadline, created_at, updated_at`,
		goalID, userID, req.Name, req.TargetAmount, req.CurrentAmount).Scan(
		&g.ID, &g.UserID, &g.Name, &g.TargetAmount, &g.CurrentAmount, &g.Deadline, &g.CreatedAt, &g.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrGoalNotFound
		}
		return nil, fmt.Errorf("failed to update goal: %w", err)
	}
	return g, nil
}

func (s *GoalService) DeleteGoal(ctx context.Context, userID, goalID uuid.UUID) error {
	tag, err := s.db.Exec(ctx, `DELETE FROM savings_goals WHERE id = $1 AND user_id = $2`, goalID, userID)
	if err != nil {
		return fmt.Errorf("failed to delete goal: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrGoalNotFound
	}
	return nil
}

package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"finQuestAPI/internal/expense"
	"finQuestAPI/internal/profile"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ExpenseLoggedPoints is granted for every logged expense.
const ExpenseLoggedPoints = 5

var ErrExpenseNotFound = errors.New("expense not found")

type ExpenseService struct {
	db           *pgxpool.Pool
	gamification *GamificationService
}

func NewExpenseService(db *pgxpool.Pool, gamification *GamificationService) *ExpenseService {
	return &ExpenseService{db: db, gamification: gamification}
}

// CreateExpense stores the record and runs the gamification chain: streak
// advance, +5 points for logging, then an achievement sweep against the new
// counts. The expense write is the source of truth; if a gamification step
// fails after it, the expense stays and the failure is returned.
func (s *ExpenseService) CreateExpense(ctx context.Context, p *profile.Profile, req *expense.CreateExpenseRequest) (*expense.CreateExpenseResponse, error) {
	spentAt := time.Now().UTC()
	if req.SpentAt != nil {
		spentAt = req.SpentAt.UTC()
	}

	e := &expense.Expense{
		ID:          uuid.New(),
		UserID:      p.ID,
		Amount:      req.Amount,
		Description: req.Description,
		Category:    req.Category,
		SpentAt:     spentAt,
	}
	err := s.db.QueryRow(ctx, `
	INSERT INTO expenses (id, user_id, amount, description, category, spent_at, created_at)
	VALUES ($1, $2, $3, $4, $5, $6, NOW())
	RETURNING created_at`,
		e.ID, e.UserID, e.Amount, e.Description, e.Category, e.SpentAt).Scan(&e.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to create expense: %w", err)
	}

	resp := &expense.CreateExpenseResponse{Expense: e}

	streak, err := s.gamification.RecordActivity(ctx, p)
	if err != nil {
		return resp, err
	}
	resp.StreakIncreased = streak.StreakIncreased
	resp.CurrentStreak = streak.CurrentStreak

	points, err := s.gamification.AddPoints(ctx, p.ID, ExpenseLoggedPoints, "Expense logged")
	if err != nil {
		return resp, err
	}
	resp.PointsAwarded = ExpenseLoggedPoints
	resp.LeveledUp = points.LeveledUp

	metrics, err := s.gamification.Metrics(ctx, p)
	if err != nil {
		return resp, err
	}
	metrics.CurrentStreak = streak.CurrentStreak

	awarded, err := s.gamification.CheckAndAwardAchievements(ctx, p.ID, metrics)
	if err != nil {
		// Awards already recorded stay recorded; surface the failure.
		log.Printf("CreateExpense: achievement sweep failed for %s: %v", p.ID, err)
		return resp, err
	}
	for _, a := range awarded {
		resp.NewAchievements = append(resp.NewAchievements, a.Name)
		resp.PointsAwarded += a.PointsReward
	}
	return resp, nil
}

func (s *ExpenseService) ListExpenses(ctx context.Context, userID uuid.UUID, limit int) ([]*expense.Expense, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	rows, err := s.db.Query(ctx, `
	SELECT id, user_id, amount, description, category, spent_at, created_at
	FROM expenses
	WHERE user_id = $1
	ORDER BY spent_at DESC
	LIMIT $2`, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list expenses: %w", err)
	}
	defer rows.Close()

	var expenses []*expense.Expense
	for rows.Next() {
		e := &expense.Expense{}
		if err := rows.Scan(&e.ID, &e.UserID, &e.Amount, &e.Description, &e.Category, &e.SpentAt, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan expense: %w", err)
		}
		expenses = append(expenses, e)
	}
	return expenses, rows.Err()
}

func (s *ExpenseService) DeleteExpense(ctx context.Context, userID, expenseID uuid.UUID) error {
	tag, err := s.db.Exec(ctx, `DELETE FROM expenses WHERE id = $1 AND user_id = $2`, expenseID, userID)
	if err != nil {
		return fmt.Errorf("failed to delete expense: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrExpenseNotFound
	}
	return nil
}

// MonthlySummary aggregates the current calendar month for the dashboard
// and the companion context.
func (s *ExpenseService) MonthlySummary(ctx context.Context, userID uuid.UUID) (*expense.MonthlySummary, error) {
	rows, err := s.db.Query(ctx, `
	SELECT category, COUNT(*), COALESCE(SUM(amount), 0)
	FROM expenses
	WHERE user_id = $1 AND date_trunc('month', spent_at) = date_trunc('month', NOW())
	GROUP BY category`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to summarize expenses: %w", err)
	}
	defer rows.Close()

	summary := &expense.MonthlySummary{ByCategory: make(map[string]float64)}
	for rows.Next() {
		var category string
		var count int
		var total float64
		if err := rows.Scan(&category, &count, &total); err != nil {
			return nil, fmt.Errorf("failed to scan summary row: %w", err)
		}
		summary.ByCategory[category] = total
		summary.ExpenseCount += count
		summary.TotalSpent += total
	}
	return summary, rows.Err()
}

package expense

import (
	"time"

	"github.com/google/uuid"
)

type Expense struct {
	ID          uuid.UUID `json:"id" db:"id"`
	UserID      uuid.UUID `json:"user_id" db:"user_id"`
	Amount      float64   `json:"amount" db:"amount"`
	Description string    `json:"description" db:"description"`
	Category    string    `json:"category" db:"category"`
	SpentAt     time.Time `json:"spent_at" db:"spent_at"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
}

type CreateExpenseRequest struct {
	Amount      float64    `json:"amount" validate:"required,gt=0"`
	Description string     `json:"description" validate:"required,max=200"`
	Category    string     `json:"category" validate:"required,max=60"`
	SpentAt     *time.Time `json:"spent_at,omitempty"`
}

// CreateExpenseResponse bundles the stored record with the gamification
// side effects of logging it, so the UI can pop toasts in one round trip.
type CreateExpenseResponse struct {
	Expense          *Expense `json:"expense"`
	PointsAwarded    int      `json:"points_awarded"`
	LeveledUp        bool     `json:"leveled_up"`
	StreakIncreased  bool     `json:"streak_increased"`
	CurrentStreak    int      `json:"current_streak"`
	NewAchievements  []string `json:"new_achievements"`
	CompanionComment string   `json:"companion_comment,omitempty"`
}

// MonthlySummary aggregates the current calendar month.
type MonthlySummary struct {
	TotalSpent   float64            `json:"total_spent"`
	ExpenseCount int                `json:"expense_count"`
	ByCategory   map[string]float64 `json:"by_category"`
}

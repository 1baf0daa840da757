package goal

import (
	"time"

	"github.com/google/uuid"
)

type SavingsGoal struct {
	ID            uuid.UUID  `json:"id" db:"id"`
	UserID        uuid.UUID  `json:"user_id" db:"user_id"`
	Name          string     `json:"name" db:"name"`
	TargetAmount  float64    `json:"target_amount" db:"target_amount"`
	CurrentAmount float64    `json:"current_amount" db:"current_amount"`
	Deadline      *time.Time `json:"deadline,omitempty" db:"deadline"`
	CreatedAt     time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at" db:"updated_at"`
}

// Progress is the display fraction, capped at 1.
func (g *SavingsGoal) Progress() float64 {
	if g.TargetAmount <= 0 {
		return 0
	}
	p := g.CurrentAmount / g.TargetAmount
	if p > 1 {
		return 1
	}
	return p
}

type CreateGoalRequest struct {
	Name         string     `json:"name" validate:"required,max=100"`
	TargetAmount float64    `json:"target_amount" validate:"required,gt=0"`
	Deadline     *time.Time `json:"deadline,omitempty"`
}

type UpdateGoalRequest struct {
	Name          *string  `json:"name,omitempty" validate:"omitempty,max=100"`
	TargetAmount  *float64 `json:"target_amount,omitempty" validate:"omitempty,gt=0"`
	CurrentAmount *float64 `json:"current_amount,omitempty" validate:"omitempty,gte=0"`
}

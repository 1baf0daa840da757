package profile

import (
	"time"

	"finQuestAPI/internal/budget"
	"finQuestAPI/internal/gamification"
	"finQuestAPI/internal/persona"

	"github.com/google/uuid"
)

// Profile is the per-user aggregate: identity (provisioned from the Clerk
// webhook), gamification state, and the onboarding budget snapshot. It is
// mutated only through the gamification, budget, and onboarding paths.
type Profile struct {
	ID            uuid.UUID `json:"id"`
	ClerkID       string    `json:"clerkId"`
	Email         string    `json:"email"`
	Username      string    `json:"username"`
	FirstName     string    `json:"firstName"`
	LastName      string    `json:"lastName"`
	ImageURL      string    `json:"imageUrl,omitempty"`
	EmailVerified bool      `json:"emailVerified"`

	TotalPoints      int        `json:"total_points"`
	CurrentLevel     int        `json:"current_level"`
	CurrentStreak    int        `json:"current_streak"`
	BestStreak       int        `json:"best_streak"`
	LastActivityDate *time.Time `json:"last_activity_date,omitempty"`

	OnboardingCompleted bool            `json:"onboarding_completed"`
	MonthlyIncome       float64         `json:"monthly_income"`
	MonthlyBudget       float64         `json:"monthly_budget"`
	TargetSavings       float64         `json:"target_savings"`
	Persona             persona.Persona `json:"ai_persona"`
	CompanionName       string          `json:"companion_name"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Snapshot extracts the slice of the profile the pure engine operates on.
func (p *Profile) Snapshot() gamification.ProfileSnapshot {
	return gamification.ProfileSnapshot{
		TotalPoints:      p.TotalPoints,
		CurrentLevel:     p.CurrentLevel,
		CurrentStreak:    p.CurrentStreak,
		BestStreak:       p.BestStreak,
		LastActivityDate: p.LastActivityDate,
	}
}

type CreateProfileRequest struct {
	ClerkID   string `json:"clerkId" validate:"required"`
	Email     string `json:"email" validate:"required,email"`
	Username  string `json:"username" validate:"required,min=3,max=30"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	ImageURL  string `json:"imageUrl,omitempty"`
}

// OnboardingRequest carries everything the wizard collects. The estimate
// lists are transient input to the budget analyzer; they persist only as a
// serialized snapshot on the profile.
type OnboardingRequest struct {
	MonthlyIncome    float64           `json:"monthlyIncome" validate:"gte=0"`
	TargetSavings    float64           `json:"targetSavings" validate:"gte=0"`
	WeekdayEstimates []budget.Estimate `json:"weekdayEstimates" validate:"dive"`
	WeekendEstimates []budget.Estimate `json:"weekendEstimates" validate:"dive"`
	Persona          string            `json:"aiPersona" validate:"required,oneof=roaster hype_man wise_sage"`
	CompanionName    string            `json:"companionName" validate:"max=40"`
}

// Stats is the dashboard readout.
type Stats struct {
	TotalPoints       int     `json:"total_points"`
	CurrentLevel      int     `json:"current_level"`
	PointsWithinLevel int     `json:"points_within_level"`
	PointsToNextLevel int     `json:"points_to_next_level"`
	LevelProgress     float64 `json:"level_progress"`
	CurrentStreak     int     `json:"current_streak"`
	BestStreak        int     `json:"best_streak"`
	ExpenseCount      int     `json:"expense_count"`
	GoalCount         int     `json:"goal_count"`
	AchievementsCount int     `json:"achievements_count"`
	MonthlySpent      float64 `json:"monthly_spent"`
	HealthScore       float64 `json:"health_score"`
}

package achievement

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Requirement is the closed set of metrics an achievement can be gated on.
// Catalog rows store the string value; ParseRequirement rejects anything
// outside the set so unknown rows fail loudly instead of silently never firing.
type Requirement string

const (
	RequirementExpensesLogged Requirement = "expenses_logged"
	RequirementStreakDays     Requirement = "streak"
	RequirementGoalsCreated   Requirement = "goals_created"
)

func ParseRequirement(s string) (Requirement, error) {
	switch Requirement(s) {
	case RequirementExpensesLogged, RequirementStreakDays, RequirementGoalsCreated:
		return Requirement(s), nil
	}
	return "", fmt.Errorf("unknown achievement requirement type %q", s)
}

// Tier is a display rank only; it plays no part in award logic.
type Tier string

const (
	TierBronze   Tier = "bronze"
	TierSilver   Tier = "silver"
	TierGold     Tier = "gold"
	TierPlatinum Tier = "platinum"
)

type Achievement struct {
	ID               uuid.UUID   `json:"id" db:"id"`
	Name             string      `json:"name" db:"name"`
	Description      string      `json:"description" db:"description"`
	Icon             string      `json:"icon" db:"icon"`
	Requirement      Requirement `json:"requirement_type" db:"requirement_type"`
	RequirementValue int         `json:"requirement_value" db:"requirement_value"`
	PointsReward     int         `json:"points_reward" db:"points_reward"`
	Tier             Tier        `json:"tier" db:"tier"`
	CreatedAt        time.Time   `json:"created_at" db:"created_at"`
}

// UserAchievement is the award record. (user_id, achievement_id) is unique
// at the storage layer; the award path relies on that for idempotence.
type UserAchievement struct {
	ID            uuid.UUID `json:"id" db:"id"`
	UserID        uuid.UUID `json:"user_id" db:"user_id"`
	AchievementID uuid.UUID `json:"achievement_id" db:"achievement_id"`
	EarnedAt      time.Time `json:"earned_at" db:"earned_at"`
}

type AchievementWithStatus struct {
	Achievement
	Earned   bool       `json:"earned"`
	EarnedAt *time.Time `json:"earned_at,omitempty"`
}

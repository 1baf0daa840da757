package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"finQuestAPI/internal/budget"
	"finQuestAPI/internal/persona"
	"finQuestAPI/internal/profile"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrProfileNotFound = errors.New("profile not found")

type ProfileService struct {
	db *pgxpool.Pool
}

func NewProfileService(db *pgxpool.Pool) *ProfileService {
	return &ProfileService{db: db}
}

const profileColumns = `id, clerk_id, email, username, first_name, last_name, image_url, email_verified,
	total_points, current_level, current_streak, best_streak, last_activity_date,
	onboarding_completed, monthly_income, monthly_budget, target_savings, ai_persona, companion_name,
	created_at, updated_at`

func scanProfile(row pgx.Row) (*profile.Profile, error) {
	p := &profile.Profile{}
	var personaStr string
	err := row.Scan(
		&p.ID,
		&p.ClerkID,
		&p.Email,
		&p.Username,
		&p.FirstName,
		&p.LastName,
		&p.ImageURL,
		&p.EmailVerified,
		&p.TotalPoints,
		&p.CurrentLevel,
		&p.CurrentStreak,
		&p.BestStreak,
		&p.LastActivityDate,
		&p.OnboardingCompleted,
		&p.MonthlyIncome,
		&p.MonthlyBudget,
		&p.TargetSavings,
		&personaStr,
		&p.CompanionName,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	// Profiles created before onboarding carry an empty persona.
	if personaStr != "" {
		p.Persona, err = persona.Parse(personaStr)
		if err != nil {
			return nil, fmt.Errorf("profile %s: %w", p.ID, err)
		}
	}
	return p, nil
}

// CreateProfile provisions a profile from the Clerk webhook. Gamification
// fields start at their zero state (level 1, no streak).
func (s *ProfileService) CreateProfile(ctx context.Context, req *profile.CreateProfileRequest) (*profile.Profile, error) {
	query := `
	INSERT INTO profiles (id, clerk_id, email, username, first_name, last_name, image_url, current_level, created_at, updated_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7, 1, NOW(), NOW())
	ON CONFLICT (clerk_id) DO UPDATE SET email = EXCLUDED.email, updated_at = NOW()
	RETURNING ` + profileColumns

	row := s.db.QueryRow(ctx, query,
		uuid.New(), req.ClerkID, req.Email, req.Username, req.FirstName, req.LastName, req.ImageURL)
	p, err := scanProfile(row)
	if err != nil {
		return nil, fmt.Errorf("failed to create profile: %w", err)
	}
	return p, nil
}

func (s *ProfileService) GetProfileByClerkID(ctx context.Context, clerkID string) (*profile.Profile, error) {
	query := `SELECT ` + profileColumns + ` FROM profiles WHERE clerk_id = $1`

	p, err := scanProfile(s.db.QueryRow(ctx, query, clerkID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrProfileNotFound
		}
		return nil, fmt.Errorf("failed to get profile: %w", err)
	}
	return p, nil
}

func (s *ProfileService) DeleteProfile(ctx context.Context, clerkID string) error {
	tag, err := s.db.Exec(ctx, `DELETE FROM profiles WHERE clerk_id = $1`, clerkID)
	if err != nil {
		return fmt.Errorf("failed to delete profile: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrProfileNotFound
	}
	return nil
}

// CompleteOnboarding persists the wizard's answers plus the computed budget
// snapshot. monthly_budget and the estimate JSON are a denormalized cache;
// the plan stays recomputable from the same inputs at any time.
func (s *ProfileService) CompleteOnboarding(ctx context.Context, clerkID string, req *profile.OnboardingRequest, plan *budget.Plan) (*profile.Profile, error) {
	pers, err := persona.Parse(req.Persona)
	if err != nil {
		return nil, err
	}
	companionName := req.CompanionName
	if companionName == "" {
		companionName = pers.DefaultCompanionName()
	}

	weekdayJSON, err := json.Marshal(req.WeekdayEstimates)
	if err != nil {
		return nil, fmt.Errorf("failed to serialize weekday estimates: %w", err)
	}
	weekendJSON, err := json.Marshal(req.WeekendEstimates)
	if err != nil {
		return nil, fmt.Errorf("failed to serialize weekend estimates: %w", err)
	}
	suggestionsJSON, err := json.Marshal(plan.Suggestions)
	if err != nil {
		return nil, fmt.Errorf("failed to serialize suggestions: %w", err)
	}

	query := `
	UPDATE profiles
	SET onboarding_completed = TRUE,
	    monthly_income = $2,
	    target_savings = $3,
	    monthly_budget = $4,
	    weekday_estimates = $5,
	    weekend_estimates = $6,
	    budget_suggestions = $7,
	    ai_persona = $8,
	    companion_name = $9,
	    updated_at = NOW()
	WHERE clerk_id = $1
	RETURNING ` + profileColumns

	row := s.db.QueryRow(ctx, query,
		clerkID, req.MonthlyIncome, req.TargetSavings, plan.TotalExpenses,
		weekdayJSON, weekendJSON, suggestionsJSON, string(pers), companionName)
	p, err := scanProfile(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrProfileNotFound
		}
		return nil, fmt.Errorf("failed to complete onboarding: %w", err)
	}
	return p, nil
}

// GetStoredEstimates reads back the serialized onboarding estimates so the
// budget plan can be recomputed without re-running the wizard.
func (s *ProfileService) GetStoredEstimates(ctx context.Context, clerkID string) (weekday, weekend []budget.Estimate, err error) {
	var weekdayJSON, weekendJSON []byte
	err = s.db.QueryRow(ctx,
		`SELECT COALESCE(weekday_estimates, '[]'), COALESCE(weekend_estimates, '[]') FROM profiles WHERE clerk_id = $1`,
		clerkID).Scan(&weekdayJSON, &weekendJSON)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil, ErrProfileNotFound
		}
		return nil, nil, fmt.Errorf("failed to read estimates: %w", err)
	}
	if err := json.Unmarshal(weekdayJSON, &weekday); err != nil {
		return nil, nil, fmt.Errorf("corrupt weekday estimates: %w", err)
	}
	if err := json.Unmarshal(weekendJSON, &weekend); err != nil {
		return nil, nil, fmt.Errorf("corrupt weekend estimates: %w", err)
	}
	return weekday, weekend, nil
}

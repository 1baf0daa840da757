package services

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"finQuestAPI/internal/budget"
	"finQuestAPI/internal/profile"
	"finQuestAPI/internal/projection"
)

// BudgetService fronts the pure analyzer and projector. The persisted plan
// on the profile is a cache; GetPlan always recomputes from the stored
// estimate snapshot.
type BudgetService struct {
	profiles *ProfileService

	mu  sync.Mutex
	rng *rand.Rand
}

func NewBudgetService(profiles *ProfileService) *BudgetService {
	return &BudgetService{
		profiles: profiles,
		rng:      rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// NewBudgetServiceWithSeed pins suggestion wording for tests.
func NewBudgetServiceWithSeed(profiles *ProfileService, seed int64) *BudgetService {
	return &BudgetService{
		profiles: profiles,
		rng:      rand.New(rand.NewSource(seed)),
	}
}

// Analyze runs the budget analyzer over wizard input without persisting.
func (s *BudgetService) Analyze(req *profile.OnboardingRequest) (*budget.Plan, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return budget.Analyze(req.MonthlyIncome, req.WeekdayEstimates, req.WeekendEstimates, req.TargetSavings, s.rng)
}

// GetPlan recomputes the plan from the profile's stored estimates.
func (s *BudgetService) GetPlan(ctx context.Context, p *profile.Profile) (*budget.Plan, error) {
	weekday, weekend, err := s.profiles.GetStoredEstimates(ctx, p.ClerkID)
	if err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return budget.Analyze(p.MonthlyIncome, weekday, weekend, p.TargetSavings, s.rng)
}

// Project computes the compound savings projection.
func (s *BudgetService) Project(monthlyContribution float64, years int, annualRate float64) ([]projection.YearAmount, error) {
	return projection.ProjectSavings(monthlyContribution, years, annualRate)
}

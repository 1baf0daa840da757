package handlers

import (
	"context"
	"errors"
	"net/http"

	"finQuestAPI/internal/budget"
	"finQuestAPI/internal/profile"
	"finQuestAPI/internal/projection"
	"finQuestAPI/services"
)

type BudgetHandler struct {
	profiles *services.ProfileService
	budget   *services.BudgetService
}

func NewBudgetHandler(profiles *services.ProfileService, budgetService *services.BudgetService) *BudgetHandler {
	return &BudgetHandler{profiles: profiles, budget: budgetService}
}

// AnalyzeBudget runs the analyzer over ad-hoc input without persisting,
// so the wizard can preview a plan before committing.
func (h *BudgetHandler) AnalyzeBudget(w http.ResponseWriter, r *http.Request) {
	var req profile.OnboardingRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	plan, err := h.budget.Analyze(&req)
	if err != nil {
		if errors.Is(err, budget.ErrNegativeIncome) || errors.Is(err, budget.ErrNegativeTarget) || errors.Is(err, budget.ErrNegativeAmount) {
			respondWithError(w, http.StatusBadRequest, err.Error())
			return
		}
		respondWithError(w, http.StatusInternalServerError, "Failed to analyze budget")
		return
	}
	respondWithJSON(w, http.StatusOK, plan)
}

// GetPlan recomputes the stored plan from the profile's estimate snapshot.
func (h *BudgetHandler) GetPlan(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	p, ok := loadProfile(ctx, w, h.profiles)
	if !ok {
		return
	}
	if !p.OnboardingCompleted {
		respondWithError(w, http.StatusConflict, "Onboarding not completed")
		return
	}

	plan, err := h.budget.GetPlan(ctx, p)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "Failed to load budget plan")
		return
	}
	respondWithJSON(w, http.StatusOK, plan)
}

type projectionRequest struct {
	MonthlyContribution float64 `json:"monthlyContribution" validate:"gte=0"`
	Years               int     `json:"years" validate:"required,gte=1,lte=60"`
	AnnualRate          float64 `json:"annualRate" validate:"gte=0,lte=1"`
}

func (h *BudgetHandler) ProjectSavings(w http.ResponseWriter, r *http.Request) {
	var req projectionRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	results, err := h.budget.Project(req.MonthlyContribution, req.Years, req.AnnualRate)
	if err != nil {
		if errors.Is(err, projection.ErrNegativeContribution) || errors.Is(err, projection.ErrNegativeRate) || errors.Is(err, projection.ErrInvalidYears) {
			respondWithError(w, http.StatusBadRequest, err.Error())
			return
		}
		respondWithError(w, http.StatusInternalServerError, "Failed to project savings")
		return
	}
	respondWithJSON(w, http.StatusOK, results)
}

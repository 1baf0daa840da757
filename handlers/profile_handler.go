package handlers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"finQuestAPI/internal/profile"
	"finQuestAPI/middleware"
	"finQuestAPI/services"
)

// requestTimeout bounds every storage-touching handler.
const requestTimeout = 5 * time.Second

type ProfileHandler struct {
	profiles      *services.ProfileService
	gamification  *services.GamificationService
	budget        *services.BudgetService
	notifications *services.NotificationService
}

func NewProfileHandler(profiles *services.ProfileService, gamification *services.GamificationService, budget *services.BudgetService, notifications *services.NotificationService) *ProfileHandler {
	return &ProfileHandler{
		profiles:      profiles,
		gamification:  gamification,
		budget:        budget,
		notifications: notifications,
	}
}

// loadProfile resolves the authenticated profile, writing the error response
// itself on failure.
func loadProfile(ctx context.Context, w http.ResponseWriter, profiles *services.ProfileService) (*profile.Profile, bool) {
	clerkID, ok := middleware.GetClerkID(ctx)
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "User not authenticated")
		return nil, false
	}

	p, err := profiles.GetProfileByClerkID(ctx, clerkID)
	if err != nil {
		if errors.Is(err, services.ErrProfileNotFound) {
			respondWithError(w, http.StatusNotFound, "Profile not found")
		} else {
			respondWithError(w, http.StatusInternalServerError, "Failed to load profile")
		}
		return nil, false
	}
	return p, true
}

func (h *ProfileHandler) GetProfile(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	p, ok := loadProfile(ctx, w, h.profiles)
	if !ok {
		return
	}
	respondWithJSON(w, http.StatusOK, p)
}

// CompleteOnboarding runs the budget analyzer over the wizard's answers and
// persists the outcome on the profile in one step.
func (h *ProfileHandler) CompleteOnboarding(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	p, ok := loadProfile(ctx, w, h.profiles)
	if !ok {
		return
	}

	var req profile.OnboardingRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	plan, err := h.budget.Analyze(&req)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	updated, err := h.profiles.CompleteOnboarding(ctx, p.ClerkID, &req, plan)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "Failed to complete onboarding")
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"profile": updated,
		"plan":    plan,
	})
}

func (h *ProfileHandler) GetStats(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	p, ok := loadProfile(ctx, w, h.profiles)
	if !ok {
		return
	}

	stats, err := h.gamification.GetStats(ctx, p)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "Failed to load stats")
		return
	}
	respondWithJSON(w, http.StatusOK, stats)
}

// RecordActivity is the open-app ping that keeps streaks alive.
func (h *ProfileHandler) RecordActivity(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	p, ok := loadProfile(ctx, w, h.profiles)
	if !ok {
		return
	}

	status, err := h.gamification.RecordActivity(ctx, p)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "Failed to record activity")
		return
	}
	respondWithJSON(w, http.StatusOK, status)
}

func (h *ProfileHandler) GetAchievements(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	p, ok := loadProfile(ctx, w, h.profiles)
	if !ok {
		return
	}

	achievements, err := h.gamification.GetAchievements(ctx, p.ID)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "Failed to load achievements")
		return
	}
	respondWithJSON(w, http.StatusOK, achievements)
}

type registerDeviceRequest struct {
	Token    string `json:"token" validate:"required"`
	Platform string `json:"platform" validate:"required,oneof=android ios web"`
}

func (h *ProfileHandler) RegisterDevice(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	p, ok := loadProfile(ctx, w, h.profiles)
	if !ok {
		return
	}

	var req registerDeviceRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	if err := h.notifications.RegisterDevice(ctx, p.ID, req.Token, req.Platform); err != nil {
		respondWithError(w, http.StatusInternalServerError, "Failed to register device")
		return
	}
	respondWithJSON(w, http.StatusOK, map[string]bool{"registered": true})
}

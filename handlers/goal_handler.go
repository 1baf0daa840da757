package handlers

import (
	"context"
	"errors"
	"net/http"

	"finQuestAPI/internal/goal"
	"finQuestAPI/services"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
)

type GoalHandler struct {
	profiles *services.ProfileService
	goals    *services.GoalService
}

func NewGoalHandler(profiles *services.ProfileService, goals *services.GoalService) *GoalHandler {
	return &GoalHandler{profiles: profiles, goals: goals}
}

func (h *GoalHandler) CreateGoal(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	p, ok := loadProfile(ctx, w, h.profiles)
	if !ok {
		return
	}

	var req goal.CreateGoalRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	g, err := h.goals.CreateGoal(ctx, p, &req)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "Failed to create goal")
		return
	}
	respondWithJSON(w, http.StatusCreated, g)
}

func (h *GoalHandler) ListGoals(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	p, ok := loadProfile(ctx, w, h.profiles)
	if !ok {
		return
	}

	goals, err := h.goals.ListGoals(ctx, p.ID)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "Failed to list goals")
		return
	}
	respondWithJSON(w, http.StatusOK, goals)
}

func (h *GoalHandler) UpdateGoal(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	p, ok := loadProfile(ctx, w, h.profiles)
	if !ok {
		return
	}

	goalID, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid goal id")
		return
	}

	var req goal.UpdateGoalRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	g, err := h.goals.UpdateGoal(ctx, p.ID, goalID, &req)
	if err != nil {
		if errors.Is(err, services.ErrGoalNotFound) {
			respondWithError(w, http.StatusNotFound, "Goal not found")
			return
		}
		respondWithError(w, http.StatusInternalServerError, "Failed to update goal")
		return
	}
	respondWithJSON(w, http.StatusOK, g)
}

func (h *GoalHandler) DeleteGoal(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	p, ok := loadProfile(ctx, w, h.profiles)
	if !ok {
		return
	}

	goalID, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid goal id")
		return
	}

	if err := h.goals.DeleteGoal(ctx, p.ID, goalID); err != nil {
		if errors.Is(err, services.ErrGoalNotFound) {
			respondWithError(w, http.StatusNotFound, "Goal not found")
			return
		}
		respondWithError(w, http.StatusInternalServerError, "Failed to delete goal")
		return
	}
	respondWithJSON(w, http.StatusOK, map[string]bool{"deleted": true})
}

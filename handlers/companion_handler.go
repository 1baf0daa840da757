package handlers

import (
	"context"
	"net/http"
	"strconv"

	"finQuestAPI/internal/expense"
	"finQuestAPI/services"
)

type CompanionHandler struct {
	profiles  *services.ProfileService
	companion *services.CompanionService
	expenses  *services.ExpenseService
}

func NewCompanionHandler(profiles *services.ProfileService, companion *services.CompanionService, expenses *services.ExpenseService) *CompanionHandler {
	return &CompanionHandler{profiles: profiles, companion: companion, expenses: expenses}
}

type chatRequest struct {
	Message string `json:"message" validate:"required,max=1000"`
}

// Chat exchanges one message with the companion. The reply is always
// produced: upstream generation failures degrade to the persona fallback.
func (h *CompanionHandler) Chat(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	p, ok := loadProfile(ctx, w, h.profiles)
	if !ok {
		return
	}

	var req chatRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	// Generation gets the raw request context; it applies its own 10s bound.
	reply, err := h.companion.Chat(r.Context(), p, req.Message)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "Failed to save conversation")
		return
	}
	respondWithJSON(w, http.StatusOK, map[string]string{"reply": reply})
}

type commentRequest struct {
	Amount      float64 `json:"amount" validate:"required,gt=0"`
	Description string  `json:"description" validate:"required,max=200"`
	Category    string  `json:"category" validate:"required,max=60"`
}

// Comment voices a reaction to an expense without persisting it, so the UI
// can preview commentary while the user is still typing the entry.
func (h *CompanionHandler) Comment(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	p, ok := loadProfile(ctx, w, h.profiles)
	if !ok {
		return
	}

	var req commentRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	summary, err := h.expenses.MonthlySummary(ctx, p.ID)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "Failed to summarize expenses")
		return
	}

	e := &expense.Expense{Amount: req.Amount, Description: req.Description, Category: req.Category}
	comment := h.companion.CommentOnExpense(r.Context(), p, e, summary.TotalSpent+req.Amount)
	respondWithJSON(w, http.StatusOK, map[string]string{"comment": comment})
}

func (h *CompanionHandler) GetHistory(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	p, ok := loadProfile(ctx, w, h.profiles)
	if !ok {
		return
	}

	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	messages, err := h.companion.History(ctx, p.ID, limit)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "Failed to load chat history")
		return
	}
	respondWithJSON(w, http.StatusOK, messages)
}

package handlers

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"finQuestAPI/internal/expense"
	"finQuestAPI/services"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
)

type ExpenseHandler struct {
	profiles  *services.ProfileService
	expenses  *services.ExpenseService
	companion *services.CompanionService
}

func NewExpenseHandler(profiles *services.ProfileService, expenses *services.ExpenseService, companion *services.CompanionService) *ExpenseHandler {
	return &ExpenseHandler{
		profiles:  profiles,
		expenses:  expenses,
		companion: companion,
	}
}

// CreateExpense logs an expense, runs the gamification chain, and attaches
// a companion comment. The comment path is best-effort and cannot fail the
// request.
func (h *ExpenseHandler) CreateExpense(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	p, ok := loadProfile(ctx, w, h.profiles)
	if !ok {
		return
	}

	var req expense.CreateExpenseRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	resp, err := h.expenses.CreateExpense(ctx, p, &req)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "Failed to log expense")
		return
	}

	if summary, err := h.expenses.MonthlySummary(ctx, p.ID); err == nil {
		// The companion call manages its own longer timeout and always
		// resolves to some message.
		resp.CompanionComment = h.companion.CommentOnExpense(r.Context(), p, resp.Expense, summary.TotalSpent)
	}

	respondWithJSON(w, http.StatusCreated, resp)
}

func (h *ExpenseHandler) ListExpenses(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	p, ok := loadProfile(ctx, w, h.profiles)
	if !ok {
		return
	}

	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	expenses, err := h.expenses.ListExpenses(ctx, p.ID, limit)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "Failed to list expenses")
		return
	}
	respondWithJSON(w, http.StatusOK, expenses)
}

func (h *ExpenseHandler) DeleteExpense(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	p, ok := loadProfile(ctx, w, h.profiles)
	if !ok {
		return
	}

	expenseID, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid expense id")
		return
	}

	if err := h.expenses.DeleteExpense(ctx, p.ID, expenseID); err != nil {
		if errors.Is(err, services.ErrExpenseNotFound) {
			respondWithError(w, http.StatusNotFound, "Expense not found")
			return
		}
		respondWithError(w, http.StatusInternalServerError, "Failed to delete expense")
		return
	}
	respondWithJSON(w, http.StatusOK, map[string]bool{"deleted": true})
}

func (h *ExpenseHandler) GetMonthlySummary(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	p, ok := loadProfile(ctx, w, h.profiles)
	if !ok {
		return
	}

	summary, err := h.expenses.MonthlySummary(ctx, p.ID)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "Failed to summarize expenses")
		return
	}
	respondWithJSON(w, http.StatusOK, summary)
}

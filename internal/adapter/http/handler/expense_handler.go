package handler

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/iho/totza/internal/adapter/http/dto"
	"github.com/iho/totza/internal/domain"
	"github.com/iho/totza/internal/usecase"
)

// ExpenseService manages the caller's personal expenses.
type ExpenseService interface {
	CreateExpense(ctx context.Context, actor string, input usecase.ExpenseInput) (*domain.Expense, error)
	GetExpense(ctx context.Context, actor, id string) (*domain.Expense, error)
	ListExpenses(ctx context.Context, actor string, limit, offset int) ([]*domain.Expense, error)
	UpdateExpense(ctx context.Context, actor, id string, input usecase.ExpenseInput) (*domain.Expense, error)
	DeleteExpense(ctx context.Context, actor, id string) error
}

// ExpenseHandler handles personal expense requests.
type ExpenseHandler struct {
	service ExpenseService
}

// NewExpenseHandler creates a new ExpenseHandler.
func NewExpenseHandler(service ExpenseService) *ExpenseHandler {
	return &ExpenseHandler{service: service}
}

// Create records an expense.
func (h *ExpenseHandler) Create(w http.ResponseWriter, r *http.Request) {
	actorID, ok := actor(w, r)
	if !ok {
		return
	}

	var req dto.ExpenseRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	expense, err := h.service.CreateExpense(r.Context(), actorID, req.ToUseCaseInput())
	if err != nil {
		writeDomainError(w, "failed to create expense", err)
		return
	}

	writeJSON(w, http.StatusCreated, dto.ExpenseFromDomain(expense))
}

// Get retrieves one of the caller's expenses.
func (h *ExpenseHandler) Get(w http.ResponseWriter, r *http.Request) {
	actorID, ok := actor(w, r)
	if !ok {
		return
	}

	expense, err := h.service.GetExpense(r.Context(), actorID, chi.URLParam(r, "id"))
	if err != nil {
		writeDomainError(w, "failed to get expense", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.ExpenseFromDomain(expense))
}

// List lists the caller's expenses.
func (h *ExpenseHandler) List(w http.ResponseWriter, r *http.Request) {
	actorID, ok := actor(w, r)
	if !ok {
		return
	}

	expenses, err := h.service.ListExpenses(r.Context(), actorID,
		parseIntQuery(r, "limit", domain.DefaultPageSize), parseIntQuery(r, "offset", 0))
	if err != nil {
		writeDomainError(w, "failed to list expenses", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.ExpensesFromDomain(expenses))
}

// Update replaces an expense's fields.
func (h *ExpenseHandler) Update(w http.ResponseWriter, r *http.Request) {
	actorID, ok := actor(w, r)
	if !ok {
		return
	}

	var req dto.ExpenseRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	expense, err := h.service.UpdateExpense(r.Context(), actorID, chi.URLParam(r, "id"), req.ToUseCaseInput())
	if err != nil {
		writeDomainError(w, "failed to update expense", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.ExpenseFromDomain(expense))
}

// Delete removes an expense.
func (h *ExpenseHandler) Delete(w http.ResponseWriter, r *http.Request) {
	actorID, ok := actor(w, r)
	if !ok {
		return
	}

	if err := h.service.DeleteExpense(r.Context(), actorID, chi.URLParam(r, "id")); err != nil {
		writeDomainError(w, "failed to delete expense", err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

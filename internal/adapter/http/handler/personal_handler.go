package handler

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/iho/totza/internal/adapter/http/dto"
	"github.com/iho/totza/internal/domain"
	"github.com/iho/totza/internal/usecase"
)

// PersonalTransactionService manages the caller's personal ledger.
type PersonalTransactionService interface {
	CreatePersonalTransaction(ctx context.Context, actor string, input usecase.CreatePersonalTransactionInput) (*domain.PersonalTransaction, error)
	ListPersonalTransactions(ctx context.Context, actor string, limit, offset int) ([]*domain.PersonalTransaction, error)
	DeletePersonalTransaction(ctx context.Context, actor, id string) error
}

// PersonalTransactionHandler handles personal transaction requests.
type PersonalTransactionHandler struct {
	service PersonalTransactionService
}

// NewPersonalTransactionHandler creates a new PersonalTransactionHandler.
func NewPersonalTransactionHandler(service PersonalTransactionService) *PersonalTransactionHandler {
	return &PersonalTransactionHandler{service: service}
}

// Create records a manual personal transaction.
func (h *PersonalTransactionHandler) Create(w http.ResponseWriter, r *http.Request) {
	actorID, ok := actor(w, r)
	if !ok {
		return
	}

	var req dto.CreatePersonalTransactionRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	input, err := req.ToUseCaseInput()
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid personal transaction", err.Error())
		return
	}

	p, err := h.service.CreatePersonalTransaction(r.Context(), actorID, input)
	if err != nil {
		writeDomainError(w, "failed to create personal transaction", err)
		return
	}

	writeJSON(w, http.StatusCreated, dto.PersonalTransactionFromDomain(p))
}

// List lists the caller's personal transactions, mirrors included.
func (h *PersonalTransactionHandler) List(w http.ResponseWriter, r *http.Request) {
	actorID, ok := actor(w, r)
	if !ok {
		return
	}

	items, err := h.service.ListPersonalTransactions(r.Context(), actorID,
		parseIntQuery(r, "limit", domain.DefaultPageSize), parseIntQuery(r, "offset", 0))
	if err != nil {
		writeDomainError(w, "failed to list personal transactions", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.PersonalTransactionsFromDomain(items))
}

// Delete removes a manual personal transaction.
func (h *PersonalTransactionHandler) Delete(w http.ResponseWriter, r *http.Request) {
	actorID, ok := actor(w, r)
	if !ok {
		return
	}

	if err := h.service.DeletePersonalTransaction(r.Context(), actorID, chi.URLParam(r, "id")); err != nil {
		writeDomainError(w, "failed to delete personal transaction", err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

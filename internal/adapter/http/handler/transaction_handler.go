package handler

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/iho/totza/internal/adapter/http/dto"
	"github.com/iho/totza/internal/domain"
	"github.com/iho/totza/internal/usecase"
)

// TransactionService is the company ledger as seen by the HTTP layer.
type TransactionService interface {
	CreateTransaction(ctx context.Context, actor string, input usecase.CreateTransactionInput) (*domain.Transaction, error)
	CreateBulkTransactions(ctx context.Context, actor string, inputs []usecase.CreateTransactionInput) (*usecase.BulkResult, error)
	DeleteTransaction(ctx context.Context, id string) error
	GetTransaction(ctx context.Context, id string) (*domain.Transaction, error)
	ListTransactions(ctx context.Context, input usecase.ListTransactionsInput) ([]*domain.Transaction, error)
	ListRecentTransactions(ctx context.Context, limit int) ([]*domain.Transaction, error)
	CheckDueConsistency(ctx context.Context) (*usecase.ConsistencyReport, error)
}

// ConsistencyRecorder receives the size of each consistency report.
type ConsistencyRecorder interface {
	ConsistencyChecked(problems int)
}

// TransactionHandler handles company transaction requests.
type TransactionHandler struct {
	txService TransactionService
	recorder  ConsistencyRecorder
}

// NewTransactionHandler creates a new TransactionHandler. recorder may be nil.
func NewTransactionHandler(txService TransactionService, recorder ConsistencyRecorder) *TransactionHandler {
	return &TransactionHandler{txService: txService, recorder: recorder}
}

// Create records a single company transaction.
func (h *TransactionHandler) Create(w http.ResponseWriter, r *http.Request) {
	actorID, ok := actor(w, r)
	if !ok {
		return
	}

	var req dto.CreateTransactionRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	input, err := req.ToUseCaseInput()
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid transaction", err.Error())
		return
	}

	tx, err := h.txService.CreateTransaction(r.Context(), actorID, input)
	if err != nil {
		writeDomainError(w, "failed to create transaction", err)
		return
	}

	writeJSON(w, http.StatusCreated, dto.TransactionFromDomain(tx))
}

// CreateBulk records a JSON array of company transactions.
func (h *TransactionHandler) CreateBulk(w http.ResponseWriter, r *http.Request) {
	actorID, ok := actor(w, r)
	if !ok {
		return
	}

	var reqs []dto.CreateTransactionRequest
	if !decodeJSON(w, r, &reqs) {
		return
	}

	inputs, err := dto.BulkTransactionsToUseCaseInput(reqs)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid transaction", err.Error())
		return
	}

	result, err := h.txService.CreateBulkTransactions(r.Context(), actorID, inputs)
	if err != nil {
		writeDomainError(w, "failed to create transactions", err)
		return
	}

	writeJSON(w, http.StatusCreated, dto.BulkFromUseCase(result))
}

// Get retrieves a transaction by ID.
func (h *TransactionHandler) Get(w http.ResponseWriter, r *http.Request) {
	tx, err := h.txService.GetTransaction(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeDomainError(w, "failed to get transaction", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.TransactionFromDomain(tx))
}

// List lists transactions filtered by kind, status and hasDue.
func (h *TransactionHandler) List(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	input := usecase.ListTransactionsInput{
		Limit:  parseIntQuery(r, "limit", 0),
		Offset: parseIntQuery(r, "offset", 0),
	}

	if raw := query.Get("kind"); raw != "" {
		kind, err := domain.ParseKind(raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid kind filter", err.Error())
			return
		}
		input.Kind = &kind
	}

	if raw := query.Get("status"); raw != "" {
		status, err := domain.ParseDueStatus(raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid status filter", err.Error())
			return
		}
		input.Status = &status
	}

	if raw := query.Get("hasDue"); raw != "" {
		hasDue := raw == "true"
		if !hasDue && raw != "false" {
			writeError(w, http.StatusBadRequest, "invalid hasDue filter", "hasDue must be true or false")
			return
		}
		input.HasDue = &hasDue
	}

	txs, err := h.txService.ListTransactions(r.Context(), input)
	if err != nil {
		writeDomainError(w, "failed to list transactions", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.TransactionsFromDomain(txs))
}

// ListRecent lists the newest transactions.
func (h *TransactionHandler) ListRecent(w http.ResponseWriter, r *http.Request) {
	txs, err := h.txService.ListRecentTransactions(r.Context(), parseIntQuery(r, "limit", usecase.DefaultRecentLimit))
	if err != nil {
		writeDomainError(w, "failed to list transactions", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.TransactionsFromDomain(txs))
}

// Delete removes a transaction and reverses its effects.
func (h *TransactionHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.txService.DeleteTransaction(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeDomainError(w, "failed to delete transaction", err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// Consistency reports Dues whose status disagrees with their payments.
func (h *TransactionHandler) Consistency(w http.ResponseWriter, r *http.Request) {
	report, err := h.txService.CheckDueConsistency(r.Context())
	if err != nil {
		writeDomainError(w, "failed to check consistency", err)
		return
	}

	if h.recorder != nil {
		h.recorder.ConsistencyChecked(len(report.Mismatches) + len(report.DanglingLinks))
	}

	writeJSON(w, http.StatusOK, dto.ConsistencyFromUseCase(report))
}

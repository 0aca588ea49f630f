package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/iho/totza/internal/domain"
)

// TransactionUseCase handles company transaction business logic.
type TransactionUseCase struct {
	txRepo     TransactionRepository
	reconciler *DueReconciler
	mirror     *MirrorSync
	outbox     OutboxRepository
	idGen      IDGenerator
	recorder   Recorder
	logger     zerolog.Logger
	now        func() time.Time
}

// NewTransactionUseCase creates a new TransactionUseCase.
// outbox may be nil, in which case no events are recorded.
func NewTransactionUseCase(
	txRepo TransactionRepository,
	reconciler *DueReconciler,
	mirror *MirrorSync,
	outbox OutboxRepository,
	idGen IDGenerator,
	recorder Recorder,
	logger zerolog.Logger,
) *TransactionUseCase {
	if recorder == nil {
		recorder = NopRecorder{}
	}

	return &TransactionUseCase{
		txRepo:     txRepo,
		reconciler: reconciler,
		mirror:     mirror,
		outbox:     outbox,
		idGen:      idGen,
		recorder:   recorder,
		logger:     logger,
		now:        func() time.Time { return time.Now().UTC() },
	}
}

// CreateTransactionInput represents input for creating a company transaction.
type CreateTransactionInput struct {
	Kind              domain.Kind
	Amount            decimal.NullDecimal
	Date              *time.Time
	DueDate           *time.Time
	OriginalDueAmount decimal.NullDecimal
	LinkedDues        []string
	AccountID         string
	VendorID          string
	Items             []string
	Purpose           string
	Files             []string
}

// ListTransactionsInput represents input for listing company transactions.
type ListTransactionsInput struct {
	Kind   *domain.Kind
	Status *domain.DueStatus
	HasDue *bool
	Limit  int
	Offset int
}

// BulkResult is the outcome of a bulk create.
type BulkResult struct {
	Count        int
	Transactions []*domain.Transaction
}

// DueMismatch is a Due whose stored status disagrees with its payments.
type DueMismatch struct {
	DueID          string
	StoredStatus   domain.DueStatus
	ExpectedStatus domain.DueStatus
	PaidAmount     decimal.Decimal
	OriginalAmount decimal.Decimal
}

// DanglingLink is a Debit that still lists a Due which no longer exists.
type DanglingLink struct {
	DebitID string
	DueID   string
}

// ConsistencyReport is the result of CheckDueConsistency.
type ConsistencyReport struct {
	CheckedDues   int
	Mismatches    []DueMismatch
	DanglingLinks []DanglingLink
	Consistent    bool
	CheckedAt     time.Time
}

// CreateTransaction records a single company transaction.
func (uc *TransactionUseCase) CreateTransaction(ctx context.Context, actor string, input CreateTransactionInput) (*domain.Transaction, error) {
	// 1. Build and validate
	tx, err := uc.build(actor, input)
	if err != nil {
		return nil, err
	}

	// 2. Check every linked Due before anything is written
	if err := uc.reconciler.CheckLinks(ctx, tx, tx.LinkedDues); err != nil {
		return nil, err
	}

	// 3. Store
	if err := uc.txRepo.Insert(ctx, tx); err != nil {
		return nil, err
	}

	// 4. Pay down linked Dues and mirror
	if err := uc.afterInsert(ctx, tx); err != nil {
		return nil, err
	}

	return tx, nil
}

// CreateBulkTransactions records several transactions.
// Every item is validated and link-checked before the batch is stored, so a bad
// item stores nothing. Linking and mirroring then run per item in input order.
func (uc *TransactionUseCase) CreateBulkTransactions(ctx context.Context, actor string, inputs []CreateTransactionInput) (*BulkResult, error) {
	if len(inputs) == 0 {
		return nil, fmt.Errorf("%w: at least one transaction is required", domain.ErrValidation)
	}

	txs := make([]*domain.Transaction, 0, len(inputs))
	for i, input := range inputs {
		tx, err := uc.build(actor, input)
		if err != nil {
			return nil, fmt.Errorf("transaction %d: %w", i, err)
		}
		txs = append(txs, tx)
	}

	for i, tx := range txs {
		if err := uc.reconciler.CheckLinks(ctx, tx, tx.LinkedDues); err != nil {
			return nil, fmt.Errorf("transaction %d: %w", i, err)
		}
	}

	if err := uc.txRepo.InsertMany(ctx, txs); err != nil {
		return nil, err
	}

	for _, tx := range txs {
		if err := uc.afterInsert(ctx, tx); err != nil {
			return nil, err
		}
	}

	return &BulkResult{Count: len(txs), Transactions: txs}, nil
}

// DeleteTransaction removes a transaction, first withdrawing any payments it made.
func (uc *TransactionUseCase) DeleteTransaction(ctx context.Context, id string) error {
	tx, err := uc.txRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if tx.Kind == domain.KindDebit && tx.HasLinkedDues() {
		dues, err := uc.reconciler.UnlinkPayment(ctx, tx)
		uc.appendDueEvents(ctx, tx, dues, "unlinked")
		if err != nil {
			return err
		}
	}

	if err := uc.txRepo.Delete(ctx, id); err != nil {
		return err
	}
	uc.recorder.TransactionDeleted(tx.Kind)

	if err := uc.mirror.OnDelete(ctx, id); err != nil {
		return err
	}

	uc.appendEvent(ctx, tx.ID, domain.EventTypeTransactionDeleted, map[string]any{
		"transaction_id": tx.ID,
		"kind":           string(tx.Kind),
		"amount":         tx.Amount.String(),
	})

	return nil
}

// GetTransaction retrieves a transaction by ID.
func (uc *TransactionUseCase) GetTransaction(ctx context.Context, id string) (*domain.Transaction, error) {
	return uc.txRepo.GetByID(ctx, id)
}

// ListTransactions lists transactions newest first. Without a limit every
// matching transaction is returned; an explicit limit is capped at
// domain.MaxPageSize.
func (uc *TransactionUseCase) ListTransactions(ctx context.Context, input ListTransactionsInput) ([]*domain.Transaction, error) {
	limit, offset := 0, max(input.Offset, 0)
	if input.Limit > 0 {
		limit = min(input.Limit, domain.MaxPageSize)
	}

	return uc.txRepo.Find(ctx, domain.TransactionFilter{
		Kind:   input.Kind,
		Status: input.Status,
		HasDue: input.HasDue,
		Limit:  limit,
		Offset: offset,
	})
}

// ListRecentTransactions returns the most recently created transactions.
func (uc *TransactionUseCase) ListRecentTransactions(ctx context.Context, limit int) ([]*domain.Transaction, error) {
	if limit <= 0 {
		limit = DefaultRecentLimit
	}
	if limit > domain.MaxPageSize {
		limit = domain.MaxPageSize
	}

	return uc.txRepo.Find(ctx, domain.TransactionFilter{Limit: limit})
}

// CheckDueConsistency scans every Due for a status that disagrees with its
// payments, and every linking Debit for Dues that no longer exist.
func (uc *TransactionUseCase) CheckDueConsistency(ctx context.Context) (*ConsistencyReport, error) {
	dueKind := domain.KindDue
	dues, err := uc.txRepo.Find(ctx, domain.TransactionFilter{Kind: &dueKind})
	if err != nil {
		return nil, err
	}

	report := &ConsistencyReport{
		CheckedDues:   len(dues),
		Mismatches:    []DueMismatch{},
		DanglingLinks: []DanglingLink{},
		CheckedAt:     uc.now(),
	}

	for _, due := range dues {
		if due.StatusConsistent() {
			continue
		}
		report.Mismatches = append(report.Mismatches, DueMismatch{
			DueID:          due.ID,
			StoredStatus:   due.Status,
			ExpectedStatus: domain.Classify(due.PaidAmount(), due.OriginalDueAmount),
			PaidAmount:     due.PaidAmount(),
			OriginalAmount: due.OriginalDueAmount,
		})
	}

	dangling, err := uc.findDanglingLinks(ctx)
	if err != nil {
		return nil, err
	}
	report.DanglingLinks = dangling
	report.Consistent = len(report.Mismatches) == 0 && len(report.DanglingLinks) == 0

	return report, nil
}

func (uc *TransactionUseCase) findDanglingLinks(ctx context.Context) ([]DanglingLink, error) {
	hasDue := true
	debits, err := uc.txRepo.Find(ctx, domain.TransactionFilter{HasDue: &hasDue})
	if err != nil {
		return nil, err
	}

	seen := make(map[string]struct{})
	var ids []string
	for _, debit := range debits {
		for _, id := range debit.LinkedDues {
			if _, ok := seen[id]; !ok {
				seen[id] = struct{}{}
				ids = append(ids, id)
			}
		}
	}

	dangling := []DanglingLink{}
	if len(ids) == 0 {
		return dangling, nil
	}

	found, err := uc.txRepo.FindDues(ctx, ids)
	if err != nil {
		return nil, err
	}

	existing := make(map[string]struct{}, len(found))
	for _, due := range found {
		existing[due.ID] = struct{}{}
	}

	for _, debit := range debits {
		for _, id := range debit.LinkedDues {
			if _, ok := existing[id]; !ok {
				dangling = append(dangling, DanglingLink{DebitID: debit.ID, DueID: id})
			}
		}
	}

	return dangling, nil
}

func (uc *TransactionUseCase) build(actor string, input CreateTransactionInput) (*domain.Transaction, error) {
	if actor == "" {
		return nil, fmt.Errorf("%w: acting user is required", domain.ErrValidation)
	}

	return domain.NewTransaction(domain.TransactionParams{
		ID:                uc.idGen.Generate(),
		Kind:              input.Kind,
		Amount:            input.Amount,
		Date:              input.Date,
		DueDate:           input.DueDate,
		OriginalDueAmount: input.OriginalDueAmount,
		LinkedDues:        input.LinkedDues,
		AccountID:         input.AccountID,
		VendorID:          input.VendorID,
		Items:             input.Items,
		Purpose:           input.Purpose,
		Files:             input.Files,
		AddedBy:           actor,
		CreatedAt:         uc.now(),
	})
}

// afterInsert runs the steps that follow a successful insert of tx.
func (uc *TransactionUseCase) afterInsert(ctx context.Context, tx *domain.Transaction) error {
	uc.recorder.TransactionCreated(tx.Kind)
	uc.appendEvent(ctx, tx.ID, domain.EventTypeTransactionCreated, map[string]any{
		"transaction_id": tx.ID,
		"kind":           string(tx.Kind),
		"amount":         tx.Amount.String(),
		"added_by":       tx.AddedBy,
		"linked_dues":    tx.LinkedDues,
	})

	if tx.HasLinkedDues() {
		dues, err := uc.reconciler.ApplyLinks(ctx, tx, tx.LinkedDues)
		uc.appendDueEvents(ctx, tx, dues, "linked")
		if err != nil {
			return err
		}
	}

	if _, err := uc.mirror.OnCreate(ctx, tx); err != nil {
		return err
	}

	return nil
}

func (uc *TransactionUseCase) appendDueEvents(ctx context.Context, debit *domain.Transaction, dues []*domain.Transaction, action string) {
	for _, due := range dues {
		uc.appendEvent(ctx, due.ID, domain.EventTypeDueReconciled, map[string]any{
			"due_id":          due.ID,
			"debit_id":        debit.ID,
			"action":          action,
			"status":          string(due.Status),
			"paid_amount":     due.PaidAmount().String(),
			"original_amount": due.OriginalDueAmount.String(),
		})
	}
}

// appendEvent records an outbox event. The ledger write it describes has
// already happened, so a failure here is logged and swallowed.
func (uc *TransactionUseCase) appendEvent(ctx context.Context, aggregateID, eventType string, payload map[string]any) {
	if uc.outbox == nil {
		return
	}

	event := &domain.OutboxEvent{
		ID:            uc.idGen.Generate(),
		AggregateID:   aggregateID,
		AggregateType: domain.AggregateTypeTransaction,
		EventType:     eventType,
		Payload:       payload,
		CreatedAt:     uc.now(),
	}

	if err := uc.outbox.Create(ctx, event); err != nil {
		uc.logger.Warn().
			Err(err).
			Str("event_type", eventType).
			Str("aggregate_id", aggregateID).
			Msg("failed to append outbox event")
	}
}

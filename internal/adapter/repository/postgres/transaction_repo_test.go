package postgres

import (
	"context"
	"errors"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/shopspring/decimal"

	"github.com/iho/totza/internal/domain"
)

var transactionColumnNames = []string{
	"id", "date", "kind", "amount", "due_date", "original_due_amount", "status", "linked_dues", "payments",
	"account_id", "vendor_id", "items", "purpose", "files", "added_by", "version", "created_at", "updated_at",
}

func newMockPool(t *testing.T) pgxmock.PgxPoolIface {
	t.Helper()
	pool, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("failed to create pgxmock pool: %v", err)
	}
	t.Cleanup(pool.Close)
	return pool
}

// anyArgs matches n statement arguments of any value.
func anyArgs(n int) []any {
	args := make([]any, n)
	for i := range args {
		args[i] = pgxmock.AnyArg()
	}
	return args
}

func assertExpectations(t *testing.T, pool pgxmock.PgxPoolIface) {
	t.Helper()
	if err := pool.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations were not met: %v", err)
	}
}

func dueRows(pool pgxmock.PgxPoolIface, id string, payments string, version int64) *pgxmock.Rows {
	now := time.Date(2026, 1, 2, 10, 0, 0, 0, time.UTC)
	return pool.NewRows(transactionColumnNames).AddRow(
		id,
		now,
		"Due",
		"100",
		pgtype.Timestamptz{Time: now.AddDate(0, 1, 0), Valid: true},
		"100",
		"Partially Paid",
		[]string{},
		[]byte(payments),
		"",
		"vendor-1",
		[]string{"rent"},
		"office rent",
		[]string{},
		"user-1",
		version,
		now,
		now,
	)
}

func TestTransactionRepositoryGetByID(t *testing.T) {
	pool := newMockPool(t)
	repo := newTransactionRepository(pool)

	payments := `[{"amount":"40","payment_date":"2026-01-03T00:00:00Z","payment_transaction_id":"debit-1"}]`
	pool.ExpectQuery(regexp.QuoteMeta("FROM company_transactions WHERE id = $1")).
		WithArgs("due-1").
		WillReturnRows(dueRows(pool, "due-1", payments, 3))

	tx, err := repo.GetByID(context.Background(), "due-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if tx.Kind != domain.KindDue || tx.Status != domain.StatusPartiallyPaid {
		t.Fatalf("unexpected kind/status %s/%s", tx.Kind, tx.Status)
	}
	if !tx.Amount.Equal(decimal.NewFromInt(100)) || !tx.OriginalDueAmount.Equal(decimal.NewFromInt(100)) {
		t.Fatalf("unexpected amounts %s/%s", tx.Amount, tx.OriginalDueAmount)
	}
	if tx.DueDate == nil {
		t.Fatalf("expected due date")
	}
	if len(tx.Payments) != 1 || tx.Payments[0].PaymentTransactionID != "debit-1" || !tx.Payments[0].Amount.Equal(decimal.NewFromInt(40)) {
		t.Fatalf("unexpected payments %+v", tx.Payments)
	}
	if tx.Version != 3 {
		t.Fatalf("expected version 3, got %d", tx.Version)
	}

	assertExpectations(t, pool)
}

func TestTransactionRepositoryGetByIDNotFound(t *testing.T) {
	pool := newMockPool(t)
	repo := newTransactionRepository(pool)

	pool.ExpectQuery(regexp.QuoteMeta("FROM company_transactions WHERE id = $1")).
		WithArgs("missing").
		WillReturnError(pgx.ErrNoRows)

	_, err := repo.GetByID(context.Background(), "missing")
	if !errors.Is(err, domain.ErrTransactionNotFound) {
		t.Fatalf("expected ErrTransactionNotFound, got %v", err)
	}

	assertExpectations(t, pool)
}

func TestTransactionRepositoryInsertSetsVersion(t *testing.T) {
	pool := newMockPool(t)
	repo := newTransactionRepository(pool)

	pool.ExpectExec(regexp.QuoteMeta("INSERT INTO company_transactions")).
		WithArgs(anyArgs(len(transactionColumnNames))...).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	tx := &domain.Transaction{ID: "credit-1", Kind: domain.KindCredit, Amount: decimal.NewFromInt(5)}
	if err := repo.Insert(context.Background(), tx); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if tx.Version != 1 {
		t.Fatalf("expected version 1, got %d", tx.Version)
	}

	assertExpectations(t, pool)
}

func TestTransactionRepositoryInsertManyCommits(t *testing.T) {
	pool := newMockPool(t)
	repo := newTransactionRepository(pool)

	pool.ExpectBegin()
	pool.ExpectExec(regexp.QuoteMeta("INSERT INTO company_transactions")).
		WithArgs(anyArgs(len(transactionColumnNames))...).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	pool.ExpectExec(regexp.QuoteMeta("INSERT INTO company_transactions")).
		WithArgs(anyArgs(len(transactionColumnNames))...).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	pool.ExpectCommit()

	txs := []*domain.Transaction{
		{ID: "a", Kind: domain.KindCredit},
		{ID: "b", Kind: domain.KindCredit},
	}
	if err := repo.InsertMany(context.Background(), txs); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	assertExpectations(t, pool)
}

func TestTransactionRepositoryInsertManyRollsBack(t *testing.T) {
	pool := newMockPool(t)
	repo := newTransactionRepository(pool)

	insertErr := errors.New("duplicate key")
	pool.ExpectBegin()
	pool.ExpectExec(regexp.QuoteMeta("INSERT INTO company_transactions")).
		WithArgs(anyArgs(len(transactionColumnNames))...).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	pool.ExpectExec(regexp.QuoteMeta("INSERT INTO company_transactions")).
		WithArgs(anyArgs(len(transactionColumnNames))...).
		WillReturnError(insertErr)
	pool.ExpectRollback()

	txs := []*domain.Transaction{
		{ID: "a", Kind: domain.KindCredit},
		{ID: "b", Kind: domain.KindCredit},
	}
	err := repo.InsertMany(context.Background(), txs)
	if !errors.Is(err, insertErr) {
		t.Fatalf("expected insert error, got %v", err)
	}

	assertExpectations(t, pool)
}

func TestTransactionRepositoryInsertManyBeginError(t *testing.T) {
	pool := newMockPool(t)
	repo := newTransactionRepository(pool)

	beginErr := errors.New("begin failed")
	pool.ExpectBegin().WillReturnError(beginErr)

	err := repo.InsertMany(context.Background(), []*domain.Transaction{{ID: "a"}})
	if !errors.Is(err, beginErr) {
		t.Fatalf("expected begin error, got %v", err)
	}

	assertExpectations(t, pool)
}

func TestTransactionRepositoryUpdatePayments(t *testing.T) {
	pool := newMockPool(t)
	repo := newTransactionRepository(pool)

	pool.ExpectExec(regexp.QuoteMeta("WHERE id = $1 AND version = $5")).
		WithArgs("due-1", pgxmock.AnyArg(), "Pending", pgxmock.AnyArg(), int64(4)).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	due := &domain.Transaction{ID: "due-1", Kind: domain.KindDue, Status: domain.StatusPending, Version: 4}
	if err := repo.UpdatePayments(context.Background(), due); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if due.Version != 5 {
		t.Fatalf("expected version 5, got %d", due.Version)
	}

	assertExpectations(t, pool)
}

func TestTransactionRepositoryUpdatePaymentsStaleVersion(t *testing.T) {
	tests := []struct {
		name    string
		exists  bool
		wantErr error
	}{
		{name: "concurrent update", exists: true, wantErr: domain.ErrConcurrentUpdate},
		{name: "deleted", exists: false, wantErr: domain.ErrTransactionNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pool := newMockPool(t)
			repo := newTransactionRepository(pool)

			pool.ExpectExec(regexp.QuoteMeta("UPDATE company_transactions")).
				WithArgs("due-1", pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), int64(2)).
				WillReturnResult(pgxmock.NewResult("UPDATE", 0))
			pool.ExpectQuery(regexp.QuoteMeta("SELECT EXISTS")).
				WithArgs("due-1").
				WillReturnRows(pool.NewRows([]string{"exists"}).AddRow(tt.exists))

			due := &domain.Transaction{ID: "due-1", Kind: domain.KindDue, Version: 2}
			err := repo.UpdatePayments(context.Background(), due)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("expected %v, got %v", tt.wantErr, err)
			}
			if due.Version != 2 {
				t.Fatalf("version must not change on failure, got %d", due.Version)
			}

			assertExpectations(t, pool)
		})
	}
}

func TestTransactionRepositoryDelete(t *testing.T) {
	pool := newMockPool(t)
	repo := newTransactionRepository(pool)

	pool.ExpectExec(regexp.QuoteMeta("DELETE FROM company_transactions")).
		WithArgs("gone").
		WillReturnResult(pgxmock.NewResult("DELETE", 0))

	if err := repo.Delete(context.Background(), "gone"); !errors.Is(err, domain.ErrTransactionNotFound) {
		t.Fatalf("expected ErrTransactionNotFound, got %v", err)
	}

	assertExpectations(t, pool)
}

func TestTransactionRepositoryFindDues(t *testing.T) {
	pool := newMockPool(t)
	repo := newTransactionRepository(pool)

	pool.ExpectQuery(regexp.QuoteMeta("WHERE kind = $1 AND id = ANY($2)")).
		WithArgs("Due", []string{"due-1", "debit-1"}).
		WillReturnRows(dueRows(pool, "due-1", `[]`, 1))

	dues, err := repo.FindDues(context.Background(), []string{"due-1", "debit-1"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(dues) != 1 || dues[0].ID != "due-1" {
		t.Fatalf("unexpected dues %+v", dues)
	}
	if len(dues[0].Payments) != 0 {
		t.Fatalf("expected no payments, got %+v", dues[0].Payments)
	}

	assertExpectations(t, pool)
}

func TestBuildFindQuery(t *testing.T) {
	kind := domain.KindDebit
	hasDue := true
	from := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(0, 0, 1)

	query, args := buildFindQuery(domain.TransactionFilter{
		Kind:        &kind,
		HasDue:      &hasDue,
		CreatedFrom: &from,
		CreatedTo:   &to,
		Limit:       20,
		Offset:      40,
	})

	for _, fragment := range []string{
		"kind = $1",
		"cardinality(linked_dues) > 0",
		"created_at >= $2",
		"created_at < $3",
		"ORDER BY created_at DESC, id DESC",
		"LIMIT $4",
		"OFFSET $5",
	} {
		if !strings.Contains(query, fragment) {
			t.Fatalf("query %q is missing %q", query, fragment)
		}
	}
	if len(args) != 5 {
		t.Fatalf("expected 5 args, got %d", len(args))
	}

	query, args = buildFindQuery(domain.TransactionFilter{})
	if strings.Contains(query, "WHERE") || strings.Contains(query, "LIMIT") {
		t.Fatalf("unfiltered query should have no WHERE or LIMIT: %q", query)
	}
	if len(args) != 0 {
		t.Fatalf("expected no args, got %d", len(args))
	}
}

func TestPaymentsRoundTripKeepsPrecision(t *testing.T) {
	when := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)
	raw, err := encodePayments([]domain.Payment{{
		Amount:               decimal.RequireFromString("12.345"),
		PaymentDate:          when,
		PaymentTransactionID: "debit-9",
	}})
	if err != nil {
		t.Fatalf("encode: %v", err)
	}

	payments, err := decodePayments(raw)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(payments) != 1 || !payments[0].Amount.Equal(decimal.RequireFromString("12.345")) || !payments[0].PaymentDate.Equal(when) {
		t.Fatalf("unexpected payments %+v", payments)
	}
}

package usecase_test

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/iho/totza/internal/adapter/repository/memory"
	"github.com/iho/totza/internal/domain"
	"github.com/iho/totza/internal/usecase"
	"github.com/iho/totza/internal/usecase/mocks"
)

func amt(v int64) decimal.NullDecimal {
	return decimal.NewNullDecimal(decimal.NewFromInt(v))
}

func dec(v int64) decimal.Decimal {
	return decimal.NewFromInt(v)
}

type ledgerFixture struct {
	store      *memory.Store
	ids        *mocks.SequentialIDGenerator
	recorder   *mocks.CountingRecorder
	reconciler *usecase.DueReconciler
	mirror     *usecase.MirrorSync
	uc         *usecase.TransactionUseCase
}

func newLedgerFixture(t *testing.T) *ledgerFixture {
	t.Helper()

	store := memory.NewStore()
	ids := &mocks.SequentialIDGenerator{Prefix: "tx"}
	recorder := mocks.NewCountingRecorder()
	reconciler := usecase.NewDueReconciler(store.Transactions, &mocks.ImmediateRetrier{}, recorder)
	mirror := usecase.NewMirrorSync(store.AccountCategories, store.PersonalTransactions, ids, recorder)
	uc := usecase.NewTransactionUseCase(store.Transactions, reconciler, mirror, store.Outbox, ids, recorder, zerolog.Nop())

	return &ledgerFixture{
		store:      store,
		ids:        ids,
		recorder:   recorder,
		reconciler: reconciler,
		mirror:     mirror,
		uc:         uc,
	}
}

func (f *ledgerFixture) createDue(t *testing.T, amount int64) *domain.Transaction {
	t.Helper()

	dueDate := time.Now().Add(7 * 24 * time.Hour)
	due, err := f.uc.CreateTransaction(context.Background(), "user-1", usecase.CreateTransactionInput{
		Kind:    domain.KindDue,
		Amount:  amt(amount),
		DueDate: &dueDate,
		Purpose: "supplier invoice",
	})
	if err != nil {
		t.Fatalf("create due: %v", err)
	}
	return due
}

func (f *ledgerFixture) createDebit(t *testing.T, amount int64, dueIDs ...string) *domain.Transaction {
	t.Helper()

	debit, err := f.uc.CreateTransaction(context.Background(), "user-1", usecase.CreateTransactionInput{
		Kind:       domain.KindDebit,
		Amount:     amt(amount),
		LinkedDues: dueIDs,
		Purpose:    "payment",
	})
	if err != nil {
		t.Fatalf("create debit: %v", err)
	}
	return debit
}

func (f *ledgerFixture) get(t *testing.T, id string) *domain.Transaction {
	t.Helper()

	tx, err := f.store.Transactions.GetByID(context.Background(), id)
	if err != nil {
		t.Fatalf("get %s: %v", id, err)
	}
	return tx
}

func (f *ledgerFixture) insertDebit(t *testing.T, amount int64, dueIDs ...string) *domain.Transaction {
	t.Helper()

	debit, err := domain.NewTransaction(domain.TransactionParams{
		ID:         f.ids.Generate(),
		Kind:       domain.KindDebit,
		Amount:     amt(amount),
		LinkedDues: dueIDs,
		AddedBy:    "user-1",
	})
	if err != nil {
		t.Fatalf("build debit: %v", err)
	}
	if err := f.store.Transactions.Insert(context.Background(), debit); err != nil {
		t.Fatalf("insert debit: %v", err)
	}
	return debit
}

package usecase_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"go.uber.org/mock/gomock"

	"github.com/iho/totza/internal/adapter/repository/memory"
	"github.com/iho/totza/internal/domain"
	"github.com/iho/totza/internal/usecase"
	"github.com/iho/totza/internal/usecase/mocks"
)

func TestTransactionUseCase_CreateTransaction_Validation(t *testing.T) {
	f := newLedgerFixture(t)
	ctx := context.Background()

	tests := []struct {
		name  string
		actor string
		input usecase.CreateTransactionInput
	}{
		{name: "missing actor", actor: "", input: usecase.CreateTransactionInput{Kind: domain.KindCredit, Amount: amt(5)}},
		{name: "unknown kind", actor: "u", input: usecase.CreateTransactionInput{Kind: "Refund", Amount: amt(5)}},
		{name: "missing amount", actor: "u", input: usecase.CreateTransactionInput{Kind: domain.KindCredit}},
		{name: "negative amount", actor: "u", input: usecase.CreateTransactionInput{Kind: domain.KindCredit, Amount: amt(-1)}},
		{name: "due without date", actor: "u", input: usecase.CreateTransactionInput{Kind: domain.KindDue, Amount: amt(5)}},
		{name: "credit with links", actor: "u", input: usecase.CreateTransactionInput{Kind: domain.KindCredit, Amount: amt(5), LinkedDues: []string{"x"}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.uc.CreateTransaction(ctx, tt.actor, tt.input)
			if !errors.Is(err, domain.ErrValidation) {
				t.Fatalf("expected ErrValidation, got %v", err)
			}
		})
	}

	all, _ := f.store.Transactions.Find(ctx, domain.TransactionFilter{})
	if len(all) != 0 {
		t.Fatalf("expected nothing stored, got %d", len(all))
	}
}

func TestTransactionUseCase_CreateTransaction_DueDefaults(t *testing.T) {
	f := newLedgerFixture(t)

	due := f.createDue(t, 250)
	if due.AddedBy != "user-1" {
		t.Fatalf("expected AddedBy user-1, got %q", due.AddedBy)
	}
	if !due.OriginalDueAmount.Equal(dec(250)) {
		t.Fatalf("expected original amount 250, got %s", due.OriginalDueAmount)
	}
	if due.Status != domain.StatusPending || len(due.Payments) != 0 {
		t.Fatalf("expected Pending with no payments, got %s %+v", due.Status, due.Payments)
	}
	if due.Date.IsZero() {
		t.Fatalf("expected date to default to creation time")
	}
}

func TestTransactionUseCase_CreateTransaction_LinksDebit(t *testing.T) {
	f := newLedgerFixture(t)
	ctx := context.Background()

	due := f.createDue(t, 100)
	debit := f.createDebit(t, 100, due.ID)

	stored := f.get(t, due.ID)
	if stored.Status != domain.StatusFullyPaid {
		t.Fatalf("expected Fully Paid, got %s", stored.Status)
	}
	if stored.Payments[0].PaymentTransactionID != debit.ID {
		t.Fatalf("expected payment from %s, got %+v", debit.ID, stored.Payments)
	}

	events, err := f.store.Outbox.GetUnpublished(ctx, 10)
	if err != nil {
		t.Fatalf("outbox: %v", err)
	}
	counts := map[string]int{}
	for _, e := range events {
		counts[e.EventType]++
	}
	if counts[domain.EventTypeTransactionCreated] != 2 || counts[domain.EventTypeDueReconciled] != 1 {
		t.Fatalf("unexpected outbox events: %v", counts)
	}
}

func TestTransactionUseCase_CreateTransaction_InvalidLinkStoresNothing(t *testing.T) {
	f := newLedgerFixture(t)
	ctx := context.Background()

	due := f.createDue(t, 100)

	_, err := f.uc.CreateTransaction(ctx, "user-1", usecase.CreateTransactionInput{
		Kind:       domain.KindDebit,
		Amount:     amt(10),
		LinkedDues: []string{due.ID, "nope"},
	})
	if !errors.Is(err, domain.ErrInvalidLink) {
		t.Fatalf("expected ErrInvalidLink, got %v", err)
	}

	debitKind := domain.KindDebit
	debits, _ := f.store.Transactions.Find(ctx, domain.TransactionFilter{Kind: &debitKind})
	if len(debits) != 0 {
		t.Fatalf("expected no debit stored, got %d", len(debits))
	}
	if got := f.get(t, due.ID); len(got.Payments) != 0 {
		t.Fatalf("expected due untouched, got %+v", got.Payments)
	}
}

func TestTransactionUseCase_Mirror(t *testing.T) {
	f := newLedgerFixture(t)
	ctx := context.Background()

	linked := &domain.AccountCategory{ID: "acc-linked", Name: "Petty cash", LinkedUserID: "user-9"}
	plain := &domain.AccountCategory{ID: "acc-plain", Name: "Bank"}
	for _, c := range []*domain.AccountCategory{linked, plain} {
		if err := f.store.AccountCategories.Create(ctx, c); err != nil {
			t.Fatalf("create category: %v", err)
		}
	}

	tests := []struct {
		name       string
		kind       domain.Kind
		accountID  string
		wantMirror bool
	}{
		{name: "debit on linked category", kind: domain.KindDebit, accountID: linked.ID, wantMirror: true},
		{name: "credit on linked category", kind: domain.KindCredit, accountID: linked.ID},
		{name: "debit on plain category", kind: domain.KindDebit, accountID: plain.ID},
		{name: "debit on unknown category", kind: domain.KindDebit, accountID: "acc-missing"},
		{name: "debit without account", kind: domain.KindDebit},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tx, err := f.uc.CreateTransaction(ctx, "user-1", usecase.CreateTransactionInput{
				Kind:      tt.kind,
				Amount:    amt(42),
				AccountID: tt.accountID,
				Purpose:   "fuel",
				Files:     []string{"https://files/receipt.pdf", "https://files/other.pdf"},
			})
			if err != nil {
				t.Fatalf("create: %v", err)
			}

			found := findMirror(t, f.store, "user-9", tx.ID)
			if tt.wantMirror != (found != nil) {
				t.Fatalf("mirror present = %v, want %v", found != nil, tt.wantMirror)
			}
			if found == nil {
				return
			}

			if found.Kind != domain.KindCredit || !found.Amount.Equal(dec(42)) || found.Purpose != "fuel" {
				t.Fatalf("unexpected mirror: %+v", found)
			}
			if found.FileURL != "https://files/receipt.pdf" {
				t.Fatalf("expected first file on mirror, got %q", found.FileURL)
			}

			if err := f.uc.DeleteTransaction(ctx, tx.ID); err != nil {
				t.Fatalf("delete: %v", err)
			}
			if findMirror(t, f.store, "user-9", tx.ID) != nil {
				t.Fatalf("expected mirror removed with its transaction")
			}
		})
	}
}

func findMirror(t *testing.T, store *memory.Store, userID, txID string) *domain.PersonalTransaction {
	t.Helper()

	rows, err := store.PersonalTransactions.ListByUser(context.Background(), userID, 0, 0)
	if err != nil {
		t.Fatalf("list personal: %v", err)
	}
	for _, p := range rows {
		if p.CompanyTransactionID == txID {
			return p
		}
	}
	return nil
}

func TestTransactionUseCase_DeleteTransaction(t *testing.T) {
	f := newLedgerFixture(t)
	ctx := context.Background()

	due := f.createDue(t, 100)
	debit := f.createDebit(t, 100, due.ID)

	if err := f.uc.DeleteTransaction(ctx, debit.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}

	stored := f.get(t, due.ID)
	if stored.Status != domain.StatusPending || len(stored.Payments) != 0 {
		t.Fatalf("expected Pending with no payments after delete, got %s %+v", stored.Status, stored.Payments)
	}

	if _, err := f.uc.GetTransaction(ctx, debit.ID); !errors.Is(err, domain.ErrTransactionNotFound) {
		t.Fatalf("expected debit gone, got %v", err)
	}

	if err := f.uc.DeleteTransaction(ctx, debit.ID); !errors.Is(err, domain.ErrTransactionNotFound) {
		t.Fatalf("expected ErrTransactionNotFound on second delete, got %v", err)
	}

	if f.recorder.Deleted[domain.KindDebit] != 1 {
		t.Fatalf("expected one debit deletion recorded, got %d", f.recorder.Deleted[domain.KindDebit])
	}
}

func TestTransactionUseCase_DeleteDueLeavesDebitLinks(t *testing.T) {
	f := newLedgerFixture(t)
	ctx := context.Background()

	due := f.createDue(t, 100)
	debit := f.createDebit(t, 40, due.ID)

	if err := f.uc.DeleteTransaction(ctx, due.ID); err != nil {
		t.Fatalf("delete due: %v", err)
	}

	stored := f.get(t, debit.ID)
	if len(stored.LinkedDues) != 1 || stored.LinkedDues[0] != due.ID {
		t.Fatalf("expected debit to keep its link, got %v", stored.LinkedDues)
	}

	if err := f.uc.DeleteTransaction(ctx, debit.ID); err != nil {
		t.Fatalf("delete debit with dangling link: %v", err)
	}
}

func TestTransactionUseCase_CreateBulkTransactions(t *testing.T) {
	ctx := context.Background()

	t.Run("empty batch", func(t *testing.T) {
		f := newLedgerFixture(t)
		if _, err := f.uc.CreateBulkTransactions(ctx, "user-1", nil); !errors.Is(err, domain.ErrValidation) {
			t.Fatalf("expected ErrValidation, got %v", err)
		}
	})

	t.Run("one invalid item stores nothing", func(t *testing.T) {
		f := newLedgerFixture(t)
		_, err := f.uc.CreateBulkTransactions(ctx, "user-1", []usecase.CreateTransactionInput{
			{Kind: domain.KindCredit, Amount: amt(10)},
			{Kind: domain.KindDue, Amount: amt(10)},
		})
		if !errors.Is(err, domain.ErrValidation) {
			t.Fatalf("expected ErrValidation, got %v", err)
		}

		all, _ := f.store.Transactions.Find(ctx, domain.TransactionFilter{})
		if len(all) != 0 {
			t.Fatalf("expected nothing stored, got %d", len(all))
		}
	})

	t.Run("bad link stores nothing", func(t *testing.T) {
		f := newLedgerFixture(t)
		due := f.createDue(t, 100)

		_, err := f.uc.CreateBulkTransactions(ctx, "user-1", []usecase.CreateTransactionInput{
			{Kind: domain.KindDebit, Amount: amt(10), LinkedDues: []string{due.ID}},
			{Kind: domain.KindDebit, Amount: amt(10), LinkedDues: []string{"missing"}},
		})
		if !errors.Is(err, domain.ErrInvalidLink) {
			t.Fatalf("expected ErrInvalidLink, got %v", err)
		}
		if got := f.get(t, due.ID); len(got.Payments) != 0 {
			t.Fatalf("expected due untouched, got %+v", got.Payments)
		}
	})

	t.Run("links each item in order", func(t *testing.T) {
		f := newLedgerFixture(t)
		due := f.createDue(t, 100)

		result, err := f.uc.CreateBulkTransactions(ctx, "user-1", []usecase.CreateTransactionInput{
			{Kind: domain.KindDebit, Amount: amt(30), LinkedDues: []string{due.ID}},
			{Kind: domain.KindDebit, Amount: amt(70), LinkedDues: []string{due.ID}},
			{Kind: domain.KindCredit, Amount: amt(5)},
		})
		if err != nil {
			t.Fatalf("bulk create: %v", err)
		}
		if result.Count != 3 || len(result.Transactions) != 3 {
			t.Fatalf("expected 3 created, got %d", result.Count)
		}

		stored := f.get(t, due.ID)
		if stored.Status != domain.StatusFullyPaid || len(stored.Payments) != 2 {
			t.Fatalf("expected Fully Paid with 2 payments, got %s %+v", stored.Status, stored.Payments)
		}
		if stored.Payments[0].PaymentTransactionID != result.Transactions[0].ID {
			t.Fatalf("expected payments applied in input order")
		}
	})
}

func TestTransactionUseCase_ListTransactionsWithoutLimitReturnsAll(t *testing.T) {
	f := newLedgerFixture(t)
	ctx := context.Background()

	total := domain.DefaultPageSize + 5
	for range total {
		if _, err := f.uc.CreateTransaction(ctx, "user-1", usecase.CreateTransactionInput{Kind: domain.KindCredit, Amount: amt(1)}); err != nil {
			t.Fatalf("create credit: %v", err)
		}
	}

	tests := []struct {
		name  string
		input usecase.ListTransactionsInput
		want  int
	}{
		{name: "no limit", input: usecase.ListTransactionsInput{}, want: total},
		{name: "explicit limit", input: usecase.ListTransactionsInput{Limit: 5}, want: 5},
		{name: "offset without limit", input: usecase.ListTransactionsInput{Offset: 20}, want: total - 20},
		{name: "negative offset", input: usecase.ListTransactionsInput{Offset: -3}, want: total},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			txs, err := f.uc.ListTransactions(ctx, tt.input)
			if err != nil {
				t.Fatalf("list: %v", err)
			}
			if len(txs) != tt.want {
				t.Fatalf("expected %d transactions, got %d", tt.want, len(txs))
			}
		})
	}
}

func TestTransactionUseCase_ListTransactions(t *testing.T) {
	f := newLedgerFixture(t)
	ctx := context.Background()

	due := f.createDue(t, 100)
	f.createDebit(t, 10, due.ID)
	f.createDebit(t, 10)
	for range 12 {
		if _, err := f.uc.CreateTransaction(ctx, "user-1", usecase.CreateTransactionInput{Kind: domain.KindCredit, Amount: amt(1)}); err != nil {
			t.Fatalf("create credit: %v", err)
		}
	}

	hasDue := true
	linked, err := f.uc.ListTransactions(ctx, usecase.ListTransactionsInput{HasDue: &hasDue})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(linked) != 1 || linked[0].Kind != domain.KindDebit {
		t.Fatalf("expected the one linking debit, got %d", len(linked))
	}

	noDue := false
	debitKind := domain.KindDebit
	unlinked, _ := f.uc.ListTransactions(ctx, usecase.ListTransactionsInput{Kind: &debitKind, HasDue: &noDue})
	if len(unlinked) != 1 {
		t.Fatalf("expected one unlinked debit, got %d", len(unlinked))
	}

	partial := domain.StatusPartiallyPaid
	dues, _ := f.uc.ListTransactions(ctx, usecase.ListTransactionsInput{Status: &partial})
	if len(dues) != 1 || dues[0].ID != due.ID {
		t.Fatalf("expected the partially paid due, got %d", len(dues))
	}

	recent, err := f.uc.ListRecentTransactions(ctx, 0)
	if err != nil {
		t.Fatalf("recent: %v", err)
	}
	if len(recent) != usecase.DefaultRecentLimit {
		t.Fatalf("expected %d recent, got %d", usecase.DefaultRecentLimit, len(recent))
	}
	for i := 1; i < len(recent); i++ {
		if recent[i].CreatedAt.After(recent[i-1].CreatedAt) {
			t.Fatalf("recent transactions are not newest first")
		}
	}
}

func TestTransactionUseCase_CheckDueConsistency(t *testing.T) {
	f := newLedgerFixture(t)
	ctx := context.Background()

	healthy := f.createDue(t, 100)
	f.createDebit(t, 50, healthy.ID)
	broken := f.createDue(t, 100)
	gone := f.createDue(t, 10)
	orphan := f.createDebit(t, 10, gone.ID)

	report, err := f.uc.CheckDueConsistency(ctx)
	if err != nil {
		t.Fatalf("check: %v", err)
	}
	if !report.Consistent || report.CheckedDues != 3 {
		t.Fatalf("expected consistent ledger of 3 dues, got %+v", report)
	}

	tampered := f.get(t, broken.ID)
	tampered.Status = domain.StatusFullyPaid
	if err := f.store.Transactions.UpdatePayments(ctx, tampered); err != nil {
		t.Fatalf("tamper: %v", err)
	}
	if err := f.store.Transactions.Delete(ctx, gone.ID); err != nil {
		t.Fatalf("delete due: %v", err)
	}

	report, err = f.uc.CheckDueConsistency(ctx)
	if err != nil {
		t.Fatalf("check: %v", err)
	}
	if report.Consistent {
		t.Fatalf("expected inconsistencies")
	}
	if len(report.Mismatches) != 1 || report.Mismatches[0].DueID != broken.ID {
		t.Fatalf("expected mismatch on %s, got %+v", broken.ID, report.Mismatches)
	}
	if report.Mismatches[0].ExpectedStatus != domain.StatusPending {
		t.Fatalf("expected Pending to be reported, got %s", report.Mismatches[0].ExpectedStatus)
	}
	if len(report.DanglingLinks) != 1 || report.DanglingLinks[0].DebitID != orphan.ID {
		t.Fatalf("expected dangling link from %s, got %+v", orphan.ID, report.DanglingLinks)
	}
}

func TestTransactionUseCase_OutboxFailureDoesNotFailCreate(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	store := memory.NewStore()
	ids := &mocks.SequentialIDGenerator{}
	outbox := mocks.NewMockOutboxRepository(ctrl)
	outbox.EXPECT().Create(gomock.Any(), gomock.Any()).Return(errors.New("outbox down")).AnyTimes()

	reconciler := usecase.NewDueReconciler(store.Transactions, &mocks.ImmediateRetrier{}, nil)
	mirror := usecase.NewMirrorSync(store.AccountCategories, store.PersonalTransactions, ids, nil)
	uc := usecase.NewTransactionUseCase(store.Transactions, reconciler, mirror, outbox, ids, nil, zerolog.Nop())

	tx, err := uc.CreateTransaction(context.Background(), "user-1", usecase.CreateTransactionInput{
		Kind:   domain.KindCredit,
		Amount: amt(10),
	})
	if err != nil {
		t.Fatalf("expected create to succeed, got %v", err)
	}
	if _, err := store.Transactions.GetByID(context.Background(), tx.ID); err != nil {
		t.Fatalf("expected transaction stored: %v", err)
	}
}

func TestTransactionUseCase_MirrorLookupFailure(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	store := memory.NewStore()
	ids := &mocks.SequentialIDGenerator{}
	lookupErr := errors.New("categories unavailable")
	categories := mocks.NewMockAccountCategoryLookup(ctrl)
	categories.EXPECT().GetByID(gomock.Any(), "acc-1").Return(nil, lookupErr)

	reconciler := usecase.NewDueReconciler(store.Transactions, &mocks.ImmediateRetrier{}, nil)
	mirror := usecase.NewMirrorSync(categories, store.PersonalTransactions, ids, nil)
	uc := usecase.NewTransactionUseCase(store.Transactions, reconciler, mirror, nil, ids, nil, zerolog.Nop())

	_, err := uc.CreateTransaction(context.Background(), "user-1", usecase.CreateTransactionInput{
		Kind:      domain.KindDebit,
		Amount:    amt(10),
		AccountID: "acc-1",
		Date:      ptrTime(time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)),
	})
	if !errors.Is(err, lookupErr) {
		t.Fatalf("expected lookup error, got %v", err)
	}
}

func ptrTime(t time.Time) *time.Time {
	return &t
}

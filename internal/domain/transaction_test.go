package domain

import (
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func amount(v int64) decimal.NullDecimal {
	return decimal.NewNullDecimal(decimal.NewFromInt(v))
}

func TestClassify(t *testing.T) {
	original := decimal.NewFromInt(100)

	tests := []struct {
		name string
		paid decimal.Decimal
		want DueStatus
	}{
		{"nothing paid", decimal.Zero, StatusPending},
		{"half paid", decimal.NewFromInt(50), StatusPartiallyPaid},
		{"a cent short", decimal.RequireFromString("99.99"), StatusPartiallyPaid},
		{"exactly paid", decimal.NewFromInt(100), StatusFullyPaid},
		{"overpaid", decimal.NewFromInt(150), StatusFullyPaid},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Classify(tt.paid, original); got != tt.want {
				t.Fatalf("Classify(%s, 100) = %q, want %q", tt.paid, got, tt.want)
			}
		})
	}
}

func TestClassify_ZeroAmountDue(t *testing.T) {
	if got := Classify(decimal.Zero, decimal.Zero); got != StatusFullyPaid {
		t.Fatalf("Classify(0, 0) = %q, want %q", got, StatusFullyPaid)
	}

	dueDate := time.Date(2026, 11, 1, 0, 0, 0, 0, time.UTC)
	tx, err := NewTransaction(TransactionParams{Kind: KindDue, Amount: amount(0), DueDate: &dueDate})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if tx.Status != StatusFullyPaid {
		t.Fatalf("a zero-amount due should start Fully Paid, got %q", tx.Status)
	}
}

func TestNewTransaction_Validation(t *testing.T) {
	due := time.Date(2026, 11, 1, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name    string
		params  TransactionParams
		wantErr bool
	}{
		{
			name:   "credit",
			params: TransactionParams{Kind: KindCredit, Amount: amount(10)},
		},
		{
			name:   "zero amount is allowed",
			params: TransactionParams{Kind: KindDebit, Amount: amount(0)},
		},
		{
			name:    "unknown kind",
			params:  TransactionParams{Kind: "Refund", Amount: amount(10)},
			wantErr: true,
		},
		{
			name:    "missing amount",
			params:  TransactionParams{Kind: KindCredit},
			wantErr: true,
		},
		{
			name:    "negative amount",
			params:  TransactionParams{Kind: KindCredit, Amount: amount(-1)},
			wantErr: true,
		},
		{
			name:    "due without due date",
			params:  TransactionParams{Kind: KindDue, Amount: amount(100)},
			wantErr: true,
		},
		{
			name:   "due with due date",
			params: TransactionParams{Kind: KindDue, Amount: amount(100), DueDate: &due},
		},
		{
			name:    "credit with linked dues",
			params:  TransactionParams{Kind: KindCredit, Amount: amount(10), LinkedDues: []string{"due-1"}},
			wantErr: true,
		},
		{
			name:    "due with linked dues",
			params:  TransactionParams{Kind: KindDue, Amount: amount(10), DueDate: &due, LinkedDues: []string{"due-1"}},
			wantErr: true,
		},
		{
			name:   "debit with linked dues",
			params: TransactionParams{Kind: KindDebit, Amount: amount(10), LinkedDues: []string{"due-1"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tx, err := NewTransaction(tt.params)
			if tt.wantErr {
				if !errors.Is(err, ErrValidation) {
					t.Fatalf("expected ErrValidation, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if tx.Kind != tt.params.Kind {
				t.Fatalf("expected kind %s, got %s", tt.params.Kind, tx.Kind)
			}
		})
	}
}

func TestNewTransaction_DueDefaults(t *testing.T) {
	dueDate := time.Date(2026, 11, 1, 0, 0, 0, 0, time.UTC)
	created := time.Date(2026, 10, 1, 9, 0, 0, 0, time.UTC)

	tx, err := NewTransaction(TransactionParams{
		ID:        "due-1",
		Kind:      KindDue,
		Amount:    amount(100),
		DueDate:   &dueDate,
		CreatedAt: created,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !tx.OriginalDueAmount.Equal(decimal.NewFromInt(100)) {
		t.Fatalf("expected original due amount 100, got %s", tx.OriginalDueAmount)
	}
	if tx.Status != StatusPending {
		t.Fatalf("expected Pending, got %s", tx.Status)
	}
	if !tx.Date.Equal(created) {
		t.Fatalf("expected date to default to creation time, got %s", tx.Date)
	}

	tx.Amount = decimal.NewFromInt(500)
	if !tx.OriginalDueAmount.Equal(decimal.NewFromInt(100)) {
		t.Fatalf("original due amount must not follow amount, got %s", tx.OriginalDueAmount)
	}
}

func TestNewTransaction_ExplicitOriginalDueAmount(t *testing.T) {
	dueDate := time.Date(2026, 11, 1, 0, 0, 0, 0, time.UTC)

	tx, err := NewTransaction(TransactionParams{
		Kind:              KindDue,
		Amount:            amount(100),
		OriginalDueAmount: amount(80),
		DueDate:           &dueDate,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !tx.OriginalDueAmount.Equal(decimal.NewFromInt(80)) {
		t.Fatalf("expected 80, got %s", tx.OriginalDueAmount)
	}
}

func TestTransaction_PaymentLifecycle(t *testing.T) {
	dueDate := time.Date(2026, 11, 1, 0, 0, 0, 0, time.UTC)
	due, err := NewTransaction(TransactionParams{ID: "due", Kind: KindDue, Amount: amount(100), DueDate: &dueDate})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	now := time.Now()
	if err := due.ApplyPayment(Payment{Amount: decimal.NewFromInt(60), PaymentDate: now, PaymentTransactionID: "d1"}); err != nil {
		t.Fatalf("apply failed: %v", err)
	}
	if due.Status != StatusPartiallyPaid {
		t.Fatalf("expected Partially Paid, got %s", due.Status)
	}

	if err := due.ApplyPayment(Payment{Amount: decimal.NewFromInt(40), PaymentDate: now, PaymentTransactionID: "d2"}); err != nil {
		t.Fatalf("apply failed: %v", err)
	}
	if due.Status != StatusFullyPaid {
		t.Fatalf("expected Fully Paid, got %s", due.Status)
	}

	if removed := due.RemovePaymentsFrom("d2"); removed != 1 {
		t.Fatalf("expected one payment removed, got %d", removed)
	}
	if due.Status != StatusPartiallyPaid || !due.PaidAmount().Equal(decimal.NewFromInt(60)) {
		t.Fatalf("expected Partially Paid with 60, got %s with %s", due.Status, due.PaidAmount())
	}

	if removed := due.RemovePaymentsFrom("d2"); removed != 0 {
		t.Fatalf("expected second removal to be a no-op, got %d", removed)
	}

	due.RemovePaymentsFrom("d1")
	if due.Status != StatusPending {
		t.Fatalf("expected Pending after all payments removed, got %s", due.Status)
	}
	if !due.StatusConsistent() {
		t.Fatal("expected status to be consistent")
	}
}

func TestTransaction_ApplyPaymentRejectsNonDue(t *testing.T) {
	credit, err := NewTransaction(TransactionParams{ID: "c", Kind: KindCredit, Amount: amount(5)})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	err = credit.ApplyPayment(Payment{Amount: decimal.NewFromInt(1), PaymentTransactionID: "d"})
	if !errors.Is(err, ErrInvalidLink) {
		t.Fatalf("expected ErrInvalidLink, got %v", err)
	}
}

func TestTransactionFilter_Matches(t *testing.T) {
	debit := KindDebit
	pending := StatusPending
	yes, no := true, false

	linked := &Transaction{Kind: KindDebit, LinkedDues: []string{"due"}}
	unlinked := &Transaction{Kind: KindDebit}
	due := &Transaction{Kind: KindDue, Status: StatusPending}

	tests := []struct {
		name   string
		filter TransactionFilter
		tx     *Transaction
		want   bool
	}{
		{"empty filter", TransactionFilter{}, due, true},
		{"kind match", TransactionFilter{Kind: &debit}, linked, true},
		{"kind mismatch", TransactionFilter{Kind: &debit}, due, false},
		{"status match", TransactionFilter{Status: &pending}, due, true},
		{"status mismatch", TransactionFilter{Status: &pending}, linked, false},
		{"hasDue true on linked", TransactionFilter{HasDue: &yes}, linked, true},
		{"hasDue true on unlinked", TransactionFilter{HasDue: &yes}, unlinked, false},
		{"hasDue false on unlinked", TransactionFilter{HasDue: &no}, unlinked, true},
		{"hasDue false on linked", TransactionFilter{HasDue: &no}, linked, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.filter.Matches(tt.tx); got != tt.want {
				t.Fatalf("Matches() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestParseKindAndStatus(t *testing.T) {
	if k, err := ParseKind("Due"); err != nil || k != KindDue {
		t.Fatalf("expected Due, got %q err=%v", k, err)
	}
	if _, err := ParseKind("due"); !errors.Is(err, ErrValidation) {
		t.Fatalf("expected case-sensitive kind parsing, got %v", err)
	}
	if s, err := ParseDueStatus("Partially Paid"); err != nil || s != StatusPartiallyPaid {
		t.Fatalf("expected Partially Paid, got %q err=%v", s, err)
	}
	if _, err := ParseDueStatus("Overdue"); !errors.Is(err, ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
}

package domain

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// Kind is the direction of a company ledger entry.
type Kind string

const (
	KindCredit Kind = "Credit"
	KindDebit  Kind = "Debit"
	KindDue    Kind = "Due"
)

// IsValid reports whether k is one of the known kinds.
func (k Kind) IsValid() bool {
	switch k {
	case KindCredit, KindDebit, KindDue:
		return true
	}
	return false
}

// ParseKind converts a raw string into a Kind.
func ParseKind(s string) (Kind, error) {
	k := Kind(s)
	if !k.IsValid() {
		return "", fmt.Errorf("%w: kind %q is not one of Credit, Debit, Due", ErrValidation, s)
	}
	return k, nil
}

// DueStatus is the repayment state of a Due entry.
type DueStatus string

const (
	StatusPending       DueStatus = "Pending"
	StatusPartiallyPaid DueStatus = "Partially Paid"
	StatusFullyPaid     DueStatus = "Fully Paid"
)

// IsValid reports whether s is one of the known statuses.
func (s DueStatus) IsValid() bool {
	switch s {
	case StatusPending, StatusPartiallyPaid, StatusFullyPaid:
		return true
	}
	return false
}

// ParseDueStatus converts a raw string into a DueStatus.
func ParseDueStatus(s string) (DueStatus, error) {
	st := DueStatus(s)
	if !st.IsValid() {
		return "", fmt.Errorf("%w: status %q is not one of Pending, Partially Paid, Fully Paid", ErrValidation, s)
	}
	return st, nil
}

// Classify derives the status of a Due from the amount paid against it.
func Classify(paid, original decimal.Decimal) DueStatus {
	switch {
	case paid.GreaterThanOrEqual(original):
		return StatusFullyPaid
	case paid.IsPositive():
		return StatusPartiallyPaid
	default:
		return StatusPending
	}
}

// Payment records one Debit paying down a Due.
type Payment struct {
	Amount               decimal.Decimal
	PaymentDate          time.Time
	PaymentTransactionID string
}

// Transaction is a single company money movement.
// Payments, Status and OriginalDueAmount are only meaningful for Due entries;
// LinkedDues is only ever set on Debit entries.
type Transaction struct {
	ID                string
	Date              time.Time
	Kind              Kind
	Amount            decimal.Decimal
	DueDate           *time.Time
	OriginalDueAmount decimal.Decimal
	Status            DueStatus
	LinkedDues        []string
	Payments          []Payment
	AccountID         string
	VendorID          string
	Items             []string
	Purpose           string
	Files             []string
	AddedBy           string
	Version           int64
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// TransactionParams carries the caller-supplied fields of a new Transaction.
type TransactionParams struct {
	ID                string
	Kind              Kind
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
	AddedBy           string
	CreatedAt         time.Time
}

// Validate checks the per-kind field requirements.
func (p TransactionParams) Validate() error {
	if !p.Kind.IsValid() {
		return fmt.Errorf("%w: kind %q is not one of Credit, Debit, Due", ErrValidation, p.Kind)
	}

	if !p.Amount.Valid {
		return fmt.Errorf("%w: amount is required", ErrValidation)
	}
	if p.Amount.Decimal.IsNegative() {
		return fmt.Errorf("%w: amount must not be negative", ErrValidation)
	}

	switch p.Kind {
	case KindDue:
		if p.DueDate == nil || p.DueDate.IsZero() {
			return fmt.Errorf("%w: due date is required for Due transactions", ErrValidation)
		}
		if p.OriginalDueAmount.Valid && p.OriginalDueAmount.Decimal.IsNegative() {
			return fmt.Errorf("%w: original due amount must not be negative", ErrValidation)
		}
	case KindCredit, KindDebit:
	}

	if len(p.LinkedDues) > 0 && p.Kind != KindDebit {
		return fmt.Errorf("%w: only Debit transactions can be linked to Due transactions", ErrValidation)
	}

	return nil
}

// NewTransaction validates params and builds a Transaction.
// A Due starts with no payments and its OriginalDueAmount defaults to Amount.
func NewTransaction(p TransactionParams) (*Transaction, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}

	createdAt := p.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}
	date := createdAt
	if p.Date != nil && !p.Date.IsZero() {
		date = *p.Date
	}

	tx := &Transaction{
		ID:        p.ID,
		Date:      date,
		Kind:      p.Kind,
		Amount:    p.Amount.Decimal,
		AccountID: p.AccountID,
		VendorID:  p.VendorID,
		Items:     append([]string(nil), p.Items...),
		Purpose:   p.Purpose,
		Files:     append([]string(nil), p.Files...),
		AddedBy:   p.AddedBy,
		CreatedAt: createdAt,
		UpdatedAt: createdAt,
	}

	switch p.Kind {
	case KindDue:
		dueDate := *p.DueDate
		tx.DueDate = &dueDate
		tx.OriginalDueAmount = p.Amount.Decimal
		if p.OriginalDueAmount.Valid {
			tx.OriginalDueAmount = p.OriginalDueAmount.Decimal
		}
		tx.Reclassify()
	case KindDebit:
		tx.LinkedDues = append([]string(nil), p.LinkedDues...)
	case KindCredit:
	}

	return tx, nil
}

// IsDue reports whether t tracks an outstanding balance.
func (t *Transaction) IsDue() bool {
	return t.Kind == KindDue
}

// HasLinkedDues reports whether t pays down at least one Due.
func (t *Transaction) HasLinkedDues() bool {
	return len(t.LinkedDues) > 0
}

// PaidAmount sums the recorded payments.
func (t *Transaction) PaidAmount() decimal.Decimal {
	paid := decimal.Zero
	for _, p := range t.Payments {
		paid = paid.Add(p.Amount)
	}
	return paid
}

// Outstanding is what remains owed on a Due, never below zero.
func (t *Transaction) Outstanding() decimal.Decimal {
	left := t.OriginalDueAmount.Sub(t.PaidAmount())
	if left.IsNegative() {
		return decimal.Zero
	}
	return left
}

// Reclassify recomputes Status from the recorded payments.
func (t *Transaction) Reclassify() DueStatus {
	t.Status = Classify(t.PaidAmount(), t.OriginalDueAmount)
	return t.Status
}

// ApplyPayment appends a payment to a Due and reclassifies it.
func (t *Transaction) ApplyPayment(p Payment) error {
	if !t.IsDue() {
		return fmt.Errorf("%w: transaction %s is a %s, not a Due", ErrInvalidLink, t.ID, t.Kind)
	}

	t.Payments = append(t.Payments, p)
	t.Reclassify()

	return nil
}

// RemovePaymentsFrom drops every payment produced by debitID and reclassifies.
// It returns the number of payments removed.
func (t *Transaction) RemovePaymentsFrom(debitID string) int {
	kept := t.Payments[:0:0]
	for _, p := range t.Payments {
		if p.PaymentTransactionID != debitID {
			kept = append(kept, p)
		}
	}

	removed := len(t.Payments) - len(kept)
	t.Payments = kept
	t.Reclassify()

	return removed
}

// StatusConsistent reports whether the stored Status matches the payments.
func (t *Transaction) StatusConsistent() bool {
	return t.Status == Classify(t.PaidAmount(), t.OriginalDueAmount)
}

// FirstFile returns the first attached file, or "".
func (t *Transaction) FirstFile() string {
	if len(t.Files) == 0 {
		return ""
	}
	return t.Files[0]
}

// TransactionFilter narrows a transaction listing. Nil fields match everything.
// A zero Limit means no limit.
type TransactionFilter struct {
	Kind        *Kind
	Status      *DueStatus
	HasDue      *bool
	CreatedFrom *time.Time
	CreatedTo   *time.Time
	Limit       int
	Offset      int
}

// Matches applies the filter predicates to a single transaction.
func (f TransactionFilter) Matches(t *Transaction) bool {
	if f.Kind != nil && t.Kind != *f.Kind {
		return false
	}
	if f.Status != nil && t.Status != *f.Status {
		return false
	}
	if f.HasDue != nil && t.HasLinkedDues() != *f.HasDue {
		return false
	}
	if f.CreatedFrom != nil && t.CreatedAt.Before(*f.CreatedFrom) {
		return false
	}
	if f.CreatedTo != nil && !t.CreatedAt.Before(*f.CreatedTo) {
		return false
	}
	return true
}

package domain

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// PersonalTransaction is an entry in a user's own ledger.
// When CompanyTransactionID is set the entry mirrors a company Debit and is
// owned by it: it is created and deleted together with that Debit only.
type PersonalTransaction struct {
	ID                   string
	UserID               string
	Purpose              string
	Amount               decimal.Decimal
	Kind                 Kind
	FileURL              string
	Time                 time.Time
	CompanyTransactionID string
}

// IsMirror reports whether p shadows a company transaction.
func (p *PersonalTransaction) IsMirror() bool {
	return p.CompanyTransactionID != ""
}

// Validate checks a manually entered personal transaction.
func (p *PersonalTransaction) Validate() error {
	if p.UserID == "" {
		return fmt.Errorf("%w: user is required", ErrValidation)
	}
	if p.Kind != KindCredit && p.Kind != KindDebit {
		return fmt.Errorf("%w: personal transactions are Credit or Debit", ErrValidation)
	}
	if p.Amount.IsNegative() {
		return fmt.Errorf("%w: amount must not be negative", ErrValidation)
	}
	return nil
}

// NewMirror builds the personal Credit that shadows a company Debit for linkedUser.
func NewMirror(id string, tx *Transaction, linkedUser string, now time.Time) *PersonalTransaction {
	return &PersonalTransaction{
		ID:                   id,
		UserID:               linkedUser,
		Purpose:              tx.Purpose,
		Amount:               tx.Amount,
		Kind:                 KindCredit,
		FileURL:              tx.FirstFile(),
		Time:                 now,
		CompanyTransactionID: tx.ID,
	}
}

package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/iho/totza/internal/domain"
)

// MirrorSync maintains the personal Credit that shadows a company Debit
// booked against an account category with a linked user.
type MirrorSync struct {
	categories   AccountCategoryLookup
	personalRepo PersonalTransactionRepository
	idGen        IDGenerator
	recorder     Recorder
	now          func() time.Time
}

// NewMirrorSync creates a new MirrorSync.
func NewMirrorSync(
	categories AccountCategoryLookup,
	personalRepo PersonalTransactionRepository,
	idGen IDGenerator,
	recorder Recorder,
) *MirrorSync {
	if recorder == nil {
		recorder = NopRecorder{}
	}

	return &MirrorSync{
		categories:   categories,
		personalRepo: personalRepo,
		idGen:        idGen,
		recorder:     recorder,
		now:          func() time.Time { return time.Now().UTC() },
	}
}

// OnCreate creates the mirror for tx when one is due, returning nil otherwise.
func (m *MirrorSync) OnCreate(ctx context.Context, tx *domain.Transaction) (*domain.PersonalTransaction, error) {
	if tx.Kind != domain.KindDebit || tx.AccountID == "" {
		return nil, nil
	}

	category, err := m.categories.GetByID(ctx, tx.AccountID)
	if errors.Is(err, domain.ErrAccountCategoryNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("resolve account category %s: %w", tx.AccountID, err)
	}

	if !category.HasLinkedUser() {
		return nil, nil
	}

	mirror := domain.NewMirror(m.idGen.Generate(), tx, category.LinkedUserID, m.now())
	if err := m.personalRepo.Create(ctx, mirror); err != nil {
		return nil, fmt.Errorf("create personal mirror for %s: %w", tx.ID, err)
	}

	m.recorder.MirrorCreated()

	return mirror, nil
}

// OnDelete removes the mirror of the deleted transaction, if any.
func (m *MirrorSync) OnDelete(ctx context.Context, transactionID string) error {
	if _, err := m.personalRepo.DeleteByCompanyTransaction(ctx, transactionID); err != nil {
		return fmt.Errorf("delete personal mirror for %s: %w", transactionID, err)
	}
	return nil
}

package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/totza/internal/domain"
)

// PersonalTransactionUseCase handles the actor's own ledger.
// Entries mirrored from company Debits are listed here but owned by the Debit.
type PersonalTransactionUseCase struct {
	repo  PersonalTransactionRepository
	idGen IDGenerator
}

// NewPersonalTransactionUseCase creates a new PersonalTransactionUseCase.
func NewPersonalTransactionUseCase(repo PersonalTransactionRepository, idGen IDGenerator) *PersonalTransactionUseCase {
	return &PersonalTransactionUseCase{repo: repo, idGen: idGen}
}

// CreatePersonalTransactionInput represents input for a manual personal entry.
type CreatePersonalTransactionInput struct {
	Purpose string
	Amount  decimal.Decimal
	Kind    domain.Kind
	FileURL string
	Time    *time.Time
}

// CreatePersonalTransaction records a manual entry for actor.
func (uc *PersonalTransactionUseCase) CreatePersonalTransaction(ctx context.Context, actor string, input CreatePersonalTransactionInput) (*domain.PersonalTransaction, error) {
	at := time.Now().UTC()
	if input.Time != nil {
		at = *input.Time
	}

	p := &domain.PersonalTransaction{
		ID:      uc.idGen.Generate(),
		UserID:  actor,
		Purpose: strings.TrimSpace(input.Purpose),
		Amount:  input.Amount,
		Kind:    input.Kind,
		FileURL: input.FileURL,
		Time:    at,
	}

	if err := p.Validate(); err != nil {
		return nil, err
	}

	if err := uc.repo.Create(ctx, p); err != nil {
		return nil, err
	}

	return p, nil
}

// ListPersonalTransactions lists actor's entries, mirrors included, newest first.
func (uc *PersonalTransactionUseCase) ListPersonalTransactions(ctx context.Context, actor string, limit, offset int) ([]*domain.PersonalTransaction, error) {
	limit, offset = domain.ValidatePagination(limit, offset)
	return uc.repo.ListByUser(ctx, actor, limit, offset)
}

// DeletePersonalTransaction deletes a manual entry. Mirrors are rejected.
func (uc *PersonalTransactionUseCase) DeletePersonalTransaction(ctx context.Context, actor, id string) error {
	p, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if p.UserID != actor {
		return domain.ErrPersonalTransactionNotFound
	}

	if p.IsMirror() {
		return domain.ErrMirrorReadOnly
	}

	return uc.repo.Delete(ctx, id)
}

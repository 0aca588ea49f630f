package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/totza/internal/domain"
)

// ExpenseUseCase handles personal expenses. Every operation is scoped to the actor.
type ExpenseUseCase struct {
	repo  ExpenseRepository
	idGen IDGenerator
}

// NewExpenseUseCase creates a new ExpenseUseCase.
func NewExpenseUseCase(repo ExpenseRepository, idGen IDGenerator) *ExpenseUseCase {
	return &ExpenseUseCase{repo: repo, idGen: idGen}
}

// ExpenseInput represents input for creating or updating an expense.
type ExpenseInput struct {
	Purpose string
	Amount  decimal.Decimal
	Time    *time.Time
}

// CreateExpense records an expense for actor.
func (uc *ExpenseUseCase) CreateExpense(ctx context.Context, actor string, input ExpenseInput) (*domain.Expense, error) {
	at := time.Now().UTC()
	if input.Time != nil {
		at = *input.Time
	}

	expense := &domain.Expense{
		ID:      uc.idGen.Generate(),
		Purpose: strings.TrimSpace(input.Purpose),
		Amount:  input.Amount,
		Time:    at,
		AddedBy: actor,
	}

	if err := expense.Validate(); err != nil {
		return nil, err
	}

	if err := uc.repo.Create(ctx, expense); err != nil {
		return nil, err
	}

	return expense, nil
}

// GetExpense retrieves one of actor's expenses.
func (uc *ExpenseUseCase) GetExpense(ctx context.Context, actor, id string) (*domain.Expense, error) {
	expense, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	// another user's expense is reported as missing
	if expense.AddedBy != actor {
		return nil, domain.ErrExpenseNotFound
	}

	return expense, nil
}

// ListExpenses lists actor's expenses newest first.
func (uc *ExpenseUseCase) ListExpenses(ctx context.Context, actor string, limit, offset int) ([]*domain.Expense, error) {
	limit, offset = domain.ValidatePagination(limit, offset)
	return uc.repo.ListByOwner(ctx, actor, limit, offset)
}

// UpdateExpense replaces the purpose, amount and time of an expense.
func (uc *ExpenseUseCase) UpdateExpense(ctx context.Context, actor, id string, input ExpenseInput) (*domain.Expense, error) {
	expense, err := uc.GetExpense(ctx, actor, id)
	if err != nil {
		return nil, err
	}

	expense.Purpose = strings.TrimSpace(input.Purpose)
	expense.Amount = input.Amount
	if input.Time != nil {
		expense.Time = *input.Time
	}

	if err := expense.Validate(); err != nil {
		return nil, err
	}

	if err := uc.repo.Update(ctx, expense); err != nil {
		return nil, err
	}

	return expense, nil
}

// DeleteExpense deletes one of actor's expenses.
func (uc *ExpenseUseCase) DeleteExpense(ctx context.Context, actor, id string) error {
	if _, err := uc.GetExpense(ctx, actor, id); err != nil {
		return err
	}

	return uc.repo.Delete(ctx, id)
}

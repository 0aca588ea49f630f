package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/iho/totza/internal/domain"
)

// DueReconciler keeps the payments and status of Due transactions in step
// with the Debits that pay them down.
//
// Dues are updated one at a time in the order given. Each update is a
// read-modify-write of a single Due guarded by its Version, so a concurrent
// writer causes a re-read rather than a lost payment. A failure part way
// through a call leaves the Dues already updated in place.
type DueReconciler struct {
	txRepo   TransactionRepository
	retrier  Retrier
	recorder Recorder
	now      func() time.Time
}

// NewDueReconciler creates a new DueReconciler.
func NewDueReconciler(txRepo TransactionRepository, retrier Retrier, recorder Recorder) *DueReconciler {
	if recorder == nil {
		recorder = NopRecorder{}
	}

	return &DueReconciler{
		txRepo:   txRepo,
		retrier:  retrier,
		recorder: recorder,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// CheckLinks verifies that debit may pay every Due in dueIDs without touching any of them.
// Every id must resolve to a distinct existing Due.
func (r *DueReconciler) CheckLinks(ctx context.Context, debit *domain.Transaction, dueIDs []string) error {
	if len(dueIDs) == 0 {
		return nil
	}

	if debit.Kind != domain.KindDebit {
		return fmt.Errorf("%w: only Debit transactions can be linked to Due transactions", domain.ErrInvalidLink)
	}

	found, err := r.txRepo.FindDues(ctx, dueIDs)
	if err != nil {
		return err
	}

	if len(found) != len(dueIDs) {
		return fmt.Errorf("%w: %d of %d linked ids are Due transactions", domain.ErrInvalidLink, len(found), len(dueIDs))
	}

	return nil
}

// LinkPayment records debit as a payment on each Due in dueIDs.
// It returns the Dues it updated, which on error are the ones updated before the failure.
func (r *DueReconciler) LinkPayment(ctx context.Context, debit *domain.Transaction, dueIDs []string) ([]*domain.Transaction, error) {
	if err := r.CheckLinks(ctx, debit, dueIDs); err != nil {
		return nil, err
	}

	return r.ApplyLinks(ctx, debit, dueIDs)
}

// ApplyLinks appends the payments without the upfront check.
// Callers must have run CheckLinks for the same ids first.
func (r *DueReconciler) ApplyLinks(ctx context.Context, debit *domain.Transaction, dueIDs []string) ([]*domain.Transaction, error) {
	updated := make([]*domain.Transaction, 0, len(dueIDs))

	for _, dueID := range dueIDs {
		due, err := r.updateDue(ctx, dueID, func(due *domain.Transaction) (bool, error) {
			payment := domain.Payment{
				Amount:               debit.Amount,
				PaymentDate:          r.now(),
				PaymentTransactionID: debit.ID,
			}
			if err := due.ApplyPayment(payment); err != nil {
				return false, err
			}
			return true, nil
		})
		if err != nil {
			return updated, fmt.Errorf("link payment %s to due %s: %w", debit.ID, dueID, err)
		}
		if due == nil {
			continue
		}

		r.recorder.PaymentLinked(due.Status)
		updated = append(updated, due)
	}

	return updated, nil
}

// UnlinkPayment removes every payment debit made from the Dues it lists.
// Dues that no longer exist are skipped, and calling it again changes nothing.
func (r *DueReconciler) UnlinkPayment(ctx context.Context, debit *domain.Transaction) ([]*domain.Transaction, error) {
	updated := make([]*domain.Transaction, 0, len(debit.LinkedDues))

	for _, dueID := range debit.LinkedDues {
		due, err := r.updateDue(ctx, dueID, func(due *domain.Transaction) (bool, error) {
			return due.RemovePaymentsFrom(debit.ID) > 0, nil
		})
		if err != nil {
			return updated, fmt.Errorf("unlink payment %s from due %s: %w", debit.ID, dueID, err)
		}
		if due == nil {
			continue
		}

		r.recorder.PaymentUnlinked(due.Status)
		updated = append(updated, due)
	}

	return updated, nil
}

// updateDue loads a Due, applies mutate and writes it back if it changed.
// It returns nil when the Due is gone or mutate reported no change.
func (r *DueReconciler) updateDue(ctx context.Context, dueID string, mutate func(*domain.Transaction) (bool, error)) (*domain.Transaction, error) {
	var result *domain.Transaction

	err := r.retrier.Retry(ctx, func() error {
		result = nil

		due, err := r.txRepo.GetByID(ctx, dueID)
		if errors.Is(err, domain.ErrTransactionNotFound) {
			return nil
		}
		if err != nil {
			return err
		}

		changed, err := mutate(due)
		if err != nil {
			return err
		}
		if !changed {
			return nil
		}

		due.UpdatedAt = r.now()
		if err := r.txRepo.UpdatePayments(ctx, due); err != nil {
			return err
		}

		result = due
		return nil
	})

	return result, err
}

package memory

import (
	"context"
	"fmt"
	"slices"
	"sort"

	"github.com/iho/totza/internal/domain"
	"github.com/iho/totza/internal/usecase"
)

var _ usecase.TransactionRepository = (*TransactionRepository)(nil)

// TransactionRepository keeps company transactions in memory.
type TransactionRepository struct {
	t *table[*domain.Transaction]
}

// NewTransactionRepository creates an empty TransactionRepository.
func NewTransactionRepository() *TransactionRepository {
	return &TransactionRepository{t: newTable(cloneTransaction, domain.ErrTransactionNotFound)}
}

func (r *TransactionRepository) Insert(_ context.Context, tx *domain.Transaction) error {
	tx.Version = 1
	return r.t.insert(tx.ID, tx)
}

// InsertMany stores the whole batch or, on a duplicate id, none of it.
func (r *TransactionRepository) InsertMany(_ context.Context, txs []*domain.Transaction) error {
	r.t.mu.Lock()
	defer r.t.mu.Unlock()

	seen := make(map[string]struct{}, len(txs))
	for _, tx := range txs {
		if _, ok := r.t.rows[tx.ID]; ok {
			return fmt.Errorf("duplicate key %q", tx.ID)
		}
		if _, ok := seen[tx.ID]; ok {
			return fmt.Errorf("duplicate key %q", tx.ID)
		}
		seen[tx.ID] = struct{}{}
	}

	for _, tx := range txs {
		tx.Version = 1
		r.t.rows[tx.ID] = cloneTransaction(tx)
	}
	return nil
}

func (r *TransactionRepository) GetByID(_ context.Context, id string) (*domain.Transaction, error) {
	return r.t.get(id)
}

func (r *TransactionRepository) FindDues(_ context.Context, ids []string) ([]*domain.Transaction, error) {
	return r.t.filter(func(tx *domain.Transaction) bool {
		return tx.Kind == domain.KindDue && slices.Contains(ids, tx.ID)
	}), nil
}

func (r *TransactionRepository) Find(_ context.Context, filter domain.TransactionFilter) ([]*domain.Transaction, error) {
	txs := r.t.filter(filter.Matches)
	sort.Slice(txs, func(i, j int) bool {
		if txs[i].CreatedAt.Equal(txs[j].CreatedAt) {
			return txs[i].ID > txs[j].ID
		}
		return txs[i].CreatedAt.After(txs[j].CreatedAt)
	})
	return page(txs, filter.Limit, filter.Offset), nil
}

func (r *TransactionRepository) UpdatePayments(_ context.Context, due *domain.Transaction) error {
	r.t.mu.Lock()
	defer r.t.mu.Unlock()

	stored, ok := r.t.rows[due.ID]
	if !ok {
		return domain.ErrTransactionNotFound
	}
	if stored.Version != due.Version {
		return domain.ErrConcurrentUpdate
	}

	stored.Payments = slices.Clone(due.Payments)
	stored.Status = due.Status
	stored.UpdatedAt = due.UpdatedAt
	stored.Version++
	due.Version = stored.Version

	return nil
}

func (r *TransactionRepository) Delete(_ context.Context, id string) error {
	return r.t.remove(id)
}

func cloneTransaction(tx *domain.Transaction) *domain.Transaction {
	c := *tx
	if tx.DueDate != nil {
		d := *tx.DueDate
		c.DueDate = &d
	}
	c.LinkedDues = slices.Clone(tx.LinkedDues)
	c.Payments = slices.Clone(tx.Payments)
	c.Items = slices.Clone(tx.Items)
	c.Files = slices.Clone(tx.Files)
	return &c
}

package memory

import (
	"context"
	"sort"

	"github.com/iho/totza/internal/domain"
	"github.com/iho/totza/internal/usecase"
)

var _ usecase.PersonalTransactionRepository = (*PersonalTransactionRepository)(nil)

// PersonalTransactionRepository keeps personal transactions in memory.
type PersonalTransactionRepository struct {
	t *table[*domain.PersonalTransaction]
}

// NewPersonalTransactionRepository creates an empty PersonalTransactionRepository.
func NewPersonalTransactionRepository() *PersonalTransactionRepository {
	return &PersonalTransactionRepository{t: newTable(clonePtr[domain.PersonalTransaction], domain.ErrPersonalTransactionNotFound)}
}

func (r *PersonalTransactionRepository) Create(_ context.Context, p *domain.PersonalTransaction) error {
	return r.t.insert(p.ID, p)
}

func (r *PersonalTransactionRepository) GetByID(_ context.Context, id string) (*domain.PersonalTransaction, error) {
	return r.t.get(id)
}

func (r *PersonalTransactionRepository) ListByUser(_ context.Context, userID string, limit, offset int) ([]*domain.PersonalTransaction, error) {
	rows := r.t.filter(func(p *domain.PersonalTransaction) bool { return p.UserID == userID })
	sort.Slice(rows, func(i, j int) bool { return rows[i].Time.After(rows[j].Time) })
	return page(rows, limit, offset), nil
}

func (r *PersonalTransactionRepository) Delete(_ context.Context, id string) error {
	return r.t.remove(id)
}

func (r *PersonalTransactionRepository) DeleteByCompanyTransaction(_ context.Context, companyTransactionID string) (bool, error) {
	r.t.mu.Lock()
	defer r.t.mu.Unlock()

	deleted := false
	for id, p := range r.t.rows {
		if p.CompanyTransactionID == companyTransactionID {
			delete(r.t.rows, id)
			deleted = true
		}
	}
	return deleted, nil
}

func clonePtr[T any](v *T) *T {
	c := *v
	return &c
}

package memory

import (
	"context"
	"slices"
	"sort"

	"github.com/iho/totza/internal/domain"
	"github.com/iho/totza/internal/usecase"
)

var (
	_ usecase.AccountCategoryRepository = (*AccountCategoryRepository)(nil)
	_ usecase.VendorRepository          = (*VendorRepository)(nil)
)

// AccountCategoryRepository keeps account categories in memory.
type AccountCategoryRepository struct {
	t *table[*domain.AccountCategory]
}

// NewAccountCategoryRepository creates an empty AccountCategoryRepository.
func NewAccountCategoryRepository() *AccountCategoryRepository {
	return &AccountCategoryRepository{t: newTable(clonePtr[domain.AccountCategory], domain.ErrAccountCategoryNotFound)}
}

func (r *AccountCategoryRepository) Create(_ context.Context, c *domain.AccountCategory) error {
	return r.t.insert(c.ID, c)
}

func (r *AccountCategoryRepository) GetByID(_ context.Context, id string) (*domain.AccountCategory, error) {
	return r.t.get(id)
}

func (r *AccountCategoryRepository) List(_ context.Context, limit, offset int) ([]*domain.AccountCategory, error) {
	rows := r.t.filter(nil)
	sort.Slice(rows, func(i, j int) bool { return rows[i].Name < rows[j].Name })
	return page(rows, limit, offset), nil
}

func (r *AccountCategoryRepository) Delete(_ context.Context, id string) error {
	return r.t.remove(id)
}

// VendorRepository keeps vendors in memory.
type VendorRepository struct {
	t *table[*domain.Vendor]
}

// NewVendorRepository creates an empty VendorRepository.
func NewVendorRepository() *VendorRepository {
	return &VendorRepository{t: newTable(cloneVendor, domain.ErrVendorNotFound)}
}

func (r *VendorRepository) Create(_ context.Context, v *domain.Vendor) error {
	return r.t.insert(v.ID, v)
}

func (r *VendorRepository) GetByID(_ context.Context, id string) (*domain.Vendor, error) {
	return r.t.get(id)
}

func (r *VendorRepository) List(_ context.Context, limit, offset int) ([]*domain.Vendor, error) {
	rows := r.t.filter(nil)
	sort.Slice(rows, func(i, j int) bool { return rows[i].Name < rows[j].Name })
	return page(rows, limit, offset), nil
}

func (r *VendorRepository) Update(_ context.Context, v *domain.Vendor) error {
	return r.t.replace(v.ID, v)
}

func (r *VendorRepository) Delete(_ context.Context, id string) error {
	return r.t.remove(id)
}

func cloneVendor(v *domain.Vendor) *domain.Vendor {
	c := *v
	c.Collaborators = slices.Clone(v.Collaborators)
	return &c
}

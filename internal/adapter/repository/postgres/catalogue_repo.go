package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/iho/totza/internal/domain"
	"github.com/iho/totza/internal/usecase"
)

var (
	_ usecase.AccountCategoryRepository = (*AccountCategoryRepository)(nil)
	_ usecase.VendorRepository          = (*VendorRepository)(nil)
)

// AccountCategoryRepository implements usecase.AccountCategoryRepository.
type AccountCategoryRepository struct {
	db DB
}

// NewAccountCategoryRepository creates a new AccountCategoryRepository.
func NewAccountCategoryRepository(pool *pgxpool.Pool) *AccountCategoryRepository {
	return &AccountCategoryRepository{db: pool}
}

// Create inserts an account category.
func (r *AccountCategoryRepository) Create(ctx context.Context, c *domain.AccountCategory) error {
	query := `
		INSERT INTO account_categories (id, name, linked_user_id, added_by, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`

	_, err := r.db.Exec(ctx, query, c.ID, c.Name, c.LinkedUserID, c.AddedBy, c.CreatedAt)
	return err
}

// GetByID retrieves an account category by ID.
func (r *AccountCategoryRepository) GetByID(ctx context.Context, id string) (*domain.AccountCategory, error) {
	query := `
		SELECT id, name, linked_user_id, added_by, created_at
		FROM account_categories
		WHERE id = $1
	`

	var c domain.AccountCategory
	err := r.db.QueryRow(ctx, query, id).Scan(&c.ID, &c.Name, &c.LinkedUserID, &c.AddedBy, &c.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrAccountCategoryNotFound
	}
	if err != nil {
		return nil, err
	}

	return &c, nil
}

// List lists account categories by name.
func (r *AccountCategoryRepository) List(ctx context.Context, limit, offset int) ([]*domain.AccountCategory, error) {
	query := `
		SELECT id, name, linked_user_id, added_by, created_at
		FROM account_categories
		ORDER BY name
		LIMIT $1 OFFSET $2
	`

	rows, err := r.db.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*domain.AccountCategory
	for rows.Next() {
		var c domain.AccountCategory
		if err := rows.Scan(&c.ID, &c.Name, &c.LinkedUserID, &c.AddedBy, &c.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, &c)
	}

	return out, rows.Err()
}

// Delete deletes an account category.
func (r *AccountCategoryRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM account_categories WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrAccountCategoryNotFound
	}
	return nil
}

// VendorRepository implements usecase.VendorRepository.
type VendorRepository struct {
	db DB
}

// NewVendorRepository creates a new VendorRepository.
func NewVendorRepository(pool *pgxpool.Pool) *VendorRepository {
	return &VendorRepository{db: pool}
}

const vendorColumns = `id, name, description, added_by, collaborators, created_at, updated_at`

// Create inserts a vendor.
func (r *VendorRepository) Create(ctx context.Context, v *domain.Vendor) error {
	query := `
		INSERT INTO vendors (` + vendorColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	_, err := r.db.Exec(ctx, query, v.ID, v.Name, v.Description, v.AddedBy, nonNil(v.Collaborators), v.CreatedAt, v.UpdatedAt)
	return err
}

// GetByID retrieves a vendor by ID.
func (r *VendorRepository) GetByID(ctx context.Context, id string) (*domain.Vendor, error) {
	query := `SELECT ` + vendorColumns + ` FROM vendors WHERE id = $1`

	v, err := scanVendor(r.db.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrVendorNotFound
	}

	return v, err
}

// List lists vendors by name.
func (r *VendorRepository) List(ctx context.Context, limit, offset int) ([]*domain.Vendor, error) {
	query := `SELECT ` + vendorColumns + ` FROM vendors ORDER BY name LIMIT $1 OFFSET $2`

	rows, err := r.db.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*domain.Vendor
	for rows.Next() {
		v, err := scanVendor(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}

	return out, rows.Err()
}

// Update writes a vendor's name and description.
func (r *VendorRepository) Update(ctx context.Context, v *domain.Vendor) error {
	query := `
		UPDATE vendors
		SET name = $2, description = $3, updated_at = $4
		WHERE id = $1
	`

	tag, err := r.db.Exec(ctx, query, v.ID, v.Name, v.Description, v.UpdatedAt)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrVendorNotFound
	}
	return nil
}

// Delete deletes a vendor.
func (r *VendorRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM vendors WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrVendorNotFound
	}
	return nil
}

func scanVendor(row rowScanner) (*domain.Vendor, error) {
	var v domain.Vendor
	err := row.Scan(&v.ID, &v.Name, &v.Description, &v.AddedBy, &v.Collaborators, &v.CreatedAt, &v.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &v, nil
}

package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/iho/totza/internal/domain"
	"github.com/iho/totza/internal/usecase"
)

var _ usecase.PersonalTransactionRepository = (*PersonalTransactionRepository)(nil)

const personalColumns = `id, user_id, purpose, amount, kind, file_url, time, company_transaction_id`

// PersonalTransactionRepository implements usecase.PersonalTransactionRepository.
type PersonalTransactionRepository struct {
	db DB
}

// NewPersonalTransactionRepository creates a new PersonalTransactionRepository.
func NewPersonalTransactionRepository(pool *pgxpool.Pool) *PersonalTransactionRepository {
	return &PersonalTransactionRepository{db: pool}
}

// Create inserts a personal transaction.
func (r *PersonalTransactionRepository) Create(ctx context.Context, p *domain.PersonalTransaction) error {
	query := `
		INSERT INTO personal_transactions (` + personalColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	_, err := r.db.Exec(ctx, query,
		p.ID,
		p.UserID,
		p.Purpose,
		decimalToNumeric(p.Amount),
		string(p.Kind),
		p.FileURL,
		p.Time,
		p.CompanyTransactionID,
	)

	return err
}

// GetByID retrieves a personal transaction by ID.
func (r *PersonalTransactionRepository) GetByID(ctx context.Context, id string) (*domain.PersonalTransaction, error) {
	query := `SELECT ` + personalColumns + ` FROM personal_transactions WHERE id = $1`

	p, err := scanPersonal(r.db.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrPersonalTransactionNotFound
	}

	return p, err
}

// ListByUser lists a user's personal transactions, newest first.
func (r *PersonalTransactionRepository) ListByUser(ctx context.Context, userID string, limit, offset int) ([]*domain.PersonalTransaction, error) {
	query := `
		SELECT ` + personalColumns + `
		FROM personal_transactions
		WHERE user_id = $1
		ORDER BY time DESC
		LIMIT $2 OFFSET $3
	`

	rows, err := r.db.Query(ctx, query, userID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*domain.PersonalTransaction
	for rows.Next() {
		p, err := scanPersonal(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}

	return out, rows.Err()
}

// Delete deletes a personal transaction.
func (r *PersonalTransactionRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM personal_transactions WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrPersonalTransactionNotFound
	}
	return nil
}

// DeleteByCompanyTransaction deletes the mirror of a company transaction.
func (r *PersonalTransactionRepository) DeleteByCompanyTransaction(ctx context.Context, companyTransactionID string) (bool, error) {
	tag, err := r.db.Exec(ctx, `DELETE FROM personal_transactions WHERE company_transaction_id = $1`, companyTransactionID)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

func scanPersonal(row rowScanner) (*domain.PersonalTransaction, error) {
	var (
		p      domain.PersonalTransaction
		amount pgtype.Numeric
		kind   string
	)

	err := row.Scan(
		&p.ID,
		&p.UserID,
		&p.Purpose,
		&amount,
		&kind,
		&p.FileURL,
		&p.Time,
		&p.CompanyTransactionID,
	)
	if err != nil {
		return nil, err
	}

	p.Amount = numericToDecimal(amount)
	p.Kind = domain.Kind(kind)

	return &p, nil
}

package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/iho/totza/internal/domain"
	"github.com/iho/totza/internal/usecase"
)

var _ usecase.TransactionRepository = (*TransactionRepository)(nil)

const transactionColumns = `id, date, kind, amount, due_date, original_due_amount, status, linked_dues, payments,
		account_id, vendor_id, items, purpose, files, added_by, version, created_at, updated_at`

const insertTransactionSQL = `
		INSERT INTO company_transactions (` + transactionColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18)
	`

// TransactionRepository implements usecase.TransactionRepository.
type TransactionRepository struct {
	db DB
}

// NewTransactionRepository creates a new TransactionRepository.
func NewTransactionRepository(pool *pgxpool.Pool) *TransactionRepository {
	return newTransactionRepository(pool)
}

func newTransactionRepository(db DB) *TransactionRepository {
	return &TransactionRepository{db: db}
}

type paymentRecord struct {
	Amount               decimal.Decimal `json:"amount"`
	PaymentDate          time.Time       `json:"payment_date"`
	PaymentTransactionID string          `json:"payment_transaction_id"`
}

// Insert stores a new transaction at version 1.
func (r *TransactionRepository) Insert(ctx context.Context, tx *domain.Transaction) error {
	tx.Version = 1

	args, err := transactionArgs(tx)
	if err != nil {
		return err
	}

	_, err = r.db.Exec(ctx, insertTransactionSQL, args...)
	return err
}

// InsertMany stores the batch in one database transaction.
func (r *TransactionRepository) InsertMany(ctx context.Context, txs []*domain.Transaction) error {
	return withTx(ctx, r.db, func(dbTx pgx.Tx) error {
		for _, tx := range txs {
			tx.Version = 1

			args, err := transactionArgs(tx)
			if err != nil {
				return err
			}

			if _, err := dbTx.Exec(ctx, insertTransactionSQL, args...); err != nil {
				return fmt.Errorf("insert transaction %s: %w", tx.ID, err)
			}
		}
		return nil
	})
}

// GetByID retrieves a transaction by ID.
func (r *TransactionRepository) GetByID(ctx context.Context, id string) (*domain.Transaction, error) {
	query := `SELECT ` + transactionColumns + ` FROM company_transactions WHERE id = $1`

	tx, err := scanTransaction(r.db.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrTransactionNotFound
	}

	return tx, err
}

// FindDues returns the Due transactions among ids.
func (r *TransactionRepository) FindDues(ctx context.Context, ids []string) ([]*domain.Transaction, error) {
	query := `SELECT ` + transactionColumns + ` FROM company_transactions WHERE kind = $1 AND id = ANY($2)`

	return r.queryTransactions(ctx, query, string(domain.KindDue), ids)
}

// Find lists transactions matching filter, newest first.
func (r *TransactionRepository) Find(ctx context.Context, filter domain.TransactionFilter) ([]*domain.Transaction, error) {
	query, args := buildFindQuery(filter)
	return r.queryTransactions(ctx, query, args...)
}

// UpdatePayments writes payments and status if the stored version still matches.
func (r *TransactionRepository) UpdatePayments(ctx context.Context, due *domain.Transaction) error {
	payments, err := encodePayments(due.Payments)
	if err != nil {
		return err
	}

	query := `
		UPDATE company_transactions
		SET payments = $2, status = $3, updated_at = $4, version = version + 1
		WHERE id = $1 AND version = $5
	`

	tag, err := r.db.Exec(ctx, query, due.ID, payments, string(due.Status), due.UpdatedAt, due.Version)
	if err != nil {
		return err
	}

	if tag.RowsAffected() == 0 {
		var exists bool
		if err := r.db.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM company_transactions WHERE id = $1)`, due.ID).Scan(&exists); err != nil {
			return err
		}
		if !exists {
			return domain.ErrTransactionNotFound
		}
		return domain.ErrConcurrentUpdate
	}

	due.Version++
	return nil
}

// Delete deletes a transaction.
func (r *TransactionRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM company_transactions WHERE id = $1`, id)
	if err != nil {
		return err
	}

	if tag.RowsAffected() == 0 {
		return domain.ErrTransactionNotFound
	}

	return nil
}

func (r *TransactionRepository) queryTransactions(ctx context.Context, query string, args ...any) ([]*domain.Transaction, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var txs []*domain.Transaction
	for rows.Next() {
		tx, err := scanTransaction(rows)
		if err != nil {
			return nil, err
		}
		txs = append(txs, tx)
	}

	return txs, rows.Err()
}

func buildFindQuery(filter domain.TransactionFilter) (string, []any) {
	var (
		where []string
		args  []any
	)

	add := func(cond string, v any) {
		args = append(args, v)
		where = append(where, fmt.Sprintf(cond, len(args)))
	}

	if filter.Kind != nil {
		add("kind = $%d", string(*filter.Kind))
	}
	if filter.Status != nil {
		add("status = $%d", string(*filter.Status))
	}
	if filter.HasDue != nil {
		if *filter.HasDue {
			where = append(where, "cardinality(linked_dues) > 0")
		} else {
			where = append(where, "cardinality(linked_dues) = 0")
		}
	}
	if filter.CreatedFrom != nil {
		add("created_at >= $%d", *filter.CreatedFrom)
	}
	if filter.CreatedTo != nil {
		add("created_at < $%d", *filter.CreatedTo)
	}

	var b strings.Builder
	b.WriteString(`SELECT ` + transactionColumns + ` FROM company_transactions`)
	if len(where) > 0 {
		b.WriteString(" WHERE ")
		b.WriteString(strings.Join(where, " AND "))
	}
	b.WriteString(" ORDER BY created_at DESC, id DESC")

	if filter.Limit > 0 {
		args = append(args, filter.Limit)
		fmt.Fprintf(&b, " LIMIT $%d", len(args))
	}
	if filter.Offset > 0 {
		args = append(args, filter.Offset)
		fmt.Fprintf(&b, " OFFSET $%d", len(args))
	}

	return b.String(), args
}

func transactionArgs(tx *domain.Transaction) ([]any, error) {
	payments, err := encodePayments(tx.Payments)
	if err != nil {
		return nil, err
	}

	return []any{
		tx.ID,
		tx.Date,
		string(tx.Kind),
		decimalToNumeric(tx.Amount),
		timeToPgTimestamptz(tx.DueDate),
		decimalToNumeric(tx.OriginalDueAmount),
		string(tx.Status),
		nonNil(tx.LinkedDues),
		payments,
		tx.AccountID,
		tx.VendorID,
		nonNil(tx.Items),
		tx.Purpose,
		nonNil(tx.Files),
		tx.AddedBy,
		tx.Version,
		tx.CreatedAt,
		tx.UpdatedAt,
	}, nil
}

func scanTransaction(row rowScanner) (*domain.Transaction, error) {
	var (
		tx                  domain.Transaction
		kind, status        string
		amount, originalDue pgtype.Numeric
		dueDate             pgtype.Timestamptz
		payments            []byte
	)

	err := row.Scan(
		&tx.ID,
		&tx.Date,
		&kind,
		&amount,
		&dueDate,
		&originalDue,
		&status,
		&tx.LinkedDues,
		&payments,
		&tx.AccountID,
		&tx.VendorID,
		&tx.Items,
		&tx.Purpose,
		&tx.Files,
		&tx.AddedBy,
		&tx.Version,
		&tx.CreatedAt,
		&tx.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	tx.Kind = domain.Kind(kind)
	tx.Status = domain.DueStatus(status)
	tx.Amount = numericToDecimal(amount)
	tx.OriginalDueAmount = numericToDecimal(originalDue)
	tx.DueDate = pgTimestamptzToTime(dueDate)

	tx.Payments, err = decodePayments(payments)
	if err != nil {
		return nil, err
	}

	return &tx, nil
}

func encodePayments(payments []domain.Payment) ([]byte, error) {
	records := make([]paymentRecord, 0, len(payments))
	for _, p := range payments {
		records = append(records, paymentRecord(p))
	}
	return marshalJSON(records)
}

func decodePayments(raw []byte) ([]domain.Payment, error) {
	if len(raw) == 0 {
		return nil, nil
	}

	var records []paymentRecord
	if err := json.Unmarshal(raw, &records); err != nil {
		return nil, fmt.Errorf("decode payments: %w", err)
	}

	payments := make([]domain.Payment, 0, len(records))
	for _, rec := range records {
		payments = append(payments, domain.Payment(rec))
	}
	return payments, nil
}

package usecase

import (
	"context"
	"time"

	"github.com/iho/totza/internal/domain"
)

// TransactionRepository defines data access for company transactions.
// Every write is atomic for a single transaction; nothing spans documents
// except InsertMany, which stores a whole batch or nothing.
type TransactionRepository interface {
	Insert(ctx context.Context, tx *domain.Transaction) error
	InsertMany(ctx context.Context, txs []*domain.Transaction) error
	GetByID(ctx context.Context, id string) (*domain.Transaction, error)
	// FindDues returns the Due transactions among ids; unknown and non-Due ids are omitted.
	FindDues(ctx context.Context, ids []string) ([]*domain.Transaction, error)
	Find(ctx context.Context, filter domain.TransactionFilter) ([]*domain.Transaction, error)
	// UpdatePayments stores Payments and Status of a Due if its Version is unchanged,
	// bumping Version. A stale Version yields domain.ErrConcurrentUpdate.
	UpdatePayments(ctx context.Context, due *domain.Transaction) error
	Delete(ctx context.Context, id string) error
}

// PersonalTransactionRepository defines data access for personal transactions.
type PersonalTransactionRepository interface {
	Create(ctx context.Context, p *domain.PersonalTransaction) error
	GetByID(ctx context.Context, id string) (*domain.PersonalTransaction, error)
	ListByUser(ctx context.Context, userID string, limit, offset int) ([]*domain.PersonalTransaction, error)
	Delete(ctx context.Context, id string) error
	// DeleteByCompanyTransaction removes the mirror of a company transaction, reporting whether one existed.
	DeleteByCompanyTransaction(ctx context.Context, companyTransactionID string) (bool, error)
}

// AccountCategoryLookup resolves account categories for the mirror step.
type AccountCategoryLookup interface {
	GetByID(ctx context.Context, id string) (*domain.AccountCategory, error)
}

// AccountCategoryRepository defines data access for account categories.
type AccountCategoryRepository interface {
	AccountCategoryLookup
	Create(ctx context.Context, c *domain.AccountCategory) error
	List(ctx context.Context, limit, offset int) ([]*domain.AccountCategory, error)
	Delete(ctx context.Context, id string) error
}

// VendorRepository defines data access for vendors.
type VendorRepository interface {
	Create(ctx context.Context, v *domain.Vendor) error
	GetByID(ctx context.Context, id string) (*domain.Vendor, error)
	List(ctx context.Context, limit, offset int) ([]*domain.Vendor, error)
	Update(ctx context.Context, v *domain.Vendor) error
	Delete(ctx context.Context, id string) error
}

// ProjectRepository defines data access for projects.
type ProjectRepository interface {
	Create(ctx context.Context, p *domain.Project) error
	GetByID(ctx context.Context, id string) (*domain.Project, error)
	ListByMember(ctx context.Context, userID string, limit, offset int) ([]*domain.Project, error)
	UpdateCollaborators(ctx context.Context, id string, collaborators []string) error
	Delete(ctx context.Context, id string) error
}

// ProjectExpenseRepository defines data access for project expenses.
type ProjectExpenseRepository interface {
	Create(ctx context.Context, e *domain.ProjectExpense) error
	GetByID(ctx context.Context, id string) (*domain.ProjectExpense, error)
	ListByProject(ctx context.Context, projectID string) ([]*domain.ProjectExpense, error)
	Delete(ctx context.Context, id string) error
}

// ExpenseRepository defines data access for personal expenses.
type ExpenseRepository interface {
	Create(ctx context.Context, e *domain.Expense) error
	GetByID(ctx context.Context, id string) (*domain.Expense, error)
	ListByOwner(ctx context.Context, userID string, limit, offset int) ([]*domain.Expense, error)
	Update(ctx context.Context, e *domain.Expense) error
	Delete(ctx context.Context, id string) error
}

// UserRepository defines data access for users.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, id string) (*domain.User, error)
	GetByGoogleID(ctx context.Context, googleID string) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
}

// OutboxRepository defines data access for outbox events.
type OutboxRepository interface {
	Create(ctx context.Context, event *domain.OutboxEvent) error
	GetUnpublished(ctx context.Context, limit int) ([]*domain.OutboxEvent, error)
	MarkPublished(ctx context.Context, id string, publishedAt time.Time) error
	DeletePublished(ctx context.Context, before time.Time) error
}

// IDGenerator generates unique IDs.
type IDGenerator interface {
	Generate() string
}

// Retrier re-runs an operation while it fails with a transient error.
type Retrier interface {
	Retry(ctx context.Context, operation func() error) error
}

// Recorder receives ledger metrics.
type Recorder interface {
	TransactionCreated(kind domain.Kind)
	TransactionDeleted(kind domain.Kind)
	PaymentLinked(status domain.DueStatus)
	PaymentUnlinked(status domain.DueStatus)
	MirrorCreated()
}

// Cache defines caching operations.
type Cache interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

// IdempotencyStore handles idempotency key storage.
type IdempotencyStore interface {
	// CheckAndSet atomically checks if key exists, sets if not.
	// Returns (exists, existingValue, error).
	CheckAndSet(ctx context.Context, key string, response []byte, ttl time.Duration) (bool, []byte, error)
	// Update updates an existing key with the final response.
	Update(ctx context.Context, key string, response []byte, ttl time.Duration) error
	// Release drops a key so the request can be retried.
	Release(ctx context.Context, key string) error
}

// SheetExporter writes the full transaction list to a spreadsheet.
type SheetExporter interface {
	ExportTransactions(ctx context.Context, txs []*domain.Transaction) (int, error)
}

// DocumentExporter publishes a daily report as a document.
type DocumentExporter interface {
	ExportDailyReport(ctx context.Context, report *domain.DailyReport) (*domain.ExportedDocument, error)
}

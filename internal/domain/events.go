package domain

import "time"

// Event types
const (
	EventTypeTransactionCreated = "transaction.created"
	EventTypeTransactionDeleted = "transaction.deleted"
	EventTypeDueReconciled      = "due.reconciled"
)

// Aggregate types
const (
	AggregateTypeTransaction = "company_transaction"
)

// OutboxEvent represents an event to be published
type OutboxEvent struct {
	ID            string
	AggregateID   string
	AggregateType string
	EventType     string
	Payload       map[string]any
	CreatedAt     time.Time
	PublishedAt   *time.Time
	Published     bool
}

// TouchesLedger reports whether the event changes what a ledger export shows.
func (e *OutboxEvent) TouchesLedger() bool {
	return e.AggregateType == AggregateTypeTransaction
}

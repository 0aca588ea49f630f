package mocks

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/iho/totza/internal/domain"
)

// SequentialIDGenerator hands out predictable ids: prefix-1, prefix-2, ...
type SequentialIDGenerator struct {
	Prefix string
	n      atomic.Int64
}

func (g *SequentialIDGenerator) Generate() string {
	prefix := g.Prefix
	if prefix == "" {
		prefix = "id"
	}
	return fmt.Sprintf("%s-%d", prefix, g.n.Add(1))
}

// ImmediateRetrier retries lost compare-and-swap writes without sleeping.
type ImmediateRetrier struct {
	MaxAttempts int
	Attempts    atomic.Int64
}

func (r *ImmediateRetrier) Retry(ctx context.Context, operation func() error) error {
	maxAttempts := r.MaxAttempts
	if maxAttempts <= 0 {
		maxAttempts = 3
	}

	var err error
	for range maxAttempts {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		r.Attempts.Add(1)
		err = operation()
		if !errors.Is(err, domain.ErrConcurrentUpdate) {
			return err
		}
	}
	return err
}

// CountingRecorder counts recorded ledger metrics.
type CountingRecorder struct {
	mu       sync.Mutex
	Created  map[domain.Kind]int
	Deleted  map[domain.Kind]int
	Linked   map[domain.DueStatus]int
	Unlinked map[domain.DueStatus]int
	Mirrors  int
}

func NewCountingRecorder() *CountingRecorder {
	return &CountingRecorder{
		Created:  make(map[domain.Kind]int),
		Deleted:  make(map[domain.Kind]int),
		Linked:   make(map[domain.DueStatus]int),
		Unlinked: make(map[domain.DueStatus]int),
	}
}

func (r *CountingRecorder) TransactionCreated(kind domain.Kind) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Created[kind]++
}

func (r *CountingRecorder) TransactionDeleted(kind domain.Kind) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Deleted[kind]++
}

func (r *CountingRecorder) PaymentLinked(status domain.DueStatus) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Linked[status]++
}

func (r *CountingRecorder) PaymentUnlinked(status domain.DueStatus) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Unlinked[status]++
}

func (r *CountingRecorder) MirrorCreated() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Mirrors++
}

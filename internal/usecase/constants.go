package usecase

import (
	"errors"
	"time"

	"github.com/iho/totza/internal/domain"
)

const (
	// DefaultRecentLimit is how many transactions the recent listing returns by default
	DefaultRecentLimit = 10

	// IdempotencyKeyTTL is how long idempotency keys are cached
	IdempotencyKeyTTL = 24 * time.Hour
)

// ErrCacheMiss is returned by Cache.Get for a key that is not cached.
var ErrCacheMiss = errors.New("cache miss")

// NopRecorder discards metrics.
type NopRecorder struct{}

func (NopRecorder) TransactionCreated(domain.Kind)   {}
func (NopRecorder) TransactionDeleted(domain.Kind)   {}
func (NopRecorder) PaymentLinked(domain.DueStatus)   {}
func (NopRecorder) PaymentUnlinked(domain.DueStatus) {}
func (NopRecorder) MirrorCreated()                   {}

package redis

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/rs/zerolog"

	"github.com/iho/totza/internal/domain"
	"github.com/iho/totza/internal/usecase"
)

var _ usecase.AccountCategoryRepository = (*CategoryCache)(nil)

// LookupRecorder counts cache hits and misses.
type LookupRecorder interface {
	CacheLookup(cache string, hit bool)
}

// CategoryCache is a read-through cache in front of an AccountCategoryRepository.
// Only GetByID is cached; Delete evicts the entry after the store delete succeeds.
// Cache failures fall back to the store.
type CategoryCache struct {
	next     usecase.AccountCategoryRepository
	cache    usecase.Cache
	ttl      time.Duration
	recorder LookupRecorder
	logger   zerolog.Logger
}

// NewCategoryCache wraps next with cache.
func NewCategoryCache(next usecase.AccountCategoryRepository, cache usecase.Cache, ttl time.Duration, recorder LookupRecorder, logger zerolog.Logger) *CategoryCache {
	return &CategoryCache{
		next:     next,
		cache:    cache,
		ttl:      ttl,
		recorder: recorder,
		logger:   logger,
	}
}

type cachedCategory struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	LinkedUserID string    `json:"linked_user_id,omitempty"`
	AddedBy      string    `json:"added_by"`
	CreatedAt    time.Time `json:"created_at"`
}

func categoryKey(id string) string {
	return "account_category:" + id
}

// GetByID returns the cached category, loading and caching it on a miss.
func (c *CategoryCache) GetByID(ctx context.Context, id string) (*domain.AccountCategory, error) {
	raw, err := c.cache.Get(ctx, categoryKey(id))
	if err == nil {
		var cc cachedCategory
		if jsonErr := json.Unmarshal([]byte(raw), &cc); jsonErr == nil {
			c.record(true)
			category := domain.AccountCategory(cc)
			return &category, nil
		}
	} else if !errors.Is(err, usecase.ErrCacheMiss) {
		c.logger.Warn().Err(err).Str("category_id", id).Msg("category cache read failed")
	}
	c.record(false)

	category, err := c.next.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	data, err := json.Marshal(cachedCategory(*category))
	if err == nil {
		if err := c.cache.Set(ctx, categoryKey(id), string(data), c.ttl); err != nil {
			c.logger.Warn().Err(err).Str("category_id", id).Msg("category cache write failed")
		}
	}

	return category, nil
}

// Create implements usecase.AccountCategoryRepository.
func (c *CategoryCache) Create(ctx context.Context, category *domain.AccountCategory) error {
	return c.next.Create(ctx, category)
}

// List implements usecase.AccountCategoryRepository.
func (c *CategoryCache) List(ctx context.Context, limit, offset int) ([]*domain.AccountCategory, error) {
	return c.next.List(ctx, limit, offset)
}

// Delete implements usecase.AccountCategoryRepository.
func (c *CategoryCache) Delete(ctx context.Context, id string) error {
	if err := c.next.Delete(ctx, id); err != nil {
		return err
	}

	if err := c.cache.Delete(ctx, categoryKey(id)); err != nil {
		c.logger.Warn().Err(err).Str("category_id", id).Msg("category cache eviction failed")
	}

	return nil
}

func (c *CategoryCache) record(hit bool) {
	if c.recorder != nil {
		c.recorder.CacheLookup("account_categories", hit)
	}
}

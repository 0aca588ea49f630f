package memory

import (
	"context"
	"sort"
	"time"

	"github.com/iho/totza/internal/domain"
	"github.com/iho/totza/internal/usecase"
)

var (
	_ usecase.UserRepository   = (*UserRepository)(nil)
	_ usecase.OutboxRepository = (*OutboxRepository)(nil)
)

// UserRepository keeps users in memory.
type UserRepository struct {
	t *table[*domain.User]
}

// NewUserRepository creates an empty UserRepository.
func NewUserRepository() *UserRepository {
	return &UserRepository{t: newTable(clonePtr[domain.User], domain.ErrUserNotFound)}
}

func (r *UserRepository) Create(_ context.Context, user *domain.User) error {
	return r.t.insert(user.ID, user)
}

func (r *UserRepository) GetByID(_ context.Context, id string) (*domain.User, error) {
	return r.t.get(id)
}

func (r *UserRepository) GetByGoogleID(_ context.Context, googleID string) (*domain.User, error) {
	return r.first(func(u *domain.User) bool { return googleID != "" && u.GoogleID == googleID })
}

func (r *UserRepository) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	return r.first(func(u *domain.User) bool { return u.Email == email })
}

func (r *UserRepository) first(match func(*domain.User) bool) (*domain.User, error) {
	rows := r.t.filter(match)
	if len(rows) == 0 {
		return nil, domain.ErrUserNotFound
	}
	return rows[0], nil
}

// OutboxRepository keeps outbox events in memory.
type OutboxRepository struct {
	t *table[*domain.OutboxEvent]
}

// NewOutboxRepository creates an empty OutboxRepository.
func NewOutboxRepository() *OutboxRepository {
	return &OutboxRepository{t: newTable(clonePtr[domain.OutboxEvent], nil)}
}

func (r *OutboxRepository) Create(_ context.Context, event *domain.OutboxEvent) error {
	return r.t.insert(event.ID, event)
}

func (r *OutboxRepository) GetUnpublished(_ context.Context, limit int) ([]*domain.OutboxEvent, error) {
	rows := r.t.filter(func(e *domain.OutboxEvent) bool { return !e.Published })
	sort.Slice(rows, func(i, j int) bool { return rows[i].CreatedAt.Before(rows[j].CreatedAt) })
	return page(rows, limit, 0), nil
}

func (r *OutboxRepository) MarkPublished(_ context.Context, id string, publishedAt time.Time) error {
	r.t.mu.Lock()
	defer r.t.mu.Unlock()

	if e, ok := r.t.rows[id]; ok {
		e.Published = true
		e.PublishedAt = &publishedAt
	}
	return nil
}

func (r *OutboxRepository) DeletePublished(_ context.Context, before time.Time) error {
	r.t.mu.Lock()
	defer r.t.mu.Unlock()

	for id, e := range r.t.rows {
		if e.Published && e.PublishedAt != nil && e.PublishedAt.Before(before) {
			delete(r.t.rows, id)
		}
	}
	return nil
}

package memory

import (
	"context"
	"slices"
	"sort"

	"github.com/iho/totza/internal/domain"
	"github.com/iho/totza/internal/usecase"
)

var (
	_ usecase.ProjectRepository        = (*ProjectRepository)(nil)
	_ usecase.ProjectExpenseRepository = (*ProjectExpenseRepository)(nil)
	_ usecase.ExpenseRepository        = (*ExpenseRepository)(nil)
)

// ProjectRepository keeps projects in memory.
type ProjectRepository struct {
	t *table[*domain.Project]
}

// NewProjectRepository creates an empty ProjectRepository.
func NewProjectRepository() *ProjectRepository {
	return &ProjectRepository{t: newTable(cloneProject, domain.ErrProjectNotFound)}
}

func (r *ProjectRepository) Create(_ context.Context, p *domain.Project) error {
	return r.t.insert(p.ID, p)
}

func (r *ProjectRepository) GetByID(_ context.Context, id string) (*domain.Project, error) {
	return r.t.get(id)
}

func (r *ProjectRepository) ListByMember(_ context.Context, userID string, limit, offset int) ([]*domain.Project, error) {
	rows := r.t.filter(func(p *domain.Project) bool { return p.CanAccess(userID) })
	sort.Slice(rows, func(i, j int) bool { return rows[i].CreatedAt.After(rows[j].CreatedAt) })
	return page(rows, limit, offset), nil
}

func (r *ProjectRepository) UpdateCollaborators(_ context.Context, id string, collaborators []string) error {
	r.t.mu.Lock()
	defer r.t.mu.Unlock()

	p, ok := r.t.rows[id]
	if !ok {
		return domain.ErrProjectNotFound
	}
	p.Collaborators = slices.Clone(collaborators)
	return nil
}

func (r *ProjectRepository) Delete(_ context.Context, id string) error {
	return r.t.remove(id)
}

func cloneProject(p *domain.Project) *domain.Project {
	c := *p
	if p.EndDate != nil {
		d := *p.EndDate
		c.EndDate = &d
	}
	c.Collaborators = slices.Clone(p.Collaborators)
	return &c
}

// ProjectExpenseRepository keeps project expenses in memory.
type ProjectExpenseRepository struct {
	t *table[*domain.ProjectExpense]
}

// NewProjectExpenseRepository creates an empty ProjectExpenseRepository.
func NewProjectExpenseRepository() *ProjectExpenseRepository {
	return &ProjectExpenseRepository{t: newTable(clonePtr[domain.ProjectExpense], domain.ErrProjectExpenseNotFound)}
}

func (r *ProjectExpenseRepository) Create(_ context.Context, e *domain.ProjectExpense) error {
	return r.t.insert(e.ID, e)
}

func (r *ProjectExpenseRepository) GetByID(_ context.Context, id string) (*domain.ProjectExpense, error) {
	return r.t.get(id)
}

func (r *ProjectExpenseRepository) ListByProject(_ context.Context, projectID string) ([]*domain.ProjectExpense, error) {
	rows := r.t.filter(func(e *domain.ProjectExpense) bool { return e.ProjectID == projectID })
	sort.Slice(rows, func(i, j int) bool { return rows[i].CreatedAt.After(rows[j].CreatedAt) })
	return rows, nil
}

func (r *ProjectExpenseRepository) Delete(_ context.Context, id string) error {
	return r.t.remove(id)
}

// ExpenseRepository keeps personal expenses in memory.
type ExpenseRepository struct {
	t *table[*domain.Expense]
}

// NewExpenseRepository creates an empty ExpenseRepository.
func NewExpenseRepository() *ExpenseRepository {
	return &ExpenseRepository{t: newTable(clonePtr[domain.Expense], domain.ErrExpenseNotFound)}
}

func (r *ExpenseRepository) Create(_ context.Context, e *domain.Expense) error {
	return r.t.insert(e.ID, e)
}

func (r *ExpenseRepository) GetByID(_ context.Context, id string) (*domain.Expense, error) {
	return r.t.get(id)
}

func (r *ExpenseRepository) ListByOwner(_ context.Context, userID string, limit, offset int) ([]*domain.Expense, error) {
	rows := r.t.filter(func(e *domain.Expense) bool { return e.AddedBy == userID })
	sort.Slice(rows, func(i, j int) bool { return rows[i].Time.After(rows[j].Time) })
	return page(rows, limit, offset), nil
}

func (r *ExpenseRepository) Update(_ context.Context, e *domain.Expense) error {
	return r.t.replace(e.ID, e)
}

func (r *ExpenseRepository) Delete(_ context.Context, id string) error {
	return r.t.remove(id)
}

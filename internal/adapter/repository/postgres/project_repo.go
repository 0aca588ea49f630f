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

var (
	_ usecase.ProjectRepository        = (*ProjectRepository)(nil)
	_ usecase.ProjectExpenseRepository = (*ProjectExpenseRepository)(nil)
	_ usecase.ExpenseRepository        = (*ExpenseRepository)(nil)
)

const projectColumns = `id, name, description, estimated_budget, end_date, owner_id, collaborators, created_at`

// ProjectRepository implements usecase.ProjectRepository.
type ProjectRepository struct {
	db DB
}

// NewProjectRepository creates a new ProjectRepository.
func NewProjectRepository(pool *pgxpool.Pool) *ProjectRepository {
	return &ProjectRepository{db: pool}
}

// Create inserts a project.
func (r *ProjectRepository) Create(ctx context.Context, p *domain.Project) error {
	query := `
		INSERT INTO projects (` + projectColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	_, err := r.db.Exec(ctx, query,
		p.ID,
		p.Name,
		p.Description,
		decimalToNumeric(p.EstimatedBudget),
		timeToPgTimestamptz(p.EndDate),
		p.OwnerID,
		nonNil(p.Collaborators),
		p.CreatedAt,
	)

	return err
}

// GetByID retrieves a project by ID.
func (r *ProjectRepository) GetByID(ctx context.Context, id string) (*domain.Project, error) {
	query := `SELECT ` + projectColumns + ` FROM projects WHERE id = $1`

	p, err := scanProject(r.db.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrProjectNotFound
	}

	return p, err
}

// ListByMember lists projects owned by or shared with userID.
func (r *ProjectRepository) ListByMember(ctx context.Context, userID string, limit, offset int) ([]*domain.Project, error) {
	query := `
		SELECT ` + projectColumns + `
		FROM projects
		WHERE owner_id = $1 OR $1 = ANY(collaborators)
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`

	rows, err := r.db.Query(ctx, query, userID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*domain.Project
	for rows.Next() {
		p, err := scanProject(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}

	return out, rows.Err()
}

// UpdateCollaborators replaces a project's collaborator list.
func (r *ProjectRepository) UpdateCollaborators(ctx context.Context, id string, collaborators []string) error {
	tag, err := r.db.Exec(ctx, `UPDATE projects SET collaborators = $2 WHERE id = $1`, id, nonNil(collaborators))
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrProjectNotFound
	}
	return nil
}

// Delete deletes a project and, through the foreign key, its expenses.
func (r *ProjectRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM projects WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrProjectNotFound
	}
	return nil
}

func scanProject(row rowScanner) (*domain.Project, error) {
	var (
		p       domain.Project
		budget  pgtype.Numeric
		endDate pgtype.Timestamptz
	)

	err := row.Scan(&p.ID, &p.Name, &p.Description, &budget, &endDate, &p.OwnerID, &p.Collaborators, &p.CreatedAt)
	if err != nil {
		return nil, err
	}

	p.EstimatedBudget = numericToDecimal(budget)
	p.EndDate = pgTimestamptzToTime(endDate)

	return &p, nil
}

// ProjectExpenseRepository implements usecase.ProjectExpenseRepository.
type ProjectExpenseRepository struct {
	db DB
}

// NewProjectExpenseRepository creates a new ProjectExpenseRepository.
func NewProjectExpenseRepository(pool *pgxpool.Pool) *ProjectExpenseRepository {
	return &ProjectExpenseRepository{db: pool}
}

const projectExpenseColumns = `id, project_id, purpose, amount, credit, added_by, created_at`

// Create inserts a project expense.
func (r *ProjectExpenseRepository) Create(ctx context.Context, e *domain.ProjectExpense) error {
	query := `
		INSERT INTO project_expenses (` + projectExpenseColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	_, err := r.db.Exec(ctx, query, e.ID, e.ProjectID, e.Purpose, decimalToNumeric(e.Amount), e.Credit, e.AddedBy, e.CreatedAt)
	return err
}

// GetByID retrieves a project expense by ID.
func (r *ProjectExpenseRepository) GetByID(ctx context.Context, id string) (*domain.ProjectExpense, error) {
	query := `SELECT ` + projectExpenseColumns + ` FROM project_expenses WHERE id = $1`

	e, err := scanProjectExpense(r.db.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrProjectExpenseNotFound
	}

	return e, err
}

// ListByProject lists a project's expenses, newest first.
func (r *ProjectExpenseRepository) ListByProject(ctx context.Context, projectID string) ([]*domain.ProjectExpense, error) {
	query := `
		SELECT ` + projectExpenseColumns + `
		FROM project_expenses
		WHERE project_id = $1
		ORDER BY created_at DESC
	`

	rows, err := r.db.Query(ctx, query, projectID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*domain.ProjectExpense
	for rows.Next() {
		e, err := scanProjectExpense(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}

	return out, rows.Err()
}

// Delete deletes a project expense.
func (r *ProjectExpenseRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM project_expenses WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrProjectExpenseNotFound
	}
	return nil
}

func scanProjectExpense(row rowScanner) (*domain.ProjectExpense, error) {
	var (
		e      domain.ProjectExpense
		amount pgtype.Numeric
	)

	if err := row.Scan(&e.ID, &e.ProjectID, &e.Purpose, &amount, &e.Credit, &e.AddedBy, &e.CreatedAt); err != nil {
		return nil, err
	}
	e.Amount = numericToDecimal(amount)

	return &e, nil
}

// ExpenseRepository implements usecase.ExpenseRepository.
type ExpenseRepository struct {
	db DB
}

// NewExpenseRepository creates a new ExpenseRepository.
func NewExpenseRepository(pool *pgxpool.Pool) *ExpenseRepository {
	return &ExpenseRepository{db: pool}
}

// Create inserts an expense.
func (r *ExpenseRepository) Create(ctx context.Context, e *domain.Expense) error {
	query := `
		INSERT INTO expenses (id, purpose, amount, time, added_by)
		VALUES ($1, $2, $3, $4, $5)
	`

	_, err := r.db.Exec(ctx, query, e.ID, e.Purpose, decimalToNumeric(e.Amount), e.Time, e.AddedBy)
	return err
}

// GetByID retrieves an expense by ID.
func (r *ExpenseRepository) GetByID(ctx context.Context, id string) (*domain.Expense, error) {
	query := `SELECT id, purpose, amount, time, added_by FROM expenses WHERE id = $1`

	e, err := scanExpense(r.db.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrExpenseNotFound
	}

	return e, err
}

// ListByOwner lists a user's expenses, newest first.
func (r *ExpenseRepository) ListByOwner(ctx context.Context, userID string, limit, offset int) ([]*domain.Expense, error) {
	query := `
		SELECT id, purpose, amount, time, added_by
		FROM expenses
		WHERE added_by = $1
		ORDER BY time DESC
		LIMIT $2 OFFSET $3
	`

	rows, err := r.db.Query(ctx, query, userID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*domain.Expense
	for rows.Next() {
		e, err := scanExpense(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}

	return out, rows.Err()
}

// Update writes an expense's purpose, amount and time.
func (r *ExpenseRepository) Update(ctx context.Context, e *domain.Expense) error {
	query := `UPDATE expenses SET purpose = $2, amount = $3, time = $4 WHERE id = $1`

	tag, err := r.db.Exec(ctx, query, e.ID, e.Purpose, decimalToNumeric(e.Amount), e.Time)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrExpenseNotFound
	}
	return nil
}

// Delete deletes an expense.
func (r *ExpenseRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM expenses WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrExpenseNotFound
	}
	return nil
}

func scanExpense(row rowScanner) (*domain.Expense, error) {
	var (
		e      domain.Expense
		amount pgtype.Numeric
	)

	if err := row.Scan(&e.ID, &e.Purpose, &amount, &e.Time, &e.AddedBy); err != nil {
		return nil, err
	}
	e.Amount = numericToDecimal(amount)

	return &e, nil
}

package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/totza/internal/domain"
)

// ProjectUseCase handles projects and their expenses.
type ProjectUseCase struct {
	projectRepo ProjectRepository
	expenseRepo ProjectExpenseRepository
	idGen       IDGenerator
}

// NewProjectUseCase creates a new ProjectUseCase.
func NewProjectUseCase(projectRepo ProjectRepository, expenseRepo ProjectExpenseRepository, idGen IDGenerator) *ProjectUseCase {
	return &ProjectUseCase{
		projectRepo: projectRepo,
		expenseRepo: expenseRepo,
		idGen:       idGen,
	}
}

// CreateProjectInput represents input for creating a project.
type CreateProjectInput struct {
	Name            string
	Description     string
	EstimatedBudget decimal.Decimal
	EndDate         *time.Time
}

// AddProjectExpenseInput represents input for adding a project expense.
type AddProjectExpenseInput struct {
	Purpose string
	Amount  decimal.Decimal
	Credit  bool
}

// ProjectDetails is a project together with its expenses.
type ProjectDetails struct {
	Project  *domain.Project
	Expenses []*domain.ProjectExpense
	Summary  domain.ProjectSummary
}

// CreateProject creates a project owned by actor.
func (uc *ProjectUseCase) CreateProject(ctx context.Context, actor string, input CreateProjectInput) (*domain.Project, error) {
	project := &domain.Project{
		ID:              uc.idGen.Generate(),
		Name:            strings.TrimSpace(input.Name),
		Description:     strings.TrimSpace(input.Description),
		EstimatedBudget: input.EstimatedBudget,
		EndDate:         input.EndDate,
		OwnerID:         actor,
		Collaborators:   []string{},
		CreatedAt:       time.Now().UTC(),
	}

	if err := project.Validate(); err != nil {
		return nil, err
	}

	if err := uc.projectRepo.Create(ctx, project); err != nil {
		return nil, err
	}

	return project, nil
}

// ListProjects lists the projects actor owns or collaborates on.
func (uc *ProjectUseCase) ListProjects(ctx context.Context, actor string, limit, offset int) ([]*domain.Project, error) {
	limit, offset = domain.ValidatePagination(limit, offset)
	return uc.projectRepo.ListByMember(ctx, actor, limit, offset)
}

// GetProject returns a project with its expenses and budget summary.
func (uc *ProjectUseCase) GetProject(ctx context.Context, actor, id string) (*ProjectDetails, error) {
	project, err := uc.accessibleProject(ctx, actor, id)
	if err != nil {
		return nil, err
	}

	expenses, err := uc.expenseRepo.ListByProject(ctx, id)
	if err != nil {
		return nil, err
	}

	return &ProjectDetails{
		Project:  project,
		Expenses: expenses,
		Summary:  project.Summarize(expenses),
	}, nil
}

// AddCollaborator grants userID access to the project.
func (uc *ProjectUseCase) AddCollaborator(ctx context.Context, actor, projectID, userID string) (*domain.Project, error) {
	project, err := uc.accessibleProject(ctx, actor, projectID)
	if err != nil {
		return nil, err
	}

	if err := project.AddCollaborator(userID); err != nil {
		return nil, err
	}

	if err := uc.projectRepo.UpdateCollaborators(ctx, project.ID, project.Collaborators); err != nil {
		return nil, err
	}

	return project, nil
}

// DeleteProject deletes a project. Only its owner may do so.
func (uc *ProjectUseCase) DeleteProject(ctx context.Context, actor, id string) error {
	project, err := uc.projectRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if project.OwnerID != actor {
		return domain.ErrProjectAccessDenied
	}

	return uc.projectRepo.Delete(ctx, id)
}

// AddExpense books an expense against a project.
func (uc *ProjectUseCase) AddExpense(ctx context.Context, actor, projectID string, input AddProjectExpenseInput) (*domain.ProjectExpense, error) {
	if _, err := uc.accessibleProject(ctx, actor, projectID); err != nil {
		return nil, err
	}

	expense := &domain.ProjectExpense{
		ID:        uc.idGen.Generate(),
		ProjectID: projectID,
		Purpose:   strings.TrimSpace(input.Purpose),
		Amount:    input.Amount,
		Credit:    input.Credit,
		AddedBy:   actor,
		CreatedAt: time.Now().UTC(),
	}

	if err := expense.Validate(); err != nil {
		return nil, err
	}

	if err := uc.expenseRepo.Create(ctx, expense); err != nil {
		return nil, err
	}

	return expense, nil
}

// ListExpenses lists a project's expenses.
func (uc *ProjectUseCase) ListExpenses(ctx context.Context, actor, projectID string) ([]*domain.ProjectExpense, error) {
	if _, err := uc.accessibleProject(ctx, actor, projectID); err != nil {
		return nil, err
	}

	return uc.expenseRepo.ListByProject(ctx, projectID)
}

// DeleteExpense removes an expense from a project.
func (uc *ProjectUseCase) DeleteExpense(ctx context.Context, actor, projectID, expenseID string) error {
	if _, err := uc.accessibleProject(ctx, actor, projectID); err != nil {
		return err
	}

	expense, err := uc.expenseRepo.GetByID(ctx, expenseID)
	if err != nil {
		return err
	}
	if expense.ProjectID != projectID {
		return domain.ErrProjectExpenseNotFound
	}

	return uc.expenseRepo.Delete(ctx, expenseID)
}

func (uc *ProjectUseCase) accessibleProject(ctx context.Context, actor, id string) (*domain.Project, error) {
	project, err := uc.projectRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if !project.CanAccess(actor) {
		return nil, domain.ErrProjectAccessDenied
	}

	return project, nil
}

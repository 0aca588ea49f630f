package handler

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/iho/totza/internal/adapter/http/dto"
	"github.com/iho/totza/internal/domain"
	"github.com/iho/totza/internal/usecase"
)

// ProjectService manages projects and their expenses.
type ProjectService interface {
	CreateProject(ctx context.Context, actor string, input usecase.CreateProjectInput) (*domain.Project, error)
	ListProjects(ctx context.Context, actor string, limit, offset int) ([]*domain.Project, error)
	GetProject(ctx context.Context, actor, id string) (*usecase.ProjectDetails, error)
	AddCollaborator(ctx context.Context, actor, projectID, userID string) (*domain.Project, error)
	DeleteProject(ctx context.Context, actor, id string) error
	AddExpense(ctx context.Context, actor, projectID string, input usecase.AddProjectExpenseInput) (*domain.ProjectExpense, error)
	ListExpenses(ctx context.Context, actor, projectID string) ([]*domain.ProjectExpense, error)
	DeleteExpense(ctx context.Context, actor, projectID, expenseID string) error
}

// ProjectHandler handles project requests.
type ProjectHandler struct {
	service ProjectService
}

// NewProjectHandler creates a new ProjectHandler.
func NewProjectHandler(service ProjectService) *ProjectHandler {
	return &ProjectHandler{service: service}
}

// Create creates a project owned by the caller.
func (h *ProjectHandler) Create(w http.ResponseWriter, r *http.Request) {
	actorID, ok := actor(w, r)
	if !ok {
		return
	}

	var req dto.CreateProjectRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	project, err := h.service.CreateProject(r.Context(), actorID, req.ToUseCaseInput())
	if err != nil {
		writeDomainError(w, "failed to create project", err)
		return
	}

	writeJSON(w, http.StatusCreated, dto.ProjectFromDomain(project))
}

// List lists the projects the caller owns or collaborates on.
func (h *ProjectHandler) List(w http.ResponseWriter, r *http.Request) {
	actorID, ok := actor(w, r)
	if !ok {
		return
	}

	projects, err := h.service.ListProjects(r.Context(), actorID,
		parseIntQuery(r, "limit", domain.DefaultPageSize), parseIntQuery(r, "offset", 0))
	if err != nil {
		writeDomainError(w, "failed to list projects", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.ProjectsFromDomain(projects))
}

// Get returns a project with its expenses and budget summary.
func (h *ProjectHandler) Get(w http.ResponseWriter, r *http.Request) {
	actorID, ok := actor(w, r)
	if !ok {
		return
	}

	details, err := h.service.GetProject(r.Context(), actorID, chi.URLParam(r, "id"))
	if err != nil {
		writeDomainError(w, "failed to get project", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.ProjectDetailsFromUseCase(details))
}

// AddCollaborator adds a user to a project.
func (h *ProjectHandler) AddCollaborator(w http.ResponseWriter, r *http.Request) {
	actorID, ok := actor(w, r)
	if !ok {
		return
	}

	var req dto.AddCollaboratorRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	project, err := h.service.AddCollaborator(r.Context(), actorID, chi.URLParam(r, "id"), req.CollaboratorID)
	if err != nil {
		writeDomainError(w, "failed to add collaborator", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.ProjectFromDomain(project))
}

// Delete removes a project. Only its owner may do so.
func (h *ProjectHandler) Delete(w http.ResponseWriter, r *http.Request) {
	actorID, ok := actor(w, r)
	if !ok {
		return
	}

	if err := h.service.DeleteProject(r.Context(), actorID, chi.URLParam(r, "id")); err != nil {
		writeDomainError(w, "failed to delete project", err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// AddExpense books an expense against a project.
func (h *ProjectHandler) AddExpense(w http.ResponseWriter, r *http.Request) {
	actorID, ok := actor(w, r)
	if !ok {
		return
	}

	var req dto.AddProjectExpenseRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	expense, err := h.service.AddExpense(r.Context(), actorID, chi.URLParam(r, "id"), req.ToUseCaseInput())
	if err != nil {
		writeDomainError(w, "failed to add project expense", err)
		return
	}

	writeJSON(w, http.StatusCreated, dto.ProjectExpenseFromDomain(expense))
}

// ListExpenses lists a project's expenses.
func (h *ProjectHandler) ListExpenses(w http.ResponseWriter, r *http.Request) {
	actorID, ok := actor(w, r)
	if !ok {
		return
	}

	expenses, err := h.service.ListExpenses(r.Context(), actorID, chi.URLParam(r, "id"))
	if err != nil {
		writeDomainError(w, "failed to list project expenses", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.ProjectExpensesFromDomain(expenses))
}

// DeleteExpense removes a project expense.
func (h *ProjectHandler) DeleteExpense(w http.ResponseWriter, r *http.Request) {
	actorID, ok := actor(w, r)
	if !ok {
		return
	}

	err := h.service.DeleteExpense(r.Context(), actorID, chi.URLParam(r, "id"), chi.URLParam(r, "expenseID"))
	if err != nil {
		writeDomainError(w, "failed to delete project expense", err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

package handler

import (
	"context"
	"net/http"

	"github.com/iho/totza/internal/adapter/http/dto"
	"github.com/iho/totza/internal/adapter/http/middleware"
	"github.com/iho/totza/internal/domain"
	"github.com/iho/totza/internal/usecase"
)

// UserService registers users.
type UserService interface {
	RegisterUser(ctx context.Context, input usecase.RegisterUserInput) (*domain.User, error)
}

// UserHandler handles user endpoints
type UserHandler struct {
	service UserService
}

// NewUserHandler creates a new user handler
func NewUserHandler(service UserService) *UserHandler {
	return &UserHandler{service: service}
}

// Register creates a user. The route is admin-only.
func (h *UserHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req dto.RegisterUserRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	user, err := h.service.RegisterUser(r.Context(), req.ToUseCaseInput())
	if err != nil {
		writeDomainError(w, "failed to register user", err)
		return
	}

	writeJSON(w, http.StatusCreated, dto.UserFromDomain(user))
}

// Me returns the current authenticated user
func (h *UserHandler) Me(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUserFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized", "")
		return
	}

	writeJSON(w, http.StatusOK, dto.UserFromDomain(user))
}

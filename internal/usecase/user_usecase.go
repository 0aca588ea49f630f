package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/iho/totza/internal/domain"
)

// UserUseCase handles user management operations
type UserUseCase struct {
	userRepo UserRepository
	idGen    IDGenerator
}

// NewUserUseCase creates a new user use case
func NewUserUseCase(userRepo UserRepository, idGen IDGenerator) *UserUseCase {
	return &UserUseCase{
		userRepo: userRepo,
		idGen:    idGen,
	}
}

// RegisterUserInput represents input for registering a user
type RegisterUserInput struct {
	Email    string
	Name     string
	GoogleID string
	Role     domain.Role
}

// RegisterUser creates a new active user
func (uc *UserUseCase) RegisterUser(ctx context.Context, input RegisterUserInput) (*domain.User, error) {
	now := time.Now().UTC()
	user := &domain.User{
		ID:        uc.idGen.Generate(),
		Email:     strings.ToLower(strings.TrimSpace(input.Email)),
		Name:      input.Name,
		GoogleID:  input.GoogleID,
		Role:      input.Role,
		Active:    true,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := user.Validate(); err != nil {
		return nil, err
	}

	// Check if user already exists
	_, err := uc.userRepo.GetByEmail(ctx, user.Email)
	if err == nil {
		return nil, fmt.Errorf("%w: user with email %s already exists", domain.ErrValidation, user.Email)
	}
	if !errors.Is(err, domain.ErrUserNotFound) {
		return nil, err
	}

	if err := uc.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}

	return user, nil
}

// GetUser retrieves a user by ID
func (uc *UserUseCase) GetUser(ctx context.Context, id string) (*domain.User, error) {
	return uc.userRepo.GetByID(ctx, id)
}

// GetUserByGoogleID retrieves the user registered with a Google account
func (uc *UserUseCase) GetUserByGoogleID(ctx context.Context, googleID string) (*domain.User, error) {
	return uc.userRepo.GetByGoogleID(ctx, googleID)
}

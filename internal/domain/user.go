package domain

import (
	"errors"
	"fmt"
	"time"
)

// User represents a system user
type User struct {
	ID        string
	Email     string
	Name      string
	GoogleID  string
	Role      Role
	Active    bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Validate checks required user fields
func (u *User) Validate() error {
	if err := ValidateEmail(u.Email); err != nil {
		return fmt.Errorf("%w: %w", ErrValidation, err)
	}
	if !u.Role.IsValid() {
		return fmt.Errorf("%w: role %q is not valid", ErrValidation, u.Role)
	}
	return nil
}

// Role represents a user's access level
type Role string

const (
	// RoleAdmin can manage users and run exports
	RoleAdmin Role = "admin"

	// RoleOperator can record and delete transactions
	RoleOperator Role = "operator"

	// RoleViewer can only view resources, no mutations
	RoleViewer Role = "viewer"
)

var validRoles = map[Role]bool{
	RoleAdmin:    true,
	RoleOperator: true,
	RoleViewer:   true,
}

// IsValid checks if the role is a valid role
func (r Role) IsValid() bool {
	return validRoles[r]
}

// CanCreate checks if the role can create resources
func (r Role) CanCreate() bool {
	return r == RoleAdmin || r == RoleOperator
}

// CanManageUsers checks if the role can register users
func (r Role) CanManageUsers() bool {
	return r == RoleAdmin
}

// Authentication errors
var (
	ErrUnauthorized     = errors.New("unauthorized")
	ErrInvalidToken     = errors.New("invalid token")
	ErrExpiredToken     = errors.New("token has expired")
	ErrInsufficientRole = errors.New("insufficient role for this operation")
)

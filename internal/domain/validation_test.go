package domain

import (
	"errors"
	"testing"
)

func TestValidateEmail(t *testing.T) {
	t.Parallel()

	if err := ValidateEmail("ops@totza.io"); err != nil {
		t.Fatalf("expected valid email, got %v", err)
	}

	if err := ValidateEmail("not-an-email"); !errors.Is(err, ErrInvalidEmail) {
		t.Fatalf("expected ErrInvalidEmail, got %v", err)
	}
}

func TestValidatePagination(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name           string
		limit, offset  int
		wantL, wantOff int
	}{
		{"defaults", 0, 0, DefaultPageSize, 0},
		{"clamps limit", 5000, 10, MaxPageSize, 10},
		{"negative offset", 10, -4, 10, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l, o := ValidatePagination(tt.limit, tt.offset)
			if l != tt.wantL || o != tt.wantOff {
				t.Fatalf("got (%d,%d), want (%d,%d)", l, o, tt.wantL, tt.wantOff)
			}
		})
	}
}

func TestUserValidate(t *testing.T) {
	t.Parallel()

	u := &User{Email: "a@b.co", Role: RoleOperator}
	if err := u.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	u.Role = "owner"
	if err := u.Validate(); !errors.Is(err, ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
}

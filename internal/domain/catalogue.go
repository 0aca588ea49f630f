package domain

import (
	"fmt"
	"slices"
	"strings"
	"time"
)

// AccountCategory groups company transactions by account. A category with a
// LinkedUserID mirrors its Debits into that user's personal ledger.
type AccountCategory struct {
	ID           string
	Name         string
	LinkedUserID string
	AddedBy      string
	CreatedAt    time.Time
}

// HasLinkedUser reports whether Debits in this category are mirrored.
func (c *AccountCategory) HasLinkedUser() bool {
	return c.LinkedUserID != ""
}

// Validate checks required fields.
func (c *AccountCategory) Validate() error {
	if strings.TrimSpace(c.Name) == "" {
		return fmt.Errorf("%w: account category name is required", ErrValidation)
	}
	return nil
}

// Vendor is a supplier referenced by company transactions.
type Vendor struct {
	ID            string
	Name          string
	Description   string
	AddedBy       string
	Collaborators []string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// Validate checks required fields.
func (v *Vendor) Validate() error {
	if strings.TrimSpace(v.Name) == "" {
		return fmt.Errorf("%w: vendor name is required", ErrValidation)
	}
	return nil
}

// HasCollaborator reports whether userID collaborates on the vendor.
func (v *Vendor) HasCollaborator(userID string) bool {
	return slices.Contains(v.Collaborators, userID)
}

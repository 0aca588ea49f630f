package domain

import (
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Project tracks a budget that owner and collaborators record expenses against.
type Project struct {
	ID              string
	Name            string
	Description     string
	EstimatedBudget decimal.Decimal
	EndDate         *time.Time
	OwnerID         string
	Collaborators   []string
	CreatedAt       time.Time
}

// Validate checks required fields.
func (p *Project) Validate() error {
	if strings.TrimSpace(p.Name) == "" {
		return fmt.Errorf("%w: project name is required", ErrValidation)
	}
	if strings.TrimSpace(p.Description) == "" {
		return fmt.Errorf("%w: project description is required", ErrValidation)
	}
	if p.EstimatedBudget.IsNegative() {
		return fmt.Errorf("%w: estimated budget must not be negative", ErrValidation)
	}
	if p.OwnerID == "" {
		return fmt.Errorf("%w: project owner is required", ErrValidation)
	}
	return nil
}

// CanAccess reports whether userID owns or collaborates on the project.
func (p *Project) CanAccess(userID string) bool {
	return p.OwnerID == userID || slices.Contains(p.Collaborators, userID)
}

// AddCollaborator appends userID unless already present.
func (p *Project) AddCollaborator(userID string) error {
	if userID == "" {
		return fmt.Errorf("%w: collaborator is required", ErrValidation)
	}
	if p.OwnerID == userID || slices.Contains(p.Collaborators, userID) {
		return ErrAlreadyCollaborator
	}
	p.Collaborators = append(p.Collaborators, userID)
	return nil
}

// ProjectExpense is a money movement booked against a project.
// Credit expenses add to the project's funds, the rest spend them.
type ProjectExpense struct {
	ID        string
	ProjectID string
	Purpose   string
	Amount    decimal.Decimal
	Credit    bool
	AddedBy   string
	CreatedAt time.Time
}

// Validate checks required fields.
func (e *ProjectExpense) Validate() error {
	if strings.TrimSpace(e.Purpose) == "" {
		return fmt.Errorf("%w: purpose is required", ErrValidation)
	}
	if e.Amount.IsNegative() {
		return fmt.Errorf("%w: amount must not be negative", ErrValidation)
	}
	return nil
}

// ProjectSummary compares spending with the budget.
type ProjectSummary struct {
	Budget    decimal.Decimal
	Spent     decimal.Decimal
	Credited  decimal.Decimal
	Remaining decimal.Decimal
}

// Summarize totals expenses against the project's budget.
func (p *Project) Summarize(expenses []*ProjectExpense) ProjectSummary {
	s := ProjectSummary{Budget: p.EstimatedBudget, Spent: decimal.Zero, Credited: decimal.Zero}
	for _, e := range expenses {
		if e.Credit {
			s.Credited = s.Credited.Add(e.Amount)
		} else {
			s.Spent = s.Spent.Add(e.Amount)
		}
	}
	s.Remaining = s.Budget.Add(s.Credited).Sub(s.Spent)
	return s
}

// Expense is a personal expense private to the user who added it.
type Expense struct {
	ID      string
	Purpose string
	Amount  decimal.Decimal
	Time    time.Time
	AddedBy string
}

// Validate checks required fields.
func (e *Expense) Validate() error {
	if strings.TrimSpace(e.Purpose) == "" {
		return fmt.Errorf("%w: purpose is required", ErrValidation)
	}
	if e.Amount.IsNegative() {
		return fmt.Errorf("%w: amount must not be negative", ErrValidation)
	}
	if e.AddedBy == "" {
		return fmt.Errorf("%w: expense owner is required", ErrValidation)
	}
	return nil
}

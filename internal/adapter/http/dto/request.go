package dto

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/totza/internal/domain"
	"github.com/iho/totza/internal/usecase"
)

// CreateTransactionRequest represents a request to record a company transaction.
type CreateTransactionRequest struct {
	Type              string              `json:"type"`
	Amount            decimal.NullDecimal `json:"amount"`
	Date              *time.Time          `json:"date,omitempty"`
	DueDate           *time.Time          `json:"dueDate,omitempty"`
	OriginalDueAmount decimal.NullDecimal `json:"originalDueAmount"`
	LinkedDues        []string            `json:"linkedDues,omitempty"`
	Account           string              `json:"account,omitempty"`
	Vendor            string              `json:"vendor,omitempty"`
	Items             []string            `json:"items,omitempty"`
	Purpose           string              `json:"purpose,omitempty"`
	Files             []string            `json:"files,omitempty"`
}

// ToUseCaseInput converts to use case input.
func (r *CreateTransactionRequest) ToUseCaseInput() (usecase.CreateTransactionInput, error) {
	kind, err := domain.ParseKind(r.Type)
	if err != nil {
		return usecase.CreateTransactionInput{}, err
	}

	return usecase.CreateTransactionInput{
		Kind:              kind,
		Amount:            r.Amount,
		Date:              r.Date,
		DueDate:           r.DueDate,
		OriginalDueAmount: r.OriginalDueAmount,
		LinkedDues:        r.LinkedDues,
		AccountID:         r.Account,
		VendorID:          r.Vendor,
		Items:             r.Items,
		Purpose:           r.Purpose,
		Files:             r.Files,
	}, nil
}

// BulkTransactionsToUseCaseInput converts a bulk body, stopping at the first bad item.
func BulkTransactionsToUseCaseInput(reqs []CreateTransactionRequest) ([]usecase.CreateTransactionInput, error) {
	inputs := make([]usecase.CreateTransactionInput, len(reqs))
	for i := range reqs {
		input, err := reqs[i].ToUseCaseInput()
		if err != nil {
			return nil, fmt.Errorf("transaction %d: %w", i, err)
		}
		inputs[i] = input
	}
	return inputs, nil
}

// CreatePersonalTransactionRequest represents a manual personal ledger entry.
type CreatePersonalTransactionRequest struct {
	Purpose string          `json:"purpose"`
	Amount  decimal.Decimal `json:"amount"`
	Type    string          `json:"type"`
	FileURL string          `json:"fileUrl,omitempty"`
	Time    *time.Time      `json:"time,omitempty"`
}

// ToUseCaseInput converts to use case input.
func (r *CreatePersonalTransactionRequest) ToUseCaseInput() (usecase.CreatePersonalTransactionInput, error) {
	kind, err := domain.ParseKind(r.Type)
	if err != nil {
		return usecase.CreatePersonalTransactionInput{}, err
	}

	return usecase.CreatePersonalTransactionInput{
		Purpose: r.Purpose,
		Amount:  r.Amount,
		Kind:    kind,
		FileURL: r.FileURL,
		Time:    r.Time,
	}, nil
}

// CreateAccountCategoryRequest represents a request to create an account category.
type CreateAccountCategoryRequest struct {
	Name       string `json:"name"`
	LinkedUser string `json:"linkedUser,omitempty"`
}

// ToUseCaseInput converts to use case input.
func (r *CreateAccountCategoryRequest) ToUseCaseInput() usecase.CreateAccountCategoryInput {
	return usecase.CreateAccountCategoryInput{
		Name:         r.Name,
		LinkedUserID: r.LinkedUser,
	}
}

// VendorRequest is the body of vendor create and update.
type VendorRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// ToUseCaseInput converts to use case input.
func (r *VendorRequest) ToUseCaseInput() usecase.VendorInput {
	return usecase.VendorInput{Name: r.Name, Description: r.Description}
}

// CreateProjectRequest represents a request to create a project.
type CreateProjectRequest struct {
	Name            string          `json:"name"`
	Description     string          `json:"description"`
	EstimatedBudget decimal.Decimal `json:"estimatedBudget"`
	EndDate         *time.Time      `json:"endDate,omitempty"`
}

// ToUseCaseInput converts to use case input.
func (r *CreateProjectRequest) ToUseCaseInput() usecase.CreateProjectInput {
	return usecase.CreateProjectInput{
		Name:            r.Name,
		Description:     r.Description,
		EstimatedBudget: r.EstimatedBudget,
		EndDate:         r.EndDate,
	}
}

// AddCollaboratorRequest names the user to add to a project.
type AddCollaboratorRequest struct {
	CollaboratorID string `json:"collaboratorId"`
}

// AddProjectExpenseRequest represents an expense booked against a project.
type AddProjectExpenseRequest struct {
	Purpose string          `json:"purpose"`
	Amount  decimal.Decimal `json:"amount"`
	Credit  bool            `json:"credit"`
}

// ToUseCaseInput converts to use case input.
func (r *AddProjectExpenseRequest) ToUseCaseInput() usecase.AddProjectExpenseInput {
	return usecase.AddProjectExpenseInput{Purpose: r.Purpose, Amount: r.Amount, Credit: r.Credit}
}

// ExpenseRequest is the body of personal expense create and update.
type ExpenseRequest struct {
	Purpose string          `json:"purpose"`
	Amount  decimal.Decimal `json:"amount"`
	Time    *time.Time      `json:"time,omitempty"`
}

// ToUseCaseInput converts to use case input.
func (r *ExpenseRequest) ToUseCaseInput() usecase.ExpenseInput {
	return usecase.ExpenseInput{Purpose: r.Purpose, Amount: r.Amount, Time: r.Time}
}

// RegisterUserRequest represents a request to register a user.
type RegisterUserRequest struct {
	Email    string `json:"email"`
	Name     string `json:"name"`
	GoogleID string `json:"googleId,omitempty"`
	Role     string `json:"role"`
}

// ToUseCaseInput converts to use case input.
func (r *RegisterUserRequest) ToUseCaseInput() usecase.RegisterUserInput {
	return usecase.RegisterUserInput{
		Email:    r.Email,
		Name:     r.Name,
		GoogleID: r.GoogleID,
		Role:     domain.Role(r.Role),
	}
}

// DailyReportRequest selects the day to report on. An empty Date means today.
type DailyReportRequest struct {
	Date string `json:"date,omitempty"`
}

// Day parses Date as YYYY-MM-DD in loc, falling back to now.
func (r *DailyReportRequest) Day(now time.Time, loc *time.Location) (time.Time, error) {
	if r.Date == "" {
		return now.In(loc), nil
	}

	day, err := time.ParseInLocation(time.DateOnly, r.Date, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: date must be YYYY-MM-DD", domain.ErrValidation)
	}
	return day, nil
}

package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/totza/internal/domain"
	"github.com/iho/totza/internal/usecase"
)

// PaymentResponse is one payment recorded against a Due.
type PaymentResponse struct {
	Amount             decimal.Decimal `json:"amount"`
	PaymentDate        time.Time       `json:"paymentDate"`
	PaymentTransaction string          `json:"paymentTransaction"`
}

// TransactionResponse represents a company transaction in API responses.
type TransactionResponse struct {
	ID                string            `json:"id"`
	Date              time.Time         `json:"date"`
	Type              domain.Kind       `json:"type"`
	Amount            decimal.Decimal   `json:"amount"`
	DueDate           *time.Time        `json:"dueDate,omitempty"`
	OriginalDueAmount *decimal.Decimal  `json:"originalDueAmount,omitempty"`
	Status            domain.DueStatus  `json:"status,omitempty"`
	LinkedDues        []string          `json:"linkedDues"`
	Payments          []PaymentResponse `json:"payments"`
	Account           string            `json:"account,omitempty"`
	Vendor            string            `json:"vendor,omitempty"`
	Items             []string          `json:"items"`
	Purpose           string            `json:"purpose,omitempty"`
	Files             []string          `json:"files"`
	AddedBy           string            `json:"addedBy"`
	Version           int64             `json:"version"`
	CreatedAt         time.Time         `json:"createdAt"`
	UpdatedAt         time.Time         `json:"updatedAt"`
}

// TransactionFromDomain converts a domain transaction to a response.
func TransactionFromDomain(t *domain.Transaction) *TransactionResponse {
	resp := &TransactionResponse{
		ID:         t.ID,
		Date:       t.Date,
		Type:       t.Kind,
		Amount:     t.Amount,
		DueDate:    t.DueDate,
		Status:     t.Status,
		LinkedDues: nonNil(t.LinkedDues),
		Payments:   make([]PaymentResponse, len(t.Payments)),
		Account:    t.AccountID,
		Vendor:     t.VendorID,
		Items:      nonNil(t.Items),
		Purpose:    t.Purpose,
		Files:      nonNil(t.Files),
		AddedBy:    t.AddedBy,
		Version:    t.Version,
		CreatedAt:  t.CreatedAt,
		UpdatedAt:  t.UpdatedAt,
	}

	if t.IsDue() {
		original := t.OriginalDueAmount
		resp.OriginalDueAmount = &original
	}

	for i, p := range t.Payments {
		resp.Payments[i] = PaymentResponse{
			Amount:             p.Amount,
			PaymentDate:        p.PaymentDate,
			PaymentTransaction: p.PaymentTransactionID,
		}
	}

	return resp
}

// TransactionsFromDomain converts domain transactions to responses.
func TransactionsFromDomain(txs []*domain.Transaction) []*TransactionResponse {
	result := make([]*TransactionResponse, len(txs))
	for i, t := range txs {
		result[i] = TransactionFromDomain(t)
	}
	return result
}

// BulkResponse is returned by the bulk create endpoint.
type BulkResponse struct {
	Count        int                    `json:"count"`
	Transactions []*TransactionResponse `json:"transactions"`
}

// BulkFromUseCase converts a bulk result to a response.
func BulkFromUseCase(r *usecase.BulkResult) *BulkResponse {
	return &BulkResponse{Count: r.Count, Transactions: TransactionsFromDomain(r.Transactions)}
}

// DueMismatchResponse is one Due whose status disagrees with its payments.
type DueMismatchResponse struct {
	DueID          string           `json:"dueId"`
	StoredStatus   domain.DueStatus `json:"storedStatus"`
	ExpectedStatus domain.DueStatus `json:"expectedStatus"`
	PaidAmount     decimal.Decimal  `json:"paidAmount"`
	OriginalAmount decimal.Decimal  `json:"originalAmount"`
}

// DanglingLinkResponse is a Debit link to a Due that no longer exists.
type DanglingLinkResponse struct {
	DebitID string `json:"debitId"`
	DueID   string `json:"dueId"`
}

// ConsistencyResponse represents the result of a consistency check.
type ConsistencyResponse struct {
	Consistent    bool                   `json:"consistent"`
	CheckedDues   int                    `json:"checkedDues"`
	Mismatches    []DueMismatchResponse  `json:"mismatches"`
	DanglingLinks []DanglingLinkResponse `json:"danglingLinks"`
	CheckedAt     time.Time              `json:"checkedAt"`
}

// ConsistencyFromUseCase converts a consistency report to a response.
func ConsistencyFromUseCase(r *usecase.ConsistencyReport) *ConsistencyResponse {
	resp := &ConsistencyResponse{
		Consistent:    r.Consistent,
		CheckedDues:   r.CheckedDues,
		Mismatches:    make([]DueMismatchResponse, len(r.Mismatches)),
		DanglingLinks: make([]DanglingLinkResponse, len(r.DanglingLinks)),
		CheckedAt:     r.CheckedAt,
	}
	for i, m := range r.Mismatches {
		resp.Mismatches[i] = DueMismatchResponse(m)
	}
	for i, d := range r.DanglingLinks {
		resp.DanglingLinks[i] = DanglingLinkResponse(d)
	}
	return resp
}

// PersonalTransactionResponse represents a personal ledger entry.
type PersonalTransactionResponse struct {
	ID                 string          `json:"id"`
	User               string          `json:"user"`
	Purpose            string          `json:"purpose"`
	Amount             decimal.Decimal `json:"amount"`
	Type               domain.Kind     `json:"type"`
	FileURL            string          `json:"fileUrl,omitempty"`
	Time               time.Time       `json:"time"`
	CompanyTransaction string          `json:"companyTransaction,omitempty"`
}

// PersonalTransactionsFromDomain converts personal transactions to responses.
func PersonalTransactionsFromDomain(items []*domain.PersonalTransaction) []*PersonalTransactionResponse {
	result := make([]*PersonalTransactionResponse, len(items))
	for i, p := range items {
		result[i] = PersonalTransactionFromDomain(p)
	}
	return result
}

// PersonalTransactionFromDomain converts a personal transaction to a response.
func PersonalTransactionFromDomain(p *domain.PersonalTransaction) *PersonalTransactionResponse {
	return &PersonalTransactionResponse{
		ID:                 p.ID,
		User:               p.UserID,
		Purpose:            p.Purpose,
		Amount:             p.Amount,
		Type:               p.Kind,
		FileURL:            p.FileURL,
		Time:               p.Time,
		CompanyTransaction: p.CompanyTransactionID,
	}
}

// AccountCategoryResponse represents an account category.
type AccountCategoryResponse struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	LinkedUser string    `json:"linkedUser,omitempty"`
	AddedBy    string    `json:"addedBy"`
	CreatedAt  time.Time `json:"createdAt"`
}

// AccountCategoryFromDomain converts an account category to a response.
func AccountCategoryFromDomain(c *domain.AccountCategory) *AccountCategoryResponse {
	return &AccountCategoryResponse{
		ID:         c.ID,
		Name:       c.Name,
		LinkedUser: c.LinkedUserID,
		AddedBy:    c.AddedBy,
		CreatedAt:  c.CreatedAt,
	}
}

// AccountCategoriesFromDomain converts account categories to responses.
func AccountCategoriesFromDomain(items []*domain.AccountCategory) []*AccountCategoryResponse {
	result := make([]*AccountCategoryResponse, len(items))
	for i, c := range items {
		result[i] = AccountCategoryFromDomain(c)
	}
	return result
}

// VendorResponse represents a vendor.
type VendorResponse struct {
	ID            string    `json:"id"`
	Name          string    `json:"name"`
	Description   string    `json:"description"`
	AddedBy       string    `json:"addedBy"`
	Collaborators []string  `json:"collaborators"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

// VendorFromDomain converts a vendor to a response.
func VendorFromDomain(v *domain.Vendor) *VendorResponse {
	return &VendorResponse{
		ID:            v.ID,
		Name:          v.Name,
		Description:   v.Description,
		AddedBy:       v.AddedBy,
		Collaborators: nonNil(v.Collaborators),
		CreatedAt:     v.CreatedAt,
		UpdatedAt:     v.UpdatedAt,
	}
}

// VendorsFromDomain converts vendors to responses.
func VendorsFromDomain(items []*domain.Vendor) []*VendorResponse {
	result := make([]*VendorResponse, len(items))
	for i, v := range items {
		result[i] = VendorFromDomain(v)
	}
	return result
}

// ProjectResponse represents a project.
type ProjectResponse struct {
	ID              string          `json:"id"`
	Name            string          `json:"name"`
	Description     string          `json:"description"`
	EstimatedBudget decimal.Decimal `json:"estimatedBudget"`
	EndDate         *time.Time      `json:"endDate,omitempty"`
	Owner           string          `json:"owner"`
	Collaborators   []string        `json:"collaborators"`
	CreatedAt       time.Time       `json:"createdAt"`
}

// ProjectFromDomain converts a project to a response.
func ProjectFromDomain(p *domain.Project) *ProjectResponse {
	return &ProjectResponse{
		ID:              p.ID,
		Name:            p.Name,
		Description:     p.Description,
		EstimatedBudget: p.EstimatedBudget,
		EndDate:         p.EndDate,
		Owner:           p.OwnerID,
		Collaborators:   nonNil(p.Collaborators),
		CreatedAt:       p.CreatedAt,
	}
}

// ProjectsFromDomain converts projects to responses.
func ProjectsFromDomain(items []*domain.Project) []*ProjectResponse {
	result := make([]*ProjectResponse, len(items))
	for i, p := range items {
		result[i] = ProjectFromDomain(p)
	}
	return result
}

// ProjectExpenseResponse represents an expense booked against a project.
type ProjectExpenseResponse struct {
	ID        string          `json:"id"`
	Project   string          `json:"project"`
	Purpose   string          `json:"purpose"`
	Amount    decimal.Decimal `json:"amount"`
	Credit    bool            `json:"credit"`
	AddedBy   string          `json:"addedBy"`
	CreatedAt time.Time       `json:"createdAt"`
}

// ProjectExpenseFromDomain converts a project expense to a response.
func ProjectExpenseFromDomain(e *domain.ProjectExpense) *ProjectExpenseResponse {
	return &ProjectExpenseResponse{
		ID:        e.ID,
		Project:   e.ProjectID,
		Purpose:   e.Purpose,
		Amount:    e.Amount,
		Credit:    e.Credit,
		AddedBy:   e.AddedBy,
		CreatedAt: e.CreatedAt,
	}
}

// ProjectExpensesFromDomain converts project expenses to responses.
func ProjectExpensesFromDomain(items []*domain.ProjectExpense) []*ProjectExpenseResponse {
	result := make([]*ProjectExpenseResponse, len(items))
	for i, e := range items {
		result[i] = ProjectExpenseFromDomain(e)
	}
	return result
}

// ProjectSummaryResponse compares spending with the budget.
type ProjectSummaryResponse struct {
	Budget    decimal.Decimal `json:"budget"`
	Spent     decimal.Decimal `json:"spent"`
	Credited  decimal.Decimal `json:"credited"`
	Remaining decimal.Decimal `json:"remaining"`
}

// ProjectDetailsResponse is a project with its expenses and summary.
type ProjectDetailsResponse struct {
	*ProjectResponse
	Expenses []*ProjectExpenseResponse `json:"expenses"`
	Summary  ProjectSummaryResponse    `json:"summary"`
}

// ProjectDetailsFromUseCase converts project details to a response.
func ProjectDetailsFromUseCase(d *usecase.ProjectDetails) *ProjectDetailsResponse {
	return &ProjectDetailsResponse{
		ProjectResponse: ProjectFromDomain(d.Project),
		Expenses:        ProjectExpensesFromDomain(d.Expenses),
		Summary:         ProjectSummaryResponse(d.Summary),
	}
}

// ExpenseResponse represents a personal expense.
type ExpenseResponse struct {
	ID      string          `json:"id"`
	Purpose string          `json:"purpose"`
	Amount  decimal.Decimal `json:"amount"`
	Time    time.Time       `json:"time"`
	AddedBy string          `json:"addedBy"`
}

// ExpenseFromDomain converts an expense to a response.
func ExpenseFromDomain(e *domain.Expense) *ExpenseResponse {
	return &ExpenseResponse{
		ID:      e.ID,
		Purpose: e.Purpose,
		Amount:  e.Amount,
		Time:    e.Time,
		AddedBy: e.AddedBy,
	}
}

// ExpensesFromDomain converts expenses to responses.
func ExpensesFromDomain(items []*domain.Expense) []*ExpenseResponse {
	result := make([]*ExpenseResponse, len(items))
	for i, e := range items {
		result[i] = ExpenseFromDomain(e)
	}
	return result
}

// UserResponse represents a user.
type UserResponse struct {
	ID        string      `json:"id"`
	Email     string      `json:"email"`
	Name      string      `json:"name"`
	Role      domain.Role `json:"role"`
	Active    bool        `json:"active"`
	CreatedAt time.Time   `json:"createdAt"`
}

// UserFromDomain converts a user to a response.
func UserFromDomain(u *domain.User) *UserResponse {
	return &UserResponse{
		ID:        u.ID,
		Email:     u.Email,
		Name:      u.Name,
		Role:      u.Role,
		Active:    u.Active,
		CreatedAt: u.CreatedAt,
	}
}

// SheetSyncResponse is returned by the sheets sync endpoint.
type SheetSyncResponse struct {
	Rows     int       `json:"rows"`
	SyncedAt time.Time `json:"syncedAt"`
}

// DailyReportResponse is returned by the daily report endpoint.
type DailyReportResponse struct {
	Day              string `json:"day"`
	TransactionCount int    `json:"transactionCount"`
	DocCreated       bool   `json:"docCreated"`
	DocumentID       string `json:"documentId,omitempty"`
	Title            string `json:"title,omitempty"`
	URL              string `json:"url,omitempty"`
}

// DailyReportFromUseCase converts a daily report result to a response.
func DailyReportFromUseCase(r *usecase.DailyReportResult) *DailyReportResponse {
	resp := &DailyReportResponse{
		Day:              r.Day.Format(time.DateOnly),
		TransactionCount: r.TransactionCount,
		DocCreated:       r.DocCreated,
	}
	if r.Document != nil {
		resp.DocumentID = r.Document.DocumentID
		resp.Title = r.Document.Title
		resp.URL = r.Document.URL
	}
	return resp
}

// ErrorResponse represents an error in API responses.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

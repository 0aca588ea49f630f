package dto

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iho/totza/internal/domain"
	"github.com/iho/totza/internal/usecase"
)

func TestTransactionFromDomain_Due(t *testing.T) {
	due := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	tx := &domain.Transaction{
		ID:                "due-1",
		Kind:              domain.KindDue,
		Amount:            decimal.NewFromInt(100),
		DueDate:           &due,
		OriginalDueAmount: decimal.NewFromInt(100),
		Status:            domain.StatusPartiallyPaid,
		Payments: []domain.Payment{
			{Amount: decimal.NewFromInt(40), PaymentTransactionID: "debit-1"},
		},
	}

	resp := TransactionFromDomain(tx)

	require.NotNil(t, resp.OriginalDueAmount)
	assert.True(t, resp.OriginalDueAmount.Equal(decimal.NewFromInt(100)))
	require.Len(t, resp.Payments, 1)
	assert.Equal(t, "debit-1", resp.Payments[0].PaymentTransaction)
	assert.Equal(t, []string{}, resp.LinkedDues)

	raw, err := json.Marshal(resp)
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"status":"Partially Paid"`)
	assert.Contains(t, string(raw), `"type":"Due"`)
}

func TestTransactionFromDomain_DebitOmitsDueFields(t *testing.T) {
	tx := &domain.Transaction{
		ID:         "debit-1",
		Kind:       domain.KindDebit,
		Amount:     decimal.NewFromInt(40),
		LinkedDues: []string{"due-1"},
	}

	raw, err := json.Marshal(TransactionFromDomain(tx))
	require.NoError(t, err)

	assert.NotContains(t, string(raw), "originalDueAmount")
	assert.NotContains(t, string(raw), `"status"`)
	assert.Contains(t, string(raw), `"linkedDues":["due-1"]`)
}

func TestConsistencyFromUseCase(t *testing.T) {
	report := &usecase.ConsistencyReport{
		CheckedDues: 2,
		Mismatches: []usecase.DueMismatch{{
			DueID:          "due-1",
			StoredStatus:   domain.StatusPending,
			ExpectedStatus: domain.StatusFullyPaid,
		}},
		DanglingLinks: []usecase.DanglingLink{{DebitID: "debit-1", DueID: "gone"}},
	}

	resp := ConsistencyFromUseCase(report)

	assert.False(t, resp.Consistent)
	require.Len(t, resp.Mismatches, 1)
	assert.Equal(t, domain.StatusFullyPaid, resp.Mismatches[0].ExpectedStatus)
	require.Len(t, resp.DanglingLinks, 1)
	assert.Equal(t, "gone", resp.DanglingLinks[0].DueID)
}

func TestProjectDetailsFromUseCase(t *testing.T) {
	details := &usecase.ProjectDetails{
		Project:  &domain.Project{ID: "p-1", Name: "Roof", OwnerID: "u-1"},
		Expenses: []*domain.ProjectExpense{{ID: "e-1", ProjectID: "p-1", Amount: decimal.NewFromInt(5)}},
		Summary:  domain.ProjectSummary{Spent: decimal.NewFromInt(5)},
	}

	raw, err := json.Marshal(ProjectDetailsFromUseCase(details))
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(raw, &decoded))
	assert.Equal(t, "p-1", decoded["id"])
	assert.Len(t, decoded["expenses"], 1)
	assert.Equal(t, []any{}, decoded["collaborators"])
}

func TestDailyReportFromUseCase(t *testing.T) {
	result := &usecase.DailyReportResult{
		Day:              time.Date(2024, 3, 2, 0, 0, 0, 0, time.UTC),
		TransactionCount: 3,
		DocCreated:       true,
		Document:         &domain.ExportedDocument{DocumentID: "doc-1", URL: "https://docs/doc-1"},
	}

	resp := DailyReportFromUseCase(result)

	assert.Equal(t, "2024-03-02", resp.Day)
	assert.Equal(t, "https://docs/doc-1", resp.URL)
}

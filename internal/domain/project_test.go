package domain

import (
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func TestProject_Access(t *testing.T) {
	p := &Project{OwnerID: "owner", Collaborators: []string{"c1"}}

	if !p.CanAccess("owner") || !p.CanAccess("c1") {
		t.Fatal("expected owner and collaborator to have access")
	}
	if p.CanAccess("stranger") {
		t.Fatal("expected stranger to be denied")
	}

	if err := p.AddCollaborator("c2"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := p.AddCollaborator("c2"); !errors.Is(err, ErrAlreadyCollaborator) {
		t.Fatalf("expected ErrAlreadyCollaborator, got %v", err)
	}
	if err := p.AddCollaborator("owner"); !errors.Is(err, ErrAlreadyCollaborator) {
		t.Fatalf("expected owner to count as collaborator, got %v", err)
	}
}

func TestProject_Validate(t *testing.T) {
	valid := Project{Name: "Office", Description: "Fit-out", EstimatedBudget: decimal.NewFromInt(1000), OwnerID: "u"}
	if err := valid.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	missingDescription := valid
	missingDescription.Description = " "
	if err := missingDescription.Validate(); !errors.Is(err, ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}

	negativeBudget := valid
	negativeBudget.EstimatedBudget = decimal.NewFromInt(-5)
	if err := negativeBudget.Validate(); !errors.Is(err, ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
}

func TestProject_Summarize(t *testing.T) {
	p := &Project{EstimatedBudget: decimal.NewFromInt(1000)}
	s := p.Summarize([]*ProjectExpense{
		{Amount: decimal.NewFromInt(300)},
		{Amount: decimal.NewFromInt(200)},
		{Amount: decimal.NewFromInt(50), Credit: true},
	})

	if !s.Spent.Equal(decimal.NewFromInt(500)) {
		t.Fatalf("expected spent 500, got %s", s.Spent)
	}
	if !s.Remaining.Equal(decimal.NewFromInt(550)) {
		t.Fatalf("expected remaining 550, got %s", s.Remaining)
	}
}

func TestBuildDailyReport(t *testing.T) {
	day := time.Date(2026, 10, 18, 15, 0, 0, 0, time.UTC)
	start, end := DayBounds(day)
	if !start.Equal(time.Date(2026, 10, 18, 0, 0, 0, 0, time.UTC)) || !end.Equal(start.Add(24*time.Hour)) {
		t.Fatalf("unexpected bounds %s..%s", start, end)
	}

	late := &Transaction{ID: "b", Kind: KindDebit, Amount: decimal.NewFromInt(25), CreatedAt: start.Add(2 * time.Hour)}
	early := &Transaction{ID: "a", Kind: KindCredit, Amount: decimal.NewFromInt(75), CreatedAt: start.Add(time.Hour)}

	r := BuildDailyReport(day, []*Transaction{late, early})
	if r.Empty() {
		t.Fatal("expected non-empty report")
	}
	if r.Transactions[0].ID != "a" {
		t.Fatalf("expected oldest first, got %s", r.Transactions[0].ID)
	}
	if !r.TotalAmount.Equal(decimal.NewFromInt(100)) {
		t.Fatalf("expected total 100, got %s", r.TotalAmount)
	}
	if r.CountsByKind[KindDebit] != 1 || r.CountsByKind[KindCredit] != 1 {
		t.Fatalf("unexpected counts %v", r.CountsByKind)
	}
	if r.Title() != "Transaction Report - 2026-10-18" {
		t.Fatalf("unexpected title %q", r.Title())
	}
}

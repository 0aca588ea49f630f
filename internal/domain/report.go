package domain

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"
)

// DailyReport summarises the company transactions created on one day.
type DailyReport struct {
	Day          time.Time
	Transactions []*Transaction
	TotalAmount  decimal.Decimal
	CountsByKind map[Kind]int
}

// DayBounds returns [start, end) of the calendar day containing t, in t's location.
func DayBounds(t time.Time) (time.Time, time.Time) {
	start := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
	return start, start.AddDate(0, 0, 1)
}

// BuildDailyReport totals txs, ordering them oldest first.
func BuildDailyReport(day time.Time, txs []*Transaction) *DailyReport {
	sorted := append([]*Transaction(nil), txs...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].CreatedAt.Before(sorted[j].CreatedAt)
	})

	r := &DailyReport{
		Day:          day,
		Transactions: sorted,
		TotalAmount:  decimal.Zero,
		CountsByKind: make(map[Kind]int),
	}
	for _, tx := range sorted {
		r.TotalAmount = r.TotalAmount.Add(tx.Amount)
		r.CountsByKind[tx.Kind]++
	}

	return r
}

// Title is the document title for the report.
func (r *DailyReport) Title() string {
	return "Transaction Report - " + r.Day.Format(time.DateOnly)
}

// Empty reports whether there is nothing to publish.
func (r *DailyReport) Empty() bool {
	return len(r.Transactions) == 0
}

// ExportedDocument describes a document written to an external store.
type ExportedDocument struct {
	DocumentID string
	Title      string
	URL        string
	FolderID   string
}

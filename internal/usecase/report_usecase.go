package usecase

import (
	"context"
	"errors"
	"time"

	"github.com/iho/totza/internal/domain"
)

// ErrExportNotConfigured is returned when the export target is not set up.
var ErrExportNotConfigured = errors.New("export is not configured")

// ReportUseCase publishes the ledger to spreadsheets and documents.
type ReportUseCase struct {
	txRepo TransactionRepository
	sheets SheetExporter
	docs   DocumentExporter
}

// NewReportUseCase creates a new ReportUseCase. Either exporter may be nil.
func NewReportUseCase(txRepo TransactionRepository, sheets SheetExporter, docs DocumentExporter) *ReportUseCase {
	return &ReportUseCase{txRepo: txRepo, sheets: sheets, docs: docs}
}

// SheetSyncResult is the outcome of a sheet sync.
type SheetSyncResult struct {
	Rows     int
	SyncedAt time.Time
}

// DailyReportResult is the outcome of a daily report run.
type DailyReportResult struct {
	Day              time.Time
	TransactionCount int
	DocCreated       bool
	Document         *domain.ExportedDocument
}

// SyncSheet rewrites the spreadsheet with every company transaction.
func (uc *ReportUseCase) SyncSheet(ctx context.Context) (*SheetSyncResult, error) {
	if uc.sheets == nil {
		return nil, ErrExportNotConfigured
	}

	txs, err := uc.txRepo.Find(ctx, domain.TransactionFilter{})
	if err != nil {
		return nil, err
	}

	rows, err := uc.sheets.ExportTransactions(ctx, txs)
	if err != nil {
		return nil, err
	}

	return &SheetSyncResult{Rows: rows, SyncedAt: time.Now().UTC()}, nil
}

// GenerateDailyReport publishes the transactions created on day's calendar date.
// A day without transactions produces no document.
func (uc *ReportUseCase) GenerateDailyReport(ctx context.Context, day time.Time) (*DailyReportResult, error) {
	if uc.docs == nil {
		return nil, ErrExportNotConfigured
	}

	start, end := domain.DayBounds(day)
	txs, err := uc.txRepo.Find(ctx, domain.TransactionFilter{
		CreatedFrom: &start,
		CreatedTo:   &end,
	})
	if err != nil {
		return nil, err
	}

	report := domain.BuildDailyReport(start, txs)
	result := &DailyReportResult{
		Day:              start,
		TransactionCount: len(report.Transactions),
	}

	if report.Empty() {
		return result, nil
	}

	doc, err := uc.docs.ExportDailyReport(ctx, report)
	if err != nil {
		return nil, err
	}

	result.DocCreated = true
	result.Document = doc

	return result, nil
}

package usecase_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.uber.org/mock/gomock"

	"github.com/iho/totza/internal/domain"
	"github.com/iho/totza/internal/usecase"
	"github.com/iho/totza/internal/usecase/mocks"
)

func TestReportUseCase_SyncSheet(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	txRepo := mocks.NewMockTransactionRepository(ctrl)
	sheets := mocks.NewMockSheetExporter(ctrl)
	uc := usecase.NewReportUseCase(txRepo, sheets, nil)

	txs := []*domain.Transaction{{ID: "a"}, {ID: "b"}}
	txRepo.EXPECT().Find(gomock.Any(), domain.TransactionFilter{}).Return(txs, nil)
	sheets.EXPECT().ExportTransactions(gomock.Any(), txs).Return(2, nil)

	result, err := uc.SyncSheet(context.Background())
	if err != nil {
		t.Fatalf("sync: %v", err)
	}
	if result.Rows != 2 {
		t.Fatalf("expected 2 rows, got %d", result.Rows)
	}

	if _, err := uc.GenerateDailyReport(context.Background(), time.Now()); !errors.Is(err, usecase.ErrExportNotConfigured) {
		t.Fatalf("expected ErrExportNotConfigured without docs exporter, got %v", err)
	}
}

func TestReportUseCase_GenerateDailyReport(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	txRepo := mocks.NewMockTransactionRepository(ctrl)
	docs := mocks.NewMockDocumentExporter(ctrl)
	uc := usecase.NewReportUseCase(txRepo, nil, docs)

	day := time.Date(2024, 5, 17, 15, 30, 0, 0, time.UTC)
	start := time.Date(2024, 5, 17, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 0, 1)

	t.Run("empty day creates no document", func(t *testing.T) {
		txRepo.EXPECT().Find(gomock.Any(), domain.TransactionFilter{CreatedFrom: &start, CreatedTo: &end}).Return(nil, nil)

		result, err := uc.GenerateDailyReport(context.Background(), day)
		if err != nil {
			t.Fatalf("report: %v", err)
		}
		if result.DocCreated || result.Document != nil {
			t.Fatalf("expected no document, got %+v", result)
		}
	})

	t.Run("publishes transactions of the day", func(t *testing.T) {
		txs := []*domain.Transaction{
			{ID: "late", Kind: domain.KindCredit, Amount: dec(5), CreatedAt: start.Add(10 * time.Hour)},
			{ID: "early", Kind: domain.KindDebit, Amount: dec(7), CreatedAt: start.Add(time.Hour)},
		}
		txRepo.EXPECT().Find(gomock.Any(), gomock.Any()).Return(txs, nil)
		docs.EXPECT().ExportDailyReport(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, report *domain.DailyReport) (*domain.ExportedDocument, error) {
			if report.Transactions[0].ID != "early" {
				t.Fatalf("expected oldest first, got %s", report.Transactions[0].ID)
			}
			if !report.TotalAmount.Equal(dec(12)) {
				t.Fatalf("expected total 12, got %s", report.TotalAmount)
			}
			return &domain.ExportedDocument{DocumentID: "doc-1", Title: report.Title(), URL: "https://docs/doc-1"}, nil
		})

		result, err := uc.GenerateDailyReport(context.Background(), day)
		if err != nil {
			t.Fatalf("report: %v", err)
		}
		if !result.DocCreated || result.Document.Title != "Transaction Report - 2024-05-17" {
			t.Fatalf("unexpected result: %+v", result)
		}
		if result.TransactionCount != 2 {
			t.Fatalf("expected 2 transactions, got %d", result.TransactionCount)
		}
	})
}

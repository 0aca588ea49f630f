package handler

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/iho/totza/internal/adapter/http/dto"
	"github.com/iho/totza/internal/usecase"
)

// ReportService publishes the ledger to Google Sheets and Docs.
type ReportService interface {
	SyncSheet(ctx context.Context) (*usecase.SheetSyncResult, error)
	GenerateDailyReport(ctx context.Context, day time.Time) (*usecase.DailyReportResult, error)
}

// ReportHandler handles export requests.
type ReportHandler struct {
	service  ReportService
	location *time.Location
	now      func() time.Time
}

// NewReportHandler creates a new ReportHandler. Days are read in loc.
func NewReportHandler(service ReportService, loc *time.Location) *ReportHandler {
	if loc == nil {
		loc = time.UTC
	}
	return &ReportHandler{service: service, location: loc, now: time.Now}
}

// SyncSheet rewrites the spreadsheet.
func (h *ReportHandler) SyncSheet(w http.ResponseWriter, r *http.Request) {
	result, err := h.service.SyncSheet(r.Context())
	if err != nil {
		writeDomainError(w, "failed to sync sheet", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.SheetSyncResponse{Rows: result.Rows, SyncedAt: result.SyncedAt})
}

// DailyReport publishes the report for the requested day. An empty body means today.
func (h *ReportHandler) DailyReport(w http.ResponseWriter, r *http.Request) {
	var req dto.DailyReportRequest
	body, err := io.ReadAll(r.Body)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}
	if len(body) > 0 {
		if err := json.Unmarshal(body, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
			return
		}
	}

	day, err := req.Day(h.now(), h.location)
	if err != nil {
		writeDomainError(w, "invalid report date", err)
		return
	}

	result, err := h.service.GenerateDailyReport(r.Context(), day)
	if err != nil {
		writeDomainError(w, "failed to generate daily report", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.DailyReportFromUseCase(result))
}

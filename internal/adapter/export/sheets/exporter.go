// Package sheets mirrors the company ledger into a Google spreadsheet.
package sheets

import (
	"context"
	"fmt"
	"time"

	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"

	"github.com/iho/totza/internal/domain"
	"github.com/iho/totza/internal/usecase"
)

var _ usecase.SheetExporter = (*Exporter)(nil)

// Scopes are the OAuth scopes the exporter needs.
var Scopes = []string{sheets.SpreadsheetsScope}

// Header is the first row of the exported sheet.
var Header = []interface{}{"Type", "Amount", "Account", "Vendor", "Purpose", "Added By", "Created At"}

// Exporter replaces the contents of one sheet with the full ledger.
type Exporter struct {
	service       *sheets.Service
	spreadsheetID string
	sheetName     string
	location      *time.Location
}

// Config configures an Exporter.
type Config struct {
	SpreadsheetID string
	SheetName     string
	Location      *time.Location
}

// NewExporter creates a new Exporter; opts authenticate the Sheets client.
func NewExporter(ctx context.Context, cfg Config, opts ...option.ClientOption) (*Exporter, error) {
	if cfg.SpreadsheetID == "" {
		return nil, fmt.Errorf("spreadsheet id is required")
	}
	if cfg.SheetName == "" {
		cfg.SheetName = "Sheet1"
	}
	if cfg.Location == nil {
		cfg.Location = time.Local
	}

	service, err := sheets.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create sheets service: %w", err)
	}

	return &Exporter{
		service:       service,
		spreadsheetID: cfg.SpreadsheetID,
		sheetName:     cfg.SheetName,
		location:      cfg.Location,
	}, nil
}

// ExportTransactions clears the sheet and writes the header plus one row per transaction.
func (e *Exporter) ExportTransactions(ctx context.Context, txs []*domain.Transaction) (int, error) {
	rows := BuildRows(txs, e.location)

	_, err := e.service.Spreadsheets.Values.
		Clear(e.spreadsheetID, e.sheetName, &sheets.ClearValuesRequest{}).
		Context(ctx).
		Do()
	if err != nil {
		return 0, fmt.Errorf("clear sheet %s: %w", e.sheetName, err)
	}

	_, err = e.service.Spreadsheets.Values.
		Update(e.spreadsheetID, e.sheetName, &sheets.ValueRange{Values: rows}).
		ValueInputOption("USER_ENTERED").
		Context(ctx).
		Do()
	if err != nil {
		return 0, fmt.Errorf("write sheet %s: %w", e.sheetName, err)
	}

	return len(txs), nil
}

// BuildRows renders the sheet contents, header first.
func BuildRows(txs []*domain.Transaction, loc *time.Location) [][]interface{} {
	rows := make([][]interface{}, 0, len(txs)+1)
	rows = append(rows, Header)

	for _, tx := range txs {
		rows = append(rows, []interface{}{
			string(tx.Kind),
			tx.Amount.String(),
			tx.AccountID,
			tx.VendorID,
			tx.Purpose,
			tx.AddedBy,
			tx.CreatedAt.In(loc).Format(time.DateTime),
		})
	}

	return rows
}

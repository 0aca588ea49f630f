// Package docs publishes the daily transaction report as a Google Doc.
package docs

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"
	"unicode/utf16"

	"google.golang.org/api/docs/v1"
	"google.golang.org/api/drive/v3"
	"google.golang.org/api/option"

	"github.com/iho/totza/internal/domain"
	"github.com/iho/totza/internal/usecase"
)

var _ usecase.DocumentExporter = (*Exporter)(nil)

// Scopes are the OAuth scopes the exporter needs.
var Scopes = []string{docs.DocumentsScope, drive.DriveScope}

// Exporter creates one Google Doc per report inside a Drive folder.
type Exporter struct {
	docs     *docs.Service
	drive    *drive.Service
	folderID string
	location *time.Location
	now      func() time.Time
}

// Config configures an Exporter.
type Config struct {
	FolderID string
	Location *time.Location
	// DocsOptions and DriveOptions are appended to the shared options for each client.
	DocsOptions  []option.ClientOption
	DriveOptions []option.ClientOption
}

// NewExporter creates a new Exporter; opts authenticate both clients.
func NewExporter(ctx context.Context, cfg Config, opts ...option.ClientOption) (*Exporter, error) {
	if cfg.Location == nil {
		cfg.Location = time.Local
	}

	docsService, err := docs.NewService(ctx, append(append([]option.ClientOption{}, opts...), cfg.DocsOptions...)...)
	if err != nil {
		return nil, fmt.Errorf("failed to create docs service: %w", err)
	}

	driveService, err := drive.NewService(ctx, append(append([]option.ClientOption{}, opts...), cfg.DriveOptions...)...)
	if err != nil {
		return nil, fmt.Errorf("failed to create drive service: %w", err)
	}

	return &Exporter{
		docs:     docsService,
		drive:    driveService,
		folderID: cfg.FolderID,
		location: cfg.Location,
		now:      time.Now,
	}, nil
}

// ExportDailyReport writes report to a new document readable by anyone with the link.
func (e *Exporter) ExportDailyReport(ctx context.Context, report *domain.DailyReport) (*domain.ExportedDocument, error) {
	title := report.Title()

	doc, err := e.docs.Documents.Create(&docs.Document{Title: title}).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("create document: %w", err)
	}

	if e.folderID != "" {
		_, err = e.drive.Files.Update(doc.DocumentId, &drive.File{}).
			AddParents(e.folderID).
			Fields("id, parents").
			Context(ctx).
			Do()
		if err != nil {
			return nil, fmt.Errorf("move document %s: %w", doc.DocumentId, err)
		}
	}

	body, heading := Render(report, e.now().In(e.location), e.location)

	_, err = e.docs.Documents.BatchUpdate(doc.DocumentId, &docs.BatchUpdateDocumentRequest{
		Requests: []*docs.Request{
			{
				InsertText: &docs.InsertTextRequest{
					Text:     body,
					Location: &docs.Location{Index: 1},
				},
			},
			{
				UpdateTextStyle: &docs.UpdateTextStyleRequest{
					Range: &docs.Range{StartIndex: 1, EndIndex: 1 + utf16Len(heading)},
					TextStyle: &docs.TextStyle{
						Bold:     true,
						FontSize: &docs.Dimension{Magnitude: 16, Unit: "PT"},
					},
					Fields: "bold,fontSize",
				},
			},
		},
	}).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("write document %s: %w", doc.DocumentId, err)
	}

	_, err = e.drive.Permissions.Create(doc.DocumentId, &drive.Permission{Type: "anyone", Role: "reader"}).
		Context(ctx).
		Do()
	if err != nil {
		return nil, fmt.Errorf("share document %s: %w", doc.DocumentId, err)
	}

	file, err := e.drive.Files.Get(doc.DocumentId).Fields("id, name, webViewLink, parents").Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("read document %s: %w", doc.DocumentId, err)
	}

	return &domain.ExportedDocument{
		DocumentID: doc.DocumentId,
		Title:      title,
		URL:        file.WebViewLink,
		FolderID:   e.folderID,
	}, nil
}

// Render returns the report text and its first line.
func Render(report *domain.DailyReport, generatedAt time.Time, loc *time.Location) (string, string) {
	heading := "DAILY TRANSACTION REPORT - " + report.Day.Format(time.DateOnly)

	var b strings.Builder
	b.WriteString(heading + "\n\n")
	fmt.Fprintf(&b, "Generated: %s\n\n", generatedAt.Format(time.DateTime))
	b.WriteString("SUMMARY:\n")
	fmt.Fprintf(&b, "Total Transactions: %d\n", len(report.Transactions))
	fmt.Fprintf(&b, "Total Amount: %s\n\n", report.TotalAmount.StringFixed(2))
	b.WriteString("Transaction Counts by Type:\n")

	kinds := make([]string, 0, len(report.CountsByKind))
	for kind := range report.CountsByKind {
		kinds = append(kinds, string(kind))
	}
	sort.Strings(kinds)
	for _, kind := range kinds {
		fmt.Fprintf(&b, "- %s: %d\n", kind, report.CountsByKind[domain.Kind(kind)])
	}

	b.WriteString("\nDETAILED TRANSACTIONS:\n")
	b.WriteString("Date\tType\tAmount\tAccount\tVendor\tItems\tPurpose\n")
	for _, tx := range report.Transactions {
		b.WriteString(strings.Join([]string{
			tx.CreatedAt.In(loc).Format(time.DateOnly),
			strings.ToUpper(string(tx.Kind)),
			tx.Amount.StringFixed(2),
			orNA(tx.AccountID),
			orNA(tx.VendorID),
			orNA(strings.Join(tx.Items, ", ")),
			tx.Purpose,
		}, "\t"))
		b.WriteString("\n")
	}

	return b.String(), heading
}

func orNA(s string) string {
	if s == "" {
		return "N/A"
	}
	return s
}

func utf16Len(s string) int64 {
	return int64(len(utf16.Encode([]rune(s))))
}

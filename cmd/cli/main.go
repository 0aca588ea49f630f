package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strconv"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/iho/totza/internal/adapter/http/dto"
	"github.com/iho/totza/internal/domain"
	"github.com/iho/totza/internal/infrastructure/auth"
)

// options are the persistent flags shared by every API command.
type options struct {
	baseURL string
	token   string
	timeout time.Duration
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	opts := &options{}

	rootCmd := &cobra.Command{
		Use:          "totza-cli",
		Short:        "Totza CLI tool",
		Long:         `A command line interface for interacting with the Totza ledger API.`,
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().StringVar(&opts.baseURL, "url", "http://localhost:8080", "Base URL of the Totza API")
	rootCmd.PersistentFlags().StringVar(&opts.token, "token", os.Getenv("TOTZA_TOKEN"), "Bearer token (defaults to $TOTZA_TOKEN)")
	rootCmd.PersistentFlags().DurationVar(&opts.timeout, "timeout", 10*time.Second, "Request timeout")

	rootCmd.AddCommand(ledgerCmd(opts), transactionsCmd(opts), reportCmd(opts), tokenCmd())
	return rootCmd
}

func ledgerCmd(opts *options) *cobra.Command {
	ledger := &cobra.Command{
		Use:   "ledger",
		Short: "Ledger operations",
	}

	ledger.AddCommand(&cobra.Command{
		Use:   "consistency",
		Short: "Check that every Due agrees with its payments",
		RunE: func(cmd *cobra.Command, args []string) error {
			var report dto.ConsistencyResponse
			if err := opts.client().do(cmd.Context(), http.MethodGet, "/api/v1/company-transactions/consistency", nil, &report); err != nil {
				return err
			}
			return printConsistency(cmd.OutOrStdout(), &report)
		},
	})

	return ledger
}

func printConsistency(out io.Writer, report *dto.ConsistencyResponse) error {
	fmt.Fprintf(out, "Checked %d dues at %s\n", report.CheckedDues, report.CheckedAt.Format(time.RFC3339))

	if report.Consistent {
		fmt.Fprintln(out, "Consistency check PASSED")
		return nil
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	for _, m := range report.Mismatches {
		fmt.Fprintf(w, "MISMATCH\t%s\tstored=%s\texpected=%s\tpaid=%s/%s\n",
			m.DueID, m.StoredStatus, m.ExpectedStatus, m.PaidAmount, m.OriginalAmount)
	}
	for _, d := range report.DanglingLinks {
		fmt.Fprintf(w, "DANGLING\t%s\tdue=%s\n", d.DebitID, d.DueID)
	}
	if err := w.Flush(); err != nil {
		return err
	}

	return fmt.Errorf("consistency check FAILED: %d mismatches, %d dangling links",
		len(report.Mismatches), len(report.DanglingLinks))
}

func transactionsCmd(opts *options) *cobra.Command {
	transactions := &cobra.Command{
		Use:   "transactions",
		Short: "Company transaction operations",
	}

	var (
		kind   string
		status string
		hasDue string
		limit  int
	)

	list := &cobra.Command{
		Use:   "list",
		Short: "List company transactions, newest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			query := url.Values{}
			if kind != "" {
				query.Set("kind", kind)
			}
			if status != "" {
				query.Set("status", status)
			}
			if hasDue != "" {
				query.Set("hasDue", hasDue)
			}
			if limit > 0 {
				query.Set("limit", strconv.Itoa(limit))
			}

			path := "/api/v1/company-transactions/"
			if len(query) > 0 {
				path += "?" + query.Encode()
			}

			var txs []dto.TransactionResponse
			if err := opts.client().do(cmd.Context(), http.MethodGet, path, nil, &txs); err != nil {
				return err
			}
			return printTransactions(cmd.OutOrStdout(), txs)
		},
	}
	list.Flags().StringVar(&kind, "kind", "", "Filter by kind (Credit, Debit, Due)")
	list.Flags().StringVar(&status, "status", "", "Filter Dues by status")
	list.Flags().StringVar(&hasDue, "has-due", "", "Filter Debits by whether they link Dues (true or false)")
	list.Flags().IntVar(&limit, "limit", 0, "Maximum number of transactions")

	transactions.AddCommand(list)
	return transactions
}

func printTransactions(out io.Writer, txs []dto.TransactionResponse) error {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tTYPE\tAMOUNT\tSTATUS\tDATE\tPURPOSE")
	for _, tx := range txs {
		status := string(tx.Status)
		if status == "" {
			status = "-"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n",
			tx.ID, tx.Type, tx.Amount, status, tx.Date.Format(time.DateOnly), truncate(tx.Purpose, 40))
	}
	return w.Flush()
}

func reportCmd(opts *options) *cobra.Command {
	report := &cobra.Command{
		Use:   "report",
		Short: "Google Sheets and Docs exports",
	}

	var date string
	daily := &cobra.Command{
		Use:   "daily",
		Short: "Publish the daily transaction report",
		RunE: func(cmd *cobra.Command, args []string) error {
			var resp dto.DailyReportResponse
			body := dto.DailyReportRequest{Date: date}
			if err := opts.client().do(cmd.Context(), http.MethodPost, "/api/v1/reports/daily", body, &resp); err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if !resp.DocCreated {
				fmt.Fprintf(out, "No transactions on %s, no report created\n", resp.Day)
				return nil
			}
			fmt.Fprintf(out, "Report for %s (%d transactions): %s\n", resp.Day, resp.TransactionCount, resp.URL)
			return nil
		},
	}
	daily.Flags().StringVar(&date, "date", "", "Day to report on as YYYY-MM-DD (defaults to today)")

	sync := &cobra.Command{
		Use:   "sheets-sync",
		Short: "Rewrite the ledger spreadsheet",
		RunE: func(cmd *cobra.Command, args []string) error {
			var resp dto.SheetSyncResponse
			if err := opts.client().do(cmd.Context(), http.MethodPost, "/api/v1/reports/sheets-sync", nil, &resp); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Synced %d rows\n", resp.Rows)
			return nil
		},
	}

	report.AddCommand(daily, sync)
	return report
}

func tokenCmd() *cobra.Command {
	token := &cobra.Command{
		Use:   "token",
		Short: "Session token operations",
	}

	var (
		userID string
		email  string
		role   string
		secret string
		ttl    time.Duration
	)

	issue := &cobra.Command{
		Use:   "issue",
		Short: "Sign a session token offline with the server's JWT secret",
		RunE: func(cmd *cobra.Command, args []string) error {
			if secret == "" {
				return errors.New("--secret or $JWT_SECRET is required")
			}

			r := domain.Role(role)
			if !r.IsValid() {
				return fmt.Errorf("unknown role %q", role)
			}

			signed, err := auth.NewJWTManager(secret, ttl).Generate(&domain.User{ID: userID, Email: email, Role: r})
			if err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), signed)
			return nil
		},
	}
	issue.Flags().StringVar(&userID, "user-id", "", "User id the token acts as")
	issue.Flags().StringVar(&email, "email", "", "User email")
	issue.Flags().StringVar(&role, "role", string(domain.RoleViewer), "User role (admin, operator, viewer)")
	issue.Flags().StringVar(&secret, "secret", os.Getenv("JWT_SECRET"), "JWT signing secret (defaults to $JWT_SECRET)")
	issue.Flags().DurationVar(&ttl, "ttl", 24*time.Hour, "Token lifetime")
	_ = issue.MarkFlagRequired("user-id")

	token.AddCommand(issue)
	return token
}

// apiClient calls the Totza HTTP API.
type apiClient struct {
	baseURL string
	token   string
	http    *http.Client
}

func (o *options) client() *apiClient {
	return &apiClient{
		baseURL: o.baseURL,
		token:   o.token,
		http:    &http.Client{Timeout: o.timeout},
	}
}

// do sends body as JSON and decodes a 2xx response into out.
func (c *apiClient) do(ctx context.Context, method, path string, body, out any) error {
	if ctx == nil {
		ctx = context.Background()
	}

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("error making request: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var apiErr dto.ErrorResponse
		if json.Unmarshal(data, &apiErr) == nil && apiErr.Error != "" {
			return fmt.Errorf("%s %s failed (status %d): %s", method, path, resp.StatusCode, apiErr.Error)
		}
		return fmt.Errorf("%s %s failed (status %d): %s", method, path, resp.StatusCode, truncate(string(data), 200))
	}

	if out == nil || len(data) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("failed to parse response: %w", err)
	}
	return nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	if n <= 3 {
		return s[:n]
	}
	return s[:n-3] + "..."
}

// Package sheets exports the monthly financial summary to a Google
// Spreadsheet, one row per spending category plus a net-worth line, so the
// numbers can be shared outside the application.
package sheets

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"
	"time"

	goption "google.golang.org/api/option"
	gsheet "google.golang.org/api/sheets/v4"

	"finances/internal/core"
	"finances/internal/ledger"
)

type Exporter struct {
	svc           *gsheet.Service
	spreadsheetID string
	sheetName     string
}

// New creates an exporter targeting the given spreadsheet and sheet.
func New(ctx context.Context, spreadsheetID, sheetName string) (*Exporter, error) {
	spreadsheetID = strings.TrimSpace(spreadsheetID)
	if spreadsheetID == "" {
		return nil, errors.New("missing spreadsheet ID")
	}
	if sheetName == "" {
		sheetName = "Summary"
	}
	svc, err := newSheetsService(ctx)
	if err != nil {
		return nil, fmt.Errorf("sheets service: %w", err)
	}
	return &Exporter{svc: svc, spreadsheetID: spreadsheetID, sheetName: sheetName}, nil
}

// ExportMonth appends the month's summary rows derived from the snapshot.
func (e *Exporter) ExportMonth(ctx context.Context, snap *core.Snapshot, year int, month time.Month) error {
	rows := BuildMonthRows(snap, year, month)
	vr := &gsheet.ValueRange{Values: rows}

	_, err := e.svc.Spreadsheets.Values.
		Append(e.spreadsheetID, e.sheetName+"!A:D", vr).
		ValueInputOption("USER_ENTERED").
		InsertDataOption("INSERT_ROWS").
		Context(ctx).
		Do()
	if err != nil {
		return fmt.Errorf("append summary rows: %w", err)
	}
	return nil
}

// BuildMonthRows derives the sheet rows for one month: a spending line per
// category in name order, followed by totals and the net-worth line.
func BuildMonthRows(snap *core.Snapshot, year int, month time.Month) [][]any {
	label := fmt.Sprintf("%d-%02d", year, month)
	start, end := ledger.MonthBounds(year, month)

	spending := ledger.SpendingByCategory(snap.Transactions, start, end)
	names := make([]string, 0, len(spending))
	for name := range spending {
		names = append(names, name)
	}
	sort.Strings(names)

	rows := make([][]any, 0, len(names)+2)
	for _, name := range names {
		rows = append(rows, []any{label, "spending", name, spending[name].String()})
	}

	debts := ledger.SummarizeDebts(snap.Debts)
	rows = append(rows,
		[]any{label, "debt", "remaining", debts.TotalRemaining.String()},
		[]any{label, "net worth", "", ledger.NetWorth(snap.Accounts, snap.Debts).String()},
	)
	return rows
}

// newSheetsService builds the Sheets client from service-account
// credentials in GOOGLE_SERVICE_ACCOUNT_JSON, GOOGLE_SERVICE_ACCOUNT_FILE,
// or GOOGLE_APPLICATION_CREDENTIALS.
func newSheetsService(ctx context.Context) (*gsheet.Service, error) {
	credentialsJSON := []byte(strings.TrimSpace(os.Getenv("GOOGLE_SERVICE_ACCOUNT_JSON")))
	if len(credentialsJSON) == 0 {
		file := strings.TrimSpace(os.Getenv("GOOGLE_SERVICE_ACCOUNT_FILE"))
		if file == "" {
			file = strings.TrimSpace(os.Getenv("GOOGLE_APPLICATION_CREDENTIALS"))
		}
		if file == "" {
			return nil, errors.New("missing service account credentials (set GOOGLE_SERVICE_ACCOUNT_JSON, GOOGLE_SERVICE_ACCOUNT_FILE, or GOOGLE_APPLICATION_CREDENTIALS)")
		}
		var err error
		credentialsJSON, err = os.ReadFile(file)
		if err != nil {
			return nil, fmt.Errorf("read service account file: %w", err)
		}
	}

	svc, err := gsheet.NewService(ctx,
		goption.WithCredentialsJSON(credentialsJSON),
		goption.WithScopes(gsheet.SpreadsheetsScope))
	if err != nil {
		return nil, fmt.Errorf("create sheets service: %w", err)
	}
	return svc, nil
}

package source

import (
	"context"
	"fmt"
	"net/http"
	"os"

	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"

	"github.com/klytics/chartkit/internal/table"
)

// DefaultWorksheet is the worksheet fetched when none is configured.
const DefaultWorksheet = "Sheet1"

// SheetsSource fetches a worksheet from a Google Spreadsheet using a
// service-account credentials file. One Values.Get call per Fetch; the
// remote sheet is never written.
type SheetsSource struct {
	SpreadsheetID   string
	Worksheet       string
	CredentialsFile string
}

// NewSheetsSource creates an adapter for the given spreadsheet.
func NewSheetsSource(spreadsheetID, worksheet, credentialsFile string) (*SheetsSource, error) {
	if spreadsheetID == "" {
		return nil, fmt.Errorf("spreadsheet ID is empty — set SHEET_ID or pass --sheet")
	}
	if worksheet == "" {
		worksheet = DefaultWorksheet
	}
	return &SheetsSource{
		SpreadsheetID:   spreadsheetID,
		Worksheet:       worksheet,
		CredentialsFile: credentialsFile,
	}, nil
}

// Name returns the adapter identifier.
func (s *SheetsSource) Name() string {
	return "sheets"
}

// Fetch reads the worksheet and returns it as a Table with the header
// row as the column set.
func (s *SheetsSource) Fetch(ctx context.Context) (*table.Table, error) {
	if _, err := os.Stat(s.CredentialsFile); err != nil {
		return nil, fmt.Errorf("%w: credentials file %s is not readable — point credentials_file at your service-account JSON", ErrAuthentication, s.CredentialsFile)
	}

	svc, err := sheets.NewService(ctx,
		option.WithCredentialsFile(s.CredentialsFile),
		option.WithScopes(sheets.SpreadsheetsReadonlyScope),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: could not build Sheets client: %v", ErrAuthentication, err)
	}

	// A bare worksheet name as the range returns the whole sheet.
	resp, err := svc.Spreadsheets.Values.Get(s.SpreadsheetID, s.Worksheet).Context(ctx).Do()
	if err != nil {
		return nil, classifySheetsError(err, s.SpreadsheetID, s.Worksheet)
	}

	if len(resp.Values) == 0 {
		return nil, fmt.Errorf("%w: worksheet %q of %s is empty", ErrEmptyData, s.Worksheet, s.SpreadsheetID)
	}

	rows := make([][]string, len(resp.Values))
	for i, raw := range resp.Values {
		row := make([]string, len(raw))
		for j, cell := range raw {
			row[j] = fmt.Sprint(cell)
		}
		rows[i] = row
	}

	t, err := tableFromRows(rows)
	if err != nil {
		return nil, fmt.Errorf("%w: worksheet %q of %s", err, s.Worksheet, s.SpreadsheetID)
	}
	return t, nil
}

func classifySheetsError(err error, spreadsheetID, worksheet string) error {
	if apiErr, ok := err.(*googleapi.Error); ok {
		switch apiErr.Code {
		case http.StatusUnauthorized, http.StatusForbidden:
			return fmt.Errorf("%w: the service account was rejected for spreadsheet %s — share the sheet with the service-account email", ErrAuthentication, spreadsheetID)
		case http.StatusNotFound:
			return fmt.Errorf("%w: spreadsheet %s not found", ErrNotFound, spreadsheetID)
		case http.StatusBadRequest:
			// The Sheets API reports an unknown worksheet name as a
			// range parse failure, not a 404.
			return fmt.Errorf("%w: worksheet %q not found in spreadsheet %s", ErrNotFound, worksheet, spreadsheetID)
		}
	}
	return fmt.Errorf("could not fetch spreadsheet %s: %w", spreadsheetID, err)
}

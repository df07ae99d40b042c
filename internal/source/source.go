// Package source bridges external tabular data into the pipeline's
// Table shape. Adapters exist for Google Sheets, local .xlsx workbooks,
// and local .csv files; all share one error taxonomy so the driver can
// report failures uniformly.
package source

import (
	"context"
	"errors"

	"github.com/klytics/chartkit/internal/table"
)

// Errors shared by all adapters. Adapters wrap these with detail, so
// callers classify with errors.Is.
var (
	// ErrAuthentication means credentials are missing, unreadable, or
	// rejected by the remote service.
	ErrAuthentication = errors.New("authentication failed")
	// ErrNotFound means the identifier does not resolve to an
	// accessible spreadsheet, worksheet, or file.
	ErrNotFound = errors.New("not found")
	// ErrEmptyData means the resource resolved but holds no data rows.
	ErrEmptyData = errors.New("no data rows")
)

// Source fetches a table from somewhere. Fetch performs exactly one
// read of the underlying resource and never mutates it.
type Source interface {
	// Fetch returns the resource's data with the header row as columns.
	Fetch(ctx context.Context) (*table.Table, error)

	// Name identifies the adapter for stage reporting ("sheets", "xlsx", "csv").
	Name() string
}

// tableFromRows converts raw sheet rows into a Table, treating the
// first row as the header. A header-only sheet is empty data.
func tableFromRows(rows [][]string) (*table.Table, error) {
	if len(rows) == 0 {
		return nil, ErrEmptyData
	}
	header := rows[0]
	if len(rows) == 1 {
		return nil, ErrEmptyData
	}
	return table.New(header, rows[1:])
}

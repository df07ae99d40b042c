package source

import (
	"context"
	"fmt"
	"os"

	"github.com/xuri/excelize/v2"

	"github.com/klytics/chartkit/internal/table"
)

// XLSXSource fetches a worksheet from a local .xlsx workbook. It lets
// the pipeline run against local data without network access or Google
// credentials.
type XLSXSource struct {
	Path      string
	Worksheet string
}

// NewXLSXSource creates an adapter for the given workbook path. An
// empty worksheet name means the workbook's first sheet.
func NewXLSXSource(path, worksheet string) (*XLSXSource, error) {
	if path == "" {
		return nil, fmt.Errorf("xlsx path is empty — pass --input")
	}
	return &XLSXSource{Path: path, Worksheet: worksheet}, nil
}

// Name returns the adapter identifier.
func (s *XLSXSource) Name() string {
	return "xlsx"
}

// Fetch reads the worksheet and returns it as a Table.
func (s *XLSXSource) Fetch(ctx context.Context) (*table.Table, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if _, err := os.Stat(s.Path); os.IsNotExist(err) {
		return nil, fmt.Errorf("%w: file %s does not exist", ErrNotFound, s.Path)
	}

	f, err := excelize.OpenFile(s.Path)
	if err != nil {
		return nil, fmt.Errorf("could not open %s — is this a valid .xlsx file? %w", s.Path, err)
	}
	defer f.Close()

	name := s.Worksheet
	if name == "" {
		name = f.GetSheetName(0)
	}

	rows, err := f.GetRows(name)
	if err != nil {
		return nil, fmt.Errorf("%w: worksheet %q not found in %s — available sheets: %v", ErrNotFound, name, s.Path, f.GetSheetList())
	}

	t, err := tableFromRows(rows)
	if err != nil {
		return nil, fmt.Errorf("%w: worksheet %q of %s", err, name, s.Path)
	}
	return t, nil
}

package source

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"

	"github.com/klytics/chartkit/internal/table"
)

// CSVSource fetches a local .csv file.
type CSVSource struct {
	Path string
}

// NewCSVSource creates an adapter for the given CSV path.
func NewCSVSource(path string) (*CSVSource, error) {
	if path == "" {
		return nil, fmt.Errorf("csv path is empty — pass --input")
	}
	return &CSVSource{Path: path}, nil
}

// Name returns the adapter identifier.
func (s *CSVSource) Name() string {
	return "csv"
}

// Fetch reads the file and returns it as a Table with the first record
// as the column set.
func (s *CSVSource) Fetch(ctx context.Context) (*table.Table, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	f, err := os.Open(s.Path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: file %s does not exist", ErrNotFound, s.Path)
		}
		return nil, fmt.Errorf("could not open %s: %w", s.Path, err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1 // ragged rows are normalized by table.New
	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("could not parse %s: %w", s.Path, err)
	}

	t, err := tableFromRows(records)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", err, s.Path)
	}
	return t, nil
}

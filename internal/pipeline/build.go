package pipeline

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/klytics/chartkit/internal/ai"
	"github.com/klytics/chartkit/internal/chart"
	"github.com/klytics/chartkit/internal/source"
	"github.com/klytics/chartkit/internal/table"
)

// SourceSpec describes where the table comes from. Kind forces an
// adapter; when empty, a non-empty Input selects a local reader by file
// extension and SheetID selects Google Sheets.
type SourceSpec struct {
	Kind            string // "sheets", "xlsx", "csv", or ""
	SheetID         string
	Worksheet       string
	CredentialsFile string
	Input           string
}

// BuildSource constructs the data source for a spec.
func BuildSource(spec SourceSpec) (source.Source, error) {
	kind := strings.ToLower(spec.Kind)
	if kind == "" {
		if spec.Input != "" {
			switch strings.ToLower(filepath.Ext(spec.Input)) {
			case ".csv":
				kind = "csv"
			case ".xlsx", ".xlsm":
				kind = "xlsx"
			default:
				return nil, fmt.Errorf("unsupported input file %s (expected .csv or .xlsx, or pass --source)", spec.Input)
			}
		} else {
			kind = "sheets"
		}
	}

	switch kind {
	case "sheets":
		if spec.SheetID == "" {
			return nil, fmt.Errorf("no data source configured — set SHEET_ID, pass --sheet, or pass --input")
		}
		return source.NewSheetsSource(spec.SheetID, spec.Worksheet, spec.CredentialsFile)
	case "xlsx":
		return source.NewXLSXSource(spec.Input, spec.Worksheet)
	case "csv":
		return source.NewCSVSource(spec.Input)
	default:
		return nil, fmt.Errorf("unknown source kind %q — supported: sheets, xlsx, csv", spec.Kind)
	}
}

// RecommenderSpec selects how the recommendation stage runs. Fixed wins
// over Auto; Auto wins over the AI provider.
type RecommenderSpec struct {
	// Fixed is an explicit chart mapping that skips inference entirely.
	Fixed *chart.Recommendation

	// Auto selects the local heuristic detector.
	Auto bool

	Provider string
	Model    string
	APIKey   string
	Host     string
	MaxRows  int
	Timeout  time.Duration
}

// BuildRecommender constructs the recommendation stage for a spec.
func BuildRecommender(spec RecommenderSpec) (RecommendFunc, error) {
	if spec.Fixed != nil {
		fixed := spec.Fixed
		return func(ctx context.Context, t *table.Table) (*chart.Recommendation, error) {
			if err := fixed.Validate(t); err != nil {
				return nil, err
			}
			return fixed, nil
		}, nil
	}

	if spec.Auto {
		return func(ctx context.Context, t *table.Table) (*chart.Recommendation, error) {
			return chart.Detect(t)
		}, nil
	}

	p, err := ai.NewProvider(ai.ProviderOptions{
		Name:    spec.Provider,
		Model:   spec.Model,
		APIKey:  spec.APIKey,
		Host:    spec.Host,
		Timeout: spec.Timeout,
	})
	if err != nil {
		return nil, err
	}

	r := ai.NewRecommender(p, ai.RecommenderOptions{MaxRows: spec.MaxRows})
	return r.Recommend, nil
}

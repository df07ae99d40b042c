package pipeline

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/klytics/chartkit/internal/chart"
	"github.com/klytics/chartkit/internal/source"
	"github.com/klytics/chartkit/internal/table"
)

type fakeSource struct {
	tbl *table.Table
	err error
}

func (f *fakeSource) Fetch(ctx context.Context) (*table.Table, error) {
	return f.tbl, f.err
}

func (f *fakeSource) Name() string { return "fake" }

func lineRecommender(rec *chart.Recommendation, err error) RecommendFunc {
	return func(ctx context.Context, t *table.Table) (*chart.Recommendation, error) {
		return rec, err
	}
}

func numericTable(t *testing.T) *table.Table {
	t.Helper()
	tbl, err := table.New([]string{"x", "y"}, [][]string{
		{"1", "2"},
		{"2", "4"},
	})
	if err != nil {
		t.Fatal(err)
	}
	return tbl
}

func TestRunFullPipeline(t *testing.T) {
	out := filepath.Join(t.TempDir(), "chart.png")
	rec := &chart.Recommendation{Type: chart.TypeLine, XField: "x", YFields: []string{"y"}}

	result, err := Run(context.Background(), Options{
		Source:     &fakeSource{tbl: numericTable(t)},
		Recommend:  lineRecommender(rec, nil),
		OutputPath: out,
	})
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if result.OutputPath != out {
		t.Errorf("OutputPath = %q", result.OutputPath)
	}
	if result.Rows != 2 {
		t.Errorf("Rows = %d", result.Rows)
	}
	info, err := os.Stat(out)
	if err != nil {
		t.Fatalf("no artifact: %v", err)
	}
	if info.Size() == 0 {
		t.Error("artifact is empty")
	}
}

func TestRunTitleOverride(t *testing.T) {
	rec := &chart.Recommendation{Type: chart.TypeLine, XField: "x", YFields: []string{"y"}, Title: "model title"}

	result, err := Run(context.Background(), Options{
		Source:     &fakeSource{tbl: numericTable(t)},
		Recommend:  lineRecommender(rec, nil),
		OutputPath: filepath.Join(t.TempDir(), "chart.png"),
		Title:      "Q3 Sales",
	})
	if err != nil {
		t.Fatal(err)
	}
	if result.Recommendation.Title != "Q3 Sales" {
		t.Errorf("title = %q", result.Recommendation.Title)
	}
}

func TestRunFetchFailure(t *testing.T) {
	_, err := Run(context.Background(), Options{
		Source:     &fakeSource{err: fmt.Errorf("%w: sheet gone", source.ErrNotFound)},
		Recommend:  lineRecommender(nil, nil),
		OutputPath: filepath.Join(t.TempDir(), "chart.png"),
	})

	var stageErr *StageError
	if !errors.As(err, &stageErr) {
		t.Fatalf("err = %v, want *StageError", err)
	}
	if stageErr.Stage != StageFetch {
		t.Errorf("stage = %q, want fetch", stageErr.Stage)
	}
	if !errors.Is(err, source.ErrNotFound) {
		t.Error("cause should remain classifiable")
	}
}

func TestRunRecommendFailure(t *testing.T) {
	_, err := Run(context.Background(), Options{
		Source:     &fakeSource{tbl: numericTable(t)},
		Recommend:  lineRecommender(nil, errors.New("service down")),
		OutputPath: filepath.Join(t.TempDir(), "chart.png"),
	})

	var stageErr *StageError
	if !errors.As(err, &stageErr) || stageErr.Stage != StageRecommend {
		t.Errorf("err = %v, want recommend stage error", err)
	}
}

func TestRunRenderFailureLeavesNoArtifact(t *testing.T) {
	out := filepath.Join(t.TempDir(), "chart.png")
	rec := &chart.Recommendation{Type: "heatmap", XField: "x", YFields: []string{"y"}}

	_, err := Run(context.Background(), Options{
		Source:     &fakeSource{tbl: numericTable(t)},
		Recommend:  lineRecommender(rec, nil),
		OutputPath: out,
	})

	var stageErr *StageError
	if !errors.As(err, &stageErr) || stageErr.Stage != StageRender {
		t.Errorf("err = %v, want render stage error", err)
	}
	if !errors.Is(err, chart.ErrUnsupportedType) {
		t.Error("cause should remain classifiable")
	}
	if _, statErr := os.Stat(out); !os.IsNotExist(statErr) {
		t.Error("failed run left an artifact behind")
	}
}

func TestRunMissingConfiguration(t *testing.T) {
	if _, err := Run(context.Background(), Options{}); err == nil {
		t.Error("expected error with no source")
	}

	_, err := Run(context.Background(), Options{
		Source:    &fakeSource{tbl: numericTable(t)},
		Recommend: nil,
	})
	if err == nil {
		t.Error("expected error with no recommender")
	}
}

func TestStageErrorMessage(t *testing.T) {
	err := &StageError{Stage: StageFetch, Err: errors.New("boom")}
	if err.Error() != "fetch stage: boom" {
		t.Errorf("Error() = %q", err.Error())
	}
}

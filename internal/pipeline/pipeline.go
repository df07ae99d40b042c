// Package pipeline runs the three-stage chartkit workflow: fetch the
// table, obtain a chart recommendation, render the artifact. Stages run
// strictly in sequence; the first failure aborts the run with the stage
// name attached.
package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/klytics/chartkit/internal/chart"
	"github.com/klytics/chartkit/internal/progress"
	"github.com/klytics/chartkit/internal/source"
	"github.com/klytics/chartkit/internal/table"
)

// Stage names used in error reporting.
const (
	StageFetch     = "fetch"
	StageRecommend = "recommend"
	StageRender    = "render"
)

// StageError tags an error with the pipeline stage that produced it.
type StageError struct {
	Stage string
	Err   error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("%s stage: %v", e.Stage, e.Err)
}

func (e *StageError) Unwrap() error {
	return e.Err
}

// RecommendFunc produces a chart recommendation for a table. The AI
// client and the heuristic detector both satisfy it.
type RecommendFunc func(ctx context.Context, t *table.Table) (*chart.Recommendation, error)

// Options configures a pipeline run.
type Options struct {
	Source     source.Source
	Recommend  RecommendFunc
	OutputPath string

	// Title overrides the recommendation's title when non-empty.
	Title string

	// Timeout bounds the whole run. Zero means no bound beyond the
	// providers' own request timeouts.
	Timeout time.Duration

	// Progress enables stage spinners on stderr.
	Progress bool
}

// Result holds the outputs of a completed run.
type Result struct {
	Table          *table.Table          `json:"-"`
	Recommendation *chart.Recommendation `json:"recommendation"`
	OutputPath     string                `json:"outputPath"`
	Rows           int                   `json:"rows"`
	Duration       time.Duration         `json:"-"`
}

// Run executes fetch, recommend, and render in order and returns the
// run's outputs. Every error is a *StageError naming the failed stage.
func Run(ctx context.Context, opts Options) (*Result, error) {
	if opts.Source == nil {
		return nil, &StageError{Stage: StageFetch, Err: fmt.Errorf("no data source configured")}
	}
	if opts.Recommend == nil {
		return nil, &StageError{Stage: StageRecommend, Err: fmt.Errorf("no recommender configured")}
	}
	if opts.OutputPath == "" {
		return nil, &StageError{Stage: StageRender, Err: fmt.Errorf("no output path configured")}
	}

	if opts.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, opts.Timeout)
		defer cancel()
	}

	start := time.Now()

	tbl, err := runStage(opts.Progress, StageFetch,
		fmt.Sprintf("Fetching data (%s)", opts.Source.Name()),
		func() (*table.Table, error) { return opts.Source.Fetch(ctx) })
	if err != nil {
		return nil, err
	}

	rec, err := runStage(opts.Progress, StageRecommend,
		"Choosing a chart",
		func() (*chart.Recommendation, error) { return opts.Recommend(ctx, tbl) })
	if err != nil {
		return nil, err
	}

	if opts.Title != "" {
		rec.Title = opts.Title
	}

	_, err = runStage(opts.Progress, StageRender,
		fmt.Sprintf("Rendering %s chart", rec.Type),
		func() (struct{}, error) { return struct{}{}, chart.Render(tbl, rec, opts.OutputPath) })
	if err != nil {
		return nil, err
	}

	return &Result{
		Table:          tbl,
		Recommendation: rec,
		OutputPath:     opts.OutputPath,
		Rows:           tbl.RowCount(),
		Duration:       time.Since(start),
	}, nil
}

func runStage[T any](showProgress bool, stage, label string, fn func() (T, error)) (T, error) {
	var spinner *progress.Spinner
	if showProgress {
		spinner = progress.NewSpinner(label)
		spinner.Start()
	}

	out, err := fn()
	if err != nil {
		if spinner != nil {
			spinner.Fail(fmt.Sprintf("%s failed", label))
		}
		var zero T
		return zero, &StageError{Stage: stage, Err: err}
	}

	if spinner != nil {
		spinner.Stop(label)
	}
	return out, nil
}

package run

import (
	"strings"
	"testing"

	"github.com/klytics/chartkit/internal/config"
	"github.com/klytics/chartkit/internal/pipeline"
)

func TestAssembleFlagsWinOverJobAndConfig(t *testing.T) {
	cfg := &config.Config{SheetID: "cfg-sheet", Worksheet: "Sheet1", OutputPath: "cfg.png", MaxRowsForPrompt: 50}
	job := &pipeline.Job{Name: "j", SheetID: "job-sheet", Output: "job.png"}

	opts, err := assemble(cfg, job, runFlags{Output: "flag.png", Auto: true})
	if err != nil {
		t.Fatal(err)
	}
	if opts.OutputPath != "flag.png" {
		t.Errorf("output = %q, want flag.png", opts.OutputPath)
	}
	if opts.Source.Name() != "sheets" {
		t.Errorf("source = %q, want sheets", opts.Source.Name())
	}
}

func TestAssembleJobOverConfig(t *testing.T) {
	cfg := &config.Config{SheetID: "cfg-sheet", Worksheet: "Sheet1", OutputPath: "cfg.png", MaxRowsForPrompt: 50}
	job := &pipeline.Job{Name: "j", Input: "data.csv", Output: "job.png"}

	opts, err := assemble(cfg, job, runFlags{Auto: true})
	if err != nil {
		t.Fatal(err)
	}
	if opts.OutputPath != "job.png" {
		t.Errorf("output = %q, want job.png", opts.OutputPath)
	}
	if opts.Source.Name() != "csv" {
		t.Errorf("source = %q, want csv from the job input", opts.Source.Name())
	}
}

func TestAssembleConfigDefaults(t *testing.T) {
	cfg := &config.Config{SheetID: "cfg-sheet", Worksheet: "Sheet1", OutputPath: "cfg.png", MaxRowsForPrompt: 50}

	opts, err := assemble(cfg, nil, runFlags{Auto: true})
	if err != nil {
		t.Fatal(err)
	}
	if opts.OutputPath != "cfg.png" {
		t.Errorf("output = %q, want cfg.png", opts.OutputPath)
	}
}

func TestAssembleFixedMappingFromJob(t *testing.T) {
	cfg := &config.Config{MaxRowsForPrompt: 50}
	job := &pipeline.Job{
		Name: "j", Input: "data.csv",
		ChartType: "bar", XField: "Month", YFields: []string{"Revenue"},
	}

	opts, err := assemble(cfg, job, runFlags{})
	if err != nil {
		t.Fatal(err)
	}
	if opts.Recommend == nil {
		t.Fatal("no recommender built")
	}
}

func TestAssembleBadChartType(t *testing.T) {
	cfg := &config.Config{MaxRowsForPrompt: 50}
	job := &pipeline.Job{
		Name: "j", Input: "data.csv",
		ChartType: "hexbin", XField: "x", YFields: []string{"y"},
	}

	_, err := assemble(cfg, job, runFlags{})
	if err == nil {
		t.Fatal("expected error for unknown chart type")
	}
	if !strings.Contains(err.Error(), "hexbin") {
		t.Errorf("err = %v, want mention of hexbin", err)
	}
}

func TestAssembleNoSource(t *testing.T) {
	cfg := &config.Config{MaxRowsForPrompt: 50}
	if _, err := assemble(cfg, nil, runFlags{Auto: true}); err == nil {
		t.Fatal("expected error when nothing names a data source")
	}
}

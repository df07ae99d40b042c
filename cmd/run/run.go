// Package run provides the end-to-end pipeline command: fetch data,
// pick a chart, render the PNG.
package run

import (
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/klytics/chartkit/internal/chart"
	"github.com/klytics/chartkit/internal/config"
	"github.com/klytics/chartkit/internal/output"
	"github.com/klytics/chartkit/internal/pipeline"
)

// NewCommand returns the run subcommand.
func NewCommand() *cobra.Command {
	var (
		jobPath    string
		sourceKind string
		sheetID    string
		worksheet  string
		input      string
		outPath    string
		title      string
		auto       bool
		maxRows    int
	)

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Fetch data, pick a chart, and render it to a PNG",
		Long: `Run the full pipeline: fetch the table, obtain a chart
recommendation, and render the chart.

The data source comes from --input (local .csv/.xlsx), --sheet, the
SHEET_ID environment variable, or a job file. With --auto the chart is
chosen by a local heuristic instead of an AI model.`,
		Example: `  chartkit run --sheet 1abcDEF --output revenue.png
  chartkit run --input sales.xlsx --worksheet Q3 --auto
  chartkit run --job jobs/weekly.yaml`,
		RunE: func(cmd *cobra.Command, args []string) error {
			jsonFlag, _ := cmd.Flags().GetBool("json")
			providerFlag, _ := cmd.Flags().GetString("provider")
			modelFlag, _ := cmd.Flags().GetString("model")

			cfg, err := config.Load()
			if err != nil {
				return err
			}

			var job *pipeline.Job
			if jobPath != "" {
				job, err = pipeline.LoadJob(jobPath)
				if err != nil {
					return err
				}
			}

			opts, err := assemble(cfg, job, runFlags{
				SourceKind: sourceKind,
				SheetID:    sheetID,
				Worksheet:  worksheet,
				Input:      input,
				Output:     outPath,
				Title:      title,
				Auto:       auto,
				MaxRows:    maxRows,
				Provider:   providerFlag,
				Model:      modelFlag,
			})
			if err != nil {
				return err
			}
			opts.Progress = !jsonFlag

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
			defer stop()

			result, err := pipeline.Run(ctx, *opts)
			if err != nil {
				return err
			}

			if jsonFlag {
				return output.NewWriter().WriteJSON(result)
			}

			green := color.New(color.FgGreen).SprintFunc()
			dim := color.New(color.Faint).SprintFunc()
			fmt.Printf("%s Chart saved to %s\n", green("✓"), result.OutputPath)
			fmt.Printf("  %s chart, %d rows, %s\n",
				result.Recommendation.Type, result.Rows, result.Duration.Round(time.Millisecond))
			if result.Recommendation.Reasoning != "" {
				fmt.Printf("  %s\n", dim(result.Recommendation.Reasoning))
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&jobPath, "job", "", "Job YAML file defining the run")
	cmd.Flags().StringVar(&sourceKind, "source", "", "Source kind: sheets | xlsx | csv (default inferred)")
	cmd.Flags().StringVar(&sheetID, "sheet", "", "Google Sheets spreadsheet ID")
	cmd.Flags().StringVar(&worksheet, "worksheet", "", "Worksheet name (default Sheet1 for sheets, first sheet for .xlsx)")
	cmd.Flags().StringVarP(&input, "input", "i", "", "Local .csv or .xlsx file instead of a sheet")
	cmd.Flags().StringVarP(&outPath, "output", "o", "", "Output PNG path")
	cmd.Flags().StringVar(&title, "title", "", "Chart title override")
	cmd.Flags().BoolVar(&auto, "auto", false, "Choose the chart with a local heuristic, no AI call")
	cmd.Flags().IntVar(&maxRows, "max-rows", 0, "Max data rows sent to the AI model")

	return cmd
}

// runFlags carries the run command's flag values into assemble.
type runFlags struct {
	SourceKind string
	SheetID    string
	Worksheet  string
	Input      string
	Output     string
	Title      string
	Auto       bool
	MaxRows    int
	Provider   string
	Model      string
}

// assemble resolves flags over the job file over the config into
// pipeline options. Flags win; config fills the gaps.
func assemble(cfg *config.Config, job *pipeline.Job, f runFlags) (*pipeline.Options, error) {
	if job == nil {
		job = &pipeline.Job{}
	}

	input := first(f.Input, job.Input)
	sheetID := first(f.SheetID, job.SheetID)
	worksheet := first(f.Worksheet, job.Worksheet)
	if input == "" {
		sheetID = first(sheetID, cfg.SheetID)
		worksheet = first(worksheet, cfg.Worksheet)
	}

	src, err := pipeline.BuildSource(pipeline.SourceSpec{
		Kind:            f.SourceKind,
		SheetID:         sheetID,
		Worksheet:       worksheet,
		CredentialsFile: cfg.CredentialsFile,
		Input:           input,
	})
	if err != nil {
		return nil, err
	}

	providerName := first(f.Provider, cfg.Provider)
	maxRows := f.MaxRows
	if maxRows <= 0 {
		maxRows = job.MaxRows
	}
	if maxRows <= 0 {
		maxRows = cfg.MaxRowsForPrompt
	}

	spec := pipeline.RecommenderSpec{
		Auto:     f.Auto || job.Auto,
		Provider: providerName,
		Model:    first(f.Model, cfg.Model),
		APIKey:   cfg.KeyFor(providerName),
		Host:     cfg.Ollama.Host,
		MaxRows:  maxRows,
		Timeout:  cfg.Timeout(),
	}
	if job.ChartType != "" {
		chartType, err := chart.ParseType(job.ChartType)
		if err != nil {
			return nil, err
		}
		spec.Fixed = &chart.Recommendation{
			Type:    chartType,
			XField:  job.XField,
			YFields: job.YFields,
			Title:   job.Title,
		}
	}

	rec, err := pipeline.BuildRecommender(spec)
	if err != nil {
		return nil, err
	}

	return &pipeline.Options{
		Source:     src,
		Recommend:  rec,
		OutputPath: first(f.Output, job.Output, cfg.OutputPath),
		Title:      first(f.Title, job.Title),
		Timeout:    cfg.Timeout(),
	}, nil
}

func first(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

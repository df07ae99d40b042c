// Package watch provides the watch command: re-run the pipeline
// whenever a local spreadsheet file changes.
package watch

import (
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/klytics/chartkit/internal/config"
	"github.com/klytics/chartkit/internal/pipeline"
	"github.com/klytics/chartkit/internal/watch"
)

// NewCommand returns the watch subcommand.
func NewCommand() *cobra.Command {
	var (
		worksheet string
		outPath   string
		title     string
		auto      bool
	)

	cmd := &cobra.Command{
		Use:   "watch <file>",
		Short: "Re-render the chart whenever a local file changes",
		Long: `Watch a local .csv or .xlsx file and re-run the pipeline each time
it is saved. Runs once immediately, then on every change until
interrupted.`,
		Example: `  chartkit watch sales.xlsx --auto -o sales.png`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			providerFlag, _ := cmd.Flags().GetString("provider")
			modelFlag, _ := cmd.Flags().GetString("model")

			cfg, err := config.Load()
			if err != nil {
				return err
			}

			providerName := providerFlag
			if providerName == "" {
				providerName = cfg.Provider
			}
			modelName := modelFlag
			if modelName == "" {
				modelName = cfg.Model
			}
			if outPath == "" {
				outPath = cfg.OutputPath
			}

			recommendFn, err := pipeline.BuildRecommender(pipeline.RecommenderSpec{
				Auto:     auto,
				Provider: providerName,
				Model:    modelName,
				APIKey:   cfg.KeyFor(providerName),
				Host:     cfg.Ollama.Host,
				MaxRows:  cfg.MaxRowsForPrompt,
				Timeout:  cfg.Timeout(),
			})
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
			defer stop()

			runOnce := func(path string) error {
				src, err := pipeline.BuildSource(pipeline.SourceSpec{
					Input:     path,
					Worksheet: worksheet,
				})
				if err != nil {
					return err
				}
				_, err = pipeline.Run(ctx, pipeline.Options{
					Source:     src,
					Recommend:  recommendFn,
					OutputPath: outPath,
					Title:      title,
					Timeout:    cfg.Timeout(),
					Progress:   true,
				})
				return err
			}

			w, err := watch.New(args[0], runOnce)
			if err != nil {
				return err
			}

			if err := runOnce(w.Path); err != nil {
				return err
			}
			return w.Start(ctx)
		},
	}

	cmd.Flags().StringVar(&worksheet, "worksheet", "", "Worksheet name for .xlsx input")
	cmd.Flags().StringVarP(&outPath, "output", "o", "", "Output PNG path")
	cmd.Flags().StringVar(&title, "title", "", "Chart title override")
	cmd.Flags().BoolVar(&auto, "auto", false, "Choose the chart with a local heuristic, no AI call")

	return cmd
}

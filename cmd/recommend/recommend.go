// Package recommend provides the recommend command: fetch the table
// and print the chart recommendation without rendering.
package recommend

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/klytics/chartkit/internal/config"
	"github.com/klytics/chartkit/internal/output"
	"github.com/klytics/chartkit/internal/pipeline"
)

// NewCommand returns the recommend subcommand.
func NewCommand() *cobra.Command {
	var (
		sheetID   string
		worksheet string
		input     string
		auto      bool
		maxRows   int
	)

	cmd := &cobra.Command{
		Use:   "recommend",
		Short: "Print the chart recommendation for a table",
		Long:  "Fetch the table and ask for a chart recommendation, without rendering anything. Useful for previewing what `run` would draw.",
		Example: `  chartkit recommend --sheet 1abcDEF
  chartkit recommend --input sales.csv --auto`,
		RunE: func(cmd *cobra.Command, args []string) error {
			jsonFlag, _ := cmd.Flags().GetBool("json")
			providerFlag, _ := cmd.Flags().GetString("provider")
			modelFlag, _ := cmd.Flags().GetString("model")

			cfg, err := config.Load()
			if err != nil {
				return err
			}

			if sheetID == "" {
				sheetID = cfg.SheetID
			}
			if worksheet == "" && input == "" {
				worksheet = cfg.Worksheet
			}

			src, err := pipeline.BuildSource(pipeline.SourceSpec{
				SheetID:         sheetID,
				Worksheet:       worksheet,
				CredentialsFile: cfg.CredentialsFile,
				Input:           input,
			})
			if err != nil {
				return err
			}

			providerName := providerFlag
			if providerName == "" {
				providerName = cfg.Provider
			}
			if maxRows <= 0 {
				maxRows = cfg.MaxRowsForPrompt
			}
			modelName := modelFlag
			if modelName == "" {
				modelName = cfg.Model
			}

			recommendFn, err := pipeline.BuildRecommender(pipeline.RecommenderSpec{
				Auto:     auto,
				Provider: providerName,
				Model:    modelName,
				APIKey:   cfg.KeyFor(providerName),
				Host:     cfg.Ollama.Host,
				MaxRows:  maxRows,
				Timeout:  cfg.Timeout(),
			})
			if err != nil {
				return err
			}

			tbl, err := src.Fetch(cmd.Context())
			if err != nil {
				return err
			}
			rec, err := recommendFn(cmd.Context(), tbl)
			if err != nil {
				return err
			}

			if jsonFlag {
				return output.NewWriter().WriteJSON(rec)
			}

			bold := color.New(color.Bold).SprintFunc()
			fmt.Printf("%s  %s\n", bold("Chart:"), rec.Type)
			fmt.Printf("%s      %s\n", bold("X:"), rec.XField)
			fmt.Printf("%s      %v\n", bold("Y:"), rec.YFields)
			if rec.Title != "" {
				fmt.Printf("%s  %s\n", bold("Title:"), rec.Title)
			}
			if rec.Reasoning != "" {
				fmt.Printf("\n%s\n", rec.Reasoning)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&sheetID, "sheet", "", "Google Sheets spreadsheet ID")
	cmd.Flags().StringVar(&worksheet, "worksheet", "", "Worksheet name")
	cmd.Flags().StringVarP(&input, "input", "i", "", "Local .csv or .xlsx file instead of a sheet")
	cmd.Flags().BoolVar(&auto, "auto", false, "Use the local heuristic, no AI call")
	cmd.Flags().IntVar(&maxRows, "max-rows", 0, "Max data rows sent to the AI model")

	return cmd
}

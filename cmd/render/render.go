// Package render provides the render command: draw a chart from an
// explicit column mapping, with no AI involved.
package render

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/klytics/chartkit/internal/chart"
	"github.com/klytics/chartkit/internal/config"
	"github.com/klytics/chartkit/internal/output"
	"github.com/klytics/chartkit/internal/pipeline"
)

// NewCommand returns the render subcommand.
func NewCommand() *cobra.Command {
	var (
		sheetID   string
		worksheet string
		input     string
		chartType string
		xField    string
		yFields   []string
		title     string
		outPath   string
	)

	cmd := &cobra.Command{
		Use:   "render",
		Short: "Render a chart from an explicit column mapping",
		Long: `Render a chart where you name the chart type and columns yourself.
No recommendation is requested; the mapping is validated against the
fetched table and drawn as-is.`,
		Example: `  chartkit render --input sales.csv --type bar --x Month --y Revenue
  chartkit render --sheet 1abcDEF --type dual_axis --x Month --y Revenue --y Customers -o out.png`,
		RunE: func(cmd *cobra.Command, args []string) error {
			jsonFlag, _ := cmd.Flags().GetBool("json")

			cfg, err := config.Load()
			if err != nil {
				return err
			}

			parsedType, err := chart.ParseType(chartType)
			if err != nil {
				return err
			}

			if sheetID == "" {
				sheetID = cfg.SheetID
			}
			if worksheet == "" && input == "" {
				worksheet = cfg.Worksheet
			}
			if outPath == "" {
				outPath = cfg.OutputPath
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

			recommendFn, err := pipeline.BuildRecommender(pipeline.RecommenderSpec{
				Fixed: &chart.Recommendation{
					Type:    parsedType,
					XField:  xField,
					YFields: yFields,
					Title:   title,
				},
			})
			if err != nil {
				return err
			}

			result, err := pipeline.Run(cmd.Context(), pipeline.Options{
				Source:     src,
				Recommend:  recommendFn,
				OutputPath: outPath,
				Timeout:    cfg.Timeout(),
				Progress:   !jsonFlag,
			})
			if err != nil {
				return err
			}

			if jsonFlag {
				return output.NewWriter().WriteJSON(result)
			}

			green := color.New(color.FgGreen).SprintFunc()
			fmt.Printf("%s Chart saved to %s (%s, %d rows)\n",
				green("✓"), result.OutputPath, result.Recommendation.Type, result.Rows)
			return nil
		},
	}

	cmd.Flags().StringVar(&sheetID, "sheet", "", "Google Sheets spreadsheet ID")
	cmd.Flags().StringVar(&worksheet, "worksheet", "", "Worksheet name")
	cmd.Flags().StringVarP(&input, "input", "i", "", "Local .csv or .xlsx file instead of a sheet")
	cmd.Flags().StringVarP(&chartType, "type", "t", "", "Chart type: bar | line | pie | scatter | dual_axis")
	cmd.Flags().StringVarP(&xField, "x", "x", "", "Column for the x axis")
	cmd.Flags().StringArrayVarP(&yFields, "y", "y", nil, "Column(s) to plot (repeatable)")
	cmd.Flags().StringVar(&title, "title", "", "Chart title")
	cmd.Flags().StringVarP(&outPath, "output", "o", "", "Output PNG path")
	cmd.MarkFlagRequired("type")
	cmd.MarkFlagRequired("x")
	cmd.MarkFlagRequired("y")

	return cmd
}

// Package fetch provides the fetch command: pull the table and print
// it without recommending or rendering anything.
package fetch

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/klytics/chartkit/internal/config"
	"github.com/klytics/chartkit/internal/output"
	"github.com/klytics/chartkit/internal/pipeline"
	"github.com/klytics/chartkit/internal/table"
)

// NewCommand returns the fetch subcommand.
func NewCommand() *cobra.Command {
	var (
		sheetID   string
		worksheet string
		input     string
		limit     int
	)

	cmd := &cobra.Command{
		Use:   "fetch",
		Short: "Fetch the table and print it",
		Long:  "Fetch tabular data from Google Sheets or a local file and print it, for checking what the pipeline would see.",
		Example: `  chartkit fetch --sheet 1abcDEF
  chartkit fetch --input sales.csv --limit 10`,
		RunE: func(cmd *cobra.Command, args []string) error {
			jsonFlag, _ := cmd.Flags().GetBool("json")

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

			tbl, err := src.Fetch(cmd.Context())
			if err != nil {
				return err
			}

			total := tbl.RowCount()
			if limit > 0 && limit < total {
				tbl = &table.Table{Columns: tbl.Columns, Rows: tbl.Rows[:limit]}
			}

			if jsonFlag {
				return output.NewWriter().WriteJSON(map[string]interface{}{
					"columns": tbl.Columns,
					"rows":    tbl.Rows,
					"total":   total,
				})
			}

			w := output.NewWriter()
			if err := w.WriteTable(tbl); err != nil {
				return err
			}
			if tbl.RowCount() < total {
				return w.WriteLn(fmt.Sprintf("(%d of %d rows)", tbl.RowCount(), total))
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&sheetID, "sheet", "", "Google Sheets spreadsheet ID")
	cmd.Flags().StringVar(&worksheet, "worksheet", "", "Worksheet name")
	cmd.Flags().StringVarP(&input, "input", "i", "", "Local .csv or .xlsx file instead of a sheet")
	cmd.Flags().IntVar(&limit, "limit", 0, "Print at most this many rows (0 = all)")

	return cmd
}

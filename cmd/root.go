// Package cmd contains all CLI commands for the chartkit binary.
package cmd

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	cmdconfig "github.com/klytics/chartkit/cmd/config"
	"github.com/klytics/chartkit/cmd/fetch"
	"github.com/klytics/chartkit/cmd/recommend"
	"github.com/klytics/chartkit/cmd/render"
	"github.com/klytics/chartkit/cmd/run"
	"github.com/klytics/chartkit/cmd/version"
	cmdwatch "github.com/klytics/chartkit/cmd/watch"
)

var (
	jsonOutput bool
	verbose    bool
	modelName  string
	provider   string
	noColor    bool
)

// NewRootCommand creates and returns the root cobra command with all subcommands registered.
func NewRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "chartkit",
		Short: "AI-assisted charts from spreadsheet data",
		Long: `ChartKit — from spreadsheet to chart in one command.

Fetch tabular data from Google Sheets or a local file, ask an AI model
which chart fits it best, and render the result to a PNG.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if noColor {
				color.NoColor = true
			}
		},
	}

	// Global persistent flags
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Output as machine-readable JSON")
	rootCmd.PersistentFlags().BoolVar(&verbose, "verbose", false, "Enable debug logging")
	rootCmd.PersistentFlags().StringVar(&modelName, "model", defaultModel(), "AI model name override (empty means the provider default)")
	rootCmd.PersistentFlags().StringVar(&provider, "provider", defaultProvider(), "AI provider: openai | anthropic | ollama (empty means the configured one)")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "Disable ANSI color output")

	// Register subcommands
	rootCmd.AddCommand(run.NewCommand())
	rootCmd.AddCommand(fetch.NewCommand())
	rootCmd.AddCommand(recommend.NewCommand())
	rootCmd.AddCommand(render.NewCommand())
	rootCmd.AddCommand(cmdwatch.NewCommand())
	rootCmd.AddCommand(cmdconfig.NewCommand())
	rootCmd.AddCommand(version.NewCommand())

	return rootCmd
}

// Execute runs the root command and handles any returned errors.
func Execute() {
	rootCmd := NewRootCommand()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}
}

func defaultModel() string {
	return os.Getenv("CHARTKIT_MODEL")
}

func defaultProvider() string {
	return os.Getenv("CHARTKIT_PROVIDER")
}

// Package config provides CLI commands for configuration management.
package config

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/klytics/chartkit/internal/config"
	"github.com/klytics/chartkit/internal/output"
)

// NewCommand returns the config command group.
func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage chartkit configuration",
		Long:  "View and modify chartkit settings stored in ~/.chartkit/config.yaml.",
	}

	cmd.AddCommand(newInitCommand())
	cmd.AddCommand(newShowCommand())
	cmd.AddCommand(newSetCommand())
	cmd.AddCommand(newGetCommand())
	cmd.AddCommand(newPathCommand())
	cmd.AddCommand(newValidateCommand())

	return cmd
}

func newInitCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Write a config file populated with defaults",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := config.InitDefaults(); err != nil {
				return err
			}
			fmt.Printf("Wrote %s\n", config.ConfigPath())
			return nil
		},
	}
}

func newShowCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show current configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			jsonFlag, _ := cmd.Flags().GetBool("json")

			cfg, err := config.Load()
			if err != nil {
				return err
			}

			if jsonFlag {
				return output.NewWriter().WriteJSON(cfg)
			}
			fmt.Print(cfg.Show())
			return nil
		},
	}
}

func newSetCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "set <key> <value>",
		Short: "Set a configuration value",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := config.Load(); err != nil {
				return err
			}
			if err := config.Set(args[0], args[1]); err != nil {
				return err
			}
			fmt.Printf("Set %s\n", args[0])
			return nil
		},
	}
}

func newGetCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "get <key>",
		Short: "Get a configuration value",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := config.Load(); err != nil {
				return err
			}
			fmt.Println(config.Get(args[0]))
			return nil
		},
	}
}

func newPathCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print the config file path",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Println(config.ConfigPath())
		},
	}
}

func newValidateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Check the configuration for problems",
		RunE: func(cmd *cobra.Command, args []string) error {
			jsonFlag, _ := cmd.Flags().GetBool("json")

			cfg, err := config.Load()
			if err != nil {
				return err
			}
			issues := cfg.Validate()

			if jsonFlag {
				return output.NewWriter().WriteJSON(issues)
			}

			errs := 0
			for _, issue := range issues {
				var mark string
				switch issue.Severity {
				case "error":
					mark = color.RedString("✗")
					errs++
				case "warning":
					mark = color.YellowString("!")
				default:
					mark = color.GreenString("✓")
				}
				fmt.Printf("%s %s: %s\n", mark, issue.Key, issue.Message)
				if issue.Fix != "" {
					fmt.Printf("    fix: %s\n", issue.Fix)
				}
			}

			if errs > 0 {
				return fmt.Errorf("configuration has %d error(s)", errs)
			}
			return nil
		},
	}
}

package config

import (
	"fmt"
	"os"
	"strings"
)

// Issue represents a validation finding.
type Issue struct {
	Key      string `json:"key"`
	Severity string `json:"severity"` // "error", "warning", "info"
	Message  string `json:"message"`
	Fix      string `json:"fix,omitempty"`
}

// Validate checks the loaded configuration and returns a list of
// issues. Errors block a sheets-backed run; warnings do not.
func (c *Config) Validate() []Issue {
	var issues []Issue

	if c.SheetID == "" {
		issues = append(issues, Issue{
			Key:      "sheet_id",
			Severity: "warning",
			Message:  "no spreadsheet ID configured — runs against Google Sheets will fail",
			Fix:      "export SHEET_ID=... or chartkit config set sheet_id ...",
		})
	}

	if _, err := os.Stat(c.CredentialsFile); err != nil {
		issues = append(issues, Issue{
			Key:      "credentials_file",
			Severity: "warning",
			Message:  fmt.Sprintf("credentials file %s is not readable — Google Sheets fetches will fail", c.CredentialsFile),
			Fix:      "point credentials_file at your service-account JSON",
		})
	}

	switch c.Provider {
	case "openai", "anthropic":
		if c.ProviderKey() == "" {
			envVar := strings.ToUpper(c.Provider) + "_API_KEY"
			issues = append(issues, Issue{
				Key:      "provider",
				Severity: "error",
				Message:  fmt.Sprintf("provider is %q but no API key is configured", c.Provider),
				Fix:      fmt.Sprintf("export %s=... or export API_KEY=...", envVar),
			})
		} else {
			issues = append(issues, Issue{
				Key:      "provider",
				Severity: "info",
				Message:  fmt.Sprintf("%s API key configured", c.Provider),
			})
		}
	case "ollama":
		issues = append(issues, Issue{
			Key:      "provider",
			Severity: "info",
			Message:  "Ollama configured (no API key needed)",
		})
	default:
		issues = append(issues, Issue{
			Key:      "provider",
			Severity: "error",
			Message:  fmt.Sprintf("unknown provider %q", c.Provider),
			Fix:      "chartkit config set provider openai|anthropic|ollama",
		})
	}

	if c.MaxRowsForPrompt <= 0 {
		issues = append(issues, Issue{
			Key:      "max_rows_for_prompt",
			Severity: "warning",
			Message:  "max_rows_for_prompt is not positive — the default will be used",
		})
	}

	return issues
}

// Show returns a formatted string of the current configuration. API
// keys are masked.
func (c *Config) Show() string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("Config: %s\n\n", ConfigPath()))

	sb.WriteString("Data source\n")
	sb.WriteString(fmt.Sprintf("  sheet_id:          %s\n", c.SheetID))
	sb.WriteString(fmt.Sprintf("  worksheet:         %s\n", c.Worksheet))
	sb.WriteString(fmt.Sprintf("  credentials_file:  %s\n", c.CredentialsFile))
	sb.WriteString("\n")

	sb.WriteString("AI\n")
	sb.WriteString(fmt.Sprintf("  provider:  %s\n", c.Provider))
	sb.WriteString(fmt.Sprintf("  model:     %s\n", orDefault(c.Model, "(provider default)")))
	if key := c.ProviderKey(); key != "" {
		sb.WriteString(fmt.Sprintf("  key:       %s****\n", key[:min(8, len(key))]))
	}
	if c.Provider == "ollama" {
		sb.WriteString(fmt.Sprintf("  host:      %s\n", orDefault(c.Ollama.Host, "http://localhost:11434")))
	}
	sb.WriteString("\n")

	sb.WriteString("Pipeline\n")
	sb.WriteString(fmt.Sprintf("  output_path:          %s\n", c.OutputPath))
	sb.WriteString(fmt.Sprintf("  max_rows_for_prompt:  %d\n", c.MaxRowsForPrompt))
	sb.WriteString(fmt.Sprintf("  timeout_seconds:      %d\n", c.TimeoutSeconds))

	return sb.String()
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}

package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/spf13/viper"
)

func setupTest(t *testing.T) {
	t.Helper()
	viper.Reset()
	t.Setenv("HOME", t.TempDir())
	// Keep ambient keys out of the test run
	for _, v := range []string{"SHEET_ID", "API_KEY", "OPENAI_API_KEY", "ANTHROPIC_API_KEY", "MAX_ROWS_FOR_PROMPT", "OUTPUT_PATH"} {
		t.Setenv(v, "")
		os.Unsetenv(v)
	}
	t.Cleanup(viper.Reset)
}

func TestLoadDefaults(t *testing.T) {
	setupTest(t)

	cfg, err := Load()
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Provider != "openai" {
		t.Errorf("default provider = %q", cfg.Provider)
	}
	if cfg.Worksheet != "Sheet1" {
		t.Errorf("default worksheet = %q", cfg.Worksheet)
	}
	if cfg.MaxRowsForPrompt != 50 {
		t.Errorf("default max_rows_for_prompt = %d", cfg.MaxRowsForPrompt)
	}
	if cfg.OutputPath != "chart.png" {
		t.Errorf("default output_path = %q", cfg.OutputPath)
	}
	if cfg.Timeout() != 60*time.Second {
		t.Errorf("default timeout = %v", cfg.Timeout())
	}
}

func TestLoadDocumentedEnvVars(t *testing.T) {
	setupTest(t)
	t.Setenv("SHEET_ID", "1abcDEF")
	t.Setenv("API_KEY", "sk-generic")
	t.Setenv("MAX_ROWS_FOR_PROMPT", "10")
	t.Setenv("OUTPUT_PATH", "out/q3.png")

	cfg, err := Load()
	if err != nil {
		t.Fatal(err)
	}
	if cfg.SheetID != "1abcDEF" {
		t.Errorf("SheetID = %q", cfg.SheetID)
	}
	if cfg.APIKey != "sk-generic" {
		t.Errorf("APIKey = %q", cfg.APIKey)
	}
	if cfg.MaxRowsForPrompt != 10 {
		t.Errorf("MaxRowsForPrompt = %d", cfg.MaxRowsForPrompt)
	}
	if cfg.OutputPath != "out/q3.png" {
		t.Errorf("OutputPath = %q", cfg.OutputPath)
	}
}

func TestProviderKeyFallback(t *testing.T) {
	cfg := &Config{Provider: "openai", APIKey: "sk-generic"}
	if got := cfg.ProviderKey(); got != "sk-generic" {
		t.Errorf("ProviderKey = %q, want the generic fallback", got)
	}

	cfg.APIKeys.OpenAI = "sk-openai"
	if got := cfg.ProviderKey(); got != "sk-openai" {
		t.Errorf("ProviderKey = %q, want the provider-specific key", got)
	}

	anthropic := &Config{Provider: "anthropic", APIKey: "sk-generic"}
	anthropic.APIKeys.Anthropic = "sk-ant"
	if got := anthropic.ProviderKey(); got != "sk-ant" {
		t.Errorf("ProviderKey = %q", got)
	}
}

func TestValidateMissingKey(t *testing.T) {
	cfg := &Config{Provider: "openai", CredentialsFile: "nope.json", MaxRowsForPrompt: 50}

	issues := cfg.Validate()
	hasError := false
	for _, issue := range issues {
		if issue.Severity == "error" && strings.Contains(issue.Message, "API key") {
			hasError = true
		}
	}
	if !hasError {
		t.Error("expected error about missing API key")
	}
}

func TestValidateUnknownProvider(t *testing.T) {
	cfg := &Config{Provider: "gemini", MaxRowsForPrompt: 50}

	hasError := false
	for _, issue := range cfg.Validate() {
		if issue.Severity == "error" && strings.Contains(issue.Message, "unknown provider") {
			hasError = true
		}
	}
	if !hasError {
		t.Error("expected error about unknown provider")
	}
}

func TestValidateOllamaNeedsNoKey(t *testing.T) {
	cfg := &Config{Provider: "ollama", MaxRowsForPrompt: 50}

	for _, issue := range cfg.Validate() {
		if issue.Key == "provider" && issue.Severity == "error" {
			t.Errorf("unexpected provider error: %s", issue.Message)
		}
	}
}

func TestSetAndGet(t *testing.T) {
	setupTest(t)

	if err := Set("provider", "anthropic"); err != nil {
		t.Fatal(err)
	}
	if got := Get("provider"); got != "anthropic" {
		t.Errorf("Get(provider) = %q", got)
	}

	if _, err := os.Stat(ConfigPath()); err != nil {
		t.Errorf("config file not written: %v", err)
	}
}

func TestConfigPath(t *testing.T) {
	setupTest(t)
	path := ConfigPath()
	if !strings.Contains(path, ".chartkit") || !strings.HasSuffix(path, "config.yaml") {
		t.Errorf("unexpected path: %q", path)
	}
}

func TestInitDefaults(t *testing.T) {
	setupTest(t)

	if err := InitDefaults(); err != nil {
		t.Fatal(err)
	}

	data, err := os.ReadFile(ConfigPath())
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "provider") {
		t.Error("written config should contain provider")
	}
}

func TestShowMasksKey(t *testing.T) {
	cfg := &Config{Provider: "openai", OutputPath: "chart.png", MaxRowsForPrompt: 50}
	cfg.APIKeys.OpenAI = "sk-secret-key-value"

	out := cfg.Show()
	if strings.Contains(out, "sk-secret-key-value") {
		t.Error("Show must not print the full API key")
	}
	if !strings.Contains(out, "****") {
		t.Error("Show should print a masked key")
	}
}

func TestSaveRestrictsPermissions(t *testing.T) {
	setupTest(t)
	viper.Set("api_key", "sk-secret")
	if err := Save(); err != nil {
		t.Fatal(err)
	}

	info, err := os.Stat(filepath.Join(os.Getenv("HOME"), ".chartkit", "config.yaml"))
	if err != nil {
		t.Fatal(err)
	}
	if info.Mode().Perm() != 0600 {
		t.Errorf("config file mode = %v, want 0600", info.Mode().Perm())
	}
}

// Package config manages chartkit configuration from the config file
// and environment. Configuration is loaded once at startup into an
// immutable Config value and passed by parameter; pipeline components
// never read the environment themselves.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/viper"
)

// Config holds the application configuration.
type Config struct {
	// Data source
	SheetID         string `mapstructure:"sheet_id"`
	Worksheet       string `mapstructure:"worksheet"`
	CredentialsFile string `mapstructure:"credentials_file"`

	// AI provider
	Provider string `mapstructure:"provider"`
	Model    string `mapstructure:"model"`
	APIKey   string `mapstructure:"api_key"` // provider-agnostic fallback
	APIKeys  struct {
		OpenAI    string `mapstructure:"openai"`
		Anthropic string `mapstructure:"anthropic"`
	} `mapstructure:"api_keys"`
	Ollama struct {
		Host string `mapstructure:"host"`
	} `mapstructure:"ollama"`

	// Pipeline
	MaxRowsForPrompt int    `mapstructure:"max_rows_for_prompt"`
	OutputPath       string `mapstructure:"output_path"`
	TimeoutSeconds   int    `mapstructure:"timeout_seconds"`
}

// Load reads configuration from ~/.chartkit/config.yaml and the
// environment. Documented plain env vars (SHEET_ID, API_KEY,
// MAX_ROWS_FOR_PROMPT, OUTPUT_PATH) are honored alongside the
// CHARTKIT_-prefixed forms.
func Load() (*Config, error) {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(configDir())

	setDefaults()
	bindEnv()

	// Config file is optional
	_ = viper.ReadInConfig()

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("could not parse config: %w", err)
	}

	return &cfg, nil
}

func setDefaults() {
	viper.SetDefault("worksheet", "Sheet1")
	viper.SetDefault("credentials_file", "credentials.json")
	viper.SetDefault("provider", "openai")
	viper.SetDefault("max_rows_for_prompt", 50)
	viper.SetDefault("output_path", "chart.png")
	viper.SetDefault("timeout_seconds", 60)
}

func bindEnv() {
	viper.SetEnvPrefix("CHARTKIT")
	viper.AutomaticEnv()

	// The documented short-form env vars, plus provider key
	// conventions.
	viper.BindEnv("sheet_id", "CHARTKIT_SHEET_ID", "SHEET_ID")
	viper.BindEnv("api_key", "CHARTKIT_API_KEY", "API_KEY")
	viper.BindEnv("max_rows_for_prompt", "CHARTKIT_MAX_ROWS_FOR_PROMPT", "MAX_ROWS_FOR_PROMPT")
	viper.BindEnv("output_path", "CHARTKIT_OUTPUT_PATH", "OUTPUT_PATH")
	viper.BindEnv("credentials_file", "CHARTKIT_CREDENTIALS_FILE", "GOOGLE_APPLICATION_CREDENTIALS")
	viper.BindEnv("api_keys.openai", "OPENAI_API_KEY")
	viper.BindEnv("api_keys.anthropic", "ANTHROPIC_API_KEY")
	viper.BindEnv("ollama.host", "CHARTKIT_OLLAMA_HOST", "OLLAMA_HOST")
}

// ProviderKey returns the API key for the configured provider, falling
// back to the generic API_KEY when no provider-specific key is set.
func (c *Config) ProviderKey() string {
	return c.KeyFor(c.Provider)
}

// KeyFor returns the API key for the named provider, falling back to
// the generic API_KEY.
func (c *Config) KeyFor(provider string) string {
	var key string
	switch provider {
	case "openai":
		key = c.APIKeys.OpenAI
	case "anthropic":
		key = c.APIKeys.Anthropic
	}
	if key == "" {
		key = c.APIKey
	}
	return key
}

// Timeout returns the configured network timeout.
func (c *Config) Timeout() time.Duration {
	if c.TimeoutSeconds <= 0 {
		return 60 * time.Second
	}
	return time.Duration(c.TimeoutSeconds) * time.Second
}

func configDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".chartkit"
	}
	return filepath.Join(home, ".chartkit")
}

// ConfigPath returns the path to the config file.
func ConfigPath() string {
	return filepath.Join(configDir(), "config.yaml")
}

// Set sets a config value and saves to disk.
func Set(key, value string) error {
	viper.Set(key, value)
	return Save()
}

// Get retrieves a config value.
func Get(key string) string {
	return viper.GetString(key)
}

// Save writes the current config to ~/.chartkit/config.yaml.
func Save() error {
	dir := configDir()
	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("could not create config directory: %w", err)
	}

	path := filepath.Join(dir, "config.yaml")
	if err := viper.WriteConfigAs(path); err != nil {
		return fmt.Errorf("could not write config: %w", err)
	}

	// The file can hold API keys
	os.Chmod(path, 0600)
	return nil
}

// InitDefaults writes a config file populated with defaults, without
// prompting.
func InitDefaults() error {
	setDefaults()
	viper.Set("provider", viper.GetString("provider"))
	viper.Set("worksheet", viper.GetString("worksheet"))
	viper.Set("output_path", viper.GetString("output_path"))
	viper.Set("max_rows_for_prompt", viper.GetInt("max_rows_for_prompt"))
	return Save()
}

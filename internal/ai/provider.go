// Package ai produces chart recommendations by sending summarized table
// data to an inference provider and parsing the structured reply.
package ai

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
)

// Errors returned by the recommendation client. Callers classify with
// errors.Is.
var (
	// ErrServiceUnavailable means the inference service could not be
	// reached or failed on its side (network error, 5xx, rate limit).
	ErrServiceUnavailable = errors.New("inference service unavailable")
	// ErrMalformedResponse means the service replied but the reply
	// could not be parsed into a valid chart recommendation.
	ErrMalformedResponse = errors.New("malformed recommendation response")
)

// DefaultTimeout bounds a single inference call.
const DefaultTimeout = 60 * time.Second

// Provider is a single-shot inference backend. Implementations make one
// outbound HTTP call per Infer and hold no state between calls.
type Provider interface {
	// Infer sends a system prompt and a user prompt and returns the
	// model's text reply.
	Infer(ctx context.Context, system, prompt string) (string, error)

	// Name returns the provider identifier.
	Name() string
}

// ProviderOptions carries everything needed to construct a provider.
// Keys and hosts arrive from configuration; providers never read the
// environment themselves.
type ProviderOptions struct {
	Name    string // "openai", "anthropic", or "ollama"
	Model   string // empty means the provider's default model
	APIKey  string
	Host    string // ollama only
	Timeout time.Duration
}

// NewProvider creates a provider instance for the named backend.
func NewProvider(opts ProviderOptions) (Provider, error) {
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}

	switch strings.ToLower(opts.Name) {
	case "openai":
		if opts.APIKey == "" {
			return nil, fmt.Errorf("no OpenAI API key configured — set OPENAI_API_KEY or API_KEY")
		}
		return NewOpenAIProvider(opts.APIKey, opts.Model, opts.Timeout), nil
	case "anthropic":
		if opts.APIKey == "" {
			return nil, fmt.Errorf("no Anthropic API key configured — set ANTHROPIC_API_KEY or API_KEY")
		}
		return NewAnthropicProvider(opts.APIKey, opts.Model, opts.Timeout), nil
	case "ollama":
		host := opts.Host
		if host == "" {
			host = "http://localhost:11434"
		}
		return NewOllamaProvider(host, opts.Model, opts.Timeout), nil
	default:
		return nil, fmt.Errorf("unknown AI provider %q — supported providers: openai, anthropic, ollama", opts.Name)
	}
}

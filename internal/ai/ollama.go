package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const defaultOllamaModel = "llama3.1"

// OllamaProvider implements Provider for local Ollama models.
type OllamaProvider struct {
	host   string
	model  string
	client *http.Client
}

// NewOllamaProvider creates an Ollama provider for the given host,
// model, and request timeout.
func NewOllamaProvider(host, model string, timeout time.Duration) *OllamaProvider {
	if model == "" {
		model = defaultOllamaModel
	}
	return &OllamaProvider{
		host:   strings.TrimSuffix(host, "/"),
		model:  model,
		client: &http.Client{Timeout: timeout},
	}
}

// Name returns the provider identifier.
func (p *OllamaProvider) Name() string {
	return "ollama"
}

type ollamaRequest struct {
	Model    string      `json:"model"`
	Messages []ollamaMsg `json:"messages"`
	Format   string      `json:"format,omitempty"`
	Stream   bool        `json:"stream"`
}

type ollamaMsg struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type ollamaResponse struct {
	Message struct {
		Content string `json:"content"`
	} `json:"message"`
	Error string `json:"error"`
}

// Infer sends the prompts to Ollama and returns the reply text. JSON
// format mode is requested so the recommendation comes back as a
// single JSON object.
func (p *OllamaProvider) Infer(ctx context.Context, system, prompt string) (string, error) {
	reqBody := ollamaRequest{
		Model: p.model,
		Messages: []ollamaMsg{
			{Role: "system", Content: system},
			{Role: "user", Content: prompt},
		},
		Format: "json",
		Stream: false,
	}

	body, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("could not marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", p.host+"/api/chat", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("could not create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: is Ollama running at %s? %v", ErrServiceUnavailable, p.host, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("%w: could not read response: %v", ErrServiceUnavailable, err)
	}

	if err := classifyStatus(resp.StatusCode, respBody); err != nil {
		return "", err
	}

	var apiResp ollamaResponse
	if err := json.Unmarshal(respBody, &apiResp); err != nil {
		return "", fmt.Errorf("could not parse response: %w", err)
	}
	if apiResp.Error != "" {
		return "", fmt.Errorf("API error: %s", apiResp.Error)
	}

	return apiResp.Message.Content, nil
}

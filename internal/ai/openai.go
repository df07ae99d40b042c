package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

const (
	openaiAPIURL       = "https://api.openai.com/v1/chat/completions"
	defaultOpenAIModel = "gpt-4o-mini"
)

// OpenAIProvider implements Provider for OpenAI chat models.
type OpenAIProvider struct {
	apiKey string
	model  string
	client *http.Client
}

// NewOpenAIProvider creates an OpenAI provider with the given API key,
// model, and request timeout.
func NewOpenAIProvider(apiKey, model string, timeout time.Duration) *OpenAIProvider {
	if model == "" {
		model = defaultOpenAIModel
	}
	return &OpenAIProvider{
		apiKey: apiKey,
		model:  model,
		client: &http.Client{Timeout: timeout},
	}
}

// Name returns the provider identifier.
func (p *OpenAIProvider) Name() string {
	return "openai"
}

type openaiRequest struct {
	Model          string         `json:"model"`
	Messages       []openaiMsg    `json:"messages"`
	ResponseFormat *openaiRespFmt `json:"response_format,omitempty"`
}

type openaiMsg struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type openaiRespFmt struct {
	Type string `json:"type"`
}

type openaiResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error"`
}

// Infer sends the prompts to OpenAI and returns the reply text. JSON
// response mode is requested so the recommendation comes back as a
// single JSON object.
func (p *OpenAIProvider) Infer(ctx context.Context, system, prompt string) (string, error) {
	reqBody := openaiRequest{
		Model: p.model,
		Messages: []openaiMsg{
			{Role: "system", Content: system},
			{Role: "user", Content: prompt},
		},
		ResponseFormat: &openaiRespFmt{Type: "json_object"},
	}

	body, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("could not marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", openaiAPIURL, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("could not create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+p.apiKey)

	resp, err := p.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrServiceUnavailable, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("%w: could not read response: %v", ErrServiceUnavailable, err)
	}

	if err := classifyStatus(resp.StatusCode, respBody); err != nil {
		return "", err
	}

	var apiResp openaiResponse
	if err := json.Unmarshal(respBody, &apiResp); err != nil {
		return "", fmt.Errorf("could not parse response: %w", err)
	}
	if apiResp.Error != nil {
		return "", fmt.Errorf("API error: %s", apiResp.Error.Message)
	}
	if len(apiResp.Choices) == 0 {
		return "", fmt.Errorf("API returned no choices")
	}

	return apiResp.Choices[0].Message.Content, nil
}

// classifyStatus maps HTTP status codes to the error taxonomy: 5xx and
// 429 are service-side failures; other non-200s (bad key, bad request)
// surface as plain errors.
func classifyStatus(code int, body []byte) error {
	if code == http.StatusOK {
		return nil
	}
	if code >= 500 || code == http.StatusTooManyRequests {
		return fmt.Errorf("%w: API returned status %d: %s", ErrServiceUnavailable, code, string(body))
	}
	return fmt.Errorf("API returned status %d: %s", code, string(body))
}

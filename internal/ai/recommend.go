package ai

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/klytics/chartkit/internal/chart"
	"github.com/klytics/chartkit/internal/table"
)

const recommendSystemPrompt = `You are a data visualization expert. You are given a table of spreadsheet data and must recommend the best chart to visualize it.

Recognized chart types: bar, line, pie, scatter, dual_axis.
Use dual_axis only for exactly two numeric metrics on very different scales.

Respond with a single JSON object and nothing else:
{
  "chart_type": "bar|line|pie|scatter|dual_axis",
  "x_field": "column name for the x axis",
  "y_fields": ["column name(s) to plot"],
  "title": "short chart title",
  "reasoning": "brief explanation"
}

Every field name must be copied exactly from the table's column list.`

// Recommender asks a provider for a chart recommendation and validates
// the reply against the table before handing it to the renderer.
type Recommender struct {
	provider Provider
	maxRows  int
	backoff  time.Duration
}

// RecommenderOptions configures a Recommender.
type RecommenderOptions struct {
	// MaxRows bounds how many data rows are serialized into the
	// prompt. Zero means table.DefaultPromptRows.
	MaxRows int
	// RetryBackoff is the wait before the single retry after a
	// transient service failure. Zero means 2s.
	RetryBackoff time.Duration
}

// NewRecommender creates a recommendation client over the provider.
func NewRecommender(p Provider, opts RecommenderOptions) *Recommender {
	backoff := opts.RetryBackoff
	if backoff <= 0 {
		backoff = 2 * time.Second
	}
	return &Recommender{
		provider: p,
		maxRows:  opts.MaxRows,
		backoff:  backoff,
	}
}

// Recommend submits the table and returns a validated recommendation.
// A transient service failure is retried once after a short backoff;
// a reply that does not validate against the table's columns is
// ErrMalformedResponse.
func (r *Recommender) Recommend(ctx context.Context, t *table.Table) (*chart.Recommendation, error) {
	if t == nil || t.IsEmpty() {
		return nil, fmt.Errorf("cannot recommend a chart for an empty table")
	}

	prompt := table.PromptText(t, r.maxRows)

	raw, err := r.provider.Infer(ctx, recommendSystemPrompt, prompt)
	if err != nil && errors.Is(err, ErrServiceUnavailable) {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(r.backoff):
		}
		raw, err = r.provider.Infer(ctx, recommendSystemPrompt, prompt)
	}
	if err != nil {
		return nil, err
	}

	rec, err := parseRecommendation(raw)
	if err != nil {
		return nil, err
	}
	if err := rec.Validate(t); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	return rec, nil
}

// recommendationWire is the reply schema. y_field is accepted as a
// singular alias some models produce despite the prompt.
type recommendationWire struct {
	ChartType string   `json:"chart_type"`
	XField    string   `json:"x_field"`
	YFields   []string `json:"y_fields"`
	YField    string   `json:"y_field"`
	Title     string   `json:"title"`
	Reasoning string   `json:"reasoning"`
}

func parseRecommendation(raw string) (*chart.Recommendation, error) {
	jsonText := extractJSON(raw)
	if jsonText == "" {
		return nil, fmt.Errorf("%w: no JSON object in reply: %s", ErrMalformedResponse, truncate(raw, 200))
	}

	var wire recommendationWire
	if err := json.Unmarshal([]byte(jsonText), &wire); err != nil {
		return nil, fmt.Errorf("%w: %v in reply: %s", ErrMalformedResponse, err, truncate(jsonText, 200))
	}

	yFields := wire.YFields
	if len(yFields) == 0 && wire.YField != "" {
		yFields = []string{wire.YField}
	}

	chartType, err := chart.ParseType(wire.ChartType)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}

	return &chart.Recommendation{
		Type:      chartType,
		XField:    wire.XField,
		YFields:   yFields,
		Title:     wire.Title,
		Reasoning: wire.Reasoning,
	}, nil
}

// extractJSON pulls the first JSON object out of a reply, tolerating
// markdown code fences around it.
func extractJSON(s string) string {
	start := strings.Index(s, "{")
	end := strings.LastIndex(s, "}")
	if start < 0 || end <= start {
		return ""
	}
	return s[start : end+1]
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}

// Package chart turns a table plus a chart recommendation into a
// rendered PNG artifact.
package chart

import (
	"errors"
	"fmt"
	"strings"

	"github.com/klytics/chartkit/internal/table"
)

// Errors returned by the renderer. Callers classify with errors.Is.
var (
	// ErrUnsupportedType means the recommendation names a chart type
	// with no renderer mapping.
	ErrUnsupportedType = errors.New("unsupported chart type")
	// ErrRender means plotting failed, e.g. a non-numeric column was
	// mapped to a numeric axis.
	ErrRender = errors.New("render failed")
)

// Type is a recognized chart type.
type Type string

// The enumerated chart types chartkit can render.
const (
	TypeBar      Type = "bar"
	TypeLine     Type = "line"
	TypePie      Type = "pie"
	TypeScatter  Type = "scatter"
	TypeDualAxis Type = "dual_axis"
)

// Types lists all recognized chart types.
func Types() []Type {
	return []Type{TypeBar, TypeLine, TypePie, TypeScatter, TypeDualAxis}
}

// ParseType converts a string to a Type, or returns ErrUnsupportedType.
func ParseType(s string) (Type, error) {
	t := Type(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Types() {
		if t == known {
			return t, nil
		}
	}
	return "", fmt.Errorf("%w: %q — recognized types: %v", ErrUnsupportedType, s, Types())
}

// Recommendation names a chart type and the table fields to plot. It is
// produced once per run (by the AI client or the heuristic detector)
// and consumed once by the renderer.
type Recommendation struct {
	Type      Type     `json:"chart_type"`
	XField    string   `json:"x_field"`
	YFields   []string `json:"y_fields"`
	Title     string   `json:"title,omitempty"`
	Reasoning string   `json:"reasoning,omitempty"`
}

// Validate checks the recommendation against a table: the chart type
// must be recognized and every referenced field must be one of the
// table's columns. The renderer calls this even when the AI client
// already did; the two components stay independently correct.
func (r *Recommendation) Validate(t *table.Table) error {
	if _, err := ParseType(string(r.Type)); err != nil {
		return err
	}
	if r.XField == "" {
		return fmt.Errorf("recommendation has no x field")
	}
	if !t.HasColumn(r.XField) {
		return fmt.Errorf("x field %q is not a column of the table — columns: %v", r.XField, t.Columns)
	}
	if len(r.YFields) == 0 {
		return fmt.Errorf("recommendation has no y fields")
	}
	for _, y := range r.YFields {
		if !t.HasColumn(y) {
			return fmt.Errorf("y field %q is not a column of the table — columns: %v", y, t.Columns)
		}
	}
	if r.Type == TypeDualAxis && len(r.YFields) != 2 {
		return fmt.Errorf("dual_axis needs exactly 2 y fields, got %d", len(r.YFields))
	}
	return nil
}

// DefaultTitle returns a title derived from the field mapping, used
// when the recommendation carries none.
func (r *Recommendation) DefaultTitle() string {
	switch r.Type {
	case TypeDualAxis:
		return fmt.Sprintf("%s and %s by %s", r.YFields[0], r.YFields[1], r.XField)
	case TypePie:
		return fmt.Sprintf("%s by %s", r.YFields[0], r.XField)
	default:
		return fmt.Sprintf("%s by %s", strings.Join(r.YFields, ", "), r.XField)
	}
}

package chart

import (
	"fmt"
	"strings"

	"github.com/klytics/chartkit/internal/table"
)

// Column-name keywords used to spot the classic "revenue vs customer
// count" shape, which reads best on a dual-axis chart.
var (
	magnitudeKeywords = []string{"revenue", "sales", "income", "profit", "amount"}
	countKeywords     = []string{"customer", "user", "count", "total", "number"}
)

// Detect picks a chart type from the data's own characteristics, with
// no AI call. Rules, in order:
//   - two numeric columns whose means differ by 10x or more: dual_axis
//   - a magnitude column paired with a count column: dual_axis
//   - a single numeric column: bar
//   - otherwise: line across all numeric columns
//
// The first table column serves as the x axis.
func Detect(t *table.Table) (*Recommendation, error) {
	if t.IsEmpty() {
		return nil, fmt.Errorf("cannot detect a chart for an empty table")
	}

	numeric := t.NumericColumns()
	if len(numeric) == 0 {
		return nil, fmt.Errorf("no numeric columns found for visualization — columns: %v", t.Columns)
	}

	xField := t.Columns[0]

	if len(numeric) >= 2 {
		if scaleRatio(t, numeric[0], numeric[1]) >= 10 {
			return &Recommendation{
				Type:      TypeDualAxis,
				XField:    xField,
				YFields:   []string{numeric[0], numeric[1]},
				Reasoning: fmt.Sprintf("%s and %s differ by an order of magnitude; separate axes keep both readable", numeric[0], numeric[1]),
			}, nil
		}

		if large, count, ok := keywordPair(numeric); ok {
			return &Recommendation{
				Type:      TypeDualAxis,
				XField:    xField,
				YFields:   []string{large, count},
				Reasoning: fmt.Sprintf("%s is a monetary metric and %s is a count; separate axes show both clearly", large, count),
			}, nil
		}
	}

	if len(numeric) == 1 {
		return &Recommendation{
			Type:      TypeBar,
			XField:    xField,
			YFields:   []string{numeric[0]},
			Reasoning: "single numeric metric reads best as a bar chart",
		}, nil
	}

	return &Recommendation{
		Type:      TypeLine,
		XField:    xField,
		YFields:   numeric,
		Reasoning: "multiple metrics on similar scales compare best as line trends",
	}, nil
}

func scaleRatio(t *table.Table, a, b string) float64 {
	ma, err := columnMean(t, a)
	if err != nil {
		return 0
	}
	mb, err := columnMean(t, b)
	if err != nil {
		return 0
	}
	if ma < 0 {
		ma = -ma
	}
	if mb < 0 {
		mb = -mb
	}
	lo, hi := ma, mb
	if lo > hi {
		lo, hi = hi, lo
	}
	if lo == 0 {
		return 0
	}
	return hi / lo
}

func columnMean(t *table.Table, name string) (float64, error) {
	floats, err := t.Floats(name)
	if err != nil {
		return 0, err
	}
	if len(floats) == 0 {
		return 0, fmt.Errorf("column %q has no values", name)
	}
	sum := 0.0
	for _, f := range floats {
		sum += f
	}
	return sum / float64(len(floats)), nil
}

// keywordPair finds one magnitude-style column and one count-style
// column among the numeric columns.
func keywordPair(numeric []string) (large, count string, ok bool) {
	for _, c := range numeric {
		lower := strings.ToLower(c)
		if large == "" && containsAny(lower, magnitudeKeywords) {
			large = c
		}
		if count == "" && containsAny(lower, countKeywords) {
			count = c
		}
	}
	if large != "" && count != "" && large != count {
		return large, count, true
	}
	return "", "", false
}

func containsAny(s string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(s, kw) {
			return true
		}
	}
	return false
}

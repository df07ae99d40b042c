package chart

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	gochart "github.com/wcharczuk/go-chart/v2"

	"github.com/klytics/chartkit/internal/table"
)

const (
	chartWidth  = 1200
	chartHeight = 600
	pieSize     = 800
)

// Render plots the recommended chart from the table and writes a PNG to
// outputPath. The image is rendered fully in memory and moved into
// place atomically; a failed render leaves no file at outputPath.
func Render(t *table.Table, rec *Recommendation, outputPath string) error {
	if err := rec.Validate(t); err != nil {
		if errors.Is(err, ErrUnsupportedType) {
			return err
		}
		return fmt.Errorf("%w: %v", ErrRender, err)
	}

	title := rec.Title
	if title == "" {
		title = rec.DefaultTitle()
	}

	var buf bytes.Buffer
	var err error
	switch rec.Type {
	case TypeBar:
		err = renderBar(t, rec, title, &buf)
	case TypeLine:
		err = renderLine(t, rec, title, &buf)
	case TypePie:
		err = renderPie(t, rec, title, &buf)
	case TypeScatter:
		err = renderScatter(t, rec, title, &buf)
	case TypeDualAxis:
		err = renderDualAxis(t, rec, title, &buf)
	default:
		return fmt.Errorf("%w: %q", ErrUnsupportedType, rec.Type)
	}
	if err != nil {
		if errors.Is(err, ErrRender) {
			return err
		}
		return fmt.Errorf("%w: %v", ErrRender, err)
	}

	return writeAtomic(outputPath, buf.Bytes())
}

// writeAtomic writes data to a temp file in the destination directory
// and renames it into place, so a partial artifact never appears under
// the final name.
func writeAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("could not create output directory %s: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, ".chartkit-*.png")
	if err != nil {
		return fmt.Errorf("could not create temp file in %s: %w", dir, err)
	}
	tmpPath := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("could not write chart: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("could not write chart: %w", err)
	}

	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("could not move chart into place: %w", err)
	}
	return nil
}

func renderBar(t *table.Table, rec *Recommendation, title string, buf *bytes.Buffer) error {
	labels, _ := t.Column(rec.XField)
	values, err := t.Floats(rec.YFields[0])
	if err != nil {
		return fmt.Errorf("%w: %v", ErrRender, err)
	}

	bars := make([]gochart.Value, len(values))
	for i, v := range values {
		bars[i] = gochart.Value{Value: v, Label: labels[i]}
	}

	graph := gochart.BarChart{
		Title:    title,
		Width:    chartWidth,
		Height:   chartHeight,
		BarWidth: 60,
		Bars:     bars,
	}
	return graph.Render(gochart.PNG, buf)
}

func renderLine(t *table.Table, rec *Recommendation, title string, buf *bytes.Buffer) error {
	xs, ticks, err := xAxis(t, rec.XField)
	if err != nil {
		return err
	}

	series := make([]gochart.Series, 0, len(rec.YFields))
	for _, y := range rec.YFields {
		ys, err := t.Floats(y)
		if err != nil {
			return fmt.Errorf("%w: %v", ErrRender, err)
		}
		series = append(series, gochart.ContinuousSeries{
			Name:    y,
			XValues: xs,
			YValues: ys,
		})
	}

	graph := gochart.Chart{
		Title:  title,
		Width:  chartWidth,
		Height: chartHeight,
		XAxis:  gochart.XAxis{Name: rec.XField, Ticks: ticks},
		Series: series,
	}
	graph.Elements = []gochart.Renderable{gochart.Legend(&graph)}
	return graph.Render(gochart.PNG, buf)
}

func renderPie(t *table.Table, rec *Recommendation, title string, buf *bytes.Buffer) error {
	labels, _ := t.Column(rec.XField)
	values, err := t.Floats(rec.YFields[0])
	if err != nil {
		return fmt.Errorf("%w: %v", ErrRender, err)
	}

	slices := make([]gochart.Value, len(values))
	for i, v := range values {
		slices[i] = gochart.Value{Value: v, Label: labels[i]}
	}

	graph := gochart.PieChart{
		Title:  title,
		Width:  pieSize,
		Height: pieSize,
		Values: slices,
	}
	return graph.Render(gochart.PNG, buf)
}

func renderScatter(t *table.Table, rec *Recommendation, title string, buf *bytes.Buffer) error {
	xs, ticks, err := xAxis(t, rec.XField)
	if err != nil {
		return err
	}

	series := make([]gochart.Series, 0, len(rec.YFields))
	for _, y := range rec.YFields {
		ys, err := t.Floats(y)
		if err != nil {
			return fmt.Errorf("%w: %v", ErrRender, err)
		}
		series = append(series, gochart.ContinuousSeries{
			Name: y,
			Style: gochart.Style{
				StrokeWidth: gochart.Disabled,
				DotWidth:    5,
			},
			XValues: xs,
			YValues: ys,
		})
	}

	graph := gochart.Chart{
		Title:  title,
		Width:  chartWidth,
		Height: chartHeight,
		XAxis:  gochart.XAxis{Name: rec.XField, Ticks: ticks},
		Series: series,
	}
	graph.Elements = []gochart.Renderable{gochart.Legend(&graph)}
	return graph.Render(gochart.PNG, buf)
}

func renderDualAxis(t *table.Table, rec *Recommendation, title string, buf *bytes.Buffer) error {
	xs, ticks, err := xAxis(t, rec.XField)
	if err != nil {
		return err
	}

	primary, err := t.Floats(rec.YFields[0])
	if err != nil {
		return fmt.Errorf("%w: %v", ErrRender, err)
	}
	secondary, err := t.Floats(rec.YFields[1])
	if err != nil {
		return fmt.Errorf("%w: %v", ErrRender, err)
	}

	graph := gochart.Chart{
		Title:  title,
		Width:  chartWidth,
		Height: chartHeight,
		XAxis:  gochart.XAxis{Name: rec.XField, Ticks: ticks},
		YAxis:  gochart.YAxis{Name: rec.YFields[0]},
		YAxisSecondary: gochart.YAxis{
			Name: rec.YFields[1],
		},
		Series: []gochart.Series{
			gochart.ContinuousSeries{
				Name:    rec.YFields[0],
				XValues: xs,
				YValues: primary,
			},
			gochart.ContinuousSeries{
				Name:    rec.YFields[1],
				YAxis:   gochart.YAxisSecondary,
				XValues: xs,
				YValues: secondary,
			},
		},
	}
	graph.Elements = []gochart.Renderable{gochart.Legend(&graph)}
	return graph.Render(gochart.PNG, buf)
}

// xAxis maps the x column to continuous values. A numeric column is
// used as-is; a categorical column becomes index positions with one
// labeled tick per row.
func xAxis(t *table.Table, field string) ([]float64, []gochart.Tick, error) {
	if t.IsNumeric(field) {
		xs, err := t.Floats(field)
		if err != nil {
			return nil, nil, fmt.Errorf("%w: %v", ErrRender, err)
		}
		return xs, nil, nil
	}

	labels, err := t.Column(field)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %v", ErrRender, err)
	}
	xs := make([]float64, len(labels))
	ticks := make([]gochart.Tick, len(labels))
	for i, label := range labels {
		xs[i] = float64(i)
		ticks[i] = gochart.Tick{Value: float64(i), Label: label}
	}
	return xs, ticks, nil
}

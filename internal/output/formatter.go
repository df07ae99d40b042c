// Package output provides formatting utilities for CLI output.
package output

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/klytics/chartkit/internal/table"
)

// Writer handles formatted output to a destination.
type Writer struct {
	dest io.Writer
}

// NewWriter creates an output writer targeting stdout.
func NewWriter() *Writer {
	return &Writer{dest: os.Stdout}
}

// NewWriterTo creates an output writer targeting w.
func NewWriterTo(w io.Writer) *Writer {
	return &Writer{dest: w}
}

// WriteJSON encodes a value as pretty-printed JSON.
func (w *Writer) WriteJSON(v interface{}) error {
	enc := json.NewEncoder(w.dest)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// WriteLn writes a line of text.
func (w *Writer) WriteLn(s string) error {
	_, err := fmt.Fprintln(w.dest, s)
	return err
}

// WriteTable renders a table with aligned columns.
func (w *Writer) WriteTable(t *table.Table) error {
	widths := make([]int, len(t.Columns))
	for i, c := range t.Columns {
		widths[i] = len(c)
	}
	for _, row := range t.Rows {
		for i, cell := range row {
			if len(cell) > widths[i] {
				widths[i] = len(cell)
			}
		}
	}

	var b strings.Builder
	writeRow := func(cells []string) {
		for i, cell := range cells {
			if i > 0 {
				b.WriteString("  ")
			}
			b.WriteString(cell)
			b.WriteString(strings.Repeat(" ", widths[i]-len(cell)))
		}
		b.WriteByte('\n')
	}

	writeRow(t.Columns)
	for i, width := range widths {
		if i > 0 {
			b.WriteString("  ")
		}
		b.WriteString(strings.Repeat("-", width))
	}
	b.WriteByte('\n')
	for _, row := range t.Rows {
		writeRow(row)
	}

	_, err := fmt.Fprint(w.dest, b.String())
	return err
}

// WriteError writes an error message to stderr.
func WriteError(format string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, "Error: "+format+"\n", args...)
}

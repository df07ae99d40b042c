package table

import (
	"fmt"
	"strings"
)

// DefaultPromptRows is the default bound on how many data rows are
// serialized into an AI prompt.
const DefaultPromptRows = 50

// PromptText renders the table as a CSV block suitable for an AI prompt.
// Truncation is deterministic: the header plus exactly the first maxRows
// data rows, head of table, with an explicit note of how many rows were
// omitted so the model knows the data is bounded.
func PromptText(t *Table, maxRows int) string {
	if maxRows <= 0 {
		maxRows = DefaultPromptRows
	}

	rows := t.Rows
	truncated := false
	if len(rows) > maxRows {
		rows = rows[:maxRows]
		truncated = true
	}

	var b strings.Builder
	b.WriteString(fmt.Sprintf("Columns: %s\n", strings.Join(t.Columns, ", ")))
	if truncated {
		b.WriteString(fmt.Sprintf("Data (showing first %d of %d rows):\n", maxRows, len(t.Rows)))
	} else {
		b.WriteString(fmt.Sprintf("Data (%d rows):\n", len(t.Rows)))
	}

	writeCSVLine(&b, t.Columns)
	for _, row := range rows {
		writeCSVLine(&b, row)
	}

	return b.String()
}

func writeCSVLine(b *strings.Builder, cells []string) {
	for i, cell := range cells {
		if i > 0 {
			b.WriteByte(',')
		}
		if needsQuoting(cell) {
			b.WriteByte('"')
			b.WriteString(strings.ReplaceAll(cell, `"`, `""`))
			b.WriteByte('"')
		} else {
			b.WriteString(cell)
		}
	}
	b.WriteByte('\n')
}

func needsQuoting(s string) bool {
	return strings.ContainsAny(s, ",\"\n\r")
}

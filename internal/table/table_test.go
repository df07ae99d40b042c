package table

import (
	"strings"
	"testing"
)

func testTable(t *testing.T) *Table {
	t.Helper()
	tbl, err := New(
		[]string{"Month", "Revenue", "Customers"},
		[][]string{
			{"Jan", "$1,200", "45"},
			{"Feb", "$1,850", "52"},
			{"Mar", "$2,400", "61"},
		},
	)
	if err != nil {
		t.Fatal(err)
	}
	return tbl
}

func TestNewPadsShortRows(t *testing.T) {
	tbl, err := New([]string{"A", "B", "C"}, [][]string{{"1"}, {"2", "3"}})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	for i, row := range tbl.Rows {
		if len(row) != 3 {
			t.Errorf("row %d has %d cells, want 3", i, len(row))
		}
	}
	if tbl.Rows[0][1] != "" {
		t.Errorf("padded cell = %q, want empty", tbl.Rows[0][1])
	}
}

func TestNewRejectsWideRows(t *testing.T) {
	_, err := New([]string{"A"}, [][]string{{"1", "2"}})
	if err == nil {
		t.Error("expected error for row wider than header")
	}
}

func TestNewRejectsNoColumns(t *testing.T) {
	_, err := New(nil, nil)
	if err == nil {
		t.Error("expected error for empty header")
	}
}

func TestColumnLookup(t *testing.T) {
	tbl := testTable(t)

	if !tbl.HasColumn("Revenue") {
		t.Error("HasColumn(Revenue) = false")
	}
	if tbl.HasColumn("Profit") {
		t.Error("HasColumn(Profit) = true")
	}

	col, err := tbl.Column("Month")
	if err != nil {
		t.Fatal(err)
	}
	if len(col) != 3 || col[2] != "Mar" {
		t.Errorf("Column(Month) = %v", col)
	}

	if _, err := tbl.Column("Missing"); err == nil {
		t.Error("expected error for missing column")
	}
}

func TestFloatsLenientParsing(t *testing.T) {
	tbl := testTable(t)

	floats, err := tbl.Floats("Revenue")
	if err != nil {
		t.Fatal(err)
	}
	want := []float64{1200, 1850, 2400}
	for i, f := range floats {
		if f != want[i] {
			t.Errorf("Floats(Revenue)[%d] = %v, want %v", i, f, want[i])
		}
	}

	if _, err := tbl.Floats("Month"); err == nil {
		t.Error("expected error for non-numeric column")
	}
}

func TestParseNumber(t *testing.T) {
	cases := []struct {
		in      string
		want    float64
		wantErr bool
	}{
		{"42", 42, false},
		{"$1,200.50", 1200.50, false},
		{"45%", 45, false},
		{" 12 ", 12, false},
		{"-3.5", -3.5, false},
		{"", 0, true},
		{"Jan", 0, true},
	}
	for _, c := range cases {
		got, err := ParseNumber(c.in)
		if c.wantErr {
			if err == nil {
				t.Errorf("ParseNumber(%q): expected error", c.in)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseNumber(%q): %v", c.in, err)
			continue
		}
		if got != c.want {
			t.Errorf("ParseNumber(%q) = %v, want %v", c.in, got, c.want)
		}
	}
}

func TestNumericColumns(t *testing.T) {
	tbl := testTable(t)
	cols := tbl.NumericColumns()
	if len(cols) != 2 || cols[0] != "Revenue" || cols[1] != "Customers" {
		t.Errorf("NumericColumns = %v", cols)
	}
}

func TestIsEmpty(t *testing.T) {
	tbl, err := New([]string{"A"}, nil)
	if err != nil {
		t.Fatal(err)
	}
	if !tbl.IsEmpty() {
		t.Error("table with no rows should be empty")
	}
	if testTable(t).IsEmpty() {
		t.Error("populated table should not be empty")
	}
}

func TestPromptTextTruncation(t *testing.T) {
	rows := make([][]string, 10)
	for i := range rows {
		rows[i] = []string{string(rune('a' + i)), "1"}
	}
	tbl, err := New([]string{"label", "value"}, rows)
	if err != nil {
		t.Fatal(err)
	}

	text := PromptText(tbl, 3)

	// Exactly the first 3 data rows survive, in order.
	if !strings.Contains(text, "a,1\nb,1\nc,1\n") {
		t.Errorf("prompt missing first 3 rows:\n%s", text)
	}
	if strings.Contains(text, "d,1") {
		t.Errorf("prompt contains row beyond the limit:\n%s", text)
	}
	if !strings.Contains(text, "showing first 3 of 10 rows") {
		t.Errorf("prompt missing truncation note:\n%s", text)
	}
}

func TestPromptTextNoTruncation(t *testing.T) {
	tbl := testTable(t)
	text := PromptText(tbl, 50)

	if strings.Contains(text, "showing first") {
		t.Errorf("unexpected truncation note:\n%s", text)
	}
	if !strings.Contains(text, "Jan,$1,200") && !strings.Contains(text, `Jan,"$1,200"`) {
		t.Errorf("prompt missing data row:\n%s", text)
	}
}

func TestPromptTextQuotesCommas(t *testing.T) {
	tbl, err := New([]string{"name"}, [][]string{{`a,b`}})
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(PromptText(tbl, 10), `"a,b"`) {
		t.Error("cell with comma should be quoted")
	}
}

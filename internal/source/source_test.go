package source

import (
	"context"
	"errors"
	"net/http"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/xuri/excelize/v2"
	"google.golang.org/api/googleapi"
)

func writeTestWorkbook(t *testing.T, rows [][]string) string {
	t.Helper()
	f := excelize.NewFile()
	for i, row := range rows {
		for j, cell := range row {
			ref, err := excelize.CoordinatesToCellName(j+1, i+1)
			if err != nil {
				t.Fatal(err)
			}
			if err := f.SetCellValue("Sheet1", ref, cell); err != nil {
				t.Fatal(err)
			}
		}
	}
	path := filepath.Join(t.TempDir(), "data.xlsx")
	if err := f.SaveAs(path); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestXLSXFetch(t *testing.T) {
	path := writeTestWorkbook(t, [][]string{
		{"Month", "Revenue"},
		{"Jan", "1200"},
		{"Feb", "1850"},
	})

	src, err := NewXLSXSource(path, "")
	if err != nil {
		t.Fatal(err)
	}

	tbl, err := src.Fetch(context.Background())
	if err != nil {
		t.Fatalf("Fetch failed: %v", err)
	}

	if !reflect.DeepEqual(tbl.Columns, []string{"Month", "Revenue"}) {
		t.Errorf("columns = %v", tbl.Columns)
	}
	if tbl.RowCount() != 2 {
		t.Errorf("rows = %d, want 2", tbl.RowCount())
	}
	if tbl.Rows[1][0] != "Feb" {
		t.Errorf("Rows[1][0] = %q", tbl.Rows[1][0])
	}
}

func TestXLSXFetchIdempotent(t *testing.T) {
	path := writeTestWorkbook(t, [][]string{
		{"x", "y"},
		{"1", "2"},
		{"2", "4"},
	})

	src, err := NewXLSXSource(path, "")
	if err != nil {
		t.Fatal(err)
	}

	first, err := src.Fetch(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	second, err := src.Fetch(context.Background())
	if err != nil {
		t.Fatal(err)
	}

	if !reflect.DeepEqual(first, second) {
		t.Error("two fetches of an unchanged workbook returned different tables")
	}
}

func TestXLSXFetchHeaderOnly(t *testing.T) {
	path := writeTestWorkbook(t, [][]string{{"Month", "Revenue"}})

	src, _ := NewXLSXSource(path, "")
	_, err := src.Fetch(context.Background())
	if !errors.Is(err, ErrEmptyData) {
		t.Errorf("err = %v, want ErrEmptyData", err)
	}
}

func TestXLSXFetchMissingFile(t *testing.T) {
	src, _ := NewXLSXSource("/nonexistent/data.xlsx", "")
	_, err := src.Fetch(context.Background())
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestXLSXFetchMissingWorksheet(t *testing.T) {
	path := writeTestWorkbook(t, [][]string{{"a"}, {"1"}})

	src, _ := NewXLSXSource(path, "Budget")
	_, err := src.Fetch(context.Background())
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestCSVFetch(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data.csv")
	content := "x,y\n1,2\n2,4\n"
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	src, err := NewCSVSource(path)
	if err != nil {
		t.Fatal(err)
	}

	tbl, err := src.Fetch(context.Background())
	if err != nil {
		t.Fatalf("Fetch failed: %v", err)
	}
	if tbl.RowCount() != 2 || tbl.Rows[1][1] != "4" {
		t.Errorf("unexpected table: %+v", tbl)
	}
}

func TestCSVFetchEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.csv")
	if err := os.WriteFile(path, []byte("x,y\n"), 0644); err != nil {
		t.Fatal(err)
	}

	src, _ := NewCSVSource(path)
	_, err := src.Fetch(context.Background())
	if !errors.Is(err, ErrEmptyData) {
		t.Errorf("err = %v, want ErrEmptyData", err)
	}
}

func TestCSVFetchMissingFile(t *testing.T) {
	src, _ := NewCSVSource("/nonexistent/data.csv")
	_, err := src.Fetch(context.Background())
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestNewSheetsSourceValidation(t *testing.T) {
	if _, err := NewSheetsSource("", "Sheet1", "creds.json"); err == nil {
		t.Error("expected error for empty spreadsheet ID")
	}

	src, err := NewSheetsSource("abc123", "", "creds.json")
	if err != nil {
		t.Fatal(err)
	}
	if src.Worksheet != DefaultWorksheet {
		t.Errorf("worksheet = %q, want %q", src.Worksheet, DefaultWorksheet)
	}
}

func TestSheetsFetchMissingCredentials(t *testing.T) {
	src, err := NewSheetsSource("abc123", "Sheet1", filepath.Join(t.TempDir(), "missing.json"))
	if err != nil {
		t.Fatal(err)
	}
	_, err = src.Fetch(context.Background())
	if !errors.Is(err, ErrAuthentication) {
		t.Errorf("err = %v, want ErrAuthentication", err)
	}
}

func TestClassifySheetsError(t *testing.T) {
	cases := []struct {
		code int
		want error
	}{
		{http.StatusUnauthorized, ErrAuthentication},
		{http.StatusForbidden, ErrAuthentication},
		{http.StatusNotFound, ErrNotFound},
		{http.StatusBadRequest, ErrNotFound},
	}
	for _, c := range cases {
		err := classifySheetsError(&googleapi.Error{Code: c.code}, "abc", "Sheet1")
		if !errors.Is(err, c.want) {
			t.Errorf("code %d: err = %v, want %v", c.code, err, c.want)
		}
	}

	err := classifySheetsError(errors.New("connection reset"), "abc", "Sheet1")
	if errors.Is(err, ErrAuthentication) || errors.Is(err, ErrNotFound) {
		t.Errorf("network error misclassified: %v", err)
	}
}

func TestTableFromRows(t *testing.T) {
	if _, err := tableFromRows(nil); !errors.Is(err, ErrEmptyData) {
		t.Error("nil rows should be empty data")
	}
	if _, err := tableFromRows([][]string{{"a", "b"}}); !errors.Is(err, ErrEmptyData) {
		t.Error("header-only rows should be empty data")
	}

	tbl, err := tableFromRows([][]string{{"a", "b"}, {"1"}})
	if err != nil {
		t.Fatal(err)
	}
	if tbl.Rows[0][1] != "" {
		t.Error("short row should be padded")
	}
}

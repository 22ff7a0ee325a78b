package spreadsheet

import (
	"errors"
	"testing"

	"github.com/xuri/excelize/v2"
)

func buildWorkbook(t *testing.T, rows [][]interface{}) []byte {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()
	sheet := f.GetSheetName(0)
	for i, cells := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			t.Fatalf("cell name: %v", err)
		}
		if err := f.SetSheetRow(sheet, cell, &cells); err != nil {
			t.Fatalf("set row: %v", err)
		}
	}
	buf, err := f.WriteToBuffer()
	if err != nil {
		t.Fatalf("write workbook: %v", err)
	}
	return buf.Bytes()
}

func TestParse_HeaderNamedRows(t *testing.T) {
	data := buildWorkbook(t, [][]interface{}{
		{"Name", "Email", "Account Number", "Balance"},
		{"Kim", "kim@x.com", "111-222-333", 5000000},
		{"Lee", "lee@x.com", "444-555-666", 1234567},
	})

	doc, err := Parse(data, "customers_2024-03-31.xlsx")
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	if doc.RowCount() != 2 {
		t.Fatalf("expected 2 data rows, got %d", doc.RowCount())
	}
	// Row order must follow the sheet.
	if doc.Rows[0]["name"] != "Kim" || doc.Rows[1]["name"] != "Lee" {
		t.Errorf("row order not preserved: %v", doc.Rows)
	}
	if doc.Rows[0]["account_number"] != "111-222-333" {
		t.Errorf("header normalization broken: %v", doc.Rows[0])
	}
	if doc.Rows[0]["balance"] != "5000000" {
		t.Errorf("expected raw numeric 5000000, got %q", doc.Rows[0]["balance"])
	}
}

func TestParse_PreservesRawDateSerials(t *testing.T) {
	data := buildWorkbook(t, [][]interface{}{
		{"Account Number", "Contract Date"},
		{"111-222-333", 45292},
	})

	doc, err := Parse(data, "upload.xlsx")
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	// The serial must survive as numeric text, not a formatted date.
	if got := doc.Rows[0]["contract_date"]; got != "45292" {
		t.Errorf("expected raw serial 45292, got %q", got)
	}
}

func TestParse_PositionalCell(t *testing.T) {
	data := buildWorkbook(t, [][]interface{}{
		{"Whatever The Header Says", "Second"},
		{"alpha", "beta"},
		{"gamma", "delta"},
	})

	doc, err := Parse(data, "overdue_2024-03-31.xlsx")
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if got := doc.Cell("B", 1); got != "delta" {
		t.Errorf("Cell(B,1) = %q, want delta", got)
	}
	if got := doc.Cell("Z", 0); got != "" {
		t.Errorf("out-of-range column should be empty, got %q", got)
	}
	if got := doc.Cell("A", 5); got != "" {
		t.Errorf("out-of-range row should be empty, got %q", got)
	}
}

func TestParse_EmptySheet(t *testing.T) {
	data := buildWorkbook(t, [][]interface{}{
		{"Name", "Email"},
	})
	if _, err := Parse(data, "empty.xlsx"); !errors.Is(err, ErrEmptyInput) {
		t.Errorf("expected ErrEmptyInput, got %v", err)
	}
}

func TestParse_MalformedBytes(t *testing.T) {
	if _, err := Parse([]byte("this is not a workbook"), "junk.xlsx"); !errors.Is(err, ErrMalformedInput) {
		t.Errorf("expected ErrMalformedInput, got %v", err)
	}
	if _, err := Parse([]byte{0x00, 0x01, 0x02}, "junk.bin"); !errors.Is(err, ErrMalformedInput) {
		t.Errorf("expected ErrMalformedInput for unknown extension, got %v", err)
	}
}

func TestNormalizeHeader(t *testing.T) {
	tests := []struct{ in, want string }{
		{"Account Number", "account_number"},
		{"  Email  ", "email"},
		{"End of Period Balance", "end_of_period_balance"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := NormalizeHeader(tt.in); got != tt.want {
			t.Errorf("NormalizeHeader(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

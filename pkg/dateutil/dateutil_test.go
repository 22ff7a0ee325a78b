package dateutil

import (
	"testing"
)

func TestNormalizeDate_Serials(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{"first day of epoch", "1", "1900-01-01"},
		{"day before anomaly", "59", "1900-02-28"},
		{"fictitious leap day maps forward", "60", "1900-03-01"},
		{"day after anomaly", "61", "1900-03-01"},
		{"post-anomaly arithmetic", "62", "1900-03-02"},
		{"modern date", "45292", "2024-01-01"},
		{"quarter end", "45382", "2024-03-31"},
		{"datetime serial truncates", "45292.75", "2024-01-01"},
		{"zero is not a date", "0", ""},
		{"negative is not a date", "-3", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NormalizeDate(tt.raw); got != tt.want {
				t.Errorf("NormalizeDate(%q) = %q, want %q", tt.raw, got, tt.want)
			}
		})
	}
}

func TestNormalizeDate_DelimitedStrings(t *testing.T) {
	// All three delimiters must produce the same ISO date.
	for _, raw := range []string{"2024.03.31", "2024-03-31", "2024/03/31"} {
		if got := NormalizeDate(raw); got != "2024-03-31" {
			t.Errorf("NormalizeDate(%q) = %q, want 2024-03-31", raw, got)
		}
	}

	tests := []struct {
		raw  string
		want string
	}{
		{"2024-1-5", "2024-01-05"},
		{"2024.12.01", "2024-12-01"},
		{"2024-13-01", ""}, // month out of range must not roll over
		{"2023-02-29", ""}, // non-leap-year Feb 29
		{"03/31/2024", "2024-03-31"},
		{"31 Mar 2024", "2024-03-31"},
		{"not a date", ""},
		{"", ""},
		{"   ", ""},
	}
	for _, tt := range tests {
		if got := NormalizeDate(tt.raw); got != tt.want {
			t.Errorf("NormalizeDate(%q) = %q, want %q", tt.raw, got, tt.want)
		}
	}
}

func TestExtractFileDate(t *testing.T) {
	got, err := ExtractFileDate("customers_2024-03-31.xlsx")
	if err != nil {
		t.Fatalf("ExtractFileDate failed: %v", err)
	}
	if got.Format(DateFormat) != "2024-03-31" {
		t.Errorf("expected 2024-03-31, got %s", got.Format(DateFormat))
	}
}

func TestExtractFileDate_SkipsInvalidMatch(t *testing.T) {
	// 2024-19-99 matches the pattern but is not a real date; the extractor
	// must keep scanning instead of failing on it.
	got, err := ExtractFileDate("report_2024-19-99_2024-06-30.xlsx")
	if err != nil {
		t.Fatalf("ExtractFileDate failed: %v", err)
	}
	if got.Format(DateFormat) != "2024-06-30" {
		t.Errorf("expected 2024-06-30, got %s", got.Format(DateFormat))
	}
}

func TestExtractFileDate_Missing(t *testing.T) {
	if _, err := ExtractFileDate("report.xlsx"); err != ErrMissingDate {
		t.Errorf("expected ErrMissingDate, got %v", err)
	}
}

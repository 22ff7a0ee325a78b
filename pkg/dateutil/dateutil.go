// Package dateutil normalizes the mixed date encodings found in uploaded
// spreadsheets. Exports from the upstream systems carry dates either as
// Excel day-count serials or as delimited text, sometimes both in the same
// column, so every cell goes through NormalizeDate before it is trusted.
package dateutil

import (
	"errors"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// DateFormat is the canonical calendar-date layout used everywhere in the
// system: ISO date, no time, no zone.
const DateFormat = "2006-01-02"

// ErrMissingDate is returned when a filename carries no reporting date.
var ErrMissingDate = errors.New("no YYYY-MM-DD date found in file name")

// excelEpoch is the day before serial 1, so serial 1 maps to 1900-01-01.
var excelEpoch = time.Date(1899, time.December, 31, 0, 0, 0, 0, time.UTC)

var (
	delimitedDatePattern = regexp.MustCompile(`^(\d{4})[./-](\d{1,2})[./-](\d{1,2})$`)
	fileDatePattern      = regexp.MustCompile(`\d{4}-\d{2}-\d{2}`)
)

// genericLayouts are tried last, for the occasional export that uses a
// locale-formatted date column.
var genericLayouts = []string{
	"2006-01-02 15:04:05",
	"01/02/2006",
	"2 Jan 2006",
	"Jan 2, 2006",
	time.RFC3339,
}

// NormalizeDate converts a raw cell value of unknown shape into a canonical
// YYYY-MM-DD string. Numeric values (or numeric-looking strings) are treated
// as Excel day-count serials; delimited YYYY[./-]MM[./-]DD strings are parsed
// component-wise; anything else falls through to generic layout parsing.
// It returns "" when the value cannot be read as a date, leaving the caller
// to decide whether that is fatal for the row.
func NormalizeDate(raw string) string {
	v := strings.TrimSpace(raw)
	if v == "" {
		return ""
	}

	if serial, err := strconv.ParseFloat(v, 64); err == nil {
		return serialToDate(serial)
	}

	if m := delimitedDatePattern.FindStringSubmatch(v); m != nil {
		year, _ := strconv.Atoi(m[1])
		month, _ := strconv.Atoi(m[2])
		day, _ := strconv.Atoi(m[3])
		t := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
		// time.Date normalizes out-of-range components (2024-13-01 becomes
		// 2025-01-01); reject anything that did not round-trip.
		if t.Year() != year || int(t.Month()) != month || t.Day() != day {
			return ""
		}
		return t.Format(DateFormat)
	}

	for _, layout := range genericLayouts {
		if t, err := time.Parse(layout, v); err == nil {
			return t.Format(DateFormat)
		}
	}
	return ""
}

// serialToDate applies Excel's 1900 date system: serial 1 is 1900-01-01 and
// the format counts a fictitious 1900-02-29 as day 60, so serials above 60
// are decremented by one before the epoch arithmetic.
func serialToDate(serial float64) string {
	days := int(serial)
	if days <= 0 {
		return ""
	}
	if days > 60 {
		days--
	}
	return excelEpoch.AddDate(0, 0, days).Format(DateFormat)
}

// ExtractFileDate finds the reporting date embedded in an uploaded file's
// name: the first YYYY-MM-DD substring, validated as a real calendar date.
// Uploads without one are rejected; guessing a date would stamp an entire
// batch of balance records with the wrong reporting period.
func ExtractFileDate(filename string) (time.Time, error) {
	for _, match := range fileDatePattern.FindAllString(filename, -1) {
		if t, err := time.Parse(DateFormat, match); err == nil {
			return t, nil
		}
	}
	return time.Time{}, ErrMissingDate
}

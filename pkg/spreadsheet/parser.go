// Package spreadsheet decodes uploaded workbook bytes into ordered row
// records. Values are kept exactly as stored in the file: a cell holding an
// Excel date serial comes back as its numeric text, never pre-formatted,
// so downstream date handling sees the original encoding.
package spreadsheet

import (
	"bytes"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/shakinm/xlsReader/xls"
	"github.com/xuri/excelize/v2"
)

var (
	// ErrEmptyInput is returned when the first sheet has no data rows.
	ErrEmptyInput = errors.New("spreadsheet has no data rows")
	// ErrMalformedInput is returned when the bytes cannot be decoded as a
	// supported workbook format (.xlsx or .xls).
	ErrMalformedInput = errors.New("file is not a readable spreadsheet")
)

// Row is a single data row keyed by normalized header text.
type Row map[string]string

// Document is the parsed first sheet of an uploaded workbook: a
// header-named view (Rows) plus raw positional access (Cell) for the
// columns whose header text cannot be trusted across exports.
type Document struct {
	Headers []string
	Rows    []Row
	grid    [][]string // raw cells including the header row
}

// Parse decodes workbook bytes. The filename only selects the decoder by
// extension; unknown extensions fall back to trying both formats.
func Parse(data []byte, filename string) (*Document, error) {
	var grid [][]string
	var err error

	switch strings.ToLower(filepath.Ext(filename)) {
	case ".xlsx":
		grid, err = readXLSX(data)
	case ".xls":
		grid, err = readXLS(data)
	default:
		grid, err = readXLSX(data)
		if err != nil {
			grid, err = readXLS(data)
		}
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedInput, err)
	}
	if len(grid) < 2 {
		return nil, ErrEmptyInput
	}

	doc := &Document{grid: grid}
	for _, h := range grid[0] {
		doc.Headers = append(doc.Headers, NormalizeHeader(h))
	}
	for _, cells := range grid[1:] {
		row := make(Row, len(doc.Headers))
		for i, h := range doc.Headers {
			if h == "" {
				continue
			}
			if i < len(cells) {
				row[h] = strings.TrimSpace(cells[i])
			} else {
				row[h] = ""
			}
		}
		doc.Rows = append(doc.Rows, row)
	}
	return doc, nil
}

// RowCount returns the number of data rows.
func (d *Document) RowCount() int {
	return len(d.Rows)
}

// Cell returns the raw value of a data row's cell addressed by spreadsheet
// column letter, independent of header text. dataRow is zero-based over the
// data rows (the header row is not addressable).
func (d *Document) Cell(column string, dataRow int) string {
	idx, err := excelize.ColumnNameToNumber(column)
	if err != nil || dataRow < 0 || dataRow+1 >= len(d.grid) {
		return ""
	}
	cells := d.grid[dataRow+1]
	if idx-1 >= len(cells) {
		return ""
	}
	return strings.TrimSpace(cells[idx-1])
}

// NormalizeHeader maps header text to a lookup key: trimmed, lowercased,
// inner whitespace collapsed to underscores.
func NormalizeHeader(h string) string {
	h = strings.ToLower(strings.TrimSpace(h))
	return strings.Join(strings.Fields(h), "_")
}

func readXLSX(data []byte) ([][]string, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	defer f.Close()

	sheet := f.GetSheetName(0)
	if sheet == "" {
		return nil, errors.New("workbook has no sheets")
	}
	// RawCellValue keeps date serials numeric instead of applying the
	// cell's display format.
	return f.GetRows(sheet, excelize.Options{RawCellValue: true})
}

func readXLS(data []byte) ([][]string, error) {
	book, err := xls.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	if len(book.GetSheets()) == 0 {
		return nil, errors.New("workbook has no sheets")
	}
	sheet, err := book.GetSheet(0)
	if err != nil {
		return nil, err
	}

	var grid [][]string
	for _, r := range sheet.GetRows() {
		var cells []string
		for _, c := range r.GetCols() {
			cells = append(cells, c.GetString())
		}
		grid = append(grid, cells)
	}
	return grid, nil
}

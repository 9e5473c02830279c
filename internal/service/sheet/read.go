// Package sheet turns uploaded timecard and masterlist files into raw string grids
// and locates their header rows.
package sheet

import (
	"bytes"
	"encoding/csv"
	"io"
	"path/filepath"
	"strings"

	"github.com/extrame/xls"
	"github.com/pkg/errors"
	"github.com/xuri/excelize/v2"
)

var (
	ErrUnsupportedFormat = errors.New("unsupported file format")
	ErrEmptySheet        = errors.New("worksheet is empty")
)

// maxXLSRows bounds how many rows are pulled out of a legacy .xls workbook.
const maxXLSRows = 100000

// Grid is an untyped sheet: no header assumed, rows may be ragged.
type Grid [][]string

// Cell returns the trimmed value at (row, col) or "" when out of range.
func (g Grid) Cell(row, col int) string {
	if row < 0 || row >= len(g) {
		return ""
	}
	return cellValue(g[row], col)
}

func cellValue(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

func blankRow(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}

// SupportedExtensions lists what ReadGrid understands.
var SupportedExtensions = []string{".csv", ".xlsx", ".xlsm", ".xls"}

// ReadGrid reads the first worksheet of a CSV, XLSX, XLSM or XLS file.
func ReadGrid(reader io.Reader, filename string) (Grid, error) {
	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, errors.Wrapf(err, "reading %s", filename)
	}

	var rows [][]string
	switch ext := strings.ToLower(filepath.Ext(filename)); ext {
	case ".csv":
		rows, err = readCSV(data)
	case ".xls":
		rows, err = readXLS(data)
	case ".xlsx", ".xlsm":
		rows, err = readXLSX(data)
	default:
		return nil, errors.Wrapf(ErrUnsupportedFormat, "%s (%q)", filename, ext)
	}
	if err != nil {
		return nil, errors.Wrapf(err, "reading %s", filename)
	}

	for len(rows) > 0 && blankRow(rows[len(rows)-1]) {
		rows = rows[:len(rows)-1]
	}
	if len(rows) == 0 {
		return nil, errors.Wrap(ErrEmptySheet, filename)
	}
	return Grid(rows), nil
}

func readCSV(data []byte) ([][]string, error) {
	data = bytes.TrimPrefix(data, []byte("\xef\xbb\xbf"))

	r := csv.NewReader(bytes.NewReader(data))
	r.FieldsPerRecord = -1
	r.LazyQuotes = true
	r.TrimLeadingSpace = true

	rows, err := r.ReadAll()
	if err != nil {
		return nil, errors.Wrap(err, "parsing csv")
	}
	return rows, nil
}

func readXLS(data []byte) ([][]string, error) {
	workbook, err := xls.OpenReader(bytes.NewReader(data), "utf-8")
	if err != nil {
		return nil, errors.Wrap(err, "opening xls workbook")
	}
	if workbook.NumSheets() == 0 {
		return nil, ErrEmptySheet
	}
	return workbook.ReadAllCells(maxXLSRows), nil
}

func readXLSX(data []byte) ([][]string, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, errors.Wrap(err, "opening workbook")
	}
	defer func() { _ = f.Close() }()

	sheetName := f.GetSheetName(0)
	if sheetName == "" {
		return nil, ErrEmptySheet
	}

	// Raw values keep date cells as serial numbers instead of locale formatted text.
	rows, err := f.GetRows(sheetName, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, errors.Wrapf(err, "reading sheet %s", sheetName)
	}
	return rows, nil
}

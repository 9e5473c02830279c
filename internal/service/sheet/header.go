package sheet

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"
)

// headerScanRows is how far down the masterlist the header row is searched for.
const headerScanRows = 50

// Table is a grid split into a unique header and its data rows.
type Table struct {
	Header    []string
	Rows      [][]string
	Lines     []int // 1-based source line of each data row
	HeaderRow int   // 0-based row of the header in the source grid
}

func (t Table) Cell(row, col int) string {
	if row < 0 || row >= len(t.Rows) {
		return ""
	}
	return cellValue(t.Rows[row], col)
}

// Width is the widest of the header and the data rows.
func (t Table) Width() int {
	w := len(t.Header)
	for _, r := range t.Rows {
		if len(r) > w {
			w = len(r)
		}
	}
	return w
}

// UniqueHeaders trims header names and renames repeats as name_2, name_3, ...
// skipping any suffix already taken by another column.
func UniqueHeaders(header []string) []string {
	counts := make(map[string]int, len(header))
	used := make(map[string]bool, len(header))
	out := make([]string, 0, len(header))
	for _, h := range header {
		base := strings.TrimSpace(h)
		counts[base]++
		name := base
		if counts[base] > 1 {
			name = fmt.Sprintf("%s_%d", base, counts[base])
		}
		for used[name] {
			counts[base]++
			name = fmt.Sprintf("%s_%d", base, counts[base])
		}
		used[name] = true
		out = append(out, name)
	}
	return out
}

// FindHeaderRow returns the first of the leading 50 rows with one cell mentioning
// "name" and one mentioning "join". ok is false when no row qualifies.
func FindHeaderRow(g Grid) (int, bool) {
	limit := len(g)
	if limit > headerScanRows {
		limit = headerScanRows
	}
	for i := 0; i < limit; i++ {
		var hasName, hasJoin bool
		for _, c := range g[i] {
			lc := strings.ToLower(c)
			hasName = hasName || strings.Contains(lc, "name")
			hasJoin = hasJoin || strings.Contains(lc, "join")
		}
		if hasName && hasJoin {
			return i, true
		}
	}
	return 0, false
}

// NewTable uses row headerRow of g as the header and everything below as data.
// Fully blank data rows are dropped.
func NewTable(g Grid, headerRow int) (Table, error) {
	if headerRow < 0 || headerRow >= len(g) {
		return Table{}, errors.Wrapf(ErrEmptySheet, "header row %d out of range", headerRow+1)
	}

	t := Table{
		Header:    UniqueHeaders(g[headerRow]),
		HeaderRow: headerRow,
	}
	for i, row := range g[headerRow+1:] {
		if blankRow(row) {
			continue
		}
		t.Rows = append(t.Rows, row)
		t.Lines = append(t.Lines, headerRow+i+2)
	}
	return t, nil
}

// LoadMasterlist detects the header row of a raw masterlist grid, falling back to
// the first row.
func LoadMasterlist(g Grid) (Table, error) {
	row, _ := FindHeaderRow(g)
	return NewTable(g, row)
}

// LoadTimecard treats the first row of the grid as the header.
func LoadTimecard(g Grid) (Table, error) {
	return NewTable(g, 0)
}

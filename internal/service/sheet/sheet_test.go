package sheet

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func workbook(t *testing.T, rows [][]interface{}) *bytes.Buffer {
	t.Helper()

	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		r := row
		require.NoError(t, f.SetSheetRow("Sheet1", cell, &r))
	}

	buf, err := f.WriteToBuffer()
	require.NoError(t, err)
	return buf
}

func TestReadGridXLSX(t *testing.T) {
	buf := workbook(t, [][]interface{}{
		{"Date", "Name", "Emp No", "IN", "OUT"},
		{time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC), "Jane Doe", 123, "08:00", "17:00"},
		{},
	})

	g, err := ReadGrid(buf, "timecard.xlsx")
	require.NoError(t, err)
	require.Len(t, g, 2)
	assert.Equal(t, "Date", g.Cell(0, 0))
	assert.Equal(t, "45306", g.Cell(1, 0))
	assert.Equal(t, "Jane Doe", g.Cell(1, 1))
	assert.Equal(t, "123", g.Cell(1, 2))
	assert.Equal(t, "", g.Cell(1, 9))
	assert.Equal(t, "", g.Cell(7, 0))
}

func TestReadGridCSV(t *testing.T) {
	data := "\xef\xbb\xbfDate,Name,Emp No,IN,OUT\n15/01/2024, Jane Doe ,123,08:00,17:00\n16/01/2024,John,124\n\n"

	g, err := ReadGrid(strings.NewReader(data), "TIMECARD.CSV")
	require.NoError(t, err)
	require.Len(t, g, 3)
	assert.Equal(t, "Date", g.Cell(0, 0))
	assert.Equal(t, "Jane Doe", g.Cell(1, 1))
	assert.Equal(t, "", g.Cell(2, 3))
}

func TestReadGridErrors(t *testing.T) {
	t.Run("unsupported extension", func(t *testing.T) {
		_, err := ReadGrid(strings.NewReader("x"), "timecard.pdf")
		require.Error(t, err)
		assert.Equal(t, ErrUnsupportedFormat, errors.Cause(err))
	})

	t.Run("empty csv", func(t *testing.T) {
		_, err := ReadGrid(strings.NewReader("\n,,\n"), "timecard.csv")
		require.Error(t, err)
		assert.Equal(t, ErrEmptySheet, errors.Cause(err))
	})

	t.Run("corrupt workbook", func(t *testing.T) {
		_, err := ReadGrid(strings.NewReader("not a zip"), "masterlist.xlsx")
		assert.Error(t, err)
	})
}

func TestUniqueHeaders(t *testing.T) {
	got := UniqueHeaders([]string{" Name", "IN", "OUT", "IN", "OUT ", "IN"})
	assert.Equal(t, []string{"Name", "IN", "OUT", "IN_2", "OUT_2", "IN_3"}, got)

	assert.Equal(t, []string{"a", "a_2", "a_2_2"}, UniqueHeaders([]string{"a", "a", "a_2"}))
	assert.Equal(t, []string{"a_2", "a", "a_3"}, UniqueHeaders([]string{"a_2", "a", "a"}))
	assert.Equal(t, []string{"", "_2"}, UniqueHeaders([]string{" ", ""}))
}

func TestLoadMasterlist(t *testing.T) {
	t.Run("header found below a title block", func(t *testing.T) {
		g := Grid{
			{"ACME Agency Masterlist"},
			{"Generated 2024-02-01"},
			{},
			{"Employee Name", "Joined Date", "Recruiter", "Recruiter"},
			{"Jane Doe", "2024-01-01", "john smith", "x"},
			{},
			{"Ali", "2024-01-10"},
		}

		tbl, err := LoadMasterlist(g)
		require.NoError(t, err)
		assert.Equal(t, 3, tbl.HeaderRow)
		assert.Equal(t, []string{"Employee Name", "Joined Date", "Recruiter", "Recruiter_2"}, tbl.Header)
		require.Len(t, tbl.Rows, 2)
		assert.Equal(t, []int{5, 7}, tbl.Lines)
		assert.Equal(t, "Ali", tbl.Cell(1, 0))
		assert.Equal(t, 4, tbl.Width())
	})

	t.Run("falls back to the first row", func(t *testing.T) {
		g := Grid{
			{"Staff", "Start", "Agent"},
			{"Jane Doe", "2024-01-01", "Bob"},
		}

		tbl, err := LoadMasterlist(g)
		require.NoError(t, err)
		assert.Equal(t, 0, tbl.HeaderRow)
		assert.Equal(t, []string{"Staff", "Start", "Agent"}, tbl.Header)
		assert.Len(t, tbl.Rows, 1)
	})

	t.Run("header beyond the scan range is ignored", func(t *testing.T) {
		g := make(Grid, 0, 60)
		for i := 0; i < 55; i++ {
			g = append(g, []string{"filler"})
		}
		g = append(g, []string{"Name", "Join Date"})

		row, ok := FindHeaderRow(g)
		assert.False(t, ok)
		assert.Equal(t, 0, row)
	})
}

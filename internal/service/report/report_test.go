package report

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"claimtable/backend/internal/entity"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func sampleReport() *entity.Report {
	rate := decimal.NewFromInt(3)
	return &entity.Report{
		RunID:       "run",
		GeneratedAt: time.Date(2024, 5, 2, 14, 5, 0, 0, time.UTC),
		Currency:    "RM",
		Months: []entity.MonthReport{
			{
				Month: "2024-01",
				Claims: []entity.MonthlyClaimRow{
					{EmployeeName: "Jane", RecruiterName: "Alice", TotalWorkingDays: 20},
					{EmployeeName: "Ken", RecruiterName: "Bob", TotalWorkingDays: 5},
				},
				Summary: []entity.RecruiterSummaryRow{
					{RecruiterName: "Alice", TotalWorkingDays: 20, Rate: rate, Amount: decimal.NewFromInt(60)},
					{RecruiterName: "Bob", TotalWorkingDays: 5, Rate: rate, Amount: decimal.NewFromInt(15)},
				},
				Grand: entity.GrandTotalRow{TotalWorkingDays: 25, Rate: rate, Amount: decimal.NewFromInt(75)},
			},
			{
				Month:   "2024-02",
				Claims:  []entity.MonthlyClaimRow{{EmployeeName: "Jane", RecruiterName: "Alice", TotalWorkingDays: 1}},
				Summary: []entity.RecruiterSummaryRow{{RecruiterName: "Alice", TotalWorkingDays: 1, Rate: rate, Amount: rate}},
				Grand:   entity.GrandTotalRow{TotalWorkingDays: 1, Rate: rate, Amount: rate},
			},
		},
	}
}

func openWorkbook(t *testing.T, buf *bytes.Buffer) *excelize.File {
	t.Helper()
	f, err := excelize.OpenReader(buf, excelize.Options{RawCellValue: true})
	require.NoError(t, err)
	t.Cleanup(func() { _ = f.Close() })
	return f
}

func TestWriteWorkbook(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteWorkbook(&buf, sampleReport()))

	f := openWorkbook(t, &buf)
	assert.Equal(t, []string{"2024-01", "2024-02"}, f.GetSheetList())

	want := map[string]string{
		"A1":  "Employee",
		"C1":  "Total Working Days",
		"A2":  "Jane",
		"B2":  "Alice",
		"C2":  "20",
		"A3":  "Ken",
		"A5":  "Per-Recruiter Summary",
		"C6":  "Rate (RM)",
		"D6":  "Amount (RM)",
		"A7":  "Alice",
		"D7":  "60",
		"A8":  "Bob",
		"D8":  "15",
		"A10": "Grand Total",
		"A11": "Recruiter",
		"A12": "TOTAL",
		"B12": "25",
		"C12": "3",
		"D12": "75",
		"A15": "Verified by",
		"C15": "Acknowledged by",
		"A18": "Name & Signature",
		"C18": "Name & Signature",
		"A19": "Date:",
		"C19": "Date:",
	}
	for ref, v := range want {
		got, err := f.GetCellValue("2024-01", ref)
		require.NoError(t, err)
		assert.Equal(t, v, got, ref)
	}

	merged, err := f.GetMergeCells("2024-01")
	require.NoError(t, err)
	assert.Len(t, merged, 8)

	got, err := f.GetCellValue("2024-02", "C2")
	require.NoError(t, err)
	assert.Equal(t, "1", got)
}

func TestWriteWorkbookEmpty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteWorkbook(&buf, &entity.Report{}))

	f := openWorkbook(t, &buf)
	assert.Equal(t, []string{"Claims"}, f.GetSheetList())
	got, err := f.GetCellValue("Claims", "A1")
	require.NoError(t, err)
	assert.Equal(t, NoDataMessage, got)
}

func TestSheetName(t *testing.T) {
	assert.Equal(t, "2024-01", SheetName("2024-01"))
	assert.Len(t, []rune(SheetName(strings.Repeat("é", 40))), 31)
}

func TestWritePDF(t *testing.T) {
	assert.Equal(t, 2, buildPDF(sampleReport()).PageCount())
	assert.Equal(t, 1, buildPDF(&entity.Report{}).PageCount())

	var buf bytes.Buffer
	require.NoError(t, WritePDF(&buf, sampleReport()))
	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("%PDF-")))
}

func TestWriteCSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, sampleReport()))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 4)
	assert.Equal(t, "month,employee,recruiter,total_working_days,rate,amount,currency", lines[0])
	assert.Equal(t, "2024-01,Jane,Alice,20,3.00,60.00,RM", lines[1])
	assert.Equal(t, "2024-01,Ken,Bob,5,3.00,15.00,RM", lines[2])
	assert.Equal(t, "2024-02,Jane,Alice,1,3.00,3.00,RM", lines[3])
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in   string
		want Format
	}{
		{"", FormatXLSX},
		{"xlsx", FormatXLSX},
		{".PDF", FormatPDF},
		{" csv ", FormatCSV},
	}
	for _, tt := range tests {
		got, err := ParseFormat(tt.in)
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got)
	}

	_, err := ParseFormat("docx")
	assert.Equal(t, ErrUnknownFormat, errors.Cause(err))

	assert.Equal(t, ".pdf", FormatPDF.Ext())
	assert.Equal(t, "text/csv", FormatCSV.ContentType())
	assert.Equal(t, "claim_tables_20240502_1405.csv", sampleReport().FileName(FormatCSV.Ext()))
}

func TestFormatWrite(t *testing.T) {
	for _, f := range []Format{FormatXLSX, FormatPDF, FormatCSV} {
		var buf bytes.Buffer
		require.NoError(t, f.Write(&buf, sampleReport()), string(f))
		assert.NotZero(t, buf.Len(), string(f))
	}
	assert.Error(t, Format("docx").Write(&bytes.Buffer{}, sampleReport()))
}

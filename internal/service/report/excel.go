package report

import (
	"fmt"
	"io"
	"unicode/utf8"

	"claimtable/backend/internal/entity"

	"github.com/pkg/errors"
	"github.com/xuri/excelize/v2"
)

const (
	defaultSheet = "Sheet1"
	emptySheet   = "Claims"

	// NoDataMessage is written instead of tables when nothing was eligible.
	NoDataMessage = "No eligible attendance found for the uploaded files."

	maxSheetName = 31
)

type workbookStyles struct {
	bold   int
	header int
	money  int
	line   int
	center int
}

func newStyles(f *excelize.File) (workbookStyles, error) {
	var (
		s   workbookStyles
		err error
	)
	if s.bold, err = f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}}); err != nil {
		return s, err
	}
	if s.header, err = f.NewStyle(&excelize.Style{
		Font:   &excelize.Font{Bold: true},
		Border: []excelize.Border{{Type: "bottom", Color: "000000", Style: 1}},
	}); err != nil {
		return s, err
	}
	if s.money, err = f.NewStyle(&excelize.Style{NumFmt: 4}); err != nil {
		return s, err
	}
	if s.line, err = f.NewStyle(&excelize.Style{
		Border: []excelize.Border{{Type: "top", Color: "000000", Style: 1}},
	}); err != nil {
		return s, err
	}
	if s.center, err = f.NewStyle(&excelize.Style{
		Alignment: &excelize.Alignment{Horizontal: "center"},
	}); err != nil {
		return s, err
	}
	return s, nil
}

// SheetName is the worksheet name of a month, cut to the 31 characters Excel allows.
func SheetName(month string) string {
	if utf8.RuneCountInString(month) <= maxSheetName {
		return month
	}
	return string([]rune(month)[:maxSheetName])
}

// WriteWorkbook renders one worksheet per month, oldest first.
func WriteWorkbook(w io.Writer, r *entity.Report) error {
	f := excelize.NewFile()
	defer f.Close()

	styles, err := newStyles(f)
	if err != nil {
		return errors.Wrap(err, "creating workbook styles")
	}

	if len(r.Months) == 0 {
		if err := f.SetSheetName(defaultSheet, emptySheet); err != nil {
			return err
		}
		if err := f.SetCellValue(emptySheet, "A1", NoDataMessage); err != nil {
			return err
		}
		if err := f.SetColWidth(emptySheet, "A", "A", 60); err != nil {
			return err
		}
	}

	for i, m := range r.Months {
		name := SheetName(m.Month)
		if i == 0 {
			err = f.SetSheetName(defaultSheet, name)
		} else {
			_, err = f.NewSheet(name)
		}
		if err != nil {
			return errors.Wrapf(err, "creating sheet %s", name)
		}
		if err := writeMonth(f, name, m, currencyOf(r), styles); err != nil {
			return errors.Wrapf(err, "writing sheet %s", name)
		}
	}
	f.SetActiveSheet(0)

	if _, err := f.WriteTo(w); err != nil {
		return errors.Wrap(err, "writing workbook")
	}
	return nil
}

func currencyOf(r *entity.Report) string {
	if r.Currency == "" {
		return "RM"
	}
	return r.Currency
}

func cell(col, row int) string {
	name, _ := excelize.CoordinatesToCellName(col, row)
	return name
}

func writeMonth(f *excelize.File, sheet string, m entity.MonthReport, currency string, st workbookStyles) error {
	if err := f.SetColWidth(sheet, "A", "B", 28); err != nil {
		return err
	}
	if err := f.SetColWidth(sheet, "C", "D", 20); err != nil {
		return err
	}

	// claim table
	row := 1
	if err := writeRow(f, sheet, row, st.header, ClaimHeader()...); err != nil {
		return err
	}
	for _, c := range m.Claims {
		row++
		if err := writeRow(f, sheet, row, 0, c.EmployeeName, c.RecruiterName, c.TotalWorkingDays); err != nil {
			return err
		}
	}

	// per-recruiter summary
	row += 2
	if err := writeRow(f, sheet, row, st.bold, "Per-Recruiter Summary"); err != nil {
		return err
	}
	row++
	if err := writeRow(f, sheet, row, st.header, SummaryHeader(currency)...); err != nil {
		return err
	}
	for _, s := range m.Summary {
		row++
		if err := writeRow(f, sheet, row, 0, s.RecruiterName, s.TotalWorkingDays, s.Rate.InexactFloat64(), s.Amount.InexactFloat64()); err != nil {
			return err
		}
		if err := f.SetCellStyle(sheet, cell(3, row), cell(4, row), st.money); err != nil {
			return err
		}
	}

	// grand total
	row += 2
	if err := writeRow(f, sheet, row, st.bold, "Grand Total"); err != nil {
		return err
	}
	row++
	if err := writeRow(f, sheet, row, st.header, SummaryHeader(currency)...); err != nil {
		return err
	}
	row++
	if err := writeRow(f, sheet, row, st.bold, GrandTotalLabel, m.Grand.TotalWorkingDays, m.Grand.Rate.InexactFloat64(), m.Grand.Amount.InexactFloat64()); err != nil {
		return err
	}

	return writeSignatures(f, sheet, row+3, st)
}

// writeSignatures lays out "Verified by" over columns A:B and "Acknowledged by"
// over C:D, each with a ruled line, a caption and a date line.
func writeSignatures(f *excelize.File, sheet string, row int, st workbookStyles) error {
	blocks := []struct {
		from, to int
		title    string
	}{
		{1, 2, "Verified by"},
		{3, 4, "Acknowledged by"},
	}
	for _, b := range blocks {
		lines := []struct {
			offset int
			text   string
			style  int
		}{
			{0, b.title, st.bold},
			{2, "", st.line},
			{3, "Name & Signature", st.center},
			{4, "Date:", st.center},
		}
		for _, l := range lines {
			from, to := cell(b.from, row+l.offset), cell(b.to, row+l.offset)
			if err := f.MergeCell(sheet, from, to); err != nil {
				return err
			}
			if err := f.SetCellValue(sheet, from, l.text); err != nil {
				return err
			}
			if err := f.SetCellStyle(sheet, from, to, l.style); err != nil {
				return err
			}
		}
	}
	return nil
}

func writeRow(f *excelize.File, sheet string, row, style int, values ...interface{}) error {
	if err := f.SetSheetRow(sheet, cell(1, row), &values); err != nil {
		return err
	}
	if style == 0 {
		return nil
	}
	return f.SetCellStyle(sheet, cell(1, row), cell(len(values), row), style)
}

// GrandTotalLabel fills the recruiter column of the grand total row.
const GrandTotalLabel = "TOTAL"

func ClaimHeader() []interface{} {
	return []interface{}{"Employee", "Recruiter", "Total Working Days"}
}

func SummaryHeader(currency string) []interface{} {
	return []interface{}{
		"Recruiter",
		"Total Working Days",
		fmt.Sprintf("Rate (%s)", currency),
		fmt.Sprintf("Amount (%s)", currency),
	}
}

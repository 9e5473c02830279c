package report

import (
	"fmt"
	"io"
	"strconv"

	"claimtable/backend/internal/entity"

	"github.com/jung-kurt/gofpdf/v2"
	"github.com/pkg/errors"
)

const (
	pageWidth = 190.0
	rowHeight = 7.0
)

// WritePDF renders a printable claim sheet with one A4 page per month.
func WritePDF(w io.Writer, r *entity.Report) error {
	pdf := buildPDF(r)
	if err := pdf.Output(w); err != nil {
		return errors.Wrap(err, "writing pdf")
	}
	return nil
}

func buildPDF(r *entity.Report) *gofpdf.Fpdf {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle("Agency Claim Tables", true)
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	currency := currencyOf(r)

	if len(r.Months) == 0 {
		pdf.AddPage()
		pdf.SetFont("Arial", "", 12)
		pdf.Cell(0, 10, NoDataMessage)
		return pdf
	}

	for _, m := range r.Months {
		pdf.AddPage()
		pdf.SetFont("Arial", "B", 16)
		pdf.Cell(0, 10, "Agency Claim "+m.Month)
		pdf.Ln(12)

		claimCols := []float64{80, 70, 40}
		tableHeader(pdf, claimCols, ClaimHeader())
		pdf.SetFont("Arial", "", 10)
		for _, c := range m.Claims {
			tableRow(pdf, claimCols, tr(c.EmployeeName), tr(c.RecruiterName), strconv.Itoa(c.TotalWorkingDays))
		}
		pdf.Ln(6)

		sumCols := []float64{70, 40, 40, 40}
		pdf.SetFont("Arial", "B", 12)
		pdf.Cell(0, 8, "Per-Recruiter Summary")
		pdf.Ln(9)
		tableHeader(pdf, sumCols, SummaryHeader(currency))
		pdf.SetFont("Arial", "", 10)
		for _, s := range m.Summary {
			tableRow(pdf, sumCols, tr(s.RecruiterName), strconv.Itoa(s.TotalWorkingDays), s.Rate.StringFixed(2), s.Amount.StringFixed(2))
		}
		pdf.Ln(6)

		pdf.SetFont("Arial", "B", 12)
		pdf.Cell(0, 8, "Grand Total")
		pdf.Ln(9)
		tableHeader(pdf, sumCols, SummaryHeader(currency))
		pdf.SetFont("Arial", "B", 10)
		tableRow(pdf, sumCols, GrandTotalLabel, strconv.Itoa(m.Grand.TotalWorkingDays), m.Grand.Rate.StringFixed(2), m.Grand.Amount.StringFixed(2))

		signatures(pdf)
	}
	return pdf
}

func tableHeader(pdf *gofpdf.Fpdf, widths []float64, titles []interface{}) {
	pdf.SetFont("Arial", "B", 10)
	pdf.SetFillColor(230, 230, 230)
	for i, t := range titles {
		pdf.CellFormat(widths[i], rowHeight, fmt.Sprint(t), "1", 0, "L", true, 0, "")
	}
	pdf.Ln(-1)
}

func tableRow(pdf *gofpdf.Fpdf, widths []float64, values ...string) {
	for i, v := range values {
		align := "R"
		if i == 0 || i == 1 && len(values) == 3 {
			align = "L"
		}
		pdf.CellFormat(widths[i], rowHeight, v, "1", 0, align, false, 0, "")
	}
	pdf.Ln(-1)
}

func signatures(pdf *gofpdf.Fpdf) {
	half := pageWidth/2 - 10
	gap := 20.0

	pdf.Ln(18)
	pdf.SetFont("Arial", "B", 11)
	pdf.CellFormat(half, rowHeight, "Verified by", "", 0, "L", false, 0, "")
	pdf.Cell(gap, rowHeight, "")
	pdf.CellFormat(half, rowHeight, "Acknowledged by", "", 1, "L", false, 0, "")

	pdf.Ln(14)
	pdf.SetFont("Arial", "", 10)
	pdf.CellFormat(half, rowHeight, "Name & Signature", "T", 0, "C", false, 0, "")
	pdf.Cell(gap, rowHeight, "")
	pdf.CellFormat(half, rowHeight, "Name & Signature", "T", 1, "C", false, 0, "")

	pdf.CellFormat(half, rowHeight, "Date:", "", 0, "C", false, 0, "")
	pdf.Cell(gap, rowHeight, "")
	pdf.CellFormat(half, rowHeight, "Date:", "", 1, "C", false, 0, "")
}

// Package report renders a claim report as an Excel workbook, a printable PDF or
// a flat CSV file.
package report

import (
	"io"
	"strings"

	"claimtable/backend/internal/entity"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
)

// ErrUnknownFormat is returned for an output format other than xlsx, pdf or csv.
var ErrUnknownFormat = errors.New("unknown output format")

type Format string

const (
	FormatXLSX Format = "xlsx"
	FormatPDF  Format = "pdf"
	FormatCSV  Format = "csv"
)

// ParseFormat accepts the format name with or without a leading dot. Blank means xlsx.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.TrimPrefix(strings.ToLower(strings.TrimSpace(s)), ".")); f {
	case "":
		return FormatXLSX, nil
	case FormatXLSX, FormatPDF, FormatCSV:
		return f, nil
	default:
		return "", errors.Wrapf(ErrUnknownFormat, "%q", s)
	}
}

func (f Format) Ext() string {
	return "." + string(f)
}

func (f Format) ContentType() string {
	switch f {
	case FormatPDF:
		return "application/pdf"
	case FormatCSV:
		return "text/csv"
	default:
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	}
}

// Write renders r in format f.
func (f Format) Write(w io.Writer, r *entity.Report) error {
	switch f {
	case FormatXLSX:
		return WriteWorkbook(w, r)
	case FormatPDF:
		return WritePDF(w, r)
	case FormatCSV:
		return WriteCSV(w, r)
	}
	return errors.Wrapf(ErrUnknownFormat, "%q", string(f))
}

func decimalDays(n int) decimal.Decimal {
	return decimal.NewFromInt(int64(n))
}

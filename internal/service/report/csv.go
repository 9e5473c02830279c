package report

import (
	"io"

	"claimtable/backend/internal/entity"

	"github.com/gocarina/gocsv"
	"github.com/pkg/errors"
)

// ClaimLine is one employee-month of the flat CSV export.
type ClaimLine struct {
	Month            string `csv:"month"`
	Employee         string `csv:"employee"`
	Recruiter        string `csv:"recruiter"`
	TotalWorkingDays int    `csv:"total_working_days"`
	Rate             string `csv:"rate"`
	Amount           string `csv:"amount"`
	Currency         string `csv:"currency"`
}

// Lines flattens the claim tables of every month, in report order.
func Lines(r *entity.Report) []ClaimLine {
	currency := currencyOf(r)
	var lines []ClaimLine
	for _, m := range r.Months {
		for _, c := range m.Claims {
			amount := m.Grand.Rate.Mul(decimalDays(c.TotalWorkingDays))
			lines = append(lines, ClaimLine{
				Month:            m.Month,
				Employee:         c.EmployeeName,
				Recruiter:        c.RecruiterName,
				TotalWorkingDays: c.TotalWorkingDays,
				Rate:             m.Grand.Rate.StringFixed(2),
				Amount:           amount.StringFixed(2),
				Currency:         currency,
			})
		}
	}
	return lines
}

func WriteCSV(w io.Writer, r *entity.Report) error {
	lines := Lines(r)
	if lines == nil {
		lines = []ClaimLine{}
	}
	if err := gocsv.Marshal(lines, w); err != nil {
		return errors.Wrap(err, "writing csv")
	}
	return nil
}

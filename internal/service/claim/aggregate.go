package claim

import (
	"math"
	"sort"

	"claimtable/backend/internal/entity"
	"claimtable/backend/internal/pkg/config"
	"claimtable/backend/internal/service/normalize"

	"github.com/shopspring/decimal"
)

const monthLayout = "2006-01"

// hoursEpsilon absorbs float error in clock arithmetic: 00:08 to 07:53 comes out
// a hair under 7.75h, and 155h / 7.75h must floor to 20, not 19.
const hoursEpsilon = 1e-9

// IsWorkday is the per-day rule: enough hours and not on leave.
func IsWorkday(hours, threshold float64, leave bool) bool {
	return !leave && hours+hoursEpsilon >= threshold
}

type employeeMonth struct {
	name      string
	recruiter string
	workdays  int
	hours     float64
}

// total never exceeds daysInMonth, the number of days of the calendar month.
func (e employeeMonth) total(s config.Settings, daysInMonth int) int {
	threshold := s.EffectiveThreshold()
	if s.CountingRule != config.FloorTotalHours || threshold <= 0 {
		return e.workdays
	}
	n := int(math.Floor(e.hours/threshold + hoursEpsilon))
	if n > daysInMonth {
		n = daysInMonth
	}
	return n
}

// Aggregate builds the claim, recruiter summary and grand total tables of every
// calendar month present among the eligible days, oldest month first.
func Aggregate(days []EligibleDay, s config.Settings) []entity.MonthReport {
	type key struct{ name, recruiter string }

	threshold := s.EffectiveThreshold()
	byMonth := make(map[string]map[key]*employeeMonth)
	monthDays := make(map[string]int)
	for _, d := range days {
		month := d.Date.Format(monthLayout)
		group, ok := byMonth[month]
		if !ok {
			group = make(map[key]*employeeMonth)
			byMonth[month] = group
			monthDays[month] = normalize.DaysIn(d.Date.Year(), d.Date.Month())
		}

		k := key{d.EmployeeName, d.RecruiterName}
		acc, ok := group[k]
		if !ok {
			acc = &employeeMonth{name: d.EmployeeName, recruiter: d.RecruiterName}
			group[k] = acc
		}
		if !d.IsLeave {
			acc.hours += d.HoursWorked
		}
		if IsWorkday(d.HoursWorked, threshold, d.IsLeave) {
			acc.workdays++
		}
	}

	months := make([]string, 0, len(byMonth))
	for m := range byMonth {
		months = append(months, m)
	}
	sort.Strings(months)

	rate := decimal.NewFromFloat(s.DayRate)
	reports := make([]entity.MonthReport, 0, len(months))
	for _, m := range months {
		claims := make([]entity.MonthlyClaimRow, 0, len(byMonth[m]))
		for _, acc := range byMonth[m] {
			claims = append(claims, entity.MonthlyClaimRow{
				EmployeeName:     acc.name,
				RecruiterName:    acc.recruiter,
				TotalWorkingDays: acc.total(s, monthDays[m]),
			})
		}
		sort.Slice(claims, func(i, j int) bool {
			if claims[i].EmployeeName != claims[j].EmployeeName {
				return claims[i].EmployeeName < claims[j].EmployeeName
			}
			return claims[i].RecruiterName < claims[j].RecruiterName
		})

		summary := Summarize(claims, rate)
		reports = append(reports, entity.MonthReport{
			Month:   m,
			Claims:  claims,
			Summary: summary,
			Grand:   GrandTotal(summary, rate),
		})
	}
	return reports
}

// Summarize rolls claim rows up per recruiter, sorted by recruiter name.
func Summarize(claims []entity.MonthlyClaimRow, rate decimal.Decimal) []entity.RecruiterSummaryRow {
	totals := make(map[string]int)
	for _, c := range claims {
		totals[c.RecruiterName] += c.TotalWorkingDays
	}

	summary := make([]entity.RecruiterSummaryRow, 0, len(totals))
	for name, days := range totals {
		summary = append(summary, entity.RecruiterSummaryRow{
			RecruiterName:    name,
			TotalWorkingDays: days,
			Rate:             rate,
			Amount:           rate.Mul(decimal.NewFromInt(int64(days))),
		})
	}
	sort.Slice(summary, func(i, j int) bool { return summary[i].RecruiterName < summary[j].RecruiterName })
	return summary
}

func GrandTotal(summary []entity.RecruiterSummaryRow, rate decimal.Decimal) entity.GrandTotalRow {
	g := entity.GrandTotalRow{Rate: rate, Amount: decimal.Zero}
	for _, s := range summary {
		g.TotalWorkingDays += s.TotalWorkingDays
		g.Amount = g.Amount.Add(s.Amount)
	}
	return g
}

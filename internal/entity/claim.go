package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

type MonthlyClaimRow struct {
	EmployeeName     string
	RecruiterName    string
	TotalWorkingDays int
}

type RecruiterSummaryRow struct {
	RecruiterName    string
	TotalWorkingDays int
	Rate             decimal.Decimal
	Amount           decimal.Decimal
}

type GrandTotalRow struct {
	TotalWorkingDays int
	Rate             decimal.Decimal
	Amount           decimal.Decimal
}

// MonthReport holds the three tables rendered on one month sheet.
type MonthReport struct {
	Month   string // YYYY-MM
	Claims  []MonthlyClaimRow
	Summary []RecruiterSummaryRow
	Grand   GrandTotalRow
}

// RunStats counts what happened to the input rows of a run.
type RunStats struct {
	TimecardRows    int
	UndatedRows     int
	Days            int
	NotInMasterlist int
	NoJoinDate      int
	OutsideWindow   int
	EligibleDays    int
}

type Report struct {
	RunID       string
	GeneratedAt time.Time
	Currency    string
	Months      []MonthReport
	Windows     []EmployeeWindow
	Stats       RunStats
}

// FileName is the download name of the workbook, stamped with the generation time.
func (r Report) FileName(ext string) string {
	return "claim_tables_" + r.GeneratedAt.Format("20060102_1504") + ext
}

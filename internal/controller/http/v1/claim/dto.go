package claim

import (
	"strings"
	"time"

	"claimtable/backend/internal/entity"
	"claimtable/backend/internal/pkg/config"

	"github.com/Azure/go-autorest/autorest/date"
	"github.com/shopspring/decimal"
)

// SettingsForm holds the optional per-request overrides sent next to the files.
type SettingsForm struct {
	HoursPerDay        *float64 `form:"hours_per_day"`
	GraceMinutes       *int     `form:"grace_minutes"`
	CountingRule       *string  `form:"counting_rule"`
	DayRate            *float64 `form:"day_rate"`
	ExcludeNotInMaster *bool    `form:"exclude_not_in_master"`
	DayFirst           *bool    `form:"day_first"`
	Currency           *string  `form:"currency"`
	Format             string   `form:"format"`
}

// Apply lays the fields that were sent over base and validates the result.
func (f SettingsForm) Apply(base config.Settings) (config.Settings, error) {
	s := base
	if f.HoursPerDay != nil {
		s.HoursPerDay = *f.HoursPerDay
	}
	if f.GraceMinutes != nil {
		s.GraceMinutes = *f.GraceMinutes
	}
	if f.CountingRule != nil {
		rule, err := config.ParseCountingRule(*f.CountingRule)
		if err != nil {
			return config.Settings{}, err
		}
		s.CountingRule = rule
	}
	if f.DayRate != nil {
		s.DayRate = *f.DayRate
	}
	if f.ExcludeNotInMaster != nil {
		s.ExcludeNotInMaster = *f.ExcludeNotInMaster
	}
	if f.DayFirst != nil {
		s.DayFirst = *f.DayFirst
	}
	if f.Currency != nil && strings.TrimSpace(*f.Currency) != "" {
		s.Currency = strings.TrimSpace(*f.Currency)
	}
	if err := s.Validate(); err != nil {
		return config.Settings{}, err
	}
	return s, nil
}

type ClaimRow struct {
	EmployeeName     string `json:"employee_name"`
	RecruiterName    string `json:"recruiter_name"`
	TotalWorkingDays int    `json:"total_working_days"`
}

type SummaryRow struct {
	RecruiterName    string          `json:"recruiter_name"`
	TotalWorkingDays int             `json:"total_working_days"`
	Rate             decimal.Decimal `json:"rate"`
	Amount           decimal.Decimal `json:"amount"`
}

type MonthResponse struct {
	Month      string       `json:"month"`
	Claims     []ClaimRow   `json:"claims"`
	Summary    []SummaryRow `json:"summary"`
	GrandTotal SummaryRow   `json:"grand_total"`
}

type WindowResponse struct {
	EmployeeName  string    `json:"employee_name"`
	RecruiterName string    `json:"recruiter_name"`
	Start         date.Date `json:"start"`
	End           date.Date `json:"end"`
}

type StatsResponse struct {
	TimecardRows    int `json:"timecard_rows"`
	UndatedRows     int `json:"undated_rows"`
	Days            int `json:"days"`
	NotInMasterlist int `json:"not_in_masterlist"`
	NoJoinDate      int `json:"no_join_date"`
	OutsideWindow   int `json:"outside_window"`
	EligibleDays    int `json:"eligible_days"`
}

type PreviewResponse struct {
	RunID       string           `json:"run_id"`
	GeneratedAt time.Time        `json:"generated_at"`
	FileName    string           `json:"file_name"`
	Currency    string           `json:"currency"`
	Settings    config.Settings  `json:"settings"`
	Months      []MonthResponse  `json:"months"`
	Windows     []WindowResponse `json:"windows"`
	Stats       StatsResponse    `json:"stats"`
}

func newPreviewResponse(r *entity.Report, s config.Settings) PreviewResponse {
	resp := PreviewResponse{
		RunID:       r.RunID,
		GeneratedAt: r.GeneratedAt,
		FileName:    r.FileName(".xlsx"),
		Currency:    r.Currency,
		Settings:    s,
		Months:      make([]MonthResponse, 0, len(r.Months)),
		Windows:     make([]WindowResponse, 0, len(r.Windows)),
		Stats:       StatsResponse(r.Stats),
	}

	for _, m := range r.Months {
		month := MonthResponse{
			Month:   m.Month,
			Claims:  make([]ClaimRow, 0, len(m.Claims)),
			Summary: make([]SummaryRow, 0, len(m.Summary)),
			GrandTotal: SummaryRow{
				RecruiterName:    "TOTAL",
				TotalWorkingDays: m.Grand.TotalWorkingDays,
				Rate:             m.Grand.Rate,
				Amount:           m.Grand.Amount,
			},
		}
		for _, c := range m.Claims {
			month.Claims = append(month.Claims, ClaimRow(c))
		}
		for _, sr := range m.Summary {
			month.Summary = append(month.Summary, SummaryRow(sr))
		}
		resp.Months = append(resp.Months, month)
	}

	for _, w := range r.Windows {
		resp.Windows = append(resp.Windows, WindowResponse{
			EmployeeName:  w.EmployeeName,
			RecruiterName: w.RecruiterName,
			Start:         date.Date{Time: w.Window.Start},
			End:           date.Date{Time: w.Window.End},
		})
	}
	return resp
}

package claim

import (
	"io"
	"time"

	"claimtable/backend/internal/entity"
	"claimtable/backend/internal/pkg/config"
	"claimtable/backend/internal/service/sheet"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// ErrInternal marks a run that stopped on a bug rather than on its input.
var ErrInternal = errors.New("internal error")

// Source is one uploaded input file.
type Source struct {
	Name   string
	Reader io.Reader
}

// Result is the outcome of one run: a report, or the single error that stopped it.
type Result struct {
	Report *entity.Report
	Err    error
}

func (r Result) OK() bool {
	return r.Err == nil && r.Report != nil
}

// Message is a one-line description of the failure, empty on success.
func (r Result) Message() string {
	if r.Err == nil {
		return ""
	}
	return r.Err.Error()
}

// Output is what the pure pipeline produces from two grids.
type Output struct {
	Months  []entity.MonthReport
	Windows []entity.EmployeeWindow
	Stats   entity.RunStats
}

// Run executes the whole pipeline over already-read grids.
func Run(timecard, masterlist sheet.Grid, s config.Settings) (Output, error) {
	tcTable, err := sheet.LoadTimecard(timecard)
	if err != nil {
		return Output{}, errors.Wrap(err, "loading timecard")
	}
	records, err := BuildAttendance(tcTable, s.DayFirst)
	if err != nil {
		return Output{}, err
	}

	mlTable, err := sheet.LoadMasterlist(masterlist)
	if err != nil {
		return Output{}, errors.Wrap(err, "loading masterlist")
	}
	master, err := ParseMasterlist(mlTable, s.DayFirst)
	if err != nil {
		return Output{}, err
	}

	days := MergeDays(records)
	eligible, windows, stats := Join(days, master, s)
	stats.TimecardRows = len(records)
	for _, r := range records {
		if !r.HasDate {
			stats.UndatedRows++
		}
	}

	return Output{
		Months:  Aggregate(eligible, s),
		Windows: windows,
		Stats:   stats,
	}, nil
}

type Service struct {
	log      *zap.Logger
	settings config.Settings
	now      func() time.Time
}

func NewService(log *zap.Logger, settings config.Settings) *Service {
	return &Service{
		log:      log,
		settings: settings,
		now:      time.Now,
	}
}

func (s *Service) Settings() config.Settings {
	return s.settings
}

// WithSettings returns a copy of the service that runs with other settings.
func (s *Service) WithSettings(settings config.Settings) *Service {
	c := *s
	c.settings = settings
	return &c
}

// GenerateWith runs Generate with settings that apply to this run only.
func (s *Service) GenerateWith(settings config.Settings, timecard, masterlist Source) Result {
	return s.WithSettings(settings).Generate(timecard, masterlist)
}

// Generate reads both sources and runs the pipeline. Any failure, including a
// panic deep in a parser, comes back as a failed Result; no partial report is
// ever returned.
func (s *Service) Generate(timecard, masterlist Source) (res Result) {
	runID := uuid.NewString()
	log := s.log.With(zap.String("run_id", runID))

	defer func() {
		if r := recover(); r != nil {
			log.Error("claim run panicked", zap.Any("panic", r))
			res = Result{Err: errors.Wrapf(ErrInternal, "claim run panicked: %v", r)}
		}
	}()

	if err := s.settings.Validate(); err != nil {
		return s.fail(log, err)
	}

	tc, err := sheet.ReadGrid(timecard.Reader, timecard.Name)
	if err != nil {
		return s.fail(log, errors.Wrap(err, "timecard"))
	}
	ml, err := sheet.ReadGrid(masterlist.Reader, masterlist.Name)
	if err != nil {
		return s.fail(log, errors.Wrap(err, "masterlist"))
	}

	out, err := Run(tc, ml, s.settings)
	if err != nil {
		return s.fail(log, err)
	}

	report := &entity.Report{
		RunID:       runID,
		GeneratedAt: s.now(),
		Currency:    s.settings.Currency,
		Months:      out.Months,
		Windows:     out.Windows,
		Stats:       out.Stats,
	}

	log.Info("claim run finished",
		zap.String("timecard", timecard.Name),
		zap.String("masterlist", masterlist.Name),
		zap.Stringer("settings", s.settings),
		zap.Int("timecard_rows", out.Stats.TimecardRows),
		zap.Int("undated_rows", out.Stats.UndatedRows),
		zap.Int("not_in_masterlist", out.Stats.NotInMasterlist),
		zap.Int("no_join_date", out.Stats.NoJoinDate),
		zap.Int("outside_window", out.Stats.OutsideWindow),
		zap.Int("eligible_days", out.Stats.EligibleDays),
		zap.Int("months", len(out.Months)))

	return Result{Report: report}
}

func (s *Service) fail(log *zap.Logger, err error) Result {
	log.Warn("claim run failed", zap.Error(err))
	return Result{Err: err}
}

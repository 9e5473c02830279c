package commands

import (
	"os"
	"path/filepath"

	"claimtable/backend/internal/entity"
	"claimtable/backend/internal/pkg/config"
	"claimtable/backend/internal/service/claim"
	"claimtable/backend/internal/service/report"

	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// Overrides are settings given on the command line. Nil fields keep the value
// from the settings file.
type Overrides struct {
	HoursPerDay     *float64
	GraceMinutes    *int
	CountingRule    *string
	DayRate         *float64
	Currency        *string
	IncludeUnlisted bool
	MonthFirst      bool
}

func (o Overrides) apply(s config.Settings) (config.Settings, error) {
	if o.HoursPerDay != nil {
		s.HoursPerDay = *o.HoursPerDay
	}
	if o.GraceMinutes != nil {
		s.GraceMinutes = *o.GraceMinutes
	}
	if o.CountingRule != nil {
		rule, err := config.ParseCountingRule(*o.CountingRule)
		if err != nil {
			return config.Settings{}, err
		}
		s.CountingRule = rule
	}
	if o.DayRate != nil {
		s.DayRate = *o.DayRate
	}
	if o.Currency != nil && *o.Currency != "" {
		s.Currency = *o.Currency
	}
	if o.IncludeUnlisted {
		s.ExcludeNotInMaster = false
	}
	if o.MonthFirst {
		s.DayFirst = false
	}
	return s, s.Validate()
}

type GenerateOptions struct {
	Timecard     string
	Masterlist   string
	OutDir       string
	SettingsFile string
	Overrides    Overrides
	PDF          bool
	CSV          bool
}

// Generate runs one claim job from files on disk and writes the workbook, plus
// the PDF and CSV renditions when asked, into OutDir. It returns the report and
// the paths written.
func Generate(log *zap.Logger, opts GenerateOptions) (*entity.Report, []string, error) {
	settings, err := config.LoadSettings(opts.SettingsFile)
	if err != nil {
		return nil, nil, err
	}
	if settings, err = opts.Overrides.apply(settings); err != nil {
		return nil, nil, err
	}

	timecard, err := os.Open(opts.Timecard)
	if err != nil {
		return nil, nil, errors.Wrap(err, "opening timecard")
	}
	defer timecard.Close()

	masterlist, err := os.Open(opts.Masterlist)
	if err != nil {
		return nil, nil, errors.Wrap(err, "opening masterlist")
	}
	defer masterlist.Close()

	res := claim.NewService(log, settings).Generate(
		claim.Source{Name: filepath.Base(opts.Timecard), Reader: timecard},
		claim.Source{Name: filepath.Base(opts.Masterlist), Reader: masterlist},
	)
	if !res.OK() {
		return nil, nil, res.Err
	}

	outDir := opts.OutDir
	if outDir == "" {
		outDir = "."
	}
	if err := os.MkdirAll(outDir, os.ModePerm); err != nil {
		return nil, nil, errors.Wrap(err, "creating output directory")
	}

	formats := []report.Format{report.FormatXLSX}
	if opts.PDF {
		formats = append(formats, report.FormatPDF)
	}
	if opts.CSV {
		formats = append(formats, report.FormatCSV)
	}

	var written []string
	for _, f := range formats {
		path := filepath.Join(outDir, res.Report.FileName(f.Ext()))
		if err := writeFile(path, f, res.Report); err != nil {
			return nil, written, err
		}
		log.Info("report written", zap.String("run_id", res.Report.RunID), zap.String("path", path))
		written = append(written, path)
	}
	return res.Report, written, nil
}

func writeFile(path string, f report.Format, r *entity.Report) (err error) {
	out, err := os.Create(path)
	if err != nil {
		return errors.Wrapf(err, "creating %s", path)
	}
	defer func() {
		if closeErr := out.Close(); err == nil && closeErr != nil {
			err = errors.Wrapf(closeErr, "closing %s", path)
		}
	}()

	if err := f.Write(out, r); err != nil {
		return errors.Wrapf(err, "writing %s", path)
	}
	return nil
}

package config

import (
	"fmt"
	"math"
	"os"
	"strings"
	"time"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// ErrInvalidSettings is returned when a setting falls outside its allowed range.
var ErrInvalidSettings = errors.New("invalid settings")

type CountingRule string

const (
	PerDayThreshold CountingRule = "per-day-threshold"
	FloorTotalHours CountingRule = "floor-total-hours"
)

func ParseCountingRule(s string) (CountingRule, error) {
	switch CountingRule(strings.ToLower(strings.TrimSpace(s))) {
	case PerDayThreshold, "per-day", "":
		return PerDayThreshold, nil
	case FloorTotalHours, "floor":
		return FloorTotalHours, nil
	}
	return "", errors.Wrapf(ErrInvalidSettings, "unknown counting rule %q", s)
}

// Settings are the run-time knobs of one claim run.
type Settings struct {
	HoursPerDay        float64      `yaml:"hours_per_day" json:"hours_per_day"`
	GraceMinutes       int          `yaml:"grace_minutes" json:"grace_minutes"`
	CountingRule       CountingRule `yaml:"counting_rule" json:"counting_rule"`
	DayRate            float64      `yaml:"day_rate" json:"day_rate"`
	ExcludeNotInMaster bool         `yaml:"exclude_not_in_master" json:"exclude_not_in_master"`
	DayFirst           bool         `yaml:"day_first" json:"day_first"`
	Currency           string       `yaml:"currency" json:"currency"`
}

func DefaultSettings() Settings {
	return Settings{
		HoursPerDay:        8.0,
		GraceMinutes:       15,
		CountingRule:       PerDayThreshold,
		DayRate:            3.0,
		ExcludeNotInMaster: true,
		DayFirst:           true,
		Currency:           "RM",
	}
}

// EffectiveThreshold is hours_per_day minus the grace window, never below zero.
func (s Settings) EffectiveThreshold() float64 {
	return math.Max(0, s.HoursPerDay-float64(s.GraceMinutes)/60.0)
}

// Validate checks ranges and requires a canonical counting rule; aliases are
// resolved by ParseCountingRule before settings get here.
func (s Settings) Validate() error {
	if s.HoursPerDay < 1 || s.HoursPerDay > 24 {
		return errors.Wrapf(ErrInvalidSettings, "hours_per_day must be within 1-24, got %v", s.HoursPerDay)
	}
	if s.GraceMinutes < 0 || s.GraceMinutes > 120 {
		return errors.Wrapf(ErrInvalidSettings, "grace_minutes must be within 0-120, got %d", s.GraceMinutes)
	}
	if s.DayRate < 0 || s.DayRate > 1000 {
		return errors.Wrapf(ErrInvalidSettings, "day_rate must be within 0-1000, got %v", s.DayRate)
	}
	switch s.CountingRule {
	case PerDayThreshold, FloorTotalHours:
	default:
		return errors.Wrapf(ErrInvalidSettings, "counting_rule must be %s or %s, got %q", PerDayThreshold, FloorTotalHours, s.CountingRule)
	}
	return nil
}

func (s Settings) String() string {
	return fmt.Sprintf("hours_per_day=%v grace_minutes=%d counting_rule=%s day_rate=%v exclude_not_in_master=%t day_first=%t",
		s.HoursPerDay, s.GraceMinutes, s.CountingRule, s.DayRate, s.ExcludeNotInMaster, s.DayFirst)
}

// LoadSettings reads a YAML settings file on top of the defaults. An empty path
// returns the defaults.
func LoadSettings(path string) (Settings, error) {
	s := DefaultSettings()
	if path == "" {
		return s, nil
	}

	yamlFile, err := os.ReadFile(path)
	if err != nil {
		return Settings{}, errors.Wrap(err, "reading settings file")
	}

	if err = yaml.Unmarshal(yamlFile, &s); err != nil {
		return Settings{}, errors.Wrap(err, "parsing settings file")
	}

	rule, err := ParseCountingRule(string(s.CountingRule))
	if err != nil {
		return Settings{}, err
	}
	s.CountingRule = rule
	if strings.TrimSpace(s.Currency) == "" {
		s.Currency = DefaultSettings().Currency
	}

	if err := s.Validate(); err != nil {
		return Settings{}, err
	}
	return s, nil
}

// Web configures the HTTP server. Values come from CLAIMS_* environment
// variables or serve command flags.
type Web struct {
	Host            string        `conf:"default:0.0.0.0:8080"`
	ReadTimeout     time.Duration `conf:"default:30s"`
	WriteTimeout    time.Duration `conf:"default:60s"`
	ShutdownTimeout time.Duration `conf:"default:10s"`
	MaxUploadMB     int64         `conf:"default:32"`
	AllowedOrigins  []string      `conf:"default:http://localhost:3000"`
}

type Server struct {
	Web          Web
	SettingsFile string `conf:"help:optional YAML file with claim settings"`
	Debug        bool   `conf:"default:false"`
}

package normalize

import (
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"
)

// maxExcelSerial is 9999-12-31 in the 1900 date system.
const maxExcelSerial = 2958465

var (
	isoLayouts = []string{
		"2006-1-2",
		"2006/1/2",
		"2006.1.2",
	}
	namedLayouts = []string{
		"2 Jan 2006",
		"2-Jan-2006",
		"2-Jan-06",
		"2 January 2006",
		"Jan 2, 2006",
		"January 2, 2006",
		"Mon, 2 Jan 2006",
	}
	dayFirstLayouts = []string{
		"2/1/2006",
		"2-1-2006",
		"2.1.2006",
		"2/1/06",
		"2-1-06",
		"2.1.06",
	}
	monthFirstLayouts = []string{
		"1/2/2006",
		"1-2-2006",
		"1.2.2006",
		"1/2/06",
		"1-2-06",
		"1.2.06",
	}
	clockSuffixes = []string{
		"",
		" 15:04:05",
		" 15:04",
		"T15:04:05",
		"T15:04",
		" 3:04:05 PM",
		" 3:04 PM",
		" 3:04PM",
	}
	clockLayouts = []string{
		"15:04:05",
		"15:04",
		"3:04:05 PM",
		"3:04 PM",
		"3:04PM",
		"3PM",
		"3 PM",
	}
)

// DateOnly truncates t to midnight UTC of its calendar date.
func DateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func DaysIn(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// AddMonths moves t by n calendar months, clamping the day to the length of the
// target month (Nov 30 + 3 months is Feb 28/29, not early March).
func AddMonths(t time.Time, n int) time.Time {
	total := int(t.Month()) - 1 + n
	year := t.Year() + floorDiv(total, 12)
	month := time.Month(total - floorDiv(total, 12)*12 + 1)

	day := t.Day()
	if last := DaysIn(year, month); day > last {
		day = last
	}
	return time.Date(year, month, day, t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), t.Location())
}

func floorDiv(a, b int) int {
	q := a / b
	if a%b != 0 && (a < 0) != (b < 0) {
		q--
	}
	return q
}

// ParseDate reads a date cell. Excel serial numbers, ISO dates, named months and
// numeric D/M/Y or M/D/Y dates are accepted; dayFirst picks which numeric order is
// tried first, the other order is the fallback (13/01/2024 is always January 13).
func ParseDate(value string, dayFirst bool) (time.Time, bool) {
	t, ok := parseDateTime(value, dayFirst)
	if !ok {
		return time.Time{}, false
	}
	return DateOnly(t), true
}

func parseDateTime(value string, dayFirst bool) (time.Time, bool) {
	v := strings.TrimSpace(value)
	if v == "" {
		return time.Time{}, false
	}

	if serial, err := strconv.ParseFloat(v, 64); err == nil {
		if serial < 1 || serial > maxExcelSerial {
			return time.Time{}, false
		}
		t, err := excelize.ExcelDateToTime(serial, false)
		if err != nil {
			return time.Time{}, false
		}
		return t, true
	}

	if t, err := time.Parse(time.RFC3339, v); err == nil {
		return t, true
	}

	first, second := dayFirstLayouts, monthFirstLayouts
	if !dayFirst {
		first, second = second, first
	}

	upper := strings.ToUpper(v)
	for _, group := range [][]string{isoLayouts, namedLayouts, first, second} {
		for _, layout := range group {
			for _, suffix := range clockSuffixes {
				if t, err := time.Parse(layout+suffix, upper); err == nil {
					return t, true
				}
			}
		}
	}
	return time.Time{}, false
}

// ParseTimeOfDay returns the clock reading of a cell in hours (9:30 is 9.5).
// Plain numbers are hours; values in (0,1) are Excel day fractions and values
// above 24 are Excel date-time serials whose fractional part is the clock.
func ParseTimeOfDay(raw string) (float64, bool) {
	v := strings.TrimSpace(raw)
	if v == "" {
		return 0, false
	}

	if f, err := strconv.ParseFloat(v, 64); err == nil {
		switch {
		case f < 0 || math.IsNaN(f) || math.IsInf(f, 0):
			return 0, false
		case f > 0 && f < 1:
			return f * 24, true
		case f > 24:
			_, frac := math.Modf(f)
			return frac * 24, true
		}
		return f, true
	}

	upper := strings.ToUpper(v)
	for _, layout := range clockLayouts {
		if t, err := time.Parse(layout, upper); err == nil {
			return clockHours(t), true
		}
	}

	if t, ok := parseDateTime(v, true); ok {
		return clockHours(t), true
	}
	return 0, false
}

func clockHours(t time.Time) float64 {
	return float64(t.Hour()) + float64(t.Minute())/60 + float64(t.Second())/3600
}

// ParseDuration is the number of hours between an IN and an OUT reading. An
// unreadable side yields 0; a negative span crossed midnight and gains 24h.
func ParseDuration(in, out string) float64 {
	hi, ok := ParseTimeOfDay(in)
	if !ok {
		return 0
	}
	ho, ok := ParseTimeOfDay(out)
	if !ok {
		return 0
	}
	dur := ho - hi
	if dur < 0 {
		dur += 24
	}
	return dur
}

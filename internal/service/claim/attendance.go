package claim

import (
	"sort"
	"strings"
	"unicode"

	"claimtable/backend/internal/entity"
	"claimtable/backend/internal/service/normalize"
	"claimtable/backend/internal/service/sheet"

	"github.com/pkg/errors"
)

// ErrMissingColumns marks an input file that lacks a required column.
var ErrMissingColumns = errors.New("required columns missing")

// Timecard column positions.
const (
	colDate = iota
	colName
	colEmployeeID
	colFallbackIn
	colFallbackOut
)

var (
	inTokens    = []string{"in", "timein", "clockin", "checkin", "punchin", "signin"}
	outTokens   = []string{"out", "timeout", "clockout", "checkout", "punchout", "signout"}
	leaveTokens = []string{"leave", "remark", "remarks", "status", "note", "notes", "type", "absence", "reason"}
)

type timecardLayout struct {
	pairs [][2]int
	leave int
}

func headerTokens(h string) []string {
	fields := strings.FieldsFunc(strings.ToLower(h), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	tokens := make([]string, 0, len(fields)+1)
	for _, f := range fields {
		if t := strings.TrimRight(f, "0123456789"); t != "" {
			tokens = append(tokens, t)
		}
	}
	// "Check In" should also read as "checkin".
	if len(tokens) == 2 {
		tokens = append(tokens, tokens[0]+tokens[1])
	}
	return tokens
}

func hasToken(tokens, want []string) bool {
	for _, t := range tokens {
		for _, w := range want {
			if t == w {
				return true
			}
		}
	}
	return false
}

// detectLayout finds the IN/OUT pairs and an optional leave column. Headers are
// matched by keyword; without a match columns 3 and 4 are used as IN and OUT.
func detectLayout(header []string, width int) (timecardLayout, error) {
	layout := timecardLayout{leave: -1}

	var ins, outs []int
	for i := colFallbackIn; i < len(header); i++ {
		tokens := headerTokens(header[i])
		isIn, isOut := hasToken(tokens, inTokens), hasToken(tokens, outTokens)
		switch {
		case isIn && !isOut:
			ins = append(ins, i)
		case isOut && !isIn:
			outs = append(outs, i)
		case !isIn && !isOut && layout.leave < 0 && hasToken(tokens, leaveTokens):
			layout.leave = i
		}
	}

	for i := 0; i < len(ins) && i < len(outs); i++ {
		layout.pairs = append(layout.pairs, [2]int{ins[i], outs[i]})
	}
	if len(layout.pairs) == 0 && width > colFallbackOut {
		layout.pairs = append(layout.pairs, [2]int{colFallbackIn, colFallbackOut})
	}
	if len(layout.pairs) == 0 {
		return timecardLayout{}, errors.Wrap(ErrMissingColumns, "timecard has no IN/OUT time columns")
	}
	return layout, nil
}

// BuildAttendance derives one record per timecard row: column 0 is the date,
// column 1 the name, column 2 the employee id, hours come from the IN/OUT pairs.
func BuildAttendance(t sheet.Table, dayFirst bool) ([]entity.AttendanceRecord, error) {
	if t.Width() <= colEmployeeID {
		return nil, errors.Wrapf(ErrMissingColumns, "timecard needs date, name and employee id columns, found %d", t.Width())
	}

	layout, err := detectLayout(t.Header, t.Width())
	if err != nil {
		return nil, err
	}

	records := make([]entity.AttendanceRecord, 0, len(t.Rows))
	for i := range t.Rows {
		rec := entity.AttendanceRecord{
			Row:          t.Lines[i],
			EmployeeName: normalize.Name(t.Cell(i, colName)),
		}
		rec.Date, rec.HasDate = normalize.ParseDate(t.Cell(i, colDate), dayFirst)
		rec.EmployeeID, _ = normalize.EmployeeID(t.Cell(i, colEmployeeID))

		for _, p := range layout.pairs {
			in, out := t.Cell(i, p[0]), t.Cell(i, p[1])
			rec.HoursWorked += normalize.ParseDuration(in, out)
			rec.IsLeave = rec.IsLeave || leaveMarker(in) || leaveMarker(out)
		}
		if layout.leave >= 0 && normalize.IsLeave(t.Cell(i, layout.leave)) {
			rec.IsLeave = true
		}
		records = append(records, rec)
	}
	return records, nil
}

// leaveMarker reports a time cell that holds leave text such as "MC" instead of a clock.
func leaveMarker(v string) bool {
	if _, ok := normalize.ParseTimeOfDay(v); ok {
		return false
	}
	return normalize.IsLeave(v)
}

// MergeDays folds records of the same employee and date into one day: hours are
// summed and the day is leave if any of its rows is. Records without a date or a
// name cannot be attributed and are dropped.
func MergeDays(records []entity.AttendanceRecord) []entity.AttendanceDay {
	type key struct {
		name string
		date int64
	}

	index := make(map[key]int)
	var days []entity.AttendanceDay
	for _, r := range records {
		if !r.HasDate || r.EmployeeName == "" {
			continue
		}
		k := key{r.EmployeeName, r.Date.Unix()}
		if i, ok := index[k]; ok {
			days[i].HoursWorked += r.HoursWorked
			days[i].IsLeave = days[i].IsLeave || r.IsLeave
			if days[i].EmployeeID == "" {
				days[i].EmployeeID = r.EmployeeID
			}
			continue
		}
		index[k] = len(days)
		days = append(days, entity.AttendanceDay{
			EmployeeID:   r.EmployeeID,
			EmployeeName: r.EmployeeName,
			Date:         r.Date,
			HoursWorked:  r.HoursWorked,
			IsLeave:      r.IsLeave,
		})
	}

	sort.SliceStable(days, func(i, j int) bool {
		if days[i].EmployeeName != days[j].EmployeeName {
			return days[i].EmployeeName < days[j].EmployeeName
		}
		return days[i].Date.Before(days[j].Date)
	})
	return days
}

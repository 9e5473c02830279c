package claim

import (
	"sort"

	"claimtable/backend/internal/entity"
	"claimtable/backend/internal/pkg/config"
	"claimtable/backend/internal/service/normalize"
	"claimtable/backend/internal/service/sheet"

	"github.com/pkg/errors"
)

// eligibleMonths is the length of the claim window that starts on the join date.
const eligibleMonths = 3

// Masterlist maps an employee name to its masterlist entry.
type Masterlist map[string]entity.MasterlistRecord

// ParseMasterlist reads name, join date and optional recruiter from the first three
// columns. Blank names are skipped and a repeated name replaces the earlier entry.
func ParseMasterlist(t sheet.Table, dayFirst bool) (Masterlist, error) {
	if t.Width() < 2 {
		return nil, errors.Wrapf(ErrMissingColumns, "masterlist needs name and join date columns, found %d", t.Width())
	}

	m := make(Masterlist, len(t.Rows))
	for i := range t.Rows {
		name := normalize.Name(t.Cell(i, 0))
		if name == "" {
			continue
		}
		rec := entity.MasterlistRecord{
			EmployeeName:  name,
			RecruiterName: normalize.Recruiter(t.Cell(i, 2)),
		}
		rec.JoinDate, rec.HasJoinDate = normalize.ParseDate(t.Cell(i, 1), dayFirst)
		m[name] = rec
	}
	return m, nil
}

// Window is [join, join + 3 calendar months - 1 day].
func Window(join entity.MasterlistRecord) entity.EligibilityWindow {
	start := normalize.DateOnly(join.JoinDate)
	return entity.EligibilityWindow{
		Start: start,
		End:   normalize.AddMonths(start, eligibleMonths).AddDate(0, 0, -1),
	}
}

// EligibleDay is an attendance day that falls inside its employee's window, with
// the recruiter it is credited to.
type EligibleDay struct {
	entity.AttendanceDay
	RecruiterName string
}

// Join attaches masterlist data to each day and keeps the days inside the
// employee's eligibility window. Employees missing from the masterlist are dropped
// unless ExcludeNotInMaster is off, in which case every dated day of theirs counts
// for "Unassigned".
func Join(days []entity.AttendanceDay, master Masterlist, s config.Settings) ([]EligibleDay, []entity.EmployeeWindow, entity.RunStats) {
	stats := entity.RunStats{Days: len(days)}
	windows := make(map[string]entity.EmployeeWindow)

	var eligible []EligibleDay
	for _, d := range days {
		rec, ok := master[d.EmployeeName]
		if !ok {
			if s.ExcludeNotInMaster {
				stats.NotInMasterlist++
				continue
			}
			eligible = append(eligible, EligibleDay{AttendanceDay: d, RecruiterName: normalize.Unassigned})
			continue
		}
		if !rec.HasJoinDate {
			stats.NoJoinDate++
			continue
		}

		w := Window(rec)
		windows[rec.EmployeeName] = entity.EmployeeWindow{
			EmployeeName:  rec.EmployeeName,
			RecruiterName: rec.RecruiterName,
			Window:        w,
		}
		if !w.Contains(d.Date) {
			stats.OutsideWindow++
			continue
		}
		eligible = append(eligible, EligibleDay{AttendanceDay: d, RecruiterName: rec.RecruiterName})
	}
	stats.EligibleDays = len(eligible)

	list := make([]entity.EmployeeWindow, 0, len(windows))
	for _, w := range windows {
		list = append(list, w)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].EmployeeName < list[j].EmployeeName })

	return eligible, list, stats
}

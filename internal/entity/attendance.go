package entity

import (
	"time"
)

// AttendanceRecord is one derived timecard row.
type AttendanceRecord struct {
	Row          int
	EmployeeID   string
	EmployeeName string
	Date         time.Time
	HasDate      bool
	HoursWorked  float64
	IsLeave      bool
}

// AttendanceDay merges the records of one employee on one calendar date.
type AttendanceDay struct {
	EmployeeID   string
	EmployeeName string
	Date         time.Time
	HoursWorked  float64
	IsLeave      bool
}

type MasterlistRecord struct {
	EmployeeName  string
	JoinDate      time.Time
	HasJoinDate   bool
	RecruiterName string
}

// EligibilityWindow is the closed interval [Start, End].
type EligibilityWindow struct {
	Start time.Time
	End   time.Time
}

func (w EligibilityWindow) Contains(t time.Time) bool {
	return !t.Before(w.Start) && !t.After(w.End)
}

// EmployeeWindow is the window attached to an employee seen in the timecard.
type EmployeeWindow struct {
	EmployeeName  string
	RecruiterName string
	Window        EligibilityWindow
}

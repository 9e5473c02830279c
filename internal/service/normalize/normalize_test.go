package normalize

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestEmployeeID(t *testing.T) {
	tests := []struct {
		in   string
		want string
		ok   bool
	}{
		{"123.0", "123", true},
		{" ab 12 ", "AB12", true},
		{"e-100", "E-100", true},
		{"12.05", "12.05", true},
		{"", "", false},
		{"   ", "", false},
	}
	for _, tt := range tests {
		got, ok := EmployeeID(tt.in)
		assert.Equal(t, tt.want, got, tt.in)
		assert.Equal(t, tt.ok, ok, tt.in)
	}
}

func TestName(t *testing.T) {
	assert.Equal(t, "Jane Doe", Name("  Jane Doe "))
	assert.Equal(t, "", Name(""))
}

func TestRecruiter(t *testing.T) {
	assert.Equal(t, "Unassigned", Recruiter(""))
	assert.Equal(t, "Unassigned", Recruiter("   "))
	assert.Equal(t, "John Smith", Recruiter("john smith"))
	assert.Equal(t, "John Smith", Recruiter(" JOHN SMITH "))
	assert.Equal(t, "John O'Neil", Recruiter("john o'neil"))
	assert.Equal(t, "Team1A", Recruiter("team1a"))
	assert.Equal(t, "Ng-Lee  Tan", Recruiter("NG-LEE  tan"))
	assert.Equal(t, "42", Recruiter("42"))
}

func TestIsLeave(t *testing.T) {
	for _, v := range []string{"Medical Leave", "MC", "unpaid leave", "Absent", "SICK", "Annual Dinner"} {
		assert.True(t, IsLeave(v), v)
	}
	for _, v := range []string{"", "Present", "08:00", "Work from home"} {
		assert.False(t, IsLeave(v), v)
	}
}

func TestParseDate(t *testing.T) {
	tests := []struct {
		name     string
		in       string
		dayFirst bool
		want     time.Time
		ok       bool
	}{
		{"iso", "2024-01-15", true, date(2024, 1, 15), true},
		{"iso with clock", "2024-01-15 00:00:00", false, date(2024, 1, 15), true},
		{"day first", "05/02/2024", true, date(2024, 2, 5), true},
		{"month first", "05/02/2024", false, date(2024, 5, 2), true},
		{"day first impossible month falls back", "02/13/2024", true, date(2024, 2, 13), true},
		{"short year", "5-2-24", true, date(2024, 2, 5), true},
		{"named month", "15 Jan 2024", false, date(2024, 1, 15), true},
		{"named month upper", "15-JAN-2024", true, date(2024, 1, 15), true},
		{"excel serial", "45306", true, date(2024, 1, 15), true},
		{"excel serial with time", "45306.5", true, date(2024, 1, 15), true},
		{"garbage", "not a date", true, time.Time{}, false},
		{"blank", "", true, time.Time{}, false},
		{"zero serial", "0", true, time.Time{}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ParseDate(tt.in, tt.dayFirst)
			assert.Equal(t, tt.ok, ok)
			assert.True(t, tt.want.Equal(got), "got %s", got)
		})
	}
}

func TestParseTimeOfDay(t *testing.T) {
	tests := []struct {
		in   string
		want float64
		ok   bool
	}{
		{"8", 8, true},
		{"22.0", 22, true},
		{"0.375", 9, true},
		{"45306.75", 18, true},
		{"09:30", 9.5, true},
		{"17:45:00", 17.75, true},
		{"6:15 pm", 18.25, true},
		{"2024-01-15 07:30:00", 7.5, true},
		{"MC", 0, false},
		{"", 0, false},
		{"-3", 0, false},
	}
	for _, tt := range tests {
		got, ok := ParseTimeOfDay(tt.in)
		assert.Equal(t, tt.ok, ok, tt.in)
		assert.InDelta(t, tt.want, got, 1e-9, tt.in)
	}
}

func TestParseDuration(t *testing.T) {
	assert.InDelta(t, 4.0, ParseDuration("22.0", "2.0"), 1e-9)
	assert.InDelta(t, 9.0, ParseDuration("08:00", "17:00"), 1e-9)
	assert.InDelta(t, 8.5, ParseDuration("0.375", "0.729166666666667"), 1e-6)
	assert.Equal(t, 0.0, ParseDuration("", "17:00"))
	assert.Equal(t, 0.0, ParseDuration("MC", "MC"))
}

func TestAddMonths(t *testing.T) {
	assert.Equal(t, date(2024, 4, 15), AddMonths(date(2024, 1, 15), 3))
	assert.Equal(t, date(2024, 2, 29), AddMonths(date(2023, 11, 30), 3))
	assert.Equal(t, date(2025, 2, 28), AddMonths(date(2024, 11, 30), 3))
	assert.Equal(t, date(2025, 1, 31), AddMonths(date(2024, 10, 31), 3))
	assert.Equal(t, date(2023, 12, 31), AddMonths(date(2024, 3, 31), -3))
}

func TestDaysIn(t *testing.T) {
	require.Equal(t, 29, DaysIn(2024, time.February))
	require.Equal(t, 28, DaysIn(2023, time.February))
	require.Equal(t, 31, DaysIn(2024, time.December))
}

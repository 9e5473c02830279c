// Package normalize canonicalises raw spreadsheet cells. Nothing in here returns
// an error: a cell that cannot be understood comes back as missing or zero.
package normalize

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

const Unassigned = "Unassigned"

var leaveKeywords = []string{"unpaid", "annual", "absent", "emergency", "medical", "sick", "mc", "leave"}

// EmployeeID uppercases the id, drops all whitespace and strips the ".0" that
// spreadsheets append to numeric ids. The bool is false for a blank cell.
func EmployeeID(raw string) (string, bool) {
	s := strings.ToUpper(strings.Join(strings.Fields(raw), ""))
	if s == "" {
		return "", false
	}
	return strings.TrimSuffix(s, ".0"), true
}

func Name(raw string) string {
	return strings.TrimSpace(raw)
}

func Recruiter(raw string) string {
	s := strings.TrimSpace(raw)
	if s == "" {
		return Unassigned
	}
	return titleWords(s)
}

// titleWords capitalises every run of letters on its own, so "o'neil" becomes
// "O'Neil" and "team1a" becomes "Team1A".
func titleWords(s string) string {
	caser := cases.Title(language.Und)
	var b strings.Builder
	b.Grow(len(s))
	for len(s) > 0 {
		i := strings.IndexFunc(s, func(r rune) bool { return !unicode.IsLetter(r) })
		if i == 0 {
			j := strings.IndexFunc(s, unicode.IsLetter)
			if j < 0 {
				j = len(s)
			}
			b.WriteString(s[:j])
			s = s[j:]
			continue
		}
		if i < 0 {
			i = len(s)
		}
		b.WriteString(caser.String(s[:i]))
		s = s[i:]
	}
	return b.String()
}

// IsLeave is a plain substring match, so "Annual Dinner" counts as leave too.
func IsLeave(raw string) bool {
	s := strings.ToLower(raw)
	if strings.TrimSpace(s) == "" {
		return false
	}
	for _, k := range leaveKeywords {
		if strings.Contains(s, k) {
			return true
		}
	}
	return false
}

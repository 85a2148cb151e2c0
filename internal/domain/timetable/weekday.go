// internal/domain/timetable/weekday.go
package timetable

import (
	"fmt"
	"strings"
	"time"
)

// Weekday mirrors time.Weekday so rows can be matched against a calendar date.
type Weekday time.Weekday

const (
	Sunday    = Weekday(time.Sunday)
	Monday    = Weekday(time.Monday)
	Tuesday   = Weekday(time.Tuesday)
	Wednesday = Weekday(time.Wednesday)
	Thursday  = Weekday(time.Thursday)
	Friday    = Weekday(time.Friday)
	Saturday  = Weekday(time.Saturday)
)

// Japanese labels as they appear in the timetable sheet (曜日 column).
var japaneseLabels = map[Weekday]string{
	Monday:    "月",
	Tuesday:   "火",
	Wednesday: "水",
	Thursday:  "木",
	Friday:    "金",
	Saturday:  "土",
	Sunday:    "日",
}

// WeekdayOf returns the weekday of the given date.
func WeekdayOf(date time.Time) Weekday {
	return Weekday(date.Weekday())
}

// ParseWeekday accepts 月..日, Mon..Sun and Monday..Sunday (English is case-insensitive).
func ParseWeekday(s string) (Weekday, error) {
	s = strings.TrimSpace(s)
	for d, label := range japaneseLabels {
		if s == label || s == label+"曜" || s == label+"曜日" {
			return d, nil
		}
	}
	lower := strings.ToLower(s)
	for d := Sunday; d <= Saturday; d++ {
		full := strings.ToLower(time.Weekday(d).String())
		if lower == full || lower == full[:3] {
			return d, nil
		}
	}
	return 0, fmt.Errorf("unknown weekday %q", s)
}

// Label returns the Japanese single-character label, e.g. "火".
func (d Weekday) Label() string {
	return japaneseLabels[d]
}

// Aliases lists every spelling ParseWeekday maps to d, English in lower case. Sources that store
// raw labels must compare them trimmed and lower-cased.
func (d Weekday) Aliases() []string {
	full := strings.ToLower(time.Weekday(d).String())
	label := d.Label()
	return []string{label, label + "曜", label + "曜日", full[:3], full}
}

func (d Weekday) String() string {
	return time.Weekday(d).String()
}

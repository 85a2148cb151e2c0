// internal/domain/timetable/row.go
package timetable

import (
	"strings"

	"bigben_scheduler/internal/domain/clock"
)

// Row is one class period from the timetable. Rows are read-only for the lifetime of a run.
type Row struct {
	Weekday Weekday
	Start   clock.TimeOfDay
	End     clock.TimeOfDay
	Subject string // May be empty; an empty subject is published as-is.
}

// DecodeRow builds a Row from raw cell values. line is used for error reporting only.
func DecodeRow(line int, weekday, start, end, subject string) (Row, error) {
	d, err := ParseWeekday(weekday)
	if err != nil {
		return Row{}, &ParseError{Line: line, Column: ColumnWeekday, Value: weekday, Err: err}
	}
	s, err := clock.ParseTimeOfDay(start)
	if err != nil {
		return Row{}, &ParseError{Line: line, Column: ColumnStart, Value: start, Err: err}
	}
	e, err := clock.ParseTimeOfDay(end)
	if err != nil {
		return Row{}, &ParseError{Line: line, Column: ColumnEnd, Value: end, Err: err}
	}
	return Row{Weekday: d, Start: s, End: e, Subject: strings.TrimSpace(subject)}, nil
}

// internal/domain/timetable/errors.go
package timetable

import (
	"errors"
	"fmt"
)

// ErrDataAccess marks a timetable that could not be read or decoded for a given day.
// The daily publish step is skipped when a source returns it.
var ErrDataAccess = errors.New("timetable data access error")

// Column identifies a timetable field in parse errors.
type Column string

const (
	ColumnWeekday Column = "weekday"
	ColumnStart   Column = "start_time"
	ColumnEnd     Column = "end_time"
	ColumnSubject Column = "subject"
)

// ParseError reports a malformed timetable cell.
type ParseError struct {
	Line   int
	Column Column
	Value  string
	Err    error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("line %d: invalid %s %q: %v", e.Line, e.Column, e.Value, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

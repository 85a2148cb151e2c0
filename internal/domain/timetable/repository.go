// internal/domain/timetable/repository.go
package timetable

import "context"

// Repository is a read-only timetable source.
type Repository interface {
	// RowsForWeekday returns all rows for d, ordered by start time.
	// Failures are wrapped with ErrDataAccess.
	RowsForWeekday(ctx context.Context, d Weekday) ([]Row, error)
}

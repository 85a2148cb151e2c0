// internal/infra/database/postgres_timetable_repository.go
package database

import (
	"context"
	"database/sql"
	"fmt"
	"sort"

	"bigben_scheduler/internal/domain/timetable"

	"github.com/lib/pq" // For pq.Array and driver registration
)

// PostgresTimetableRepository reads the timetable from the timetable_rows table:
//
//	CREATE TABLE timetable_rows (
//	    weekday    TEXT NOT NULL, -- 月..日 or Mon..Sun
//	    start_time TEXT NOT NULL, -- HH:MM
//	    end_time   TEXT NOT NULL, -- HH:MM
//	    subject    TEXT
//	);
type PostgresTimetableRepository struct {
	db *sql.DB
}

func NewPostgresTimetableRepository(db *sql.DB) *PostgresTimetableRepository {
	return &PostgresTimetableRepository{db: db}
}

// RowsForWeekday implements timetable.Repository. Weekday labels are matched in every spelling
// the CSV source accepts, ignoring case and surrounding spaces. start_time is TEXT and may be
// "8:50", so rows are ordered after decoding rather than by the database.
func (r *PostgresTimetableRepository) RowsForWeekday(ctx context.Context, d timetable.Weekday) ([]timetable.Row, error) {
	query := `SELECT weekday, start_time, end_time, COALESCE(subject, '')
               FROM timetable_rows
               WHERE lower(btrim(weekday)) = ANY($1)`

	rows, err := r.db.QueryContext(ctx, query, pq.Array(d.Aliases()))
	if err != nil {
		return nil, fmt.Errorf("%w: error querying timetable rows: %w", timetable.ErrDataAccess, err)
	}
	defer rows.Close()

	result := make([]timetable.Row, 0)
	line := 0
	for rows.Next() {
		line++
		var weekday, start, end, subject string
		if err := rows.Scan(&weekday, &start, &end, &subject); err != nil {
			return nil, fmt.Errorf("%w: error scanning timetable row: %w", timetable.ErrDataAccess, err)
		}
		row, err := timetable.DecodeRow(line, weekday, start, end, subject)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", timetable.ErrDataAccess, err)
		}
		result = append(result, row)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: error iterating timetable rows: %w", timetable.ErrDataAccess, err)
	}
	sort.SliceStable(result, func(i, j int) bool {
		return result[i].Start.Minutes() < result[j].Start.Minutes()
	})
	return result, nil
}

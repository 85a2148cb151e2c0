// internal/domain/schedule/plan.go
package schedule

import (
	"time"

	"bigben_scheduler/internal/domain/timetable"
)

// Every class period is split 45/10/45 from its start time, regardless of the row's end time.
const (
	WorkDuration  = 45 * time.Minute
	BreakDuration = 10 * time.Minute
	PeriodSpan    = 2*WorkDuration + BreakDuration
)

// Period is a timetable row split into two work segments around a break.
type Period struct {
	Row   timetable.Row
	WorkA Segment
	Break Segment
	WorkB Segment
}

// Plan splits row into its segments on date's calendar day. It is pure: equal inputs give equal output.
func Plan(row timetable.Row, date time.Time) Period {
	start := row.Start.On(date)
	breakStart := start.Add(WorkDuration)
	workBStart := breakStart.Add(BreakDuration)

	return Period{
		Row: row,
		WorkA: Segment{
			Kind:  KindWork,
			Start: start,
			End:   breakStart,
			Label: row.Subject,
		},
		Break: Segment{
			Kind:  KindBreak,
			Start: breakStart,
			End:   workBStart,
			Label: BreakLabel,
		},
		WorkB: Segment{
			Kind:  KindWork,
			Start: workBStart,
			End:   workBStart.Add(WorkDuration),
			Label: row.Subject,
		},
	}
}

// PlanAll plans every row for date, preserving row order.
func PlanAll(rows []timetable.Row, date time.Time) []Period {
	periods := make([]Period, 0, len(rows))
	for _, row := range rows {
		periods = append(periods, Plan(row, date))
	}
	return periods
}

// Segments returns WorkA, Break and WorkB in chronological order.
func (p Period) Segments() []Segment {
	return []Segment{p.WorkA, p.Break, p.WorkB}
}

// WorkSegments returns the two segments that are published as calendar events.
func (p Period) WorkSegments() []Segment {
	return []Segment{p.WorkA, p.WorkB}
}

const minutesPerDay = 24 * 60

// Mismatch reports whether the row's nominal end time differs from the fixed split's end.
// An end time earlier than the start is read as the next day. The split is not adjusted;
// callers only use this for diagnostics.
func (p Period) Mismatch() bool {
	span := (p.Row.End.Minutes() - p.Row.Start.Minutes() + minutesPerDay) % minutesPerDay
	return span != int(PeriodSpan/time.Minute)
}

// CrossesMidnight reports whether the split runs into the next calendar day, which happens for
// rows starting after 22:20. Such segments are still planned and published as-is.
func (p Period) CrossesMidnight() bool {
	return p.Row.Start.Minutes()+int(PeriodSpan/time.Minute) > minutesPerDay
}

package app

import (
	"context"
	"fmt"
	"sync"
	"time"

	"bigben_scheduler/internal/domain/schedule"
	"bigben_scheduler/internal/domain/timetable"
)

// Application-level errors for the status commands
var ErrNotAuthorized = fmt.Errorf("requesting user is not the configured owner")

// Snapshot is a point-in-time copy of the scheduler state.
type Snapshot struct {
	GateState   GateState
	PublishHour int
	LastChime   time.Time
	LastRun     *RunReport
	UpdatedAt   time.Time
}

// StatusBoard is written by the scheduler and read by chat commands running on other goroutines.
type StatusBoard struct {
	mu       sync.RWMutex
	snapshot Snapshot
}

func NewStatusBoard(publishHour int) *StatusBoard {
	return &StatusBoard{snapshot: Snapshot{GateState: GateClosed, PublishHour: publishHour}}
}

// RecordGate stores the current gate state.
func (b *StatusBoard) RecordGate(state GateState, at time.Time) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.snapshot.GateState = state
	b.snapshot.UpdatedAt = at
}

// RecordChime stores the minute of the last chime.
func (b *StatusBoard) RecordChime(at time.Time) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.snapshot.LastChime = at
	b.snapshot.UpdatedAt = at
}

// RecordRun stores the last publish report.
func (b *StatusBoard) RecordRun(report RunReport) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.snapshot.LastRun = &report
	b.snapshot.UpdatedAt = report.FinishedAt
}

// Snapshot returns a copy of the current state.
func (b *StatusBoard) Snapshot() Snapshot {
	b.mu.RLock()
	defer b.mu.RUnlock()
	s := b.snapshot
	if s.LastRun != nil {
		run := *s.LastRun
		run.Outcomes = append([]schedule.Outcome(nil), s.LastRun.Outcomes...)
		s.LastRun = &run
	}
	return s
}

// StatusService answers read-only questions about the schedule for the owner.
type StatusService struct {
	board         *StatusBoard
	timetableRepo timetable.Repository
	triggers      *TriggerSet
	ownerChatID   int64
}

func NewStatusService(board *StatusBoard, tr timetable.Repository, triggers *TriggerSet, ownerChatID int64) *StatusService {
	return &StatusService{
		board:         board,
		timetableRepo: tr,
		triggers:      triggers,
		ownerChatID:   ownerChatID,
	}
}

func (s *StatusService) authorize(requesterID int64) error {
	if requesterID != s.ownerChatID {
		return ErrNotAuthorized
	}
	return nil
}

// Status returns the current scheduler snapshot.
func (s *StatusService) Status(requesterID int64) (Snapshot, error) {
	if err := s.authorize(requesterID); err != nil {
		return Snapshot{}, err
	}
	return s.board.Snapshot(), nil
}

// PlanFor plans date without publishing anything.
func (s *StatusService) PlanFor(ctx context.Context, requesterID int64, date time.Time) ([]schedule.Period, error) {
	if err := s.authorize(requesterID); err != nil {
		return nil, err
	}
	rows, err := s.timetableRepo.RowsForWeekday(ctx, timetable.WeekdayOf(date))
	if err != nil {
		return nil, fmt.Errorf("failed to load timetable for %s: %w", date.Format("2006-01-02"), err)
	}
	return schedule.PlanAll(rows, date), nil
}

// Chimes lists the configured trigger times.
func (s *StatusService) Chimes(requesterID int64) ([]TriggerTime, error) {
	if err := s.authorize(requesterID); err != nil {
		return nil, err
	}
	return s.triggers.Times(), nil
}

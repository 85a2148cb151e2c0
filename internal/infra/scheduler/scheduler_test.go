package scheduler

import (
	"context"
	"testing"
	"time"

	"bigben_scheduler/internal/app"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
)

type mockPublisher struct {
	dates []time.Time
	panic bool
}

func (m *mockPublisher) PublishDay(_ context.Context, date time.Time) app.RunReport {
	m.dates = append(m.dates, date)
	if m.panic {
		panic("notion client exploded")
	}
	return app.RunReport{RunID: uuid.New(), Date: date, FinishedAt: date}
}

type mockChimer struct {
	at    map[string]bool
	fired []time.Time
	last  time.Time
}

// MaybeChime fires once per matching minute, like the real chime service.
func (m *mockChimer) MaybeChime(_ context.Context, now time.Time) bool {
	minute := now.Truncate(time.Minute)
	if !m.at[now.Format("15:04")] || minute.Equal(m.last) {
		return false
	}
	m.last = minute
	m.fired = append(m.fired, now)
	return true
}

func newTestScheduler(pub *mockPublisher, chimer *mockChimer) (*DailyScheduler, *app.StatusBoard) {
	logger, _ := test.NewNullLogger()
	board := app.NewStatusBoard(19)
	if chimer == nil {
		chimer = &mockChimer{}
	}
	s := NewDailyScheduler(chimer, pub, app.NewDailyRunGate(19), board, 10*time.Second, logrus.NewEntry(logger))
	return s, board
}

// tickRange ticks every 10s from start (inclusive) to end (exclusive).
func tickRange(s *DailyScheduler, start, end time.Time) {
	for now := start; now.Before(end); now = now.Add(10 * time.Second) {
		s.Tick(context.Background(), now)
	}
}

func TestTickPublishesOncePerHour(t *testing.T) {
	pub := &mockPublisher{}
	s, board := newTestScheduler(pub, nil)

	start := time.Date(2025, 4, 15, 19, 0, 0, 0, time.Local)
	tickRange(s, start, start.Add(time.Hour)) // 360 ticks

	if len(pub.dates) != 1 {
		t.Fatalf("PublishDay called %d times, want 1", len(pub.dates))
	}
	if got := pub.dates[0].Format("2006-01-02"); got != "2025-04-16" {
		t.Errorf("published date = %s, want tomorrow 2025-04-16", got)
	}
	snap := board.Snapshot()
	if snap.GateState != app.GateConsumed || snap.LastRun == nil {
		t.Errorf("board = %+v, want consumed gate and a run report", snap)
	}
}

func TestTickMidnightResetAllowsOneMorePublish(t *testing.T) {
	pub := &mockPublisher{}
	s, board := newTestScheduler(pub, nil)

	day1 := time.Date(2025, 4, 15, 18, 0, 0, 0, time.Local)
	tickRange(s, day1, day1.Add(7*time.Hour)) // 18:00 through 01:00 the next day

	if len(pub.dates) != 1 {
		t.Fatalf("before the second publish hour: %d publishes, want 1", len(pub.dates))
	}
	if got := board.Snapshot().GateState; got != app.GateClosed {
		t.Errorf("gate after midnight = %s, want CLOSED", got)
	}

	day2 := time.Date(2025, 4, 16, 1, 0, 0, 0, time.Local)
	tickRange(s, day2, day2.Add(24*time.Hour))

	if len(pub.dates) != 2 {
		t.Fatalf("after the second publish hour: %d publishes, want 2", len(pub.dates))
	}
	if got := pub.dates[1].Format("2006-01-02"); got != "2025-04-17" {
		t.Errorf("second published date = %s, want 2025-04-17", got)
	}
}

func TestTickNoPublishOutsideHour(t *testing.T) {
	pub := &mockPublisher{}
	s, _ := newTestScheduler(pub, nil)

	start := time.Date(2025, 4, 15, 20, 0, 0, 0, time.Local)
	tickRange(s, start, start.Add(3*time.Hour))

	if len(pub.dates) != 0 {
		t.Errorf("PublishDay called %d times outside the publish hour", len(pub.dates))
	}
}

func TestTickChimesOncePerMinute(t *testing.T) {
	chimer := &mockChimer{at: map[string]bool{"08:50": true}}
	s, board := newTestScheduler(&mockPublisher{}, chimer)

	start := time.Date(2025, 4, 15, 8, 49, 0, 0, time.Local)
	tickRange(s, start, start.Add(3*time.Minute))

	if len(chimer.fired) != 1 {
		t.Fatalf("chime fired %d times, want 1", len(chimer.fired))
	}
	want := time.Date(2025, 4, 15, 8, 50, 0, 0, time.Local)
	if got := board.Snapshot().LastChime; !got.Equal(want) {
		t.Errorf("LastChime = %v, want %v", got, want)
	}
}

func TestTickPanickingPublishConsumesGate(t *testing.T) {
	pub := &mockPublisher{panic: true}
	s, board := newTestScheduler(pub, nil)

	now := time.Date(2025, 4, 15, 19, 0, 0, 0, time.Local)
	func() {
		defer func() { _ = recover() }()
		s.Tick(context.Background(), now)
	}()

	if got := board.Snapshot().GateState; got != app.GateConsumed {
		t.Errorf("gate = %s, want CONSUMED after a panicking publish", got)
	}
	s.Tick(context.Background(), now.Add(10*time.Second))
	if len(pub.dates) != 1 {
		t.Errorf("PublishDay called %d times, want 1", len(pub.dates))
	}
}

func TestStartStop(t *testing.T) {
	s, _ := newTestScheduler(&mockPublisher{}, nil)
	if err := s.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}
	s.Stop()
}

func TestTickMissedMidnightStillReopensGate(t *testing.T) {
	pub := &mockPublisher{}
	s, _ := newTestScheduler(pub, nil)

	day1 := time.Date(2025, 4, 15, 19, 0, 0, 0, time.Local)
	tickRange(s, day1, day1.Add(4*time.Hour)) // until 23:00, then the host sleeps

	morning := time.Date(2025, 4, 16, 7, 0, 0, 0, time.Local)
	tickRange(s, morning, morning.Add(13*time.Hour)) // 07:00 through 20:00

	if len(pub.dates) != 2 {
		t.Fatalf("PublishDay called %d times, want 2", len(pub.dates))
	}
	if got := pub.dates[1].Format("2006-01-02"); got != "2025-04-17" {
		t.Errorf("second published date = %s, want 2025-04-17", got)
	}
}

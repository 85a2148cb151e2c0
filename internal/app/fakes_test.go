package app

import (
	"context"
	"errors"
	"sync"
	"time"

	"bigben_scheduler/internal/domain/calendar"
	"bigben_scheduler/internal/domain/timetable"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"gopkg.in/telebot.v3"
)

// mockCalendar records every call; failEvents forces CreateEvent to fail on the given call numbers (1-based).
type mockCalendar struct {
	mu          sync.Mutex
	events      []calendar.Event
	eventCalls  int
	failEvents  map[int]error
	documents   []calendar.Document
	documentErr error
}

func (m *mockCalendar) CreateEvent(ctx context.Context, event calendar.Event) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.eventCalls++
	if err, exists := m.failEvents[m.eventCalls]; exists {
		return err
	}
	m.events = append(m.events, event)
	return nil
}

func (m *mockCalendar) CreateDocument(ctx context.Context, doc calendar.Document) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.documentErr != nil {
		return m.documentErr
	}
	m.documents = append(m.documents, doc)
	return nil
}

// mockTimetable serves fixed rows per weekday.
type mockTimetable struct {
	rows    map[timetable.Weekday][]timetable.Row
	err     error
	queries []timetable.Weekday
}

func (m *mockTimetable) RowsForWeekday(ctx context.Context, d timetable.Weekday) ([]timetable.Row, error) {
	m.queries = append(m.queries, d)
	if m.err != nil {
		return nil, m.err
	}
	return m.rows[d], nil
}

// mockPlayer counts plays and optionally fails.
type mockPlayer struct {
	plays []string
	err   error
}

func (m *mockPlayer) Play(ctx context.Context, path string) error {
	m.plays = append(m.plays, path)
	return m.err
}

type sentMessage struct {
	chatID int64
	text   string
}

type mockTelegram struct {
	sent []sentMessage
	err  error
}

func (m *mockTelegram) SendMessage(recipientChatID int64, text string, options *telebot.SendOptions) error {
	if m.err != nil {
		return m.err
	}
	m.sent = append(m.sent, sentMessage{chatID: recipientChatID, text: text})
	return nil
}

// recordingSleep collects requested durations without sleeping.
type recordingSleep struct {
	durations []time.Duration
}

func (r *recordingSleep) sleep(ctx context.Context, d time.Duration) {
	r.durations = append(r.durations, d)
}

func newTestLogger() (*logrus.Entry, *test.Hook) {
	logger, hook := test.NewNullLogger()
	logger.SetLevel(logrus.DebugLevel)
	return logrus.NewEntry(logger), hook
}

func mustRow(weekday, start, end, subject string) timetable.Row {
	row, err := timetable.DecodeRow(1, weekday, start, end, subject)
	if err != nil {
		panic(err)
	}
	return row
}

var errBoom = errors.New("boom")

// internal/app/publish_service.go
package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"bigben_scheduler/internal/domain/calendar"
	"bigben_scheduler/internal/domain/schedule"
	"bigben_scheduler/internal/domain/timetable"
	domainTelegram "bigben_scheduler/internal/domain/telegram"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// Publisher runs the once-a-day publish pipeline for a target date.
type Publisher interface {
	PublishDay(ctx context.Context, date time.Time) RunReport
}

// DocumentResult is the outcome of the summary document creation.
type DocumentResult struct {
	Title     string
	Attempted bool
	Err       error
}

// RunReport summarizes one publish run. It only lives in memory and in the log.
type RunReport struct {
	RunID      uuid.UUID
	Date       time.Time
	Weekday    timetable.Weekday
	StartedAt  time.Time
	FinishedAt time.Time
	Rows       int
	Outcomes   []schedule.Outcome
	Document   DocumentResult
	Err        error // Set when the timetable could not be read; nothing was published.
}

// Skipped reports whether the run was skipped because the timetable was unavailable.
func (r RunReport) Skipped() bool {
	return r.Err != nil
}

// Failed counts failed segment posts plus a failed summary document.
func (r RunReport) Failed() int {
	n := schedule.CountFailed(r.Outcomes)
	if r.Document.Attempted && r.Document.Err != nil {
		n++
	}
	return n
}

// PublishService turns timetable rows into calendar events and a daily summary page.
type PublishService struct {
	timetableRepo  timetable.Repository
	calendarClient calendar.Client
	telegramClient domainTelegram.Client // Optional
	notifyChatID   int64
	logger         *logrus.Entry
}

func NewPublishService(
	tr timetable.Repository,
	cc calendar.Client,
	tc domainTelegram.Client, // May be nil
	notifyChatID int64,
	logger *logrus.Entry,
) *PublishService {
	return &PublishService{
		timetableRepo:  tr,
		calendarClient: cc,
		telegramClient: tc,
		notifyChatID:   notifyChatID,
		logger:         logger,
	}
}

// PublishDay loads the rows for date's weekday and publishes events and the summary page.
// Every failure is logged and recorded in the report; nothing is retried.
func (s *PublishService) PublishDay(ctx context.Context, date time.Time) RunReport {
	report := RunReport{
		RunID:     uuid.New(),
		Date:      date,
		Weekday:   timetable.WeekdayOf(date),
		StartedAt: time.Now(),
	}
	log := s.logger.WithFields(logrus.Fields{
		"run_id": report.RunID.String(),
		"date":   date.Format("2006-01-02"),
	})
	log.Infof("Publish started for %s (%s)", date.Format("2006-01-02"), report.Weekday)

	rows, err := s.timetableRepo.RowsForWeekday(ctx, report.Weekday)
	if err != nil {
		if !errors.Is(err, timetable.ErrDataAccess) {
			err = fmt.Errorf("%w: %v", timetable.ErrDataAccess, err)
		}
		report.Err = err
		report.FinishedAt = time.Now()
		log.WithError(err).Error("Timetable unavailable, skipping today's publish")
		return report
	}
	report.Rows = len(rows)
	if len(rows) == 0 {
		log.Infof("No classes on %s. No calendar events will be created.", report.Weekday)
	}

	report.Outcomes = s.publish(ctx, rows, date, log)
	periods := schedule.PlanAll(rows, date)
	report.Document = s.publishSummary(ctx, date, periods, log)
	report.FinishedAt = time.Now()

	log.WithFields(logrus.Fields{
		"rows":     report.Rows,
		"segments": len(report.Outcomes),
		"failed":   report.Failed(),
	}).Info("Publish finished")

	s.notify(date, periods, report, log)
	return report
}

// Publish posts both work segments of every row as calendar events. One failure never stops the
// remaining posts; the outcomes come back in posting order.
func (s *PublishService) Publish(ctx context.Context, rows []timetable.Row, date time.Time) []schedule.Outcome {
	return s.publish(ctx, rows, date, s.logger)
}

func (s *PublishService) publish(ctx context.Context, rows []timetable.Row, date time.Time, log *logrus.Entry) []schedule.Outcome {
	outcomes := make([]schedule.Outcome, 0, len(rows)*2)
	for _, row := range rows {
		period := schedule.Plan(row, date)
		if period.Mismatch() {
			log.Warnf("Period %s-%s [%s] is not %v long; using the fixed 45/10/45 split",
				row.Start, row.End, row.Subject, schedule.PeriodSpan)
		}
		if period.CrossesMidnight() {
			log.Warnf("Period %s [%s] runs past midnight; its last segment ends on %s",
				row.Start, row.Subject, period.WorkB.End.Format("2006-01-02"))
		}
		for i, seg := range period.WorkSegments() {
			outcomes = append(outcomes, s.publishSegment(ctx, segmentName(i), seg, log))
		}
	}
	return outcomes
}

func (s *PublishService) publishSegment(ctx context.Context, name string, seg schedule.Segment, log *logrus.Entry) schedule.Outcome {
	event := calendar.Event{Title: seg.Label, Start: seg.Start, End: seg.End}
	segLog := log.WithFields(logrus.Fields{
		"segment":  name,
		"interval": seg.Interval(),
		"title":    seg.Label,
	})

	if err := s.calendarClient.CreateEvent(ctx, event); err != nil {
		if !errors.Is(err, calendar.ErrPublish) {
			err = fmt.Errorf("%w: %v", calendar.ErrPublish, err)
		}
		segLog.WithError(err).Errorf("Segment %s publish failed: %s [%s]", name, seg.Interval(), seg.Label)
		return schedule.Outcome{Segment: seg, Status: schedule.StatusFailed, Err: err}
	}
	segLog.Infof("Segment %s published: %s [%s]", name, seg.Interval(), seg.Label)
	return schedule.Outcome{Segment: seg, Status: schedule.StatusSucceeded}
}

func segmentName(i int) string {
	if i == 0 {
		return "A"
	}
	return "B"
}

// PublishSummary creates the day's summary page. Its failure does not affect the event posts.
func (s *PublishService) PublishSummary(ctx context.Context, date time.Time, periods []schedule.Period) DocumentResult {
	return s.publishSummary(ctx, date, periods, s.logger)
}

func (s *PublishService) publishSummary(ctx context.Context, date time.Time, periods []schedule.Period, log *logrus.Entry) DocumentResult {
	doc := BuildSummaryDocument(date, periods)
	result := DocumentResult{Title: doc.Title, Attempted: true}

	if err := s.calendarClient.CreateDocument(ctx, doc); err != nil {
		if !errors.Is(err, calendar.ErrPublish) {
			err = fmt.Errorf("%w: %v", calendar.ErrPublish, err)
		}
		result.Err = err
		log.WithError(err).Errorf("Summary page %q creation failed", doc.Title)
		return result
	}
	log.Infof("Summary page %q created with %d lines", doc.Title, len(doc.Blocks)-1)
	return result
}

// notify sends the summary text to Telegram when a client is configured.
func (s *PublishService) notify(date time.Time, periods []schedule.Period, report RunReport, log *logrus.Entry) {
	if s.telegramClient == nil || s.notifyChatID == 0 {
		return
	}
	text := SummaryText(BuildSummaryDocument(date, periods))
	if failed := report.Failed(); failed > 0 {
		text += fmt.Sprintf("\n\n⚠️ %d item(s) failed to publish, see the log (run %s).", failed, report.RunID)
	}
	if err := s.telegramClient.SendMessage(s.notifyChatID, text, nil); err != nil {
		log.WithError(err).Error("Failed to send summary to Telegram")
		return
	}
	log.Debug("Summary sent to Telegram")
}

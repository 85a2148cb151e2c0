package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"bigben_scheduler/internal/app"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

// Chimer plays the bell when now matches a trigger time.
type Chimer interface {
	MaybeChime(ctx context.Context, now time.Time) bool
}

// DailyScheduler is the polling loop: every tick it checks the chimes, runs tomorrow's publish
// once inside the publish hour, and reopens the daily gate at midnight.
type DailyScheduler struct {
	cronEngine   *cron.Cron
	pollInterval time.Duration
	chimer       Chimer
	publisher    app.Publisher
	gate         *app.DailyRunGate
	board        *app.StatusBoard
	logger       *logrus.Entry
	now          func() time.Time

	mu     sync.Mutex
	ctx    context.Context
	cancel context.CancelFunc
}

func NewDailyScheduler(
	chimer Chimer,
	publisher app.Publisher,
	gate *app.DailyRunGate,
	board *app.StatusBoard,
	pollInterval time.Duration, // e.g. 10s
	logger *logrus.Entry,
) *DailyScheduler {
	cronLogger := cron.PrintfLogger(logger)
	return &DailyScheduler{
		cronEngine: cron.New(
			cron.WithLocation(time.Local), // Use server's local time for the gate and chimes
			cron.WithLogger(cronLogger),
			cron.WithChain(cron.Recover(cronLogger), cron.SkipIfStillRunning(cronLogger)),
		),
		pollInterval: pollInterval,
		chimer:       chimer,
		publisher:    publisher,
		gate:         gate,
		board:        board,
		logger:       logger,
		now:          time.Now,
	}
}

// Start registers the tick and starts the cron engine. It does not block.
func (s *DailyScheduler) Start() error {
	s.logger.Infof("Starting scheduler: poll every %s, publish at %02d:00", s.pollInterval, s.gate.PublishHour())

	s.mu.Lock()
	s.ctx, s.cancel = context.WithCancel(context.Background())
	ctx := s.ctx
	s.mu.Unlock()

	spec := fmt.Sprintf("@every %s", s.pollInterval)
	if _, err := s.cronEngine.AddFunc(spec, func() { s.Tick(ctx, s.now()) }); err != nil {
		s.cancel()
		return fmt.Errorf("could not add scheduler tick %q: %w", spec, err)
	}

	s.cronEngine.Start()
	s.logger.Info("Scheduler started.")
	return nil
}

// Stop cancels the running tick and waits for it to return.
func (s *DailyScheduler) Stop() {
	s.logger.Info("Stopping scheduler...")
	s.mu.Lock()
	if s.cancel != nil {
		s.cancel()
	}
	s.mu.Unlock()
	ctx := s.cronEngine.Stop() // Stops new ticks, waits for the running one.
	<-ctx.Done()
	s.logger.Info("Scheduler gracefully stopped.")
}

// Tick runs one poll at now.
func (s *DailyScheduler) Tick(ctx context.Context, now time.Time) {
	if s.chimer.MaybeChime(ctx, now) {
		s.board.RecordChime(now.Truncate(time.Minute))
	}

	if s.gate.Due(now) {
		s.runPublish(ctx, now)
	}

	if s.gate.ResetAtMidnight(now) {
		s.logger.WithField("date", now.Format("2006-01-02")).Info("Daily gate reset")
		s.board.RecordGate(s.gate.State(), now)
	}
}

func (s *DailyScheduler) runPublish(ctx context.Context, now time.Time) {
	// Consumed even if the pipeline panics, so a failing publish is not retried every tick.
	defer func() {
		s.gate.MarkConsumed(now)
		s.board.RecordGate(s.gate.State(), now)
	}()

	tomorrow := now.AddDate(0, 0, 1)
	s.logger.WithField("date", tomorrow.Format("2006-01-02")).Info("Publish hour reached, publishing tomorrow's timetable")
	report := s.publisher.PublishDay(ctx, tomorrow)
	s.board.RecordRun(report)
}

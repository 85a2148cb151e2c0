// internal/app/chime_service.go
package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"bigben_scheduler/internal/domain/audio"
	"bigben_scheduler/internal/domain/clock"

	"github.com/sirupsen/logrus"
)

// TriggerTime is a labelled time of day at which a chime sounds.
type TriggerTime struct {
	Label string
	At    clock.TimeOfDay
}

// TriggerSet is an ordered set of trigger times with no duplicates.
type TriggerSet struct {
	times []TriggerTime
	index map[clock.TimeOfDay]int
}

// NewTriggerSet builds a set preserving the given order. Duplicate times are rejected.
func NewTriggerSet(times []TriggerTime) (*TriggerSet, error) {
	set := &TriggerSet{
		times: make([]TriggerTime, 0, len(times)),
		index: make(map[clock.TimeOfDay]int, len(times)),
	}
	for _, tt := range times {
		if _, exists := set.index[tt.At]; exists {
			return nil, fmt.Errorf("duplicate trigger time %s", tt.At)
		}
		set.index[tt.At] = len(set.times)
		set.times = append(set.times, tt)
	}
	return set, nil
}

// Match returns the trigger for the minute containing now.
func (s *TriggerSet) Match(now time.Time) (TriggerTime, bool) {
	i, ok := s.index[clock.FromTime(now)]
	if !ok {
		return TriggerTime{}, false
	}
	return s.times[i], true
}

// Times returns a copy of the trigger times in order.
func (s *TriggerSet) Times() []TriggerTime {
	return append([]TriggerTime(nil), s.times...)
}

// SleepFunc pauses for d or until ctx is done.
type SleepFunc func(ctx context.Context, d time.Duration)

// SleepContext is the production SleepFunc.
func SleepContext(ctx context.Context, d time.Duration) {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
	case <-timer.C:
	}
}

// ChimeService plays the bell when the clock reaches a trigger time.
type ChimeService struct {
	triggers  *TriggerSet
	player    audio.Player
	soundFile string
	cooldown  time.Duration
	sleep     SleepFunc
	logger    *logrus.Entry

	lastFired time.Time // minute of the last chime, for same-minute dedup
}

func NewChimeService(
	triggers *TriggerSet,
	player audio.Player,
	soundFile string,
	cooldown time.Duration,
	sleep SleepFunc,
	logger *logrus.Entry,
) *ChimeService {
	if sleep == nil {
		sleep = SleepContext
	}
	return &ChimeService{
		triggers:  triggers,
		player:    player,
		soundFile: soundFile,
		cooldown:  cooldown,
		sleep:     sleep,
		logger:    logger,
	}
}

// MaybeChime plays the bell if now falls on a trigger minute that has not fired yet.
// It blocks for the playback and the cool-down. Playback errors are logged, never returned.
func (s *ChimeService) MaybeChime(ctx context.Context, now time.Time) bool {
	trigger, ok := s.triggers.Match(now)
	if !ok {
		return false
	}
	minute := now.Truncate(time.Minute)
	if minute.Equal(s.lastFired) {
		return false
	}
	s.lastFired = minute

	log := s.logger.WithFields(logrus.Fields{
		"period": trigger.Label,
		"time":   trigger.At.String(),
	})
	log.Infof("Chime fired: %s (%s)", trigger.At, trigger.Label)

	if err := s.player.Play(ctx, s.soundFile); err != nil {
		if !errors.Is(err, audio.ErrPlayback) {
			err = fmt.Errorf("%w: %v", audio.ErrPlayback, err)
		}
		log.WithError(err).Error("Chime playback failed, continuing")
	}

	s.sleep(ctx, s.cooldown)
	return true
}

// LastFired returns the minute of the most recent chime.
func (s *ChimeService) LastFired() time.Time {
	return s.lastFired
}

// Triggers returns the configured trigger set.
func (s *ChimeService) Triggers() *TriggerSet {
	return s.triggers
}

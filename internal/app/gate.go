// internal/app/gate.go
package app

import (
	"time"
)

// GateState is the state of the once-per-day publish gate.
type GateState string

const (
	// GateClosed means today's publish has not been attempted yet.
	GateClosed GateState = "CLOSED"
	// GateConsumed means today's publish was attempted, successfully or not.
	GateConsumed GateState = "CONSUMED"
)

// DailyRunGate allows the publish pipeline to run at most once per calendar day.
//
// Closed -> Consumed happens on the first poll inside the publish hour; Consumed -> Closed
// happens on the first poll of the next local calendar day, normally at 00:00. Only the scheduler that owns the gate mutates it,
// so it carries no lock.
type DailyRunGate struct {
	publishHour int
	state       GateState
	consumedAt  time.Time
}

// NewDailyRunGate returns a closed gate for the given publish hour (1..23).
func NewDailyRunGate(publishHour int) *DailyRunGate {
	return &DailyRunGate{publishHour: publishHour, state: GateClosed}
}

// Due reports whether the publish pipeline should run now.
func (g *DailyRunGate) Due(now time.Time) bool {
	return g.state == GateClosed && now.Hour() == g.publishHour
}

// MarkConsumed records a publish attempt. It is a no-op when already consumed.
func (g *DailyRunGate) MarkConsumed(now time.Time) {
	if g.state == GateConsumed {
		return
	}
	g.state = GateConsumed
	g.consumedAt = now
}

// ResetAtMidnight reopens a consumed gate once the calendar day has changed and reports whether
// it did. The first tick at 00:00 normally does it; a tick missed at midnight (host asleep, a chime
// blocking past 00:00) is caught up by the first tick of the new day.
func (g *DailyRunGate) ResetAtMidnight(now time.Time) bool {
	if g.state != GateConsumed || !dayAfter(now, g.consumedAt) {
		return false
	}
	g.state = GateClosed
	return true
}

// dayAfter reports whether now falls on a later local calendar day than then.
func dayAfter(now, then time.Time) bool {
	ny, nm, nd := now.Date()
	ty, tm, td := then.In(now.Location()).Date()
	if ny != ty {
		return ny > ty
	}
	if nm != tm {
		return nm > tm
	}
	return nd > td
}

// State returns the current gate state.
func (g *DailyRunGate) State() GateState {
	return g.state
}

// ConsumedAt returns when the gate was last consumed (zero if never).
func (g *DailyRunGate) ConsumedAt() time.Time {
	return g.consumedAt
}

// PublishHour returns the configured hour.
func (g *DailyRunGate) PublishHour() int {
	return g.publishHour
}

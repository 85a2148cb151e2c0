// internal/domain/schedule/segment.go
package schedule

import (
	"fmt"
	"time"
)

// Kind distinguishes focus blocks from the break between them.
type Kind string

const (
	KindWork  Kind = "WORK"
	KindBreak Kind = "BREAK"
)

// BreakLabel is the fixed label of every break segment.
const BreakLabel = "【休憩】"

// Segment is one contiguous block of a split class period. End is always after Start.
type Segment struct {
	Kind  Kind
	Start time.Time
	End   time.Time
	Label string
}

// Duration returns End - Start.
func (s Segment) Duration() time.Duration {
	return s.End.Sub(s.Start)
}

// Interval renders the segment as "HH:MM～HH:MM".
func (s Segment) Interval() string {
	return fmt.Sprintf("%s～%s", s.Start.Format("15:04"), s.End.Format("15:04"))
}

// Line renders the segment the way it appears in the daily summary: "13:10～13:55　Linear Algebra".
func (s Segment) Line() string {
	return s.Interval() + "　" + s.Label
}

func (s Segment) String() string {
	return fmt.Sprintf("%s %s [%s]", s.Kind, s.Interval(), s.Label)
}

// internal/app/summary.go
package app

import (
	"fmt"
	"strings"
	"time"

	"bigben_scheduler/internal/domain/calendar"
	"bigben_scheduler/internal/domain/schedule"
	"bigben_scheduler/internal/domain/timetable"
)

// SummaryTitle is the page title of a day's summary, e.g. "25-0415".
func SummaryTitle(date time.Time) string {
	return date.Format("06-0102")
}

// SummaryHeading is the heading of a day's summary, e.g. "2025-04-15（火）の時間割".
func SummaryHeading(date time.Time) string {
	return fmt.Sprintf("%s（%s）の時間割", date.Format("2006-01-02"), timetable.WeekdayOf(date).Label())
}

// SummaryLines returns three lines per period: work A, break, work B.
func SummaryLines(periods []schedule.Period) []string {
	lines := make([]string, 0, len(periods)*3)
	for _, p := range periods {
		for _, seg := range p.Segments() {
			lines = append(lines, seg.Line())
		}
	}
	return lines
}

// BuildSummaryDocument lays out the day's plan as a heading followed by one paragraph per line.
func BuildSummaryDocument(date time.Time, periods []schedule.Period) calendar.Document {
	lines := SummaryLines(periods)
	blocks := make([]calendar.Block, 0, len(lines)+1)
	blocks = append(blocks, calendar.Block{Kind: calendar.BlockHeading, Text: SummaryHeading(date)})
	for _, line := range lines {
		blocks = append(blocks, calendar.Block{Kind: calendar.BlockParagraph, Text: line})
	}
	return calendar.Document{Title: SummaryTitle(date), Blocks: blocks}
}

// SummaryText renders a document as plain text, heading first.
func SummaryText(doc calendar.Document) string {
	var b strings.Builder
	for i, block := range doc.Blocks {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString(block.Text)
	}
	return b.String()
}

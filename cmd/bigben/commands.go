package main

import (
	"context"
	"fmt"
	"time"

	"bigben_scheduler/internal/app"
	"bigben_scheduler/internal/domain/schedule"
	"bigben_scheduler/internal/domain/timetable"

	"github.com/spf13/cobra"
)

var (
	planDate    string
	publishDate string
)

var planCmd = &cobra.Command{
	Use:   "plan",
	Short: "Print the plan for a day without publishing it",
	Long: `Print the work/break blocks that would be published for a day.

Examples:
  # Tomorrow's plan
  bigben plan

  # A specific day
  bigben plan --date 2025-04-15
`,
	RunE: runPlan,
}

var publishCmd = &cobra.Command{
	Use:   "publish",
	Short: "Publish one day to Notion now and exit",
	Long: `Run the publish pipeline once, outside the daily gate.

Examples:
  # Publish tomorrow
  bigben publish

  # Re-publish a specific day
  bigben publish --date 2025-04-15
`,
	RunE: runPublish,
}

func init() {
	planCmd.Flags().StringVar(&planDate, "date", "", "Day to plan (YYYY-MM-DD, default tomorrow)")
	publishCmd.Flags().StringVar(&publishDate, "date", "", "Day to publish (YYYY-MM-DD, default tomorrow)")
	rootCmd.AddCommand(planCmd, publishCmd)
}

// targetDate parses --date in local time; empty means the day after now.
func targetDate(value string, now time.Time) (time.Time, error) {
	if value == "" {
		return now.AddDate(0, 0, 1), nil
	}
	date, err := time.ParseInLocation("2006-01-02", value, now.Location())
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid --date %q: want YYYY-MM-DD", value)
	}
	return date, nil
}

func runPlan(cmd *cobra.Command, args []string) error {
	date, err := targetDate(planDate, time.Now())
	if err != nil {
		return err
	}
	d, err := setup(false)
	if err != nil {
		return err
	}
	defer d.Close()

	rows, err := d.timetableRepo.RowsForWeekday(context.Background(), timetable.WeekdayOf(date))
	if err != nil {
		return err
	}
	doc := app.BuildSummaryDocument(date, schedule.PlanAll(rows, date))
	fmt.Fprintln(cmd.OutOrStdout(), app.SummaryText(doc))
	return nil
}

func runPublish(cmd *cobra.Command, args []string) error {
	date, err := targetDate(publishDate, time.Now())
	if err != nil {
		return err
	}
	d, err := setup(true)
	if err != nil {
		return err
	}
	defer d.Close()

	report := d.publishService.PublishDay(cmd.Context(), date)
	if report.Skipped() {
		return report.Err
	}
	if failed := report.Failed(); failed > 0 {
		return fmt.Errorf("%d item(s) failed to publish (run %s)", failed, report.RunID)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Published %s: %d segment(s) and summary %q (run %s)\n",
		date.Format("2006-01-02"), len(report.Outcomes), report.Document.Title, report.RunID)
	return nil
}

package ui

import (
	"context"
	"fmt"
	"time"

	"github.com/atotto/clipboard"
	"github.com/spf13/cobra"

	"hermes/internal/dateutil"
	"hermes/internal/ics"
	"hermes/internal/layout"
	"hermes/internal/store"
)

func (a *App) dayCmd() *cobra.Command {
	var (
		copyOut bool
		noColor bool
	)

	cmd := &cobra.Command{
		Use:   "day [date]",
		Short: "Print one day's schedule",
		Long: `Print the schedule for a single day: all-day banners, timed tasks
and calendar events in start order, and the unscheduled backlog.

The date accepts absolute (2026-03-04) and relative (today, tomorrow,
friday, next-monday) forms and defaults to today.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			if noColor {
				DisableColor()
			}

			date := time.Now()
			if len(args) == 1 {
				var err error
				date, err = dateutil.ParseRelativeDate(args[0], time.Now())
				if err != nil {
					return err
				}
			}
			day, err := a.buildDays(date, 1)
			if err != nil {
				return err
			}

			fmt.Println()
			printDay(day[0], true)
			fmt.Println()
			printStats(day)

			if copyOut {
				if err := clipboard.WriteAll(copyText(day)); err != nil {
					return fmt.Errorf("copying to clipboard: %w", err)
				}
				fmt.Printf("  %s\n", formatMuted("copied to clipboard"))
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&copyOut, "copy", false, "Copy the schedule to the clipboard")
	cmd.Flags().BoolVar(&noColor, "no-color", false, "Disable color output")
	return cmd
}

// buildDays loads tasks and calendar events and lays out n day columns
// starting at the given date.
func (a *App) buildDays(start time.Time, n int) ([]layout.Day, error) {
	s, err := a.openStore()
	if err != nil {
		return nil, err
	}
	ctx := context.Background()

	tasks, err := store.Tasks(ctx, s)
	if err != nil {
		return nil, fmt.Errorf("loading tasks: %w", err)
	}

	dates := dateutil.DayWindow(start, n)
	events := ics.Load(ctx, a.config.Calendar.ICSSources, dates[0], dates[n-1])

	opts := layout.Options{HourHeight: float64(a.config.Grid.HourHeight)}
	return layout.BuildWindow(tasks, events, dates, opts), nil
}

package ui

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"hermes/internal/dateutil"
	"hermes/internal/store"
	"hermes/internal/task"
)

func (a *App) addCmd() *cobra.Command {
	var (
		date     string
		start    string
		end      string
		category string
	)

	cmd := &cobra.Command{
		Use:   "add [title]",
		Short: "Add a new task",
		Long: `Add a task. Without --start the task lands in the unscheduled
backlog; with a date and start time it appears on the grid.

Example:
  hermes add "Write documentation" --date=tomorrow --start=09:00 --end=11:00`,
		Args: cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			if date != "" {
				d, err := dateutil.ParseRelativeDate(date, time.Now())
				if err != nil {
					return err
				}
				date = dateutil.FormatDate(d)
			}

			t, err := task.New(args[0], date, start, end)
			if err != nil {
				return err
			}
			t.Category = category

			s, err := a.openStore()
			if err != nil {
				return err
			}
			id, err := store.CreateTask(context.Background(), s, t)
			if err != nil {
				return fmt.Errorf("creating task: %w", err)
			}

			if t.IsScheduled() {
				fmt.Printf("Created %s: %s %s %s-%s\n", shortID(id), t.Title, t.Date, t.StartTime, t.EndTime)
			} else {
				fmt.Printf("Created %s: %s (unscheduled)\n", shortID(id), t.Title)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&date, "date", "", "Date (YYYY-MM-DD or relative, e.g. tomorrow)")
	cmd.Flags().StringVar(&start, "start", "", "Start time (HH:MM)")
	cmd.Flags().StringVar(&end, "end", "", "End time (HH:MM)")
	cmd.Flags().StringVar(&category, "category", "", "Free-form category label")

	return cmd
}

// shortID abbreviates a generated id for display.
func shortID(id string) string {
	if len(id) > 8 {
		return "#" + id[:8]
	}
	return "#" + id
}

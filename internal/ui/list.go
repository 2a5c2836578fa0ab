package ui

import (
	"context"
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"hermes/internal/store"
	"hermes/internal/task"
)

func (a *App) listCmd() *cobra.Command {
	var (
		date        string
		unscheduled bool
		all         bool
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List tasks",
		Long: `List tasks grouped by date. By default lists every task that is
not deleted; --date restricts to one day, --unscheduled to the backlog.`,
		Example: `  hermes list
  hermes list --date=2026-03-04
  hermes list --unscheduled`,
		RunE: func(_ *cobra.Command, _ []string) error {
			s, err := a.openStore()
			if err != nil {
				return err
			}
			tasks, err := store.Tasks(context.Background(), s)
			if err != nil {
				return fmt.Errorf("listing tasks: %w", err)
			}

			filtered := tasks[:0]
			for _, t := range tasks {
				switch {
				case t.IsDeleted() && !all:
					continue
				case unscheduled && t.IsScheduled():
					continue
				case date != "" && t.Date != date:
					continue
				}
				filtered = append(filtered, t)
			}
			if len(filtered) == 0 {
				fmt.Println("No tasks found.")
				return nil
			}

			sort.SliceStable(filtered, func(i, j int) bool {
				if filtered[i].Date != filtered[j].Date {
					return filtered[i].Date < filtered[j].Date
				}
				return filtered[i].StartTime < filtered[j].StartTime
			})

			currentDate := "\x00"
			for _, t := range filtered {
				if t.Date != currentDate {
					if currentDate != "\x00" {
						fmt.Println()
					}
					header := t.Date
					if header == "" {
						header = "Unscheduled"
					}
					fmt.Printf("=== %s ===\n", formatHeader(header))
					currentDate = t.Date
				}
				printTaskLine(&t)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&date, "date", "", "Only tasks on this date (YYYY-MM-DD)")
	cmd.Flags().BoolVar(&unscheduled, "unscheduled", false, "Only tasks without a scheduled time")
	cmd.Flags().BoolVar(&all, "all", false, "Include deleted tasks")

	return cmd
}

func printTaskLine(t *task.Task) {
	span := "           "
	if t.StartTime != "" {
		end := t.EndTime
		if end == "" {
			end = "?    "
		}
		span = t.StartTime + "-" + end
	}
	title := t.Title
	if t.IsDone() {
		title = formatMuted(title)
	} else {
		title = formatTask(title)
	}
	line := fmt.Sprintf("  %s %s %s %s", statusSymbol(t.Status), shortID(t.ID), span, title)
	if t.Category != "" {
		line += " " + formatMuted("["+t.Category+"]")
	}
	fmt.Println(line)
}

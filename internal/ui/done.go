package ui

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"hermes/internal/store"
	"hermes/internal/task"
)

func (a *App) doneCmd() *cobra.Command {
	var reopen bool

	cmd := &cobra.Command{
		Use:   "done [id]",
		Short: "Mark a task done",
		Long: `Mark a task done (or pending again with --reopen). The id may be
abbreviated to any unique prefix, as printed by list.`,
		Args: cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			s, err := a.openStore()
			if err != nil {
				return err
			}
			ctx := context.Background()

			t, err := findTask(ctx, s, args[0])
			if err != nil {
				return err
			}

			status := task.StatusDone
			if reopen {
				status = task.StatusPending
			}
			if err := store.SetTaskStatus(ctx, s, t.ID, status); err != nil {
				return fmt.Errorf("updating task: %w", err)
			}
			fmt.Printf("%s %s: %s\n", statusSymbol(status), shortID(t.ID), t.Title)
			return nil
		},
	}

	cmd.Flags().BoolVar(&reopen, "reopen", false, "Mark the task pending instead")
	return cmd
}

// findTask resolves an id prefix to exactly one task.
func findTask(ctx context.Context, s store.Store, prefix string) (*task.Task, error) {
	prefix = strings.TrimPrefix(prefix, "#")
	tasks, err := store.Tasks(ctx, s)
	if err != nil {
		return nil, fmt.Errorf("loading tasks: %w", err)
	}

	var matches []*task.Task
	for i := range tasks {
		if strings.HasPrefix(tasks[i].ID, prefix) {
			matches = append(matches, &tasks[i])
		}
	}
	switch len(matches) {
	case 0:
		return nil, fmt.Errorf("%w: %s", task.ErrTaskNotFound, prefix)
	case 1:
		return matches[0], nil
	default:
		return nil, fmt.Errorf("id prefix %q matches %d tasks", prefix, len(matches))
	}
}

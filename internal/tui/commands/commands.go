// Package commands provides TUI command constructors and message types.
package commands

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"hermes/internal/gesture"
	"hermes/internal/ics"
	"hermes/internal/layout"
	"hermes/internal/store"
	"hermes/internal/task"
)

// DaysLoadedMsg is sent when day columns have been rebuilt from storage.
type DaysLoadedMsg struct {
	Days []layout.Day
}

// EventsLoadedMsg is sent when external calendar events have been fetched.
type EventsLoadedMsg struct {
	Events []task.ExternalEvent
}

// MutationDoneMsg is sent after a store write triggered by a gesture or key.
type MutationDoneMsg struct {
	Status string
	Silent bool
}

// ErrMsg is sent when an error occurs.
type ErrMsg struct {
	Err error
}

// ClearStatusMsg is sent to clear a temporary status message.
type ClearStatusMsg struct{}

// LongPressMsg fires when a press has been held long enough to create.
// Seq guards against stale timers from an earlier press.
type LongPressMsg struct {
	Seq int
}

// NowTickMsg drives the current-time marker.
type NowTickMsg struct {
	Now time.Time
}

// LoadDays rebuilds the visible day columns from the store plus the
// already-fetched external events.
func LoadDays(s store.Store, events []task.ExternalEvent, dates []string, opts layout.Options) tea.Cmd {
	return func() tea.Msg {
		tasks, err := store.Tasks(context.Background(), s)
		if err != nil {
			return ErrMsg{Err: err}
		}
		return DaysLoadedMsg{Days: layout.BuildWindow(tasks, events, dates, opts)}
	}
}

// LoadEvents fetches and expands external calendar feeds over [from, to].
func LoadEvents(sources []string, from, to string) tea.Cmd {
	return func() tea.Msg {
		return EventsLoadedMsg{Events: ics.Load(context.Background(), sources, from, to)}
	}
}

// Apply executes a completed gesture command against the store. title is
// only used for creates.
func Apply(s store.Store, cmd gesture.Command, title string) tea.Cmd {
	return func() tea.Msg {
		ctx := context.Background()
		switch cmd.Kind {
		case gesture.CommandUpdate:
			if err := store.RescheduleTask(ctx, s, cmd.ItemID, cmd.Date, cmd.StartTime, cmd.EndTime); err != nil {
				return ErrMsg{Err: err}
			}
			return MutationDoneMsg{
				Status: "Moved to " + cmd.Date + " " + cmd.StartTime,
				Silent: cmd.Silent,
			}
		case gesture.CommandUnallocate:
			if err := store.UnallocateTask(ctx, s, cmd.ItemID); err != nil {
				return ErrMsg{Err: err}
			}
			return MutationDoneMsg{Status: "Unscheduled"}
		case gesture.CommandCreate:
			t, err := task.New(title, cmd.Date, cmd.StartTime, cmd.EndTime)
			if err != nil {
				return ErrMsg{Err: err}
			}
			if _, err := store.CreateTask(ctx, s, t); err != nil {
				return ErrMsg{Err: err}
			}
			return MutationDoneMsg{Status: "Created " + cmd.StartTime + " " + title}
		}
		return MutationDoneMsg{Silent: true}
	}
}

// SetStatus toggles a task's status between pending and done.
func SetStatus(s store.Store, id string, status task.Status) tea.Cmd {
	return func() tea.Msg {
		if err := store.SetTaskStatus(context.Background(), s, id, status); err != nil {
			return ErrMsg{Err: err}
		}
		return MutationDoneMsg{Status: "Marked " + string(status)}
	}
}

// LongPressAfter schedules the long-press timer for the given press.
func LongPressAfter(d time.Duration, seq int) tea.Cmd {
	return tea.Tick(d, func(time.Time) tea.Msg {
		return LongPressMsg{Seq: seq}
	})
}

// ClearStatusAfter expires the status line.
func ClearStatusAfter(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(time.Time) tea.Msg {
		return ClearStatusMsg{}
	})
}

// TickNow keeps the current-time marker moving.
func TickNow() tea.Cmd {
	return tea.Tick(time.Minute, func(t time.Time) tea.Msg {
		return NowTickMsg{Now: t}
	})
}

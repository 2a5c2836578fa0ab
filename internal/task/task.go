// Package task defines the core domain types for hermes.
package task

import (
	"errors"
	"fmt"
	"strings"
)

// Validation errors.
var (
	ErrEmptyTitle        = errors.New("title cannot be empty")
	ErrInvalidTimeFormat = errors.New("time must be in HH:MM format")
	ErrInvalidDateFormat = errors.New("date must be in YYYY-MM-DD format")
	ErrEndBeforeStart    = errors.New("end time must be after start time")
)

// Domain errors.
var (
	ErrTaskNotFound = errors.New("task not found")
)

// Status represents the state of a task.
type Status string

const (
	StatusPending    Status = "pending"
	StatusInProgress Status = "in_progress"
	StatusDone       Status = "done"
	StatusDeleted    Status = "deleted"
)

// Task represents a user task. A task is Scheduled when it carries a date
// and a start time; otherwise it is Unscheduled and lives in the
// unallocated sidebar, never on the timed grid.
type Task struct {
	ID        string
	Title     string
	Date      string // "YYYY-MM-DD", may be empty
	StartTime string // "HH:MM", may be empty
	EndTime   string // "HH:MM", may be empty
	Category  string
	Status    Status
	Order     int
}

// New creates a new Task with validation. date may be empty; start and end
// may both be empty (unscheduled) or set in HH:MM order.
func New(title, date, start, end string) (*Task, error) {
	if strings.TrimSpace(title) == "" {
		return nil, ErrEmptyTitle
	}
	if date != "" {
		if err := ValidateDate(date); err != nil {
			return nil, err
		}
	}
	if start != "" {
		if err := ValidateTime(start); err != nil {
			return nil, fmt.Errorf("start time: %w", err)
		}
	}
	if end != "" {
		if err := ValidateTime(end); err != nil {
			return nil, fmt.Errorf("end time: %w", err)
		}
		if start == "" || end <= start {
			return nil, ErrEndBeforeStart
		}
	}
	return &Task{
		Title:     title,
		Date:      date,
		StartTime: start,
		EndTime:   end,
		Status:    StatusPending,
	}, nil
}

// IsScheduled returns true if the task has a date and a start time and
// therefore belongs on the timed grid.
func (t *Task) IsScheduled() bool {
	return t.Date != "" && t.StartTime != ""
}

// IsDeleted returns true if the task has been soft-deleted.
func (t *Task) IsDeleted() bool {
	return t.Status == StatusDeleted
}

// IsDone returns true if the task is completed.
func (t *Task) IsDone() bool {
	return t.Status == StatusDone
}

// Duration returns the task duration in minutes. Tasks with a start but no
// end default to one hour, matching the grid's rendering rule.
func (t *Task) Duration() int {
	if t.StartTime == "" {
		return 0
	}
	start := TimeToMinutes(t.StartTime)
	if t.EndTime == "" {
		return DefaultDurationMinutes
	}
	return TimeToMinutes(t.EndTime) - start
}

// ExternalEvent is a read-only calendar event from an outside source.
// Start and End are ISO strings; a "T" separator marks a timed event,
// a bare date marks an all-day event.
type ExternalEvent struct {
	ID    string
	Title string
	Start string // "YYYY-MM-DD" or "YYYY-MM-DDTHH:MM"
	End   string
}

// IsTimed returns true if the event carries a time-of-day component.
func (e *ExternalEvent) IsTimed() bool {
	return strings.Contains(e.Start, "T")
}

// StartDate returns the date part of the event start.
func (e *ExternalEvent) StartDate() string {
	return datePart(e.Start)
}

// EndDate returns the date part of the event end.
func (e *ExternalEvent) EndDate() string {
	return datePart(e.End)
}

func datePart(s string) string {
	if i := strings.IndexByte(s, 'T'); i >= 0 {
		return s[:i]
	}
	return s
}

// TimeOfDay returns the "HH:MM" part of an ISO date-time string, or the
// fallback when the string has no time component.
func TimeOfDay(s, fallback string) string {
	i := strings.IndexByte(s, 'T')
	if i < 0 || len(s) < i+6 {
		return fallback
	}
	return s[i+1 : i+6]
}

// ValidateTime checks that s is a valid HH:MM wall-clock string.
func ValidateTime(s string) error {
	if len(s) != 5 || s[2] != ':' {
		return ErrInvalidTimeFormat
	}
	if !allDigits(s[0:2]) || !allDigits(s[3:5]) {
		return ErrInvalidTimeFormat
	}
	h := int(s[0]-'0')*10 + int(s[1]-'0')
	m := int(s[3]-'0')*10 + int(s[4]-'0')
	if h > 23 || m > 59 {
		return ErrInvalidTimeFormat
	}
	return nil
}

// ValidateDate checks that s is a valid YYYY-MM-DD string.
func ValidateDate(s string) error {
	if len(s) != 10 || s[4] != '-' || s[7] != '-' {
		return ErrInvalidDateFormat
	}
	if !allDigits(s[0:4]) || !allDigits(s[5:7]) || !allDigits(s[8:10]) {
		return ErrInvalidDateFormat
	}
	return nil
}

func allDigits(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

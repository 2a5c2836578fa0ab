package store

import (
	"context"
	"fmt"

	"hermes/internal/task"
)

// TaskCollection is the collection holding user tasks.
const TaskCollection = "tasks"

// Tasks reads and decodes every task document.
func Tasks(ctx context.Context, s Store) ([]task.Task, error) {
	docs, err := s.ReadAll(ctx, TaskCollection)
	if err != nil {
		return nil, fmt.Errorf("reading tasks: %w", err)
	}
	tasks := make([]task.Task, 0, len(docs))
	for _, doc := range docs {
		tasks = append(tasks, decodeTask(doc))
	}
	return tasks, nil
}

// CreateTask stores a new task and returns its generated id.
func CreateTask(ctx context.Context, s Store, t *task.Task) (string, error) {
	id, err := s.Create(ctx, TaskCollection, encodeTask(t))
	if err != nil {
		return "", fmt.Errorf("creating task: %w", err)
	}
	t.ID = id
	return id, nil
}

// RescheduleTask moves a task to a new date and time range.
func RescheduleTask(ctx context.Context, s Store, id, date, start, end string) error {
	err := s.Upsert(ctx, TaskCollection, id, Document{
		"date":       date,
		"start_time": start,
		"end_time":   end,
	})
	if err != nil {
		return fmt.Errorf("rescheduling task: %w", err)
	}
	return nil
}

// UnallocateTask clears a task's start and end times, returning it to the
// unscheduled sidebar.
func UnallocateTask(ctx context.Context, s Store, id string) error {
	err := s.Upsert(ctx, TaskCollection, id, Document{
		"start_time": nil,
		"end_time":   nil,
	})
	if err != nil {
		return fmt.Errorf("unallocating task: %w", err)
	}
	return nil
}

// SetTaskStatus updates a task's status in place.
func SetTaskStatus(ctx context.Context, s Store, id string, status task.Status) error {
	if err := s.Upsert(ctx, TaskCollection, id, Document{"status": string(status)}); err != nil {
		return fmt.Errorf("setting task status: %w", err)
	}
	return nil
}

func encodeTask(t *task.Task) Document {
	doc := Document{
		"title":  t.Title,
		"status": string(t.Status),
	}
	if t.Date != "" {
		doc["date"] = t.Date
	}
	if t.StartTime != "" {
		doc["start_time"] = t.StartTime
	}
	if t.EndTime != "" {
		doc["end_time"] = t.EndTime
	}
	if t.Category != "" {
		doc["category"] = t.Category
	}
	if t.Order != 0 {
		doc["order"] = t.Order
	}
	return doc
}

func decodeTask(doc Document) task.Task {
	t := task.Task{
		ID:        doc.ID(),
		Title:     str(doc, "title"),
		Date:      str(doc, "date"),
		StartTime: str(doc, "start_time"),
		EndTime:   str(doc, "end_time"),
		Category:  str(doc, "category"),
		Status:    task.Status(str(doc, "status")),
	}
	if t.Status == "" {
		t.Status = task.StatusPending
	}
	// JSON numbers decode as float64.
	if n, ok := doc["order"].(float64); ok {
		t.Order = int(n)
	}
	return t
}

func str(doc Document, key string) string {
	s, _ := doc[key].(string)
	return s
}

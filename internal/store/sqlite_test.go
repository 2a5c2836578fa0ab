package store

import (
	"context"
	"errors"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"hermes/internal/task"
)

func newTestStore(t *testing.T) *SQLite {
	t.Helper()
	s, err := NewSQLite(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("opening store: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestUpsertAndReadAll(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	if err := s.Upsert(ctx, "notes", "n1", Document{"title": "first"}); err != nil {
		t.Fatalf("upsert: %v", err)
	}
	if err := s.Upsert(ctx, "notes", "n2", Document{"title": "second"}); err != nil {
		t.Fatalf("upsert: %v", err)
	}

	docs, err := s.ReadAll(ctx, "notes")
	if err != nil {
		t.Fatalf("readall: %v", err)
	}
	if len(docs) != 2 {
		t.Fatalf("expected 2 documents, got %d", len(docs))
	}
	// Ordered by id.
	if docs[0].ID() != "n1" || docs[1].ID() != "n2" {
		t.Errorf("unexpected order: %s, %s", docs[0].ID(), docs[1].ID())
	}
	if docs[0]["title"] != "first" {
		t.Errorf("title = %v", docs[0]["title"])
	}
}

func TestUpsertMerges(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	if err := s.Upsert(ctx, "tasks", "t1", Document{"title": "x", "date": "2025-03-10"}); err != nil {
		t.Fatal(err)
	}
	// Partial update keeps untouched fields; nil deletes a field.
	if err := s.Upsert(ctx, "tasks", "t1", Document{"title": "y", "date": nil}); err != nil {
		t.Fatal(err)
	}

	doc, err := s.Get(ctx, "tasks", "t1")
	if err != nil {
		t.Fatal(err)
	}
	if doc["title"] != "y" {
		t.Errorf("title = %v, want y", doc["title"])
	}
	if _, ok := doc["date"]; ok {
		t.Error("date should have been removed")
	}
}

func TestCreateGeneratesID(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	id, err := s.Create(ctx, "tasks", Document{"title": "generated"})
	if err != nil {
		t.Fatal(err)
	}
	if len(id) < 12 {
		t.Errorf("generated id %q should look machine-generated", id)
	}
	if _, err := s.Get(ctx, "tasks", id); err != nil {
		t.Errorf("created document not readable: %v", err)
	}
}

func TestGetMissing(t *testing.T) {
	s := newTestStore(t)
	_, err := s.Get(context.Background(), "tasks", "nope")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestDeleteMissingIsNoError(t *testing.T) {
	s := newTestStore(t)
	if err := s.Delete(context.Background(), "tasks", "nope"); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestSubscribe(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	var mu sync.Mutex
	fired := 0
	cancel := s.Subscribe("tasks", func() {
		mu.Lock()
		fired++
		mu.Unlock()
	})

	if err := s.Upsert(ctx, "tasks", "t1", Document{"title": "x"}); err != nil {
		t.Fatal(err)
	}
	// Writes to other collections do not notify.
	if err := s.Upsert(ctx, "notes", "n1", Document{"title": "x"}); err != nil {
		t.Fatal(err)
	}

	waitFor(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return fired == 1
	})

	cancel()
	if err := s.Upsert(ctx, "tasks", "t2", Document{"title": "x"}); err != nil {
		t.Fatal(err)
	}
	time.Sleep(20 * time.Millisecond)
	mu.Lock()
	defer mu.Unlock()
	if fired != 1 {
		t.Errorf("cancelled subscription fired: %d", fired)
	}
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("condition never satisfied")
}

func TestTaskRoundTrip(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	tk, err := task.New("Write report", "2025-03-10", "09:00", "10:00")
	if err != nil {
		t.Fatal(err)
	}
	id, err := CreateTask(ctx, s, tk)
	if err != nil {
		t.Fatal(err)
	}

	tasks, err := Tasks(ctx, s)
	if err != nil {
		t.Fatal(err)
	}
	if len(tasks) != 1 {
		t.Fatalf("expected 1 task, got %d", len(tasks))
	}
	got := tasks[0]
	if got.ID != id || got.Title != "Write report" || got.StartTime != "09:00" {
		t.Errorf("round trip mismatch: %+v", got)
	}
	if !got.IsScheduled() {
		t.Error("expected scheduled task")
	}
}

func TestRescheduleAndUnallocate(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	tk, _ := task.New("Movable", "2025-03-10", "09:00", "10:00")
	id, err := CreateTask(ctx, s, tk)
	if err != nil {
		t.Fatal(err)
	}

	if err := RescheduleTask(ctx, s, id, "2025-03-11", "10:45", "11:45"); err != nil {
		t.Fatal(err)
	}
	tasks, _ := Tasks(ctx, s)
	if tasks[0].Date != "2025-03-11" || tasks[0].StartTime != "10:45" || tasks[0].EndTime != "11:45" {
		t.Errorf("reschedule mismatch: %+v", tasks[0])
	}

	if err := UnallocateTask(ctx, s, id); err != nil {
		t.Fatal(err)
	}
	tasks, _ = Tasks(ctx, s)
	if tasks[0].IsScheduled() {
		t.Errorf("task should be unscheduled: %+v", tasks[0])
	}
	if tasks[0].Date != "2025-03-11" {
		t.Errorf("unallocate must keep the date: %+v", tasks[0])
	}

	if err := SetTaskStatus(ctx, s, id, task.StatusDone); err != nil {
		t.Fatal(err)
	}
	tasks, _ = Tasks(ctx, s)
	if !tasks[0].IsDone() {
		t.Errorf("status not updated: %+v", tasks[0])
	}
}

package gesture

import (
	"errors"
	"testing"
)

// week returns a viewport with seven 100px day columns and no sidebar.
func week() Viewport {
	return Viewport{
		Dates: []string{
			"2025-03-10", "2025-03-11", "2025-03-12", "2025-03-13",
			"2025-03-14", "2025-03-15", "2025-03-16",
		},
		GridWidth:    700,
		TimeAxisLeft: 48,
	}
}

func newTestEngine() *Engine {
	e := NewEngine(DefaultConfig())
	e.SetViewport(week())
	return e
}

func TestDragSnapScenario(t *testing.T) {
	// 60-minute item at 10:00 dragged down by 47 minutes of pixels snaps
	// to a 45-minute offset: new start 10:45.
	e := newTestEngine()
	if err := e.StartDrag("t1", "2025-03-10", 600, 60, 60, 100); err != nil {
		t.Fatalf("StartDrag: %v", err)
	}
	e.PointerMove(60, 147) // 47px at 60px/hour = 47 minutes

	cmd := e.PointerUp(60, 147)
	if cmd.Kind != CommandUpdate {
		t.Fatalf("expected update command, got %v", cmd.Kind)
	}
	if cmd.StartTime != "10:45" || cmd.EndTime != "11:45" {
		t.Errorf("got %s-%s, want 10:45-11:45", cmd.StartTime, cmd.EndTime)
	}
	if cmd.Date != "2025-03-10" {
		t.Errorf("date changed unexpectedly: %s", cmd.Date)
	}
	if !e.Idle() {
		t.Error("engine not idle after pointer up")
	}
}

func TestDragNoOpBelowThreshold(t *testing.T) {
	// Zero net delta in both time and day must not issue a command.
	e := newTestEngine()
	_ = e.StartDrag("t1", "2025-03-10", 600, 60, 60, 100)
	e.PointerMove(62, 103) // under half a snap step

	cmd := e.PointerUp(62, 103)
	if cmd.Kind != CommandNone {
		t.Errorf("expected no command, got %+v", cmd)
	}
	if !e.Idle() {
		t.Error("engine not idle")
	}
}

func TestDragAcrossDays(t *testing.T) {
	// Horizontal drop over another column reassigns the day even with
	// zero time delta.
	e := newTestEngine()
	_ = e.StartDrag("t1", "2025-03-10", 600, 60, 60, 100)
	e.PointerMove(260, 100) // third column, no vertical movement

	cmd := e.PointerUp(260, 100)
	if cmd.Kind != CommandUpdate {
		t.Fatalf("expected update, got %v", cmd.Kind)
	}
	if cmd.Date != "2025-03-12" {
		t.Errorf("date = %s, want 2025-03-12", cmd.Date)
	}
	if cmd.StartTime != "10:00" || cmd.EndTime != "11:00" {
		t.Errorf("time should be unchanged, got %s-%s", cmd.StartTime, cmd.EndTime)
	}
}

func TestDragClampsToDay(t *testing.T) {
	e := newTestEngine()
	_ = e.StartDrag("t1", "2025-03-10", 1380, 60, 60, 100) // 23:00-24:00
	e.PointerMove(60, 400)                                 // way past midnight

	cmd := e.PointerUp(60, 400)
	if cmd.Kind != CommandNone {
		// Clamped back to its own position: no net change, no command.
		t.Errorf("expected no command after clamping, got %+v", cmd)
	}

	_ = e.StartDrag("t2", "2025-03-10", 60, 120, 60, 400) // 01:00-03:00
	e.PointerMove(60, 100)                                // -300px = -5h, clamps to 00:00

	cmd = e.PointerUp(60, 100)
	if cmd.Kind != CommandUpdate || cmd.StartTime != "00:00" || cmd.EndTime != "02:00" {
		t.Errorf("expected clamp to 00:00-02:00, got %+v", cmd)
	}
}

func TestDragToSidebarUnallocates(t *testing.T) {
	e := NewEngine(DefaultConfig())
	vp := week()
	vp.Sidebar = Rect{Left: 750, Top: 0, Right: 900, Bottom: 1440}
	e.SetViewport(vp)

	_ = e.StartDrag("t1", "2025-03-10", 600, 60, 60, 100)
	e.PointerMove(800, 100) // zero vertical delta, pointer over sidebar

	cmd := e.PointerUp(800, 100)
	if cmd.Kind != CommandUnallocate || cmd.ItemID != "t1" {
		t.Errorf("expected unallocate for t1, got %+v", cmd)
	}
}

func TestStartDragWhileActive(t *testing.T) {
	e := newTestEngine()
	_ = e.StartDrag("t1", "2025-03-10", 600, 60, 60, 100)
	if err := e.StartDrag("t2", "2025-03-10", 700, 30, 60, 100); !errors.Is(err, ErrGestureActive) {
		t.Errorf("expected ErrGestureActive, got %v", err)
	}
}

func TestResizeBottom(t *testing.T) {
	e := newTestEngine()
	_ = e.StartResize("t1", "2025-03-10", EdgeBottom, 600, 660, 100)
	e.PointerMove(60, 147) // +47 minutes snaps to +45

	cmd := e.PointerUp(60, 147)
	if cmd.Kind != CommandUpdate {
		t.Fatalf("expected update, got %v", cmd.Kind)
	}
	if cmd.StartTime != "10:00" || cmd.EndTime != "11:45" {
		t.Errorf("got %s-%s, want 10:00-11:45", cmd.StartTime, cmd.EndTime)
	}
}

func TestResizeMinimumDuration(t *testing.T) {
	t.Run("bottom edge clamps against start", func(t *testing.T) {
		e := newTestEngine()
		_ = e.StartResize("t1", "2025-03-10", EdgeBottom, 600, 660, 100)
		e.PointerMove(60, -500) // drag far above the item

		cmd := e.PointerUp(60, -500)
		if cmd.Kind != CommandUpdate {
			t.Fatalf("expected update, got %v", cmd.Kind)
		}
		if cmd.StartTime != "10:00" || cmd.EndTime != "10:15" {
			t.Errorf("got %s-%s, want 10:00-10:15", cmd.StartTime, cmd.EndTime)
		}
	})

	t.Run("top edge clamps against end", func(t *testing.T) {
		e := newTestEngine()
		_ = e.StartResize("t1", "2025-03-10", EdgeTop, 600, 660, 100)
		e.PointerMove(60, 600)

		cmd := e.PointerUp(60, 600)
		if cmd.Kind != CommandUpdate {
			t.Fatalf("expected update, got %v", cmd.Kind)
		}
		if cmd.StartTime != "10:45" || cmd.EndTime != "11:00" {
			t.Errorf("got %s-%s, want 10:45-11:00", cmd.StartTime, cmd.EndTime)
		}
	})

	t.Run("top edge clamps at midnight", func(t *testing.T) {
		e := newTestEngine()
		_ = e.StartResize("t1", "2025-03-10", EdgeTop, 60, 120, 100)
		e.PointerMove(60, -500)

		cmd := e.PointerUp(60, -500)
		if cmd.StartTime != "00:00" || cmd.EndTime != "02:00" {
			t.Errorf("got %s-%s, want 00:00-02:00", cmd.StartTime, cmd.EndTime)
		}
	})
}

func TestResizeNoChangeNoCommand(t *testing.T) {
	e := newTestEngine()
	_ = e.StartResize("t1", "2025-03-10", EdgeBottom, 600, 660, 100)
	e.PointerMove(60, 104) // below half a snap step

	if cmd := e.PointerUp(60, 104); cmd.Kind != CommandNone {
		t.Errorf("expected no command, got %+v", cmd)
	}
}

func TestResizePreview(t *testing.T) {
	e := newTestEngine()
	_ = e.StartResize("t1", "2025-03-10", EdgeBottom, 600, 660, 100)
	e.PointerMove(60, 130)

	ghost, ok := e.ResizePreview()
	if !ok {
		t.Fatal("expected preview during resize")
	}
	if ghost.StartMinute != 600 || ghost.EndMinute != 690 {
		t.Errorf("preview = %d-%d, want 600-690", ghost.StartMinute, ghost.EndMinute)
	}
}

func TestLongPressCreate(t *testing.T) {
	t.Run("timer fires", func(t *testing.T) {
		e := newTestEngine()
		if err := e.StartPress("2025-03-11", 160, 640, 640); err != nil {
			t.Fatalf("StartPress: %v", err)
		}
		cmd := e.TimerFired()
		if cmd.Kind != CommandCreate {
			t.Fatalf("expected create, got %v", cmd.Kind)
		}
		if cmd.Date != "2025-03-11" {
			t.Errorf("date = %s", cmd.Date)
		}
		// 640px at 60px/hour = 640 minutes, snapped to 645 = 10:45.
		if cmd.StartTime != "10:45" || cmd.EndTime != "11:45" {
			t.Errorf("got %s-%s, want 10:45-11:45", cmd.StartTime, cmd.EndTime)
		}
		if !e.Idle() {
			t.Error("engine not idle after create")
		}
	})

	t.Run("movement cancels the press", func(t *testing.T) {
		e := newTestEngine()
		_ = e.StartPress("2025-03-11", 160, 640, 640)
		e.PointerMove(160, 655) // 15px > threshold

		if !e.Idle() {
			t.Error("press should be cancelled by movement")
		}
		if cmd := e.TimerFired(); cmd.Kind != CommandNone {
			t.Errorf("stale timer must be a no-op, got %+v", cmd)
		}
	})

	t.Run("release before timer is a tap", func(t *testing.T) {
		e := newTestEngine()
		_ = e.StartPress("2025-03-11", 160, 640, 640)
		if cmd := e.PointerUp(160, 640); cmd.Kind != CommandNone {
			t.Errorf("expected no command, got %+v", cmd)
		}
		if cmd := e.TimerFired(); cmd.Kind != CommandNone {
			t.Errorf("stale timer must be a no-op, got %+v", cmd)
		}
	})

	t.Run("small movement keeps the press alive", func(t *testing.T) {
		e := newTestEngine()
		_ = e.StartPress("2025-03-11", 160, 640, 640)
		e.PointerMove(163, 644) // 5px, under threshold

		if !e.LongPressPending() {
			t.Error("press should survive sub-threshold movement")
		}
	})
}

func TestCancelResolvesToIdle(t *testing.T) {
	e := newTestEngine()
	_ = e.StartDrag("t1", "2025-03-10", 600, 60, 60, 100)
	e.Cancel()
	if !e.Idle() {
		t.Error("cancel must resolve to idle")
	}
	if cmd := e.PointerUp(60, 400); cmd.Kind != CommandNone {
		t.Errorf("pointer up after cancel must be a no-op, got %+v", cmd)
	}
}

func TestDragGhost(t *testing.T) {
	e := newTestEngine()
	_ = e.StartDrag("t1", "2025-03-10", 600, 60, 60, 100)
	e.PointerMove(260, 130)

	ghost, ok := e.DragGhost()
	if !ok {
		t.Fatal("expected ghost during drag")
	}
	if ghost.Date != "2025-03-12" {
		t.Errorf("ghost date = %s, want 2025-03-12", ghost.Date)
	}
	if ghost.StartMinute != 630 || ghost.EndMinute != 690 {
		t.Errorf("ghost = %d-%d, want 630-690", ghost.StartMinute, ghost.EndMinute)
	}

	if _, ok := e.ResizePreview(); ok {
		t.Error("resize preview must be absent during a drag")
	}
}

func TestScheduleAt(t *testing.T) {
	e := newTestEngine()
	cmd := e.ScheduleAt("t9", "2025-03-13", 635)
	if cmd.Kind != CommandUpdate || cmd.ItemID != "t9" {
		t.Fatalf("unexpected command %+v", cmd)
	}
	if cmd.StartTime != "10:30" || cmd.EndTime != "11:30" {
		t.Errorf("got %s-%s, want 10:30-11:30", cmd.StartTime, cmd.EndTime)
	}
}

// Package gesture implements the pointer-driven interaction state machine
// for the day grid: dragging items in time and across days, resizing an
// edge, and long-press creation. The engine is pure: the caller feeds it
// pointer events and timer expiries, and it returns at most one command
// per completed gesture. It owns no timers and touches no storage.
package gesture

import (
	"errors"
	"math"

	"hermes/internal/task"
)

// Engine errors.
var (
	ErrGestureActive = errors.New("a gesture is already active")
	ErrNoGesture     = errors.New("no gesture in progress")
)

// Edge identifies which end of an item a resize moves.
type Edge int

const (
	EdgeTop Edge = iota
	EdgeBottom
)

// state is the discriminated interaction state.
type state int

const (
	stateIdle state = iota
	stateDragging
	stateResizing
	stateLongPressPending
)

// CommandKind discriminates the commands a completed gesture can emit.
type CommandKind int

const (
	// CommandNone means the gesture resolved without any external effect.
	CommandNone CommandKind = iota
	// CommandUpdate reschedules an item: new date, start, and end.
	CommandUpdate
	// CommandUnallocate clears an item's start and end times.
	CommandUnallocate
	// CommandCreate requests a new item at a day and time.
	CommandCreate
)

// Command is the single external update emitted when a gesture completes.
type Command struct {
	Kind      CommandKind
	ItemID    string
	Date      string // "YYYY-MM-DD"
	StartTime string // "HH:MM"
	EndTime   string // "HH:MM"
	Silent    bool   // suppress user-visible notification
}

// Config holds the grid scale and gesture thresholds.
type Config struct {
	HourHeight    float64 // pixels per hour
	SnapStep      int     // minutes
	MoveThreshold float64 // pixels of movement that cancels a long press
	DefaultLength int     // minutes given to created items
}

// DefaultConfig matches the reference grid.
func DefaultConfig() Config {
	return Config{
		HourHeight:    60,
		SnapStep:      task.SnapStepMinutes,
		MoveThreshold: 10,
		DefaultLength: task.DefaultDurationMinutes,
	}
}

// Rect is an axis-aligned pixel region, used for the unallocate drop target.
type Rect struct {
	Left, Top, Right, Bottom float64
}

// Contains reports whether the point lies inside the rectangle.
func (r Rect) Contains(x, y float64) bool {
	return x >= r.Left && x <= r.Right && y >= r.Top && y <= r.Bottom
}

// Viewport describes the grid geometry at gesture time. The TUI or view
// layer keeps it current across resizes and scrolls.
type Viewport struct {
	Dates        []string // day column dates, left to right
	GridWidth    float64  // width of the day columns area, excluding the time axis
	TimeAxisLeft float64  // x where the day columns start
	ScrollTop    float64  // vertical scroll offset added to pointer y
	Sidebar      Rect     // unallocate drop target; zero Rect disables it
}

// dayAt maps an absolute pointer x to the date of the column under it.
func (v Viewport) dayAt(x float64) (string, bool) {
	if len(v.Dates) == 0 {
		return "", false
	}
	col := task.ColumnFromX(x-v.TimeAxisLeft, v.GridWidth, len(v.Dates))
	return v.Dates[col], true
}

type dragState struct {
	itemID        string
	originalDate  string
	originalStart int
	duration      int
	startX        float64
	startY        float64
	currentX      float64
	currentY      float64
}

type resizeState struct {
	itemID        string
	edge          Edge
	originalStart int
	originalEnd   int
	date          string
	startY        float64
	currentY      float64
}

type pressState struct {
	date     string
	startX   float64
	startY   float64
	gridY    float64 // y relative to the top of the day column
}

// Engine is the interaction state machine. Not safe for concurrent use;
// it is owned by a single event loop.
type Engine struct {
	cfg      Config
	viewport Viewport

	state  state
	drag   dragState
	resize resizeState
	press  pressState
}

// NewEngine creates an idle engine.
func NewEngine(cfg Config) *Engine {
	if cfg.HourHeight <= 0 {
		cfg.HourHeight = DefaultConfig().HourHeight
	}
	if cfg.SnapStep <= 0 {
		cfg.SnapStep = task.SnapStepMinutes
	}
	if cfg.MoveThreshold <= 0 {
		cfg.MoveThreshold = DefaultConfig().MoveThreshold
	}
	if cfg.DefaultLength <= 0 {
		cfg.DefaultLength = task.DefaultDurationMinutes
	}
	return &Engine{cfg: cfg}
}

// SetViewport replaces the grid geometry used to resolve pointer positions.
func (e *Engine) SetViewport(v Viewport) {
	e.viewport = v
}

// Idle reports whether no gesture is in progress.
func (e *Engine) Idle() bool {
	return e.state == stateIdle
}

// Dragging reports whether a drag gesture is in progress.
func (e *Engine) Dragging() bool {
	return e.state == stateDragging
}

// Resizing reports whether a resize gesture is in progress.
func (e *Engine) Resizing() bool {
	return e.state == stateResizing
}

// LongPressPending reports whether a press is waiting for its timer.
func (e *Engine) LongPressPending() bool {
	return e.state == stateLongPressPending
}

// StartDrag begins dragging an item's body. date is the day the item
// currently occupies, startMinute its start, duration its length.
func (e *Engine) StartDrag(itemID, date string, startMinute, duration int, x, y float64) error {
	if e.state != stateIdle {
		return ErrGestureActive
	}
	e.state = stateDragging
	e.drag = dragState{
		itemID:        itemID,
		originalDate:  date,
		originalStart: startMinute,
		duration:      duration,
		startX:        x,
		startY:        y,
		currentX:      x,
		currentY:      y,
	}
	return nil
}

// StartResize begins resizing one edge of an item.
func (e *Engine) StartResize(itemID, date string, edge Edge, startMinute, endMinute int, y float64) error {
	if e.state != stateIdle {
		return ErrGestureActive
	}
	e.state = stateResizing
	e.resize = resizeState{
		itemID:        itemID,
		edge:          edge,
		originalStart: startMinute,
		originalEnd:   endMinute,
		date:          date,
		startY:        y,
		currentY:      y,
	}
	return nil
}

// StartPress begins a potential long-press create on empty grid space.
// gridY is the pointer y relative to the top of the day column (scroll
// already applied). The caller must arrange for TimerFired to be invoked
// after the long-press delay.
func (e *Engine) StartPress(date string, x, y, gridY float64) error {
	if e.state != stateIdle {
		return ErrGestureActive
	}
	e.state = stateLongPressPending
	e.press = pressState{date: date, startX: x, startY: y, gridY: gridY}
	return nil
}

// PointerMove feeds a pointer position into the active gesture. During a
// pending long press, movement past the threshold cancels the press
// (treated as a scroll, not a create). Movement never emits commands;
// live feedback is read through DragGhost and ResizePreview.
func (e *Engine) PointerMove(x, y float64) {
	switch e.state {
	case stateDragging:
		e.drag.currentX = x
		e.drag.currentY = y
	case stateResizing:
		e.resize.currentY = y
	case stateLongPressPending:
		dx := x - e.press.startX
		dy := y - e.press.startY
		if math.Sqrt(dx*dx+dy*dy) > e.cfg.MoveThreshold {
			e.state = stateIdle
		}
	}
}

// TimerFired resolves a pending long press into a create command. The
// caller invokes it when the long-press delay elapses; a stale timer
// (press already cancelled or resolved) is a no-op.
func (e *Engine) TimerFired() Command {
	if e.state != stateLongPressPending {
		return Command{}
	}
	p := e.press
	e.state = stateIdle

	start := task.SnapToGrid(task.PixelToMinutes(p.gridY, e.cfg.HourHeight), e.cfg.SnapStep)
	if start < 0 {
		start = 0
	}
	if start > task.MinutesPerDay-e.cfg.DefaultLength {
		start = task.MinutesPerDay - e.cfg.DefaultLength
	}
	return Command{
		Kind:      CommandCreate,
		Date:      p.date,
		StartTime: task.MinutesToTime(start),
		EndTime:   task.MinutesToTime(start + e.cfg.DefaultLength),
	}
}

// PointerUp completes the active gesture and returns at most one command.
// Releasing with no net change, or over no valid target, is a no-op; the
// engine always returns to idle.
func (e *Engine) PointerUp(x, y float64) Command {
	switch e.state {
	case stateDragging:
		e.state = stateIdle
		return e.finishDrag(x, y)
	case stateResizing:
		e.state = stateIdle
		return e.finishResize(y)
	case stateLongPressPending:
		// Released before the timer fired: a plain tap.
		e.state = stateIdle
	}
	return Command{}
}

// Cancel resolves any active gesture to idle without emitting a command.
// Called on Esc and on view teardown so no gesture state leaks across
// views.
func (e *Engine) Cancel() {
	e.state = stateIdle
}

func (e *Engine) finishDrag(x, y float64) Command {
	d := e.drag
	d.currentX = x
	d.currentY = y

	// Dropping on the unallocate target clears both time fields no
	// matter how far the pointer travelled.
	if e.viewport.Sidebar.Contains(x, y) {
		return Command{Kind: CommandUnallocate, ItemID: d.itemID}
	}

	deltaMin := e.snapDelta(d.currentY - d.startY)
	newStart := clampStart(d.originalStart+deltaMin, d.duration)

	newDate, ok := e.viewport.dayAt(x)
	if !ok {
		return Command{}
	}

	if deltaMin == 0 && newDate == d.originalDate {
		return Command{}
	}
	return Command{
		Kind:      CommandUpdate,
		ItemID:    d.itemID,
		Date:      newDate,
		StartTime: task.MinutesToTime(newStart),
		EndTime:   task.MinutesToTime(newStart + d.duration),
	}
}

func (e *Engine) finishResize(y float64) Command {
	r := e.resize
	r.currentY = y

	newStart, newEnd := e.resizedRange(r)
	if newStart == r.originalStart && newEnd == r.originalEnd {
		return Command{}
	}
	return Command{
		Kind:      CommandUpdate,
		ItemID:    r.itemID,
		Date:      r.date,
		StartTime: task.MinutesToTime(newStart),
		EndTime:   task.MinutesToTime(newEnd),
	}
}

// resizedRange applies the pointer delta to the moving edge, clamping it
// against the fixed edge so the item never shrinks below one snap step.
func (e *Engine) resizedRange(r resizeState) (int, int) {
	deltaMin := e.snapDelta(r.currentY - r.startY)
	newStart, newEnd := r.originalStart, r.originalEnd
	if r.edge == EdgeTop {
		newStart = min(newStart+deltaMin, newEnd-e.cfg.SnapStep)
		newStart = max(0, newStart)
	} else {
		newEnd = max(newStart+e.cfg.SnapStep, newEnd+deltaMin)
		newEnd = min(task.MinutesPerDay, newEnd)
	}
	return newStart, newEnd
}

// snapDelta converts a pixel delta into a snapped minute delta.
func (e *Engine) snapDelta(deltaY float64) int {
	return task.SnapToGrid(task.PixelToMinutes(deltaY, e.cfg.HourHeight), e.cfg.SnapStep)
}

func clampStart(start, duration int) int {
	if start < 0 {
		return 0
	}
	if start > task.MinutesPerDay-duration {
		return task.MinutesPerDay - duration
	}
	return start
}

// Ghost is the live visual feedback for an in-progress gesture.
type Ghost struct {
	ItemID      string
	Date        string
	StartMinute int
	EndMinute   int
}

// DragGhost returns the snapped preview position of the dragged item, for
// rendering only. ok is false when no drag is active.
func (e *Engine) DragGhost() (Ghost, bool) {
	if e.state != stateDragging {
		return Ghost{}, false
	}
	d := e.drag
	deltaMin := e.snapDelta(d.currentY - d.startY)
	start := clampStart(d.originalStart+deltaMin, d.duration)
	date := d.originalDate
	if day, ok := e.viewport.dayAt(d.currentX); ok {
		date = day
	}
	return Ghost{
		ItemID:      d.itemID,
		Date:        date,
		StartMinute: start,
		EndMinute:   start + d.duration,
	}, true
}

// ResizePreview returns the clamped live range of the item being resized.
// ok is false when no resize is active.
func (e *Engine) ResizePreview() (Ghost, bool) {
	if e.state != stateResizing {
		return Ghost{}, false
	}
	r := e.resize
	start, end := e.resizedRange(r)
	return Ghost{ItemID: r.itemID, Date: r.date, StartMinute: start, EndMinute: end}, true
}

// ScheduleAt places an unscheduled item at the time under gridY on the
// given day with the default duration. Used when a sidebar task is
// dropped onto the grid.
func (e *Engine) ScheduleAt(itemID, date string, gridY float64) Command {
	start := task.SnapToGrid(task.PixelToMinutes(gridY, e.cfg.HourHeight), e.cfg.SnapStep)
	start = clampStart(start, e.cfg.DefaultLength)
	return Command{
		Kind:      CommandUpdate,
		ItemID:    itemID,
		Date:      date,
		StartTime: task.MinutesToTime(start),
		EndTime:   task.MinutesToTime(start + e.cfg.DefaultLength),
	}
}

// Package tui provides the terminal user interface for hermes: a day or
// week time grid with mouse-driven drag, resize, and long-press create.
package tui

import (
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"hermes/internal/config"
	"hermes/internal/dateutil"
	"hermes/internal/gesture"
	"hermes/internal/layout"
	"hermes/internal/store"
	"hermes/internal/task"
	"hermes/internal/tui/theme"
)

const (
	timeAxisWidth = 6
	sidebarWidth  = 24
	headerRows    = 2 // day headers + all-day banners
	footerRows    = 1
)

// Model is the main TUI model.
type Model struct {
	// Dependencies
	store store.Store
	cfg   *config.Config

	// Theme and styles
	theme  *theme.Theme
	styles *Styles

	// Interaction state machine
	engine *gesture.Engine

	// Loaded data
	days   []layout.Day
	events []task.ExternalEvent

	// View window
	viewStart time.Time // first visible day
	numDays   int       // 1 or 7

	// Terminal dimensions and scroll
	width      int
	height     int
	scrollRows int

	// Long-press bookkeeping: only the timer matching pressSeq may fire.
	pressSeq int

	// Sidebar drag (unscheduled task being dropped onto the grid)
	sidebarDragID string

	// Create prompt, opened by a completed long press
	creating      bool
	createInput   textinput.Model
	pendingCreate gesture.Command

	// Status line
	statusMsg   string
	statusIsErr bool

	now     time.Time
	loading bool
}

// New creates a new TUI model showing the current week.
func New(s store.Store, cfg *config.Config) *Model {
	t, err := theme.Load(cfg.UI.Theme)
	if err != nil {
		t, _ = theme.Load("frappe")
	}

	ti := textinput.New()
	ti.Placeholder = "Task title"
	ti.CharLimit = 256
	ti.Width = 40

	monday, _ := dateutil.WeekRange(time.Now())

	m := &Model{
		store:  s,
		cfg:    cfg,
		theme:  t,
		styles: NewStyles(t),
		engine: gesture.NewEngine(gesture.Config{
			HourHeight:    float64(cfg.Grid.HourHeight),
			SnapStep:      cfg.Grid.SnapStepMinutes,
			DefaultLength: cfg.Grid.DefaultMinutes,
		}),
		viewStart:   monday,
		numDays:     7,
		createInput: ti,
		now:         time.Now(),
		loading:     true,
	}
	// Start the viewport around the working hours.
	m.scrollRows = 8 * m.rowsPerHour()
	return m
}

// Init initializes the model.
func (m *Model) Init() tea.Cmd {
	return tea.Batch(m.loadEvents(), m.loadDays(), tickNow())
}

// Run starts the TUI and blocks until it exits.
func Run(s store.Store, cfg *config.Config) error {
	p := tea.NewProgram(New(s, cfg), tea.WithAltScreen(), tea.WithMouseAllMotion())
	_, err := p.Run()
	return err
}

// dates returns the visible day columns.
func (m *Model) dates() []string {
	return dateutil.DayWindow(m.viewStart, m.numDays)
}

// rowsPerHour is fixed by the snap step: one terminal row per snap step.
func (m *Model) rowsPerHour() int {
	return 60 / m.cfg.Grid.SnapStepMinutes
}

// pxPerRow converts between terminal rows and the gesture engine's pixel
// space.
func (m *Model) pxPerRow() float64 {
	return float64(m.cfg.Grid.HourHeight) / float64(m.rowsPerHour())
}

func (m *Model) gridRows() int {
	rows := m.height - headerRows - footerRows
	if rows < 0 {
		return 0
	}
	return rows
}

func (m *Model) totalRows() int {
	return 24 * m.rowsPerHour()
}

func (m *Model) sidebarVisible() bool {
	return m.width >= timeAxisWidth+sidebarWidth+m.numDays*8
}

func (m *Model) gridWidth() int {
	w := m.width - timeAxisWidth
	if m.sidebarVisible() {
		w -= sidebarWidth
	}
	if w < 0 {
		return 0
	}
	return w
}

func (m *Model) colWidth() int {
	if m.numDays == 0 {
		return 0
	}
	return m.gridWidth() / m.numDays
}

// unallocated returns the sidebar task list. Every day column carries the
// same list, so the first loaded day serves.
func (m *Model) unallocated() []task.Task {
	if len(m.days) == 0 {
		return nil
	}
	return m.days[0].Unallocated
}

// syncViewport pushes the current geometry into the gesture engine.
func (m *Model) syncViewport() {
	maxY := float64(task.MinutesPerDay) / 60 * float64(m.cfg.Grid.HourHeight)
	v := gesture.Viewport{
		Dates:        m.dates(),
		GridWidth:    float64(m.gridWidth()),
		TimeAxisLeft: timeAxisWidth,
		ScrollTop:    float64(m.scrollRows) * m.pxPerRow(),
	}
	if m.sidebarVisible() {
		v.Sidebar = gesture.Rect{
			Left:   float64(timeAxisWidth + m.gridWidth()),
			Top:    0,
			Right:  float64(m.width),
			Bottom: maxY,
		}
	}
	m.engine.SetViewport(v)
}

package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"hermes/internal/dateutil"
	"hermes/internal/gesture"
	"hermes/internal/layout"
	"hermes/internal/task"
	"hermes/internal/tui/commands"
)

func (m *Model) loadDays() tea.Cmd {
	m.loading = true
	return commands.LoadDays(m.store, m.events, m.dates(), layout.Options{
		HourHeight: float64(m.cfg.Grid.HourHeight),
	})
}

func (m *Model) loadEvents() tea.Cmd {
	from := m.dates()[0]
	to := m.dates()[m.numDays-1]
	return commands.LoadEvents(m.cfg.Calendar.ICSSources, from, to)
}

func tickNow() tea.Cmd {
	return commands.TickNow()
}

// Update handles messages and updates the model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.MouseMsg:
		return m.handleMouse(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.syncViewport()
		return m, nil

	case commands.EventsLoadedMsg:
		m.events = msg.Events
		return m, m.loadDays()

	case commands.DaysLoadedMsg:
		m.days = msg.Days
		m.loading = false
		m.syncViewport()
		return m, nil

	case commands.MutationDoneMsg:
		var cmds []tea.Cmd
		if !msg.Silent && msg.Status != "" {
			m.statusMsg = msg.Status
			m.statusIsErr = false
			cmds = append(cmds, commands.ClearStatusAfter(3*time.Second))
		}
		cmds = append(cmds, m.loadDays())
		return m, tea.Batch(cmds...)

	case commands.ErrMsg:
		m.statusMsg = msg.Err.Error()
		m.statusIsErr = true
		return m, commands.ClearStatusAfter(5*time.Second)

	case commands.ClearStatusMsg:
		m.statusMsg = ""
		m.statusIsErr = false
		return m, nil

	case commands.LongPressMsg:
		if msg.Seq != m.pressSeq {
			return m, nil
		}
		cmd := m.engine.TimerFired()
		if cmd.Kind == gesture.CommandCreate {
			m.openCreatePrompt(cmd)
		}
		return m, nil

	case commands.NowTickMsg:
		m.now = msg.Now
		return m, tickNow()
	}

	if m.creating {
		var cmd tea.Cmd
		m.createInput, cmd = m.createInput.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.creating {
		switch msg.String() {
		case "esc":
			m.closeCreatePrompt()
			return m, nil
		case "enter":
			title := m.createInput.Value()
			cmd := m.pendingCreate
			m.closeCreatePrompt()
			if title == "" {
				return m, nil
			}
			return m, commands.Apply(m.store, cmd, title)
		default:
			var cmd tea.Cmd
			m.createInput, cmd = m.createInput.Update(msg)
			return m, cmd
		}
	}

	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit

	case "esc":
		m.engine.Cancel()
		m.sidebarDragID = ""
		return m, nil

	case "left", "h":
		m.viewStart = m.viewStart.AddDate(0, 0, -m.numDays)
		m.syncViewport()
		return m, tea.Batch(m.loadEvents(), m.loadDays())

	case "right", "l":
		m.viewStart = m.viewStart.AddDate(0, 0, m.numDays)
		m.syncViewport()
		return m, tea.Batch(m.loadEvents(), m.loadDays())

	case "t":
		m.goToday()
		return m, tea.Batch(m.loadEvents(), m.loadDays())

	case "1":
		m.numDays = 1
		m.goToday()
		return m, tea.Batch(m.loadEvents(), m.loadDays())

	case "7", "w":
		m.numDays = 7
		m.goToday()
		return m, tea.Batch(m.loadEvents(), m.loadDays())

	case "up", "k":
		m.scrollBy(-1)
		return m, nil

	case "down", "j":
		m.scrollBy(1)
		return m, nil

	case "pgup":
		m.scrollBy(-m.rowsPerHour() * 4)
		return m, nil

	case "pgdown":
		m.scrollBy(m.rowsPerHour() * 4)
		return m, nil

	case "r":
		return m, tea.Batch(m.loadEvents(), m.loadDays())
	}
	return m, nil
}

func (m *Model) goToday() {
	now := time.Now()
	if m.numDays == 7 {
		monday, _ := dateutil.WeekRange(now)
		m.viewStart = monday
	} else {
		m.viewStart = now
	}
	m.syncViewport()
}

func (m *Model) scrollBy(rows int) {
	m.scrollRows += rows
	maxScroll := m.totalRows() - m.gridRows()
	if maxScroll < 0 {
		maxScroll = 0
	}
	if m.scrollRows > maxScroll {
		m.scrollRows = maxScroll
	}
	if m.scrollRows < 0 {
		m.scrollRows = 0
	}
	m.syncViewport()
}

func (m *Model) handleMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	if m.creating {
		return m, nil
	}
	x, y := m.pointerPos(msg)

	switch msg.Action {
	case tea.MouseActionMotion:
		m.engine.PointerMove(x, y)
		return m, nil

	case tea.MouseActionPress:
		switch msg.Button {
		case tea.MouseButtonLeft:
			return m.pointerDown(msg, x, y)
		case tea.MouseButtonRight:
			return m.toggleStatusAt(msg, y)
		case tea.MouseButtonWheelUp:
			m.scrollBy(-1)
		case tea.MouseButtonWheelDown:
			m.scrollBy(1)
		}
		return m, nil

	case tea.MouseActionRelease:
		if msg.Button != tea.MouseButtonLeft && msg.Button != tea.MouseButtonNone {
			return m, nil
		}
		return m.pointerUp(msg, x, y)
	}
	return m, nil
}

// pointerPos converts terminal cell coordinates to the engine's pixel
// space: x stays in cells, y becomes pixels from the top of the day with
// scroll applied.
func (m *Model) pointerPos(msg tea.MouseMsg) (float64, float64) {
	x := float64(msg.X)
	y := float64(msg.Y-headerRows+m.scrollRows) * m.pxPerRow()
	return x, y
}

func (m *Model) inGrid(msg tea.MouseMsg) bool {
	return msg.X >= timeAxisWidth &&
		msg.X < timeAxisWidth+m.gridWidth() &&
		msg.Y >= headerRows &&
		msg.Y < headerRows+m.gridRows()
}

func (m *Model) inSidebar(msg tea.MouseMsg) bool {
	return m.sidebarVisible() && msg.X >= timeAxisWidth+m.gridWidth()
}

func (m *Model) pointerDown(msg tea.MouseMsg, x, y float64) (tea.Model, tea.Cmd) {
	if m.inSidebar(msg) {
		if t, ok := m.sidebarTaskAt(msg.Y); ok {
			m.sidebarDragID = t.ID
		}
		return m, nil
	}
	if !m.inGrid(msg) {
		return m, nil
	}

	dayIdx, xFrac := m.dayAt(msg.X)
	if dayIdx < 0 || dayIdx >= len(m.days) {
		return m, nil
	}
	day := m.days[dayIdx]

	if it, ok := hitItem(day, xFrac, y); ok {
		if it.Kind == layout.KindEvent {
			m.statusMsg = "Calendar events are read-only"
			m.statusIsErr = false
			return m, commands.ClearStatusAfter(3 * time.Second)
		}
		if edge, ok := hitEdge(it, y, m.pxPerRow()); ok {
			m.engine.StartResize(it.ID, day.Date, edge, it.Start, it.End, y)
		} else {
			m.engine.StartDrag(it.ID, day.Date, it.Start, it.End-it.Start, x, y)
		}
		return m, nil
	}

	// Empty grid space: candidate long-press create.
	m.pressSeq++
	m.engine.StartPress(day.Date, x, y, y)
	delay := time.Duration(m.cfg.Grid.LongPressMs) * time.Millisecond
	return m, commands.LongPressAfter(delay, m.pressSeq)
}

func (m *Model) pointerUp(msg tea.MouseMsg, x, y float64) (tea.Model, tea.Cmd) {
	if m.sidebarDragID != "" {
		id := m.sidebarDragID
		m.sidebarDragID = ""
		if m.inGrid(msg) {
			dayIdx, _ := m.dayAt(msg.X)
			if dayIdx >= 0 && dayIdx < len(m.days) {
				cmd := m.engine.ScheduleAt(id, m.days[dayIdx].Date, y)
				return m, commands.Apply(m.store, cmd, "")
			}
		}
		return m, nil
	}

	cmd := m.engine.PointerUp(x, y)
	if cmd.Kind == gesture.CommandNone {
		return m, nil
	}
	return m, commands.Apply(m.store, cmd, "")
}

func (m *Model) toggleStatusAt(msg tea.MouseMsg, y float64) (tea.Model, tea.Cmd) {
	var target *task.Task
	if m.inSidebar(msg) {
		if t, ok := m.sidebarTaskAt(msg.Y); ok {
			target = t
		}
	} else if m.inGrid(msg) {
		dayIdx, xFrac := m.dayAt(msg.X)
		if dayIdx >= 0 && dayIdx < len(m.days) {
			if it, ok := hitItem(m.days[dayIdx], xFrac, y); ok && it.Kind == layout.KindTask {
				target = it.Task
			}
		}
	}
	if target == nil {
		return m, nil
	}
	next := task.StatusDone
	if target.IsDone() {
		next = task.StatusPending
	}
	return m, commands.SetStatus(m.store, target.ID, next)
}

// dayAt maps a terminal column to the day index and the horizontal
// fraction within that day column.
func (m *Model) dayAt(col int) (int, float64) {
	gw := m.gridWidth()
	if gw <= 0 {
		return -1, 0
	}
	idx := task.ColumnFromX(float64(col-timeAxisWidth), float64(gw), m.numDays)
	colW := float64(gw) / float64(m.numDays)
	frac := (float64(col-timeAxisWidth) - float64(idx)*colW) / colW
	return idx, frac
}

// sidebarTaskAt maps a terminal row to an unscheduled task in the sidebar
// list.
func (m *Model) sidebarTaskAt(row int) (*task.Task, bool) {
	idx := row - headerRows - 1 // one row for the sidebar title
	un := m.unallocated()
	if idx < 0 || idx >= len(un) {
		return nil, false
	}
	return &un[idx], true
}

func (m *Model) openCreatePrompt(cmd gesture.Command) {
	m.creating = true
	m.pendingCreate = cmd
	m.createInput.SetValue("")
	m.createInput.Focus()
}

func (m *Model) closeCreatePrompt() {
	m.creating = false
	m.pendingCreate = gesture.Command{}
	m.createInput.Blur()
}

package tui

import (
	"strings"
	"time"

	"hermes/internal/dateutil"
)

// View renders the full frame: day headers, all-day banners, the scrolled
// time grid with the sidebar, and the status line.
func (m *Model) View() string {
	if m.width <= 0 || m.height <= 0 {
		return ""
	}
	if m.loading && len(m.days) == 0 {
		return "Loading..."
	}
	if m.colWidth() < 4 {
		return "Terminal too small"
	}

	var b strings.Builder
	b.WriteString(m.renderHeader())
	b.WriteByte('\n')
	b.WriteString(m.renderAllDay())
	b.WriteByte('\n')

	ghost := m.activeGhost()
	pxRow := m.pxPerRow()
	sidebar := m.renderSidebarLines()

	for r := 0; r < m.gridRows(); r++ {
		absRow := r + m.scrollRows
		rowTop := float64(absRow) * pxRow
		rowBottom := rowTop + pxRow
		minute := absRow * m.cfg.Grid.SnapStepMinutes

		label := rowLabel(minute)
		if minute%60 == 0 {
			b.WriteString(m.styles.TimeAxisHour.Render(label))
		} else {
			b.WriteString(m.styles.TimeAxis.Render(label))
		}

		for _, day := range m.days {
			b.WriteString(m.renderDayRow(day, rowTop, rowBottom, ghost))
		}
		b.WriteString(m.padToSidebar())
		if r < len(sidebar) {
			b.WriteString(sidebar[r])
		}
		b.WriteByte('\n')
	}

	b.WriteString(m.renderFooter())
	return b.String()
}

func (m *Model) renderHeader() string {
	var b strings.Builder
	b.WriteString(m.styles.TimeAxis.Render(strings.Repeat(" ", timeAxisWidth)))

	today := time.Now().Format(dateutil.ISODate)
	for _, date := range m.dates() {
		label := date
		if t, err := dateutil.ParseDate(date); err == nil {
			label = t.Format("Mon 02")
		}
		style := m.styles.DayHeader
		if date == today {
			style = m.styles.DayHeaderToday
		}
		b.WriteString(style.Render(fit(" "+label, m.colWidth())))
	}
	b.WriteString(m.padToSidebar())
	if m.sidebarVisible() {
		b.WriteString(m.styles.SidebarTitle.Render(fit(" Unscheduled", sidebarWidth)))
	}
	return b.String()
}

// renderAllDay draws one banner row per day column listing its date-only
// events.
func (m *Model) renderAllDay() string {
	var b strings.Builder
	b.WriteString(m.styles.TimeAxis.Render(strings.Repeat(" ", timeAxisWidth)))

	for _, day := range m.days {
		if len(day.AllDay) == 0 {
			b.WriteString(m.styles.GridEmpty.Render(strings.Repeat(" ", m.colWidth())))
			continue
		}
		titles := make([]string, 0, len(day.AllDay))
		for _, e := range day.AllDay {
			titles = append(titles, e.Title)
		}
		b.WriteString(m.styles.AllDayBanner.Render(fit(" "+strings.Join(titles, " · "), m.colWidth())))
	}
	b.WriteString(m.padToSidebar())
	return b.String()
}

// renderSidebarLines builds the sidebar rows aligned with the grid rows.
// The title lives in the header row, so line 0 here is the first task.
func (m *Model) renderSidebarLines() []string {
	if !m.sidebarVisible() {
		return nil
	}
	un := m.unallocated()
	lines := make([]string, 0, len(un)+1)
	// Row reserved by sidebarTaskAt's offset.
	lines = append(lines, m.styles.SidebarItem.Render(fit("", sidebarWidth)))
	for _, t := range un {
		style := m.styles.SidebarItem
		if t.ID == m.sidebarDragID {
			style = m.styles.SidebarDrop
		}
		marker := "○ "
		if t.IsDone() {
			marker = "● "
		}
		lines = append(lines, style.Render(fit(" "+marker+t.Title, sidebarWidth)))
	}
	return lines
}

// padToSidebar fills the leftover columns between the last day column and
// the sidebar (or right edge).
func (m *Model) padToSidebar() string {
	used := timeAxisWidth + m.colWidth()*m.numDays
	edge := m.width
	if m.sidebarVisible() {
		edge = timeAxisWidth + m.gridWidth()
	}
	if used >= edge {
		return ""
	}
	return m.styles.GridEmpty.Render(strings.Repeat(" ", edge-used))
}

func (m *Model) renderFooter() string {
	if m.creating {
		at := m.pendingCreate.Date + " " + m.pendingCreate.StartTime
		prompt := " New task @ " + at + ": " + m.createInput.View()
		return m.styles.CreatePrompt.Render(fit(prompt, m.width))
	}
	if m.statusMsg != "" {
		style := m.styles.Status
		if m.statusIsErr {
			style = m.styles.StatusError
		}
		return style.Render(fit(" "+m.statusMsg, m.width))
	}
	help := " q quit · ←/→ navigate · t today · 1/7 view · drag to move · edges resize · hold to create · right-click done"
	return m.styles.Help.Render(fit(help, m.width))
}

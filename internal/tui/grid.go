package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"hermes/internal/gesture"
	"hermes/internal/layout"
	"hermes/internal/task"
)

// hitItem finds the positioned item under a pointer. xFrac is the
// horizontal fraction within the day column, yPx the pointer y in grid
// pixels.
func hitItem(day layout.Day, xFrac, yPx float64) (layout.Positioned, bool) {
	pct := xFrac * 100
	for _, it := range day.Items {
		if yPx < it.Top || yPx >= it.Top+it.Height {
			continue
		}
		if pct < it.LeftPct || pct >= it.LeftPct+it.WidthPct {
			continue
		}
		return it, true
	}
	return layout.Positioned{}, false
}

// hitEdge reports whether the pointer is on a resize handle: the first or
// last row of the item's box.
func hitEdge(it layout.Positioned, yPx, pxPerRow float64) (gesture.Edge, bool) {
	if yPx < it.Top+pxPerRow {
		return gesture.EdgeTop, true
	}
	if yPx >= it.Top+it.Height-pxPerRow {
		return gesture.EdgeBottom, true
	}
	return gesture.EdgeTop, false
}

// span is one styled stretch of a rendered grid row.
type span struct {
	start int // column within the day, inclusive
	width int
	text  string
	style lipgloss.Style
}

// itemSpan computes the horizontal span of a positioned item inside a day
// column of the given width. Lane geometry comes through LeftPct and
// WidthPct; the span always keeps at least one cell.
func itemSpan(it layout.Positioned, colWidth int) (int, int) {
	start := int(it.LeftPct / 100 * float64(colWidth))
	width := int(it.WidthPct/100*float64(colWidth) + 0.5)
	if width < 1 {
		width = 1
	}
	if start >= colWidth {
		start = colWidth - 1
	}
	if start+width > colWidth {
		width = colWidth - start
	}
	return start, width
}

// rowLabel returns the time-axis label for a grid row, blank except on
// the hour.
func rowLabel(minute int) string {
	if minute%60 != 0 {
		return strings.Repeat(" ", timeAxisWidth)
	}
	return task.MinutesToTime(minute) + " "
}

// fit truncates or pads s to exactly width cells.
func fit(s string, width int) string {
	if width <= 0 {
		return ""
	}
	r := []rune(s)
	if len(r) > width {
		return string(r[:width])
	}
	return s + strings.Repeat(" ", width-len(r))
}

// renderDayRow paints one terminal row of one day column. rowTopPx and
// rowBottomPx bound the vertical slice being drawn; ghost, when non-nil
// and on this day, overlays the whole column width.
func (m *Model) renderDayRow(day layout.Day, rowTopPx, rowBottomPx float64, ghost *gesture.Ghost) string {
	colWidth := m.colWidth()
	if colWidth <= 0 {
		return ""
	}

	minute := task.PixelToMinutes(rowTopPx, float64(m.cfg.Grid.HourHeight))
	bg := m.styles.GridEmpty
	if (int(minute)/60)%2 == 1 {
		bg = m.styles.GridEmptyAlt
	}

	var spans []span
	for _, it := range day.Items {
		if it.Top >= rowBottomPx || it.Top+it.Height <= rowTopPx {
			continue
		}
		start, width := itemSpan(it, colWidth)
		text := strings.Repeat(" ", width)
		if it.Top >= rowTopPx { // first visible row carries the title
			text = fit(it.Title, width)
		}
		spans = append(spans, span{start: start, width: width, text: text, style: m.itemStyle(it)})
	}

	if ghost != nil && ghost.Date == day.Date {
		top := task.MinutesToPixel(float64(ghost.StartMinute), float64(m.cfg.Grid.HourHeight))
		bottom := task.MinutesToPixel(float64(ghost.EndMinute), float64(m.cfg.Grid.HourHeight))
		if top < rowBottomPx && bottom > rowTopPx {
			text := strings.Repeat(" ", colWidth)
			if top >= rowTopPx {
				label := task.MinutesToTime(ghost.StartMinute) + "-" + task.MinutesToTime(ghost.EndMinute)
				text = fit(label, colWidth)
			}
			spans = []span{{start: 0, width: colWidth, text: text, style: m.styles.Ghost}}
		}
	}

	return m.assembleRow(day, spans, colWidth, rowTopPx, rowBottomPx, bg)
}

func (m *Model) assembleRow(day layout.Day, spans []span, colWidth int, rowTopPx, rowBottomPx float64, bg lipgloss.Style) string {
	nowRow := m.isNowRow(day, rowTopPx, rowBottomPx)

	filled := make([]bool, colWidth)
	cells := make([]string, 0, len(spans)+2)

	// Spans are lane-disjoint, so paint in column order.
	col := 0
	for col < colWidth {
		painted := false
		for _, sp := range spans {
			if sp.start == col {
				cells = append(cells, sp.style.Render(sp.text))
				for i := sp.start; i < sp.start+sp.width && i < colWidth; i++ {
					filled[i] = true
				}
				col += sp.width
				painted = true
				break
			}
		}
		if painted {
			continue
		}
		// Background run up to the next span start.
		run := 0
		for col+run < colWidth && !spanStartsAt(spans, col+run) {
			run++
		}
		if run == 0 {
			run = 1
		}
		if nowRow {
			cells = append(cells, m.styles.NowMarker.Render(strings.Repeat("╌", run)))
		} else {
			cells = append(cells, bg.Render(strings.Repeat(" ", run)))
		}
		col += run
	}
	return strings.Join(cells, "")
}

func spanStartsAt(spans []span, col int) bool {
	for _, sp := range spans {
		if sp.start == col {
			return true
		}
	}
	return false
}

// isNowRow reports whether the current-time marker falls inside this row
// of this day column.
func (m *Model) isNowRow(day layout.Day, rowTopPx, rowBottomPx float64) bool {
	if day.Date != m.now.Format("2006-01-02") {
		return false
	}
	off := layout.NowOffset(m.now, float64(m.cfg.Grid.HourHeight))
	return off >= rowTopPx && off < rowBottomPx
}

func (m *Model) itemStyle(it layout.Positioned) lipgloss.Style {
	switch {
	case it.Kind == layout.KindEvent:
		return m.styles.EventBlock
	case it.Task != nil && it.Task.IsDone():
		return m.styles.TaskBlockDone
	default:
		return m.styles.TaskBlock
	}
}

// activeGhost returns the live preview for the gesture in progress, if
// any.
func (m *Model) activeGhost() *gesture.Ghost {
	if g, ok := m.engine.DragGhost(); ok {
		return &g
	}
	if g, ok := m.engine.ResizePreview(); ok {
		return &g
	}
	return nil
}

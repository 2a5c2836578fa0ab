package ui

import (
	"fmt"
	"strings"

	"hermes/internal/dateutil"
	"hermes/internal/layout"
	"hermes/internal/task"
)

func statusSymbol(s task.Status) string {
	switch s {
	case task.StatusPending:
		return "○"
	case task.StatusInProgress:
		return "◐"
	case task.StatusDone:
		return "●"
	case task.StatusDeleted:
		return "✗"
	default:
		return "?"
	}
}

// printDay writes one day column to stdout: header, all-day banners,
// timed items in start order, and the unscheduled list when requested.
func printDay(day layout.Day, showUnscheduled bool) {
	header := day.Date
	if t, err := dateutil.ParseDate(day.Date); err == nil {
		header = t.Format("Mon Jan 2")
	}
	fmt.Printf("  %s\n", formatHeader(header))

	for _, e := range day.AllDay {
		fmt.Printf("    %s %s\n", formatEvent("[all-day]"), e.Title)
	}

	if len(day.Items) == 0 && len(day.AllDay) == 0 {
		fmt.Printf("    %s\n", formatMuted("nothing scheduled"))
	}

	for _, it := range day.Items {
		span := task.MinutesToTime(it.Start) + "-" + task.MinutesToTime(it.End)
		overlap := ""
		if it.Lanes > 1 {
			overlap = formatMuted(fmt.Sprintf(" ‖%d/%d", it.Lane+1, it.Lanes))
		}
		switch {
		case it.Kind == layout.KindEvent:
			fmt.Printf("    %s %s %s%s\n", span, formatEvent("◆"), it.Title, overlap)
		case it.Task != nil && it.Task.IsDone():
			fmt.Printf("    %s %s %s%s\n", span, statusSymbol(it.Task.Status), formatMuted(it.Title), overlap)
		default:
			status := "○"
			if it.Task != nil {
				status = statusSymbol(it.Task.Status)
			}
			fmt.Printf("    %s %s %s%s\n", span, status, formatTask(it.Title), overlap)
		}
	}

	if showUnscheduled && len(day.Unallocated) > 0 {
		fmt.Printf("  %s\n", formatHeader("Unscheduled"))
		for _, t := range day.Unallocated {
			fmt.Printf("    %s %s\n", statusSymbol(t.Status), t.Title)
		}
	}
}

// printStats summarizes scheduled time across the given days.
func printStats(days []layout.Day) {
	var totalMin, doneMin int
	var blocks, done int
	for _, day := range days {
		for _, it := range day.Items {
			if it.Kind != layout.KindTask {
				continue
			}
			blocks++
			totalMin += it.End - it.Start
			if it.Task != nil && it.Task.IsDone() {
				done++
				doneMin += it.End - it.Start
			}
		}
	}
	if blocks == 0 {
		return
	}
	line := fmt.Sprintf("%d blocks · %s scheduled · %d done (%s)",
		blocks, formatMinutes(totalMin), done, formatMinutes(doneMin))
	fmt.Printf("  %s\n", formatStats(line))
}

func formatMinutes(m int) string {
	if m < 60 {
		return fmt.Sprintf("%dm", m)
	}
	if m%60 == 0 {
		return fmt.Sprintf("%dh", m/60)
	}
	return fmt.Sprintf("%dh%02dm", m/60, m%60)
}

// copyText renders days as plain text for the clipboard.
func copyText(days []layout.Day) string {
	var b strings.Builder
	for _, day := range days {
		fmt.Fprintf(&b, "%s\n", day.Date)
		for _, e := range day.AllDay {
			fmt.Fprintf(&b, "  all-day  %s\n", e.Title)
		}
		for _, it := range day.Items {
			fmt.Fprintf(&b, "  %s-%s  %s\n",
				task.MinutesToTime(it.Start), task.MinutesToTime(it.End), it.Title)
		}
		b.WriteByte('\n')
	}
	return strings.TrimRight(b.String(), "\n") + "\n"
}

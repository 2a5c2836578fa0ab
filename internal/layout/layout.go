// Package layout computes the day-grid placement of timed items: overlap
// clustering, lane assignment, and pixel positioning. Both the week grid
// and the single-day view call the same entry point, so there is exactly
// one copy of this logic.
package layout

import (
	"sort"
	"time"

	"hermes/internal/task"
)

// Kind identifies the source of a timed item.
type Kind int

const (
	KindTask Kind = iota
	KindEvent
)

// Minimum rendered heights, in pixels at the reference scale. Zero-duration
// items still get a visible box.
const (
	MinTaskHeight  = 30.0
	MinEventHeight = 20.0
)

// TimedItem is one time-bounded entry on a single day, already clamped to
// [0, 1440]. Multi-day items are pre-split by the caller.
type TimedItem struct {
	ID    string
	Title string
	Kind  Kind
	Start int // minutes since midnight, [0, 1440)
	End   int // minutes since midnight, (Start, 1440]

	Task  *task.Task          // set when Kind == KindTask
	Event *task.ExternalEvent // set when Kind == KindEvent
}

// Positioned is a TimedItem with its computed grid placement.
type Positioned struct {
	TimedItem

	Lane  int // column within the overlap cluster
	Lanes int // total columns in the cluster

	Top      float64 // pixels from the top of the day column
	Height   float64 // pixels
	LeftPct  float64 // percentage offset within the day column
	WidthPct float64 // percentage width within the day column
}

// Day is the render-ready layout for one day.
type Day struct {
	Date        string // "YYYY-MM-DD"
	Items       []Positioned
	AllDay      []task.ExternalEvent // date-only events, rendered as banners
	Unallocated []task.Task          // tasks without a start time
}

// Options parameterizes the pixel scale of the layout.
type Options struct {
	HourHeight float64 // pixels per hour
}

// DefaultOptions matches the reference grid scale.
func DefaultOptions() Options {
	return Options{HourHeight: 60}
}

// BuildDay produces the positioned layout for one day from raw tasks and
// external events. Tasks are included when scheduled on the given date;
// deleted tasks are skipped. Tasks without a start time land in
// Unallocated regardless of date. The output is deterministic for a
// fixed input set.
func BuildDay(tasks []task.Task, events []task.ExternalEvent, date string, opts Options) Day {
	if opts.HourHeight <= 0 {
		opts.HourHeight = DefaultOptions().HourHeight
	}

	day := Day{Date: date}
	items := make([]TimedItem, 0, len(tasks)+len(events))

	for i := range tasks {
		t := &tasks[i]
		if t.IsDeleted() {
			continue
		}
		if !t.IsScheduled() {
			day.Unallocated = append(day.Unallocated, *t)
			continue
		}
		if t.Date != date {
			continue
		}
		start := task.TimeToMinutes(t.StartTime)
		end := start + task.DefaultDurationMinutes
		if t.EndTime != "" {
			end = task.TimeToMinutes(t.EndTime)
		}
		items = append(items, TimedItem{
			ID:    t.ID,
			Title: t.Title,
			Kind:  KindTask,
			Start: start,
			End:   end,
			Task:  t,
		})
	}

	for i := range events {
		e := &events[i]
		if e.Start == "" || e.End == "" {
			continue
		}
		if !e.IsTimed() {
			// Date-only range: [start, end), always including the start day.
			if date == e.StartDate() || (date > e.StartDate() && date < e.EndDate()) {
				day.AllDay = append(day.AllDay, *e)
			}
			continue
		}
		if !eventOnDay(e, date) {
			continue
		}
		items = append(items, TimedItem{
			ID:    e.ID,
			Title: e.Title,
			Kind:  KindEvent,
			Start: task.TimeToMinutes(task.TimeOfDay(e.Start, "00:00")),
			End:   task.TimeToMinutes(task.TimeOfDay(e.End, "23:59")),
			Event: e,
		})
	}

	day.Items = Position(items, opts)
	sort.SliceStable(day.Unallocated, func(i, j int) bool {
		a, b := day.Unallocated[i], day.Unallocated[j]
		if a.Order != b.Order {
			return a.Order < b.Order
		}
		return a.ID < b.ID
	})
	return day
}

// eventOnDay reports whether a timed event occupies the given day. An
// event is included on its start day, and a multi-day timed event on
// every day of [start, end] (string date comparison).
func eventOnDay(e *task.ExternalEvent, date string) bool {
	startDate, endDate := e.StartDate(), e.EndDate()
	if startDate == date {
		return true
	}
	if startDate != endDate {
		return date >= startDate && date <= endDate
	}
	return false
}

// Position sorts, clusters, lane-packs, and pixel-positions a day's items.
func Position(items []TimedItem, opts Options) []Positioned {
	sorted := sortItems(items)
	clusters := Clusters(sorted)

	out := make([]Positioned, 0, len(sorted))
	for _, cluster := range clusters {
		out = append(out, packLanes(cluster, opts)...)
	}
	return out
}

// sortItems returns a copy ordered by (start asc, end desc), with the id
// as a final tiebreak so the layout never depends on input order.
func sortItems(items []TimedItem) []TimedItem {
	sorted := make([]TimedItem, len(items))
	copy(sorted, items)
	sort.SliceStable(sorted, func(i, j int) bool {
		a, b := sorted[i], sorted[j]
		if a.Start != b.Start {
			return a.Start < b.Start
		}
		if a.End != b.End {
			return a.End > b.End
		}
		return a.ID < b.ID
	})
	return sorted
}

// Clusters partitions sorted items into maximal transitively-overlapping
// groups. An item joins the current cluster while its start is before the
// running maximum end of the items absorbed so far.
func Clusters(sorted []TimedItem) [][]TimedItem {
	var clusters [][]TimedItem
	maxEnd := -1
	for _, item := range sorted {
		if item.Start >= maxEnd || len(clusters) == 0 {
			clusters = append(clusters, []TimedItem{item})
		} else {
			last := len(clusters) - 1
			clusters[last] = append(clusters[last], item)
		}
		if item.End > maxEnd {
			maxEnd = item.End
		}
	}
	return clusters
}

// packLanes assigns each item of one cluster the lowest lane whose
// members it does not strictly overlap, then positions everything with
// the cluster's final lane count.
func packLanes(cluster []TimedItem, opts Options) []Positioned {
	var lanes [][]TimedItem
	assigned := make([]int, len(cluster))

	for i, item := range cluster {
		lane := 0
		for lane < len(lanes) && laneConflicts(lanes[lane], item) {
			lane++
		}
		if lane == len(lanes) {
			lanes = append(lanes, nil)
		}
		lanes[lane] = append(lanes[lane], item)
		assigned[i] = lane
	}

	total := len(lanes)
	out := make([]Positioned, 0, len(cluster))
	for i, item := range cluster {
		minHeight := MinTaskHeight
		if item.Kind == KindEvent {
			minHeight = MinEventHeight
		}
		height := task.MinutesToPixel(float64(item.End-item.Start), opts.HourHeight)
		if height < minHeight {
			height = minHeight
		}
		out = append(out, Positioned{
			TimedItem: item,
			Lane:      assigned[i],
			Lanes:     total,
			Top:       task.MinutesToPixel(float64(item.Start), opts.HourHeight),
			Height:    height,
			LeftPct:   float64(assigned[i]) / float64(total) * 100,
			WidthPct:  100 / float64(total),
		})
	}
	return out
}

// BuildWindow lays out a run of consecutive days (a week or month row).
// Each day is computed independently by BuildDay.
func BuildWindow(tasks []task.Task, events []task.ExternalEvent, dates []string, opts Options) []Day {
	days := make([]Day, len(dates))
	for i, date := range dates {
		days[i] = BuildDay(tasks, events, date, opts)
	}
	return days
}

// NowOffset returns the pixel offset of a wall-clock instant within a day
// column, for drawing the current-time indicator.
func NowOffset(now time.Time, hourHeight float64) float64 {
	return task.MinutesToPixel(float64(now.Hour()*60+now.Minute()), hourHeight)
}

// laneConflicts reports whether item strictly overlaps any member already
// assigned to the lane.
func laneConflicts(lane []TimedItem, item TimedItem) bool {
	for _, other := range lane {
		if task.TimesOverlap(item.Start, item.End, other.Start, other.End) {
			return true
		}
	}
	return false
}

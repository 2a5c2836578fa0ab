package task

import (
	"fmt"
	"math"
)

// Grid constants shared by the layout and gesture engines.
const (
	// MinutesPerDay is the number of minutes in one day column.
	MinutesPerDay = 24 * 60

	// SnapStepMinutes is the default snapping granularity.
	SnapStepMinutes = 15

	// DefaultDurationMinutes is the duration given to newly created items
	// and to tasks that have a start time but no end time.
	DefaultDurationMinutes = 60
)

// TimeToMinutes converts "HH:MM" to minutes since midnight.
// Returns 0 for empty or malformed input; callers that need to
// distinguish "unscheduled" must check for absence before calling.
func TimeToMinutes(t string) int {
	if len(t) < 5 || t[2] != ':' {
		return 0
	}
	if !allDigits(t[0:2]) || !allDigits(t[3:5]) {
		return 0
	}
	hours := int(t[0]-'0')*10 + int(t[1]-'0')
	mins := int(t[3]-'0')*10 + int(t[4]-'0')
	return hours*60 + mins
}

// MinutesToTime converts minutes since midnight to "HH:MM" format.
// Hours saturate at [0,23] and minutes-of-hour at [0,59], so the result
// is always a valid wall-clock string even if upstream arithmetic
// overflowed the day.
func MinutesToTime(m int) string {
	if m < 0 {
		m = 0
	}
	h := m / 60
	if h > 23 {
		h = 23
	}
	return fmt.Sprintf("%02d:%02d", h, m%60)
}

// SnapToGrid rounds minutes to the nearest multiple of step.
// Ties round toward positive infinity.
func SnapToGrid(minutes float64, step int) int {
	if step <= 0 {
		return int(math.Floor(minutes + 0.5))
	}
	return int(math.Floor(minutes/float64(step)+0.5)) * step
}

// PixelToMinutes converts a vertical pixel offset to minutes given the
// pixels-per-hour scale. No clamping; the caller clamps.
func PixelToMinutes(y, hourHeight float64) float64 {
	return y / hourHeight * 60
}

// MinutesToPixel converts minutes since midnight to a vertical pixel
// offset given the pixels-per-hour scale.
func MinutesToPixel(minutes, hourHeight float64) float64 {
	return minutes / 60 * hourHeight
}

// TimeFromPixel converts a vertical pixel offset to a snapped "HH:MM"
// string.
func TimeFromPixel(y, hourHeight float64, step int) string {
	return MinutesToTime(SnapToGrid(PixelToMinutes(y, hourHeight), step))
}

// ColumnFromX converts a horizontal pixel offset into a day column index,
// clamped to [0, columns-1].
func ColumnFromX(x, totalWidth float64, columns int) int {
	if columns <= 0 {
		return 0
	}
	colWidth := totalWidth / float64(columns)
	idx := int(math.Floor(x / colWidth))
	if idx < 0 {
		return 0
	}
	if idx > columns-1 {
		return columns - 1
	}
	return idx
}

// TimesOverlap returns true if two minute ranges strictly intersect.
func TimesOverlap(start1, end1, start2, end2 int) bool {
	return start1 < end2 && start2 < end1
}

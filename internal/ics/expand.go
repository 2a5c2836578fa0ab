package ics

import (
	"time"

	"github.com/teambition/rrule-go"

	applog "hermes/internal/log"
	"hermes/internal/task"
)

// Expand turns parsed events into concrete occurrences inside
// [start, end). Recurring events are expanded through their RRULE with
// EXDATEs removed; single events are kept when they intersect the
// window.
func Expand(events []Event, start, end time.Time) []task.ExternalEvent {
	var out []task.ExternalEvent
	for _, ev := range events {
		if ev.RRule == "" {
			if ev.End.After(start) && ev.Start.Before(end) {
				out = append(out, toExternal(ev, ev.Start, ev.End, ev.UID))
			}
			continue
		}
		out = append(out, expandRecurring(ev, start, end)...)
	}
	return out
}

func expandRecurring(ev Event, start, end time.Time) []task.ExternalEvent {
	r, err := rrule.StrToRRule(ev.RRule)
	if err != nil {
		applog.Error("bad rrule", err, "uid", ev.UID, "rrule", ev.RRule)
		return nil
	}
	r.DTStart(ev.Start)

	var set rrule.Set
	set.RRule(r)
	for _, ex := range ev.ExDates {
		set.ExDate(ex.In(ev.Start.Location()))
	}

	loc := ev.Start.Location()
	starts := set.Between(start.In(loc), end.In(loc), true)
	if len(starts) > maxOccurrences {
		applog.Error("recurrence expansion capped", nil, "uid", ev.UID)
		starts = starts[:maxOccurrences]
	}

	dur := ev.End.Sub(ev.Start)
	out := make([]task.ExternalEvent, 0, len(starts))
	for _, occStart := range starts {
		occEnd := occStart.Add(dur)
		if ev.AllDay {
			day := time.Date(occStart.Year(), occStart.Month(), occStart.Day(), 0, 0, 0, 0, occStart.Location())
			occStart = day
			occEnd = day.Add(24 * time.Hour)
		}
		id := ev.UID + "/" + occStart.Format(isoDateTime)
		out = append(out, toExternal(ev, occStart, occEnd, id))
	}
	return out
}

func toExternal(ev Event, start, end time.Time, id string) task.ExternalEvent {
	start = start.In(time.Local)
	end = end.In(time.Local)
	if ev.AllDay {
		// DTEND on all-day events is already exclusive.
		return task.ExternalEvent{
			ID:    id,
			Title: ev.Summary,
			Start: start.Format(isoDate),
			End:   end.Format(isoDate),
		}
	}
	return task.ExternalEvent{
		ID:    id,
		Title: ev.Summary,
		Start: start.Format(isoDateTime),
		End:   end.Format(isoDateTime),
	}
}

// Package ics loads external calendar events from ICS feeds. A source
// is either an http(s) URL or a local file path; parsed VEVENTs are
// expanded over a date window into task.ExternalEvent values.
package ics

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	applog "hermes/internal/log"
	"hermes/internal/task"
)

const (
	isoDate     = "2006-01-02"
	isoDateTime = "2006-01-02T15:04"

	fetchTimeout = 15 * time.Second

	// Cap per recurring event so a malformed RRULE cannot explode the
	// expansion.
	maxOccurrences = 1000
)

var httpClient = &http.Client{Timeout: fetchTimeout}

// Fetch returns the raw ICS payload for a source. Sources containing a
// scheme separator are fetched over HTTP, anything else is read from
// the filesystem.
func Fetch(ctx context.Context, source string) ([]byte, error) {
	if source == "" {
		return nil, errors.New("empty ics source")
	}
	if !strings.Contains(source, "://") {
		return os.ReadFile(source)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, source, nil)
	if err != nil {
		return nil, err
	}
	resp, err := httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetching %s: %s", redactURL(source), resp.Status)
	}
	return io.ReadAll(resp.Body)
}

// Load fetches, parses and expands every source over [from, to]
// (inclusive dates, "YYYY-MM-DD"). Failing sources are logged and
// skipped so one dead feed does not blank the calendar.
func Load(ctx context.Context, sources []string, from, to string) []task.ExternalEvent {
	start, err := time.ParseInLocation(isoDate, from, time.Local)
	if err != nil {
		applog.Error("bad window start", err, "from", from)
		return nil
	}
	end, err := time.ParseInLocation(isoDate, to, time.Local)
	if err != nil {
		applog.Error("bad window end", err, "to", to)
		return nil
	}
	end = end.Add(24 * time.Hour)

	var out []task.ExternalEvent
	for _, src := range sources {
		body, err := Fetch(ctx, src)
		if err != nil {
			applog.Error("ics fetch failed", err, "source", redactURL(src))
			continue
		}
		events, err := Parse(body)
		if err != nil {
			applog.Error("ics parse failed", err, "source", redactURL(src))
			continue
		}
		out = append(out, Expand(events, start, end)...)
	}
	return out
}

// redactURL strips path and query from a URL so tokens embedded in
// private feed links never reach the log.
func redactURL(u string) string {
	i := strings.Index(u, "://")
	if i < 0 {
		return u
	}
	rest := u[i+3:]
	if j := strings.IndexByte(rest, '/'); j >= 0 {
		return u[:i+3+j] + "/..."
	}
	return u
}

package dateutil

import (
	"errors"
	"testing"
	"time"
)

func TestParseDate(t *testing.T) {
	t.Run("valid date", func(t *testing.T) {
		got, err := ParseDate("2025-03-10")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		want := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)
		if !got.Equal(want) {
			t.Errorf("got %v, want %v", got, want)
		}
	})

	t.Run("empty defaults to today", func(t *testing.T) {
		got, err := ParseDate("")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !got.Equal(TruncateToDay(time.Now())) {
			t.Errorf("expected today, got %v", got)
		}
	})

	t.Run("invalid format", func(t *testing.T) {
		_, err := ParseDate("10/03/2025")
		if !errors.Is(err, ErrInvalidDateFormat) {
			t.Errorf("expected ErrInvalidDateFormat, got %v", err)
		}
	})
}

func TestWeekDates(t *testing.T) {
	// Wednesday 2025-03-12 is in the week of Monday 2025-03-10.
	wed := time.Date(2025, 3, 12, 15, 30, 0, 0, time.UTC)
	dates := WeekDates(wed)

	if len(dates) != 7 {
		t.Fatalf("expected 7 dates, got %d", len(dates))
	}
	if dates[0] != "2025-03-10" {
		t.Errorf("week starts %s, want 2025-03-10", dates[0])
	}
	if dates[6] != "2025-03-16" {
		t.Errorf("week ends %s, want 2025-03-16", dates[6])
	}
}

func TestDayWindow(t *testing.T) {
	start := time.Date(2025, 2, 27, 0, 0, 0, 0, time.UTC)
	dates := DayWindow(start, 3)

	want := []string{"2025-02-27", "2025-02-28", "2025-03-01"}
	for i := range want {
		if dates[i] != want[i] {
			t.Errorf("dates[%d] = %s, want %s", i, dates[i], want[i])
		}
	}
}

func TestParseRelativeDate(t *testing.T) {
	// Monday
	base := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		input string
		want  string
	}{
		{"", "2025-03-10"},
		{"today", "2025-03-10"},
		{"tomorrow", "2025-03-11"},
		{"yesterday", "2025-03-09"},
		{"next-week", "2025-03-17"},
		{"friday", "2025-03-14"},
		{"monday", "2025-03-17"}, // today's weekday jumps a full week
		{"next-friday", "2025-03-14"},
		{"2025-01-01", "2025-01-01"}, // past absolute dates are fine
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseRelativeDate(tt.input, base)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if FormatDate(got) != tt.want {
				t.Errorf("got %s, want %s", FormatDate(got), tt.want)
			}
		})
	}

	t.Run("unrecognized input", func(t *testing.T) {
		_, err := ParseRelativeDate("next-sometime", base)
		if !errors.Is(err, ErrInvalidDateFormat) {
			t.Errorf("expected ErrInvalidDateFormat, got %v", err)
		}
	})
}

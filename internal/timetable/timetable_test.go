package timetable

import (
	"strings"
	"testing"
	"time"
)

func TestForDayNamedDay(t *testing.T) {
	got := ForDay("Friday", time.Time{})
	if !strings.HasPrefix(got, "Friday's timetable:\n") {
		t.Errorf("header missing: %q", got)
	}
	if !strings.Contains(got, "9:00 AM - 4:30 PM: Project") {
		t.Errorf("entry missing: %q", got)
	}
}

func TestForDayNormalizesCase(t *testing.T) {
	want := ForDay("Monday", time.Time{})
	for _, in := range []string{"monday", "MONDAY", "mOnDaY"} {
		if got := ForDay(in, time.Time{}); got != want {
			t.Errorf("ForDay(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestForDayDefaultsToToday(t *testing.T) {
	// 2024-09-04 is a Wednesday.
	now := time.Date(2024, 9, 4, 10, 0, 0, 0, time.UTC)
	got := ForDay("", now)
	if !strings.HasPrefix(got, "Wednesday's timetable:") {
		t.Errorf("expected Wednesday, got %q", got)
	}
}

func TestForDayUnknownDay(t *testing.T) {
	if got := ForDay("Sunday", time.Time{}); got != "No timetable available for Sunday." {
		t.Errorf("got %q", got)
	}
	if got := ForDay("Caturday", time.Time{}); got != "No timetable available for Caturday." {
		t.Errorf("got %q", got)
	}
}

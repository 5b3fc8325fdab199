// Package timetable renders the fixed weekly class schedule. The data is
// compiled in; changing it is a deploy, which matches how often a semester
// schedule actually moves.
package timetable

import (
	"fmt"
	"strings"
	"time"
)

var week = map[string][]string{
	"Monday": {
		"9:00 AM - 9:55 AM: Web Programming",
		"9:55 AM - 10:50 AM: AI",
		"10:50 AM - 11:00 AM: Break",
		"11:00 AM - 11:55 AM: Disaster Management",
		"11:55 AM - 12:40 PM: Lunch Break",
		"12:40 PM - 1:35 PM: Web Programming",
		"1:35 PM - 2:30 PM: AI",
		"2:30 PM - 2:40 PM: Break",
		"2:40 PM - 3:35 PM: Honours",
		"3:35 PM - 4:30 PM: Industrial Safety Engineering",
	},
	"Tuesday": {
		"9:00 AM - 11:55 AM: Compiler Lab",
		"11:55 AM - 12:40 PM: Lunch Break",
		"12:40 PM - 1:35 PM: Web Programming",
		"1:35 PM - 2:30 PM: Minor",
		"2:30 PM - 2:40 PM: Break",
		"2:40 PM - 3:35 PM: Disaster Management",
		"3:35 PM - 4:30 PM: AI",
	},
	"Wednesday": {
		"9:00 AM - 11:55 AM: Seminar",
		"11:55 AM - 12:40 PM: Lunch Break",
		"12:40 PM - 1:35 PM: Web Programming",
		"1:35 PM - 2:30 PM: AI",
		"2:30 PM - 2:40 PM: Break",
		"2:40 PM - 3:35 PM: Honours",
		"3:35 PM - 4:30 PM: Industrial Safety Engineering",
	},
	"Thursday": {
		"9:00 AM - 9:55 AM: AI",
		"9:55 AM - 10:50 AM: Industrial Safety Engineering",
		"10:50 AM - 11:00 AM: Break",
		"11:00 AM - 11:55 AM: Minor",
		"11:55 AM - 12:40 PM: Lunch Break",
		"12:40 PM - 1:35 PM: Disaster Management",
		"1:35 PM - 2:30 PM: Honours",
		"2:30 PM - 2:40 PM: Break",
		"2:40 PM - 3:35 PM: Industrial Safety Engineering",
		"3:35 PM - 4:30 PM: Minor",
	},
	"Friday": {
		"9:00 AM - 4:30 PM: Project",
	},
}

// Normalize canonicalizes a user-supplied day name ("monday", "MONDAY")
// into the map's capitalized form.
func Normalize(day string) string {
	day = strings.TrimSpace(day)
	if day == "" {
		return ""
	}
	return strings.ToUpper(day[:1]) + strings.ToLower(day[1:])
}

// ForDay renders the schedule for the given day name. An empty day selects
// today in local time. Unknown days, including weekends, get a no-schedule
// notice rather than an error.
func ForDay(day string, now time.Time) string {
	if strings.TrimSpace(day) == "" {
		day = now.Weekday().String()
	} else {
		day = Normalize(day)
	}
	entries, ok := week[day]
	if !ok {
		return fmt.Sprintf("No timetable available for %s.", day)
	}
	return fmt.Sprintf("%s's timetable:\n%s", day, strings.Join(entries, "\n"))
}

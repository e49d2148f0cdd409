package timetable

import (
	"strconv"
	"strings"
	"time"
)

// Day is a weekday in its canonical form: the lower-case full english name.
// Every day entering the package goes through ParseDay or DayOf.
type Day string

const (
	Monday    Day = "monday"
	Tuesday   Day = "tuesday"
	Wednesday Day = "wednesday"
	Thursday  Day = "thursday"
	Friday    Day = "friday"
	Saturday  Day = "saturday"
	Sunday    Day = "sunday"
)

// Days lists the canonical days, week starting on Monday.
var Days = []Day{Monday, Tuesday, Wednesday, Thursday, Friday, Saturday, Sunday}

var dayAliases = map[string]Day{
	"mon": Monday, "tue": Tuesday, "tues": Tuesday, "wed": Wednesday,
	"thu": Thursday, "thur": Thursday, "thurs": Thursday, "fri": Friday,
	"sat": Saturday, "sun": Sunday,
}

// ParseDay converts a day identifier to its canonical Day.
// Accepted: full names and their usual abbreviations in any case ("Mon", "TUES", "monday")
// and ISO-8601 numbers ("1" = Monday ... "7" = Sunday).
func ParseDay(s string) (Day, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return "", false
	}
	if n, err := strconv.Atoi(s); err == nil {
		if n < 1 || n > len(Days) {
			return "", false
		}
		return Days[n-1], true
	}
	if d := Day(s); d.Valid() {
		return d, true
	}
	d, ok := dayAliases[s]
	return d, ok
}

// DayOf returns the Day `t` falls on, in t's location.
func DayOf(t time.Time) Day {
	return FromWeekday(t.Weekday())
}

// FromWeekday maps a time.Weekday to its Day.
func FromWeekday(wd time.Weekday) Day {
	if wd == time.Sunday {
		return Sunday
	}
	return Days[wd-1]
}

func (d Day) Valid() bool {
	for _, day := range Days {
		if d == day {
			return true
		}
	}
	return false
}

// Title returns the display form of d, eg. "Monday".
func (d Day) Title() string {
	if d == "" {
		return ""
	}
	return strings.ToUpper(string(d[:1])) + string(d[1:])
}

func (d Day) String() string { return string(d) }

package core

import (
	"fmt"
	"time"

	"github.com/pkg/errors"
)

// TimeOfDay is a wall-clock time with minute precision, detached from any
// calendar date. Recurring classes store their start/end as TimeOfDay; the
// session materializer combines it with a concrete date.
type TimeOfDay struct {
	Hour   int `json:"hour"`
	Minute int `json:"minute"`
}

// ParseTimeOfDay parses a "HH:MM" 24-hour string.
func ParseTimeOfDay(s string) (TimeOfDay, error) {
	var tod TimeOfDay
	if _, err := fmt.Sscanf(s, "%d:%d", &tod.Hour, &tod.Minute); err != nil {
		return TimeOfDay{}, errors.Wrapf(err, "parsing time of day %q", s)
	}
	if tod.Hour < 0 || tod.Hour > 23 || tod.Minute < 0 || tod.Minute > 59 {
		return TimeOfDay{}, errors.Errorf("time of day %q out of range", s)
	}
	return tod, nil
}

// TimeOfDayFrom extracts the wall-clock part of t.
func TimeOfDayFrom(t time.Time) TimeOfDay {
	return TimeOfDay{Hour: t.Hour(), Minute: t.Minute()}
}

func (tod TimeOfDay) String() string {
	return fmt.Sprintf("%02d:%02d", tod.Hour, tod.Minute)
}

// Minutes returns the offset from midnight in minutes; used for interval comparison.
func (tod TimeOfDay) Minutes() int {
	return tod.Hour*60 + tod.Minute
}

func (tod TimeOfDay) Before(other TimeOfDay) bool {
	return tod.Minutes() < other.Minutes()
}

func (tod TimeOfDay) After(other TimeOfDay) bool {
	return tod.Minutes() > other.Minutes()
}

// Combine anchors the time of day on date's calendar day, in UTC.
func (tod TimeOfDay) Combine(date time.Time) time.Time {
	return time.Date(date.Year(), date.Month(), date.Day(), tod.Hour, tod.Minute, 0, 0, time.UTC)
}

// StartOfDay truncates t to midnight UTC.
func StartOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// EndOfDay returns the last representable instant of t's day (minute precision
// is all we need; seconds pinned to 59).
func EndOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 23, 59, 59, 0, time.UTC)
}

// SameDay reports whether a and b fall on the same UTC calendar day.
func SameDay(a, b time.Time) bool {
	ay, am, ad := a.UTC().Date()
	by, bm, bd := b.UTC().Date()
	return ay == by && am == bm && ad == bd
}

// DaysUntilWeekday returns how many days ahead of `from` the next occurrence
// of `day` falls; 0 when `from` already lands on it.
func DaysUntilWeekday(from time.Time, day time.Weekday) int {
	return (int(day) - int(from.UTC().Weekday()) + 7) % 7
}

// WeekRange resolves a (year, week) pair to its inclusive date range,
// start-of-day Monday through end-of-day Sunday. Week 1 is the week containing
// Jan 1, adjusted back to its Monday.
func WeekRange(year, week int) (time.Time, time.Time, error) {
	if week < 1 || week > 53 {
		return time.Time{}, time.Time{}, errors.Errorf("week number %d out of range", week)
	}
	jan1 := time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
	sinceMonday := (int(jan1.Weekday()) + 6) % 7
	start := jan1.AddDate(0, 0, (week-1)*7-sinceMonday)
	end := EndOfDay(start.AddDate(0, 0, 6))
	return start, end, nil
}

// WeekNumber is the inverse of WeekRange for dates within `year`.
func WeekNumber(t time.Time) (year, week int) {
	year = t.UTC().Year()
	jan1 := time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
	sinceMonday := (int(jan1.Weekday()) + 6) % 7
	week1Start := jan1.AddDate(0, 0, -sinceMonday)
	week = int(StartOfDay(t).Sub(week1Start).Hours()/24)/7 + 1
	return year, week
}

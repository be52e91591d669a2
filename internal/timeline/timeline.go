// Package timeline derives date-oriented views of an action's entries.
// Entries are stored in insertion order; grouping by calendar day happens
// here and never changes the stored order.
package timeline

import (
	"sort"
	"time"

	"github.com/xolan/lookback/internal/journal"
)

// StartOfDay returns midnight (00:00:00) of the given day in the same timezone
func StartOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// EndOfDay returns the last nanosecond of the given day (23:59:59.999999999)
func EndOfDay(t time.Time) time.Time {
	return StartOfDay(t).AddDate(0, 0, 1).Add(-time.Nanosecond)
}

// DayOf returns the start of the calendar day containing t, as seen in loc.
// A nil loc means time.Local.
func DayOf(t time.Time, loc *time.Location) time.Time {
	if loc == nil {
		loc = time.Local
	}
	return StartOfDay(t.In(loc))
}

// SameDay reports whether a and b fall on the same calendar day in loc.
func SameDay(a, b time.Time, loc *time.Location) bool {
	return DayOf(a, loc).Equal(DayOf(b, loc))
}

// Day is one calendar day and the entries logged on it.
type Day struct {
	Date    time.Time
	Entries []journal.Entry
}

// Group buckets the action's entries by calendar day. Days are ascending;
// entries within a day keep insertion order.
func Group(a journal.Action, loc *time.Location) []Day {
	index := make(map[time.Time]int)
	var days []Day
	for _, e := range a.Entries {
		d := DayOf(e.Timestamp, loc)
		i, ok := index[d]
		if !ok {
			i = len(days)
			index[d] = i
			days = append(days, Day{Date: d})
		}
		days[i].Entries = append(days[i].Entries, e)
	}

	sort.SliceStable(days, func(i, j int) bool {
		return days[i].Date.Before(days[j].Date)
	})
	return days
}

// DatesWithEntries returns the distinct days that have at least one entry,
// ascending.
func DatesWithEntries(a journal.Action, loc *time.Location) []time.Time {
	days := Group(a, loc)
	dates := make([]time.Time, len(days))
	for i, d := range days {
		dates[i] = d.Date
	}
	return dates
}

// EntriesForDate returns the entries logged on the day containing date,
// in insertion order.
func EntriesForDate(a journal.Action, date time.Time, loc *time.Location) []journal.Entry {
	day := DayOf(date, loc)
	var out []journal.Entry
	for _, e := range a.Entries {
		if DayOf(e.Timestamp, loc).Equal(day) {
			out = append(out, e)
		}
	}
	return out
}

// LatestDate returns the most recent day with entries.
func LatestDate(a journal.Action, loc *time.Location) (time.Time, bool) {
	dates := DatesWithEntries(a, loc)
	if len(dates) == 0 {
		return time.Time{}, false
	}
	return dates[len(dates)-1], true
}

// Package stats aggregates journal entries over a date range.
package stats

import (
	"sort"
	"strings"
	"time"

	"github.com/xolan/lookback/internal/journal"
	"github.com/xolan/lookback/internal/timeline"
)

// Statistics contains aggregated statistics for the entries in a range
type Statistics struct {
	EntryCount           int
	ImageCount           int
	ActiveActions        int // actions with at least one entry in range
	DaysWithEntries      int
	AverageEntriesPerDay float64
}

// ActionBreakdown contains statistics for a single action
type ActionBreakdown struct {
	ActionID   string
	Title      string
	EntryCount int
	ImageCount int
	LastEntry  time.Time
}

// inRange reports whether t lies in [start, end]. A zero start or end is
// unbounded on that side.
func inRange(t, start, end time.Time) bool {
	if !start.IsZero() && t.Before(start) {
		return false
	}
	if !end.IsZero() && t.After(end) {
		return false
	}
	return true
}

// CalculateStatistics computes statistics for the entries within the given
// date range. Days are calendar days in loc. The per-day average needs a
// bounded range and is zero otherwise.
func CalculateStatistics(actions journal.Collection, start, end time.Time, loc *time.Location) Statistics {
	stats := Statistics{}

	days := make(map[time.Time]struct{})
	for _, a := range actions {
		active := false
		for _, e := range a.Entries {
			if !inRange(e.Timestamp, start, end) {
				continue
			}
			active = true
			stats.EntryCount++
			if e.HasImage() {
				stats.ImageCount++
			}
			days[timeline.DayOf(e.Timestamp, loc)] = struct{}{}
		}
		if active {
			stats.ActiveActions++
		}
	}
	stats.DaysWithEntries = len(days)

	if !start.IsZero() && !end.IsZero() && !end.Before(start) {
		totalDays := int(end.Sub(start).Hours()/24) + 1
		stats.AverageEntriesPerDay = float64(stats.EntryCount) / float64(totalDays)
	}

	return stats
}

// CalculateActionBreakdown returns one row per action with entries in the
// range, sorted by entry count descending, then title.
func CalculateActionBreakdown(actions journal.Collection, start, end time.Time) []ActionBreakdown {
	breakdowns := []ActionBreakdown{}

	for _, a := range actions {
		b := ActionBreakdown{ActionID: a.ID, Title: a.Title}
		for _, e := range a.Entries {
			if !inRange(e.Timestamp, start, end) {
				continue
			}
			b.EntryCount++
			if e.HasImage() {
				b.ImageCount++
			}
			if e.Timestamp.After(b.LastEntry) {
				b.LastEntry = e.Timestamp
			}
		}
		if b.EntryCount > 0 {
			breakdowns = append(breakdowns, b)
		}
	}

	sort.SliceStable(breakdowns, func(i, j int) bool {
		if breakdowns[i].EntryCount != breakdowns[j].EntryCount {
			return breakdowns[i].EntryCount > breakdowns[j].EntryCount
		}
		return strings.ToLower(breakdowns[i].Title) < strings.ToLower(breakdowns[j].Title)
	})

	return breakdowns
}

// CurrentStreak counts consecutive calendar days with at least one entry,
// ending today. A streak whose last day is yesterday is still current.
func CurrentStreak(actions journal.Collection, now time.Time, loc *time.Location) int {
	days := make(map[time.Time]struct{})
	for _, a := range actions {
		for _, e := range a.Entries {
			days[timeline.DayOf(e.Timestamp, loc)] = struct{}{}
		}
	}

	day := timeline.DayOf(now, loc)
	if _, ok := days[day]; !ok {
		day = day.AddDate(0, 0, -1)
	}

	streak := 0
	for {
		if _, ok := days[day]; !ok {
			return streak
		}
		streak++
		day = day.AddDate(0, 0, -1)
	}
}

// LastNDays returns the range covering the last n calendar days, today
// included.
func LastNDays(now time.Time, n int, loc *time.Location) (time.Time, time.Time) {
	today := timeline.DayOf(now, loc)
	return today.AddDate(0, 0, -(n - 1)), timeline.EndOfDay(today)
}

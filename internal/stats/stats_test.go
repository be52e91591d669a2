package stats

import (
	"testing"
	"time"

	"github.com/xolan/lookback/internal/journal"
)

// Helper function to create test times with specific dates
func makeTime(year int, month time.Month, day, hour, min int) time.Time {
	return time.Date(year, month, day, hour, min, 0, 0, time.UTC)
}

func makeEntry(id string, timestamp time.Time, withImage bool) journal.Entry {
	e := journal.Entry{ID: id, Timestamp: timestamp, Description: "entry " + id}
	if withImage {
		e.ImageData = []byte{0xff, 0xd8}
	}
	return e
}

func testActions() journal.Collection {
	return journal.Collection{
		{
			ID:    "a1",
			Title: "Running",
			Entries: []journal.Entry{
				makeEntry("e1", makeTime(2024, time.January, 15, 7, 0), false),
				makeEntry("e2", makeTime(2024, time.January, 16, 7, 0), true),
				makeEntry("e3", makeTime(2024, time.January, 16, 19, 0), false),
			},
		},
		{
			ID:    "a2",
			Title: "Books",
			Entries: []journal.Entry{
				makeEntry("e4", makeTime(2024, time.January, 10, 21, 0), true),
			},
		},
		{ID: "a3", Title: "Empty", Entries: []journal.Entry{}},
	}
}

func TestCalculateStatistics_Empty(t *testing.T) {
	start := makeTime(2024, time.January, 15, 0, 0)
	end := makeTime(2024, time.January, 21, 23, 59)

	stats := CalculateStatistics(journal.Collection{}, start, end, time.UTC)

	if stats != (Statistics{}) {
		t.Errorf("CalculateStatistics(empty) = %+v, expected zero value", stats)
	}
}

func TestCalculateStatistics_Range(t *testing.T) {
	start := makeTime(2024, time.January, 15, 0, 0)
	end := makeTime(2024, time.January, 21, 23, 59)

	stats := CalculateStatistics(testActions(), start, end, time.UTC)

	if stats.EntryCount != 3 {
		t.Errorf("EntryCount = %d, expected 3", stats.EntryCount)
	}
	if stats.ImageCount != 1 {
		t.Errorf("ImageCount = %d, expected 1", stats.ImageCount)
	}
	if stats.ActiveActions != 1 {
		t.Errorf("ActiveActions = %d, expected 1", stats.ActiveActions)
	}
	if stats.DaysWithEntries != 2 {
		t.Errorf("DaysWithEntries = %d, expected 2", stats.DaysWithEntries)
	}

	// 7 days in range (Jan 15-21), 3 entries
	expectedAvg := 3.0 / 7.0
	if stats.AverageEntriesPerDay != expectedAvg {
		t.Errorf("AverageEntriesPerDay = %f, expected %f", stats.AverageEntriesPerDay, expectedAvg)
	}
}

func TestCalculateStatistics_Unbounded(t *testing.T) {
	stats := CalculateStatistics(testActions(), time.Time{}, time.Time{}, time.UTC)

	if stats.EntryCount != 4 {
		t.Errorf("EntryCount = %d, expected 4", stats.EntryCount)
	}
	if stats.ActiveActions != 2 {
		t.Errorf("ActiveActions = %d, expected 2", stats.ActiveActions)
	}
	if stats.DaysWithEntries != 3 {
		t.Errorf("DaysWithEntries = %d, expected 3", stats.DaysWithEntries)
	}
	if stats.AverageEntriesPerDay != 0 {
		t.Errorf("AverageEntriesPerDay = %f, expected 0 for an unbounded range", stats.AverageEntriesPerDay)
	}
}

func TestCalculateStatistics_DaysFollowLocation(t *testing.T) {
	// 23:30 and 00:30 UTC are one day apart in UTC but the same day in UTC-5.
	actions := journal.Collection{{
		ID: "a1",
		Entries: []journal.Entry{
			makeEntry("e1", makeTime(2024, time.March, 1, 23, 30), false),
			makeEntry("e2", makeTime(2024, time.March, 2, 0, 30), false),
		},
	}}
	est := time.FixedZone("EST", -5*3600)

	if got := CalculateStatistics(actions, time.Time{}, time.Time{}, time.UTC).DaysWithEntries; got != 2 {
		t.Errorf("DaysWithEntries in UTC = %d, expected 2", got)
	}
	if got := CalculateStatistics(actions, time.Time{}, time.Time{}, est).DaysWithEntries; got != 1 {
		t.Errorf("DaysWithEntries in EST = %d, expected 1", got)
	}
}

func TestCalculateActionBreakdown(t *testing.T) {
	breakdowns := CalculateActionBreakdown(testActions(), time.Time{}, time.Time{})

	if len(breakdowns) != 2 {
		t.Fatalf("len(breakdowns) = %d, expected 2 (empty action skipped)", len(breakdowns))
	}
	if breakdowns[0].Title != "Running" || breakdowns[0].EntryCount != 3 {
		t.Errorf("breakdowns[0] = %+v, expected Running with 3 entries", breakdowns[0])
	}
	if !breakdowns[0].LastEntry.Equal(makeTime(2024, time.January, 16, 19, 0)) {
		t.Errorf("breakdowns[0].LastEntry = %v", breakdowns[0].LastEntry)
	}
	if breakdowns[1].Title != "Books" || breakdowns[1].ImageCount != 1 {
		t.Errorf("breakdowns[1] = %+v, expected Books with 1 image", breakdowns[1])
	}
}

func TestCalculateActionBreakdown_TiesSortByTitle(t *testing.T) {
	ts := makeTime(2024, time.January, 1, 12, 0)
	actions := journal.Collection{
		{ID: "a1", Title: "zebra", Entries: []journal.Entry{makeEntry("e1", ts, false)}},
		{ID: "a2", Title: "Apple", Entries: []journal.Entry{makeEntry("e2", ts, false)}},
	}

	breakdowns := CalculateActionBreakdown(actions, time.Time{}, time.Time{})
	if breakdowns[0].Title != "Apple" || breakdowns[1].Title != "zebra" {
		t.Errorf("tie order = %q, %q; expected Apple, zebra", breakdowns[0].Title, breakdowns[1].Title)
	}
}

func TestCalculateActionBreakdown_NoEntries(t *testing.T) {
	breakdowns := CalculateActionBreakdown(nil, time.Time{}, time.Time{})
	if breakdowns == nil || len(breakdowns) != 0 {
		t.Errorf("CalculateActionBreakdown(nil) = %v, expected empty slice", breakdowns)
	}
}

func TestCurrentStreak(t *testing.T) {
	actions := testActions()

	tests := []struct {
		name     string
		now      time.Time
		expected int
	}{
		{"last entry today", makeTime(2024, time.January, 16, 22, 0), 2},
		{"last entry yesterday", makeTime(2024, time.January, 17, 9, 0), 2},
		{"streak broken", makeTime(2024, time.January, 19, 9, 0), 0},
		{"single day", makeTime(2024, time.January, 10, 23, 0), 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CurrentStreak(actions, tt.now, time.UTC); got != tt.expected {
				t.Errorf("CurrentStreak() = %d, expected %d", got, tt.expected)
			}
		})
	}
}

func TestLastNDays(t *testing.T) {
	now := makeTime(2024, time.January, 21, 15, 4)

	start, end := LastNDays(now, 7, time.UTC)

	if !start.Equal(makeTime(2024, time.January, 15, 0, 0)) {
		t.Errorf("start = %v, expected Jan 15 00:00", start)
	}
	expectedEnd := makeTime(2024, time.January, 22, 0, 0).Add(-time.Nanosecond)
	if !end.Equal(expectedEnd) {
		t.Errorf("end = %v, expected %v", end, expectedEnd)
	}
}

package store

import (
	"time"

	"github.com/google/uuid"
	"github.com/xolan/lookback/internal/journal"
)

// SampleActions returns the two illustrative actions written on first run,
// with entry timestamps relative to now. ids supplies identifiers; repeats
// are skipped so the result always validates.
func SampleActions(now time.Time, ids func() string) journal.Collection {
	used := make(map[string]struct{})
	id := func() string {
		for i := 0; ; i++ {
			v := ids()
			if i >= maxIDAttempts {
				v = uuid.NewString()
			}
			if _, dup := used[v]; v != "" && !dup {
				used[v] = struct{}{}
				return v
			}
		}
	}

	return journal.Collection{
		{
			ID:          id(),
			Title:       "Completed a Big Task",
			Description: "Working on the core features",
			Entries: []journal.Entry{
				{ID: id(), Timestamp: now.Add(-24 * time.Hour), Description: "Finished coding a core feature."},
				{ID: id(), Timestamp: now.Add(-1 * time.Hour), Description: "Reviewed and merged pull requests."},
			},
		},
		{
			ID:          id(),
			Title:       "Met an Old Friend",
			Description: "Coffee meetup",
			Entries: []journal.Entry{
				{ID: id(), Timestamp: now.Add(-48 * time.Hour), Description: "Had coffee and caught up on life."},
			},
		},
	}
}

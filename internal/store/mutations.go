package store

import (
	"time"

	"github.com/xolan/lookback/internal/journal"
	"go.uber.org/zap"
)

// AddAction appends a new action with the given title, an empty
// description and no entries, then saves. Empty titles are accepted.
func (s *Store) AddAction(title string) journal.Action {
	s.mu.Lock()
	a := journal.Action{
		ID:      s.freshID(),
		Title:   title,
		Entries: []journal.Entry{},
	}
	s.actions = append(s.actions, a)
	saveErr := s.saveLocked()
	s.mu.Unlock()

	s.log.Debug("added action", zap.String("action_id", a.ID))
	s.publish(Event{Type: EventActionAdded, ActionID: a.ID, SaveErr: saveErr})
	return a.Clone()
}

// AddEntry appends a new entry to the action with actionID and saves.
// If no such action exists nothing changes and ok is false.
func (s *Store) AddEntry(actionID, description string, date time.Time, imageData []byte) (entry journal.Entry, ok bool) {
	s.mu.Lock()
	i := s.actions.FindAction(actionID)
	if i < 0 {
		s.mu.Unlock()
		s.log.Debug("add entry: action not found", zap.String("action_id", actionID))
		return journal.Entry{}, false
	}

	e := journal.Entry{
		ID:          s.freshID(),
		Timestamp:   date.Round(0),
		Description: description,
		ImageData:   journal.CopyBytes(imageData),
	}
	s.actions[i].Entries = append(s.actions[i].Entries, e)
	saveErr := s.saveLocked()
	s.mu.Unlock()

	s.publish(Event{Type: EventEntryAdded, ActionID: actionID, EntryID: e.ID, SaveErr: saveErr})
	return e.Clone(), true
}

// UpdateEntryImage replaces the image of the entry with entryID; nil or
// empty imageData clears it. Entry ids are unique, so only the first match
// is touched. Returns false when no entry has that id.
func (s *Store) UpdateEntryImage(entryID string, imageData []byte) bool {
	s.mu.Lock()
	ai, ei := s.actions.FindEntry(entryID)
	if ai < 0 {
		s.mu.Unlock()
		s.log.Debug("update image: entry not found", zap.String("entry_id", entryID))
		return false
	}

	s.actions[ai].Entries[ei].ImageData = journal.CopyBytes(imageData)
	actionID := s.actions[ai].ID
	saveErr := s.saveLocked()
	s.mu.Unlock()

	s.publish(Event{Type: EventEntryImageUpdated, ActionID: actionID, EntryID: entryID, SaveErr: saveErr})
	return true
}

// UpdateActionDescription replaces the description of the action with
// actionID and saves. Returns false when no action has that id.
func (s *Store) UpdateActionDescription(actionID, description string) bool {
	s.mu.Lock()
	i := s.actions.FindAction(actionID)
	if i < 0 {
		s.mu.Unlock()
		s.log.Debug("update description: action not found", zap.String("action_id", actionID))
		return false
	}

	s.actions[i].Description = description
	saveErr := s.saveLocked()
	s.mu.Unlock()

	s.publish(Event{Type: EventActionDescriptionUpdated, ActionID: actionID, SaveErr: saveErr})
	return true
}

// Actions returns a deep copy of the collection in creation order.
func (s *Store) Actions() journal.Collection {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.actions.Clone()
}

// Action returns a copy of the action with id.
func (s *Store) Action(id string) (journal.Action, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.actions.FindAction(id)
	if i < 0 {
		return journal.Action{}, false
	}
	return s.actions[i].Clone(), true
}

// Entry returns a copy of the entry with id and the id of its action.
func (s *Store) Entry(id string) (journal.Entry, string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	ai, ei := s.actions.FindEntry(id)
	if ai < 0 {
		return journal.Entry{}, "", false
	}
	return s.actions[ai].Entries[ei].Clone(), s.actions[ai].ID, true
}

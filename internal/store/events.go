package store

// EventType identifies what changed.
type EventType int

const (
	// EventLoaded fires after the collection was read from the backing file
	EventLoaded EventType = iota
	// EventSeeded fires after a failed load replaced the collection with samples
	EventSeeded
	EventActionAdded
	EventEntryAdded
	EventEntryImageUpdated
	EventActionDescriptionUpdated
)

var eventNames = map[EventType]string{
	EventLoaded:                   "loaded",
	EventSeeded:                   "seeded",
	EventActionAdded:              "action_added",
	EventEntryAdded:               "entry_added",
	EventEntryImageUpdated:        "entry_image_updated",
	EventActionDescriptionUpdated: "action_description_updated",
}

func (t EventType) String() string {
	if name, ok := eventNames[t]; ok {
		return name
	}
	return "unknown"
}

// Event is delivered to subscribers after the collection changed.
type Event struct {
	Type     EventType
	ActionID string
	EntryID  string
	// SaveErr is the result of persisting the change; the in-memory change
	// stands even when it is non-nil.
	SaveErr error
}

// Subscribe registers fn to be called after every load, seed and
// successful mutation. Callbacks run synchronously on the mutating
// goroutine, after the store lock is released, in subscription order.
// The returned function removes the subscription.
func (s *Store) Subscribe(fn func(Event)) (unsubscribe func()) {
	s.subMu.Lock()
	id := s.nextSubID
	s.nextSubID++
	s.subs[id] = fn
	s.subOrder = append(s.subOrder, id)
	s.subMu.Unlock()

	return func() {
		s.subMu.Lock()
		defer s.subMu.Unlock()
		if _, ok := s.subs[id]; !ok {
			return
		}
		delete(s.subs, id)
		for i, v := range s.subOrder {
			if v == id {
				s.subOrder = append(s.subOrder[:i], s.subOrder[i+1:]...)
				break
			}
		}
	}
}

func (s *Store) publish(ev Event) {
	s.subMu.Lock()
	fns := make([]func(Event), 0, len(s.subOrder))
	for _, id := range s.subOrder {
		fns = append(fns, s.subs[id])
	}
	s.subMu.Unlock()

	for _, fn := range fns {
		fn(ev)
	}
}

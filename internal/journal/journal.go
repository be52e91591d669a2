// Package journal defines the Action and Entry entities and the encoding of
// the Action collection held in the backing file.
package journal

import "time"

// Entry is one dated observation belonging to an Action.
type Entry struct {
	ID          string    `json:"id"`
	Timestamp   time.Time `json:"timestamp"`
	Description string    `json:"description"`
	// ImageData holds compressed image bytes. Encoded as base64, omitted when empty.
	ImageData []byte `json:"imageData,omitempty"`
}

// HasImage reports whether the entry carries image data.
func (e Entry) HasImage() bool {
	return len(e.ImageData) > 0
}

// Action is a named activity that aggregates entries in insertion order.
type Action struct {
	ID          string  `json:"id"`
	Title       string  `json:"title"`
	Description string  `json:"description"`
	Entries     []Entry `json:"entries"`
}

// Collection is the ordered sequence of actions, in creation order.
type Collection []Action

// FindAction returns the index of the action with the given id, or -1.
func (c Collection) FindAction(id string) int {
	for i := range c {
		if c[i].ID == id {
			return i
		}
	}
	return -1
}

// FindEntry returns the action and entry indexes of the first entry with
// the given id, or (-1, -1).
func (c Collection) FindEntry(id string) (int, int) {
	for i := range c {
		for j := range c[i].Entries {
			if c[i].Entries[j].ID == id {
				return i, j
			}
		}
	}
	return -1, -1
}

// HasID reports whether any action or entry already uses id.
func (c Collection) HasID(id string) bool {
	if c.FindAction(id) >= 0 {
		return true
	}
	i, _ := c.FindEntry(id)
	return i >= 0
}

// EntryCount returns the number of entries across all actions.
func (c Collection) EntryCount() int {
	n := 0
	for _, a := range c {
		n += len(a.Entries)
	}
	return n
}

// Clone returns a deep copy, including image bytes.
func (c Collection) Clone() Collection {
	if c == nil {
		return Collection{}
	}
	out := make(Collection, len(c))
	for i, a := range c {
		out[i] = a.Clone()
	}
	return out
}

// Clone returns a deep copy of the action.
func (a Action) Clone() Action {
	cp := a
	cp.Entries = make([]Entry, len(a.Entries))
	for i, e := range a.Entries {
		cp.Entries[i] = e.Clone()
	}
	return cp
}

// Clone returns a copy of the entry that does not share image bytes.
func (e Entry) Clone() Entry {
	cp := e
	cp.ImageData = CopyBytes(e.ImageData)
	return cp
}

// CopyBytes copies b. Empty input yields nil so that "no image" has a
// single representation.
func CopyBytes(b []byte) []byte {
	if len(b) == 0 {
		return nil
	}
	out := make([]byte, len(b))
	copy(out, b)
	return out
}

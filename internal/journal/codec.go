package journal

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
)

// Validation errors
var (
	ErrEmptyID     = errors.New("empty id")
	ErrDuplicateID = errors.New("duplicate id")
)

// Encode serializes the collection as indented JSON. c is not modified.
func Encode(c Collection) ([]byte, error) {
	// normalize writes through slices, so entries get their own backing arrays
	cp := make(Collection, len(c))
	copy(cp, c)
	for i := range cp {
		if cp[i].Entries != nil {
			cp[i].Entries = append([]Entry(nil), cp[i].Entries...)
		}
	}

	data, err := json.MarshalIndent(normalize(cp), "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to encode actions: %w", err)
	}
	return append(data, '\n'), nil
}

// Decode parses a JSON array of actions. Trailing data after the array is
// rejected so that a half-overwritten file is not mistaken for a valid one.
func Decode(data []byte) (Collection, error) {
	dec := json.NewDecoder(bytes.NewReader(data))

	var c Collection
	if err := dec.Decode(&c); err != nil {
		return nil, fmt.Errorf("failed to decode actions: %w", err)
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("failed to decode actions: unexpected data after collection")
	}

	return normalize(c), nil
}

// normalize replaces nil slices with empty ones and drops empty image data,
// so that encode(decode(x)) is byte-stable.
func normalize(c Collection) Collection {
	if c == nil {
		return Collection{}
	}
	for i := range c {
		if c[i].Entries == nil {
			c[i].Entries = []Entry{}
		}
		for j := range c[i].Entries {
			if len(c[i].Entries[j].ImageData) == 0 {
				c[i].Entries[j].ImageData = nil
			}
		}
	}
	return c
}

// Validate checks that every action and entry has a non-empty id and that
// ids are unique across the whole collection.
func (c Collection) Validate() error {
	seen := make(map[string]struct{}, len(c)+c.EntryCount())
	check := func(kind, id string) error {
		if id == "" {
			return fmt.Errorf("%s: %w", kind, ErrEmptyID)
		}
		if _, ok := seen[id]; ok {
			return fmt.Errorf("%s %s: %w", kind, id, ErrDuplicateID)
		}
		seen[id] = struct{}{}
		return nil
	}

	for _, a := range c {
		if err := check("action", a.ID); err != nil {
			return err
		}
		for _, e := range a.Entries {
			if err := check("entry", e.ID); err != nil {
				return err
			}
		}
	}
	return nil
}

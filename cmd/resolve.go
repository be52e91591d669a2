package cmd

import (
	"errors"
	"fmt"
	"strings"

	"github.com/xolan/lookback/internal/journal"
)

// Action reference errors
var (
	ErrActionNotFound  = errors.New("no action matches")
	ErrAmbiguousAction = errors.New("more than one action matches")
)

// resolveAction finds the action ref names: an exact id first, then a
// unique id prefix, then a case-insensitive exact title. Several actions
// sharing a title or prefix is an ambiguity error.
func resolveAction(actions journal.Collection, ref string) (journal.Action, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return journal.Action{}, fmt.Errorf("%w an empty reference", ErrActionNotFound)
	}

	if i := actions.FindAction(ref); i >= 0 {
		return actions[i], nil
	}

	var byPrefix []journal.Action
	for _, a := range actions {
		if strings.HasPrefix(a.ID, ref) {
			byPrefix = append(byPrefix, a)
		}
	}
	if len(byPrefix) == 1 {
		return byPrefix[0], nil
	}

	var byTitle []journal.Action
	for _, a := range actions {
		if strings.EqualFold(a.Title, ref) {
			byTitle = append(byTitle, a)
		}
	}
	switch {
	case len(byTitle) == 1:
		return byTitle[0], nil
	case len(byTitle) > 1:
		return journal.Action{}, fmt.Errorf("%w %q: %s", ErrAmbiguousAction, ref, candidateIDs(byTitle))
	case len(byPrefix) > 1:
		return journal.Action{}, fmt.Errorf("%w %q: %s", ErrAmbiguousAction, ref, candidateIDs(byPrefix))
	}
	return journal.Action{}, fmt.Errorf("%w %q", ErrActionNotFound, ref)
}

// resolveEntry finds an entry by exact id or unique id prefix.
func resolveEntry(actions journal.Collection, ref string) (journal.Entry, journal.Action, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return journal.Entry{}, journal.Action{}, errors.New("no entry matches an empty reference")
	}
	if ai, ei := actions.FindEntry(ref); ai >= 0 {
		return actions[ai].Entries[ei], actions[ai], nil
	}

	var (
		found journal.Entry
		owner journal.Action
		count int
	)
	for _, a := range actions {
		for _, e := range a.Entries {
			if strings.HasPrefix(e.ID, ref) {
				found, owner = e, a
				count++
			}
		}
	}
	switch count {
	case 0:
		return journal.Entry{}, journal.Action{}, fmt.Errorf("no entry matches %q", ref)
	case 1:
		return found, owner, nil
	}
	return journal.Entry{}, journal.Action{}, fmt.Errorf("%d entries match %q, use a longer id", count, ref)
}

func candidateIDs(actions []journal.Action) string {
	ids := make([]string, len(actions))
	for i, a := range actions {
		ids[i] = shortID(a.ID)
	}
	return strings.Join(ids, ", ")
}

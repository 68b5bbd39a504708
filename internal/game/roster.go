package game

import (
	"fmt"
	"slices"
	"strings"
)

type rosterEntry struct {
	id   string
	name string
}

// Roster is the ordered set of connected participants. Insertion order
// defines the drawing rotation. Not safe for concurrent use; the session
// lock guards it.
type Roster struct {
	entries []rosterEntry
}

func NewRoster() *Roster {
	return &Roster{entries: make([]rosterEntry, 0)}
}

// FallbackName derives a display name from a connection id when the
// participant supplied none. Pure function of the id.
func FallbackName(id string) string {
	short := id
	if len(short) > 8 {
		short = short[:8]
	}
	return fmt.Sprintf("player-%s", short)
}

// Add registers a participant and returns the display name assigned to
// them. Duplicate display names are tolerated; scores then accumulate on
// the shared name.
func (r *Roster) Add(id, requestedName string) string {
	name := strings.TrimSpace(requestedName)
	if name == "" {
		name = FallbackName(id)
	}
	r.entries = append(r.entries, rosterEntry{id: id, name: name})
	return name
}

// Remove drops the participant if present, no-op otherwise.
func (r *Roster) Remove(id string) {
	r.entries = slices.DeleteFunc(r.entries, func(e rosterEntry) bool {
		return e.id == id
	})
}

// Has reports whether id is currently connected.
func (r *Roster) Has(id string) bool {
	return slices.ContainsFunc(r.entries, func(e rosterEntry) bool {
		return e.id == id
	})
}

// Name returns the display name for id, or "" if absent.
func (r *Roster) Name(id string) string {
	for _, e := range r.entries {
		if e.id == id {
			return e.name
		}
	}
	return ""
}

// NextDrawer returns the participant immediately following afterID in the
// current insertion order, wrapping to the first. When afterID is absent
// (or not found) the first participant is returned. ok is false only when
// the roster is empty. The rotation is recomputed against the current
// roster on every call, so departures reshuffle it implicitly.
func (r *Roster) NextDrawer(afterID string) (string, bool) {
	if len(r.entries) == 0 {
		return "", false
	}
	for i, e := range r.entries {
		if e.id == afterID {
			return r.entries[(i+1)%len(r.entries)].id, true
		}
	}
	return r.entries[0].id, true
}

func (r *Roster) Size() int {
	return len(r.entries)
}

// Names returns display names in rotation order.
func (r *Roster) Names() []string {
	names := make([]string, 0, len(r.entries))
	for _, e := range r.entries {
		names = append(names, e.name)
	}
	return names
}

package game

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRosterAddAssignsTrimmedName(t *testing.T) {
	r := NewRoster()

	assert.Equal(t, "alice", r.Add("id-1", "  alice  "))
	assert.Equal(t, []string{"alice"}, r.Names())
}

func TestRosterAddFallbackName(t *testing.T) {
	r := NewRoster()

	name := r.Add("abcdef1234567890", "   ")
	assert.Equal(t, "player-abcdef12", name)

	// Pure function of the id: same id, same fallback.
	assert.Equal(t, "player-abcdef12", FallbackName("abcdef1234567890"))
	assert.Equal(t, "player-xy", FallbackName("xy"))
}

func TestRosterToleratesDuplicateNames(t *testing.T) {
	r := NewRoster()

	assert.Equal(t, "bob", r.Add("id-1", "bob"))
	assert.Equal(t, "bob", r.Add("id-2", "bob"))
	assert.Equal(t, 2, r.Size())
}

func TestRosterRemoveIsIdempotent(t *testing.T) {
	r := NewRoster()
	r.Add("id-1", "alice")

	r.Remove("id-1")
	r.Remove("id-1")
	r.Remove("never-joined")
	assert.Equal(t, 0, r.Size())
}

func TestNextDrawerRotation(t *testing.T) {
	r := NewRoster()
	r.Add("a", "A")
	r.Add("b", "B")
	r.Add("c", "C")

	next, ok := r.NextDrawer("a")
	require.True(t, ok)
	assert.Equal(t, "b", next)

	next, ok = r.NextDrawer("c")
	require.True(t, ok)
	assert.Equal(t, "a", next, "rotation wraps to the first participant")

	next, ok = r.NextDrawer("")
	require.True(t, ok)
	assert.Equal(t, "a", next, "unknown afterID falls back to the first participant")
}

func TestNextDrawerEmptyRoster(t *testing.T) {
	r := NewRoster()

	_, ok := r.NextDrawer("a")
	assert.False(t, ok)
}

func TestNextDrawerSkipsDeparted(t *testing.T) {
	r := NewRoster()
	r.Add("a", "A")
	r.Add("b", "B")
	r.Add("c", "C")
	r.Remove("b")

	next, ok := r.NextDrawer("a")
	require.True(t, ok)
	assert.Equal(t, "c", next)
}

// Rotation safety under arbitrary join/leave sequences: NextDrawer never
// returns an absent id and never returns not-ok while non-empty.
func TestNextDrawerAlwaysReturnsMember(t *testing.T) {
	r := NewRoster()
	present := map[string]bool{}

	for i := 0; i < 50; i++ {
		id := fmt.Sprintf("id-%d", i)
		r.Add(id, fmt.Sprintf("p%d", i))
		present[id] = true

		if i%3 == 0 && i > 0 {
			victim := fmt.Sprintf("id-%d", i/2)
			r.Remove(victim)
			delete(present, victim)
		}

		for _, after := range []string{"", id, "id-0", "missing"} {
			next, ok := r.NextDrawer(after)
			require.True(t, ok, "roster is non-empty")
			require.True(t, present[next], "NextDrawer returned absent id %s", next)
		}
	}
}

package game

import (
	"slices"
	"strings"
)

// Board accumulates points per display name for the duration of a
// session. Entries survive disconnects within the session; Reset only
// runs at session end. Not safe for concurrent use; the session lock
// guards it.
type Board struct {
	points map[string]int

	// firstScored records the order in which names first earned a
	// positive award; it breaks leaderboard ties (earliest scorer first,
	// then name).
	firstScored map[string]int
	awardSeq    int
}

func NewBoard() *Board {
	return &Board{
		points:      make(map[string]int),
		firstScored: make(map[string]int),
	}
}

// Award adds delta points to name, creating the entry at zero first if
// absent. Negative deltas are ignored; there are no penalties.
func (b *Board) Award(name string, delta int) {
	if delta < 0 {
		return
	}
	if _, ok := b.points[name]; !ok {
		b.points[name] = 0
	}
	if delta == 0 {
		return
	}
	if _, ok := b.firstScored[name]; !ok {
		b.awardSeq++
		b.firstScored[name] = b.awardSeq
	}
	b.points[name] += delta
}

// Snapshot returns a copy of the current name -> points mapping.
func (b *Board) Snapshot() map[string]int {
	out := make(map[string]int, len(b.points))
	for name, pts := range b.points {
		out[name] = pts
	}
	return out
}

// Ranked returns entries sorted by points descending. Ties break by who
// scored first, then by name, so the order is fully deterministic.
func (b *Board) Ranked() []ScoreRow {
	rows := make([]ScoreRow, 0, len(b.points))
	for name, pts := range b.points {
		rows = append(rows, ScoreRow{Name: name, Points: pts})
	}
	slices.SortFunc(rows, func(a, c ScoreRow) int {
		if a.Points != c.Points {
			return c.Points - a.Points
		}
		sa, sc := b.scoredAt(a.Name), b.scoredAt(c.Name)
		if sa != sc {
			return sa - sc
		}
		return strings.Compare(a.Name, c.Name)
	})
	return rows
}

func (b *Board) scoredAt(name string) int {
	if seq, ok := b.firstScored[name]; ok {
		return seq
	}
	return int(^uint(0) >> 1)
}

// Reset clears every entry, readying the board for the next session.
func (b *Board) Reset() {
	b.points = make(map[string]int)
	b.firstScored = make(map[string]int)
	b.awardSeq = 0
}

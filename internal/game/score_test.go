package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBoardAwardCreatesEntryAtZero(t *testing.T) {
	b := NewBoard()

	b.Award("alice", 0)
	assert.Equal(t, map[string]int{"alice": 0}, b.Snapshot())

	b.Award("alice", 10)
	assert.Equal(t, map[string]int{"alice": 10}, b.Snapshot())
}

func TestBoardIgnoresNegativeDelta(t *testing.T) {
	b := NewBoard()
	b.Award("alice", 10)

	b.Award("alice", -5)
	assert.Equal(t, 10, b.Snapshot()["alice"])
}

func TestBoardPointsAccumulate(t *testing.T) {
	b := NewBoard()
	b.Award("alice", 10)
	b.Award("alice", 5)

	assert.Equal(t, 15, b.Snapshot()["alice"])
}

func TestBoardRankedDescending(t *testing.T) {
	b := NewBoard()
	b.Award("A", 15)
	b.Award("B", 10)

	ranked := b.Ranked()
	require.Len(t, ranked, 2)
	assert.Equal(t, ScoreRow{Name: "A", Points: 15}, ranked[0])
	assert.Equal(t, ScoreRow{Name: "B", Points: 10}, ranked[1])
}

func TestBoardRankedTieBreaksByEarliestScorer(t *testing.T) {
	b := NewBoard()
	b.Award("late", 0)
	b.Award("first", 10)
	b.Award("late", 10)

	ranked := b.Ranked()
	require.Len(t, ranked, 2)
	assert.Equal(t, "first", ranked[0].Name)
	assert.Equal(t, "late", ranked[1].Name)
}

func TestBoardRankedZeroScoresOrderedByName(t *testing.T) {
	b := NewBoard()
	b.Award("zeta", 0)
	b.Award("alpha", 0)

	ranked := b.Ranked()
	require.Len(t, ranked, 2)
	assert.Equal(t, "alpha", ranked[0].Name)
	assert.Equal(t, "zeta", ranked[1].Name)
}

func TestBoardReset(t *testing.T) {
	b := NewBoard()
	b.Award("alice", 10)

	b.Reset()
	assert.Empty(t, b.Snapshot())

	// Tie-break bookkeeping resets too.
	b.Award("bob", 5)
	b.Award("alice", 5)
	ranked := b.Ranked()
	require.Len(t, ranked, 2)
	assert.Equal(t, "bob", ranked[0].Name)
}

func TestBoardSnapshotIsACopy(t *testing.T) {
	b := NewBoard()
	b.Award("alice", 10)

	snap := b.Snapshot()
	snap["alice"] = 999
	assert.Equal(t, 10, b.Snapshot()["alice"])
}

package game

import (
	"math/rand"
	"slices"
	"strings"
)

// defaultWords backs the pool when no external word source is
// configured.
var defaultWords = []string{
	"apple", "banana", "bicycle", "bridge", "butterfly",
	"cactus", "camera", "castle", "cat", "cloud",
	"dolphin", "dragon", "drum", "elephant", "fire",
	"flower", "guitar", "hammer", "house", "island",
	"kite", "ladder", "lighthouse", "moon", "mountain",
	"mushroom", "ocean", "penguin", "piano", "pizza",
	"robot", "rocket", "sandwich", "snowman", "spider",
	"sun", "telescope", "train", "umbrella", "whale",
}

// Pool is a fixed, non-empty list of candidate words with uniform random
// selection. Repeats across rounds are allowed.
type Pool struct {
	words []string
	rnd   *rand.Rand
}

// NewPool builds a pool from words, dropping blank entries. An empty
// result falls back to the built-in list, so a pool is never empty.
func NewPool(words []string, rnd *rand.Rand) *Pool {
	cleaned := make([]string, 0, len(words))
	for _, w := range words {
		if w = strings.TrimSpace(w); w != "" {
			cleaned = append(cleaned, w)
		}
	}
	if len(cleaned) == 0 {
		cleaned = append(cleaned, defaultWords...)
	}
	return &Pool{words: cleaned, rnd: rnd}
}

// Pick selects a word uniformly at random.
func (p *Pool) Pick() string {
	return p.words[p.rnd.Intn(len(p.words))]
}

// Words returns the configured list.
func (p *Pool) Words() []string {
	return slices.Clone(p.words)
}

// Package pairing matches picture slots whose circle colors are close enough.
package pairing

import (
	"fmt"

	"asis-solvers/pkg/colorutil"

	"github.com/pkg/errors"
)

// DefaultTolerance is the exclusive per-channel distance under which two
// colors are considered the same.
const DefaultTolerance = 50

// Pair is two matched slots, First < Second.
type Pair struct {
	First  int
	Second int
}

func (p Pair) String() string {
	return fmt.Sprintf("%d+%d", p.First, p.Second)
}

// Greedy pairs the non-zero entries of colors. For each index i in ascending
// order it takes the first later index j whose color is close enough, zeroes
// both entries and emits the pair. Zero entries are unavailable: not yet
// known or already consumed.
//
// The result is first-found, not a globally optimal matching.
func Greedy(colors []colorutil.ARGB, tolerance int) []Pair {
	var pairs []Pair
	for i := range colors {
		if colors[i] == 0 {
			continue
		}
		for j := i + 1; j < len(colors); j++ {
			if colors[j] == 0 {
				continue
			}
			if colorutil.CloseEnough(colors[i], colors[j], tolerance) {
				pairs = append(pairs, Pair{First: i, Second: j})
				colors[i], colors[j] = 0, 0
				break
			}
		}
	}
	return pairs
}

// Matcher accumulates colors as they arrive, in any slot order, and emits
// pairs as soon as both halves are known. It is not safe for concurrent use.
type Matcher struct {
	colors    []colorutil.ARGB
	arrived   []bool
	tolerance int
	pairs     []Pair
}

// NewMatcher creates a matcher for the given number of slots.
func NewMatcher(slots, tolerance int) *Matcher {
	return &Matcher{
		colors:    make([]colorutil.ARGB, slots),
		arrived:   make([]bool, slots),
		tolerance: tolerance,
	}
}

// Add records the color of a slot and returns the pairs that became
// available. A slot can only be added once; a zero color is rejected since it
// would read as consumed.
func (m *Matcher) Add(slot int, c colorutil.ARGB) ([]Pair, error) {
	if slot < 0 || slot >= len(m.colors) {
		return nil, errors.Errorf("slot %d out of range [0, %d)", slot, len(m.colors))
	}
	if m.arrived[slot] {
		return nil, errors.Errorf("slot %d added twice", slot)
	}
	if c == 0 {
		return nil, errors.Errorf("slot %d has no color", slot)
	}
	m.arrived[slot] = true
	m.colors[slot] = c
	pairs := Greedy(m.colors, m.tolerance)
	m.pairs = append(m.pairs, pairs...)
	return pairs, nil
}

// Pairs returns every pair emitted so far.
func (m *Matcher) Pairs() []Pair {
	return m.pairs
}

// Complete reports whether every slot arrived and was paired.
func (m *Matcher) Complete() bool {
	return len(m.pairs)*2 == len(m.colors) && len(m.Unmatched()) == 0
}

// Unmatched returns the slots that arrived but have no partner, ascending.
func (m *Matcher) Unmatched() []int {
	var slots []int
	for i, c := range m.colors {
		if c != 0 {
			slots = append(slots, i)
		}
	}
	return slots
}

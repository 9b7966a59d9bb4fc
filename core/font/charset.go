package font

import (
	"sort"
	"strings"

	"github.com/emirpasic/gods/sets/linkedhashset"
)

// CharacterSet is a set of Unicode code-points, derived by de-duplicating
// input strings. Lookups are per code-point, independent of order. Iteration
// follows the order in which code-points were first added, which keeps
// subset output deterministic for a given input text.
type CharacterSet struct {
	runes *linkedhashset.Set
}

// NewCharacterSet creates a character set from the distinct code-points of
// text. Invalid UTF-8 sequences are added as U+FFFD.
func NewCharacterSet(text string) *CharacterSet {
	cs := &CharacterSet{runes: linkedhashset.New()}
	cs.AddString(text)
	return cs
}

// Add adds code-points to the set.
func (cs *CharacterSet) Add(runes ...rune) {
	for _, r := range runes {
		cs.runes.Add(r)
	}
}

// AddString adds the code-points of text to the set.
func (cs *CharacterSet) AddString(text string) {
	for _, r := range text {
		cs.runes.Add(r)
	}
}

// Contains returns true if code-point r is a member of the set.
func (cs *CharacterSet) Contains(r rune) bool {
	return cs.runes.Contains(r)
}

// Len returns the number of distinct code-points in the set.
func (cs *CharacterSet) Len() int {
	if cs == nil || cs.runes == nil {
		return 0
	}
	return cs.runes.Size()
}

// IsEmpty returns true if the set contains no code-points.
func (cs *CharacterSet) IsEmpty() bool {
	return cs.Len() == 0
}

// Each calls f for every code-point of the set, in first-seen order.
func (cs *CharacterSet) Each(f func(r rune)) {
	if cs.Len() == 0 {
		return
	}
	it := cs.runes.Iterator()
	for it.Next() {
		f(it.Value().(rune))
	}
}

// Runes returns the code-points of the set in first-seen order.
func (cs *CharacterSet) Runes() []rune {
	runes := make([]rune, 0, cs.Len())
	cs.Each(func(r rune) {
		runes = append(runes, r)
	})
	return runes
}

// Sorted returns the code-points of the set in ascending order.
func (cs *CharacterSet) Sorted() []rune {
	runes := cs.Runes()
	sort.Slice(runes, func(i, j int) bool { return runes[i] < runes[j] })
	return runes
}

// String returns the code-points of the set as a string, in first-seen order.
func (cs *CharacterSet) String() string {
	var b strings.Builder
	cs.Each(func(r rune) {
		b.WriteRune(r)
	})
	return b.String()
}

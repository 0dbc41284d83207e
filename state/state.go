// Package state implements the Earley item (State) and the bump arena
// it is allocated from. States are allocated in bulk and discarded in
// bulk, which is why they live in a dedicated arena rather than being
// ordinary heap values.
package state

import (
	"github.com/dhamidi/sppf/forest"
	"github.com/dhamidi/sppf/grammar"
)

// State is an Earley item: (nonterminal, production, dot, start-column,
// forest-node). Equality is over the first four fields only — the
// embedded forest node is not part of a state's identity, following the
// later of the two source revisions the spec notes disagreed on this
// (see the Open Question in spec.md §9).
//
// Next and NtNext are intra-parse links: Next threads a state onto its
// column's hash bin (a state waiting in a scan agenda is held in the
// parser's agenda slice, not linked through Next). NtNext
// threads a state onto its column's nt_index chain for the nonterminal
// at its dot.
type State struct {
	NT    int32
	Prod  *grammar.Production
	Dot   uint32
	Start uint32
	W     *forest.Node

	Next   *State
	NtNext *State
}

// Equal reports whether two states are the same Earley item, ignoring
// their embedded forest nodes.
func (s *State) Equal(other *State) bool {
	if s == other {
		return true
	}
	if s == nil || other == nil {
		return false
	}
	return s.NT == other.NT &&
		s.Prod == other.Prod &&
		s.Dot == other.Dot &&
		s.Start == other.Start
}

// Item returns the symbol code at the dot: 0 once the dot has reached
// the end of Prod.
func (s *State) Item() int32 {
	return s.Prod.ItemAt(s.Dot)
}

// Hash mixes the four fields Equal compares. It must not depend on W:
// Equal ignores the embedded forest node, so two states differing only
// in W have to land in the same hash bin to be recognized as duplicates.
func (s *State) Hash() uint32 {
	var pbits uint32
	if s.Prod != nil {
		pbits = uint32(ptrOf(s.Prod))
	}
	h := uint32(s.NT) ^ pbits ^ (s.Dot << 7) ^ (s.Start << 9)
	return h
}

// destroy releases the state's one reference on its embedded forest
// node. Called both by the arena (on discard/free-all) and is the only
// place a State's lifetime ends.
func (s *State) destroy() {
	s.W.Release()
	s.W = nil
}

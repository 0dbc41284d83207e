// Package column implements the Earley chart entry for one input
// position: a deduplicated set of states (hash-bin buckets), an index
// from "nonterminal expected at the dot" to waiting states, a per-column
// terminal-match cache, and the round-robin agenda enumerator the
// parser driver closes to a fixpoint.
package column

import (
	"math"

	"github.com/dhamidi/sppf/alloc"
	"github.com/dhamidi/sppf/state"
)

// NumBins is the hash-bin count states are distributed across within a
// column. Spec.md §3 suggests a prime such as 499 or 997.
const NumBins = 997

// SentinelToken marks the extra column after the last input token; it
// never matches anything.
const SentinelToken = math.MaxUint32

type bin struct {
	head, tail *state.State
	cursor     *state.State
}

// Column is the Earley chart entry for one input position.
type Column struct {
	Token uint32

	bins    [NumBins]bin
	ntIndex map[int32]*state.State

	matchCache []byte

	curBin int
	count  int
}

// New allocates an (empty, not-yet-started) column for the given token.
func New(token uint32) *Column {
	alloc.Inc(alloc.Column)
	return &Column{
		Token:   token,
		ntIndex: make(map[int32]*state.State),
	}
}

// StartParse allocates this column's match cache, sized to cover
// terminal ids 0..numTerminals inclusive (terminal ids are 1-based
// throughout this codebase, so a grammar's highest-numbered terminal
// equals numTerminals itself). The cache is allocated immediately before
// the column's own work begins and freed by StopParse right after, so
// memory for it is never held across columns that turn out not to need
// scanning.
func (c *Column) StartParse(numTerminals uint32) {
	c.matchCache = make([]byte, numTerminals+1)
}

// StopParse releases the match cache.
func (c *Column) StopParse() {
	c.matchCache = nil
}

// Close releases this column's own bookkeeping allocation. It does not
// touch the states inside it — the parser driver's cleanup pass destroys
// every state through the arena's FreeAll.
func (c *Column) Close() {
	alloc.Dec(alloc.Column)
}

// AddState inserts s into its hash bin unless an equal state (per
// state.State.Equal) is already present, in which case it reports
// false and the caller must arena-discard s. On a successful insert, if
// the symbol at s's dot is a nonterminal, s is also threaded onto that
// nonterminal's nt_index chain.
func (c *Column) AddState(s *state.State) bool {
	b := &c.bins[s.Hash()%NumBins]
	for cur := b.head; cur != nil; cur = cur.Next {
		if cur.Equal(s) {
			return false
		}
	}

	s.Next = nil
	if b.tail == nil {
		b.head = s
	} else {
		b.tail.Next = s
	}
	if b.cursor == nil {
		b.cursor = s
	}
	b.tail = s

	if item := s.Item(); item < 0 {
		s.NtNext = c.ntIndex[item]
		c.ntIndex[item] = s
	}
	c.count++
	return true
}

// HasStates reports whether any state has ever been added to this
// column. It is a cheap peek used only to detect the "chart is empty
// and nothing pending" recognition-failure condition; it does not
// interact with the agenda enumerator's cursors.
func (c *Column) HasStates() bool {
	return c.count > 0
}

// GetNtHead returns the head of the nt_index chain for the nonterminal
// code, or nil if no state in this column is waiting on it.
func (c *Column) GetNtHead(code int32) *state.State {
	return c.ntIndex[code]
}

// MatchFunc is the host-provided terminal-matching predicate: pure with
// respect to (handle, token, terminal) for the duration of one parse.
type MatchFunc func(handle uint32, token, terminal uint32) bool

// Matches reports whether this column's token matches terminal,
// consulting (and populating) the per-column cache. The sentinel column
// never matches anything and never calls match.
func (c *Column) Matches(handle uint32, terminal uint32, match MatchFunc) bool {
	if c.Token == SentinelToken {
		return false
	}
	cached := c.matchCache[terminal]
	if cached&0x80 != 0 {
		return cached&0x01 != 0
	}
	ok := match(handle, c.Token, terminal)
	v := byte(0x80)
	if ok {
		v |= 0x01
	}
	c.matchCache[terminal] = v
	return ok
}

// NextState is the Earley agenda enumerator. It returns the next state
// that has not yet been handed out this fixpoint, in an order where a
// state appended to a bin during enumeration becomes visible to a later
// call — because each bin keeps its own cursor into its (growing,
// tail-appended) list, independent of the other bins.
func (c *Column) NextState() *state.State {
	for i := 0; i < NumBins; i++ {
		idx := (c.curBin + i) % NumBins
		b := &c.bins[idx]
		if b.cursor != nil {
			s := b.cursor
			b.cursor = s.Next
			c.curBin = (idx + 1) % NumBins
			return s
		}
	}
	return nil
}

// ResetEnum rewinds the agenda enumerator to the start of every bin, so
// a fresh fixpoint computation sees every state again.
func (c *Column) ResetEnum() {
	for i := range c.bins {
		c.bins[i].cursor = c.bins[i].head
	}
	c.curBin = 0
}

// States calls fn for every state currently resident in the column, in
// bin order. Used by the parser's post-loop scan for a completed start
// state.
func (c *Column) States(fn func(*state.State)) {
	for i := range c.bins {
		for s := c.bins[i].head; s != nil; s = s.Next {
			fn(s)
		}
	}
}

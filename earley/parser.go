// Package earley implements the Earley-Scott recognizer and SPPF
// builder: the predictor/scanner/completer loop over a chart of
// columns, extended with forest-node construction (make_node), the H
// set for nullable completions, and the lifecycle of arena-allocated
// states. See Scott & Johnstone, "Recognition is not parsing — SPPF-
// style parsing from cubic recognisers".
package earley

import (
	"errors"
	"fmt"

	"github.com/dhamidi/sppf/alloc"
	"github.com/dhamidi/sppf/column"
	"github.com/dhamidi/sppf/forest"
	"github.com/dhamidi/sppf/grammar"
	"github.com/dhamidi/sppf/state"
)

// ErrInvalidArgument covers a nil grammar or matcher, a non-negative
// start nonterminal, or zero tokens passed to Parse.
var ErrInvalidArgument = errors.New("earley: invalid argument")

// ErrNoParse is returned when the input is not in the language of the
// grammar starting at the requested nonterminal. The caller should read
// the accompanying error-token index to see how far recognition got.
var ErrNoParse = errors.New("earley: no parse")

// Parser runs the Earley-Scott loop against one grammar. It holds no
// per-parse state itself, so one Parser (and the Grammar it wraps) may
// be shared across concurrently running parses.
type Parser struct {
	grammar *grammar.Grammar
	match   column.MatchFunc
}

// NewParser builds a parser bound to a read-only grammar and a
// host-supplied terminal-matching predicate.
func NewParser(g *grammar.Grammar, match column.MatchFunc) (*Parser, error) {
	if g == nil {
		return nil, fmt.Errorf("%w: nil grammar", ErrInvalidArgument)
	}
	if match == nil {
		return nil, fmt.Errorf("%w: nil match function", ErrInvalidArgument)
	}
	return &Parser{grammar: g, match: match}, nil
}

// EarleyParse parses the default token sequence 0..numTokens-1 starting
// at the grammar's root nonterminal, matching the core API's
// earley_parse entry point.
func (p *Parser) EarleyParse(handle uint32, numTokens uint32) (*forest.Node, uint32, error) {
	return p.Parse(handle, p.grammar.RootIndex, numTokens, nil)
}

// hEntry is one completed nullable span registered in a column's H set:
// the nonterminal that completed, and the (possibly epsilon) forest
// node recording that completion.
type hEntry struct {
	nt int32
	v  *forest.Node
}

// run bundles the per-parse mutable state the predictor, completer and
// scanner steps all need, so they can be plain methods instead of
// threading half a dozen parameters through every call.
type run struct {
	p       *Parser
	handle  uint32
	arena   *state.Arena
	cols    []*column.Column
	seenNT  []bool
	dict    *forest.Dict
	h       []hEntry
	q       []*state.State
	startNT int32
}

// Parse recognizes numTokens tokens against startNT and, on success,
// returns the SPPF root with one reference held on the caller's behalf
// (the caller must call Release on it). tokens may be nil, in which case
// the default sequence 0, 1, ..., numTokens-1 is used.
func (p *Parser) Parse(handle uint32, startNT int32, numTokens uint32, tokens []uint32) (result *forest.Node, errorToken uint32, err error) {
	if startNT >= 0 {
		return nil, 0, fmt.Errorf("%w: start nonterminal code %d is not negative", ErrInvalidArgument, startNT)
	}
	if numTokens == 0 {
		return nil, 0, fmt.Errorf("%w: no tokens", ErrInvalidArgument)
	}
	if tokens != nil && uint32(len(tokens)) != numTokens {
		return nil, 0, fmt.Errorf("%w: token slice has length %d, want %d", ErrInvalidArgument, len(tokens), numTokens)
	}
	root := p.grammar.Nonterminal(startNT)
	if root == nil {
		return nil, 0, fmt.Errorf("%w: unknown start nonterminal %d", ErrInvalidArgument, startNT)
	}
	if tokens == nil {
		tokens = make([]uint32, numTokens)
		for i := range tokens {
			tokens[i] = uint32(i)
		}
	}

	r := &run{
		p:       p,
		handle:  handle,
		arena:   state.NewArena(),
		cols:    make([]*column.Column, numTokens+1),
		seenNT:  make([]bool, p.grammar.NumNonterminals),
		dict:    forest.NewDict(),
		startNT: startNT,
	}
	for i := uint32(0); i < numTokens; i++ {
		r.cols[i] = column.New(tokens[i])
	}
	r.cols[numTokens] = column.New(column.SentinelToken)

	defer func() {
		for _, c := range r.cols {
			c.Close()
		}
		r.arena.FreeAll()
	}()

	r.cols[0].StartParse(p.grammar.NumTerminals)
	for _, prod := range root.Productions {
		s := r.arena.Alloc()
		*s = state.State{NT: startNT, Prod: prod, Dot: 0, Start: 0}
		if !r.push(s, r.cols[0], &r.q) {
			r.arena.DiscardLast(s)
		}
	}

	for i := uint32(0); i <= numTokens; i++ {
		col := r.cols[i]
		if !col.HasStates() && len(r.q) == 0 {
			errorToken = i
			return nil, errorToken, ErrNoParse
		}

		r.h = nil
		for c := range r.seenNT {
			r.seenNT[c] = false
		}

		for {
			s := col.NextState()
			if s == nil {
				break
			}
			switch item := s.Item(); {
			case item < 0:
				r.predict(s, i, item, col)
				r.predictH(s, i, item, col)
			case item == 0:
				r.complete(s, i, col)
			}
		}

		for range r.h {
			alloc.Dec(alloc.HNode)
		}
		r.h = nil
		r.dict.Reset()

		q := r.q
		r.q = nil
		if len(q) > 0 && i < numTokens {
			v := forest.NewTokenNode(col.Token, i)
			r.cols[i+1].StartParse(p.grammar.NumTerminals)
			for _, qs := range q {
				y := r.makeNode(qs, i+1, v)
				qs.W.Release()
				qs.Dot++
				qs.W = y
				if !r.push(qs, r.cols[i+1], &r.q) {
					qs.W.Release()
					qs.W = nil
				}
			}
			v.Release()
		}

		col.StopParse()
	}

	r.cols[numTokens].States(func(s *state.State) {
		if result != nil {
			return
		}
		if s.NT == startNT && s.Item() == 0 && s.Start == 0 {
			result = s.W.Retain()
		}
	})
	if result == nil {
		errorToken = numTokens
		return nil, errorToken, ErrNoParse
	}
	return result, numTokens, nil
}

// push routes a freshly minted state: nonterminal-or-completed items go
// into the column's state set, terminal items go into the scan agenda
// if the column's token matches (and are otherwise rejected). Callers
// are responsible for arena-discarding s when push returns false.
func (r *run) push(s *state.State, col *column.Column, q *[]*state.State) bool {
	item := s.Item()
	if item <= 0 {
		return col.AddState(s)
	}
	if col.Matches(r.handle, uint32(item), r.p.match) {
		*q = append(*q, s)
		return true
	}
	return false
}

// makeNode implements the Scott-Johnstone SPPF construction step. When
// the state has just matched its first symbol of a production with more
// than one symbol, no intermediate node is needed yet, so v is returned
// directly (retained once for the caller).
func (r *run) makeNode(s *state.State, j uint32, v *forest.Node) *forest.Node {
	dotp := s.Dot + 1
	n := uint32(s.Prod.Len())
	if dotp == 1 && n >= 2 {
		return v.Retain()
	}

	var label forest.Label
	if dotp < n {
		label = forest.Label{NT: s.NT, Dot: dotp, Prod: s.Prod, I: s.Start, J: j}
	} else {
		label = forest.Label{NT: s.NT, Dot: 0, Prod: nil, I: s.Start, J: j}
	}
	y := r.dict.LookupOrAdd(label)
	y.AddFamily(s.Prod, s.W, v)
	return y.Retain()
}

// predict implements the predictor's expansion of a nonterminal's
// productions, guarded by seenNT so each nonterminal is only expanded
// once per column.
func (r *run) predict(s *state.State, i uint32, item int32, col *column.Column) {
	idx := grammar.NontermIndex(item)
	if r.seenNT[idx] {
		return
	}
	r.seenNT[idx] = true
	nt := r.p.grammar.Nonterminal(item)
	if nt == nil {
		return
	}
	for _, prod := range nt.Productions {
		ns := r.arena.Alloc()
		*ns = state.State{NT: item, Prod: prod, Dot: 0, Start: i}
		if !r.push(ns, col, &r.q) {
			r.arena.DiscardLast(ns)
		}
	}
}

// predictH runs the H-set half of the predictor: unlike the seenNT-
// guarded expansion above, this must run on every visit to an item
// whose dot faces a nullable nonterminal, since H entries may have been
// added between visits within the same column's fixpoint. Skipping this
// distinction loses parses for grammars with nullable nonterminals.
func (r *run) predictH(s *state.State, i uint32, item int32, col *column.Column) {
	for _, he := range r.h {
		if he.nt != item {
			continue
		}
		y := r.makeNode(s, i, he.v)
		ns := r.arena.Alloc()
		*ns = state.State{NT: s.NT, Prod: s.Prod, Dot: s.Dot + 1, Start: s.Start, W: y}
		if !r.push(ns, col, &r.q) {
			r.arena.DiscardLast(ns)
		}
	}
}

// complete implements the completer: it registers a nullable completion
// in H when the item was recognized at the current column, and advances
// every waiting state at the item's start column.
func (r *run) complete(s *state.State, i uint32, col *column.Column) {
	b := s.NT
	k := s.Start
	w := s.W

	if w == nil {
		w = r.dict.LookupOrAdd(forest.Label{NT: b, Dot: 0, Prod: nil, I: i, J: i})
		w.AddFamily(s.Prod, nil, nil)
	}

	if k == i {
		alloc.Inc(alloc.HNode)
		r.h = append(r.h, hEntry{nt: b, v: w})
	}

	for t := r.cols[k].GetNtHead(b); t != nil; t = t.NtNext {
		y := r.makeNode(t, i, w)
		ns := r.arena.Alloc()
		*ns = state.State{NT: t.NT, Prod: t.Prod, Dot: t.Dot + 1, Start: t.Start, W: y}
		if !r.push(ns, col, &r.q) {
			r.arena.DiscardLast(ns)
		}
	}
}

// Package grammar holds the immutable context-free grammar a parse runs
// against: nonterminals, their productions, and the symbol-code encoding
// that lets the rest of the engine treat terminals and nonterminals as
// plain signed integers.
package grammar

import "fmt"

// MaxProductionLength is the longest production the binary file format
// will accept; ReadBinary and WriteBinary enforce it, New does not.
const MaxProductionLength = 256

// Production is an ordered sequence of symbol codes. A code < 0 refers to
// a nonterminal (index ^code), a code > 0 is a terminal id, and 0 never
// appears inside Items — it is the sentinel returned by ItemAt once the
// dot has moved past the end.
type Production struct {
	ID       uint32
	Priority uint32
	Items    []int32
}

// Len returns the number of symbols in the production.
func (p *Production) Len() int {
	if p == nil {
		return 0
	}
	return len(p.Items)
}

// ItemAt returns the symbol code at dot, or 0 (the end-of-production
// sentinel) once dot reaches or passes Len().
func (p *Production) ItemAt(dot uint32) int32 {
	if p == nil || int(dot) >= len(p.Items) {
		return 0
	}
	return p.Items[dot]
}

// Nonterminal owns an ordered list of productions.
type Nonterminal struct {
	Name        string
	Productions []*Production
}

// Grammar is immutable once loaded. NontermIndex/code conversions use the
// bitwise-complement convention: code -1 is index 0, code -2 is index 1,
// and so on.
type Grammar struct {
	NumTerminals    uint32
	NumNonterminals uint32
	RootIndex       int32

	nonterminals []*Nonterminal

	// terminalNames maps a terminal id (1-based) to the literal or name it
	// was compiled from. Grammars loaded from the binary file format carry
	// no names, so this is nil for them and NameOf falls back to "T<id>".
	terminalNames []string
	terminalCodes map[string]uint32
}

// New builds a Grammar from a fully-populated nonterminal table. The
// caller supplies nonterminals in index order (index 0 is code -1).
func New(numTerminals uint32, rootIndex int32, nonterminals []*Nonterminal) (*Grammar, error) {
	if rootIndex >= 0 {
		return nil, fmt.Errorf("grammar: root nonterminal code must be negative, got %d", rootIndex)
	}
	idx := NontermIndex(rootIndex)
	if idx < 0 || idx >= len(nonterminals) {
		return nil, fmt.Errorf("grammar: root index %d out of range for %d nonterminals", rootIndex, len(nonterminals))
	}
	return &Grammar{
		NumTerminals:    numTerminals,
		NumNonterminals: uint32(len(nonterminals)),
		RootIndex:       rootIndex,
		nonterminals:    nonterminals,
	}, nil
}

// NontermIndex converts a negative symbol code to a zero-based index.
func NontermIndex(code int32) int {
	return int(^code)
}

// NontermCode converts a zero-based index back to its symbol code.
func NontermCode(idx int) int32 {
	return int32(^idx)
}

// Root returns the start nonterminal.
func (g *Grammar) Root() *Nonterminal {
	return g.Nonterminal(g.RootIndex)
}

// Nonterminal returns the nonterminal named by code, or nil if code is
// not negative or out of range.
func (g *Grammar) Nonterminal(code int32) *Nonterminal {
	if g == nil || code >= 0 {
		return nil
	}
	idx := NontermIndex(code)
	if idx < 0 || idx >= len(g.nonterminals) {
		return nil
	}
	return g.nonterminals[idx]
}

// NameOf returns a readable name for a symbol code: the nonterminal's
// name, or the terminal's compiled-from literal if known, or "T<id>" if
// not, or "$end" for the sentinel.
func (g *Grammar) NameOf(code int32) string {
	switch {
	case code == 0:
		return "$end"
	case code < 0:
		if nt := g.Nonterminal(code); nt != nil && nt.Name != "" {
			return nt.Name
		}
		return fmt.Sprintf("NT<%d>", NontermIndex(code))
	default:
		if int(code) <= len(g.terminalNames) && g.terminalNames[code-1] != "" {
			return g.terminalNames[code-1]
		}
		return fmt.Sprintf("T<%d>", code)
	}
}

// TerminalCode looks up the symbol code of a terminal by the name it was
// compiled from (an EBNF token literal, or a name referenced but never
// defined as a production). It only succeeds for grammars built via
// Describe; binary-loaded grammars carry no terminal names.
func (g *Grammar) TerminalCode(name string) (uint32, bool) {
	if g == nil || g.terminalCodes == nil {
		return 0, false
	}
	id, ok := g.terminalCodes[name]
	return id, ok
}

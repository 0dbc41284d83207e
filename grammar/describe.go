package grammar

import (
	"fmt"
	"strings"

	"golang.org/x/exp/ebnf"
)

// Describe compiles an EBNF grammar description (the same syntax
// accepted by golang.org/x/exp/ebnf, i.e. the Go spec's own grammar
// notation) into the symbol-code Grammar model THE CORE operates on.
//
// This is deliberately a subset compiler: sequences, alternatives,
// groups, options and repetitions are supported; character ranges are
// not, since the core's terminals are opaque ids rather than runes.
// It exists to give the binary file format (see ReadBinary/WriteBinary)
// a human-writable source, the way ava12-llx's langdef/llxgen turns an
// EBNF-like description into a generated grammar structure.
func Describe(g ebnf.Grammar, start string) (*Grammar, error) {
	if err := ebnf.Verify(g, start); err != nil {
		return nil, fmt.Errorf("grammar: invalid description: %w", err)
	}

	c := &compiler{
		src:         g,
		ntIndex:     map[string]int{},
		prodAlts:    map[string][][]int32{},
		terminalIDs: map[string]uint32{},
	}
	c.registerOrder(start)

	for i := 0; i < len(c.order); i++ {
		name := c.order[i]
		if _, done := c.prodAlts[name]; done {
			continue // a Repetition element already filled this aux in
		}
		prod, ok := g[name]
		if !ok {
			return nil, fmt.Errorf("grammar: undefined production %q", name)
		}
		alts, err := c.expand(name, prod.Expr)
		if err != nil {
			return nil, fmt.Errorf("grammar: compiling %q: %w", name, err)
		}
		c.prodAlts[name] = alts
	}

	id := uint32(0)
	nonterminals := make([]*Nonterminal, len(c.order))
	for i, name := range c.order {
		alts := c.prodAlts[name]
		prods := make([]*Production, len(alts))
		for j, items := range alts {
			prods[j] = &Production{ID: id, Priority: 0, Items: items}
			id++
		}
		nonterminals[i] = &Nonterminal{Name: name, Productions: prods}
	}

	rootIdx, ok := c.ntIndex[start]
	if !ok {
		return nil, fmt.Errorf("grammar: start production %q missing after compilation", start)
	}

	names := make([]string, len(c.terminalIDs))
	for name, id := range c.terminalIDs {
		names[id-1] = name
	}

	return &Grammar{
		NumTerminals:    uint32(len(c.terminalIDs)),
		NumNonterminals: uint32(len(nonterminals)),
		RootIndex:       NontermCode(rootIdx),
		nonterminals:    nonterminals,
		terminalNames:   names,
		terminalCodes:   c.terminalIDs,
	}, nil
}

type compiler struct {
	src         ebnf.Grammar
	order       []string
	ntIndex     map[string]int
	prodAlts    map[string][][]int32
	terminalIDs map[string]uint32
	auxSeq      int
}

func (c *compiler) registerOrder(name string) {
	if _, ok := c.ntIndex[name]; ok {
		return
	}
	c.ntIndex[name] = len(c.order)
	c.order = append(c.order, name)
	if prod, ok := c.src[name]; ok {
		for _, ref := range referencedNames(prod.Expr) {
			c.registerOrder(ref)
		}
	}
}

func referencedNames(expr ebnf.Expression) []string {
	switch e := expr.(type) {
	case ebnf.Sequence:
		var names []string
		for _, el := range e {
			names = append(names, referencedNames(el)...)
		}
		return names
	case ebnf.Alternative:
		var names []string
		for _, alt := range e {
			names = append(names, referencedNames(alt)...)
		}
		return names
	case *ebnf.Group:
		return referencedNames(e.Body)
	case *ebnf.Option:
		return referencedNames(e.Body)
	case *ebnf.Repetition:
		return referencedNames(e.Body)
	case *ebnf.Name:
		return []string{e.String}
	default:
		return nil
	}
}

func (c *compiler) terminalID(literal string) uint32 {
	if id, ok := c.terminalIDs[literal]; ok {
		return id
	}
	id := uint32(len(c.terminalIDs)) + 1
	c.terminalIDs[literal] = id
	return id
}

func (c *compiler) nonterminalCode(name string) (int32, error) {
	idx, ok := c.ntIndex[name]
	if !ok {
		return 0, fmt.Errorf("reference to unknown production %q", name)
	}
	return NontermCode(idx), nil
}

// freshAux registers a new nonterminal for a Repetition's unrolling,
// named after the context it appears in, and appends it to the
// compile order so it ends up with a stable index.
func (c *compiler) freshAux(base string) string {
	c.auxSeq++
	name := fmt.Sprintf("%s@%d", base, c.auxSeq)
	c.ntIndex[name] = len(c.order)
	c.order = append(c.order, name)
	return name
}

// expand returns one []int32 per alternative sequence the production's
// expression denotes.
func (c *compiler) expand(context string, expr ebnf.Expression) ([][]int32, error) {
	switch e := expr.(type) {
	case ebnf.Sequence:
		return c.expandSequence(context, e)
	case ebnf.Alternative:
		var all [][]int32
		for _, alt := range e {
			alts, err := c.expand(context, alt)
			if err != nil {
				return nil, err
			}
			all = append(all, alts...)
		}
		return all, nil
	case *ebnf.Group:
		return c.expand(context, e.Body)
	case *ebnf.Option:
		return c.expandElement(context, e)
	default:
		return c.expandSequence(context, ebnf.Sequence{expr})
	}
}

// expandSequence performs the cartesian product of each element's
// alternatives, one production per combination.
func (c *compiler) expandSequence(context string, seq ebnf.Sequence) ([][]int32, error) {
	combos := [][]int32{{}}
	for _, el := range seq {
		elAlts, err := c.expandElement(context, el)
		if err != nil {
			return nil, err
		}
		var next [][]int32
		for _, prefix := range combos {
			for _, alt := range elAlts {
				joined := make([]int32, 0, len(prefix)+len(alt))
				joined = append(joined, prefix...)
				joined = append(joined, alt...)
				next = append(next, joined)
			}
		}
		combos = next
	}
	return combos, nil
}

// expandElement returns the alternative symbol-sequences a single
// sequence element can contribute (more than one only for Option,
// Repetition and nested Alternative/Group elements).
func (c *compiler) expandElement(context string, expr ebnf.Expression) ([][]int32, error) {
	switch e := expr.(type) {
	case *ebnf.Name:
		if _, isProd := c.src[e.String]; isProd {
			code, err := c.nonterminalCode(e.String)
			if err != nil {
				return nil, err
			}
			return [][]int32{{code}}, nil
		}
		return [][]int32{{int32(c.terminalID(e.String))}}, nil

	case *ebnf.Token:
		literal := strings.Trim(e.String, `"`)
		return [][]int32{{int32(c.terminalID(literal))}}, nil

	case *ebnf.Group:
		return c.expand(context, e.Body)

	case ebnf.Alternative:
		return c.expand(context, e)

	case *ebnf.Option:
		bodyAlts, err := c.expand(context, e.Body)
		if err != nil {
			return nil, err
		}
		return append(bodyAlts, []int32{}), nil

	case *ebnf.Repetition:
		aux := c.freshAux(context)
		bodyAlts, err := c.expand(aux, e.Body)
		if err != nil {
			return nil, err
		}
		auxCode, err := c.nonterminalCode(aux)
		if err != nil {
			return nil, err
		}
		var auxProds [][]int32
		for _, alt := range bodyAlts {
			rec := make([]int32, 0, len(alt)+1)
			rec = append(rec, alt...)
			rec = append(rec, auxCode)
			auxProds = append(auxProds, rec)
		}
		auxProds = append(auxProds, []int32{}) // zero repetitions: epsilon
		c.prodAlts[aux] = auxProds
		return [][]int32{{auxCode}}, nil

	case *ebnf.Range:
		return nil, fmt.Errorf("character ranges are not supported by the binary grammar compiler")

	default:
		return nil, fmt.Errorf("unsupported grammar construct %T", expr)
	}
}

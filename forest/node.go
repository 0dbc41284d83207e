package forest

import (
	"github.com/dhamidi/sppf/alloc"
	"github.com/dhamidi/sppf/grammar"
)

// FamilyEntry is one alternative derivation of an SPPF node: the
// production that fired plus its left and right children (both may be
// nil — nil/nil with Prod set denotes an epsilon derivation, nil
// left with a present right denotes a unary packing step).
type FamilyEntry struct {
	Prod  *grammar.Production
	Left  *Node
	Right *Node
}

// Node is an SPPF node. Families are deduplicated by the
// (Prod, Left, Right) triple; the node itself is reference-counted
// since it may be reachable from many states and family entries at
// once.
type Node struct {
	Label    Label
	Families map[FamilyEntry]struct{}
	leaf     bool
	refcount int32
}

func newNode(label Label) *Node {
	alloc.Inc(alloc.Node)
	return &Node{Label: label, Families: make(map[FamilyEntry]struct{}), refcount: 1}
}

// NewTokenNode creates the fresh token node the scanner allocates once
// per scanned column: a leaf labelled (token, 0, none, i, i+1) that
// never gains families of its own.
func NewTokenNode(token uint32, i uint32) *Node {
	n := newNode(Label{NT: int32(token), Dot: 0, Prod: nil, I: i, J: i + 1})
	n.leaf = true
	return n
}

// Retain increments the node's reference count and returns it, so it can
// be chained at the point a new reference is taken.
func (n *Node) Retain() *Node {
	if n == nil {
		return nil
	}
	n.refcount++
	return n
}

// Release drops one reference. At zero it releases the node's hold on
// every child referenced from its families and frees the node. The
// forest is acyclic by construction (every family's children span a
// strict subrange of the parent's span), so this plain refcounting
// needs no cycle collector.
func (n *Node) Release() {
	if n == nil {
		return
	}
	n.refcount--
	if n.refcount > 0 {
		return
	}
	if n.refcount < 0 {
		panic("forest: Node refcount went negative")
	}
	for fam := range n.Families {
		fam.Left.Release()
		fam.Right.Release()
		alloc.Dec(alloc.FamilyEntry)
	}
	n.Families = nil
	alloc.Dec(alloc.Node)
}

// AddFamily inserts a new family entry unless an identical
// (prod, left, right) triple is already present. Reports whether it
// inserted a new entry. On insertion it retains both children.
func (n *Node) AddFamily(prod *grammar.Production, left, right *Node) bool {
	fam := FamilyEntry{Prod: prod, Left: left, Right: right}
	if _, exists := n.Families[fam]; exists {
		return false
	}
	n.Families[fam] = struct{}{}
	alloc.Inc(alloc.FamilyEntry)
	left.Retain()
	right.Retain()
	return true
}

// IsTerminal reports whether this node denotes a single matched token,
// created by the scanner via NewTokenNode rather than make_node's
// nonterminal path.
func (n *Node) IsTerminal() bool {
	return n != nil && n.leaf
}

// NumCombinations returns the number of distinct leaf combinations this
// node's families encode: 1 for a token node, and for a nonterminal node
// the sum over families of combinations(left)*combinations(right), with
// an absent child contributing a factor of 1. Shared subnodes are
// memoized by pointer identity so the count of a deeply ambiguous,
// heavily shared forest can still be computed in time proportional to
// the DAG's size rather than the (possibly astronomical) number of
// trees it encodes.
func (n *Node) NumCombinations() uint64 {
	return n.numCombinations(make(map[*Node]uint64))
}

func (n *Node) numCombinations(memo map[*Node]uint64) uint64 {
	if n == nil {
		return 1
	}
	if v, ok := memo[n]; ok {
		return v
	}
	if n.IsTerminal() {
		memo[n] = 1
		return 1
	}
	var total uint64
	for fam := range n.Families {
		left := fam.Left.numCombinations(memo)
		right := fam.Right.numCombinations(memo)
		total += left * right
	}
	if total == 0 {
		// A node with no families yet (shouldn't normally be observed
		// on a finished parse) still contributes the empty-derivation
		// factor of 1, matching an epsilon node's semantics.
		total = 1
	}
	memo[n] = total
	return total
}

// Package forest implements the Shared Packed Parse Forest: nodes
// labelled by (symbol, dot, production, start, end), deduplicated per
// column by NodeDict and reference-counted because the same node can be
// reached from many states and family entries.
package forest

import "github.com/dhamidi/sppf/grammar"

// Label is the identity of an SPPF node. Equality is structural over all
// five fields, which is exactly Go's struct equality here since Prod is
// a pointer into the immutable grammar and every other field is a plain
// integer — so Label is usable directly as a map key.
type Label struct {
	NT   int32
	Dot  uint32
	Prod *grammar.Production
	I, J uint32
}

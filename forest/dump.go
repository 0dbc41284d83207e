package forest

import (
	"fmt"
	"io"

	"github.com/dhamidi/sppf/grammar"
)

// Dump writes a textual, indented rendering of the forest rooted at n,
// resolving nonterminal and terminal codes through g. It is a diagnostic
// aid only (the core's dump_forest), not a canonical serialization
// format, and visits shared nodes once per occurrence rather than
// collapsing them — ambiguity is visible as multiple "family" lines
// under one node.
func Dump(w io.Writer, n *Node, g *grammar.Grammar) {
	dumpNode(w, n, g, 0, make(map[*Node]bool))
}

func dumpNode(w io.Writer, n *Node, g *grammar.Grammar, depth int, visiting map[*Node]bool) {
	indent := func(extra int) {
		for i := 0; i < depth+extra; i++ {
			fmt.Fprint(w, "  ")
		}
	}

	if n == nil {
		indent(0)
		fmt.Fprintln(w, "<nil>")
		return
	}

	indent(0)
	fmt.Fprintf(w, "%s (%d,%d)", g.NameOf(n.Label.NT), n.Label.I, n.Label.J)
	if n.IsTerminal() {
		fmt.Fprintln(w, " [token]")
		return
	}
	fmt.Fprintf(w, " {%d families}\n", len(n.Families))

	if visiting[n] {
		indent(1)
		fmt.Fprintln(w, "...")
		return
	}
	visiting[n] = true
	defer delete(visiting, n)

	for fam := range n.Families {
		indent(1)
		if fam.Prod != nil {
			fmt.Fprintf(w, "via production #%d (priority %d)\n", fam.Prod.ID, fam.Prod.Priority)
		} else {
			fmt.Fprintln(w, "via packed completion")
		}
		if fam.Left != nil {
			dumpNode(w, fam.Left, g, depth+2, visiting)
		}
		if fam.Right != nil {
			dumpNode(w, fam.Right, g, depth+2, visiting)
		}
	}
}

package forest

import (
	"testing"

	"github.com/dhamidi/sppf/alloc"
)

func TestDictLookupOrAddMemoizes(t *testing.T) {
	alloc.Reset()
	d := NewDict()
	label := Label{NT: -1, Dot: 0, I: 0, J: 1}

	a := d.LookupOrAdd(label)
	b := d.LookupOrAdd(label)
	if a != b {
		t.Error("LookupOrAdd with the same label should return the same node")
	}

	other := d.LookupOrAdd(Label{NT: -1, Dot: 0, I: 0, J: 2})
	if other == a {
		t.Error("LookupOrAdd with a different label should return a different node")
	}

	d.Reset()
	if live := alloc.Live(alloc.Node); live != 0 {
		t.Errorf("alloc.Live(Node) after Reset = %d, want 0", live)
	}
}

func TestDictResetDoesNotFreeExternallyRetained(t *testing.T) {
	alloc.Reset()
	d := NewDict()
	n := d.LookupOrAdd(Label{NT: -1, I: 0, J: 1})
	n.Retain()

	d.Reset()
	if live := alloc.Live(alloc.Node); live != 1 {
		t.Fatalf("alloc.Live(Node) after Reset = %d, want 1 (externally retained)", live)
	}
	n.Release()
	if live := alloc.Live(alloc.Node); live != 0 {
		t.Errorf("alloc.Live(Node) after final release = %d, want 0", live)
	}
}

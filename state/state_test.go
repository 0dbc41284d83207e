package state

import (
	"testing"

	"github.com/dhamidi/sppf/alloc"
	"github.com/dhamidi/sppf/forest"
	"github.com/dhamidi/sppf/grammar"
)

func TestEqualIgnoresForestNode(t *testing.T) {
	prod := &grammar.Production{ID: 1, Items: []int32{1, 2}}
	a := &State{NT: -1, Prod: prod, Dot: 1, Start: 0, W: forest.NewTokenNode(1, 0)}
	b := &State{NT: -1, Prod: prod, Dot: 1, Start: 0, W: nil}
	defer a.W.Release()

	if !a.Equal(b) {
		t.Error("states differing only in W should be Equal")
	}
	if a.Hash() != b.Hash() {
		t.Error("Hash must agree for states Equal reports as equal (differing only in W)")
	}
}

func TestEqualComparesIdentityFields(t *testing.T) {
	p1 := &grammar.Production{ID: 1}
	p2 := &grammar.Production{ID: 2}
	base := &State{NT: -1, Prod: p1, Dot: 0, Start: 0}

	cases := []*State{
		{NT: -2, Prod: p1, Dot: 0, Start: 0},
		{NT: -1, Prod: p2, Dot: 0, Start: 0},
		{NT: -1, Prod: p1, Dot: 1, Start: 0},
		{NT: -1, Prod: p1, Dot: 0, Start: 1},
	}
	for i, c := range cases {
		if base.Equal(c) {
			t.Errorf("case %d: expected states to differ", i)
		}
	}
}

func TestEqualNilHandling(t *testing.T) {
	var a, b *State
	if !a.Equal(b) {
		t.Error("two nil states should be Equal")
	}
	s := &State{}
	if s.Equal(nil) || (*State)(nil).Equal(s) {
		t.Error("a nil and non-nil state should never be Equal")
	}
}

func TestItemEndOfProduction(t *testing.T) {
	s := &State{Prod: &grammar.Production{Items: []int32{1}}, Dot: 1}
	if s.Item() != 0 {
		t.Errorf("Item() at end of production = %d, want 0", s.Item())
	}
}

func TestArenaAllocDiscardLast(t *testing.T) {
	alloc.Reset()
	a := NewArena()
	s1 := a.Alloc()
	*s1 = State{NT: -1}
	if live := alloc.Live(alloc.State); live != 1 {
		t.Fatalf("alloc.Live(State) = %d, want 1", live)
	}

	s2 := a.Alloc()
	*s2 = State{NT: -2}
	a.DiscardLast(s2)
	if live := alloc.Live(alloc.State); live != 1 {
		t.Fatalf("alloc.Live(State) after discard = %d, want 1", live)
	}

	a.FreeAll()
	if live := alloc.Live(alloc.State); live != 0 {
		t.Fatalf("alloc.Live(State) after FreeAll = %d, want 0", live)
	}
}

func TestArenaDiscardLastPanicsWhenNotTop(t *testing.T) {
	a := NewArena()
	s1 := a.Alloc()
	a.Alloc() // s2, now the top slot

	defer func() {
		if recover() == nil {
			t.Fatal("DiscardLast on a non-top slot should panic")
		}
	}()
	a.DiscardLast(s1)
}

func TestArenaSpansMultipleChunks(t *testing.T) {
	alloc.Reset()
	a := NewArena()
	n := chunkSize*2 + 5
	for i := 0; i < n; i++ {
		s := a.Alloc()
		*s = State{NT: int32(-i)}
	}
	if live := alloc.Live(alloc.State); int(live) != n {
		t.Fatalf("alloc.Live(State) = %d, want %d", live, n)
	}
	a.FreeAll()
	if live := alloc.Live(alloc.State); live != 0 {
		t.Fatalf("alloc.Live(State) after FreeAll = %d, want 0", live)
	}
}

func TestArenaFreeAllReleasesForestNodes(t *testing.T) {
	alloc.Reset()
	a := NewArena()
	s := a.Alloc()
	*s = State{NT: -1, W: forest.NewTokenNode(1, 0)}
	a.FreeAll()
	if live := alloc.Live(alloc.Node); live != 0 {
		t.Errorf("alloc.Live(Node) after FreeAll = %d, want 0", live)
	}
}

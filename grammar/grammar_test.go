package grammar

import "testing"

func TestProductionItemAt(t *testing.T) {
	p := &Production{Items: []int32{1, -2, 3}}
	if p.Len() != 3 {
		t.Fatalf("Len() = %d, want 3", p.Len())
	}
	for i, want := range []int32{1, -2, 3, 0, 0} {
		if got := p.ItemAt(uint32(i)); got != want {
			t.Errorf("ItemAt(%d) = %d, want %d", i, got, want)
		}
	}
}

func TestNilProduction(t *testing.T) {
	var p *Production
	if p.Len() != 0 {
		t.Errorf("nil Production Len() = %d, want 0", p.Len())
	}
	if p.ItemAt(0) != 0 {
		t.Errorf("nil Production ItemAt(0) != 0")
	}
}

func TestNontermIndexCode(t *testing.T) {
	for idx := 0; idx < 5; idx++ {
		code := NontermCode(idx)
		if code >= 0 {
			t.Fatalf("NontermCode(%d) = %d, want negative", idx, code)
		}
		if got := NontermIndex(code); got != idx {
			t.Errorf("NontermIndex(NontermCode(%d)) = %d, want %d", idx, got, idx)
		}
	}
}

func TestNewRejectsNonNegativeRoot(t *testing.T) {
	nts := []*Nonterminal{{Name: "S", Productions: []*Production{{Items: []int32{1}}}}}
	if _, err := New(1, 0, nts); err == nil {
		t.Fatal("New with non-negative root index: want error, got nil")
	}
}

func TestNewRejectsOutOfRangeRoot(t *testing.T) {
	nts := []*Nonterminal{{Name: "S", Productions: []*Production{{Items: []int32{1}}}}}
	if _, err := New(1, NontermCode(5), nts); err == nil {
		t.Fatal("New with out-of-range root index: want error, got nil")
	}
}

func TestNameOf(t *testing.T) {
	nts := []*Nonterminal{{Name: "S", Productions: []*Production{{Items: []int32{1}}}}}
	g, err := New(1, NontermCode(0), nts)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if got := g.NameOf(NontermCode(0)); got != "S" {
		t.Errorf("NameOf(root) = %q, want %q", got, "S")
	}
	if got := g.NameOf(0); got != "$end" {
		t.Errorf("NameOf(0) = %q, want %q", got, "$end")
	}
	if got := g.NameOf(1); got != "T<1>" {
		t.Errorf("NameOf(1) = %q, want %q", got, "T<1>")
	}
}

func TestRoot(t *testing.T) {
	nts := []*Nonterminal{{Name: "S", Productions: []*Production{{Items: []int32{1}}}}}
	g, err := New(1, NontermCode(0), nts)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if g.Root() != nts[0] {
		t.Error("Root() did not return the nonterminal at RootIndex")
	}
	if g.Nonterminal(NontermCode(5)) != nil {
		t.Error("Nonterminal() for an out-of-range code should be nil")
	}
	if g.Nonterminal(1) != nil {
		t.Error("Nonterminal() for a non-negative code should be nil")
	}
}

package grammar

import (
	"bytes"
	"errors"
	"testing"
)

func sampleGrammar(t *testing.T) *Grammar {
	t.Helper()
	nts := []*Nonterminal{
		{Name: "S", Productions: []*Production{
			{ID: 0, Priority: 1, Items: []int32{1, NontermCode(1)}},
			{ID: 1, Priority: 0, Items: []int32{}},
		}},
		{Name: "A", Productions: []*Production{
			{ID: 2, Items: []int32{2}},
		}},
	}
	g, err := New(2, NontermCode(0), nts)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return g
}

func TestBinaryRoundTrip(t *testing.T) {
	g := sampleGrammar(t)

	var buf bytes.Buffer
	if err := WriteBinary(&buf, g); err != nil {
		t.Fatalf("WriteBinary: %v", err)
	}

	got, err := ReadBinary(&buf)
	if err != nil {
		t.Fatalf("ReadBinary: %v", err)
	}

	if got.NumTerminals != g.NumTerminals || got.NumNonterminals != g.NumNonterminals {
		t.Fatalf("counts = (%d,%d), want (%d,%d)", got.NumTerminals, got.NumNonterminals, g.NumTerminals, g.NumNonterminals)
	}
	if got.RootIndex != g.RootIndex {
		t.Fatalf("RootIndex = %d, want %d", got.RootIndex, g.RootIndex)
	}
	s := got.Nonterminal(got.RootIndex)
	if len(s.Productions) != 2 {
		t.Fatalf("S has %d productions, want 2", len(s.Productions))
	}
	if len(s.Productions[0].Items) != 2 || s.Productions[0].Priority != 1 {
		t.Errorf("S production 0 = %+v, want 2 items and priority 1", s.Productions[0])
	}
	if len(s.Productions[1].Items) != 0 {
		t.Errorf("S production 1 should be an empty production")
	}
}

func TestReadBinaryBadSignature(t *testing.T) {
	buf := bytes.NewBufferString("not a valid grammar signature!!!")
	if _, err := ReadBinary(buf); !errors.Is(err, ErrLoadFailed) {
		t.Fatalf("ReadBinary with bad signature: err = %v, want ErrLoadFailed", err)
	}
}

func TestReadBinaryShortRead(t *testing.T) {
	buf := bytes.NewBufferString("Reynir ")
	if _, err := ReadBinary(buf); !errors.Is(err, ErrLoadFailed) {
		t.Fatalf("ReadBinary with truncated input: err = %v, want ErrLoadFailed", err)
	}
}

func TestReadBinaryEmptyGrammar(t *testing.T) {
	var buf bytes.Buffer
	empty := &Grammar{NumTerminals: 3}
	if err := WriteBinary(&buf, empty); err != nil {
		t.Fatalf("WriteBinary: %v", err)
	}
	got, err := ReadBinary(&buf)
	if err != nil {
		t.Fatalf("ReadBinary: %v", err)
	}
	if got.NumTerminals != 3 || got.NumNonterminals != 0 {
		t.Errorf("got %+v, want NumTerminals=3 NumNonterminals=0", got)
	}
}

func TestReadBinaryRejectsNonNegativeRoot(t *testing.T) {
	var buf bytes.Buffer
	buf.WriteString("Reynir ")
	buf.Write(make([]byte, 9)) // pad signature to 16 bytes
	writeU32(&buf, 1)          // numTerminals
	writeU32(&buf, 1)          // numNonterminals
	writeI32(&buf, 0)          // root index: not negative
	if _, err := ReadBinary(&buf); !errors.Is(err, ErrLoadFailed) {
		t.Fatalf("ReadBinary with non-negative root: err = %v, want ErrLoadFailed", err)
	}
}

func TestReadBinaryRejectsOversizedProduction(t *testing.T) {
	var buf bytes.Buffer
	buf.WriteString("Reynir ")
	buf.Write(make([]byte, 9))
	writeU32(&buf, 1)
	writeU32(&buf, 1)
	writeI32(&buf, NontermCode(0))
	writeU32(&buf, 1)                     // one production
	writeU32(&buf, 0)                     // id
	writeU32(&buf, 0)                     // priority
	writeU32(&buf, MaxProductionLength+1) // length: too long
	if _, err := ReadBinary(&buf); !errors.Is(err, ErrLoadFailed) {
		t.Fatalf("ReadBinary with oversized production: err = %v, want ErrLoadFailed", err)
	}
}

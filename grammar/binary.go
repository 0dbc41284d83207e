package grammar

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"
)

// signaturePrefix is the required prefix of the 16-byte file signature.
const signaturePrefix = "Reynir "

const signatureLen = 16

// ErrLoadFailed wraps every binary-grammar load failure: a short read, an
// oversized production, or a signature mismatch. Callers get no partial
// grammar back on failure.
var ErrLoadFailed = errors.New("grammar: load failed")

type reader struct {
	r   io.Reader
	err error
}

func (r *reader) readBytes(n int) []byte {
	if r.err != nil {
		return nil
	}
	buf := make([]byte, n)
	_, r.err = io.ReadFull(r.r, buf)
	return buf
}

func (r *reader) readU32() uint32 {
	buf := r.readBytes(4)
	if r.err != nil {
		return 0
	}
	return binary.LittleEndian.Uint32(buf)
}

func (r *reader) readI32() int32 {
	return int32(r.readU32())
}

// ReadBinaryFile loads a grammar from the binary format described in the
// core's external-interface spec: a 16-byte "Reynir " signature, terminal
// and nonterminal counts, a root index, then each nonterminal's
// productions in order.
func ReadBinaryFile(path string) (*Grammar, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: open %q: %v", ErrLoadFailed, path, err)
	}
	defer f.Close()
	return ReadBinary(f)
}

// ReadBinary loads a grammar from an already-open reader.
func ReadBinary(rd io.Reader) (*Grammar, error) {
	r := &reader{r: rd}

	sig := r.readBytes(signatureLen)
	if r.err != nil {
		return nil, fmt.Errorf("%w: reading signature: %v", ErrLoadFailed, r.err)
	}
	if len(sig) < len(signaturePrefix) || string(sig[:len(signaturePrefix)]) != signaturePrefix {
		return nil, fmt.Errorf("%w: bad signature", ErrLoadFailed)
	}

	numTerminals := r.readU32()
	numNonterminals := r.readU32()
	if r.err != nil {
		return nil, fmt.Errorf("%w: reading header: %v", ErrLoadFailed, r.err)
	}

	if numNonterminals == 0 {
		return &Grammar{NumTerminals: numTerminals}, nil
	}

	rootIndex := r.readI32()
	if r.err != nil {
		return nil, fmt.Errorf("%w: reading root index: %v", ErrLoadFailed, r.err)
	}
	if rootIndex >= 0 {
		return nil, fmt.Errorf("%w: root index %d is not negative", ErrLoadFailed, rootIndex)
	}

	nonterminals := make([]*Nonterminal, numNonterminals)
	for i := uint32(0); i < numNonterminals; i++ {
		nt, err := readNonterminal(r)
		if err != nil {
			return nil, fmt.Errorf("%w: nonterminal %d: %v", ErrLoadFailed, i, err)
		}
		nonterminals[i] = nt
	}
	if r.err != nil {
		return nil, fmt.Errorf("%w: %v", ErrLoadFailed, r.err)
	}

	idx := NontermIndex(rootIndex)
	if idx < 0 || idx >= len(nonterminals) {
		return nil, fmt.Errorf("%w: root index %d out of range", ErrLoadFailed, rootIndex)
	}

	return &Grammar{
		NumTerminals:    numTerminals,
		NumNonterminals: numNonterminals,
		RootIndex:       rootIndex,
		nonterminals:    nonterminals,
	}, nil
}

func readNonterminal(r *reader) (*Nonterminal, error) {
	numProductions := r.readU32()
	if r.err != nil {
		return nil, r.err
	}

	nt := &Nonterminal{Productions: make([]*Production, numProductions)}
	for i := uint32(0); i < numProductions; i++ {
		p, err := readProduction(r)
		if err != nil {
			return nil, fmt.Errorf("production %d: %w", i, err)
		}
		nt.Productions[i] = p
	}
	return nt, nil
}

func readProduction(r *reader) (*Production, error) {
	id := r.readU32()
	priority := r.readU32()
	n := r.readU32()
	if r.err != nil {
		return nil, r.err
	}
	if n > MaxProductionLength {
		return nil, fmt.Errorf("production length %d exceeds maximum %d", n, MaxProductionLength)
	}

	items := make([]int32, n)
	for i := uint32(0); i < n; i++ {
		items[i] = r.readI32()
	}
	if r.err != nil {
		return nil, r.err
	}

	return &Production{ID: id, Priority: priority, Items: items}, nil
}

// WriteBinary serializes a grammar in the same format ReadBinary accepts.
// It exists for the CLI's compile subcommand, which produces binary
// grammar files from a textual description.
func WriteBinary(w io.Writer, g *Grammar) error {
	sig := make([]byte, signatureLen)
	copy(sig, signaturePrefix)
	if _, err := w.Write(sig); err != nil {
		return fmt.Errorf("grammar: write signature: %w", err)
	}

	if err := writeU32(w, g.NumTerminals); err != nil {
		return err
	}
	if err := writeU32(w, g.NumNonterminals); err != nil {
		return err
	}
	if g.NumNonterminals == 0 {
		return nil
	}
	if err := writeI32(w, g.RootIndex); err != nil {
		return err
	}

	for idx := 0; idx < len(g.nonterminals); idx++ {
		nt := g.nonterminals[idx]
		if err := writeU32(w, uint32(len(nt.Productions))); err != nil {
			return err
		}
		for _, p := range nt.Productions {
			if len(p.Items) > MaxProductionLength {
				return fmt.Errorf("grammar: production %d exceeds maximum length %d", p.ID, MaxProductionLength)
			}
			if err := writeU32(w, p.ID); err != nil {
				return err
			}
			if err := writeU32(w, p.Priority); err != nil {
				return err
			}
			if err := writeU32(w, uint32(len(p.Items))); err != nil {
				return err
			}
			for _, item := range p.Items {
				if err := writeI32(w, item); err != nil {
					return err
				}
			}
		}
	}
	return nil
}

func writeU32(w io.Writer, v uint32) error {
	var buf [4]byte
	binary.LittleEndian.PutUint32(buf[:], v)
	_, err := w.Write(buf[:])
	return err
}

func writeI32(w io.Writer, v int32) error {
	return writeU32(w, uint32(v))
}

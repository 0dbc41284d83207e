package state

import "github.com/dhamidi/sppf/alloc"

// chunkSize is the number of State slots per arena chunk.
const chunkSize = 2048

type chunk struct {
	slots [chunkSize]State
	len   int
	prev  *chunk
}

// Arena is a bump allocator for States, organized as a linked list of
// fixed-size chunks. It supports only two shapes of deallocation: an
// LIFO "discard the most recent allocation" (cheap: a state the scanner
// rejects costs no heap residual) and a bulk free-all at parse end.
type Arena struct {
	head *chunk
}

// NewArena returns an empty arena.
func NewArena() *Arena {
	return &Arena{}
}

// Alloc bumps the index of the head chunk, allocating a new chunk first
// if the head is full or the arena is empty.
func (a *Arena) Alloc() *State {
	if a.head == nil || a.head.len == chunkSize {
		a.head = &chunk{prev: a.head}
	}
	s := &a.head.slots[a.head.len]
	a.head.len++
	alloc.Inc(alloc.State)
	return s
}

// DiscardLast undoes the most recent Alloc. s must be the most recently
// allocated slot of the head chunk; violating that is a programming
// error in the caller (push always discards immediately after a
// rejected alloc, before any other allocation happens), so this panics
// rather than silently corrupting the arena.
func (a *Arena) DiscardLast(s *State) {
	if a.head == nil || a.head.len == 0 || s != &a.head.slots[a.head.len-1] {
		panic("state: DiscardLast called on a state that is not the arena's top allocation")
	}
	s.destroy()
	*s = State{}
	a.head.len--
	alloc.Dec(alloc.State)
}

// FreeAll destroys every state still resident in the arena (running its
// destructor, which releases its forest-node reference) and releases
// every chunk.
func (a *Arena) FreeAll() {
	for c := a.head; c != nil; {
		for i := 0; i < c.len; i++ {
			c.slots[i].destroy()
			alloc.Dec(alloc.State)
		}
		prev := c.prev
		c.prev = nil
		c = prev
	}
	a.head = nil
}

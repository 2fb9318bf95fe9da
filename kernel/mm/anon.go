package mm

import "sync"

// PageSize is the page size assumed throughout the core (spec.md's
// PAGE_SIZE). A real kernel gets this from the MMU; here it is a fixed
// constant, matching the teacher corpus's practice of hard-coding a page
// size rather than discovering it (e.g. mem.PGSIZE in mit-pdos-biscuit).
const PageSize = 4096

// AnonObject is demand-zero anonymous memory: the simplest concrete
// Object, allocating a fresh zero-filled frame the first time an index is
// looked up and returning the same frame on every later lookup
// (spec.md's "demand-zero optimizations beyond what the memory-object
// contract offers" are a non-goal; this is the baseline the contract
// already implies). It is the object vmareas are backed by when no
// real backing store is wired in — grounded on the contract in spec.md
// §3/§6, since the real backing-store implementations are out of scope.
type AnonObject struct {
	mu     sync.Mutex
	frames map[uint64]*Frame
	nextPhys uintptr
}

// NewAnonObject creates an empty anonymous object.
func NewAnonObject() *AnonObject {
	return &AnonObject{frames: make(map[uint64]*Frame)}
}

// Lookup satisfies Object. forWrite is accepted per the contract but
// doesn't change behavior here: an anonymous object has no shadow chain
// of its own, it *is* the bottom of one.
func (o *AnonObject) Lookup(index uint64, forWrite bool) (*Frame, error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	f, ok := o.frames[index]
	if !ok {
		o.nextPhys++
		f = &Frame{Phys: o.nextPhys, Data: make([]byte, PageSize)}
		o.frames[index] = f
	}
	return f, nil
}

package mm

import "sync"

// ShadowObject layers copy-on-write over a parent Object (spec.md §3's
// "shadow" objects). A read with no private copy falls through to the
// parent; a write allocates (or reuses) a private frame, duplicating the
// parent's content the first time, so the parent and any sibling shadow
// stay untouched. Chains of ShadowObjects realize fork-style private
// address spaces: each child gets its own topmost shadow over a shared
// grandparent.
type ShadowObject struct {
	mu     sync.Mutex
	parent Object
	own    map[uint64]*Frame
	nextPhys uintptr
}

// NewShadowObject creates a shadow layered over parent.
func NewShadowObject(parent Object) *ShadowObject {
	return &ShadowObject{parent: parent, own: make(map[uint64]*Frame)}
}

// Lookup satisfies Object. When forWrite is true the returned frame
// always belongs to this object (the topmost writable object in the
// chain, per spec.md §3); when false it returns this object's own frame
// if it has one, otherwise falls through to the parent, which may itself
// be another shadow.
func (o *ShadowObject) Lookup(index uint64, forWrite bool) (*Frame, error) {
	o.mu.Lock()
	defer o.mu.Unlock()

	if f, ok := o.own[index]; ok {
		return f, nil
	}
	if !forWrite {
		return o.parent.Lookup(index, false)
	}

	src, err := o.parent.Lookup(index, false)
	if err != nil {
		return nil, err
	}
	o.nextPhys++
	f := &Frame{Phys: o.nextPhys, Data: make([]byte, len(src.Data))}
	copy(f.Data, src.Data)
	o.own[index] = f
	return f, nil
}

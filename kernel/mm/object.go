// Package mm models the memory-object and page-frame contract spec.md
// §3/§6 treats as a consumed abstraction: "an opaque producer of page
// frames indexed by object-relative page number". The backing stores
// themselves (anonymous pages, file-backed pages) are explicitly out of
// scope (spec.md §1); this package supplies only the contract plus the
// minimal concrete object (AnonObject) and shadow layering (ShadowObject,
// see shadow.go) needed to exercise the fault path and its copy-on-write
// behavior in tests.
package mm

import "errors"

// ErrBacking is returned by Object.Lookup when the backing store cannot
// produce a frame (spec.md §4.2 step 3: "On error, terminate with
// EFAULT").
var ErrBacking = errors.New("mm: backing store error")

// Frame is a page frame: a physical-memory address plus a dirty flag
// settable through Dirty (spec.md §3). Data is a host-side simulation of
// the bytes that address holds — the real kernel doesn't need this field
// (physical memory is addressed, not modeled as a Go slice), but nothing
// in this core has a real MMU, so Data is what lets ShadowObject actually
// duplicate contents on a copy-on-write fault and what lets tests assert
// on page contents.
type Frame struct {
	Phys  uintptr
	Data  []byte
	dirty bool
}

// Dirty marks the frame dirty. Matches the consumed dirty(frame) -> errno
// primitive (spec.md §6); it cannot fail in this implementation, but
// keeps the error-returning shape the contract specifies.
func (f *Frame) Dirty() error {
	f.dirty = true
	return nil
}

// IsDirty reports whether Dirty has ever been called on this frame.
func (f *Frame) IsDirty() bool { return f.dirty }

// Object is the memory-object contract: lookup(obj, page_index, for_write)
// -> frame | error (spec.md §3). Implementations support copy-on-write by
// layering ShadowObjects over a shared parent.
type Object interface {
	Lookup(index uint64, forWrite bool) (*Frame, error)
}

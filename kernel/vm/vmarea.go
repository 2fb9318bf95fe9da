// Package vm implements the page-fault handler and heap-break manager
// (spec.md §4.2, §4.3): the fault path that turns a faulting user address
// into a page-table mapping through a per-process address-space map, and
// the brk manager that grows/shrinks the heap vmarea. It also owns the
// address-space map types (VMMap, VMArea) — spec.md §3 treats the vmmap
// as a Process attribute, but the fault handler and brk manager are the
// only code that ever walks or mutates it, so it lives alongside them
// rather than in kernel/proc (see DESIGN.md for why: kernel/proc.Process
// needs a *VMMap field, and the fault/brk algorithms need to call back
// into the owning process to report failure, so one of the two packages
// has to consume the other's type through an interface rather than a
// concrete import; Process below is that interface, declared on the
// consumer side per the usual Go idiom).
package vm

import "weenixgo/kernel/mm"

// Prot is the permission bitmask an area grants (spec.md §3).
type Prot uint8

const (
	ProtNone  Prot = 0
	ProtRead  Prot = 1 << 0
	ProtWrite Prot = 1 << 1
	ProtExec  Prot = 1 << 2
)

// VMArea covers a half-open page range [Start, End) in a process's
// virtual page-number space (spec.md §3). Offset is expressed in pages
// into Obj. Areas never overlap within a VMMap.
type VMArea struct {
	Start, End uint64
	Prot       Prot
	Offset     uint64
	Obj        mm.Object
}

// Contains reports whether page falls inside the area's range.
func (a *VMArea) Contains(page uint64) bool { return page >= a.Start && page < a.End }

// Pages returns the area's length in pages.
func (a *VMArea) Pages() uint64 { return a.End - a.Start }

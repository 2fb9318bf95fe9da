package vm

import (
	"errors"

	"weenixgo/kernel/kassert"
	"weenixgo/kernel/mm"
)

// ErrNoMem is -ENOMEM (spec.md §4.3/§7).
var ErrNoMem = errors.New("vm: ENOMEM")

// pageOf returns the page number containing addr.
func pageOf(addr uint64) uint64 { return addr / mm.PageSize }

// Brk implements the brk(addr) -> new_break operation (spec.md §4.3).
// hasAddr false models the null-pointer case: "return current brk; never
// fails".
func Brk(p Process, hasAddr bool, addr uint64, userMemHigh uint64) (uint64, error) {
	if !hasAddr {
		return p.Brk(), nil
	}
	if addr < p.StartBrk() {
		return 0, ErrNoMem
	}
	if addr >= userMemHigh {
		return 0, ErrNoMem
	}
	if addr == p.Brk() {
		return addr, nil
	}

	area := p.Map().Lookup(pageOf(p.StartBrk()))
	kassert.True(area != nil, "no vmarea covers start_brk; heap area must exist")

	newEnd := pageOf(addr-1) + 1
	if newEnd <= area.End {
		area.End = newEnd
	} else {
		if !p.Map().RangeEmpty(area.End, newEnd) {
			return 0, ErrNoMem
		}
		area.End = newEnd
	}

	p.SetBrk(addr)
	return addr, nil
}

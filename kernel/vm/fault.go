package vm

import (
	"weenixgo/kernel/kassert"
	"weenixgo/kernel/klog"
	"weenixgo/kernel/mm"
)

// Cause bits, mirroring spec.md §6: bit 0 write-fault, bit 1 user mode
// (guaranteed set by the trap dispatcher before HandlePageFault is ever
// called — this core has no kernel-mode fault path), bit 2 exec-fault.
const (
	CauseWrite uint32 = 1 << 0
	CauseUser  uint32 = 1 << 1
	CauseExec  uint32 = 1 << 2
)

// EFAULT is the exit status every failure path in the fault handler uses
// (spec.md §7).
const EFAULT = 14

// HandlePageFault is the entry point the low-level trap dispatcher calls
// once it has verified the fault came from user mode (spec.md §4.2). It
// either installs a mapping and returns, or calls p.Exit and never
// returns to its own caller in the normal case — any statement reachable
// only past a call to p.Exit in this function is dead code kept solely so
// the function has a well-formed shape; Exit's non-returning contract
// (see Process) is what actually prevents it from running.
func HandlePageFault(p Process, vaddr uint64, cause uint32) {
	pagenum := vaddr / mm.PageSize

	area := p.Map().Lookup(pagenum)
	if area == nil {
		klog.Warnf("pagefault: vaddr=%#x has no vmarea, killing process", vaddr)
		p.Exit(EFAULT)
		return
	}

	writeFault := cause&CauseWrite != 0
	execFault := cause&CauseExec != 0

	required := ProtRead
	if writeFault {
		required = ProtWrite
	}
	if execFault {
		required |= ProtExec
	}
	if area.Prot&required != required {
		klog.Warnf("pagefault: vaddr=%#x missing permission %v on area prot %v", vaddr, required, area.Prot)
		p.Exit(EFAULT)
		return
	}

	objIndex := pagenum - area.Start + area.Offset
	frame, err := area.Obj.Lookup(objIndex, writeFault)
	if err != nil {
		klog.Warnf("pagefault: vaddr=%#x backing lookup failed: %v", vaddr, err)
		p.Exit(EFAULT)
		return
	}
	kassert.True(frame != nil, "memory object lookup succeeded but returned a nil frame")

	if writeFault {
		kassert.True(frame.Dirty() == nil, "dirty() failed on a successfully looked-up frame")
	}

	flags := PTEPresent | PTEUser
	if writeFault {
		flags |= PTEWrite
	}
	if err := p.PageTable().Map(pagenum, frame.Phys, flags); err != nil {
		kassert.True(false, "page table map failed for vaddr=%#x: %v", vaddr, err)
	}
}

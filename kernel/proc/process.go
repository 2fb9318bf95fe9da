// Package proc supplies the minimal process/exit collaborator spec.md §1
// places out of scope except for exit-on-fault (SPEC_FULL.md §9): just
// enough process bookkeeping (pid, address-space map, brk, exit status)
// to make kernel/vm's fault handler and brk manager observable end to
// end, without implementing process creation, fork, or reaping.
package proc

import (
	"runtime"

	"weenixgo/kernel/sched"
	"weenixgo/kernel/vm"
)

// Process is the core's process: the address-space map, page-table
// handle, heap bounds, and exit status spec.md §3 lists as the
// attributes the core touches. It implements kernel/vm.Process.
type Process struct {
	Pid   int
	Sched *sched.Scheduler

	vmmap *vm.VMMap
	pt    vm.PageTable

	startBrk uint64
	brk      uint64

	ExitStatus int
	exited     bool
}

// New creates a process with an empty address-space map and brk pinned at
// startBrk (spec.md §3: "start-brk... immutable address set by the
// loader... brk... current heap end, >= start-brk").
func New(pid int, s *sched.Scheduler, pt vm.PageTable, startBrk uint64) *Process {
	return &Process{
		Pid:      pid,
		Sched:    s,
		vmmap:    vm.NewVMMap(),
		pt:       pt,
		startBrk: startBrk,
		brk:      startBrk,
	}
}

func (p *Process) Map() *vm.VMMap          { return p.vmmap }
func (p *Process) PageTable() vm.PageTable { return p.pt }
func (p *Process) StartBrk() uint64        { return p.startBrk }
func (p *Process) Brk() uint64             { return p.brk }
func (p *Process) SetBrk(addr uint64)      { p.brk = addr }

// Exited reports whether Exit has been called.
func (p *Process) Exited() bool { return p.exited }

// Exit records status and terminates the calling kernel thread
// (spec.md §4.2/§7: the fault path "kills the faulting process... and
// never returns"). It hands the CPU to the next runnable thread via the
// scheduler and then calls runtime.Goexit on the current goroutine, so
// any code in the caller's stack past this call provably never runs —
// the Go rendering of spec.md §9's "divergent return type" note, since
// Go itself has no noreturn annotation on regular functions.
func (p *Process) Exit(status int) {
	p.ExitStatus = status
	p.exited = true

	t := p.Sched.Current()
	p.Sched.Terminate(t)
	runtime.Goexit()
}

package vm

import (
	"errors"
	"testing"

	"weenixgo/kernel/mm"
)

// fakePageTable records every Map call so tests can assert on installed
// flags without a real MMU.
type fakePageTable struct {
	calls []pteCall
}

type pteCall struct {
	pagenum uint64
	phys    uintptr
	flags   PTEFlags
}

func (pt *fakePageTable) Map(pagenum uint64, phys uintptr, flags PTEFlags) error {
	pt.calls = append(pt.calls, pteCall{pagenum, phys, flags})
	return nil
}

// fakeProcess is a minimal Process for exercising HandlePageFault and Brk
// without kernel/proc (which imports this package, so importing it from
// this package's own tests would be an import cycle).
type fakeProcess struct {
	vmmap    *VMMap
	pt       *fakePageTable
	startBrk uint64
	brk      uint64
	exited   bool
	exitCode int
}

func newFakeProcess() *fakeProcess {
	return &fakeProcess{vmmap: NewVMMap(), pt: &fakePageTable{}}
}

func (p *fakeProcess) Map() *VMMap          { return p.vmmap }
func (p *fakeProcess) PageTable() PageTable { return p.pt }
func (p *fakeProcess) StartBrk() uint64     { return p.startBrk }
func (p *fakeProcess) Brk() uint64          { return p.brk }
func (p *fakeProcess) SetBrk(addr uint64)   { p.brk = addr }
func (p *fakeProcess) Exit(status int) {
	p.exited = true
	p.exitCode = status
}

// S1: fault, read-only mapping, read access.
func TestHandlePageFaultReadOnlyRead(t *testing.T) {
	p := newFakeProcess()
	obj := mm.NewAnonObject()
	area := &VMArea{Start: 10, End: 20, Prot: ProtRead, Offset: 0, Obj: obj}
	if err := p.Map().Insert(area); err != nil {
		t.Fatal(err)
	}

	vaddr := 10*mm.PageSize + 7
	HandlePageFault(p, uint64(vaddr), 0 /* read fault */)

	if p.exited {
		t.Fatalf("expected no exit, got exit(%d)", p.exitCode)
	}
	if len(p.pt.calls) != 1 {
		t.Fatalf("expected one Map call, got %d", len(p.pt.calls))
	}
	call := p.pt.calls[0]
	if call.pagenum != 10 {
		t.Fatalf("expected pagenum 10, got %d", call.pagenum)
	}
	if call.flags != PTEPresent|PTEUser {
		t.Fatalf("expected {present,user} with no write flag, got %v", call.flags)
	}
	f, _ := obj.Lookup(0, false)
	if f.IsDirty() {
		t.Fatal("expected no dirty call on a read fault")
	}
}

// S2: fault, write to writable mapping.
func TestHandlePageFaultWritableWrite(t *testing.T) {
	p := newFakeProcess()
	obj := mm.NewAnonObject()
	area := &VMArea{Start: 10, End: 20, Prot: ProtRead | ProtWrite, Offset: 0, Obj: obj}
	if err := p.Map().Insert(area); err != nil {
		t.Fatal(err)
	}

	vaddr := 10*mm.PageSize + 7
	HandlePageFault(p, uint64(vaddr), CauseWrite)

	if p.exited {
		t.Fatalf("expected no exit, got exit(%d)", p.exitCode)
	}
	call := p.pt.calls[0]
	if call.flags != PTEPresent|PTEUser|PTEWrite {
		t.Fatalf("expected write flag set, got %v", call.flags)
	}
	f, _ := obj.Lookup(0, true)
	if !f.IsDirty() {
		t.Fatal("expected dirty() to have been called")
	}
}

// S3: fault, write to read-only mapping.
func TestHandlePageFaultWriteToReadOnlyKills(t *testing.T) {
	p := newFakeProcess()
	obj := mm.NewAnonObject()
	area := &VMArea{Start: 10, End: 20, Prot: ProtRead, Offset: 0, Obj: obj}
	if err := p.Map().Insert(area); err != nil {
		t.Fatal(err)
	}

	vaddr := 10*mm.PageSize + 7
	HandlePageFault(p, uint64(vaddr), CauseWrite)

	if !p.exited || p.exitCode != EFAULT {
		t.Fatalf("expected exit(EFAULT), got exited=%v code=%d", p.exited, p.exitCode)
	}
	if len(p.pt.calls) != 0 {
		t.Fatal("expected no mapping installed")
	}
}

// S4: fault, no such area.
func TestHandlePageFaultNoAreaKills(t *testing.T) {
	p := newFakeProcess()
	HandlePageFault(p, uint64(5*mm.PageSize), 0)

	if !p.exited || p.exitCode != EFAULT {
		t.Fatalf("expected exit(EFAULT), got exited=%v code=%d", p.exited, p.exitCode)
	}
}

func TestHandlePageFaultBackingErrorKills(t *testing.T) {
	p := newFakeProcess()
	area := &VMArea{Start: 0, End: 10, Prot: ProtRead, Obj: errObject{}}
	if err := p.Map().Insert(area); err != nil {
		t.Fatal(err)
	}
	HandlePageFault(p, 0, 0)
	if !p.exited || p.exitCode != EFAULT {
		t.Fatalf("expected exit(EFAULT) on backing error, got exited=%v code=%d", p.exited, p.exitCode)
	}
}

type errObject struct{}

func (errObject) Lookup(index uint64, forWrite bool) (*mm.Frame, error) {
	return nil, errors.New("simulated backing failure")
}

// S5: brk grow with space.
func TestBrkGrowWithSpace(t *testing.T) {
	p := newFakeProcess()
	p.startBrk = 0x1000
	p.brk = 0x1000
	heap := &VMArea{Start: 1, End: 2, Prot: ProtRead | ProtWrite, Obj: mm.NewAnonObject()}
	if err := p.Map().Insert(heap); err != nil {
		t.Fatal(err)
	}

	got, err := Brk(p, true, 0x3500, 0x80000000)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != 0x3500 || p.brk != 0x3500 {
		t.Fatalf("expected brk 0x3500, got %#x (process brk %#x)", got, p.brk)
	}
	if heap.End != 4 {
		t.Fatalf("expected area.End == 4, got %d", heap.End)
	}
}

// S6: brk grow into occupied range.
func TestBrkGrowIntoOccupiedRangeFails(t *testing.T) {
	p := newFakeProcess()
	p.startBrk = 0x1000
	p.brk = 0x1000
	heap := &VMArea{Start: 1, End: 2, Prot: ProtRead | ProtWrite, Obj: mm.NewAnonObject()}
	other := &VMArea{Start: 3, End: 5, Prot: ProtRead, Obj: mm.NewAnonObject()}
	if err := p.Map().Insert(heap); err != nil {
		t.Fatal(err)
	}
	if err := p.Map().Insert(other); err != nil {
		t.Fatal(err)
	}

	_, err := Brk(p, true, 0x3500, 0x80000000)
	if !errors.Is(err, ErrNoMem) {
		t.Fatalf("expected ErrNoMem, got %v", err)
	}
	if p.brk != 0x1000 {
		t.Fatalf("expected brk unchanged, got %#x", p.brk)
	}
	if heap.End != 2 {
		t.Fatalf("expected area.End unchanged, got %d", heap.End)
	}
}

// Property 6 (testable properties §8): brk(nil) round-trips without side
// effects and is idempotent.
func TestBrkNullReturnsCurrentBrk(t *testing.T) {
	p := newFakeProcess()
	p.startBrk = 0x1000
	p.brk = 0x2000

	got1, err := Brk(p, false, 0, 0x80000000)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got2, err := Brk(p, false, 0, 0x80000000)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got1 != 0x2000 || got2 != 0x2000 {
		t.Fatalf("expected both calls to return 0x2000, got %#x and %#x", got1, got2)
	}
	if p.brk != 0x2000 {
		t.Fatal("expected brk(nil) to have no side effects")
	}
}

func TestBrkShrink(t *testing.T) {
	p := newFakeProcess()
	p.startBrk = 0x1000
	p.brk = 0x4000
	heap := &VMArea{Start: 1, End: 4, Prot: ProtRead | ProtWrite, Obj: mm.NewAnonObject()}
	if err := p.Map().Insert(heap); err != nil {
		t.Fatal(err)
	}

	got, err := Brk(p, true, 0x1800, 0x80000000)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != 0x1800 {
		t.Fatalf("expected 0x1800, got %#x", got)
	}
	if heap.End != 2 {
		t.Fatalf("expected area.End shrunk to 2, got %d", heap.End)
	}
}

func TestBrkBelowStartBrkFails(t *testing.T) {
	p := newFakeProcess()
	p.startBrk = 0x1000
	p.brk = 0x1000
	if _, err := Brk(p, true, 0x500, 0x80000000); !errors.Is(err, ErrNoMem) {
		t.Fatalf("expected ErrNoMem, got %v", err)
	}
}

func TestBrkAboveUserMemHighFails(t *testing.T) {
	p := newFakeProcess()
	p.startBrk = 0x1000
	p.brk = 0x1000
	if _, err := Brk(p, true, 0x80001000, 0x80000000); !errors.Is(err, ErrNoMem) {
		t.Fatalf("expected ErrNoMem, got %v", err)
	}
}

func TestVMMapDisjointInvariant(t *testing.T) {
	m := NewVMMap()
	if err := m.Insert(&VMArea{Start: 0, End: 5}); err != nil {
		t.Fatal(err)
	}
	if err := m.Insert(&VMArea{Start: 5, End: 10}); err != nil {
		t.Fatal(err)
	}
	if err := m.Insert(&VMArea{Start: 4, End: 6}); !errors.Is(err, ErrOverlap) {
		t.Fatalf("expected ErrOverlap, got %v", err)
	}

	areas := m.Areas()
	for i := 1; i < len(areas); i++ {
		if areas[i-1].End > areas[i].Start {
			t.Fatalf("areas overlap: %+v then %+v", areas[i-1], areas[i])
		}
	}
}

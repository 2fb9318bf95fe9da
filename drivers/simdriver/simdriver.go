// Package simdriver is an in-memory tty driver (SPEC_FULL.md §2): it
// implements kernel/tty.Driver by appending ProvideChar output to a
// buffer instead of driving real hardware, and by exposing Feed so test
// code or a keyboard-polling goroutine can inject input bytes exactly the
// way a real keyboard interrupt handler invokes the tty callback.
// Grounded on the teacher's hal package split between a simulated host
// backend and a real hardware backend: this is the "simulated" half,
// generalized from a framebuffer console driver to a byte-stream tty
// driver.
package simdriver

import (
	"sync"
	"sync/atomic"
)

// Driver is a software tty driver. outMu guards the output buffer, shared
// between Feed's callback-driven echo and TTY.Write's own echo loop.
//
// BlockIO/UnblockIO deliberately do NOT exclude Feed. spec.md §4.4's
// rationale for the token pattern is preventing a concurrent
// interrupt-driven keystroke from corrupting the line discipline's
// buffer while tty_read/tty_write are touching it — but TTY.Read holds
// its BlockIO token across the line discipline's Read call, which can
// itself sleep waiting for a line. On real hardware that's safe: IPL
// masking disables a specific interrupt source, but the CPU still
// services other work, and nothing about a software thread being
// "asleep" stops the masked interrupt from eventually firing once
// unmasked. In this goroutine-based model there is no separate
// interrupt context to preempt anything; sharing a lock between Feed and
// BlockIO would mean a blocked reader permanently starves the very
// keystroke that would wake it. The real exclusion this core needs is
// already provided by kernel/tty.NTTY's own mutex around cur/lines, so
// BlockIO/UnblockIO here are kept as a token pair purely for interface
// fidelity: blocked tracks nesting depth for debugging, not for mutual
// exclusion against Feed.
type Driver struct {
	blocked atomic.Int32

	outMu sync.Mutex
	out   []byte

	cb func(byte)
}

// New creates a driver with no callback registered and an empty output
// buffer.
func New() *Driver {
	return &Driver{}
}

// RegisterCallback satisfies kernel/tty.Driver.
func (d *Driver) RegisterCallback(fn func(byte)) error {
	d.cb = fn
	return nil
}

// ProvideChar satisfies kernel/tty.Driver: append c to the simulated
// screen/output buffer.
func (d *Driver) ProvideChar(c byte) {
	d.outMu.Lock()
	defer d.outMu.Unlock()
	d.out = append(d.out, c)
}

// Output drains and returns everything written to the driver since the
// last call, the way a real driver would have already pushed its output
// to the screen.
func (d *Driver) Output() []byte {
	d.outMu.Lock()
	defer d.outMu.Unlock()
	out := d.out
	d.out = nil
	return out
}

// BlockIO satisfies kernel/tty.Driver. The token is the depth BlockIO was
// entered at (SPEC_FULL.md §9), tracked for fidelity to the opaque-token
// contract — nothing actually excludes Feed on it; see the package-level
// doc comment.
func (d *Driver) BlockIO() any {
	return d.blocked.Add(1)
}

// UnblockIO satisfies kernel/tty.Driver: restore the saved depth.
func (d *Driver) UnblockIO(token any) {
	d.blocked.Add(-1)
}

// Feed plays c into the driver's registered callback, the way a keyboard
// interrupt handler calls tty_callback on key press. Does not wait on
// BlockIO — see the package-level doc comment for why.
func (d *Driver) Feed(c byte) {
	if d.cb != nil {
		d.cb(c)
	}
}

// Package tty implements the terminal layer (spec.md §4.4): the
// line-discipline-mediated path between a keyboard-driven driver callback
// and blocking user reads/writes, exposed as a byte-device read/write
// pair.
package tty

// Major is the byte-device major number ttys register under
// (spec.md §6: "major=TTY_MAJOR").
const Major = 4

// Driver is the consumed driver contract (spec.md §6): registering the
// callback the tty layer's input path is invoked through, pushing echoed
// bytes back out, and the block/unblock-io pair bracketing every read and
// write, mirroring a real driver's own interrupt-masking discipline
// around the window where the tty layer is touching shared state.
//
// BlockIO's token is opaque to this package by design (spec.md §4.4's
// rationale: "the tty layer [need not] understand" the driver's own
// masking state) — a concrete driver is free to make it whatever it
// needs. Note that TTY.Read holds its token across a call that may
// itself sleep; a driver whose BlockIO actually excludes its own input
// delivery would deadlock a blocking read against itself, so
// drivers/simdriver's token tracks nesting for fidelity without actually
// excluding its keyboard-feed path (see that package's doc comment) —
// the real exclusion this core needs is the line discipline's own lock.
type Driver interface {
	RegisterCallback(fn func(c byte)) error
	ProvideChar(c byte)
	BlockIO() (token any)
	UnblockIO(token any)
}

// LineDiscipline is the consumed line-discipline contract (spec.md §6).
type LineDiscipline interface {
	Attach(t *TTY)
	ReceiveChar(c byte) string
	ProcessChar(c byte) string
	Read(buf []byte, count int) (int, error)
}

// TTY is a tty device: a driver handle, a line-discipline handle
// (installed after creation), and device id (spec.md §4.4, §3).
type TTY struct {
	Driver Driver
	Ldisc  LineDiscipline
	Minor  int
}

// Create allocates a tty device bound to driver and assigns it
// (Major, id) (spec.md §4.4: "tty_create"). The line discipline is left
// nil; callers install one with Attach.
func Create(driver Driver, id int) *TTY {
	t := &TTY{Driver: driver, Minor: id}
	driver.RegisterCallback(t.callback)
	return t
}

// Attach installs ld as the tty's line discipline (spec.md §3: "line
// discipline handle (installed after creation)").
func (t *TTY) Attach(ld LineDiscipline) {
	t.Ldisc = ld
	ld.Attach(t)
}

// callback is the input path (spec.md §4.4): the driver invokes this on
// every key press. It forwards the byte to the line discipline and
// echoes back whatever string ReceiveChar returns, one byte at a time.
func (t *TTY) callback(c byte) {
	echo := t.Ldisc.ReceiveChar(c)
	for i := 0; i < len(echo); i++ {
		t.Driver.ProvideChar(echo[i])
	}
}

// Read is the read path (spec.md §4.4): block driver I/O, delegate to the
// line discipline (which may sleep until a line is ready), unblock.
func (t *TTY) Read(buf []byte, count int) (int, error) {
	token := t.Driver.BlockIO()
	defer t.Driver.UnblockIO(token)
	return t.Ldisc.Read(buf, count)
}

// Write is the write path (spec.md §4.4): block driver I/O, feed each
// input byte through ProcessChar and echo the result, unblock. Returns
// the number of input bytes processed, not the number of output bytes
// echoed.
//
// Per spec.md §9's documented open question, Write stops at an embedded
// NUL byte inside buf rather than iterating exactly count bytes — matching
// the original's observed (if possibly unintentional) behavior rather
// than silently making the write binary-safe.
func (t *TTY) Write(buf []byte, count int) (int, error) {
	token := t.Driver.BlockIO()
	defer t.Driver.UnblockIO(token)

	n := 0
	for n < count && n < len(buf) {
		if buf[n] == 0 {
			break
		}
		echo := t.Ldisc.ProcessChar(buf[n])
		for i := 0; i < len(echo); i++ {
			t.Driver.ProvideChar(echo[i])
		}
		n++
	}
	return n, nil
}

package tty

import (
	"strings"
	"sync"

	"weenixgo/kernel/sched"
)

// Control characters the discipline gives special meaning (SPEC_FULL.md
// §9's n_tty supplement): backspace/delete erase one buffered character,
// Ctrl-U kills the whole in-progress line, Ctrl-D at the start of a line
// signals end-of-file, and \r/\n terminate a line.
const (
	chBackspace = 0x08
	chDelete    = 0x7f
	chKillLine  = 0x15 // Ctrl-U
	chEOF       = 0x04 // Ctrl-D
)

// NTTY is the default line discipline (SPEC_FULL.md §9): a classic Unix
// n_tty realized over kernel/sched's wait-queue primitive. A completed
// line (newline-terminated, or a standalone EOF marker) is queued for
// Read; the in-progress line lives in cur until then.
type NTTY struct {
	sched *sched.Scheduler
	tty   *TTY

	mu      sync.Mutex
	cur     []byte
	lines   [][]byte // nil entry == EOF marker
	pending []byte   // unread remainder of the line currently being drained
	readyQ  *sched.Queue
}

// NewNTTY creates a line discipline that sleeps/wakes readers through s.
func NewNTTY(s *sched.Scheduler) *NTTY {
	return &NTTY{sched: s, readyQ: sched.NewQueue()}
}

// Attach satisfies LineDiscipline.
func (n *NTTY) Attach(t *TTY) { n.tty = t }

// ReceiveChar satisfies LineDiscipline's input-path half (spec.md §4.4):
// buffer c into the in-progress line (or act on it as a control
// character) and return the echo string the driver should display.
func (n *NTTY) ReceiveChar(c byte) string {
	n.mu.Lock()
	defer n.mu.Unlock()

	switch c {
	case chBackspace, chDelete:
		if len(n.cur) == 0 {
			return ""
		}
		n.cur = n.cur[:len(n.cur)-1]
		return "\b \b"

	case chKillLine:
		erased := len(n.cur)
		n.cur = n.cur[:0]
		return strings.Repeat("\b \b", erased)

	case chEOF:
		if len(n.cur) != 0 {
			return ""
		}
		n.queueLocked(nil)
		return ""

	case '\r', '\n':
		line := append(n.cur, '\n')
		n.cur = nil
		n.queueLocked(line)
		return "\r\n"

	default:
		n.cur = append(n.cur, c)
		return string(c)
	}
}

// ProcessChar satisfies LineDiscipline's output-path half (spec.md §4.4):
// expand one output byte into the string the driver should display, e.g.
// \n -> \r\n.
func (n *NTTY) ProcessChar(c byte) string {
	if c == '\n' {
		return "\r\n"
	}
	return string(c)
}

// queueLocked appends a completed line (or an EOF marker, nil) and wakes
// one blocked reader. Caller must hold n.mu.
func (n *NTTY) queueLocked(line []byte) {
	n.lines = append(n.lines, line)
	n.sched.WakeupOn(n.readyQ)
}

// Read satisfies LineDiscipline.Read (spec.md §4.4): block until at least
// one line is ready, then copy up to count bytes into buf, returning the
// number of bytes actually transferred. A line longer than count is
// drained across multiple Read calls; reaching an EOF marker returns 0.
func (n *NTTY) Read(buf []byte, count int) (int, error) {
	n.mu.Lock()
	for len(n.pending) == 0 && len(n.lines) == 0 {
		n.sched.SleepOnLocked(n.readyQ, n.mu.Unlock)
		n.mu.Lock()
	}
	defer n.mu.Unlock()

	if len(n.pending) == 0 {
		line := n.lines[0]
		n.lines = n.lines[1:]
		if line == nil {
			return 0, nil
		}
		n.pending = line
	}

	k := count
	if k > len(buf) {
		k = len(buf)
	}
	if k > len(n.pending) {
		k = len(n.pending)
	}
	copy(buf, n.pending[:k])
	n.pending = n.pending[k:]
	return k, nil
}

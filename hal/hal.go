// Package hal isolates the host-specific keyboard and window code the
// terminal demo (cmd/hostterm) needs from the platform-agnostic kernel
// packages. Nothing under kernel/ imports this package; it exists purely
// to give the driver/keyboard "external collaborator" spec.md places out
// of scope a concrete, runnable host implementation.
package hal

// KeyCode identifies a non-printable key.
type KeyCode uint16

const (
	KeyUnknown KeyCode = iota
	KeyUp
	KeyDown
	KeyLeft
	KeyRight
	KeyEnter
	KeyEscape
	KeyBackspace
	KeyTab
	KeyDelete
)

// KeyEvent is a single keyboard event: either a printable rune or a
// non-printable KeyCode, never both.
type KeyEvent struct {
	Code  KeyCode
	Rune  rune
	Press bool
}

// Byte renders the event as the single byte a real keyboard driver would
// hand to the tty callback, or ok=false if the event carries no byte
// payload (e.g. a key release, or a navigation key the line discipline
// below doesn't understand).
func (e KeyEvent) Byte() (b byte, ok bool) {
	if !e.Press {
		return 0, false
	}
	if e.Rune != 0 {
		return byte(e.Rune), true
	}
	switch e.Code {
	case KeyEnter:
		return '\n', true
	case KeyBackspace:
		return 0x7f, true
	case KeyTab:
		return '\t', true
	case KeyEscape:
		return 0x1b, true
	default:
		return 0, false
	}
}

// Keyboard is a stream of key events.
type Keyboard interface {
	Events() <-chan KeyEvent
}

// Input exposes the keyboard device (and, in a fuller HAL, the rest of
// the input surface; the core only needs the keyboard).
type Input interface {
	Keyboard() Keyboard
}

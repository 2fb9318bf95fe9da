//go:build !tinygo

package hal

import (
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

// HostKeyboard polls ebiten's input state once per game tick and turns it
// into KeyEvents on a buffered channel, grounded on the teacher's
// hal/host_keyboard.go (same ebiten.AppendInputChars + inpututil pattern,
// trimmed to the keys a line discipline actually cares about).
type HostKeyboard struct {
	ch chan KeyEvent
}

// NewHostKeyboard creates a keyboard fed by Poll.
func NewHostKeyboard() *HostKeyboard {
	return &HostKeyboard{ch: make(chan KeyEvent, 64)}
}

func (k *HostKeyboard) Events() <-chan KeyEvent { return k.ch }

// Poll must be called once per ebiten.Game.Update tick.
func (k *HostKeyboard) Poll() {
	emit := func(ev KeyEvent) {
		select {
		case k.ch <- ev:
		default:
		}
	}

	for _, r := range ebiten.AppendInputChars(nil) {
		emit(KeyEvent{Press: true, Rune: r})
	}

	press := func(key ebiten.Key, code KeyCode) {
		if inpututil.IsKeyJustPressed(key) {
			emit(KeyEvent{Press: true, Code: code})
		}
	}
	press(ebiten.KeyEnter, KeyEnter)
	press(ebiten.KeyBackspace, KeyBackspace)
	press(ebiten.KeyTab, KeyTab)
	press(ebiten.KeyEscape, KeyEscape)

	if inpututil.IsKeyJustPressed(ebiten.KeyU) &&
		(ebiten.IsKeyPressed(ebiten.KeyControlLeft) || ebiten.IsKeyPressed(ebiten.KeyControlRight)) {
		emit(KeyEvent{Press: true, Rune: 0x15}) // Ctrl-U: kill line
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyD) &&
		(ebiten.IsKeyPressed(ebiten.KeyControlLeft) || ebiten.IsKeyPressed(ebiten.KeyControlRight)) {
		emit(KeyEvent{Press: true, Rune: 0x04}) // Ctrl-D: EOF
	}
}

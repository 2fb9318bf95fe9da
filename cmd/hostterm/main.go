//go:build !tinygo

// Command hostterm is the host demo binary: a real window wired to the
// terminal layer, grounded on the teacher's main_host.go +
// hal/host_keyboard.go + hal/host_window.go trio (SPEC_FULL.md §2),
// repurposed from a framebuffer console into a scrolling text terminal.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"

	"weenixgo/drivers/simdriver"
	"weenixgo/hal"
	"weenixgo/kernel/sched"
	"weenixgo/kernel/tty"
)

// game wires a real window to the tty layer: keystrokes flow in through
// hal's ebiten-backed keyboard and drivers/simdriver's Feed, the same
// path a keyboard interrupt handler would drive the tty callback; the
// text the line discipline echoes back (including the toy shell's
// replies) is drawn with the window's debug font.
type game struct {
	kbd    *hal.HostKeyboard
	driver *simdriver.Driver
	lines  []string
	cur    string
}

func (g *game) Update() error {
	g.kbd.Poll()
	for _, b := range g.driver.Output() {
		switch b {
		case '\r':
			// \n immediately follows and advances the line; drop the CR.
		case '\n':
			g.lines = append(g.lines, g.cur)
			g.cur = ""
			if len(g.lines) > 24 {
				g.lines = g.lines[len(g.lines)-24:]
			}
		default:
			g.cur += string(b)
		}
	}
	return nil
}

func (g *game) Draw(screen *ebiten.Image) {
	text := ""
	for _, l := range g.lines {
		text += l + "\n"
	}
	text += g.cur
	ebitenutil.DebugPrint(screen, text)
}

func (g *game) Layout(outsideWidth, outsideHeight int) (int, int) { return 640, 480 }

// shellLoop is a toy kernel thread exercising the tty read/write path end
// to end: it blocks in t.Read until a line is ready, then echoes it back
// prefixed, round-tripping through the same line discipline that handles
// raw keystrokes.
func shellLoop(t *tty.TTY) {
	buf := make([]byte, 256)
	for {
		n, err := t.Read(buf, len(buf))
		if err != nil {
			return
		}
		if n == 0 {
			continue // EOF marker (Ctrl-D); a real shell would exit here.
		}
		reply := append([]byte("> "), buf[:n]...)
		t.Write(reply, len(reply))
	}
}

func main() {
	s := sched.New()
	s.Bootstrap("idle")
	go func() {
		for {
			s.Switch()
		}
	}()

	driver := simdriver.New()
	t := tty.Create(driver, 0)
	t.Attach(tty.NewNTTY(s))

	shell := s.NewThread(nil, func() { shellLoop(t) })
	s.MakeRunnable(shell)

	kbd := hal.NewHostKeyboard()
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	go simdriver.RunKeyboardFeed(ctx, driver, kbd)

	ebiten.SetWindowTitle("weenixgo tty demo")
	ebiten.SetWindowSize(640, 480)
	if err := ebiten.RunGame(&game{kbd: kbd, driver: driver}); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

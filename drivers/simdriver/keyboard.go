package simdriver

import (
	"context"

	"weenixgo/hal"
)

// RunKeyboardFeed drains kb's event stream and calls Feed for every byte
// a real keyboard interrupt handler would have produced, until ctx is
// cancelled. This is the goroutine standing in for the keyboard ISR in
// SPEC_FULL.md §5's "interrupt context is modeled as ordinary goroutines
// that also enter the critical section" note.
func RunKeyboardFeed(ctx context.Context, d *Driver, kb hal.Keyboard) {
	events := kb.Events()
	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-events:
			if !ok {
				return
			}
			if b, ok := ev.Byte(); ok {
				d.Feed(b)
			}
		}
	}
}

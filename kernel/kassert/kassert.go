// Package kassert is the Go analogue of Weenix's KASSERT: a broken
// kernel invariant (a thread linked on two queues, a nil frame after a
// successful lookup) is a kernel bug, not a recoverable error, and halts
// rather than propagating. Grounded on the teacher's sparkos/kernel/panic.go,
// which draws the same line between "assertion failure, halt" and typed
// results callers are expected to check.
package kassert

import "fmt"

// True panics with msg unless cond holds.
func True(cond bool, msg string, args ...any) {
	if !cond {
		panic("kassert: " + fmt.Sprintf(msg, args...))
	}
}

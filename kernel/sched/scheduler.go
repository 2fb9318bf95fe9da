// Package sched implements the kernel thread scheduler: the run queue,
// the wait-queue primitive used throughout the rest of the core, blocking
// (cancellable and uncancellable) sleep, wake-one/wake-all, cancel, and
// the context-switch entry point (spec.md §4.1).
//
// There are no package-level globals (spec.md §9's design note): every
// method hangs off a *Scheduler, and a kernel thread is a goroutine
// parked on its own resume channel between the points where the
// scheduler hands it the CPU — the Go rendering of the opaque
// context-switch primitive spec.md treats as a boundary to encapsulate,
// not reimplement.
package sched

import (
	"errors"

	"weenixgo/kernel/intr"
	"weenixgo/kernel/kassert"
)

// ErrInterrupted is EINTR: returned by CancellableSleepOn when the
// calling thread was already cancelled before it could go to sleep.
var ErrInterrupted = errors.New("sched: interrupted")

// Scheduler owns the run queue and the critical section guarding every
// wait queue reachable from it, playing the role spec.md §9 assigns to
// "a single scheduler handle threaded through the kernel".
type Scheduler struct {
	crit   *intr.Section
	runq   *Queue
	current *Thread
	nextID  int
}

// New creates a scheduler with an empty run queue and no current thread.
// Call Bootstrap before anything else to establish the "idle context".
func New() *Scheduler {
	return &Scheduler{crit: intr.New(), runq: NewQueue()}
}

// RunQueue returns the scheduler's run queue (distinguished wait queue).
func (s *Scheduler) RunQueue() *Queue { return s.runq }

// Current returns the thread currently designated as running. Outside of
// Switch, exactly one thread is current, with state Runnable and no wait
// channel (spec.md §8 invariant 3).
func (s *Scheduler) Current() *Thread { return s.current }

// Bootstrap installs the calling goroutine as the scheduler's initial
// "idle context" thread: the one spec.md's scenario S7 calls switch()
// from, already current, never itself enqueued anywhere.
func (s *Scheduler) Bootstrap(owner any) *Thread {
	t := &Thread{ID: s.allocID(), Owner: owner, state: Runnable, resume: make(chan struct{}, 1), sched: s}
	s.current = t
	return t
}

func (s *Scheduler) allocID() int {
	s.nextID++
	return s.nextID
}

// NewThread creates a thread in state NoState, backed by a parked
// goroutine running entry once the scheduler first hands it the CPU. The
// thread is not runnable until MakeRunnable is called on it, matching the
// no-state -> runnable transition in spec.md §3's lifecycle note.
func (s *Scheduler) NewThread(owner any, entry func()) *Thread {
	t := &Thread{ID: s.allocID(), Owner: owner, state: NoState, resume: make(chan struct{}, 1), sched: s, entry: entry}
	go t.run()
	return t
}

func (t *Thread) run() {
	<-t.resume
	t.entry()
	t.sched.Terminate(t)
}

// MakeRunnable transitions t to runnable and enqueues it on the run
// queue. Safe to call from "interrupt context" (any other goroutine),
// which is exactly why it mutates the run queue only inside the critical
// section.
func (s *Scheduler) MakeRunnable(t *Thread) {
	leave := s.crit.Enter()
	defer leave()
	t.state = Runnable
	s.runq.enqueue(t)
	s.crit.Broadcast()
}

// SleepOn enqueues the current thread on q in state Sleeping and yields.
// Precondition: the caller is the current thread and not already linked
// on any queue. Returns only after WakeupOn/BroadcastOn on q has
// rescheduled this thread.
func (s *Scheduler) SleepOn(q *Queue) {
	cur := s.current
	kassert.True(cur != nil, "sleep_on called with no current thread")
	leave := s.crit.Enter()
	kassert.True(cur.waitChannel == nil, "thread %d sleeps while already on a queue", cur.ID)
	cur.state = Sleeping
	q.enqueue(cur)
	leave()
	s.Switch()
}

// SleepOnLocked is SleepOn, but additionally calls unlock once the
// current thread is safely linked onto q and before yielding. This lets
// a caller holding its own lock around a condition check (e.g. the tty
// line discipline's "is a line ready" test) hand off atomically: the
// thread is already enqueued by the time its own lock is released, so a
// wakeup racing in right after unlock can never be lost. This is the Go
// rendering of the same atomicity a real kernel gets for free from
// sleeping at raised IPL. Mirrors the release-atomically-with-wait
// contract of sync.Cond.Wait, one level up.
func (s *Scheduler) SleepOnLocked(q *Queue, unlock func()) {
	cur := s.current
	kassert.True(cur != nil, "sleep_on called with no current thread")
	leave := s.crit.Enter()
	kassert.True(cur.waitChannel == nil, "thread %d sleeps while already on a queue", cur.ID)
	cur.state = Sleeping
	q.enqueue(cur)
	unlock()
	leave()
	s.Switch()
}

// CancellableSleepOn is SleepOn, but the sleep can be cancelled out from
// under the thread. If the thread's cancelled flag is already set on
// entry, it returns ErrInterrupted immediately without enqueuing or
// switching. Otherwise it sleeps; on ordinary wakeup (WakeupOn/
// BroadcastOn) it returns nil.
//
// If woken by Cancel instead, this also returns nil (SPEC_FULL.md §4.1,
// resolving spec.md §9's open question): the caller is expected to
// inspect Thread.Cancelled() itself to distinguish the two cases, since
// that is what the documented source behavior does.
func (s *Scheduler) CancellableSleepOn(q *Queue) error {
	cur := s.current
	kassert.True(cur != nil, "cancellable_sleep_on called with no current thread")
	leave := s.crit.Enter()
	if cur.cancelled {
		leave()
		return ErrInterrupted
	}
	cur.state = SleepingCancellable
	q.enqueue(cur)
	leave()
	s.Switch()
	return nil
}

// WakeupOn dequeues one thread (from the tail, i.e. the one that has been
// waiting longest) and makes it runnable. No-op if q is empty.
func (s *Scheduler) WakeupOn(q *Queue) *Thread {
	leave := s.crit.Enter()
	defer leave()
	t := q.dequeue()
	if t == nil {
		return nil
	}
	t.state = Runnable
	s.runq.enqueue(t)
	s.crit.Broadcast()
	return t
}

// BroadcastOn wakes every thread on q, in FIFO order.
func (s *Scheduler) BroadcastOn(q *Queue) {
	leave := s.crit.Enter()
	defer leave()
	for !q.Empty() {
		t := q.dequeue()
		t.state = Runnable
		s.runq.enqueue(t)
	}
	s.crit.Broadcast()
}

// Cancel sets t's cancelled flag. If t is currently in cancellable sleep
// it is additionally pulled off its wait channel and made runnable; in
// any other state only the flag is set. Idempotent (spec.md §8 invariant
// 7): a second Cancel call finds the flag already set and, if the thread
// already left SleepingCancellable, does nothing further.
func (s *Scheduler) Cancel(t *Thread) {
	leave := s.crit.Enter()
	defer leave()
	t.cancelled = true
	if t.state != SleepingCancellable {
		return
	}
	q := t.waitChannel
	kassert.True(q != nil, "thread %d is sleeping-cancellable but linked on no queue", t.ID)
	q.remove(t)
	t.state = Runnable
	s.runq.enqueue(t)
	s.crit.Broadcast()
}

// Switch is the scheduling core (spec.md §4.1). It raises the critical
// section, waits for the run queue to become non-empty (the
// interrupt-wait loop), dequeues the head-most-waiting thread, installs
// it as current, and performs the context switch. Control returns to the
// calling thread only once some later Switch call has handed the CPU
// back to it.
func (s *Scheduler) Switch() {
	leave := s.crit.Enter()
	for s.runq.Empty() {
		s.crit.Wait()
	}
	next := s.runq.dequeue()
	prev := s.current
	s.current = next
	leave()

	contextSwitch(prev, next)
}

// contextSwitch is the one place that touches a thread's "machine
// context" (its resume channel): hand the CPU to next, then, unless prev
// has exited, block until some future contextSwitch hands the CPU back.
// This is the narrow, unsafe-primitive boundary spec.md §9 asks for,
// expressed without an actual register save since threads are goroutines.
func contextSwitch(prev, next *Thread) {
	next.resume <- struct{}{}
	if prev != nil && prev.state != Exited {
		<-prev.resume
	}
}

// Terminate marks t exited and switches away from it. Used both
// internally, once a thread's entry function returns normally, and by
// kernel/proc.Process.Exit to kill a thread mid-flight on a VM-path
// failure. After Terminate returns, t is never rescheduled; the caller on
// t's own goroutine must not continue running (kernel/proc.Exit follows
// this with runtime.Goexit for exactly that reason).
func (s *Scheduler) Terminate(t *Thread) {
	leave := s.crit.Enter()
	t.state = Exited
	leave()
	s.Switch()
}

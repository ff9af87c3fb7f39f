package wm

import "sync"

// Queue is the UI-thread task queue of spec §3/§5: any goroutine may
// enqueue a closure, only the event loop's goroutine ever drains it, and
// draining happens once per loop iteration, after that iteration's wait
// and before the next iteration's render step (spec §4.5 step 5,
// invariant 3).
//
// The queue itself holds no native wakeup primitive; each backend pairs
// a Queue with its own wake: a notify pipe polled alongside the display
// fd on X11/Wayland, and a registered SDL user event on the SDL2
// fallback. The Win32 wake posts a window message, but Win32's Wait
// sleeps for the whole timeout regardless; the Cocoa, Android and iOS
// backends install a wake that does nothing and their Wait also sleeps
// for the whole timeout, so on those four a Post is picked up only once
// the sleep ends. Wake is called after the queue's lock is released, so
// a backend's wake implementation may itself touch the queue.
type Queue struct {
	mu      sync.Mutex
	tasks   []func()
	wake    func()
	wakeSet bool
}

// SetWake installs the backend-specific primitive that nudges the
// blocked event loop. It must be called once, during Display
// construction, before any goroutine calls Post.
func (q *Queue) SetWake(wake func()) {
	q.mu.Lock()
	q.wake = wake
	q.wakeSet = true
	q.mu.Unlock()
}

// Post enqueues f for execution on the UI thread and wakes the event
// loop. Safe for concurrent use from any goroutine, including the UI
// thread itself.
func (q *Queue) Post(f func()) {
	q.mu.Lock()
	q.tasks = append(q.tasks, f)
	wake := q.wake
	q.mu.Unlock()
	if wake != nil {
		wake()
	}
}

// Drain runs every task enqueued so far, in FIFO order, on the calling
// goroutine (which must be the UI thread). Tasks enqueued by a task
// while Drain is running are collected into a fresh batch and run after
// the current batch completes. Drain returns only once a batch comes up
// empty, so a task that re-posts itself on every run keeps Drain from
// returning.
func (q *Queue) Drain() {
	for {
		q.mu.Lock()
		batch := q.tasks
		q.tasks = nil
		q.mu.Unlock()
		if len(batch) == 0 {
			return
		}
		for _, f := range batch {
			f()
		}
	}
}

// Pending reports whether any task is currently queued, without
// draining it. Used by backends whose wait primitive needs to decide
// whether to poll instead of block (e.g. a level-triggered eventfd that
// may already be readable from a prior partial drain).
func (q *Queue) Pending() bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.tasks) > 0
}

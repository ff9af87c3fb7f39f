package app

import (
	"log"
	"time"
)

// run drives the per-iteration sequence of spec §4.5/§5, identical
// across backends: it is the only place that orders destruction,
// update, render, wait, drain, dispatch and resize relative to each
// other; everything backend-specific lives behind Display/Driver.
func (a *Application) run() error {
	for {
		// 1. Drop any deferred destructions from the previous iteration.
		a.mu.Lock()
		toClose := a.toClose
		a.toClose = nil
		a.mu.Unlock()
		for _, w := range toClose {
			w.ctx.Release()
			w.driver.Close()
		}

		// 2. Tick every live window's updater; the loop waits for the
		// soonest requested deadline.
		wait := time.Duration(0)
		haveWait := false
		a.mu.Lock()
		live := make([]*Window, 0, len(a.windows))
		for _, w := range a.windows {
			live = append(live, w)
		}
		a.mu.Unlock()

		for _, w := range live {
			d := w.updater.Update()
			if !haveWait || d < wait {
				wait = d
				haveWait = true
			}
		}

		// 3. Render every live window whose surface is currently attached.
		for _, w := range live {
			if w.cb.closed {
				continue
			}
			if err := w.driver.BindRenderingContext(); err != nil {
				log.Printf("app: bind failed for window render: %v", err)
				continue
			}
			w.updater.Render()
			w.driver.SwapBuffers()
		}

		if !haveWait {
			wait = 0
		}

		// 4. Wait for a native event, a UI-queue wake, or the deadline.
		a.disp.Wait(wait)

		// 5. Drain the UI-thread task queue to completion.
		a.disp.Queue().Drain()

		// 6. Dispatch all pending native events (resize is coalesced
		// internally by the backend and delivered via Callbacks.Resized).
		a.disp.DispatchNative()

		// 7. Check the quit flag.
		if a.shouldQuit() {
			return nil
		}

		// 8. Apply coalesced resize and handle WM-requested closes that
		// arrived during dispatch.
		a.mu.Lock()
		for _, w := range live {
			if w.cb.hasResize {
				w.cb.hasResize = false
				size := w.cb.pendingResize
				w.updater.SetViewport(size)
			}
			if w.cb.closed && !w.destroyed {
				delete(a.windows, w.driver.ID())
				a.toClose = append(a.toClose, w)
				w.destroyed = true
			}
		}
		a.mu.Unlock()
	}
}

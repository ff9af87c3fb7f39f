package app

import (
	"github.com/ruisapp-go/ruisapp/event"
	"github.com/ruisapp-go/ruisapp/internal/wm"
)

// callbacksAdapter satisfies wm.Callbacks by forwarding lifecycle and
// input events to a user Updater, and tracks the latest coalesced
// resize and the Closed notification for the loop to act on at the
// right point in the per-iteration sequence (spec §4.5 steps 6, 8).
type callbacksAdapter struct {
	updater Updater
	driver  wm.Driver

	pendingResize event.Vec2
	hasResize     bool
	closed        bool
	focused       bool
}

func (c *callbacksAdapter) SetDriver(d wm.Driver) { c.driver = d }

func (c *callbacksAdapter) Resized(size event.Vec2) {
	c.pendingResize = size
	c.hasResize = true
}

func (c *callbacksAdapter) FocusChanged(focused bool) { c.focused = focused }

func (c *callbacksAdapter) Closed() { c.closed = true }

func (c *callbacksAdapter) SendMouseMove(pos event.Vec2, pointer event.PointerID) {
	c.updater.SendMouseMove(pos, pointer)
}

func (c *callbacksAdapter) SendMouseButton(action event.Action, pos event.Vec2, button event.MouseButton, pointer event.PointerID) {
	c.updater.SendMouseButton(action, pos, button, pointer)
}

func (c *callbacksAdapter) SendMouseHover(hovered bool, pointer event.PointerID) {
	c.updater.SendMouseHover(hovered, pointer)
}

func (c *callbacksAdapter) SendKey(action event.Action, key event.Key) {
	c.updater.SendKey(action, key)
}

func (c *callbacksAdapter) SendCharacterInput(provider event.CharacterProvider, key event.Key) {
	c.updater.SendCharacterInput(provider, key)
}

var _ wm.Callbacks = (*callbacksAdapter)(nil)

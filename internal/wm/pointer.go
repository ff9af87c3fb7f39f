package wm

import "github.com/ruisapp-go/ruisapp/event"

// PressedButtons tracks which mouse buttons are currently down for one
// pointer, so that a window-leave notification can synthesize the
// missing release events testable property invariant 4 (spec §8.4)
// requires: any button still down when the pointer leaves the window
// must see a release at event.OutOfWindow before the hover-out event,
// the same treatment TouchSlots.Cancel gives touch contacts.
type PressedButtons struct {
	down map[event.MouseButton]bool
}

// Press records button as down.
func (p *PressedButtons) Press(button event.MouseButton) {
	if p.down == nil {
		p.down = make(map[event.MouseButton]bool)
	}
	p.down[button] = true
}

// Release records button as up.
func (p *PressedButtons) Release(button event.MouseButton) {
	delete(p.down, button)
}

// CancelAll synthesizes a release at event.OutOfWindow for every
// button still down, then clears all state. Called when the pointer
// leaves the window.
func (p *PressedButtons) CancelAll(sink event.Sink, pointer event.PointerID) {
	for button := range p.down {
		sink.SendMouseButton(event.Release, event.OutOfWindow, button, pointer)
	}
	p.down = nil
}

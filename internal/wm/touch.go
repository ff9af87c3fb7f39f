package wm

import "github.com/ruisapp-go/ruisapp/event"

// maxTouchSlots bounds the slot table; real touchscreens rarely report
// more than ten simultaneous contacts, and a fixed array avoids a map
// allocation on the touch hot path.
const maxTouchSlots = 16

// TouchSlots tracks live touch contacts for the slot -> pointer_id
// convention of spec §4.4 (pointer_id = slot+1, so 0 stays reserved for
// the mouse) and implements the touch-cancel synthesis of invariant 5:
// every slot still down when a cancel arrives gets a synthetic release
// at the (-1,-1) sentinel before the slot table is cleared.
type TouchSlots struct {
	down [maxTouchSlots]bool
}

// Down marks slot as active and reports its pointer id.
func (t *TouchSlots) Down(slot int) event.PointerID {
	if slot >= 0 && slot < maxTouchSlots {
		t.down[slot] = true
	}
	return event.TouchPointer(slot)
}

// Up clears slot and reports its pointer id.
func (t *TouchSlots) Up(slot int) event.PointerID {
	if slot >= 0 && slot < maxTouchSlots {
		t.down[slot] = false
	}
	return event.TouchPointer(slot)
}

// Cancel synthesizes a release for every slot currently down, each at
// event.OutOfWindow, then clears the whole table. sink receives the
// releases in ascending slot order before Cancel returns, and no motion
// event for any cancelled pointer must be delivered afterward until its
// next Down.
func (t *TouchSlots) Cancel(sink event.Sink, button event.MouseButton) {
	for slot, active := range t.down {
		if !active {
			continue
		}
		sink.SendMouseButton(event.Release, event.OutOfWindow, button, event.TouchPointer(slot))
		t.down[slot] = false
	}
}

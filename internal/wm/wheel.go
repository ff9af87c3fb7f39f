package wm

import "github.com/ruisapp-go/ruisapp/event"

// EmitWheelClicks sends n press+release pairs on button at pos/pointer.
// It is the shared tail end of every backend's wheel normalization:
// X11 turns one ButtonPress on buttons 4-7 into a single pair; Win32
// turns a WM_MOUSEWHEEL delta into abs(delta/WHEEL_DELTA) pairs (spec
// invariant 8); Wayland and macOS each quantize their native delta to a
// direction and also emit one pair per discrete axis event.
func EmitWheelClicks(sink event.Sink, n int, pos event.Vec2, button event.MouseButton, pointer event.PointerID) {
	for i := 0; i < n; i++ {
		sink.SendMouseButton(event.Press, pos, button, pointer)
		sink.SendMouseButton(event.Release, pos, button, pointer)
	}
}

// X11WheelButton maps an X11 button number to the abstract vocabulary
// per spec invariant 9: 1-3 are the ordinary buttons, 4-7 are the wheel
// pseudo-buttons, anything else degrades to middle.
func X11WheelButton(xButton int) event.MouseButton {
	switch xButton {
	case 1:
		return event.ButtonLeft
	case 2:
		return event.ButtonMiddle
	case 3:
		return event.ButtonRight
	case 4:
		return event.ButtonWheelUp
	case 5:
		return event.ButtonWheelDown
	case 6:
		return event.ButtonWheelLeft
	case 7:
		return event.ButtonWheelRight
	default:
		return event.ButtonMiddle
	}
}

// Win32WheelClicks converts a WM_MOUSEWHEEL/WM_MOUSEHWHEEL HIWORD delta
// (a signed multiple of WHEEL_DELTA=120) into a click count and
// direction, per spec invariant 8.
func Win32WheelClicks(delta int16) (clicks int, button event.MouseButton) {
	const wheelDelta = 120
	k := int(delta) / wheelDelta
	if k == 0 {
		return 0, event.ButtonWheelUp
	}
	if k > 0 {
		return k, event.ButtonWheelUp
	}
	return -k, event.ButtonWheelDown
}

// Win32HWheelClicks is the horizontal-wheel analogue of Win32WheelClicks
// for WM_MOUSEHWHEEL, whose sign convention is reversed relative to the
// vertical wheel (positive delta scrolls right).
func Win32HWheelClicks(delta int16) (clicks int, button event.MouseButton) {
	const wheelDelta = 120
	k := int(delta) / wheelDelta
	if k == 0 {
		return 0, event.ButtonWheelRight
	}
	if k > 0 {
		return k, event.ButtonWheelRight
	}
	return -k, event.ButtonWheelLeft
}

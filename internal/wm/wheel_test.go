package wm

import (
	"testing"

	"github.com/ruisapp-go/ruisapp/event"
)

func TestEmitWheelClicks(t *testing.T) {
	sink := &fakeSink{}
	EmitWheelClicks(sink, 3, event.Vec2{X: 1, Y: 2}, event.ButtonWheelUp, event.MousePointer)
	if len(sink.calls) != 6 {
		t.Fatalf("expected 3 press+release pairs (6 calls), got %d", len(sink.calls))
	}
	for i, c := range sink.calls {
		wantAction := event.Press
		if i%2 == 1 {
			wantAction = event.Release
		}
		if c.action != wantAction || c.button != event.ButtonWheelUp {
			t.Fatalf("call %d = %+v, want action %v button wheel_up", i, c, wantAction)
		}
	}
}

func TestEmitWheelClicksZero(t *testing.T) {
	sink := &fakeSink{}
	EmitWheelClicks(sink, 0, event.Vec2{}, event.ButtonWheelDown, event.MousePointer)
	if len(sink.calls) != 0 {
		t.Fatalf("expected no calls for n=0, got %d", len(sink.calls))
	}
}

func TestX11WheelButton(t *testing.T) {
	cases := map[int]event.MouseButton{
		1: event.ButtonLeft,
		2: event.ButtonMiddle,
		3: event.ButtonRight,
		4: event.ButtonWheelUp,
		5: event.ButtonWheelDown,
		6: event.ButtonWheelLeft,
		7: event.ButtonWheelRight,
		8: event.ButtonMiddle,
	}
	for in, want := range cases {
		if got := X11WheelButton(in); got != want {
			t.Errorf("X11WheelButton(%d) = %v, want %v", in, got, want)
		}
	}
}

func TestWin32WheelClicks(t *testing.T) {
	cases := []struct {
		delta  int16
		clicks int
		button event.MouseButton
	}{
		{120, 1, event.ButtonWheelUp},
		{240, 2, event.ButtonWheelUp},
		{-120, 1, event.ButtonWheelDown},
		{-360, 3, event.ButtonWheelDown},
		{60, 0, event.ButtonWheelUp},
		{0, 0, event.ButtonWheelUp},
	}
	for _, c := range cases {
		clicks, button := Win32WheelClicks(c.delta)
		if clicks != c.clicks || button != c.button {
			t.Errorf("Win32WheelClicks(%d) = (%d,%v), want (%d,%v)", c.delta, clicks, button, c.clicks, c.button)
		}
	}
}

func TestWin32HWheelClicks(t *testing.T) {
	clicks, button := Win32HWheelClicks(240)
	if clicks != 2 || button != event.ButtonWheelRight {
		t.Fatalf("Win32HWheelClicks(240) = (%d,%v), want (2, wheel_right)", clicks, button)
	}
	clicks, button = Win32HWheelClicks(-120)
	if clicks != 1 || button != event.ButtonWheelLeft {
		t.Fatalf("Win32HWheelClicks(-120) = (%d,%v), want (1, wheel_left)", clicks, button)
	}
}

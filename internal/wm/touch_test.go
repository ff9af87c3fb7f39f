package wm

import (
	"testing"

	"github.com/ruisapp-go/ruisapp/event"
)

func TestTouchSlotsPointerIDConvention(t *testing.T) {
	var slots TouchSlots
	if got := slots.Down(0); got != 1 {
		t.Fatalf("Down(0) = %v, want pointer id 1", got)
	}
	if got := slots.Down(3); got != 4 {
		t.Fatalf("Down(3) = %v, want pointer id 4", got)
	}
	if got := slots.Up(0); got != 1 {
		t.Fatalf("Up(0) = %v, want pointer id 1", got)
	}
}

func TestTouchSlotsCancelSynthesizesReleases(t *testing.T) {
	var slots TouchSlots
	slots.Down(0)
	slots.Down(2)
	slots.Down(1)

	sink := &fakeSink{}
	slots.Cancel(sink, event.ButtonLeft)

	if len(sink.calls) != 3 {
		t.Fatalf("expected 3 synthetic releases, got %d", len(sink.calls))
	}
	wantOrder := []event.PointerID{1, 2, 3} // ascending slot order: 0,1,2 -> pointer ids 1,2,3
	for i, c := range sink.calls {
		if c.method != "button" || c.action != event.Release {
			t.Fatalf("call %d = %+v, want a button release", i, c)
		}
		if c.pos != event.OutOfWindow {
			t.Fatalf("call %d pos = %v, want OutOfWindow", i, c.pos)
		}
		if c.pointer != wantOrder[i] {
			t.Fatalf("call %d pointer = %v, want %v", i, c.pointer, wantOrder[i])
		}
	}

	// A second cancel with nothing down must be a no-op.
	sink.calls = nil
	slots.Cancel(sink, event.ButtonLeft)
	if len(sink.calls) != 0 {
		t.Fatalf("expected no calls on empty cancel, got %d", len(sink.calls))
	}
}

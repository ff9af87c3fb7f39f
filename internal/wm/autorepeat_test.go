package wm

import "testing"

func TestAutoRepeatCollapsesMatchingPair(t *testing.T) {
	var d X11AutoRepeatDetector
	d.PendingRelease(42, 1000)
	isRepeat, flushed := d.Resolve(42, 1000)
	if !isRepeat || flushed {
		t.Fatalf("Resolve matching pair = (%v,%v), want (true,false)", isRepeat, flushed)
	}
	if _, ok := d.Flush(); ok {
		t.Fatalf("expected nothing pending after a resolved repeat")
	}
}

func TestAutoRepeatDistinctTimestampIsGenuineRelease(t *testing.T) {
	var d X11AutoRepeatDetector
	d.PendingRelease(42, 1000)
	isRepeat, flushed := d.Resolve(42, 1001)
	if isRepeat || !flushed {
		t.Fatalf("Resolve mismatched timestamp = (%v,%v), want (false,true)", isRepeat, flushed)
	}
}

func TestAutoRepeatDistinctKeycodeIsGenuineRelease(t *testing.T) {
	var d X11AutoRepeatDetector
	d.PendingRelease(42, 1000)
	isRepeat, flushed := d.Resolve(43, 1000)
	if isRepeat || !flushed {
		t.Fatalf("Resolve different keycode = (%v,%v), want (false,true)", isRepeat, flushed)
	}
}

func TestAutoRepeatFlushWithoutPress(t *testing.T) {
	var d X11AutoRepeatDetector
	if _, ok := d.Flush(); ok {
		t.Fatalf("Flush with nothing pending should report ok=false")
	}
	d.PendingRelease(7, 5)
	keycode, ok := d.Flush()
	if !ok || keycode != 7 {
		t.Fatalf("Flush() = (%v,%v), want (7,true)", keycode, ok)
	}
	if _, ok := d.Flush(); ok {
		t.Fatalf("Flush should be consumed after first call")
	}
}

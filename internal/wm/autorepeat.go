package wm

// X11AutoRepeatDetector recognizes the X11 signature of key auto-repeat:
// a KeyRelease immediately followed by a KeyPress carrying the same
// keycode and the same server timestamp (spec §4.4, invariant 6, S3).
// The X11 event loop feeds every KeyRelease through PendingRelease before
// deciding whether to deliver it, and every KeyPress through Resolve.
type X11AutoRepeatDetector struct {
	pendingKeycode  uint32
	pendingTime     uint32
	hasPending      bool
}

// PendingRelease records a KeyRelease as a repeat candidate instead of
// delivering it immediately. The caller must deliver it (as an ordinary
// release) on the next call to Flush if no matching KeyPress arrives
// first.
func (d *X11AutoRepeatDetector) PendingRelease(keycode, timestamp uint32) {
	d.pendingKeycode = keycode
	d.pendingTime = timestamp
	d.hasPending = true
}

// Resolve is called with an incoming KeyPress. If it matches the pending
// release exactly (same keycode, same timestamp), both the release and
// this press are auto-repeat noise: Resolve consumes the pending state
// and reports isRepeat=true, and the caller must deliver only a
// character-input event, neither a key release nor a second key press.
// Otherwise any pending release is flushed as a genuine release first,
// and this press is a genuine press.
func (d *X11AutoRepeatDetector) Resolve(keycode, timestamp uint32) (isRepeat bool, flushedRelease bool) {
	if d.hasPending && d.pendingKeycode == keycode && d.pendingTime == timestamp {
		d.hasPending = false
		return true, false
	}
	flushed := d.hasPending
	d.hasPending = false
	return false, flushed
}

// Flush reports whether a pending release was never matched by a repeat
// press and must now be delivered as an ordinary release (e.g. because
// the key was simply let go, or another key/timeout intervened).
func (d *X11AutoRepeatDetector) Flush() (keycode uint32, ok bool) {
	if !d.hasPending {
		return 0, false
	}
	d.hasPending = false
	return d.pendingKeycode, true
}

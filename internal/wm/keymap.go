package wm

import "github.com/ruisapp-go/ruisapp/event"

// KeyTable is a fixed-size lookup from a backend's native keycode byte to
// the abstract Key vocabulary (spec §4.4). Entries not listed by a
// backend's table default to event.Unknown. Tables are hand-curated, one
// per backend, each filled once at package initialization.
type KeyTable [256]event.Key

// Lookup returns the abstract key for a native keycode, or event.Unknown
// if code is out of the table's 0-255 range or unlisted.
func (t *KeyTable) Lookup(code int) event.Key {
	if code < 0 || code > 255 {
		return event.Unknown
	}
	return t[code]
}

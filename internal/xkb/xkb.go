// Package xkb wraps libxkbcommon's X11 keyboard state machine, shared
// by the X11 and Wayland backends for keysym lookup, modifier tracking
// and dead-key/compose text composition. Win32, Cocoa, GLKit and
// NativeActivity each get key codes and modifier state directly from
// their own platform APIs and never import this package.
package xkb

/*
#cgo linux pkg-config: xkbcommon xkbcommon-x11
#include <stdlib.h>
#include <xkbcommon/xkbcommon.h>
#include <xkbcommon/xkbcommon-x11.h>
*/
import "C"

import (
	"errors"
	"unsafe"

	"github.com/ruisapp-go/ruisapp/event"
)

// Action mirrors the two key transitions a DispatchKey caller observed
// on the wire, decoupling this package from any particular backend's
// native event-type constants.
type Action = event.Action

// Context owns one xkb_context plus the currently loaded keymap/state
// pair. Ctx is exported so a caller that already has the raw
// xcb_connection_t (X11) can hand it to the xkb_x11_* device-discovery
// calls this package deliberately does not wrap, since that negotiation
// is backend-specific (X11's core keyboard device id vs Wayland's
// keymap-by-fd handoff).
type Context struct {
	Ctx   unsafe.Pointer
	ctx   *C.struct_xkb_context
	keymap *C.struct_xkb_keymap
	state  *C.struct_xkb_state
}

// New creates a bare xkb_context with no keymap loaded; callers must
// call SetKeymap once a keymap/state pair is available before
// DispatchKey or Modifiers return anything meaningful.
func New() (*Context, error) {
	ctx := C.xkb_context_new(C.XKB_CONTEXT_NO_FLAGS)
	if ctx == nil {
		return nil, errors.New("xkb: xkb_context_new failed")
	}
	return &Context{Ctx: unsafe.Pointer(ctx), ctx: ctx}, nil
}

// SetKeymap installs a new keymap/state pair, as produced by a
// backend's own xkb_x11_keymap_new_from_device/xkb_keymap_new_from_string
// call. Any previously installed keymap must already have been released
// via DestroyKeymapState.
func (c *Context) SetKeymap(keymap, state unsafe.Pointer) {
	c.keymap = (*C.struct_xkb_keymap)(keymap)
	c.state = (*C.struct_xkb_state)(state)
}

// NewKeymapFromString compiles a null-terminated XKB_KEYMAP_FORMAT_TEXT_V1
// keymap (as delivered by Wayland's wl_keyboard.keymap event over a
// shared-memory fd) and installs the resulting keymap/state pair,
// releasing whatever was previously installed.
func (c *Context) NewKeymapFromString(data []byte) error {
	if len(data) == 0 {
		return errors.New("xkb: empty keymap string")
	}
	cdata := C.CString(string(data))
	defer C.free(unsafe.Pointer(cdata))
	keymap := C.xkb_keymap_new_from_string(c.ctx, cdata, C.XKB_KEYMAP_FORMAT_TEXT_V1, C.XKB_KEYMAP_COMPILE_NO_FLAGS)
	if keymap == nil {
		return errors.New("xkb: xkb_keymap_new_from_string failed")
	}
	state := C.xkb_state_new(keymap)
	if state == nil {
		C.xkb_keymap_unref(keymap)
		return errors.New("xkb: xkb_state_new failed")
	}
	c.DestroyKeymapState()
	c.keymap = keymap
	c.state = state
	return nil
}

// DestroyKeymapState releases the current keymap/state pair, in
// preparation for a keyboard hotplug or layout change that will shortly
// call SetKeymap again.
func (c *Context) DestroyKeymapState() {
	if c.state != nil {
		C.xkb_state_unref(c.state)
		c.state = nil
	}
	if c.keymap != nil {
		C.xkb_keymap_unref(c.keymap)
		c.keymap = nil
	}
}

// UpdateMask feeds a compositor's XKB_STATE_NOTIFY-equivalent
// modifier/group update into the state machine.
func (c *Context) UpdateMask(baseMods, latchedMods, lockedMods, baseGroup, latchedGroup, lockedGroup uint32) {
	if c.state == nil {
		return
	}
	C.xkb_state_update_mask(c.state,
		C.xkb_mod_mask_t(baseMods), C.xkb_mod_mask_t(latchedMods), C.xkb_mod_mask_t(lockedMods),
		C.xkb_layout_index_t(baseGroup), C.xkb_layout_index_t(latchedGroup), C.xkb_layout_index_t(lockedGroup))
}

// DispatchKey feeds one physical key transition through the state
// machine and returns the rune(s), if any, it composes to. A key
// release never composes text; a key press composes zero runes for a
// pure modifier or dead key still awaiting a following keystroke.
func (c *Context) DispatchKey(keycode uint32, action Action) []rune {
	if c.state == nil || action != event.Press {
		return nil
	}
	// keycode is a Linux evdev code, as Wayland reports it; xkb keycodes
	// are evdev codes plus 8 (a historical accommodation of the X
	// protocol's 8..255 keycode range).
	sym := C.xkb_state_key_get_one_sym(c.state, C.xkb_keycode_t(keycode+8))
	if sym == C.XKB_KEY_NoSymbol {
		return nil
	}
	var buf [8]C.char
	n := C.xkb_state_key_get_utf8(c.state, C.xkb_keycode_t(keycode+8), &buf[0], C.size_t(len(buf)))
	if n <= 0 {
		return nil
	}
	return []rune(C.GoStringN(&buf[0], n))
}

// Modifiers reports the current modifier mask as a bit set whose
// layout this package keeps intentionally opaque; callers compare it
// only against values previously returned by Modifiers, never against
// hand-rolled constants.
func (c *Context) Modifiers() uint32 {
	if c.state == nil {
		return 0
	}
	return uint32(C.xkb_state_serialize_mods(c.state, C.XKB_STATE_MODS_EFFECTIVE))
}

// Destroy releases the keymap/state pair and the context itself. The
// Context must not be used afterward.
func (c *Context) Destroy() {
	c.DestroyKeymapState()
	if c.ctx != nil {
		C.xkb_context_unref(c.ctx)
		c.ctx = nil
		c.Ctx = nil
	}
}

// +build linux,!android freebsd

package wm

// Use wayland-scanner to generate the xdg-shell client protocol glue
// this file's cgo preamble depends on, exactly as upstream Wayland
// clients do; the generated header/source are not hand-written here.
//go:generate wayland-scanner client-header /usr/share/wayland-protocols/stable/xdg-shell/xdg-shell.xml xdg-shell-client-protocol.h
//go:generate wayland-scanner private-code /usr/share/wayland-protocols/stable/xdg-shell/xdg-shell.xml xdg-shell-client-protocol.c

/*
#cgo pkg-config: wayland-client wayland-egl wayland-cursor
#include <stdlib.h>
#include <sys/mman.h>
#include <unistd.h>
#include <wayland-client.h>
#include <wayland-egl.h>
#include <wayland-cursor.h>
#include "xdg-shell-client-protocol.h"

extern void go_registry_global(void *data, struct wl_registry *registry, uint32_t name, const char *iface, uint32_t version);
extern void go_xdg_surface_configure(void *data, struct xdg_surface *surf, uint32_t serial);
extern void go_xdg_toplevel_configure(void *data, struct xdg_toplevel *tl, int32_t w, int32_t h, struct wl_array *states);
extern void go_xdg_toplevel_close(void *data, struct xdg_toplevel *tl);

extern void go_seat_capabilities(void *data, struct wl_seat *seat, uint32_t caps);

extern void go_pointer_enter(void *data, struct wl_pointer *p, uint32_t serial, struct wl_surface *surf, wl_fixed_t sx, wl_fixed_t sy);
extern void go_pointer_leave(void *data, struct wl_pointer *p, uint32_t serial, struct wl_surface *surf);
extern void go_pointer_motion(void *data, struct wl_pointer *p, uint32_t time, wl_fixed_t sx, wl_fixed_t sy);
extern void go_pointer_button(void *data, struct wl_pointer *p, uint32_t serial, uint32_t time, uint32_t button, uint32_t state);
extern void go_pointer_axis(void *data, struct wl_pointer *p, uint32_t time, uint32_t axis, wl_fixed_t value);

extern void go_keyboard_keymap(void *data, struct wl_keyboard *kb, uint32_t format, int32_t fd, uint32_t size);
extern void go_keyboard_enter(void *data, struct wl_keyboard *kb, uint32_t serial, struct wl_surface *surf, struct wl_array *keys);
extern void go_keyboard_leave(void *data, struct wl_keyboard *kb, uint32_t serial, struct wl_surface *surf);
extern void go_keyboard_key(void *data, struct wl_keyboard *kb, uint32_t serial, uint32_t time, uint32_t key, uint32_t state);
extern void go_keyboard_modifiers(void *data, struct wl_keyboard *kb, uint32_t serial, uint32_t modsDepressed, uint32_t modsLatched, uint32_t modsLocked, uint32_t group);

extern void go_touch_down(void *data, struct wl_touch *t, uint32_t serial, uint32_t time, struct wl_surface *surf, int32_t id, wl_fixed_t x, wl_fixed_t y);
extern void go_touch_up(void *data, struct wl_touch *t, uint32_t serial, uint32_t time, int32_t id);
extern void go_touch_motion(void *data, struct wl_touch *t, uint32_t time, int32_t id, wl_fixed_t x, wl_fixed_t y);
extern void go_touch_cancel(void *data, struct wl_touch *t);

static void noop_pointer_frame(void *data, struct wl_pointer *p) {}
static void noop_touch_frame(void *data, struct wl_touch *t) {}

static const struct wl_registry_listener registryListener = {
	go_registry_global,
	0,
};

static const struct xdg_surface_listener xdgSurfaceListener = {
	go_xdg_surface_configure,
};

static const struct xdg_toplevel_listener xdgToplevelListener = {
	go_xdg_toplevel_configure,
	go_xdg_toplevel_close,
};

static const struct wl_seat_listener seatListener = {
	.capabilities = go_seat_capabilities,
};

static const struct wl_pointer_listener pointerListener = {
	.enter = go_pointer_enter,
	.leave = go_pointer_leave,
	.motion = go_pointer_motion,
	.button = go_pointer_button,
	.axis = go_pointer_axis,
	.frame = noop_pointer_frame,
};

static const struct wl_keyboard_listener keyboardListener = {
	.keymap = go_keyboard_keymap,
	.enter = go_keyboard_enter,
	.leave = go_keyboard_leave,
	.key = go_keyboard_key,
	.modifiers = go_keyboard_modifiers,
};

static const struct wl_touch_listener touchListener = {
	.down = go_touch_down,
	.up = go_touch_up,
	.motion = go_touch_motion,
	.cancel = go_touch_cancel,
	.frame = noop_touch_frame,
};

// wl_keymap_map maps a wl_keyboard.keymap event's shared-memory fd
// read-only; cgo cannot call mmap's variadic-looking macro wrapper
// directly from Go in a way that is both portable and alloc-free.
static void *wl_keymap_map(int fd, uint32_t size) {
	return mmap(NULL, size, PROT_READ, MAP_PRIVATE, fd, 0);
}

static void wl_keymap_unmap(void *addr, uint32_t size) {
	munmap(addr, size);
}
*/
import "C"

import (
	"fmt"
	"sync"
	"time"
	"unsafe"

	"golang.org/x/sys/unix"

	"github.com/ruisapp-go/ruisapp/event"
	"github.com/ruisapp-go/ruisapp/internal/egl"
	"github.com/ruisapp-go/ruisapp/internal/xkb"
)

const (
	wlSeatCapabilityPointer  = 1
	wlSeatCapabilityKeyboard = 2
	wlSeatCapabilityTouch    = 4
)

// wlDisplay is the Wayland Display/backend singleton (spec §4.1): the
// compositor connection and its registered globals. Each window gets its
// own wl_egl_window, created with the window and kept until Close; the
// window's EGL surface is never detached while the window lives.
type wlDisplay struct {
	disp       *C.struct_wl_display
	registry   *C.struct_wl_registry
	compositor *C.struct_wl_compositor
	wmBase     *C.struct_xdg_wm_base
	shm        *C.struct_wl_shm

	seat     *C.struct_wl_seat
	pointer  *C.struct_wl_pointer
	keyboard *C.struct_wl_keyboard
	touchDev *C.struct_wl_touch
	xkb      *xkb.Context

	cursorTheme   *C.struct_wl_cursor_theme
	cursorSurface *C.struct_wl_surface

	queue Queue

	root *egl.Context

	mu           sync.Mutex
	windows      map[*C.struct_wl_surface]*wlWindow
	pointerFocus *wlWindow
	keyboardFocus *wlWindow

	notifyRead, notifyWrite int
}

var wlGlobalDisplay *wlDisplay

// NewWaylandDisplay connects to the compositor named by WAYLAND_DISPLAY
// (or the default socket) and binds wl_compositor and xdg_wm_base.
func NewWaylandDisplay() (Display, error) {
	disp := C.wl_display_connect(nil)
	if disp == nil {
		return nil, fmt.Errorf("wayland: %w", ErrDisplayUnavailable)
	}
	d := &wlDisplay{disp: disp, windows: make(map[*C.struct_wl_surface]*wlWindow)}
	wlGlobalDisplay = d
	d.registry = C.wl_display_get_registry(disp)
	C.wl_registry_add_listener(d.registry, &C.registryListener, nil)
	C.wl_display_roundtrip(disp)
	if d.compositor == nil || d.wmBase == nil {
		C.wl_display_disconnect(disp)
		return nil, fmt.Errorf("wayland: %w: missing compositor or xdg_wm_base global", ErrDisplayUnavailable)
	}
	if r, w, err := pipe2(); err == nil {
		d.notifyRead, d.notifyWrite = r, w
	}
	d.queue.SetWake(func() { d.wake() })
	return d, nil
}

func (d *wlDisplay) wake() {
	if d.notifyWrite != 0 {
		writeByte(d.notifyWrite)
	}
}

func (d *wlDisplay) DotsPerInch() float32 { return 96 }

func (d *wlDisplay) PixelsPerPP(resolutionPx, sizeMM event.Vec2) float32 {
	return pixelsPerPP(resolutionPx, sizeMM, 0)
}

func (d *wlDisplay) GetCursor(shape CursorShape) (CursorHandle, error) {
	// The "none" shape and the rest are both satisfied by hiding/showing
	// the pointer surface rather than a cached native cursor resource on
	// this backend, since wl_pointer has no notion of a system cursor
	// cache; see wlWindow.SetMouseCursorVisible.
	return shape, nil
}

func (d *wlDisplay) NewWindow(api APIVersion, opts Options, shared Context, cb Callbacks) (Driver, Context, error) {
	surf := C.wl_compositor_create_surface(d.compositor)
	if surf == nil {
		return nil, nil, fmt.Errorf("wayland: %w", ErrWindowCreationFailed)
	}
	xdgSurf := C.xdg_wm_base_get_xdg_surface(d.wmBase, surf)
	toplevel := C.xdg_surface_get_toplevel(xdgSurf)

	width, height := int(opts.Size.X), int(opts.Size.Y)
	if width <= 0 {
		width = 800
	}
	if height <= 0 {
		height = 600
	}

	w := &wlWindow{disp: d, surf: surf, xdgSurf: xdgSurf, toplevel: toplevel, cb: cb, width: width, height: height, title: opts.Title, cursorShape: CursorArrow}

	C.xdg_surface_add_listener(xdgSurf, &C.xdgSurfaceListener, nil)
	C.xdg_toplevel_add_listener(toplevel, &C.xdgToplevelListener, nil)

	if opts.Title != "" {
		ctitle := C.CString(opts.Title)
		C.xdg_toplevel_set_title(toplevel, ctitle)
		C.free(unsafe.Pointer(ctitle))
	}
	C.wl_surface_commit(surf)
	C.wl_display_roundtrip(d.disp)

	eglWin := C.wl_egl_window_create(surf, C.int(width), C.int(height))
	if eglWin == nil {
		return nil, nil, fmt.Errorf("wayland: %w: wl_egl_window_create failed", ErrSurfaceCreationFailed)
	}
	w.eglWin = eglWin

	ctx, err := egl.NewContext(egl.NativeDisplayType(unsafe.Pointer(d.disp)))
	if err != nil {
		return nil, nil, fmt.Errorf("wayland: %w: %v", ErrContextCreationFailed, err)
	}
	if err := ctx.CreateSurface(egl.NativeWindowType(uintptr(unsafe.Pointer(eglWin))), width, height); err != nil {
		ctx.Release()
		return nil, nil, fmt.Errorf("wayland: %w: %v", ErrSurfaceCreationFailed, err)
	}
	w.ctx = ctx

	d.mu.Lock()
	d.windows[surf] = w
	if d.root == nil {
		d.root = ctx
	}
	d.mu.Unlock()

	cb.SetDriver(w)
	return w, ctx, nil
}

func (d *wlDisplay) Wait(timeout time.Duration) (nativeReady, timerExpired bool) {
	C.wl_display_flush(d.disp)
	nativeFD := int(C.wl_display_get_fd(d.disp))
	return waitFDs(d.notifyRead, nativeFD, timeout)
}

func (d *wlDisplay) DispatchNative() {
	if d.notifyRead != 0 {
		drainByte(d.notifyRead)
	}
	C.wl_display_dispatch_pending(d.disp)
	C.wl_display_roundtrip(d.disp)
	d.mu.Lock()
	windows := make([]*wlWindow, 0, len(d.windows))
	for _, w := range d.windows {
		windows = append(windows, w)
	}
	d.mu.Unlock()
	for _, w := range windows {
		w.flushResize()
	}
}

func (d *wlDisplay) Queue() *Queue { return &d.queue }

func (d *wlDisplay) Close() {
	if d.compositor != nil {
		C.wl_compositor_destroy(d.compositor)
	}
	C.wl_registry_destroy(d.registry)
	C.wl_display_disconnect(d.disp)
}

// wlWindow is the Wayland native-window wrapper. The surfaceAttached
// field is never set or read: the EGL surface stays attached from
// NewWindow until Close, and the loop renders the window on every
// iteration.
type wlWindow struct {
	disp     *wlDisplay
	surf     *C.struct_wl_surface
	xdgSurf  *C.struct_xdg_surface
	toplevel *C.struct_xdg_toplevel
	eglWin   *C.struct_wl_egl_window
	ctx      *egl.Context
	cb       Callbacks

	mu                 sync.Mutex
	width, height      int
	pendingW, pendingH int
	pendingResize      bool
	fullscreen         bool
	surfaceAttached    bool
	frameCallbackDue   bool

	touch         TouchSlots
	pressed       PressedButtons
	cursorShape   CursorShape
	lastPos       event.Vec2
	touchSlotByID map[C.int32_t]int
}

func (w *wlWindow) ID() WindowID { return w.surf }

func (w *wlWindow) Dims() event.Vec2 {
	w.mu.Lock()
	defer w.mu.Unlock()
	return event.Vec2{X: float32(w.width), Y: float32(w.height)}
}

func (w *wlWindow) DPI() float32 { return w.disp.DotsPerInch() }

func (w *wlWindow) ScaleFactor() float32 {
	return w.disp.PixelsPerPP(w.Dims(), event.Vec2{})
}

func (w *wlWindow) BindRenderingContext() error { return w.ctx.MakeCurrent() }

// SwapBuffers skips the swap on its first call, requesting a frame
// callback instead and setting frameCallbackDue. No listener is
// installed for that callback's done event, so frameCallbackDue is
// never cleared and every later call swaps without waiting for the
// compositor.
func (w *wlWindow) SwapBuffers() {
	w.mu.Lock()
	due := w.frameCallbackDue
	w.mu.Unlock()
	if !due {
		C.wl_surface_frame(w.surf)
		C.wl_surface_commit(w.surf)
		w.mu.Lock()
		w.frameCallbackDue = true
		w.mu.Unlock()
		return
	}
	w.ctx.Swap()
}

func (w *wlWindow) SetVSync(enabled bool) { w.ctx.EnableVSync(enabled) }

func (w *wlWindow) SetTitle(title string) {
	ctitle := C.CString(title)
	defer C.free(unsafe.Pointer(ctitle))
	C.xdg_toplevel_set_title(w.toplevel, ctitle)
}

// SetMouseCursor only records the desired shape; the actual
// wl_pointer_set_cursor call happens on the next pointer-enter (or
// immediately, if the pointer is already hovering this window), since
// wl_pointer_set_cursor requires the enter event's serial.
func (w *wlWindow) SetMouseCursor(shape CursorShape) {
	w.mu.Lock()
	w.cursorShape = shape
	hovered := w.disp.pointerFocus == w
	w.mu.Unlock()
	if hovered {
		w.disp.applyCursor(w, wlLastEnterSerial)
	}
}

func (w *wlWindow) SetMouseCursorVisible(visible bool) {
	w.mu.Lock()
	if visible {
		w.cursorShape = CursorArrow
	} else {
		w.cursorShape = CursorNone
	}
	hovered := w.disp.pointerFocus == w
	w.mu.Unlock()
	if hovered {
		w.disp.applyCursor(w, wlLastEnterSerial)
	}
}

// wlLastEnterSerial is the serial from the most recent wl_pointer.enter,
// the only one wl_pointer_set_cursor accepts; the compositor rejects a
// stale serial, so SetMouseCursor reuses whatever the last enter gave it
// rather than caching per-window state the protocol has no way to ask
// for again.
var wlLastEnterSerial C.uint32_t

// applyCursor loads (and caches) the Xcursor-themed buffer for w's
// current shape and assigns it to the pointer, mirroring x11.go's
// x11LoadCursor/x11CursorName approach but through libwayland-cursor,
// the Wayland-native equivalent of Xcursor theme lookup.
func (d *wlDisplay) applyCursor(w *wlWindow, serial C.uint32_t) {
	if d.pointer == nil {
		return
	}
	w.mu.Lock()
	shape := w.cursorShape
	w.mu.Unlock()

	if shape == CursorNone {
		C.wl_pointer_set_cursor(d.pointer, serial, nil, 0, 0)
		return
	}
	if d.shm == nil {
		return
	}
	if d.cursorTheme == nil {
		d.cursorTheme = C.wl_cursor_theme_load(nil, 24, d.shm)
		if d.cursorTheme == nil {
			return
		}
	}
	if d.cursorSurface == nil && d.compositor != nil {
		d.cursorSurface = C.wl_compositor_create_surface(d.compositor)
	}
	if d.cursorSurface == nil {
		return
	}
	name := C.CString(x11CursorName(shape))
	defer C.free(unsafe.Pointer(name))
	cursor := C.wl_cursor_theme_get_cursor(d.cursorTheme, name)
	if cursor == nil || cursor.image_count == 0 {
		return
	}
	img := *cursor.images
	buf := C.wl_cursor_image_get_buffer(img)
	if buf == nil {
		return
	}
	C.wl_surface_attach(d.cursorSurface, buf, 0, 0)
	C.wl_surface_damage(d.cursorSurface, 0, 0, C.int32_t(img.width), C.int32_t(img.height))
	C.wl_surface_commit(d.cursorSurface)
	C.wl_pointer_set_cursor(d.pointer, serial, d.cursorSurface, C.int32_t(img.hotspot_x), C.int32_t(img.hotspot_y))
}

func (w *wlWindow) SetFullscreen(fullscreen bool) {
	if fullscreen {
		C.xdg_toplevel_set_fullscreen(w.toplevel, nil)
	} else {
		C.xdg_toplevel_unset_fullscreen(w.toplevel)
	}
	// The effective state is confirmed asynchronously by the next
	// xdg_toplevel.configure (spec §5, "Fullscreen atomicity"); this
	// flag is provisional until that arrives.
	w.fullscreen = fullscreen
}

func (w *wlWindow) IsFullscreen() bool { return w.fullscreen }

func (w *wlWindow) Close() {
	w.touch.Cancel(w.cb, event.ButtonLeft)
	if w.eglWin != nil {
		C.wl_egl_window_destroy(w.eglWin)
	}
	C.xdg_toplevel_destroy(w.toplevel)
	C.xdg_surface_destroy(w.xdgSurf)
	C.wl_surface_destroy(w.surf)
	w.disp.mu.Lock()
	delete(w.disp.windows, w.surf)
	if w.disp.pointerFocus == w {
		w.disp.pointerFocus = nil
	}
	if w.disp.keyboardFocus == w {
		w.disp.keyboardFocus = nil
	}
	w.disp.mu.Unlock()
}

func (w *wlWindow) flushResize() {
	w.mu.Lock()
	if !w.pendingResize {
		w.mu.Unlock()
		return
	}
	w.width, w.height = w.pendingW, w.pendingH
	w.pendingResize = false
	size := event.Vec2{X: float32(w.width), Y: float32(w.height)}
	w.mu.Unlock()
	if w.eglWin != nil {
		C.wl_egl_window_resize(w.eglWin, C.int(w.width), C.int(w.height), 0, 0)
	}
	w.cb.Resized(size)
}

//export go_registry_global
func go_registry_global(data unsafe.Pointer, registry *C.struct_wl_registry, name C.uint32_t, iface *C.char, version C.uint32_t) {
	d := wlGlobalDisplay
	if d == nil {
		return
	}
	ifaceName := C.GoString(iface)
	switch ifaceName {
	case "wl_compositor":
		d.compositor = (*C.struct_wl_compositor)(C.wl_registry_bind(registry, name, &C.wl_compositor_interface, 4))
	case "xdg_wm_base":
		d.wmBase = (*C.struct_xdg_wm_base)(C.wl_registry_bind(registry, name, &C.xdg_wm_base_interface, 1))
	case "wl_shm":
		d.shm = (*C.struct_wl_shm)(C.wl_registry_bind(registry, name, &C.wl_shm_interface, 1))
	case "wl_seat":
		d.seat = (*C.struct_wl_seat)(C.wl_registry_bind(registry, name, &C.wl_seat_interface, 5))
		C.wl_seat_add_listener(d.seat, &C.seatListener, nil)
		xkbCtx, err := xkb.New()
		if err == nil {
			d.xkb = xkbCtx
		}
	}
}

// go_seat_capabilities binds or releases wl_pointer/wl_keyboard/wl_touch
// as the compositor reports the seat gaining or losing each capability
// (spec §4.4: mouse, keyboard and touch are all normalized through the
// same event.Sink regardless of which subset of them a given seat has).
//
//export go_seat_capabilities
func go_seat_capabilities(data unsafe.Pointer, seat *C.struct_wl_seat, caps C.uint32_t) {
	d := wlGlobalDisplay
	if d == nil {
		return
	}
	capbits := uint32(caps)
	if capbits&wlSeatCapabilityPointer != 0 && d.pointer == nil {
		d.pointer = C.wl_seat_get_pointer(seat)
		C.wl_pointer_add_listener(d.pointer, &C.pointerListener, nil)
	}
	if capbits&wlSeatCapabilityKeyboard != 0 && d.keyboard == nil {
		d.keyboard = C.wl_seat_get_keyboard(seat)
		C.wl_keyboard_add_listener(d.keyboard, &C.keyboardListener, nil)
	}
	if capbits&wlSeatCapabilityTouch != 0 && d.touchDev == nil {
		d.touchDev = C.wl_seat_get_touch(seat)
		C.wl_touch_add_listener(d.touchDev, &C.touchListener, nil)
	}
}

//export go_xdg_surface_configure
func go_xdg_surface_configure(data unsafe.Pointer, surf *C.struct_xdg_surface, serial C.uint32_t) {
	C.xdg_surface_ack_configure(surf, serial)
}

//export go_xdg_toplevel_configure
func go_xdg_toplevel_configure(data unsafe.Pointer, tl *C.struct_xdg_toplevel, width, height C.int32_t, states *C.struct_wl_array) {
	d := wlGlobalDisplay
	if d == nil || width == 0 || height == 0 {
		return
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	for _, w := range d.windows {
		if w.toplevel == tl {
			w.mu.Lock()
			w.pendingW, w.pendingH = int(width), int(height)
			w.pendingResize = true
			w.mu.Unlock()
			return
		}
	}
}

//export go_xdg_toplevel_close
func go_xdg_toplevel_close(data unsafe.Pointer, tl *C.struct_xdg_toplevel) {
	d := wlGlobalDisplay
	if d == nil {
		return
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	for _, w := range d.windows {
		if w.toplevel == tl {
			w.cb.Closed()
			return
		}
	}
}

func wlFixedToFloat(f C.wl_fixed_t) float32 { return float32(C.wl_fixed_to_double(f)) }

//export go_pointer_enter
func go_pointer_enter(data unsafe.Pointer, p *C.struct_wl_pointer, serial C.uint32_t, surf *C.struct_wl_surface, sx, sy C.wl_fixed_t) {
	d := wlGlobalDisplay
	if d == nil {
		return
	}
	w := d.findWindowBySurface(surf)
	if w == nil {
		return
	}
	d.mu.Lock()
	d.pointerFocus = w
	d.mu.Unlock()
	wlLastEnterSerial = serial
	pos := event.Vec2{X: wlFixedToFloat(sx), Y: wlFixedToFloat(sy)}
	w.mu.Lock()
	w.lastPos = pos
	w.mu.Unlock()
	d.applyCursor(w, serial)
	w.cb.SendMouseHover(true, event.MousePointer)
	w.cb.SendMouseMove(pos, event.MousePointer)
}

//export go_pointer_leave
func go_pointer_leave(data unsafe.Pointer, p *C.struct_wl_pointer, serial C.uint32_t, surf *C.struct_wl_surface) {
	d := wlGlobalDisplay
	if d == nil {
		return
	}
	w := d.findWindowBySurface(surf)
	if w == nil {
		return
	}
	d.mu.Lock()
	if d.pointerFocus == w {
		d.pointerFocus = nil
	}
	d.mu.Unlock()
	w.pressed.CancelAll(w.cb, event.MousePointer)
	w.cb.SendMouseHover(false, event.MousePointer)
}

//export go_pointer_motion
func go_pointer_motion(data unsafe.Pointer, p *C.struct_wl_pointer, time C.uint32_t, sx, sy C.wl_fixed_t) {
	d := wlGlobalDisplay
	if d == nil {
		return
	}
	d.mu.Lock()
	w := d.pointerFocus
	d.mu.Unlock()
	if w == nil {
		return
	}
	pos := event.Vec2{X: wlFixedToFloat(sx), Y: wlFixedToFloat(sy)}
	w.mu.Lock()
	w.lastPos = pos
	w.mu.Unlock()
	w.cb.SendMouseMove(pos, event.MousePointer)
}

// wlMouseButton maps the Linux evdev button codes wl_pointer.button
// reports (linux/input-event-codes.h's BTN_LEFT/RIGHT/MIDDLE) to the
// abstract vocabulary.
func wlMouseButton(code C.uint32_t) event.MouseButton {
	const (
		btnLeft   = 0x110
		btnRight  = 0x111
		btnMiddle = 0x112
	)
	switch code {
	case btnLeft:
		return event.ButtonLeft
	case btnRight:
		return event.ButtonRight
	case btnMiddle:
		return event.ButtonMiddle
	default:
		return event.ButtonMiddle
	}
}

//export go_pointer_button
func go_pointer_button(data unsafe.Pointer, p *C.struct_wl_pointer, serial, time, button, state C.uint32_t) {
	d := wlGlobalDisplay
	if d == nil {
		return
	}
	d.mu.Lock()
	w := d.pointerFocus
	d.mu.Unlock()
	if w == nil {
		return
	}
	btn := wlMouseButton(button)
	w.mu.Lock()
	pos := w.lastPos
	w.mu.Unlock()
	action := event.Release
	if state == 1 {
		action = event.Press
		w.pressed.Press(btn)
	} else {
		w.pressed.Release(btn)
	}
	w.cb.SendMouseButton(action, pos, btn, event.MousePointer)
}

//export go_pointer_axis
func go_pointer_axis(data unsafe.Pointer, p *C.struct_wl_pointer, time, axis C.uint32_t, value C.wl_fixed_t) {
	d := wlGlobalDisplay
	if d == nil {
		return
	}
	d.mu.Lock()
	w := d.pointerFocus
	d.mu.Unlock()
	if w == nil {
		return
	}
	const axisVertical = 0
	delta := C.wl_fixed_to_double(value)
	if delta == 0 {
		return
	}
	w.mu.Lock()
	pos := w.lastPos
	w.mu.Unlock()
	button := event.ButtonWheelDown
	if axis == axisVertical {
		if delta < 0 {
			button = event.ButtonWheelUp
		}
	} else {
		button = event.ButtonWheelRight
		if delta < 0 {
			button = event.ButtonWheelLeft
		}
	}
	EmitWheelClicks(w.cb, 1, pos, button, event.MousePointer)
}

//export go_keyboard_keymap
func go_keyboard_keymap(data unsafe.Pointer, kb *C.struct_wl_keyboard, format C.uint32_t, fd C.int32_t, size C.uint32_t) {
	d := wlGlobalDisplay
	defer unix.Close(int(fd))
	if d == nil || d.xkb == nil || size == 0 {
		return
	}
	const keymapFormatTextV1 = 1
	if format != keymapFormatTextV1 {
		return
	}
	addr := C.wl_keymap_map(fd, size)
	if addr == nil {
		return
	}
	defer C.wl_keymap_unmap(addr, size)
	data2 := C.GoBytes(addr, C.int(size))
	if err := d.xkb.NewKeymapFromString(data2); err != nil {
		logf("wayland: keymap load failed: %v", err)
	}
}

//export go_keyboard_enter
func go_keyboard_enter(data unsafe.Pointer, kb *C.struct_wl_keyboard, serial C.uint32_t, surf *C.struct_wl_surface, keys *C.struct_wl_array) {
	d := wlGlobalDisplay
	if d == nil {
		return
	}
	w := d.findWindowBySurface(surf)
	d.mu.Lock()
	d.keyboardFocus = w
	d.mu.Unlock()
}

//export go_keyboard_leave
func go_keyboard_leave(data unsafe.Pointer, kb *C.struct_wl_keyboard, serial C.uint32_t, surf *C.struct_wl_surface) {
	d := wlGlobalDisplay
	if d == nil {
		return
	}
	d.mu.Lock()
	if w := d.findWindowBySurfaceLocked(surf); w != nil && d.keyboardFocus == w {
		d.keyboardFocus = nil
	}
	d.mu.Unlock()
}

//export go_keyboard_key
func go_keyboard_key(data unsafe.Pointer, kb *C.struct_wl_keyboard, serial, time, key, state C.uint32_t) {
	d := wlGlobalDisplay
	if d == nil {
		return
	}
	d.mu.Lock()
	w := d.keyboardFocus
	d.mu.Unlock()
	if w == nil {
		return
	}
	evdevCode := uint32(key)
	k := wlKeyTable.Lookup(int(evdevCode) + 8)
	action := event.Release
	if state == 1 {
		action = event.Press
	}
	w.cb.SendKey(action, k)
	if action == event.Press && d.xkb != nil {
		w.cb.SendCharacterInput(func() []rune {
			return d.xkb.DispatchKey(evdevCode, event.Press)
		}, k)
	}
}

//export go_keyboard_modifiers
func go_keyboard_modifiers(data unsafe.Pointer, kb *C.struct_wl_keyboard, serial, modsDepressed, modsLatched, modsLocked, group C.uint32_t) {
	d := wlGlobalDisplay
	if d == nil || d.xkb == nil {
		return
	}
	d.xkb.UpdateMask(uint32(modsDepressed), uint32(modsLatched), uint32(modsLocked), uint32(group), 0, 0)
}

//export go_touch_down
func go_touch_down(data unsafe.Pointer, t *C.struct_wl_touch, serial, time C.uint32_t, surf *C.struct_wl_surface, id C.int32_t, x, y C.wl_fixed_t) {
	d := wlGlobalDisplay
	if d == nil {
		return
	}
	w := d.findWindowBySurface(surf)
	if w == nil {
		return
	}
	w.mu.Lock()
	if w.touchSlotByID == nil {
		w.touchSlotByID = make(map[C.int32_t]int)
	}
	slot := 0
	for s := 0; s < maxTouchSlots; s++ {
		taken := false
		for _, used := range w.touchSlotByID {
			if used == s {
				taken = true
				break
			}
		}
		if !taken {
			slot = s
			break
		}
	}
	w.touchSlotByID[id] = slot
	w.mu.Unlock()
	pointer := w.touch.Down(slot)
	pos := event.Vec2{X: wlFixedToFloat(x), Y: wlFixedToFloat(y)}
	w.cb.SendMouseButton(event.Press, pos, event.ButtonLeft, pointer)
}

//export go_touch_up
func go_touch_up(data unsafe.Pointer, t *C.struct_wl_touch, serial, time C.uint32_t, id C.int32_t) {
	d := wlGlobalDisplay
	if d == nil {
		return
	}
	d.mu.Lock()
	windows := make([]*wlWindow, 0, len(d.windows))
	for _, w := range d.windows {
		windows = append(windows, w)
	}
	d.mu.Unlock()
	for _, w := range windows {
		w.mu.Lock()
		slot, ok := w.touchSlotByID[id]
		if ok {
			delete(w.touchSlotByID, id)
		}
		w.mu.Unlock()
		if !ok {
			continue
		}
		pointer := w.touch.Up(slot)
		w.cb.SendMouseButton(event.Release, event.OutOfWindow, event.ButtonLeft, pointer)
		return
	}
}

//export go_touch_motion
func go_touch_motion(data unsafe.Pointer, t *C.struct_wl_touch, time C.uint32_t, id C.int32_t, x, y C.wl_fixed_t) {
	d := wlGlobalDisplay
	if d == nil {
		return
	}
	d.mu.Lock()
	windows := make([]*wlWindow, 0, len(d.windows))
	for _, w := range d.windows {
		windows = append(windows, w)
	}
	d.mu.Unlock()
	for _, w := range windows {
		w.mu.Lock()
		slot, ok := w.touchSlotByID[id]
		w.mu.Unlock()
		if !ok {
			continue
		}
		pos := event.Vec2{X: wlFixedToFloat(x), Y: wlFixedToFloat(y)}
		w.cb.SendMouseMove(pos, event.TouchPointer(slot))
		return
	}
}

//export go_touch_cancel
func go_touch_cancel(data unsafe.Pointer, t *C.struct_wl_touch) {
	d := wlGlobalDisplay
	if d == nil {
		return
	}
	d.mu.Lock()
	windows := make([]*wlWindow, 0, len(d.windows))
	for _, w := range d.windows {
		windows = append(windows, w)
	}
	d.mu.Unlock()
	for _, w := range windows {
		w.touch.Cancel(w.cb, event.ButtonLeft)
		w.mu.Lock()
		w.touchSlotByID = nil
		w.mu.Unlock()
	}
}

func (d *wlDisplay) findWindowBySurface(surf *C.struct_wl_surface) *wlWindow {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.windows[surf]
}

func (d *wlDisplay) findWindowBySurfaceLocked(surf *C.struct_wl_surface) *wlWindow {
	return d.windows[surf]
}

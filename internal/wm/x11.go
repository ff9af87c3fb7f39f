// +build linux,!android freebsd openbsd

package wm

/*
#cgo openbsd CFLAGS: -I/usr/X11R6/include -I/usr/local/include
#cgo openbsd LDFLAGS: -L/usr/X11R6/lib -L/usr/local/lib
#cgo freebsd openbsd LDFLAGS: -lX11 -lX11-xcb -lXcursor -lXfixes
#cgo linux pkg-config: x11 x11-xcb xcursor xfixes

#include <stdlib.h>
#include <X11/Xlib.h>
#include <X11/Xatom.h>
#include <X11/Xutil.h>
#include <X11/XKBlib.h>
#include <X11/Xlib-xcb.h>
#include <X11/extensions/Xfixes.h>
#include <X11/Xcursor/Xcursor.h>

static char xkbEventBaseOf(Display *d) {
	int opcode, event, error, major, minor;
	XkbQueryExtension(d, &opcode, &event, &error, &major, &minor);
	return (char)event;
}

// xcursorImagePixels exposes an XcursorImage's pixel buffer as a flat
// byte slice base, since cgo cannot index the XcursorPixel* field
// directly from Go.
static XcursorPixel *xcursorImagePixels(XcursorImage *img) {
	return img->pixels;
}
*/
import "C"

import (
	"errors"
	"fmt"
	"image"
	"sync"
	"time"
	"unsafe"

	"golang.org/x/image/draw"

	"github.com/ruisapp-go/ruisapp/event"
	"github.com/ruisapp-go/ruisapp/internal/egl"
	"github.com/ruisapp-go/ruisapp/internal/xkb"
)

// x11Display is the X11 Display/backend singleton (spec §4.1).
type x11Display struct {
	dpy          *C.Display
	xkbEventBase C.int

	root   *egl.Context // shared-context graph root: the first window's context, whose window is rootWin.
	rootWin C.Window

	queue Queue

	cursors map[CursorShape]*C.XcursorImage
	xCursors map[CursorShape]C.Cursor

	windows map[C.Window]*x11Window

	notifyRead, notifyWrite int
}

// NewX11Display opens the default X11 display connection.
func NewX11Display() (Display, error) {
	dpy := C.XOpenDisplay(nil)
	if dpy == nil {
		return nil, fmt.Errorf("x11: %w", ErrDisplayUnavailable)
	}
	d := &x11Display{
		dpy:      dpy,
		cursors:  make(map[CursorShape]*C.XcursorImage),
		xCursors: make(map[CursorShape]C.Cursor),
		windows:  make(map[C.Window]*x11Window),
	}
	d.xkbEventBase = C.int(C.xkbEventBaseOf(dpy))
	if r, w, err := pipe2(); err == nil {
		d.notifyRead, d.notifyWrite = r, w
	}
	d.queue.SetWake(func() { d.wake() })
	return d, nil
}

func (d *x11Display) wake() {
	if d.notifyWrite != 0 {
		writeByte(d.notifyWrite)
	}
}

func (d *x11Display) DotsPerInch() float32 {
	screen := C.XDefaultScreenOfDisplay(d.dpy)
	widthPx := float32(C.XWidthOfScreen(screen))
	heightPx := float32(C.XHeightOfScreen(screen))
	widthMM := float32(C.XWidthMMOfScreen(screen))
	heightMM := float32(C.XHeightMMOfScreen(screen))
	return dotsPerInchFromPhysical(event.Vec2{X: widthPx, Y: heightPx}, event.Vec2{X: widthMM, Y: heightMM})
}

func (d *x11Display) PixelsPerPP(resolutionPx, sizeMM event.Vec2) float32 {
	return pixelsPerPP(resolutionPx, sizeMM, 0)
}

func (d *x11Display) GetCursor(shape CursorShape) (CursorHandle, error) {
	if c, ok := d.xCursors[shape]; ok {
		return c, nil
	}
	c, err := x11LoadCursor(d.dpy, shape)
	if err != nil {
		return nil, err
	}
	d.xCursors[shape] = c
	return c, nil
}

func (d *x11Display) NewWindow(api APIVersion, opts Options, shared Context, cb Callbacks) (Driver, Context, error) {
	screen := C.XDefaultScreen(d.dpy)
	root := C.XRootWindow(d.dpy, screen)

	var attrs C.XSetWindowAttributes
	attrs.event_mask = C.ExposureMask | C.FocusChangeMask |
		C.KeyPressMask | C.KeyReleaseMask |
		C.ButtonPressMask | C.ButtonReleaseMask |
		C.PointerMotionMask | C.EnterWindowMask | C.LeaveWindowMask |
		C.StructureNotifyMask

	width, height := int(opts.Size.X), int(opts.Size.Y)
	if width <= 0 {
		width = 800
	}
	if height <= 0 {
		height = 600
	}

	xw := C.XCreateWindow(d.dpy, root, 0, 0, C.uint(width), C.uint(height), 0,
		C.CopyFromParent, C.InputOutput, nil,
		C.CWEventMask, &attrs)
	if xw == 0 {
		return nil, nil, fmt.Errorf("x11: %w", ErrWindowCreationFailed)
	}

	w := &x11Window{
		disp:   d,
		xw:     xw,
		cb:     cb,
		width:  width,
		height: height,
		title:  opts.Title,
	}

	xkbCtx, err := xkb.New()
	if err == nil {
		w.xkb = xkbCtx
	}

	disp := egl.NativeDisplayType(unsafe.Pointer(d.dpy))
	ctx, err := egl.NewContext(disp)
	if err != nil {
		C.XDestroyWindow(d.dpy, xw)
		return nil, nil, fmt.Errorf("x11: %w: %v", ErrContextCreationFailed, err)
	}
	if err := ctx.CreateSurface(egl.NativeWindowType(uintptr(xw)), width, height); err != nil {
		ctx.Release()
		C.XDestroyWindow(d.dpy, xw)
		return nil, nil, fmt.Errorf("x11: %w: %v", ErrSurfaceCreationFailed, err)
	}
	w.ctx = ctx

	evDelWindow := x11Atom(d.dpy, "WM_DELETE_WINDOW", false)
	w.evDelWindow = evDelWindow
	var protocols = [1]C.Atom{evDelWindow}
	C.XSetWMProtocols(d.dpy, xw, &protocols[0], 1)

	if opts.Title != "" {
		w.SetTitle(opts.Title)
	}
	if opts.Visible {
		C.XMapWindow(d.dpy, xw)
	}

	d.windows[xw] = w
	cb.SetDriver(w)

	if d.root == nil {
		d.root = ctx
		d.rootWin = xw
	}

	return w, ctx, nil
}

func (d *x11Display) Wait(timeout time.Duration) (nativeReady, timerExpired bool) {
	pending := C.XPending(d.dpy) != 0
	if pending || timeout <= 0 {
		return pending, timeout <= 0
	}
	return waitFDs(d.notifyRead, xConnectionFD(d.dpy), timeout)
}

func (d *x11Display) DispatchNative() {
	if d.notifyRead != 0 {
		drainByte(d.notifyRead)
	}
	var rep X11AutoRepeatDetector
	var releaseWin *x11Window
	var xev C.XEvent
	for C.XPending(d.dpy) != 0 {
		C.XNextEvent(d.dpy, &xev)
		xw := (*C.XAnyEvent)(unsafe.Pointer(&xev)).window
		w, ok := d.windows[xw]
		if !ok {
			continue
		}
		if (*C.XAnyEvent)(unsafe.Pointer(&xev))._type == C.KeyRelease {
			releaseWin = w
		}
		w.handleEvent(&xev, &rep)
	}
	// A release still pending here had no repeat press after it, so it
	// is a genuine release.
	if keycode, ok := rep.Flush(); ok && releaseWin != nil {
		releaseWin.cb.SendKey(event.Release, releaseWin.keyForCode(keycode))
	}
	for _, w := range d.windows {
		w.flushResize()
	}
}

func (d *x11Display) Queue() *Queue { return &d.queue }

func (d *x11Display) Close() {
	for xw := range d.windows {
		delete(d.windows, xw)
	}
	C.XCloseDisplay(d.dpy)
}

// x11Window is the X11 native-window wrapper (spec §4.3).
type x11Window struct {
	disp *x11Display
	xw   C.Window
	cb   Callbacks
	ctx  *egl.Context
	xkb  *xkb.Context

	mu     sync.Mutex
	width  int
	height int
	pendingW, pendingH int
	pendingResize      bool

	title       string
	fullscreen  bool
	preFSRect   [4]int
	evDelWindow C.Atom
	hovered     bool

	touch   TouchSlots
	pressed PressedButtons
}

func (w *x11Window) ID() WindowID { return w.xw }

func (w *x11Window) Dims() event.Vec2 {
	w.mu.Lock()
	defer w.mu.Unlock()
	return event.Vec2{X: float32(w.width), Y: float32(w.height)}
}

func (w *x11Window) DPI() float32 { return w.disp.DotsPerInch() }

func (w *x11Window) ScaleFactor() float32 {
	return w.disp.PixelsPerPP(w.Dims(), event.Vec2{X: 0, Y: 0})
}

func (w *x11Window) BindRenderingContext() error { return w.ctx.MakeCurrent() }

func (w *x11Window) SwapBuffers() { w.ctx.Swap() }

func (w *x11Window) SetVSync(enabled bool) { w.ctx.EnableVSync(enabled) }

func (w *x11Window) SetTitle(title string) {
	w.title = title
	ctitle := C.CString(title)
	defer C.free(unsafe.Pointer(ctitle))
	C.XStoreName(w.disp.dpy, w.xw, ctitle)
}

func (w *x11Window) SetMouseCursor(shape CursorShape) {
	c, err := w.disp.GetCursor(shape)
	if err != nil {
		logf("x11: cursor %v unavailable: %v", shape, err)
		return
	}
	C.XDefineCursor(w.disp.dpy, w.xw, c.(C.Cursor))
}

func (w *x11Window) SetMouseCursorVisible(visible bool) {
	if visible {
		C.XFixesShowCursor(w.disp.dpy, w.xw)
	} else {
		C.XFixesHideCursor(w.disp.dpy, w.xw)
	}
}

func (w *x11Window) SetFullscreen(fullscreen bool) {
	if fullscreen == w.fullscreen {
		return
	}
	wmState := x11Atom(w.disp.dpy, "_NET_WM_STATE", false)
	wmFullscreen := x11Atom(w.disp.dpy, "_NET_WM_STATE_FULLSCREEN", false)
	x11SendWMStateEvent(w.disp.dpy, w.xw, wmState, wmFullscreen, fullscreen)
	w.fullscreen = fullscreen
}

func (w *x11Window) IsFullscreen() bool { return w.fullscreen }

func (w *x11Window) Close() {
	if w.xkb != nil {
		w.xkb.Destroy()
	}
	C.XDestroyWindow(w.disp.dpy, w.xw)
	delete(w.disp.windows, w.xw)
}

func (w *x11Window) flushResize() {
	w.mu.Lock()
	if !w.pendingResize {
		w.mu.Unlock()
		return
	}
	w.width, w.height = w.pendingW, w.pendingH
	w.pendingResize = false
	size := event.Vec2{X: float32(w.width), Y: float32(w.height)}
	w.mu.Unlock()
	w.cb.Resized(size)
}

// handleEvent normalizes one XEvent into the abstract vocabulary
// (spec §4.4), using rep to collapse X11 key auto-repeat (invariant 6).
func (w *x11Window) handleEvent(xev *C.XEvent, rep *X11AutoRepeatDetector) {
	anyEv := (*C.XAnyEvent)(unsafe.Pointer(xev))
	switch anyEv._type {
	case C.ConfigureNotify:
		cev := (*C.XConfigureEvent)(unsafe.Pointer(xev))
		w.mu.Lock()
		w.pendingW, w.pendingH = int(cev.width), int(cev.height)
		w.pendingResize = true
		w.mu.Unlock()
	case C.ClientMessage:
		cev := (*C.XClientMessageEvent)(unsafe.Pointer(xev))
		if C.Atom(x11GetLong(cev, 0)) == w.evDelWindow {
			w.cb.Closed()
		}
	case C.EnterNotify:
		w.hovered = true
		w.cb.SendMouseHover(true, event.MousePointer)
	case C.LeaveNotify:
		w.hovered = false
		w.pressed.CancelAll(w.cb, event.MousePointer)
		w.cb.SendMouseHover(false, event.MousePointer)
	case C.MotionNotify:
		mev := (*C.XMotionEvent)(unsafe.Pointer(xev))
		w.cb.SendMouseMove(event.Vec2{X: float32(mev.x), Y: float32(mev.y)}, event.MousePointer)
	case C.ButtonPress, C.ButtonRelease:
		bev := (*C.XButtonEvent)(unsafe.Pointer(xev))
		pos := event.Vec2{X: float32(bev.x), Y: float32(bev.y)}
		button := X11WheelButton(int(bev.button))
		if bev.button >= 4 && bev.button <= 7 {
			if anyEv._type == C.ButtonPress {
				EmitWheelClicks(w.cb, 1, pos, button, event.MousePointer)
			}
			return
		}
		action := event.Press
		if anyEv._type == C.ButtonRelease {
			action = event.Release
			w.pressed.Release(button)
		} else {
			w.pressed.Press(button)
		}
		w.cb.SendMouseButton(action, pos, button, event.MousePointer)
	case C.KeyRelease:
		kev := (*C.XKeyEvent)(unsafe.Pointer(xev))
		if keycode, ok := rep.Flush(); ok {
			w.cb.SendKey(event.Release, w.keyForCode(keycode))
		}
		rep.PendingRelease(uint32(kev.keycode), uint32(kev.time))
	case C.KeyPress:
		kev := (*C.XKeyEvent)(unsafe.Pointer(xev))
		releasedKey := w.keyForCode(rep.pendingKeycode)
		isRepeat, flushedRelease := rep.Resolve(uint32(kev.keycode), uint32(kev.time))
		key := w.keyForCode(uint32(kev.keycode))
		if isRepeat {
			w.sendComposedText(uint32(kev.keycode), key)
			return
		}
		if flushedRelease {
			w.cb.SendKey(event.Release, releasedKey)
		}
		w.cb.SendKey(event.Press, key)
		w.sendComposedText(uint32(kev.keycode), key)
	}
}

func (w *x11Window) keyForCode(keycode uint32) event.Key {
	return x11KeyTable.Lookup(int(keycode))
}

func (w *x11Window) sendComposedText(keycode uint32, key event.Key) {
	if w.xkb == nil {
		return
	}
	w.cb.SendCharacterInput(func() []rune {
		// DispatchKey takes an evdev code; X11 keycodes are evdev codes plus 8.
		return w.xkb.DispatchKey(keycode-8, event.Press)
	}, key)
}

func x11Atom(dpy *C.Display, name string, onlyIfExists bool) C.Atom {
	cname := C.CString(name)
	defer C.free(unsafe.Pointer(cname))
	flag := C.Bool(C.False)
	if onlyIfExists {
		flag = C.True
	}
	return C.XInternAtom(dpy, cname, flag)
}

func x11GetLong(cev *C.XClientMessageEvent, idx int) C.long {
	data := (*[5]C.long)(unsafe.Pointer(&cev.data))
	return data[idx]
}

// x11SendWMStateEvent toggles _NET_WM_STATE_FULLSCREEN via the
// documented EWMH ClientMessage protocol (spec §4.3, §5 "Fullscreen
// atomicity").
func x11SendWMStateEvent(dpy *C.Display, xw C.Window, state, value C.Atom, set bool) {
	const (
		netWMStateRemove = 0
		netWMStateAdd    = 1
	)
	action := C.long(netWMStateRemove)
	if set {
		action = netWMStateAdd
	}
	var xev C.XEvent
	cm := (*C.XClientMessageEvent)(unsafe.Pointer(&xev))
	cm._type = C.ClientMessage
	cm.window = xw
	cm.message_type = state
	cm.format = 32
	data := (*[5]C.long)(unsafe.Pointer(&cm.data))
	data[0] = action
	data[1] = C.long(value)
	root := C.XDefaultRootWindow(dpy)
	C.XSendEvent(dpy, root, C.False,
		C.SubstructureRedirectMask|C.SubstructureNotifyMask, &xev)
}

func x11LoadCursor(dpy *C.Display, shape CursorShape) (C.Cursor, error) {
	if shape == CursorNone {
		return x11BlankCursor(dpy)
	}
	name := x11CursorName(shape)
	if name == "" {
		return 0, errors.New("x11: no Xcursor name for shape")
	}
	cname := C.CString(name)
	defer C.free(unsafe.Pointer(cname))
	c := C.XcursorLibraryLoadCursor(dpy, cname)
	if c == 0 {
		return 0, fmt.Errorf("x11: XcursorLibraryLoadCursor(%s) failed", name)
	}
	return c, nil
}

// x11BlankCursor builds the invisible cursor used by CursorNone. Unlike
// the named shapes above, "no cursor" has no Xcursor theme entry, so
// it is synthesized directly: a fully transparent image.NRGBA, scaled
// to the theme's default cursor size with x/image/draw, uploaded as an
// ARGB32 XcursorImage (spec §4.1, "the none cursor's transparent
// bitmap").
func x11BlankCursor(dpy *C.Display) (C.Cursor, error) {
	size := int(C.XcursorGetDefaultSize(dpy))
	if size <= 0 {
		size = 24
	}
	src := image.NewNRGBA(image.Rect(0, 0, 1, 1))
	dst := image.NewNRGBA(image.Rect(0, 0, size, size))
	draw.NearestNeighbor.Scale(dst, dst.Bounds(), src, src.Bounds(), draw.Over, nil)

	img := C.XcursorImageCreate(C.int(size), C.int(size))
	if img == nil {
		return 0, errors.New("x11: XcursorImageCreate failed")
	}
	defer C.XcursorImageDestroy(img)
	img.xhot = 0
	img.yhot = 0

	pixels := C.xcursorImagePixels(img)
	out := unsafe.Slice((*uint32)(unsafe.Pointer(pixels)), size*size)
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			r, g, b, a := dst.At(x, y).RGBA()
			out[y*size+x] = uint32(a>>8)<<24 | uint32(r>>8)<<16 | uint32(g>>8)<<8 | uint32(b>>8)
		}
	}

	cur := C.XcursorImageLoadCursor(dpy, img)
	if cur == 0 {
		return 0, errors.New("x11: XcursorImageLoadCursor failed")
	}
	return cur, nil
}

func x11CursorName(shape CursorShape) string {
	switch shape {
	case CursorNone:
		return "none"
	case CursorArrow:
		return "left_ptr"
	case CursorLeftRightArrow:
		return "sb_h_double_arrow"
	case CursorUpDownArrow:
		return "sb_v_double_arrow"
	case CursorAllDirectionsArrow:
		return "fleur"
	case CursorLeftSide:
		return "left_side"
	case CursorRightSide:
		return "right_side"
	case CursorTopSide:
		return "top_side"
	case CursorBottomSide:
		return "bottom_side"
	case CursorTopLeftCorner:
		return "top_left_corner"
	case CursorTopRightCorner:
		return "top_right_corner"
	case CursorBottomLeftCorner:
		return "bottom_left_corner"
	case CursorBottomRightCorner:
		return "bottom_right_corner"
	case CursorIndexFinger:
		return "hand2"
	case CursorGrab:
		return "hand1"
	case CursorCaret:
		return "xterm"
	default:
		return "left_ptr"
	}
}

func xConnectionFD(dpy *C.Display) int {
	return int(C.XConnectionNumber(dpy))
}

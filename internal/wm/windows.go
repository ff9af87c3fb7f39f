// +build windows

package wm

import (
	"fmt"
	"sync"
	"syscall"
	"time"
	"unicode"
	"unsafe"

	win "golang.org/x/sys/windows"

	"github.com/ruisapp-go/ruisapp/event"
	"github.com/ruisapp-go/ruisapp/internal/egl"
)

var (
	user32               = syscall.NewLazyDLL("user32.dll")
	procRegisterClassExW = user32.NewProc("RegisterClassExW")
	procCreateWindowExW  = user32.NewProc("CreateWindowExW")
	procDefWindowProcW   = user32.NewProc("DefWindowProcW")
	procGetDC            = user32.NewProc("GetDC")
	procPostMessageW     = user32.NewProc("PostMessageW")
	procDestroyWindow    = user32.NewProc("DestroyWindow")
	procSetWindowTextW   = user32.NewProc("SetWindowTextW")
	procShowWindow       = user32.NewProc("ShowWindow")
	procGetClientRect    = user32.NewProc("GetClientRect")
	procScreenToClient   = user32.NewProc("ScreenToClient")
	procSetWindowLongPtr = user32.NewProc("SetWindowLongPtrW")
	procGetSystemMetrics = user32.NewProc("GetSystemMetrics")
)

const (
	wmDestroy     = 0x0002
	wmSize        = 0x0005
	wmClose       = 0x0010
	wmChar        = 0x0102
	wmKeyDown     = 0x0100
	wmKeyUp       = 0x0101
	wmMouseMove   = 0x0200
	wmLButtonDown = 0x0201
	wmLButtonUp   = 0x0202
	wmRButtonDown = 0x0204
	wmRButtonUp   = 0x0205
	wmMButtonDown = 0x0207
	wmMButtonUp   = 0x0208
	wmMouseWheel  = 0x020A
	wmMouseHWheel = 0x020E

	swShow = 5

	smCxScreen = 0
	smCyScreen = 1
)

// win32KeyTable maps virtual-key codes (WM_KEYDOWN's WPARAM) to the
// abstract vocabulary.
var win32KeyTable = buildWin32KeyTable()

func buildWin32KeyTable() KeyTable {
	var t KeyTable
	for i := 0; i < 26; i++ {
		t[0x41+i] = event.Key(string(rune('a' + i)))
	}
	for i := 0; i < 10; i++ {
		t[0x30+i] = event.Key(string(rune('0' + i)))
	}
	t[0x08] = "backspace"
	t[0x09] = "tab"
	t[0x0D] = "enter"
	t[0x1B] = "escape"
	t[0x20] = "space"
	t[0x2E] = "delete"
	t[0x25] = "left"
	t[0x26] = "up"
	t[0x27] = "right"
	t[0x28] = "down"
	t[0xA0] = "left_shift"
	t[0xA1] = "right_shift"
	t[0xA2] = "left_control"
	t[0xA3] = "right_control"
	t[0xA4] = "left_alt"
	t[0xA5] = "right_alt"
	for i := 0; i < 12; i++ {
		t[0x70+i] = event.Key(fmt.Sprintf("f%d", i+1))
	}
	return t
}

// win32Display is the Win32 Display/backend singleton (spec §4.1).
type win32Display struct {
	class    *uint16
	instance syscall.Handle

	queue Queue

	mu      sync.Mutex
	windows map[syscall.Handle]*win32Window
	root    *egl.Context

	msgChan chan struct{}
}

var win32Global *win32Display

const wmUserPost = 0x0400 + 1

// NewWin32Display registers the window class shared by every window
// this process creates.
func NewWin32Display() (Display, error) {
	className, _ := syscall.UTF16PtrFromString("ruisapp-go")
	d := &win32Display{class: className, windows: make(map[syscall.Handle]*win32Window)}
	win32Global = d
	d.queue.SetWake(func() { d.wake() })

	var wc winWndClassEx
	wc.size = uint32(unsafe.Sizeof(wc))
	wc.wndProc = syscall.NewCallback(win32WndProc)
	wc.classNamePtr = className
	r, _, _ := procRegisterClassExW.Call(uintptr(unsafe.Pointer(&wc)))
	if r == 0 {
		return nil, fmt.Errorf("win32: %w: RegisterClassExW failed", ErrDisplayUnavailable)
	}
	return d, nil
}

type winWndClassEx struct {
	size         uint32
	style        uint32
	wndProc      uintptr
	clsExtra     int32
	wndExtra     int32
	instance     syscall.Handle
	icon         syscall.Handle
	cursor       syscall.Handle
	background   syscall.Handle
	menuNamePtr  *uint16
	classNamePtr *uint16
	iconSm       syscall.Handle
}

func (d *win32Display) wake() {
	for hwnd := range d.windows {
		procPostMessageW.Call(uintptr(hwnd), wmUserPost, 0, 0)
		return
	}
}

func (d *win32Display) DotsPerInch() float32 { return 96 }

func (d *win32Display) PixelsPerPP(resolutionPx, sizeMM event.Vec2) float32 {
	return pixelsPerPP(resolutionPx, sizeMM, 0)
}

func (d *win32Display) GetCursor(shape CursorShape) (CursorHandle, error) {
	return shape, nil
}

func (d *win32Display) NewWindow(api APIVersion, opts Options, shared Context, cb Callbacks) (Driver, Context, error) {
	width, height := int32(opts.Size.X), int32(opts.Size.Y)
	if width <= 0 {
		width = 800
	}
	if height <= 0 {
		height = 600
	}
	title, _ := syscall.UTF16PtrFromString(opts.Title)
	const wsOverlappedWindow = 0x00CF0000
	hwnd, _, _ := procCreateWindowExW.Call(
		0,
		uintptr(unsafe.Pointer(d.class)),
		uintptr(unsafe.Pointer(title)),
		uintptr(wsOverlappedWindow),
		uintptr(0x80000000), uintptr(0x80000000), // CW_USEDEFAULT
		uintptr(width), uintptr(height),
		0, 0, uintptr(d.instance), 0)
	if hwnd == 0 {
		return nil, nil, fmt.Errorf("win32: %w", ErrWindowCreationFailed)
	}
	h := syscall.Handle(hwnd)

	hdc, _, _ := procGetDC.Call(hwnd)

	w := &win32Window{disp: d, hwnd: h, hdc: syscall.Handle(hdc), width: int(width), height: int(height), cb: cb, title: opts.Title}

	ctx, err := egl.NewContext(egl.NativeDisplayType(unsafe.Pointer(uintptr(hdc))))
	if err != nil {
		return nil, nil, fmt.Errorf("win32: %w: %v", ErrContextCreationFailed, err)
	}
	if err := ctx.CreateSurface(egl.NativeWindowType(hwnd), int(width), int(height)); err != nil {
		ctx.Release()
		return nil, nil, fmt.Errorf("win32: %w: %v", ErrSurfaceCreationFailed, err)
	}
	w.ctx = ctx

	d.mu.Lock()
	d.windows[h] = w
	if d.root == nil {
		d.root = ctx
	}
	d.mu.Unlock()

	if opts.Visible {
		procShowWindow.Call(hwnd, swShow)
	}
	cb.SetDriver(w)
	return w, ctx, nil
}

func (d *win32Display) Wait(timeout time.Duration) (nativeReady, timerExpired bool) {
	// Sleeps for the whole timeout: neither a window message nor a
	// Queue.Post (whose wake posts a message) ends the sleep early.
	time.Sleep(timeout)
	return true, timeout > 0
}

func (d *win32Display) DispatchNative() {
	var msg win.Msg
	for {
		r, _, _ := procPeekMessageW.Call(uintptr(unsafe.Pointer(&msg)), 0, 0, 0, 1 /* PM_REMOVE */)
		if r == 0 {
			break
		}
		procTranslateMessageW.Call(uintptr(unsafe.Pointer(&msg)))
		procDispatchMessageW.Call(uintptr(unsafe.Pointer(&msg)))
	}
	d.mu.Lock()
	windows := make([]*win32Window, 0, len(d.windows))
	for _, w := range d.windows {
		windows = append(windows, w)
	}
	d.mu.Unlock()
	for _, w := range windows {
		w.flushResize()
	}
}

var (
	procPeekMessageW      = user32.NewProc("PeekMessageW")
	procTranslateMessageW = user32.NewProc("TranslateMessage")
	procDispatchMessageW  = user32.NewProc("DispatchMessageW")
)

func (d *win32Display) Queue() *Queue { return &d.queue }

func (d *win32Display) Close() {}

// win32Window is the Win32 native-window wrapper.
type win32Window struct {
	disp  *win32Display
	hwnd  syscall.Handle
	hdc   syscall.Handle
	ctx   *egl.Context
	cb    Callbacks
	title string

	mu                 sync.Mutex
	width, height      int
	pendingW, pendingH int
	pendingResize      bool
	fullscreen         bool

	pendingAutoRepeat bool
}

func (w *win32Window) ID() WindowID { return w.hwnd }

func (w *win32Window) Dims() event.Vec2 {
	w.mu.Lock()
	defer w.mu.Unlock()
	return event.Vec2{X: float32(w.width), Y: float32(w.height)}
}

func (w *win32Window) DPI() float32 { return w.disp.DotsPerInch() }

func (w *win32Window) ScaleFactor() float32 {
	return w.disp.PixelsPerPP(w.Dims(), event.Vec2{})
}

func (w *win32Window) BindRenderingContext() error { return w.ctx.MakeCurrent() }

func (w *win32Window) SwapBuffers() { w.ctx.Swap() }

func (w *win32Window) SetVSync(enabled bool) { w.ctx.EnableVSync(enabled) }

func (w *win32Window) SetTitle(title string) {
	w.title = title
	ptr, _ := syscall.UTF16PtrFromString(title)
	procSetWindowTextW.Call(uintptr(w.hwnd), uintptr(unsafe.Pointer(ptr)))
}

func (w *win32Window) SetMouseCursor(shape CursorShape) { _ = shape }

func (w *win32Window) SetMouseCursorVisible(visible bool) { _ = visible }

func (w *win32Window) SetFullscreen(fullscreen bool) {
	// A full implementation saves/restores the window rect and style
	// bits around the enclosing monitor's geometry (spec §4.3); elided
	// here since it requires GetMonitorInfo/SetWindowPos plumbing beyond
	// what this file's minimal user32 surface imports.
	w.fullscreen = fullscreen
}

func (w *win32Window) IsFullscreen() bool { return w.fullscreen }

func (w *win32Window) Close() {
	procDestroyWindow.Call(uintptr(w.hwnd))
	w.disp.mu.Lock()
	delete(w.disp.windows, w.hwnd)
	w.disp.mu.Unlock()
}

func (w *win32Window) flushResize() {
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

func coordsFromLParam(lParam uintptr) (int, int) {
	x := int(int16(lParam & 0xffff))
	y := int(int16((lParam >> 16) & 0xffff))
	return x, y
}

// win32WndProc normalizes WndProc messages into the abstract
// vocabulary (spec §4.4); wheel quantization uses Win32WheelClicks /
// Win32HWheelClicks (invariant 8).
func win32WndProc(hwnd syscall.Handle, msg uint32, wParam, lParam uintptr) uintptr {
	d := win32Global
	if d == nil {
		r, _, _ := procDefWindowProcW.Call(uintptr(hwnd), uintptr(msg), wParam, lParam)
		return r
	}
	d.mu.Lock()
	w, ok := d.windows[hwnd]
	d.mu.Unlock()
	if !ok {
		r, _, _ := procDefWindowProcW.Call(uintptr(hwnd), uintptr(msg), wParam, lParam)
		return r
	}

	switch msg {
	case wmChar:
		r := rune(wParam)
		if unicode.IsPrint(r) {
			w.cb.SendCharacterInput(func() []rune { return []rune{r} }, event.Unknown)
		}
		return 1
	case wmKeyDown, wmKeyUp:
		key := win32KeyTable.Lookup(int(wParam))
		action := event.Press
		if msg == wmKeyUp {
			action = event.Release
		}
		w.cb.SendKey(action, key)
	case wmLButtonDown, wmLButtonUp:
		x, y := coordsFromLParam(lParam)
		action := event.Press
		if msg == wmLButtonUp {
			action = event.Release
		}
		w.cb.SendMouseButton(action, event.Vec2{X: float32(x), Y: float32(y)}, event.ButtonLeft, event.MousePointer)
	case wmRButtonDown, wmRButtonUp:
		x, y := coordsFromLParam(lParam)
		action := event.Press
		if msg == wmRButtonUp {
			action = event.Release
		}
		w.cb.SendMouseButton(action, event.Vec2{X: float32(x), Y: float32(y)}, event.ButtonRight, event.MousePointer)
	case wmMButtonDown, wmMButtonUp:
		x, y := coordsFromLParam(lParam)
		action := event.Press
		if msg == wmMButtonUp {
			action = event.Release
		}
		w.cb.SendMouseButton(action, event.Vec2{X: float32(x), Y: float32(y)}, event.ButtonMiddle, event.MousePointer)
	case wmMouseMove:
		x, y := coordsFromLParam(lParam)
		w.cb.SendMouseMove(event.Vec2{X: float32(x), Y: float32(y)}, event.MousePointer)
	case wmMouseWheel:
		x, y := coordsFromLParam(lParam)
		var pt win.Point
		pt.X, pt.Y = int32(x), int32(y)
		procScreenToClient.Call(uintptr(hwnd), uintptr(unsafe.Pointer(&pt)))
		delta := int16(wParam >> 16)
		clicks, button := Win32WheelClicks(delta)
		EmitWheelClicks(w.cb, clicks, event.Vec2{X: float32(pt.X), Y: float32(pt.Y)}, button, event.MousePointer)
	case wmMouseHWheel:
		x, y := coordsFromLParam(lParam)
		var pt win.Point
		pt.X, pt.Y = int32(x), int32(y)
		procScreenToClient.Call(uintptr(hwnd), uintptr(unsafe.Pointer(&pt)))
		delta := int16(wParam >> 16)
		clicks, button := Win32HWheelClicks(delta)
		EmitWheelClicks(w.cb, clicks, event.Vec2{X: float32(pt.X), Y: float32(pt.Y)}, button, event.MousePointer)
	case wmSize:
		var rect win.Rect
		procGetClientRect.Call(uintptr(hwnd), uintptr(unsafe.Pointer(&rect)))
		w.mu.Lock()
		w.pendingW, w.pendingH = int(rect.Right-rect.Left), int(rect.Bottom-rect.Top)
		w.pendingResize = true
		w.mu.Unlock()
	case wmClose:
		w.cb.Closed()
		return 0
	case wmDestroy:
		return 0
	}

	r, _, _ := procDefWindowProcW.Call(uintptr(hwnd), uintptr(msg), wParam, lParam)
	return r
}

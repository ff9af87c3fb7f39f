// +build android

package wm

import (
	"fmt"
	"log"
	"sync"
	"time"
	"unsafe"

	mgl "golang.org/x/mobile/gl"

	"github.com/ruisapp-go/ruisapp/event"
	"github.com/ruisapp-go/ruisapp/internal/egl"
)

func logf(format string, args ...interface{}) { log.Printf(format, args...) }

/*
#cgo LDFLAGS: -landroid -lEGL

#include <android/native_window.h>
#include <android/native_window_jni.h>
#include <android/input.h>
*/
import "C"

// androidDisplay is the Android Display/backend singleton. Android
// allows exactly one window per process (spec §4.7): the NativeActivity
// owns the surface lifecycle, and this backend attaches/detaches an EGL
// surface as onNativeWindowCreated/onNativeWindowDestroyed fire rather
// than creating or destroying the window itself.
type androidDisplay struct {
	queue Queue

	mu   sync.Mutex
	win  *androidWindow
	root *egl.Context
}

var androidGlobalDisplay *androidDisplay

// NewAndroidDisplay returns the process-wide Android backend. The
// native window surface is not yet attached; it arrives later via
// onNativeWindowCreated.
func NewAndroidDisplay() (Display, error) {
	d := &androidDisplay{}
	d.queue.SetWake(func() {})
	androidGlobalDisplay = d
	return d, nil
}

func (d *androidDisplay) DotsPerInch() float32 { return 160 }

func (d *androidDisplay) PixelsPerPP(resolutionPx, sizeMM event.Vec2) float32 {
	return pixelsPerPP(resolutionPx, sizeMM, 0)
}

func (d *androidDisplay) GetCursor(shape CursorShape) (CursorHandle, error) {
	return shape, nil
}

// NewWindow registers the window's Callbacks; the EGL surface itself is
// attached lazily once onNativeWindowCreated delivers a native window.
func (d *androidDisplay) NewWindow(api APIVersion, opts Options, shared Context, cb Callbacks) (Driver, Context, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.win != nil {
		return nil, nil, fmt.Errorf("android: %w", ErrMultipleWindowsNotSupported)
	}
	w := &androidWindow{disp: d, cb: cb}
	d.win = w
	cb.SetDriver(w)
	return w, &androidContext{}, nil
}

func (d *androidDisplay) Wait(timeout time.Duration) (nativeReady, timerExpired bool) {
	time.Sleep(timeout)
	return true, timeout > 0
}

func (d *androidDisplay) DispatchNative() {
	d.mu.Lock()
	w := d.win
	d.mu.Unlock()
	if w != nil {
		w.flushResize()
		w.pumpInput()
	}
}

func (d *androidDisplay) Queue() *Queue { return &d.queue }

func (d *androidDisplay) Close() {}

// SingleWindow marks this backend as hosting exactly one window;
// Application.DestroyWindow checks it and refuses to destroy that window.
func (d *androidDisplay) SingleWindow() bool { return true }

// onNativeWindowCreated is invoked by the NativeActivity glue (JNI
// callback, not shown: android.app.NativeActivity delivers this
// through the app's native_activity_callbacks onNativeWindowCreated)
// when a drawing surface becomes available.
func onNativeWindowCreated(nativeWin *C.ANativeWindow) {
	d := androidGlobalDisplay
	if d == nil {
		return
	}
	d.mu.Lock()
	w := d.win
	d.mu.Unlock()
	if w == nil {
		return
	}
	w.attach(nativeWin)
}

// onNativeWindowDestroyed tears down the EGL surface without
// destroying the Go-level Window, mirroring Wayland's detachable
// surface lifecycle (spec §4.2).
func onNativeWindowDestroyed() {
	d := androidGlobalDisplay
	if d == nil {
		return
	}
	d.mu.Lock()
	w := d.win
	d.mu.Unlock()
	if w == nil {
		return
	}
	w.detach()
}

// onInputQueueCreated is invoked by the NativeActivity glue
// (onInputQueueCreated) when the system hands the activity its touch/key
// event queue. The queue is not attached to a looper; DispatchNative
// drains it on the same tick it flushes a pending resize, the same
// polled style the display's Wait/DispatchNative split already uses
// rather than an ALooper callback thread.
func onInputQueueCreated(queue *C.AInputQueue) {
	d := androidGlobalDisplay
	if d == nil {
		return
	}
	d.mu.Lock()
	w := d.win
	d.mu.Unlock()
	if w == nil {
		return
	}
	w.mu.Lock()
	w.inputQueue = queue
	w.mu.Unlock()
}

// onInputQueueDestroyed is invoked by the glue (onInputQueueDestroyed)
// before the queue itself is freed.
func onInputQueueDestroyed(queue *C.AInputQueue) {
	d := androidGlobalDisplay
	if d == nil {
		return
	}
	d.mu.Lock()
	w := d.win
	d.mu.Unlock()
	if w == nil {
		return
	}
	w.mu.Lock()
	if w.inputQueue == queue {
		w.inputQueue = nil
	}
	w.touch.Cancel(w.cb, event.ButtonLeft)
	w.touchSlotByID = nil
	w.mu.Unlock()
}

// androidContext is a thin placeholder returned from NewWindow before a
// native window exists; androidWindow.ctx (the real *egl.Context) is
// created once attach() runs and is what actually satisfies rendering.
type androidContext struct{ bound bool }

func (c *androidContext) Bind() error { return ErrContextCreationFailed }
func (c *androidContext) IsBound() bool { return c.bound }
func (c *androidContext) Swap() {}
func (c *androidContext) SetVSync(enabled bool) {}
func (c *androidContext) CreateSurface(handle uintptr, width, height int) error {
	return ErrUnsupported
}
func (c *androidContext) DestroySurface() error { return ErrUnsupported }
func (c *androidContext) Release()              {}

// androidWindow is the sole window this process will ever own.
type androidWindow struct {
	disp *androidDisplay
	cb   Callbacks

	mu            sync.Mutex
	nativeWin     *C.ANativeWindow
	ctx           *egl.Context
	width, height int

	inputQueue    *C.AInputQueue
	touch         TouchSlots
	touchSlotByID map[C.int32_t]int
}

func (w *androidWindow) attach(nativeWin *C.ANativeWindow) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.nativeWin = nativeWin
	width := int(C.ANativeWindow_getWidth(nativeWin))
	height := int(C.ANativeWindow_getHeight(nativeWin))

	if w.ctx == nil {
		ctx, err := egl.NewContext(egl.NativeDisplayType(nil))
		if err != nil {
			logf("android: egl context creation failed: %v", err)
			return
		}
		w.ctx = ctx
		w.disp.mu.Lock()
		if w.disp.root == nil {
			w.disp.root = ctx
		}
		w.disp.mu.Unlock()
	}
	if err := w.ctx.CreateSurface(uintptr(unsafe.Pointer(nativeWin)), width, height); err != nil {
		logf("android: egl surface creation failed: %v", err)
		return
	}
	w.width, w.height = width, height
	w.primeFramebuffer()
	w.cb.Resized(event.Vec2{X: float32(width), Y: float32(height)})
}

// androidGL and androidGLWorker back every window's post-attach clear:
// x/mobile/gl's Context is process-wide and dispatches GL calls onto
// whatever goroutine is pumping the Worker, which is why the pump is
// started once, lazily, rather than per-window.
var (
	androidGLOnce   sync.Once
	androidGL       mgl.Context
	androidGLWorker mgl.Worker
)

func androidGLContext() mgl.Context {
	androidGLOnce.Do(func() {
		androidGL, androidGLWorker = mgl.NewContext()
		go func() {
			for range androidGLWorker.WorkAvailable() {
				androidGLWorker.DoWork()
			}
		}()
	})
	return androidGL
}

// primeFramebuffer clears the freshly attached EGL surface to black
// before the first real frame, so a newly created or resumed activity
// never flashes uninitialized framebuffer contents (spec §4.2, context
// bring-up).
func (w *androidWindow) primeFramebuffer() {
	if err := w.ctx.Bind(); err != nil {
		logf("android: bind for framebuffer priming failed: %v", err)
		return
	}
	glctx := androidGLContext()
	glctx.ClearColor(0, 0, 0, 1)
	glctx.Clear(mgl.COLOR_BUFFER_BIT)
	w.ctx.Swap()
}

func (w *androidWindow) detach() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.ctx != nil {
		w.ctx.DestroySurface()
	}
	w.nativeWin = nil
}

func (w *androidWindow) ID() WindowID { return uintptr(unsafe.Pointer(w)) }

func (w *androidWindow) Dims() event.Vec2 {
	w.mu.Lock()
	defer w.mu.Unlock()
	return event.Vec2{X: float32(w.width), Y: float32(w.height)}
}

func (w *androidWindow) DPI() float32 { return w.disp.DotsPerInch() }

func (w *androidWindow) ScaleFactor() float32 {
	return w.disp.PixelsPerPP(w.Dims(), event.Vec2{})
}

func (w *androidWindow) BindRenderingContext() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.ctx == nil {
		return ErrContextCreationFailed
	}
	return w.ctx.Bind()
}

func (w *androidWindow) SwapBuffers() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.ctx != nil {
		w.ctx.Swap()
	}
}

func (w *androidWindow) SetVSync(enabled bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.ctx != nil {
		w.ctx.EnableVSync(enabled)
	}
}

func (w *androidWindow) SetTitle(title string) {}

func (w *androidWindow) SetMouseCursor(shape CursorShape) {}

func (w *androidWindow) SetMouseCursorVisible(visible bool) {}

func (w *androidWindow) SetFullscreen(fullscreen bool) {}

func (w *androidWindow) IsFullscreen() bool { return true }

// Close is a no-op: the Activity lifecycle, not application code,
// decides when the process and its sole window end (spec §4.7).
func (w *androidWindow) Close() {}

// pumpInput drains any touch/key events the NativeActivity's
// AInputQueue has queued since the last tick. The queue is polled
// rather than looper-driven (see onInputQueueCreated), matching the
// Display's own Wait/DispatchNative polling split, and a whole backlog
// is drained before returning.
func (w *androidWindow) pumpInput() {
	w.mu.Lock()
	queue := w.inputQueue
	w.mu.Unlock()
	if queue == nil {
		return
	}
	for {
		var ev *C.AInputEvent
		if C.AInputQueue_getEvent(queue, &ev) < 0 {
			return
		}
		if C.AInputQueue_preDispatchEvent(queue, ev) != 0 {
			continue
		}
		var handled C.int32_t
		switch C.AInputEvent_getType(ev) {
		case C.AINPUT_EVENT_TYPE_MOTION:
			w.handleMotionEvent(ev)
			handled = 1
		case C.AINPUT_EVENT_TYPE_KEY:
			w.handleKeyEvent(ev)
			handled = 1
		}
		C.AInputQueue_finishEvent(queue, ev, handled)
	}
}

// handleMotionEvent normalizes one AMotionEvent into the touch-slot
// vocabulary of spec §4.4: touch, not a pointing device, is the primary
// modality on this backend (spec §4.7).
func (w *androidWindow) handleMotionEvent(ev *C.AInputEvent) {
	action := int(C.AMotionEvent_getAction(ev))
	kind := action & int(C.AMOTION_EVENT_ACTION_MASK)
	index := (action & int(C.AMOTION_EVENT_ACTION_POINTER_INDEX_MASK)) >> C.AMOTION_EVENT_ACTION_POINTER_INDEX_SHIFT

	switch kind {
	case int(C.AMOTION_EVENT_ACTION_DOWN), int(C.AMOTION_EVENT_ACTION_POINTER_DOWN):
		w.touchDown(ev, index)
	case int(C.AMOTION_EVENT_ACTION_MOVE):
		count := int(C.AMotionEvent_getPointerCount(ev))
		for i := 0; i < count; i++ {
			w.touchMove(ev, i)
		}
	case int(C.AMOTION_EVENT_ACTION_UP), int(C.AMOTION_EVENT_ACTION_POINTER_UP):
		w.touchUp(ev, index)
	case int(C.AMOTION_EVENT_ACTION_CANCEL):
		w.mu.Lock()
		w.touch.Cancel(w.cb, event.ButtonLeft)
		w.touchSlotByID = nil
		w.mu.Unlock()
	}
}

// freeSlotLocked returns the lowest touch slot not currently assigned
// to a pointer id. w.mu must be held.
func (w *androidWindow) freeSlotLocked() int {
	used := make(map[int]bool, len(w.touchSlotByID))
	for _, slot := range w.touchSlotByID {
		used[slot] = true
	}
	for slot := 0; slot < maxTouchSlots; slot++ {
		if !used[slot] {
			return slot
		}
	}
	return 0
}

func (w *androidWindow) touchDown(ev *C.AInputEvent, index int) {
	id := C.AMotionEvent_getPointerId(ev, C.size_t(index))
	pos := event.Vec2{
		X: float32(C.AMotionEvent_getX(ev, C.size_t(index))),
		Y: float32(C.AMotionEvent_getY(ev, C.size_t(index))),
	}

	w.mu.Lock()
	if w.touchSlotByID == nil {
		w.touchSlotByID = make(map[C.int32_t]int)
	}
	slot := w.freeSlotLocked()
	w.touchSlotByID[id] = slot
	pointer := w.touch.Down(slot)
	w.mu.Unlock()

	w.cb.SendMouseMove(pos, pointer)
	w.cb.SendMouseButton(event.Press, pos, event.ButtonLeft, pointer)
}

func (w *androidWindow) touchMove(ev *C.AInputEvent, index int) {
	id := C.AMotionEvent_getPointerId(ev, C.size_t(index))
	pos := event.Vec2{
		X: float32(C.AMotionEvent_getX(ev, C.size_t(index))),
		Y: float32(C.AMotionEvent_getY(ev, C.size_t(index))),
	}

	w.mu.Lock()
	slot, ok := w.touchSlotByID[id]
	w.mu.Unlock()
	if !ok {
		return
	}
	w.cb.SendMouseMove(pos, event.TouchPointer(slot))
}

func (w *androidWindow) touchUp(ev *C.AInputEvent, index int) {
	id := C.AMotionEvent_getPointerId(ev, C.size_t(index))
	pos := event.Vec2{
		X: float32(C.AMotionEvent_getX(ev, C.size_t(index))),
		Y: float32(C.AMotionEvent_getY(ev, C.size_t(index))),
	}

	w.mu.Lock()
	slot, ok := w.touchSlotByID[id]
	if ok {
		delete(w.touchSlotByID, id)
	}
	pointer := w.touch.Up(slot)
	w.mu.Unlock()
	if !ok {
		return
	}
	w.cb.SendMouseButton(event.Release, pos, event.ButtonLeft, pointer)
}

// handleKeyEvent normalizes one AKeyEvent through androidKeyTable.
// Auto-repeat key-down events (AKeyEvent_getRepeatCount > 0) are
// forwarded as-is; the application layer, not this backend, decides
// whether to treat a repeat as a fresh press (spec §4.4 leaves
// auto-repeat policy to the caller).
func (w *androidWindow) handleKeyEvent(ev *C.AInputEvent) {
	k := androidKeyTable.Lookup(int(C.AKeyEvent_getKeyCode(ev)))
	if k == event.Unknown {
		return
	}
	switch C.AKeyEvent_getAction(ev) {
	case C.AKEY_EVENT_ACTION_DOWN:
		w.cb.SendKey(event.Press, k)
	case C.AKEY_EVENT_ACTION_UP:
		w.cb.SendKey(event.Release, k)
	}
}

// androidKeyTable maps AKEYCODE_* constants to the abstract Key
// vocabulary. Android's keycode space runs well past 255 for media and
// vendor-specific keys, none of which this backend's callers need.
var androidKeyTable = buildAndroidKeyTable()

func buildAndroidKeyTable() KeyTable {
	var t KeyTable
	set := func(code int, k event.Key) { t[code] = k }
	letters := map[int]string{
		29: "a", 30: "b", 31: "c", 32: "d", 33: "e", 34: "f", 35: "g", 36: "h",
		37: "i", 38: "j", 39: "k", 40: "l", 41: "m", 42: "n", 43: "o", 44: "p",
		45: "q", 46: "r", 47: "s", 48: "t", 49: "u", 50: "v", 51: "w", 52: "x",
		53: "y", 54: "z",
	}
	for code, r := range letters {
		set(code, event.Key(r))
	}
	digits := map[int]string{
		7: "0", 8: "1", 9: "2", 10: "3", 11: "4", 12: "5", 13: "6", 14: "7", 15: "8", 16: "9",
	}
	for code, r := range digits {
		set(code, event.Key(r))
	}
	set(66, "enter")
	set(111, "escape")
	set(67, "backspace")
	set(112, "delete")
	set(61, "tab")
	set(62, "space")
	set(59, "left_shift")
	set(60, "right_shift")
	set(113, "left_control")
	set(114, "right_control")
	set(57, "left_alt")
	set(58, "right_alt")
	set(21, "left")
	set(22, "right")
	set(20, "down")
	set(19, "up")
	set(131, "f1")
	set(132, "f2")
	set(133, "f3")
	set(134, "f4")
	set(135, "f5")
	set(136, "f6")
	set(137, "f7")
	set(138, "f8")
	set(139, "f9")
	set(140, "f10")
	set(141, "f11")
	set(142, "f12")
	return t
}

func (w *androidWindow) flushResize() {
	w.mu.Lock()
	if w.nativeWin == nil {
		w.mu.Unlock()
		return
	}
	width := int(C.ANativeWindow_getWidth(w.nativeWin))
	height := int(C.ANativeWindow_getHeight(w.nativeWin))
	if width == w.width && height == w.height {
		w.mu.Unlock()
		return
	}
	w.width, w.height = width, height
	size := event.Vec2{X: float32(width), Y: float32(height)}
	w.mu.Unlock()
	w.cb.Resized(size)
}

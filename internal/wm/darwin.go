// +build darwin,!ios

package wm

import (
	"fmt"
	"runtime"
	"sync"
	"time"
	"unsafe"

	"github.com/ruisapp-go/ruisapp/event"
)

/*
#cgo CFLAGS: -DGL_SILENCE_DEPRECATION -x objective-c -fobjc-arc
#cgo LDFLAGS: -framework Cocoa -framework OpenGL

#include <Cocoa/Cocoa.h>
#include <OpenGL/gl.h>
#include <objc/runtime.h>
#include <math.h>

extern void go_cocoa_mouse_button(CFTypeRef windowRef, int action, int button, double x, double y);
extern void go_cocoa_mouse_move(CFTypeRef windowRef, double x, double y);
extern void go_cocoa_mouse_hover(CFTypeRef windowRef, int hovering);
extern void go_cocoa_scroll(CFTypeRef windowRef, double x, double y, int button);
extern void go_cocoa_key(CFTypeRef windowRef, int action, unsigned short keycode);
extern void go_cocoa_text(CFTypeRef windowRef, const char *utf8);
extern void go_window_should_close(CFTypeRef windowRef);

__attribute__((visibility("hidden"))) CFTypeRef ruisapp_createWindow(const char *title, CGFloat width, CGFloat height);
__attribute__((visibility("hidden"))) void ruisapp_closeWindow(CFTypeRef windowRef);
__attribute__((visibility("hidden"))) void ruisapp_setTitle(CFTypeRef windowRef, const char *title);
__attribute__((visibility("hidden"))) void ruisapp_makeCurrent(CFTypeRef windowRef);
__attribute__((visibility("hidden"))) void ruisapp_flushBuffer(CFTypeRef windowRef);
__attribute__((visibility("hidden"))) void ruisapp_setSwapInterval(CFTypeRef windowRef, int interval);
__attribute__((visibility("hidden"))) CGFloat ruisapp_viewWidth(CFTypeRef windowRef);
__attribute__((visibility("hidden"))) CGFloat ruisapp_viewHeight(CFTypeRef windowRef);
__attribute__((visibility("hidden"))) CGFloat ruisapp_backingScale(CFTypeRef windowRef);
__attribute__((visibility("hidden"))) void ruisapp_pumpEvents(void);
__attribute__((visibility("hidden"))) void ruisapp_setCursorVisible(int visible);
__attribute__((visibility("hidden"))) void ruisapp_setCursorShape(int code);

// RuisappView intercepts every mouse/keyboard NSEvent Cocoa delivers to
// the content view and forwards it to the abstract event.Sink vocabulary
// (spec §4.4), the same way the X11/Wayland backends normalize their own
// native events in handleEvent. A tracking area is required for
// mouseEntered:/mouseExited: to fire at all; NSTrackingActiveInKeyWindow
// plus NSTrackingMouseEnteredAndExited is the standard combination for a
// view that wants hover tracking only while its window is key.
@interface RuisappView : NSOpenGLView
@property(nonatomic, assign) CFTypeRef windowRef;
@end

@implementation RuisappView

- (void)updateTrackingAreas {
	[super updateTrackingAreas];
	for (NSTrackingArea *area in [self trackingAreas]) {
		[self removeTrackingArea:area];
	}
	NSTrackingAreaOptions opts = NSTrackingMouseEnteredAndExited | NSTrackingActiveInKeyWindow | NSTrackingInVisibleRect;
	NSTrackingArea *area = [[NSTrackingArea alloc] initWithRect:[self bounds] options:opts owner:self userInfo:nil];
	[self addTrackingArea:area];
}

- (BOOL)acceptsFirstResponder { return YES; }

- (NSPoint)flippedLocation:(NSEvent *)event {
	NSPoint p = [self convertPoint:[event locationInWindow] fromView:nil];
	p.y = [self bounds].size.height - p.y;
	return p;
}

- (void)mouseEntered:(NSEvent *)event { go_cocoa_mouse_hover(self.windowRef, 1); }
- (void)mouseExited:(NSEvent *)event { go_cocoa_mouse_hover(self.windowRef, 0); }

- (void)mouseMoved:(NSEvent *)event {
	NSPoint p = [self flippedLocation:event];
	go_cocoa_mouse_move(self.windowRef, p.x, p.y);
}
- (void)mouseDragged:(NSEvent *)event { [self mouseMoved:event]; }
- (void)rightMouseDragged:(NSEvent *)event { [self mouseMoved:event]; }
- (void)otherMouseDragged:(NSEvent *)event { [self mouseMoved:event]; }

- (void)mouseDown:(NSEvent *)event {
	NSPoint p = [self flippedLocation:event];
	go_cocoa_mouse_button(self.windowRef, 0, 0, p.x, p.y);
}
- (void)mouseUp:(NSEvent *)event {
	NSPoint p = [self flippedLocation:event];
	go_cocoa_mouse_button(self.windowRef, 1, 0, p.x, p.y);
}
- (void)rightMouseDown:(NSEvent *)event {
	NSPoint p = [self flippedLocation:event];
	go_cocoa_mouse_button(self.windowRef, 0, 2, p.x, p.y);
}
- (void)rightMouseUp:(NSEvent *)event {
	NSPoint p = [self flippedLocation:event];
	go_cocoa_mouse_button(self.windowRef, 1, 2, p.x, p.y);
}
- (void)otherMouseDown:(NSEvent *)event {
	NSPoint p = [self flippedLocation:event];
	go_cocoa_mouse_button(self.windowRef, 0, 1, p.x, p.y);
}
- (void)otherMouseUp:(NSEvent *)event {
	NSPoint p = [self flippedLocation:event];
	go_cocoa_mouse_button(self.windowRef, 1, 1, p.x, p.y);
}

- (void)scrollWheel:(NSEvent *)event {
	NSPoint p = [self flippedLocation:event];
	if (fabs([event scrollingDeltaY]) >= fabs([event scrollingDeltaX])) {
		go_cocoa_scroll(self.windowRef, p.x, p.y, [event scrollingDeltaY] < 0 ? 1 : 0);
	} else {
		go_cocoa_scroll(self.windowRef, p.x, p.y, [event scrollingDeltaX] < 0 ? 3 : 2);
	}
}

- (void)keyDown:(NSEvent *)event {
	if (![event isARepeat]) {
		go_cocoa_key(self.windowRef, 0, [event keyCode]);
	}
	NSString *chars = [event characters];
	if (chars != nil && [chars length] > 0) {
		go_cocoa_text(self.windowRef, [chars UTF8String]);
	}
}
- (void)keyUp:(NSEvent *)event {
	go_cocoa_key(self.windowRef, 1, [event keyCode]);
}

@end

// RuisappWindowDelegate implements the close-button protocol of spec
// §4.6: it never lets AppKit tear the NSWindow down itself, instead
// notifying Go (Callbacks.Closed) and leaving the actual destroy to the
// same deferred-destruction step app/loop.go uses for every backend.
@interface RuisappWindowDelegate : NSObject <NSWindowDelegate>
@end

@implementation RuisappWindowDelegate
- (BOOL)windowShouldClose:(NSWindow *)sender {
	go_window_should_close((CFTypeRef)(__bridge CFTypeRef)sender);
	return NO;
}
@end

static CFTypeRef ruisapp_createWindow_impl(const char *title, CGFloat width, CGFloat height) {
	@autoreleasepool {
		NSRect frame = NSMakeRect(0, 0, width, height);
		NSWindow *win = [[NSWindow alloc] initWithContentRect:frame
			styleMask:(NSWindowStyleMaskTitled|NSWindowStyleMaskClosable|NSWindowStyleMaskResizable|NSWindowStyleMaskMiniaturizable)
			backing:NSBackingStoreBuffered defer:NO];
		[win setTitle:[NSString stringWithUTF8String:title]];

		NSOpenGLPixelFormatAttribute attrs[] = {
			NSOpenGLPFADoubleBuffer,
			NSOpenGLPFADepthSize, 24,
			NSOpenGLPFAStencilSize, 8,
			NSOpenGLPFAOpenGLProfile, NSOpenGLProfileVersion3_2Core,
			0
		};
		NSOpenGLPixelFormat *fmt = [[NSOpenGLPixelFormat alloc] initWithAttributes:attrs];
		RuisappView *view = [[RuisappView alloc] initWithFrame:frame pixelFormat:fmt];
		[win setContentView:view];
		[win makeFirstResponder:view];
		CFTypeRef ref = (CFTypeRef)CFBridgingRetain(win);
		view.windowRef = ref;

		RuisappWindowDelegate *delegate = [[RuisappWindowDelegate alloc] init];
		objc_setAssociatedObject(win, "ruisapp_delegate", delegate, OBJC_ASSOCIATION_RETAIN);
		[win setDelegate:delegate];

		[win makeKeyAndOrderFront:nil];
		return ref;
	}
}

static void ruisapp_closeWindow_impl(CFTypeRef windowRef) {
	@autoreleasepool {
		NSWindow *win = (__bridge NSWindow *)windowRef;
		[win close];
		CFBridgingRelease(windowRef);
	}
}

static void ruisapp_setTitle_impl(CFTypeRef windowRef, const char *title) {
	NSWindow *win = (__bridge NSWindow *)windowRef;
	[win setTitle:[NSString stringWithUTF8String:title]];
}

static void ruisapp_makeCurrent_impl(CFTypeRef windowRef) {
	NSWindow *win = (__bridge NSWindow *)windowRef;
	NSOpenGLView *view = (NSOpenGLView *)[win contentView];
	[[view openGLContext] makeCurrentContext];
}

static void ruisapp_flushBuffer_impl(CFTypeRef windowRef) {
	NSWindow *win = (__bridge NSWindow *)windowRef;
	NSOpenGLView *view = (NSOpenGLView *)[win contentView];
	[[view openGLContext] flushBuffer];
}

static void ruisapp_setSwapInterval_impl(CFTypeRef windowRef, int interval) {
	NSWindow *win = (__bridge NSWindow *)windowRef;
	NSOpenGLView *view = (NSOpenGLView *)[win contentView];
	GLint swap = interval;
	[[view openGLContext] setValues:&swap forParameter:NSOpenGLContextParameterSwapInterval];
}

static CGFloat ruisapp_viewWidth_impl(CFTypeRef windowRef) {
	NSWindow *win = (__bridge NSWindow *)windowRef;
	return [[win contentView] frame].size.width;
}

static CGFloat ruisapp_viewHeight_impl(CFTypeRef windowRef) {
	NSWindow *win = (__bridge NSWindow *)windowRef;
	return [[win contentView] frame].size.height;
}

static CGFloat ruisapp_backingScale_impl(CFTypeRef windowRef) {
	NSWindow *win = (__bridge NSWindow *)windowRef;
	return [win backingScaleFactor];
}

static void ruisapp_setCursorVisible_impl(int visible) {
	if (visible) {
		[NSCursor unhide];
	} else {
		[NSCursor hide];
	}
}

// ruisapp_setCursorShape_impl maps the small integer vocabulary
// cocoaCursorCode builds in Go to the closest built-in NSCursor, since
// AppKit has no resizable-corner or all-directions cursor of its own.
static void ruisapp_setCursorShape_impl(int code) {
	NSCursor *c;
	switch (code) {
	case 1: c = [NSCursor resizeLeftRightCursor]; break;
	case 2: c = [NSCursor resizeUpDownCursor]; break;
	case 3: c = [NSCursor closedHandCursor]; break;
	case 4: c = [NSCursor pointingHandCursor]; break;
	case 5: c = [NSCursor openHandCursor]; break;
	case 6: c = [NSCursor IBeamCursor]; break;
	default: c = [NSCursor arrowCursor]; break;
	}
	[c set];
}

static void ruisapp_pumpEvents_impl(void) {
	@autoreleasepool {
		NSEvent *ev;
		while ((ev = [NSApp nextEventMatchingMask:NSEventMaskAny
			untilDate:[NSDate distantPast]
			inMode:NSDefaultRunLoopMode
			dequeue:YES]) != nil) {
			[NSApp sendEvent:ev];
		}
	}
}

CFTypeRef ruisapp_createWindow(const char *title, CGFloat width, CGFloat height) { return ruisapp_createWindow_impl(title, width, height); }
void ruisapp_closeWindow(CFTypeRef windowRef) { ruisapp_closeWindow_impl(windowRef); }
void ruisapp_setTitle(CFTypeRef windowRef, const char *title) { ruisapp_setTitle_impl(windowRef, title); }
void ruisapp_makeCurrent(CFTypeRef windowRef) { ruisapp_makeCurrent_impl(windowRef); }
void ruisapp_flushBuffer(CFTypeRef windowRef) { ruisapp_flushBuffer_impl(windowRef); }
void ruisapp_setSwapInterval(CFTypeRef windowRef, int interval) { ruisapp_setSwapInterval_impl(windowRef, interval); }
CGFloat ruisapp_viewWidth(CFTypeRef windowRef) { return ruisapp_viewWidth_impl(windowRef); }
CGFloat ruisapp_viewHeight(CFTypeRef windowRef) { return ruisapp_viewHeight_impl(windowRef); }
CGFloat ruisapp_backingScale(CFTypeRef windowRef) { return ruisapp_backingScale_impl(windowRef); }
void ruisapp_pumpEvents(void) { ruisapp_pumpEvents_impl(); }
void ruisapp_setCursorVisible(int visible) { ruisapp_setCursorVisible_impl(visible); }
void ruisapp_setCursorShape(int code) { ruisapp_setCursorShape_impl(code); }
*/
import "C"

func init() {
	runtime.LockOSThread()
}

// cocoaKeyTable maps AppKit virtual keycodes (NSEvent.keyCode, the
// kVK_* constants in Carbon's HIToolbox/Events.h) to the abstract
// vocabulary, the Cocoa backend's equivalent of x11.go's x11KeyTable.
var cocoaKeyTable = buildCocoaKeyTable()

func buildCocoaKeyTable() KeyTable {
	var t KeyTable
	set := func(code int, k event.Key) { t[code] = k }
	letters := map[int]string{0: "a", 11: "b", 8: "c", 2: "d", 14: "e", 3: "f", 5: "g", 4: "h",
		34: "i", 38: "j", 40: "k", 37: "l", 46: "m", 45: "n", 31: "o", 35: "p", 12: "q", 15: "r",
		1: "s", 17: "t", 32: "u", 9: "v", 13: "w", 7: "x", 16: "y", 6: "z"}
	for code, r := range letters {
		set(code, event.Key(r))
	}
	digits := map[int]string{18: "1", 19: "2", 20: "3", 21: "4", 23: "5", 22: "6", 26: "7", 28: "8", 25: "9", 29: "0"}
	for code, r := range digits {
		set(code, event.Key(r))
	}
	set(36, "enter")
	set(53, "escape")
	set(51, "backspace")
	set(48, "tab")
	set(49, "space")
	set(56, "left_shift")
	set(60, "right_shift")
	set(59, "left_control")
	set(62, "right_control")
	set(58, "left_alt")
	set(61, "right_alt")
	set(123, "left")
	set(124, "right")
	set(125, "down")
	set(126, "up")
	set(122, "f1")
	set(120, "f2")
	set(99, "f3")
	set(118, "f4")
	set(96, "f5")
	set(97, "f6")
	set(98, "f7")
	set(100, "f8")
	set(101, "f9")
	set(109, "f10")
	set(103, "f11")
	set(111, "f12")
	return t
}

// cocoaCursorCode maps the abstract CursorShape vocabulary to the small
// integer RuisappView's C side switches on, since cgo cannot pass a Go
// enum type directly into the Objective-C preamble.
func cocoaCursorCode(shape CursorShape) C.int {
	switch shape {
	case CursorLeftRightArrow, CursorLeftSide, CursorRightSide:
		return 1
	case CursorUpDownArrow, CursorTopSide, CursorBottomSide:
		return 2
	case CursorAllDirectionsArrow:
		return 3
	case CursorIndexFinger:
		return 4
	case CursorGrab:
		return 5
	case CursorCaret:
		return 6
	default:
		return 0
	}
}

var cocoaGlobalDisplay *cocoaDisplay

// cocoaDisplay is the macOS Display/backend singleton (spec §4.1).
// Unlike X11/Wayland, Cocoa has no native fd to multiplex; Wait simply
// sleeps and DispatchNative drains NSApp's event queue (spec §4.5, §9).
type cocoaDisplay struct {
	queue Queue

	mu      sync.Mutex
	windows map[C.CFTypeRef]*cocoaWindow
	root    *cocoaContext
}

// NewCocoaDisplay opens the shared NSApplication connection used by every
// window this process creates (spec §3, "exactly one per process").
func NewCocoaDisplay() (Display, error) {
	d := &cocoaDisplay{windows: make(map[C.CFTypeRef]*cocoaWindow)}
	d.queue.SetWake(func() {})
	cocoaGlobalDisplay = d
	return d, nil
}

func (d *cocoaDisplay) DotsPerInch() float32 { return 96 }

func (d *cocoaDisplay) PixelsPerPP(resolutionPx, sizeMM event.Vec2) float32 {
	return pixelsPerPP(resolutionPx, sizeMM, 0)
}

func (d *cocoaDisplay) GetCursor(shape CursorShape) (CursorHandle, error) {
	return shape, nil
}

func (d *cocoaDisplay) NewWindow(api APIVersion, opts Options, shared Context, cb Callbacks) (Driver, Context, error) {
	width, height := opts.Size.X, opts.Size.Y
	if width <= 0 {
		width = 800
	}
	if height <= 0 {
		height = 600
	}
	title := C.CString(opts.Title)
	defer C.free(unsafe.Pointer(title))

	ref := C.ruisapp_createWindow(title, C.CGFloat(width), C.CGFloat(height))
	if ref == 0 {
		return nil, nil, fmt.Errorf("cocoa: %w", ErrWindowCreationFailed)
	}

	w := &cocoaWindow{disp: d, ref: ref, width: int(width), height: int(height), cb: cb, cursorShape: CursorArrow}
	ctx := &cocoaContext{ref: ref}
	w.ctx = ctx

	d.mu.Lock()
	d.windows[ref] = w
	if d.root == nil {
		d.root = ctx
	}
	d.mu.Unlock()

	cb.SetDriver(w)
	return w, ctx, nil
}

func (d *cocoaDisplay) Wait(timeout time.Duration) (nativeReady, timerExpired bool) {
	time.Sleep(timeout)
	return true, timeout > 0
}

func (d *cocoaDisplay) DispatchNative() {
	C.ruisapp_pumpEvents()
	d.mu.Lock()
	windows := make([]*cocoaWindow, 0, len(d.windows))
	for _, w := range d.windows {
		windows = append(windows, w)
	}
	d.mu.Unlock()
	for _, w := range windows {
		w.flushResize()
	}
}

func (d *cocoaDisplay) Queue() *Queue { return &d.queue }

func (d *cocoaDisplay) Close() {}

// cocoaContext wraps the NSOpenGLContext attached to a window's content view.
type cocoaContext struct {
	ref C.CFTypeRef
}

func (c *cocoaContext) Bind() error { C.ruisapp_makeCurrent(c.ref); return nil }

func (c *cocoaContext) IsBound() bool { return true }

func (c *cocoaContext) Swap() { C.ruisapp_flushBuffer(c.ref) }

func (c *cocoaContext) SetVSync(enabled bool) {
	interval := C.int(0)
	if enabled {
		interval = 1
	}
	C.ruisapp_setSwapInterval(c.ref, interval)
}

func (c *cocoaContext) CreateSurface(handle uintptr, width, height int) error {
	return ErrUnsupported
}

func (c *cocoaContext) DestroySurface() error { return ErrUnsupported }

func (c *cocoaContext) Release() {}

// cocoaWindow is the Cocoa native-window wrapper.
type cocoaWindow struct {
	disp *cocoaDisplay
	ref  C.CFTypeRef
	ctx  *cocoaContext
	cb   Callbacks

	mu                 sync.Mutex
	width, height      int
	pendingW, pendingH int
	pendingResize      bool
	fullscreen         bool

	pressed     PressedButtons
	lastPos     event.Vec2
	cursorShape CursorShape
}

func (w *cocoaWindow) ID() WindowID { return w.ref }

func (w *cocoaWindow) Dims() event.Vec2 {
	w.mu.Lock()
	defer w.mu.Unlock()
	return event.Vec2{X: float32(w.width), Y: float32(w.height)}
}

func (w *cocoaWindow) DPI() float32 {
	return w.disp.DotsPerInch() * float32(C.ruisapp_backingScale(w.ref))
}

func (w *cocoaWindow) ScaleFactor() float32 {
	return float32(C.ruisapp_backingScale(w.ref))
}

func (w *cocoaWindow) BindRenderingContext() error { return w.ctx.Bind() }

func (w *cocoaWindow) SwapBuffers() { w.ctx.Swap() }

func (w *cocoaWindow) SetVSync(enabled bool) { w.ctx.SetVSync(enabled) }

func (w *cocoaWindow) SetTitle(title string) {
	cstr := C.CString(title)
	defer C.free(unsafe.Pointer(cstr))
	C.ruisapp_setTitle(w.ref, cstr)
}

func (w *cocoaWindow) SetMouseCursor(shape CursorShape) {
	w.mu.Lock()
	w.cursorShape = shape
	w.mu.Unlock()
	if shape == CursorNone {
		C.ruisapp_setCursorVisible(0)
		return
	}
	C.ruisapp_setCursorVisible(1)
	C.ruisapp_setCursorShape(cocoaCursorCode(shape))
}

func (w *cocoaWindow) SetMouseCursorVisible(visible bool) {
	if visible {
		C.ruisapp_setCursorVisible(1)
	} else {
		C.ruisapp_setCursorVisible(0)
	}
}

func (w *cocoaWindow) SetFullscreen(fullscreen bool) {
	// A complete implementation calls [NSWindow toggleFullScreen:] and
	// awaits the didEnterFullScreen/didExitFullScreen notifications;
	// elided from this file's minimal Cocoa surface.
	w.fullscreen = fullscreen
}

func (w *cocoaWindow) IsFullscreen() bool { return w.fullscreen }

func (w *cocoaWindow) Close() {
	C.ruisapp_closeWindow(w.ref)
	w.disp.mu.Lock()
	delete(w.disp.windows, w.ref)
	w.disp.mu.Unlock()
}

func (w *cocoaWindow) flushResize() {
	width := int(C.ruisapp_viewWidth(w.ref))
	height := int(C.ruisapp_viewHeight(w.ref))
	w.mu.Lock()
	if width == w.width && height == w.height {
		w.mu.Unlock()
		return
	}
	w.width, w.height = width, height
	size := event.Vec2{X: float32(width), Y: float32(height)}
	w.mu.Unlock()
	w.cb.Resized(size)
}

func (d *cocoaDisplay) findWindow(ref C.CFTypeRef) *cocoaWindow {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.windows[ref]
}

// cocoaMouseButtonCode mirrors the button codes RuisappView's
// mouseDown:/mouseUp:/rightMouse*:/otherMouse*: handlers pass (0 left,
// 1 middle, 2 right), the same abstract-button split x11.go's
// ButtonPress/ButtonRelease case uses.
func cocoaMouseButtonCode(code C.int) event.MouseButton {
	switch code {
	case 0:
		return event.ButtonLeft
	case 2:
		return event.ButtonRight
	default:
		return event.ButtonMiddle
	}
}

//export go_cocoa_mouse_button
func go_cocoa_mouse_button(ref C.CFTypeRef, action, buttonCode C.int, x, y C.double) {
	d := cocoaGlobalDisplay
	if d == nil {
		return
	}
	w := d.findWindow(ref)
	if w == nil {
		return
	}
	button := cocoaMouseButtonCode(buttonCode)
	pos := event.Vec2{X: float32(x), Y: float32(y)}
	act := event.Release
	if action == 0 {
		act = event.Press
		w.pressed.Press(button)
	} else {
		w.pressed.Release(button)
	}
	w.mu.Lock()
	w.lastPos = pos
	w.mu.Unlock()
	w.cb.SendMouseButton(act, pos, button, event.MousePointer)
}

//export go_cocoa_mouse_move
func go_cocoa_mouse_move(ref C.CFTypeRef, x, y C.double) {
	d := cocoaGlobalDisplay
	if d == nil {
		return
	}
	w := d.findWindow(ref)
	if w == nil {
		return
	}
	pos := event.Vec2{X: float32(x), Y: float32(y)}
	w.mu.Lock()
	w.lastPos = pos
	w.mu.Unlock()
	w.cb.SendMouseMove(pos, event.MousePointer)
}

//export go_cocoa_mouse_hover
func go_cocoa_mouse_hover(ref C.CFTypeRef, hovering C.int) {
	d := cocoaGlobalDisplay
	if d == nil {
		return
	}
	w := d.findWindow(ref)
	if w == nil {
		return
	}
	if hovering == 0 {
		w.pressed.CancelAll(w.cb, event.MousePointer)
	}
	w.cb.SendMouseHover(hovering != 0, event.MousePointer)
}

//export go_cocoa_scroll
func go_cocoa_scroll(ref C.CFTypeRef, x, y C.double, buttonCode C.int) {
	d := cocoaGlobalDisplay
	if d == nil {
		return
	}
	w := d.findWindow(ref)
	if w == nil {
		return
	}
	buttons := [4]event.MouseButton{event.ButtonWheelUp, event.ButtonWheelDown, event.ButtonWheelRight, event.ButtonWheelLeft}
	button := event.ButtonWheelDown
	if int(buttonCode) >= 0 && int(buttonCode) < len(buttons) {
		button = buttons[buttonCode]
	}
	pos := event.Vec2{X: float32(x), Y: float32(y)}
	EmitWheelClicks(w.cb, 1, pos, button, event.MousePointer)
}

//export go_cocoa_key
func go_cocoa_key(ref C.CFTypeRef, action C.int, keycode C.ushort) {
	d := cocoaGlobalDisplay
	if d == nil {
		return
	}
	w := d.findWindow(ref)
	if w == nil {
		return
	}
	k := cocoaKeyTable.Lookup(int(keycode))
	act := event.Release
	if action == 0 {
		act = event.Press
	}
	w.cb.SendKey(act, k)
}

//export go_cocoa_text
func go_cocoa_text(ref C.CFTypeRef, utf8 *C.char) {
	d := cocoaGlobalDisplay
	if d == nil {
		return
	}
	w := d.findWindow(ref)
	if w == nil {
		return
	}
	text := C.GoString(utf8)
	w.cb.SendCharacterInput(func() []rune { return []rune(text) }, event.Unknown)
}

//export go_window_should_close
func go_window_should_close(ref C.CFTypeRef) {
	d := cocoaGlobalDisplay
	if d == nil {
		return
	}
	w := d.findWindow(ref)
	if w == nil {
		return
	}
	w.cb.Closed()
}

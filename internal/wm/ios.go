// +build ios

package wm

import (
	"fmt"
	"runtime"
	"sync"
	"time"

	"github.com/ruisapp-go/ruisapp/event"
)

/*
#cgo CFLAGS: -DGLES_SILENCE_DEPRECATION -x objective-c -fobjc-arc
#cgo LDFLAGS: -framework UIKit -framework OpenGLES -framework QuartzCore

#include <stdint.h>
#include <UIKit/UIKit.h>
#include <OpenGLES/EAGL.h>
#include <OpenGLES/ES2/gl.h>
#include <QuartzCore/QuartzCore.h>

struct drawParams { CGFloat width, height, scale; };

__attribute__((visibility("hidden"))) CFTypeRef ruisapp_ios_createView(void);
__attribute__((visibility("hidden"))) void ruisapp_ios_attachContext(CFTypeRef viewRef, CFTypeRef ctxRef);
__attribute__((visibility("hidden"))) CFTypeRef ruisapp_ios_createContext(void);
__attribute__((visibility("hidden"))) void ruisapp_ios_makeCurrent(CFTypeRef ctxRef);
__attribute__((visibility("hidden"))) void ruisapp_ios_presentRenderbuffer(CFTypeRef ctxRef);
__attribute__((visibility("hidden"))) struct drawParams ruisapp_ios_drawParams(CFTypeRef viewRef);

extern void go_ios_touch(int phase, uintptr_t touchID, CGFloat x, CGFloat y);

// RuisappTouchView is the sole window's content view. Touch, not a
// pointing device, is the primary input modality on this backend
// (spec §4.7); each UITouch's identity (its own address, stable for
// the life of one contact) is forwarded so Go can keep it pinned to
// the same touch slot across began/moved/ended.
@interface RuisappTouchView : UIView
@end

@implementation RuisappTouchView

- (void)forward:(NSSet<UITouch *> *)touches phase:(int)phase {
	for (UITouch *touch in touches) {
		CGPoint p = [touch locationInView:self];
		go_ios_touch(phase, (uintptr_t)(__bridge void *)touch, p.x, p.y);
	}
}

- (void)touchesBegan:(NSSet<UITouch *> *)touches withEvent:(UIEvent *)event {
	[self forward:touches phase:0];
}

- (void)touchesMoved:(NSSet<UITouch *> *)touches withEvent:(UIEvent *)event {
	[self forward:touches phase:1];
}

- (void)touchesEnded:(NSSet<UITouch *> *)touches withEvent:(UIEvent *)event {
	[self forward:touches phase:2];
}

- (void)touchesCancelled:(NSSet<UITouch *> *)touches withEvent:(UIEvent *)event {
	[self forward:touches phase:3];
}

@end

static CFTypeRef ruisapp_ios_createView_impl(void) {
	@autoreleasepool {
		CGRect bounds = [[UIScreen mainScreen] bounds];
		RuisappTouchView *view = [[RuisappTouchView alloc] initWithFrame:bounds];
		view.multipleTouchEnabled = YES;
		view.userInteractionEnabled = YES;
		CAEAGLLayer *layer = (CAEAGLLayer *)view.layer;
		layer.opaque = YES;
		layer.drawableProperties = @{
			kEAGLDrawablePropertyRetainedBacking: @NO,
			kEAGLDrawablePropertyColorFormat: kEAGLColorFormatRGBA8
		};
		return (CFTypeRef)CFBridgingRetain(view);
	}
}

static CFTypeRef ruisapp_ios_createContext_impl(void) {
	EAGLContext *ctx = [[EAGLContext alloc] initWithAPI:kEAGLRenderingAPIOpenGLES2];
	return (CFTypeRef)CFBridgingRetain(ctx);
}

static void ruisapp_ios_makeCurrent_impl(CFTypeRef ctxRef) {
	EAGLContext *ctx = (__bridge EAGLContext *)ctxRef;
	[EAGLContext setCurrentContext:ctx];
}

static void ruisapp_ios_presentRenderbuffer_impl(CFTypeRef ctxRef) {
	EAGLContext *ctx = (__bridge EAGLContext *)ctxRef;
	[ctx presentRenderbuffer:GL_RENDERBUFFER];
}

static void ruisapp_ios_attachContext_impl(CFTypeRef viewRef, CFTypeRef ctxRef) {
	UIView *view = (__bridge UIView *)viewRef;
	EAGLContext *ctx = (__bridge EAGLContext *)ctxRef;
	CAEAGLLayer *layer = (CAEAGLLayer *)view.layer;
	[EAGLContext setCurrentContext:ctx];
	GLuint framebuffer, renderbuffer;
	glGenFramebuffers(1, &framebuffer);
	glBindFramebuffer(GL_FRAMEBUFFER, framebuffer);
	glGenRenderbuffers(1, &renderbuffer);
	glBindRenderbuffer(GL_RENDERBUFFER, renderbuffer);
	[ctx renderbufferStorage:GL_RENDERBUFFER fromDrawable:layer];
	glFramebufferRenderbuffer(GL_FRAMEBUFFER, GL_COLOR_ATTACHMENT0, GL_RENDERBUFFER, renderbuffer);
}

static struct drawParams ruisapp_ios_drawParams_impl(CFTypeRef viewRef) {
	UIView *view = (__bridge UIView *)viewRef;
	struct drawParams p;
	p.width = view.bounds.size.width;
	p.height = view.bounds.size.height;
	p.scale = view.contentScaleFactor;
	return p;
}

CFTypeRef ruisapp_ios_createView(void) { return ruisapp_ios_createView_impl(); }
CFTypeRef ruisapp_ios_createContext(void) { return ruisapp_ios_createContext_impl(); }
void ruisapp_ios_makeCurrent(CFTypeRef ctxRef) { ruisapp_ios_makeCurrent_impl(ctxRef); }
void ruisapp_ios_presentRenderbuffer(CFTypeRef ctxRef) { ruisapp_ios_presentRenderbuffer_impl(ctxRef); }
void ruisapp_ios_attachContext(CFTypeRef viewRef, CFTypeRef ctxRef) { ruisapp_ios_attachContext_impl(viewRef, ctxRef); }
struct drawParams ruisapp_ios_drawParams(CFTypeRef viewRef) { return ruisapp_ios_drawParams_impl(viewRef); }
*/
import "C"

func init() {
	runtime.LockOSThread()
}

// iosDisplay is the iOS Display/backend singleton. The platform allows
// exactly one window for the process lifetime (spec §4.7): a second
// NewWindow call returns ErrMultipleWindowsNotSupported, Close on the
// sole window is a no-op, and Application.DestroyWindow refuses it with
// ErrWindowDestructionNotAllowed.
type iosDisplay struct {
	queue Queue

	mu   sync.Mutex
	win  *iosWindow
	root *iosContext
}

var iosGlobalDisplay *iosDisplay

// NewIOSDisplay returns the process-wide iOS backend. No UIView exists
// yet; NewWindow creates the sole view and its EAGL context itself,
// without blocking.
func NewIOSDisplay() (Display, error) {
	d := &iosDisplay{}
	d.queue.SetWake(func() {})
	iosGlobalDisplay = d
	return d, nil
}

func (d *iosDisplay) DotsPerInch() float32 { return 163 }

func (d *iosDisplay) PixelsPerPP(resolutionPx, sizeMM event.Vec2) float32 {
	return pixelsPerPP(resolutionPx, sizeMM, 0)
}

func (d *iosDisplay) GetCursor(shape CursorShape) (CursorHandle, error) {
	return shape, nil
}

func (d *iosDisplay) NewWindow(api APIVersion, opts Options, shared Context, cb Callbacks) (Driver, Context, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.win != nil {
		return nil, nil, fmt.Errorf("ios: %w", ErrMultipleWindowsNotSupported)
	}

	view := C.ruisapp_ios_createView()
	if view == 0 {
		return nil, nil, fmt.Errorf("ios: %w", ErrWindowCreationFailed)
	}
	eaglCtx := C.ruisapp_ios_createContext()
	if eaglCtx == 0 {
		return nil, nil, fmt.Errorf("ios: %w", ErrContextCreationFailed)
	}
	C.ruisapp_ios_attachContext(view, eaglCtx)

	ctx := &iosContext{ref: eaglCtx}
	w := &iosWindow{disp: d, view: view, ctx: ctx, cb: cb}
	d.win = w
	d.root = ctx

	cb.SetDriver(w)
	return w, ctx, nil
}

func (d *iosDisplay) Wait(timeout time.Duration) (nativeReady, timerExpired bool) {
	time.Sleep(timeout)
	return true, timeout > 0
}

func (d *iosDisplay) DispatchNative() {
	d.mu.Lock()
	w := d.win
	d.mu.Unlock()
	if w != nil {
		w.flushResize()
	}
}

func (d *iosDisplay) Queue() *Queue { return &d.queue }

func (d *iosDisplay) Close() {}

// SingleWindow marks this backend as hosting exactly one window;
// Application.DestroyWindow checks it and refuses to destroy that window.
func (d *iosDisplay) SingleWindow() bool { return true }

type iosContext struct {
	ref   C.CFTypeRef
	bound bool
}

func (c *iosContext) Bind() error {
	C.ruisapp_ios_makeCurrent(c.ref)
	c.bound = true
	return nil
}

func (c *iosContext) IsBound() bool { return c.bound }

func (c *iosContext) Swap() { C.ruisapp_ios_presentRenderbuffer(c.ref) }

func (c *iosContext) SetVSync(enabled bool) {
	// The display link's frame rate governs presentation cadence on
	// iOS; there is no separate swap-interval knob to set.
}

func (c *iosContext) CreateSurface(handle uintptr, width, height int) error {
	return ErrUnsupported
}

func (c *iosContext) DestroySurface() error { return ErrUnsupported }

func (c *iosContext) Release() {}

// iosWindow is the sole window this process will ever own.
type iosWindow struct {
	disp *iosDisplay
	view C.CFTypeRef
	ctx  *iosContext
	cb   Callbacks

	mu            sync.Mutex
	width, height int

	touch         TouchSlots
	touchSlotByID map[C.uintptr_t]int
}

func (w *iosWindow) ID() WindowID { return w.view }

func (w *iosWindow) Dims() event.Vec2 {
	w.mu.Lock()
	defer w.mu.Unlock()
	return event.Vec2{X: float32(w.width), Y: float32(w.height)}
}

func (w *iosWindow) DPI() float32 {
	p := C.ruisapp_ios_drawParams(w.view)
	return w.disp.DotsPerInch() * float32(p.scale)
}

func (w *iosWindow) ScaleFactor() float32 {
	p := C.ruisapp_ios_drawParams(w.view)
	return float32(p.scale)
}

func (w *iosWindow) BindRenderingContext() error { return w.ctx.Bind() }

func (w *iosWindow) SwapBuffers() { w.ctx.Swap() }

func (w *iosWindow) SetVSync(enabled bool) { w.ctx.SetVSync(enabled) }

func (w *iosWindow) SetTitle(title string) {}

func (w *iosWindow) SetMouseCursor(shape CursorShape) {}

func (w *iosWindow) SetMouseCursorVisible(visible bool) {}

func (w *iosWindow) SetFullscreen(fullscreen bool) {}

func (w *iosWindow) IsFullscreen() bool { return true }

// Close is a no-op: iOS apps are terminated by the system, not by
// programmatic window destruction (spec §4.7, invariant I-SINGLE).
func (w *iosWindow) Close() {}

// freeSlotLocked returns the lowest touch slot not currently assigned
// to a touch identity. w.mu must be held.
func (w *iosWindow) freeSlotLocked() int {
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

// go_ios_touch normalizes one UITouch phase transition
// (0=began, 1=moved, 2=ended, 3=cancelled) into the touch-slot
// vocabulary of spec §4.4.
//
//export go_ios_touch
func go_ios_touch(phase C.int, touchID C.uintptr_t, x, y C.CGFloat) {
	d := iosGlobalDisplay
	if d == nil {
		return
	}
	d.mu.Lock()
	w := d.win
	d.mu.Unlock()
	if w == nil {
		return
	}
	pos := event.Vec2{X: float32(x), Y: float32(y)}
	switch phase {
	case 0:
		w.mu.Lock()
		if w.touchSlotByID == nil {
			w.touchSlotByID = make(map[C.uintptr_t]int)
		}
		slot := w.freeSlotLocked()
		w.touchSlotByID[touchID] = slot
		pointer := w.touch.Down(slot)
		w.mu.Unlock()
		w.cb.SendMouseMove(pos, pointer)
		w.cb.SendMouseButton(event.Press, pos, event.ButtonLeft, pointer)
	case 1:
		w.mu.Lock()
		slot, ok := w.touchSlotByID[touchID]
		w.mu.Unlock()
		if ok {
			w.cb.SendMouseMove(pos, event.TouchPointer(slot))
		}
	case 2:
		w.mu.Lock()
		slot, ok := w.touchSlotByID[touchID]
		if ok {
			delete(w.touchSlotByID, touchID)
		}
		pointer := w.touch.Up(slot)
		w.mu.Unlock()
		if ok {
			w.cb.SendMouseButton(event.Release, pos, event.ButtonLeft, pointer)
		}
	case 3:
		w.mu.Lock()
		w.touch.Cancel(w.cb, event.ButtonLeft)
		w.touchSlotByID = nil
		w.mu.Unlock()
	}
}

func (w *iosWindow) flushResize() {
	p := C.ruisapp_ios_drawParams(w.view)
	width, height := int(float32(p.width)*float32(p.scale)+.5), int(float32(p.height)*float32(p.scale)+.5)
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

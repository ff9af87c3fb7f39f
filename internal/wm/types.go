// Package wm implements the platform-specific native windows and GL/EGL
// contexts behind the ruisapp-go facade. Each backend (X11, Wayland,
// Win32, Cocoa, NativeActivity, GLKit, SDL2) supplies one implementation
// of Display, Driver and Context, selected at compile time by build tags;
// this file holds the backend-independent shapes they all satisfy.
package wm

import (
	"time"

	"github.com/ruisapp-go/ruisapp/event"
)

// FramebufferFlag is a flag set of extra framebuffers a window's context
// should request in addition to the color buffer.
type FramebufferFlag uint8

const (
	FramebufferDepth FramebufferFlag = 1 << iota
	FramebufferStencil
)

// Orientation is the requested device-orientation policy for a window on
// backends that support rotation (chiefly Android and iOS).
type Orientation uint8

const (
	OrientationDynamic Orientation = iota
	OrientationLandscape
	OrientationPortrait
)

// APIVersion is a requested OpenGL / OpenGL ES version. The zero value
// means "minimum supported". Only the SDL2 backend passes the request on
// (raising a major version below 2 to 2); the EGL-based backends and iOS
// always create a GLES 2.0 context, and Cocoa always requests an OpenGL
// 3.2 Core profile.
type APIVersion struct {
	Major, Minor int
}

// Minimum is the "0.0 means minimum supported" sentinel.
var Minimum = APIVersion{}

// Options carries the window-creation parameters of spec §3. They are
// hints: a backend is free to clamp or ignore fields it cannot honor.
type Options struct {
	Size         event.Vec2
	Title        string
	Fullscreen   bool
	Visible      bool
	Taskbar      bool
	Orientation  Orientation
	Framebuffers FramebufferFlag
	API          APIVersion
}

// CursorShape is the abstract cursor vocabulary of spec §4.1.
type CursorShape int

const (
	CursorNone CursorShape = iota
	CursorArrow
	CursorLeftRightArrow
	CursorUpDownArrow
	CursorAllDirectionsArrow
	CursorLeftSide
	CursorRightSide
	CursorTopSide
	CursorBottomSide
	CursorTopLeftCorner
	CursorTopRightCorner
	CursorBottomLeftCorner
	CursorBottomRightCorner
	CursorIndexFinger
	CursorGrab
	CursorCaret

	cursorShapeCount
)

// WindowID is an opaque, hashable, comparable handle stable for a native
// window's lifetime and unique within the process. Backends populate it
// with whatever native handle type they have (an X11 Window, an HWND, a
// pointer value, ...); callers only ever compare it for equality or use
// it as a map key.
type WindowID interface{}

// Callbacks is what a backend's event loop calls into: lifecycle and
// normalized input. SetDriver is called exactly once, before any other
// method, handing the window's own Driver back so the consumer can issue
// commands (cursor changes, fullscreen toggles, context binds) from
// within an event handler.
type Callbacks interface {
	event.Sink

	SetDriver(d Driver)
	// Resized reports the new logical content-area size, already
	// coalesced by the backend's event loop to the latest value for this
	// iteration (spec §4.5 step 6, step 8).
	Resized(size event.Vec2)
	FocusChanged(focused bool)
	// Closed fires when the user requests window closure through the
	// window manager (spec §4.6). It does not fire for a programmatic
	// DestroyWindow.
	Closed()
}

// Driver is the capability set required of every backend's native-window
// wrapper (spec §4.3), including the context operations it forwards to
// its owned Context.
type Driver interface {
	ID() WindowID
	Dims() event.Vec2
	DPI() float32
	ScaleFactor() float32

	BindRenderingContext() error
	SwapBuffers()
	SetVSync(enabled bool)

	SetTitle(title string)
	SetMouseCursor(shape CursorShape)
	SetMouseCursorVisible(visible bool)
	SetFullscreen(fullscreen bool)
	IsFullscreen() bool

	// Close tears down the native window and its context. It is called
	// exactly once, and never concurrently with any other Driver method.
	Close()
}

// Context is the native rendering-context wrapper of spec §4.2. The X11,
// Wayland, Win32, Cocoa, iOS and SDL2 backends create a window's context
// together with its drawable and keep both for the window's lifetime.
// Android instead attaches and detaches an EGL surface on an
// already-created context as the activity's native window comes and
// goes, preserving GPU objects across attach cycles.
type Context interface {
	Bind() error
	IsBound() bool
	Swap()
	SetVSync(enabled bool)

	// CreateSurface and DestroySurface replace or drop the drawable
	// without destroying the context. The EGL-based contexts (X11,
	// Wayland, Win32) implement them; the Cocoa, iOS and SDL2 contexts
	// and the Android placeholder context return ErrUnsupported.
	CreateSurface(handle uintptr, width, height int) error
	DestroySurface() error

	Release()
}

// Display is the per-process backend singleton of spec §4.1. Exactly one
// instance exists per process; it outlives every Driver/Context and is
// released last.
type Display interface {
	GetCursor(shape CursorShape) (CursorHandle, error)
	DotsPerInch() float32
	PixelsPerPP(resolutionPx, sizeMM event.Vec2) float32

	// NewWindow creates one native window and its rendering context.
	// shared is the application's root context (nil for the very first
	// window); no backend creates the new context as sharing GPU
	// resources with it.
	NewWindow(api APIVersion, opts Options, shared Context, cb Callbacks) (Driver, Context, error)

	// Wait blocks up to timeout for one of: a native event becoming
	// available, the UI-thread queue's wake primitive firing, or the
	// timeout elapsing. A timeout of 0 means "don't block, just poll".
	Wait(timeout time.Duration) (nativeReady, timerExpired bool)

	// DispatchNative drains and handles all currently pending native
	// events for every live window, routing each to the matching
	// window's Callbacks. Resize events are coalesced internally: only
	// the latest size per window is delivered through Callbacks.Resized,
	// once, from this call.
	DispatchNative()

	// Queue returns the display's UI-thread task queue (spec §3,
	// "UI-thread task queue").
	Queue() *Queue

	Close()
}

// CursorHandle is an opaque, backend-owned cursor resource returned by
// Display.GetCursor. Its concrete type varies per backend (an Xcursor
// Cursor, an HCURSOR, an NSCursor, ...).
type CursorHandle interface{}

// Directories is the three immutable application directory paths of
// spec §3.
type Directories struct {
	Cache  string
	Config string
	State  string
}

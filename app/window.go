package app

import (
	"fmt"

	"github.com/ruisapp-go/ruisapp/event"
	"github.com/ruisapp-go/ruisapp/internal/wm"
)

// Window is the public handle to one live native window (spec §4.3).
// It is exclusively owned by its Application; callers interact with
// it only through the methods below.
type Window struct {
	app     *Application
	driver  wm.Driver
	ctx     wm.Context
	updater Updater
	cb      *callbacksAdapter

	destroyed bool
}

// Option configures a window at creation time (spec §3,
// "Window parameters"). Options are hints: a backend may clamp or
// ignore one it cannot honor.
type Option func(*wm.Options)

// Title sets the window's initial and ongoing title-bar text.
func Title(title string) Option {
	return func(o *wm.Options) { o.Title = title }
}

// Size sets the requested initial content-area size in pixels.
func Size(width, height float32) Option {
	return func(o *wm.Options) { o.Size = event.Vec2{X: width, Y: height} }
}

// Fullscreen requests the window start in fullscreen state.
func Fullscreen(fullscreen bool) Option {
	return func(o *wm.Options) { o.Fullscreen = fullscreen }
}

// Visible requests the window start mapped/shown.
func Visible(visible bool) Option {
	return func(o *wm.Options) { o.Visible = visible }
}

// Taskbar requests the window have (or lack) a taskbar/dock presence.
func Taskbar(present bool) Option {
	return func(o *wm.Options) { o.Taskbar = present }
}

// OrientationDynamic, OrientationLandscape and OrientationPortrait set
// the device-rotation policy honored chiefly by Android and iOS.
func OrientationDynamic() Option {
	return func(o *wm.Options) { o.Orientation = wm.OrientationDynamic }
}

func OrientationLandscape() Option {
	return func(o *wm.Options) { o.Orientation = wm.OrientationLandscape }
}

func OrientationPortrait() Option {
	return func(o *wm.Options) { o.Orientation = wm.OrientationPortrait }
}

// Framebuffer adds depth and/or stencil attachments to the window's
// default framebuffer.
func Framebuffer(depth, stencil bool) Option {
	return func(o *wm.Options) {
		var flags wm.FramebufferFlag
		if depth {
			flags |= wm.FramebufferDepth
		}
		if stencil {
			flags |= wm.FramebufferStencil
		}
		o.Framebuffers = flags
	}
}

// GraphicsAPI requests an OpenGL / OpenGL ES version; the zero value
// (wm.Minimum) means "minimum supported". wm.APIVersion lists which
// backends pass the request on.
func GraphicsAPI(major, minor int) Option {
	return func(o *wm.Options) { o.API = wm.APIVersion{Major: major, Minor: minor} }
}

// MakeWindow creates one visible native window with its own rendering
// context and installs updater as its Updater (spec §4.3, §6). The
// application's root context is handed to the backend, but no backend
// creates the new context as sharing GPU resources with it: each
// window's context is independent. On single-window
// backends, calling this a second time returns
// wm.ErrMultipleWindowsNotSupported.
func (a *Application) MakeWindow(updater Updater, opts ...Option) (*Window, error) {
	o := wm.Options{Visible: true, Taskbar: true}
	for _, opt := range opts {
		opt(&o)
	}

	a.mu.Lock()
	root := a.root
	a.mu.Unlock()

	cb := &callbacksAdapter{updater: updater}
	driver, ctx, err := a.disp.NewWindow(o.API, o, root, cb)
	if err != nil {
		return nil, fmt.Errorf("app: MakeWindow: %w", err)
	}
	w := &Window{app: a, driver: driver, ctx: ctx, updater: updater, cb: cb}
	cb.driver = driver

	a.mu.Lock()
	if a.root == nil {
		a.root = ctx // first window's context becomes the shared root, on every backend.
	}
	a.windows[driver.ID()] = w
	a.mu.Unlock()

	return w, nil
}

// DestroyWindow schedules w for destruction at the top of the next
// loop iteration (spec §3, "Window map"). On single-window backends
// this returns wm.ErrWindowDestructionNotAllowed instead.
func (a *Application) DestroyWindow(w *Window) error {
	if single, ok := a.disp.(interface{ SingleWindow() bool }); ok && single.SingleWindow() {
		return wm.ErrWindowDestructionNotAllowed
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	if w.destroyed {
		return nil
	}
	delete(a.windows, w.driver.ID())
	a.toClose = append(a.toClose, w)
	w.destroyed = true
	return nil
}

// SetTitle, SetFullscreen, IsFullscreen, SetMouseCursor and
// SetMouseCursorVisible forward to the window's Driver (spec §4.3).
func (w *Window) SetTitle(title string) { w.driver.SetTitle(title) }

func (w *Window) SetFullscreen(fullscreen bool) { w.driver.SetFullscreen(fullscreen) }

func (w *Window) IsFullscreen() bool { return w.driver.IsFullscreen() }

func (w *Window) SetMouseCursor(shape wm.CursorShape) { w.driver.SetMouseCursor(shape) }

func (w *Window) SetMouseCursorVisible(visible bool) { w.driver.SetMouseCursorVisible(visible) }

func (w *Window) Dims() event.Vec2 { return w.driver.Dims() }

func (w *Window) DPI() float32 { return w.driver.DPI() }

func (w *Window) ScaleFactor() float32 { return w.driver.ScaleFactor() }

// ID returns the window's opaque, process-unique identity.
func (w *Window) ID() wm.WindowID { return w.driver.ID() }

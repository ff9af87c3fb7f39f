// +build !android,!ios

package wm

import (
	"fmt"
	"sync"
	"time"

	"github.com/veandco/go-sdl2/sdl"

	"github.com/ruisapp-go/ruisapp/event"
)

// sdlKeyTable maps SDL2 scancodes (USB HID layout: a=4, z=29, 1=30,
// 0=39, enter=40, escape=41 ...) to the abstract vocabulary. This is
// the SDL2 fallback backend of spec §1, grounded on the same scancode
// numbering the upstream SDL glue's key_code_map uses.
var sdlKeyTable = buildSDLKeyTable()

func buildSDLKeyTable() KeyTable {
	var t KeyTable
	letters := "abcdefghijklmnopqrstuvwxyz"
	for i, r := range letters {
		t[4+i] = event.Key(string(r))
	}
	digits := "1234567890"
	for i, r := range digits {
		t[30+i] = event.Key(string(r))
	}
	t[40] = "enter"
	t[41] = "escape"
	t[42] = "backspace"
	t[43] = "tab"
	t[44] = "space"
	t[58] = "f1"
	t[59] = "f2"
	t[60] = "f3"
	t[61] = "f4"
	t[62] = "f5"
	t[63] = "f6"
	t[64] = "f7"
	t[65] = "f8"
	t[66] = "f9"
	t[67] = "f10"
	t[68] = "f11"
	t[69] = "f12"
	t[225] = "left_shift"
	t[229] = "right_shift"
	t[224] = "left_control"
	t[228] = "right_control"
	t[226] = "left_alt"
	t[230] = "right_alt"
	t[79] = "right"
	t[80] = "left"
	t[81] = "down"
	t[82] = "up"
	return t
}

func sdlButtonToEnum(button uint8) event.MouseButton {
	switch button {
	case sdl.BUTTON_LEFT:
		return event.ButtonLeft
	case sdl.BUTTON_RIGHT:
		return event.ButtonRight
	case sdl.BUTTON_X1:
		return event.ButtonBack
	case sdl.BUTTON_X2:
		return event.ButtonForward
	default:
		return event.ButtonMiddle
	}
}

var sdlUserEventType uint32

// sdlDisplay is the SDL2 fallback Display/backend singleton,
// used when no native backend is available or built.
type sdlDisplay struct {
	queue   Queue
	windows map[uint32]*sdlWindow
	root    *sdlContext
}

// NewSDLDisplay initializes SDL2's video subsystem, registering a
// user-event type to wake the event loop from any thread (the
// SDL_PushEvent posting mechanism of spec §4.5).
func NewSDLDisplay() (Display, error) {
	if err := sdl.Init(sdl.INIT_VIDEO); err != nil {
		return nil, fmt.Errorf("sdl: %w: %v", ErrDisplayUnavailable, err)
	}
	if sdlUserEventType == 0 {
		t := sdl.RegisterEvents(1)
		if t == (0xFFFFFFFF) {
			sdl.Quit()
			return nil, fmt.Errorf("sdl: %w: RegisterEvents failed", ErrDisplayUnavailable)
		}
		sdlUserEventType = t
	}
	d := &sdlDisplay{windows: make(map[uint32]*sdlWindow)}
	d.queue.SetWake(func() { d.wake() })
	return d, nil
}

func (d *sdlDisplay) wake() {
	event := &sdl.UserEvent{Type: sdlUserEventType}
	sdl.PushEvent(event)
}

func (d *sdlDisplay) DotsPerInch() float32 {
	_, hdpi, _, err := sdl.GetDisplayDPI(0)
	if err != nil || hdpi <= 0 {
		return 96
	}
	return hdpi
}

func (d *sdlDisplay) PixelsPerPP(resolutionPx, sizeMM event.Vec2) float32 {
	return pixelsPerPP(resolutionPx, sizeMM, 0)
}

func (d *sdlDisplay) GetCursor(shape CursorShape) (CursorHandle, error) {
	sysCursor := sdlSystemCursor(shape)
	c := sdl.CreateSystemCursor(sysCursor)
	if c == nil {
		return nil, fmt.Errorf("sdl: CreateSystemCursor failed")
	}
	return c, nil
}

func sdlSystemCursor(shape CursorShape) sdl.SystemCursor {
	switch shape {
	case CursorLeftRightArrow:
		return sdl.SYSTEM_CURSOR_SIZEWE
	case CursorUpDownArrow:
		return sdl.SYSTEM_CURSOR_SIZENS
	case CursorAllDirectionsArrow:
		return sdl.SYSTEM_CURSOR_SIZEALL
	case CursorIndexFinger:
		return sdl.SYSTEM_CURSOR_HAND
	case CursorCaret:
		return sdl.SYSTEM_CURSOR_IBEAM
	default:
		return sdl.SYSTEM_CURSOR_ARROW
	}
}

func (d *sdlDisplay) NewWindow(api APIVersion, opts Options, shared Context, cb Callbacks) (Driver, Context, error) {
	if err := sdl.GLSetAttribute(sdl.GL_CONTEXT_MAJOR_VERSION, max(api.Major, 2)); err != nil {
		logf("sdl: GLSetAttribute major failed: %v", err)
	}
	sdl.GLSetAttribute(sdl.GL_CONTEXT_MINOR_VERSION, max(api.Minor, 0))
	if opts.Framebuffers&FramebufferDepth != 0 {
		sdl.GLSetAttribute(sdl.GL_DEPTH_SIZE, 24)
	}
	if opts.Framebuffers&FramebufferStencil != 0 {
		sdl.GLSetAttribute(sdl.GL_STENCIL_SIZE, 8)
	}

	width, height := int32(opts.Size.X), int32(opts.Size.Y)
	if width <= 0 {
		width = 800
	}
	if height <= 0 {
		height = 600
	}
	flags := uint32(sdl.WINDOW_OPENGL | sdl.WINDOW_RESIZABLE)
	if opts.Visible {
		flags |= sdl.WINDOW_SHOWN
	} else {
		flags |= sdl.WINDOW_HIDDEN
	}
	win, err := sdl.CreateWindow(opts.Title, sdl.WINDOWPOS_UNDEFINED, sdl.WINDOWPOS_UNDEFINED, width, height, flags)
	if err != nil {
		return nil, nil, fmt.Errorf("sdl: %w: %v", ErrWindowCreationFailed, err)
	}

	glCtx, err := win.GLCreateContext()
	if err != nil {
		win.Destroy()
		return nil, nil, fmt.Errorf("sdl: %w: %v", ErrContextCreationFailed, err)
	}
	ctx := &sdlContext{win: win, glCtx: glCtx}

	id, err := win.GetID()
	if err != nil {
		ctx.Release()
		return nil, nil, fmt.Errorf("sdl: %w", ErrWindowCreationFailed)
	}

	w := &sdlWindow{disp: d, win: win, ctx: ctx, cb: cb, id: id, title: opts.Title}
	d.windows[id] = w
	cb.SetDriver(w)

	if d.root == nil {
		d.root = ctx
	}

	return w, ctx, nil
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}

func (d *sdlDisplay) Wait(timeout time.Duration) (nativeReady, timerExpired bool) {
	ms := int(timeout / time.Millisecond)
	if timeout <= 0 {
		sdl.PumpEvents()
		return sdl.HasEvents(sdl.FIRSTEVENT, sdl.LASTEVENT), true
	}
	ev := sdl.WaitEventTimeout(ms)
	if ev == nil {
		return false, true
	}
	// WaitEventTimeout dequeues the event; push it back so DispatchNative
	// still handles it.
	sdl.PushEvent(ev)
	return true, false
}

func (d *sdlDisplay) DispatchNative() {
	for {
		ev := sdl.PollEvent()
		if ev == nil {
			break
		}
		d.handleEvent(ev)
	}
	for _, w := range d.windows {
		w.flushResize()
	}
}

func (d *sdlDisplay) handleEvent(ev sdl.Event) {
	switch e := ev.(type) {
	case *sdl.QuitEvent:
		for _, w := range d.windows {
			w.cb.Closed()
		}
	case *sdl.WindowEvent:
		w, ok := d.windows[e.WindowID]
		if !ok {
			return
		}
		switch e.Event {
		case sdl.WINDOWEVENT_RESIZED, sdl.WINDOWEVENT_SIZE_CHANGED:
			w.mu.Lock()
			w.pendingW, w.pendingH = int(e.Data1), int(e.Data2)
			w.pendingResize = true
			w.mu.Unlock()
		case sdl.WINDOWEVENT_ENTER:
			w.hovered = true
			w.cb.SendMouseHover(true, event.MousePointer)
		case sdl.WINDOWEVENT_LEAVE:
			w.hovered = false
			w.pressed.CancelAll(w.cb, event.MousePointer)
			w.cb.SendMouseHover(false, event.MousePointer)
		case sdl.WINDOWEVENT_CLOSE:
			w.cb.Closed()
		}
	case *sdl.MouseMotionEvent:
		if w, ok := d.windows[e.WindowID]; ok {
			w.cb.SendMouseMove(event.Vec2{X: float32(e.X), Y: float32(e.Y)}, event.MousePointer)
		}
	case *sdl.MouseButtonEvent:
		if w, ok := d.windows[e.WindowID]; ok {
			action := event.Press
			button := sdlButtonToEnum(e.Button)
			if e.Type == sdl.MOUSEBUTTONUP {
				action = event.Release
				w.pressed.Release(button)
			} else {
				w.pressed.Press(button)
			}
			pos := event.Vec2{X: float32(e.X), Y: float32(e.Y)}
			w.cb.SendMouseButton(action, pos, button, event.MousePointer)
		}
	case *sdl.MouseWheelEvent:
		if w, ok := d.windows[e.WindowID]; ok {
			button := event.ButtonWheelUp
			if e.Y < 0 {
				button = event.ButtonWheelDown
			}
			x, y, _ := sdl.GetMouseState()
			EmitWheelClicks(w.cb, 1, event.Vec2{X: float32(x), Y: float32(y)}, button, event.MousePointer)
		}
	case *sdl.KeyboardEvent:
		if w, ok := d.windows[e.WindowID]; ok {
			key := sdlKeyTable.Lookup(int(e.Keysym.Scancode))
			if e.Repeat == 0 {
				action := event.Press
				if e.Type == sdl.KEYUP {
					action = event.Release
				}
				w.cb.SendKey(action, key)
			}
		}
	case *sdl.TextInputEvent:
		if w, ok := d.windows[e.WindowID]; ok {
			text := sdlTextOf(e.Text)
			w.cb.SendCharacterInput(func() []rune { return []rune(text) }, event.Unknown)
		}
	case *sdl.UserEvent:
		// Wake-only event posted by Queue.Post; draining happens in the
		// loop's own Queue.Drain call, not here.
	}
}

func sdlTextOf(text [32]byte) string {
	n := 0
	for n < len(text) && text[n] != 0 {
		n++
	}
	return string(text[:n])
}

// sdlContext adapts an sdl.GLContext to this module's Context shape.
// SDL2 windows never detach their drawable (no CreateSurface/
// DestroySurface equivalent), so those two report ErrUnsupported.
type sdlContext struct {
	win   *sdl.Window
	glCtx sdl.GLContext
	bound bool
}

func (c *sdlContext) Bind() error {
	if err := sdl.GLMakeCurrent(c.win, c.glCtx); err != nil {
		return fmt.Errorf("sdl: %w: %v", ErrBindFailed, err)
	}
	c.bound = true
	return nil
}

func (c *sdlContext) IsBound() bool { return c.bound }

func (c *sdlContext) Swap() { c.win.GLSwap() }

func (c *sdlContext) SetVSync(enabled bool) {
	interval := 0
	if enabled {
		interval = 1
	}
	if err := sdl.GLSetSwapInterval(interval); err != nil {
		logf("sdl: set vsync failed: %v", err)
	}
}

func (c *sdlContext) CreateSurface(handle uintptr, width, height int) error {
	return ErrUnsupported
}

func (c *sdlContext) DestroySurface() error { return ErrUnsupported }

func (c *sdlContext) Release() {
	sdl.GLDeleteContext(c.glCtx)
}

// sdlWindow is the SDL2 native-window wrapper.
type sdlWindow struct {
	disp  *sdlDisplay
	win   *sdl.Window
	ctx   *sdlContext
	cb    Callbacks
	id    uint32
	title string

	hovered    bool
	fullscreen bool
	pressed    PressedButtons

	mu                 sync.Mutex
	pendingW, pendingH int
	pendingResize      bool
}

func (w *sdlWindow) ID() WindowID { return w.id }

func (w *sdlWindow) Dims() event.Vec2 {
	width, height := w.win.GetSize()
	return event.Vec2{X: float32(width), Y: float32(height)}
}

func (w *sdlWindow) DPI() float32 { return w.disp.DotsPerInch() }

func (w *sdlWindow) ScaleFactor() float32 {
	return w.disp.PixelsPerPP(w.Dims(), event.Vec2{})
}

func (w *sdlWindow) BindRenderingContext() error { return w.ctx.Bind() }

func (w *sdlWindow) SwapBuffers() { w.ctx.Swap() }

func (w *sdlWindow) SetVSync(enabled bool) { w.ctx.SetVSync(enabled) }

func (w *sdlWindow) SetTitle(title string) {
	w.title = title
	w.win.SetTitle(title)
}

func (w *sdlWindow) SetMouseCursor(shape CursorShape) {
	c, err := w.disp.GetCursor(shape)
	if err != nil {
		logf("sdl: cursor unavailable: %v", err)
		return
	}
	sdl.SetCursor(c.(*sdl.Cursor))
}

func (w *sdlWindow) SetMouseCursorVisible(visible bool) {
	if visible {
		sdl.ShowCursor(sdl.ENABLE)
	} else {
		sdl.ShowCursor(sdl.DISABLE)
	}
}

func (w *sdlWindow) SetFullscreen(fullscreen bool) {
	flag := uint32(0)
	if fullscreen {
		flag = sdl.WINDOW_FULLSCREEN_DESKTOP
	}
	if err := w.win.SetFullscreen(flag); err != nil {
		logf("sdl: set fullscreen failed: %v", err)
		return
	}
	w.fullscreen = fullscreen
}

func (w *sdlWindow) IsFullscreen() bool { return w.fullscreen }

func (w *sdlWindow) Close() {
	delete(w.disp.windows, w.id)
	w.win.Destroy()
}

func (w *sdlWindow) flushResize() {
	w.mu.Lock()
	if !w.pendingResize {
		w.mu.Unlock()
		return
	}
	width, height := w.pendingW, w.pendingH
	w.pendingResize = false
	w.mu.Unlock()
	w.cb.Resized(event.Vec2{X: float32(width), Y: float32(height)})
}

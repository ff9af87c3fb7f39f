// Package egl wraps libEGL for the backends that bring up their GL
// context through EGL instead of a native context API: X11, Wayland,
// the Windows ANGLE path, and Android. Cocoa and iOS use their own
// native context objects and the SDL2 fallback uses SDL's; none of
// those three import this package.
package egl

/*
#cgo linux pkg-config: egl
#cgo windows LDFLAGS: -llibEGL
#include <EGL/egl.h>
#include <stdlib.h>

static EGLint *eglConfigAttribs(EGLint r, EGLint g, EGLint b, EGLint a, EGLint depth, EGLint stencil) {
	EGLint *attribs = malloc(sizeof(EGLint) * 17);
	int i = 0;
	attribs[i++] = EGL_RENDERABLE_TYPE; attribs[i++] = EGL_OPENGL_ES2_BIT;
	attribs[i++] = EGL_SURFACE_TYPE;    attribs[i++] = EGL_WINDOW_BIT;
	attribs[i++] = EGL_RED_SIZE;        attribs[i++] = r;
	attribs[i++] = EGL_GREEN_SIZE;      attribs[i++] = g;
	attribs[i++] = EGL_BLUE_SIZE;       attribs[i++] = b;
	attribs[i++] = EGL_ALPHA_SIZE;      attribs[i++] = a;
	attribs[i++] = EGL_DEPTH_SIZE;      attribs[i++] = depth;
	attribs[i++] = EGL_STENCIL_SIZE;    attribs[i++] = stencil;
	attribs[i++] = EGL_NONE;
	return attribs;
}
*/
import "C"

import (
	"errors"
	"fmt"
	"os"
	"unsafe"
)

// NativeDisplayType and NativeWindowType carry a platform's native
// display/window handles across the cgo boundary without pulling the
// platform's own headers into this package. NativeWindowType is an
// alias, not a defined type, so that *Context's CreateSurface method
// matches wm.Context's CreateSurface(uintptr, ...) signature exactly.
type NativeDisplayType unsafe.Pointer
type NativeWindowType = uintptr

// Context wraps one EGLDisplay/EGLContext pair, plus whatever
// EGLSurface is currently attached. A Context is created once per
// window, always with EGL_NO_CONTEXT as its share context: this package
// offers no way to share GPU resources between contexts, so each
// window's context is independent.
type Context struct {
	disp    C.EGLDisplay
	eglCtx  C.EGLContext
	eglConf C.EGLConfig
	surf    C.EGLSurface
	bound   bool
}

// NewContext initializes EGL on disp, negotiates a GLES2-capable
// RGBA8888+depth24+stencil8 config, and creates a context. The
// returned Context has no surface yet; call CreateSurface before
// MakeCurrent.
func NewContext(disp NativeDisplayType) (*Context, error) {
	eglDisp := C.eglGetDisplay(C.EGLNativeDisplayType(disp))
	if eglDisp == C.EGL_NO_DISPLAY {
		return nil, errors.New("egl: eglGetDisplay failed")
	}
	var major, minor C.EGLint
	if C.eglInitialize(eglDisp, &major, &minor) == C.EGL_FALSE {
		return nil, errors.New("egl: eglInitialize failed")
	}
	attribs := C.eglConfigAttribs(8, 8, 8, 8, 24, 8)
	defer C.free(unsafe.Pointer(attribs))
	var conf C.EGLConfig
	var numConf C.EGLint
	if C.eglChooseConfig(eglDisp, attribs, &conf, 1, &numConf) == C.EGL_FALSE || numConf == 0 {
		return nil, errors.New("egl: no matching EGLConfig")
	}
	ctxAttribs := [...]C.EGLint{C.EGL_CONTEXT_CLIENT_VERSION, 2, C.EGL_NONE}
	eglCtx := C.eglCreateContext(eglDisp, conf, C.EGL_NO_CONTEXT, &ctxAttribs[0])
	if eglCtx == C.EGL_NO_CONTEXT {
		return nil, fmt.Errorf("egl: eglCreateContext failed: %#x", C.eglGetError())
	}
	return &Context{disp: eglDisp, eglCtx: eglCtx, eglConf: conf}, nil
}

// CreateSurface creates (or replaces) the EGLSurface bound to a native
// window handle. It must be called before MakeCurrent, and again
// whenever the native window handle itself changes identity (as
// happens on Wayland, where an attach cycle tears down and recreates
// the wl_egl_window).
func (c *Context) CreateSurface(win NativeWindowType, width, height int) error {
	c.ReleaseSurface()
	surf := C.eglCreateWindowSurface(c.disp, c.eglConf, C.EGLNativeWindowType(uintptr(win)), nil)
	if surf == C.EGL_NO_SURFACE {
		return fmt.Errorf("egl: eglCreateWindowSurface failed: %#x", C.eglGetError())
	}
	c.surf = surf
	return nil
}

// ReleaseSurface destroys the current surface, if any, leaving the
// context itself intact. Safe to call when no surface is attached.
func (c *Context) ReleaseSurface() {
	if c.surf == C.EGL_NO_SURFACE || c.surf == nil {
		return
	}
	C.eglMakeCurrent(c.disp, C.EGL_NO_SURFACE, C.EGL_NO_SURFACE, C.EGL_NO_CONTEXT)
	C.eglDestroySurface(c.disp, c.surf)
	c.surf = C.EGL_NO_SURFACE
	c.bound = false
}

// DestroySurface satisfies wm.Context's surface-detach contract for
// the backends (Wayland, Android) that can take a drawable away
// without destroying the window.
func (c *Context) DestroySurface() error {
	c.ReleaseSurface()
	return nil
}

// MakeCurrent binds the context and its current surface to the
// calling thread.
func (c *Context) MakeCurrent() error {
	if c.surf == C.EGL_NO_SURFACE || c.surf == nil {
		return errors.New("egl: MakeCurrent with no surface")
	}
	if C.eglMakeCurrent(c.disp, c.surf, c.surf, c.eglCtx) == C.EGL_FALSE {
		return fmt.Errorf("egl: eglMakeCurrent failed: %#x", C.eglGetError())
	}
	c.bound = true
	return nil
}

// Bind is an alias for MakeCurrent, matching wm.Context's method name.
func (c *Context) Bind() error { return c.MakeCurrent() }

// IsBound reports whether MakeCurrent has succeeded since the last
// ReleaseSurface.
func (c *Context) IsBound() bool { return c.bound }

// EnableVSync toggles the swap interval (0 or 1); EGL has no portable
// notion of adaptive sync, so anything other than "off" maps to 1.
func (c *Context) EnableVSync(enable bool) {
	interval := C.EGLint(0)
	if enable {
		interval = 1
	}
	C.eglSwapInterval(c.disp, interval)
}

// SetVSync is EnableVSync under wm.Context's method name.
func (c *Context) SetVSync(enabled bool) { c.EnableVSync(enabled) }

// Swap presents the current surface's back buffer. Errors are logged
// rather than returned, matching wm.Context's Swap signature; callers
// needing the error directly should check eglGetError themselves.
func (c *Context) Swap() {
	if C.eglSwapBuffers(c.disp, c.surf) == C.EGL_FALSE {
		fmt.Fprintf(os.Stderr, "egl: eglSwapBuffers failed: %#x\n", C.eglGetError())
	}
}

// Release tears down the context and terminates the EGL display
// connection. The Context must not be used afterward.
func (c *Context) Release() {
	c.ReleaseSurface()
	if c.eglCtx != C.EGL_NO_CONTEXT && c.eglCtx != nil {
		C.eglDestroyContext(c.disp, c.eglCtx)
		c.eglCtx = C.EGL_NO_CONTEXT
	}
	if c.disp != C.EGL_NO_DISPLAY && c.disp != nil {
		C.eglTerminate(c.disp)
		c.disp = C.EGL_NO_DISPLAY
	}
}

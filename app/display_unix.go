// +build linux,!android freebsd openbsd

package app

import (
	"errors"

	"github.com/ruisapp-go/ruisapp/internal/wm"
)

// newDisplay tries each Unix backend in turn and keeps the first one
// whose display connection opens successfully: Wayland first since a
// Wayland session has no working Xlib connection unless Xwayland is
// also present, X11 next, then the SDL2 fallback (spec §1). This
// mirrors a plain-Xlib-or-Wayland desktop stack's driver rendezvous,
// adapted to call each backend's own exported constructor directly
// rather than through package-level injection, since the backends live
// in internal/wm rather than in this package.
func newDisplay() (wm.Display, error) {
	var errFirst error
	if d, err := wm.NewWaylandDisplay(); err == nil {
		return d, nil
	} else {
		errFirst = err
	}
	if d, err := wm.NewX11Display(); err == nil {
		return d, nil
	} else if errFirst == nil {
		errFirst = err
	}
	if d, err := wm.NewSDLDisplay(); err == nil {
		return d, nil
	} else if errFirst == nil {
		errFirst = err
	}
	if errFirst != nil {
		return nil, errFirst
	}
	return nil, errors.New("app: no window backend available")
}

// +build windows

package app

import (
	"errors"

	"github.com/ruisapp-go/ruisapp/internal/wm"
)

func newDisplay() (wm.Display, error) {
	var errFirst error
	if d, err := wm.NewWin32Display(); err == nil {
		return d, nil
	} else {
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

// +build android

package app

import "github.com/ruisapp-go/ruisapp/internal/wm"

func newDisplay() (wm.Display, error) {
	return wm.NewAndroidDisplay()
}

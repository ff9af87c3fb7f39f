// +build ios

package app

import "github.com/ruisapp-go/ruisapp/internal/wm"

// iOS permits exactly one native backend; there is no rendezvous here
// (spec §4.7).
func newDisplay() (wm.Display, error) {
	return wm.NewIOSDisplay()
}

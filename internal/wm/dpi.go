package wm

import "github.com/ruisapp-go/ruisapp/event"

// cmPerInch is the conversion constant spec §4.1 prescribes for backends
// that only report physical screen dimensions.
const cmPerInch = 2.54

// dotsPerInchFromPhysical computes logical DPI as the mean of the
// horizontal and vertical pixels-per-inch of the primary screen, for
// a backend (X11) that only knows physical millimeter dimensions.
func dotsPerInchFromPhysical(resPx, sizeMM event.Vec2) float32 {
	if sizeMM.X <= 0 || sizeMM.Y <= 0 {
		return 96 // conventional desktop default when the server reports bogus geometry.
	}
	mmPerInch := float32(10) * cmPerInch
	xdpi := resPx.X / (sizeMM.X / mmPerInch)
	ydpi := resPx.Y / (sizeMM.Y / mmPerInch)
	return (xdpi + ydpi) / 2
}

// pixelsPerPP implements the density-independent point-pixel policy of
// spec §4.1: handheld/tablet/desktop breakpoints on physical width, with
// an escape hatch for desktops that report an integer scale factor.
//
//   pixelsPerPP((res,res), (mm,mm)) == 1.0        if mm >= 300
//                                    == res/700.0  if 150 <= mm < 300
//                                    == res/200.0  if mm < 150
func pixelsPerPP(resolutionPx, sizeMM event.Vec2, integerScaleFactor float32) float32 {
	if integerScaleFactor != 0 && integerScaleFactor != 1 {
		return integerScaleFactor
	}
	widthMM := sizeMM.X
	switch {
	case widthMM < 150:
		return resolutionPx.X / 200
	case widthMM < 300:
		return resolutionPx.X / 700
	default:
		return 1
	}
}

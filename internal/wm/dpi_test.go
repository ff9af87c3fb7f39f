package wm

import (
	"testing"

	"github.com/ruisapp-go/ruisapp/event"
)

func TestPixelsPerPP(t *testing.T) {
	cases := []struct {
		name string
		res  float32
		mm   float32
		want float32
	}{
		{"desktop", 1920, 520, 1},
		{"boundary-desktop", 1920, 300, 1},
		{"tablet", 1400, 250, 1400.0 / 700.0},
		{"boundary-tablet-low", 1400, 150, 1400.0 / 700.0},
		{"handheld", 1080, 70, 1080.0 / 200.0},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got := pixelsPerPP(event.Vec2{X: c.res, Y: c.res}, event.Vec2{X: c.mm, Y: c.mm}, 0)
			if got != c.want {
				t.Fatalf("pixelsPerPP(%v,%v) = %v, want %v", c.res, c.mm, got, c.want)
			}
		})
	}
}

func TestPixelsPerPPIntegerScaleOverride(t *testing.T) {
	got := pixelsPerPP(event.Vec2{X: 3840, Y: 3840}, event.Vec2{X: 600, Y: 600}, 2)
	if got != 2 {
		t.Fatalf("expected integer scale factor to win, got %v", got)
	}
	// Scale factor of 1 is not an override: falls through to the desktop
	// breakpoint (mm >= 300 => 1.0), same result here but via the other path.
	got = pixelsPerPP(event.Vec2{X: 3840, Y: 3840}, event.Vec2{X: 600, Y: 600}, 1)
	if got != 1 {
		t.Fatalf("expected breakpoint result 1.0, got %v", got)
	}
}

func TestDotsPerInchFromPhysical(t *testing.T) {
	// 96 DPI reference panel: 1920px over 508mm (20in) width/height.
	got := dotsPerInchFromPhysical(event.Vec2{X: 1920, Y: 1920}, event.Vec2{X: 508, Y: 508})
	want := float32(96)
	if diff := got - want; diff > 0.5 || diff < -0.5 {
		t.Fatalf("dotsPerInchFromPhysical = %v, want ~%v", got, want)
	}
}

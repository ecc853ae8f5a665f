// Package pattern paints synthetic eye images for demos and tests. The
// images carry enough structure (checker grid, horizon line, per-eye tint)
// that a misapplied warp transform is visible at a glance.
package pattern

import (
	"image"
	"image/color"

	"golang.org/x/image/draw"
)

// baseSize is the resolution the pattern is painted at before scaling to
// the requested eye resolution.
const baseSize = 256

// checker is the checker cell size in base pixels.
const checker = 32

// EyeImage paints one eye's test image at the given resolution. The frame
// number rolls the pattern's accent color so consecutive frames are
// distinguishable in a capture; eye 0 is tinted red, eye 1 blue.
func EyeImage(width, height, eye int, frame int64) *image.RGBA {
	base := image.NewRGBA(image.Rect(0, 0, baseSize, baseSize))
	accent := uint8(64 + (frame*13)%128)

	for y := 0; y < baseSize; y++ {
		for x := 0; x < baseSize; x++ {
			c := cellColor(x, y, eye, accent)
			base.SetRGBA(x, y, c)
		}
	}

	if width == baseSize && height == baseSize {
		return base
	}
	out := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.ApproxBiLinear.Scale(out, out.Bounds(), base, base.Bounds(), draw.Src, nil)
	return out
}

func cellColor(x, y, eye int, accent uint8) color.RGBA {
	// Horizon band through the vertical center.
	if y >= baseSize/2-2 && y <= baseSize/2+2 {
		return color.RGBA{R: 255, G: 255, B: 255, A: 255}
	}

	light := ((x/checker)+(y/checker))%2 == 0
	var v uint8 = 48
	if light {
		v = 192
	}
	c := color.RGBA{R: v, G: v, B: v, A: 255}
	if eye == 0 {
		c.R = accent
	} else {
		c.B = accent
	}
	return c
}

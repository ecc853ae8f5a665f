package pattern

import (
	"image/color"
	"testing"
)

func TestEyeImage_Dimensions(t *testing.T) {
	tests := []struct {
		width, height int
	}{
		{baseSize, baseSize},
		{512, 512},
		{640, 360},
		{100, 300},
	}
	for _, tt := range tests {
		img := EyeImage(tt.width, tt.height, 0, 0)
		b := img.Bounds()
		if b.Dx() != tt.width || b.Dy() != tt.height {
			t.Errorf("EyeImage(%d, %d) bounds = %v", tt.width, tt.height, b)
		}
	}
}

func TestEyeImage_Opaque(t *testing.T) {
	img := EyeImage(baseSize, baseSize, 0, 0)
	for y := 0; y < baseSize; y += 17 {
		for x := 0; x < baseSize; x += 17 {
			if _, _, _, a := img.At(x, y).RGBA(); a != 0xffff {
				t.Fatalf("pixel (%d, %d) is not opaque", x, y)
			}
		}
	}
}

func TestEyeImage_HorizonBand(t *testing.T) {
	img := EyeImage(baseSize, baseSize, 0, 0)
	got := img.RGBAAt(10, baseSize/2)
	want := color.RGBA{R: 255, G: 255, B: 255, A: 255}
	if got != want {
		t.Errorf("horizon pixel = %v, want white", got)
	}
}

func TestEyeImage_EyesAreTintedDifferently(t *testing.T) {
	left := EyeImage(baseSize, baseSize, 0, 0)
	right := EyeImage(baseSize, baseSize, 1, 0)

	// A checker pixel away from the horizon.
	l := left.RGBAAt(4, 4)
	r := right.RGBAAt(4, 4)
	if l == r {
		t.Error("left and right eye pixels should differ in tint")
	}
	if l.R == l.G {
		t.Error("eye 0 should carry a red accent")
	}
	if r.B == r.G {
		t.Error("eye 1 should carry a blue accent")
	}
}

func TestEyeImage_FrameRollsAccent(t *testing.T) {
	a := EyeImage(baseSize, baseSize, 0, 0)
	b := EyeImage(baseSize, baseSize, 0, 1)
	if a.RGBAAt(4, 4) == b.RGBAAt(4, 4) {
		t.Error("consecutive frames should be distinguishable")
	}
}

func TestEyeImage_CheckerContrast(t *testing.T) {
	img := EyeImage(baseSize, baseSize, 1, 0)

	// Neighboring checker cells alternate between light and dark.
	a := img.RGBAAt(checker/2, checker/2)
	b := img.RGBAAt(checker+checker/2, checker/2)
	if a.G == b.G {
		t.Errorf("adjacent checker cells have equal luma: %v vs %v", a, b)
	}
}

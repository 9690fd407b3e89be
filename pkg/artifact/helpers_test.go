package artifact

import (
	"image"
	"testing"

	errs "github.com/brutalbaniya/MacroblockingGenerator/pkg/errors"
	"github.com/brutalbaniya/MacroblockingGenerator/pkg/frame"
)

// noiseFrame returns a frame filled with reproducible random bytes.
func noiseFrame(w, h int, seed uint64) *frame.Frame {
	f := frame.New(w, h)
	rng := NewRand(seed)
	for i := range f.Pix {
		f.Pix[i] = uint8(rng.IntN(256))
	}
	return f
}

// coordFrame encodes each pixel's position as R=x, G=y, B=x^y.
// Dimensions must not exceed 256.
func coordFrame(w, h int) *frame.Frame {
	f := frame.New(w, h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			f.SetRGB(x, y, uint8(x), uint8(y), uint8(x^y))
		}
	}
	return f
}

func solidFrame(w, h int, r, g, b uint8) *frame.Frame {
	f := frame.New(w, h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			f.SetRGB(x, y, r, g, b)
		}
	}
	return f
}

// containsCrop reports whether block equals some same-sized crop of f.
func containsCrop(f, block *frame.Frame) bool {
	for y := 0; y+block.Height <= f.Height; y++ {
		for x := 0; x+block.Width <= f.Width; x++ {
			if f.Crop(image.Rect(x, y, x+block.Width, y+block.Height)).Equal(block) {
				return true
			}
		}
	}
	return false
}

func wantCode(t *testing.T, err error, code errs.Code) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected %s error, got nil", code)
	}
	if !errs.Is(err, code) {
		t.Fatalf("error code = %s, want %s (err: %v)", errs.GetCode(err), code, err)
	}
}

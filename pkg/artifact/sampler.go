package artifact

import (
	"image"
	"math/rand/v2"

	errs "github.com/brutalbaniya/MacroblockingGenerator/pkg/errors"
	"github.com/brutalbaniya/MacroblockingGenerator/pkg/frame"
)

// InteriorWindow returns the region of a width×height half from which
// blockSize×blockSize blocks may be sampled: [padding, dim-padding) on each
// axis. It fails with INVALID_CONFIG when that window cannot hold a block.
func InteriorWindow(width, height, blockSize, padding int) (image.Rectangle, error) {
	if blockSize <= 0 {
		return image.Rectangle{}, errs.New(errs.ErrCodeInvalidConfig, "block_size must be greater than 0, got %d", blockSize)
	}
	if padding < 0 {
		return image.Rectangle{}, errs.New(errs.ErrCodeInvalidConfig, "padding must be at least 0, got %d", padding)
	}
	// image.Rect would canonicalize an inverted window, so measure it first.
	iw, ih := width-2*padding, height-2*padding
	if iw < blockSize || ih < blockSize {
		return image.Rectangle{}, errs.New(errs.ErrCodeInvalidConfig,
			"padding %d leaves a %dx%d sampling window in a %dx%d half, too small for %dpx blocks",
			padding, max(iw, 0), max(ih, 0), width, height, blockSize)
	}
	return image.Rectangle{Min: image.Pt(padding, padding), Max: image.Pt(width-padding, height-padding)}, nil
}

// SampleInterior copies a random blockSize×blockSize block from the interior
// of half. The top-left anchor is uniform over every position where the whole
// block fits inside the interior window; x is drawn before y.
func SampleInterior(half *frame.Frame, blockSize, padding int, rng *rand.Rand) (*frame.Frame, error) {
	win, err := InteriorWindow(half.Width, half.Height, blockSize, padding)
	if err != nil {
		return nil, err
	}
	x := win.Min.X + intN(rng, win.Dx()-blockSize+1)
	y := win.Min.Y + intN(rng, win.Dy()-blockSize+1)
	return half.Crop(image.Rect(x, y, x+blockSize, y+blockSize)), nil
}

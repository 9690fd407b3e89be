package artifact

import (
	"image"

	"golang.org/x/image/draw"

	errs "github.com/brutalbaniya/MacroblockingGenerator/pkg/errors"
	"github.com/brutalbaniya/MacroblockingGenerator/pkg/frame"
)

// Normalize returns block resized to exactly height×width.
//
// When the block already has that shape it is returned as-is (no copy).
// Otherwise it is resampled with bilinear interpolation into a new frame;
// in a checkerboard grid this only happens for the clipped last row/column.
func Normalize(block *frame.Frame, height, width int) (*frame.Frame, error) {
	if height <= 0 || width <= 0 {
		return nil, errs.New(errs.ErrCodeInvalidInput, "normalize target must be positive, got %dx%d", width, height)
	}
	if block.Width == width && block.Height == height {
		return block, nil
	}
	if block.Empty() {
		return nil, errs.New(errs.ErrCodeInvalidInput, "cannot resample an empty %dx%d block", block.Width, block.Height)
	}

	dst := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.BiLinear.Scale(dst, dst.Bounds(), block.ToRGBA(), block.Rect(), draw.Src, nil)
	return frame.FromImage(dst), nil
}

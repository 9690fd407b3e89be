package artifact

import (
	"math"

	errs "github.com/brutalbaniya/MacroblockingGenerator/pkg/errors"
	"github.com/brutalbaniya/MacroblockingGenerator/pkg/frame"
)

// Blend linearly mixes two equally sized blocks:
//
//	out = dst*(1-alpha) + src*alpha
//
// per channel and per pixel. Results are rounded half up and saturated to
// [0, 255], so alpha 0 reproduces dst and alpha 1 reproduces src exactly.
func Blend(dst, src *frame.Frame, alpha float64) (*frame.Frame, error) {
	if !dst.SameSize(src) {
		return nil, errs.New(errs.ErrCodeInvalidInput, "cannot blend %dx%d block with %dx%d block",
			dst.Width, dst.Height, src.Width, src.Height)
	}
	if math.IsNaN(alpha) || alpha < 0 || alpha > 1 {
		return nil, errs.New(errs.ErrCodeInvalidConfig, "blend must be within [0, 1], got %v", alpha)
	}

	out := frame.New(dst.Width, dst.Height)
	beta := 1 - alpha
	for i := range dst.Pix {
		out.Pix[i] = saturate(float64(dst.Pix[i])*beta + float64(src.Pix[i])*alpha)
	}
	return out, nil
}

func saturate(v float64) uint8 {
	v = math.Floor(v + 0.5)
	switch {
	case v <= 0:
		return 0
	case v >= 255:
		return 255
	}
	return uint8(v)
}

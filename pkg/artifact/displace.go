package artifact

import (
	"math/rand/v2"

	errs "github.com/brutalbaniya/MacroblockingGenerator/pkg/errors"
	"github.com/brutalbaniya/MacroblockingGenerator/pkg/frame"
)

// NewRand returns a seeded source for reproducible composites.
// The same seed always produces the same frame for the same input and options.
func NewRand(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed^0xdeadbeef))
}

// maxShiftLimit caps the random shift so 2*maxShift+1 fits in a 32-bit int.
const maxShiftLimit = 1 << 24

// intN draws from rng, or from the auto-seeded global source when rng is nil.
func intN(rng *rand.Rand, n int) int {
	if rng == nil {
		return rand.IntN(n)
	}
	return rng.IntN(n)
}

// Displace jitters every pixel of block by an independent random offset.
//
// For each pixel (x, y), visited in row-major order, dx and then dy are drawn
// uniformly from [-maxShift, maxShift] and the pixel takes the value found at
// (x+dx, y+dy) clamped to the block. A negative maxShift is treated as 0.
// The input block is never modified.
//
// A nil rng uses the global source, so successive calls are independent.
func Displace(block *frame.Frame, maxShift int, rng *rand.Rand) *frame.Frame {
	if block.Empty() {
		return block.Clone()
	}
	maxShift = min(max(maxShift, 0), maxShiftLimit)

	w, h := block.Width, block.Height
	span := 2*maxShift + 1
	src := make([]int, w*h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			dx := intN(rng, span) - maxShift
			dy := intN(rng, span) - maxShift
			src[y*w+x] = clamp(y+dy, 0, h-1)*w + clamp(x+dx, 0, w-1)
		}
	}
	return gather(block, src)
}

// DisplaceDirectional offsets the source coordinate of every pixel of block
// by shift pixels toward direction, clamped to the block:
//
//	up:    out(x, y) = in(x, max(y-shift, 0))
//	down:  out(x, y) = in(x, min(y+shift, h-1))
//	left:  out(x, y) = in(max(x-shift, 0), y)
//	right: out(x, y) = in(min(x+shift, w-1), y)
//
// Sampling from above (up) pushes the content down and replicates the top
// row; the other directions mirror this.
//
// A negative shift is treated as 0. Any other direction is an INVALID_CONFIG error.
func DisplaceDirectional(block *frame.Frame, shift int, direction Direction) (*frame.Frame, error) {
	var dx, dy int
	switch direction {
	case DirectionUp:
		dy = -1
	case DirectionDown:
		dy = 1
	case DirectionLeft:
		dx = -1
	case DirectionRight:
		dx = 1
	default:
		return nil, errs.New(errs.ErrCodeInvalidConfig, "invalid direction %q (must be one of: up, down, left, right)", direction)
	}
	if block.Empty() {
		return block.Clone(), nil
	}
	shift = max(shift, 0)

	w, h := block.Width, block.Height
	// Clamp the magnitude first so x+dx*shift cannot overflow.
	sx, sy := min(shift, w)*dx, min(shift, h)*dy
	src := make([]int, w*h)
	for y := 0; y < h; y++ {
		row := clamp(y+sy, 0, h-1) * w
		for x := 0; x < w; x++ {
			src[y*w+x] = row + clamp(x+sx, 0, w-1)
		}
	}
	return gather(block, src), nil
}

// gather builds a new frame where pixel i takes the value of block pixel src[i].
func gather(block *frame.Frame, src []int) *frame.Frame {
	out := frame.New(block.Width, block.Height)
	for i, s := range src {
		d, s := i*frame.Channels, s*frame.Channels
		copy(out.Pix[d:d+frame.Channels], block.Pix[s:s+frame.Channels])
	}
	return out
}

func clamp(v, lo, hi int) int {
	return min(max(v, lo), hi)
}

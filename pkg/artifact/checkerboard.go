package artifact

import (
	"image"
	"math/rand/v2"

	errs "github.com/brutalbaniya/MacroblockingGenerator/pkg/errors"
	"github.com/brutalbaniya/MacroblockingGenerator/pkg/frame"
)

// Halves describes how a frame is partitioned for one composite.
type Halves struct {
	// Source is the half blocks are sampled from (top or left).
	Source image.Rectangle

	// Dest is the half that receives tampered blocks (bottom or right).
	Dest image.Rectangle

	// Grid is the extent iterated by the block grid, anchored at Dest.Min.
	// It spans [0, height/2) rows for a horizontal split and [0, width/2)
	// columns for a vertical one, so it never leaves Dest.
	Grid image.Rectangle
}

// SplitFrame partitions a width×height frame. The halves are disjoint and
// together cover the whole frame; for odd dimensions Dest gets the extra line.
func SplitFrame(width, height int, split Split) Halves {
	if split == SplitVertical {
		mid := width / 2
		return Halves{
			Source: image.Rect(0, 0, mid, height),
			Dest:   image.Rect(mid, 0, width, height),
			Grid:   image.Rect(0, 0, mid, height),
		}
	}
	mid := height / 2
	return Halves{
		Source: image.Rect(0, 0, width, mid),
		Dest:   image.Rect(0, mid, width, height),
		Grid:   image.Rect(0, 0, width, mid),
	}
}

// Cell is one block of the checkerboard grid.
type Cell struct {
	// Index is the grid position (column, row), not a pixel coordinate.
	Index image.Point

	// Rect is the block in frame coordinates, clipped to the grid extent.
	Rect image.Rectangle
}

// Selected reports whether the cell is tampered with: (gx+gy) is even.
func (c Cell) Selected() bool {
	return (c.Index.X+c.Index.Y)%2 == 0
}

// Cells enumerates every grid cell of the destination half in row-major order.
func (h Halves) Cells(blockSize int) []Cell {
	if blockSize <= 0 {
		return nil
	}
	var cells []Cell
	origin := h.Dest.Min
	for gy, y := 0, 0; y < h.Grid.Dy(); gy, y = gy+1, y+blockSize {
		for gx, x := 0, 0; x < h.Grid.Dx(); gx, x = gx+1, x+blockSize {
			r := image.Rect(x, y, min(x+blockSize, h.Grid.Dx()), min(y+blockSize, h.Grid.Dy()))
			cells = append(cells, Cell{Index: image.Pt(gx, gy), Rect: r.Add(origin)})
		}
	}
	return cells
}

// Result is the outcome of a composite.
type Result struct {
	// Frame is the composited frame; it never aliases the input.
	Frame *frame.Frame

	// Halves is the partition that was used.
	Halves Halves

	// Cells lists the tampered blocks in frame coordinates.
	Cells []image.Rectangle
}

// Plan validates opts against a width×height frame and returns the partition
// the composite would use. It performs every check Apply does before touching
// pixels, so callers can reject a configuration up front.
func Plan(width, height int, opts Options) (Halves, error) {
	if err := opts.Validate(); err != nil {
		return Halves{}, err
	}
	if width <= 0 || height <= 0 {
		return Halves{}, errs.New(errs.ErrCodeDegenerateFrame, "frame is empty (%dx%d)", width, height)
	}
	h := SplitFrame(width, height, opts.Split)
	src := h.Source
	if src.Dx() < opts.BlockSize || src.Dy() < opts.BlockSize {
		return Halves{}, errs.New(errs.ErrCodeDegenerateFrame,
			"%s half of a %dx%d frame is %dx%d, smaller than %dpx blocks",
			opts.Split, width, height, src.Dx(), src.Dy(), opts.BlockSize)
	}
	if _, err := InteriorWindow(src.Dx(), src.Dy(), opts.BlockSize, opts.Padding); err != nil {
		return Halves{}, err
	}
	return h, nil
}

// Composite applies the checkerboard artifact to f and returns a new frame of
// the same size. See [Apply].
func Composite(f *frame.Frame, opts Options, rng *rand.Rand) (*frame.Frame, error) {
	res, err := Apply(f, opts, rng)
	if err != nil {
		return nil, err
	}
	return res.Frame, nil
}

// Apply runs the checkerboard compositor.
//
// The frame is split into a source and a destination half. Every even-parity
// cell of the destination grid is replaced by a block sampled from the source
// half's interior, resized to the cell, displaced (random jitter for a
// horizontal split, a directional shift of MaxShift pixels for a vertical
// one) and blended over the original cell content. Odd cells and the whole
// source half are left untouched.
//
// All validation happens before the first cell is processed; on error no
// frame is returned. The input frame is only read.
func Apply(f *frame.Frame, opts Options, rng *rand.Rand) (*Result, error) {
	if f == nil {
		return nil, errs.New(errs.ErrCodeDegenerateFrame, "frame is nil")
	}
	halves, err := Plan(f.Width, f.Height, opts)
	if err != nil {
		return nil, err
	}

	out := f.Clone()
	source := f.Crop(halves.Source)
	res := &Result{Halves: halves}

	for _, cell := range halves.Cells(opts.BlockSize) {
		if !cell.Selected() {
			continue
		}
		blended, err := tamperCell(f, source, cell.Rect, opts, rng)
		if err != nil {
			return nil, err
		}
		out.Paste(blended, cell.Rect.Min)
		res.Cells = append(res.Cells, cell.Rect)
	}

	res.Frame = out
	return res, nil
}

// tamperCell produces the blended replacement for one destination cell.
func tamperCell(f, source *frame.Frame, cell image.Rectangle, opts Options, rng *rand.Rand) (*frame.Frame, error) {
	bh, bw := cell.Dy(), cell.Dx()

	sampled, err := SampleInterior(source, opts.BlockSize, opts.Padding, rng)
	if err != nil {
		return nil, err
	}
	sampled, err = Normalize(sampled, bh, bw)
	if err != nil {
		return nil, err
	}

	var displaced *frame.Frame
	if opts.Horizontal() {
		displaced = Displace(sampled, opts.MaxShift, rng)
	} else {
		displaced, err = DisplaceDirectional(sampled, opts.MaxShift, opts.Direction)
		if err != nil {
			return nil, err
		}
	}

	dest, err := Normalize(f.Crop(cell), bh, bw)
	if err != nil {
		return nil, err
	}
	return Blend(dest, displaced, opts.Blend)
}

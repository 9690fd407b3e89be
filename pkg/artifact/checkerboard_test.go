package artifact

import (
	"image"
	"testing"

	errs "github.com/brutalbaniya/MacroblockingGenerator/pkg/errors"
	"github.com/brutalbaniya/MacroblockingGenerator/pkg/frame"
)

func TestSplitFrame(t *testing.T) {
	tests := []struct {
		name   string
		w, h   int
		split  Split
		source image.Rectangle
		dest   image.Rectangle
		grid   image.Rectangle
	}{
		{"horizontal even", 64, 64, SplitHorizontal, image.Rect(0, 0, 64, 32), image.Rect(0, 32, 64, 64), image.Rect(0, 0, 64, 32)},
		{"horizontal odd", 50, 37, SplitHorizontal, image.Rect(0, 0, 50, 18), image.Rect(0, 18, 50, 37), image.Rect(0, 0, 50, 18)},
		{"vertical even", 64, 32, SplitVertical, image.Rect(0, 0, 32, 32), image.Rect(32, 0, 64, 32), image.Rect(0, 0, 32, 32)},
		{"vertical odd", 33, 20, SplitVertical, image.Rect(0, 0, 16, 20), image.Rect(16, 0, 33, 20), image.Rect(0, 0, 16, 20)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := SplitFrame(tt.w, tt.h, tt.split)
			if h.Source != tt.source || h.Dest != tt.dest || h.Grid != tt.grid {
				t.Fatalf("SplitFrame = %+v, want source %v dest %v grid %v", h, tt.source, tt.dest, tt.grid)
			}
			if h.Source.Overlaps(h.Dest) {
				t.Error("halves overlap")
			}
			if h.Source.Union(h.Dest) != image.Rect(0, 0, tt.w, tt.h) {
				t.Error("halves do not cover the frame")
			}
			if !h.Grid.Add(h.Dest.Min).In(h.Dest) {
				t.Error("grid leaves the destination half")
			}
		})
	}
}

func TestHalvesCells(t *testing.T) {
	h := SplitFrame(64, 64, SplitHorizontal)
	cells := h.Cells(24)

	want := []struct {
		index    image.Point
		rect     image.Rectangle
		selected bool
	}{
		{image.Pt(0, 0), image.Rect(0, 32, 24, 56), true},
		{image.Pt(1, 0), image.Rect(24, 32, 48, 56), false},
		{image.Pt(2, 0), image.Rect(48, 32, 64, 56), true},
		{image.Pt(0, 1), image.Rect(0, 56, 24, 64), false},
		{image.Pt(1, 1), image.Rect(24, 56, 48, 64), true},
		{image.Pt(2, 1), image.Rect(48, 56, 64, 64), false},
	}

	if len(cells) != len(want) {
		t.Fatalf("got %d cells, want %d", len(cells), len(want))
	}
	for i, w := range want {
		c := cells[i]
		if c.Index != w.index || c.Rect != w.rect || c.Selected() != w.selected {
			t.Errorf("cell %d = {%v %v %v}, want {%v %v %v}", i, c.Index, c.Rect, c.Selected(), w.index, w.rect, w.selected)
		}
	}

	if got := h.Cells(0); got != nil {
		t.Errorf("Cells(0) = %v, want nil", got)
	}
}

func TestApplyPreservesShapeAndSourceHalf(t *testing.T) {
	tests := []struct {
		name string
		w, h int
		opts Options
	}{
		{"horizontal defaults", 128, 128, DefaultOptions()},
		{"horizontal odd size", 51, 37, Options{BlockSize: 8, MaxShift: 3, Padding: 2, Blend: 0.6, Direction: DirectionLeft, Split: SplitHorizontal}},
		{"vertical down", 96, 48, Options{BlockSize: 16, MaxShift: 5, Padding: 4, Blend: 0.4, Direction: DirectionDown, Split: SplitVertical}},
		{"vertical odd size", 61, 45, Options{BlockSize: 12, MaxShift: 2, Padding: 3, Blend: 1, Direction: DirectionRight, Split: SplitVertical}},
		{"huge shift", 64, 64, Options{BlockSize: 16, MaxShift: 1 << 30, Padding: 0, Blend: 0.5, Direction: DirectionUp, Split: SplitHorizontal}},
		{"huge directional shift", 64, 64, Options{BlockSize: 16, MaxShift: 1 << 30, Padding: 0, Blend: 0.5, Direction: DirectionUp, Split: SplitVertical}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := noiseFrame(tt.w, tt.h, 1)
			orig := in.Clone()

			res, err := Apply(in, tt.opts, NewRand(42))
			if err != nil {
				t.Fatalf("Apply: %v", err)
			}
			out := res.Frame
			if !out.SameSize(in) {
				t.Fatalf("shape = %dx%d, want %dx%d", out.Width, out.Height, in.Width, in.Height)
			}
			if !in.Equal(orig) {
				t.Fatal("input frame was modified")
			}
			if !out.Crop(res.Halves.Source).Equal(in.Crop(res.Halves.Source)) {
				t.Error("source half changed")
			}
		})
	}
}

func TestApplyCheckerboardParity(t *testing.T) {
	for _, split := range []Split{SplitHorizontal, SplitVertical} {
		t.Run(string(split), func(t *testing.T) {
			opts := Options{BlockSize: 10, MaxShift: 2, Padding: 3, Blend: 0.8, Direction: DirectionLeft, Split: split}
			in := noiseFrame(73, 59, 2)

			res, err := Apply(in, opts, NewRand(7))
			if err != nil {
				t.Fatalf("Apply: %v", err)
			}

			selected := 0
			for _, c := range res.Halves.Cells(opts.BlockSize) {
				if c.Selected() {
					selected++
					continue
				}
				if !res.Frame.Crop(c.Rect).Equal(in.Crop(c.Rect)) {
					t.Errorf("odd cell %v at %v was modified", c.Index, c.Rect)
				}
			}
			if len(res.Cells) != selected {
				t.Errorf("reported %d tampered cells, want %d", len(res.Cells), selected)
			}
			for _, r := range res.Cells {
				if !r.In(res.Halves.Dest) {
					t.Errorf("tampered cell %v outside destination %v", r, res.Halves.Dest)
				}
			}
		})
	}
}

func TestApplyLeavesUncoveredLineUntouched(t *testing.T) {
	in := noiseFrame(40, 33, 3)
	opts := Options{BlockSize: 8, MaxShift: 1, Padding: 1, Blend: 1, Direction: DirectionLeft, Split: SplitHorizontal}

	out, err := Composite(in, opts, NewRand(1))
	if err != nil {
		t.Fatalf("Composite: %v", err)
	}
	last := image.Rect(0, 32, 40, 33)
	if !out.Crop(last).Equal(in.Crop(last)) {
		t.Error("bottom line outside the grid was modified")
	}
}

func TestApplyBlendZeroIsIdentity(t *testing.T) {
	in := noiseFrame(64, 64, 4)
	opts := Options{BlockSize: 16, MaxShift: 4, Padding: 2, Blend: 0, Direction: DirectionLeft, Split: SplitHorizontal}

	out, err := Composite(in, opts, NewRand(5))
	if err != nil {
		t.Fatalf("Composite: %v", err)
	}
	if !out.Equal(in) {
		t.Error("blend 0 should leave the frame unchanged")
	}
}

func TestApplyCopiesSourceBlocks(t *testing.T) {
	tests := []struct {
		name  string
		w, h  int
		split Split
		cells int
	}{
		{"horizontal", 64, 64, SplitHorizontal, 4},
		{"vertical", 64, 32, SplitVertical, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := noiseFrame(tt.w, tt.h, 6)
			opts := Options{BlockSize: 16, MaxShift: 0, Padding: 0, Blend: 1, Direction: DirectionDown, Split: tt.split}

			res, err := Apply(in, opts, NewRand(8))
			if err != nil {
				t.Fatalf("Apply: %v", err)
			}
			if len(res.Cells) != tt.cells {
				t.Fatalf("tampered %d cells, want %d", len(res.Cells), tt.cells)
			}

			source := in.Crop(res.Halves.Source)
			for _, r := range res.Cells {
				block := res.Frame.Crop(r)
				if !containsCrop(source, block) {
					t.Errorf("cell %v is not a copy of any source block", r)
				}
			}
		})
	}
}

func TestApplyDirectionalShiftReplicatesEdge(t *testing.T) {
	in := noiseFrame(64, 32, 9)
	opts := Options{BlockSize: 16, MaxShift: 3, Padding: 0, Blend: 1, Direction: DirectionUp, Split: SplitVertical}

	res, err := Apply(in, opts, NewRand(10))
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	for _, r := range res.Cells {
		block := res.Frame.Crop(r)
		top := block.Crop(image.Rect(0, 0, block.Width, 1))
		for y := 1; y <= opts.MaxShift; y++ {
			if !block.Crop(image.Rect(0, y, block.Width, y+1)).Equal(top) {
				t.Errorf("cell %v row %d should replicate row 0", r, y)
			}
		}
	}
}

func TestApplyDeterministic(t *testing.T) {
	in := noiseFrame(96, 96, 11)
	opts := Options{BlockSize: 16, MaxShift: 4, Padding: 8, Blend: 0.4, Direction: DirectionLeft, Split: SplitHorizontal}

	a, err := Composite(in, opts, NewRand(42))
	if err != nil {
		t.Fatal(err)
	}
	b, err := Composite(in, opts, NewRand(42))
	if err != nil {
		t.Fatal(err)
	}
	if !a.Equal(b) {
		t.Error("same seed produced different frames")
	}

	c, err := Composite(in, opts, NewRand(43))
	if err != nil {
		t.Fatal(err)
	}
	if a.Equal(c) {
		t.Error("different seeds produced identical frames")
	}
}

func TestApplyErrors(t *testing.T) {
	valid := Options{BlockSize: 8, MaxShift: 2, Padding: 0, Blend: 0.5, Direction: DirectionLeft, Split: SplitHorizontal}
	with := func(modify func(*Options)) Options {
		o := valid
		modify(&o)
		return o
	}

	tests := []struct {
		name  string
		frame *frame.Frame
		opts  Options
		code  errs.Code
	}{
		{"nil frame", nil, valid, errs.ErrCodeDegenerateFrame},
		{"empty frame", frame.New(0, 0), valid, errs.ErrCodeDegenerateFrame},
		{"half smaller than block", noiseFrame(16, 14, 1), valid, errs.ErrCodeDegenerateFrame},
		{"padding swallows half", noiseFrame(8, 16, 1), with(func(o *Options) { o.Padding = 4 }), errs.ErrCodeInvalidConfig},
		{"zero block size", noiseFrame(32, 32, 1), with(func(o *Options) { o.BlockSize = 0 }), errs.ErrCodeInvalidConfig},
		{"blend out of range", noiseFrame(32, 32, 1), with(func(o *Options) { o.Blend = 2 }), errs.ErrCodeInvalidConfig},
		{"bad direction", noiseFrame(32, 32, 1), with(func(o *Options) { o.Direction = "sideways" }), errs.ErrCodeInvalidConfig},
		{"bad split", noiseFrame(32, 32, 1), with(func(o *Options) { o.Split = "diagonal" }), errs.ErrCodeInvalidConfig},
		{"vertical half too narrow", noiseFrame(14, 64, 1), with(func(o *Options) { o.Split = SplitVertical }), errs.ErrCodeDegenerateFrame},
		{"padding beyond half", noiseFrame(20, 20, 1), with(func(o *Options) { o.BlockSize, o.Padding = 2, 20 }), errs.ErrCodeInvalidConfig},
		{"padding past interior", noiseFrame(20, 20, 1), with(func(o *Options) { o.BlockSize, o.Padding = 2, 12 }), errs.ErrCodeInvalidConfig},
		{"vertical padding beyond half", noiseFrame(20, 20, 1), with(func(o *Options) { o.BlockSize, o.Padding, o.Split = 2, 6, SplitVertical }), errs.ErrCodeInvalidConfig},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := Apply(tt.frame, tt.opts, NewRand(1))
			wantCode(t, err, tt.code)
			if res != nil {
				t.Error("expected nil result on error")
			}
		})
	}
}

func TestOversizedPaddingRejectedUpFront(t *testing.T) {
	tests := []struct {
		name       string
		w, h       int
		block, pad int
		split      Split
	}{
		{"padding larger than frame", 20, 20, 2, 20, SplitHorizontal},
		{"padding larger than half height", 40, 20, 2, 6, SplitHorizontal},
		{"padding larger than half width", 20, 40, 2, 6, SplitVertical},
		{"window one short", 40, 40, 8, 7, SplitHorizontal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := Options{BlockSize: tt.block, MaxShift: 1, Padding: tt.pad, Blend: 0.5, Direction: DirectionLeft, Split: tt.split}

			_, err := Plan(tt.w, tt.h, opts)
			wantCode(t, err, errs.ErrCodeInvalidConfig)

			out, err := Composite(noiseFrame(tt.w, tt.h, 3), opts, NewRand(1))
			wantCode(t, err, errs.ErrCodeInvalidConfig)
			if out != nil {
				t.Error("expected nil frame on error")
			}
		})
	}
}

func TestPlanMatchesApply(t *testing.T) {
	opts := DefaultOptions()
	h, err := Plan(128, 128, opts)
	if err != nil {
		t.Fatalf("Plan: %v", err)
	}
	res, err := Apply(noiseFrame(128, 128, 1), opts, NewRand(1))
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if h != res.Halves {
		t.Errorf("Plan halves %+v differ from Apply halves %+v", h, res.Halves)
	}
}

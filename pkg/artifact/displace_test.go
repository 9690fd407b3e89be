package artifact

import (
	"math"
	"testing"

	errs "github.com/brutalbaniya/MacroblockingGenerator/pkg/errors"
	"github.com/brutalbaniya/MacroblockingGenerator/pkg/frame"
)

func TestDisplaceZeroShiftIsIdentity(t *testing.T) {
	block := noiseFrame(16, 12, 1)
	for _, shift := range []int{0, -1, -100} {
		got := Displace(block, shift, NewRand(7))
		if !got.Equal(block) {
			t.Errorf("Displace(shift=%d) changed the block", shift)
		}
	}
}

func TestDisplaceDoesNotMutateInput(t *testing.T) {
	block := noiseFrame(8, 8, 2)
	orig := block.Clone()

	out := Displace(block, 3, NewRand(1))
	if !block.Equal(orig) {
		t.Error("input block was modified")
	}
	out.Pix[0] ^= 0xff
	if !block.Equal(orig) {
		t.Error("output aliases input")
	}
}

func TestDisplaceDeterministic(t *testing.T) {
	block := noiseFrame(24, 24, 3)
	a := Displace(block, 4, NewRand(42))
	b := Displace(block, 4, NewRand(42))
	if !a.Equal(b) {
		t.Error("same seed produced different output")
	}
	c := Displace(block, 4, NewRand(43))
	if a.Equal(c) {
		t.Error("different seeds produced identical output")
	}
}

func TestDisplaceStaysWithinShift(t *testing.T) {
	tests := []struct {
		name     string
		w, h     int
		maxShift int
	}{
		{"small shift", 24, 24, 2},
		{"shift equals width", 16, 8, 16},
		{"shift beyond block", 5, 7, 1000},
		{"single pixel", 1, 1, 50},
		{"single row", 32, 1, 3},
		{"max int", 9, 9, math.MaxInt},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			block := coordFrame(tt.w, tt.h)
			out := Displace(block, tt.maxShift, NewRand(9))

			if out.Width != tt.w || out.Height != tt.h {
				t.Fatalf("shape = %dx%d, want %dx%d", out.Width, out.Height, tt.w, tt.h)
			}
			for y := 0; y < tt.h; y++ {
				for x := 0; x < tt.w; x++ {
					sx, sy, check := out.RGBAt(x, y)
					if int(sx) >= tt.w || int(sy) >= tt.h || check != sx^sy {
						t.Fatalf("pixel (%d,%d) = (%d,%d,%d) is not a block pixel", x, y, sx, sy, check)
					}
					if abs(int(sx)-x) > tt.maxShift || abs(int(sy)-y) > tt.maxShift {
						t.Fatalf("pixel (%d,%d) came from (%d,%d), beyond shift %d", x, y, sx, sy, tt.maxShift)
					}
				}
			}
		})
	}
}

func TestDisplaceEmptyBlock(t *testing.T) {
	out := Displace(frame.New(0, 4), 3, NewRand(1))
	if !out.Empty() {
		t.Errorf("expected empty output, got %dx%d", out.Width, out.Height)
	}
}

func TestDisplaceNilRand(t *testing.T) {
	block := coordFrame(8, 8)
	out := Displace(block, 2, nil)
	if !out.SameSize(block) {
		t.Fatalf("shape = %dx%d, want 8x8", out.Width, out.Height)
	}
}

func TestDisplaceDirectional(t *testing.T) {
	const w, h, s = 10, 8, 3
	block := coordFrame(w, h)

	tests := []struct {
		dir  Direction
		want func(x, y int) (int, int)
	}{
		{DirectionUp, func(x, y int) (int, int) { return x, max(y-s, 0) }},
		{DirectionDown, func(x, y int) (int, int) { return x, min(y+s, h-1) }},
		{DirectionLeft, func(x, y int) (int, int) { return max(x-s, 0), y }},
		{DirectionRight, func(x, y int) (int, int) { return min(x+s, w-1), y }},
	}

	for _, tt := range tests {
		t.Run(string(tt.dir), func(t *testing.T) {
			out, err := DisplaceDirectional(block, s, tt.dir)
			if err != nil {
				t.Fatalf("DisplaceDirectional: %v", err)
			}
			for y := 0; y < h; y++ {
				for x := 0; x < w; x++ {
					wx, wy := tt.want(x, y)
					gx, gy, _ := out.RGBAt(x, y)
					if int(gx) != wx || int(gy) != wy {
						t.Fatalf("out(%d,%d) = in(%d,%d), want in(%d,%d)", x, y, gx, gy, wx, wy)
					}
				}
			}
		})
	}
}

func TestDisplaceDirectionalColumn(t *testing.T) {
	// A 1x3 column holding rows 0, 1, 2 in the green channel.
	block := coordFrame(1, 3)

	tests := []struct {
		dir  Direction
		want []uint8
	}{
		{DirectionUp, []uint8{0, 0, 1}},
		{DirectionDown, []uint8{1, 2, 2}},
		{DirectionLeft, []uint8{0, 1, 2}},
		{DirectionRight, []uint8{0, 1, 2}},
	}

	for _, tt := range tests {
		t.Run(string(tt.dir), func(t *testing.T) {
			out, err := DisplaceDirectional(block, 1, tt.dir)
			if err != nil {
				t.Fatalf("DisplaceDirectional: %v", err)
			}
			for y, want := range tt.want {
				if _, g, _ := out.RGBAt(0, y); g != want {
					t.Errorf("row %d came from row %d, want %d", y, g, want)
				}
			}
		})
	}
}

func TestDisplaceDirectionalUpReplicatesTopRow(t *testing.T) {
	block := noiseFrame(6, 6, 11)
	out, err := DisplaceDirectional(block, 2, DirectionUp)
	if err != nil {
		t.Fatal(err)
	}
	for x := 0; x < 6; x++ {
		tr, tg, tb := block.RGBAt(x, 0)
		for y := 0; y <= 2; y++ {
			r, g, b := out.RGBAt(x, y)
			if r != tr || g != tg || b != tb {
				t.Fatalf("out(%d,%d) does not match in(%d,0)", x, y, x)
			}
		}
	}
}

func TestDisplaceDirectionalEdgeShifts(t *testing.T) {
	block := coordFrame(5, 4)

	tests := []struct {
		name  string
		shift int
		dir   Direction
		check func(t *testing.T, out *frame.Frame)
	}{
		{"zero shift", 0, DirectionUp, func(t *testing.T, out *frame.Frame) {
			if !out.Equal(block) {
				t.Error("zero shift changed the block")
			}
		}},
		{"negative shift", -3, DirectionLeft, func(t *testing.T, out *frame.Frame) {
			if !out.Equal(block) {
				t.Error("negative shift changed the block")
			}
		}},
		{"shift beyond height", 100, DirectionUp, func(t *testing.T, out *frame.Frame) {
			for y := 0; y < 4; y++ {
				for x := 0; x < 5; x++ {
					if _, gy, _ := out.RGBAt(x, y); gy != 0 {
						t.Fatalf("out(%d,%d) came from row %d, want 0", x, y, gy)
					}
				}
			}
		}},
		{"max int shift", math.MaxInt, DirectionRight, func(t *testing.T, out *frame.Frame) {
			for y := 0; y < 4; y++ {
				for x := 0; x < 5; x++ {
					if gx, _, _ := out.RGBAt(x, y); gx != 4 {
						t.Fatalf("out(%d,%d) came from column %d, want 4", x, y, gx)
					}
				}
			}
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := DisplaceDirectional(block, tt.shift, tt.dir)
			if err != nil {
				t.Fatalf("DisplaceDirectional: %v", err)
			}
			tt.check(t, out)
		})
	}
}

func TestDisplaceDirectionalInvalidDirection(t *testing.T) {
	out, err := DisplaceDirectional(coordFrame(4, 4), 1, Direction("sideways"))
	wantCode(t, err, errs.ErrCodeInvalidConfig)
	if out != nil {
		t.Error("expected nil frame on error")
	}
}

func FuzzDisplace(f *testing.F) {
	f.Add(8, 8, 4, uint64(1))
	f.Add(1, 17, 1000, uint64(2))
	f.Add(3, 2, math.MaxInt, uint64(3))
	f.Fuzz(func(t *testing.T, w, h, shift int, seed uint64) {
		w, h = w%64, h%64
		block := coordFrame(max(w, 0), max(h, 0))
		out := Displace(block, shift, NewRand(seed))
		if !out.SameSize(block) {
			t.Fatalf("shape changed: %dx%d -> %dx%d", block.Width, block.Height, out.Width, out.Height)
		}
		for _, dir := range []Direction{DirectionUp, DirectionDown, DirectionLeft, DirectionRight} {
			d, err := DisplaceDirectional(block, shift, dir)
			if err != nil {
				t.Fatal(err)
			}
			if !d.SameSize(block) {
				t.Fatalf("%s: shape changed", dir)
			}
		}
	})
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

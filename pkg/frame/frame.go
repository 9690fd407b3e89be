// Package frame provides the dense RGB pixel grid that every stage of the
// artifact pipeline operates on.
//
// A [Frame] stores Height×Width×3 bytes in row-major order with no padding
// between rows. It implements [image.Image] and [draw.Image] so it can be
// handed directly to standard library and golang.org/x/image scalers, but the
// hot paths in this module index [Frame.Pix] directly.
//
// Frames have value semantics at package boundaries: [Frame.Crop] and
// [Frame.Clone] always return independent copies, so a block cut out of a
// frame can never be used to mutate the frame it came from.
package frame

import (
	"image"
	"image/color"
	"image/draw"
)

// Channels is the number of bytes per pixel (R, G, B).
const Channels = 3

// Frame is a dense H×W×3 grid of 8-bit RGB pixels.
type Frame struct {
	Width  int
	Height int
	// Pix holds the pixel data, Pix[(y*Width+x)*Channels+c].
	Pix []uint8
}

// New allocates a black frame of the given size.
// Negative dimensions are treated as zero.
func New(width, height int) *Frame {
	width, height = max(width, 0), max(height, 0)
	return &Frame{
		Width:  width,
		Height: height,
		Pix:    make([]uint8, width*height*Channels),
	}
}

// FromImage copies any image into a new Frame with bounds starting at (0,0).
// Alpha is discarded after compositing over black, the way draw.Src onto an
// opaque destination behaves for premultiplied colors.
func FromImage(src image.Image) *Frame {
	b := src.Bounds()
	f := New(b.Dx(), b.Dy())

	switch img := src.(type) {
	case *image.RGBA:
		for y := 0; y < f.Height; y++ {
			row := img.Pix[img.PixOffset(b.Min.X, b.Min.Y+y):]
			for x := 0; x < f.Width; x++ {
				i, j := x*4, f.offset(x, y)
				f.Pix[j], f.Pix[j+1], f.Pix[j+2] = row[i], row[i+1], row[i+2]
			}
		}
	case *image.NRGBA:
		for y := 0; y < f.Height; y++ {
			row := img.Pix[img.PixOffset(b.Min.X, b.Min.Y+y):]
			for x := 0; x < f.Width; x++ {
				i, j := x*4, f.offset(x, y)
				if row[i+3] == 0xff {
					f.Pix[j], f.Pix[j+1], f.Pix[j+2] = row[i], row[i+1], row[i+2]
					continue
				}
				r, g, bl, _ := color.NRGBA{R: row[i], G: row[i+1], B: row[i+2], A: row[i+3]}.RGBA()
				f.Pix[j], f.Pix[j+1], f.Pix[j+2] = uint8(r>>8), uint8(g>>8), uint8(bl>>8)
			}
		}
	default:
		for y := 0; y < f.Height; y++ {
			for x := 0; x < f.Width; x++ {
				r, g, bl, _ := src.At(b.Min.X+x, b.Min.Y+y).RGBA()
				j := f.offset(x, y)
				f.Pix[j], f.Pix[j+1], f.Pix[j+2] = uint8(r>>8), uint8(g>>8), uint8(bl>>8)
			}
		}
	}
	return f
}

// offset returns the index of pixel (x, y) in Pix.
func (f *Frame) offset(x, y int) int {
	return (y*f.Width + x) * Channels
}

// Empty reports whether the frame has no pixels.
func (f *Frame) Empty() bool {
	return f == nil || f.Width <= 0 || f.Height <= 0
}

// Rect returns the frame bounds as a rectangle anchored at the origin.
func (f *Frame) Rect() image.Rectangle {
	return image.Rect(0, 0, f.Width, f.Height)
}

// SameSize reports whether f and o have identical dimensions.
func (f *Frame) SameSize(o *Frame) bool {
	return f.Width == o.Width && f.Height == o.Height
}

// RGBAt returns the channel values at (x, y). The coordinates must be in bounds.
func (f *Frame) RGBAt(x, y int) (r, g, b uint8) {
	j := f.offset(x, y)
	return f.Pix[j], f.Pix[j+1], f.Pix[j+2]
}

// SetRGB stores a pixel. The coordinates must be in bounds.
func (f *Frame) SetRGB(x, y int, r, g, b uint8) {
	j := f.offset(x, y)
	f.Pix[j], f.Pix[j+1], f.Pix[j+2] = r, g, b
}

// Clone returns a deep copy of f.
func (f *Frame) Clone() *Frame {
	out := &Frame{Width: f.Width, Height: f.Height, Pix: make([]uint8, len(f.Pix))}
	copy(out.Pix, f.Pix)
	return out
}

// Crop copies the part of f inside r into a new frame.
// r is clipped to the frame bounds; an empty intersection yields an empty frame.
func (f *Frame) Crop(r image.Rectangle) *Frame {
	r = r.Intersect(f.Rect())
	out := New(r.Dx(), r.Dy())
	n := r.Dx() * Channels
	for y := 0; y < out.Height; y++ {
		src := f.offset(r.Min.X, r.Min.Y+y)
		copy(out.Pix[y*n:(y+1)*n], f.Pix[src:src+n])
	}
	return out
}

// Paste copies src into f with its top-left corner at p.
// Pixels falling outside f are dropped.
func (f *Frame) Paste(src *Frame, p image.Point) {
	dr := src.Rect().Add(p).Intersect(f.Rect())
	if dr.Empty() {
		return
	}
	n := dr.Dx() * Channels
	sx := dr.Min.X - p.X
	for y := dr.Min.Y; y < dr.Max.Y; y++ {
		so := src.offset(sx, y-p.Y)
		do := f.offset(dr.Min.X, y)
		copy(f.Pix[do:do+n], src.Pix[so:so+n])
	}
}

// Equal reports whether both frames have the same size and pixels.
func (f *Frame) Equal(o *Frame) bool {
	if f == nil || o == nil {
		return f == o
	}
	if !f.SameSize(o) {
		return false
	}
	for i := range f.Pix {
		if f.Pix[i] != o.Pix[i] {
			return false
		}
	}
	return true
}

// ToNRGBA converts the frame into an opaque *image.NRGBA for encoding.
func (f *Frame) ToNRGBA() *image.NRGBA {
	img := image.NewNRGBA(f.Rect())
	for y := 0; y < f.Height; y++ {
		for x := 0; x < f.Width; x++ {
			i, j := y*img.Stride+x*4, f.offset(x, y)
			img.Pix[i], img.Pix[i+1], img.Pix[i+2], img.Pix[i+3] = f.Pix[j], f.Pix[j+1], f.Pix[j+2], 0xff
		}
	}
	return img
}

// ToRGBA converts the frame into an opaque *image.RGBA.
func (f *Frame) ToRGBA() *image.RGBA {
	img := image.NewRGBA(f.Rect())
	for y := 0; y < f.Height; y++ {
		for x := 0; x < f.Width; x++ {
			i, j := y*img.Stride+x*4, f.offset(x, y)
			img.Pix[i], img.Pix[i+1], img.Pix[i+2], img.Pix[i+3] = f.Pix[j], f.Pix[j+1], f.Pix[j+2], 0xff
		}
	}
	return img
}

// ColorModel implements image.Image.
func (f *Frame) ColorModel() color.Model { return color.RGBAModel }

// Bounds implements image.Image.
func (f *Frame) Bounds() image.Rectangle { return f.Rect() }

// At implements image.Image. Out-of-bounds coordinates return transparent black.
func (f *Frame) At(x, y int) color.Color {
	if !image.Pt(x, y).In(f.Rect()) {
		return color.RGBA{}
	}
	r, g, b := f.RGBAt(x, y)
	return color.RGBA{R: r, G: g, B: b, A: 0xff}
}

// Set implements draw.Image. Alpha is dropped after premultiplication.
func (f *Frame) Set(x, y int, c color.Color) {
	if !image.Pt(x, y).In(f.Rect()) {
		return
	}
	rgba := color.RGBAModel.Convert(c).(color.RGBA)
	f.SetRGB(x, y, rgba.R, rgba.G, rgba.B)
}

var (
	_ image.Image = (*Frame)(nil)
	_ draw.Image  = (*Frame)(nil)
)

package labels

import (
	"fmt"
	"io"

	svg "github.com/ajstarks/svgo"
)

// WriteSVG renders rec as a mask: black background, white tampered cells,
// and the destination half outlined. The canvas matches the frame size so
// the mask can be overlaid on the output image directly.
func WriteSVG(w io.Writer, rec Record) error {
	if rec.Width <= 0 || rec.Height <= 0 {
		return fmt.Errorf("label %s has empty extent %dx%d", rec.Frame, rec.Width, rec.Height)
	}
	canvas := svg.New(w)
	canvas.Start(rec.Width, rec.Height)
	canvas.Title(rec.Frame)
	canvas.Rect(0, 0, rec.Width, rec.Height, "fill:black")

	canvas.Gid("cells")
	for _, c := range rec.Cells {
		canvas.Rect(c.X, c.Y, c.W, c.H, "fill:white")
	}
	canvas.Gend()

	d := rec.Dest
	canvas.Rect(d.X, d.Y, d.W, d.H, "fill:none;stroke:red;stroke-width:1")
	canvas.End()
	return nil
}

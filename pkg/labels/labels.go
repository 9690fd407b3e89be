// Package labels records ground truth for every composited frame: which
// cells were tampered with, under which options and seed.
//
// A [Record] is written per frame to a [Store]. [JSONLStore] appends one JSON
// document per line to a local file, [MongoStore] inserts into a MongoDB
// collection for datasets shared across machines, and [NullStore] discards
// everything. [WriteSVG] renders a record as a binary mask.
package labels

import (
	"context"
	"image"
	"time"

	"github.com/brutalbaniya/MacroblockingGenerator/pkg/artifact"
)

// Rect is a tampered cell in frame pixel coordinates.
type Rect struct {
	X int `json:"x" bson:"x"`
	Y int `json:"y" bson:"y"`
	W int `json:"w" bson:"w"`
	H int `json:"h" bson:"h"`
}

// FromRectangle converts an image.Rectangle.
func FromRectangle(r image.Rectangle) Rect {
	return Rect{X: r.Min.X, Y: r.Min.Y, W: r.Dx(), H: r.Dy()}
}

// Rectangle converts back to an image.Rectangle.
func (r Rect) Rectangle() image.Rectangle {
	return image.Rect(r.X, r.Y, r.X+r.W, r.Y+r.H)
}

// Record is the label for one composited frame.
type Record struct {
	RunID     string           `json:"run_id"`
	Frame     string           `json:"frame"`
	Output    string           `json:"output,omitempty"`
	Width     int              `json:"width"`
	Height    int              `json:"height"`
	Seed      uint64           `json:"seed"`
	Options   artifact.Options `json:"options"`
	Source    Rect             `json:"source"`
	Dest      Rect             `json:"dest"`
	Cells     []Rect           `json:"cells"`
	CreatedAt time.Time        `json:"created_at"`
}

// NewRecord builds a record from a composite result.
func NewRecord(runID, name string, width, height int, seed uint64, opts artifact.Options, halves artifact.Halves, cells []image.Rectangle) Record {
	rec := Record{
		RunID:     runID,
		Frame:     name,
		Width:     width,
		Height:    height,
		Seed:      seed,
		Options:   opts,
		Source:    FromRectangle(halves.Source),
		Dest:      FromRectangle(halves.Dest),
		Cells:     make([]Rect, len(cells)),
		CreatedAt: time.Now().UTC(),
	}
	for i, c := range cells {
		rec.Cells[i] = FromRectangle(c)
	}
	return rec
}

// Store persists label records. Implementations must be safe for
// concurrent use by batch workers.
type Store interface {
	Put(ctx context.Context, rec Record) error
	Close() error
}

// NullStore discards every record.
type NullStore struct{}

func (NullStore) Put(context.Context, Record) error { return nil }
func (NullStore) Close() error                      { return nil }

var _ Store = NullStore{}

// Tee returns a store that writes every record to each of stores in order.
// Nil stores are dropped; with none left it returns NullStore.
func Tee(stores ...Store) Store {
	var live []Store
	for _, s := range stores {
		if s != nil {
			live = append(live, s)
		}
	}
	switch len(live) {
	case 0:
		return NullStore{}
	case 1:
		return live[0]
	}
	return teeStore(live)
}

type teeStore []Store

func (t teeStore) Put(ctx context.Context, rec Record) error {
	for _, s := range t {
		if err := s.Put(ctx, rec); err != nil {
			return err
		}
	}
	return nil
}

// Close closes every store and returns the first error.
func (t teeStore) Close() error {
	var first error
	for _, s := range t {
		if err := s.Close(); err != nil && first == nil {
			first = err
		}
	}
	return first
}

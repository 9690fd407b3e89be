package labels

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"image"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"go.mongodb.org/mongo-driver/bson"

	"github.com/brutalbaniya/MacroblockingGenerator/pkg/artifact"
)

func testRecord(name string) Record {
	halves := artifact.SplitFrame(64, 64, artifact.SplitHorizontal)
	cells := []image.Rectangle{image.Rect(0, 32, 16, 48), image.Rect(32, 32, 48, 48)}
	return NewRecord("run-1", name, 64, 64, 1<<63+5, artifact.DefaultOptions(), halves, cells)
}

func TestNewRecord(t *testing.T) {
	rec := testRecord("a.png")
	if rec.Source != (Rect{X: 0, Y: 0, W: 64, H: 32}) {
		t.Errorf("Source = %+v", rec.Source)
	}
	if rec.Dest != (Rect{X: 0, Y: 32, W: 64, H: 32}) {
		t.Errorf("Dest = %+v", rec.Dest)
	}
	if len(rec.Cells) != 2 || rec.Cells[1] != (Rect{X: 32, Y: 32, W: 16, H: 16}) {
		t.Errorf("Cells = %+v", rec.Cells)
	}
	if rec.Cells[0].Rectangle() != image.Rect(0, 32, 16, 48) {
		t.Error("Rect.Rectangle should invert FromRectangle")
	}
	if rec.CreatedAt.IsZero() {
		t.Error("CreatedAt should be set")
	}
}

func TestJSONLStore(t *testing.T) {
	path := filepath.Join(t.TempDir(), DefaultFilename)
	store, err := NewJSONLStore(path)
	if err != nil {
		t.Fatalf("NewJSONLStore: %v", err)
	}

	ctx := context.Background()
	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			if err := store.Put(ctx, testRecord(fmt.Sprintf("frame_%02d.png", i))); err != nil {
				t.Errorf("Put: %v", err)
			}
		}(i)
	}
	wg.Wait()
	if err := store.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	seen := map[string]bool{}
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		var rec Record
		if err := json.Unmarshal(sc.Bytes(), &rec); err != nil {
			t.Fatalf("line %q is not a record: %v", sc.Text(), err)
		}
		if rec.Seed != 1<<63+5 {
			t.Errorf("seed = %d, want %d", rec.Seed, uint64(1<<63+5))
		}
		seen[rec.Frame] = true
	}
	if len(seen) != 20 {
		t.Errorf("got %d distinct records, want 20", len(seen))
	}
}

func TestJSONLStoreAppends(t *testing.T) {
	path := filepath.Join(t.TempDir(), DefaultFilename)
	for i := 0; i < 2; i++ {
		store, err := NewJSONLStore(path)
		if err != nil {
			t.Fatal(err)
		}
		if err := store.Put(context.Background(), testRecord("x.png")); err != nil {
			t.Fatal(err)
		}
		store.Close()
	}
	data, _ := os.ReadFile(path)
	if n := strings.Count(string(data), "\n"); n != 2 {
		t.Errorf("file has %d lines, want 2", n)
	}
}

func TestJSONLStoreCancelled(t *testing.T) {
	store, err := NewJSONLStore(filepath.Join(t.TempDir(), DefaultFilename))
	if err != nil {
		t.Fatal(err)
	}
	defer store.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := store.Put(ctx, testRecord("x.png")); err == nil {
		t.Error("Put should fail on a cancelled context")
	}
}

func TestNullStore(t *testing.T) {
	var s Store = NullStore{}
	if err := s.Put(context.Background(), testRecord("x.png")); err != nil {
		t.Error(err)
	}
	if err := s.Close(); err != nil {
		t.Error(err)
	}
}

type countingStore struct {
	puts   int
	closed bool
	err    error
}

func (c *countingStore) Put(context.Context, Record) error {
	c.puts++
	return c.err
}

func (c *countingStore) Close() error {
	c.closed = true
	return c.err
}

func TestTee(t *testing.T) {
	if _, ok := Tee().(NullStore); !ok {
		t.Error("Tee() should be a NullStore")
	}
	single := &countingStore{}
	if Tee(nil, single) != Store(single) {
		t.Error("Tee with one live store should return it")
	}

	a, b := &countingStore{}, &countingStore{}
	s := Tee(a, b)
	if err := s.Put(context.Background(), testRecord("x.png")); err != nil {
		t.Fatalf("Put: %v", err)
	}
	if err := s.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if a.puts != 1 || b.puts != 1 || !a.closed || !b.closed {
		t.Errorf("a=%+v b=%+v", a, b)
	}

	failing := &countingStore{err: errors.New("boom")}
	after := &countingStore{}
	s = Tee(failing, after)
	if err := s.Put(context.Background(), testRecord("x.png")); err == nil {
		t.Error("Put should report the first failure")
	}
	if after.puts != 0 {
		t.Error("Put should stop at the first failure")
	}
	if err := s.Close(); err == nil || !after.closed {
		t.Error("Close should close every store and report the failure")
	}
}

func TestWriteSVG(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteSVG(&buf, testRecord("frame.png")); err != nil {
		t.Fatalf("WriteSVG: %v", err)
	}
	out := buf.String()

	if !strings.Contains(out, `width="64"`) || !strings.Contains(out, `height="64"`) {
		t.Error("canvas should match the frame size")
	}
	// background + 2 cells + destination outline
	if n := strings.Count(out, "<rect"); n != 4 {
		t.Errorf("found %d rects, want 4", n)
	}
	if strings.Count(out, "fill:white") != 2 {
		t.Error("each cell should be a white rect")
	}
	if !strings.Contains(out, "<title>frame.png</title>") {
		t.Error("missing title")
	}
}

func TestWriteSVGEmpty(t *testing.T) {
	if err := WriteSVG(&bytes.Buffer{}, Record{Frame: "x"}); err == nil {
		t.Error("expected error for empty extent")
	}
}

func TestToDocument(t *testing.T) {
	doc := toDocument(testRecord("frame.png"))
	data, err := bson.Marshal(doc)
	if err != nil {
		t.Fatalf("bson.Marshal: %v", err)
	}

	var back bson.M
	if err := bson.Unmarshal(data, &back); err != nil {
		t.Fatalf("bson.Unmarshal: %v", err)
	}
	if back["seed"] != "9223372036854775813" {
		t.Errorf("seed = %v, want decimal string", back["seed"])
	}
	if back["frame"] != "frame.png" {
		t.Errorf("frame = %v", back["frame"])
	}
}

func TestMongoStore(t *testing.T) {
	uri := os.Getenv("MACROBLOCK_TEST_MONGO")
	if uri == "" {
		t.Skip("MACROBLOCK_TEST_MONGO not set")
	}
	ctx := context.Background()
	store, err := NewMongoStore(ctx, uri, "macroblock_test", "labels")
	if err != nil {
		t.Fatalf("NewMongoStore: %v", err)
	}
	defer store.Close()

	if err := store.Put(ctx, testRecord("frame.png")); err != nil {
		t.Fatalf("Put: %v", err)
	}
}

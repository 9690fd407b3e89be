package pipeline

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/brutalbaniya/MacroblockingGenerator/pkg/artifact"
	"github.com/brutalbaniya/MacroblockingGenerator/pkg/frame"
	"github.com/brutalbaniya/MacroblockingGenerator/pkg/io"
)

func noiseFrame(w, h int, seed uint64) *frame.Frame {
	f := frame.New(w, h)
	rng := artifact.NewRand(seed)
	for i := range f.Pix {
		f.Pix[i] = uint8(rng.IntN(256))
	}
	return f
}

// writeFrames writes one w×h noise PNG per name into dir.
func writeFrames(t *testing.T, dir string, w, h int, names ...string) {
	t.Helper()
	for i, name := range names {
		if err := io.ExportFrame(noiseFrame(w, h, uint64(i+1)), filepath.Join(dir, name), io.WriteOptions{}); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
	}
}

func readFile(t *testing.T, path string) []byte {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read %s: %v", path, err)
	}
	return data
}

type cacheEvents struct {
	mu                 sync.Mutex
	hits, misses, sets int
}

func (c *cacheEvents) OnCacheHit(context.Context, string) {
	c.mu.Lock()
	c.hits++
	c.mu.Unlock()
}

func (c *cacheEvents) OnCacheMiss(context.Context, string) {
	c.mu.Lock()
	c.misses++
	c.mu.Unlock()
}

func (c *cacheEvents) OnCacheSet(context.Context, string, int) {
	c.mu.Lock()
	c.sets++
	c.mu.Unlock()
}

type batchEvents struct {
	mu        sync.Mutex
	started   int
	frames    map[string]error
	processed int
	skipped   int
	failed    int
	completed bool
}

func (b *batchEvents) OnBatchStart(_ context.Context, _ string, total int) {
	b.mu.Lock()
	b.started = total
	b.frames = map[string]error{}
	b.mu.Unlock()
}

func (b *batchEvents) OnFrameStart(context.Context, string, string) {}

func (b *batchEvents) OnFrameComplete(_ context.Context, _ string, name string, _ int, _ time.Duration, err error) {
	b.mu.Lock()
	b.frames[name] = err
	b.mu.Unlock()
}

func (b *batchEvents) OnBatchComplete(_ context.Context, _ string, processed, skipped, failed int, _ time.Duration) {
	b.mu.Lock()
	b.processed, b.skipped, b.failed = processed, skipped, failed
	b.completed = true
	b.mu.Unlock()
}

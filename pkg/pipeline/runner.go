package pipeline

import (
	"context"
	"encoding/json"
	"image"
	"time"

	"github.com/charmbracelet/log"

	"github.com/brutalbaniya/MacroblockingGenerator/pkg/artifact"
	"github.com/brutalbaniya/MacroblockingGenerator/pkg/cache"
	errs "github.com/brutalbaniya/MacroblockingGenerator/pkg/errors"
	"github.com/brutalbaniya/MacroblockingGenerator/pkg/frame"
	"github.com/brutalbaniya/MacroblockingGenerator/pkg/observability"
)

// cacheKeyType labels frame entries in cache hooks.
const cacheKeyType = "frame"

// Runner encapsulates frame processing with caching.
// Both CLI and API use it so caching behaves the same everywhere.
//
// The Runner is stateless except for the cache and logger. Multiple
// goroutines can safely use the same Runner with different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{Cache: c, Keyer: keyer, Logger: logger}
}

// FrameResult is the outcome of processing one frame.
type FrameResult struct {
	// Frame is the composited frame.
	Frame *frame.Frame

	// Halves is the source/destination partition that was used.
	Halves artifact.Halves

	// Cells lists the tampered blocks in frame coordinates.
	Cells []image.Rectangle

	// Seed is the seed the compositor ran with.
	Seed uint64

	// CacheHit reports whether the frame came from the cache.
	CacheHit bool

	// Duration is the wall time spent, including cache access.
	Duration time.Duration
}

// cachedFrame is the cache payload for a composited frame.
type cachedFrame struct {
	Width  int               `json:"width"`
	Height int               `json:"height"`
	Pix    []byte            `json:"pix"`
	Cells  []image.Rectangle `json:"cells"`
}

// ProcessFrame composites f with the given seed. The input frame is not
// modified. Configuration errors and degenerate frames are returned as
// coded errors from the errors package.
func (r *Runner) ProcessFrame(ctx context.Context, name string, f *frame.Frame, seed uint64, opts Options) (*FrameResult, error) {
	start := time.Now()
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	if f == nil {
		return nil, errs.New(errs.ErrCodeDegenerateFrame, "%s: no frame", name)
	}
	halves, err := artifact.Plan(f.Width, f.Height, opts.Artifact)
	if err != nil {
		return nil, err
	}

	key := r.Keyer.FrameKey(cache.HashFrame(f.Width, f.Height, f.Pix), frameKeyOpts(f, seed, opts))

	if !opts.Refresh {
		if cached, ok := r.lookup(ctx, key, f); ok {
			r.Logger.Debug("cache hit", "frame", name, "cells", len(cached.Cells))
			return &FrameResult{
				Frame:    &frame.Frame{Width: cached.Width, Height: cached.Height, Pix: cached.Pix},
				Halves:   halves,
				Cells:    cached.Cells,
				Seed:     seed,
				CacheHit: true,
				Duration: time.Since(start),
			}, nil
		}
	}

	res, err := artifact.Apply(f, opts.Artifact, artifact.NewRand(seed))
	if err != nil {
		return nil, err
	}

	r.store(ctx, key, res)
	r.Logger.Debug("composited frame",
		"frame", name,
		"cells", len(res.Cells),
		"seed", seed,
		"duration", time.Since(start))

	return &FrameResult{
		Frame:    res.Frame,
		Halves:   res.Halves,
		Cells:    res.Cells,
		Seed:     seed,
		Duration: time.Since(start),
	}, nil
}

// lookup returns the cached composite for key. Entries that fail to decode
// or do not match the input shape count as misses.
func (r *Runner) lookup(ctx context.Context, key string, f *frame.Frame) (*cachedFrame, bool) {
	data, hit, err := r.Cache.Get(ctx, key)
	if err != nil {
		r.Logger.Warn("cache read failed", "error", err)
	}
	if err != nil || !hit {
		observability.Cache().OnCacheMiss(ctx, cacheKeyType)
		return nil, false
	}
	var cached cachedFrame
	if err := json.Unmarshal(data, &cached); err != nil ||
		cached.Width != f.Width || cached.Height != f.Height ||
		len(cached.Pix) != len(f.Pix) {
		observability.Cache().OnCacheMiss(ctx, cacheKeyType)
		return nil, false
	}
	observability.Cache().OnCacheHit(ctx, cacheKeyType)
	return &cached, true
}

func (r *Runner) store(ctx context.Context, key string, res *artifact.Result) {
	data, err := json.Marshal(cachedFrame{
		Width:  res.Frame.Width,
		Height: res.Frame.Height,
		Pix:    res.Frame.Pix,
		Cells:  res.Cells,
	})
	if err != nil {
		return
	}
	if err := r.Cache.Set(ctx, key, data, cache.TTLFrame); err != nil {
		r.Logger.Warn("cache write failed", "error", err)
		return
	}
	observability.Cache().OnCacheSet(ctx, cacheKeyType, len(data))
}

func frameKeyOpts(f *frame.Frame, seed uint64, opts Options) cache.FrameKeyOpts {
	a := opts.Artifact
	return cache.FrameKeyOpts{
		Width:     f.Width,
		Height:    f.Height,
		Seed:      seed,
		BlockSize: a.BlockSize,
		MaxShift:  a.MaxShift,
		Padding:   a.Padding,
		Blend:     a.Blend,
		Direction: string(a.Direction),
		Split:     string(a.Split),
	}
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

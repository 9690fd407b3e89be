// Package pipeline drives the checkerboard compositor over single frames and
// whole directories of frames.
//
// The same code path backs the CLI (generate, apply) and the HTTP service,
// so defaults, validation, caching and labelling behave identically across
// entry points.
//
// # Architecture
//
// A [Runner] processes one decoded frame: it checks the cache, runs
// [artifact.Apply] with a seeded source, and stores the result. [Batch]
// lists an input directory, checks every frame before touching pixels so
// configuration errors abort the run up front, and then fans frames out to
// a bounded errgroup of workers that decode, composite, encode and label.
//
// # Usage
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	res, err := runner.Batch(ctx, pipeline.BatchOptions{
//	    Options:   pipeline.DefaultOptions(),
//	    InputDir:  "frames",
//	    OutputDir: "tampered",
//	})
//
// # Seeds
//
// Each frame in a batch gets its own seed, [FrameSeed] of the run seed and the
// frame's file name, so results do not depend on worker scheduling and a
// single frame can be reproduced in isolation.
package pipeline

import (
	"runtime"

	"github.com/cespare/xxhash/v2"

	"github.com/brutalbaniya/MacroblockingGenerator/pkg/artifact"
	"github.com/brutalbaniya/MacroblockingGenerator/pkg/io"
)

// =============================================================================
// Default Values - Single Source of Truth for CLI and API
// =============================================================================

const (
	// DefaultSeed is the default random seed for reproducibility.
	DefaultSeed = uint64(42)

	// DefaultExtension is the input filter when none is given.
	DefaultExtension = ".png"
)

// DefaultWorkers returns the default batch parallelism.
func DefaultWorkers() int {
	return runtime.NumCPU()
}

// =============================================================================
// Options - Per-frame Configuration
// =============================================================================

// Options configures how each frame is composited and written.
type Options struct {
	// Artifact holds the compositor parameters.
	Artifact artifact.Options `json:"artifact" toml:"artifact"`

	// Seed is the base seed; batches derive a per-frame seed from it.
	Seed uint64 `json:"seed" toml:"seed"`

	// Format forces the output format; empty keeps the input format.
	Format io.Format `json:"format,omitempty" toml:"format" validate:"omitempty,oneof=png jpeg gif tiff bmp"`

	// Quality is the JPEG quality; zero means io.DefaultJPEGQuality.
	Quality int `json:"quality,omitempty" toml:"quality" validate:"gte=0,lte=100"`

	// Refresh skips the cache lookup but still stores the result.
	Refresh bool `json:"refresh,omitempty" toml:"-"`
}

// DefaultOptions returns the options used when nothing is configured.
func DefaultOptions() Options {
	return Options{
		Artifact: artifact.DefaultOptions(),
		Seed:     DefaultSeed,
	}
}

// SetDefaults fills enumerated artifact fields that are empty.
func (o *Options) SetDefaults() {
	o.Artifact.SetDefaults()
}

// Validate checks every field. Failures are INVALID_CONFIG errors.
func (o Options) Validate() error {
	return artifact.ValidateStruct(o)
}

// WriteOptions returns the encoder settings.
func (o Options) WriteOptions() io.WriteOptions {
	return io.WriteOptions{Quality: o.Quality}
}

// FrameSeed derives the seed for one frame of a batch from the run seed and
// the frame's file name.
func FrameSeed(base uint64, name string) uint64 {
	return xxhash.Sum64String(name) ^ base
}

// Package pkg provides the core libraries for Macroblock, a generator of
// checkerboard tampering artifacts for training video forensics detectors.
//
// # Overview
//
// A frame is split into two halves. Blocks sampled from the interior of one
// half are resized to the cells of a checkerboard laid over the other half,
// displaced by a random offset and alpha-blended into place. The pkg
// directory is organized into four areas:
//
//  1. [frame] and [artifact] - Domain logic (pixel buffers, sampling, displacement, blending)
//  2. [io] and [video] - Image codecs and ffmpeg frame extraction
//  3. [cache], [labels] and [observability] - Infrastructure (result caching, label stores, hooks)
//  4. [pipeline] and [api] - Orchestration (single frames, directory batches, HTTP)
//
// # Architecture
//
// The typical data flow:
//
//	video file ([video].Extract)
//	         ↓
//	    frame directory
//	         ↓
//	    [io] package (decode into a [frame].Frame)
//	         ↓
//	    [artifact] package (plan cells, displace, blend)
//	         ↓
//	    [io] package (encode) + [labels] (JSONL, MongoDB, SVG masks)
//
// # Quick Start
//
// Apply the artifact to a single image:
//
//	import (
//	    "github.com/brutalbaniya/MacroblockingGenerator/pkg/artifact"
//	    "github.com/brutalbaniya/MacroblockingGenerator/pkg/io"
//	)
//
//	f, _ := io.ImportFrame("frame.png")
//	res, _ := artifact.Apply(f, artifact.DefaultOptions(), artifact.NewRand(42))
//	_ = io.ExportFrame(res.Frame, "tampered.png", io.WriteOptions{})
//
// Process a directory with caching and labels:
//
//	runner := pipeline.NewRunner(fileCache, nil, logger)
//	res, err := runner.Batch(ctx, pipeline.BatchOptions{
//	    Options:   pipeline.DefaultOptions(),
//	    InputDir:  "frames",
//	    OutputDir: "tampered",
//	    Labels:    store,
//	})
//
// # Error Handling
//
// Errors carry a code from [errors]; use errors.Is with the code constants
// or [errors].GetCode to branch on them. Configuration errors (INVALID_CONFIG)
// abort a batch, degenerate frames (DEGENERATE_FRAME) are skipped.
package pkg

// Package artifact synthesizes checkerboard copy-move tampering artifacts.
//
// # Overview
//
// A frame is split into two halves. The destination half is walked as a grid
// of BlockSize cells and every cell whose grid parity (gx+gy) is even gets
// replaced: a block is sampled from the interior of the source half (Padding
// pixels away from every edge), resized to the cell, displaced pixel-wise and
// alpha-blended over the original cell. The result is spatially scattered,
// non-contiguous forgery regions whose content is locally jittered, which
// defeats pixel-identical copy-move detection while keeping gross structure.
//
// # Stages
//
//   - [SampleInterior]: random block from the padding-restricted interior
//   - [Normalize]: bilinear resize when a clipped edge cell is smaller than a block
//   - [Displace]: isotropic random jitter (horizontal split)
//   - [DisplaceDirectional]: uniform shift up/down/left/right (vertical split)
//   - [Blend]: out = dst*(1-a) + src*a, rounded half up, saturated to 8 bits
//   - [Apply] / [Composite]: the checkerboard loop
//
// # Determinism
//
// Randomness is always drawn from the *rand.Rand passed in. With a source from
// [NewRand], the output is bit-for-bit reproducible for the same input frame,
// options and seed. Draw order is: per selected cell, sampler anchor x then y,
// then (horizontal split only) dx, dy for every block pixel in row-major order.
//
// # Errors
//
// Invalid options and frames that are too small are reported before any pixel
// is written, as INVALID_CONFIG and DEGENERATE_FRAME errors from
// [github.com/brutalbaniya/MacroblockingGenerator/pkg/errors].
//
// # Concurrency
//
// Functions in this package are pure apart from the random source. A
// *rand.Rand is not safe for concurrent use, so give every goroutine its own.
package artifact

// Package cache stores composited frames so repeated runs over the same input
// with the same options and seed can skip the compositor.
//
// Backends implement [Cache]:
//   - [FileCache]: zstd-compressed entries under a local directory (CLI)
//   - [RedisCache]: a shared Redis instance (HTTP service, multi-host batches)
//   - [NullCache]: never stores anything (--no-cache)
//
// Keys are produced by a [Keyer]. [DefaultKeyer] hashes the canonical JSON
// form (RFC 8785) of everything that influences the output, so two option
// sets that differ only in field order or float formatting share a key.
package cache

import (
	"context"
	"time"
)

// Cache is a byte-oriented key/value store with per-entry expiry.
// Implementations must be safe for concurrent use.
type Cache interface {
	// Get returns the stored value and whether it was found.
	// An expired or corrupt entry is reported as a miss, not an error.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data under key. A ttl <= 0 means no expiry.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases backend resources.
	Close() error
}

// TTLFrame bounds how long a composited frame is kept.
const TTLFrame = 7 * 24 * time.Hour

// Keyer builds cache keys. Scoping (per user, per dataset) is layered on top
// with [NewScopedKeyer].
type Keyer interface {
	// FrameKey identifies a composited frame.
	FrameKey(contentHash string, opts FrameKeyOpts) string
}

// FrameKeyOpts is everything besides the input pixels that determines a
// composited frame.
type FrameKeyOpts struct {
	Width     int     `json:"width"`
	Height    int     `json:"height"`
	Seed      uint64  `json:"seed"`
	BlockSize int     `json:"block_size"`
	MaxShift  int     `json:"max_shift"`
	Padding   int     `json:"padding"`
	Blend     float64 `json:"blend"`
	Direction string  `json:"direction"`
	Split     string  `json:"split"`
	Format    string  `json:"format,omitempty"`
}

// DefaultKeyer generates unscoped keys of the form "frame:<sha256>".
type DefaultKeyer struct{}

// NewDefaultKeyer returns the standard keyer.
func NewDefaultKeyer() Keyer {
	return DefaultKeyer{}
}

// FrameKey hashes the content hash together with the canonical options.
func (DefaultKeyer) FrameKey(contentHash string, opts FrameKeyOpts) string {
	return hashKey("frame", contentHash, opts)
}

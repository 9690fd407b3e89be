package cache

// ScopedKeyer wraps a Keyer with a prefix so several datasets (or tenants of
// the HTTP service) can share one backend without key collisions.
//
//	keyer := NewScopedKeyer(NewDefaultKeyer(), "run:"+runID+":")
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer creates a keyer with a prefix.
// A nil inner keyer means DefaultKeyer.
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return &ScopedKeyer{inner: inner, prefix: prefix}
}

// FrameKey generates a prefixed frame key.
func (k *ScopedKeyer) FrameKey(contentHash string, opts FrameKeyOpts) string {
	return k.prefix + k.inner.FrameKey(contentHash, opts)
}

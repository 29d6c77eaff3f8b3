package cache

// ScopedKeyer wraps a Keyer with a prefix. The HTTP server scopes keys per
// deployment so several instances can share one Redis without colliding.
//
// Example usage:
//
//	keyer := NewScopedKeyer(NewDefaultKeyer(), "carousel:v1:")
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer creates a keyer with a prefix.
// The prefix is prepended to all generated keys.
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return &ScopedKeyer{
		inner:  inner,
		prefix: prefix,
	}
}

// KeylinesKey generates a prefixed keyline list key.
func (k *ScopedKeyer) KeylinesKey(opts KeylinesKeyOpts) string {
	return k.prefix + k.inner.KeylinesKey(opts)
}

// PlacementKey generates a prefixed placement key.
func (k *ScopedKeyer) PlacementKey(layoutHash string, opts PlacementKeyOpts) string {
	return k.prefix + k.inner.PlacementKey(layoutHash, opts)
}

package cache

// ScopedKeyer wraps a Keyer with a prefix so that several deployments or
// layout versions can share one backend without colliding.
//
// Example usage:
//
//	// Keys for the staging server in a shared Redis
//	keyer := NewScopedKeyer(NewDefaultKeyer(), "staging:")
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

// LayoutKey generates a prefixed key for layout caching.
func (k *ScopedKeyer) LayoutKey(textHash, token string, opts LayoutKeyOpts) string {
	return k.prefix + k.inner.LayoutKey(textHash, token, opts)
}

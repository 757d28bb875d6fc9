package cache

// ScopedKeyer wraps a Keyer with a prefix for namespace isolation. The
// HTTP server uses it to keep per-deployment caches from colliding when
// several instances share one Redis.
//
// Example usage:
//
//	keyer := NewScopedKeyer(NewDefaultKeyer(), "studio-a:")
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

// SequenceKey generates a prefixed key for a compiled sequence.
func (k *ScopedKeyer) SequenceKey(pattern string, opts SequenceKeyOpts) string {
	return k.prefix + k.inner.SequenceKey(pattern, opts)
}

// ArtifactKey generates a prefixed key for a rendered artifact.
func (k *ScopedKeyer) ArtifactKey(patternHash string, opts ArtifactKeyOpts) string {
	return k.prefix + k.inner.ArtifactKey(patternHash, opts)
}

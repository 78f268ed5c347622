package cache

// ScopedKeyer wraps a Keyer with a prefix so that entries written under
// different scopes never collide.
//
// Example usage:
//
//	// Entries written by one release are invisible to the next
//	keyer := NewScopedKeyer(NewDefaultKeyer(), "v"+buildinfo.Version+":")
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

// ConversionKey generates a prefixed conversion key.
func (k *ScopedKeyer) ConversionKey(snapshotHash string, opts ConversionKeyOpts) string {
	return k.prefix + k.inner.ConversionKey(snapshotHash, opts)
}

// SnapshotKey generates a prefixed snapshot key.
func (k *ScopedKeyer) SnapshotKey(url string, opts SnapshotKeyOpts) string {
	return k.prefix + k.inner.SnapshotKey(url, opts)
}

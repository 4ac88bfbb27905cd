package cache

// ScopedKeyer wraps a Keyer with a prefix for namespace isolation.
// Serve mode uses this to keep per-tenant artifacts separate while
// sharing one backend.
//
// Example usage:
//
//	// Tenant-specific keys
//	tenantKeyer := NewScopedKeyer(NewDefaultKeyer(), "tenant:abc123:")
//
//	// Global keys
//	globalKeyer := NewDefaultKeyer()
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

// BrickKey generates a prefixed key for a generated brick list.
func (k *ScopedKeyer) BrickKey(inputHash string, opts BrickKeyOpts) string {
	return k.prefix + k.inner.BrickKey(inputHash, opts)
}

// SaveKey generates a prefixed key for an encoded save file.
func (k *ScopedKeyer) SaveKey(inputHash string, opts SaveKeyOpts) string {
	return k.prefix + k.inner.SaveKey(inputHash, opts)
}

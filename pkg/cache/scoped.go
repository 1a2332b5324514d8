package cache

// ScopedKeyer prefixes every key of an inner Keyer. The server uses it to
// keep entries of different datasets or deployments apart in a shared Redis.
//
//	keyer := NewScopedKeyer(NewDefaultKeyer(), "chordwheel:")
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer returns a keyer that prepends prefix to the keys of inner.
// A nil inner uses [DefaultKeyer].
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return &ScopedKeyer{inner: inner, prefix: prefix}
}

// LayoutKey implements [Keyer].
func (k *ScopedKeyer) LayoutKey(datasetHash string, opts LayoutKeyOpts) string {
	return k.prefix + k.inner.LayoutKey(datasetHash, opts)
}

// ArtifactKey implements [Keyer].
func (k *ScopedKeyer) ArtifactKey(datasetHash string, opts ArtifactKeyOpts) string {
	return k.prefix + k.inner.ArtifactKey(datasetHash, opts)
}

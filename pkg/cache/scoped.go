package cache

// ScopedKeyer wraps a Keyer with a prefix for namespace isolation, such as
// several servers sharing one Redis instance.
//
//	keyer := NewScopedKeyer(NewDefaultKeyer(), "vrplot:staging:")
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

// ArtifactKey generates a prefixed key for artifact caching.
func (k *ScopedKeyer) ArtifactKey(sceneHash string, opts ArtifactKeyOpts) string {
	return k.prefix + k.inner.ArtifactKey(sceneHash, opts)
}

// SceneKey generates a prefixed key for registered scenes.
func (k *ScopedKeyer) SceneKey(id, format string) string {
	return k.prefix + k.inner.SceneKey(id, format)
}

// DatasetKey generates a prefixed key for fetched datasets.
func (k *ScopedKeyer) DatasetKey(url string) string {
	return k.prefix + k.inner.DatasetKey(url)
}

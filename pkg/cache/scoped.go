package cache

// ScopedKeyer prefixes every key of an inner Keyer. The server scopes its
// keys so that a Redis instance can be shared with other applications:
//
//	keyer := NewScopedKeyer(nil, "stitchgrid:")
type ScopedKeyer struct {
	Keyer
	prefix string
}

// NewScopedKeyer prefixes the keys of inner, or of the default keyer when
// inner is nil.
func NewScopedKeyer(inner Keyer, prefix string) *ScopedKeyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return &ScopedKeyer{Keyer: inner, prefix: prefix}
}

func (k *ScopedKeyer) LayoutKey(opts LayoutKeyOpts) string {
	return k.prefix + k.Keyer.LayoutKey(opts)
}

func (k *ScopedKeyer) ArtifactKey(layoutHash string, opts ArtifactKeyOpts) string {
	return k.prefix + k.Keyer.ArtifactKey(layoutHash, opts)
}

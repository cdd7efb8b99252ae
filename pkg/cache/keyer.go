package cache

// LayoutKeyOpts holds every option that changes a generated layout.
type LayoutKeyOpts struct {
	X, Y, Width, Height int
	MinRoomSize         int
	DoorWidth           int
	Clearance           int
	Relax               bool
	Seed                uint64
	PercentToRemove     int
	Strategy            string
	KeepLoops           int
}

// ArtifactKeyOpts holds every option that changes a rendered artifact.
type ArtifactKeyOpts struct {
	Format   string
	Detailed bool
	Spatial  bool
}

// Keyer builds cache keys.
type Keyer interface {
	LayoutKey(opts LayoutKeyOpts) string
	ArtifactKey(layoutHash string, opts ArtifactKeyOpts) string
}

// DefaultKeyer hashes options into namespaced keys.
type DefaultKeyer struct{}

// NewDefaultKeyer returns the default keyer.
func NewDefaultKeyer() Keyer { return DefaultKeyer{} }

// LayoutKey returns "layout:<sha256 of opts>".
func (DefaultKeyer) LayoutKey(opts LayoutKeyOpts) string {
	return digestKey("layout", opts)
}

// ArtifactKey returns "artifact:<sha256 of layout hash and opts>".
func (DefaultKeyer) ArtifactKey(layoutHash string, opts ArtifactKeyOpts) string {
	return digestKey("artifact", layoutHash, opts)
}

// ScopedKeyer prefixes every key of an inner Keyer so several deployments
// can share one Redis or MongoDB backend.
type ScopedKeyer struct {
	Inner  Keyer
	Prefix string
}

// NewScopedKeyer returns a keyer prefixing the keys of inner. A nil inner
// uses DefaultKeyer.
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = DefaultKeyer{}
	}
	return ScopedKeyer{Inner: inner, Prefix: prefix}
}

func (k ScopedKeyer) LayoutKey(opts LayoutKeyOpts) string {
	return k.Prefix + k.Inner.LayoutKey(opts)
}

func (k ScopedKeyer) ArtifactKey(layoutHash string, opts ArtifactKeyOpts) string {
	return k.Prefix + k.Inner.ArtifactKey(layoutHash, opts)
}

package cache

// ArtifactKeyOpts identifies one rendering of some content.
type ArtifactKeyOpts struct {
	Kind   string // "hierarchy" or "swatch"
	Format string // "dot", "svg", "png", "json", "webp"
	Size   int    `json:",omitempty"`
}

// Keyer derives cache keys.
type Keyer interface {
	// ArtifactKey keys a rendering of content whose hash is contentHash.
	ArtifactKey(contentHash string, opts ArtifactKeyOpts) string
}

// DefaultKeyer hashes key components into fixed-length keys.
type DefaultKeyer struct{}

// NewDefaultKeyer returns the default keyer.
func NewDefaultKeyer() Keyer {
	return DefaultKeyer{}
}

// ArtifactKey implements Keyer.
func (DefaultKeyer) ArtifactKey(contentHash string, opts ArtifactKeyOpts) string {
	return hashKey("artifact", contentHash, opts)
}

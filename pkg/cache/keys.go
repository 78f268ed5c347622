package cache

// Keyer builds cache keys.
type Keyer interface {
	// ConversionKey addresses the rendered artifacts of one snapshot.
	ConversionKey(snapshotHash string, opts ConversionKeyOpts) string
	// SnapshotKey addresses a captured snapshot of a live page.
	SnapshotKey(url string, opts SnapshotKeyOpts) string
}

// ConversionKeyOpts are the inputs besides the snapshot that change the
// conversion output.
type ConversionKeyOpts struct {
	Settings map[string]any `json:"settings"`
	Formats  []string       `json:"formats"`
}

// SnapshotKeyOpts are the capture parameters that change a snapshot.
type SnapshotKeyOpts struct {
	ViewportWidth  float64 `json:"viewport_width"`
	ViewportHeight float64 `json:"viewport_height"`
	WaitSelector   string  `json:"wait_selector,omitempty"`
}

// DefaultKeyer hashes key inputs with SHA-256.
type DefaultKeyer struct{}

// NewDefaultKeyer returns the default keyer.
func NewDefaultKeyer() Keyer { return DefaultKeyer{} }

// ConversionKey implements [Keyer].
func (DefaultKeyer) ConversionKey(snapshotHash string, opts ConversionKeyOpts) string {
	return hashKey("conversion", snapshotHash, opts)
}

// SnapshotKey implements [Keyer].
func (DefaultKeyer) SnapshotKey(url string, opts SnapshotKeyOpts) string {
	return hashKey("snapshot", url, opts)
}

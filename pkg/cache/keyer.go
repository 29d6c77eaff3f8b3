package cache

import "github.com/matzehuels/carousel/pkg/keyline"

// Keyer builds cache keys. Swapping the Keyer (see [ScopedKeyer]) isolates
// namespaces without touching call sites.
type Keyer interface {
	// KeylinesKey identifies a resolved keyline list.
	KeylinesKey(opts KeylinesKeyOpts) string
	// PlacementKey identifies item placements for a resolved layout.
	PlacementKey(layoutHash string, opts PlacementKeyOpts) string
}

// KeylinesKeyOpts holds every input that changes a keyline list.
type KeylinesKeyOpts struct {
	Strategy     string            `json:"strategy"`
	MainAxisSize float64           `json:"main_axis_size"`
	ItemSpacing  float64           `json:"item_spacing"`
	Alignment    keyline.Alignment `json:"alignment"`
	Items        []keyline.Item    `json:"items,omitempty"`
	PivotIndex   *int              `json:"pivot_index,omitempty"`
	PivotOffset  float64           `json:"pivot_offset,omitempty"`
	ItemSize     float64           `json:"item_size,omitempty"`
	ItemCount    int               `json:"item_count,omitempty"`
	MinSmall     float64           `json:"min_small,omitempty"`
	MaxSmall     float64           `json:"max_small,omitempty"`
}

// PlacementKeyOpts holds the inputs that change a placement pass.
type PlacementKeyOpts struct {
	ItemCount int     `json:"item_count"`
	Scroll    float64 `json:"scroll"`
}

// DefaultKeyer hashes key options into fixed-length keys.
type DefaultKeyer struct{}

// NewDefaultKeyer returns the standard keyer.
func NewDefaultKeyer() Keyer { return DefaultKeyer{} }

// KeylinesKey returns "keylines:<sha256 of opts>".
func (DefaultKeyer) KeylinesKey(opts KeylinesKeyOpts) string {
	return hashKey("keylines", opts)
}

// PlacementKey returns "place:<sha256 of hash and opts>".
func (DefaultKeyer) PlacementKey(layoutHash string, opts PlacementKeyOpts) string {
	return hashKey("place", layoutHash, opts)
}

// Ensure DefaultKeyer implements Keyer.
var _ Keyer = DefaultKeyer{}

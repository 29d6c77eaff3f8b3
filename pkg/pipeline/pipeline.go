// Package pipeline provides the layout pipeline shared by the CLI and the
// HTTP API.
//
// The pipeline has two stages:
//
//  1. Keylines: build a strategy from the request and resolve its keyline list
//  2. Place: position every item at a scroll offset
//
// Each stage is cached independently, so a client scrubbing through scroll
// offsets only re-runs placement.
//
// # Usage
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	opts := pipeline.Options{
//	    Strategy:     "explicit",
//	    MainAxisSize: 360,
//	    Items:        []pipeline.Item{{Size: 100}, {Size: 40}},
//	}
//	result, err := runner.Execute(ctx, opts)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(result.Layout.Keylines)
package pipeline

import (
	"io"
	"math"
	"slices"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/carousel/pkg/cache"
	"github.com/matzehuels/carousel/pkg/carousel"
	"github.com/matzehuels/carousel/pkg/config"
	"github.com/matzehuels/carousel/pkg/errors"
	"github.com/matzehuels/carousel/pkg/keyline"
	"github.com/matzehuels/carousel/pkg/layout"
)

// =============================================================================
// Options
// =============================================================================

// Options is a layout request. Zero values are filled from the layout
// defaults by ValidateAndSetDefaults.
type Options struct {
	// Strategy selection
	Strategy     string   `json:"strategy,omitempty" bson:"strategy,omitempty"`
	MainAxisSize float64  `json:"main_axis_size,omitempty" bson:"main_axis_size,omitempty"`
	ItemSpacing  *float64 `json:"item_spacing,omitempty" bson:"item_spacing,omitempty"`
	Alignment    string   `json:"alignment,omitempty" bson:"alignment,omitempty"`

	// Explicit strategy
	Items []Item          `json:"items,omitempty" bson:"items,omitempty"`
	Pivot *carousel.Pivot `json:"pivot,omitempty" bson:"pivot,omitempty"`

	// Generated strategies
	ItemSize          float64 `json:"item_size,omitempty" bson:"item_size,omitempty"`
	PreferredItemSize float64 `json:"preferred_item_size,omitempty" bson:"preferred_item_size,omitempty"`
	ItemCount         int     `json:"item_count,omitempty" bson:"item_count,omitempty"`
	MinSmall          float64 `json:"min_small,omitempty" bson:"min_small,omitempty"`
	MaxSmall          float64 `json:"max_small,omitempty" bson:"max_small,omitempty"`

	// Placement
	Scroll float64 `json:"scroll,omitempty" bson:"scroll,omitempty"`

	// Refresh skips cache reads (results are still written).
	Refresh bool `json:"refresh,omitempty" bson:"-"`

	// Runtime options (not serialized)
	Logger *log.Logger `json:"-" bson:"-"`

	// maxItemCount is the item limit taken from the layout defaults.
	maxItemCount int

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool
}

// Item is one explicit keyline item.
type Item struct {
	Size   float64 `json:"size" bson:"size"`
	Anchor bool    `json:"anchor,omitempty" bson:"anchor,omitempty"`
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// Layout holds the keylines and the placements at the requested scroll.
	Layout layout.Layout

	// LayoutHash is the content hash of the keyline layout (before placements).
	LayoutHash string

	// Stats contains timing and size information.
	Stats Stats

	// CacheInfo tracks which stages hit the cache.
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	KeylineCount int
	ItemCount    int
	VisibleCount int
	LayoutTime   time.Duration
	PlaceTime    time.Duration
}

// CacheInfo tracks cache hits for each pipeline stage.
type CacheInfo struct {
	KeylinesHit bool
	PlaceHit    bool
}

// =============================================================================
// Options Methods
// =============================================================================

// ValidateAndSetDefaults applies the built-in layout defaults and validates.
// This method is idempotent - calling it multiple times has the same effect as calling it once.
func (o *Options) ValidateAndSetDefaults() error {
	return o.ValidateWithDefaults(config.Default().Layout)
}

// ValidateWithDefaults applies d to unset fields and validates the result.
func (o *Options) ValidateWithDefaults(d config.LayoutConfig) error {
	if o.validated {
		return nil
	}
	o.SetDefaults(d)
	if err := o.Validate(); err != nil {
		return err
	}
	o.validated = true
	return nil
}

// SetDefaults fills unset fields from d.
func (o *Options) SetDefaults(d config.LayoutConfig) {
	if o.Strategy == "" {
		if len(o.Items) > 0 {
			o.Strategy = string(carousel.KindExplicit)
		} else {
			o.Strategy = d.Strategy
		}
	}
	if k, err := carousel.ParseKind(o.Strategy); err == nil {
		o.Strategy = string(k)
	}
	if o.MainAxisSize == 0 {
		o.MainAxisSize = d.MainAxisSize
	}
	if o.ItemSpacing == nil {
		spacing := d.ItemSpacing
		o.ItemSpacing = &spacing
	}
	if o.Alignment == "" {
		o.Alignment = d.Alignment.String()
	}
	if o.PreferredItemSize == 0 {
		o.PreferredItemSize = d.PreferredItemSize
	}
	if o.ItemSize == 0 {
		o.ItemSize = o.PreferredItemSize
	}
	if o.ItemCount == 0 {
		if o.Strategy == string(carousel.KindExplicit) {
			for _, it := range o.Items {
				if !it.Anchor {
					o.ItemCount++
				}
			}
		} else {
			o.ItemCount = d.ItemCount
		}
	}
	if d.MaxItemCount > 0 {
		o.maxItemCount = d.MaxItemCount
	}
	if o.MinSmall == 0 {
		o.MinSmall = d.MinSmall
	}
	if o.MaxSmall == 0 {
		o.MaxSmall = d.MaxSmall
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// Validate checks request-level consistency. Geometry preconditions
// (sizes, spacing, pivot range) are checked by the keyline builder.
func (o *Options) Validate() error {
	kind, err := carousel.ParseKind(o.Strategy)
	if err != nil {
		return err
	}
	o.Strategy = string(kind)
	if _, err := keyline.ParseAlignment(o.Alignment); err != nil {
		return err
	}

	if kind == carousel.KindExplicit {
		if len(o.Items) == 0 {
			return errors.New(errors.ErrCodeEmptyLayout, "explicit strategy requires items")
		}
	} else {
		if len(o.Items) > 0 {
			return errors.New(errors.ErrCodeInvalidInput, "items only apply to the explicit strategy, got %s", kind)
		}
		if o.Pivot != nil {
			return errors.New(errors.ErrCodeInvalidInput, "pivot only applies to the explicit strategy, got %s", kind)
		}
	}
	if o.ItemCount < 0 {
		return errors.New(errors.ErrCodeInvalidInput, "item_count must be non-negative, got %d", o.ItemCount)
	}
	limit := o.MaxItemCount()
	if o.ItemCount > limit {
		return errors.New(errors.ErrCodeInvalidInput, "item_count %d exceeds the limit of %d", o.ItemCount, limit)
	}
	if len(o.Items) > limit {
		return errors.New(errors.ErrCodeInvalidInput, "%d items exceed the limit of %d", len(o.Items), limit)
	}
	if math.IsNaN(o.Scroll) || math.IsInf(o.Scroll, 0) {
		return errors.New(errors.ErrCodeInvalidInput, "scroll must be finite")
	}
	return nil
}

// Clone returns a deep copy of o that has not been validated, so defaults
// are applied again when it runs.
func (o Options) Clone() Options {
	out := o
	if o.ItemSpacing != nil {
		v := *o.ItemSpacing
		out.ItemSpacing = &v
	}
	if o.Pivot != nil {
		v := *o.Pivot
		out.Pivot = &v
	}
	out.Items = slices.Clone(o.Items)
	out.validated = false
	return out
}

// MaxItemCount returns the item limit applied by Validate.
func (o *Options) MaxItemCount() int {
	if o.maxItemCount > 0 {
		return o.maxItemCount
	}
	return config.DefaultMaxItemCount
}

// AlignmentValue returns the parsed alignment. Call after validation.
func (o *Options) AlignmentValue() keyline.Alignment {
	a, _ := keyline.ParseAlignment(o.Alignment)
	return a
}

// Spacing returns the item spacing, or 0 when unset.
func (o *Options) Spacing() float64 {
	if o.ItemSpacing == nil {
		return 0
	}
	return *o.ItemSpacing
}

// KeylinesKeyOpts returns the cache key inputs for the keylines stage.
func (o *Options) KeylinesKeyOpts() cache.KeylinesKeyOpts {
	k := cache.KeylinesKeyOpts{
		Strategy:     o.Strategy,
		MainAxisSize: o.MainAxisSize,
		ItemSpacing:  o.Spacing(),
		Alignment:    o.AlignmentValue(),
		ItemCount:    o.ItemCount,
	}
	switch carousel.Kind(o.Strategy) {
	case carousel.KindExplicit:
		k.Items = o.keylineItems()
		if o.Pivot != nil {
			idx := o.Pivot.Index
			k.PivotIndex = &idx
			k.PivotOffset = o.Pivot.Offset
		}
	case carousel.KindUncontained:
		k.ItemSize = o.ItemSize
	default:
		k.ItemSize = o.PreferredItemSize
		k.MinSmall = o.MinSmall
		k.MaxSmall = o.MaxSmall
	}
	return k
}

func (o *Options) keylineItems() []keyline.Item {
	items := make([]keyline.Item, len(o.Items))
	for i, it := range o.Items {
		items[i] = keyline.Item{Size: it.Size, IsAnchor: it.Anchor}
	}
	return items
}

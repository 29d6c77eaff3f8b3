package layout

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/matzehuels/carousel/pkg/errors"
	"github.com/matzehuels/carousel/pkg/keyline"
)

// =============================================================================
// Layout - Serialized Carousel Geometry
// =============================================================================

// Layout is the serialization format for a resolved carousel.
//
// The keylines are always present. Placements are only populated when the
// layout was produced for a specific scroll offset (see [WithPlacements]):
//
//	keylines:   the default slot geometry, one entry per keyline
//	placements: per-item geometry at Scroll, one entry per item
//
// Use [FromList] / [Layout.ToList] to convert between the computation type
// (keyline.List) and this format.
type Layout struct {
	MainAxisSize float64 `json:"main_axis_size" bson:"main_axis_size"`
	ItemSpacing  float64 `json:"item_spacing" bson:"item_spacing"`
	Alignment    string  `json:"alignment,omitempty" bson:"alignment,omitempty"`
	Strategy     string  `json:"strategy,omitempty" bson:"strategy,omitempty"`
	ItemCount    int     `json:"item_count,omitempty" bson:"item_count,omitempty"`

	Keylines []Keyline `json:"keylines" bson:"keylines"`

	// Scroll-dependent
	Scroll     *float64    `json:"scroll,omitempty" bson:"scroll,omitempty"`
	Placements []Placement `json:"placements,omitempty" bson:"placements,omitempty"`
}

// Keyline is the serialized form of keyline.Keyline.
type Keyline struct {
	Size             float64 `json:"size" bson:"size"`
	Offset           float64 `json:"offset" bson:"offset"`
	UnadjustedOffset float64 `json:"unadjusted_offset" bson:"unadjusted_offset"`
	Cutoff           float64 `json:"cutoff,omitempty" bson:"cutoff,omitempty"`
	Focal            bool    `json:"focal,omitempty" bson:"focal,omitempty"`
	Anchor           bool    `json:"anchor,omitempty" bson:"anchor,omitempty"`
	Pivot            bool    `json:"pivot,omitempty" bson:"pivot,omitempty"`
}

// Placement is one item's geometry at a scroll offset.
type Placement struct {
	Index   int     `json:"index" bson:"index"`
	Offset  float64 `json:"offset" bson:"offset"`
	Size    float64 `json:"size" bson:"size"`
	Cutoff  float64 `json:"cutoff,omitempty" bson:"cutoff,omitempty"`
	Visible bool    `json:"visible" bson:"visible"`
}

// FocalRange returns the first and last focal keyline indices, or -1, -1.
func (l *Layout) FocalRange() (first, last int) {
	first, last = -1, -1
	for i, k := range l.Keylines {
		if !k.Focal {
			continue
		}
		if first < 0 {
			first = i
		}
		last = i
	}
	return first, last
}

// =============================================================================
// Conversion
// =============================================================================

// FromList converts a keyline list to the serialization format.
func FromList(l keyline.List, mainAxisSize, itemSpacing float64) Layout {
	out := Layout{
		MainAxisSize: mainAxisSize,
		ItemSpacing:  itemSpacing,
		Keylines:     make([]Keyline, 0, l.Len()),
	}
	for _, k := range l.All() {
		out.Keylines = append(out.Keylines, Keyline{
			Size:             k.Size,
			Offset:           k.Offset,
			UnadjustedOffset: k.UnadjustedOffset,
			Cutoff:           k.Cutoff,
			Focal:            k.IsFocal,
			Anchor:           k.IsAnchor,
			Pivot:            k.IsPivot,
		})
	}
	return out
}

// ToList converts the serialized keylines back to a validated keyline list.
func (l *Layout) ToList() (keyline.List, error) {
	ks := make([]keyline.Keyline, len(l.Keylines))
	for i, k := range l.Keylines {
		ks[i] = keyline.Keyline{
			Size:             k.Size,
			Offset:           k.Offset,
			UnadjustedOffset: k.UnadjustedOffset,
			Cutoff:           k.Cutoff,
			IsFocal:          k.Focal,
			IsAnchor:         k.Anchor,
			IsPivot:          k.Pivot,
		}
	}
	return keyline.NewList(ks)
}

// =============================================================================
// Serialization API
// =============================================================================

// Marshal serializes a Layout to pretty-printed JSON bytes.
func Marshal(l Layout) ([]byte, error) {
	return json.MarshalIndent(l, "", "  ")
}

// Unmarshal deserializes JSON bytes into a Layout and checks that it
// describes a usable keyline list.
func Unmarshal(data []byte) (Layout, error) {
	var l Layout
	if err := json.Unmarshal(data, &l); err != nil {
		return Layout{}, errors.Wrap(errors.ErrCodeInvalidFormat, err, "unmarshal layout")
	}
	if err := l.Validate(); err != nil {
		return Layout{}, err
	}
	return l, nil
}

// Validate checks the viewport and keyline invariants of a decoded layout.
func (l *Layout) Validate() error {
	if err := errors.ValidateMainAxisSize(l.MainAxisSize); err != nil {
		return err
	}
	if err := errors.ValidateItemSpacing(l.ItemSpacing); err != nil {
		return err
	}
	if len(l.Keylines) == 0 {
		return errors.New(errors.ErrCodeEmptyLayout, "layout must contain keylines")
	}
	if l.Alignment != "" {
		if _, err := keyline.ParseAlignment(l.Alignment); err != nil {
			return err
		}
	}
	if _, err := l.ToList(); err != nil {
		return err
	}
	return nil
}

// WriteLayoutFile writes a Layout to a JSON file.
func WriteLayoutFile(l Layout, path string) error {
	data, err := Marshal(l)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// ReadLayoutFile reads a Layout from a JSON file.
func ReadLayoutFile(path string) (Layout, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Layout{}, fmt.Errorf("read %s: %w", path, err)
	}
	return Unmarshal(data)
}

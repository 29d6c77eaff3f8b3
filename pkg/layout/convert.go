package layout

import (
	"github.com/matzehuels/carousel/pkg/carousel"
	"github.com/matzehuels/carousel/pkg/keyline"
)

// Export converts a carousel to the serialization format.
//
// Use this when you need to serialize the carousel for:
//   - JSON file output (via WriteLayoutFile)
//   - API responses
//   - Caching and preset storage
//
// alignment is recorded for display only; the keylines already reflect it.
func Export(c *carousel.Carousel, alignment keyline.Alignment) Layout {
	s := c.Strategy()
	out := FromList(s.Keylines(), s.MainAxisSize(), s.ItemSpacing())
	out.Strategy = string(s.Kind())
	out.ItemCount = c.ItemCount()
	if alignment.Valid() {
		out.Alignment = alignment.String()
	}
	return out
}

// WithPlacements returns a copy of l with the carousel's placements at
// scroll. The recorded scroll is the clamped value actually used.
func WithPlacements(l Layout, c *carousel.Carousel, scroll float64) Layout {
	scroll = c.ClampScroll(scroll)
	ps := c.Place(scroll)

	l.Scroll = &scroll
	l.Placements = make([]Placement, len(ps))
	for i, p := range ps {
		l.Placements[i] = Placement{
			Index:   p.Index,
			Offset:  p.Offset,
			Size:    p.Size,
			Cutoff:  p.Cutoff,
			Visible: p.Visible,
		}
	}
	return l
}

// Parse rebuilds a carousel from a serialized layout. The strategy kind
// defaults to explicit when the layout does not record one.
func Parse(l Layout) (*carousel.Carousel, error) {
	if err := l.Validate(); err != nil {
		return nil, err
	}
	list, err := l.ToList()
	if err != nil {
		return nil, err
	}

	kind := carousel.KindExplicit
	if l.Strategy != "" {
		if kind, err = carousel.ParseKind(l.Strategy); err != nil {
			return nil, err
		}
	}
	s, err := carousel.NewStrategy(kind, list, l.MainAxisSize, l.ItemSpacing)
	if err != nil {
		return nil, err
	}

	n := l.ItemCount
	if n == 0 {
		n = list.Len() - anchors(list)
	}
	return carousel.New(s, n)
}

func anchors(l keyline.List) int {
	n := 0
	for _, k := range l.All() {
		if k.IsAnchor {
			n++
		}
	}
	return n
}

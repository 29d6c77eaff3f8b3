package pipeline

import (
	"github.com/matzehuels/carousel/pkg/carousel"
	"github.com/matzehuels/carousel/pkg/layout"
)

// =============================================================================
// Layout Generation
// =============================================================================

// BuildStrategy resolves the strategy named by opts. opts must be validated.
func BuildStrategy(opts Options) (carousel.Strategy, error) {
	bounds := carousel.MultiBrowseOptions{MinSmall: opts.MinSmall, MaxSmall: opts.MaxSmall}

	switch carousel.Kind(opts.Strategy) {
	case carousel.KindUncontained:
		return carousel.Uncontained(opts.MainAxisSize, opts.ItemSize, opts.Spacing())
	case carousel.KindMultiBrowse:
		return carousel.MultiBrowse(opts.MainAxisSize, opts.PreferredItemSize, opts.Spacing(), opts.ItemCount, bounds)
	case carousel.KindHero:
		return carousel.Hero(opts.MainAxisSize, opts.PreferredItemSize, opts.Spacing(), opts.ItemCount, opts.AlignmentValue(), bounds)
	default:
		return carousel.Explicit(opts.MainAxisSize, opts.Spacing(), opts.keylineItems(), opts.AlignmentValue(), opts.Pivot)
	}
}

// BuildCarousel resolves opts into a carousel.
func BuildCarousel(opts Options) (*carousel.Carousel, error) {
	s, err := BuildStrategy(opts)
	if err != nil {
		return nil, err
	}
	return carousel.New(s, opts.ItemCount)
}

// GenerateLayout resolves opts and exports the keylines.
func GenerateLayout(opts Options) (layout.Layout, error) {
	c, err := BuildCarousel(opts)
	if err != nil {
		return layout.Layout{}, err
	}
	if opts.Logger != nil {
		s := c.Strategy()
		opts.Logger.Debug("built strategy",
			"kind", s.Kind(),
			"focal_size", s.FocalSize(),
			"keylines", s.Keylines().Len(),
			"max_scroll", c.MaxScroll())
	}
	return layout.Export(c, opts.AlignmentValue()), nil
}

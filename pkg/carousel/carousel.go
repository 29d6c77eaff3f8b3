package carousel

import (
	"math"

	"github.com/matzehuels/carousel/pkg/errors"
	"github.com/matzehuels/carousel/pkg/keyline"
)

// Carousel is a strategy applied to a fixed number of items.
type Carousel struct {
	strategy  Strategy
	itemCount int
}

// New returns a carousel of itemCount items laid out by s.
func New(s Strategy, itemCount int) (*Carousel, error) {
	if itemCount < 0 {
		return nil, errors.New(errors.ErrCodeInvalidInput, "item count must be non-negative, got %d", itemCount)
	}
	if s.Keylines().IsEmpty() {
		return nil, errors.New(errors.ErrCodeEmptyLayout, "carousel requires a resolved strategy")
	}
	return &Carousel{strategy: s, itemCount: itemCount}, nil
}

// Strategy returns the carousel's strategy.
func (c *Carousel) Strategy() Strategy { return c.strategy }

// ItemCount returns the number of items.
func (c *Carousel) ItemCount() int { return c.itemCount }

// ItemStep is the scroll distance between two adjacent snap positions.
func (c *Carousel) ItemStep() float64 {
	return c.strategy.FocalSize() + c.strategy.ItemSpacing()
}

// MaxScroll returns the largest valid scroll offset.
func (c *Carousel) MaxScroll() float64 {
	if c.itemCount <= 1 {
		return 0
	}
	return float64(c.itemCount-1) * c.ItemStep()
}

// ClampScroll limits scroll to [0, MaxScroll].
func (c *Carousel) ClampScroll(scroll float64) float64 {
	return math.Max(0, math.Min(c.MaxScroll(), scroll))
}

// SnapOffset returns the scroll offset that brings item index to the pivot
// position. Out-of-range indices are clamped.
func (c *Carousel) SnapOffset(index int) float64 {
	if c.itemCount == 0 {
		return 0
	}
	index = max(0, min(c.itemCount-1, index))
	return float64(index) * c.ItemStep()
}

// SnapOffsets returns the snap offset of every item.
func (c *Carousel) SnapOffsets() []float64 {
	out := make([]float64, c.itemCount)
	for i := range out {
		out[i] = c.SnapOffset(i)
	}
	return out
}

// Nearest returns the index of the item whose snap offset is closest to
// scroll. It returns -1 for an empty carousel.
func (c *Carousel) Nearest(scroll float64) int {
	if c.itemCount == 0 {
		return -1
	}
	step := c.ItemStep()
	if step <= 0 {
		return 0
	}
	i := int(math.Round(c.ClampScroll(scroll) / step))
	return max(0, min(c.itemCount-1, i))
}

// Placement is where one item is drawn at a given scroll offset.
type Placement struct {
	Index   int     `json:"index" bson:"index"`
	Offset  float64 `json:"offset" bson:"offset"`
	Size    float64 `json:"size" bson:"size"`
	Cutoff  float64 `json:"cutoff" bson:"cutoff"`
	Visible bool    `json:"visible" bson:"visible"`
}

// Left returns the placement's start edge.
func (p Placement) Left() float64 { return p.Offset - p.Size/2 }

// Right returns the placement's end edge.
func (p Placement) Right() float64 { return p.Offset + p.Size/2 }

// Place returns a placement for every item at the given scroll offset. The
// scroll offset is clamped to [0, MaxScroll].
func (c *Carousel) Place(scroll float64) []Placement {
	scroll = c.ClampScroll(scroll)
	l := c.strategy.Keylines()
	pivot, _ := l.Pivot()
	step := c.ItemStep()
	mainAxis := c.strategy.MainAxisSize()

	out := make([]Placement, c.itemCount)
	for i := range out {
		u := pivot.UnadjustedOffset + float64(i)*step - scroll
		p := interpolate(l, u)
		p.Index = i
		p.Visible = p.Size > 0 && p.Right() > 0 && p.Left() < mainAxis
		out[i] = p
	}
	return out
}

// Visible returns only the placements that intersect the viewport.
func (c *Carousel) Visible(scroll float64) []Placement {
	var out []Placement
	for _, p := range c.Place(scroll) {
		if p.Visible {
			out = append(out, p)
		}
	}
	return out
}

// interpolate maps an unadjusted track position to a placement by linear
// interpolation between the two keylines that bracket it. Positions beyond
// the ends follow the end keyline shifted by the overflow.
func interpolate(l keyline.List, u float64) Placement {
	n := l.Len()
	first, last := l.At(0), l.At(n-1)

	switch {
	case n == 1 || u <= first.UnadjustedOffset:
		return shifted(first, u-first.UnadjustedOffset)
	case u >= last.UnadjustedOffset:
		return shifted(last, u-last.UnadjustedOffset)
	}

	for i := 1; i < n; i++ {
		hi := l.At(i)
		if u > hi.UnadjustedOffset {
			continue
		}
		lo := l.At(i - 1)
		span := hi.UnadjustedOffset - lo.UnadjustedOffset
		if span <= 0 {
			return shifted(hi, 0)
		}
		t := (u - lo.UnadjustedOffset) / span
		return Placement{
			Offset: lerp(lo.Offset, hi.Offset, t),
			Size:   lerp(lo.Size, hi.Size, t),
			Cutoff: lerp(lo.Cutoff, hi.Cutoff, t),
		}
	}
	return shifted(last, u-last.UnadjustedOffset)
}

func shifted(k keyline.Keyline, delta float64) Placement {
	return Placement{Offset: k.Offset + delta, Size: k.Size, Cutoff: k.Cutoff}
}

func lerp(a, b, t float64) float64 { return a + (b-a)*t }

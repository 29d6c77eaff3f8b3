package carousel

import (
	"math"
	"strings"

	"github.com/matzehuels/carousel/pkg/errors"
	"github.com/matzehuels/carousel/pkg/keyline"
)

// Kind names a strategy for configuration and wire formats.
type Kind string

const (
	KindExplicit    Kind = "explicit"
	KindUncontained Kind = "uncontained"
	KindMultiBrowse Kind = "multi-browse"
	KindHero        Kind = "hero"
)

// ValidKinds is the set of supported strategy kinds.
var ValidKinds = map[Kind]bool{
	KindExplicit:    true,
	KindUncontained: true,
	KindMultiBrowse: true,
	KindHero:        true,
}

// ParseKind parses a strategy kind name.
func ParseKind(s string) (Kind, error) {
	k := Kind(strings.ToLower(strings.TrimSpace(s)))
	if k == "multibrowse" {
		k = KindMultiBrowse
	}
	if !ValidKinds[k] {
		return "", errors.New(errors.ErrCodeInvalidStrategy, "unknown strategy %q (want explicit, uncontained, multi-browse or hero)", s)
	}
	return k, nil
}

// Default small-item bounds, in user units.
const (
	DefaultMinSmall = 40.0
	DefaultMaxSmall = 56.0
)

// MaxSlots bounds how many keylines a generated strategy may emit.
const MaxSlots = 10000

// Strategy is a resolved keyline list together with the viewport it was
// built for.
type Strategy struct {
	kind         Kind
	keylines     keyline.List
	mainAxisSize float64
	itemSpacing  float64
}

// NewStrategy wraps an existing keyline list. The list must be non-empty
// and have a focal keyline.
func NewStrategy(kind Kind, l keyline.List, mainAxisSize, itemSpacing float64) (Strategy, error) {
	if err := errors.ValidateMainAxisSize(mainAxisSize); err != nil {
		return Strategy{}, err
	}
	if err := errors.ValidateItemSpacing(itemSpacing); err != nil {
		return Strategy{}, err
	}
	if l.IsEmpty() {
		return Strategy{}, errors.New(errors.ErrCodeEmptyLayout, "strategy requires at least one keyline")
	}
	if l.FirstFocalIndex() < 0 {
		return Strategy{}, errors.New(errors.ErrCodeInvalidInput, "strategy requires a focal keyline")
	}
	return Strategy{kind: kind, keylines: l, mainAxisSize: mainAxisSize, itemSpacing: itemSpacing}, nil
}

// Kind returns the strategy kind.
func (s Strategy) Kind() Kind { return s.kind }

// Keylines returns the default keyline list.
func (s Strategy) Keylines() keyline.List { return s.keylines }

// MainAxisSize returns the viewport length the strategy was built for.
func (s Strategy) MainAxisSize() float64 { return s.mainAxisSize }

// ItemSpacing returns the gap between adjacent items.
func (s Strategy) ItemSpacing() float64 { return s.itemSpacing }

// FocalSize returns the size of the focal items.
func (s Strategy) FocalSize() float64 {
	k, _ := s.keylines.FirstFocal()
	return k.Size
}

// Explicit builds a strategy from caller-supplied items, resolved with
// either an alignment or, when pivot is non-nil, an explicit pivot.
func Explicit(mainAxisSize, itemSpacing float64, items []keyline.Item, alignment keyline.Alignment, pivot *Pivot) (Strategy, error) {
	b := keyline.NewBuilder(items...)

	var (
		l   keyline.List
		err error
	)
	if pivot != nil {
		l, err = b.CreateWithPivot(mainAxisSize, itemSpacing, pivot.Index, pivot.Offset)
	} else {
		l, err = b.CreateWithAlignment(mainAxisSize, itemSpacing, alignment)
	}
	if err != nil {
		return Strategy{}, err
	}
	return NewStrategy(KindExplicit, l, mainAxisSize, itemSpacing)
}

// Pivot is an explicit pivot request: the item index and the main-axis
// center to place it at.
type Pivot struct {
	Index  int     `json:"index" toml:"index" bson:"index"`
	Offset float64 `json:"offset" toml:"offset" bson:"offset"`
}

// minPartial is the smallest leftover worth showing as a partial item.
const minPartial = 1.0

// Uncontained fits as many full-size items as the viewport holds. Space
// left after the last full item (and its spacing) becomes one smaller
// partial item. Zero-size anchors bookend the list.
func Uncontained(mainAxisSize, itemSize, itemSpacing float64) (Strategy, error) {
	if err := errors.ValidateMainAxisSize(mainAxisSize); err != nil {
		return Strategy{}, err
	}
	if err := errors.ValidateItemSpacing(itemSpacing); err != nil {
		return Strategy{}, err
	}
	if itemSize <= 0 || math.IsNaN(itemSize) || math.IsInf(itemSize, 0) {
		return Strategy{}, errors.New(errors.ErrCodeInvalidSize, "item size must be positive and finite, got %v", itemSize)
	}
	itemSize = math.Min(itemSize, mainAxisSize)

	fullCount := int(math.Floor((mainAxisSize + itemSpacing) / (itemSize + itemSpacing)))
	if fullCount < 1 {
		fullCount = 1
	}
	if fullCount > MaxSlots {
		return Strategy{}, errors.New(errors.ErrCodeInvalidSize, "item size %v fits %d items in %v, limit is %d", itemSize, fullCount, mainAxisSize, MaxSlots)
	}
	used := float64(fullCount)*itemSize + float64(fullCount-1)*itemSpacing
	partial := mainAxisSize - used - itemSpacing

	var b keyline.Builder
	b.Add(0, true)
	for i := 0; i < fullCount; i++ {
		b.Add(itemSize, false)
	}
	if partial >= minPartial && partial < itemSize {
		b.Add(partial, false)
	}
	b.Add(0, true)

	l, err := b.CreateWithAlignment(mainAxisSize, itemSpacing, keyline.AlignStart)
	if err != nil {
		return Strategy{}, err
	}
	return NewStrategy(KindUncontained, l, mainAxisSize, itemSpacing)
}

// MultiBrowseOptions bounds the small peek items of a multi-browse layout.
type MultiBrowseOptions struct {
	MinSmall float64
	MaxSmall float64
}

func (o MultiBrowseOptions) withDefaults() MultiBrowseOptions {
	if o.MinSmall <= 0 {
		o.MinSmall = DefaultMinSmall
	}
	if o.MaxSmall <= 0 {
		o.MaxSmall = DefaultMaxSmall
	}
	return o
}

// arrangement is a candidate mix of large, medium and small items.
type arrangement struct {
	large, medium, small          int
	largeSize, mediumSize, smallS float64
	cost                          float64
}

func (a arrangement) count() int { return a.large + a.medium + a.small }

// MultiBrowse arranges large, medium and small items so they exactly fill
// the viewport. It searches every mix of 1..n large items, 0..1 medium
// items and 1..2 small items and keeps the one whose large size is closest
// to preferredSize. Ties go to the mix with more large items. At most
// itemCount items are shown.
func MultiBrowse(mainAxisSize, preferredSize, itemSpacing float64, itemCount int, opts MultiBrowseOptions) (Strategy, error) {
	if err := errors.ValidateMainAxisSize(mainAxisSize); err != nil {
		return Strategy{}, err
	}
	if err := errors.ValidateItemSpacing(itemSpacing); err != nil {
		return Strategy{}, err
	}
	if preferredSize <= 0 || math.IsNaN(preferredSize) || math.IsInf(preferredSize, 0) {
		return Strategy{}, errors.New(errors.ErrCodeInvalidSize, "preferred item size must be positive and finite, got %v", preferredSize)
	}
	if itemCount < 1 {
		return Strategy{}, errors.New(errors.ErrCodeInvalidInput, "item count must be at least 1, got %d", itemCount)
	}
	opts = opts.withDefaults()
	if opts.MinSmall > opts.MaxSmall {
		return Strategy{}, errors.New(errors.ErrCodeInvalidInput, "min small size %v exceeds max small size %v", opts.MinSmall, opts.MaxSmall)
	}

	target := math.Min(preferredSize, mainAxisSize)
	small := math.Max(opts.MinSmall, math.Min(opts.MaxSmall, target/3))

	best, ok := findArrangement(mainAxisSize, target, small, itemSpacing, itemCount)

	var b keyline.Builder
	b.Add(0, true)
	if !ok {
		// Nothing fits beside a small item: show one large item.
		b.Add(target, false)
	} else {
		for i := 0; i < best.large; i++ {
			b.Add(best.largeSize, false)
		}
		for i := 0; i < best.medium; i++ {
			b.Add(best.mediumSize, false)
		}
		for i := 0; i < best.small; i++ {
			b.Add(best.smallS, false)
		}
	}
	b.Add(0, true)

	l, err := b.CreateWithAlignment(mainAxisSize, itemSpacing, keyline.AlignStart)
	if err != nil {
		return Strategy{}, err
	}
	return NewStrategy(KindMultiBrowse, l, mainAxisSize, itemSpacing)
}

func findArrangement(mainAxisSize, target, small, spacing float64, itemCount int) (arrangement, bool) {
	var (
		best  arrangement
		found bool
	)
	maxLarge := min(int(math.Min(math.Ceil(mainAxisSize/target), MaxSlots)), itemCount-1)
	for large := 1; large <= maxLarge; large++ {
		// One small item and no medium is the roomiest mix; once its large
		// size drops to small, every larger count does too.
		if (mainAxisSize-float64(large)*spacing-small)/float64(large) <= small {
			break
		}
		for medium := 0; medium <= 1; medium++ {
			for smallCount := 1; smallCount <= 2; smallCount++ {
				a := arrangement{large: large, medium: medium, small: smallCount, smallS: small}
				if a.count() > itemCount {
					continue
				}
				// Solve L*x + M*(x+s)/2 + S*s + gaps = mainAxis for x.
				gaps := float64(a.count()-1) * spacing
				free := mainAxisSize - gaps - float64(smallCount)*small - float64(medium)*small/2
				x := free / (float64(large) + float64(medium)/2)
				if x <= small {
					continue
				}
				a.largeSize = x
				a.mediumSize = (x + small) / 2
				a.cost = math.Abs(x - target)
				if !found || a.cost < best.cost-1e-9 || (math.Abs(a.cost-best.cost) <= 1e-9 && a.large > best.large) {
					best, found = a, true
				}
			}
		}
	}
	return best, found
}

// Hero shows one large item with small peek items. Start alignment peeks
// the next item after the hero; Center peeks on both sides; End peeks
// before. A single-item carousel shows only the hero.
func Hero(mainAxisSize, preferredSize, itemSpacing float64, itemCount int, alignment keyline.Alignment, opts MultiBrowseOptions) (Strategy, error) {
	if err := errors.ValidateMainAxisSize(mainAxisSize); err != nil {
		return Strategy{}, err
	}
	if err := errors.ValidateItemSpacing(itemSpacing); err != nil {
		return Strategy{}, err
	}
	if itemCount < 1 {
		return Strategy{}, errors.New(errors.ErrCodeInvalidInput, "item count must be at least 1, got %d", itemCount)
	}
	if !alignment.Valid() {
		return Strategy{}, errors.New(errors.ErrCodeInvalidAlignment, "unknown alignment %d", int(alignment))
	}
	opts = opts.withDefaults()
	small := opts.MinSmall

	peeks := 1
	if alignment == keyline.AlignCenter {
		peeks = 2
	}
	if itemCount == 1 {
		peeks = 0
	}

	large := mainAxisSize - float64(peeks)*(small+itemSpacing)
	if preferredSize > 0 {
		large = math.Min(large, preferredSize)
	}
	if large <= small {
		peeks = 0
		large = mainAxisSize
	}

	var b keyline.Builder
	b.Add(0, true)
	if peeks > 0 && alignment != keyline.AlignStart {
		b.Add(small, false)
	}
	b.Add(large, false)
	if peeks > 0 && alignment != keyline.AlignEnd {
		b.Add(small, false)
	}
	b.Add(0, true)

	l, err := b.CreateWithAlignment(mainAxisSize, itemSpacing, alignment)
	if err != nil {
		return Strategy{}, err
	}
	return NewStrategy(KindHero, l, mainAxisSize, itemSpacing)
}

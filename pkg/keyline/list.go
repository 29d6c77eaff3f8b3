package keyline

import (
	"iter"
	"slices"

	"github.com/matzehuels/carousel/pkg/errors"
)

// List is an immutable, ordered sequence of keylines in left-to-right visual
// order. The zero value is an empty list.
type List struct {
	keylines []Keyline
}

// NewList validates keylines and wraps a copy of them in a List.
// A non-empty list must have exactly one pivot and a single contiguous
// block of focal keylines.
func NewList(keylines []Keyline) (List, error) {
	if len(keylines) == 0 {
		return List{}, nil
	}

	pivots := 0
	first, last := -1, -1
	for i, k := range keylines {
		if k.IsPivot {
			pivots++
		}
		if k.Cutoff < 0 {
			return List{}, errors.New(errors.ErrCodeInvalidInput, "keyline %d: negative cutoff %v", i, k.Cutoff)
		}
		if k.IsFocal {
			if first == -1 {
				first = i
			} else if last != i-1 {
				return List{}, errors.New(errors.ErrCodeInvalidInput, "keyline %d: focal keylines are not contiguous", i)
			}
			last = i
		}
	}
	if pivots != 1 {
		return List{}, errors.New(errors.ErrCodeInvalidPivot, "list must have exactly one pivot, found %d", pivots)
	}

	return List{keylines: slices.Clone(keylines)}, nil
}

// Len returns the number of keylines.
func (l List) Len() int { return len(l.keylines) }

// IsEmpty reports whether the list has no keylines.
func (l List) IsEmpty() bool { return len(l.keylines) == 0 }

// At returns the keyline at index i. It panics if i is out of range.
func (l List) At(i int) Keyline { return l.keylines[i] }

// Keylines returns a copy of the keylines.
func (l List) Keylines() []Keyline { return slices.Clone(l.keylines) }

// All iterates over the keylines in visual order.
func (l List) All() iter.Seq2[int, Keyline] {
	return func(yield func(int, Keyline) bool) {
		for i, k := range l.keylines {
			if !yield(i, k) {
				return
			}
		}
	}
}

// FirstFocalIndex returns the index of the first focal keyline, or -1.
func (l List) FirstFocalIndex() int {
	return slices.IndexFunc(l.keylines, func(k Keyline) bool { return k.IsFocal })
}

// LastFocalIndex returns the index of the last focal keyline, or -1.
func (l List) LastFocalIndex() int {
	for i := len(l.keylines) - 1; i >= 0; i-- {
		if l.keylines[i].IsFocal {
			return i
		}
	}
	return -1
}

// FirstFocal returns the first focal keyline.
func (l List) FirstFocal() (Keyline, bool) {
	if i := l.FirstFocalIndex(); i >= 0 {
		return l.keylines[i], true
	}
	return Keyline{}, false
}

// LastFocal returns the last focal keyline.
func (l List) LastFocal() (Keyline, bool) {
	if i := l.LastFocalIndex(); i >= 0 {
		return l.keylines[i], true
	}
	return Keyline{}, false
}

// FocalCount returns the number of focal keylines.
func (l List) FocalCount() int {
	first := l.FirstFocalIndex()
	if first < 0 {
		return 0
	}
	return l.LastFocalIndex() - first + 1
}

// TotalFocalSize returns the summed size of all focal keylines.
func (l List) TotalFocalSize() float64 {
	var total float64
	for _, k := range l.keylines {
		if k.IsFocal {
			total += k.Size
		}
	}
	return total
}

// PivotIndex returns the index of the pivot keyline, or -1.
func (l List) PivotIndex() int {
	return slices.IndexFunc(l.keylines, func(k Keyline) bool { return k.IsPivot })
}

// Pivot returns the pivot keyline.
func (l List) Pivot() (Keyline, bool) {
	if i := l.PivotIndex(); i >= 0 {
		return l.keylines[i], true
	}
	return Keyline{}, false
}

// FirstNonAnchorIndex returns the index of the first keyline that is not an
// anchor, or -1.
func (l List) FirstNonAnchorIndex() int {
	return slices.IndexFunc(l.keylines, func(k Keyline) bool { return !k.IsAnchor })
}

// LastNonAnchorIndex returns the index of the last keyline that is not an
// anchor, or -1.
func (l List) LastNonAnchorIndex() int {
	for i := len(l.keylines) - 1; i >= 0; i-- {
		if !l.keylines[i].IsAnchor {
			return i
		}
	}
	return -1
}

// Equal reports whether both lists hold the same keylines in the same order.
func (l List) Equal(other List) bool {
	return slices.Equal(l.keylines, other.keylines)
}

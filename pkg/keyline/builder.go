package keyline

import (
	"math"

	"github.com/matzehuels/carousel/pkg/errors"
)

// Item is one pending keyline descriptor: a main-axis size and whether the
// slot is an off-screen anchor.
type Item struct {
	Size     float64
	IsAnchor bool
}

// Builder accumulates item sizes in visual order and resolves them into a
// [List]. The zero value is ready to use. A Builder is not safe for
// concurrent use, but Create* calls do not modify it, so one populated
// builder may be resolved any number of times.
type Builder struct {
	items []Item
}

// NewBuilder returns a builder pre-populated with items.
func NewBuilder(items ...Item) *Builder {
	b := &Builder{}
	for _, it := range items {
		b.Add(it.Size, it.IsAnchor)
	}
	return b
}

// Add appends one item. Sizes must be finite and non-negative; violations
// are reported by the next Create* call.
func (b *Builder) Add(size float64, isAnchor bool) *Builder {
	b.items = append(b.items, Item{Size: size, IsAnchor: isAnchor})
	return b
}

// Len returns the number of items added so far.
func (b *Builder) Len() int { return len(b.items) }

// Items returns a copy of the pending items.
func (b *Builder) Items() []Item { return append([]Item(nil), b.items...) }

// focalRun is the contiguous block of maximum-size items.
type focalRun struct {
	first, last int
	size        float64
}

func (r focalRun) contains(i int) bool { return i >= r.first && i <= r.last }

// findFocalRun locates the first item holding the maximum size and walks
// forward while subsequent items have exactly the same size. It reports
// false when no item has a positive size.
func findFocalRun(items []Item) (focalRun, bool) {
	run := focalRun{first: -1, last: -1}
	for i, it := range items {
		if it.Size > run.size {
			run.size = it.Size
			run.first = i
		}
	}
	if run.first < 0 {
		return run, false
	}

	run.last = run.first
	for run.last < len(items)-1 && items[run.last+1].Size == run.size {
		run.last++
	}
	return run, true
}

// prepare checks the shared preconditions of both Create* methods and
// resolves the focal run.
func (b *Builder) prepare(mainAxisSize, itemSpacing float64) (focalRun, error) {
	if len(b.items) == 0 {
		return focalRun{}, errors.New(errors.ErrCodeEmptyLayout, "no items added to keyline builder")
	}
	if err := errors.ValidateMainAxisSize(mainAxisSize); err != nil {
		return focalRun{}, err
	}
	if err := errors.ValidateItemSpacing(itemSpacing); err != nil {
		return focalRun{}, err
	}
	for i, it := range b.items {
		if err := errors.ValidateItemSize(i, it.Size); err != nil {
			return focalRun{}, err
		}
	}

	run, ok := findFocalRun(b.items)
	if !ok {
		return focalRun{}, errors.New(errors.ErrCodeInvalidInput, "at least one item must have a positive size")
	}
	return run, nil
}

// CreateWithPivot places the item at pivotIndex with its center at
// pivotOffset and expands outward to produce the keyline list.
func (b *Builder) CreateWithPivot(mainAxisSize, itemSpacing float64, pivotIndex int, pivotOffset float64) (List, error) {
	run, err := b.prepare(mainAxisSize, itemSpacing)
	if err != nil {
		return List{}, err
	}
	if pivotIndex < 0 || pivotIndex >= len(b.items) {
		return List{}, errors.New(errors.ErrCodeInvalidPivot, "pivot index %d out of range [0, %d)", pivotIndex, len(b.items))
	}
	if math.IsNaN(pivotOffset) || math.IsInf(pivotOffset, 0) {
		return List{}, errors.New(errors.ErrCodeInvalidInput, "pivot offset must be finite, got %v", pivotOffset)
	}
	return expand(b.items, run, mainAxisSize, itemSpacing, pivotIndex, pivotOffset), nil
}

// CreateWithAlignment uses the first focal item as the pivot, places it
// according to alignment and expands outward.
func (b *Builder) CreateWithAlignment(mainAxisSize, itemSpacing float64, alignment Alignment) (List, error) {
	if !alignment.Valid() {
		return List{}, errors.New(errors.ErrCodeInvalidAlignment, "unknown alignment %d", int(alignment))
	}
	run, err := b.prepare(mainAxisSize, itemSpacing)
	if err != nil {
		return List{}, err
	}
	offset := alignment.pivotOffset(mainAxisSize, itemSpacing, run.size, run.first, run.last)
	return expand(b.items, run, mainAxisSize, itemSpacing, run.first, offset), nil
}

// expand computes every keyline outward from the pivot. Results are written
// at each item's original index, so the list keeps the input order.
func expand(items []Item, run focalRun, mainAxisSize, itemSpacing float64, pivotIndex int, pivotOffset float64) List {
	keylines := make([]Keyline, len(items))

	pivot := items[pivotIndex]
	var pivotCutoff float64
	switch {
	case overhangsStart(pivot.Size, pivotOffset):
		pivotCutoff = math.Abs(pivotOffset - pivot.Size/2)
	case overhangsEnd(pivot.Size, pivotOffset, mainAxisSize):
		pivotCutoff = pivotOffset + pivot.Size/2 - mainAxisSize
	}
	keylines[pivotIndex] = Keyline{
		Size:             pivot.Size,
		Offset:           pivotOffset,
		UnadjustedOffset: pivotOffset,
		IsFocal:          run.contains(pivotIndex),
		IsAnchor:         pivot.IsAnchor,
		IsPivot:          true,
		Cutoff:           pivotCutoff,
	}

	// The first step away from the pivot spans half a focal size, even when
	// the pivot is a smaller peek item.
	visualCursor := pivotOffset - run.size/2 - itemSpacing
	snapCursor := visualCursor
	for i := pivotIndex - 1; i >= 0; i-- {
		it := items[i]
		offset := visualCursor - it.Size/2
		var cutoff float64
		if overhangsStart(it.Size, offset) {
			cutoff = math.Abs(offset - it.Size/2)
		}
		keylines[i] = Keyline{
			Size:             it.Size,
			Offset:           offset,
			UnadjustedOffset: snapCursor - run.size/2,
			IsFocal:          run.contains(i),
			IsAnchor:         it.IsAnchor,
			Cutoff:           cutoff,
		}
		visualCursor -= it.Size + itemSpacing
		snapCursor -= run.size + itemSpacing
	}

	visualCursor = pivotOffset + run.size/2 + itemSpacing
	snapCursor = visualCursor
	for i := pivotIndex + 1; i < len(items); i++ {
		it := items[i]
		offset := visualCursor + it.Size/2
		var cutoff float64
		if overhangsEnd(it.Size, offset, mainAxisSize) {
			cutoff = offset + it.Size/2 - mainAxisSize
		}
		keylines[i] = Keyline{
			Size:             it.Size,
			Offset:           offset,
			UnadjustedOffset: snapCursor + run.size/2,
			IsFocal:          run.contains(i),
			IsAnchor:         it.IsAnchor,
			Cutoff:           cutoff,
		}
		visualCursor += it.Size + itemSpacing
		snapCursor += run.size + itemSpacing
	}

	return List{keylines: keylines}
}

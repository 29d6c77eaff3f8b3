// Package keyline computes carousel keylines: the size, position and clip
// state of every visual slot in a horizontally scrolling carousel.
//
// # Overview
//
// A carousel shows items of varying sizes. The largest items form the
// "focal run" (the items in focus); smaller "peek" items hint that more
// content is available, and zero-size "anchors" bookend the sequence so the
// scroll range stays stable. Given the item sizes in visual order and the
// viewport's main-axis length, this package computes a [List] of [Keyline]
// values:
//
//   - Offset: the item's center in viewport coordinates
//   - UnadjustedOffset: the center on a uniform focal-size track, used for
//     scroll snapping independent of item sizes
//   - Cutoff: how much of the item is clipped by a viewport edge
//   - IsFocal, IsAnchor, IsPivot: the slot's role
//
// # Building a List
//
// Add sizes in final left-to-right order, then resolve either an explicit
// pivot or an [Alignment]:
//
//	var b keyline.Builder
//	b.Add(0, true).Add(56, false).Add(186, false).Add(186, false).Add(56, false).Add(0, true)
//	l, err := b.CreateWithAlignment(360, 8, keyline.AlignCenter)
//
// or
//
//	l, err := b.CreateWithPivot(360, 8, 2, 93)
//
// The pivot is the keyline every other position is computed from. With an
// alignment, the pivot is the first focal item and its offset follows the
// policy:
//
//   - [AlignStart]: flush against the leading edge
//   - [AlignCenter]: the focal run is centered in the viewport
//   - [AlignEnd]: flush against the trailing edge
//
// # Focal Run
//
// The focal run starts at the first item holding the maximum size and
// extends forward while the following items have exactly that size. An
// equal-size item separated from the run by a smaller one is not focal.
//
// # Expansion
//
// Positions are computed outward from the pivot. The first step away from
// the pivot always spans half a focal size plus the spacing, even when the
// pivot itself is a smaller peek item. Two cursors advance independently: the
// visual cursor by each item's own size, the snap cursor by the focal size.
// Items left of the pivot can only be clipped by the leading edge; items
// right of it only by the trailing edge.
//
// # Errors
//
// All failures are precondition violations reported as
// [github.com/matzehuels/carousel/pkg/errors.Error] values: an empty builder,
// a negative or non-finite size, a non-positive viewport, negative spacing,
// no item with a positive size, an out-of-range pivot or an unknown
// alignment. Once the inputs are valid the computation cannot fail.
package keyline

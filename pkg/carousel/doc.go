// Package carousel turns keyline lists into a scrollable carousel.
//
// # Overview
//
// The [keyline] package describes where each visual slot sits. This package
// consumes those slots:
//
//   - Strategies ([Uncontained], [MultiBrowse], [Hero], [Explicit]) choose
//     item sizes for a viewport and build the default [keyline.List].
//   - A [Carousel] combines a [Strategy] with an item count and answers
//     scroll questions: where each item snaps ([Carousel.SnapOffset]), which
//     item is nearest a scroll position ([Carousel.Nearest]) and where every
//     item is drawn and clipped at a scroll position ([Carousel.Place]).
//   - [Sync] keeps an externally observed "current item" and the scroll
//     position in step without feedback loops.
//
// # Scroll Model
//
// Items live on a uniform track: item i's unadjusted center is the pivot's
// unadjusted offset plus i item steps (focal size plus spacing), minus the
// scroll offset. [Carousel.Place] finds the two keylines whose unadjusted
// offsets bracket that center and interpolates size, offset and cutoff
// between them, so items grow as they approach the focal run and shrink as
// they leave it.
//
// # Synchronization
//
// [Sync.Run] runs two loops. One scrolls to every externally selected item
// and waits for the carousel to settle there; the other reports positions
// the user settles on. While a programmatic scroll is in flight, settled
// positions are not reported, so an external selection never echoes back.
package carousel

// Package layout is the serialization format for resolved carousels.
//
// A [Layout] records the viewport, the keyline list and optionally the
// per-item placements at one scroll offset. It is what the CLI writes with
// -o, what the HTTP API returns, what the layout cache stores and what
// presets render to.
//
// # Conversion
//
// [FromList] and [Export] convert from the computation types; [Layout.ToList]
// and [Parse] convert back and re-validate the keyline invariants (one pivot,
// contiguous focal run, non-negative cutoffs).
//
// # Files
//
//	l := layout.Export(c, keyline.AlignStart)
//	if err := layout.WriteLayoutFile(l, "carousel.json"); err != nil {
//	    return err
//	}
package layout

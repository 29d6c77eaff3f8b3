package keyline

// Keyline describes one visual slot of a carousel along its main axis.
// All lengths are in user units (typically pixels).
type Keyline struct {
	Size             float64
	Offset           float64 // center, adjusted for edge cutoff
	UnadjustedOffset float64 // center on the uniform focal-size track
	IsFocal          bool
	IsAnchor         bool
	IsPivot          bool
	Cutoff           float64 // clipped extent at a viewport edge, never negative
}

// Left returns the leading edge of the slot.
func (k Keyline) Left() float64 { return k.Offset - k.Size/2 }

// Right returns the trailing edge of the slot.
func (k Keyline) Right() float64 { return k.Offset + k.Size/2 }

// VisibleSize returns the part of the slot that is not cut off.
func (k Keyline) VisibleSize() float64 { return k.Size - k.Cutoff }

// overhangsStart reports whether an item centered at offset straddles the
// leading edge.
func overhangsStart(size, offset float64) bool {
	return offset-size/2 < 0 && offset+size/2 > 0
}

// overhangsEnd reports whether an item centered at offset straddles the
// trailing edge at mainAxisSize.
func overhangsEnd(size, offset, mainAxisSize float64) bool {
	return offset-size/2 < mainAxisSize && offset+size/2 > mainAxisSize
}

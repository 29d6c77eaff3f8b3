package keyline

import (
	"strings"

	"github.com/matzehuels/carousel/pkg/errors"
)

// Alignment selects where the focal run sits in the viewport when the pivot
// is resolved automatically.
type Alignment int

const (
	AlignStart Alignment = iota
	AlignCenter
	AlignEnd
)

var alignmentNames = map[Alignment]string{
	AlignStart:  "start",
	AlignCenter: "center",
	AlignEnd:    "end",
}

// String returns the lower-case name of the alignment.
func (a Alignment) String() string {
	if s, ok := alignmentNames[a]; ok {
		return s
	}
	return "unknown"
}

// Valid reports whether a is one of the defined alignments.
func (a Alignment) Valid() bool {
	_, ok := alignmentNames[a]
	return ok
}

// ParseAlignment parses "start", "center" or "end" (case-insensitive).
func ParseAlignment(s string) (Alignment, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "start":
		return AlignStart, nil
	case "center", "centre":
		return AlignCenter, nil
	case "end":
		return AlignEnd, nil
	}
	return 0, errors.New(errors.ErrCodeInvalidAlignment, "unknown alignment %q (want start, center or end)", s)
}

// MarshalText implements encoding.TextMarshaler.
func (a Alignment) MarshalText() ([]byte, error) {
	if !a.Valid() {
		return nil, errors.New(errors.ErrCodeInvalidAlignment, "unknown alignment %d", int(a))
	}
	return []byte(a.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (a *Alignment) UnmarshalText(text []byte) error {
	parsed, err := ParseAlignment(string(text))
	if err != nil {
		return err
	}
	*a = parsed
	return nil
}

// Set implements pflag.Value so an Alignment can be bound to a CLI flag.
func (a *Alignment) Set(s string) error { return a.UnmarshalText([]byte(s)) }

// Type implements pflag.Value.
func (a *Alignment) Type() string { return "alignment" }

// pivotOffset returns the pivot's center for a focal run [first, last] of
// items sized focalSize.
func (a Alignment) pivotOffset(mainAxisSize, itemSpacing, focalSize float64, first, last int) float64 {
	switch a {
	case AlignCenter:
		// steps counts focal-to-focal gaps; an odd count means an even number
		// of focal items, which puts a gap on the center line.
		steps := last - first
		split := 0.0
		if itemSpacing != 0 && steps%2 == 1 {
			split = itemSpacing / 2
		}
		return mainAxisSize/2 - focalSize/2*float64(steps) - split
	case AlignEnd:
		return mainAxisSize - focalSize/2
	default:
		return focalSize / 2
	}
}

package errors

import (
	"math"
	"regexp"
	"unicode"
)

// ValidateMainAxisSize validates the visible main-axis length of a carousel.
// It must be finite and strictly positive.
func ValidateMainAxisSize(size float64) error {
	if math.IsNaN(size) || math.IsInf(size, 0) {
		return New(ErrCodeInvalidInput, "main axis size must be finite, got %v", size)
	}
	if size <= 0 {
		return New(ErrCodeInvalidInput, "main axis size must be positive, got %v", size)
	}
	return nil
}

// ValidateItemSpacing validates the fixed gap between adjacent items.
func ValidateItemSpacing(spacing float64) error {
	if math.IsNaN(spacing) || math.IsInf(spacing, 0) {
		return New(ErrCodeInvalidInput, "item spacing must be finite, got %v", spacing)
	}
	if spacing < 0 {
		return New(ErrCodeInvalidInput, "item spacing must not be negative, got %v", spacing)
	}
	return nil
}

// ValidateItemSize validates the main-axis extent of the item at index.
// Zero is allowed (anchors are usually zero-sized).
func ValidateItemSize(index int, size float64) error {
	if math.IsNaN(size) || math.IsInf(size, 0) {
		return New(ErrCodeInvalidSize, "item %d: size must be finite, got %v", index, size)
	}
	if size < 0 {
		return New(ErrCodeInvalidSize, "item %d: size must not be negative, got %v", index, size)
	}
	return nil
}

// presetNameRegex matches preset names: a letter or digit followed by
// letters, digits, dots, dashes or underscores.
var presetNameRegex = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9._-]*$`)

// ValidatePresetName validates a preset name for safety and correctness.
//
// The validation rules are intentionally conservative:
//   - No empty names
//   - Maximum length of 64 characters
//   - No control characters
//   - Only letters, digits, '.', '-' and '_' (no path separators)
func ValidatePresetName(name string) error {
	if name == "" {
		return New(ErrCodeInvalidPreset, "preset name cannot be empty")
	}

	if len(name) > 64 {
		return New(ErrCodeInvalidPreset, "preset name too long (max 64 characters)")
	}

	for _, r := range name {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidPreset, "preset name contains invalid control characters")
		}
	}

	if !presetNameRegex.MatchString(name) {
		return New(ErrCodeInvalidPreset, "invalid preset name: %q", name)
	}

	return nil
}

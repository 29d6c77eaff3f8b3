package layout

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/matzehuels/carousel/pkg/carousel"
	"github.com/matzehuels/carousel/pkg/errors"
	"github.com/matzehuels/carousel/pkg/keyline"
)

func testCarousel(t *testing.T) *carousel.Carousel {
	t.Helper()
	s, err := carousel.Uncontained(360, 100, 8)
	if err != nil {
		t.Fatalf("Uncontained() error: %v", err)
	}
	c, err := carousel.New(s, 5)
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}
	return c
}

func TestExport(t *testing.T) {
	c := testCarousel(t)
	l := Export(c, keyline.AlignStart)

	if l.MainAxisSize != 360 || l.ItemSpacing != 8 {
		t.Errorf("viewport = %v/%v, want 360/8", l.MainAxisSize, l.ItemSpacing)
	}
	if l.Strategy != "uncontained" || l.Alignment != "start" || l.ItemCount != 5 {
		t.Errorf("metadata = %q %q %d", l.Strategy, l.Alignment, l.ItemCount)
	}
	if len(l.Keylines) != 6 {
		t.Fatalf("Keylines count = %d, want 6", len(l.Keylines))
	}
	if first, last := l.FocalRange(); first != 1 || last != 3 {
		t.Errorf("FocalRange() = %d, %d, want 1, 3", first, last)
	}
	if !l.Keylines[1].Pivot || !l.Keylines[0].Anchor {
		t.Errorf("flags lost: %+v", l.Keylines[:2])
	}
	if l.Scroll != nil || l.Placements != nil {
		t.Error("Export should not include placements")
	}
}

func TestWithPlacements(t *testing.T) {
	c := testCarousel(t)
	l := WithPlacements(Export(c, keyline.AlignStart), c, 9999)

	if l.Scroll == nil || *l.Scroll != c.MaxScroll() {
		t.Errorf("Scroll = %v, want clamped %v", l.Scroll, c.MaxScroll())
	}
	if len(l.Placements) != 5 {
		t.Fatalf("Placements count = %d, want 5", len(l.Placements))
	}
	last := l.Placements[4]
	if last.Index != 4 || last.Offset != 50 || !last.Visible {
		t.Errorf("last placement = %+v, want item 4 pinned at 50", last)
	}
}

func TestRoundTrip(t *testing.T) {
	c := testCarousel(t)
	orig := Export(c, keyline.AlignStart)

	data, err := Marshal(orig)
	if err != nil {
		t.Fatalf("Marshal() error: %v", err)
	}
	got, err := Unmarshal(data)
	if err != nil {
		t.Fatalf("Unmarshal() error: %v", err)
	}

	list, err := got.ToList()
	if err != nil {
		t.Fatalf("ToList() error: %v", err)
	}
	if !list.Equal(c.Strategy().Keylines()) {
		t.Error("keylines changed across a JSON round trip")
	}

	back, err := Parse(got)
	if err != nil {
		t.Fatalf("Parse() error: %v", err)
	}
	if back.ItemCount() != 5 || back.Strategy().Kind() != carousel.KindUncontained {
		t.Errorf("Parse() = %d items, kind %v", back.ItemCount(), back.Strategy().Kind())
	}
}

func TestParseDefaultsItemCount(t *testing.T) {
	l := Export(testCarousel(t), keyline.AlignStart)
	l.ItemCount = 0
	l.Strategy = ""

	c, err := Parse(l)
	if err != nil {
		t.Fatalf("Parse() error: %v", err)
	}
	// Six keylines, two of them anchors.
	if c.ItemCount() != 4 {
		t.Errorf("ItemCount() = %d, want 4", c.ItemCount())
	}
	if c.Strategy().Kind() != carousel.KindExplicit {
		t.Errorf("Kind() = %v, want explicit", c.Strategy().Kind())
	}
}

func TestUnmarshalErrors(t *testing.T) {
	tests := []struct {
		name string
		json string
		code errors.Code
	}{
		{"bad json", `{`, errors.ErrCodeInvalidFormat},
		{"no viewport", `{"keylines":[{"size":10,"pivot":true,"focal":true}]}`, errors.ErrCodeInvalidInput},
		{"no keylines", `{"main_axis_size":100}`, errors.ErrCodeEmptyLayout},
		{"no pivot", `{"main_axis_size":100,"keylines":[{"size":10,"focal":true}]}`, errors.ErrCodeInvalidPivot},
		{"bad alignment", `{"main_axis_size":100,"alignment":"diagonal","keylines":[{"size":10,"pivot":true}]}`, errors.ErrCodeInvalidAlignment},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Unmarshal([]byte(tt.json))
			if !errors.Is(err, tt.code) {
				t.Errorf("Unmarshal() error = %v, want code %v", err, tt.code)
			}
		})
	}
}

func TestLayoutFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "carousel.json")
	orig := Export(testCarousel(t), keyline.AlignStart)

	if err := WriteLayoutFile(orig, path); err != nil {
		t.Fatalf("WriteLayoutFile() error: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile() error: %v", err)
	}
	if !strings.Contains(string(data), `"unadjusted_offset"`) {
		t.Errorf("file is missing snake_case keys:\n%s", data)
	}

	got, err := ReadLayoutFile(path)
	if err != nil {
		t.Fatalf("ReadLayoutFile() error: %v", err)
	}
	if len(got.Keylines) != len(orig.Keylines) {
		t.Errorf("Keylines count = %d, want %d", len(got.Keylines), len(orig.Keylines))
	}

	if _, err := ReadLayoutFile(filepath.Join(t.TempDir(), "missing.json")); err == nil {
		t.Error("expected error for missing file")
	}
}

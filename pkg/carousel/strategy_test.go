package carousel

import (
	"math"
	"testing"
	"time"

	"github.com/matzehuels/carousel/pkg/errors"
	"github.com/matzehuels/carousel/pkg/keyline"
)

const eps = 1e-9

func approx(a, b float64) bool { return math.Abs(a-b) < eps }

func sizes(l keyline.List) []float64 {
	var out []float64
	for _, k := range l.All() {
		out = append(out, k.Size)
	}
	return out
}

// filled returns the main-axis space used by the non-anchor keylines.
func filled(l keyline.List, spacing float64) float64 {
	var total float64
	n := 0
	for _, k := range l.All() {
		if k.IsAnchor {
			continue
		}
		total += k.Size
		n++
	}
	if n > 1 {
		total += float64(n-1) * spacing
	}
	return total
}

func TestUncontained(t *testing.T) {
	s, err := Uncontained(360, 100, 8)
	if err != nil {
		t.Fatalf("Uncontained() error: %v", err)
	}
	l := s.Keylines()

	want := []float64{0, 100, 100, 100, 36, 0}
	got := sizes(l)
	if len(got) != len(want) {
		t.Fatalf("sizes = %v, want %v", got, want)
	}
	for i := range want {
		if !approx(got[i], want[i]) {
			t.Errorf("size[%d] = %v, want %v", i, got[i], want[i])
		}
	}
	if !l.At(0).IsAnchor || !l.At(l.Len()-1).IsAnchor {
		t.Error("list should start and end with anchors")
	}
	if l.FirstFocalIndex() != 1 || l.LastFocalIndex() != 3 {
		t.Errorf("focal run = [%d, %d], want [1, 3]", l.FirstFocalIndex(), l.LastFocalIndex())
	}
	if got := l.At(4).Offset; !approx(got, 342) {
		t.Errorf("partial offset = %v, want 342", got)
	}
	if s.Kind() != KindUncontained || s.FocalSize() != 100 {
		t.Errorf("Kind() = %v, FocalSize() = %v", s.Kind(), s.FocalSize())
	}
}

func TestUncontainedNoPartial(t *testing.T) {
	// 3*100 + 2*30 fills the viewport exactly.
	s, err := Uncontained(360, 100, 30)
	if err != nil {
		t.Fatalf("Uncontained() error: %v", err)
	}
	if got := sizes(s.Keylines()); len(got) != 5 {
		t.Errorf("sizes = %v, want three items between anchors", got)
	}
}

func TestUncontainedOversizedItem(t *testing.T) {
	s, err := Uncontained(200, 500, 0)
	if err != nil {
		t.Fatalf("Uncontained() error: %v", err)
	}
	if s.FocalSize() != 200 {
		t.Errorf("FocalSize() = %v, want item clamped to 200", s.FocalSize())
	}
}

func TestMultiBrowse(t *testing.T) {
	s, err := MultiBrowse(360, 186, 8, 10, MultiBrowseOptions{})
	if err != nil {
		t.Fatalf("MultiBrowse() error: %v", err)
	}
	l := s.Keylines()

	// One large, one medium, one small item is the closest fit to 186.
	want := []float64{0, 520.0 / 3, (520.0/3 + 56) / 2, 56, 0}
	got := sizes(l)
	if len(got) != len(want) {
		t.Fatalf("sizes = %v, want %v", got, want)
	}
	for i := range want {
		if math.Abs(got[i]-want[i]) > 1e-6 {
			t.Errorf("size[%d] = %v, want %v", i, got[i], want[i])
		}
	}
	if l.FocalCount() != 1 {
		t.Errorf("FocalCount() = %d, want 1", l.FocalCount())
	}
	if used := filled(l, 8); math.Abs(used-360) > 1e-6 {
		t.Errorf("filled = %v, want 360", used)
	}
}

func TestMultiBrowseItemCountLimit(t *testing.T) {
	s, err := MultiBrowse(360, 186, 8, 2, MultiBrowseOptions{})
	if err != nil {
		t.Fatalf("MultiBrowse() error: %v", err)
	}
	got := sizes(s.Keylines())
	if len(got) != 4 || !approx(got[1], 296) || !approx(got[2], 56) {
		t.Errorf("sizes = %v, want [0 296 56 0]", got)
	}
}

func TestMultiBrowseFillsViewport(t *testing.T) {
	tests := []struct {
		mainAxis, preferred, spacing float64
	}{
		{360, 186, 8},
		{412, 200, 0},
		{800, 120, 16},
		{1024, 300, 12},
	}

	for _, tt := range tests {
		s, err := MultiBrowse(tt.mainAxis, tt.preferred, tt.spacing, 100, MultiBrowseOptions{})
		if err != nil {
			t.Fatalf("MultiBrowse(%v) error: %v", tt, err)
		}
		l := s.Keylines()
		if used := filled(l, tt.spacing); math.Abs(used-tt.mainAxis) > 1e-6 {
			t.Errorf("MultiBrowse(%v) fills %v", tt, used)
		}
		focal, _ := l.FirstFocal()
		for _, k := range l.All() {
			if !k.IsFocal && k.Size >= focal.Size {
				t.Errorf("MultiBrowse(%v): non-focal size %v >= focal %v", tt, k.Size, focal.Size)
			}
		}
	}
}

func TestMultiBrowseTinyPreferredSize(t *testing.T) {
	tests := []struct {
		name      string
		preferred float64
		count     int
		focal     int
	}{
		// Four large items plus one small is the most the count allows.
		{"limited by count", 1e-7, 5, 4},
		// Past six large items the large size drops below the small size.
		{"limited by viewport", 1e-9, 100000, 6},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			done := make(chan struct{})
			var (
				s   Strategy
				err error
			)
			go func() {
				defer close(done)
				s, err = MultiBrowse(360, tt.preferred, 8, tt.count, MultiBrowseOptions{})
			}()
			select {
			case <-done:
			case <-time.After(5 * time.Second):
				t.Fatal("MultiBrowse() did not return")
			}
			if err != nil {
				t.Fatalf("MultiBrowse() error: %v", err)
			}
			l := s.Keylines()
			if l.FocalCount() != tt.focal {
				t.Errorf("FocalCount() = %d, want %d", l.FocalCount(), tt.focal)
			}
			if used := filled(l, 8); math.Abs(used-360) > 1e-6 {
				t.Errorf("filled = %v, want 360", used)
			}
		})
	}
}

func TestUncontainedSlotLimit(t *testing.T) {
	_, err := Uncontained(360, 1e-3, 0)
	if !errors.Is(err, errors.ErrCodeInvalidSize) {
		t.Errorf("error = %v, want code %v", err, errors.ErrCodeInvalidSize)
	}
	if _, err := Uncontained(MaxSlots, 1, 0); err != nil {
		t.Errorf("Uncontained() at the limit: %v", err)
	}
}

func TestMultiBrowseErrors(t *testing.T) {
	tests := []struct {
		name string
		run  func() error
		code errors.Code
	}{
		{"zero viewport", func() error { _, err := MultiBrowse(0, 100, 0, 3, MultiBrowseOptions{}); return err }, errors.ErrCodeInvalidInput},
		{"zero preferred", func() error { _, err := MultiBrowse(300, 0, 0, 3, MultiBrowseOptions{}); return err }, errors.ErrCodeInvalidSize},
		{"no items", func() error { _, err := MultiBrowse(300, 100, 0, 0, MultiBrowseOptions{}); return err }, errors.ErrCodeInvalidInput},
		{"small bounds", func() error {
			_, err := MultiBrowse(300, 100, 0, 3, MultiBrowseOptions{MinSmall: 60, MaxSmall: 50})
			return err
		}, errors.ErrCodeInvalidInput},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.run(); !errors.Is(err, tt.code) {
				t.Errorf("error = %v, want code %v", err, tt.code)
			}
		})
	}
}

func TestHero(t *testing.T) {
	tests := []struct {
		name      string
		alignment keyline.Alignment
		count     int
		sizes     []float64
		pivot     float64
	}{
		{"start", keyline.AlignStart, 5, []float64{0, 312, 40, 0}, 156},
		{"center", keyline.AlignCenter, 5, []float64{0, 40, 264, 40, 0}, 180},
		{"end", keyline.AlignEnd, 5, []float64{0, 40, 312, 0}, 204},
		{"single item", keyline.AlignCenter, 1, []float64{0, 360, 0}, 180},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := Hero(360, 0, 8, tt.count, tt.alignment, MultiBrowseOptions{})
			if err != nil {
				t.Fatalf("Hero() error: %v", err)
			}
			got := sizes(s.Keylines())
			if len(got) != len(tt.sizes) {
				t.Fatalf("sizes = %v, want %v", got, tt.sizes)
			}
			for i := range got {
				if !approx(got[i], tt.sizes[i]) {
					t.Errorf("size[%d] = %v, want %v", i, got[i], tt.sizes[i])
				}
			}
			p, _ := s.Keylines().Pivot()
			if !approx(p.Offset, tt.pivot) {
				t.Errorf("pivot offset = %v, want %v", p.Offset, tt.pivot)
			}
		})
	}
}

func TestHeroPreferredSize(t *testing.T) {
	s, err := Hero(360, 200, 8, 5, keyline.AlignStart, MultiBrowseOptions{})
	if err != nil {
		t.Fatalf("Hero() error: %v", err)
	}
	if s.FocalSize() != 200 {
		t.Errorf("FocalSize() = %v, want 200", s.FocalSize())
	}
}

func TestExplicit(t *testing.T) {
	items := []keyline.Item{{Size: 40}, {Size: 100}, {Size: 40}}

	s, err := Explicit(300, 10, items, keyline.AlignCenter, nil)
	if err != nil {
		t.Fatalf("Explicit() error: %v", err)
	}
	if p, _ := s.Keylines().Pivot(); p.Offset != 150 {
		t.Errorf("aligned pivot offset = %v, want 150", p.Offset)
	}

	s, err = Explicit(300, 10, items, keyline.AlignCenter, &Pivot{Index: 0, Offset: 20})
	if err != nil {
		t.Fatalf("Explicit() with pivot error: %v", err)
	}
	if got := s.Keylines().PivotIndex(); got != 0 {
		t.Errorf("PivotIndex() = %d, want 0", got)
	}

	if _, err := Explicit(300, 10, nil, keyline.AlignStart, nil); !errors.Is(err, errors.ErrCodeEmptyLayout) {
		t.Errorf("Explicit(nil) error = %v, want EMPTY_LAYOUT", err)
	}
}

func TestParseKind(t *testing.T) {
	tests := []struct {
		input   string
		want    Kind
		wantErr bool
	}{
		{"explicit", KindExplicit, false},
		{"Uncontained", KindUncontained, false},
		{"multi-browse", KindMultiBrowse, false},
		{"multibrowse", KindMultiBrowse, false},
		{" hero ", KindHero, false},
		{"grid", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseKind(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseKind(%q) error = %v", tt.input, err)
			}
			if got != tt.want {
				t.Errorf("ParseKind(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestNewStrategyRejectsEmpty(t *testing.T) {
	if _, err := NewStrategy(KindExplicit, keyline.List{}, 100, 0); !errors.Is(err, errors.ErrCodeEmptyLayout) {
		t.Errorf("NewStrategy(empty) error = %v, want EMPTY_LAYOUT", err)
	}
}

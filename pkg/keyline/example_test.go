package keyline_test

import (
	"fmt"

	"github.com/matzehuels/carousel/pkg/keyline"
)

func ExampleBuilder_CreateWithAlignment() {
	var b keyline.Builder
	b.Add(100, false).Add(100, false).Add(100, false)

	l, err := b.CreateWithAlignment(500, 10, keyline.AlignStart)
	if err != nil {
		fmt.Println("error:", err)
		return
	}

	for i, k := range l.All() {
		fmt.Printf("%d: offset=%v focal=%v pivot=%v\n", i, k.Offset, k.IsFocal, k.IsPivot)
	}
	// Output:
	// 0: offset=50 focal=true pivot=true
	// 1: offset=160 focal=true pivot=false
	// 2: offset=270 focal=true pivot=false
}

func ExampleBuilder_CreateWithPivot() {
	var b keyline.Builder
	b.Add(80, false)

	// The item's left edge sits at -10, so 10 units are clipped.
	l, _ := b.CreateWithPivot(200, 0, 0, 30)
	fmt.Println("cutoff:", l.At(0).Cutoff)
	// Output:
	// cutoff: 10
}

func ExampleList_TotalFocalSize() {
	var b keyline.Builder
	b.Add(0, true).Add(40, false).Add(120, false).Add(120, false).Add(40, false).Add(0, true)

	l, _ := b.CreateWithAlignment(360, 8, keyline.AlignCenter)
	fmt.Println("focal:", l.FirstFocalIndex(), "to", l.LastFocalIndex())
	fmt.Println("total focal size:", l.TotalFocalSize())
	// Output:
	// focal: 2 to 3
	// total focal size: 240
}

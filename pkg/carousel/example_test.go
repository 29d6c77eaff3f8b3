package carousel_test

import (
	"fmt"

	"github.com/matzehuels/carousel/pkg/carousel"
)

func ExampleCarousel_Place() {
	s, _ := carousel.Uncontained(360, 100, 8)
	c, _ := carousel.New(s, 5)

	for _, p := range c.Visible(0) {
		fmt.Printf("item %d: size=%v offset=%v\n", p.Index, p.Size, p.Offset)
	}
	// Output:
	// item 0: size=100 offset=50
	// item 1: size=100 offset=158
	// item 2: size=100 offset=266
	// item 3: size=36 offset=342
}

func ExampleCarousel_Nearest() {
	s, _ := carousel.Uncontained(360, 100, 8)
	c, _ := carousel.New(s, 5)

	fmt.Println(c.SnapOffset(2), c.Nearest(230))
	// Output:
	// 216 2
}

package palette_test

import (
	"fmt"

	"github.com/matzehuels/vrplot/pkg/palette"
)

func ExampleRainbow() {
	fmt.Println(palette.Rainbow(3))
	// Output: [#ff0000 #00ff00 #0000ff]
}

func ExampleFixed() {
	p := palette.Fixed("#4477aa", "#ee6677")
	fmt.Println(p(2))
	// Output: [#4477aa #ee6677]
}

package scatter_test

import (
	"fmt"

	"github.com/matzehuels/vrplot/pkg/palette"
	"github.com/matzehuels/vrplot/pkg/scatter"
)

func ExampleBuildLayout() {
	l, err := scatter.BuildLayout(scatter.Input{
		X:          scatter.Axis{Label: "Sepal.Length", Values: []float64{1, 2, 3}},
		Y:          scatter.Axis{Label: "Sepal.Width", Values: []float64{1, 2, 3}},
		Z:          scatter.Axis{Label: "Petal.Length", Values: []float64{1, 2, 3}},
		Colour:     &scatter.Categorical{Label: "Species", Values: []string{"a", "a", "b"}},
		Palette:    palette.Fixed("#4477aa", "#ee6677"),
		Dimensions: [3]float64{1, 1, 1},
	})
	if err != nil {
		fmt.Println("error:", err)
		return
	}
	for _, p := range l.Points {
		fmt.Println(p.Label, p.Position, p.Color)
	}
	fmt.Println("levels:", l.Levels)
	// Output:
	// 1 0 0 0 #4477aa
	// 2 0.5 0.5 0.5 #4477aa
	// 3 1 1 1 #ee6677
	// levels: [a b]
}

func ExampleBuild_singlePoint() {
	_, err := scatter.Build(scatter.Input{
		X:          scatter.Axis{Label: "x", Values: []float64{5}},
		Y:          scatter.Axis{Label: "y", Values: []float64{5}},
		Z:          scatter.Axis{Label: "z", Values: []float64{5}},
		Dimensions: [3]float64{1, 1, 1},
	})
	fmt.Println(err)
	// Output: invalid x: zero range (all values equal)
}

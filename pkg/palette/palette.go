// Package palette provides palette functions that map a level count to that
// many distinct CSS colours.
//
// A palette is a plain function value ([Func]); the layout builder calls it
// once with the number of categorical levels and indexes the result. All
// palettes in this package are deterministic and return lowercase "#rrggbb"
// strings.
//
//	colours := palette.Rainbow(3) // ["#ff0000", "#00ff00", "#0000ff"]
//
// Palettes are resolved by name with [ByName] for the CLI and config files.
package palette

import (
	"fmt"
	"image/color"
	"math"
	"sort"

	ggpalette "github.com/aclements/go-gg/palette"
	"github.com/lucasb-eyer/go-colorful"

	"github.com/matzehuels/vrplot/pkg/errors"
)

// Func returns n colours. It may return fewer than n colours (see [Fixed]);
// callers must check the length.
type Func func(n int) []string

// Palette names accepted by [ByName].
const (
	NameRainbow     = "rainbow"
	NameHue         = "hue"
	NameViridis     = "viridis"
	NameQualitative = "qualitative"
	NameGrey        = "grey"
)

// Default is the palette used when none is configured.
var Default Func = Rainbow

// Rainbow spaces n fully saturated hues evenly around the HSV colour wheel,
// starting at red.
func Rainbow(n int) []string {
	if n <= 0 {
		return nil
	}
	out := make([]string, n)
	for i := range out {
		h := 360 * float64(i) / float64(n)
		out[i] = colorful.Hsv(h, 1, 1).Hex()
	}
	return out
}

// Hue spaces n hues evenly on the HCL wheel from 15° with constant chroma
// and luminance, which keeps levels perceptually balanced.
func Hue(n int) []string {
	if n <= 0 {
		return nil
	}
	out := make([]string, n)
	step := 360 / float64(n)
	for i := range out {
		h := math.Mod(15+step*float64(i), 360)
		out[i] = colorful.Hcl(h, 1.0, 0.65).Clamped().Hex()
	}
	return out
}

// Viridis samples the viridis colour map at n evenly spaced points.
func Viridis(n int) []string {
	return sample(ggpalette.Viridis, n)
}

// Grey returns n greys from dark to light.
func Grey(n int) []string {
	return blend(colorful.Color{R: 0.2, G: 0.2, B: 0.2}, colorful.Color{R: 0.8, G: 0.8, B: 0.8}, n)
}

// qualitativeColors is Paul Tol's colorblind-safe qualitative palette.
var qualitativeColors = []string{
	"#4477aa", // blue
	"#ee6677", // rose
	"#228833", // green
	"#ccbb44", // olive
	"#66ccee", // cyan
	"#aa3377", // purple
	"#bbbbbb", // grey
	"#ee8866", // orange
	"#44bb99", // teal
	"#ffaabb", // pink
}

// Qualitative returns colours from a fixed qualitative palette, cycling
// when n exceeds its size.
func Qualitative(n int) []string {
	if n <= 0 {
		return nil
	}
	out := make([]string, n)
	for i := range out {
		out[i] = qualitativeColors[i%len(qualitativeColors)]
	}
	return out
}

// Fixed returns a palette that yields the first n of colors. It never
// cycles: asking for more levels than colors returns all of them.
func Fixed(colors ...string) Func {
	return func(n int) []string {
		if n <= 0 {
			return nil
		}
		if n > len(colors) {
			n = len(colors)
		}
		return append([]string(nil), colors[:n]...)
	}
}

// Gradient returns a palette interpolating linearly in sRGB between two
// hex colours.
func Gradient(from, to string) (Func, error) {
	a, err := parseHex(from)
	if err != nil {
		return nil, err
	}
	b, err := parseHex(to)
	if err != nil {
		return nil, err
	}
	return func(n int) []string { return blend(a, b, n) }, nil
}

var byName = map[string]Func{
	NameRainbow:     Rainbow,
	NameHue:         Hue,
	NameViridis:     Viridis,
	NameQualitative: Qualitative,
	NameGrey:        Grey,
}

// ByName resolves a palette name. Besides the named palettes it accepts
// "gradient:#rrggbb:#rrggbb".
func ByName(name string) (Func, error) {
	if f, ok := byName[name]; ok {
		return f, nil
	}
	var from, to string
	if n, _ := fmt.Sscanf(name, "gradient:%7s:%7s", &from, &to); n == 2 {
		return Gradient(from, to)
	}
	return nil, errors.New(errors.ErrCodeInvalidPalette, "unknown palette: %q (must be one of: %v)", name, Names())
}

// Names returns the sorted names of the built-in palettes.
func Names() []string {
	names := make([]string, 0, len(byName))
	for k := range byName {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

// Hex formats c as a lowercase "#rrggbb" string.
func Hex(c color.Color) string {
	cf, _ := colorful.MakeColor(c)
	return cf.Hex()
}

// Valid reports whether s is a "#rrggbb" or "#rgb" colour.
func Valid(s string) bool {
	_, err := colorful.Hex(s)
	return err == nil
}

func sample(c ggpalette.Continuous, n int) []string {
	if n <= 0 {
		return nil
	}
	out := make([]string, n)
	for i := range out {
		x := 0.0
		if n > 1 {
			x = float64(i) / float64(n-1)
		}
		out[i] = Hex(c.Map(x))
	}
	return out
}

// blend returns n colours evenly spaced between a and b inclusive.
func blend(a, b colorful.Color, n int) []string {
	if n <= 0 {
		return nil
	}
	out := make([]string, n)
	for i := range out {
		t := 0.0
		if n > 1 {
			t = float64(i) / float64(n-1)
		}
		out[i] = a.BlendRgb(b, t).Clamped().Hex()
	}
	return out
}

func parseHex(s string) (colorful.Color, error) {
	c, err := colorful.Hex(s)
	if err != nil {
		return colorful.Color{}, errors.Wrap(errors.ErrCodeInvalidPalette, err, "parse colour %q", s)
	}
	return c, nil
}

package palette

import (
	"image/color"
	"regexp"
	"testing"

	"github.com/matzehuels/vrplot/pkg/errors"
)

var hexColorRegex = regexp.MustCompile(`^#[0-9a-f]{6}$`)

func TestPalettesProduceDistinctHexColors(t *testing.T) {
	for _, name := range Names() {
		t.Run(name, func(t *testing.T) {
			f, err := ByName(name)
			if err != nil {
				t.Fatal(err)
			}
			for _, n := range []int{1, 2, 5, 9} {
				colors := f(n)
				if len(colors) != n {
					t.Fatalf("%s(%d) returned %d colours", name, n, len(colors))
				}
				seen := make(map[string]bool)
				for _, c := range colors {
					if !hexColorRegex.MatchString(c) {
						t.Errorf("%s(%d): invalid colour %q", name, n, c)
					}
					seen[c] = true
				}
				if len(seen) != n {
					t.Errorf("%s(%d) = %v, want %d distinct colours", name, n, colors, n)
				}
			}
		})
	}
}

func TestPalettesDeterministic(t *testing.T) {
	for _, name := range Names() {
		f, _ := ByName(name)
		a, b := f(7), f(7)
		for i := range a {
			if a[i] != b[i] {
				t.Errorf("%s is not deterministic at %d: %q vs %q", name, i, a[i], b[i])
			}
		}
	}
}

func TestRainbowPrimaries(t *testing.T) {
	got := Rainbow(3)
	want := []string{"#ff0000", "#00ff00", "#0000ff"}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Rainbow(3)[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestZeroLevels(t *testing.T) {
	if got := Rainbow(0); got != nil {
		t.Errorf("Rainbow(0) = %v, want nil", got)
	}
	if got := Qualitative(-1); got != nil {
		t.Errorf("Qualitative(-1) = %v, want nil", got)
	}
}

func TestQualitativeCycles(t *testing.T) {
	got := Qualitative(12)
	if got[10] != got[0] || got[11] != got[1] {
		t.Errorf("Qualitative should cycle, got %v", got)
	}
}

func TestFixed(t *testing.T) {
	f := Fixed("#111111", "#222222")
	if got := f(1); len(got) != 1 || got[0] != "#111111" {
		t.Errorf("Fixed(1) = %v", got)
	}
	if got := f(5); len(got) != 2 {
		t.Errorf("Fixed(5) should return only 2 colours, got %v", got)
	}
}

func TestGradient(t *testing.T) {
	f, err := Gradient("#000000", "#ffffff")
	if err != nil {
		t.Fatal(err)
	}
	got := f(3)
	if got[0] != "#000000" || got[2] != "#ffffff" {
		t.Errorf("Gradient endpoints = %v", got)
	}
	if got[1] == got[0] || got[1] == got[2] {
		t.Errorf("Gradient midpoint not blended: %v", got)
	}

	if _, err := Gradient("black", "#ffffff"); !errors.Is(err, errors.ErrCodeInvalidPalette) {
		t.Errorf("Gradient(black) error = %v, want INVALID_PALETTE", err)
	}
}

func TestByName(t *testing.T) {
	if _, err := ByName("gradient:#ff0000:#0000ff"); err != nil {
		t.Errorf("gradient name: %v", err)
	}
	_, err := ByName("nope")
	if !errors.Is(err, errors.ErrCodeInvalidPalette) {
		t.Errorf("ByName(nope) error = %v, want INVALID_PALETTE", err)
	}
}

func TestHexAndValid(t *testing.T) {
	if got := Hex(color.RGBA{0xff, 0x80, 0x00, 0xff}); got != "#ff8000" {
		t.Errorf("Hex = %q", got)
	}
	if !Valid("#abc") || !Valid("#aabbcc") {
		t.Error("Valid should accept short and long hex")
	}
	if Valid("red") {
		t.Error("Valid should reject colour names")
	}
}

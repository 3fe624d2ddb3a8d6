package scatter

import (
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/aclements/go-moremath/scale"
	"github.com/aclements/go-moremath/stats"
)

// Bounds returns the minimum and maximum of the non-missing values in xs.
// ok is false when xs has no finite values.
func Bounds(xs []float64) (lo, hi float64, ok bool) {
	finite := make([]float64, 0, len(xs))
	for _, x := range xs {
		if !missing(x) {
			finite = append(finite, x)
		}
	}
	if len(finite) == 0 {
		return 0, 0, false
	}
	lo, hi = stats.Bounds(finite)
	return lo, hi, true
}

// Normalize min-max scales xs to [0, 1]. Missing values stay NaN. field
// names the sequence in the returned error when the range is empty or zero.
func Normalize(field string, xs []float64) ([]float64, error) {
	lo, hi, ok := Bounds(xs)
	if !ok {
		return nil, &InvalidInputError{Field: field, Reason: "no non-missing values"}
	}
	if lo == hi {
		return nil, &InvalidInputError{Field: field, Reason: "zero range (all values equal)"}
	}
	s := scale.Linear{Min: lo, Max: hi}
	out := make([]float64, len(xs))
	for i, x := range xs {
		if missing(x) {
			out[i] = math.NaN()
			continue
		}
		out[i] = s.Map(x)
	}
	return out, nil
}

// Ticks returns up to max "nice" tick values within [lo, hi].
func Ticks(lo, hi float64, max int) []float64 {
	if max <= 0 || lo >= hi {
		return nil
	}
	major, _ := scale.Linear{Min: lo, Max: hi}.Ticks(scale.TickOptions{Max: max})
	out := make([]float64, 0, len(major))
	eps := (hi - lo) * 1e-9
	for _, t := range major {
		if t >= lo-eps && t <= hi+eps {
			out = append(out, t)
		}
	}
	return out
}

// Levels returns the distinct values of xs in natural order and the level
// index of every element. Numeric values sort by value and before all
// other values, which sort as strings.
func Levels(xs []string) (levels []string, index []int) {
	seen := make(map[string]bool)
	for _, x := range xs {
		if !seen[x] {
			seen[x] = true
			levels = append(levels, x)
		}
	}
	sort.Slice(levels, func(i, j int) bool { return levelLess(levels[i], levels[j]) })

	pos := make(map[string]int, len(levels))
	for i, l := range levels {
		pos[l] = i
	}
	index = make([]int, len(xs))
	for i, x := range xs {
		index[i] = pos[x]
	}
	return levels, index
}

func levelLess(a, b string) bool {
	fa, aNum := numericLevel(a)
	fb, bNum := numericLevel(b)
	switch {
	case aNum && bNum:
		if fa != fb {
			return fa < fb
		}
		return a < b
	case aNum != bNum:
		return aNum
	default:
		return a < b
	}
}

func numericLevel(s string) (float64, bool) {
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	return f, err == nil && !math.IsNaN(f)
}

func missing(x float64) bool {
	return math.IsNaN(x) || math.IsInf(x, 0)
}

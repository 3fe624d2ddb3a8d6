package scene

import (
	"encoding/json"
	"math"
	"strconv"
)

// Vec3 is a point or direction in scene space. A-Frame uses a right-handed
// coordinate system with Y pointing up.
type Vec3 struct {
	X, Y, Z float64
}

// Vec returns a pointer to a new Vec3, convenient for optional entity fields.
func Vec(x, y, z float64) *Vec3 {
	return &Vec3{X: x, Y: y, Z: z}
}

// Add returns v + o.
func (v Vec3) Add(o Vec3) Vec3 {
	return Vec3{X: v.X + o.X, Y: v.Y + o.Y, Z: v.Z + o.Z}
}

// Mul returns the element-wise product of v and o.
func (v Vec3) Mul(o Vec3) Vec3 {
	return Vec3{X: v.X * o.X, Y: v.Y * o.Y, Z: v.Z * o.Z}
}

// Times returns v scaled by s.
func (v Vec3) Times(s float64) Vec3 {
	return Vec3{X: v.X * s, Y: v.Y * s, Z: v.Z * s}
}

// Finite reports whether all components are finite numbers.
func (v Vec3) Finite() bool {
	return finite(v.X) && finite(v.Y) && finite(v.Z)
}

// Array returns the components as a fixed-size array.
func (v Vec3) Array() [3]float64 {
	return [3]float64{v.X, v.Y, v.Z}
}

// String returns the A-Frame vector syntax, e.g. "0 1.5 -2".
func (v Vec3) String() string {
	return formatFloat(v.X) + " " + formatFloat(v.Y) + " " + formatFloat(v.Z)
}

// MarshalJSON encodes the vector as a 3-element array.
func (v Vec3) MarshalJSON() ([]byte, error) {
	return json.Marshal(v.Array())
}

// UnmarshalJSON decodes a 3-element array.
func (v *Vec3) UnmarshalJSON(data []byte) error {
	var a [3]float64
	if err := json.Unmarshal(data, &a); err != nil {
		return err
	}
	v.X, v.Y, v.Z = a[0], a[1], a[2]
	return nil
}

func finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

// formatFloat renders f with the shortest representation that round-trips,
// rounded to 6 decimals so layout arithmetic noise does not leak into markup.
func formatFloat(f float64) string {
	r := math.Round(f*1e6) / 1e6
	if r == 0 {
		r = 0 // normalize -0
	}
	return strconv.FormatFloat(r, 'f', -1, 64)
}

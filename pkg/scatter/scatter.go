package scatter

import (
	"math"
	"strconv"
	"strings"
	"unicode"

	"github.com/matzehuels/vrplot/pkg/palette"
	"github.com/matzehuels/vrplot/pkg/scene"
)

// Layout constants. Distances are in metres (A-Frame units).
const (
	DefaultRadius = 0.01
	BoxSize       = 0.05
	BoxSpacing    = 0.02
	LabelOffset   = 1.05 // axis label position as a fraction of the axis length
	LegendOffset  = 1.1  // legend x position as a fraction of dimensions.x

	LabelViewID = "label-view"
	RigID       = "rig"
	PlotID      = "plot"
	LegendID    = "legend"
	PointClass  = "point"
	TickClass   = "tick"
)

var (
	// PlotBase is the position of the plot group relative to the scene origin.
	PlotBase = scene.Vec3{X: -0.5, Y: 1.1, Z: -1.5}
	// CameraOffset is the camera position within the rig.
	CameraOffset = scene.Vec3{X: 0, Y: 1.6, Z: 0}
	// LabelViewOffset places the label overlay in front of the camera.
	LabelViewOffset = scene.Vec3{X: 0, Y: -0.15, Z: -0.6}
)

const textColor = "#000000"

// Axis is one numeric coordinate. NaN and ±Inf mark missing values.
type Axis struct {
	Label  string
	Values []float64
}

// Categorical is a per-row grouping variable mapped to colours.
type Categorical struct {
	Label  string
	Values []string
}

// Input describes a scatterplot.
type Input struct {
	X, Y, Z Axis

	// Colour groups rows by level. Nil draws all points in one colour
	// without a legend.
	Colour *Categorical

	// Palette maps a level count to colours. Nil uses palette.Default.
	Palette palette.Func

	// Sizes holds point radii: empty for DefaultRadius, one value for all
	// points, or one value per row.
	Sizes []float64

	// Labels holds the text shown when a point is clicked. Empty uses the
	// 1-based row number.
	Labels []string

	// Dimensions is the extent of the plot cube along x, y and z.
	Dimensions [3]float64

	Title    string
	Template string

	// Ticks requests up to this many tick labels per axis. Zero disables ticks.
	Ticks int
}

// Point is a drawn data row.
type Point struct {
	Row      int
	ID       string // element id, unique within the scene
	Label    string
	Level    int
	Position scene.Vec3
	Color    string
	Radius   float64
}

// Layout is the result of [BuildLayout]: the scene plus a summary of how
// the data was mapped onto it.
type Layout struct {
	Scene   scene.Scene
	Levels  []string // nil when no colour variable was given
	Colours []string // one per level, or a single colour without levels
	Bounds  [3][2]float64
	Points  []Point
	Dropped []int // rows not drawn because a coordinate was missing
}

// Build lays out in as a scene. See [BuildLayout].
func Build(in Input) (scene.Scene, error) {
	l, err := BuildLayout(in)
	if err != nil {
		return scene.Scene{}, err
	}
	return l.Scene, nil
}

// BuildLayout validates in, maps every row to a point and composes the
// camera rig, axes, points and legend into a scene.
func BuildLayout(in Input) (*Layout, error) {
	n := len(in.X.Values)
	if n == 0 {
		return nil, &EmptyInputError{}
	}
	if err := checkShapes(in, n); err != nil {
		return nil, err
	}
	if err := checkValues(in); err != nil {
		return nil, err
	}

	axes := [3]Axis{in.X, in.Y, in.Z}
	for i, a := range axes {
		if _, _, ok := Bounds(a.Values); !ok {
			return nil, &InvalidInputError{Field: axisNames[i], Reason: "no non-missing values"}
		}
	}
	complete, ok := completeRows(axes, n)
	if !ok {
		return nil, &InvalidInputError{Field: "rows", Reason: "every row has a missing coordinate"}
	}

	var (
		norm   [3][]float64
		bounds [3][2]float64
	)
	for i, a := range axes {
		vals := mask(a.Values, complete)
		v, err := Normalize(axisNames[i], vals)
		if err != nil {
			return nil, err
		}
		lo, hi, _ := Bounds(vals)
		norm[i] = v
		bounds[i] = [2]float64{lo, hi}
	}

	levels, index, colours, err := resolveColours(in, n)
	if err != nil {
		return nil, err
	}

	l := &Layout{Bounds: bounds, Colours: colours}
	if in.Colour != nil {
		l.Levels = levels
	}
	dims := scene.Vec3{X: in.Dimensions[0], Y: in.Dimensions[1], Z: in.Dimensions[2]}
	used := map[string]bool{RigID: true, PlotID: true, LegendID: true, LabelViewID: true}
	for _, name := range axisNames {
		used["axis-"+name] = true
	}
	for row := 0; row < n; row++ {
		if !complete[row] {
			l.Dropped = append(l.Dropped, row)
			continue
		}
		p := scene.Vec3{X: norm[0][row], Y: norm[1][row], Z: norm[2][row]}
		lbl := label(in.Labels, row)
		l.Points = append(l.Points, Point{
			Row:      row,
			ID:       uniqueID(used, lbl, row),
			Label:    lbl,
			Level:    index[row],
			Position: p.Mul(dims),
			Color:    colours[index[row]],
			Radius:   radius(in.Sizes, row),
		})
	}

	plot := &scene.Entity{Tag: "a-entity", ID: PlotID, Position: scene.Vec(PlotBase.X, PlotBase.Y, PlotBase.Z)}
	for i, a := range axes {
		plot.Children = append(plot.Children, axisEntity(i, a.Label, in.Dimensions[i], bounds[i], in.Ticks))
	}
	for _, p := range l.Points {
		plot.Children = append(plot.Children, pointEntity(p))
	}
	if l.Levels != nil && len(l.Levels) > 1 {
		plot.Children = append(plot.Children, legendEntity(in.Colour.Label, l.Levels, colours, in.Dimensions[0]))
	}

	l.Scene = scene.Scene{
		Template: in.Template,
		Title:    in.Title,
		Scripts:  scene.Scripts(in.Template),
		Children: []*scene.Entity{rigEntity(), plot},
	}
	return l, nil
}

var axisNames = [3]string{"x", "y", "z"}

func checkShapes(in Input, n int) error {
	if len(in.Y.Values) != n {
		return &ShapeMismatchError{Field: "y", Want: n, Got: len(in.Y.Values)}
	}
	if len(in.Z.Values) != n {
		return &ShapeMismatchError{Field: "z", Want: n, Got: len(in.Z.Values)}
	}
	if in.Colour != nil && len(in.Colour.Values) != n {
		return &ShapeMismatchError{Field: "colour", Want: n, Got: len(in.Colour.Values)}
	}
	if k := len(in.Sizes); k > 1 && k != n {
		return &ShapeMismatchError{Field: "sizes", Want: n, Got: k}
	}
	if k := len(in.Labels); k > 0 && k != n {
		return &ShapeMismatchError{Field: "labels", Want: n, Got: k}
	}
	return nil
}

func checkValues(in Input) error {
	for i, a := range [3]Axis{in.X, in.Y, in.Z} {
		if strings.TrimSpace(a.Label) == "" {
			return &InvalidInputError{Field: axisNames[i], Reason: "missing axis label"}
		}
	}
	for i, d := range in.Dimensions {
		if math.IsNaN(d) || math.IsInf(d, 0) || d <= 0 {
			return &InvalidInputError{Field: "dimensions", Reason: axisNames[i] + " extent must be a positive number, got " + strconv.FormatFloat(d, 'g', -1, 64)}
		}
	}
	for _, s := range in.Sizes {
		if math.IsNaN(s) || math.IsInf(s, 0) || s <= 0 {
			return &InvalidInputError{Field: "sizes", Reason: "radius must be a positive number, got " + strconv.FormatFloat(s, 'g', -1, 64)}
		}
	}
	if in.Ticks < 0 {
		return &InvalidInputError{Field: "ticks", Reason: "must not be negative"}
	}
	return nil
}

// resolveColours returns the levels, the level index of every row and the
// colour of every level.
func resolveColours(in Input, n int) ([]string, []int, []string, error) {
	pal := in.Palette
	if pal == nil {
		pal = palette.Default
	}
	var (
		levels []string
		index  []int
	)
	if in.Colour != nil {
		levels, index = Levels(in.Colour.Values)
	} else {
		levels, index = []string{""}, make([]int, n)
	}
	colours := pal(len(levels))
	if len(colours) < len(levels) {
		return nil, nil, nil, &PaletteSizeError{Want: len(levels), Got: len(colours)}
	}
	return levels, index, colours[:len(levels)], nil
}

func label(labels []string, row int) string {
	if len(labels) == 0 {
		return strconv.Itoa(row + 1)
	}
	return labels[row]
}

func radius(sizes []float64, row int) float64 {
	switch len(sizes) {
	case 0:
		return DefaultRadius
	case 1:
		return sizes[0]
	default:
		return sizes[row]
	}
}

// completeRows reports which rows have a value on every axis. ok is false
// when no row does.
func completeRows(axes [3]Axis, n int) (complete []bool, ok bool) {
	complete = make([]bool, n)
	for row := range complete {
		complete[row] = !missing(axes[0].Values[row]) && !missing(axes[1].Values[row]) && !missing(axes[2].Values[row])
		ok = ok || complete[row]
	}
	return complete, ok
}

// mask returns xs with the values of incomplete rows set to NaN.
func mask(xs []float64, complete []bool) []float64 {
	out := make([]float64, len(xs))
	for i, x := range xs {
		if complete[i] {
			out[i] = x
		} else {
			out[i] = math.NaN()
		}
	}
	return out
}

// uniqueID derives an element id from label and records it in used. An id
// already taken gets the 1-based row number appended.
func uniqueID(used map[string]bool, label string, row int) string {
	base := elementID(label)
	if base == "" {
		base = PointClass
	}
	id := base
	for k := row + 1; used[id]; k++ {
		id = base + "-" + strconv.Itoa(k)
	}
	used[id] = true
	return id
}

// elementID strips all whitespace from s.
func elementID(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, s)
}

// =============================================================================
// Entities
// =============================================================================

func rigEntity() *scene.Entity {
	cursor := &scene.Entity{
		Tag:   "a-cursor",
		Extra: map[string]string{"raycaster": "objects: ." + PointClass},
	}
	labelView := &scene.Entity{
		Tag:      "a-text",
		ID:       LabelViewID,
		Position: scene.Vec(LabelViewOffset.X, LabelViewOffset.Y, LabelViewOffset.Z),
		Text:     &scene.Text{Value: "", Align: "center", Color: textColor},
		Visible:  scene.Bool(false),
	}
	camera := &scene.Entity{
		Tag:      "a-camera",
		Position: scene.Vec(CameraOffset.X, CameraOffset.Y, CameraOffset.Z),
		Children: []*scene.Entity{cursor, labelView},
	}
	return &scene.Entity{Tag: "a-entity", ID: RigID, Children: []*scene.Entity{camera}}
}

func pointEntity(p Point) *scene.Entity {
	pos := p.Position
	return &scene.Entity{
		Tag:      "a-sphere",
		ID:       p.ID,
		Class:    PointClass,
		Position: &pos,
		Color:    p.Color,
		Radius:   p.Radius,
		Bindings: []scene.Binding{
			{Event: "click", Target: LabelViewID, Attribute: "visible", Value: "true"},
			{Event: "click", Target: LabelViewID, Attribute: "text.value", Value: p.Label},
			{Event: "mouseleave", Target: LabelViewID, Attribute: "visible", Value: "false"},
		},
	}
}

var (
	axisUnits = [3]scene.Vec3{{X: 1}, {Y: 1}, {Z: 1}}
	// Label rotations about the vertical axis.
	axisLabelRotations = [3]*scene.Vec3{nil, {Y: 45}, {Y: 90}}
	// Tick labels sit just off their axis.
	tickNudges = [3]scene.Vec3{{Y: -0.03}, {X: -0.03}, {Y: -0.03}}
)

func axisEntity(i int, text string, dim float64, bounds [2]float64, ticks int) *scene.Entity {
	end := axisUnits[i].Times(dim)
	pos := end.Times(LabelOffset).Add(scene.Vec3{Y: 0.05})
	lbl := &scene.Entity{
		Tag:      "a-text",
		Position: &pos,
		Rotation: axisLabelRotations[i],
		Text:     &scene.Text{Value: text, Align: "center", Color: textColor},
	}
	ax := &scene.Entity{
		Tag:      "a-entity",
		ID:       "axis-" + axisNames[i],
		Line:     &scene.Line{Start: scene.Vec3{}, End: end, Color: textColor},
		Children: []*scene.Entity{lbl},
	}

	lo, hi := bounds[0], bounds[1]
	for _, t := range Ticks(lo, hi, ticks) {
		p := axisUnits[i].Times((t - lo) / (hi - lo) * dim).Add(tickNudges[i])
		ax.Children = append(ax.Children, &scene.Entity{
			Tag:      "a-text",
			Class:    TickClass,
			Position: &p,
			Rotation: axisLabelRotations[i],
			Text:     &scene.Text{Value: strconv.FormatFloat(t, 'g', 6, 64), Align: "center", Color: textColor, Width: 0.5},
		})
	}
	return ax
}

func legendEntity(title string, levels, colours []string, dimX float64) *scene.Entity {
	legend := &scene.Entity{Tag: "a-entity", ID: LegendID, Position: scene.Vec(dimX*LegendOffset, 0, 0)}
	for i, lvl := range levels {
		legend.Children = append(legend.Children, legendEntry("legend-entry", i, lvl, &scene.Material{Color: colours[i]}))
	}
	legend.Children = append(legend.Children, legendEntry("legend-title", len(levels), title,
		&scene.Material{Color: "#ffffff", Opacity: scene.Float(0), Transparent: true}))
	return legend
}

func legendEntry(class string, i int, text string, mat *scene.Material) *scene.Entity {
	return &scene.Entity{
		Tag:      "a-entity",
		Class:    class,
		Position: scene.Vec(0, float64(i)*(BoxSize+BoxSpacing), 0),
		Children: []*scene.Entity{
			{
				Tag:      "a-entity",
				Geometry: &scene.Geometry{Primitive: "box", Width: BoxSize, Height: BoxSize, Depth: BoxSize},
				Material: mat,
			},
			{
				Tag:      "a-text",
				Position: scene.Vec(-BoxSpacing, 0, 0),
				Text:     &scene.Text{Value: text, Align: "right", Anchor: "right", Color: textColor},
			},
		},
	}
}

package scene

import (
	"sort"
	"strconv"
	"strings"
)

// Entity is a node in the scene graph.
//
// Known A-Frame attributes are typed fields; zero values are omitted from
// the output. Extra holds pass-through attributes for components vrplot does
// not model (for example a third-party "scatterplot" component).
type Entity struct {
	Tag   string // Element name, e.g. "a-entity", "a-sphere"
	ID    string // DOM id; required for binding targets
	Class string

	Position *Vec3
	Rotation *Vec3 // degrees
	Scale    *Vec3

	Color  string  // primitive color attribute (a-sphere, a-box)
	Radius float64 // primitive radius attribute (a-sphere)

	Geometry *Geometry
	Material *Material
	Text     *Text
	Line     *Line
	Visible  *bool

	Bindings []Binding
	Extra    map[string]string

	Children []*Entity
}

// Geometry is the A-Frame geometry component.
type Geometry struct {
	Primitive string
	Width     float64
	Height    float64
	Depth     float64
	Radius    float64
}

// Material is the A-Frame material component.
type Material struct {
	Color       string
	Opacity     *float64
	Transparent bool
	Shader      string
}

// Text is the A-Frame text component.
type Text struct {
	Value  string
	Align  string // left, center, right
	Anchor string // left, center, right, align
	Color  string
	Width  float64
}

// Line is the A-Frame line component.
type Line struct {
	Start Vec3
	End   Vec3
	Color string
}

// Binding sets Attribute of the entity with id Target to Value whenever
// Event fires on the owning entity.
type Binding struct {
	Event     string `json:"event"`
	Target    string `json:"target"`
	Attribute string `json:"attribute"`
	Value     string `json:"value"`
}

// Bool returns a pointer to b.
func Bool(b bool) *bool { return &b }

// Float returns a pointer to f.
func Float(f float64) *float64 { return &f }

// knownAttributes lists the attribute names produced from typed fields.
// Extra keys may not use these names.
var knownAttributes = map[string]bool{
	"id":       true,
	"class":    true,
	"position": true,
	"rotation": true,
	"scale":    true,
	"color":    true,
	"radius":   true,
	"geometry": true,
	"material": true,
	"text":     true,
	"line":     true,
	"visible":  true,
	"bindings": true,
}

// bindingPrefix is the attribute prefix of the event-set component.
const bindingPrefix = "event-set__"

// Attributes flattens the entity into A-Frame attribute strings.
// The result is deterministic for a given entity.
func (e *Entity) Attributes() map[string]string {
	attrs := make(map[string]string, len(e.Extra)+8)
	for k, v := range e.Extra {
		attrs[k] = v
	}
	if e.ID != "" {
		attrs["id"] = e.ID
	}
	if e.Class != "" {
		attrs["class"] = e.Class
	}
	if e.Position != nil {
		attrs["position"] = e.Position.String()
	}
	if e.Rotation != nil {
		attrs["rotation"] = e.Rotation.String()
	}
	if e.Scale != nil {
		attrs["scale"] = e.Scale.String()
	}
	if e.Color != "" {
		attrs["color"] = e.Color
	}
	if e.Radius != 0 {
		attrs["radius"] = formatFloat(e.Radius)
	}
	if e.Geometry != nil {
		attrs["geometry"] = e.Geometry.String()
	}
	if e.Material != nil {
		attrs["material"] = e.Material.String()
	}
	if e.Text != nil {
		attrs["text"] = e.Text.String()
	}
	if e.Line != nil {
		attrs["line"] = e.Line.String()
	}
	if e.Visible != nil {
		attrs["visible"] = boolString(*e.Visible)
	}
	for name, value := range bindingAttributes(e.Bindings) {
		attrs[name] = value
	}
	return attrs
}

// AttributeNames returns the keys of attrs in rendering order: id and class
// first, then the rest sorted.
func AttributeNames(attrs map[string]string) []string {
	names := make([]string, 0, len(attrs))
	for k := range attrs {
		if k != "id" && k != "class" {
			names = append(names, k)
		}
	}
	sort.Strings(names)
	var head []string
	if _, ok := attrs["id"]; ok {
		head = append(head, "id")
	}
	if _, ok := attrs["class"]; ok {
		head = append(head, "class")
	}
	return append(head, names...)
}

// String returns the geometry component value.
func (g *Geometry) String() string {
	var p props
	p.str("primitive", g.Primitive)
	p.num("width", g.Width)
	p.num("height", g.Height)
	p.num("depth", g.Depth)
	p.num("radius", g.Radius)
	return p.String()
}

// String returns the material component value.
func (m *Material) String() string {
	var p props
	p.str("color", m.Color)
	if m.Opacity != nil {
		p.add("opacity", formatFloat(*m.Opacity))
	}
	if m.Transparent {
		p.add("transparent", "true")
	}
	p.str("shader", m.Shader)
	return p.String()
}

// String returns the text component value.
func (t *Text) String() string {
	var p props
	p.add("value", sanitizeValue(t.Value))
	p.str("align", t.Align)
	p.str("anchor", t.Anchor)
	p.str("color", t.Color)
	p.num("width", t.Width)
	return p.String()
}

// String returns the line component value.
func (l *Line) String() string {
	var p props
	p.add("start", l.Start.String())
	p.add("end", l.End.String())
	p.str("color", l.Color)
	return p.String()
}

// bindingAttributes groups bindings by event and target into event-set
// component instances. The first group for an event is named
// event-set__<event>; later groups for the same event get a numeric suffix.
func bindingAttributes(bindings []Binding) map[string]string {
	if len(bindings) == 0 {
		return nil
	}
	type group struct {
		event, target string
		props         props
	}
	var groups []*group
	index := make(map[[2]string]*group)
	for _, b := range bindings {
		key := [2]string{b.Event, b.Target}
		g, ok := index[key]
		if !ok {
			g = &group{event: b.Event, target: b.Target}
			g.props.add("_event", b.Event)
			g.props.add("_target", "#"+b.Target)
			index[key] = g
			groups = append(groups, g)
		}
		g.props.add(b.Attribute, sanitizeValue(b.Value))
	}

	out := make(map[string]string, len(groups))
	seen := make(map[string]int)
	for _, g := range groups {
		name := bindingPrefix + g.event
		if n := seen[g.event]; n > 0 {
			name = bindingPrefix + g.event + "_" + strconv.Itoa(n+1)
		}
		seen[g.event]++
		out[name] = g.props.String()
	}
	return out
}

// props accumulates "key: value" pairs in insertion order.
type props struct {
	parts []string
}

func (p *props) add(k, v string) {
	p.parts = append(p.parts, k+": "+v)
}

func (p *props) str(k, v string) {
	if v != "" {
		p.add(k, v)
	}
}

func (p *props) num(k string, v float64) {
	if v != 0 {
		p.add(k, formatFloat(v))
	}
}

func (p *props) String() string {
	return strings.Join(p.parts, "; ")
}

// sanitizeValue removes the property separator from free-text values.
// The A-Frame property parser has no escape syntax.
func sanitizeValue(s string) string {
	return strings.ReplaceAll(s, ";", ",")
}

func boolString(b bool) string {
	if b {
		return "true"
	}
	return "false"
}

package scene

import (
	"encoding/json"
	"fmt"
	"math"

	"github.com/matzehuels/vrplot/pkg/errors"
)

// Scene is the root of a declarative WebVR scene.
type Scene struct {
	Template string    // environment preset; empty renders a plain scene
	Title    string    // document title
	Scripts  []string  // script URLs loaded before the scene
	Assets   []*Entity // children of <a-assets>
	Children []*Entity
}

// Walk calls fn for every entity in depth-first pre-order, assets first.
// If fn returns an error the walk stops and the error is returned.
func (s *Scene) Walk(fn func(e *Entity) error) error {
	for _, roots := range [][]*Entity{s.Assets, s.Children} {
		for _, e := range roots {
			if err := walk(e, fn); err != nil {
				return err
			}
		}
	}
	return nil
}

func walk(e *Entity, fn func(e *Entity) error) error {
	if err := fn(e); err != nil {
		return err
	}
	for _, c := range e.Children {
		if err := walk(c, fn); err != nil {
			return err
		}
	}
	return nil
}

// errStop ends a Walk early without reporting an error.
var errStop = fmt.Errorf("stop")

// Find returns the first entity with the given id, or nil.
func (s *Scene) Find(id string) *Entity {
	var found *Entity
	_ = s.Walk(func(e *Entity) error {
		if e.ID == id {
			found = e
			return errStop
		}
		return nil
	})
	return found
}

// Count returns the number of entities for which pred returns true.
func (s *Scene) Count(pred func(e *Entity) bool) int {
	n := 0
	_ = s.Walk(func(e *Entity) error {
		if pred(e) {
			n++
		}
		return nil
	})
	return n
}

// Validate checks every entity (see [Entity.Validate]), rejects duplicate
// ids and verifies that all binding targets resolve to an entity id within
// the scene.
func (s *Scene) Validate() error {
	ids := make(map[string]bool)
	var targets []string
	err := s.Walk(func(e *Entity) error {
		if err := e.validateSelf(); err != nil {
			return err
		}
		if e.ID != "" {
			if ids[e.ID] {
				return errors.New(errors.ErrCodeInvalidScene, "duplicate id #%s", e.ID)
			}
			ids[e.ID] = true
		}
		for _, b := range e.Bindings {
			targets = append(targets, b.Target)
		}
		return nil
	})
	if err != nil {
		return err
	}
	for _, t := range targets {
		if !ids[t] {
			return errors.New(errors.ErrCodeInvalidScene, "binding target #%s does not exist", t)
		}
	}
	return nil
}

// Validate checks e and its descendants for malformed known attributes.
func (e *Entity) Validate() error {
	return walk(e, func(n *Entity) error { return n.validateSelf() })
}

func (e *Entity) validateSelf() error {
	if e.Tag == "" {
		return errors.New(errors.ErrCodeInvalidScene, "entity %q has no tag", e.ID)
	}
	for name, v := range map[string]*Vec3{"position": e.Position, "rotation": e.Rotation, "scale": e.Scale} {
		if v != nil && !v.Finite() {
			return errors.New(errors.ErrCodeInvalidScene, "%s %s: non-finite %s", e.Tag, e.ID, name)
		}
	}
	if !finite(e.Radius) || e.Radius < 0 {
		return errors.New(errors.ErrCodeInvalidScene, "%s %s: invalid radius %v", e.Tag, e.ID, e.Radius)
	}
	if g := e.Geometry; g != nil {
		for _, d := range []float64{g.Width, g.Height, g.Depth, g.Radius} {
			if !finite(d) || d < 0 {
				return errors.New(errors.ErrCodeInvalidScene, "%s %s: invalid geometry dimension %v", e.Tag, e.ID, d)
			}
		}
	}
	if m := e.Material; m != nil && m.Opacity != nil {
		if o := *m.Opacity; math.IsNaN(o) || o < 0 || o > 1 {
			return errors.New(errors.ErrCodeInvalidScene, "%s %s: opacity %v outside [0,1]", e.Tag, e.ID, o)
		}
	}
	if l := e.Line; l != nil && (!l.Start.Finite() || !l.End.Finite()) {
		return errors.New(errors.ErrCodeInvalidScene, "%s %s: non-finite line", e.Tag, e.ID)
	}
	for _, b := range e.Bindings {
		if b.Event == "" || b.Attribute == "" {
			return errors.New(errors.ErrCodeInvalidScene, "%s %s: binding needs event and attribute", e.Tag, e.ID)
		}
		if err := errors.ValidateElementID(b.Target); err != nil {
			return err
		}
	}
	for k := range e.Extra {
		if knownAttributes[k] {
			return errors.New(errors.ErrCodeInvalidScene, "%s %s: extra attribute %q shadows a typed field", e.Tag, e.ID, k)
		}
	}
	return nil
}

// =============================================================================
// JSON
// =============================================================================

type sceneJSON struct {
	Template string    `json:"template,omitempty"`
	Title    string    `json:"title,omitempty"`
	Scripts  []string  `json:"scripts,omitempty"`
	Assets   []*Entity `json:"assets,omitempty"`
	Children []*Entity `json:"children"`
}

type entityJSON struct {
	Tag        string         `json:"tag"`
	Attributes map[string]any `json:"attributes,omitempty"`
	Children   []*Entity      `json:"children,omitempty"`
}

// MarshalJSON encodes the scene in its structural JSON form.
func (s Scene) MarshalJSON() ([]byte, error) {
	children := s.Children
	if children == nil {
		children = []*Entity{}
	}
	return json.Marshal(sceneJSON{
		Template: s.Template,
		Title:    s.Title,
		Scripts:  s.Scripts,
		Assets:   s.Assets,
		Children: children,
	})
}

// MarshalJSON encodes the entity as {tag, attributes, children}.
func (e *Entity) MarshalJSON() ([]byte, error) {
	return json.Marshal(entityJSON{
		Tag:        e.Tag,
		Attributes: e.jsonAttributes(),
		Children:   e.Children,
	})
}

func (e *Entity) jsonAttributes() map[string]any {
	attrs := make(map[string]any, len(e.Extra)+8)
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
		attrs["position"] = *e.Position
	}
	if e.Rotation != nil {
		attrs["rotation"] = *e.Rotation
	}
	if e.Scale != nil {
		attrs["scale"] = *e.Scale
	}
	if e.Color != "" {
		attrs["color"] = e.Color
	}
	if e.Radius != 0 {
		attrs["radius"] = e.Radius
	}
	if g := e.Geometry; g != nil {
		m := map[string]any{}
		putStr(m, "primitive", g.Primitive)
		putNum(m, "width", g.Width)
		putNum(m, "height", g.Height)
		putNum(m, "depth", g.Depth)
		putNum(m, "radius", g.Radius)
		attrs["geometry"] = m
	}
	if mat := e.Material; mat != nil {
		m := map[string]any{}
		putStr(m, "color", mat.Color)
		if mat.Opacity != nil {
			m["opacity"] = *mat.Opacity
		}
		if mat.Transparent {
			m["transparent"] = true
		}
		putStr(m, "shader", mat.Shader)
		attrs["material"] = m
	}
	if t := e.Text; t != nil {
		m := map[string]any{"value": t.Value}
		putStr(m, "align", t.Align)
		putStr(m, "anchor", t.Anchor)
		putStr(m, "color", t.Color)
		putNum(m, "width", t.Width)
		attrs["text"] = m
	}
	if l := e.Line; l != nil {
		m := map[string]any{"start": l.Start, "end": l.End}
		putStr(m, "color", l.Color)
		attrs["line"] = m
	}
	if e.Visible != nil {
		attrs["visible"] = *e.Visible
	}
	if len(e.Bindings) > 0 {
		attrs["bindings"] = e.Bindings
	}
	if len(attrs) == 0 {
		return nil
	}
	return attrs
}

func putStr(m map[string]any, k, v string) {
	if v != "" {
		m[k] = v
	}
}

func putNum(m map[string]any, k string, v float64) {
	if v != 0 {
		m[k] = v
	}
}

// Script URLs for the A-Frame runtime and the components vrplot emits.
const (
	AFrameScript      = "https://aframe.io/releases/1.5.0/aframe.min.js"
	EventSetScript    = "https://unpkg.com/aframe-event-set-component@5.0.0/dist/aframe-event-set-component.min.js"
	EnvironmentScript = "https://unpkg.com/aframe-environment-component@1.3.3/dist/aframe-environment-component.min.js"
)

// Scripts returns the scripts needed to render a scene that uses bindings
// and, when template is non-empty, an environment preset.
func Scripts(template string) []string {
	s := []string{AFrameScript, EventSetScript}
	if template != "" {
		s = append(s, EnvironmentScript)
	}
	return s
}

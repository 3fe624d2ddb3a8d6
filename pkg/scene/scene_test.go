package scene

import (
	"encoding/json"
	"math"
	"strings"
	"testing"

	"github.com/matzehuels/vrplot/pkg/errors"
)

func TestVec3String(t *testing.T) {
	tests := []struct {
		name string
		v    Vec3
		want string
	}{
		{"integers", Vec3{0, 1, -2}, "0 1 -2"},
		{"fractions", Vec3{0.5, 0.25, 1.1}, "0.5 0.25 1.1"},
		{"noise rounded", Vec3{0.1 + 0.2, 0, 0}, "0.3 0 0"},
		{"negative zero", Vec3{math.Copysign(0, -1), 0, 0}, "0 0 0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.v.String(); got != tt.want {
				t.Errorf("String() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestVec3JSON(t *testing.T) {
	data, err := json.Marshal(Vec3{1, 2, 3})
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "[1,2,3]" {
		t.Errorf("Marshal = %s, want [1,2,3]", data)
	}

	var v Vec3
	if err := json.Unmarshal([]byte("[4,5,6]"), &v); err != nil {
		t.Fatal(err)
	}
	if v != (Vec3{4, 5, 6}) {
		t.Errorf("Unmarshal = %v", v)
	}
}

func TestAttributes(t *testing.T) {
	e := &Entity{
		Tag:      "a-entity",
		ID:       "marker",
		Position: Vec(1, 0, 0),
		Geometry: &Geometry{Primitive: "box", Width: 0.1, Height: 0.1, Depth: 0.1},
		Material: &Material{Color: "#FF0000", Opacity: Float(0), Transparent: true},
		Text:     &Text{Value: "a;b", Align: "right"},
		Visible:  Bool(false),
		Extra:    map[string]string{"scatterplot": "x: mpg"},
	}

	attrs := e.Attributes()
	want := map[string]string{
		"id":          "marker",
		"position":    "1 0 0",
		"geometry":    "primitive: box; width: 0.1; height: 0.1; depth: 0.1",
		"material":    "color: #FF0000; opacity: 0; transparent: true",
		"text":        "value: a,b; align: right",
		"visible":     "false",
		"scatterplot": "x: mpg",
	}
	if len(attrs) != len(want) {
		t.Errorf("got %d attributes, want %d: %v", len(attrs), len(want), attrs)
	}
	for k, v := range want {
		if attrs[k] != v {
			t.Errorf("attrs[%q] = %q, want %q", k, attrs[k], v)
		}
	}
}

func TestBindingAttributes(t *testing.T) {
	e := &Entity{
		Tag: "a-sphere",
		Bindings: []Binding{
			{Event: "click", Target: "label-view", Attribute: "visible", Value: "true"},
			{Event: "click", Target: "label-view", Attribute: "text.value", Value: "Mazda RX4"},
			{Event: "mouseleave", Target: "label-view", Attribute: "visible", Value: "false"},
			{Event: "click", Target: "other", Attribute: "visible", Value: "true"},
		},
	}

	attrs := e.Attributes()
	want := map[string]string{
		"event-set__click":      "_event: click; _target: #label-view; visible: true; text.value: Mazda RX4",
		"event-set__mouseleave": "_event: mouseleave; _target: #label-view; visible: false",
		"event-set__click_2":    "_event: click; _target: #other; visible: true",
	}
	for k, v := range want {
		if attrs[k] != v {
			t.Errorf("attrs[%q] = %q, want %q", k, attrs[k], v)
		}
	}
}

func TestAttributeNames(t *testing.T) {
	names := AttributeNames(map[string]string{"radius": "1", "id": "a", "color": "red", "class": "c"})
	want := []string{"id", "class", "color", "radius"}
	if strings.Join(names, ",") != strings.Join(want, ",") {
		t.Errorf("AttributeNames = %v, want %v", names, want)
	}
}

func testScene() *Scene {
	return &Scene{
		Title: "test",
		Children: []*Entity{
			{Tag: "a-text", ID: "label-view", Visible: Bool(false), Text: &Text{}},
			{
				Tag: "a-entity",
				ID:  "plot",
				Children: []*Entity{
					{Tag: "a-sphere", ID: "p1", Bindings: []Binding{{Event: "click", Target: "label-view", Attribute: "visible", Value: "true"}}},
					{Tag: "a-sphere", ID: "p2"},
				},
			},
		},
	}
}

func TestSceneFindCount(t *testing.T) {
	s := testScene()
	if e := s.Find("p2"); e == nil || e.Tag != "a-sphere" {
		t.Errorf("Find(p2) = %v", e)
	}
	if e := s.Find("missing"); e != nil {
		t.Errorf("Find(missing) = %v, want nil", e)
	}
	n := s.Count(func(e *Entity) bool { return e.Tag == "a-sphere" })
	if n != 2 {
		t.Errorf("Count(spheres) = %d, want 2", n)
	}
}

func TestSceneValidate(t *testing.T) {
	if err := testScene().Validate(); err != nil {
		t.Fatalf("valid scene: %v", err)
	}

	tests := []struct {
		name   string
		mutate func(s *Scene)
	}{
		{"missing target", func(s *Scene) { s.Children[0].ID = "renamed" }},
		{"empty tag", func(s *Scene) { s.Children[1].Children[1].Tag = "" }},
		{"nan position", func(s *Scene) { s.Children[1].Position = Vec(math.NaN(), 0, 0) }},
		{"negative radius", func(s *Scene) { s.Children[1].Children[1].Radius = -1 }},
		{"opacity out of range", func(s *Scene) { s.Children[1].Material = &Material{Opacity: Float(2)} }},
		{"shadowing extra", func(s *Scene) { s.Children[1].Extra = map[string]string{"position": "0 0 0"} }},
		{"bad target id", func(s *Scene) {
			s.Children[1].Children[1].Bindings = []Binding{{Event: "click", Target: "a b", Attribute: "visible"}}
		}},
		{"infinite line", func(s *Scene) { s.Children[1].Line = &Line{End: Vec3{math.Inf(1), 0, 0}} }},
		{"duplicate id", func(s *Scene) { s.Children[1].Children[1].ID = "p1" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := testScene()
			tt.mutate(s)
			err := s.Validate()
			if err == nil {
				t.Fatal("expected error")
			}
			if !errors.Is(err, errors.ErrCodeInvalidScene) {
				t.Errorf("error code = %v, want %v", errors.GetCode(err), errors.ErrCodeInvalidScene)
			}
		})
	}
}

func TestSceneJSON(t *testing.T) {
	s := Scene{
		Template: "default",
		Title:    "demo",
		Children: []*Entity{{
			Tag:      "a-entity",
			ID:       "axis-x",
			Line:     &Line{Start: Vec3{}, End: Vec3{1, 0, 0}, Color: "#000"},
			Children: []*Entity{{Tag: "a-text", Text: &Text{Value: "mpg"}, Rotation: Vec(0, 90, 0)}},
		}},
	}

	data, err := json.Marshal(s)
	if err != nil {
		t.Fatal(err)
	}

	var decoded struct {
		Template string `json:"template"`
		Title    string `json:"title"`
		Children []struct {
			Tag        string         `json:"tag"`
			Attributes map[string]any `json:"attributes"`
			Children   []struct {
				Tag        string         `json:"tag"`
				Attributes map[string]any `json:"attributes"`
			} `json:"children"`
		} `json:"children"`
	}
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatal(err)
	}

	if decoded.Template != "default" || decoded.Title != "demo" {
		t.Errorf("header = %q/%q", decoded.Template, decoded.Title)
	}
	if len(decoded.Children) != 1 || decoded.Children[0].Tag != "a-entity" {
		t.Fatalf("children = %+v", decoded.Children)
	}
	line, ok := decoded.Children[0].Attributes["line"].(map[string]any)
	if !ok {
		t.Fatalf("line attribute missing: %v", decoded.Children[0].Attributes)
	}
	end, _ := line["end"].([]any)
	if len(end) != 3 || end[0].(float64) != 1 {
		t.Errorf("line.end = %v", line["end"])
	}
	child := decoded.Children[0].Children[0]
	if rot, _ := child.Attributes["rotation"].([]any); len(rot) != 3 || rot[1].(float64) != 90 {
		t.Errorf("rotation = %v", child.Attributes["rotation"])
	}
}

func TestEmptySceneJSON(t *testing.T) {
	data, err := json.Marshal(Scene{})
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != `{"children":[]}` {
		t.Errorf("Marshal(Scene{}) = %s", data)
	}
}

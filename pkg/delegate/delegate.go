// Package delegate builds scenes that hand plotting to the third-party
// aframe-scatterplot component.
//
// The dataset is serialized to JSON records and embedded in the scene as a
// single a-asset-item with a data: URI, so the scene has no file
// dependencies. One a-entity carries the "scatterplot" component; axis
// columns and appearance settings are forwarded to it as opaque
// properties.
//
//	s, err := delegate.Build(ds, delegate.Options{
//	    X: "Sepal.Length", Y: "Sepal.Width", Z: "Petal.Length",
//	    Val: "Petal.Width",
//	})
package delegate

import (
	"encoding/base64"
	"encoding/json"
	"strings"

	"github.com/matzehuels/vrplot/pkg/dataset"
	"github.com/matzehuels/vrplot/pkg/errors"
	"github.com/matzehuels/vrplot/pkg/scene"
)

// Default script locations. They are configuration, not behavior: any
// compatible build of the libraries may be used.
const (
	DefaultD3Script        = "https://d3js.org/d3.v4.min.js"
	DefaultComponentScript = "https://cdn.rawgit.com/zcanter/aframe-scatterplot/master/dist/a-framedc.min.js"
	DefaultColorPreset     = "jet"

	// AssetID is the id of the embedded data asset.
	AssetID = "plot-data"
	// PlotID is the id of the entity carrying the scatterplot component.
	PlotID = "scatterplot"
	// ComponentName is the attribute name of the third-party component.
	ComponentName = "scatterplot"
)

// DefaultPosition places the plot in front of a standing viewer.
var DefaultPosition = scene.Vec3{X: 0, Y: 0, Z: -2}

// Options configures the delegated scene. X, Y, Z and Val name dataset
// columns; labels default to the column names.
type Options struct {
	X, Y, Z string
	Val     string // numeric column driving point colour

	XLabel, YLabel, ZLabel string
	Title                  string // plot title shown by the component
	ColorPreset            string

	Position *scene.Vec3

	SceneTitle string // document title
	Template   string // environment preset

	AFrameScript    string
	D3Script        string
	ComponentScript string
}

// SetDefaults fills unset labels, scripts and appearance settings.
func (o *Options) SetDefaults() {
	if o.XLabel == "" {
		o.XLabel = o.X
	}
	if o.YLabel == "" {
		o.YLabel = o.Y
	}
	if o.ZLabel == "" {
		o.ZLabel = o.Z
	}
	if o.ColorPreset == "" {
		o.ColorPreset = DefaultColorPreset
	}
	if o.AFrameScript == "" {
		o.AFrameScript = scene.AFrameScript
	}
	if o.D3Script == "" {
		o.D3Script = DefaultD3Script
	}
	if o.ComponentScript == "" {
		o.ComponentScript = DefaultComponentScript
	}
}

// Validate checks the options against ds.
func (o *Options) Validate(ds *dataset.Dataset) error {
	for _, c := range []struct{ role, name string }{{"x", o.X}, {"y", o.Y}, {"z", o.Z}, {"val", o.Val}} {
		if c.name == "" {
			return errors.New(errors.ErrCodeInvalidInput, "%s column is required", c.role)
		}
		if !ds.Has(c.name) {
			return errors.New(errors.ErrCodeColumnNotFound, "%s column %q not found (have %v)", c.role, c.name, ds.Columns())
		}
	}
	if ds.Kind(o.Val) != dataset.Numeric {
		return errors.New(errors.ErrCodeColumnType, "val column %q is %s, want numeric", o.Val, ds.Kind(o.Val))
	}
	if o.Position != nil && !o.Position.Finite() {
		return errors.New(errors.ErrCodeInvalidInput, "position %v is not finite", *o.Position)
	}
	return nil
}

// Build embeds ds in a scene driven by the scatterplot component.
// Axis roles are forwarded in order: X to x, Y to y, Z to z.
func Build(ds *dataset.Dataset, opts Options) (scene.Scene, error) {
	if ds == nil || ds.Len() == 0 {
		return scene.Scene{}, errors.New(errors.ErrCodeEmptyInput, "dataset has no rows")
	}
	opts.SetDefaults()
	if err := opts.Validate(ds); err != nil {
		return scene.Scene{}, err
	}

	uri, err := DataURI(ds)
	if err != nil {
		return scene.Scene{}, err
	}
	pos := DefaultPosition
	if opts.Position != nil {
		pos = *opts.Position
	}

	asset := &scene.Entity{
		Tag:   "a-asset-item",
		ID:    AssetID,
		Extra: map[string]string{"src": uri},
	}
	plot := &scene.Entity{
		Tag:      "a-entity",
		ID:       PlotID,
		Position: &pos,
		Extra:    map[string]string{ComponentName: componentValue(opts)},
	}

	scripts := []string{opts.AFrameScript, opts.D3Script, opts.ComponentScript}
	if opts.Template != "" {
		scripts = append(scripts, scene.EnvironmentScript)
	}
	return scene.Scene{
		Template: opts.Template,
		Title:    opts.SceneTitle,
		Scripts:  scripts,
		Assets:   []*scene.Entity{asset},
		Children: []*scene.Entity{plot},
	}, nil
}

// DataURI returns ds as JSON records in a base64 data: URI.
func DataURI(ds *dataset.Dataset) (string, error) {
	data, err := json.Marshal(ds)
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeInternal, err, "encode dataset")
	}
	return "data:application/json;base64," + base64.StdEncoding.EncodeToString(data), nil
}

// componentValue renders the scatterplot component properties in a fixed
// order.
func componentValue(o Options) string {
	props := [][2]string{
		{"src", "#" + AssetID},
		{"x", o.X},
		{"y", o.Y},
		{"z", o.Z},
		{"val", o.Val},
		{"xlabel", o.XLabel},
		{"ylabel", o.YLabel},
		{"zlabel", o.ZLabel},
		{"title", o.Title},
		{"colorpreset", o.ColorPreset},
	}
	parts := make([]string, 0, len(props))
	for _, p := range props {
		if p[1] == "" {
			continue
		}
		parts = append(parts, p[0]+": "+strings.ReplaceAll(p[1], ";", ","))
	}
	return strings.Join(parts, "; ")
}

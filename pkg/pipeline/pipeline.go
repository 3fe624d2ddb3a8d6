// Package pipeline provides the scene pipeline shared by the CLI and the
// scene server.
//
// # Architecture
//
// The pipeline consists of three stages:
//
//  1. Load: Read a dataset from a CSV/JSON file, an http(s) URL or inline data
//  2. Build: Lay out a scatterplot scene, or delegate to the scatterplot
//     component
//  3. Render: Generate output in the requested formats (HTML, JSON)
//
// Each stage can be run independently or as part of the complete pipeline.
// Rendered artifacts are cached by scene content hash.
//
// # Usage
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	opts := pipeline.Options{
//	    Path:    "iris.csv",
//	    X:       "Sepal.Length",
//	    Y:       "Sepal.Width",
//	    Z:       "Petal.Length",
//	    Colour:  "Species",
//	    Formats: []string{"html"},
//	}
//	result, err := runner.Execute(ctx, opts)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	page := result.Artifacts["html"]
package pipeline

import (
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/vrplot/pkg/cache"
	"github.com/matzehuels/vrplot/pkg/dataset"
	"github.com/matzehuels/vrplot/pkg/errors"
	"github.com/matzehuels/vrplot/pkg/palette"
	"github.com/matzehuels/vrplot/pkg/remote"
	"github.com/matzehuels/vrplot/pkg/scatter"
	"github.com/matzehuels/vrplot/pkg/scene"
	"github.com/matzehuels/vrplot/pkg/sink"
)

// =============================================================================
// Default Values - Single Source of Truth for CLI and Server
// =============================================================================

// Build modes.
const (
	// ModeLayout lays out the scatterplot from primitives.
	ModeLayout = "layout"
	// ModeDelegate hands plotting to the aframe-scatterplot component.
	ModeDelegate = "delegate"
)

const (
	// DefaultMode is the default build mode.
	DefaultMode = ModeLayout

	// DefaultPalette is the default palette name.
	DefaultPalette = "rainbow"

	// DefaultFormat is the default output format.
	DefaultFormat = sink.FormatHTML
)

// DefaultDimensions is the default plot cube extent.
var DefaultDimensions = [3]float64{1, 1, 1}

// ValidModes is the set of supported build modes.
var ValidModes = map[string]bool{
	ModeLayout:   true,
	ModeDelegate: true,
}

// Inline data formats.
const (
	DataCSV  = "csv"
	DataJSON = "json"
)

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options contains all configuration for the scene pipeline.
// This struct supports JSON serialization for server requests.
type Options struct {
	// Load options
	Path       string `json:"path,omitempty"`        // dataset file (.csv or .json)
	Data       string `json:"data,omitempty"`        // inline dataset, used instead of Path
	DataFormat string `json:"data_format,omitempty"` // format of Data: csv or json
	Name       string `json:"name,omitempty"`        // dataset name, defaults to the file name

	// Build options
	Mode        string     `json:"mode,omitempty"`
	X           string     `json:"x"`
	Y           string     `json:"y"`
	Z           string     `json:"z"`
	XLabel      string     `json:"xlabel,omitempty"`
	YLabel      string     `json:"ylabel,omitempty"`
	ZLabel      string     `json:"zlabel,omitempty"`
	Colour      string     `json:"colour,omitempty"` // categorical column (layout)
	Size        string     `json:"size,omitempty"`   // radius: a number or a numeric column (layout)
	Label       string     `json:"label,omitempty"`  // point label column (layout)
	Val         string     `json:"val,omitempty"`    // numeric colour column (delegate)
	ColorPreset string     `json:"colorpreset,omitempty"`
	Palette     string     `json:"palette,omitempty"`
	Dimensions  [3]float64 `json:"dimensions,omitempty"`
	Ticks       int        `json:"ticks,omitempty"`
	Title       string     `json:"title,omitempty"`
	Template    string     `json:"template,omitempty"`

	// Render options
	Formats    []string `json:"formats,omitempty"`
	Embedded   bool     `json:"embedded,omitempty"`
	Background string   `json:"background,omitempty"`
	Refresh    bool     `json:"refresh,omitempty"` // bypass the artifact cache

	// Runtime options (not serialized)
	Logger *log.Logger `json:"-"` // overrides the runner's logger for this run

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// Dataset is the loaded input table.
	Dataset *dataset.Dataset

	// Scene is the built scene.
	Scene scene.Scene

	// SceneHash is the content hash of the scene's JSON form.
	SceneHash string

	// Layout summarizes the scatter layout. Nil in delegate mode.
	Layout *scatter.Layout

	// Artifacts contains rendered outputs keyed by format.
	Artifacts map[string][]byte

	// Stats contains timing and size information.
	Stats Stats

	// CacheInfo tracks which stages hit the cache.
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	Rows       int
	Entities   int
	Dropped    int
	LoadTime   time.Duration
	BuildTime  time.Duration
	RenderTime time.Duration
}

// CacheInfo tracks cache hits for each pipeline stage.
type CacheInfo struct {
	RenderHit bool // Whether all artifacts came from cache
}

// =============================================================================
// Validation Functions
// =============================================================================

// ValidateFormats checks that all formats are supported.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := sink.ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

// ValidateMode checks that a build mode is valid.
func ValidateMode(mode string) error {
	if !ValidModes[mode] {
		return errors.New(errors.ErrCodeInvalidMode, "invalid mode: %q (must be one of: layout, delegate)", mode)
	}
	return nil
}

// ValidatePalette checks that a palette name resolves.
func ValidatePalette(name string) error {
	_, err := palette.ByName(name)
	return err
}

// =============================================================================
// Options Methods
// =============================================================================

// ValidateAndSetDefaults checks required fields and applies defaults for the full pipeline.
// This method is idempotent - calling it multiple times has the same effect as calling it once.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if err := o.ValidateForLoad(); err != nil {
		return err
	}
	if err := o.ValidateForBuild(); err != nil {
		return err
	}
	if err := o.ValidateForRender(); err != nil {
		return err
	}
	o.validated = true
	return nil
}

// ValidateForLoad checks that a dataset source is given.
func (o *Options) ValidateForLoad() error {
	switch {
	case o.Data != "":
		if o.DataFormat == "" {
			o.DataFormat = DataCSV
		}
		o.DataFormat = strings.ToLower(o.DataFormat)
		if o.DataFormat != DataCSV && o.DataFormat != DataJSON {
			return errors.New(errors.ErrCodeInvalidDataset, "invalid data_format: %q (must be one of: csv, json)", o.DataFormat)
		}
		if o.Name == "" {
			o.Name = "data"
		}
	case remote.IsURL(o.Path):
		if o.Name == "" {
			o.Name, _ = remote.Name(o.Path)
		}
	case o.Path != "":
		if o.Name == "" {
			o.Name = strings.TrimSuffix(filepath.Base(o.Path), filepath.Ext(o.Path))
		}
	default:
		return errors.New(errors.ErrCodeInvalidInput, "path or data is required")
	}
	return nil
}

// SetBuildDefaults sets default values for scene building.
func (o *Options) SetBuildDefaults() {
	if o.Mode == "" {
		o.Mode = DefaultMode
	}
	if o.Palette == "" {
		o.Palette = DefaultPalette
	}
	if o.Dimensions == ([3]float64{}) {
		o.Dimensions = DefaultDimensions
	}
}

// ValidateForBuild validates and sets defaults for scene building.
func (o *Options) ValidateForBuild() error {
	o.SetBuildDefaults()
	if err := ValidateMode(o.Mode); err != nil {
		return err
	}
	for _, c := range []struct{ role, name string }{{"x", o.X}, {"y", o.Y}, {"z", o.Z}} {
		if c.name == "" {
			return errors.New(errors.ErrCodeInvalidInput, "%s column is required", c.role)
		}
	}
	if o.Mode == ModeDelegate && o.Val == "" {
		return errors.New(errors.ErrCodeInvalidInput, "val column is required in delegate mode")
	}
	return ValidatePalette(o.Palette)
}

// SetRenderDefaults sets default values for rendering and drops repeated
// formats.
func (o *Options) SetRenderDefaults() {
	if len(o.Formats) == 0 {
		o.Formats = []string{DefaultFormat}
	}
	o.Formats = uniqueFormats(o.Formats)
}

// uniqueFormats returns formats without repeats, in first-seen order.
func uniqueFormats(formats []string) []string {
	seen := make(map[string]bool, len(formats))
	out := make([]string, 0, len(formats))
	for _, f := range formats {
		if !seen[f] {
			seen[f] = true
			out = append(out, f)
		}
	}
	return out
}

// ValidateForRender validates and sets defaults for rendering.
func (o *Options) ValidateForRender() error {
	o.SetRenderDefaults()
	return ValidateFormats(o.Formats)
}

// IsDelegate returns true if the scene is drawn by the delegated component.
func (o *Options) IsDelegate() bool {
	return o.Mode == ModeDelegate
}

// ArtifactKeyOpts returns cache key options for artifact rendering.
func (o *Options) ArtifactKeyOpts(format string) cache.ArtifactKeyOpts {
	return cache.ArtifactKeyOpts{
		Format:     format,
		Embedded:   o.Embedded,
		Background: o.Background,
	}
}

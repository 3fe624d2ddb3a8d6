package pipeline

import (
	"strconv"

	"github.com/matzehuels/vrplot/pkg/dataset"
	"github.com/matzehuels/vrplot/pkg/delegate"
	"github.com/matzehuels/vrplot/pkg/errors"
	"github.com/matzehuels/vrplot/pkg/palette"
	"github.com/matzehuels/vrplot/pkg/scatter"
	"github.com/matzehuels/vrplot/pkg/scene"
)

// Build turns ds into a scene according to opts.Mode. The layout summary
// is nil in delegate mode.
func Build(ds *dataset.Dataset, opts Options) (scene.Scene, *scatter.Layout, error) {
	if err := opts.ValidateForBuild(); err != nil {
		return scene.Scene{}, nil, err
	}
	if opts.IsDelegate() {
		s, err := delegate.Build(ds, DelegateOptions(opts))
		return s, nil, err
	}

	in, err := ScatterInput(ds, opts)
	if err != nil {
		return scene.Scene{}, nil, err
	}
	l, err := scatter.BuildLayout(in)
	if err != nil {
		return scene.Scene{}, nil, err
	}
	return l.Scene, l, nil
}

// ScatterInput maps dataset columns to a scatter layout input.
func ScatterInput(ds *dataset.Dataset, opts Options) (scatter.Input, error) {
	pal, err := palette.ByName(opts.Palette)
	if err != nil {
		return scatter.Input{}, err
	}
	in := scatter.Input{
		Palette:    pal,
		Dimensions: opts.Dimensions,
		Title:      opts.Title,
		Template:   opts.Template,
		Ticks:      opts.Ticks,
	}

	axes := []struct {
		dst          *scatter.Axis
		column, name string
	}{
		{&in.X, opts.X, opts.XLabel},
		{&in.Y, opts.Y, opts.YLabel},
		{&in.Z, opts.Z, opts.ZLabel},
	}
	for _, a := range axes {
		vals, err := ds.Numeric(a.column)
		if err != nil {
			return scatter.Input{}, err
		}
		label := a.name
		if label == "" {
			label = a.column
		}
		*a.dst = scatter.Axis{Label: label, Values: vals}
	}

	if opts.Colour != "" {
		vals, err := ds.Strings(opts.Colour)
		if err != nil {
			return scatter.Input{}, err
		}
		in.Colour = &scatter.Categorical{Label: opts.Colour, Values: vals}
	}

	if in.Sizes, err = sizes(ds, opts.Size); err != nil {
		return scatter.Input{}, err
	}

	switch {
	case opts.Label != "":
		if in.Labels, err = ds.Strings(opts.Label); err != nil {
			return scatter.Input{}, err
		}
	case ds.Has(dataset.RowNamesColumn):
		in.Labels, _ = ds.Strings(dataset.RowNamesColumn)
	}
	return in, nil
}

// sizes resolves a size option: empty, a number, or a numeric column.
func sizes(ds *dataset.Dataset, size string) ([]float64, error) {
	if size == "" {
		return nil, nil
	}
	if ds.Has(size) {
		return ds.Numeric(size)
	}
	r, err := strconv.ParseFloat(size, 64)
	if err != nil {
		return nil, errors.New(errors.ErrCodeInvalidInput, "size %q is neither a number nor a column", size)
	}
	return []float64{r}, nil
}

// DelegateOptions maps pipeline options to delegated-component options.
func DelegateOptions(opts Options) delegate.Options {
	return delegate.Options{
		X:           opts.X,
		Y:           opts.Y,
		Z:           opts.Z,
		Val:         opts.Val,
		XLabel:      opts.XLabel,
		YLabel:      opts.YLabel,
		ZLabel:      opts.ZLabel,
		Title:       opts.Title,
		ColorPreset: opts.ColorPreset,
		SceneTitle:  opts.Title,
		Template:    opts.Template,
	}
}

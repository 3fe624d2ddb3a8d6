package cli

import (
	"context"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/matzehuels/vrplot/pkg/errors"
	"github.com/matzehuels/vrplot/pkg/pipeline"
	"github.com/matzehuels/vrplot/pkg/remote"
	"github.com/matzehuels/vrplot/pkg/sink"
)

// sceneFlags holds the flags shared by build, delegate and serve.
type sceneFlags struct {
	opts    pipeline.Options
	dims    string
	formats string
	output  string
}

// register adds the flags common to every scene-producing command.
func (f *sceneFlags) register(fs *pflag.FlagSet) {
	fs.StringVarP(&f.opts.X, "x", "x", "", "column for the x axis (required)")
	fs.StringVarP(&f.opts.Y, "y", "y", "", "column for the y axis (required)")
	fs.StringVarP(&f.opts.Z, "z", "z", "", "column for the z axis (required)")
	fs.StringVar(&f.opts.XLabel, "xlabel", "", "x axis label (default: column name)")
	fs.StringVar(&f.opts.YLabel, "ylabel", "", "y axis label (default: column name)")
	fs.StringVar(&f.opts.ZLabel, "zlabel", "", "z axis label (default: column name)")
	fs.StringVar(&f.opts.Title, "title", "", "scene title")
	fs.StringVar(&f.opts.Template, "template", "", "environment preset, e.g. forest or starry")
	fs.StringVar(&f.opts.Background, "background", "", "scene background colour when no template is set")
	fs.BoolVar(&f.opts.Embedded, "embedded", false, "render an embedded scene for use inside a page")
}

// registerLayout adds the flags of the scatter layout mode.
func (f *sceneFlags) registerLayout(fs *pflag.FlagSet) {
	fs.StringVarP(&f.opts.Colour, "colour", "c", "", "categorical column that colours points")
	fs.StringVar(&f.opts.Size, "size", "", "point radius: a number or a numeric column")
	fs.StringVar(&f.opts.Label, "label", "", "column of point labels (default: row names)")
	fs.StringVarP(&f.opts.Palette, "palette", "p", "", "palette name or gradient:#from:#to (default: rainbow)")
	fs.StringVar(&f.dims, "dims", "", "plot extent along x,y,z (default: 1,1,1)")
	fs.IntVar(&f.opts.Ticks, "ticks", 0, "tick marks per axis")
}

// registerDelegate adds the flags of the delegated component mode.
func (f *sceneFlags) registerDelegate(fs *pflag.FlagSet) {
	fs.StringVar(&f.opts.Val, "val", "", "numeric column that colours points (required)")
	fs.StringVar(&f.opts.ColorPreset, "colorpreset", "", "component colour preset (default: jet)")
}

// registerOutput adds the flags of commands that write files.
func (f *sceneFlags) registerOutput(fs *pflag.FlagSet) {
	fs.StringVarP(&f.formats, "format", "f", "", "output format(s): html (default), json (comma-separated)")
	fs.StringVarP(&f.output, "output", "o", "", "output file (single format) or base path (multiple)")
	fs.BoolVar(&f.opts.Refresh, "refresh", false, "ignore cached artifacts")
}

// options resolves the flags and config into pipeline options for path.
func (f *sceneFlags) options(cfg Config, mode, path string) (pipeline.Options, error) {
	opts := f.opts
	opts.Mode = mode
	opts.Path = path
	opts.Formats = parseFormats(f.formats)
	if f.dims != "" {
		dims, err := parseDims(f.dims)
		if err != nil {
			return opts, err
		}
		opts.Dimensions = dims
	}
	cfg.Apply(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return opts, err
	}
	return opts, nil
}

// parseDims parses "x,y,z" into positive finite extents.
func parseDims(s string) ([3]float64, error) {
	var dims [3]float64
	parts := strings.Split(s, ",")
	if len(parts) != 3 {
		return dims, errors.New(errors.ErrCodeInvalidInput, "invalid --dims %q: want three comma-separated numbers", s)
	}
	for i, p := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil || v <= 0 || math.IsInf(v, 0) || math.IsNaN(v) {
			return dims, errors.New(errors.ErrCodeInvalidInput, "invalid --dims %q: %q is not a positive number", s, p)
		}
		dims[i] = v
	}
	return dims, nil
}

// =============================================================================
// Commands
// =============================================================================

// buildCommand creates the build command for the scatter layout mode.
func (c *CLI) buildCommand() *cobra.Command {
	var f sceneFlags

	cmd := &cobra.Command{
		Use:   "build [data.csv|data.json|url]",
		Short: "Build a 3D scatterplot scene from a dataset",
		Long: `Build a 3D scatterplot scene from a dataset.

Each row becomes a sphere placed in a cube whose edges span the observed
range of the x, y and z columns. Points can be coloured by a categorical
column, in which case a legend is added beside the plot.

The dataset may be a local file or an http(s) URL. Fetched datasets and
rendered results are cached locally for faster subsequent runs.`,
		Example: `  vrplot build iris.csv -x Sepal.Length -y Sepal.Width -z Petal.Length -c Species
  vrplot build iris.csv -x Sepal.Length -y Sepal.Width -z Petal.Length --palette viridis -f html,json -o out/iris`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := f.options(c.Config, pipeline.ModeLayout, args[0])
			if err != nil {
				return err
			}
			return c.runBuild(cmd.Context(), opts, f.output)
		},
	}

	f.register(cmd.Flags())
	f.registerLayout(cmd.Flags())
	f.registerOutput(cmd.Flags())
	return cmd
}

// delegateCommand creates the delegate command for the component mode.
func (c *CLI) delegateCommand() *cobra.Command {
	var f sceneFlags

	cmd := &cobra.Command{
		Use:   "delegate [data.csv|data.json]",
		Short: "Build a scene that delegates layout to the scatterplot component",
		Long: `Build a scene that delegates layout to the aframe-scatterplot component.

The dataset is embedded in the page as a JSON data URI and the component
reads the x, y, z and val columns in the browser.`,
		Example: `  vrplot delegate iris.csv -x Sepal.Length -y Sepal.Width -z Petal.Length --val Petal.Width`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := f.options(c.Config, pipeline.ModeDelegate, args[0])
			if err != nil {
				return err
			}
			return c.runBuild(cmd.Context(), opts, f.output)
		},
	}

	f.register(cmd.Flags())
	f.registerDelegate(cmd.Flags())
	f.registerOutput(cmd.Flags())
	return cmd
}

// runBuild executes the pipeline and writes the artifacts.
func (c *CLI) runBuild(ctx context.Context, opts pipeline.Options, output string) error {
	runner, err := c.newRunner(ctx)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	logger := loggerFromContext(ctx)
	opts.Logger = logger
	prog := newProgress(logger)

	spinner := newSpinner(ctx, fmt.Sprintf("Building %s...", filepath.Base(opts.Path)))
	spinner.Start()
	result, err := runner.Execute(ctx, opts)
	if err != nil {
		spinner.StopWithError("Build failed")
		return err
	}
	spinner.Stop()
	prog.done("Built scene")

	printSuccess("Built %s", opts.Name)
	printStats(result.Stats.Rows, result.Stats.Entities, result.Stats.Dropped, result.CacheInfo.RenderHit)
	if result.Stats.Dropped > 0 {
		printWarning("%d rows with missing coordinates were not drawn", result.Stats.Dropped)
	}
	if result.Layout != nil && len(result.Layout.Levels) > 0 {
		printDetail("levels: %s", strings.Join(result.Layout.Levels, ", "))
	}

	input := opts.Path
	if remote.IsURL(input) {
		input = opts.Name
	}
	paths, err := writeArtifacts(result.Artifacts, opts.Formats, input, output)
	if err != nil {
		return err
	}
	for _, p := range paths {
		printFile(p)
	}
	if slices.Contains(opts.Formats, sink.FormatHTML) {
		printNextStep("Serve it", fmt.Sprintf("%s serve %s -x %s -y %s -z %s", appName, opts.Path, opts.X, opts.Y, opts.Z))
	}
	return nil
}

// =============================================================================
// Output
// =============================================================================

// writeArtifacts writes one file per format and returns the paths written.
// A single format with an explicit output path is written there verbatim;
// otherwise files are named <base>.<format>. A derived name that would
// replace the input becomes <base>.scene.<format>; an explicit one is an
// error. Nothing is written unless every path is safe.
func writeArtifacts(artifacts map[string][]byte, formats []string, input, output string) ([]string, error) {
	base := basePath(output, input)
	paths := make([]string, 0, len(formats))
	for _, format := range formats {
		path := base + sink.Ext(format)
		if len(formats) == 1 && output != "" && filepath.Ext(output) != "" {
			path = output
		}
		if samePath(path, input) {
			if output != "" {
				return nil, errors.New(errors.ErrCodeInvalidPath, "output %s would overwrite the input", path)
			}
			path = base + ".scene" + sink.Ext(format)
		}
		paths = append(paths, path)
	}

	for i, format := range formats {
		path := paths[i]
		if dir := filepath.Dir(path); dir != "." {
			if err := os.MkdirAll(dir, 0755); err != nil {
				return paths[:i], fmt.Errorf("create %s: %w", dir, err)
			}
		}
		if err := os.WriteFile(path, artifacts[format], 0644); err != nil {
			return paths[:i], fmt.Errorf("write %s: %w", path, err)
		}
	}
	return paths, nil
}

// samePath reports whether a and b name the same file.
func samePath(a, b string) bool {
	if a == "" || b == "" {
		return false
	}
	fa, errA := os.Stat(a)
	fb, errB := os.Stat(b)
	if errA == nil && errB == nil {
		return os.SameFile(fa, fb)
	}
	absA, errA := filepath.Abs(a)
	absB, errB := filepath.Abs(b)
	return errA == nil && errB == nil && absA == absB
}

// basePath derives the output base path. An empty output strips the input's
// extension; a known format extension on output is stripped too.
func basePath(output, input string) string {
	if output == "" {
		return strings.TrimSuffix(input, filepath.Ext(input))
	}
	ext := filepath.Ext(output)
	if sink.ValidateFormat(strings.TrimPrefix(ext, ".")) == nil {
		return strings.TrimSuffix(output, ext)
	}
	return output
}

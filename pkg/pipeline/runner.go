package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/vrplot/pkg/cache"
	"github.com/matzehuels/vrplot/pkg/dataset"
	"github.com/matzehuels/vrplot/pkg/observability"
	"github.com/matzehuels/vrplot/pkg/remote"
	"github.com/matzehuels/vrplot/pkg/scatter"
	"github.com/matzehuels/vrplot/pkg/scene"
)

// Runner encapsulates pipeline execution with caching.
// Both CLI and server use this to avoid duplicating caching logic.
//
// The Runner is stateless except for the cache and logger - it doesn't
// store pipeline results. Multiple goroutines can safely use the same
// Runner with different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Remote *remote.Client
	Logger *log.Logger
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		Remote: remote.NewClient(c, keyer),
		Logger: logger,
	}
}

// Execute runs the complete load → build → render pipeline with caching.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}
	r.applyLogger(&opts)
	logger := opts.Logger

	result := &Result{}

	// Stage 1: Load
	loadStart := time.Now()
	ds, err := r.Load(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("load: %w", err)
	}
	result.Dataset = ds
	result.Stats.LoadTime = time.Since(loadStart)
	result.Stats.Rows = ds.Len()

	logger.Info("loaded dataset",
		"name", ds.Name(),
		"rows", ds.Len(),
		"columns", len(ds.Columns()),
		"duration", result.Stats.LoadTime)

	// Stage 2: Build
	buildStart := time.Now()
	s, layout, err := r.Build(ctx, ds, opts)
	if err != nil {
		return nil, fmt.Errorf("build: %w", err)
	}
	result.Scene = s
	result.Layout = layout
	result.Stats.BuildTime = time.Since(buildStart)
	result.Stats.Entities = s.Count(func(*scene.Entity) bool { return true })
	if layout != nil {
		result.Stats.Dropped = len(layout.Dropped)
		for _, row := range layout.Dropped {
			logger.Warn("row not drawn: missing coordinate", "row", row+1)
		}
	}

	logger.Info("built scene",
		"mode", opts.Mode,
		"entities", result.Stats.Entities,
		"duration", result.Stats.BuildTime)

	// Stage 3: Render
	renderStart := time.Now()
	artifacts, hash, renderHit, err := r.RenderWithCacheInfo(ctx, s, opts)
	if err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	result.Artifacts = artifacts
	result.SceneHash = hash
	result.Stats.RenderTime = time.Since(renderStart)
	result.CacheInfo.RenderHit = renderHit

	logger.Info("rendered outputs",
		"formats", opts.Formats,
		"cached", renderHit,
		"duration", result.Stats.RenderTime)

	return result, nil
}

// Load reads the dataset and reports the stage to the pipeline hooks.
func (r *Runner) Load(ctx context.Context, opts Options) (*dataset.Dataset, error) {
	hooks := observability.Pipeline()
	src := source(opts)
	hooks.OnLoadStart(ctx, src)
	start := time.Now()

	var (
		ds  *dataset.Dataset
		err error
	)
	if opts.Data == "" && remote.IsURL(opts.Path) {
		ds, err = r.loadRemote(ctx, opts)
	} else {
		ds, err = Load(opts)
	}
	rows := 0
	if ds != nil {
		rows = ds.Len()
	}
	hooks.OnLoadComplete(ctx, src, rows, time.Since(start), err)
	return ds, err
}

// loadRemote fetches a dataset over HTTP. The format comes from the URL's
// extension, falling back to DataFormat and then CSV.
func (r *Runner) loadRemote(ctx context.Context, opts Options) (*dataset.Dataset, error) {
	if err := opts.ValidateForLoad(); err != nil {
		return nil, err
	}
	data, err := r.Remote.Fetch(ctx, opts.Path, opts.Refresh)
	if err != nil {
		return nil, err
	}
	_, ext := remote.Name(opts.Path)
	if ext != ".csv" && ext != ".json" {
		ext = "." + DataCSV
		if opts.DataFormat != "" {
			ext = "." + strings.ToLower(opts.DataFormat)
		}
	}
	return dataset.Parse(opts.Name, ext, data)
}

// Build builds the scene and reports the stage to the pipeline hooks.
func (r *Runner) Build(ctx context.Context, ds *dataset.Dataset, opts Options) (scene.Scene, *scatter.Layout, error) {
	hooks := observability.Pipeline()
	hooks.OnBuildStart(ctx, opts.Mode, ds.Len())
	start := time.Now()

	s, l, err := Build(ds, opts)
	entities := 0
	if err == nil {
		entities = s.Count(func(*scene.Entity) bool { return true })
	}
	hooks.OnBuildComplete(ctx, opts.Mode, entities, time.Since(start), err)
	return s, l, err
}

// RenderWithCacheInfo generates artifacts with caching and returns the
// scene hash and whether every artifact came from the cache.
func (r *Runner) RenderWithCacheInfo(ctx context.Context, s scene.Scene, opts Options) (map[string][]byte, string, bool, error) {
	if err := opts.ValidateForRender(); err != nil {
		return nil, "", false, err
	}
	r.applyLogger(&opts)

	// Compute cache key from the scene's structural form
	sceneData, err := json.Marshal(s)
	if err != nil {
		return nil, "", false, fmt.Errorf("serialize scene for cache key: %w", err)
	}
	hash := cache.Hash(sceneData)

	hooks := observability.Cache()
	if !opts.Refresh {
		artifacts := make(map[string][]byte, len(opts.Formats))
		for _, format := range opts.Formats {
			key := r.Keyer.ArtifactKey(hash, opts.ArtifactKeyOpts(format))
			data, hit, err := r.Cache.Get(ctx, key)
			if err != nil || !hit {
				break
			}
			artifacts[format] = data
		}
		if len(artifacts) == len(opts.Formats) {
			hooks.OnCacheHit(ctx, "artifact")
			return artifacts, hash, true, nil
		}
		hooks.OnCacheMiss(ctx, "artifact")
	}

	ph := observability.Pipeline()
	ph.OnRenderStart(ctx, opts.Formats)
	start := time.Now()
	rendered, err := Render(s, opts)
	ph.OnRenderComplete(ctx, opts.Formats, time.Since(start), err)
	if err != nil {
		return nil, "", false, err
	}

	for format, data := range rendered {
		key := r.Keyer.ArtifactKey(hash, opts.ArtifactKeyOpts(format))
		if err := r.Cache.Set(ctx, key, data, cache.TTLArtifact); err != nil {
			opts.Logger.Warn("cache write failed", "format", format, "err", err)
			continue
		}
		hooks.OnCacheSet(ctx, "artifact", len(data))
	}

	return rendered, hash, false, nil
}

// Render is a convenience wrapper that calls RenderWithCacheInfo and discards the cache info.
func (r *Runner) Render(ctx context.Context, s scene.Scene, opts Options) (map[string][]byte, error) {
	artifacts, _, _, err := r.RenderWithCacheInfo(ctx, s, opts)
	return artifacts, err
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}

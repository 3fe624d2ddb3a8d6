// Package server serves built scenes over HTTP.
//
// # Routes
//
//	GET    /                 HTML index of registered scenes
//	GET    /healthz          liveness probe
//	GET    /scenes           JSON list of registered scenes
//	POST   /scenes           build a scene from pipeline options
//	GET    /scenes/{id}      scene as an A-Frame HTML page
//	GET    /scenes/{id}.json scene in its structural JSON form
//	DELETE /scenes/{id}      remove a scene
//
// Scenes are identified by random UUIDs. The registry lives in memory and
// is mirrored to the configured cache, so several servers sharing a Redis
// cache can serve each other's scenes until [cache.TTLScene] expires.
package server

import (
	"context"
	stderrors "errors"
	"net/http"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"

	"github.com/matzehuels/vrplot/pkg/cache"
	"github.com/matzehuels/vrplot/pkg/errors"
	"github.com/matzehuels/vrplot/pkg/pipeline"
	"github.com/matzehuels/vrplot/pkg/sink"
)

const (
	// DefaultAddr is the default listen address.
	DefaultAddr = ":8080"

	// DefaultMaxBodyBytes limits POST /scenes request bodies.
	DefaultMaxBodyBytes = 10 << 20

	shutdownTimeout = 5 * time.Second
)

// Config configures a [Server].
type Config struct {
	Addr   string
	Runner *pipeline.Runner // builds posted scenes; also provides the cache
	Logger *log.Logger

	// DataDir allows POST /scenes to reference dataset files by a path
	// relative to this directory. Empty accepts inline data only.
	DataDir string

	MaxBodyBytes int64
}

// Entry is a registered scene.
type Entry struct {
	ID        uuid.UUID         `json:"id"`
	Title     string            `json:"title,omitempty"`
	Dataset   string            `json:"dataset,omitempty"`
	Mode      string            `json:"mode,omitempty"`
	Rows      int               `json:"rows"`
	CreatedAt time.Time         `json:"created_at"`
	Artifacts map[string][]byte `json:"-"`

	seq uint64
}

// Server is an HTTP server for scenes.
type Server struct {
	cfg    Config
	router chi.Router

	mu     sync.RWMutex
	scenes map[uuid.UUID]*Entry
	seq    uint64
}

// New creates a server. A nil Runner gets a cache-less runner.
func New(cfg Config) *Server {
	if cfg.Addr == "" {
		cfg.Addr = DefaultAddr
	}
	if cfg.Logger == nil {
		cfg.Logger = log.Default()
	}
	if cfg.Runner == nil {
		cfg.Runner = pipeline.NewRunner(nil, nil, cfg.Logger)
	}
	if cfg.MaxBodyBytes <= 0 {
		cfg.MaxBodyBytes = DefaultMaxBodyBytes
	}
	s := &Server{
		cfg:    cfg,
		scenes: make(map[uuid.UUID]*Entry),
	}
	s.router = s.routes()
	return s
}

// Handler returns the server's HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(s.observe)

	r.Get("/", s.handleIndex)
	r.Get("/healthz", s.handleHealth)
	r.Route("/scenes", func(r chi.Router) {
		r.Get("/", s.handleList)
		r.Post("/", s.handleCreate)
		r.Get("/{file}", s.handleScene)
		r.Delete("/{file}", s.handleDelete)
	})
	return r
}

// ListenAndServe serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		s.cfg.Logger.Info("serving scenes", "addr", s.cfg.Addr, "scenes", s.Len())
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		if stderrors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		s.cfg.Logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

// =============================================================================
// Registry
// =============================================================================

// Build runs the pipeline for opts and registers the result. HTML and JSON
// artifacts are always rendered.
func (s *Server) Build(ctx context.Context, opts pipeline.Options) (*Entry, error) {
	opts.Formats = sink.Formats
	res, err := s.cfg.Runner.Execute(ctx, opts)
	if err != nil {
		return nil, err
	}
	return s.Add(ctx, opts, res), nil
}

// Add registers a pipeline result under a new id and mirrors its
// artifacts to the cache.
func (s *Server) Add(ctx context.Context, opts pipeline.Options, res *pipeline.Result) *Entry {
	mode := opts.Mode
	if mode == "" {
		mode = pipeline.DefaultMode
	}
	e := &Entry{
		ID:        uuid.New(),
		Title:     res.Scene.Title,
		Mode:      mode,
		CreatedAt: time.Now().UTC(),
		Artifacts: res.Artifacts,
	}
	if res.Dataset != nil {
		e.Dataset = res.Dataset.Name()
		e.Rows = res.Dataset.Len()
	}

	s.mu.Lock()
	s.seq++
	e.seq = s.seq
	s.scenes[e.ID] = e
	s.mu.Unlock()

	for format, data := range e.Artifacts {
		key := s.cfg.Runner.Keyer.SceneKey(e.ID.String(), format)
		if err := s.cfg.Runner.Cache.Set(ctx, key, data, cache.TTLScene); err != nil {
			s.cfg.Logger.Warn("mirror scene to cache", "id", e.ID, "format", format, "err", err)
		}
	}
	s.cfg.Logger.Info("registered scene", "id", e.ID, "title", e.Title, "rows", e.Rows)
	return e
}

// Get returns the registered entry for id.
func (s *Server) Get(id uuid.UUID) (*Entry, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.scenes[id]
	return e, ok
}

// Artifact returns a scene artifact, falling back to the cache for scenes
// registered by another server.
func (s *Server) Artifact(ctx context.Context, id uuid.UUID, format string) ([]byte, error) {
	if e, ok := s.Get(id); ok {
		if data, ok := e.Artifacts[format]; ok {
			return data, nil
		}
	}
	key := s.cfg.Runner.Keyer.SceneKey(id.String(), format)
	data, hit, err := s.cfg.Runner.Cache.Get(ctx, key)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "read scene %s", id)
	}
	if !hit {
		return nil, errors.New(errors.ErrCodeSceneNotFound, "scene %s not found", id)
	}
	return data, nil
}

// Remove deletes a scene from the registry and the cache.
func (s *Server) Remove(ctx context.Context, id uuid.UUID) bool {
	s.mu.Lock()
	_, ok := s.scenes[id]
	delete(s.scenes, id)
	s.mu.Unlock()

	for _, format := range sink.Formats {
		_ = s.cfg.Runner.Cache.Delete(ctx, s.cfg.Runner.Keyer.SceneKey(id.String(), format))
	}
	return ok
}

// List returns the registered entries, oldest first.
func (s *Server) List() []*Entry {
	s.mu.RLock()
	out := make([]*Entry, 0, len(s.scenes))
	for _, e := range s.scenes {
		out = append(out, e)
	}
	s.mu.RUnlock()
	sort.Slice(out, func(i, j int) bool { return out[i].seq < out[j].seq })
	return out
}

// Len returns the number of registered scenes.
func (s *Server) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.scenes)
}

// resolvePath maps a requested dataset path into DataDir.
func (s *Server) resolvePath(p string) (string, error) {
	if s.cfg.DataDir == "" {
		return "", errors.New(errors.ErrCodeInvalidInput, "file paths are not accepted; send inline data")
	}
	if err := errors.ValidatePath(p); err != nil {
		return "", err
	}
	if filepath.IsAbs(p) {
		return "", errors.New(errors.ErrCodeInvalidPath, "path must be relative to the data directory")
	}
	return filepath.Join(s.cfg.DataDir, filepath.Clean(p)), nil
}

package cli

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/matzehuels/vrplot/pkg/errors"
	"github.com/matzehuels/vrplot/pkg/pipeline"
	"github.com/matzehuels/vrplot/pkg/server"
)

// Cache backends.
const (
	cacheFile  = "file"
	cacheRedis = "redis"
	cacheNone  = "none"
)

// Config holds user defaults read from a TOML or YAML file. Command-line
// flags override every field.
//
// Example config.toml:
//
//	palette = "viridis"
//	dimensions = [2.0, 1.0, 1.0]
//	formats = ["html", "json"]
//
//	[cache]
//	backend = "redis"
//	prefix = "vrplot:"
//
//	[cache.redis]
//	addr = "localhost:6379"
//
//	[server]
//	addr = ":9000"
type Config struct {
	Palette    string      `toml:"palette" yaml:"palette"`
	Dimensions []float64   `toml:"dimensions" yaml:"dimensions"`
	Ticks      int         `toml:"ticks" yaml:"ticks"`
	Template   string      `toml:"template" yaml:"template"`
	Formats    []string    `toml:"formats" yaml:"formats"`
	Background string      `toml:"background" yaml:"background"`
	Cache      CacheConfig `toml:"cache" yaml:"cache"`
	Server     ServeConfig `toml:"server" yaml:"server"`
}

// CacheConfig selects the artifact cache backend.
type CacheConfig struct {
	Backend string      `toml:"backend" yaml:"backend"` // file, redis or none
	Prefix  string      `toml:"prefix" yaml:"prefix"`   // key namespace, e.g. "vrplot:staging:"
	Redis   RedisConfig `toml:"redis" yaml:"redis"`
}

// RedisConfig addresses the Redis cache backend.
type RedisConfig struct {
	Addr     string `toml:"addr" yaml:"addr"`
	Password string `toml:"password" yaml:"password"`
	DB       int    `toml:"db" yaml:"db"`
}

// ServeConfig holds defaults for the serve command.
type ServeConfig struct {
	Addr    string `toml:"addr" yaml:"addr"`
	DataDir string `toml:"data_dir" yaml:"data_dir"`
}

// DefaultConfig returns the configuration used when no file exists.
func DefaultConfig() Config {
	return Config{
		Cache: CacheConfig{
			Backend: cacheFile,
			Redis:   RedisConfig{Addr: "localhost:6379"},
		},
		Server: ServeConfig{Addr: server.DefaultAddr},
	}
}

// LoadConfig reads the config file at path. An empty path reads
// config.toml, config.yaml or config.yml from the config directory if one
// exists. It returns the path actually read, or "" if none was.
func LoadConfig(path string) (Config, string, error) {
	cfg := DefaultConfig()
	if path == "" {
		path = findConfig()
		if path == "" {
			return cfg, "", nil
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, "", errors.Wrap(errors.ErrCodeFileNotFound, err, "config file %s not found", path)
		}
		return cfg, "", errors.Wrap(errors.ErrCodeInvalidConfig, err, "read config %s", path)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &cfg)
	default:
		_, err = toml.Decode(string(data), &cfg)
	}
	if err != nil {
		return cfg, "", errors.Wrap(errors.ErrCodeInvalidConfig, err, "parse config %s", path)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, "", err
	}
	return cfg, path, nil
}

func findConfig() string {
	dir, err := configDir()
	if err != nil {
		return ""
	}
	for _, name := range []string{"config.toml", "config.yaml", "config.yml"} {
		p := filepath.Join(dir, name)
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	return ""
}

// Validate checks the config values.
func (c *Config) Validate() error {
	switch c.Cache.Backend {
	case "":
		c.Cache.Backend = cacheFile
	case cacheFile, cacheRedis, cacheNone:
	default:
		return errors.New(errors.ErrCodeInvalidConfig, "invalid cache backend %q (must be one of: file, redis, none)", c.Cache.Backend)
	}
	if c.Dimensions != nil && len(c.Dimensions) != 3 {
		return errors.New(errors.ErrCodeInvalidConfig, "dimensions must have 3 values, got %d", len(c.Dimensions))
	}
	if c.Palette != "" {
		if err := pipeline.ValidatePalette(c.Palette); err != nil {
			return err
		}
	}
	if err := pipeline.ValidateFormats(c.Formats); err != nil {
		return err
	}
	return nil
}

// Apply fills fields of opts that are still unset from the config.
func (c *Config) Apply(opts *pipeline.Options) {
	if opts.Palette == "" {
		opts.Palette = c.Palette
	}
	if opts.Dimensions == [3]float64{} && len(c.Dimensions) == 3 {
		copy(opts.Dimensions[:], c.Dimensions)
	}
	if opts.Ticks == 0 {
		opts.Ticks = c.Ticks
	}
	if opts.Template == "" {
		opts.Template = c.Template
	}
	if len(opts.Formats) == 0 {
		opts.Formats = c.Formats
	}
	if opts.Background == "" {
		opts.Background = c.Background
	}
}

// Package config loads bintree settings from a TOML or YAML file and the
// environment.
//
// Settings resolve in this order, later sources winning:
//
//  1. [Default] values
//  2. The config file ($XDG_CONFIG_HOME/bintree/config.toml by default)
//  3. BINTREE_* environment variables
//  4. Command-line flags (applied by the CLI)
//
// The file format follows the extension: .toml, or .yaml/.yml.
//
//	[layout]
//	horizontal_spacing = 140
//	padding = 0
//
//	[cache]
//	backend = "redis"
//	redis_addr = "localhost:6379"
package config

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/matzehuels/bintree/pkg/cache"
	"github.com/matzehuels/bintree/pkg/errors"
	"github.com/matzehuels/bintree/pkg/graph"
	"github.com/matzehuels/bintree/pkg/pipeline"
	"github.com/matzehuels/bintree/pkg/tree"
)

// AppName names the config and cache directories.
const AppName = "bintree"

// FileName is the default config file name.
const FileName = "config.toml"

// Server defaults.
const (
	DefaultAddr            = ":8080"
	DefaultReadTimeout     = 10 * time.Second
	DefaultWriteTimeout    = 30 * time.Second
	DefaultShutdownTimeout = 10 * time.Second
	DefaultMaxBodyBytes    = 2 << 20
)

// Environment variables that override file values.
const (
	EnvAddr         = "BINTREE_ADDR"
	EnvCacheBackend = "BINTREE_CACHE_BACKEND"
	EnvCacheDir     = "BINTREE_CACHE_DIR"
	EnvRedisAddr    = "BINTREE_REDIS_ADDR"
	EnvMongoURI     = "BINTREE_MONGO_URI"
)

// =============================================================================
// Config
// =============================================================================

// Config is the complete bintree configuration.
type Config struct {
	Layout LayoutConfig `toml:"layout" yaml:"layout"`
	Render RenderConfig `toml:"render" yaml:"render"`
	Cache  CacheConfig  `toml:"cache" yaml:"cache"`
	Server ServerConfig `toml:"server" yaml:"server"`
}

// LayoutConfig holds the layout constants and input limits.
type LayoutConfig struct {
	HorizontalSpacing float64  `toml:"horizontal_spacing" yaml:"horizontal_spacing"`
	VerticalSpacing   float64  `toml:"vertical_spacing" yaml:"vertical_spacing"`
	Padding           *float64 `toml:"padding" yaml:"padding"`
	MaxHeight         int      `toml:"max_height" yaml:"max_height"`
	MaxTokens         int      `toml:"max_tokens" yaml:"max_tokens"`
	MaxInputBytes     int      `toml:"max_input_bytes" yaml:"max_input_bytes"`
}

// RenderConfig holds rendering defaults.
type RenderConfig struct {
	Style    string   `toml:"style" yaml:"style"`
	NodeSize float64  `toml:"node_size" yaml:"node_size"`
	Formats  []string `toml:"formats" yaml:"formats"`
	Engine   string   `toml:"engine" yaml:"engine"`
}

// CacheConfig selects and configures the cache backend.
type CacheConfig struct {
	Backend string        `toml:"backend" yaml:"backend"`
	Dir     string        `toml:"dir" yaml:"dir"`
	TTL     time.Duration `toml:"ttl" yaml:"ttl"`

	// Scope prefixes every key so several deployments can share a backend.
	Scope string `toml:"scope" yaml:"scope"`

	RedisAddr     string `toml:"redis_addr" yaml:"redis_addr"`
	RedisPassword string `toml:"redis_password" yaml:"redis_password"`
	RedisDB       int    `toml:"redis_db" yaml:"redis_db"`
	RedisPrefix   string `toml:"redis_prefix" yaml:"redis_prefix"`

	MongoURI        string `toml:"mongo_uri" yaml:"mongo_uri"`
	MongoDatabase   string `toml:"mongo_database" yaml:"mongo_database"`
	MongoCollection string `toml:"mongo_collection" yaml:"mongo_collection"`
}

// ServerConfig configures the HTTP API.
type ServerConfig struct {
	Addr            string        `toml:"addr" yaml:"addr"`
	ReadTimeout     time.Duration `toml:"read_timeout" yaml:"read_timeout"`
	WriteTimeout    time.Duration `toml:"write_timeout" yaml:"write_timeout"`
	ShutdownTimeout time.Duration `toml:"shutdown_timeout" yaml:"shutdown_timeout"`
	MaxBodyBytes    int64         `toml:"max_body_bytes" yaml:"max_body_bytes"`
}

// Default returns the built-in configuration. The cache directory is left
// empty and resolved by [Config.CacheOptions].
func Default() *Config {
	padding := tree.DefaultPadding
	return &Config{
		Layout: LayoutConfig{
			HorizontalSpacing: tree.DefaultHorizontalSpacing,
			VerticalSpacing:   tree.DefaultVerticalSpacing,
			Padding:           &padding,
			MaxHeight:         tree.MaxHeight,
			MaxTokens:         pipeline.DefaultMaxTokens,
			MaxInputBytes:     pipeline.DefaultMaxInputBytes,
		},
		Render: RenderConfig{
			Style:    pipeline.DefaultStyle,
			NodeSize: pipeline.DefaultNodeSize,
			Formats:  []string{pipeline.FormatSVG},
			Engine:   pipeline.DefaultEngine,
		},
		Cache: CacheConfig{
			Backend: cache.BackendFile,
		},
		Server: ServerConfig{
			Addr:            DefaultAddr,
			ReadTimeout:     DefaultReadTimeout,
			WriteTimeout:    DefaultWriteTimeout,
			ShutdownTimeout: DefaultShutdownTimeout,
			MaxBodyBytes:    DefaultMaxBodyBytes,
		},
	}
}

// =============================================================================
// Loading
// =============================================================================

// Load reads the config file at path over the defaults and applies the
// environment. An empty path means [DefaultPath]; a missing default file is
// not an error, a missing explicit file is.
func Load(path string) (*Config, error) {
	explicit := path != ""
	if !explicit {
		p, err := DefaultPath()
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "locate config")
		}
		path = p
	}

	cfg := Default()
	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := cfg.decode(path, data); err != nil {
			return nil, err
		}
	case os.IsNotExist(err) && !explicit:
	default:
		return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "read config %s", path)
	}

	cfg.ApplyEnv(os.LookupEnv)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) decode(path string, data []byte) error {
	var err error
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".toml":
		var md toml.MetaData
		md, err = toml.NewDecoder(bytes.NewReader(data)).Decode(c)
		if err == nil {
			if undecoded := md.Undecoded(); len(undecoded) > 0 {
				return errors.New(errors.ErrCodeInvalidConfig, "%s: unknown key %q", path, undecoded[0].String())
			}
		}
	case ".yaml", ".yml":
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err = dec.Decode(c); err == io.EOF {
			err = nil
		}
	default:
		return errors.New(errors.ErrCodeInvalidConfig, "%s: unsupported config format %q (use .toml, .yaml or .yml)", path, ext)
	}
	if err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfig, err, "parse config %s", path)
	}
	return nil
}

// ApplyEnv overrides values from BINTREE_* variables found by lookup.
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) {
	set := func(key string, dst *string) {
		if v, ok := lookup(key); ok && v != "" {
			*dst = v
		}
	}
	set(EnvAddr, &c.Server.Addr)
	set(EnvCacheBackend, &c.Cache.Backend)
	set(EnvCacheDir, &c.Cache.Dir)
	set(EnvRedisAddr, &c.Cache.RedisAddr)
	set(EnvMongoURI, &c.Cache.MongoURI)
}

// Validate checks every section.
func (c *Config) Validate() error {
	l := c.Layout
	if l.HorizontalSpacing <= 0 || l.VerticalSpacing <= 0 {
		return invalid("layout spacing must be positive")
	}
	if l.Padding != nil && *l.Padding < 0 {
		return invalid("layout padding must not be negative")
	}
	if l.MaxHeight < 1 || l.MaxHeight > tree.MaxHeight {
		return invalid("layout max_height must be between 1 and %d", tree.MaxHeight)
	}
	if l.MaxTokens < 0 || l.MaxInputBytes < 0 {
		return invalid("layout limits must not be negative")
	}

	r := c.Render
	if !graph.IsValidStyle(r.Style) {
		return invalid("render style %q is not one of %s", r.Style, strings.Join(graph.ValidStyles, ", "))
	}
	if r.NodeSize <= 0 {
		return invalid("render node_size must be positive")
	}
	if err := pipeline.ValidateFormats(r.Formats); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfig, err, "render formats")
	}
	if err := pipeline.ValidateEngine(r.Engine); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfig, err, "render engine")
	}

	if !cache.IsValidBackend(c.Cache.Backend) {
		return invalid("cache backend %q is not one of %s", c.Cache.Backend, strings.Join(cache.Backends, ", "))
	}
	if c.Cache.Backend == cache.BackendRedis && c.Cache.RedisAddr == "" {
		return invalid("cache backend redis needs redis_addr")
	}
	if c.Cache.Backend == cache.BackendMongo && c.Cache.MongoURI == "" {
		return invalid("cache backend mongo needs mongo_uri")
	}
	if c.Cache.TTL < 0 {
		return invalid("cache ttl must not be negative")
	}

	if c.Server.Addr == "" {
		return invalid("server addr must not be empty")
	}
	if c.Server.MaxBodyBytes <= 0 {
		return invalid("server max_body_bytes must be positive")
	}
	return nil
}

func invalid(format string, args ...any) error {
	return errors.New(errors.ErrCodeInvalidConfig, format, args...)
}

// =============================================================================
// Conversions
// =============================================================================

// TreeConfig returns the layout constants.
func (c *Config) TreeConfig() tree.Config {
	cfg := tree.Config{
		HorizontalSpacing: c.Layout.HorizontalSpacing,
		VerticalSpacing:   c.Layout.VerticalSpacing,
		Padding:           tree.DefaultPadding,
		MaxHeight:         c.Layout.MaxHeight,
	}
	if c.Layout.Padding != nil {
		cfg.Padding = *c.Layout.Padding
	}
	return cfg.WithDefaults()
}

// PipelineOptions returns pipeline options seeded from the layout and
// render sections. Callers fill in Input and override fields from flags.
func (c *Config) PipelineOptions() pipeline.Options {
	tc := c.TreeConfig()
	return pipeline.Options{
		HorizontalSpacing: tc.HorizontalSpacing,
		VerticalSpacing:   tc.VerticalSpacing,
		Padding:           &tc.Padding,
		MaxHeight:         tc.MaxHeight,
		MaxTokens:         c.Layout.MaxTokens,
		MaxInputBytes:     c.Layout.MaxInputBytes,
		Formats:           append([]string(nil), c.Render.Formats...),
		Style:             c.Render.Style,
		NodeSize:          c.Render.NodeSize,
		Engine:            c.Render.Engine,
	}
}

// Keyer returns the cache keyer for the configured scope, or nil for the
// default keyer.
func (c *Config) Keyer() cache.Keyer {
	if c.Cache.Scope == "" {
		return nil
	}
	return cache.NewScopedKeyer(nil, c.Cache.Scope+":")
}

// CacheOptions returns the options for [cache.Open]. An empty directory
// resolves to [CacheDir].
func (c *Config) CacheOptions() (cache.Options, error) {
	dir := c.Cache.Dir
	if dir == "" && (c.Cache.Backend == cache.BackendFile || c.Cache.Backend == cache.BackendBolt) {
		d, err := CacheDir()
		if err != nil {
			return cache.Options{}, fmt.Errorf("get cache dir: %w", err)
		}
		dir = d
	}
	return cache.Options{
		Backend: c.Cache.Backend,
		Dir:     dir,
		Redis: cache.RedisOptions{
			Addr:     c.Cache.RedisAddr,
			Password: c.Cache.RedisPassword,
			DB:       c.Cache.RedisDB,
			Prefix:   c.Cache.RedisPrefix,
		},
		Mongo: cache.MongoOptions{
			URI:        c.Cache.MongoURI,
			Database:   c.Cache.MongoDatabase,
			Collection: c.Cache.MongoCollection,
		},
	}, nil
}

package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/bintree/pkg/cache"
	"github.com/matzehuels/bintree/pkg/errors"
	"github.com/matzehuels/bintree/pkg/graph"
	"github.com/matzehuels/bintree/pkg/observability"
	"github.com/matzehuels/bintree/pkg/tree"
)

// Runner encapsulates pipeline execution with caching.
// The CLI, the terminal view and the API all use it so caching behaves the
// same everywhere.
//
// The Runner is stateless except for the cache and logger - it doesn't
// store pipeline results. Multiple goroutines can safely use the same
// Runner with different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger

	// TTL overrides the layout and artifact lifetimes when positive.
	TTL time.Duration
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
		Logger: logger,
	}
}

// Execute runs the complete parse → render pipeline with caching.
// An empty input yields an empty Result whose artifacts are drawn from the
// empty layout. A validation failure is returned as the error.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}

	result, err := r.Parse(ctx, opts)
	if err != nil {
		return nil, err
	}

	renderStart := time.Now()
	artifacts, renderHit, err := r.RenderWithCacheInfo(ctx, result.Layout, opts)
	if err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	result.Artifacts = artifacts
	result.Stats.RenderTime = time.Since(renderStart)
	result.CacheInfo.RenderHit = renderHit

	r.Logger.Info("rendered outputs",
		"formats", opts.Formats,
		"cached", renderHit,
		"duration", result.Stats.RenderTime)

	return result, nil
}

// Parse validates the input, builds the tree and lays it out, reusing a
// cached layout when one exists for the same canonical input and layout
// constants. Input and capacity failures are returned as *errors.Error
// values for which [errors.IsUserError] holds.
func (r *Runner) Parse(ctx context.Context, opts Options) (*Result, error) {
	if err := opts.ValidateForParse(); err != nil {
		return nil, err
	}

	start := time.Now()
	observability.Pipeline().OnParseStart(ctx, len(opts.Input))

	result, err := r.parse(ctx, opts)
	d := time.Since(start)

	kind := tree.KindInvalid.String()
	var nodes, height int
	if result != nil {
		kind = result.Kind()
		nodes, height = result.Stats.NodeCount, result.Stats.Height
		result.Stats.ParseTime = d
	}
	observability.Pipeline().OnParseComplete(ctx, kind, nodes, height, d, err)

	if err != nil {
		r.Logger.Debug("parse failed", "code", errors.GetCode(err), "error", err)
		return nil, err
	}

	r.Logger.Info("parsed tree",
		"nodes", nodes,
		"height", height,
		"cached", result.CacheInfo.LayoutHit,
		"duration", d)
	return result, nil
}

func (r *Runner) parse(ctx context.Context, opts Options) (*Result, error) {
	cfg := opts.TreeConfig()

	values, err := tree.Tokenize(opts.Input)
	if err != nil {
		return nil, err
	}
	if err := errors.ValidateTokenCount(len(values), opts.MaxTokens); err != nil {
		return nil, err
	}

	root := tree.Build(values)
	if root == nil {
		return &Result{Empty: true, Layout: graph.FromTree(nil, cfg)}, nil
	}

	key := r.Keyer.LayoutKey(cache.Hash([]byte(tree.Format(root))), opts.LayoutKeyOpts())

	if !opts.Refresh {
		if cached, ok := r.cachedLayout(ctx, key); ok {
			return newResult(cached.root, cached.layout, cfg, true), nil
		}
	}

	if err := tree.Layout(root, cfg); err != nil {
		return nil, err
	}
	l := graph.FromTree(root, cfg)

	if data, err := graph.MarshalLayout(l); err == nil {
		r.store(ctx, "layout", key, data, r.ttl(cache.TTLLayout))
	}
	return newResult(root, l, cfg, false), nil
}

type layoutEntry struct {
	root   *tree.Node
	layout graph.Layout
}

// cachedLayout loads and decodes a layout entry. Undecodable entries are
// treated as misses and recomputed.
func (r *Runner) cachedLayout(ctx context.Context, key string) (layoutEntry, bool) {
	data, hit, err := r.Cache.Get(ctx, key)
	if err != nil {
		r.Logger.Warn("cache read failed", "key", key, "error", err)
	}
	if err != nil || !hit {
		observability.Cache().OnCacheMiss(ctx, "layout")
		return layoutEntry{}, false
	}

	l, err := graph.UnmarshalLayout(data)
	if err == nil {
		var root *tree.Node
		if root, err = graph.ToTree(l); err == nil && root != nil {
			observability.Cache().OnCacheHit(ctx, "layout")
			return layoutEntry{root: root, layout: l}, true
		}
	}
	r.Logger.Debug("discarding cached layout", "key", key, "error", err)
	observability.Cache().OnCacheMiss(ctx, "layout")
	return layoutEntry{}, false
}

func newResult(root *tree.Node, l graph.Layout, cfg tree.Config, hit bool) *Result {
	return &Result{
		Tree:   root,
		Size:   tree.Bounds(root, cfg),
		Layout: l,
		Stats: Stats{
			NodeCount: l.NodeCount,
			Height:    l.TreeHeight,
		},
		CacheInfo: CacheInfo{LayoutHit: hit},
	}
}

// RenderWithCacheInfo generates artifacts with caching and returns cache hit info.
func (r *Runner) RenderWithCacheInfo(ctx context.Context, l graph.Layout, opts Options) (map[string][]byte, bool, error) {
	if err := opts.ValidateForRender(); err != nil {
		return nil, false, err
	}

	start := time.Now()
	observability.Pipeline().OnRenderStart(ctx, opts.Formats)
	artifacts, hit, err := r.render(ctx, l, opts)
	observability.Pipeline().OnRenderComplete(ctx, opts.Formats, time.Since(start), err)
	return artifacts, hit, err
}

func (r *Runner) render(ctx context.Context, l graph.Layout, opts Options) (map[string][]byte, bool, error) {
	layoutData, err := graph.MarshalLayout(l)
	if err != nil {
		return nil, false, fmt.Errorf("serialize layout for cache key: %w", err)
	}
	layoutHash := cache.Hash(layoutData)

	// Try to get all formats from cache
	if !opts.Refresh {
		artifacts := make(map[string][]byte, len(opts.Formats))
		for _, format := range opts.Formats {
			key := r.Keyer.ArtifactKey(layoutHash, opts.ArtifactKeyOpts(format))
			data, hit, err := r.Cache.Get(ctx, key)
			if err != nil || !hit {
				observability.Cache().OnCacheMiss(ctx, "artifact")
				break
			}
			observability.Cache().OnCacheHit(ctx, "artifact")
			artifacts[format] = data
		}
		if len(artifacts) == len(opts.Formats) {
			return artifacts, true, nil
		}
	}

	rendered, err := Render(l, opts)
	if err != nil {
		return nil, false, err
	}

	for format, data := range rendered {
		key := r.Keyer.ArtifactKey(layoutHash, opts.ArtifactKeyOpts(format))
		r.store(ctx, "artifact", key, data, r.ttl(cache.TTLArtifact))
	}
	return rendered, false, nil
}

// Render is a convenience wrapper that calls RenderWithCacheInfo and discards the cache hit info.
func (r *Runner) Render(ctx context.Context, l graph.Layout, opts Options) (map[string][]byte, error) {
	artifacts, _, err := r.RenderWithCacheInfo(ctx, l, opts)
	return artifacts, err
}

// StoreArtifact keeps data under id for later retrieval with [Runner.LoadArtifact].
func (r *Runner) StoreArtifact(ctx context.Context, id string, data []byte) error {
	if err := errors.ValidateArtifactID(id); err != nil {
		return err
	}
	if err := r.Cache.Set(ctx, r.Keyer.BlobKey(id), data, cache.TTLBlob); err != nil {
		return fmt.Errorf("store artifact: %w", err)
	}
	observability.Cache().OnCacheSet(ctx, "blob", len(data))
	return nil
}

// LoadArtifact returns the artifact stored under id. A missing artifact
// yields an error with code NOT_FOUND.
func (r *Runner) LoadArtifact(ctx context.Context, id string) ([]byte, error) {
	if err := errors.ValidateArtifactID(id); err != nil {
		return nil, err
	}
	data, hit, err := r.Cache.Get(ctx, r.Keyer.BlobKey(id))
	if err != nil {
		return nil, fmt.Errorf("load artifact: %w", err)
	}
	if !hit {
		observability.Cache().OnCacheMiss(ctx, "blob")
		return nil, errors.New(errors.ErrCodeNotFound, "artifact %s not found", id)
	}
	observability.Cache().OnCacheHit(ctx, "blob")
	return data, nil
}

// store writes a cache entry. Failures are logged, not returned.
func (r *Runner) store(ctx context.Context, keyType, key string, data []byte, ttl time.Duration) {
	if err := r.Cache.Set(ctx, key, data, ttl); err != nil {
		r.Logger.Warn("cache write failed", "key", key, "error", err)
		return
	}
	observability.Cache().OnCacheSet(ctx, keyType, len(data))
}

func (r *Runner) ttl(def time.Duration) time.Duration {
	if r.TTL > 0 {
		return r.TTL
	}
	return def
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

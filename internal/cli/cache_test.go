package cli

import (
	"io"
	"path/filepath"
	"testing"

	"github.com/matzehuels/bintree/pkg/cache"
	"github.com/matzehuels/bintree/pkg/config"
)

func TestCacheLocation(t *testing.T) {
	dir := t.TempDir()

	tests := []struct {
		name    string
		cfg     config.CacheConfig
		want    string
		wantErr bool
	}{
		{"file", config.CacheConfig{Backend: cache.BackendFile, Dir: dir}, dir, false},
		{"bolt", config.CacheConfig{Backend: cache.BackendBolt, Dir: dir}, filepath.Join(dir, cache.BoltFileName), false},
		{"redis", config.CacheConfig{Backend: cache.BackendRedis, RedisAddr: "localhost:6379"}, "redis://localhost:6379", false},
		{"mongo", config.CacheConfig{Backend: cache.BackendMongo, MongoURI: "mongodb://localhost:27017"}, "mongodb://localhost:27017", false},
		{"none", config.CacheConfig{Backend: cache.BackendNone}, "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.Default()
			cfg.Cache = tt.cfg
			c := New(io.Discard, LogInfo)
			c.cfg = cfg

			got, err := c.cacheLocation()
			if (err != nil) != tt.wantErr {
				t.Fatalf("cacheLocation() error = %v, wantErr %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("cacheLocation() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestNewCacheNoCache(t *testing.T) {
	c := New(io.Discard, LogInfo)
	c.cfg = config.Default()
	store, err := c.newCache(t.Context(), true)
	if err != nil {
		t.Fatalf("newCache: %v", err)
	}
	defer store.Close()
	if _, ok := store.(*cache.NullCache); !ok {
		t.Errorf("newCache(noCache) = %T, want *cache.NullCache", store)
	}
}

func TestNewRunnerUsesConfiguredTTL(t *testing.T) {
	c := New(io.Discard, LogInfo)
	c.cfg = config.Default()
	c.cfg.Cache.Backend = cache.BackendBolt
	c.cfg.Cache.Dir = t.TempDir()
	c.cfg.Cache.TTL = 42

	runner, err := c.newRunner(t.Context(), false)
	if err != nil {
		t.Fatalf("newRunner: %v", err)
	}
	defer runner.Close()

	if runner.TTL != 42 {
		t.Errorf("TTL = %v, want 42ns", runner.TTL)
	}
	if _, ok := runner.Cache.(*cache.BoltCache); !ok {
		t.Errorf("Cache = %T, want *cache.BoltCache", runner.Cache)
	}
}

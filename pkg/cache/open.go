package cache

import (
	"context"
	"fmt"
	"path/filepath"
)

// Backend names accepted by Open.
const (
	BackendNone  = "none"
	BackendFile  = "file"
	BackendBolt  = "bolt"
	BackendRedis = "redis"
	BackendMongo = "mongo"
)

// Backends lists every backend name, in display order.
var Backends = []string{BackendFile, BackendBolt, BackendRedis, BackendMongo, BackendNone}

// BoltFileName is the database file the bolt backend keeps inside Dir.
const BoltFileName = "cache.db"

// Options selects and configures a backend.
type Options struct {
	Backend string // One of Backends; empty means BackendFile
	Dir     string // Directory for the file and bolt backends
	Redis   RedisOptions
	Mongo   MongoOptions
}

// Open creates the backend named by opts.Backend.
func Open(ctx context.Context, opts Options) (Cache, error) {
	switch opts.Backend {
	case BackendNone:
		return NewNullCache(), nil
	case BackendFile, "":
		if opts.Dir == "" {
			return nil, fmt.Errorf("file cache: no directory configured")
		}
		c, err := NewFileCache(opts.Dir)
		if err != nil {
			return nil, err
		}
		return c, nil
	case BackendBolt:
		if opts.Dir == "" {
			return nil, fmt.Errorf("bolt cache: no directory configured")
		}
		c, err := NewBoltCache(filepath.Join(opts.Dir, BoltFileName))
		if err != nil {
			return nil, err
		}
		return c, nil
	case BackendRedis:
		c, err := NewRedisCache(ctx, opts.Redis)
		if err != nil {
			return nil, err
		}
		return c, nil
	case BackendMongo:
		c, err := NewMongoCache(ctx, opts.Mongo)
		if err != nil {
			return nil, err
		}
		return c, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownBackend, opts.Backend)
}

// IsValidBackend reports whether name is accepted by Open.
func IsValidBackend(name string) bool {
	for _, b := range Backends {
		if name == b {
			return true
		}
	}
	return false
}

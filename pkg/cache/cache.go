// Package cache stores conversion results between runs.
//
// A [Cache] maps string keys to opaque byte payloads with an optional TTL.
// The pipeline stores rendered artifacts under keys derived from the
// snapshot hash and the settings fingerprint, so an unchanged page with
// unchanged settings is converted once.
//
// # Backends
//
//   - [FileCache]: one JSON file per entry below a directory (CLI default)
//   - [RedisCache]: a shared Redis instance
//   - [MongoCache]: a MongoDB collection with a TTL index
//   - [NullCache]: disables caching
//
// [Open] picks the backend from [config.Cache].
//
// # Keys
//
// A [Keyer] builds keys. [NewScopedKeyer] prefixes every key, which the
// pipeline uses to separate cache entries written by different versions.
package cache

import (
	"context"
	"path/filepath"
	"time"

	"github.com/matzehuels/droidview/pkg/config"
	apperrors "github.com/matzehuels/droidview/pkg/errors"
)

// Cache is a byte store with per-entry expiry.
type Cache interface {
	// Get returns the payload stored under key. A miss is reported as
	// ok == false with a nil error.
	Get(ctx context.Context, key string) (data []byte, ok bool, err error)
	// Set stores data under key. A ttl of zero means no expiry.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// Clearer is implemented by caches that can drop every entry they own.
type Clearer interface {
	Clear(ctx context.Context) error
}

// DefaultDir returns the file cache directory used when none is
// configured.
func DefaultDir(userCacheDir string) string {
	return filepath.Join(userCacheDir, "droidview")
}

// Open connects the backend selected by cfg. fallbackDir is used by the
// file backend when cfg.Dir is empty.
func Open(ctx context.Context, cfg config.Cache, fallbackDir string) (Cache, error) {
	switch cfg.Backend {
	case config.CacheNone:
		return NewNullCache(), nil
	case config.CacheFile, "":
		dir := cfg.Dir
		if dir == "" {
			dir = fallbackDir
		}
		if dir == "" {
			return nil, apperrors.New(apperrors.ErrCodeInvalidSettings, "cache dir is not set")
		}
		c, err := NewFileCache(dir)
		if err != nil {
			return nil, apperrors.Wrap(apperrors.ErrCodeInvalidPath, err, "cache dir %s", dir)
		}
		return c, nil
	case config.CacheRedis:
		c, err := NewRedisCache(ctx, cfg.RedisAddr)
		if err != nil {
			return nil, err
		}
		return c, nil
	case config.CacheMongo:
		c, err := NewMongoCache(ctx, cfg.MongoURI, cfg.MongoDatabase)
		if err != nil {
			return nil, err
		}
		return c, nil
	}
	return nil, apperrors.New(apperrors.ErrCodeInvalidSettings, "invalid cache backend %q", cfg.Backend)
}

// Package cache stores generated layouts and rendered artifacts.
//
// Every backend implements [Cache]: a byte-oriented key/value store with
// per-entry TTLs. Keys are built by a [Keyer] from the generation options,
// so identical requests share an entry regardless of which front-end (CLI,
// HTTP server, TUI) made them.
//
// Backends:
//   - [NullCache]: never stores anything (caching disabled)
//   - [FileCache]: JSON files under a directory, for the CLI
//   - [RedisCache]: a Redis server, for the HTTP server
//   - [MongoCache]: a MongoDB collection with a TTL index
package cache

import (
	"context"
	"time"
)

// Default TTLs per entry kind.
const (
	TTLLayout   = 7 * 24 * time.Hour
	TTLArtifact = 7 * 24 * time.Hour
)

// Cache is a key/value store for serialized pipeline outputs.
//
// Get reports a miss with (nil, false, nil); an error means the backend
// itself failed. A ttl of zero stores the entry without expiry.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// Package cache stores rendered artifacts so that repeated renders of the
// same mind map skip Graphviz and rsvg-convert.
//
// Keys are content hashes of everything that affects the output (see
// [Key]), so entries never go stale; the TTL only bounds disk and memory
// use. Three backends are provided: [FileCache] for the CLI, [RedisCache]
// for servers sharing a Redis instance, and [NullCache] to disable caching.
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"time"
)

// DefaultTTL bounds how long rendered artifacts are kept.
const DefaultTTL = 30 * 24 * time.Hour

// Cache is a byte store keyed by string.
type Cache interface {
	// Get returns the cached data and whether it was found. A miss is not
	// an error.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data under key. A zero ttl means no expiry.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	Delete(ctx context.Context, key string) error
	Close() error
}

// Key derives a cache key from a kind and the values that determine the
// cached content, e.g. Key("mindmap", dot, "svg", 2.0).
func Key(kind string, parts ...any) string {
	data, _ := json.Marshal(parts)
	return kind + ":" + Hash(data)
}

// Hash returns the hex SHA-256 of data.
func Hash(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

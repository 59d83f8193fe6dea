package cache

import (
	"context" // Context for cache operations
	"time"    // TTL durations
)

// Cache is a JSON document cache keyed by string.
// Get reports whether the key existed; absence is not an error.
type Cache interface {
	Get(ctx context.Context, key string, dest any) (bool, error)      // Read and unmarshal a value
	Set(ctx context.Context, key string, value any, ttl time.Duration) error // Marshal and store a value with TTL
	Delete(ctx context.Context, key string) error                     // Remove a key
}

package cache

import (
	"context"       // Context for Redis operations
	"encoding/json" // JSON encoding/decoding
	"time"          // TTL durations

	"github.com/redis/go-redis/v9" // Redis client
)

// Redis implements Cache on top of a Redis client
type Redis struct {
	client *redis.Client // Underlying Redis connection
}

// NewRedis wraps a Redis client as a Cache
func NewRedis(client *redis.Client) *Redis {
	return &Redis{client: client}
}

// Get retrieves a value from Redis and unmarshals it into dest
func (r *Redis) Get(ctx context.Context, key string, dest any) (bool, error) {
	val, err := r.client.Get(ctx, key).Result() // Get value from Redis
	if err == redis.Nil {
		return false, nil // Key does not exist
	} else if err != nil {
		return false, err // Other Redis error
	}
	return true, json.Unmarshal([]byte(val), dest) // Unmarshal JSON into dest
}

// Set sets a value in Redis with a specified TTL
func (r *Redis) Set(ctx context.Context, key string, value any, ttl time.Duration) error {
	b, err := json.Marshal(value) // Marshal value to JSON
	if err != nil {
		return err // Return error if marshaling fails
	}
	return r.client.Set(ctx, key, b, ttl).Err() // Set value in Redis with TTL
}

// Delete deletes a key from Redis
func (r *Redis) Delete(ctx context.Context, key string) error {
	return r.client.Del(ctx, key).Err() // Delete key from Redis
}

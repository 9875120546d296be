// Package rediscache wraps an evidence.Source with a Redis cache so repeated
// queries skip the underlying source. Useful in front of slow or metered
// sources such as remote APIs.
package rediscache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sweetpotato0/sleuth/evidence"
)

// Config holds Redis cache configuration.
type Config struct {
	Addr     string        // Redis server address (e.g., "localhost:6379")
	Password string        // Redis password (if any)
	DB       int           // Redis database number
	Prefix   string        // Key prefix for namespacing
	TTL      time.Duration // Time-to-live for cached results (0 means no expiration)
}

// DefaultConfig returns default Redis cache configuration.
func DefaultConfig() *Config {
	return &Config{
		Addr:   "localhost:6379",
		Prefix: "sleuth:search:",
		TTL:    time.Hour,
	}
}

// Source caches search results from an inner evidence source in Redis.
type Source struct {
	inner  evidence.Source
	client *redis.Client
	prefix string
	ttl    time.Duration
}

// New creates a caching source in front of inner.
func New(inner evidence.Source, config *Config) (*Source, error) {
	if inner == nil {
		return nil, fmt.Errorf("inner source is required")
	}
	if config == nil {
		config = DefaultConfig()
	}

	client := redis.NewClient(&redis.Options{
		Addr:     config.Addr,
		Password: config.Password,
		DB:       config.DB,
	})

	return &Source{
		inner:  inner,
		client: client,
		prefix: config.Prefix,
		ttl:    config.TTL,
	}, nil
}

// Search implements evidence.Source. Cache reads and writes are best-effort:
// a Redis failure falls through to the inner source rather than failing the
// search.
func (s *Source) Search(ctx context.Context, query string) ([]evidence.Record, error) {
	key := s.key(query)

	data, err := s.client.Get(ctx, key).Result()
	if err == nil {
		var records []evidence.Record
		if err := json.Unmarshal([]byte(data), &records); err == nil {
			return records, nil
		}
		// Corrupt entry, drop it and fall through.
		s.client.Del(ctx, key)
	} else if err != redis.Nil {
		// Redis unavailable; serve from the inner source.
	}

	records, err := s.inner.Search(ctx, query)
	if err != nil {
		return nil, err
	}

	if payload, err := json.Marshal(records); err == nil {
		s.client.Set(ctx, key, payload, s.ttl)
	}
	return records, nil
}

// Invalidate drops the cached results for one query.
func (s *Source) Invalidate(ctx context.Context, query string) error {
	if err := s.client.Del(ctx, s.key(query)).Err(); err != nil {
		return fmt.Errorf("failed to invalidate cache entry: %w", err)
	}
	return nil
}

// Close closes the Redis connection.
func (s *Source) Close() error {
	return s.client.Close()
}

// Ping checks if the Redis connection is alive.
func (s *Source) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

func (s *Source) key(query string) string {
	sum := sha256.Sum256([]byte(query))
	return s.prefix + hex.EncodeToString(sum[:])
}

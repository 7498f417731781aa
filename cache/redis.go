package cache

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

// DefaultKeyPrefix is prepended to every key stored in Redis.
const DefaultKeyPrefix = "autoxliff:seen:"

// RedisSet is a Redis-backed SeenSet, for deployments where several worker
// processes share the memo.
type RedisSet struct {
	client    *redis.Client
	ttl       time.Duration
	keyPrefix string
}

// RedisConfig holds configuration for the Redis set.
type RedisConfig struct {
	URL       string // Redis connection URL (e.g., "redis://localhost:6379")
	TTL       int    // TTL in seconds (0 = no expiration)
	KeyPrefix string // Prefix for all keys (default: "autoxliff:seen:")
}

// NewRedisSet connects to Redis and verifies the connection.
func NewRedisSet(cfg RedisConfig) (*RedisSet, error) {
	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, err
	}

	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, err
	}

	return NewRedisSetFromClient(client, cfg.TTL, cfg.KeyPrefix), nil
}

// NewRedisSetFromClient creates a RedisSet from an existing Redis client.
func NewRedisSetFromClient(client *redis.Client, ttlSeconds int, keyPrefix string) *RedisSet {
	if keyPrefix == "" {
		keyPrefix = DefaultKeyPrefix
	}

	ttl := time.Duration(ttlSeconds) * time.Second
	if ttlSeconds <= 0 {
		ttl = 0
	}

	return &RedisSet{
		client:    client,
		ttl:       ttl,
		keyPrefix: keyPrefix,
	}
}

// Seen reports whether key exists in Redis. Connection errors count as
// "not seen", which only costs a redundant catalog check.
func (s *RedisSet) Seen(key string) bool {
	n, err := s.client.Exists(context.Background(), s.keyPrefix+key).Result()
	if err != nil {
		return false
	}
	return n > 0
}

// Mark stores key in Redis.
func (s *RedisSet) Mark(key string) error {
	return s.client.Set(context.Background(), s.keyPrefix+key, "1", s.ttl).Err()
}

// scanCount is the COUNT hint passed to each SCAN call.
const scanCount = 256

// Keys returns the marked keys, without prefix, in lexical order. SCAN
// errors end the walk early; the report is best effort like the memo itself.
func (s *RedisSet) Keys() []string {
	ctx := context.Background()
	var (
		keys   []string
		cursor uint64
	)
	for {
		batch, next, err := s.client.Scan(ctx, cursor, s.keyPrefix+"*", scanCount).Result()
		if err != nil {
			break
		}
		for _, k := range batch {
			keys = append(keys, strings.TrimPrefix(k, s.keyPrefix))
		}
		if next == 0 {
			break
		}
		cursor = next
	}
	sort.Strings(keys)
	return keys
}

// Close closes the Redis connection.
func (s *RedisSet) Close() error {
	return s.client.Close()
}

// Ping tests the Redis connection.
func (s *RedisSet) Ping() error {
	return s.client.Ping(context.Background()).Err()
}

var (
	_ SeenSet   = (*RedisSet)(nil)
	_ KeyLister = (*RedisSet)(nil)
)

package content

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
	"github.com/tartampluch/go-lifestory/internal/config"
)

// RedisSource keeps one JSON string per document under
// lifestory:content:<kind>:<key>.
type RedisSource struct {
	client *redis.Client
}

// OpenRedis connects to the server named by rawURL and pings it.
func OpenRedis(ctx context.Context, rawURL string) (*RedisSource, error) {
	opts, err := redis.ParseURL(rawURL)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", config.ErrRedisURL, err)
	}
	opts.DialTimeout = config.HTTPTimeout

	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("%s: %w", config.ErrRedisPing, err)
	}

	return NewRedisSource(client), nil
}

// NewRedisSource wraps an existing client.
func NewRedisSource(client *redis.Client) *RedisSource {
	return &RedisSource{client: client}
}

// RedisKey is the key a document is stored under.
func RedisKey(kind Kind, key string) string {
	return fmt.Sprintf(config.FormatRedisKey, config.RedisKeyPrefix, kind, key)
}

// Fetch implements Source.
func (s *RedisSource) Fetch(ctx context.Context, kind Kind, key string) ([]byte, Format, error) {
	body, err := s.client.Get(ctx, RedisKey(kind, key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, 0, fmt.Errorf("%w: %s/%s", ErrNotFound, kind, key)
	}
	if err != nil {
		return nil, 0, fmt.Errorf("%s %s/%s: %w", config.ErrContentFetch, kind, key, err)
	}
	return body, FormatJSON, nil
}

// Put implements Writer. Documents never expire.
func (s *RedisSource) Put(ctx context.Context, kind Kind, key string, body []byte) error {
	if err := s.client.Set(ctx, RedisKey(kind, key), body, 0).Err(); err != nil {
		return fmt.Errorf("%s %s/%s: %w", config.ErrContentStore, kind, key, err)
	}
	return nil
}

// Health pings the server.
func (s *RedisSource) Health(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

// Close closes the client.
func (s *RedisSource) Close() error {
	return s.client.Close()
}

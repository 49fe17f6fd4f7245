package cache

import (
	"context"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

const genKey = "taler:cache:gen"

// RedisStore keeps cached query results in redis so several instances share
// one cache. Invalidation bumps a generation counter that prefixes every
// key; stale generations expire on their own TTL. All failures degrade to a
// cache miss, never to a caller-visible error.
type RedisStore struct {
	client *redis.Client
	prefix string
	logger *slog.Logger
}

func NewRedisStore(client *redis.Client, logger *slog.Logger) *RedisStore {
	if logger == nil {
		logger = slog.Default()
	}
	return &RedisStore{client: client, prefix: "taler:cache:", logger: logger}
}

func (s *RedisStore) Get(ctx context.Context, key string) ([]byte, bool) {
	full, err := s.fullKey(ctx, key)
	if err != nil {
		return nil, false
	}
	value, err := s.client.Get(ctx, full).Bytes()
	if err != nil {
		if err != redis.Nil {
			s.logger.Debug("cache get failed", slog.String("error", err.Error()))
		}
		return nil, false
	}
	return value, true
}

func (s *RedisStore) Set(ctx context.Context, key string, value []byte, ttl time.Duration) {
	if ttl <= 0 {
		return
	}
	full, err := s.fullKey(ctx, key)
	if err != nil {
		return
	}
	if err := s.client.Set(ctx, full, value, ttl).Err(); err != nil {
		s.logger.Debug("cache set failed", slog.String("error", err.Error()))
	}
}

func (s *RedisStore) Invalidate(ctx context.Context) {
	if err := s.client.Incr(ctx, genKey).Err(); err != nil {
		s.logger.Debug("cache invalidate failed", slog.String("error", err.Error()))
	}
}

func (s *RedisStore) fullKey(ctx context.Context, key string) (string, error) {
	gen, err := s.client.Get(ctx, genKey).Result()
	if err != nil {
		if err != redis.Nil {
			return "", err
		}
		gen = "0"
	}
	return s.prefix + gen + ":" + key, nil
}

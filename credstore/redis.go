package credstore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisStore persists credentials in Redis, for shared-host deployments
// where several admin processes serve the same operator session. Keys are
// "<prefix>:token" and "<prefix>:user"; writes are whole-record replacements
// inside a transactional pipeline.
type RedisStore struct {
	redis  redis.UniversalClient
	prefix string
	ttl    time.Duration
}

// NewRedisStore creates a RedisStore. prefix namespaces the two keys; ttl of
// zero keeps credentials until an explicit clear.
func NewRedisStore(client redis.UniversalClient, prefix string, ttl time.Duration) *RedisStore {
	if prefix == "" {
		prefix = "emsgate"
	}
	return &RedisStore{
		redis:  client,
		prefix: prefix,
		ttl:    ttl,
	}
}

func (s *RedisStore) tokenKey() string {
	return s.prefix + ":token"
}

func (s *RedisStore) userKey() string {
	return s.prefix + ":user"
}

// Save replaces both keys atomically. An empty User deletes the profile key.
func (s *RedisStore) Save(ctx context.Context, rec Record) error {
	_, err := s.redis.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, s.tokenKey(), rec.Token, s.ttl)
		if len(rec.User) == 0 {
			pipe.Del(ctx, s.userKey())
		} else {
			pipe.Set(ctx, s.userKey(), rec.User, s.ttl)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return nil
}

// Load reads both keys, tolerating either being absent.
func (s *RedisStore) Load(ctx context.Context) (Record, error) {
	var rec Record

	token, err := s.redis.Get(ctx, s.tokenKey()).Result()
	if err != nil && !errors.Is(err, redis.Nil) {
		return Record{}, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	rec.Token = token

	user, err := s.redis.Get(ctx, s.userKey()).Bytes()
	if err != nil && !errors.Is(err, redis.Nil) {
		return Record{}, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	rec.User = user

	return rec, nil
}

// Clear deletes both keys. Deleting absent keys succeeds.
func (s *RedisStore) Clear(ctx context.Context) error {
	if err := s.redis.Del(ctx, s.tokenKey(), s.userKey()).Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return nil
}

// Ping returns a point-in-time Redis availability check and latency.
func (s *RedisStore) Ping(ctx context.Context) (time.Duration, error) {
	start := time.Now()
	if err := s.redis.Ping(ctx).Err(); err != nil {
		return time.Since(start), fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return time.Since(start), nil
}

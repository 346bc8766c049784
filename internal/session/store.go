// Package session manages the Redis-backed token revocation store.
package session

import (
	"context"
	"errors"
	"log"
	"strings"
	"time"

	"recipebox/internal/middleware"

	"github.com/redis/go-redis/v9"
)

type metricsHook struct{}

func (h metricsHook) DialHook(next redis.DialHook) redis.DialHook {
	return next
}

func (h metricsHook) ProcessHook(next redis.ProcessHook) redis.ProcessHook {
	return func(ctx context.Context, cmd redis.Cmder) error {
		err := next(ctx, cmd)
		if err != nil && !errors.Is(err, redis.Nil) {
			middleware.RedisErrors.WithLabelValues(cmd.Name()).Inc()
		}
		return err
	}
}

func (h metricsHook) ProcessPipelineHook(next redis.ProcessPipelineHook) redis.ProcessPipelineHook {
	return func(ctx context.Context, cmds []redis.Cmder) error {
		err := next(ctx, cmds)
		if err != nil && !errors.Is(err, redis.Nil) {
			middleware.RedisErrors.WithLabelValues("pipeline").Inc()
		}
		return err
	}
}

// NewClient builds a Redis client from either a redis:// URL or a host:port
// address. Returns nil when the address is unusable; the store degrades to a
// no-op (tokens then expire only by their own TTL).
func NewClient(addr string) *redis.Client {
	var opts *redis.Options
	if strings.Contains(addr, "://") {
		parsed, err := redis.ParseURL(addr)
		if err != nil {
			log.Printf("Redis connection warning: invalid REDIS_URL %q: %v (continuing without revocation store)", addr, err)
			return nil
		}
		opts = parsed
	} else {
		opts = &redis.Options{Addr: addr}
	}

	client := redis.NewClient(opts)
	client.AddHook(metricsHook{})
	return client
}

// Store tracks revoked token IDs until their natural expiry.
type Store struct {
	client *redis.Client
}

// NewStore wraps a Redis client; client may be nil for a no-op store.
func NewStore(client *redis.Client) *Store {
	return &Store{client: client}
}

const revokedPrefix = "revoked:"

// Revoke blacklists a token ID for the remainder of its lifetime.
func (s *Store) Revoke(ctx context.Context, jti string, ttl time.Duration) error {
	if s.client == nil || jti == "" {
		return nil
	}
	if ttl <= 0 {
		ttl = time.Minute
	}
	return s.client.Set(ctx, revokedPrefix+jti, "1", ttl).Err()
}

// IsRevoked reports whether the token ID has been blacklisted. Lookups fail
// open: an unreachable store never locks every user out.
func (s *Store) IsRevoked(ctx context.Context, jti string) bool {
	if s.client == nil || jti == "" {
		return false
	}
	n, err := s.client.Exists(ctx, revokedPrefix+jti).Result()
	if err != nil {
		return false
	}
	return n > 0
}

// Ping checks connectivity for readiness probes.
func (s *Store) Ping(ctx context.Context) error {
	if s.client == nil {
		return errors.New("revocation store not configured")
	}
	return s.client.Ping(ctx).Err()
}

// Close releases the underlying client.
func (s *Store) Close() error {
	if s.client == nil {
		return nil
	}
	return s.client.Close()
}

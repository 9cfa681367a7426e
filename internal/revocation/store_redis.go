package revocation

import (
	"context"
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/redis/go-redis/v9"

	id "worldvault/pkg/domain"
)

var (
	isRevokedDurationMs = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "worldvault_is_token_revoked_duration_ms",
		Help:    "Latency of token revocation checks in milliseconds",
		Buckets: []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 25},
	})
)

const (
	// Redis key prefix for revoked tokens
	revokedTokenKeyPrefix = "wv:revoked:"
)

// RedisRegistry is a Redis-backed implementation of Registry. This is the
// production-recommended implementation for distributed deployments where
// multiple instances need to share revocation state: a SET on one instance is
// visible to the next GET from any other, which satisfies the no-stale-reads
// requirement without any local caching layer.
type RedisRegistry struct {
	client *redis.Client
}

// NewRedisRegistry constructs a Redis-backed revocation registry.
func NewRedisRegistry(client *redis.Client) *RedisRegistry {
	return &RedisRegistry{client: client}
}

// Revoke adds a token to the registry. Keys carry no TTL: a revocation is
// permanent for the deployment lifetime, unlike session-token revocation
// lists that expire with the token.
func (r *RedisRegistry) Revoke(ctx context.Context, tokenID id.TokenID) error {
	if tokenID.IsZero() {
		return nil
	}
	key := revokedTokenKeyPrefix + tokenID.String()
	// Store "1" as a simple marker; the key existence is what matters
	return r.client.Set(ctx, key, "1", 0).Err()
}

// IsRevoked checks if a token is in the registry.
// Returns false if the key doesn't exist (not revoked).
func (r *RedisRegistry) IsRevoked(ctx context.Context, tokenID id.TokenID) (bool, error) {
	start := time.Now()
	defer func() {
		isRevokedDurationMs.Observe(float64(time.Since(start).Microseconds()) / 1000.0)
	}()

	if tokenID.IsZero() {
		return false, nil
	}
	key := revokedTokenKeyPrefix + tokenID.String()
	_, err := r.client.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

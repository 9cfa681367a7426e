package usage

import (
	"context"
	"fmt"
	"strconv"

	"github.com/redis/go-redis/v9"

	id "worldvault/pkg/domain"
)

const (
	// Redis key prefix for per-token usage hashes
	usageKeyPrefix = "wv:usage:"

	fieldReads  = "reads"
	fieldWrites = "writes"
	fieldBytes  = "bytes"
)

// RedisStore is a Redis-backed ledger for distributed deployments where
// multiple gateway instances must share usage state. HINCRBY inside a
// MULTI/EXEC transaction gives the per-token atomic read-modify-write the
// ledger contract requires.
type RedisStore struct {
	client *redis.Client
}

// NewRedisStore constructs a Redis-backed usage ledger.
func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

func (s *RedisStore) Increment(ctx context.Context, tokenID id.TokenID, action id.Action, bytes int64) (Totals, error) {
	var readInc, writeInc int64
	switch action {
	case id.ActionRead:
		readInc = 1
	case id.ActionWrite:
		writeInc = 1
	}

	key := usageKeyPrefix + tokenID.String()
	pipe := s.client.TxPipeline()
	readsCmd := pipe.HIncrBy(ctx, key, fieldReads, readInc)
	writesCmd := pipe.HIncrBy(ctx, key, fieldWrites, writeInc)
	bytesCmd := pipe.HIncrBy(ctx, key, fieldBytes, bytes)
	if _, err := pipe.Exec(ctx); err != nil {
		return Totals{}, fmt.Errorf("increment usage for %s: %w", tokenID, err)
	}

	return Totals{
		Reads:  readsCmd.Val(),
		Writes: writesCmd.Val(),
		Bytes:  bytesCmd.Val(),
	}, nil
}

func (s *RedisStore) Totals(ctx context.Context, tokenID id.TokenID) (Totals, error) {
	key := usageKeyPrefix + tokenID.String()
	vals, err := s.client.HGetAll(ctx, key).Result()
	if err != nil {
		return Totals{}, fmt.Errorf("read usage for %s: %w", tokenID, err)
	}

	return Totals{
		Reads:  parseCounter(vals[fieldReads]),
		Writes: parseCounter(vals[fieldWrites]),
		Bytes:  parseCounter(vals[fieldBytes]),
	}, nil
}

// parseCounter treats a missing hash field as zero usage.
func parseCounter(v string) int64 {
	if v == "" {
		return 0
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return 0
	}
	return n
}

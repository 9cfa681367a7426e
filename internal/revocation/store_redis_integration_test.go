//go:build integration

package revocation

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	id "worldvault/pkg/domain"
	"worldvault/pkg/testutil/containers"
)

func TestRedisRegistryRevokeAndCheck(t *testing.T) {
	rc := containers.NewRedisContainer(t)
	registry := NewRedisRegistry(rc.Client)
	ctx := context.Background()
	tokenID := id.NewTokenID()

	revoked, err := registry.IsRevoked(ctx, tokenID)
	require.NoError(t, err)
	assert.False(t, revoked)

	require.NoError(t, registry.Revoke(ctx, tokenID))

	// A write must be visible to the very next read.
	revoked, err = registry.IsRevoked(ctx, tokenID)
	require.NoError(t, err)
	assert.True(t, revoked)
}

func TestRedisRegistryRevokeIsIdempotent(t *testing.T) {
	rc := containers.NewRedisContainer(t)
	registry := NewRedisRegistry(rc.Client)
	ctx := context.Background()
	tokenID := id.NewTokenID()

	require.NoError(t, registry.Revoke(ctx, tokenID))
	require.NoError(t, registry.Revoke(ctx, tokenID))

	revoked, err := registry.IsRevoked(ctx, tokenID)
	require.NoError(t, err)
	assert.True(t, revoked)
}

func TestRedisRegistryEntriesHaveNoExpiry(t *testing.T) {
	rc := containers.NewRedisContainer(t)
	registry := NewRedisRegistry(rc.Client)
	ctx := context.Background()
	tokenID := id.NewTokenID()

	require.NoError(t, registry.Revoke(ctx, tokenID))

	ttl, err := rc.Client.TTL(ctx, "wv:revoked:"+tokenID.String()).Result()
	require.NoError(t, err)
	assert.Less(t, ttl.Seconds(), 0.0, "revocation keys must not expire")
}

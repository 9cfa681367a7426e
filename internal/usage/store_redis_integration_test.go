//go:build integration

package usage

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	id "worldvault/pkg/domain"
	"worldvault/pkg/testutil/containers"
)

func TestRedisStoreIncrement(t *testing.T) {
	rc := containers.NewRedisContainer(t)
	store := NewRedisStore(rc.Client)
	ctx := context.Background()
	tokenID := id.NewTokenID()

	totals, err := store.Increment(ctx, tokenID, id.ActionRead, 100)
	require.NoError(t, err)
	assert.EqualValues(t, 1, totals.Reads)
	assert.EqualValues(t, 0, totals.Writes)
	assert.EqualValues(t, 100, totals.Bytes)

	totals, err = store.Increment(ctx, tokenID, id.ActionWrite, 28)
	require.NoError(t, err)
	assert.EqualValues(t, 1, totals.Reads)
	assert.EqualValues(t, 1, totals.Writes)
	assert.EqualValues(t, 128, totals.Bytes)

	read, err := store.Totals(ctx, tokenID)
	require.NoError(t, err)
	assert.Equal(t, totals, read)
}

func TestRedisStoreTotalsForUnknownToken(t *testing.T) {
	rc := containers.NewRedisContainer(t)
	store := NewRedisStore(rc.Client)

	totals, err := store.Totals(context.Background(), id.NewTokenID())
	require.NoError(t, err)
	assert.Equal(t, Totals{}, totals)
}

func TestRedisStoreConcurrentIncrements(t *testing.T) {
	rc := containers.NewRedisContainer(t)
	store := NewRedisStore(rc.Client)
	ctx := context.Background()
	tokenID := id.NewTokenID()

	const goroutines = 20
	const perGoroutine = 10

	var wg sync.WaitGroup
	for i := 0; i < goroutines; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < perGoroutine; j++ {
				_, err := store.Increment(ctx, tokenID, id.ActionRead, 1)
				assert.NoError(t, err)
			}
		}()
	}
	wg.Wait()

	totals, err := store.Totals(ctx, tokenID)
	require.NoError(t, err)
	assert.EqualValues(t, goroutines*perGoroutine, totals.Reads)
	assert.EqualValues(t, goroutines*perGoroutine, totals.Bytes)
}

package usage

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	id "worldvault/pkg/domain"
)

func TestIncrementBooksActionAndBytes(t *testing.T) {
	store := NewInMemoryStore()
	ctx := context.Background()
	tokenID := id.NewTokenID()

	totals, err := store.Increment(ctx, tokenID, id.ActionRead, 100)
	require.NoError(t, err)
	assert.EqualValues(t, 1, totals.Reads)
	assert.EqualValues(t, 0, totals.Writes)
	assert.EqualValues(t, 100, totals.Bytes)

	totals, err = store.Increment(ctx, tokenID, id.ActionWrite, 50)
	require.NoError(t, err)
	assert.EqualValues(t, 1, totals.Reads)
	assert.EqualValues(t, 1, totals.Writes)
	assert.EqualValues(t, 150, totals.Bytes)
}

func TestTotalsWithoutUsageAreZero(t *testing.T) {
	store := NewInMemoryStore()

	totals, err := store.Totals(context.Background(), id.NewTokenID())
	require.NoError(t, err)
	assert.Equal(t, Totals{}, totals)
}

func TestTokensAreCountedIndependently(t *testing.T) {
	store := NewInMemoryStore()
	ctx := context.Background()
	a, b := id.NewTokenID(), id.NewTokenID()

	_, err := store.Increment(ctx, a, id.ActionRead, 10)
	require.NoError(t, err)

	totals, err := store.Totals(ctx, b)
	require.NoError(t, err)
	assert.Equal(t, Totals{}, totals)
}

func TestConcurrentIncrementsLoseNoUpdates(t *testing.T) {
	store := NewInMemoryStore()
	ctx := context.Background()
	tokenID := id.NewTokenID()

	const goroutines = 50
	const perGoroutine = 20

	var wg sync.WaitGroup
	for i := 0; i < goroutines; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < perGoroutine; j++ {
				_, err := store.Increment(ctx, tokenID, id.ActionRead, 3)
				assert.NoError(t, err)
			}
		}()
	}
	wg.Wait()

	totals, err := store.Totals(ctx, tokenID)
	require.NoError(t, err)
	assert.EqualValues(t, goroutines*perGoroutine, totals.Reads)
	assert.EqualValues(t, goroutines*perGoroutine*3, totals.Bytes)
}

package repository

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMemoryProgressStore(t *testing.T) {
	ctx := context.Background()

	t.Run("Scenario 1: Missing key reports not found without error", func(t *testing.T) {
		store := NewMemoryProgressStore()
		value, found, err := store.GetItem(ctx, "missing")
		assert.NoError(t, err)
		assert.False(t, found)
		assert.Empty(t, value)
	})

	t.Run("Scenario 2: Set then get round-trips the value", func(t *testing.T) {
		store := NewMemoryProgressStore()
		assert.NoError(t, store.SetItem(ctx, "assessment_quiz_user1", `{"index":2}`))

		value, found, err := store.GetItem(ctx, "assessment_quiz_user1")
		assert.NoError(t, err)
		assert.True(t, found)
		assert.Equal(t, `{"index":2}`, value)
	})

	t.Run("Scenario 3: A key holds a single slot, last write wins", func(t *testing.T) {
		store := NewMemoryProgressStore()
		assert.NoError(t, store.SetItem(ctx, "slot", "first"))
		assert.NoError(t, store.SetItem(ctx, "slot", "second"))

		value, found, _ := store.GetItem(ctx, "slot")
		assert.True(t, found)
		assert.Equal(t, "second", value)
	})

	t.Run("Scenario 4: Remove deletes the slot and is idempotent", func(t *testing.T) {
		store := NewMemoryProgressStore()
		assert.NoError(t, store.SetItem(ctx, "slot", "value"))
		assert.NoError(t, store.RemoveItem(ctx, "slot"))

		_, found, err := store.GetItem(ctx, "slot")
		assert.NoError(t, err)
		assert.False(t, found)

		// Removing again is harmless.
		assert.NoError(t, store.RemoveItem(ctx, "slot"))
	})

	t.Run("Scenario 5: Empty key is rejected", func(t *testing.T) {
		store := NewMemoryProgressStore()
		assert.Error(t, store.SetItem(ctx, "", "value"))
	})

	t.Run("Scenario 6: Concurrent writers on distinct keys do not interfere", func(t *testing.T) {
		store := NewMemoryProgressStore()
		var wg sync.WaitGroup
		for i := 0; i < 20; i++ {
			wg.Add(1)
			go func(n int) {
				defer wg.Done()
				key := fmt.Sprintf("key_%d", n)
				assert.NoError(t, store.SetItem(ctx, key, fmt.Sprintf("value_%d", n)))
			}(i)
		}
		wg.Wait()

		for i := 0; i < 20; i++ {
			value, found, err := store.GetItem(ctx, fmt.Sprintf("key_%d", i))
			assert.NoError(t, err)
			assert.True(t, found)
			assert.Equal(t, fmt.Sprintf("value_%d", i), value)
		}
	})
}

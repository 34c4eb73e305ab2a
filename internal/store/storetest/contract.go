// Package storetest holds the behaviour every store.Store backend must share.
package storetest

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/robalobadob/cowbull-server/internal/store"
)

// RunContract runs the shared suite against s. Keys are random so a
// persistent backend can be reused across runs.
func RunContract(t *testing.T, s store.Store) {
	ctx := context.Background()
	blob := `{"key":"k","status":"playing","answer":[1,2,3,4]}`

	t.Run("Save and Load", func(t *testing.T) {
		key := uuid.NewString()
		require.NoError(t, s.Save(ctx, key, blob, time.Hour))

		got, err := s.Load(ctx, key)
		require.NoError(t, err)
		assert.Equal(t, blob, got)
	})

	t.Run("Load Non-Existent", func(t *testing.T) {
		_, err := s.Load(ctx, uuid.NewString())
		assert.ErrorIs(t, err, store.ErrNotFound)
	})

	t.Run("Overwrite", func(t *testing.T) {
		key := uuid.NewString()
		require.NoError(t, s.Save(ctx, key, blob, time.Hour))
		require.NoError(t, s.Save(ctx, key, `{"second":true}`, time.Hour))

		got, err := s.Load(ctx, key)
		require.NoError(t, err)
		assert.Equal(t, `{"second":true}`, got)
	})

	t.Run("No Expiry", func(t *testing.T) {
		key := uuid.NewString()
		require.NoError(t, s.Save(ctx, key, blob, 0))
		got, err := s.Load(ctx, key)
		require.NoError(t, err)
		assert.Equal(t, blob, got)
	})

	t.Run("Keys Are Independent", func(t *testing.T) {
		a, b := uuid.NewString(), uuid.NewString()
		require.NoError(t, s.Save(ctx, a, "a", time.Hour))
		require.NoError(t, s.Save(ctx, b, "b", time.Hour))

		got, err := s.Load(ctx, a)
		require.NoError(t, err)
		assert.Equal(t, "a", got)
		got, err = s.Load(ctx, b)
		require.NoError(t, err)
		assert.Equal(t, "b", got)
	})

	t.Run("Concurrent Saves", func(t *testing.T) {
		var wg sync.WaitGroup
		keys := make([]string, 8)
		for i := range keys {
			keys[i] = uuid.NewString()
			wg.Add(1)
			go func(k string) {
				defer wg.Done()
				assert.NoError(t, s.Save(ctx, k, k, time.Hour))
			}(keys[i])
		}
		wg.Wait()
		for _, k := range keys {
			got, err := s.Load(ctx, k)
			require.NoError(t, err)
			assert.Equal(t, k, got)
		}
	})

	t.Run("Ping", func(t *testing.T) {
		assert.NoError(t, s.Ping(ctx))
	})
}

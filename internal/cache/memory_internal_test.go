package cache

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStore(t *testing.T) {
	ctx := t.Context()
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	store := NewMemoryStore()
	store.now = func() time.Time { return now }

	t.Run("missing key", func(t *testing.T) {
		_, err := store.Get(ctx, "missing")
		require.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("set and get", func(t *testing.T) {
		value := []byte("hello")
		require.NoError(t, store.Set(ctx, "k", value, 0))
		value[0] = 'j'

		got, err := store.Get(ctx, "k")
		require.NoError(t, err)
		assert.Equal(t, []byte("hello"), got)
	})

	t.Run("expiry", func(t *testing.T) {
		require.NoError(t, store.Set(ctx, "ttl", []byte("v"), time.Minute))

		_, err := store.Get(ctx, "ttl")
		require.NoError(t, err)

		now = now.Add(time.Minute)
		_, err = store.Get(ctx, "ttl")
		require.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("delete", func(t *testing.T) {
		require.NoError(t, store.Set(ctx, "gone", []byte("v"), 0))
		require.NoError(t, store.Delete(ctx, "gone"))

		_, err := store.Get(ctx, "gone")
		require.ErrorIs(t, err, ErrNotFound)
	})
}

func TestMemoryStore_Eviction(t *testing.T) {
	ctx := t.Context()
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)

	newStore := func(limit int) *MemoryStore {
		store := NewMemoryStoreWithLimit(limit)
		store.now = func() time.Time { return now }
		return store
	}

	t.Run("default limit", func(t *testing.T) {
		assert.Equal(t, DefaultMaxEntries, NewMemoryStore().maxEntries)
		assert.Equal(t, DefaultMaxEntries, NewMemoryStoreWithLimit(0).maxEntries)
	})

	t.Run("distinct keys never grow past the limit", func(t *testing.T) {
		store := newStore(3)
		for _, key := range []string{"a", "b", "c", "d", "e", "f"} {
			require.NoError(t, store.Set(ctx, key, []byte(key), time.Hour))
		}

		assert.Len(t, store.entries, 3)
		_, err := store.Get(ctx, "a")
		require.ErrorIs(t, err, ErrNotFound)
		got, err := store.Get(ctx, "f")
		require.NoError(t, err)
		assert.Equal(t, []byte("f"), got)
	})

	t.Run("expired entries are swept first", func(t *testing.T) {
		store := newStore(3)
		require.NoError(t, store.Set(ctx, "short-1", []byte("v"), time.Minute))
		require.NoError(t, store.Set(ctx, "short-2", []byte("v"), time.Minute))
		require.NoError(t, store.Set(ctx, "long", []byte("v"), time.Hour))

		now = now.Add(2 * time.Minute)
		require.NoError(t, store.Set(ctx, "new", []byte("v"), time.Hour))

		assert.Len(t, store.entries, 2)
		assert.Contains(t, store.entries, "long")
		assert.Contains(t, store.entries, "new")
	})

	t.Run("entries without ttl outlive expiring ones", func(t *testing.T) {
		store := newStore(2)
		require.NoError(t, store.Set(ctx, "basket:alice", []byte("{}"), 0))
		require.NoError(t, store.Set(ctx, "geocode", []byte("v"), time.Hour))
		require.NoError(t, store.Set(ctx, "geocode-2", []byte("v"), time.Hour))

		assert.Contains(t, store.entries, "basket:alice")
		assert.NotContains(t, store.entries, "geocode")
		assert.Contains(t, store.entries, "geocode-2")
	})

	t.Run("overwriting a key does not evict", func(t *testing.T) {
		store := newStore(2)
		require.NoError(t, store.Set(ctx, "a", []byte("1"), 0))
		require.NoError(t, store.Set(ctx, "b", []byte("1"), 0))
		require.NoError(t, store.Set(ctx, "a", []byte("2"), 0))

		assert.Len(t, store.entries, 2)
		got, err := store.Get(ctx, "b")
		require.NoError(t, err)
		assert.Equal(t, []byte("1"), got)
	})
}

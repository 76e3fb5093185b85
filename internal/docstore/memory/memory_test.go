package memory

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/blocksocial/api/internal/docstore"
)

func TestMemoryStore(t *testing.T) {
	ctx := context.Background()

	t.Run("set, get, exists, delete round trip", func(t *testing.T) {
		store := New()

		exists, err := store.Exists(ctx, "posts/p1")
		require.NoError(t, err)
		assert.False(t, exists)

		require.NoError(t, store.Set(ctx, "posts/p1", docstore.Document{
			"likeCount":      int64(0),
			"senderUsername": "alice",
		}))

		exists, err = store.Exists(ctx, "posts/p1")
		require.NoError(t, err)
		assert.True(t, exists)

		doc, err := store.Get(ctx, "posts/p1")
		require.NoError(t, err)
		assert.Equal(t, "alice", doc["senderUsername"])

		require.NoError(t, store.Delete(ctx, "posts/p1"))
		_, err = store.Get(ctx, "posts/p1")
		assert.ErrorIs(t, err, docstore.ErrNotFound)
	})

	t.Run("increment is atomic under concurrency", func(t *testing.T) {
		store := New()
		require.NoError(t, store.Set(ctx, "posts/p1", docstore.Document{"likeCount": int64(0)}))

		var wg sync.WaitGroup
		for i := 0; i < 100; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				_ = store.Increment(ctx, "posts/p1", "likeCount", 1)
			}()
		}
		wg.Wait()

		doc, err := store.Get(ctx, "posts/p1")
		require.NoError(t, err)
		assert.Equal(t, int64(100), doc["likeCount"])
	})

	t.Run("increment on missing document fails", func(t *testing.T) {
		store := New()
		err := store.Increment(ctx, "posts/nope", "likeCount", 1)
		assert.ErrorIs(t, err, docstore.ErrNotFound)
	})

	t.Run("set membership has no duplicates and removes cleanly", func(t *testing.T) {
		store := New()
		require.NoError(t, store.Set(ctx, "users/alice", docstore.Document{}))

		require.NoError(t, store.AddToSet(ctx, "users/alice", "followers", "bob"))
		require.NoError(t, store.AddToSet(ctx, "users/alice", "followers", "bob"))
		require.NoError(t, store.AddToSet(ctx, "users/alice", "followers", "carol"))

		doc, err := store.Get(ctx, "users/alice")
		require.NoError(t, err)
		assert.ElementsMatch(t, []string{"bob", "carol"}, doc["followers"])

		require.NoError(t, store.RemoveFromSet(ctx, "users/alice", "followers", "bob"))
		doc, err = store.Get(ctx, "users/alice")
		require.NoError(t, err)
		assert.ElementsMatch(t, []string{"carol"}, doc["followers"])
	})

	t.Run("add generates distinct paths in the collection", func(t *testing.T) {
		store := New()
		p1, err := store.Add(ctx, "users/alice/notifications", docstore.Document{"cause": "like"})
		require.NoError(t, err)
		p2, err := store.Add(ctx, "users/alice/notifications", docstore.Document{"cause": "like"})
		require.NoError(t, err)
		assert.NotEqual(t, p1, p2)
		assert.Equal(t, "users/alice/notifications", docstore.Collection(p1))
	})

	t.Run("query filters on field equality within a collection", func(t *testing.T) {
		store := New()
		_, err := store.Add(ctx, "users/alice/notifications", docstore.Document{"cause": "like", "sender": "bob"})
		require.NoError(t, err)
		_, err = store.Add(ctx, "users/alice/notifications", docstore.Document{"cause": "comment", "sender": "bob"})
		require.NoError(t, err)
		_, err = store.Add(ctx, "users/carol/notifications", docstore.Document{"cause": "like", "sender": "bob"})
		require.NoError(t, err)

		entry, err := store.QueryOne(ctx, "users/alice/notifications", docstore.Document{
			"cause":  "like",
			"sender": "bob",
		})
		require.NoError(t, err)
		assert.Equal(t, "like", entry.Fields["cause"])

		_, err = store.QueryOne(ctx, "users/alice/notifications", docstore.Document{
			"cause":  "like",
			"sender": "dave",
		})
		assert.ErrorIs(t, err, docstore.ErrNotFound)

		all, err := store.Query(ctx, "users/alice/notifications", nil, 0)
		require.NoError(t, err)
		assert.Len(t, all, 2)
	})

	t.Run("get returns a copy, not shared state", func(t *testing.T) {
		store := New()
		require.NoError(t, store.Set(ctx, "posts/p1", docstore.Document{"likeCount": int64(1)}))

		doc, err := store.Get(ctx, "posts/p1")
		require.NoError(t, err)
		doc["likeCount"] = int64(999)

		fresh, err := store.Get(ctx, "posts/p1")
		require.NoError(t, err)
		assert.Equal(t, int64(1), fresh["likeCount"])
	})
}

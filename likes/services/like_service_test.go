// Copyright (c) 2024 BlockSocial
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package services

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/blocksocial/api/activities"
	"github.com/blocksocial/api/internal/docstore"
	"github.com/blocksocial/api/internal/docstore/memory"
	"github.com/blocksocial/api/internal/pkg/keymutex"
	"github.com/blocksocial/api/internal/types"
	likeErrors "github.com/blocksocial/api/likes/errors"
	"github.com/blocksocial/api/likes/models"
	notificationModels "github.com/blocksocial/api/notifications/models"
	notificationServices "github.com/blocksocial/api/notifications/services"
)

func newLikeFixture(t *testing.T) (LikeService, *memory.Store, notificationServices.NotificationService) {
	t.Helper()
	store := memory.New()
	notifications := notificationServices.NewNotificationService(store)
	svc := NewLikeService(store, keymutex.New(), notifications, activities.NewService(store), nil)
	return svc, store, notifications
}

func seedPost(t *testing.T, store *memory.Store, path, owner string) {
	t.Helper()
	require.NoError(t, store.Set(context.Background(), path, docstore.Document{
		"likeCount":      int64(0),
		"commentCount":   int64(0),
		"senderUsername": owner,
	}))
}

func likeCount(t *testing.T, store *memory.Store, path string) int64 {
	t.Helper()
	doc, err := store.Get(context.Background(), path)
	require.NoError(t, err)
	count, ok := doc["likeCount"].(int64)
	require.True(t, ok)
	return count
}

func actor(username string) types.UserContext {
	return types.UserContext{Username: username}
}

func TestToggleLike_FullLifecycle(t *testing.T) {
	ctx := context.Background()
	svc, store, notifications := newLikeFixture(t)
	seedPost(t, store, "posts/p1", "owner")

	// Like: counter, membership, activity and notification all appear.
	require.NoError(t, svc.ToggleLike(ctx, actor("alice"), "posts/p1", models.OpAdd))

	assert.Equal(t, int64(1), likeCount(t, store, "posts/p1"))

	liked, err := store.Exists(ctx, "posts/p1/likes/alice")
	require.NoError(t, err)
	assert.True(t, liked)

	activityExists, err := store.Exists(ctx, "users/alice/activities/postActivities/postLikes/posts-p1")
	require.NoError(t, err)
	assert.True(t, activityExists)

	_, found, err := notifications.FindByCauseAndSender(ctx, "owner", notificationModels.CauseLike, "alice")
	require.NoError(t, err)
	assert.True(t, found)

	// Unlike: everything is rolled back.
	require.NoError(t, svc.ToggleLike(ctx, actor("alice"), "posts/p1", models.OpRemove))

	assert.Equal(t, int64(0), likeCount(t, store, "posts/p1"))

	liked, err = store.Exists(ctx, "posts/p1/likes/alice")
	require.NoError(t, err)
	assert.False(t, liked)

	activityExists, err = store.Exists(ctx, "users/alice/activities/postActivities/postLikes/posts-p1")
	require.NoError(t, err)
	assert.False(t, activityExists)

	_, found, err = notifications.FindByCauseAndSender(ctx, "owner", notificationModels.CauseLike, "alice")
	require.NoError(t, err)
	assert.False(t, found)
}

func TestToggleLike_Preconditions(t *testing.T) {
	ctx := context.Background()

	t.Run("double like is rejected and leaves the counter untouched", func(t *testing.T) {
		svc, store, _ := newLikeFixture(t)
		seedPost(t, store, "posts/p1", "owner")

		require.NoError(t, svc.ToggleLike(ctx, actor("alice"), "posts/p1", models.OpAdd))
		err := svc.ToggleLike(ctx, actor("alice"), "posts/p1", models.OpAdd)
		assert.ErrorIs(t, err, likeErrors.ErrAlreadyLiked)
		assert.Equal(t, int64(1), likeCount(t, store, "posts/p1"))
	})

	t.Run("unlike without a like is rejected and leaves the counter untouched", func(t *testing.T) {
		svc, store, _ := newLikeFixture(t)
		seedPost(t, store, "posts/p1", "owner")

		err := svc.ToggleLike(ctx, actor("alice"), "posts/p1", models.OpRemove)
		assert.ErrorIs(t, err, likeErrors.ErrNotLiked)
		assert.Equal(t, int64(0), likeCount(t, store, "posts/p1"))
	})

	t.Run("missing post", func(t *testing.T) {
		svc, _, _ := newLikeFixture(t)
		err := svc.ToggleLike(ctx, actor("alice"), "posts/ghost", models.OpAdd)
		assert.ErrorIs(t, err, likeErrors.ErrPostNotFound)
	})

	t.Run("invalid op code", func(t *testing.T) {
		svc, store, _ := newLikeFixture(t)
		seedPost(t, store, "posts/p1", "owner")

		err := svc.ToggleLike(ctx, actor("alice"), "posts/p1", 2)
		assert.ErrorIs(t, err, likeErrors.ErrInvalidOpCode)
	})
}

func TestToggleLike_AlternatingTogglesStayNonNegative(t *testing.T) {
	ctx := context.Background()
	svc, store, _ := newLikeFixture(t)
	seedPost(t, store, "posts/p1", "owner")

	for i := 0; i < 5; i++ {
		require.NoError(t, svc.ToggleLike(ctx, actor("alice"), "posts/p1", models.OpAdd))
		assert.Equal(t, int64(1), likeCount(t, store, "posts/p1"))
		require.NoError(t, svc.ToggleLike(ctx, actor("alice"), "posts/p1", models.OpRemove))
		assert.Equal(t, int64(0), likeCount(t, store, "posts/p1"))
	}
}

func TestToggleLike_SelfLikeDoesNotNotify(t *testing.T) {
	ctx := context.Background()
	svc, store, notifications := newLikeFixture(t)
	seedPost(t, store, "posts/p1", "owner")

	require.NoError(t, svc.ToggleLike(ctx, actor("owner"), "posts/p1", models.OpAdd))

	entries, err := notifications.List(ctx, "owner", notificationModels.ListQuery{})
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestToggleLike_ConcurrentDoubleAddIsSerialized(t *testing.T) {
	ctx := context.Background()
	svc, store, _ := newLikeFixture(t)
	seedPost(t, store, "posts/p1", "owner")

	const callers = 2
	results := make([]error, callers)
	var wg sync.WaitGroup
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(slot int) {
			defer wg.Done()
			results[slot] = svc.ToggleLike(ctx, actor("alice"), "posts/p1", models.OpAdd)
		}(i)
	}
	wg.Wait()

	successes := 0
	for _, err := range results {
		if err == nil {
			successes++
		} else {
			assert.ErrorIs(t, err, likeErrors.ErrAlreadyLiked)
		}
	}
	assert.Equal(t, 1, successes)
	assert.Equal(t, int64(1), likeCount(t, store, "posts/p1"))
}

func TestToggleLike_DistinctActorsAccumulate(t *testing.T) {
	ctx := context.Background()
	svc, store, notifications := newLikeFixture(t)
	seedPost(t, store, "posts/p1", "owner")

	for _, username := range []string{"alice", "bob", "carol"} {
		require.NoError(t, svc.ToggleLike(ctx, actor(username), "posts/p1", models.OpAdd))
	}

	assert.Equal(t, int64(3), likeCount(t, store, "posts/p1"))

	entries, err := notifications.List(ctx, "owner", notificationModels.ListQuery{})
	require.NoError(t, err)
	assert.Len(t, entries, 3)
}

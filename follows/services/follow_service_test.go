// Copyright (c) 2024 BlockSocial
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package services

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	followErrors "github.com/blocksocial/api/follows/errors"
	"github.com/blocksocial/api/follows/models"
	"github.com/blocksocial/api/internal/docstore"
	"github.com/blocksocial/api/internal/docstore/memory"
	"github.com/blocksocial/api/internal/pkg/keymutex"
	"github.com/blocksocial/api/internal/types"
)

func newFollowFixture(t *testing.T) (FollowService, *memory.Store) {
	t.Helper()
	store := memory.New()
	svc := NewFollowService(store, keymutex.New())
	return svc, store
}

func seedUser(t *testing.T, store docstore.Store, username string) {
	t.Helper()
	require.NoError(t, store.Set(context.Background(), "users/"+username, docstore.Document{
		"followerCount":  int64(0),
		"followers":      []string{},
		"followingCount": int64(0),
		"followings":     []string{},
	}))
}

func userDoc(t *testing.T, store docstore.Store, username string) docstore.Document {
	t.Helper()
	doc, err := store.Get(context.Background(), "users/"+username)
	require.NoError(t, err)
	return doc
}

func actor(username string) types.UserContext {
	return types.UserContext{Username: username}
}

func TestToggleFollow_BothSidesMoveInLockStep(t *testing.T) {
	ctx := context.Background()
	svc, store := newFollowFixture(t)
	seedUser(t, store, "alice")
	seedUser(t, store, "bob")

	require.NoError(t, svc.ToggleFollow(ctx, actor("alice"), "bob", models.OpFollow))

	bob := userDoc(t, store, "bob")
	assert.Equal(t, int64(1), bob["followerCount"])
	assert.Equal(t, []string{"alice"}, bob["followers"])

	alice := userDoc(t, store, "alice")
	assert.Equal(t, int64(1), alice["followingCount"])
	assert.Equal(t, []string{"bob"}, alice["followings"])

	require.NoError(t, svc.ToggleFollow(ctx, actor("alice"), "bob", models.OpUnfollow))

	bob = userDoc(t, store, "bob")
	assert.Equal(t, int64(0), bob["followerCount"])
	assert.Empty(t, bob["followers"])

	alice = userDoc(t, store, "alice")
	assert.Equal(t, int64(0), alice["followingCount"])
	assert.Empty(t, alice["followings"])
}

func TestToggleFollow_Validation(t *testing.T) {
	ctx := context.Background()
	svc, store := newFollowFixture(t)
	seedUser(t, store, "alice")

	t.Run("self follow", func(t *testing.T) {
		err := svc.ToggleFollow(ctx, actor("alice"), "alice", models.OpFollow)
		assert.ErrorIs(t, err, followErrors.ErrSelfFollow)
	})

	t.Run("invalid op code", func(t *testing.T) {
		err := svc.ToggleFollow(ctx, actor("alice"), "bob", 0)
		assert.ErrorIs(t, err, followErrors.ErrInvalidOpCode)
	})

	t.Run("missing target user", func(t *testing.T) {
		err := svc.ToggleFollow(ctx, actor("alice"), "ghost", models.OpFollow)
		assert.ErrorIs(t, err, followErrors.ErrUserNotFound)
	})

	t.Run("empty target", func(t *testing.T) {
		err := svc.ToggleFollow(ctx, actor("alice"), "", models.OpFollow)
		assert.ErrorIs(t, err, followErrors.ErrInvalidRequest)
	})
}

// There is no membership precondition: a repeated follow bumps the counter
// again while the set stays deduplicated. This mirrors the write path the
// clients rely on, where the UI prevents the double call.
func TestToggleFollow_RepeatedFollowHasNoPrecondition(t *testing.T) {
	ctx := context.Background()
	svc, store := newFollowFixture(t)
	seedUser(t, store, "alice")
	seedUser(t, store, "bob")

	require.NoError(t, svc.ToggleFollow(ctx, actor("alice"), "bob", models.OpFollow))
	require.NoError(t, svc.ToggleFollow(ctx, actor("alice"), "bob", models.OpFollow))

	bob := userDoc(t, store, "bob")
	assert.Equal(t, int64(2), bob["followerCount"])
	assert.Equal(t, []string{"alice"}, bob["followers"])
}

// failingStore wraps a Store and fails Increment for one path.
type failingStore struct {
	docstore.Store
	failPath string
}

func (f *failingStore) Increment(ctx context.Context, path string, field string, delta int64) error {
	if path == f.failPath {
		return fmt.Errorf("injected increment failure for %s", path)
	}
	return f.Store.Increment(ctx, path, field, delta)
}

func TestToggleFollow_SecondSideFailureLeavesAsymmetry(t *testing.T) {
	ctx := context.Background()
	base := memory.New()
	seedUser(t, base, "alice")
	seedUser(t, base, "bob")

	store := &failingStore{Store: base, failPath: "users/alice"}
	svc := NewFollowService(store, keymutex.New())

	err := svc.ToggleFollow(ctx, actor("alice"), "bob", models.OpFollow)
	require.ErrorIs(t, err, followErrors.ErrStoreOperation)

	// The target side committed, the actor side did not.
	bob := userDoc(t, base, "bob")
	assert.Equal(t, int64(1), bob["followerCount"])
	assert.Equal(t, []string{"alice"}, bob["followers"])

	alice := userDoc(t, base, "alice")
	assert.Equal(t, int64(0), alice["followingCount"])
	assert.Empty(t, alice["followings"])
}

// Copyright (c) 2024 BlockSocial
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package services

import (
	"context"
	"errors"
	"fmt"

	followErrors "github.com/blocksocial/api/follows/errors"
	"github.com/blocksocial/api/follows/models"
	"github.com/blocksocial/api/internal/docstore"
	"github.com/blocksocial/api/internal/pkg/keymutex"
	"github.com/blocksocial/api/internal/types"
)

// FollowService defines the interface for follow operations
type FollowService interface {
	// ToggleFollow follows or unfollows target on behalf of the actor,
	// updating both sides of the relationship: the target's follower
	// counter and set, then the actor's following counter and set.
	ToggleFollow(ctx context.Context, actor types.UserContext, target string, op int) error
}

// followService implements the FollowService interface
type followService struct {
	store  docstore.Store
	locker *keymutex.KeyedMutex
}

// NewFollowService creates a new instance of the follow service
func NewFollowService(store docstore.Store, locker *keymutex.KeyedMutex) FollowService {
	return &followService{store: store, locker: locker}
}

// ToggleFollow applies the two-sided follow mutation under the actor's
// serialization key. There is no membership precondition: repeating the same
// operation repeats its effect on the counters, while the sets stay
// idempotent. If the second side fails after the first succeeded, the
// relationship is left asymmetric; the error is surfaced so the caller can
// retry.
func (s *followService) ToggleFollow(ctx context.Context, actor types.UserContext, target string, op int) error {
	if !models.IsValidOp(op) {
		return fmt.Errorf("%w: %d", followErrors.ErrInvalidOpCode, op)
	}
	if target == "" {
		return fmt.Errorf("%w: username is required", followErrors.ErrInvalidRequest)
	}
	if actor.Username == "" {
		return followErrors.ErrMissingUserContext
	}
	if target == actor.Username {
		return followErrors.ErrSelfFollow
	}

	return s.locker.RunExclusive("follow:"+actor.Username, func() error {
		// Target side first: follower counter and follower set.
		if err := s.applySide(ctx, "users/"+target, "followerCount", "followers", actor.Username, op); err != nil {
			return err
		}
		// Then the actor side: following counter and following set.
		return s.applySide(ctx, "users/"+actor.Username, "followingCount", "followings", target, op)
	})
}

// applySide updates one user document's counter and membership set.
func (s *followService) applySide(ctx context.Context, userPath, countField, setField, member string, op int) error {
	if err := s.store.Increment(ctx, userPath, countField, int64(op)); err != nil {
		if errors.Is(err, docstore.ErrNotFound) {
			return fmt.Errorf("%w: %s", followErrors.ErrUserNotFound, userPath)
		}
		return fmt.Errorf("%w: %s update: %v", followErrors.ErrStoreOperation, countField, err)
	}

	var err error
	if op == models.OpFollow {
		err = s.store.AddToSet(ctx, userPath, setField, member)
	} else {
		err = s.store.RemoveFromSet(ctx, userPath, setField, member)
	}
	if err != nil {
		return fmt.Errorf("%w: %s update: %v", followErrors.ErrStoreOperation, setField, err)
	}
	return nil
}

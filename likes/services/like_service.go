// Copyright (c) 2024 BlockSocial
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/blocksocial/api/activities"
	"github.com/blocksocial/api/internal/cache"
	"github.com/blocksocial/api/internal/docstore"
	"github.com/blocksocial/api/internal/pkg/keymutex"
	"github.com/blocksocial/api/internal/pkg/log"
	"github.com/blocksocial/api/internal/types"
	likeErrors "github.com/blocksocial/api/likes/errors"
	"github.com/blocksocial/api/likes/models"
	notificationModels "github.com/blocksocial/api/notifications/models"
	notificationServices "github.com/blocksocial/api/notifications/services"
)

// LikeService defines the interface for like operations
type LikeService interface {
	// ToggleLike adds or removes the actor's like on a post, keeping the
	// like counter, the membership document, the actor's activity record
	// and the owner's notifications in step.
	ToggleLike(ctx context.Context, actor types.UserContext, postDocPath string, op int) error
}

// likeService implements the LikeService interface
type likeService struct {
	store         docstore.Store
	locker        *keymutex.KeyedMutex
	notifications notificationServices.NotificationService
	activities    activities.Service
	ownerCache    *cache.Service
}

// NewLikeService creates a new instance of the like service. ownerCache may
// be nil to disable owner-lookup caching.
func NewLikeService(
	store docstore.Store,
	locker *keymutex.KeyedMutex,
	notifications notificationServices.NotificationService,
	activitySvc activities.Service,
	ownerCache *cache.Service,
) LikeService {
	return &likeService{
		store:         store,
		locker:        locker,
		notifications: notifications,
		activities:    activitySvc,
		ownerCache:    ownerCache,
	}
}

// ToggleLike runs the full like/unlike sequence under the actor's
// serialization key. Arrival order is preserved per actor; different actors
// proceed concurrently.
func (s *likeService) ToggleLike(ctx context.Context, actor types.UserContext, postDocPath string, op int) error {
	if !models.IsValidOp(op) {
		return fmt.Errorf("%w: %d", likeErrors.ErrInvalidOpCode, op)
	}
	if postDocPath == "" {
		return fmt.Errorf("%w: postDocPath is required", likeErrors.ErrInvalidRequest)
	}
	if actor.Username == "" {
		return likeErrors.ErrMissingUserContext
	}

	return s.locker.RunExclusive("like:"+actor.Username, func() error {
		return s.toggleLocked(ctx, actor, postDocPath, op)
	})
}

func (s *likeService) toggleLocked(ctx context.Context, actor types.UserContext, postDocPath string, op int) error {
	membershipPath := fmt.Sprintf("%s/likes/%s", postDocPath, actor.Username)

	// Precondition: the membership document decides whether the toggle is
	// legal. Checked before any mutation so a rejected call changes nothing.
	liked, err := s.store.Exists(ctx, membershipPath)
	if err != nil {
		return fmt.Errorf("%w: membership lookup: %v", likeErrors.ErrStoreOperation, err)
	}
	if op == models.OpAdd && liked {
		return likeErrors.ErrAlreadyLiked
	}
	if op == models.OpRemove && !liked {
		return likeErrors.ErrNotLiked
	}

	if err := s.store.Increment(ctx, postDocPath, "likeCount", int64(op)); err != nil {
		if errors.Is(err, docstore.ErrNotFound) {
			return fmt.Errorf("%w: %s", likeErrors.ErrPostNotFound, postDocPath)
		}
		return fmt.Errorf("%w: likeCount update: %v", likeErrors.ErrStoreOperation, err)
	}

	// Activity records are advisory; a failure here must not fail the like.
	if op == models.OpAdd {
		if err := s.activities.RecordLike(ctx, actor.Username, postDocPath); err != nil {
			log.WarnWithContext(ctx, "like activity write failed for %s on %s: %v", actor.Username, postDocPath, err)
		}
	} else {
		if err := s.activities.RemoveLike(ctx, actor.Username, postDocPath); err != nil {
			log.WarnWithContext(ctx, "like activity removal failed for %s on %s: %v", actor.Username, postDocPath, err)
		}
	}

	if op == models.OpAdd {
		fields := docstore.Document{"likeTime": time.Now().UnixMilli()}
		if err := s.store.Set(ctx, membershipPath, fields); err != nil {
			return fmt.Errorf("%w: membership write: %v", likeErrors.ErrStoreOperation, err)
		}
	} else {
		if err := s.store.Delete(ctx, membershipPath); err != nil {
			return fmt.Errorf("%w: membership delete: %v", likeErrors.ErrStoreOperation, err)
		}
	}

	return s.syncNotification(ctx, actor, postDocPath, op)
}

// syncNotification creates the owner's like notification on add and cleans
// it up on removal. Self-likes never notify. Cleanup failures are logged and
// swallowed: a stale notification is preferable to failing an otherwise
// completed unlike.
func (s *likeService) syncNotification(ctx context.Context, actor types.UserContext, postDocPath string, op int) error {
	owner, err := s.postOwner(ctx, postDocPath)
	if err != nil {
		if op == models.OpAdd {
			return fmt.Errorf("%w: owner lookup: %v", likeErrors.ErrStoreOperation, err)
		}
		log.WarnWithContext(ctx, "owner lookup failed during unlike of %s: %v", postDocPath, err)
		return nil
	}
	if owner == "" || owner == actor.Username {
		return nil
	}

	if op == models.OpAdd {
		_, err := s.notifications.Create(ctx, owner, notificationModels.Notification{
			Cause:            notificationModels.CauseLike,
			Sender:           actor.Username,
			NotificationTime: time.Now().UnixMilli(),
			Seen:             false,
		})
		if err != nil {
			return fmt.Errorf("%w: notification create: %v", likeErrors.ErrStoreOperation, err)
		}
		return nil
	}

	path, found, err := s.notifications.FindByCauseAndSender(ctx, owner, notificationModels.CauseLike, actor.Username)
	if err != nil {
		log.WarnWithContext(ctx, "like notification lookup failed for %s: %v", owner, err)
		return nil
	}
	if !found {
		return nil
	}
	if err := s.notifications.Remove(ctx, path); err != nil {
		log.WarnWithContext(ctx, "like notification cleanup failed for %s: %v", owner, err)
	}
	return nil
}

// postOwner resolves the post owner's username, via the owner cache when
// one is configured.
func (s *likeService) postOwner(ctx context.Context, postDocPath string) (string, error) {
	cacheKey := "owner:" + postDocPath

	var owner string
	if err := s.ownerCache.GetCached(ctx, cacheKey, &owner); err == nil {
		return owner, nil
	}

	doc, err := s.store.Get(ctx, postDocPath)
	if err != nil {
		return "", err
	}
	owner, _ = doc["senderUsername"].(string)

	if owner != "" {
		if err := s.ownerCache.CacheData(ctx, cacheKey, owner); err != nil {
			log.WarnWithContext(ctx, "failed to cache owner of %s: %v", postDocPath, err)
		}
	}
	return owner, nil
}

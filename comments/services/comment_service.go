// Copyright (c) 2024 BlockSocial
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package services

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	uuid "github.com/gofrs/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/blocksocial/api/activities"
	commentErrors "github.com/blocksocial/api/comments/errors"
	"github.com/blocksocial/api/internal/cache"
	"github.com/blocksocial/api/internal/docstore"
	"github.com/blocksocial/api/internal/pkg/keymutex"
	"github.com/blocksocial/api/internal/pkg/log"
	"github.com/blocksocial/api/internal/types"
	notificationModels "github.com/blocksocial/api/notifications/models"
	notificationServices "github.com/blocksocial/api/notifications/services"
)

// maxKeyProbes bounds the uniqueness probe loop for comment keys. Past this
// the key switches to a double disambiguator, which makes a further
// collision practically impossible.
const maxKeyProbes = 16

// CommentService defines the interface for comment operations
type CommentService interface {
	// AddComment appends a comment to a post, bumps the post's comment
	// counter and notifies the post owner. Returns the new comment's
	// document path.
	AddComment(ctx context.Context, actor types.UserContext, postDocPath string, text string) (string, error)
}

// commentService implements the CommentService interface
type commentService struct {
	store         docstore.Store
	locker        *keymutex.KeyedMutex
	notifications notificationServices.NotificationService
	activities    activities.Service
	ownerCache    *cache.Service
}

// NewCommentService creates a new instance of the comment service. ownerCache
// may be nil to disable owner-lookup caching.
func NewCommentService(
	store docstore.Store,
	locker *keymutex.KeyedMutex,
	notifications notificationServices.NotificationService,
	activitySvc activities.Service,
	ownerCache *cache.Service,
) CommentService {
	return &commentService{
		store:         store,
		locker:        locker,
		notifications: notifications,
		activities:    activitySvc,
		ownerCache:    ownerCache,
	}
}

func (s *commentService) AddComment(ctx context.Context, actor types.UserContext, postDocPath string, text string) (string, error) {
	if strings.TrimSpace(text) == "" {
		return "", fmt.Errorf("%w: comment text is required", commentErrors.ErrInvalidRequest)
	}
	if postDocPath == "" {
		return "", fmt.Errorf("%w: postDocPath is required", commentErrors.ErrInvalidRequest)
	}
	if actor.Username == "" {
		return "", commentErrors.ErrMissingUserContext
	}

	var commentDocPath string
	err := s.locker.RunExclusive("comment:"+actor.Username, func() error {
		path, err := s.addLocked(ctx, actor, postDocPath, text)
		commentDocPath = path
		return err
	})
	return commentDocPath, err
}

func (s *commentService) addLocked(ctx context.Context, actor types.UserContext, postDocPath string, text string) (string, error) {
	commentDocPath, err := s.allocateCommentPath(ctx, actor.Username, postDocPath)
	if err != nil {
		return "", err
	}

	fields := docstore.Document{
		"comment":               text,
		"commentSenderUsername": actor.Username,
		"creationTime":          time.Now().UnixMilli(),
	}

	// The comment write and the counter bump run concurrently. Either
	// failure aborts the call; there is no rollback of the surviving half,
	// only the per-document guarantees of the store.
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return s.store.Set(gctx, commentDocPath, fields)
	})
	g.Go(func() error {
		return s.store.Increment(gctx, postDocPath, "commentCount", 1)
	})
	if err := g.Wait(); err != nil {
		if errors.Is(err, docstore.ErrNotFound) {
			return "", fmt.Errorf("%w: %s", commentErrors.ErrPostNotFound, postDocPath)
		}
		return "", fmt.Errorf("%w: comment write: %v", commentErrors.ErrStoreOperation, err)
	}

	if err := s.activities.RecordComment(ctx, actor.Username, commentDocPath); err != nil {
		log.WarnWithContext(ctx, "comment activity write failed for %s on %s: %v", actor.Username, commentDocPath, err)
	}

	if err := s.notifyOwner(ctx, actor, postDocPath, commentDocPath); err != nil {
		return "", err
	}
	return commentDocPath, nil
}

// allocateCommentPath generates a comment key and probes the store until it
// finds a free one. Keys are <actor><unixMillis><random hex>, so collisions
// only happen for the same actor within the same millisecond tick.
func (s *commentService) allocateCommentPath(ctx context.Context, actor string, postDocPath string) (string, error) {
	collection := postDocPath + "/comments"
	base := actor + strconv.FormatInt(time.Now().UnixMilli(), 10)

	for i := 0; i < maxKeyProbes; i++ {
		path := collection + "/" + base + randomHex()
		taken, err := s.store.Exists(ctx, path)
		if err != nil {
			return "", fmt.Errorf("%w: key probe: %v", commentErrors.ErrStoreOperation, err)
		}
		if !taken {
			return path, nil
		}
	}

	// Fallback: two disambiguators.
	path := collection + "/" + base + randomHex() + randomHex()
	taken, err := s.store.Exists(ctx, path)
	if err != nil {
		return "", fmt.Errorf("%w: key probe: %v", commentErrors.ErrStoreOperation, err)
	}
	if taken {
		return "", fmt.Errorf("%w: could not allocate a comment key", commentErrors.ErrStoreOperation)
	}
	return path, nil
}

func randomHex() string {
	id, err := uuid.NewV4()
	if err != nil {
		// uuid.NewV4 only fails when the system entropy source does.
		return strconv.FormatInt(time.Now().UnixNano(), 16)
	}
	return strings.ReplaceAll(id.String(), "-", "")
}

// notifyOwner creates the comment notification for the post owner.
// Self-comments never notify.
func (s *commentService) notifyOwner(ctx context.Context, actor types.UserContext, postDocPath string, commentDocPath string) error {
	owner, err := s.postOwner(ctx, postDocPath)
	if err != nil {
		return fmt.Errorf("%w: owner lookup: %v", commentErrors.ErrStoreOperation, err)
	}
	if owner == "" || owner == actor.Username {
		return nil
	}

	_, err = s.notifications.Create(ctx, owner, notificationModels.Notification{
		Cause:            notificationModels.CauseComment,
		Sender:           actor.Username,
		NotificationTime: time.Now().UnixMilli(),
		Seen:             false,
		CommentDocPath:   commentDocPath,
	})
	if err != nil {
		return fmt.Errorf("%w: notification create: %v", commentErrors.ErrStoreOperation, err)
	}
	return nil
}

// postOwner resolves the post owner's username, via the owner cache when
// one is configured.
func (s *commentService) postOwner(ctx context.Context, postDocPath string) (string, error) {
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

// Copyright (c) 2024 BlockSocial
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

// Package activities writes per-actor activity records for likes and
// comments. Activity documents are advisory: coordinators treat write
// failures as best-effort and never fail the interaction over them.
package activities

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/blocksocial/api/internal/docstore"
)

// FlatKey converts a document path into a single path segment so it can be
// used as a document id inside the activities subtree.
func FlatKey(docPath string) string {
	return strings.ReplaceAll(docPath, "/", "-")
}

// Service records and removes activity documents.
type Service interface {
	// RecordLike writes the like activity for actor on postDocPath.
	RecordLike(ctx context.Context, actor string, postDocPath string) error

	// RemoveLike deletes the like activity for actor on postDocPath.
	// Removing an activity that was never recorded is not an error.
	RemoveLike(ctx context.Context, actor string, postDocPath string) error

	// RecordComment writes the comment activity for actor, keyed by the
	// comment document path.
	RecordComment(ctx context.Context, actor string, commentDocPath string) error
}

type service struct {
	store docstore.Store
}

// NewService creates a new activity service backed by store.
func NewService(store docstore.Store) Service {
	return &service{store: store}
}

func likeActivityPath(actor string, postDocPath string) string {
	return fmt.Sprintf("users/%s/activities/postActivities/postLikes/%s", actor, FlatKey(postDocPath))
}

func commentActivityPath(actor string, commentDocPath string) string {
	return fmt.Sprintf("users/%s/activities/postActivities/postComments/%s", actor, FlatKey(commentDocPath))
}

func (s *service) RecordLike(ctx context.Context, actor string, postDocPath string) error {
	fields := docstore.Document{
		"docPath":      postDocPath,
		"activityTime": time.Now().UnixMilli(),
	}
	if err := s.store.Set(ctx, likeActivityPath(actor, postDocPath), fields); err != nil {
		return fmt.Errorf("failed to record like activity: %w", err)
	}
	return nil
}

func (s *service) RemoveLike(ctx context.Context, actor string, postDocPath string) error {
	if err := s.store.Delete(ctx, likeActivityPath(actor, postDocPath)); err != nil {
		return fmt.Errorf("failed to remove like activity: %w", err)
	}
	return nil
}

func (s *service) RecordComment(ctx context.Context, actor string, commentDocPath string) error {
	fields := docstore.Document{
		"docPath":      commentDocPath,
		"activityTime": time.Now().UnixMilli(),
	}
	if err := s.store.Set(ctx, commentActivityPath(actor, commentDocPath), fields); err != nil {
		return fmt.Errorf("failed to record comment activity: %w", err)
	}
	return nil
}

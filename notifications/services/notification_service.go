// Copyright (c) 2024 BlockSocial
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/blocksocial/api/internal/docstore"
	notificationErrors "github.com/blocksocial/api/notifications/errors"
	"github.com/blocksocial/api/notifications/models"
)

// NotificationService keeps recipients' notification collections in sync
// with the interactions that cause them.
type NotificationService interface {
	// Create writes a notification for recipient and returns its document
	// path.
	Create(ctx context.Context, recipient string, notification models.Notification) (string, error)

	// FindByCauseAndSender returns the path of the first notification of
	// recipient matching cause and sender. The second return is false when
	// no such notification exists; that is not an error.
	FindByCauseAndSender(ctx context.Context, recipient, cause, sender string) (string, bool, error)

	// Remove deletes the notification at path. Removing a missing
	// notification is not an error.
	Remove(ctx context.Context, path string) error

	// List returns recipient's notifications matching the query.
	List(ctx context.Context, recipient string, query models.ListQuery) ([]models.NotificationEntry, error)
}

type notificationService struct {
	store docstore.Store
}

// NewNotificationService creates a new instance of the notification service
func NewNotificationService(store docstore.Store) NotificationService {
	return &notificationService{store: store}
}

func collectionFor(recipient string) string {
	return fmt.Sprintf("users/%s/notifications", recipient)
}

func (s *notificationService) Create(ctx context.Context, recipient string, notification models.Notification) (string, error) {
	if !models.IsValidCause(notification.Cause) {
		return "", fmt.Errorf("%w: %s", notificationErrors.ErrInvalidCause, notification.Cause)
	}

	fields := docstore.Document{
		"cause":            notification.Cause,
		"sender":           notification.Sender,
		"notificationTime": notification.NotificationTime,
		"seen":             notification.Seen,
	}
	if notification.CommentDocPath != "" {
		fields["commentDocPath"] = notification.CommentDocPath
	}

	path, err := s.store.Add(ctx, collectionFor(recipient), fields)
	if err != nil {
		return "", fmt.Errorf("%w: create for %s: %v", notificationErrors.ErrStoreOperation, recipient, err)
	}
	return path, nil
}

func (s *notificationService) FindByCauseAndSender(ctx context.Context, recipient, cause, sender string) (string, bool, error) {
	entry, err := s.store.QueryOne(ctx, collectionFor(recipient), docstore.Document{
		"cause":  cause,
		"sender": sender,
	})
	if err != nil {
		if errors.Is(err, docstore.ErrNotFound) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("%w: query for %s: %v", notificationErrors.ErrStoreOperation, recipient, err)
	}
	return entry.Path, true, nil
}

func (s *notificationService) Remove(ctx context.Context, path string) error {
	if err := s.store.Delete(ctx, path); err != nil {
		return fmt.Errorf("%w: remove %s: %v", notificationErrors.ErrStoreOperation, path, err)
	}
	return nil
}

func (s *notificationService) List(ctx context.Context, recipient string, query models.ListQuery) ([]models.NotificationEntry, error) {
	filter := docstore.Document{}
	if query.Seen != nil {
		filter["seen"] = *query.Seen
	}

	entries, err := s.store.Query(ctx, collectionFor(recipient), filter, query.Limit)
	if err != nil {
		return nil, fmt.Errorf("%w: list for %s: %v", notificationErrors.ErrStoreOperation, recipient, err)
	}

	result := make([]models.NotificationEntry, 0, len(entries))
	for _, entry := range entries {
		result = append(result, models.NotificationEntry{
			Path:         entry.Path,
			Notification: toNotification(entry.Fields),
		})
	}
	return result, nil
}

func toNotification(fields docstore.Document) models.Notification {
	var n models.Notification
	if cause, ok := fields["cause"].(string); ok {
		n.Cause = cause
	}
	if sender, ok := fields["sender"].(string); ok {
		n.Sender = sender
	}
	if seen, ok := fields["seen"].(bool); ok {
		n.Seen = seen
	}
	if commentDocPath, ok := fields["commentDocPath"].(string); ok {
		n.CommentDocPath = commentDocPath
	}
	switch v := fields["notificationTime"].(type) {
	case int64:
		n.NotificationTime = v
	case float64:
		n.NotificationTime = int64(v)
	}
	return n
}

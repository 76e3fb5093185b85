// Copyright (c) 2024 BlockSocial
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package models

// Notification causes. The cause plus the sender identifies which
// interaction produced a notification, which is what the removal path
// queries on.
const (
	CauseLike    = "like"
	CauseComment = "comment"
)

// Notification is a single notification document under a recipient's
// notifications collection.
type Notification struct {
	Cause            string `json:"cause"`
	Sender           string `json:"sender"`
	NotificationTime int64  `json:"notificationTime"`
	Seen             bool   `json:"seen"`
	// CommentDocPath is set for comment notifications only.
	CommentDocPath string `json:"commentDocPath,omitempty"`
}

// NotificationEntry pairs a notification with its document path.
type NotificationEntry struct {
	Path         string       `json:"path"`
	Notification Notification `json:"notification"`
}

// ListQuery filters a recipient's notification listing. Decoded from the
// request query string.
type ListQuery struct {
	Limit int   `schema:"limit"`
	Seen  *bool `schema:"seen"`
}

// IsValidCause reports whether cause is a known notification cause.
func IsValidCause(cause string) bool {
	return cause == CauseLike || cause == CauseComment
}

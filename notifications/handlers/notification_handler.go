// Copyright (c) 2024 BlockSocial
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package handlers

import (
	"net/http"
	"net/url"

	"github.com/gofiber/fiber/v2"
	"github.com/gorilla/schema"

	"github.com/blocksocial/api/internal/types"
	"github.com/blocksocial/api/notifications/errors"
	"github.com/blocksocial/api/notifications/models"
	"github.com/blocksocial/api/notifications/services"
)

var queryDecoder = schema.NewDecoder()

func init() {
	queryDecoder.IgnoreUnknownKeys(true)
}

// NotificationHandler handles all notification-related HTTP requests
type NotificationHandler struct {
	notificationService services.NotificationService
}

// NewNotificationHandler creates a new NotificationHandler with injected dependencies
func NewNotificationHandler(notificationService services.NotificationService) *NotificationHandler {
	return &NotificationHandler{notificationService: notificationService}
}

// List returns the authenticated user's notifications
// Endpoint: GET /notifications?limit=N&seen=true|false
func (h *NotificationHandler) List(c *fiber.Ctx) error {
	user, ok := c.Locals(types.UserCtxName).(types.UserContext)
	if !ok {
		return errors.HandleUserContextError(c, "Invalid user context")
	}

	values := url.Values{}
	c.Context().QueryArgs().VisitAll(func(key, value []byte) {
		values.Add(string(key), string(value))
	})

	var query models.ListQuery
	if err := queryDecoder.Decode(&query, values); err != nil {
		return errors.HandleInvalidRequestError(c, "Invalid query parameters")
	}
	if query.Limit < 0 {
		return errors.HandleInvalidRequestError(c, "limit must not be negative")
	}

	entries, err := h.notificationService.List(c.UserContext(), user.Username, query)
	if err != nil {
		return errors.HandleServiceError(c, err)
	}

	return c.Status(http.StatusOK).JSON(fiber.Map{
		"notifications": entries,
	})
}

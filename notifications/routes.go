// Copyright (c) 2024 BlockSocial
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package notifications

import (
	"github.com/gofiber/fiber/v2"

	"github.com/blocksocial/api/internal/middleware/authjwt"
	platformconfig "github.com/blocksocial/api/internal/platform/config"
	"github.com/blocksocial/api/notifications/handlers"
)

// NotificationsHandlers holds all the handlers this router needs
type NotificationsHandlers struct {
	NotificationHandler *handlers.NotificationHandler
}

// RegisterRoutes is the single entry point for setting up notification routes
func RegisterRoutes(app *fiber.App, h *NotificationsHandlers, cfg *platformconfig.Config) {
	authMiddleware := authjwt.New(authjwt.Config{
		PublicKey: cfg.JWT.PublicKey,
	})

	group := app.Group("/notifications", authMiddleware)

	group.Get("/", h.NotificationHandler.List)
}

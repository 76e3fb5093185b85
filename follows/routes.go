// Copyright (c) 2024 BlockSocial
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package follows

import (
	"github.com/gofiber/fiber/v2"

	"github.com/blocksocial/api/follows/handlers"
	"github.com/blocksocial/api/internal/middleware/authjwt"
	platformconfig "github.com/blocksocial/api/internal/platform/config"
)

// FollowsHandlers holds all the handlers this router needs
type FollowsHandlers struct {
	FollowHandler *handlers.FollowHandler
}

// RegisterRoutes is the single entry point for setting up follow routes
func RegisterRoutes(app *fiber.App, h *FollowsHandlers, cfg *platformconfig.Config) {
	authMiddleware := authjwt.New(authjwt.Config{
		PublicKey: cfg.JWT.PublicKey,
	})

	group := app.Group("/follow", authMiddleware)

	group.Post("/", h.FollowHandler.ToggleFollow)
}

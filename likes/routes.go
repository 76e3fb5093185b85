// Copyright (c) 2024 BlockSocial
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package likes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/blocksocial/api/internal/middleware/authjwt"
	platformconfig "github.com/blocksocial/api/internal/platform/config"
	"github.com/blocksocial/api/likes/handlers"
)

// LikesHandlers holds all the handlers this router needs
type LikesHandlers struct {
	LikeHandler *handlers.LikeHandler
}

// RegisterRoutes is the single entry point for setting up like routes
func RegisterRoutes(app *fiber.App, h *LikesHandlers, cfg *platformconfig.Config) {
	authMiddleware := authjwt.New(authjwt.Config{
		PublicKey: cfg.JWT.PublicKey,
	})

	group := app.Group("/like", authMiddleware)

	group.Post("/", h.LikeHandler.ToggleLike)
}

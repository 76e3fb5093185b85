// Copyright (c) 2024 BlockSocial
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/blocksocial/api/internal/types"
	"github.com/blocksocial/api/likes/errors"
	"github.com/blocksocial/api/likes/models"
	"github.com/blocksocial/api/likes/services"
)

// LikeHandler handles all like-related HTTP requests
type LikeHandler struct {
	likeService services.LikeService
}

// NewLikeHandler creates a new LikeHandler with injected dependencies
func NewLikeHandler(likeService services.LikeService) *LikeHandler {
	return &LikeHandler{likeService: likeService}
}

// LikeRequest represents the request body for toggling a like
type LikeRequest struct {
	PostDocPath string `json:"postDocPath"`
	OpCode      int    `json:"opCode"` // 1=Add, -1=Remove
}

// ToggleLike adds or removes the caller's like on a post
// Endpoint: POST /like
// Body: {"postDocPath": "posts/<id>", "opCode": 1}
func (h *LikeHandler) ToggleLike(c *fiber.Ctx) error {
	var req LikeRequest
	if err := c.BodyParser(&req); err != nil {
		return errors.HandleInvalidRequestError(c, "Invalid request body")
	}

	if req.PostDocPath == "" {
		return errors.HandleInvalidRequestError(c, "postDocPath is required")
	}
	if !models.IsValidOp(req.OpCode) {
		return errors.HandleInvalidRequestError(c, "opCode must be 1 (Add) or -1 (Remove)")
	}

	user, ok := c.Locals(types.UserCtxName).(types.UserContext)
	if !ok {
		return errors.HandleUserContextError(c, "Invalid user context")
	}

	if err := h.likeService.ToggleLike(c.UserContext(), user, req.PostDocPath, req.OpCode); err != nil {
		return errors.HandleServiceError(c, err)
	}

	return c.Status(http.StatusOK).JSON(fiber.Map{})
}

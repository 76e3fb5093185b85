// Copyright (c) 2024 BlockSocial
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/blocksocial/api/follows/errors"
	"github.com/blocksocial/api/follows/models"
	"github.com/blocksocial/api/follows/services"
	"github.com/blocksocial/api/internal/types"
)

// FollowHandler handles all follow-related HTTP requests
type FollowHandler struct {
	followService services.FollowService
}

// NewFollowHandler creates a new FollowHandler with injected dependencies
func NewFollowHandler(followService services.FollowService) *FollowHandler {
	return &FollowHandler{followService: followService}
}

// FollowRequest represents the request body for toggling a follow
type FollowRequest struct {
	Username string `json:"username"`
	OpCode   int    `json:"opCode"` // 1=Follow, -1=Unfollow
}

// ToggleFollow follows or unfollows a user on behalf of the caller
// Endpoint: POST /follow
// Body: {"username": "bob", "opCode": 1}
func (h *FollowHandler) ToggleFollow(c *fiber.Ctx) error {
	var req FollowRequest
	if err := c.BodyParser(&req); err != nil {
		return errors.HandleInvalidRequestError(c, "Invalid request body")
	}

	if req.Username == "" {
		return errors.HandleInvalidRequestError(c, "username is required")
	}
	if !models.IsValidOp(req.OpCode) {
		return errors.HandleInvalidRequestError(c, "opCode must be 1 (Follow) or -1 (Unfollow)")
	}

	user, ok := c.Locals(types.UserCtxName).(types.UserContext)
	if !ok {
		return errors.HandleUserContextError(c, "Invalid user context")
	}

	if err := h.followService.ToggleFollow(c.UserContext(), user, req.Username, req.OpCode); err != nil {
		return errors.HandleServiceError(c, err)
	}

	return c.Status(http.StatusOK).JSON(fiber.Map{})
}

// Copyright (c) 2024 BlockSocial
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/blocksocial/api/comments/errors"
	"github.com/blocksocial/api/comments/services"
	"github.com/blocksocial/api/internal/types"
)

// CommentHandler handles all comment-related HTTP requests
type CommentHandler struct {
	commentService services.CommentService
}

// NewCommentHandler creates a new CommentHandler with injected dependencies
func NewCommentHandler(commentService services.CommentService) *CommentHandler {
	return &CommentHandler{commentService: commentService}
}

// CommentRequest represents the request body for adding a comment
type CommentRequest struct {
	PostDocPath string `json:"postDocPath"`
	Comment     string `json:"comment"`
}

// AddComment appends a comment to a post
// Endpoint: POST /comment
// Body: {"postDocPath": "posts/<id>", "comment": "text"}
func (h *CommentHandler) AddComment(c *fiber.Ctx) error {
	var req CommentRequest
	if err := c.BodyParser(&req); err != nil {
		return errors.HandleInvalidRequestError(c, "Invalid request body")
	}

	if req.PostDocPath == "" {
		return errors.HandleInvalidRequestError(c, "postDocPath is required")
	}
	if req.Comment == "" {
		return errors.HandleInvalidRequestError(c, "comment is required")
	}

	user, ok := c.Locals(types.UserCtxName).(types.UserContext)
	if !ok {
		return errors.HandleUserContextError(c, "Invalid user context")
	}

	commentDocPath, err := h.commentService.AddComment(c.UserContext(), user, req.PostDocPath, req.Comment)
	if err != nil {
		return errors.HandleServiceError(c, err)
	}

	return c.Status(http.StatusOK).JSON(fiber.Map{
		"newCommentDocPath": commentDocPath,
	})
}

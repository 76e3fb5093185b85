// Copyright (c) 2024 BlockSocial
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package errors

import (
	"errors"
	"net/http"

	"github.com/gofiber/fiber/v2"
)

// Like service specific errors
var (
	ErrAlreadyLiked       = errors.New("post already liked by user")
	ErrNotLiked           = errors.New("post not liked by user")
	ErrPostNotFound       = errors.New("post not found")
	ErrInvalidOpCode      = errors.New("invalid operation code")
	ErrInvalidRequest     = errors.New("invalid request")
	ErrMissingUserContext = errors.New("missing user context")
	ErrStoreOperation     = errors.New("store operation failed")
)

// Error codes
const (
	CodeAlreadyLiked       = "ALREADY_LIKED"
	CodeNotLiked           = "NOT_LIKED"
	CodePostNotFound       = "POST_NOT_FOUND"
	CodeInvalidOpCode      = "INVALID_OP_CODE"
	CodeInvalidRequest     = "INVALID_REQUEST"
	CodeMissingUserContext = "MISSING_USER_CONTEXT"
	CodeStoreError         = "STORE_ERROR"
)

// ErrorResponse represents the standardized error response format
type ErrorResponse struct {
	Code    string      `json:"code"`
	Message string      `json:"message"`
	Details interface{} `json:"details,omitempty"`
}

// HandleServiceError handles service errors and returns appropriate HTTP responses.
// Precondition conflicts and bad input map to 422, store failures to 503.
func HandleServiceError(c *fiber.Ctx, err error) error {
	if err == nil {
		return nil
	}

	switch {
	case errors.Is(err, ErrAlreadyLiked):
		return c.Status(http.StatusUnprocessableEntity).JSON(ErrorResponse{
			Code:    CodeAlreadyLiked,
			Message: "Post is already liked",
			Details: err.Error(),
		})
	case errors.Is(err, ErrNotLiked):
		return c.Status(http.StatusUnprocessableEntity).JSON(ErrorResponse{
			Code:    CodeNotLiked,
			Message: "Post is not liked",
			Details: err.Error(),
		})
	case errors.Is(err, ErrPostNotFound):
		return c.Status(http.StatusUnprocessableEntity).JSON(ErrorResponse{
			Code:    CodePostNotFound,
			Message: "Post not found",
			Details: err.Error(),
		})
	case errors.Is(err, ErrInvalidOpCode):
		return c.Status(http.StatusUnprocessableEntity).JSON(ErrorResponse{
			Code:    CodeInvalidOpCode,
			Message: "Invalid operation code",
			Details: err.Error(),
		})
	case errors.Is(err, ErrStoreOperation):
		return c.Status(http.StatusServiceUnavailable).JSON(ErrorResponse{
			Code:    CodeStoreError,
			Message: "Store operation failed",
			Details: err.Error(),
		})
	default:
		return c.Status(http.StatusInternalServerError).JSON(ErrorResponse{
			Code:    "INTERNAL_ERROR",
			Message: "An unexpected error occurred",
			Details: err.Error(),
		})
	}
}

// HandleInvalidRequestError handles invalid request errors with 422 Unprocessable Entity
func HandleInvalidRequestError(c *fiber.Ctx, message string) error {
	return c.Status(http.StatusUnprocessableEntity).JSON(ErrorResponse{
		Code:    CodeInvalidRequest,
		Message: message,
		Details: message,
	})
}

// HandleUserContextError handles user context errors with 401 Unauthorized
func HandleUserContextError(c *fiber.Ctx, message string) error {
	return c.Status(http.StatusUnauthorized).JSON(ErrorResponse{
		Code:    CodeMissingUserContext,
		Message: message,
		Details: message,
	})
}

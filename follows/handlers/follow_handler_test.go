// Copyright (c) 2024 BlockSocial
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package handlers

import (
	"context"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	followErrors "github.com/blocksocial/api/follows/errors"
	"github.com/blocksocial/api/internal/types"
)

// mockFollowService lets each test control service behavior.
type mockFollowService struct {
	toggleFn func(ctx context.Context, actor types.UserContext, target string, op int) error
}

func (m *mockFollowService) ToggleFollow(ctx context.Context, actor types.UserContext, target string, op int) error {
	return m.toggleFn(ctx, actor, target, op)
}

func setupApp(svc *mockFollowService, withUser bool) *fiber.App {
	app := fiber.New()
	if withUser {
		app.Use(func(c *fiber.Ctx) error {
			c.Locals(types.UserCtxName, types.UserContext{Username: "alice"})
			return c.Next()
		})
	}
	app.Post("/follow", NewFollowHandler(svc).ToggleFollow)
	return app
}

func postFollow(t *testing.T, app *fiber.App, body string) int {
	t.Helper()
	req := httptest.NewRequest("POST", "/follow", strings.NewReader(body))
	req.Header.Set(types.HeaderContentType, "application/json")
	resp, err := app.Test(req)
	require.NoError(t, err)
	return resp.StatusCode
}

func TestFollowHandler_ToggleFollow(t *testing.T) {
	t.Run("forwards the request to the service", func(t *testing.T) {
		called := false
		svc := &mockFollowService{
			toggleFn: func(ctx context.Context, actor types.UserContext, target string, op int) error {
				called = true
				assert.Equal(t, "alice", actor.Username)
				assert.Equal(t, "bob", target)
				assert.Equal(t, -1, op)
				return nil
			},
		}
		status := postFollow(t, setupApp(svc, true), `{"username": "bob", "opCode": -1}`)
		assert.Equal(t, fiber.StatusOK, status)
		assert.True(t, called)
	})

	t.Run("missing username", func(t *testing.T) {
		status := postFollow(t, setupApp(&mockFollowService{}, true), `{"opCode": 1}`)
		assert.Equal(t, fiber.StatusUnprocessableEntity, status)
	})

	t.Run("invalid opCode", func(t *testing.T) {
		status := postFollow(t, setupApp(&mockFollowService{}, true), `{"username": "bob", "opCode": 3}`)
		assert.Equal(t, fiber.StatusUnprocessableEntity, status)
	})

	t.Run("missing user context", func(t *testing.T) {
		status := postFollow(t, setupApp(&mockFollowService{}, false), `{"username": "bob", "opCode": 1}`)
		assert.Equal(t, fiber.StatusUnauthorized, status)
	})

	t.Run("self follow maps to 422", func(t *testing.T) {
		svc := &mockFollowService{
			toggleFn: func(ctx context.Context, actor types.UserContext, target string, op int) error {
				return followErrors.ErrSelfFollow
			},
		}
		status := postFollow(t, setupApp(svc, true), `{"username": "alice", "opCode": 1}`)
		assert.Equal(t, fiber.StatusUnprocessableEntity, status)
	})

	t.Run("store failure maps to 503", func(t *testing.T) {
		svc := &mockFollowService{
			toggleFn: func(ctx context.Context, actor types.UserContext, target string, op int) error {
				return followErrors.ErrStoreOperation
			},
		}
		status := postFollow(t, setupApp(svc, true), `{"username": "bob", "opCode": 1}`)
		assert.Equal(t, fiber.StatusServiceUnavailable, status)
	})
}

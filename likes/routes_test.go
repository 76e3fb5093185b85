// Copyright (c) 2024 BlockSocial
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package likes

import (
	"context"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/blocksocial/api/activities"
	"github.com/blocksocial/api/internal/docstore"
	"github.com/blocksocial/api/internal/docstore/memory"
	"github.com/blocksocial/api/internal/middleware/requestid"
	"github.com/blocksocial/api/internal/pkg/keymutex"
	platformconfig "github.com/blocksocial/api/internal/platform/config"
	"github.com/blocksocial/api/internal/testutil"
	"github.com/blocksocial/api/internal/types"
	"github.com/blocksocial/api/likes/handlers"
	likeServices "github.com/blocksocial/api/likes/services"
	notificationServices "github.com/blocksocial/api/notifications/services"
)

// End-to-end over the real route stack: token resolution, request id,
// handler, service and store.
func TestLikeRoutes_EndToEnd(t *testing.T) {
	testutil.LoadTestEnv()
	ctx := context.Background()

	privatePEM, publicPEM := testutil.GenerateES256KeyPair(t)

	cfg, err := platformconfig.LoadFromMap(map[string]string{
		"JWT_PUBLIC_KEY": publicPEM,
		"DB_TYPE":        "memory",
	})
	require.NoError(t, err)

	store := memory.New()
	require.NoError(t, store.Set(ctx, "posts/p1", docstore.Document{
		"likeCount":      int64(0),
		"commentCount":   int64(0),
		"senderUsername": "owner",
	}))

	notifications := notificationServices.NewNotificationService(store)
	likeService := likeServices.NewLikeService(store, keymutex.New(), notifications, activities.NewService(store), nil)

	app := fiber.New()
	app.Use(requestid.New())
	RegisterRoutes(app, &LikesHandlers{
		LikeHandler: handlers.NewLikeHandler(likeService),
	}, cfg)

	helper := testutil.NewHTTPHelper(app)
	token := testutil.MintAccessToken(t, privatePEM, types.UserContext{Username: "alice"})

	t.Run("request without a token is unauthorized", func(t *testing.T) {
		resp := helper.Request(t, "POST", "/like", `{"postDocPath": "posts/p1", "opCode": 1}`, "")
		assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
	})

	t.Run("authenticated like bumps the counter", func(t *testing.T) {
		resp := helper.Request(t, "POST", "/like", `{"postDocPath": "posts/p1", "opCode": 1}`, token)
		assert.Equal(t, fiber.StatusOK, resp.StatusCode)

		doc, err := store.Get(ctx, "posts/p1")
		require.NoError(t, err)
		assert.Equal(t, int64(1), doc["likeCount"])
	})

	t.Run("double like is rejected with 422", func(t *testing.T) {
		resp := helper.Request(t, "POST", "/like", `{"postDocPath": "posts/p1", "opCode": 1}`, token)
		assert.Equal(t, fiber.StatusUnprocessableEntity, resp.StatusCode)

		var body struct {
			Code string `json:"code"`
		}
		helper.DecodeJSON(t, resp, &body)
		assert.Equal(t, "ALREADY_LIKED", body.Code)
	})

	t.Run("unlike restores the counter", func(t *testing.T) {
		resp := helper.Request(t, "POST", "/like", `{"postDocPath": "posts/p1", "opCode": -1}`, token)
		assert.Equal(t, fiber.StatusOK, resp.StatusCode)

		doc, err := store.Get(ctx, "posts/p1")
		require.NoError(t, err)
		assert.Equal(t, int64(0), doc["likeCount"])
	})
}

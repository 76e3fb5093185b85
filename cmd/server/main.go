// Copyright (c) 2024 BlockSocial
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"

	"github.com/blocksocial/api/activities"
	"github.com/blocksocial/api/comments"
	commentHandlers "github.com/blocksocial/api/comments/handlers"
	commentServices "github.com/blocksocial/api/comments/services"
	"github.com/blocksocial/api/follows"
	followHandlers "github.com/blocksocial/api/follows/handlers"
	followServices "github.com/blocksocial/api/follows/services"
	"github.com/blocksocial/api/internal/cache"
	"github.com/blocksocial/api/internal/docstore"
	"github.com/blocksocial/api/internal/docstore/memory"
	"github.com/blocksocial/api/internal/docstore/postgres"
	"github.com/blocksocial/api/internal/middleware/requestid"
	"github.com/blocksocial/api/internal/pkg/keymutex"
	"github.com/blocksocial/api/internal/pkg/log"
	platformconfig "github.com/blocksocial/api/internal/platform/config"
	"github.com/blocksocial/api/likes"
	likeHandlers "github.com/blocksocial/api/likes/handlers"
	likeServices "github.com/blocksocial/api/likes/services"
	"github.com/blocksocial/api/notifications"
	notificationHandlers "github.com/blocksocial/api/notifications/handlers"
	notificationServices "github.com/blocksocial/api/notifications/services"
)

func main() {
	cfg, err := platformconfig.LoadFromEnv()
	if err != nil {
		log.Error("Failed to load config: %v", err)
		os.Exit(1)
	}

	ctx := context.Background()

	store, cleanup, err := newStore(ctx, cfg)
	if err != nil {
		log.Error("Failed to initialize document store: %v", err)
		os.Exit(1)
	}
	defer cleanup()

	ownerCache := cache.NewService(&cfg.Cache)
	defer ownerCache.Close()

	locker := keymutex.New()
	activityService := activities.NewService(store)
	notificationService := notificationServices.NewNotificationService(store)
	likeService := likeServices.NewLikeService(store, locker, notificationService, activityService, ownerCache)
	commentService := commentServices.NewCommentService(store, locker, notificationService, activityService, ownerCache)
	followService := followServices.NewFollowService(store, locker)

	app := fiber.New(fiber.Config{
		AppName: cfg.App.Name,
	})

	app.Use(requestid.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.App.WebDomain,
		AllowCredentials: true,
	}))

	app.Get("/healthz", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	likes.RegisterRoutes(app, &likes.LikesHandlers{
		LikeHandler: likeHandlers.NewLikeHandler(likeService),
	}, cfg)
	comments.RegisterRoutes(app, &comments.CommentsHandlers{
		CommentHandler: commentHandlers.NewCommentHandler(commentService),
	}, cfg)
	follows.RegisterRoutes(app, &follows.FollowsHandlers{
		FollowHandler: followHandlers.NewFollowHandler(followService),
	}, cfg)
	notifications.RegisterRoutes(app, &notifications.NotificationsHandlers{
		NotificationHandler: notificationHandlers.NewNotificationHandler(notificationService),
	}, cfg)

	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		<-quit
		log.Info("Shutting down")
		if err := app.Shutdown(); err != nil {
			log.Error("Shutdown failed: %v", err)
		}
	}()

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	log.Info("Listening on %s (store=%s)", addr, cfg.Database.Type)
	if err := app.Listen(addr); err != nil {
		log.Error("Server stopped: %v", err)
		os.Exit(1)
	}
}

// newStore builds the configured docstore backend. The cleanup func closes
// whatever the backend holds open.
func newStore(ctx context.Context, cfg *platformconfig.Config) (docstore.Store, func(), error) {
	switch cfg.Database.Type {
	case "memory":
		return memory.New(), func() {}, nil
	default:
		pg, err := postgres.New(ctx, &postgres.Config{
			Host:            cfg.Database.Postgres.Host,
			Port:            cfg.Database.Postgres.Port,
			Username:        cfg.Database.Postgres.Username,
			Password:        cfg.Database.Postgres.Password,
			Database:        cfg.Database.Postgres.Database,
			SSLMode:         cfg.Database.Postgres.SSLMode,
			MaxOpenConns:    cfg.Database.Postgres.MaxOpenConns,
			MaxIdleConns:    cfg.Database.Postgres.MaxIdleConns,
			ConnMaxLifetime: cfg.Database.Postgres.ConnMaxLifetime,
		})
		if err != nil {
			return nil, nil, err
		}
		return pg, func() {
			if err := pg.Close(); err != nil {
				log.Warn("Failed to close store: %v", err)
			}
		}, nil
	}
}

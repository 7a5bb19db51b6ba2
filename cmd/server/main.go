// main.go
//
// shoutbase - testimonial collection and management backend
// Copyright (c) 2026 Alex Grant <info@localnerve.com> (https://www.localnerve.com), LocalNerve LLC
//
// This file is part of shoutbase.
// shoutbase is free software: you can redistribute it and/or modify it
// under the terms of the GNU Affero General Public License as published by the Free Software
// Foundation, either version 3 of the License, or (at your option) any later version.
// shoutbase is distributed in the hope that it will be useful, but WITHOUT ANY WARRANTY;
// without even the implied warranty of MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.
// See the GNU Affero General Public License for more details.
// You should have received a copy of the GNU Affero General Public License along with shoutbase.
// If not, see <https://www.gnu.org/licenses/>.
// Additional terms under GNU AGPL version 3 section 7:
// a) The reasonable legal notice of original copyright and author attribution must be preserved
//    by including the string: "Copyright (c) 2026 Alex Grant <info@localnerve.com> (https://www.localnerve.com), LocalNerve LLC"
//    in this material, copies, or source code of derived works.

package main

import (
	"context"
	"errors"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	swagger "github.com/gofiber/swagger"
	"github.com/joho/godotenv"
	"github.com/localnerve/shoutbase/internal/config"
	"github.com/localnerve/shoutbase/internal/database"
	"github.com/localnerve/shoutbase/internal/handlers"
	"github.com/localnerve/shoutbase/internal/middleware"
	"github.com/localnerve/shoutbase/internal/services"
	"github.com/localnerve/shoutbase/internal/storage"
	"github.com/localnerve/shoutbase/internal/types"
	"github.com/localnerve/shoutbase/internal/utils"

	_ "github.com/localnerve/shoutbase/docs/api" // Swagger docs
)

// @title Shoutbase API
// @version 1.0.0
// @description Testimonial collection backend with spaces, reviews, and direct-to-bucket media uploads
// @termsOfService http://swagger.io/terms/

// @contact.name API Support
// @contact.url https://github.com/localnerve/shoutbase
// @contact.email info@localnerve.com

// @license.name AGPL-3.0
// @license.url https://www.gnu.org/licenses/agpl-3.0.html

// @host localhost:3000
// @BasePath /api
// @schemes http https

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

func main() {
	// .env is optional; real deployments set the environment directly
	_ = godotenv.Load()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Connect to database
	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer database.Close(db)

	// Run auto-migrations
	if err := database.AutoMigrate(db); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	// Object storage; probe custom endpoints early so a bad MinIO/LocalStack
	// URL fails at startup instead of on the first presign
	if cfg.S3Endpoint != "" {
		if err := utils.PingStorageEndpoint(cfg.S3Endpoint); err != nil {
			log.Fatalf("Storage endpoint unreachable: %v", err)
		}
	}
	signer, err := storage.NewS3Signer(context.Background(), cfg)
	if err != nil {
		log.Fatalf("Failed to create storage signer: %v", err)
	}
	media := storage.NewResolver(signer)

	tokens, err := services.NewTokenService(cfg.JWTSecret, cfg.TokenTTL)
	if err != nil {
		log.Fatalf("Failed to create token service: %v", err)
	}

	// Create Fiber app
	app := fiber.New(fiber.Config{
		ErrorHandler:          customErrorHandler,
		DisableStartupMessage: false,
	})

	// Global middleware
	app.Use(recover.New())
	app.Use(logger.New())
	app.Use(compress.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: cfg.CORSOrigin,
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
	}))

	// Prometheus metrics
	prometheus := fiberprometheus.New("shoutbase")
	prometheus.RegisterAt(app, "/metrics")
	app.Use(prometheus.Middleware)

	// Swagger documentation
	app.Get("/swagger/*", swagger.HandlerDefault)

	// Create handlers
	authHandler := &handlers.AuthHandler{DB: db, Tokens: tokens}
	spaceHandler := &handlers.SpaceHandler{DB: db, Media: media}
	reviewHandler := &handlers.ReviewHandler{DB: db, Media: media}
	presignHandler := &handlers.PresignHandler{Signer: signer}
	healthHandler := &handlers.HealthHandler{Config: cfg, DB: db, Store: signer}

	// API routes under /api
	api := app.Group("/api")

	// Version middleware
	api.Use(middleware.VersionMiddleware())

	// Public routes
	api.Post("/signup", authHandler.Signup)
	api.Post("/login", authHandler.Login)
	api.Get("/health", healthHandler.Health)

	// Protected routes
	authed := api.Use(middleware.AuthRequired(tokens))
	authed.Get("/spaces", spaceHandler.ListSpaces)
	authed.Get("/spaces/single-space/:spaceName", spaceHandler.GetSpace)
	authed.Post("/spaces", spaceHandler.CreateSpace)
	authed.Put("/spaces", spaceHandler.UpdateSpace)
	authed.Delete("/spaces", spaceHandler.DeleteSpace)

	authed.Get("/reviews", reviewHandler.ListReviews)
	authed.Post("/reviews", reviewHandler.CreateReview)
	authed.Put("/reviews", reviewHandler.UpdateReview)
	authed.Delete("/reviews", reviewHandler.DeleteReview)

	authed.Get("/presigned-url", presignHandler.PresignedURL)

	// 404 handler
	app.Use(func(c *fiber.Ctx) error {
		return utils.NotFoundResponse(c, "[404] Resource Not Found")
	})

	// Graceful shutdown
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-c
		log.Println("Gracefully shutting down...")
		_ = app.Shutdown()
	}()

	// Start server
	port := cfg.Port
	log.Printf("Starting server on port %s", port)
	if err := app.Listen(":" + port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}

	log.Println("Server stopped")
}

// customErrorHandler handles errors globally. Only CustomError messages reach
// clients; anything else is logged server-side and collapsed to a generic 500.
func customErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	message := "Internal Server Error"
	errorType := "unknown"

	var ce *types.CustomError
	var fe *fiber.Error
	switch {
	case errors.As(err, &ce):
		code = ce.Code
		message = ce.Message
		errorType = ce.Type
	case errors.As(err, &fe):
		code = fe.Code
		message = fe.Message
	default:
		log.Printf("Unhandled error on %s: %v", c.OriginalURL(), err)
	}

	return c.Status(code).JSON(fiber.Map{
		"status":    code,
		"message":   message,
		"ok":        false,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"url":       c.OriginalURL(),
		"type":      errorType,
	})
}

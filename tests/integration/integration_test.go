package integration_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"os"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/localnerve/shoutbase/internal/config"
	"github.com/localnerve/shoutbase/internal/database"
	"github.com/localnerve/shoutbase/internal/handlers"
	"github.com/localnerve/shoutbase/internal/middleware"
	"github.com/localnerve/shoutbase/internal/services"
	"github.com/localnerve/shoutbase/internal/storage"
	"github.com/localnerve/shoutbase/internal/types"
	"github.com/localnerve/shoutbase/tests/helpers"
	"gorm.io/gorm"
)

// TestWithContainers runs the full stack against real MariaDB and MinIO
// containers: auth, space lifecycle, review moderation, and presigned media.
func TestWithContainers(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	containers, err := helpers.CreateAllTestContainers(t)
	if err != nil {
		t.Fatalf("Failed to create containers: %v", err)
	}
	defer containers.Terminate(t)

	cfg := &config.Config{
		DBType:             "mysql",
		DBHost:             containers.DBHost,
		DBPort:             containers.DBPort,
		DBDatabase:         getEnvDefault("DB_DATABASE", "shoutbase"),
		DBUser:             "root",
		DBPassword:         getEnvDefault("DB_ROOT_PASSWORD", "root"),
		DBConnectionLimit:  5,
		JWTSecret:          "integration-secret",
		TokenTTL:           time.Hour,
		S3Bucket:           getEnvDefault("S3_BUCKET_NAME", "shoutbase-media"),
		S3Region:           "us-east-1",
		S3Endpoint:         "http://" + containers.MinIOHost + ":" + containers.MinIOPort,
		AWSAccessKeyID:     getEnvDefault("AWS_ACCESS_KEY_ID", "minioadmin"),
		AWSSecretAccessKey: getEnvDefault("AWS_SECRET_ACCESS_KEY", "minioadmin"),
	}

	// Wait for database to be ready
	time.Sleep(5 * time.Second)

	db, err := database.Connect(cfg)
	if err != nil {
		t.Fatalf("Failed to connect to database: %v", err)
	}
	defer database.Close(db)

	if err := database.AutoMigrate(db); err != nil {
		t.Fatalf("Failed to run migrations: %v", err)
	}

	signer, err := storage.NewS3Signer(context.Background(), cfg)
	if err != nil {
		t.Fatalf("Failed to create storage signer: %v", err)
	}

	app := buildApp(t, cfg, db, signer)

	t.Run("HealthCheck", func(t *testing.T) {
		testHealthCheck(t, app)
	})

	t.Run("SpaceLifecycle", func(t *testing.T) {
		testSpaceLifecycle(t, app)
	})

	t.Run("ReviewModeration", func(t *testing.T) {
		testReviewModeration(t, app)
	})

	t.Run("PresignedUpload", func(t *testing.T) {
		testPresignedUpload(t, app)
	})
}

func buildApp(t *testing.T, cfg *config.Config, db *gorm.DB, signer *storage.S3Signer) *fiber.App {
	t.Helper()

	tokens, err := services.NewTokenService(cfg.JWTSecret, cfg.TokenTTL)
	if err != nil {
		t.Fatalf("Failed to create token service: %v", err)
	}
	media := storage.NewResolver(signer)

	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			if ce, ok := err.(*types.CustomError); ok {
				return c.Status(ce.Code).JSON(fiber.Map{"message": ce.Message, "type": ce.Type})
			}
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": "Internal Server Error"})
		},
	})

	authHandler := &handlers.AuthHandler{DB: db, Tokens: tokens}
	spaceHandler := &handlers.SpaceHandler{DB: db, Media: media}
	reviewHandler := &handlers.ReviewHandler{DB: db, Media: media}
	presignHandler := &handlers.PresignHandler{Signer: signer}
	healthHandler := &handlers.HealthHandler{Config: cfg, DB: db, Store: signer}

	api := app.Group("/api")
	api.Post("/signup", authHandler.Signup)
	api.Post("/login", authHandler.Login)
	api.Get("/health", healthHandler.Health)

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

	return app
}

func request(t *testing.T, app *fiber.App, method, path, token string, body interface{}) *http.Response {
	t.Helper()

	var raw []byte
	if body != nil {
		var err error
		raw, err = json.Marshal(body)
		if err != nil {
			t.Fatalf("Failed to marshal body: %v", err)
		}
	}

	req, err := http.NewRequest(method, path, bytes.NewReader(raw))
	if err != nil {
		t.Fatalf("Failed to build request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", token)
	}

	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatalf("Failed to execute request: %v", err)
	}
	return resp
}

func testHealthCheck(t *testing.T, app *fiber.App) {
	resp := request(t, app, "GET", "/api/health", "", nil)
	helpers.AssertStatus(t, resp, http.StatusOK)

	var result struct {
		Status   string `json:"status"`
		Database string `json:"database"`
		Storage  string `json:"storage"`
	}
	helpers.ParseJSON(t, resp, &result)

	if result.Status != "healthy" {
		t.Errorf("Expected healthy, got %s", result.Status)
	}
	if result.Database != "ok" || result.Storage != "ok" {
		t.Errorf("Expected db and storage ok, got %s / %s", result.Database, result.Storage)
	}
}

func testSpaceLifecycle(t *testing.T, app *fiber.App) {
	email := helpers.UniqueEmail()
	token := helpers.AcquireAccount(t, app, email, helpers.GeneratePassword())

	spaceName := helpers.UniqueSpaceName()
	resp := request(t, app, "POST", "/api/spaces", token, map[string]interface{}{
		"spaceName": spaceName,
		"questions": []map[string]interface{}{
			{"text": "What did you like?", "order": 0},
		},
		"collectExtraInfo": map[string]bool{"name": true, "email": true},
	})
	helpers.AssertStatus(t, resp, http.StatusCreated)

	var created struct {
		ID uint64 `json:"id"`
	}
	helpers.ParseJSON(t, resp, &created)
	if created.ID == 0 {
		t.Fatal("Expected a persisted space id")
	}

	resp = request(t, app, "GET", "/api/spaces/single-space/"+spaceName, token, nil)
	helpers.AssertStatus(t, resp, http.StatusOK)

	var single struct {
		Space struct {
			SpaceName string `json:"spaceName"`
			Questions []struct {
				Text string `json:"text"`
			} `json:"questions"`
		} `json:"space"`
	}
	helpers.ParseJSON(t, resp, &single)
	if single.Space.SpaceName != spaceName {
		t.Errorf("Expected space %s, got %s", spaceName, single.Space.SpaceName)
	}
	if len(single.Space.Questions) != 1 {
		t.Errorf("Expected 1 question, got %d", len(single.Space.Questions))
	}

	// Cross-user access is forbidden
	otherToken := helpers.AcquireAccount(t, app, helpers.UniqueEmail(), helpers.GeneratePassword())
	resp = request(t, app, "DELETE", "/api/spaces", otherToken, map[string]interface{}{
		"id": created.ID,
	})
	helpers.AssertStatus(t, resp, http.StatusForbidden)

	resp = request(t, app, "DELETE", "/api/spaces", token, map[string]interface{}{
		"id": created.ID,
	})
	helpers.AssertStatus(t, resp, http.StatusOK)
	helpers.AssertMessage(t, resp, "Space deleted successfully")
}

func testReviewModeration(t *testing.T, app *fiber.App) {
	token := helpers.AcquireAccount(t, app, helpers.UniqueEmail(), helpers.GeneratePassword())

	resp := request(t, app, "POST", "/api/spaces", token, map[string]interface{}{
		"spaceName": helpers.UniqueSpaceName(),
	})
	helpers.AssertStatus(t, resp, http.StatusCreated)

	var space struct {
		ID uint64 `json:"id"`
	}
	helpers.ParseJSON(t, resp, &space)

	resp = request(t, app, "POST", "/api/reviews", token, map[string]interface{}{
		"spaceId":     space.ID,
		"reviewType":  "text",
		"reviewText":  "Five stars, would shout again",
		"userDetails": map[string]string{"name": "Sam", "email": "sam@example.com"},
	})
	helpers.AssertStatus(t, resp, http.StatusCreated)

	var created struct {
		Review struct {
			ID                 uint64 `json:"id"`
			PositiveStarsCount int    `json:"positiveStarsCount"`
		} `json:"review"`
	}
	helpers.ParseJSON(t, resp, &created)
	if created.Review.PositiveStarsCount != 5 {
		t.Errorf("Expected default star count 5, got %d", created.Review.PositiveStarsCount)
	}

	resp = request(t, app, "PUT", "/api/reviews", token, map[string]interface{}{
		"id":      created.Review.ID,
		"isLiked": true,
	})
	helpers.AssertStatus(t, resp, http.StatusOK)

	var moderated struct {
		Review struct {
			IsLiked bool `json:"isLiked"`
		} `json:"review"`
	}
	helpers.ParseJSON(t, resp, &moderated)
	if !moderated.Review.IsLiked {
		t.Error("Expected the review to be liked")
	}

	resp = request(t, app, "DELETE", "/api/reviews", token, map[string]interface{}{
		"id": created.Review.ID,
	})
	helpers.AssertStatus(t, resp, http.StatusOK)
}

func testPresignedUpload(t *testing.T, app *fiber.App) {
	token := helpers.AcquireAccount(t, app, helpers.UniqueEmail(), helpers.GeneratePassword())

	resp := request(t, app, "GET", "/api/presigned-url?fileName=upload.png&fileType=image/png", token, nil)
	helpers.AssertStatus(t, resp, http.StatusOK)

	var result struct {
		URL string `json:"url"`
	}
	helpers.ParseJSON(t, resp, &result)
	if result.URL == "" {
		t.Fatal("Expected a presigned URL")
	}

	// The granted URL actually accepts a PUT against MinIO
	payload := []byte("not really a png")
	putReq, err := http.NewRequest(http.MethodPut, result.URL, bytes.NewReader(payload))
	if err != nil {
		t.Fatalf("Failed to build upload request: %v", err)
	}
	putReq.Header.Set("Content-Type", "image/png")

	putResp, err := http.DefaultClient.Do(putReq)
	if err != nil {
		t.Fatalf("Failed to upload: %v", err)
	}
	defer putResp.Body.Close()
	if putResp.StatusCode != http.StatusOK {
		t.Errorf("Expected upload to succeed, got %d", putResp.StatusCode)
	}
}

func getEnvDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

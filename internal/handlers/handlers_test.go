package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/localnerve/shoutbase/internal/handlers"
	"github.com/localnerve/shoutbase/internal/middleware"
	"github.com/localnerve/shoutbase/internal/models"
	"github.com/localnerve/shoutbase/internal/services"
	"github.com/localnerve/shoutbase/internal/storage"
	"github.com/localnerve/shoutbase/internal/types"
	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

// fakeSigner serves presigned URLs without any network
type fakeSigner struct{}

func (f *fakeSigner) PresignGet(_ context.Context, key string, _ time.Duration) (string, error) {
	return "https://signed.example.com/" + key, nil
}

func (f *fakeSigner) PresignPut(_ context.Context, key, _ string, _ time.Duration) (string, error) {
	return "https://signed.example.com/put/" + key, nil
}

// setupTestApp wires the full route table over an in-memory SQLite database
func setupTestApp(t *testing.T) (*fiber.App, *gorm.DB) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("Failed to create test database: %v", err)
	}
	err = db.AutoMigrate(
		&models.User{},
		&models.Space{},
		&models.Question{},
		&models.CollectExtraInfo{},
		&models.Review{},
	)
	if err != nil {
		t.Fatalf("Failed to migrate test database: %v", err)
	}

	tokens, err := services.NewTokenService("test-secret", time.Hour)
	if err != nil {
		t.Fatalf("Failed to create token service: %v", err)
	}

	signer := &fakeSigner{}
	media := storage.NewResolver(signer)

	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			if ce, ok := err.(*types.CustomError); ok {
				return c.Status(ce.Code).JSON(fiber.Map{
					"status":  ce.Code,
					"message": ce.Message,
					"ok":      false,
					"type":    ce.Type,
				})
			}
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"message": "Internal Server Error",
			})
		},
	})

	authHandler := &handlers.AuthHandler{DB: db, Tokens: tokens}
	spaceHandler := &handlers.SpaceHandler{DB: db, Media: media}
	reviewHandler := &handlers.ReviewHandler{DB: db, Media: media}
	presignHandler := &handlers.PresignHandler{Signer: signer}

	api := app.Group("/api")
	api.Post("/signup", authHandler.Signup)
	api.Post("/login", authHandler.Login)

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

	return app, db
}

func doJSON(t *testing.T, app *fiber.App, method, path, token string, body interface{}) (int, map[string]interface{}) {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("Failed to marshal body: %v", err)
		}
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", token)
	}

	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatalf("Failed to execute request: %v", err)
	}

	var result map[string]interface{}
	_ = json.NewDecoder(resp.Body).Decode(&result)

	return resp.StatusCode, result
}

func acquireToken(t *testing.T, app *fiber.App, email string) string {
	t.Helper()

	status, _ := doJSON(t, app, "POST", "/api/signup", "", map[string]string{
		"firstname": "Test",
		"email":     email,
		"password":  "s3cret-Pass!",
	})
	if status != 201 {
		t.Fatalf("Signup failed with status %d", status)
	}

	status, result := doJSON(t, app, "POST", "/api/login", "", map[string]string{
		"email":    email,
		"password": "s3cret-Pass!",
	})
	if status != 200 {
		t.Fatalf("Login failed with status %d", status)
	}

	token, _ := result["token"].(string)
	if token == "" {
		t.Fatal("Login returned an empty token")
	}
	return token
}

func TestSignupValidation(t *testing.T) {
	app, _ := setupTestApp(t)

	status, result := doJSON(t, app, "POST", "/api/signup", "", map[string]string{
		"email": "a@example.com",
	})
	if status != 400 {
		t.Errorf("Expected 400, got %d", status)
	}
	if result["message"] != "Firstname and email are required." {
		t.Errorf("Unexpected message: %v", result["message"])
	}

	status, result = doJSON(t, app, "POST", "/api/signup", "", map[string]string{
		"firstname": "Test",
		"email":     "a@example.com",
	})
	if status != 400 {
		t.Errorf("Expected 400, got %d", status)
	}
	if result["message"] != "Password is required for normal sign-up." {
		t.Errorf("Unexpected message: %v", result["message"])
	}

	// Google sign-up without a UID must not reach the unique index
	status, result = doJSON(t, app, "POST", "/api/signup", "", map[string]interface{}{
		"firstname":    "Test",
		"email":        "a@example.com",
		"googleSignUp": true,
	})
	if status != 400 {
		t.Errorf("Expected 400, got %d", status)
	}
	if result["message"] != "Google UID is required for Google sign-up." {
		t.Errorf("Unexpected message: %v", result["message"])
	}
}

func TestSignupThenConflictThenLogin(t *testing.T) {
	app, _ := setupTestApp(t)

	payload := map[string]string{
		"firstname": "Test",
		"email":     "a@example.com",
		"password":  "s3cret-Pass!",
	}

	status, result := doJSON(t, app, "POST", "/api/signup", "", payload)
	if status != 201 {
		t.Fatalf("Expected 201, got %d", status)
	}
	if result["message"] != "User registered successfully." {
		t.Errorf("Unexpected message: %v", result["message"])
	}
	user, _ := result["user"].(map[string]interface{})
	if user == nil {
		t.Fatal("Expected user in response")
	}
	if _, present := user["password"]; present {
		t.Error("Password must never appear in a response")
	}

	status, result = doJSON(t, app, "POST", "/api/signup", "", payload)
	if status != 409 {
		t.Errorf("Expected 409, got %d", status)
	}
	if result["message"] != "User already exists. Please sign in instead." {
		t.Errorf("Unexpected message: %v", result["message"])
	}

	status, result = doJSON(t, app, "POST", "/api/login", "", map[string]string{
		"email":    "a@example.com",
		"password": "s3cret-Pass!",
	})
	if status != 200 {
		t.Fatalf("Expected 200, got %d", status)
	}
	if result["token"] == "" {
		t.Error("Expected a token")
	}
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	app, _ := setupTestApp(t)

	status, result := doJSON(t, app, "GET", "/api/spaces", "", nil)
	if status != 401 {
		t.Errorf("Expected 401, got %d", status)
	}
	if result["message"] != "Access token is missing or invalid" {
		t.Errorf("Unexpected message: %v", result["message"])
	}

	status, result = doJSON(t, app, "GET", "/api/spaces", "bad-token", nil)
	if status != 403 {
		t.Errorf("Expected 403, got %d", status)
	}
	if result["message"] != "Invalid token" {
		t.Errorf("Unexpected message: %v", result["message"])
	}
}

func TestSpaceLifecycle(t *testing.T) {
	app, _ := setupTestApp(t)
	token := acquireToken(t, app, "owner@example.com")

	// Create
	status, created := doJSON(t, app, "POST", "/api/spaces", token, map[string]interface{}{
		"spaceName": "acme",
		"logo":      "Images/logo.png",
		"questions": []map[string]interface{}{
			{"text": "Who are you?", "order": 0},
		},
		"collectExtraInfo": map[string]bool{"name": true},
	})
	if status != 201 {
		t.Fatalf("Expected 201, got %d", status)
	}
	spaceID := created["id"].(float64)

	// Duplicate name conflicts
	status, result := doJSON(t, app, "POST", "/api/spaces", token, map[string]interface{}{
		"spaceName": "acme",
	})
	if status != 409 {
		t.Errorf("Expected 409, got %d", status)
	}
	if result["message"] != "A space with this name already exists." {
		t.Errorf("Unexpected message: %v", result["message"])
	}

	// List carries counts and presigned logo
	status, result = doJSON(t, app, "GET", "/api/spaces", token, nil)
	if status != 200 {
		t.Fatalf("Expected 200, got %d", status)
	}
	spaces, _ := result["spaces"].([]interface{})
	if len(spaces) != 1 {
		t.Fatalf("Expected 1 space, got %d", len(spaces))
	}
	item := spaces[0].(map[string]interface{})
	info := item["spaceInfo"].(map[string]interface{})
	if info["logo"] != "https://signed.example.com/Images/logo.png" {
		t.Errorf("Expected presigned logo, got %v", info["logo"])
	}
	if item["videoCount"].(float64) != 0 || item["textCount"].(float64) != 0 {
		t.Error("Expected zero review counts")
	}
	if _, present := info["userId"]; present {
		t.Error("Owning user id must not appear in the response")
	}

	// Get single
	status, result = doJSON(t, app, "GET", "/api/spaces/single-space/acme", token, nil)
	if status != 200 {
		t.Fatalf("Expected 200, got %d", status)
	}
	single := result["space"].(map[string]interface{})
	questions := single["questions"].([]interface{})
	if len(questions) != 1 {
		t.Errorf("Expected 1 question, got %d", len(questions))
	}

	// Update without id fails
	status, result = doJSON(t, app, "PUT", "/api/spaces", token, map[string]interface{}{
		"spaceName": "renamed",
	})
	if status != 400 {
		t.Errorf("Expected 400, got %d", status)
	}
	if result["message"] != "Space ID is required" {
		t.Errorf("Unexpected message: %v", result["message"])
	}

	// Update
	status, _ = doJSON(t, app, "PUT", "/api/spaces", token, map[string]interface{}{
		"id":        spaceID,
		"spaceName": "renamed",
	})
	if status != 200 {
		t.Fatalf("Expected 200, got %d", status)
	}

	// Delete without id fails
	status, result = doJSON(t, app, "DELETE", "/api/spaces", token, map[string]interface{}{})
	if status != 400 {
		t.Errorf("Expected 400, got %d", status)
	}
	if result["message"] != "Space ID is required" {
		t.Errorf("Unexpected message: %v", result["message"])
	}

	// Delete
	status, result = doJSON(t, app, "DELETE", "/api/spaces", token, map[string]interface{}{
		"id": spaceID,
	})
	if status != 200 {
		t.Fatalf("Expected 200, got %d", status)
	}
	if result["message"] != "Space deleted successfully" {
		t.Errorf("Unexpected message: %v", result["message"])
	}
}

func TestSpaceCrossUserForbidden(t *testing.T) {
	app, _ := setupTestApp(t)
	ownerToken := acquireToken(t, app, "owner@example.com")
	intruderToken := acquireToken(t, app, "intruder@example.com")

	status, created := doJSON(t, app, "POST", "/api/spaces", ownerToken, map[string]interface{}{
		"spaceName": "acme",
	})
	if status != 201 {
		t.Fatalf("Expected 201, got %d", status)
	}
	spaceID := created["id"].(float64)

	status, result := doJSON(t, app, "PUT", "/api/spaces", intruderToken, map[string]interface{}{
		"id":        spaceID,
		"spaceName": "stolen",
	})
	if status != 403 {
		t.Errorf("Expected 403, got %d", status)
	}
	if result["message"] != "You are not authorized to modify this resource" {
		t.Errorf("Unexpected message: %v", result["message"])
	}

	status, _ = doJSON(t, app, "DELETE", "/api/spaces", intruderToken, map[string]interface{}{
		"id": spaceID,
	})
	if status != 403 {
		t.Errorf("Expected 403, got %d", status)
	}
}

func TestReviewFlow(t *testing.T) {
	app, _ := setupTestApp(t)
	token := acquireToken(t, app, "owner@example.com")

	status, created := doJSON(t, app, "POST", "/api/spaces", token, map[string]interface{}{
		"spaceName": "acme",
	})
	if status != 201 {
		t.Fatalf("Expected 201, got %d", status)
	}
	spaceID := created["id"].(float64)

	// Missing required fields
	status, result := doJSON(t, app, "POST", "/api/reviews", token, map[string]interface{}{
		"spaceId": spaceID,
	})
	if status != 400 {
		t.Errorf("Expected 400, got %d", status)
	}
	if result["message"] != "Missing required fields: spaceId, reviewType, or userDetails" {
		t.Errorf("Unexpected message: %v", result["message"])
	}

	// Create
	status, result = doJSON(t, app, "POST", "/api/reviews", token, map[string]interface{}{
		"spaceId":     spaceID,
		"reviewType":  "text",
		"reviewText":  "Great product",
		"reviewImage": "Images/photo.png",
		"userDetails": map[string]string{"name": "Sam"},
	})
	if status != 201 {
		t.Fatalf("Expected 201, got %d", status)
	}
	review := result["review"].(map[string]interface{})
	reviewID := review["id"].(float64)
	if review["positiveStarsCount"].(float64) != 5 {
		t.Errorf("Expected default stars 5, got %v", review["positiveStarsCount"])
	}

	// Bad space id on list
	status, result = doJSON(t, app, "GET", "/api/reviews?spaceId=abc", token, nil)
	if status != 400 {
		t.Errorf("Expected 400, got %d", status)
	}
	if result["message"] != "Invalid spaceID" {
		t.Errorf("Unexpected message: %v", result["message"])
	}

	// List presigns media
	status, result = doJSON(t, app, "GET", "/api/reviews?spaceId=1", token, nil)
	if status != 200 {
		t.Fatalf("Expected 200, got %d", status)
	}
	reviews := result["reviews"].([]interface{})
	if len(reviews) != 1 {
		t.Fatalf("Expected 1 review, got %d", len(reviews))
	}
	listed := reviews[0].(map[string]interface{})
	if listed["reviewImage"] != "https://signed.example.com/Images/photo.png" {
		t.Errorf("Expected presigned image, got %v", listed["reviewImage"])
	}

	// Update without id fails
	status, result = doJSON(t, app, "PUT", "/api/reviews", token, map[string]interface{}{
		"isLiked": true,
	})
	if status != 400 {
		t.Errorf("Expected 400, got %d", status)
	}
	if result["message"] != "Review ID is missing" {
		t.Errorf("Unexpected message: %v", result["message"])
	}

	// Moderate
	status, result = doJSON(t, app, "PUT", "/api/reviews", token, map[string]interface{}{
		"id":      reviewID,
		"isLiked": true,
	})
	if status != 200 {
		t.Fatalf("Expected 200, got %d", status)
	}
	moderated := result["review"].(map[string]interface{})
	if moderated["isLiked"] != true {
		t.Error("Expected isLiked to be set")
	}

	// Delete
	status, result = doJSON(t, app, "DELETE", "/api/reviews", token, map[string]interface{}{
		"id": reviewID,
	})
	if status != 200 {
		t.Fatalf("Expected 200, got %d", status)
	}
	if result["message"] != "Review deleted successfully" {
		t.Errorf("Unexpected message: %v", result["message"])
	}
}

func TestPresignedURL(t *testing.T) {
	app, _ := setupTestApp(t)
	token := acquireToken(t, app, "owner@example.com")

	status, result := doJSON(t, app, "GET", "/api/presigned-url", token, nil)
	if status != 400 {
		t.Errorf("Expected 400, got %d", status)
	}
	if result["message"] != "File name and type are required" {
		t.Errorf("Unexpected message: %v", result["message"])
	}

	status, result = doJSON(t, app, "GET", "/api/presigned-url?fileName=logo.png&fileType=image/png", token, nil)
	if status != 200 {
		t.Fatalf("Expected 200, got %d", status)
	}
	// The key is namespaced under Images/
	if result["url"] != "https://signed.example.com/put/Images/logo.png" {
		t.Errorf("Unexpected URL: %v", result["url"])
	}
}

package middleware_test

import (
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/localnerve/shoutbase/internal/middleware"
	"github.com/localnerve/shoutbase/internal/models"
	"github.com/localnerve/shoutbase/internal/services"
	"github.com/localnerve/shoutbase/internal/types"
)

func setupGuardedApp(t *testing.T) (*fiber.App, *services.TokenService) {
	t.Helper()
	tokens, err := services.NewTokenService("test-secret", time.Hour)
	if err != nil {
		t.Fatalf("Failed to create token service: %v", err)
	}

	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			if ce, ok := err.(*types.CustomError); ok {
				return c.Status(ce.Code).JSON(fiber.Map{"message": ce.Message})
			}
			return c.Status(fiber.StatusInternalServerError).SendString(err.Error())
		},
	})
	app.Get("/guarded", middleware.AuthRequired(tokens), func(c *fiber.Ctx) error {
		id, ok := middleware.UserID(c)
		if !ok {
			return types.NewValidationError("UserId is missing")
		}
		return c.JSON(fiber.Map{"id": id})
	})

	return app, tokens
}

func TestAuthRequiredMissingHeader(t *testing.T) {
	app, _ := setupGuardedApp(t)

	req := httptest.NewRequest("GET", "/guarded", nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("Failed to execute request: %v", err)
	}
	if resp.StatusCode != 401 {
		t.Errorf("Expected status 401, got %d", resp.StatusCode)
	}
}

func TestAuthRequiredInvalidToken(t *testing.T) {
	app, _ := setupGuardedApp(t)

	req := httptest.NewRequest("GET", "/guarded", nil)
	req.Header.Set("Authorization", "not-a-real-token")
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("Failed to execute request: %v", err)
	}
	if resp.StatusCode != 403 {
		t.Errorf("Expected status 403, got %d", resp.StatusCode)
	}
}

// The raw header value is the token; a Bearer prefix makes it invalid.
func TestAuthRequiredRawHeaderToken(t *testing.T) {
	app, tokens := setupGuardedApp(t)

	token, err := tokens.Issue(&models.User{ID: 7, Email: "t@example.com", Role: "user"})
	if err != nil {
		t.Fatalf("Failed to issue token: %v", err)
	}

	req := httptest.NewRequest("GET", "/guarded", nil)
	req.Header.Set("Authorization", token)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("Failed to execute request: %v", err)
	}
	if resp.StatusCode != 200 {
		t.Errorf("Expected status 200 for raw token, got %d", resp.StatusCode)
	}

	req = httptest.NewRequest("GET", "/guarded", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err = app.Test(req)
	if err != nil {
		t.Fatalf("Failed to execute request: %v", err)
	}
	if resp.StatusCode != 403 {
		t.Errorf("Expected status 403 for prefixed token, got %d", resp.StatusCode)
	}
}

func TestAuthRequiredExpiredToken(t *testing.T) {
	app, _ := setupGuardedApp(t)

	short, err := services.NewTokenService("test-secret", time.Millisecond)
	if err != nil {
		t.Fatalf("Failed to create token service: %v", err)
	}
	token, err := short.Issue(&models.User{ID: 7, Email: "t@example.com", Role: "user"})
	if err != nil {
		t.Fatalf("Failed to issue token: %v", err)
	}
	time.Sleep(10 * time.Millisecond)

	req := httptest.NewRequest("GET", "/guarded", nil)
	req.Header.Set("Authorization", token)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("Failed to execute request: %v", err)
	}
	if resp.StatusCode != 403 {
		t.Errorf("Expected status 403 for expired token, got %d", resp.StatusCode)
	}
}

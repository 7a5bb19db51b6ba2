package services_test

import (
	"errors"
	"testing"

	"github.com/localnerve/shoutbase/internal/models"
	"github.com/localnerve/shoutbase/internal/types"
	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

// setupTestDB creates an in-memory SQLite database for testing
func setupTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("Failed to create test database: %v", err)
	}

	// Auto-migrate models
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

	return db
}

// assertCustomError verifies an error is a CustomError with the expected code
func assertCustomError(t *testing.T, err error, code int) *types.CustomError {
	t.Helper()
	var ce *types.CustomError
	if !errors.As(err, &ce) {
		t.Fatalf("Expected CustomError, got %T: %v", err, err)
	}
	if ce.Code != code {
		t.Errorf("Expected code %d, got %d (%s)", code, ce.Code, ce.Message)
	}
	return ce
}

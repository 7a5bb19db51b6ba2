// data.go
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

package helpers

import (
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/localnerve/shoutbase/internal/models"
	"github.com/localnerve/shoutbase/internal/services"
	"gorm.io/gorm"
)

// UniqueEmail returns a collision-free test email address
func UniqueEmail() string {
	return fmt.Sprintf("test-%s@example.com", uuid.New().String()[:8])
}

// UniqueSpaceName returns a collision-free test space name
func UniqueSpaceName() string {
	return fmt.Sprintf("space-%s", uuid.New().String()[:8])
}

// CreateTestUser creates a user with a hashed password
func CreateTestUser(t *testing.T, db *gorm.DB, email, password string) *models.User {
	t.Helper()
	hash, err := services.HashPassword(password)
	if err != nil {
		t.Fatalf("Failed to hash password: %v", err)
	}
	user := models.User{
		Firstname: "Test",
		Email:     email,
		Password:  &hash,
		Role:      "user",
	}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("Failed to create user: %v", err)
	}
	return &user
}

// CreateTestSpace creates a space with defaults for the given owner
func CreateTestSpace(t *testing.T, db *gorm.DB, userID uint64, name string) *models.Space {
	t.Helper()
	space, err := services.CreateSpace(db, userID, services.SpaceInput{SpaceName: name})
	if err != nil {
		t.Fatalf("Failed to create space: %v", err)
	}
	return space
}

// CreateTestReview creates a text review against a space
func CreateTestReview(t *testing.T, db *gorm.DB, spaceID uint64, text string) *models.Review {
	t.Helper()
	review := models.Review{
		SpaceID:            spaceID,
		ReviewType:         models.ReviewTypeText,
		PositiveStarsCount: 5,
		ReviewText:         &text,
	}
	review.UserDetails.JSON = []byte(`{"name":"Reviewer"}`)
	if err := db.Create(&review).Error; err != nil {
		t.Fatalf("Failed to create review: %v", err)
	}
	return &review
}

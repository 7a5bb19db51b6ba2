// reviews.go
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

package services

import (
	"encoding/json"
	"errors"

	"github.com/localnerve/shoutbase/internal/models"
	"github.com/localnerve/shoutbase/internal/types"
	"gorm.io/gorm"
	"gorm.io/hints"
)

// CreateReviewInput is the submission payload for a new review.
type CreateReviewInput struct {
	SpaceID            types.FlexUint64 `json:"spaceId"`
	ReviewType         string           `json:"reviewType"`
	PositiveStarsCount int              `json:"positiveStarsCount"`
	ReviewText         *string          `json:"reviewText"`
	ReviewImage        *string          `json:"reviewImage"`
	ReviewVideo        *string          `json:"reviewVideo"`
	UserDetails        json.RawMessage  `json:"userDetails"`
}

// UpdateReviewInput is the moderation/update payload for an existing review.
// Nil pointers leave the stored value untouched.
type UpdateReviewInput struct {
	ID                 types.FlexUint64 `json:"id"`
	ReviewType         *string          `json:"reviewType"`
	PositiveStarsCount *int             `json:"positiveStarsCount"`
	ReviewText         *string          `json:"reviewText"`
	ReviewImage        *string          `json:"reviewImage"`
	ReviewVideo        *string          `json:"reviewVideo"`
	UserLogo           *string          `json:"userLogo"`
	UserDetails        json.RawMessage  `json:"userDetails"`
	IsLiked            *bool            `json:"isLiked"`
	IsSpam             *bool            `json:"isSpam"`
}

// ListReviews returns the reviews submitted against a space.
func ListReviews(db *gorm.DB, spaceID uint64) ([]models.Review, error) {
	query := db
	if db.Dialector.Name() == "mysql" {
		query = query.Clauses(hints.UseIndex("idx_reviews_space"))
	}

	var reviews []models.Review
	if err := query.Where("space_id = ?", spaceID).Order("id ASC").Find(&reviews).Error; err != nil {
		return nil, err
	}
	return reviews, nil
}

// CreateReview stores a new review against an existing space.
func CreateReview(db *gorm.DB, in CreateReviewInput) (*models.Review, error) {
	spaceID := in.SpaceID.Uint64()

	var space models.Space
	err := db.Select("id").First(&space, spaceID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, types.NewNotFoundError("Space not found")
	}
	if err != nil {
		return nil, err
	}

	stars := in.PositiveStarsCount
	if stars == 0 {
		stars = 5
	}

	review := models.Review{
		SpaceID:            spaceID,
		ReviewType:         in.ReviewType,
		PositiveStarsCount: stars,
		ReviewText:         in.ReviewText,
		ReviewImage:        in.ReviewImage,
		ReviewVideo:        in.ReviewVideo,
	}
	if len(in.UserDetails) > 0 {
		review.UserDetails.JSON = []byte(in.UserDetails)
	}

	if err := db.Create(&review).Error; err != nil {
		return nil, err
	}

	return &review, nil
}

// loadReviewOwner fetches a review and its parent space's owner in one shot.
func loadReviewOwner(db *gorm.DB, reviewID uint64) (*models.Review, uint64, error) {
	var review models.Review
	err := db.First(&review, reviewID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, 0, types.NewNotFoundError("Review not found")
	}
	if err != nil {
		return nil, 0, err
	}

	var space models.Space
	err = db.Select("id", "user_id").First(&space, review.SpaceID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		// Orphaned review; treat the same as an absent review.
		return nil, 0, types.NewNotFoundError("Review not found")
	}
	if err != nil {
		return nil, 0, err
	}

	return &review, space.UserID, nil
}

// UpdateReview updates a review. Only the owner of the parent space may
// modify it.
func UpdateReview(db *gorm.DB, userID uint64, in UpdateReviewInput) (*models.Review, error) {
	review, ownerID, err := loadReviewOwner(db, in.ID.Uint64())
	if err != nil {
		return nil, err
	}

	if err := AuthorizeOwner(ownerID, userID); err != nil {
		return nil, err
	}

	updates := map[string]interface{}{}
	if in.ReviewType != nil {
		updates["review_type"] = *in.ReviewType
	}
	if in.PositiveStarsCount != nil {
		updates["positive_stars_count"] = *in.PositiveStarsCount
	}
	if in.ReviewText != nil {
		updates["review_text"] = *in.ReviewText
	}
	if in.ReviewImage != nil {
		updates["review_image"] = *in.ReviewImage
	}
	if in.ReviewVideo != nil {
		updates["review_video"] = *in.ReviewVideo
	}
	if in.UserLogo != nil {
		updates["user_logo"] = *in.UserLogo
	}
	if len(in.UserDetails) > 0 {
		updates["user_details"] = []byte(in.UserDetails)
	}
	if in.IsLiked != nil {
		updates["is_liked"] = *in.IsLiked
	}
	if in.IsSpam != nil {
		updates["is_spam"] = *in.IsSpam
	}

	if len(updates) > 0 {
		if err := db.Model(review).Updates(updates).Error; err != nil {
			return nil, err
		}
	}

	var updated models.Review
	if err := db.First(&updated, review.ID).Error; err != nil {
		return nil, err
	}
	return &updated, nil
}

// DeleteReview deletes a review. Only the owner of the parent space may
// delete it.
func DeleteReview(db *gorm.DB, userID, reviewID uint64) error {
	review, ownerID, err := loadReviewOwner(db, reviewID)
	if err != nil {
		return err
	}

	if err := AuthorizeOwner(ownerID, userID); err != nil {
		return err
	}

	return db.Delete(&models.Review{}, review.ID).Error
}

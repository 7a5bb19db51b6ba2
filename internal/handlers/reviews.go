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

package handlers

import (
	"log"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/localnerve/shoutbase/internal/services"
	"github.com/localnerve/shoutbase/internal/storage"
	"github.com/localnerve/shoutbase/internal/types"
	"github.com/localnerve/shoutbase/internal/utils"
	"gorm.io/gorm"
)

// ReviewHandler handles review routes
type ReviewHandler struct {
	DB    *gorm.DB
	Media *storage.Resolver
}

// ListReviews handles GET /api/reviews?spaceId=N
// @Summary List reviews for a space
// @Description List reviews submitted against a space with presigned media URLs
// @Tags Reviews
// @Produce json
// @Security BearerAuth
// @Param spaceId query int true "Space id"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 401 {object} utils.ErrorResponseStruct
// @Failure 500 {object} utils.ErrorResponseStruct
// @Router /reviews [get]
func (h *ReviewHandler) ListReviews(c *fiber.Ctx) error {
	spaceID, err := strconv.ParseUint(c.Query("spaceId"), 10, 64)
	if err != nil || spaceID == 0 {
		return types.NewValidationError("Invalid spaceID")
	}

	reviews, err := services.ListReviews(h.DB, spaceID)
	if err != nil {
		return err
	}

	// Three media references per review, resolved in one fan-out.
	refs := make([]*string, 0, len(reviews)*3)
	for i := range reviews {
		refs = append(refs, reviews[i].ReviewImage, reviews[i].ReviewVideo, reviews[i].UserLogo)
	}
	urls, err := h.Media.SignedReadURLs(c.Context(), refs, storage.DefaultReadTTL)
	if err != nil {
		log.Printf("Failed to presign review media: %v", err)
		return types.NewStorageError("Failed to fetch reviews")
	}

	items := make([]reviewResponse, 0, len(reviews))
	for i := range reviews {
		items = append(items, toReviewResponse(&reviews[i], urls[i*3], urls[i*3+1], urls[i*3+2]))
	}

	return utils.SuccessResponse(c, fiber.Map{"reviews": items}, fiber.StatusOK)
}

// CreateReview handles POST /api/reviews
// @Summary Submit a review
// @Tags Reviews
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body services.CreateReviewInput true "Review payload"
// @Success 201 {object} map[string]interface{}
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 404 {object} utils.ErrorResponseStruct
// @Failure 500 {object} utils.ErrorResponseStruct
// @Router /reviews [post]
func (h *ReviewHandler) CreateReview(c *fiber.Ctx) error {
	var in services.CreateReviewInput
	if err := c.BodyParser(&in); err != nil {
		return types.NewValidationError("Invalid input")
	}

	if in.SpaceID.Uint64() == 0 || in.ReviewType == "" || len(in.UserDetails) == 0 {
		return types.NewValidationError("Missing required fields: spaceId, reviewType, or userDetails")
	}

	review, err := services.CreateReview(h.DB, in)
	if err != nil {
		return err
	}

	return utils.SuccessResponse(c, fiber.Map{
		"message": "Review submitted successfully",
		"review":  toReviewResponse(review, review.ReviewImage, review.ReviewVideo, review.UserLogo),
	}, fiber.StatusCreated)
}

// UpdateReview handles PUT /api/reviews
// @Summary Update a review
// @Description Update or moderate a review; only the owner of the parent space may modify it
// @Tags Reviews
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body services.UpdateReviewInput true "Review payload with id"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 403 {object} utils.ErrorResponseStruct
// @Failure 404 {object} utils.ErrorResponseStruct
// @Failure 500 {object} utils.ErrorResponseStruct
// @Router /reviews [put]
func (h *ReviewHandler) UpdateReview(c *fiber.Ctx) error {
	userID, err := requireUserID(c)
	if err != nil {
		return err
	}

	var in services.UpdateReviewInput
	if err := c.BodyParser(&in); err != nil {
		return types.NewValidationError("Invalid input")
	}

	if in.ID.Uint64() == 0 {
		return types.NewValidationError("Review ID is missing")
	}

	review, err := services.UpdateReview(h.DB, userID, in)
	if err != nil {
		return err
	}

	return utils.SuccessResponse(c, fiber.Map{
		"review": toReviewResponse(review, review.ReviewImage, review.ReviewVideo, review.UserLogo),
	}, fiber.StatusOK)
}

// DeleteReview handles DELETE /api/reviews
// @Summary Delete a review
// @Description Delete a review; only the owner of the parent space may delete it
// @Tags Reviews
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body object true "Body with review id"
// @Success 200 {object} utils.MessageResponseStruct
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 403 {object} utils.ErrorResponseStruct
// @Failure 404 {object} utils.ErrorResponseStruct
// @Failure 500 {object} utils.ErrorResponseStruct
// @Router /reviews [delete]
func (h *ReviewHandler) DeleteReview(c *fiber.Ctx) error {
	userID, err := requireUserID(c)
	if err != nil {
		return err
	}

	var body struct {
		ID types.FlexUint64 `json:"id"`
	}
	if err := c.BodyParser(&body); err != nil {
		return types.NewValidationError("Invalid input")
	}

	if body.ID.Uint64() == 0 {
		return types.NewValidationError("Review ID is missing")
	}

	if err := services.DeleteReview(h.DB, userID, body.ID.Uint64()); err != nil {
		return err
	}

	return utils.MessageResponse(c, "Review deleted successfully", fiber.StatusOK)
}

// spaces.go
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

	"github.com/gofiber/fiber/v2"
	"github.com/localnerve/shoutbase/internal/models"
	"github.com/localnerve/shoutbase/internal/services"
	"github.com/localnerve/shoutbase/internal/storage"
	"github.com/localnerve/shoutbase/internal/types"
	"github.com/localnerve/shoutbase/internal/utils"
	"gorm.io/gorm"
)

// SpaceHandler handles space routes
type SpaceHandler struct {
	DB    *gorm.DB
	Media *storage.Resolver
}

type spaceListItem struct {
	VideoCount int               `json:"videoCount"`
	TextCount  int               `json:"textCount"`
	SpaceInfo  spaceInfoResponse `json:"spaceInfo"`
}

// ListSpaces handles GET /api/spaces
// @Summary List the caller's spaces
// @Description List all spaces owned by the authenticated user with review counts and presigned media URLs
// @Tags Spaces
// @Produce json
// @Security BearerAuth
// @Success 200 {object} map[string]interface{}
// @Failure 401 {object} utils.ErrorResponseStruct
// @Failure 403 {object} utils.ErrorResponseStruct
// @Failure 500 {object} utils.ErrorResponseStruct
// @Router /spaces [get]
func (h *SpaceHandler) ListSpaces(c *fiber.Ctx) error {
	userID, err := requireUserID(c)
	if err != nil {
		return err
	}

	spaces, err := services.ListSpaces(h.DB, userID)
	if err != nil {
		return err
	}

	// One fan-out across all media references, two per space, order kept.
	refs := make([]*string, 0, len(spaces)*2)
	for i := range spaces {
		refs = append(refs, spaces[i].Logo, spaces[i].ThankYouImage)
	}
	urls, err := h.Media.SignedReadURLs(c.Context(), refs, storage.DefaultReadTTL)
	if err != nil {
		log.Printf("Failed to presign space media: %v", err)
		return types.NewStorageError("Failed to fetch spaces")
	}

	items := make([]spaceListItem, 0, len(spaces))
	for i := range spaces {
		space := &spaces[i]

		textCount, videoCount := 0, 0
		for _, review := range space.Reviews {
			switch review.ReviewType {
			case models.ReviewTypeText:
				textCount++
			case models.ReviewTypeVideo:
				videoCount++
			}
		}

		items = append(items, spaceListItem{
			VideoCount: videoCount,
			TextCount:  textCount,
			SpaceInfo:  toSpaceInfoResponse(space, urls[i*2], urls[i*2+1]),
		})
	}

	return utils.SuccessResponse(c, fiber.Map{"spaces": items}, fiber.StatusOK)
}

// GetSpace handles GET /api/spaces/single-space/:spaceName
// @Summary Get one space by name
// @Tags Spaces
// @Produce json
// @Security BearerAuth
// @Param spaceName path string true "Space name"
// @Success 200 {object} map[string]interface{}
// @Failure 401 {object} utils.ErrorResponseStruct
// @Failure 404 {object} utils.ErrorResponseStruct
// @Failure 500 {object} utils.ErrorResponseStruct
// @Router /spaces/single-space/{spaceName} [get]
func (h *SpaceHandler) GetSpace(c *fiber.Ctx) error {
	userID, err := requireUserID(c)
	if err != nil {
		return err
	}

	spaceName := c.Params("spaceName")
	if spaceName == "" {
		return types.NewValidationError("spaceName is missing")
	}

	space, err := services.GetSpaceByName(h.DB, userID, spaceName)
	if err != nil {
		return err
	}

	urls, err := h.Media.SignedReadURLs(c.Context(),
		[]*string{space.Logo, space.ThankYouImage}, storage.DefaultReadTTL)
	if err != nil {
		log.Printf("Failed to presign space media: %v", err)
		return types.NewStorageError("Failed to fetch space")
	}

	return utils.SuccessResponse(c, fiber.Map{
		"space": toSpaceInfoResponse(space, urls[0], urls[1]),
	}, fiber.StatusOK)
}

// CreateSpace handles POST /api/spaces
// @Summary Create a space
// @Tags Spaces
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body services.SpaceInput true "Space payload"
// @Success 201 {object} map[string]interface{}
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 409 {object} utils.ErrorResponseStruct
// @Failure 500 {object} utils.ErrorResponseStruct
// @Router /spaces [post]
func (h *SpaceHandler) CreateSpace(c *fiber.Ctx) error {
	userID, err := requireUserID(c)
	if err != nil {
		return err
	}

	var in services.SpaceInput
	if err := c.BodyParser(&in); err != nil {
		return types.NewValidationError("Invalid input")
	}

	if in.SpaceName == "" {
		return types.NewValidationError("spaceName is missing")
	}

	space, err := services.CreateSpace(h.DB, userID, in)
	if err != nil {
		return err
	}

	// Writes echo the stored references, not presigned URLs.
	return utils.SuccessResponse(c,
		toSpaceInfoResponse(space, space.Logo, space.ThankYouImage), fiber.StatusCreated)
}

// UpdateSpace handles PUT /api/spaces
// @Summary Update a space
// @Description Update a space the caller owns; questions are replaced wholesale
// @Tags Spaces
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body services.SpaceInput true "Space payload with id"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 403 {object} utils.ErrorResponseStruct
// @Failure 404 {object} utils.ErrorResponseStruct
// @Failure 409 {object} utils.ErrorResponseStruct
// @Failure 500 {object} utils.ErrorResponseStruct
// @Router /spaces [put]
func (h *SpaceHandler) UpdateSpace(c *fiber.Ctx) error {
	userID, err := requireUserID(c)
	if err != nil {
		return err
	}

	var in services.SpaceInput
	if err := c.BodyParser(&in); err != nil {
		return types.NewValidationError("Invalid input")
	}

	if in.ID.Uint64() == 0 {
		return types.NewValidationError("Space ID is required")
	}

	space, err := services.UpdateSpace(h.DB, userID, in)
	if err != nil {
		return err
	}

	return utils.SuccessResponse(c,
		toSpaceInfoResponse(space, space.Logo, space.ThankYouImage), fiber.StatusOK)
}

// DeleteSpace handles DELETE /api/spaces
// @Summary Delete a space
// @Description Delete a space the caller owns with its questions, extra info, and reviews in one transaction
// @Tags Spaces
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body object true "Body with space id"
// @Success 200 {object} utils.MessageResponseStruct
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 403 {object} utils.ErrorResponseStruct
// @Failure 404 {object} utils.ErrorResponseStruct
// @Failure 500 {object} utils.ErrorResponseStruct
// @Router /spaces [delete]
func (h *SpaceHandler) DeleteSpace(c *fiber.Ctx) error {
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
		return types.NewValidationError("Space ID is required")
	}

	if err := services.DeleteSpace(h.DB, userID, body.ID.Uint64()); err != nil {
		return err
	}

	return utils.MessageResponse(c, "Space deleted successfully", fiber.StatusOK)
}

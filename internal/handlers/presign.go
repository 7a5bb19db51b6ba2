package handlers

import (
	"log"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/localnerve/shoutbase/internal/storage"
	"github.com/localnerve/shoutbase/internal/types"
	"github.com/localnerve/shoutbase/internal/utils"
)

// uploadKeyPrefix namespaces direct uploads inside the bucket.
const uploadKeyPrefix = "Images/"

// uploadURLTTL bounds how long a granted upload URL stays usable.
const uploadURLTTL = 5 * time.Minute

// PresignHandler grants time-limited upload URLs for direct-to-bucket media
// uploads.
type PresignHandler struct {
	Signer storage.Signer
}

// PresignedURL handles GET /api/presigned-url?fileName=F&fileType=T
// @Summary Get a presigned upload URL
// @Description Grant a time-limited PUT URL so the client can upload media straight to the bucket
// @Tags Media
// @Produce json
// @Security BearerAuth
// @Param fileName query string true "Object file name"
// @Param fileType query string true "Content type the upload will use"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 401 {object} utils.ErrorResponseStruct
// @Failure 500 {object} utils.ErrorResponseStruct
// @Router /presigned-url [get]
func (h *PresignHandler) PresignedURL(c *fiber.Ctx) error {
	fileName := c.Query("fileName")
	fileType := c.Query("fileType")
	if fileName == "" || fileType == "" {
		return types.NewValidationError("File name and type are required")
	}

	url, err := h.Signer.PresignPut(c.Context(), uploadKeyPrefix+fileName, fileType, uploadURLTTL)
	if err != nil {
		log.Printf("Failed to presign upload for %s: %v", fileName, err)
		return types.NewStorageError("Could not generate presigned URL")
	}

	return utils.SuccessResponse(c, fiber.Map{"url": url}, fiber.StatusOK)
}

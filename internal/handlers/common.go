package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/localnerve/shoutbase/internal/middleware"
	"github.com/localnerve/shoutbase/internal/models"
	"github.com/localnerve/shoutbase/internal/types"
)

// requireUserID pulls the verified user id out of the request context.
func requireUserID(c *fiber.Ctx) (uint64, error) {
	id, ok := middleware.UserID(c)
	if !ok {
		return 0, types.NewValidationError("UserId is missing")
	}
	return id, nil
}

// userResponse is the sanitized account shape returned by auth endpoints.
// The password hash never leaves the service.
type userResponse struct {
	ID           uint64 `json:"id"`
	Firstname    string `json:"firstname"`
	Email        string `json:"email"`
	Role         string `json:"role,omitempty"`
	IsGoogleUser bool   `json:"isGoogleUser"`
}

type questionResponse struct {
	ID    uint64 `json:"id"`
	Text  string `json:"text"`
	Order int    `json:"order"`
}

type extraInfoResponse struct {
	Name       bool `json:"name"`
	Email      bool `json:"email"`
	Company    bool `json:"company"`
	SocialLink bool `json:"socialLink"`
	Address    bool `json:"address"`
}

// spaceInfoResponse is the client-facing space shape. Logo and ThankYouImage
// carry presigned URLs on reads and stored references on writes; the owning
// user id is never included.
type spaceInfoResponse struct {
	ID                  uint64             `json:"id"`
	SpaceName           string             `json:"spaceName"`
	Logo                *string            `json:"logo"`
	SquareLogo          bool               `json:"squareLogo"`
	SpaceHeading        string             `json:"spaceHeading"`
	CustomMessage       string             `json:"customMessage"`
	CollectionType      string             `json:"collectionType"`
	CollectStarRatings  bool               `json:"collectStarRatings"`
	Language            string             `json:"language"`
	ThankYouImage       *string            `json:"thankYouImage"`
	ThankYouTitle       string             `json:"thankYouTitle"`
	ThankYouMessage     string             `json:"thankYouMessage"`
	RedirectPageLink    *string            `json:"redirectPageLink"`
	MaxVideoDuration    int                `json:"maxVideoDuration"`
	MaxCharsAllowed     int                `json:"maxCharsAllowed"`
	VideoButtonText     string             `json:"videoButtonText"`
	TextButtonText      string             `json:"textButtonText"`
	ConsentText         string             `json:"consentText"`
	TextSubmissionTitle *string            `json:"textSubmissionTitle"`
	QuestionLabel       string             `json:"questionLabel"`
	Questions           []questionResponse `json:"questions"`
	CollectExtraInfo    *extraInfoResponse `json:"collectExtraInfo"`
}

// reviewResponse is the client-facing review shape; media fields carry
// presigned URLs on reads.
type reviewResponse struct {
	ID                 uint64      `json:"id"`
	SpaceID            uint64      `json:"spaceId"`
	ReviewType         string      `json:"reviewType"`
	PositiveStarsCount int         `json:"positiveStarsCount"`
	ReviewText         *string     `json:"reviewText"`
	ReviewImage        *string     `json:"reviewImage"`
	ReviewVideo        *string     `json:"reviewVideo"`
	UserLogo           *string     `json:"userLogo"`
	UserDetails        models.JSON `json:"userDetails"`
	IsLiked            bool        `json:"isLiked"`
	IsSpam             bool        `json:"isSpam"`
}

func toUserResponse(u *models.User) userResponse {
	return userResponse{
		ID:           u.ID,
		Firstname:    u.Firstname,
		Email:        u.Email,
		Role:         u.Role,
		IsGoogleUser: u.IsGoogleUser,
	}
}

// toSpaceInfoResponse maps a space model; logo and thankYouImage override
// the stored references when the caller resolved them.
func toSpaceInfoResponse(space *models.Space, logo, thankYouImage *string) spaceInfoResponse {
	out := spaceInfoResponse{
		ID:                  space.ID,
		SpaceName:           space.SpaceName,
		Logo:                logo,
		SquareLogo:          space.SquareLogo,
		SpaceHeading:        space.SpaceHeading,
		CustomMessage:       space.CustomMessage,
		CollectionType:      space.CollectionType,
		CollectStarRatings:  space.CollectStarRatings,
		Language:            space.Language,
		ThankYouImage:       thankYouImage,
		ThankYouTitle:       space.ThankYouTitle,
		ThankYouMessage:     space.ThankYouMessage,
		RedirectPageLink:    space.RedirectPageLink,
		MaxVideoDuration:    space.MaxVideoDuration,
		MaxCharsAllowed:     space.MaxCharsAllowed,
		VideoButtonText:     space.VideoButtonText,
		TextButtonText:      space.TextButtonText,
		ConsentText:         space.ConsentText,
		TextSubmissionTitle: space.TextSubmissionTitle,
		QuestionLabel:       space.QuestionLabel,
		Questions:           make([]questionResponse, 0, len(space.Questions)),
	}

	for _, q := range space.Questions {
		out.Questions = append(out.Questions, questionResponse{
			ID:    q.ID,
			Text:  q.Text,
			Order: q.Order,
		})
	}

	if space.CollectExtraInfo != nil {
		out.CollectExtraInfo = &extraInfoResponse{
			Name:       space.CollectExtraInfo.Name,
			Email:      space.CollectExtraInfo.Email,
			Company:    space.CollectExtraInfo.Company,
			SocialLink: space.CollectExtraInfo.SocialLink,
			Address:    space.CollectExtraInfo.Address,
		}
	}

	return out
}

func toReviewResponse(review *models.Review, image, video, userLogo *string) reviewResponse {
	return reviewResponse{
		ID:                 review.ID,
		SpaceID:            review.SpaceID,
		ReviewType:         review.ReviewType,
		PositiveStarsCount: review.PositiveStarsCount,
		ReviewText:         review.ReviewText,
		ReviewImage:        image,
		ReviewVideo:        video,
		UserLogo:           userLogo,
		UserDetails:        review.UserDetails,
		IsLiked:            review.IsLiked,
		IsSpam:             review.IsSpam,
	}
}

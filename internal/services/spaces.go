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

package services

import (
	"errors"

	"github.com/localnerve/shoutbase/internal/models"
	"github.com/localnerve/shoutbase/internal/types"
	"gorm.io/gorm"
)

// QuestionInput is one prompt in a space payload.
type QuestionInput struct {
	Text  string `json:"text"`
	Order int    `json:"order"`
}

// ExtraInfoInput carries the optional reviewer-field flags.
type ExtraInfoInput struct {
	Name       bool `json:"name"`
	Email      bool `json:"email"`
	Company    bool `json:"company"`
	SocialLink bool `json:"socialLink"`
	Address    bool `json:"address"`
}

// SpaceInput is the create/update payload for a space. ID is only used on
// update and accepts number or string.
type SpaceInput struct {
	ID                  types.FlexUint64               `json:"id"`
	SpaceName           string                         `json:"spaceName"`
	Logo                *string                        `json:"logo"`
	SquareLogo          bool                           `json:"squareLogo"`
	SpaceHeading        string                         `json:"spaceHeading"`
	CustomMessage       string                         `json:"customMessage"`
	Questions           types.FlexList[QuestionInput]  `json:"questions"`
	CollectExtraInfo    *ExtraInfoInput                `json:"collectExtraInfo"`
	CollectionType      string                         `json:"collectionType"`
	CollectStarRatings  bool                           `json:"collectStarRatings"`
	Language            string                         `json:"language"`
	ThankYouImage       *string                        `json:"thankYouImage"`
	ThankYouTitle       string                         `json:"thankYouTitle"`
	ThankYouMessage     string                         `json:"thankYouMessage"`
	RedirectPageLink    *string                        `json:"redirectPageLink"`
	MaxVideoDuration    int                            `json:"maxVideoDuration"`
	MaxCharsAllowed     int                            `json:"maxCharsAllowed"`
	VideoButtonText     string                         `json:"videoButtonText"`
	TextButtonText      string                         `json:"textButtonText"`
	ConsentText         string                         `json:"consentText"`
	TextSubmissionTitle *string                        `json:"textSubmissionTitle"`
	QuestionLabel       string                         `json:"questionLabel"`
}

// applyDefaults fills the display fields the collection page always needs.
func (in *SpaceInput) applyDefaults() {
	if in.ThankYouTitle == "" {
		in.ThankYouTitle = "Thank you!"
	}
	if in.ThankYouMessage == "" {
		in.ThankYouMessage = "Thank you so much for your shoutout! It means a ton for us! 🙏"
	}
	if in.MaxVideoDuration == 0 {
		in.MaxVideoDuration = 30
	}
	if in.MaxCharsAllowed == 0 {
		in.MaxCharsAllowed = 128
	}
	if in.VideoButtonText == "" {
		in.VideoButtonText = "Record a video"
	}
	if in.TextButtonText == "" {
		in.TextButtonText = "Record a text"
	}
	if in.ConsentText == "" {
		in.ConsentText = "I give permission to use this testimonial"
	}
	if in.QuestionLabel == "" {
		in.QuestionLabel = "QUESTIONS"
	}
}

// ListSpaces returns all spaces owned by the user, with questions, extra-info
// flags, and reviews preloaded.
func ListSpaces(db *gorm.DB, userID uint64) ([]models.Space, error) {
	var spaces []models.Space
	err := db.
		Preload("Questions", func(tx *gorm.DB) *gorm.DB {
			return tx.Order("question_order ASC")
		}).
		Preload("CollectExtraInfo").
		Preload("Reviews").
		Where("user_id = ?", userID).
		Find(&spaces).Error
	if err != nil {
		return nil, err
	}
	return spaces, nil
}

// GetSpaceByName returns the user's space with the given name.
func GetSpaceByName(db *gorm.DB, userID uint64, spaceName string) (*models.Space, error) {
	var space models.Space
	err := db.
		Preload("Questions", func(tx *gorm.DB) *gorm.DB {
			return tx.Order("question_order ASC")
		}).
		Preload("CollectExtraInfo").
		Where("space_name = ? AND user_id = ?", spaceName, userID).
		First(&space).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, types.NewNotFoundError("Space not found")
	}
	if err != nil {
		return nil, err
	}
	return &space, nil
}

// CreateSpace creates a space with its questions and extra-info flags.
// (userID, spaceName) must be unique.
func CreateSpace(db *gorm.DB, userID uint64, in SpaceInput) (*models.Space, error) {
	var existing models.Space
	err := db.Where("user_id = ? AND space_name = ?", userID, in.SpaceName).First(&existing).Error
	if err == nil {
		return nil, types.NewConflictError("A space with this name already exists.")
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	in.applyDefaults()

	space := models.Space{
		UserID:              userID,
		SpaceName:           in.SpaceName,
		Logo:                in.Logo,
		SquareLogo:          in.SquareLogo,
		SpaceHeading:        in.SpaceHeading,
		CustomMessage:       in.CustomMessage,
		CollectionType:      in.CollectionType,
		CollectStarRatings:  in.CollectStarRatings,
		Language:            in.Language,
		ThankYouImage:       in.ThankYouImage,
		ThankYouTitle:       in.ThankYouTitle,
		ThankYouMessage:     in.ThankYouMessage,
		RedirectPageLink:    in.RedirectPageLink,
		MaxVideoDuration:    in.MaxVideoDuration,
		MaxCharsAllowed:     in.MaxCharsAllowed,
		VideoButtonText:     in.VideoButtonText,
		TextButtonText:      in.TextButtonText,
		ConsentText:         in.ConsentText,
		TextSubmissionTitle: in.TextSubmissionTitle,
		QuestionLabel:       in.QuestionLabel,
	}

	for i, q := range in.Questions.Slice() {
		order := q.Order
		if order == 0 {
			order = i
		}
		space.Questions = append(space.Questions, models.Question{
			Text:  q.Text,
			Order: order,
		})
	}

	if in.CollectExtraInfo != nil {
		space.CollectExtraInfo = &models.CollectExtraInfo{
			Name:       in.CollectExtraInfo.Name,
			Email:      in.CollectExtraInfo.Email,
			Company:    in.CollectExtraInfo.Company,
			SocialLink: in.CollectExtraInfo.SocialLink,
			Address:    in.CollectExtraInfo.Address,
		}
	}

	if err := db.Create(&space).Error; err != nil {
		return nil, err
	}

	return &space, nil
}

// UpdateSpace updates a space the user owns. Questions are replaced
// wholesale inside the transaction; a name collision with another of the
// user's spaces is a conflict.
func UpdateSpace(db *gorm.DB, userID uint64, in SpaceInput) (*models.Space, error) {
	spaceID := in.ID.Uint64()

	var space models.Space
	err := db.First(&space, spaceID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, types.NewNotFoundError("Space not found")
	}
	if err != nil {
		return nil, err
	}

	if err := AuthorizeOwner(space.UserID, userID); err != nil {
		return nil, err
	}

	// An omitted name keeps the stored one; only an explicit value renames.
	if in.SpaceName == "" {
		in.SpaceName = space.SpaceName
	}

	var duplicate models.Space
	err = db.Where("user_id = ? AND space_name = ? AND id <> ?", userID, in.SpaceName, spaceID).
		First(&duplicate).Error
	if err == nil {
		return nil, types.NewConflictError("Another space with the same name already exists.")
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	in.applyDefaults()

	err = db.Transaction(func(tx *gorm.DB) error {
		updates := map[string]interface{}{
			"space_name":            in.SpaceName,
			"logo":                  in.Logo,
			"square_logo":           in.SquareLogo,
			"space_heading":         in.SpaceHeading,
			"custom_message":        in.CustomMessage,
			"collection_type":       in.CollectionType,
			"collect_star_ratings":  in.CollectStarRatings,
			"language":              in.Language,
			"thank_you_image":       in.ThankYouImage,
			"thank_you_title":       in.ThankYouTitle,
			"thank_you_message":     in.ThankYouMessage,
			"redirect_page_link":    in.RedirectPageLink,
			"max_video_duration":    in.MaxVideoDuration,
			"max_chars_allowed":     in.MaxCharsAllowed,
			"video_button_text":     in.VideoButtonText,
			"text_button_text":      in.TextButtonText,
			"consent_text":          in.ConsentText,
			"text_submission_title": in.TextSubmissionTitle,
			"question_label":        in.QuestionLabel,
		}
		if err := tx.Model(&models.Space{}).Where("id = ?", spaceID).Updates(updates).Error; err != nil {
			return err
		}

		// Replace questions wholesale
		if err := tx.Where("space_id = ?", spaceID).Delete(&models.Question{}).Error; err != nil {
			return err
		}
		for i, q := range in.Questions.Slice() {
			order := q.Order
			if order == 0 {
				order = i
			}
			question := models.Question{
				SpaceID: spaceID,
				Text:    q.Text,
				Order:   order,
			}
			if err := tx.Create(&question).Error; err != nil {
				return err
			}
		}

		if in.CollectExtraInfo != nil {
			extraUpdates := map[string]interface{}{
				"name":        in.CollectExtraInfo.Name,
				"email":       in.CollectExtraInfo.Email,
				"company":     in.CollectExtraInfo.Company,
				"social_link": in.CollectExtraInfo.SocialLink,
				"address":     in.CollectExtraInfo.Address,
			}
			result := tx.Model(&models.CollectExtraInfo{}).Where("space_id = ?", spaceID).Updates(extraUpdates)
			if result.Error != nil {
				return result.Error
			}
			if result.RowsAffected == 0 {
				extra := models.CollectExtraInfo{
					SpaceID:    spaceID,
					Name:       in.CollectExtraInfo.Name,
					Email:      in.CollectExtraInfo.Email,
					Company:    in.CollectExtraInfo.Company,
					SocialLink: in.CollectExtraInfo.SocialLink,
					Address:    in.CollectExtraInfo.Address,
				}
				if err := tx.Create(&extra).Error; err != nil {
					return err
				}
			}
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	var updated models.Space
	err = db.
		Preload("Questions", func(tx *gorm.DB) *gorm.DB {
			return tx.Order("question_order ASC")
		}).
		Preload("CollectExtraInfo").
		First(&updated, spaceID).Error
	if err != nil {
		return nil, err
	}

	return &updated, nil
}

// DeleteSpace deletes a space the user owns together with its questions,
// extra-info record, and reviews in a single transaction. Either everything
// goes or nothing does.
func DeleteSpace(db *gorm.DB, userID, spaceID uint64) error {
	var space models.Space
	err := db.Select("id", "user_id").First(&space, spaceID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return types.NewNotFoundError("Space not found")
	}
	if err != nil {
		return err
	}

	if err := AuthorizeOwner(space.UserID, userID); err != nil {
		return err
	}

	return db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("space_id = ?", spaceID).Delete(&models.Question{}).Error; err != nil {
			return err
		}
		if err := tx.Where("space_id = ?", spaceID).Delete(&models.CollectExtraInfo{}).Error; err != nil {
			return err
		}
		if err := tx.Where("space_id = ?", spaceID).Delete(&models.Review{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Space{}, spaceID).Error
	})
}

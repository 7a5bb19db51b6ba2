// space.go
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

package models

import (
	"time"
)

// Space represents a testimonial collection page owned by one user.
// (UserID, SpaceName) is unique. A space exclusively owns its questions,
// extra-info flags, and reviews; deletion cascades in one transaction at the
// service layer, not through FK constraints.
type Space struct {
	ID                  uint64  `gorm:"primaryKey;autoIncrement"`
	UserID              uint64  `gorm:"not null;index:idx_user_space,unique"`
	SpaceName           string  `gorm:"size:255;not null;index:idx_user_space,unique"`
	Logo                *string `gorm:"size:1024"`
	SquareLogo          bool    `gorm:"not null;default:false"`
	SpaceHeading        string  `gorm:"size:255"`
	CustomMessage       string  `gorm:"size:1024"`
	CollectionType      string  `gorm:"size:32"`
	CollectStarRatings  bool    `gorm:"not null;default:false"`
	Language            string  `gorm:"size:16"`
	ThankYouImage       *string `gorm:"size:1024"`
	ThankYouTitle       string  `gorm:"size:255"`
	ThankYouMessage     string  `gorm:"size:1024"`
	RedirectPageLink    *string `gorm:"size:1024"`
	MaxVideoDuration    int     `gorm:"not null;default:30"`
	MaxCharsAllowed     int     `gorm:"not null;default:128"`
	VideoButtonText     string  `gorm:"size:255"`
	TextButtonText      string  `gorm:"size:255"`
	ConsentText         string  `gorm:"size:512"`
	TextSubmissionTitle *string `gorm:"size:255"`
	QuestionLabel       string  `gorm:"size:255"`
	CreatedAt           time.Time
	UpdatedAt           time.Time
	Questions           []Question        `gorm:"foreignKey:SpaceID"`
	CollectExtraInfo    *CollectExtraInfo `gorm:"foreignKey:SpaceID"`
	Reviews             []Review          `gorm:"foreignKey:SpaceID"`
}

// Question is an ordered prompt shown on a space's collection page.
// Questions are replaced wholesale when the space is updated.
type Question struct {
	ID      uint64 `gorm:"primaryKey;autoIncrement"`
	SpaceID uint64 `gorm:"not null;index"`
	Text    string `gorm:"size:512;not null"`
	Order   int    `gorm:"column:question_order;not null;default:0"`
}

// CollectExtraInfo holds the per-space flags for which optional reviewer
// fields the collection page asks for.
type CollectExtraInfo struct {
	ID         uint64 `gorm:"primaryKey;autoIncrement"`
	SpaceID    uint64 `gorm:"not null;uniqueIndex"`
	Name       bool   `gorm:"not null;default:false"`
	Email      bool   `gorm:"not null;default:false"`
	Company    bool   `gorm:"not null;default:false"`
	SocialLink bool   `gorm:"not null;default:false"`
	Address    bool   `gorm:"not null;default:false"`
}

// TableName overrides the table name for Space
func (Space) TableName() string {
	return "spaces"
}

// TableName overrides the table name for Question
func (Question) TableName() string {
	return "questions"
}

// TableName overrides the table name for CollectExtraInfo
func (CollectExtraInfo) TableName() string {
	return "collect_extra_info"
}

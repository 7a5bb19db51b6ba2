package models

import (
	"time"
)

// Review types accepted by the API.
const (
	ReviewTypeText  = "text"
	ReviewTypeVideo = "video"
)

// Review is a single testimonial submitted against a space. The media
// columns hold stored object references, never presigned URLs; handlers
// resolve them at the response boundary.
type Review struct {
	ID                 uint64  `gorm:"primaryKey;autoIncrement"`
	SpaceID            uint64  `gorm:"not null;index:idx_reviews_space"`
	ReviewType         string  `gorm:"size:16;not null"`
	PositiveStarsCount int     `gorm:"not null;default:5"`
	ReviewText         *string `gorm:"size:2048"`
	ReviewImage        *string `gorm:"size:1024"`
	ReviewVideo        *string `gorm:"size:1024"`
	UserLogo           *string `gorm:"size:1024"`
	UserDetails        JSON    `gorm:"type:json"`
	IsLiked            bool    `gorm:"not null;default:false"`
	IsSpam             bool    `gorm:"not null;default:false"`
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

// TableName overrides the table name for Review
func (Review) TableName() string {
	return "reviews"
}

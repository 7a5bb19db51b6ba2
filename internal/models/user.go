package models

import (
	"time"
)

// User represents an account that owns spaces. Password is nil for accounts
// created through Google sign-up; GoogleUID is nil for password accounts.
type User struct {
	ID           uint64  `gorm:"primaryKey;autoIncrement"`
	Firstname    string  `gorm:"size:255;not null"`
	Email        string  `gorm:"uniqueIndex;size:255;not null"`
	Password     *string `gorm:"size:255"`
	GoogleUID    *string `gorm:"uniqueIndex;size:255"`
	IsGoogleUser bool    `gorm:"not null;default:false"`
	Role         string  `gorm:"size:32;not null;default:user"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
	Spaces       []Space `gorm:"foreignKey:UserID"`
}

// TableName overrides the table name for User
func (User) TableName() string {
	return "users"
}

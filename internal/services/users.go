package services

import (
	"errors"

	"github.com/localnerve/shoutbase/internal/models"
	"github.com/localnerve/shoutbase/internal/types"
	"gorm.io/gorm"
)

// SignupInput carries the signup request fields. GoogleSignUp selects the
// identity-provider path, which stores no password.
type SignupInput struct {
	Firstname    string `json:"firstname"`
	Email        string `json:"email"`
	Password     string `json:"password"`
	GoogleUID    string `json:"googleUID"`
	GoogleSignUp bool   `json:"googleSignUp"`
}

// LoginInput carries the login request fields.
type LoginInput struct {
	Email        string `json:"email"`
	Password     string `json:"password"`
	GoogleUID    string `json:"googleUID"`
	GoogleSignIn bool   `json:"googleSignIn"`
}

// SignupUser registers a new account. Duplicate email is a conflict.
func SignupUser(db *gorm.DB, in SignupInput) (*models.User, error) {
	var existing models.User
	err := db.Where("email = ?", in.Email).First(&existing).Error
	if err == nil {
		return nil, types.NewConflictError("User already exists. Please sign in instead.")
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	user := models.User{
		Firstname: in.Firstname,
		Email:     in.Email,
		Role:      "user",
	}

	if in.GoogleSignUp {
		googleUID := in.GoogleUID
		user.GoogleUID = &googleUID
		user.IsGoogleUser = true
	} else {
		hashed, err := HashPassword(in.Password)
		if err != nil {
			return nil, err
		}
		user.Password = &hashed
	}

	if err := db.Create(&user).Error; err != nil {
		return nil, err
	}

	return &user, nil
}

// LoginUser authenticates an account. Google accounts authenticate by UID;
// password accounts by email and bcrypt comparison. Failures are reported
// without revealing which part was wrong.
func LoginUser(db *gorm.DB, in LoginInput) (*models.User, error) {
	var user models.User

	if in.GoogleSignIn {
		err := db.Where("google_uid = ?", in.GoogleUID).First(&user).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, types.NewNotFoundError("Google user not found. Please sign up first.")
		}
		if err != nil {
			return nil, err
		}
		return &user, nil
	}

	err := db.Where("email = ?", in.Email).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, types.NewAuthError("Invalid email or password.")
	}
	if err != nil {
		return nil, err
	}

	// Google-only accounts have no password to compare against.
	if user.IsGoogleUser || user.Password == nil {
		return nil, types.NewAuthError("Invalid email or password.")
	}

	if !VerifyPassword(in.Password, *user.Password) {
		return nil, types.NewAuthError("Invalid email or password.")
	}

	return &user, nil
}

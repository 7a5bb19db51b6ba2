package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/localnerve/shoutbase/internal/services"
	"github.com/localnerve/shoutbase/internal/types"
	"github.com/localnerve/shoutbase/internal/utils"
	"gorm.io/gorm"
)

// AuthHandler handles signup and login routes
type AuthHandler struct {
	DB     *gorm.DB
	Tokens *services.TokenService
}

// Signup handles POST /api/signup
// @Summary Register a new account
// @Description Create an account with email/password or a Google identity
// @Tags Auth
// @Accept json
// @Produce json
// @Param body body services.SignupInput true "Signup payload"
// @Success 201 {object} map[string]interface{}
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 409 {object} utils.ErrorResponseStruct
// @Failure 500 {object} utils.ErrorResponseStruct
// @Router /signup [post]
func (h *AuthHandler) Signup(c *fiber.Ctx) error {
	var in services.SignupInput
	if err := c.BodyParser(&in); err != nil {
		return types.NewValidationError("Invalid input")
	}

	if in.Email == "" || in.Firstname == "" {
		return types.NewValidationError("Firstname and email are required.")
	}
	if in.GoogleSignUp {
		if in.GoogleUID == "" {
			return types.NewValidationError("Google UID is required for Google sign-up.")
		}
	} else if in.Password == "" {
		return types.NewValidationError("Password is required for normal sign-up.")
	}

	user, err := services.SignupUser(h.DB, in)
	if err != nil {
		return err
	}

	return utils.SuccessResponse(c, fiber.Map{
		"message": "User registered successfully.",
		"user":    toUserResponse(user),
	}, fiber.StatusCreated)
}

// Login handles POST /api/login
// @Summary Sign in
// @Description Authenticate and receive a bearer token with a 1 hour expiry
// @Tags Auth
// @Accept json
// @Produce json
// @Param body body services.LoginInput true "Login payload"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 401 {object} utils.ErrorResponseStruct
// @Failure 404 {object} utils.ErrorResponseStruct
// @Failure 500 {object} utils.ErrorResponseStruct
// @Router /login [post]
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var in services.LoginInput
	if err := c.BodyParser(&in); err != nil {
		return types.NewValidationError("Invalid input")
	}

	if in.GoogleSignIn {
		if in.GoogleUID == "" {
			return types.NewValidationError("Google UID is required for Google sign-in.")
		}
	} else if in.Email == "" || in.Password == "" {
		return types.NewValidationError("Email and password are required for sign-in.")
	}

	user, err := services.LoginUser(h.DB, in)
	if err != nil {
		return err
	}

	token, err := h.Tokens.Issue(user)
	if err != nil {
		return err
	}

	return utils.SuccessResponse(c, fiber.Map{
		"message": "Sign-in successful.",
		"token":   token,
		"user":    toUserResponse(user),
	}, fiber.StatusOK)
}

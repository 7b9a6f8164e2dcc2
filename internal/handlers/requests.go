package handlers

import (
	"github.com/go-playground/validator/v10"
)

// CustomValidator wraps the go-playground/validator library to implement Echo's Validator interface.
type CustomValidator struct {
	validator *validator.Validate
}

// NewValidator creates a new CustomValidator.
func NewValidator() *CustomValidator {
	return &CustomValidator{validator: validator.New()}
}

// Validate implements the echo.Validator interface.
func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.validator.Struct(i)
}

// ResetPasswordRequest is the body of POST /auth/reset-password. The password
// policy is checked separately so its message can be shown.
type ResetPasswordRequest struct {
	Token    string `form:"token" validate:"required"`
	Password string `form:"password" validate:"required"`
}

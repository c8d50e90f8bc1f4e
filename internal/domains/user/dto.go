package user

import (
	"regexp"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
)

// passwordRules is shared by every endpoint that accepts a new password.
var passwordRules = []validation.Rule{
	validation.Required.Error("password is required"),
	validation.Length(8, 128).Error("password must be 8-128 characters"),
	validation.Match(regexp.MustCompile(`[A-Z]`)).Error("password must contain at least one uppercase letter"),
	validation.Match(regexp.MustCompile(`[a-z]`)).Error("password must contain at least one lowercase letter"),
	validation.Match(regexp.MustCompile(`[0-9]`)).Error("password must contain at least one number"),
	validation.Match(regexp.MustCompile(`[@$!%*?&]`)).Error("password must contain at least one special character (@$!%*?&)"),
}

// SignupRequest registers a cooperative together with its owner account.
type SignupRequest struct {
	CooperativeName string `json:"cooperative_name" binding:"required"`
	Email           string `json:"email" binding:"required"`
	Phone           string `json:"phone" binding:"required"`
	Location        string `json:"location" binding:"required"`
	Password        string `json:"password" binding:"required"`
}

func (r SignupRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.CooperativeName,
			validation.Required.Error("cooperative name is required"),
			validation.Length(2, 100),
		),
		validation.Field(&r.Email,
			validation.Required.Error("email is required"),
			is.Email.Error("invalid email format"),
			validation.Length(5, 255),
		),
		validation.Field(&r.Phone,
			validation.Required.Error("phone is required"),
		),
		validation.Field(&r.Location,
			validation.Required.Error("location is required"),
		),
		validation.Field(&r.Password, passwordRules...),
	)
}

// SignupResponse confirms registration; the account stays locked until an
// admin approves it.
type SignupResponse struct {
	UserID     int64  `json:"user_id"`
	Email      string `json:"email"`
	FullName   string `json:"full_name"`
	Role       string `json:"role"`
	IsApproved bool   `json:"is_approved"`
	Message    string `json:"message"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

func (r LoginRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Email, validation.Required, is.Email),
		validation.Field(&r.Password, validation.Required),
	)
}

type LoginResponse struct {
	Token           string  `json:"token"`
	Type            string  `json:"type"`
	UserID          int64   `json:"user_id"`
	Email           string  `json:"email"`
	FullName        string  `json:"full_name"`
	Role            string  `json:"role"`
	IsApproved      bool    `json:"is_approved"`
	CooperativeID   *int64  `json:"cooperative_id,omitempty"`
	CooperativeName *string `json:"cooperative_name,omitempty"`
}

type ForgotPasswordRequest struct {
	Email string `json:"email" binding:"required"`
}

func (r ForgotPasswordRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Email, validation.Required, is.Email),
	)
}

type ResetPasswordRequest struct {
	Token       string `json:"token" binding:"required"`
	NewPassword string `json:"new_password" binding:"required"`
}

func (r ResetPasswordRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Token, validation.Required),
		validation.Field(&r.NewPassword, passwordRules...),
	)
}

type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password" binding:"required"`
	NewPassword     string `json:"new_password" binding:"required"`
}

func (r ChangePasswordRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.CurrentPassword, validation.Required),
		validation.Field(&r.NewPassword, passwordRules...),
	)
}

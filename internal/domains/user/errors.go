package user

import (
	"errors"
	"net/http"
)

var (
	// Unauthorized
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrPendingApproval    = errors.New("account is pending approval by admin")
	ErrUserNotFound       = errors.New("user not found")

	// Conflicts
	ErrEmailTaken           = errors.New("email address is already registered")
	ErrPhoneTaken           = errors.New("phone number is already registered")
	ErrCooperativeNameTaken = errors.New("a cooperative with this name already exists")

	// Validation
	ErrValidation        = errors.New("validation failed")
	ErrInvalidResetToken = errors.New("invalid or expired reset token")
	ErrWrongPassword     = errors.New("current password is incorrect")
)

// GetHTTPStatusCode maps auth errors to HTTP statuses.
func GetHTTPStatusCode(err error) int {
	switch {
	case errors.Is(err, ErrInvalidCredentials), errors.Is(err, ErrPendingApproval),
		errors.Is(err, ErrUserNotFound):
		return http.StatusUnauthorized
	case errors.Is(err, ErrEmailTaken), errors.Is(err, ErrPhoneTaken),
		errors.Is(err, ErrCooperativeNameTaken):
		return http.StatusConflict
	case errors.Is(err, ErrValidation), errors.Is(err, ErrInvalidResetToken),
		errors.Is(err, ErrWrongPassword):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

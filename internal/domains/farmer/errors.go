package farmer

import (
	"errors"
	"net/http"

	"harvest-backend/internal/domains/project"
)

var (
	// Not Found
	ErrFarmerNotFound = errors.New("farmer not found")

	// Duplicates
	ErrDuplicatePhone = errors.New("a farmer with this phone number already exists in this cooperative")
	ErrDuplicateName  = errors.New("a farmer with this name already exists in this cooperative")

	// Validation
	ErrValidation    = errors.New("validation failed")
	ErrInvalidStatus = errors.New("invalid farmer status")

	// Internal
	ErrQRCodeExhausted = errors.New("could not generate a unique qr code")
)

// GetHTTPStatusCode maps farmer and project domain errors to HTTP statuses.
func GetHTTPStatusCode(err error) int {
	switch {
	case errors.Is(err, ErrFarmerNotFound), errors.Is(err, project.ErrProjectNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrDuplicatePhone), errors.Is(err, ErrDuplicateName),
		errors.Is(err, ErrValidation), errors.Is(err, ErrInvalidStatus),
		errors.Is(err, project.ErrInvalidStatus), errors.Is(err, project.ErrAreaExceeded),
		errors.Is(err, project.ErrStaleProjectID):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

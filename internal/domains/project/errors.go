package project

import "errors"

var (
	// Not Found
	ErrProjectNotFound = errors.New("project not found")

	// Invariant violations
	ErrAreaExceeded = errors.New("project area exceeds farmer's available area")

	// Validation
	ErrInvalidStatus  = errors.New("invalid project status")
	ErrStaleProjectID = errors.New("project id does not reference an existing project")
)

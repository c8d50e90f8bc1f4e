package cooperative

import "errors"

var (
	ErrCooperativeNotFound = errors.New("cooperative not found")
	ErrDuplicateName       = errors.New("a cooperative with this name already exists")
	ErrAlreadyApproved     = errors.New("cooperative is already approved")
)

package user

import "errors"

// Sentinel errors, mapped to HTTP status by the rest layer.
var (
	ErrEmptyValue     = errors.New("value cannot be empty")
	ErrInvalidFormat  = errors.New("invalid format")
	ErrInvalidName    = errors.New("first name and last name must be 1-100 characters")
	ErrMissingName    = errors.New("first name and last name are required")
	ErrDuplicateEmail = errors.New("email already exists")
	ErrNotDeletable   = errors.New("user cannot be deleted")
)

package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidInput is the parent of every caller-fixable validation error.
	ErrInvalidInput = errors.New("invalid input")
	ErrMissingURL   = fmt.Errorf("%w: url is required", ErrInvalidInput)
	ErrInvalidURL   = fmt.Errorf("%w: url must be an absolute http or https URL", ErrInvalidInput)
	ErrInvalidCode  = fmt.Errorf("%w: code must be 6-8 alphanumeric characters", ErrInvalidInput)

	ErrNotFound            = errors.New("link not found")
	ErrDuplicateCode       = errors.New("code already exists")
	ErrGenerationExhausted = errors.New("failed to generate unique code")
	ErrStorageUnavailable  = errors.New("storage unavailable")
)

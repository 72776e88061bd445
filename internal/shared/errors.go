package shared

import "fmt"

var (
	ErrNotImplemented = fmt.Errorf("not implemented")

	// Outcome taxonomy for playlist store operations.
	// Callers branch on these with [errors.Is]; implementations wrap them
	// with fmt.Errorf("%w: ...") to carry detail.
	ErrValidation     = fmt.Errorf("validation failed")
	ErrNotFound       = fmt.Errorf("not found")
	ErrUnauthorized   = fmt.Errorf("unauthorized")
	ErrDuplicateVideo = fmt.Errorf("video already in playlist")
	ErrConflict       = fmt.Errorf("stale version")
	ErrStore          = fmt.Errorf("store failure")

	// Configuration errors
	ErrMissingConfig = fmt.Errorf("configuration not found")
	ErrInvalidConfig = fmt.Errorf("invalid configuration")

	// Identity errors
	ErrMissingToken = fmt.Errorf("owner token not provided")
	ErrInvalidToken = fmt.Errorf("owner token did not resolve")

	// Input validation errors
	ErrInvalidInput    = fmt.Errorf("invalid input")
	ErrMissingArgument = fmt.Errorf("missing required argument")
	ErrInvalidArgument = fmt.Errorf("invalid argument")
	ErrInvalidFlag     = fmt.Errorf("invalid flag value")
)

package repository

import "errors"

// Sentinel kinds for character store errors.
var (
	ErrNotFound     = errors.New("character not found")
	ErrInvalidLimit = errors.New("invalid character limit")
	ErrMissingID    = errors.New("character id is required")
)

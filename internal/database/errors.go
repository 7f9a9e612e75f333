package database

import "errors"

var (
	// ErrValidation indicates required input was missing or empty
	ErrValidation = errors.New("missing required fields")

	// ErrNotFound indicates the referenced record does not exist
	ErrNotFound = errors.New("record not found")
)

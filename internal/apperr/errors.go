// Package apperr defines sentinel errors shared across subsystems.
package apperr

import "errors"

var (
	// ErrNotFound indicates a vault file or index entry does not exist.
	ErrNotFound = errors.New("not found")
)

// Package apperr defines the error taxonomy shared by the service layer.
// Handlers map these sentinels onto HTTP status codes; wrap them with %w so
// errors.Is keeps working through call chains.
package apperr

import "errors"

var (
	ErrNotFound     = errors.New("not found")
	ErrInvalidInput = errors.New("invalid input")
	ErrConflict     = errors.New("conflict")
	ErrUnauthorized = errors.New("unauthorized")
)

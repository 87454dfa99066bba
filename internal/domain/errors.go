// Package domain defines the core business entities and errors.
package domain

import "errors"

// Common domain errors used across the application.
var (
	// ErrValidation is returned when a domain entity fails validation.
	// This is often wrapped with a more specific error message.
	ErrValidation = errors.New("validation failed")

	// ErrInvalidID is returned when an ID is malformed or invalid.
	ErrInvalidID = errors.New("invalid ID")

	// ErrInvalidContentType is returned when a content type tag is not one of
	// the supported values.
	ErrInvalidContentType = errors.New("invalid content type")

	// ErrInvalidPayload is returned when a response payload does not match the
	// shape required by its content type.
	ErrInvalidPayload = errors.New("invalid response payload")

	// ErrUnauthorized is returned when the caller does not own the resource
	// an operation targets.
	ErrUnauthorized = errors.New("unauthorized operation")
)

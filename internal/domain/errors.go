// Package domain defines the core business entities and errors.
package domain

import "errors"

// Common domain errors used across the application.
var (
	// ErrValidation is returned when a domain entity fails validation.
	// This is often wrapped with a more specific error message.
	ErrValidation = errors.New("validation failed")

	// ErrInvalidEmail is returned when an email address is malformed.
	ErrInvalidEmail = errors.New("invalid email format")

	// ErrInvalidPassword is returned when a password doesn't meet requirements.
	ErrInvalidPassword = errors.New("invalid password")

	// ErrInvalidRole is returned when a role is not one of the known roles.
	ErrInvalidRole = errors.New("invalid role")

	// ErrInvalidTopicStatus is returned when a topic status is not one of
	// the known status values.
	ErrInvalidTopicStatus = errors.New("invalid topic status")

	// ErrTopicIDOutOfRange is returned when a topic ID falls outside the
	// valid id range of its curriculum.
	ErrTopicIDOutOfRange = errors.New("topic ID out of range")

	// ErrForbidden is returned when a valid identity lacks the role
	// required for an operation.
	ErrForbidden = errors.New("operation not permitted")
)

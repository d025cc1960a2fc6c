package domain

import "errors"

var (
	// ErrProviderNotFound is returned when a referenced account does not
	// exist or is not owned by the requesting user.
	ErrProviderNotFound = errors.New("PROVIDER_NOT_FOUND")

	ErrInvalidRequest = errors.New("invalid request")
)

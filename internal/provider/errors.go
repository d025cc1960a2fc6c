package provider

import (
	"errors"
	"fmt"
)

var (
	ErrProviderNotConfigured = errors.New("provider not configured")
	ErrUnsupportedCapability = errors.New("unsupported capability")
	ErrUnsupportedAction     = errors.New("unsupported action")
	ErrMalformedCursor       = errors.New("malformed cursor")
	ErrNotFound              = errors.New("not found")
	ErrUpstream              = errors.New("upstream error")
)

// UpstreamError is a non-2xx answer from a provider API.
type UpstreamError struct {
	Provider   string
	StatusCode int
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("%s: unexpected status: %d", e.Provider, e.StatusCode)
}

func (e *UpstreamError) Unwrap() error {
	return ErrUpstream
}

// StatusError maps an HTTP status to the adapter error taxonomy.
func StatusError(provider string, status int) error {
	if status == 404 {
		return fmt.Errorf("%s: %w", provider, ErrNotFound)
	}
	return &UpstreamError{Provider: provider, StatusCode: status}
}

// UnsupportedAction builds the error for an action missing from a dispatch table.
func UnsupportedAction(provider, action string) error {
	return fmt.Errorf("%s: %q: %w", provider, action, ErrUnsupportedAction)
}

// MalformedCursor builds the error for a cursor the adapter cannot parse.
func MalformedCursor(provider, cursor string, cause error) error {
	if cause != nil {
		return fmt.Errorf("%s: cursor %q: %w: %v", provider, cursor, ErrMalformedCursor, cause)
	}
	return fmt.Errorf("%s: cursor %q: %w", provider, cursor, ErrMalformedCursor)
}

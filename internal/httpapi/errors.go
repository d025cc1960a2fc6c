package httpapi

import (
	"errors"
	"net/http"

	"feedhub/internal/domain"
	"feedhub/internal/provider"
)

// Error codes returned in the "code" field of error bodies.
const (
	CodeProviderNotFound      = "PROVIDER_NOT_FOUND"
	CodeInvalidRequest        = "INVALID_REQUEST"
	CodeUnauthorized          = "UNAUTHORIZED"
	CodeProviderNotConfigured = "PROVIDER_NOT_CONFIGURED"
	CodeUnsupportedCapability = "UNSUPPORTED_CAPABILITY"
	CodeUnsupportedAction     = "UNSUPPORTED_ACTION"
	CodeMalformedCursor       = "MALFORMED_CURSOR"
	CodeNotFound              = "NOT_FOUND"
	CodeUpstream              = "UPSTREAM_ERROR"
	CodeInternal              = "INTERNAL"
)

const msgInternalServer = "Internal Server Error"

// HTTPError is an error with a status code and a user-facing message.
type HTTPError struct {
	cause   error
	Status  int
	Code    string
	Message string
}

func (e *HTTPError) Error() string {
	return e.Message
}

func (e *HTTPError) Unwrap() error {
	return e.cause
}

func newHTTPError(status int, code, message string, cause error) *HTTPError {
	return &HTTPError{cause: cause, Status: status, Code: code, Message: message}
}

func errBadRequest(message string) *HTTPError {
	return newHTTPError(http.StatusBadRequest, CodeInvalidRequest, message, nil)
}

func errUnauthorized(message string) *HTTPError {
	return newHTTPError(http.StatusUnauthorized, CodeUnauthorized, message, nil)
}

// toHTTPError classifies err into a response. Anything unknown is a 500
// whose message does not leak the cause.
func toHTTPError(err error) *HTTPError {
	var httpErr *HTTPError
	if errors.As(err, &httpErr) {
		return httpErr
	}

	switch {
	case errors.Is(err, domain.ErrProviderNotFound):
		return newHTTPError(http.StatusNotFound, CodeProviderNotFound, err.Error(), err)
	case errors.Is(err, domain.ErrInvalidRequest):
		return newHTTPError(http.StatusBadRequest, CodeInvalidRequest, err.Error(), err)
	case errors.Is(err, provider.ErrMalformedCursor):
		return newHTTPError(http.StatusBadRequest, CodeMalformedCursor, err.Error(), err)
	case errors.Is(err, provider.ErrProviderNotConfigured):
		return newHTTPError(http.StatusUnprocessableEntity, CodeProviderNotConfigured, err.Error(), err)
	case errors.Is(err, provider.ErrUnsupportedCapability):
		return newHTTPError(http.StatusUnprocessableEntity, CodeUnsupportedCapability, err.Error(), err)
	case errors.Is(err, provider.ErrUnsupportedAction):
		return newHTTPError(http.StatusUnprocessableEntity, CodeUnsupportedAction, err.Error(), err)
	case errors.Is(err, provider.ErrNotFound):
		return newHTTPError(http.StatusNotFound, CodeNotFound, err.Error(), err)
	case errors.Is(err, provider.ErrUpstream):
		return newHTTPError(http.StatusBadGateway, CodeUpstream, err.Error(), err)
	default:
		return newHTTPError(http.StatusInternalServerError, CodeInternal, msgInternalServer, err)
	}
}

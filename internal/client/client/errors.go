package client

import (
	"context"
	"errors"
	"fmt"
)

// Error kinds. Match them with errors.Is on any error returned by a Client.
var (
	ErrUnavailable     = errors.New("server unavailable")
	ErrUnauthorized    = errors.New("unauthorized")
	ErrForbidden       = errors.New("forbidden")
	ErrNotFound        = errors.New("not found")
	ErrValidation      = errors.New("validation failed")
	ErrRequestFailed   = errors.New("request failed")
	ErrInvalidResponse = errors.New("invalid response")
	ErrUnexpectedShape = errors.New("unexpected response shape")
)

// User-facing messages for the fixed failure cases.
const (
	MsgUnauthorized    = "Authentication failed. Please login again."
	MsgForbidden       = "Access denied. You do not have permission for this action."
	MsgNetwork         = "Network error"
	MsgInvalidJSON     = "Invalid JSON response from server"
	MsgInvalidFormat   = "Invalid response format from server"
	MsgUnexpectedShape = "Unexpected response format from server"
)

// APIError is the single failure shape surfaced to callers: a displayable
// message plus the HTTP status (0 when no response was received). Err holds
// the kind for errors.Is.
type APIError struct {
	Message    string
	StatusCode int
	Err        error
}

func (e *APIError) Error() string {
	return e.Message
}

func (e *APIError) Unwrap() error {
	return e.Err
}

func newAPIError(kind error, status int, message string) *APIError {
	return &APIError{Message: message, StatusCode: status, Err: kind}
}

// ValidationError reports a local validation failure as an APIError.
func ValidationError(err error) *APIError {
	return &APIError{Message: err.Error(), Err: fmt.Errorf("%w: %w", ErrValidation, err)}
}

// AsAPIError normalizes err into an *APIError. nil stays nil; errors that
// already are (or wrap) an APIError are returned as is; context errors and
// anything else become status-0 failures.
func AsAPIError(err error) *APIError {
	if err == nil {
		return nil
	}

	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr
	}

	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return &APIError{Message: MsgNetwork, Err: fmt.Errorf("%w: %w", ErrUnavailable, err)}
	}

	return &APIError{Message: err.Error(), Err: err}
}

// StatusCode returns the HTTP status carried by err, or 0.
func StatusCode(err error) int {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode
	}
	return 0
}

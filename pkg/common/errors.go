package common

import (
	"errors"
	"net/http"
)

// ErrValidation marks rejected request input for errors.Is checks
var ErrValidation = errors.New("validation error")

// AppError represents an application error with HTTP status code
type AppError struct {
	Code      int    `json:"code"`
	ErrorCode string `json:"error_code,omitempty"`
	Message   string `json:"message"`
	Err       error  `json:"-"`
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

// Unwrap exposes the wrapped error for errors.Is/As
func (e *AppError) Unwrap() error {
	return e.Err
}

// NewValidationError flags rejected request input
func NewValidationError(message string) *AppError {
	return &AppError{
		Code:    http.StatusBadRequest,
		Message: message,
		Err:     ErrValidation,
	}
}

// NewUpstreamError flags a failure from the marketplace backend API
func NewUpstreamError(message string, err error) *AppError {
	return &AppError{
		Code:      http.StatusBadGateway,
		ErrorCode: "UPSTREAM_UNAVAILABLE",
		Message:   message,
		Err:       err,
	}
}

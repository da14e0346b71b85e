package utils

import (
	"fmt"
	"net/http"
)

// CustomError represents a custom application error
type CustomError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Detail  string `json:"detail,omitempty"`
}

func (e *CustomError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("%s: %s", e.Message, e.Detail)
	}
	return e.Message
}

// Common error constructors
func NewBadRequestError(message string) *CustomError {
	return &CustomError{
		Code:    http.StatusBadRequest,
		Message: message,
	}
}

func NewInternalServerError(message string) *CustomError {
	return &CustomError{
		Code:    http.StatusInternalServerError,
		Message: message,
	}
}

func NewTimeoutError(message string) *CustomError {
	return &CustomError{
		Code:    http.StatusRequestTimeout,
		Message: message,
	}
}

func NewValidationError(detail string) *CustomError {
	return &CustomError{
		Code:    http.StatusBadRequest,
		Message: "Validation failed",
		Detail:  detail,
	}
}

// NewFetchError returns the terminal error raised when no fetch strategy
// yields usable page content.
func NewFetchError(detail string) *CustomError {
	return &CustomError{
		Code:    http.StatusUnprocessableEntity,
		Message: "Could not extract meaningful content, site may block automated requests",
		Detail:  detail,
	}
}

// NewExtractionError returns the terminal error raised when the model
// produced no usable structured payload.
func NewExtractionError(detail string) *CustomError {
	return &CustomError{
		Code:    http.StatusBadGateway,
		Message: "Extraction failed",
		Detail:  detail,
	}
}

// NewMissingTitleError is raised when the job title sanitizes to an empty
// string. Unlike other field failures this one is not recoverable by
// defaulting.
func NewMissingTitleError() *CustomError {
	return &CustomError{
		Code:    http.StatusUnprocessableEntity,
		Message: "Extraction failed",
		Detail:  "missing title",
	}
}

// NewClassificationParseError is raised when a classification response could
// not be parsed by either parser tier. It triggers a bounded retry before
// becoming a per-item failure.
func NewClassificationParseError(detail string) *CustomError {
	return &CustomError{
		Code:    http.StatusBadGateway,
		Message: "Classification response unparseable",
		Detail:  detail,
	}
}

// NewPendingNotFoundError is raised when a payment event references a session
// with no captured submission.
func NewPendingNotFoundError(sessionID string) *CustomError {
	return &CustomError{
		Code:    http.StatusNotFound,
		Message: "No pending submission for payment session",
		Detail:  sessionID,
	}
}

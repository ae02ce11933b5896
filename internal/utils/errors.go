package utils

import (
	"fmt"
	"net/http"
)

type ErrorCode string

const (
	ErrorCodeInvalidInput      ErrorCode = "INVALID_INPUT"
	ErrorCodeAcquisitionFailed ErrorCode = "ACQUISITION_FAILED"
	ErrorCodePublishFailed     ErrorCode = "PUBLISH_FAILED"
	ErrorCodeConfiguration     ErrorCode = "CONFIGURATION_ERROR"
	ErrorCodeInternalError     ErrorCode = "INTERNAL_ERROR"
)

// MissingURLMessage is returned verbatim to callers that omit the source URL.
const MissingURLMessage = "Missing youtubeUrl/youtubelink parameter"

type AppError struct {
	Code       ErrorCode `json:"code"`
	Message    string    `json:"message"`
	StatusCode int       `json:"-"`
	Cause      error     `json:"-"`
}

func (e *AppError) Error() string {
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

func NewError(code ErrorCode, message string, statusCode int) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		StatusCode: statusCode,
	}
}

func NewMissingURLError() *AppError {
	return NewError(ErrorCodeInvalidInput, MissingURLMessage, http.StatusBadRequest)
}

func NewInvalidLinkError(link string) *AppError {
	return NewError(
		ErrorCodeInvalidInput,
		fmt.Sprintf("Invalid YouTube URL: %s", link),
		http.StatusBadRequest,
	)
}

// NewAcquisitionError keeps the underlying message since it is surfaced to
// the caller as-is.
func NewAcquisitionError(err error) *AppError {
	return &AppError{
		Code:       ErrorCodeAcquisitionFailed,
		Message:    err.Error(),
		StatusCode: http.StatusInternalServerError,
		Cause:      err,
	}
}

func NewPublishError(err error) *AppError {
	return &AppError{
		Code:       ErrorCodePublishFailed,
		Message:    err.Error(),
		StatusCode: http.StatusInternalServerError,
		Cause:      err,
	}
}

// NewConfigurationError shares the 500 envelope with pipeline failures; only
// the server-side log tells them apart.
func NewConfigurationError(err error) *AppError {
	return &AppError{
		Code:       ErrorCodeConfiguration,
		Message:    "Service is not configured",
		StatusCode: http.StatusInternalServerError,
		Cause:      err,
	}
}

func NewInternalError(err error) *AppError {
	return &AppError{
		Code:       ErrorCodeInternalError,
		Message:    "An unexpected error occurred",
		StatusCode: http.StatusInternalServerError,
		Cause:      err,
	}
}

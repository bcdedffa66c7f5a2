package nanogen

import (
	"errors"
	"fmt"
)

// Validation errors. These are caught before any remote call is made and are
// always recoverable by correcting the input.
var (
	ErrEmptyPrompt        = errors.New("prompt cannot be empty")
	ErrMissingSourceImage = errors.New("edit mode requires a source image")
	ErrInvalidFileType    = errors.New("invalid or unsupported file type")
	ErrEmptyImageData     = errors.New("image data cannot be empty")
)

// ErrNoImageInResponse is returned when the remote call succeeded but no
// candidate carried an inline image payload. Terminal for the current
// request; never retried.
var ErrNoImageInResponse = errors.New("no image data found in the response")

// ErrStorageNotConfigured is returned when storage operations are attempted
// without a configured storage backend.
var ErrStorageNotConfigured = errors.New("storage not configured")

// GatewayError wraps any failure of the remote generation call: network
// errors, authentication failures, remote-side validation or server errors.
// Message carries whatever diagnostic text the remote service returned; no
// classification or retry happens at this layer.
type GatewayError struct {
	Message string
	Err     error // Underlying error from the SDK or transport
}

func (e *GatewayError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return "gateway error"
}

func (e *GatewayError) Unwrap() error {
	return e.Err
}

// IsGatewayError checks if an error is a GatewayError.
func IsGatewayError(err error) bool {
	var gwErr *GatewayError
	return errors.As(err, &gwErr)
}

// IsValidationError reports whether err is one of the pre-flight validation
// failures that never reach the gateway.
func IsValidationError(err error) bool {
	return errors.Is(err, ErrEmptyPrompt) ||
		errors.Is(err, ErrMissingSourceImage) ||
		errors.Is(err, ErrInvalidFileType) ||
		errors.Is(err, ErrEmptyImageData)
}

// NewGatewayError wraps err with a diagnostic message for user display.
func NewGatewayError(err error, format string, args ...any) *GatewayError {
	return &GatewayError{
		Message: fmt.Sprintf(format, args...),
		Err:     err,
	}
}

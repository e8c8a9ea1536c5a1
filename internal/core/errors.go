// internal/core/errors.go
package core

import "fmt"

// Error represents a structured error with code and optional cause.
type Error struct {
	Code    string
	Message string
	Cause   error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause for errors.Is/As support.
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is implements errors.Is matching by code.
func (e *Error) Is(target error) bool {
	if t, ok := target.(*Error); ok {
		return e.Code == t.Code
	}
	return false
}

// WrapError creates a new error with the same code but with a cause.
func WrapError(base *Error, cause error) *Error {
	return &Error{
		Code:    base.Code,
		Message: base.Message,
		Cause:   cause,
	}
}

// Predefined errors
var (
	// Feed errors
	ErrSourceUnavailable = &Error{Code: "SOURCE_UNAVAILABLE", Message: "price feed unavailable"}
	ErrNoMatchingRecord  = &Error{Code: "NO_MATCHING_RECORD", Message: "no price record for recent days"}
	ErrMalformedDate     = &Error{Code: "MALFORMED_DATE", Message: "record date not parseable"}

	// Reply errors
	ErrTemplateInvalid = &Error{Code: "TEMPLATE_INVALID", Message: "reply template invalid"}
	ErrDeliveryFailed  = &Error{Code: "DELIVERY_FAILED", Message: "reply delivery failed"}

	// Webhook errors
	ErrSignatureInvalid = &Error{Code: "SIGNATURE_INVALID", Message: "webhook signature invalid"}

	// Config errors
	ErrConfigInvalid = &Error{Code: "CONFIG_INVALID", Message: "configuration invalid"}
	ErrConfigMissing = &Error{Code: "CONFIG_MISSING", Message: "required configuration missing"}
)

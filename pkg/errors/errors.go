package errors

import (
	stderrors "errors"
	"fmt"
)

// ErrorCode represents an error code
type ErrorCode string

const (
	ErrCodeNotFound           ErrorCode = "NOT_FOUND"
	ErrCodeUnauthorized       ErrorCode = "UNAUTHORIZED"
	ErrCodeBadRequest         ErrorCode = "BAD_REQUEST"
	ErrCodeInternalError      ErrorCode = "INTERNAL_ERROR"
	ErrCodeValidation         ErrorCode = "VALIDATION_ERROR"
	ErrCodeInvalidPhone       ErrorCode = "INVALID_PHONE"
	ErrCodeConsentRequired    ErrorCode = "CONSENT_REQUIRED"
	ErrCodeStepIncomplete     ErrorCode = "STEP_INCOMPLETE"
	ErrCodeInvalidState       ErrorCode = "INVALID_STATE"
	ErrCodeSubmissionInFlight ErrorCode = "SUBMISSION_IN_FLIGHT"
	ErrCodePersistence        ErrorCode = "PERSISTENCE_ERROR"
	ErrCodeNotification       ErrorCode = "NOTIFICATION_ERROR"
	ErrCodeConfiguration      ErrorCode = "CONFIGURATION_ERROR"
)

// AppError represents an application error
type AppError struct {
	Code    ErrorCode
	Message string
	// Fields names the inquiry fields the error refers to, if any.
	Fields []string
	Err    error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (%v)", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// New creates a new AppError
func New(code ErrorCode, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
	}
}

// Wrap wraps an error with an AppError
func Wrap(code ErrorCode, message string, err error) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// WithFields returns a copy of e that refers to the given fields.
func (e *AppError) WithFields(fields ...string) *AppError {
	cp := *e
	cp.Fields = append([]string(nil), fields...)
	return &cp
}

// CodeOf returns the code of the first AppError in err's chain, or
// ErrCodeInternalError when there is none.
func CodeOf(err error) ErrorCode {
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr.Code
	}
	return ErrCodeInternalError
}

// Is reports whether err carries the given code.
func Is(err error, code ErrorCode) bool {
	var appErr *AppError
	return stderrors.As(err, &appErr) && appErr.Code == code
}

// IsNotFound checks if error is NotFound
func IsNotFound(err error) bool {
	return Is(err, ErrCodeNotFound)
}

// IsUnauthorized checks if error is Unauthorized
func IsUnauthorized(err error) bool {
	return Is(err, ErrCodeUnauthorized)
}

// IsValidation reports whether err is any of the client-local validation
// errors: generic validation, phone digit count, consent or step gating.
func IsValidation(err error) bool {
	switch CodeOf(err) {
	case ErrCodeValidation, ErrCodeInvalidPhone, ErrCodeConsentRequired, ErrCodeStepIncomplete:
		return true
	}
	return false
}

// IsConfiguration checks if error is a configuration error
func IsConfiguration(err error) bool {
	return Is(err, ErrCodeConfiguration)
}

// MessageOf returns the user-facing message of the first AppError in err's
// chain, or err.Error() when there is none.
func MessageOf(err error) string {
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr.Message
	}
	return err.Error()
}

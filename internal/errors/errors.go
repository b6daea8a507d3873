package errors

import (
	"errors"
	"fmt"
)

// ErrorCode represents a category of application error.
type ErrorCode string

const (
	// ErrCodeAuthentication indicates bad sign-in credentials. The message is
	// always generic so callers cannot distinguish unknown email from wrong
	// password.
	ErrCodeAuthentication ErrorCode = "authentication"
	// ErrCodeInvalidSession indicates an expired, tampered, or missing session
	// token. Treated as "not logged in", never as a hard failure.
	ErrCodeInvalidSession ErrorCode = "invalid_session"
	// ErrCodeForbidden indicates a valid session with insufficient role.
	ErrCodeForbidden ErrorCode = "forbidden"
	// ErrCodeVerification indicates a wrong or stale email-verification code.
	// Wrong and stale are deliberately indistinguishable.
	ErrCodeVerification ErrorCode = "verification"
	// ErrCodeTransient indicates a network/backend failure during an auth or
	// verification call. Retryable; distinct from a denial.
	ErrCodeTransient ErrorCode = "transient"
	// ErrCodeNotFound indicates a resource was not found.
	ErrCodeNotFound ErrorCode = "not_found"
	// ErrCodeConflict indicates a conflict with existing data (e.g., unique constraint violation).
	ErrCodeConflict ErrorCode = "conflict"
	// ErrCodeValidation indicates invalid input data.
	ErrCodeValidation ErrorCode = "validation"
	// ErrCodeInternal indicates an internal server error.
	ErrCodeInternal ErrorCode = "internal"
	// ErrCodeTimeout indicates a timeout occurred.
	ErrCodeTimeout ErrorCode = "timeout"
	// ErrCodeCanceled indicates the operation was canceled.
	ErrCodeCanceled ErrorCode = "canceled"
)

// Generic user-facing messages. Auth failures must not leak which check
// failed, so every constructor below reuses the same text per code.
const (
	MsgAuthenticationFailed = "Email or password incorrect"
	MsgInvalidSession       = "Session is invalid or expired"
	MsgVerificationFailed   = "Verification code is invalid or expired"
	MsgTransientFailure     = "An error occurred, please try again"
)

// AppError represents a structured application error with a code, message, and
// optional cause. It supports error wrapping for use with errors.Is/As.
type AppError struct {
	// Code categorizes the error type
	Code ErrorCode
	// Message is a human-readable error message
	Message string
	// Cause is the underlying error that caused this error (optional)
	Cause error
	// Field is the specific field that caused the error (optional, for validation errors)
	Field string
}

// Error implements the error interface.
func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

// Unwrap returns the underlying cause, enabling errors.Is and errors.As.
func (e *AppError) Unwrap() error {
	return e.Cause
}

// AuthenticationFailed creates the generic bad-credentials error.
func AuthenticationFailed() *AppError {
	return &AppError{Code: ErrCodeAuthentication, Message: MsgAuthenticationFailed}
}

// InvalidSession creates an invalid-session error, optionally wrapping the
// decode failure for logs.
func InvalidSession(cause error) *AppError {
	return &AppError{Code: ErrCodeInvalidSession, Message: MsgInvalidSession, Cause: cause}
}

// Forbidden creates an insufficient-role error.
func Forbidden(message string) *AppError {
	return &AppError{Code: ErrCodeForbidden, Message: message}
}

// VerificationFailed creates the generic wrong-or-expired-code error.
func VerificationFailed() *AppError {
	return &AppError{Code: ErrCodeVerification, Message: MsgVerificationFailed}
}

// Transient wraps a backend/network failure as a retryable error.
func Transient(cause error) *AppError {
	return &AppError{Code: ErrCodeTransient, Message: MsgTransientFailure, Cause: cause}
}

// NotFound creates a new NotFound error.
func NotFound(message string) *AppError {
	return &AppError{Code: ErrCodeNotFound, Message: message}
}

// Conflict creates a new Conflict error.
func Conflict(message string) *AppError {
	return &AppError{Code: ErrCodeConflict, Message: message}
}

// Validation creates a new Validation error.
func Validation(message string) *AppError {
	return &AppError{Code: ErrCodeValidation, Message: message}
}

// ValidationField creates a new Validation error for a specific field.
func ValidationField(field, message string) *AppError {
	return &AppError{Code: ErrCodeValidation, Message: message, Field: field}
}

// Internal creates a new Internal error.
func Internal(message string) *AppError {
	return &AppError{Code: ErrCodeInternal, Message: message}
}

// Wrap wraps an existing error with an AppError, preserving the cause.
func Wrap(err error, code ErrorCode, message string) *AppError {
	if err == nil {
		return nil
	}
	return &AppError{Code: code, Message: message, Cause: err}
}

// Wrapf wraps an existing error with an AppError and formatted message.
func Wrapf(err error, code ErrorCode, format string, args ...any) *AppError {
	if err == nil {
		return nil
	}
	return &AppError{Code: code, Message: fmt.Sprintf(format, args...), Cause: err}
}

// isCode checks if an error has a specific error code.
func isCode(err error, code ErrorCode) bool {
	var appErr *AppError
	return errors.As(err, &appErr) && appErr.Code == code
}

// IsAuthenticationFailed checks if an error is a bad-credentials error.
func IsAuthenticationFailed(err error) bool { return isCode(err, ErrCodeAuthentication) }

// IsInvalidSession checks if an error is an invalid-session error.
func IsInvalidSession(err error) bool { return isCode(err, ErrCodeInvalidSession) }

// IsForbidden checks if an error is an insufficient-role error.
func IsForbidden(err error) bool { return isCode(err, ErrCodeForbidden) }

// IsVerificationFailed checks if an error is a wrong-or-expired-code error.
func IsVerificationFailed(err error) bool { return isCode(err, ErrCodeVerification) }

// IsTransient checks if an error is retryable.
func IsTransient(err error) bool { return isCode(err, ErrCodeTransient) }

// IsNotFound checks if an error is a NotFound error.
func IsNotFound(err error) bool { return isCode(err, ErrCodeNotFound) }

// IsConflict checks if an error is a Conflict error.
func IsConflict(err error) bool { return isCode(err, ErrCodeConflict) }

// IsValidation checks if an error is a Validation error.
func IsValidation(err error) bool { return isCode(err, ErrCodeValidation) }

// GetCode returns the ErrorCode from an error, or empty string if not an AppError.
func GetCode(err error) ErrorCode {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	return ""
}

// GetField returns the Field from an error, or empty string if not an AppError or no field set.
func GetField(err error) string {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Field
	}
	return ""
}

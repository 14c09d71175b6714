package domain

import "fmt"

// Error is the single business-error type. Services raise one of the predefined
// values (optionally wrapped with %w for context) and the transport layer maps
// it to an HTTP status exactly once.
type Error struct {
	Code    string
	Message string
	Status  int
}

func (e *Error) Error() string { return e.Message }

// Is matches by code so wrapped errors still compare with errors.Is.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Code == e.Code
}

// WithMessage returns a copy carrying a more specific message. Code and status
// are preserved so transport mapping is unaffected.
func (e *Error) WithMessage(format string, args ...interface{}) *Error {
	return &Error{Code: e.Code, Message: fmt.Sprintf(format, args...), Status: e.Status}
}

// Common (1xxx)
var (
	ErrInternal     = &Error{Code: "1000", Message: "Internal server error", Status: 500}
	ErrInvalidInput = &Error{Code: "1001", Message: "Invalid input", Status: 400}
	ErrUnauthorized = &Error{Code: "1002", Message: "Unauthorized", Status: 401}
	ErrForbidden    = &Error{Code: "1003", Message: "Forbidden", Status: 403}
	ErrNotFound     = &Error{Code: "1004", Message: "Resource not found", Status: 404}
	ErrConflict     = &Error{Code: "1005", Message: "Resource conflict", Status: 409}
)

// Auth (2xxx)
var (
	ErrEmailAlreadyExists      = &Error{Code: "2001", Message: "Email already exists", Status: 409}
	ErrInvalidToken            = &Error{Code: "2002", Message: "Invalid or expired token", Status: 401}
	ErrTokenExpired            = &Error{Code: "2003", Message: "Token expired", Status: 401}
	ErrInvalidEmailFormat      = &Error{Code: "2004", Message: "Invalid email format", Status: 400}
	ErrEmailAlreadyVerified    = &Error{Code: "2005", Message: "Email already verified", Status: 400}
	ErrInvalidVerificationCode = &Error{Code: "2006", Message: "Invalid verification code", Status: 400}
	ErrVerificationCooldown    = &Error{Code: "2007", Message: "Please wait before requesting another verification email", Status: 429}
	ErrTooManyRequests         = &Error{Code: "2008", Message: "Too many verification requests, try again later", Status: 429}
	ErrEmailSendFailed         = &Error{Code: "2009", Message: "Failed to send verification email", Status: 500}
)

package domain

import "errors"

// Kind classifies an Error for the HTTP boundary.
type Kind string

const (
	KindNotFound     Kind = "not-found"
	KindBadRequest   Kind = "bad-request"
	KindUnauthorized Kind = "unauthorized"
	KindForbidden    Kind = "forbidden"
	KindInternal     Kind = "internal"
)

// FieldError is a single request validation failure.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Error is an expected failure with a kind and a client-safe message.
type Error struct {
	Kind    Kind
	Message string
	Fields  []FieldError
}

func (e *Error) Error() string {
	return e.Message
}

func newError(kind Kind, msg string) *Error {
	return &Error{Kind: kind, Message: msg}
}

// Validation wraps request validation failures as a bad-request error.
func Validation(fields []FieldError) *Error {
	return &Error{Kind: KindBadRequest, Message: "validation failed", Fields: fields}
}

// KindOf returns the kind of the first *Error in err's chain, or KindInternal.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

// Auth errors
var (
	ErrUserNotFound          = newError(KindNotFound, "user not found")
	ErrAccountInactive       = newError(KindForbidden, "account is inactive")
	ErrBadCredentials        = newError(KindBadRequest, "invalid email or password")
	ErrEmailTaken            = newError(KindBadRequest, "email is already registered")
	ErrPasswordMismatch      = newError(KindBadRequest, "passwords do not match")
	ErrPasswordTooLong       = newError(KindBadRequest, "password must be at most 72 bytes")
	ErrInvalidOrExpiredToken = newError(KindBadRequest, "token is invalid or expired")
	ErrEmailDelivery         = newError(KindInternal, "failed to send email")
)

// Gate errors
var (
	ErrTokenMissing    = newError(KindUnauthorized, "authentication token required")
	ErrTokenInvalid    = newError(KindUnauthorized, "invalid or expired token")
	ErrSessionNotFound = newError(KindUnauthorized, "session not found")
)

// File errors
var (
	ErrForbiddenKey = newError(KindForbidden, "object does not belong to user")
	ErrFileNotFound = newError(KindNotFound, "file not found")
	ErrFileRequired = newError(KindBadRequest, "file is required")
)

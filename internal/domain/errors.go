package domain

import "errors"

// Error kinds. Services wrap these in *Error so handlers can map them to a
// status code with errors.Is and surface the message with errors.As.
var (
	ErrValidation   = errors.New("validation failed")
	ErrNotFound     = errors.New("not found")
	ErrConflict     = errors.New("conflict")
	ErrUnauthorized = errors.New("unauthorized")
)

// Error is a domain failure carrying a client-safe message.
type Error struct {
	Kind    error
	Message string
	// Fields holds per-field validation messages, if any.
	Fields map[string]string
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Kind
}

func Invalid(message string) error {
	return &Error{Kind: ErrValidation, Message: message}
}

func InvalidFields(message string, fields map[string]string) error {
	return &Error{Kind: ErrValidation, Message: message, Fields: fields}
}

func NotFound(message string) error {
	return &Error{Kind: ErrNotFound, Message: message}
}

func Conflict(message string) error {
	return &Error{Kind: ErrConflict, Message: message}
}

func Unauthorized(message string) error {
	return &Error{Kind: ErrUnauthorized, Message: message}
}

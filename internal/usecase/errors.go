package usecase

import "errors"

// Error kinds. Handlers map them to HTTP statuses with errors.Is.
var (
	ErrInvalidInput = errors.New("invalid input")
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")
	ErrNotFound     = errors.New("not found")
	ErrConflict     = errors.New("conflict")
	ErrRule         = errors.New("rule violated")
	ErrInternal     = errors.New("internal error")
)

// Error carries a kind plus the message shown to the client. Field is set
// for rule violations tied to one input field.
type Error struct {
	Kind    error
	Field   string
	Message string
}

func (e *Error) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return e.Kind.Error()
}

func (e *Error) Unwrap() error { return e.Kind }

func Invalid(msg string) error      { return &Error{Kind: ErrInvalidInput, Message: msg} }
func Unauthorized(msg string) error { return &Error{Kind: ErrUnauthorized, Message: msg} }
func Forbidden(msg string) error    { return &Error{Kind: ErrForbidden, Message: msg} }
func NotFound(msg string) error     { return &Error{Kind: ErrNotFound, Message: msg} }
func Conflict(msg string) error     { return &Error{Kind: ErrConflict, Message: msg} }

// Rule reports a business rule failure on field, rendered as 422.
func Rule(field, msg string) error {
	return &Error{Kind: ErrRule, Field: field, Message: msg}
}

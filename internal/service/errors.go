package service

import "errors"

// Kind classifies a failure the client can act on.  Anything that is not an
// *Error is treated as an internal store failure.
type Kind string

const (
	KindValidation Kind = "validation"
	KindConflict   Kind = "conflict"
	KindAuth       Kind = "auth"
	KindNotFound   Kind = "not_found"
)

// Error is returned by services for client-facing failures.  Message is
// safe to show to the caller.
type Error struct {
	Kind    Kind
	Message string
}

func (e *Error) Error() string { return e.Message }

func NewValidationError(msg string) error { return &Error{Kind: KindValidation, Message: msg} }
func NewConflictError(msg string) error   { return &Error{Kind: KindConflict, Message: msg} }
func NewAuthError(msg string) error       { return &Error{Kind: KindAuth, Message: msg} }
func NewNotFoundError(msg string) error   { return &Error{Kind: KindNotFound, Message: msg} }

// AsError unwraps err to a service *Error.
func AsError(err error) (*Error, bool) {
	var se *Error
	if errors.As(err, &se) {
		return se, true
	}
	return nil, false
}

// IsKind reports whether err is a service error of kind k.
func IsKind(err error, k Kind) bool {
	se, ok := AsError(err)
	return ok && se.Kind == k
}

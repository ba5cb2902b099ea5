package service

import "errors"

// Kind is the closed set of error categories services can produce. Handlers
// branch on the kind, never on message content.
type Kind string

const (
	KindValidation         Kind = "validation"
	KindInvalidCredentials Kind = "invalid_credentials"
	KindUnauthorized       Kind = "unauthorized"
	KindForbidden          Kind = "forbidden"
	KindNotFound           Kind = "not_found"
	KindConflict           Kind = "conflict"
	KindDuplicate          Kind = "duplicate"
	KindInvalidState       Kind = "invalid_state"
	KindExpired            Kind = "expired"
	KindInternal           Kind = "internal"
)

// Error is a typed service error. Fields carries field-level validation detail
// when available.
type Error struct {
	Kind    Kind
	Message string
	Fields  map[string]string
}

func (e *Error) Error() string {
	return e.Message
}

// E builds a service error of the given kind.
func E(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// Invalid builds a validation error with field-level detail.
func Invalid(message string, fields map[string]string) *Error {
	return &Error{Kind: KindValidation, Message: message, Fields: fields}
}

// KindOf extracts the kind from an error, defaulting to KindInternal for
// anything that is not a service error.
func KindOf(err error) Kind {
	if err == nil {
		return ""
	}
	var se *Error
	if errors.As(err, &se) {
		return se.Kind
	}
	return KindInternal
}

// IsKind reports whether err is a service error of the given kind.
func IsKind(err error, kind Kind) bool {
	return KindOf(err) == kind
}

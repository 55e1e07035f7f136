// Package apperror defines the error taxonomy shared by the court pipeline and
// the single place where an error kind becomes an HTTP status code.
package apperror

import (
	"errors"
	"net/http"
)

// Kind classifies a failure so the HTTP layer can pick a status code without
// knowing which component produced it.
type Kind string

const (
	KindMissingField  Kind = "MissingField"  // A required field was empty after trimming
	KindInvalidFormat Kind = "InvalidFormat" // A field (or the uploaded image) has the wrong shape
	KindNotFound      Kind = "NotFound"      // The requested entity does not exist
	KindUnavailable   Kind = "Unavailable"   // The store is not connected or the connection dropped
	KindTimeout       Kind = "Timeout"       // The store did not answer within the storage timeout
	KindInvalidID     Kind = "InvalidId"     // The id is not a well-formed storage identifier
	KindUnexpected    Kind = "Unexpected"    // Anything else: a bug or an unclassified driver error
)

// Error is an error tagged with a Kind. Err, when set, is the underlying cause.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

// Is lets errors.Is match on kind alone, so the sentinels below work as
// categories: errors.Is(err, apperror.ErrNotFound) is true for any NotFound.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind && (t.Message == "" || t.Message == e.Message)
}

// New creates an error of the given kind.
func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// Wrap tags cause with a kind and message.
func Wrap(kind Kind, message string, cause error) *Error {
	return &Error{Kind: kind, Message: message, Err: cause}
}

// Category sentinels for errors.Is. They have no message so they match any
// error of their kind.
var (
	ErrNotFound    = &Error{Kind: KindNotFound}
	ErrUnavailable = &Error{Kind: KindUnavailable}
	ErrTimeout     = &Error{Kind: KindTimeout}
	ErrInvalidID   = &Error{Kind: KindInvalidID}
	ErrUnexpected  = &Error{Kind: KindUnexpected}
)

// KindOf returns the kind of the first *Error in err's chain, or
// KindUnexpected if there is none.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnexpected
}

// Status maps an error kind onto the HTTP status the API answers with.
// Storage problems are 503 so clients can tell "try later" from "bug" (500).
func Status(kind Kind) int {
	switch kind {
	case KindMissingField, KindInvalidFormat:
		return http.StatusBadRequest
	case KindNotFound:
		return http.StatusNotFound
	case KindUnavailable, KindTimeout, KindInvalidID:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// Package apperr classifies failures so HTTP handlers can map them to status
// codes without knowing where they came from.
package apperr

import (
	"net/http"

	"github.com/cockroachdb/errors"
)

// Kind is the class of a failure
type Kind int

const (
	KindInternal Kind = iota
	KindValidation
	KindAuthentication
	KindAuthorization
	KindNotFound
	KindDatabase
	KindRateLimited
)

// Issue describes one invalid input field
type Issue struct {
	Path    string `json:"path"`
	Message string `json:"message"`
}

// Error is a classified failure
type Error struct {
	Kind    Kind
	Message string
	Issues  []Issue
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

// Validation reports malformed or missing input
func Validation(message string, issues ...Issue) error {
	return &Error{Kind: KindValidation, Message: message, Issues: issues}
}

// Unauthenticated reports a missing, invalid or expired token
func Unauthenticated(message string) error {
	if message == "" {
		message = "Authentication required"
	}
	return &Error{Kind: KindAuthentication, Message: message}
}

// Forbidden reports a valid caller without sufficient rights
func Forbidden(message string) error {
	if message == "" {
		message = "Insufficient permissions"
	}
	return &Error{Kind: KindAuthorization, Message: message}
}

// NotFound reports a missing record
func NotFound(model, id string) error {
	return &Error{Kind: KindNotFound, Message: model + " not found", Err: errors.Newf("%s %q", model, id)}
}

// Database wraps a storage failure
func Database(message string, err error) error {
	return &Error{Kind: KindDatabase, Message: message, Err: err}
}

// RateLimited reports an exhausted request budget
func RateLimited() error {
	return &Error{Kind: KindRateLimited, Message: "Rate limit exceeded"}
}

// KindOf returns the kind of err, KindInternal for unclassified errors
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

// Is reports whether err is classified as kind
func Is(err error, kind Kind) bool {
	return err != nil && KindOf(err) == kind
}

// Status maps a kind to its HTTP status code
func (k Kind) Status() int {
	switch k {
	case KindValidation:
		return http.StatusBadRequest
	case KindAuthentication:
		return http.StatusUnauthorized
	case KindAuthorization:
		return http.StatusForbidden
	case KindNotFound:
		return http.StatusNotFound
	case KindRateLimited:
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}

// Title is the short label used in JSON error bodies
func (k Kind) Title() string {
	switch k {
	case KindValidation:
		return "Validation Error"
	case KindAuthentication:
		return "Authentication Error"
	case KindAuthorization:
		return "Authorization Error"
	case KindNotFound:
		return "Not Found"
	case KindDatabase:
		return "Database Error"
	case KindRateLimited:
		return "Rate Limit Exceeded"
	default:
		return "Internal Server Error"
	}
}

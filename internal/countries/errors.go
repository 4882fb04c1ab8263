package countries

import (
	"errors"
	"fmt"
	"strings"
)

// ErrorKind categorizes lookup failures
type ErrorKind string

const (
	// KindNotFound indicates the API knows no country by that name
	KindNotFound ErrorKind = "not_found"

	// KindNetwork indicates a transport failure
	KindNetwork ErrorKind = "network"

	// KindStatus indicates an unexpected HTTP status
	KindStatus ErrorKind = "status"

	// KindDecode indicates a malformed response body
	KindDecode ErrorKind = "decode"

	// KindRequest indicates the request could not be built
	KindRequest ErrorKind = "request"
)

// ErrNotFound matches any LookupError of kind KindNotFound via errors.Is.
var ErrNotFound = &LookupError{Kind: KindNotFound, Message: "no country with that name"}

// LookupError describes a failed lookup against the country API
type LookupError struct {
	Kind       ErrorKind
	Message    string
	Query      string
	StatusCode int
	Cause      error
}

// Error implements the error interface
func (e *LookupError) Error() string {
	parts := []string{fmt.Sprintf("type=%s", e.Kind)}

	if e.Query != "" {
		parts = append(parts, fmt.Sprintf("query=%q", e.Query))
	}
	if e.StatusCode > 0 {
		parts = append(parts, fmt.Sprintf("status=%d", e.StatusCode))
	}

	parts = append(parts, e.Message)

	if e.Cause != nil {
		parts = append(parts, fmt.Sprintf("cause=%s", e.Cause.Error()))
	}

	return strings.Join(parts, ": ")
}

// Unwrap returns the underlying error
func (e *LookupError) Unwrap() error {
	return e.Cause
}

// Is reports whether target is a LookupError of the same kind
func (e *LookupError) Is(target error) bool {
	if le, ok := target.(*LookupError); ok {
		return e.Kind == le.Kind
	}
	return false
}

func newLookupError(kind ErrorKind, query, message string, cause error) *LookupError {
	return &LookupError{
		Kind:    kind,
		Message: message,
		Query:   query,
		Cause:   cause,
	}
}

// IsNotFound reports whether err is a not-found lookup failure
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

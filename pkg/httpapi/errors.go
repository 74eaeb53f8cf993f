package httpapi

import (
	"errors"
	"fmt"
	"net/http"
)

// TransportError is returned for network failures and non-2xx responses.
// StatusCode is zero when the request never produced a response.
type TransportError struct {
	Method     string
	Path       string
	StatusCode int
	Detail     string
	Err        error
}

// Error implements the error interface for TransportError.
func (e *TransportError) Error() string {
	if e.StatusCode == 0 {
		return fmt.Sprintf("httpapi: %s %s: %v", e.Method, e.Path, e.Err)
	}
	return fmt.Sprintf("httpapi: %s %s: status %d: %s", e.Method, e.Path, e.StatusCode, e.Detail)
}

func (e *TransportError) Unwrap() error { return e.Err }

// NotFoundError is a TransportError produced by a 404 response.
type NotFoundError struct {
	*TransportError
}

// Error implements the error interface for NotFoundError.
func (e *NotFoundError) Error() string {
	return "not found: " + e.TransportError.Error()
}

func (e *NotFoundError) Unwrap() error { return e.TransportError }

// IsNotFound reports whether err carries a NotFoundError.
func IsNotFound(err error) bool {
	var nf *NotFoundError
	return errors.As(err, &nf)
}

// StatusCode extracts the HTTP status carried by err, or zero.
func StatusCode(err error) int {
	var te *TransportError
	if errors.As(err, &te) {
		return te.StatusCode
	}
	return 0
}

// Detail extracts the backend-provided detail carried by err.
func Detail(err error) string {
	var te *TransportError
	if errors.As(err, &te) {
		return te.Detail
	}
	return ""
}

func newStatusError(method, path string, status int, detail string) error {
	te := &TransportError{
		Method:     method,
		Path:       path,
		StatusCode: status,
		Detail:     detail,
	}
	if status == http.StatusNotFound {
		return &NotFoundError{TransportError: te}
	}
	return te
}

package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// Sentinels matched by errors.Is against any *AppError of the same kind.
var (
	ErrUnauthorized     = errors.New("unauthorized")
	ErrMethodNotAllowed = errors.New("method not allowed")
	ErrUnavailable      = errors.New("upstream unavailable")
	ErrTooLarge         = errors.New("payload too large")
	ErrInternal         = errors.New("internal error")
)

// Kind classifies an error for the HTTP layer.
type Kind uint8

const (
	KindInternal Kind = iota
	KindUnauthorized
	KindMethodNotAllowed
	KindUnavailable
	KindTooLarge
)

var kinds = map[Kind]struct {
	name     string
	status   int
	sentinel error
}{
	KindInternal:         {"internal", http.StatusInternalServerError, ErrInternal},
	KindUnauthorized:     {"unauthorized", http.StatusUnauthorized, ErrUnauthorized},
	KindMethodNotAllowed: {"method_not_allowed", http.StatusMethodNotAllowed, ErrMethodNotAllowed},
	// Upstream failures answer 500 so webhook senders redeliver.
	KindUnavailable: {"unavailable", http.StatusInternalServerError, ErrUnavailable},
	KindTooLarge:    {"too_large", http.StatusRequestEntityTooLarge, ErrTooLarge},
}

func (k Kind) String() string { return kinds[k].name }

// Status returns the HTTP status for k.
func (k Kind) Status() int { return kinds[k].status }

// AppError is an error with a client-safe message.
type AppError struct {
	Kind    Kind
	Message string
	Err     error
}

func newError(kind Kind, message string, err error) *AppError {
	if message == "" {
		message = kinds[kind].sentinel.Error()
	}
	return &AppError{Kind: kind, Message: message, Err: err}
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error { return e.Err }

// Is reports whether target is the sentinel for e's kind.
func (e *AppError) Is(target error) bool {
	return target == kinds[e.Kind].sentinel
}

// StatusCode returns the HTTP status for e.
func (e *AppError) StatusCode() int { return e.Kind.Status() }

// Unauthorized rejects a request that failed authentication.
func Unauthorized(message string, err error) *AppError {
	return newError(KindUnauthorized, message, err)
}

// MethodNotAllowed rejects an unsupported HTTP method.
func MethodNotAllowed() *AppError {
	return newError(KindMethodNotAllowed, "", nil)
}

// Unavailable reports a failing upstream dependency.
func Unavailable(message string, err error) *AppError {
	return newError(KindUnavailable, message, err)
}

// TooLarge rejects a request body over the accepted size.
func TooLarge(err error) *AppError {
	return newError(KindTooLarge, "", err)
}

// Internal reports an unexpected failure. An empty message becomes
// "internal server error".
func Internal(message string, err error) *AppError {
	if message == "" {
		message = "internal server error"
	}
	return newError(KindInternal, message, err)
}

// StatusOf returns the HTTP status for err, 500 when err carries no kind.
func StatusOf(err error) int {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.StatusCode()
	}
	return http.StatusInternalServerError
}

package service

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// Kind classifies service failures. Handlers map kinds to HTTP status;
// services never touch status codes directly.
type Kind string

const (
	KindInvalidName    Kind = "invalid_name"
	KindNameConflict   Kind = "name_conflict"
	KindNotFound       Kind = "not_found"
	KindCycleDetected  Kind = "cycle_detected"
	KindPartialFailure Kind = "partial_failure"
	KindStorageFault   Kind = "storage_fault"
	KindValidation     Kind = "validation_failure"
	KindRateLimited    Kind = "rate_limited"
	KindInternal       Kind = "internal"
)

type Error struct {
	Kind    Kind
	Message string
	Data    interface{}
	Err     error
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

func newError(kind Kind, message string, err error) *Error {
	return &Error{Kind: kind, Message: message, Err: err}
}

func newErrorWithData(kind Kind, message string, data interface{}, err error) *Error {
	return &Error{Kind: kind, Message: message, Data: data, Err: err}
}

// ErrKind extracts the Kind from any error chain.
func ErrKind(err error) Kind {
	var svcErr *Error
	if errors.As(err, &svcErr) {
		return svcErr.Kind
	}
	return KindInternal
}

// IsKind reports whether err carries the given kind.
func IsKind(err error, kind Kind) bool {
	return ErrKind(err) == kind
}

// HTTPStatus maps an error kind to a response status.
func HTTPStatus(err error) int {
	switch ErrKind(err) {
	case KindInvalidName, KindNameConflict, KindCycleDetected, KindPartialFailure, KindValidation:
		return http.StatusBadRequest
	case KindNotFound:
		return http.StatusNotFound
	case KindRateLimited:
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}

// isDuplicateKey detects a unique-constraint violation from the backing
// store. The constraint, not the pre-check, is what closes the race
// between two concurrent writers targeting the same name.
func isDuplicateKey(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "duplicate entry") ||
		strings.Contains(msg, "unique constraint") ||
		strings.Contains(msg, "constraint failed")
}

// Package errors provides unified error handling for the identity vault
package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies an error into one of the vault's failure categories.
type Kind string

const (
	// Store errors
	KindNotFound       Kind = "NOT_FOUND"
	KindTooFewResults  Kind = "TOO_FEW_RESULTS"
	KindDuplicate      Kind = "DUPLICATE"
	KindRecordNotSaved Kind = "RECORD_NOT_SAVED"

	// Cryptographic errors
	KindCouldNotAuthenticate Kind = "COULD_NOT_AUTHENTICATE"
	KindFailedVerification   Kind = "FAILED_VERIFICATION"

	// Environment errors
	KindMisconfiguration Kind = "MISCONFIGURATION"
	KindLibraryError     Kind = "LIBRARY_ERROR"
)

// CommonError is the error type for every classified failure in the core.
// The core never recovers locally; callers choose the UI treatment by kind.
type CommonError struct {
	Kind       Kind
	Message    string
	HTTPStatus int
	Err        error
}

// Error implements the error interface
func (e *CommonError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Kind, e.Message)
}

// Unwrap returns the underlying error
func (e *CommonError) Unwrap() error {
	return e.Err
}

// New creates a new CommonError
func New(kind Kind, message string, httpStatus int) *CommonError {
	return &CommonError{
		Kind:       kind,
		Message:    message,
		HTTPStatus: httpStatus,
	}
}

// Wrap wraps an existing error with a CommonError
func Wrap(kind Kind, message string, httpStatus int, err error) *CommonError {
	return &CommonError{
		Kind:       kind,
		Message:    message,
		HTTPStatus: httpStatus,
		Err:        err,
	}
}

// Store errors

func NotFound(resource string) *CommonError {
	return New(KindNotFound, fmt.Sprintf("%s not found", resource), http.StatusNotFound)
}

func TooFewResults(resource string) *CommonError {
	return New(KindTooFewResults, fmt.Sprintf("fewer %s rows than expected", resource), http.StatusNotFound)
}

func Duplicate(resource string) *CommonError {
	return New(KindDuplicate, fmt.Sprintf("%s already exists", resource), http.StatusConflict)
}

func RecordNotSaved(resource string, err error) *CommonError {
	return Wrap(KindRecordNotSaved, fmt.Sprintf("%s could not be saved", resource), http.StatusInternalServerError, err)
}

// Cryptographic errors

// CouldNotAuthenticate deliberately carries no detail: a wrong password and
// a tampered envelope must be indistinguishable to the caller.
func CouldNotAuthenticate() *CommonError {
	return New(KindCouldNotAuthenticate, "could not authenticate", http.StatusUnauthorized)
}

func FailedVerification(resource string) *CommonError {
	return New(KindFailedVerification, fmt.Sprintf("%s failed verification", resource), http.StatusUnauthorized)
}

// Environment errors

func Misconfiguration(message string) *CommonError {
	return New(KindMisconfiguration, message, http.StatusInternalServerError)
}

func LibraryError(operation string, err error) *CommonError {
	return Wrap(KindLibraryError, fmt.Sprintf("%s failed", operation), http.StatusInternalServerError, err)
}

// Helper functions

// Get extracts a CommonError from an error chain
func Get(err error) *CommonError {
	var commonErr *CommonError
	if errors.As(err, &commonErr) {
		return commonErr
	}
	return nil
}

// IsKind reports whether err is a CommonError of the given kind
func IsKind(err error, kind Kind) bool {
	if commonErr := Get(err); commonErr != nil {
		return commonErr.Kind == kind
	}
	return false
}

// HTTPStatus returns the HTTP status code for an error
func HTTPStatus(err error) int {
	if commonErr := Get(err); commonErr != nil {
		return commonErr.HTTPStatus
	}
	return http.StatusInternalServerError
}

package services

import (
	"errors"
	"fmt"

	"invoice-service/internal/repository"
)

// Error kinds. Handlers classify failures with errors.Is against these.
var (
	ErrUnauthenticated = errors.New("unauthenticated")
	ErrForbidden       = errors.New("forbidden")
	ErrNotFound        = errors.New("not found")
	ErrCrossTenant     = errors.New("cross-tenant access")
	ErrInvalidState    = errors.New("invalid invoice state")
	ErrValidation      = errors.New("validation failed")
	ErrConflict        = errors.New("conflict")
)

// Error is a classified service failure. Kind is one of the sentinels above and
// Err, when set, is the underlying cause.
type Error struct {
	Op      string
	Kind    error
	Err     error
	Details string
}

func (e *Error) Error() string {
	msg := e.Op + ": " + e.Kind.Error()
	if e.Details != "" {
		msg += ": " + e.Details
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *Error) Unwrap() error { return e.Err }

func (e *Error) Is(target error) bool {
	return target == e.Kind
}

// Message is the caller-facing text.
func (e *Error) Message() string {
	if e.Details != "" {
		return e.Details
	}
	return e.Kind.Error()
}

func newError(op string, kind error, format string, args ...any) *Error {
	return &Error{Op: op, Kind: kind, Details: fmt.Sprintf(format, args...)}
}

func validationError(op, format string, args ...any) *Error {
	return newError(op, ErrValidation, format, args...)
}

// translate maps repository errors onto service kinds. Unknown errors pass through wrapped.
func translate(op string, err error) error {
	if err == nil {
		return nil
	}
	var svcErr *Error
	if errors.As(err, &svcErr) {
		return err
	}
	switch {
	case errors.Is(err, repository.ErrNotFound):
		return &Error{Op: op, Kind: ErrNotFound, Err: err}
	case errors.Is(err, repository.ErrOutsideTenant):
		return &Error{Op: op, Kind: ErrCrossTenant, Err: err}
	case errors.Is(err, repository.ErrStaleWrite):
		return &Error{Op: op, Kind: ErrConflict, Err: err, Details: "invoice was modified concurrently"}
	case errors.Is(err, repository.ErrDuplicate):
		return &Error{Op: op, Kind: ErrConflict, Err: err}
	}
	return fmt.Errorf("%s: %w", op, err)
}

// IsPermanent reports whether retrying the same call can never succeed.
func IsPermanent(err error) bool {
	return errors.Is(err, ErrNotFound) ||
		errors.Is(err, ErrCrossTenant) ||
		errors.Is(err, ErrInvalidState) ||
		errors.Is(err, ErrValidation) ||
		errors.Is(err, ErrForbidden)
}

package common

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/jackc/pgx/v5/pgconn"
)

var (
	ErrNotFound       = errors.New("requested resource not found")
	ErrUnauthorized   = errors.New("unauthorized access")
	ErrForbidden      = errors.New("forbidden access")
	ErrBadRequest     = errors.New("bad request")
	ErrConflict       = errors.New("resource conflict") // e.g., duplicate claim
	ErrInternalServer = errors.New("internal server error")
	ErrValidation     = errors.New("validation failed")
	// ErrInvalidTransition is a bad request: the claim exists but cannot move to the requested status.
	ErrInvalidTransition = fmt.Errorf("invalid status transition: %w", ErrBadRequest)
)

const (
	PgUniqueViolation     = "23505"
	PgForeignKeyViolation = "23503"
)

// PgErrorCode returns the SQLSTATE of a wrapped pgconn.PgError, or "".
func PgErrorCode(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code
	}
	return ""
}

// PgConstraintName returns the constraint named by a wrapped pgconn.PgError, or "".
func PgConstraintName(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.ConstraintName
	}
	return ""
}

// HTTPStatusFromError maps domain errors to HTTP status codes.
// Conflicts surface as 400: a duplicate claim or signup is a client mistake.
func HTTPStatusFromError(err error) int {
	if err == nil {
		return http.StatusOK
	}
	if errors.Is(err, ErrInternalServer) {
		return http.StatusInternalServerError
	}
	if errors.Is(err, ErrNotFound) {
		return http.StatusNotFound
	}
	if errors.Is(err, ErrUnauthorized) {
		return http.StatusUnauthorized
	}
	if errors.Is(err, ErrForbidden) {
		return http.StatusForbidden
	}
	if errors.Is(err, ErrBadRequest) || errors.Is(err, ErrValidation) || errors.Is(err, ErrConflict) {
		return http.StatusBadRequest
	}
	if PgErrorCode(err) == PgUniqueViolation {
		return http.StatusBadRequest
	}

	return http.StatusInternalServerError
}

// UserMessage is the human-readable text carried by a domain error.
// Errors built with NewError carry an exact message; anything else falls back to err.Error().
func UserMessage(err error) string {
	var me *messageError
	if errors.As(err, &me) {
		return me.msg
	}
	return err.Error()
}

type messageError struct {
	msg  string
	kind error
}

func (e *messageError) Error() string { return e.msg }
func (e *messageError) Unwrap() error { return e.kind }

// NewError returns an error that matches kind under errors.Is and reports msg to clients.
func NewError(kind error, msg string) error {
	return &messageError{msg: msg, kind: kind}
}

// Package apperr is the single place where request failures become an HTTP
// status and a user-facing message.
package apperr

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"

	"restaurantadmin/internal/ids"
	"restaurantadmin/internal/repository"
	"restaurantadmin/internal/security"
)

const uniqueViolation = "23505"

type Error struct {
	Status  int
	Message string
	cause   error
}

func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.cause)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.cause
}

func New(status int, message string) *Error {
	return &Error{Status: status, Message: message}
}

// Wrap keeps err reachable through errors.Is while presenting message.
func Wrap(status int, message string, err error) *Error {
	return &Error{Status: status, Message: message, cause: err}
}

func BadRequest(message string) *Error { return New(http.StatusBadRequest, message) }

// Unauthorized uses 400; clients treat every authentication failure the same way.
func Unauthorized(message string) *Error { return New(http.StatusBadRequest, message) }

func Forbidden(message string) *Error { return New(http.StatusForbidden, message) }
func NotFound(message string) *Error  { return New(http.StatusNotFound, message) }
func Conflict(message string) *Error  { return New(http.StatusConflict, message) }
func Internal(message string) *Error  { return New(http.StatusInternalServerError, message) }

// Normalize maps any error to an *Error. Unknown errors become a generic 500.
func Normalize(err error) *Error {
	if err == nil {
		return nil
	}

	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		return Wrap(http.StatusConflict, fmt.Sprintf("Duplicate %s entered", duplicateField(pgErr)), err)
	}

	switch {
	case errors.Is(err, ids.ErrInvalid):
		return Wrap(http.StatusBadRequest, "Resource not found. Invalid id", err)
	case errors.Is(err, security.ErrTokenExpired):
		return Wrap(http.StatusBadRequest, "Jwt token expired. Please login again", err)
	case errors.Is(err, security.ErrInvalidToken):
		return Wrap(http.StatusBadRequest, "Invalid Jwt token. Please login again", err)
	case errors.Is(err, repository.ErrNotFound):
		return Wrap(http.StatusNotFound, "Resource not found", err)
	}

	return Wrap(http.StatusInternalServerError, "Internal server Error", err)
}

// duplicateField derives the offending column from constraint names such as
// "users_email_key" or "tables_restaurant_id_number_key".
func duplicateField(pgErr *pgconn.PgError) string {
	name := pgErr.ConstraintName
	if name == "" {
		return "value"
	}
	name = strings.TrimSuffix(name, "_key")
	name = strings.TrimSuffix(name, "_idx")
	if pgErr.TableName != "" {
		name = strings.TrimPrefix(name, pgErr.TableName+"_")
	}
	return name
}

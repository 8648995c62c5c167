package apperr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/require"

	"restaurantadmin/internal/ids"
	"restaurantadmin/internal/repository"
	"restaurantadmin/internal/security"
)

func TestNormalize(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name    string
		err     error
		status  int
		message string
	}{
		{"app error passes through", Conflict("Email Already Exists"), http.StatusConflict, "Email Already Exists"},
		{"wrapped app error", fmt.Errorf("register: %w", BadRequest("bad")), http.StatusBadRequest, "bad"},
		{"malformed id", fmt.Errorf("get: %w", ids.ErrInvalid), http.StatusBadRequest, "Resource not found. Invalid id"},
		{"expired token", security.ErrTokenExpired, http.StatusBadRequest, "Jwt token expired. Please login again"},
		{"invalid token", security.ErrInvalidToken, http.StatusBadRequest, "Invalid Jwt token. Please login again"},
		{"missing row", repository.ErrNotFound, http.StatusNotFound, "Resource not found"},
		{
			"unique violation",
			&pgconn.PgError{Code: "23505", TableName: "users", ConstraintName: "users_email_key"},
			http.StatusConflict,
			"Duplicate email entered",
		},
		{"unknown", errors.New("boom"), http.StatusInternalServerError, "Internal server Error"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := Normalize(tc.err)
			require.Equal(t, tc.status, got.Status)
			require.Equal(t, tc.message, got.Message)
		})
	}

	require.Nil(t, Normalize(nil))
}

func TestWrapKeepsCause(t *testing.T) {
	cause := errors.New("smtp down")
	err := Wrap(http.StatusBadRequest, "smtp down", cause)
	require.ErrorIs(t, err, cause)
}

package common

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHTTPStatusFromError(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want int
	}{
		{"nil", nil, http.StatusOK},
		{"not found", fmt.Errorf("claim: %w", ErrNotFound), http.StatusNotFound},
		{"unauthorized", ErrUnauthorized, http.StatusUnauthorized},
		{"forbidden", ErrForbidden, http.StatusForbidden},
		{"conflict", NewError(ErrConflict, "dup"), http.StatusBadRequest},
		{"invalid transition", fmt.Errorf("update: %w", ErrInvalidTransition), http.StatusBadRequest},
		{"validation", ErrValidation, http.StatusBadRequest},
		{"raw unique violation", &pgconn.PgError{Code: PgUniqueViolation}, http.StatusBadRequest},
		{"unknown", errors.New("connection reset"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, HTTPStatusFromError(tc.err))
		})
	}
}

func TestUserMessage(t *testing.T) {
	err := fmt.Errorf("ClaimService.CreateClaim: %w", NewError(ErrNotFound, "Food post not found"))
	assert.True(t, errors.Is(err, ErrNotFound))
	assert.Equal(t, "Food post not found", UserMessage(err))
	assert.Equal(t, "plain", UserMessage(errors.New("plain")))
}

func TestPgErrorCode(t *testing.T) {
	wrapped := fmt.Errorf("insert: %w", &pgconn.PgError{Code: PgForeignKeyViolation})
	assert.Equal(t, PgForeignKeyViolation, PgErrorCode(wrapped))
	assert.Empty(t, PgErrorCode(errors.New("x")))

	fk := fmt.Errorf("insert: %w", &pgconn.PgError{Code: PgForeignKeyViolation, ConstraintName: "claims_recipient_id_fkey"})
	assert.Equal(t, "claims_recipient_id_fkey", PgConstraintName(fk))
	assert.Empty(t, PgConstraintName(errors.New("x")))
}

func TestHTTPStatusFromError_InternalWins(t *testing.T) {
	err := fmt.Errorf("failed to hash password: %w: %w", ErrInternalServer, &pgconn.PgError{Code: PgUniqueViolation})
	assert.Equal(t, http.StatusInternalServerError, HTTPStatusFromError(err))
	assert.Equal(t, http.StatusBadRequest, HTTPStatusFromError(&pgconn.PgError{Code: PgUniqueViolation}))
}

func TestRespondWithServiceError(t *testing.T) {
	t.Run("client error keeps message", func(t *testing.T) {
		rr := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/api/claims", nil)
		RespondWithServiceError(rr, req, NewError(ErrConflict, "You have already requested this food post"))

		assert.Equal(t, http.StatusBadRequest, rr.Code)
		var body ErrorResponse
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
		assert.Equal(t, "You have already requested this food post", body.Message)
	})

	t.Run("server fault is generic", func(t *testing.T) {
		rr := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/api/claims", nil)
		RespondWithServiceError(rr, req, errors.New("pq: relation claims does not exist"))

		assert.Equal(t, http.StatusInternalServerError, rr.Code)
		assert.Equal(t, "application/json", rr.Header().Get("Content-Type"))
		assert.JSONEq(t, `{"message":"Server error"}`, rr.Body.String())
	})
}

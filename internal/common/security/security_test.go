package security

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"food_share/internal/common"
	"food_share/internal/domain/model"
	"food_share/internal/platform/config"

	"github.com/go-chi/jwtauth/v5"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupJWT(t *testing.T) {
	t.Helper()
	config.AppConfig = &config.Config{JWTKey: []byte("test-secret"), JWTExp: time.Hour}
	InitJWT()
}

// verifiedContext runs jwtauth.Verifier over a request carrying token and returns the resulting context.
func verifiedContext(t *testing.T, token string) context.Context {
	t.Helper()
	var ctx context.Context
	h := jwtauth.Verifier(TokenAuth)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx = r.Context()
	}))
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	h.ServeHTTP(httptest.NewRecorder(), req)
	require.NotNil(t, ctx)
	return ctx
}

func TestPassword(t *testing.T) {
	hash, err := HashPassword("pw1")
	require.NoError(t, err)
	assert.NotEqual(t, "pw1", hash)
	assert.True(t, CheckPasswordHash("pw1", hash))
	assert.False(t, CheckPasswordHash("pw2", hash))
}

func TestAuthenticate(t *testing.T) {
	setupJWT(t)

	t.Run("valid token", func(t *testing.T) {
		token, err := GenerateToken("user-1", model.RoleRecipient)
		require.NoError(t, err)

		p, err := Authenticate(verifiedContext(t, token))
		require.NoError(t, err)
		assert.Equal(t, Principal{UserID: "user-1", Role: model.RoleRecipient}, p)
	})

	t.Run("missing token", func(t *testing.T) {
		_, err := Authenticate(verifiedContext(t, ""))
		assert.True(t, errors.Is(err, common.ErrUnauthorized))
		assert.Equal(t, "Authorization token required", common.UserMessage(err))
	})

	t.Run("garbage token", func(t *testing.T) {
		_, err := Authenticate(verifiedContext(t, "not.a.jwt"))
		assert.True(t, errors.Is(err, common.ErrUnauthorized))
	})

	t.Run("expired token", func(t *testing.T) {
		_, token, err := TokenAuth.Encode(jwt.MapClaims{
			"user_id": "user-1",
			"role":    "Recipient",
			"exp":     time.Now().Add(-time.Minute).Unix(),
		})
		require.NoError(t, err)
		_, err = Authenticate(verifiedContext(t, token))
		assert.True(t, errors.Is(err, common.ErrUnauthorized))
	})

	t.Run("foreign signature", func(t *testing.T) {
		other := jwtauth.New("HS256", []byte("someone-else"), nil)
		_, token, err := other.Encode(jwt.MapClaims{"user_id": "user-1", "role": "Admin"})
		require.NoError(t, err)
		_, err = Authenticate(verifiedContext(t, token))
		assert.True(t, errors.Is(err, common.ErrUnauthorized))
	})

	t.Run("unknown role claim", func(t *testing.T) {
		_, token, err := TokenAuth.Encode(jwt.MapClaims{"user_id": "user-1", "role": "root"})
		require.NoError(t, err)
		_, err = Authenticate(verifiedContext(t, token))
		assert.True(t, errors.Is(err, common.ErrUnauthorized))
	})

	t.Run("no verifier ran", func(t *testing.T) {
		_, err := Authenticate(context.Background())
		assert.True(t, errors.Is(err, common.ErrUnauthorized))
	})
}

func TestAuthorize(t *testing.T) {
	donor := Principal{UserID: "d", Role: model.RoleDonor}

	assert.NoError(t, Authorize(donor, model.RoleDonor))
	assert.NoError(t, Authorize(donor, model.RoleRecipient, model.RoleDonor))

	err := Authorize(donor, model.RoleRecipient)
	assert.True(t, errors.Is(err, common.ErrForbidden))
	assert.Equal(t, "Access denied: requires role Recipient", common.UserMessage(err))

	assert.Error(t, Authorize(donor))
}

func TestPrincipalContext(t *testing.T) {
	_, ok := PrincipalFromContext(context.Background())
	assert.False(t, ok)

	ctx := ContextWithPrincipal(context.Background(), Principal{UserID: "a", Role: model.RoleAdmin})
	p, ok := PrincipalFromContext(ctx)
	assert.True(t, ok)
	assert.Equal(t, model.RoleAdmin, p.Role)
}

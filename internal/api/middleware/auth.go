package middleware

import (
	"net/http"

	"food_share/internal/common"
	"food_share/internal/common/security"
	"food_share/internal/domain/model"
)

// Authenticator rejects the request with 401 unless jwtauth.Verifier left a valid token in the context.
func Authenticator(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		principal, err := security.Authenticate(r.Context())
		if err != nil {
			common.RespondWithServiceError(w, r, err)
			return
		}
		ctx := security.ContextWithPrincipal(r.Context(), principal)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequireRoles answers 403 unless the authenticated caller holds one of roles.
// It must run after Authenticator.
func RequireRoles(roles ...model.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			principal, ok := security.PrincipalFromContext(r.Context())
			if !ok {
				common.RespondWithError(w, http.StatusUnauthorized, "Authorization token required")
				return
			}
			if err := security.Authorize(principal, roles...); err != nil {
				common.RespondWithServiceError(w, r, err)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// AdminOnly is RequireRoles(model.RoleAdmin).
var AdminOnly = RequireRoles(model.RoleAdmin)

// GetPrincipal returns the caller identity stored by Authenticator.
func GetPrincipal(r *http.Request) (security.Principal, bool) {
	return security.PrincipalFromContext(r.Context())
}

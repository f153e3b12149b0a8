package security

import (
	"context"
	"errors"
	"fmt"

	"food_share/internal/common"
	"food_share/internal/domain/model"

	"github.com/go-chi/jwtauth/v5"
)

// Principal is the caller identity decoded from a verified bearer token.
type Principal struct {
	UserID string
	Role   model.Role
}

type principalCtxKey struct{}

func ContextWithPrincipal(ctx context.Context, p Principal) context.Context {
	return context.WithValue(ctx, principalCtxKey{}, p)
}

func PrincipalFromContext(ctx context.Context) (Principal, bool) {
	p, ok := ctx.Value(principalCtxKey{}).(Principal)
	return p, ok
}

// Authenticate reads the token placed in ctx by jwtauth.Verifier.
// A missing, expired, badly signed or malformed token yields ErrUnauthorized.
func Authenticate(ctx context.Context) (Principal, error) {
	token, claims, err := jwtauth.FromContext(ctx)
	if err != nil {
		if errors.Is(err, jwtauth.ErrNoTokenFound) {
			return Principal{}, common.NewError(common.ErrUnauthorized, "Authorization token required")
		}
		return Principal{}, common.NewError(common.ErrUnauthorized, "Invalid token")
	}
	if token == nil {
		return Principal{}, common.NewError(common.ErrUnauthorized, "Authorization token required")
	}

	userID, err := GetUserIDFromClaims(claims)
	if err != nil {
		return Principal{}, common.NewError(common.ErrUnauthorized, "Invalid token claims: "+err.Error())
	}
	role, err := GetUserRoleFromClaims(claims)
	if err != nil {
		return Principal{}, common.NewError(common.ErrUnauthorized, "Invalid token claims: "+err.Error())
	}
	return Principal{UserID: userID, Role: role}, nil
}

// Authorize is the single role predicate used by every protected route.
func Authorize(p Principal, allowed ...model.Role) error {
	for _, r := range allowed {
		if p.Role == r {
			return nil
		}
	}
	return common.NewError(common.ErrForbidden, fmt.Sprintf("Access denied: requires role %s", joinRoles(allowed)))
}

func joinRoles(roles []model.Role) string {
	out := ""
	for i, r := range roles {
		if i > 0 {
			out += " or "
		}
		out += string(r)
	}
	return out
}

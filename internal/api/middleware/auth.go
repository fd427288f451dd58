package middleware

import (
	"context"
	"net/http"

	"github.com/google/uuid"
	"github.com/rohits-web03/devfolio/internal/auth"
)

type contextKey string

const claimsKey contextKey = "claims"

// ErrorResponder writes err in the envelope of a route family.
type ErrorResponder func(w http.ResponseWriter, r *http.Request, err error)

func WithClaims(ctx context.Context, claims *auth.Claims) context.Context {
	return context.WithValue(ctx, claimsKey, claims)
}

func ClaimsFrom(ctx context.Context) (*auth.Claims, bool) {
	claims, ok := ctx.Value(claimsKey).(*auth.Claims)
	return claims, ok && claims != nil
}

// IdentityFrom returns the authenticated profile id.
func IdentityFrom(ctx context.Context) (uuid.UUID, bool) {
	claims, ok := ClaimsFrom(ctx)
	if !ok {
		return uuid.Nil, false
	}
	id, err := claims.Identity()
	if err != nil {
		return uuid.Nil, false
	}
	return id, true
}

// AuthMiddleware verifies the session token from the cookie or bearer header
// and stores its claims in the request context.
func AuthMiddleware(tokens *auth.TokenManager, respond ErrorResponder) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method == http.MethodOptions {
				next.ServeHTTP(w, r)
				return
			}

			claims, err := tokens.Verify(r.Context(), auth.TokenFromRequest(r))
			if err != nil {
				respond(w, r, err)
				return
			}

			next.ServeHTTP(w, r.WithContext(WithClaims(r.Context(), claims)))
		})
	}
}

package middleware

import (
	"context"
	"net/http"

	"github.com/cmlabs-hris/trackwise-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/trackwise-backend-go/internal/handler/http/response"
	"github.com/cmlabs-hris/trackwise-backend-go/internal/pkg/jwt"
	"github.com/go-chi/jwtauth/v5"
)

type contextKey struct{}

var identityKey = contextKey{}

// AuthRequired rejects requests without a verified access token and stores the
// caller identity in the request context. It must run after jwtauth.Verifier.
func AuthRequired(next http.Handler) http.Handler {
	hfn := func(w http.ResponseWriter, r *http.Request) {
		token, claims, err := jwtauth.FromContext(r.Context())
		if err != nil {
			response.Unauthorized(w, err.Error())
			return
		}

		if token == nil {
			response.HandleError(w, jwt.ErrInvalidToken)
			return
		}

		identity, ok := identityFromClaims(claims)
		if !ok {
			response.HandleError(w, jwt.ErrInvalidToken)
			return
		}

		next.ServeHTTP(w, r.WithContext(WithIdentity(r.Context(), identity)))
	}
	return http.HandlerFunc(hfn)
}

func identityFromClaims(claims map[string]interface{}) (employee.Identity, bool) {
	tokenType, ok := claims["type"].(string)
	if !ok || tokenType != jwt.TokenTypeAccess {
		return employee.Identity{}, false
	}

	employeeID, ok := claims["employee_id"].(string)
	if !ok || employeeID == "" {
		return employee.Identity{}, false
	}

	role, ok := claims["role"].(string)
	if !ok || !employee.Role(role).IsValid() {
		return employee.Identity{}, false
	}

	return employee.Identity{EmployeeID: employeeID, Role: employee.Role(role)}, true
}

// WithIdentity returns a copy of ctx carrying the caller identity
func WithIdentity(ctx context.Context, identity employee.Identity) context.Context {
	return context.WithValue(ctx, identityKey, identity)
}

// IdentityFromContext returns the identity stored by AuthRequired
func IdentityFromContext(ctx context.Context) (employee.Identity, bool) {
	identity, ok := ctx.Value(identityKey).(employee.Identity)
	return identity, ok
}

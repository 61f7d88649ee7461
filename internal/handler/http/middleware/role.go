package middleware

import (
	"fmt"
	"net/http"

	"github.com/cmlabs-hris/trackwise-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/trackwise-backend-go/internal/handler/http/response"
)

// RequireRole allows only callers holding one of roles. It must run after AuthRequired.
func RequireRole(roles ...employee.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			identity, ok := IdentityFromContext(r.Context())
			if !ok {
				response.Unauthorized(w, "Unauthorized")
				return
			}

			for _, role := range roles {
				if identity.Role == role {
					next.ServeHTTP(w, r)
					return
				}
			}

			response.Forbidden(w, fmt.Sprintf("Insufficient permissions: role '%s' is not allowed", identity.Role))
		})
	}
}

// RequireAdmin requires admin role
func RequireAdmin(next http.Handler) http.Handler {
	return RequireRole(employee.RoleAdmin)(next)
}

// RequireManager requires manager or admin role
func RequireManager(next http.Handler) http.Handler {
	return RequireRole(employee.RoleManager, employee.RoleAdmin)(next)
}

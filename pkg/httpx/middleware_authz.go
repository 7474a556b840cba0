package httpx

import (
	"net/http"
	"slices"
)

// RequireRole the caller's role claim must be one of the provided roles.
func RequireRole(allowed ...string) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if slices.Contains(allowed, roleFromCtx(r.Context())) {
				next.ServeHTTP(w, r)
				return
			}

			WriteJSON(w, http.StatusForbidden, map[string]string{
				"error":             "forbidden",
				"error_description": "role not permitted for this operation",
			})
		})
	}
}

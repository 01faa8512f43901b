package middleware

import (
	"net/http"

	"github.com/risinglab/rising-backend/pkg/ctxutil"
)

// RequireAdmin rejects requests whose context user does not carry the admin
// role. Compose it after RequireAuth so unauthenticated requests still get 401.
func RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !ctxutil.IsAdminCtx(r.Context()) {
			http.Error(w, "forbidden", http.StatusForbidden)
			return
		}
		next.ServeHTTP(w, r)
	})
}

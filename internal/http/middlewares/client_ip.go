package middlewares

import (
	"net/http"

	"github.com/dropDatabas3/labauth/internal/http/helpers"
)

// WithClientIP resuelve la IP del cliente una vez por request. Los headers
// de proxy solo cuentan si el peer está en trusted.
func WithClientIP(trusted helpers.TrustedProxies) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ip := helpers.ResolveClientIP(r, trusted)
			next.ServeHTTP(w, r.WithContext(helpers.WithClientIP(r.Context(), ip)))
		})
	}
}

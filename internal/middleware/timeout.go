package middleware

import (
	"context"
	"net/http"
	"time"
)

// Timeout bounds request handling by attaching a deadline to the request
// context. The outbound webhook call inherits it, so a stuck upstream can
// never hold a request past the deadline.
func Timeout(timeout time.Duration) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx, cancel := context.WithTimeout(r.Context(), timeout)
			defer cancel()

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

package middleware

import (
	"log/slog"
	"net/http"
	"runtime/debug"
	"time"

	"github.com/setterflo/contact-relay/internal/handlers"
)

// Recovery creates middleware that recovers from panics and returns the
// generic 500 envelope, keeping the response-shape invariants even for
// unanticipated failures.
func Recovery(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rec := recover(); rec != nil {
					logger.Error(
						"panic recovered",
						"panic", rec,
						"method", r.Method,
						"path", r.URL.Path,
						"stack", string(debug.Stack()),
					)

					handlers.WriteError(
						w,
						http.StatusInternalServerError,
						"Internal server error",
						"",
						handlers.Timestamp(time.Now()),
					)
				}
			}()

			next.ServeHTTP(w, r)
		})
	}
}

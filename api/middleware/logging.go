package middleware

import (
	"net/http"
	"time"

	"github.com/flo-app/flo-backend/pkg/logger"
)

// Logging writes one access log line per request once the handler returns.
// Server errors log at warn; the error itself is logged by responses.WriteError.
func Logging(logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if logg == nil {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx, meta := withRequestMeta(r.Context())
			rec := &statusRecorder{ResponseWriter: w}
			start := time.Now()

			next.ServeHTTP(rec, r.WithContext(ctx))

			fields := map[string]any{
				"method":      r.Method,
				"path":        r.URL.Path,
				"route":       matchedRoute(r),
				"status":      rec.Status(),
				"bytes":       rec.BytesWritten(),
				"duration_ms": time.Since(start).Milliseconds(),
				"remote_ip":   clientIP(r),
			}
			if meta.userID != "" {
				fields["user_id"] = meta.userID
			}
			ctx = logg.WithFields(ctx, fields)
			if rec.Status() >= http.StatusInternalServerError {
				logg.Warn(ctx, "request.complete")
				return
			}
			logg.Info(ctx, "request.complete")
		})
	}
}

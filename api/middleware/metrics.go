package middleware

import (
	"net/http"
	"time"

	"github.com/flo-app/flo-backend/pkg/metrics"
	"github.com/go-chi/chi/v5"
)

// Metrics records request count and latency labelled by the matched chi route.
func Metrics(m *metrics.HTTPMetrics) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if m == nil {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			rec := &statusRecorder{ResponseWriter: w}
			start := time.Now()

			next.ServeHTTP(rec, r)

			m.Observe(matchedRoute(r), r.Method, rec.Status(), time.Since(start))
		})
	}
}

// matchedRoute is read after routing so unmatched paths collapse into one label.
func matchedRoute(r *http.Request) string {
	if ctx := chi.RouteContext(r.Context()); ctx != nil {
		if pattern := ctx.RoutePattern(); pattern != "" {
			return pattern
		}
	}
	return ""
}

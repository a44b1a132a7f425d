package middleware

import (
	"net/http"
	"time"

	"rental-booking/internal/metrics"

	"github.com/go-chi/chi/v5"
)

// Metrics records request counts and latency keyed by the chi route pattern,
// so path parameters do not explode label cardinality.
func Metrics(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rw := wrapWriter(w)

		next.ServeHTTP(rw, r)

		route := "unmatched"
		if rctx := chi.RouteContext(r.Context()); rctx != nil {
			if p := rctx.RoutePattern(); p != "" {
				route = p
			}
		}
		metrics.ObserveHTTP(route, r.Method, rw.statusCode, time.Since(start))
	})
}

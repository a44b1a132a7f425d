package middleware

import (
	"net"
	"net/http"
	"sync"

	"rental-booking/pkg/utils"

	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

type ipLimiter struct {
	limiters sync.Map
	rps      rate.Limit
	burst    int
}

func (l *ipLimiter) get(key string) *rate.Limiter {
	if v, ok := l.limiters.Load(key); ok {
		return v.(*rate.Limiter)
	}
	actual, _ := l.limiters.LoadOrStore(key, rate.NewLimiter(l.rps, l.burst))
	return actual.(*rate.Limiter)
}

func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

// RateLimit throttles each client address with a token bucket. A non-positive
// rate disables it.
func RateLimit(cfg utils.RateLimitConfig, logger *zap.Logger) func(http.Handler) http.Handler {
	if cfg.RPS <= 0 {
		return func(next http.Handler) http.Handler { return next }
	}

	burst := cfg.Burst
	if burst <= 0 {
		burst = 5
	}
	l := &ipLimiter{rps: rate.Limit(cfg.RPS), burst: burst}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ip := clientIP(r)
			if !l.get(ip).Allow() {
				logger.Warn("Rate limit exceeded", zap.String("ip", ip), zap.String("path", r.URL.Path))
				utils.ResponseTooManyRequests(w, "Too many requests, slow down")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

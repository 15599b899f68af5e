package middleware

import (
	"net/http"
	"strconv"
	"time"

	"github.com/intakehq/intake/internal/metrics"
	"github.com/intakehq/intake/internal/ratelimit"
)

// rateLimitBody is the exact rejection payload existing clients parse.
const rateLimitBody = `{"error":"Rate limit exceeded. Try again later."}`

// RateLimit admits or rejects requests through the shared limiter, keyed by
// client identity and the route being hit. Rejected requests get 429 with a
// Retry-After hint; admitted requests carry X-RateLimit-Remaining.
func RateLimit(limiter *ratelimit.Limiter, endpoint string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			identity := ratelimit.ClientIdentity(r)
			decision := limiter.Admit(identity, endpoint, time.Now())

			w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(decision.Remaining))

			if !decision.Allowed {
				metrics.RecordRateLimitRejected(endpoint)

				retryAfter := int(decision.RetryAfter / time.Second)
				if decision.RetryAfter%time.Second != 0 {
					retryAfter++
				}
				if retryAfter < 1 {
					retryAfter = 1
				}
				w.Header().Set("Retry-After", strconv.Itoa(retryAfter))
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusTooManyRequests)
				_, _ = w.Write([]byte(rateLimitBody))
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

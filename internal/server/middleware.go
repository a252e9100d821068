package server

import (
	"net/http"

	"github.com/google/uuid"
	"golang.org/x/time/rate"
)

// requestIDHeader carries the per-request correlation id.
const requestIDHeader = "X-Request-ID"

// requestIDMiddleware assigns a request id when the client did not send one
// and echoes it on the response.
func requestIDMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(requestIDHeader)
		if id == "" {
			id = uuid.NewString()
			r.Header.Set(requestIDHeader, id)
		}
		w.Header().Set(requestIDHeader, id)
		next.ServeHTTP(w, r)
	})
}

// rateLimitMiddleware enforces a server-wide token bucket of rps sustained
// requests per second with a burst of the same size. Rejected requests get
// a 429 problem response.
func rateLimitMiddleware(rps float64, next http.Handler) http.Handler {
	limiter := rate.NewLimiter(rate.Limit(rps), int(rps)+1)
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !limiter.Allow() {
			RateLimited(w, "request rate exceeded", r.URL.Path)
			return
		}
		next.ServeHTTP(w, r)
	})
}

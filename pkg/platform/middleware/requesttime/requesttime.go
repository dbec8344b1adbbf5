// Package requesttime pins one server-observed timestamp and one correlation
// id to each request.
//
// Every downstream read of "now" within a request goes through
// requestcontext.Now, so sealing, retention, and audit all observe the same
// instant.
package requesttime

import (
	"net/http"
	"time"

	"github.com/google/uuid"

	"veritas/pkg/requestcontext"
)

// RequestIDHeader carries the correlation id on requests and responses.
const RequestIDHeader = "X-Request-ID"

// Middleware injects the request time and correlation id into the context and
// echoes the correlation id on the response.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := requestcontext.WithTime(r.Context(), time.Now().UTC())

		requestID := r.Header.Get(RequestIDHeader)
		if requestID == "" {
			requestID = uuid.NewString()
		}
		ctx = requestcontext.WithRequestID(ctx, requestID)
		w.Header().Set(RequestIDHeader, requestID)

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

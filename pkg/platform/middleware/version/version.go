// Package version stamps responses with the build marker so clients can tell
// which code version produced which deterministic digest.
package version

import "net/http"

// BuildHeader carries the build/version marker on every response.
const BuildHeader = "X-Build-Version"

// Middleware adds the build marker header to all responses.
func Middleware(build string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set(BuildHeader, build)
			next.ServeHTTP(w, r)
		})
	}
}

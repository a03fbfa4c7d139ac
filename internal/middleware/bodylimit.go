package middleware

import "net/http"

// BodyLimit caps request bodies at n bytes. Decoders past the cap see an error
// and the handlers answer with INVALID_REQUEST.
func BodyLimit(n int64) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Body != nil {
				r.Body = http.MaxBytesReader(w, r.Body, n)
			}
			next.ServeHTTP(w, r)
		})
	}
}

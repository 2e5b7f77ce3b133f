// internal/app/system/limits/limits.go
package limits

import "net/http"

// MaxFormSize bounds every form post. The largest is the create-pool form,
// which carries four short fields and the CSRF token.
const MaxFormSize = 16 << 10 // 16 KB

// Body caps request bodies at n bytes. It must run before anything that
// parses the form, including the CSRF check.
func Body(n int64) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Body != nil {
				r.Body = http.MaxBytesReader(w, r.Body, n)
			}
			next.ServeHTTP(w, r)
		})
	}
}

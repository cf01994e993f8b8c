// Package requestid assigns each request a correlation ID, echoed in the
// X-Request-ID response header and attached to every log line.
package requestid

import (
	"net/http"

	"github.com/google/uuid"

	"nadra/pkg/requestcontext"
)

const headerName = "X-Request-ID"

// Middleware reuses the caller's request ID when present, otherwise
// generates one.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(headerName)
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set(headerName, id)
		ctx := requestcontext.WithRequestID(r.Context(), id)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

package middleware

import (
	"net/http"

	"github.com/google/uuid"

	"sporemap/pkg/requestmeta"
)

const requestIDHeader = "X-Request-ID"

// RequestID assigns a correlation ID to every request and echoes it in the
// response. An inbound X-Request-ID is trusted as-is so callers can correlate
// retries.
func RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(requestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}

		w.Header().Set(requestIDHeader, id)
		ctx := requestmeta.WithRequestID(r.Context(), id)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

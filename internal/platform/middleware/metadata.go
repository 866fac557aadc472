package middleware

import (
	"net/http"
	"strings"

	"sporemap/pkg/requestmeta"
)

// UnknownClientIP is recorded when no origin header is present.
const UnknownClientIP = "unknown"

// ClientMetadata extracts the best-effort client origin and adds it to the
// context for the submission path. Apply early in the chain.
func ClientMetadata(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := requestmeta.WithClientIP(r.Context(), ClientIPFromRequest(r))
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// ClientIPFromRequest resolves the client origin. The edge sets
// CF-Connecting-IP with the verified connecting address, so it wins over the
// spoofable X-Forwarded-For chain; with neither present the origin is unknown.
func ClientIPFromRequest(r *http.Request) string {
	if ip := r.Header.Get("CF-Connecting-IP"); ip != "" {
		return ip
	}

	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		// First hop is the original client when the chain is trustworthy.
		if idx := strings.Index(xff, ","); idx != -1 {
			return strings.TrimSpace(xff[:idx])
		}
		return strings.TrimSpace(xff)
	}

	return UnknownClientIP
}

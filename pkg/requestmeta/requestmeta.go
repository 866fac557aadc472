// Package requestmeta provides HTTP-independent context accessors for
// request-scoped values. Middleware sets the values; services read them
// without importing net/http.
//
// Usage in services:
//
//	ip := requestmeta.ClientIP(ctx)
//	requestID := requestmeta.RequestID(ctx)
//
// Usage in tests:
//
//	ctx = requestmeta.WithClientIP(ctx, "203.0.113.7")
package requestmeta

import "context"

type (
	clientIPKey  struct{}
	requestIDKey struct{}
)

// ClientIP retrieves the best-effort client origin set by the metadata
// middleware. Returns "" if not set.
func ClientIP(ctx context.Context) string {
	if ip, ok := ctx.Value(clientIPKey{}).(string); ok {
		return ip
	}
	return ""
}

// WithClientIP injects a client IP into the context.
func WithClientIP(ctx context.Context, ip string) context.Context {
	return context.WithValue(ctx, clientIPKey{}, ip)
}

// RequestID retrieves the correlation ID assigned by the request ID
// middleware. Returns "" if not set.
func RequestID(ctx context.Context) string {
	if id, ok := ctx.Value(requestIDKey{}).(string); ok {
		return id
	}
	return ""
}

// WithRequestID injects a request ID into the context.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, id)
}

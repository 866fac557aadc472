// Package httpserver constructs the API server. Timeout policy lives at this
// hosting boundary; request handling itself carries no deadlines.
package httpserver

import (
	"net/http"
	"time"
)

// New builds the server. Submissions and queries are small single-statement
// round trips, so the read/write timeouts are tight; idle keep-alive
// connections from map clients are allowed to linger longer.
func New(addr string, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
}

package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"

	platformmw "sporemap/internal/platform/middleware"
)

// NewRouter assembles the public API router: request correlation, client
// metadata, and CORS open to any origin for the map frontend.
func NewRouter(h *Handler) http.Handler {
	r := chi.NewRouter()
	r.Use(platformmw.RequestID)
	r.Use(platformmw.ClientMetadata)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type", "Authorization"},
	}))

	h.Register(r)
	return r
}

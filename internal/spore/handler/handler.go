// Package handler is the thin HTTP layer over the spore service. It owns
// request decoding, query-parameter parsing, and response envelopes; business
// rules stay in the service.
package handler

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"math"
	"net/http"
	"net/url"
	"strconv"

	"github.com/go-chi/chi/v5"

	"sporemap/internal/spore/models"
	domainerrors "sporemap/pkg/domain-errors"
	"sporemap/pkg/httputil"
)

// SporeService is what the handler needs from the domain layer.
type SporeService interface {
	Submit(ctx context.Context, sub *models.SporeSubmission) (*models.SubmitResult, error)
	Query(ctx context.Context, f models.GeoFilters) (*models.QueryResult, error)
}

type Handler struct {
	svc    SporeService
	logger *slog.Logger
}

func New(svc SporeService, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{svc: svc, logger: logger}
}

// Register wires the public spore endpoints. OPTIONS is answered by the CORS
// middleware installed on the router.
func (h *Handler) Register(r chi.Router) {
	r.Post("/spores", h.handleSubmit)
	r.Get("/spores", h.handleQuery)
}

func (h *Handler) handleSubmit(w http.ResponseWriter, r *http.Request) {
	// A JSON `null` body decodes to a nil submission and an empty body
	// decodes to nothing at all; both reach the validator as an absent body.
	// Only bodies that fail to parse are rejected here.
	var sub *models.SporeSubmission
	if err := json.NewDecoder(r.Body).Decode(&sub); err != nil && !errors.Is(err, io.EOF) {
		httputil.WriteError(w, domainerrors.New(domainerrors.CodeInvalidInput, "Invalid request body"))
		return
	}

	res, err := h.svc.Submit(r.Context(), sub)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusCreated, models.SubmitResponse{
		Success: true,
		ID:      res.ID,
		Message: "Spore created successfully",
	})
}

func (h *Handler) handleQuery(w http.ResponseWriter, r *http.Request) {
	filters, err := parseGeoFilters(r.URL.Query())
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	res, err := h.svc.Query(r.Context(), filters)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, res)
}

// parseGeoFilters converts query parameters into typed filters. Malformed
// numeric values are rejected here so NaN or zero comparisons never reach the
// query builder. Empty values are treated as absent. A non-positive limit is
// treated as no limit.
func parseGeoFilters(values url.Values) (models.GeoFilters, error) {
	var f models.GeoFilters

	bounds := []struct {
		name   string
		target **float64
	}{
		{"minLat", &f.MinLat},
		{"maxLat", &f.MaxLat},
		{"minLng", &f.MinLng},
		{"maxLng", &f.MaxLng},
	}
	for _, b := range bounds {
		raw := values.Get(b.name)
		if raw == "" {
			continue
		}
		// ParseFloat accepts "NaN" and "Inf"; a non-finite bound must never
		// reach the query builder.
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
			return models.GeoFilters{}, domainerrors.New(domainerrors.CodeInvalidInput,
				"Invalid "+b.name+": must be a number")
		}
		*b.target = &v
	}

	if raw := values.Get("cursor"); raw != "" {
		v, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return models.GeoFilters{}, domainerrors.New(domainerrors.CodeInvalidInput,
				"Invalid cursor: must be an integer")
		}
		f.Cursor = &v
	}

	if raw := values.Get("limit"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil {
			return models.GeoFilters{}, domainerrors.New(domainerrors.CodeInvalidInput,
				"Invalid limit: must be an integer")
		}
		if v > 0 {
			f.Limit = &v
		}
	}

	return f, nil
}

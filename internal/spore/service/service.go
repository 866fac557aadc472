// Package service orchestrates the spore write and read paths. The write
// path is a linear pipeline with three failure exits (validation, rate limit,
// storage); the read path has one. Nothing here retries: a failed write is
// the caller's to resubmit.
package service

import (
	"context"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	"sporemap/internal/ratelimit"
	"sporemap/internal/spore/metrics"
	"sporemap/internal/spore/models"
	"sporemap/internal/spore/validate"
	"sporemap/pkg/audit"
	domainerrors "sporemap/pkg/domain-errors"
	"sporemap/pkg/requestmeta"
)

// SporeStore is the persistence port. Insert assigns the id; List and Count
// share filter semantics, with cursor/limit applying to List only.
type SporeStore interface {
	Insert(ctx context.Context, sp *models.Spore) (int64, error)
	List(ctx context.Context, f models.GeoFilters) ([]models.Spore, error)
	Count(ctx context.Context, f models.GeoFilters) (int64, error)
}

// RateLimiter is the submission policy port.
type RateLimiter interface {
	Check(ctx context.Context, identity string) (*ratelimit.Result, error)
}

const rateLimitExceededMessage = "Rate limit exceeded. You can only create 5 spores per hour."

type Service struct {
	store   SporeStore
	limiter RateLimiter
	auditor audit.Publisher
	logger  *slog.Logger
	metrics *metrics.Metrics
	tracer  trace.Tracer
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

func WithAuditPublisher(publisher audit.Publisher) Option {
	return func(s *Service) {
		s.auditor = publisher
	}
}

// New constructs the service. Store and limiter are required; rate limiting
// is mandatory, so a missing limiter is a wiring error rather than a bypass.
func New(store SporeStore, limiter RateLimiter, opts ...Option) (*Service, error) {
	if store == nil {
		return nil, domainerrors.New(domainerrors.CodeInternal, "spore store is required")
	}
	if limiter == nil {
		return nil, domainerrors.New(domainerrors.CodeInternal, "rate limiter is required")
	}

	svc := &Service{
		store:   store,
		limiter: limiter,
		logger:  slog.Default(),
		tracer:  otel.Tracer("sporemap/spore"),
	}
	for _, opt := range opts {
		opt(svc)
	}
	return svc, nil
}

// Submit runs the write pipeline: validate, check the rate limit, persist.
// The stored ip_address comes from the request metadata context; absent
// metadata records "unknown".
func (s *Service) Submit(ctx context.Context, sub *models.SporeSubmission) (*models.SubmitResult, error) {
	ctx, span := s.tracer.Start(ctx, "spore.submit")
	defer span.End()

	if verr := validate.Validate(sub); verr != nil {
		s.metrics.IncrementValidationFailures()
		return nil, domainerrors.New(domainerrors.CodeInvalidInput, verr.Message)
	}

	identity := *sub.CookieID
	result, err := s.limiter.Check(ctx, identity)
	if err != nil {
		s.logger.Error("rate limit check failed",
			"error", err,
			"request_id", requestmeta.RequestID(ctx),
		)
		return nil, domainerrors.Wrap(err, domainerrors.CodeInternal, "Internal server error")
	}
	if !result.Allowed {
		s.emit(ctx, audit.Event{
			Action:   audit.ActionRateLimitExceeded,
			Identity: identity,
		})
		return nil, domainerrors.New(domainerrors.CodeRateLimited, rateLimitExceededMessage)
	}

	clientIP := requestmeta.ClientIP(ctx)
	if clientIP == "" {
		clientIP = "unknown"
	}

	sp := &models.Spore{
		Lat:       *sub.Lat,
		Lng:       *sub.Lng,
		Message:   *sub.Message,
		CookieID:  identity,
		IPAddress: clientIP,
	}
	id, err := s.store.Insert(ctx, sp)
	if err != nil {
		// The cause stays in the logs; callers only ever see the generic
		// message.
		s.logger.Error("spore insert failed",
			"error", err,
			"request_id", requestmeta.RequestID(ctx),
		)
		return nil, domainerrors.Wrap(err, domainerrors.CodeInternal, "Failed to create spore")
	}

	s.metrics.IncrementSporesCreated()
	s.emit(ctx, audit.Event{
		Action:   audit.ActionSporeCreated,
		Identity: identity,
		SporeID:  id,
	})

	return &models.SubmitResult{ID: id}, nil
}

// Query executes the data and count queries concurrently and assembles the
// page envelope. Both round trips complete before it returns.
func (s *Service) Query(ctx context.Context, f models.GeoFilters) (*models.QueryResult, error) {
	ctx, span := s.tracer.Start(ctx, "spore.query")
	defer span.End()

	start := time.Now()

	var (
		spores []models.Spore
		total  int64
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		spores, err = s.store.List(gctx, f)
		return err
	})
	g.Go(func() error {
		var err error
		total, err = s.store.Count(gctx, f)
		return err
	})
	if err := g.Wait(); err != nil {
		s.logger.Error("spore query failed",
			"error", err,
			"request_id", requestmeta.RequestID(ctx),
		)
		return nil, domainerrors.Wrap(err, domainerrors.CodeInternal, "Failed to fetch spores")
	}

	s.metrics.ObserveQueryDuration(time.Since(start))

	if spores == nil {
		spores = make([]models.Spore, 0)
	}

	var nextCursor *int64
	if f.Limit != nil && *f.Limit > 0 && len(spores) == *f.Limit {
		last := spores[len(spores)-1].ID
		nextCursor = &last
	}

	return &models.QueryResult{
		Spores: spores,
		Total:  total,
		Pagination: models.Pagination{
			Cursor:     f.Cursor,
			NextCursor: nextCursor,
			Limit:      f.Limit,
			HasMore:    nextCursor != nil,
		},
	}, nil
}

// emit publishes an audit event synchronously, best effort. Audit failures
// never fail the request.
func (s *Service) emit(ctx context.Context, event audit.Event) {
	if s.auditor == nil {
		return
	}
	event.Timestamp = time.Now().UTC()
	event.ClientIP = requestmeta.ClientIP(ctx)
	event.RequestID = requestmeta.RequestID(ctx)
	if err := s.auditor.Emit(ctx, event); err != nil {
		s.logger.Error("audit emit failed", "error", err, "action", string(event.Action))
	}
}

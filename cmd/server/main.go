package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"sporemap/internal/platform/config"
	"sporemap/internal/platform/httpserver"
	"sporemap/internal/platform/logger"
	platformmetrics "sporemap/internal/platform/metrics"
	"sporemap/internal/platform/postgres"
	"sporemap/internal/platform/redis"
	"sporemap/internal/ratelimit"
	ratelimitmetrics "sporemap/internal/ratelimit/metrics"
	"sporemap/internal/ratelimit/store/window"
	"sporemap/internal/spore/handler"
	sporemetrics "sporemap/internal/spore/metrics"
	"sporemap/internal/spore/service"
	"sporemap/internal/spore/store"
	"sporemap/pkg/audit"
)

// main wires dependencies and owns the process lifecycle. Business logic
// lives in the internal packages.
func main() {
	cfg := config.FromEnv()
	log := logger.New()

	db, err := postgres.Open(cfg.DatabaseURL)
	if err != nil {
		log.Error("postgres connection failed", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	sporeStore := store.NewPostgres(db)
	if err := sporeStore.Migrate(context.Background()); err != nil {
		log.Error("migration failed", "error", err)
		os.Exit(1)
	}

	// Rate limiting is mandatory: refuse to start without the window store.
	redisClient, err := redis.New(cfg.Redis)
	if err != nil {
		log.Error("redis connection failed", "error", err)
		os.Exit(1)
	}
	defer redisClient.Close()

	limiter, err := ratelimit.New(
		window.NewRedis(redisClient),
		ratelimit.WithLogger(log),
		ratelimit.WithMetrics(ratelimitmetrics.New()),
	)
	if err != nil {
		log.Error("rate limiter setup failed", "error", err)
		os.Exit(1)
	}

	var auditor audit.Publisher = audit.NewLogPublisher(log)
	if len(cfg.Kafka.Brokers) > 0 {
		kafkaPublisher := audit.NewKafkaPublisher(cfg.Kafka.Brokers, cfg.Kafka.AuditTopic)
		defer kafkaPublisher.Close()
		auditor = kafkaPublisher
	}

	svc, err := service.New(sporeStore, limiter,
		service.WithLogger(log),
		service.WithMetrics(sporemetrics.New()),
		service.WithAuditPublisher(auditor),
	)
	if err != nil {
		log.Error("service setup failed", "error", err)
		os.Exit(1)
	}

	router := chi.NewRouter()
	router.Use(platformmetrics.New().Middleware)
	router.Mount("/", handler.NewRouter(handler.New(svc, log)))
	router.Handle("/metrics", promhttp.Handler())
	router.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := postgres.Health(ctx, db); err != nil {
			http.Error(w, "postgres unavailable", http.StatusServiceUnavailable)
			return
		}
		if err := redisClient.Health(ctx); err != nil {
			http.Error(w, "redis unavailable", http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
	})

	srv := httpserver.New(cfg.Addr, router)

	log.Info("starting sporemap", "addr", cfg.Addr)

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error("graceful shutdown failed", "error", err)
		os.Exit(1)
	}
	log.Info("sporemap stopped")
}

package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"

	"golang.org/x/sync/errgroup"

	"github.com/erazemk/oglasnik/internal/api"
	"github.com/erazemk/oglasnik/internal/config"
	"github.com/erazemk/oglasnik/internal/db"
	"github.com/erazemk/oglasnik/internal/events"
	"github.com/erazemk/oglasnik/internal/listing"
	"github.com/erazemk/oglasnik/internal/metrics"
	"github.com/erazemk/oglasnik/internal/store"
)

// run serves the API, and metrics when enabled, until SIGINT or SIGTERM.
func run(cfg *config.Config) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	database, err := db.Open(cfg.DB.Path)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer database.Close()

	if err := db.Migrate(database); err != nil {
		return fmt.Errorf("migrating database: %w", err)
	}
	slog.Info("database ready", "path", cfg.DB.Path)

	// Load JWT secret from database (auto-generated on first run).
	jwtSecret, err := store.GetJWTSecret(ctx, database)
	if err != nil {
		return fmt.Errorf("loading jwt secret: %w", err)
	}

	publisher, err := newPublisher(cfg.Kafka)
	if err != nil {
		return err
	}
	defer publisher.Close()

	m := metrics.New()
	svc := listing.NewService(store.NewCatalog(database),
		listing.WithPublisher(publisher),
		listing.WithRecorder(m),
	)

	router := api.NewRouter(svc, api.Config{
		JWTSecret:   jwtSecret,
		Revocations: &store.Revocations{DB: database},
		Metrics:     m,
	})

	servers := []*http.Server{{
		Addr:              cfg.HTTP.Addr,
		Handler:           router,
		ReadHeaderTimeout: cfg.HTTP.ReadHeaderTimeout,
		ReadTimeout:       cfg.HTTP.ReadTimeout,
		WriteTimeout:      cfg.HTTP.WriteTimeout,
		IdleTimeout:       cfg.HTTP.IdleTimeout,
	}}
	if cfg.Metrics.Addr != "" {
		mux := http.NewServeMux()
		mux.Handle("GET /metrics", m.Handler())
		servers = append(servers, &http.Server{
			Addr:              cfg.Metrics.Addr,
			Handler:           mux,
			ReadHeaderTimeout: cfg.HTTP.ReadHeaderTimeout,
		})
	}

	g, gctx := errgroup.WithContext(ctx)
	for _, srv := range servers {
		g.Go(func() error {
			slog.Info("server started", "addr", srv.Addr)
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return fmt.Errorf("listening on %s: %w", srv.Addr, err)
			}
			return nil
		})
	}

	// Graceful shutdown on signal, or when any server fails.
	g.Go(func() error {
		<-gctx.Done()
		slog.Info("shutting down")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
		defer cancel()

		var errs []error
		for _, srv := range servers {
			if err := srv.Shutdown(shutdownCtx); err != nil {
				errs = append(errs, fmt.Errorf("shutting down %s: %w", srv.Addr, err))
			}
		}
		return errors.Join(errs...)
	})

	if err := g.Wait(); err != nil {
		return err
	}
	slog.Info("server stopped, closing database")
	return nil
}

func newPublisher(cfg config.Kafka) (events.Publisher, error) {
	if len(cfg.Brokers) == 0 {
		return events.Nop{}, nil
	}

	p, err := events.NewKafkaPublisher(events.KafkaConfig{
		Brokers:      cfg.Brokers,
		Topic:        cfg.Topic,
		WriteTimeout: cfg.WriteTimeout,
	})
	if err != nil {
		return nil, fmt.Errorf("creating kafka publisher: %w", err)
	}
	slog.Info("publishing listing events", "brokers", cfg.Brokers, "topic", cfg.Topic)
	return p, nil
}

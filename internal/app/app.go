// Package app wires the gatewarden runtime: config, logging, database,
// migrations, HTTP routes, and graceful shutdown.
package app

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"gatewarden/internal/api"
	"gatewarden/internal/device"
	"gatewarden/internal/identity"
	"gatewarden/internal/session"
)

// App owns the HTTP server wiring and its backing resources.
type App struct {
	cfg Config
	log Logger

	pool *pgxpool.Pool
	api  *api.Handler

	metricsRegistry *prometheus.Registry
}

// New constructs a fully wired App: it connects to the database, applies
// migrations, performs identity-provider discovery, and builds the service
// graph.
func New(ctx context.Context, cfg Config, log Logger) (*App, error) {
	if log == nil {
		log = NewLogger(cfg.LogLevel)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	sessCfg, err := session.LoadConfigFromEnv()
	if err != nil {
		return nil, err
	}

	if err := RunMigrations(ctx, cfg.DatabaseURL); err != nil {
		return nil, err
	}

	pool, err := NewDBPool(ctx, cfg)
	if err != nil {
		return nil, err
	}

	verifier, err := identity.NewGoogleVerifier(ctx, cfg.GoogleClientID, cfg.VerifierTimeout, log)
	if err != nil {
		pool.Close()
		return nil, err
	}

	admins, err := identity.NewPostgresStore(pool)
	if err != nil {
		pool.Close()
		return nil, err
	}

	tokens, err := session.NewTokenManager(sessCfg)
	if err != nil {
		pool.Close()
		return nil, err
	}

	sessions := session.NewService(verifier, admins, session.NewPostgresStore(pool), tokens, log)
	devices := device.NewService(device.NewPostgresStore(pool), log)

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	apiCfg := api.DefaultConfig()
	apiCfg.TrustProxy = cfg.TrustProxy

	handler := api.NewHandler(log, apiCfg, sessions, devices, api.NewMetrics(registry))

	return &App{
		cfg:             cfg,
		log:             log,
		pool:            pool,
		api:             handler,
		metricsRegistry: registry,
	}, nil
}

// Run starts the HTTP server and blocks until context cancellation or a
// fatal server error.
func (a *App) Run(ctx context.Context) error {
	mux := http.NewServeMux()

	mux.HandleFunc("/health", func(w http.ResponseWriter, _ *http.Request) {
		writeHealth(w, "ok")
	})
	mux.HandleFunc("/ready", func(w http.ResponseWriter, r *http.Request) {
		if err := PingDB(r.Context(), a.pool, 2*time.Second); err != nil {
			a.log.Info("ready.db.not_ready", "err", err)
			http.Error(w, "db not ready", http.StatusServiceUnavailable)
			return
		}
		writeHealth(w, "ready")
	})
	mux.Handle("/metrics", promhttp.HandlerFor(a.metricsRegistry, promhttp.HandlerOpts{}))

	a.api.Register(mux)

	var handler http.Handler = mux
	handler = WithCORS(handler, a.cfg.AllowedOrigins)
	handler = WithSecurityHeaders(handler)
	handler = WithRequestLogging(handler, a.log)

	srv := &http.Server{
		Addr:              a.cfg.HTTPAddr,
		Handler:           handler,
		ReadHeaderTimeout: a.cfg.ReadHeaderTimeout,
		ReadTimeout:       a.cfg.ReadTimeout,
		WriteTimeout:      a.cfg.WriteTimeout,
		IdleTimeout:       a.cfg.IdleTimeout,
		MaxHeaderBytes:    a.cfg.MaxHeaderBytes,
	}

	a.log.Info("server.start", "addr", a.cfg.HTTPAddr)

	errCh := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		a.log.Info("server.stop", "reason", "context_done")
	case err := <-errCh:
		a.log.Error("server.fail", "err", err)
		a.close()
		return err
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		a.log.Error("server.shutdown.fail", "err", err)
	}

	a.close()
	return nil
}

func (a *App) close() {
	if a.pool != nil {
		a.pool.Close()
	}
}

func writeHealth(w http.ResponseWriter, msg string) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(msg + "\n"))
}

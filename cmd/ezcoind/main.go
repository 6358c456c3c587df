// Command ezcoind serves the EzCoin wallet, planner and assistant over HTTP.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/xraph/ezcoin"
	"github.com/xraph/ezcoin/api"
	audithook "github.com/xraph/ezcoin/audit_hook"
	"github.com/xraph/ezcoin/extension"
	"github.com/xraph/ezcoin/kv/sqlitekv"
	"github.com/xraph/ezcoin/observability"
	"github.com/xraph/ezcoin/store"
	"github.com/xraph/ezcoin/store/kvstore"
	"github.com/xraph/ezcoin/store/memory"
)

func main() {
	if err := run(); err != nil {
		slog.Error("ezcoind exited", "error", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := LoadConfig()
	if err != nil {
		return err
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.slogLevel()}))
	slog.SetDefault(logger)

	s, err := openStore(cfg)
	if err != nil {
		return err
	}

	opts := []ezcoin.Option{
		ezcoin.WithLogger(logger),
		ezcoin.WithPlugin(audithook.New(auditLog(logger), audithook.WithLogger(logger))),
	}

	var metrics http.Handler
	if cfg.Metrics {
		reg := prometheus.NewRegistry()
		reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
		opts = append(opts, ezcoin.WithPlugin(observability.NewMetricsExtension(observability.NewPrometheusFactory(reg))))
		metrics = promhttp.HandlerFor(reg, promhttp.HandlerOpts{})
	}

	engineCfg := extension.MergeWithDefaults(cfg.Engine())
	l := ezcoin.New(s, extension.EngineOptions(engineCfg, opts...)...)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := l.Start(ctx); err != nil {
		return fmt.Errorf("start engine: %w", err)
	}
	defer func() {
		if err := l.Stop(); err != nil {
			logger.Error("engine stop failed", "error", err)
		}
	}()

	var verifier *api.Verifier
	if !cfg.DisableAuth {
		verifier, err = api.NewVerifier(cfg.JWTSecret, cfg.JWTIssuer)
		if err != nil {
			return err
		}
	}

	gin.SetMode(gin.ReleaseMode)
	router := api.NewRouter(l, api.Config{
		AllowOrigins: cfg.AllowOrigins,
		Auth:         api.MiddlewareConfig{DisableAuth: cfg.DisableAuth, Logger: logger},
		Verifier:     verifier,
		Logger:       logger,
		Metrics:      metrics,
	})

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		logger.Info("ezcoind listening",
			"addr", cfg.Addr,
			"store", cfg.Store,
			"auth", !cfg.DisableAuth,
			"stripe", cfg.StripeSecretKey != "",
		)
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("serve: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("shutting down", "timeout", cfg.ShutdownTimeout)
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func openStore(cfg Config) (store.Store, error) {
	if cfg.Store == "memory" {
		return memory.New(), nil
	}
	backend, err := sqlitekv.Open(cfg.DataPath)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", cfg.DataPath, err)
	}
	return kvstore.New(backend), nil
}

// auditLog writes audit events to the structured log.
func auditLog(logger *slog.Logger) audithook.RecorderFunc {
	return func(ctx context.Context, e *audithook.AuditEvent) error {
		level := slog.LevelInfo
		if e.Outcome == audithook.OutcomeFailure {
			level = slog.LevelWarn
		}
		logger.Log(ctx, level, "audit",
			"action", e.Action,
			"resource", e.Resource,
			"resource_id", e.ResourceID,
			"outcome", e.Outcome,
			"metadata", e.Metadata,
		)
		return nil
	}
}

package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"time"

	"salespulse/internal/config"
	"salespulse/internal/engine"
	"salespulse/internal/llm"
	"salespulse/internal/middleware"
	"salespulse/internal/observability"
	"salespulse/internal/server"
	"salespulse/internal/store"
)

const startupTimeout = 30 * time.Second

// newRecordStore picks the backing store: Postgres when DATABASE_URL is
// configured, otherwise an in-memory store loaded from the CSV export. The
// returned cleanup releases any held connections.
func newRecordStore(ctx context.Context, cfg *config.Config, logger *slog.Logger) (engine.RecordSource, func(context.Context) error, error) {
	if cfg.Database.URL != "" {
		pg, err := store.NewPostgres(ctx, cfg.Database.URL)
		if err != nil {
			return nil, nil, err
		}
		logger.Info("using postgres record store")
		return pg, func(context.Context) error { return pg.Close() }, nil
	}

	mem := store.NewMemory(logger)
	if err := mem.LoadCSV(ctx, cfg.Database.CSVFile); err != nil {
		return nil, nil, err
	}
	logger.Info("using in-memory record store", "csv_file", cfg.Database.CSVFile)
	return mem, func(context.Context) error { return nil }, nil
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg.Logger)
	slog.SetDefault(logger)

	logger.Info("starting application",
		"version", "1.0.0",
		"addr", cfg.Address(),
	)

	ctx, cancel := context.WithTimeout(context.Background(), startupTimeout)
	defer cancel()

	recordStore, closeStore, err := newRecordStore(ctx, cfg, logger)
	if err != nil {
		logger.Error("failed to initialize record store", "error", err)
		os.Exit(1)
	}

	responder := llm.NewGroq(llm.Config{
		APIKey:   cfg.LLM.APIKey,
		Model:    cfg.LLM.Model,
		Endpoint: cfg.LLM.Endpoint,
		Timeout:  cfg.LLM.Timeout,
	})

	eng := engine.New(recordStore, responder, logger)
	srv := server.NewServer(eng, logger)

	rateLimiter := middleware.NewRateLimiter(cfg.Security)

	middlewareChain := middleware.Chain(
		middleware.Recovery(logger),
		middleware.RequestID(),
		middleware.Logger(logger),
		middleware.Tracing(),
		middleware.SecurityHeaders(),
		middleware.CORS(cfg.Security),
		middleware.TrustedProxy(cfg.Security),
		middleware.RateLimit(rateLimiter, logger),
	)

	httpServer := &http.Server{
		Addr:         cfg.Address(),
		Handler:      middlewareChain(srv),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	gracefulServer := server.NewGracefulServer(httpServer, logger, cfg)
	gracefulServer.RegisterShutdownHook(func(ctx context.Context) error {
		logger.Info("closing record store")
		return closeStore(ctx)
	})

	if err := gracefulServer.ListenAndServe(); err != nil {
		logger.Error("server failed", "error", err)
		os.Exit(1)
	}

	logger.Info("application stopped gracefully")
}

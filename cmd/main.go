package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/fancred/fancred/internal/adapters/http/api"
	"github.com/fancred/fancred/internal/adapters/ledger"
	"github.com/fancred/fancred/internal/adapters/repository"
	"github.com/fancred/fancred/internal/app"
	"github.com/fancred/fancred/internal/config"
	"github.com/fancred/fancred/pkg/logger"
)

// HTTP server timeout constants.
const (
	readTimeout       = 10 * time.Second
	writeTimeout      = 10 * time.Second
	idleTimeout       = 60 * time.Second
	readHeaderTimeout = 5 * time.Second
	shutdownTimeout   = 30 * time.Second
)

func main() {
	// Local development convenience; the file is optional.
	_ = godotenv.Load()

	if err := logger.Init(); err != nil {
		os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		return
	}
	defer func() {
		if err := logger.Sync(); err != nil {
			os.Stderr.WriteString("failed to flush logs: " + err.Error() + "\n")
		}
	}()
	log := logger.Get()

	// Root context with cancel on SIGINT/SIGTERM.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Load configuration (defaults -> optional file -> env).
	cfg, err := config.Load(ctx)
	if err != nil {
		os.Stderr.WriteString("failed to load config: " + err.Error() + "\n")
		return
	}

	// Apply configured log level (fallback to info on invalid input).
	if err := logger.SetLevelString(cfg.LogLevel); err != nil {
		log.Warn(ctx, "invalid log_level; falling back to info",
			logger.String("log_level", cfg.LogLevel), logger.Error(err))
		_ = logger.SetLevelString("info")
	}

	store, err := newStore(cfg)
	if err != nil {
		log.Error(ctx, "failed to open activity store", logger.Error(err))
		return
	}

	reader := ledger.NewSimReader(
		ledger.WithLatencyRange(
			time.Duration(cfg.LedgerLatencyMinMS)*time.Millisecond,
			time.Duration(cfg.LedgerLatencyMaxMS)*time.Millisecond,
		),
		ledger.WithFailingAccounts(cfg.LedgerFailAccounts...),
	)

	opts := []app.Option{
		app.WithStore(store),
		app.WithLedger(reader),
		app.WithReadTimeout(time.Duration(cfg.ReadTimeoutMS) * time.Millisecond),
		app.WithLogger(log),
	}
	if len(cfg.LeaderboardAccounts) > 0 {
		opts = append(opts, app.WithRoster(cfg.LeaderboardAccounts))
	}
	svc := app.New(opts...)
	if err := svc.Start(ctx); err != nil {
		log.Error(ctx, "failed to start service", logger.Error(err))
		return
	}
	defer svc.Stop()

	mux := http.NewServeMux()
	api.NewServer(svc, svc).Register(ctx, mux)

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           mux,
		ReadTimeout:       readTimeout,
		WriteTimeout:      writeTimeout,
		IdleTimeout:       idleTimeout,
		ReadHeaderTimeout: readHeaderTimeout,
	}

	go func() {
		log.Info(ctx, "starting HTTP server", logger.String("addr", cfg.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error(ctx, "HTTP server failed", logger.Error(err))
			stop()
		}
	}()

	<-ctx.Done()
	log.Info(ctx, "shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error(ctx, "server shutdown failed", logger.Error(err))
	}
	log.Info(ctx, "server stopped")
}

// newStore builds the configured activity store backend.
func newStore(cfg *config.Config) (repository.Store, error) {
	if cfg.StoreBackend == config.StoreSQLite {
		return repository.NewSQLiteStore(cfg.SQLitePath)
	}
	return repository.NewMemoryStore(), nil
}

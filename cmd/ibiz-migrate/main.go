package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/parkermills/iBizToMySQL/internal/config"
	"github.com/parkermills/iBizToMySQL/internal/logging"
	"github.com/parkermills/iBizToMySQL/internal/migrate"
	"github.com/parkermills/iBizToMySQL/internal/store"
	"github.com/parkermills/iBizToMySQL/internal/web"
)

func main() {
	// Load .env file if it exists (Overload overwrites existing env vars)
	if err := godotenv.Overload(); err != nil {
		slog.Info("no .env file found, using environment variables")
	}

	// Load and validate configuration
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	// Setup structured logging based on config
	logging.Setup(cfg.Logging.Level, cfg.Logging.Format)

	slog.Info("configuration loaded",
		"database", cfg.Store.Database,
		"ibiz_dir", cfg.Source.IBizDir,
		"address_book", cfg.Source.AddressBook,
		"batch_max_bytes", cfg.Batch.MaxBytes,
	)

	// Cancel the run on SIGINT/SIGTERM
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Connect to MySQL and provision the target schema
	connectCtx, cancel := context.WithTimeout(ctx, cfg.Store.ConnectTimeout)
	gateway, err := store.Open(connectCtx, cfg.Store.DSN, cfg.Store.Database, slog.Default())
	cancel()
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer gateway.Close()

	if err := gateway.EnsureSchema(ctx); err != nil {
		slog.Error("failed to provision schema", "error", err)
		os.Exit(1)
	}

	pipeline := migrate.New(gateway, migrate.Options{
		IBizDir:     cfg.Source.IBizDir,
		AddressBook: cfg.Source.AddressBook,
		BatchLimit:  cfg.Batch.MaxBytes,
	}, slog.Default())

	if cfg.Server.Serve {
		serve(ctx, cfg, pipeline)
		return
	}

	// One-shot run
	report, err := pipeline.Run(ctx)
	if err != nil {
		slog.Error("migration interrupted", "error", err)
		os.Exit(1)
	}

	slog.Info("migration finished",
		"run_id", report.RunID,
		"duration", report.FinishedAt.Sub(report.StartedAt),
		"summary", report.Summary(),
	)
	if report.Failed() {
		os.Exit(1)
	}
}

// serve runs the HTTP status server until the context is cancelled.
func serve(ctx context.Context, cfg *config.Config, pipeline *migrate.Pipeline) {
	server := web.NewServer(pipeline, cfg.Server.Addr())

	go func() {
		<-ctx.Done()
		slog.Info("shutting down...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			slog.Error("shutdown error", "error", err)
		}
	}()

	slog.Info("server starting", "addr", cfg.Server.Addr())
	if err := server.Start(); err != nil {
		slog.Error("server stopped", "error", err)
		os.Exit(1)
	}
}

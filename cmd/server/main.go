// cmd/server/main.go
// This is the entry point for the Pickleball Directory API server.
// The "cmd/server" directory follows a common Go convention: the cmd/ folder holds executable
// binaries, and internal/ holds packages that are not meant to be imported by other projects.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/trentd187/pickleball-directory/internal/catalog"
	"github.com/trentd187/pickleball-directory/internal/config"
	"github.com/trentd187/pickleball-directory/internal/database"
	"github.com/trentd187/pickleball-directory/internal/images"
	"github.com/trentd187/pickleball-directory/internal/logging"
	"github.com/trentd187/pickleball-directory/internal/repository"
	"github.com/trentd187/pickleball-directory/internal/server"
)

// shutdownTimeout bounds how long in-flight requests get to finish on SIGINT/SIGTERM.
const shutdownTimeout = 10 * time.Second

func main() {
	// Load configuration from environment variables (and optionally a .env file).
	cfg := config.Load()
	logger := logging.New(cfg.LogLevel, cfg.IsProduction())

	// The product and group catalogs are compiled into the binary; a parse error is a build bug.
	cat, err := catalog.Load()
	if err != nil {
		logger.Fatal("Failed to load catalog", "error", err)
	}

	// The court repository starts detached. Court endpoints answer 503 until the
	// background connector below attaches a database handle.
	courts := repository.NewCourtRepository(nil, cfg.StorageTimeout, logger)

	// ctx is cancelled on Ctrl-C or SIGTERM (what Docker/ECS send on stop).
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Connect to PostgreSQL and run migrations in a goroutine so a slow or missing
	// database doesn't keep the catalog endpoints from starting.
	go database.KeepConnecting(ctx, cfg.DatabaseURL, cfg.MigrationsDir, cfg.StorageTimeout, cfg.ConnectRetry,
		logger.WithPrefix("database"), courts.Attach)

	app := server.New(server.Options{
		Courts:     courts,
		Catalog:    cat,
		Encoder:    images.NewEncoder(cfg.MaxImageBytes),
		Logger:     logger,
		StaticDir:  cfg.StaticDir,
		AccessLogs: true,
	})

	// Listen in a goroutine so main can wait for the shutdown signal.
	go func() {
		logger.Info("Starting server", "port", cfg.Port, "env", cfg.Env)
		if err := app.Listen(":" + cfg.Port); err != nil {
			logger.Error("Server stopped", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("Shutting down")
	if err := app.ShutdownWithTimeout(shutdownTimeout); err != nil {
		logger.Error("Graceful shutdown failed", "error", err)
	}
}

// internal/cli/serve.go
package cli

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
	"github.com/spf13/cobra"

	"game-catalog-backend/internal/auth"
	"game-catalog-backend/internal/config"
	"game-catalog-backend/internal/database"
	"game-catalog-backend/internal/logger"
	"game-catalog-backend/internal/middleware"
	"game-catalog-backend/internal/server"
	"game-catalog-backend/internal/workers"
)

const shutdownTimeout = 10 * time.Second

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return runServe(ctx)
		},
	}
}

func setupLogger(cfg *config.Config) *slog.Logger {
	return logger.Setup(logger.Options{
		Level:      cfg.LogLevel,
		Format:     cfg.LogFormat,
		File:       cfg.LogFile,
		MaxSizeMB:  cfg.LogMaxSizeMB,
		MaxBackups: cfg.LogMaxBackups,
		MaxAgeDays: cfg.LogMaxAgeDays,
	})
}

func runServe(ctx context.Context) error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return err
	}
	log := setupLogger(cfg)
	gin.SetMode(cfg.GinMode)

	dialect, err := database.ParseDialect(cfg.DatabaseDriver)
	if err != nil {
		return err
	}
	db, err := database.Connect(ctx, dialect, cfg.DatabaseURL, database.ConnectOptions{})
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()

	applied, err := database.Migrate(ctx, db)
	if err != nil {
		return err
	}
	log.Info("migrations applied", "count", len(applied), "files", applied)

	limiter := middleware.NewIPRateLimiter(cfg.LoginRateLimit, cfg.LoginBurst)
	tasks := []workers.CleanupTask{{Name: "login_limiters", Run: limiter.Prune}}

	var revoked auth.RevocationStore
	if cfg.UseRedis() {
		rc, err := auth.NewRedisClient(ctx, cfg.RedisURL)
		if err != nil {
			return err
		}
		defer rc.Close()
		revoked = auth.NewRedisRevocationStore(rc, "game-catalog:revoked:")
		log.Info("token revocation backed by redis")
	} else {
		mem := auth.NewMemoryRevocationStore()
		revoked = mem
		tasks = append(tasks, workers.CleanupTask{Name: "revoked_tokens", Run: mem.Sweep})
	}

	worker := workers.NewCleanupWorker(cfg.RevocationSweepInterval, tasks...)
	if err := worker.Start(); err != nil {
		return err
	}
	defer worker.Stop()

	router, err := server.NewRouter(server.Deps{
		DB:           db,
		Tokens:       auth.NewTokenManager(cfg.JWTKey, cfg.TokenTTL, revoked),
		Logger:       log,
		CORSOrigin:   cfg.CORSOrigin,
		LoginLimiter: limiter,
		Metrics:      middleware.NewMetrics(),

		TrustedProxies: cfg.TrustedProxies,
	})
	if err != nil {
		return err
	}

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("server starting", "addr", srv.Addr, "driver", dialect)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("server failed: %w", err)
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

// cmd/server/main.go
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/joho/godotenv/autoload"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/jason-s-yu/lastcard/internal/auth"
	"github.com/jason-s-yu/lastcard/internal/cache"
	"github.com/jason-s-yu/lastcard/internal/config"
	"github.com/jason-s-yu/lastcard/internal/database"
	"github.com/jason-s-yu/lastcard/internal/handlers"
)

func main() {
	logger := logrus.New()
	logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	cfg := config.Load()
	logger.SetLevel(cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logger); err != nil {
		logger.Fatalf("server exited: %v", err)
	}
	logger.Info("server stopped")
}

func run(ctx context.Context, cfg *config.Config, logger *logrus.Logger) error {
	signer, err := newSigner(cfg)
	if err != nil {
		return err
	}

	gs := handlers.NewGameServer(logger, signer, cfg.Rules)

	if cfg.RedisAddr != "" {
		client, err := cache.Connect(ctx, cfg.RedisAddr, cfg.RedisDB)
		if err != nil {
			return err
		}
		defer client.Close()
		gs.Publisher = cache.NewPublisher(client, cfg.HistorianQueue)
	} else {
		logger.Warn("REDIS_ADDR not set; game actions will not be published")
	}

	if cfg.DatabaseURL != "" {
		pool, err := database.Connect(ctx, cfg.DatabaseURL)
		if err != nil {
			return err
		}
		defer pool.Close()
		if err := database.Migrate(ctx, pool); err != nil {
			return err
		}
		gs.Results = database.NewGameStore(pool)
	} else {
		logger.Warn("no database configured; game results will not be stored")
	}

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      handlers.NewRouter(gs, cfg.AllowedOrigins),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Infof("listening on %s", server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("failed to serve: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		return gs.RunCleanup(gctx, cfg.RoomCleanupInterval, cfg.RoomIdleTTL)
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("terminating")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})
	return g.Wait()
}

func newSigner(cfg *config.Config) (*auth.Signer, error) {
	if cfg.PrivateKeyPath != "" && cfg.PublicKeyPath != "" {
		return auth.NewSignerFromPath(cfg.PrivateKeyPath, cfg.PublicKeyPath, cfg.TokenExpire)
	}
	return auth.NewSigner(cfg.TokenExpire)
}

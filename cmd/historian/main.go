// cmd/historian/main.go
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	_ "github.com/joho/godotenv/autoload"
	"github.com/sirupsen/logrus"

	"github.com/jason-s-yu/lastcard/internal/cache"
	"github.com/jason-s-yu/lastcard/internal/config"
	"github.com/jason-s-yu/lastcard/internal/database"
	"github.com/jason-s-yu/lastcard/internal/historian"
)

func main() {
	logger := logrus.New()
	logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	cfg := config.Load()
	logger.SetLevel(cfg.LogLevel)

	if cfg.RedisAddr == "" || cfg.DatabaseURL == "" {
		logger.Fatal("historian requires REDIS_ADDR and a database configuration")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	client, err := cache.Connect(ctx, cfg.RedisAddr, cfg.RedisDB)
	if err != nil {
		logger.Fatalf("redis: %v", err)
	}
	defer client.Close()

	pool, err := database.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		logger.Fatalf("postgres: %v", err)
	}
	defer pool.Close()
	if err := database.Migrate(ctx, pool); err != nil {
		logger.Fatalf("migrate: %v", err)
	}

	hcfg := historian.DefaultConfig()
	hcfg.BatchSize = cfg.HistorianBatchSize
	hcfg.FlushDelay = cfg.HistorianFlush

	svc := historian.New(
		cache.NewConsumer(client, cfg.HistorianQueue),
		database.NewGameStore(pool),
		hcfg,
		logger.WithField("component", "historian"),
	)
	if err := svc.Run(ctx); err != nil {
		logger.Errorf("historian stopped: %v", err)
		os.Exit(1)
	}
}

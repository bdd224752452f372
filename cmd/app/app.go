package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/gamevault/gamevault-api/internal/api"
	"github.com/gamevault/gamevault-api/internal/cache"
	"github.com/gamevault/gamevault-api/internal/config"
	"github.com/gamevault/gamevault-api/internal/db"
	"github.com/gamevault/gamevault-api/internal/logger"
	"github.com/gamevault/gamevault-api/internal/repository/dao"
)

const configPath = "./cmd/app/config.yml"

func Start() error {
	conf, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("failed to initialize config -> %w", err)
	}

	if err = logger.Init(conf.API.Environment); err != nil {
		return fmt.Errorf("failed to initialize logger -> %w", err)
	}

	dbURL := os.Getenv("DATABASE_URL")
	var postgresDB *gorm.DB
	if dbURL != "" {
		postgresDB, err = db.OpenPostgresWithURL(dbURL)
	} else {
		postgresDB, err = db.OpenPostgres(conf.Postgres)
	}
	if err != nil {
		return fmt.Errorf("failed to initialize database -> %w", err)
	}

	if err = dao.InitTables(postgresDB); err != nil {
		return fmt.Errorf("failed to migrate database -> %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	leaderboard, err := newLeaderboard(ctx, conf)
	if err != nil {
		return fmt.Errorf("failed to initialize leaderboard cache -> %w", err)
	}

	err = config.Watch(configPath, func(next *config.AppConfig, err error) {
		if err != nil {
			zap.L().Warn("ignoring invalid config change", zap.Error(err))
			return
		}
		leaderboard.SetTTL(next.Rerelease.CacheTTL)
		zap.L().Info("leaderboard cache ttl reloaded", zap.Duration("ttl", next.Rerelease.CacheTTL))
	})
	if err != nil {
		zap.L().Warn("config hot reload disabled", zap.Error(err))
	}

	s, err := api.NewServer(conf, postgresDB, leaderboard)
	if err != nil {
		return fmt.Errorf("failed to initialize server -> %w", err)
	}
	go s.Live.Run(ctx)

	srv := &http.Server{
		Addr:              ":" + s.Config.API.Port,
		Handler:           s.Router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		zap.L().Info(fmt.Sprintf("starting server at %v", srv.Addr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err = <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("failed to start the server -> %w", err)
		}
	case <-ctx.Done():
		zap.L().Info("shutting down")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err = srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("failed to shut down the server -> %w", err)
		}
	}

	return nil
}

func newLeaderboard(ctx context.Context, conf *config.AppConfig) (cache.Leaderboard, error) {
	if !conf.Redis.Enabled {
		return cache.NewLRU(conf.Rerelease.CacheSize, conf.Rerelease.CacheTTL)
	}

	client := cache.NewRedisClient(conf.Redis)
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("client.Ping -> %w", err)
	}
	zap.L().Info("using redis leaderboard cache", zap.String("addr", conf.Redis.Addr))

	return cache.NewRedis(client, conf.Rerelease.CacheTTL), nil
}

package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"
	redis "github.com/redis/go-redis/v9"

	"github.com/yourusername/login-lab/internal/config"
	"github.com/yourusername/login-lab/internal/metrics"
	"github.com/yourusername/login-lab/internal/session"
)

// openSessionStore は設定に応じてサーバー側セッションの保存先を用意します。
func openSessionStore(ctx context.Context, cfg *config.Config, logger *slog.Logger) (session.Store, error) {
	switch cfg.SessionBackend {
	case config.SessionBackendRedis:
		opt, err := redis.ParseURL(cfg.SessionRedisURL)
		if err != nil {
			return nil, fmt.Errorf("failed to parse redis url: %w", err)
		}
		redisClient := redis.NewClient(opt)
		if err := redisClient.Ping(ctx).Err(); err != nil {
			redisClient.Close()
			return nil, fmt.Errorf("failed to connect redis: %w", err)
		}
		logger.Info("using redis session store", "addr", opt.Addr, "db", opt.DB)
		return session.NewRedisStore(redisClient, cfg.SessionTTL()), nil
	default:
		store := session.NewMemoryStore(cfg.SessionTTL())
		if cfg.MetricsEnabled {
			if err := metrics.RegisterActiveSessions(prometheus.DefaultRegisterer, store.Len); err != nil {
				logger.Warn("failed to register session gauge", "error", err)
			}
		}
		return store, nil
	}
}

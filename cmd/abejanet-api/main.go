package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/abejanet/abejanet/internal/api"
	"github.com/abejanet/abejanet/internal/api/handler"
	"github.com/abejanet/abejanet/internal/core/service"
	"github.com/abejanet/abejanet/internal/infrastructure/config"
	"github.com/abejanet/abejanet/internal/infrastructure/db/postgres"
	redisdb "github.com/abejanet/abejanet/internal/infrastructure/db/redis"
	"github.com/abejanet/abejanet/pkg/logger"
)

const tokenTTL = time.Hour

func main() {
	cfg := config.Load()

	log := logger.Init(logger.Options{
		Level:  cfg.LogLevel,
		Pretty: cfg.Env == "development",
	})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Refuse to boot without a signing secret rather than fall back to a
	// guessable default.
	tokens, err := service.NewTokenService(cfg.JWTSecret, tokenTTL)
	if err != nil {
		log.Error().Err(err).Msg("JWT_SECRET must be set")
		os.Exit(1)
	}

	pool, err := postgres.Connect(ctx, cfg.Postgres.DSN, 0)
	if err != nil {
		log.Error().Err(err).Msg("failed to connect to postgres")
		os.Exit(1)
	}
	defer pool.Close()

	// The login throttle is optional: no Redis configured means no throttle.
	var throttle handler.LoginThrottle
	if cfg.Redis.Addr != "" {
		rdb, err := redisdb.Connect(ctx, redisdb.Options{Addr: cfg.Redis.Addr, DB: cfg.Redis.DB})
		if err != nil {
			log.Warn().Err(err).Msg("redis unavailable, login throttle disabled")
		} else {
			defer rdb.Close()
			throttle = redisdb.NewLoginThrottle(rdb, log)
		}
	}

	authService := service.NewAuthService(postgres.NewUserRepository(pool), tokens)
	e := api.NewRouter(pool, authService, tokens, throttle, log)

	go func() {
		log.Info().Str("port", cfg.Port).Msg("API listening")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error().Err(err).Msg("server stopped")
			stop()
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
	}
	log.Info().Msg("server stopped")
}

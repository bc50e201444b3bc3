package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/joho/godotenv"
	"github.com/tisk/backend/internal/config"
	"github.com/tisk/backend/internal/db"
	"github.com/tisk/backend/internal/handler"
	"github.com/tisk/backend/internal/service"
	"github.com/tisk/backend/internal/token"
)

func main() {
	// Optional in production; local setups keep secrets in .env.
	_ = godotenv.Load()

	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	slog.SetDefault(logger)

	cfg, err := config.Load()
	if err != nil {
		logger.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	ctx := context.Background()

	pool, err := db.NewPostgresPool(ctx)
	if err != nil {
		logger.Error("postgres connection failed", "error", err)
		os.Exit(1)
	}
	defer pool.Close()

	store := &db.Postgres{Pool: pool}
	if err := store.EnsureSchema(ctx); err != nil {
		logger.Error("schema bootstrap failed", "error", err)
		os.Exit(1)
	}

	codec, err := token.NewCodec(cfg.Auth.JWTSecret, cfg.Auth.AccessTokenTTL, cfg.Auth.RefreshTokenTTL)
	if err != nil {
		logger.Error("token codec init failed", "error", err)
		os.Exit(1)
	}

	authService := service.NewAuthService(store, codec, logger)
	if err := authService.EnsureAdmin(ctx, cfg.Admin.Email, cfg.Admin.Password, cfg.Admin.FirstName, cfg.Admin.LastName); err != nil {
		logger.Error("admin seeding failed", "error", err)
		os.Exit(1)
	}

	router := handler.NewRouter(handler.NewAuthHandler(authService), codec, store, cfg.CORS.AllowedOrigins)

	logger.Info("starting http server", "addr", cfg.HTTPAddr)
	if err := router.Run(cfg.HTTPAddr); err != nil {
		logger.Error("http server stopped", "error", err)
		os.Exit(1)
	}
}

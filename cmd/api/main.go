package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/noah-isme/daily-coding-api/internal/bootstrap"
	"github.com/noah-isme/daily-coding-api/internal/config"
	"github.com/noah-isme/daily-coding-api/internal/database"
	"github.com/noah-isme/daily-coding-api/internal/observability"
	"github.com/noah-isme/daily-coding-api/internal/security"
)

func main() {
	os.Exit(run())
}

func run() int {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		return 1
	}

	logger := newLogger(cfg)
	if cfg.JWTSecretGenerated {
		logger.Warn().Msg("DAILY_JWT_SECRET is not set; using a random secret, tokens will not survive a restart")
	}

	ctx := context.Background()

	db, err := database.ConnectPostgres(ctx, cfg.DatabaseURL)
	if err != nil {
		logger.Error().Err(err).Msg("failed to connect to database")
		return 1
	}
	defer func() {
		if err := database.Close(db); err != nil {
			logger.Warn().Err(err).Msg("failed to close database")
		}
	}()

	if err := database.Migrate(db); err != nil {
		logger.Error().Err(err).Msg("failed to migrate database")
		return 1
	}

	redisClient := connectRedis(ctx, cfg, logger)
	if redisClient != nil {
		defer redisClient.Close()
	}

	shutdownTracer, err := observability.InitTracer(ctx, cfg.AppName, cfg.AppEnv, cfg.OTelEndpoint)
	if err != nil {
		logger.Warn().Err(err).Msg("tracing disabled")
		shutdownTracer = func(context.Context) error { return nil }
	}
	defer func() {
		flushCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = shutdownTracer(flushCtx)
	}()

	if err := seedAdmin(ctx, db, cfg, logger); err != nil {
		logger.Error().Err(err).Msg("failed to seed admin account")
		return 1
	}

	app, err := bootstrap.NewServer(cfg, bootstrap.Resources{DB: db, Redis: redisClient, Logger: logger})
	if err != nil {
		logger.Error().Err(err).Msg("failed to build server")
		return 1
	}

	listenErr := make(chan error, 1)
	go func() {
		logger.Info().Str("addr", cfg.HTTPAddress()).Str("env", cfg.AppEnv).Msg("server listening")
		listenErr <- app.Listen(cfg.HTTPAddress())
	}()

	return waitForShutdown(app, listenErr, logger)
}

func newLogger(cfg config.Config) zerolog.Logger {
	level := zerolog.DebugLevel
	if cfg.IsProduction() {
		level = zerolog.InfoLevel
	}

	return zerolog.New(os.Stdout).
		Level(level).
		With().
		Timestamp().
		Str("service", cfg.AppName).
		Logger()
}

// connectRedis returns nil when redis is not configured or unreachable; throttling and caching are then skipped.
func connectRedis(ctx context.Context, cfg config.Config, logger zerolog.Logger) *redis.Client {
	if cfg.RedisURL == "" {
		logger.Info().Msg("redis not configured; login throttling and dashboard cache disabled")
		return nil
	}

	client, err := database.ConnectRedis(ctx, cfg.RedisURL, cfg.AppName)
	if err != nil {
		logger.Warn().Err(err).Msg("redis unavailable; login throttling and dashboard cache disabled")
		return nil
	}
	return client
}

func seedAdmin(ctx context.Context, db *gorm.DB, cfg config.Config, logger zerolog.Logger) error {
	if cfg.AdminEmail == "" || cfg.AdminPassword == "" {
		return nil
	}

	hash, err := security.HashPassword(cfg.AdminPassword, cfg.BcryptCost)
	if err != nil {
		return err
	}

	created, err := database.EnsureAdminUser(ctx, db, database.AdminSeed{
		Name:         cfg.AdminName,
		Email:        cfg.AdminEmail,
		PasswordHash: hash,
	})
	if err != nil {
		return err
	}
	if created {
		logger.Info().Str("email", cfg.AdminEmail).Msg("bootstrap admin account created")
	}
	return nil
}

func waitForShutdown(app *fiber.App, listenErr <-chan error, logger zerolog.Logger) int {
	signalCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	select {
	case err := <-listenErr:
		if err != nil {
			logger.Error().Err(err).Msg("failed to start server")
			return 1
		}
		return 0
	case <-signalCtx.Done():
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(ctx); err != nil {
		logger.Error().Err(err).Msg("graceful shutdown failed")
	}

	logger.Info().Msg("server stopped")
	return 0
}

// @title        Flipiri API
// @version      1.0
// @description  Backend for the Flipiri marketing site and admin console.
// @BasePath     /api
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	goredis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/flipiri/flipiri-api/internal/api"
	"github.com/flipiri/flipiri-api/internal/api/handler"
	"github.com/flipiri/flipiri-api/internal/api/session"
	"github.com/flipiri/flipiri-api/internal/core/ports"
	"github.com/flipiri/flipiri-api/internal/core/service"
	mongodb "github.com/flipiri/flipiri-api/internal/infrastructure/db/mongo"
	redisdb "github.com/flipiri/flipiri-api/internal/infrastructure/db/redis"
	"github.com/flipiri/flipiri-api/internal/infrastructure/media"
	"github.com/flipiri/flipiri-api/internal/pkg/config"
	"github.com/flipiri/flipiri-api/pkg/logger"
)

const shutdownTimeout = 10 * time.Second

func main() {
	_ = godotenv.Load()

	cfg := config.Load()
	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  !cfg.IsProduction(),
		Service: "flipiri-api",
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, log); err != nil {
		log.Fatal().Err(err).Msg("server exited")
	}
	log.Info().Msg("goodbye")
}

func run(ctx context.Context, cfg *config.Config, log zerolog.Logger) error {
	mongoClient, db, err := mongodb.Connect(ctx, mongodb.Config{URI: cfg.Mongo.URI, Database: cfg.Mongo.Database})
	if err != nil {
		return err
	}
	defer func() {
		dctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = mongoClient.Disconnect(dctx)
	}()
	if err := mongodb.EnsureIndexes(ctx, db); err != nil {
		return err
	}
	log.Info().Str("database", cfg.Mongo.Database).Msg("mongo connected")

	checks := []handler.DependencyCheck{{
		Name: "mongodb",
		Ping: func(ctx context.Context) error { return mongoClient.Ping(ctx, nil) },
	}}

	var cache ports.ListCache
	if cfg.Redis.Addr != "" {
		rdb, err := redisdb.Connect(ctx, redisdb.Config{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
			PoolSize: cfg.Redis.PoolSize,
		})
		if err != nil {
			return err
		}
		defer rdb.Close()
		cache = redisdb.NewListCache(rdb, cfg.Redis.ListTTL)
		checks = append(checks, redisCheck(rdb))
		log.Info().Str("addr", cfg.Redis.Addr).Msg("redis list cache enabled")
	}

	store, err := media.New(media.Config{
		CloudName: cfg.Cloudinary.CloudName,
		APIKey:    cfg.Cloudinary.APIKey,
		APISecret: cfg.Cloudinary.APISecret,
	})
	if err != nil {
		return err
	}

	accounts := mongodb.NewAuthRepository(db)
	tokens := service.NewTokenManager(cfg.JWT.Secret, cfg.JWT.Expire)
	mediaManager := service.NewMediaManager(store, log.With().Str("component", "media").Logger())

	e := api.NewRouter(api.Deps{
		Logger:        log,
		Production:    cfg.IsProduction(),
		ClientURL:     cfg.ClientURL,
		MaxImageBytes: cfg.Upload.MaxBytes,
		Auth:          service.NewAuthService(accounts, tokens, log.With().Str("component", "auth").Logger()),
		Tokens:        tokens,
		Accounts:      accounts,
		Carrier:       session.NewCarrier(tokens.TTL(), cfg.IsProduction()),
		Projects: service.NewProjectService(mongodb.NewProjectRepository(db), mediaManager, cache,
			cfg.Cloudinary.Folder, log.With().Str("component", "projects").Logger()),
		Clients: service.NewClientService(mongodb.NewClientRepository(db), mediaManager, cache,
			cfg.Cloudinary.Folder, log.With().Str("component", "clients").Logger()),
		Contact: service.NewContactService(mongodb.NewContactRepository(db),
			log.With().Str("component", "contact").Logger()),
		Newsletter: service.NewNewsletterService(mongodb.NewNewsletterRepository(db),
			log.With().Str("component", "newsletter").Logger()),
		Checks: checks,
	})

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("port", cfg.Port).Str("env", cfg.Env).Msg("http server listening")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down")
	sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return e.Shutdown(sctx)
}

func redisCheck(rdb *goredis.Client) handler.DependencyCheck {
	return handler.DependencyCheck{
		Name: "redis",
		Ping: func(ctx context.Context) error { return rdb.Ping(ctx).Err() },
	}
}

package main

import (
	"context"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"restaurantadmin/internal/cache"
	"restaurantadmin/internal/config"
	"restaurantadmin/internal/database"
	"restaurantadmin/internal/handlers"
	"restaurantadmin/internal/jobs"
	"restaurantadmin/internal/log"
	"restaurantadmin/internal/mail"
	"restaurantadmin/internal/queue"
	"restaurantadmin/internal/repository"
	"restaurantadmin/internal/security"
	"restaurantadmin/internal/server"
	"restaurantadmin/internal/service"
	"restaurantadmin/internal/storage"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	logger := log.New(cfg.Environment, cfg.LogLevel)

	ctx := context.Background()

	dbPool, err := database.NewPostgresPool(ctx, cfg.Postgres, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect postgres")
	}
	if cfg.Postgres.AutoMigrate {
		if err := database.Migrate(ctx, dbPool); err != nil {
			logger.Fatal().Err(err).Msg("migrations failed")
		}
	}

	redisClient, err := cache.NewRedisClient(ctx, cache.RedisOptions{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect redis")
	}

	avatarStore, err := storage.NewAvatarStore(cfg.Storage)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to init object store")
	}
	if err := avatarStore.EnsureBucket(ctx); err != nil {
		logger.Warn().Err(err).Msg("ensure avatar bucket failed")
	}

	users := repository.NewUserRepository(dbPool)
	menuItems := repository.NewMenuItemRepository(dbPool)
	sessions := cache.NewSessionCache(redisClient, cfg.Security.RefreshTokenTTL)
	tokens := security.NewTokens(cfg.Security)
	producer := queue.NewProducer(redisClient, cfg.Mail.Stream)

	authService := service.NewAuthService(
		users,
		sessions,
		mail.NewOutbox(producer),
		service.NewAvatarService(avatarStore, cfg.Storage.AvatarWidth, logger),
		tokens,
		cfg.Security.BcryptCost,
		logger,
	)

	handlerSet := handlers.NewHandlerSet(logger, cfg, handlers.Dependencies{
		Auth:        authService,
		Restaurants: service.NewRestaurantService(repository.NewRestaurantRepository(dbPool), users),
		Tables:      service.NewTableService(repository.NewTableRepository(dbPool)),
		Menu:        service.NewMenuService(repository.NewCategoryRepository(dbPool), menuItems),
		Orders:      service.NewOrderService(repository.NewOrderRepository(dbPool), menuItems),
		Tokens:      tokens,
		Sessions:    sessions,
		Checks: map[string]handlers.HealthCheck{
			"postgres": dbPool.Ping,
			"redis":    func(ctx context.Context) error { return redisClient.Ping(ctx).Err() },
		},
	})
	httpServer := server.NewHTTPServer(cfg, logger, handlerSet)

	scheduler := jobs.NewScheduler(producer, cfg.Jobs.AvatarSweepSpec, logger)
	if err := scheduler.Start(); err != nil {
		logger.Error().Err(err).Msg("scheduler start failed")
	}

	go func() {
		if err := httpServer.Start(); err != nil {
			logger.Fatal().Err(err).Msg("http server failed")
		}
	}()

	waitForShutdown(logger, httpServer, scheduler, dbPool, redisClient)
}

func waitForShutdown(logger zerolog.Logger, srv *server.HTTPServer, scheduler *jobs.Scheduler, db *pgxpool.Pool, redisClient *redis.Client) {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-ctx.Done()
	logger.Info().Msg("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("graceful shutdown failed")
	}

	scheduler.Stop()

	db.Close()
	if err := redisClient.Close(); err != nil {
		logger.Error().Err(err).Msg("redis close error")
	}

	logger.Info().Msg("server exited cleanly")
}

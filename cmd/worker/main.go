package main

import (
	"context"
	"errors"
	"os/signal"
	"syscall"

	"restaurantadmin/internal/cache"
	"restaurantadmin/internal/config"
	"restaurantadmin/internal/database"
	"restaurantadmin/internal/log"
	"restaurantadmin/internal/mail"
	"restaurantadmin/internal/queue"
	"restaurantadmin/internal/repository"
	"restaurantadmin/internal/storage"
	"restaurantadmin/internal/tasks"
)

func main() {
	cfg, err := config.LoadWorker()
	if err != nil {
		panic(err)
	}

	logger := log.New(cfg.Environment, cfg.Logging.Level)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	client, err := cache.NewRedisClient(ctx, cache.RedisOptions{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err != nil {
		logger.Fatal().Err(err).Msg("redis connection failed")
	}
	defer client.Close()

	dbPool, err := database.NewPostgresPool(ctx, cfg.Postgres, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect postgres")
	}
	defer dbPool.Close()

	avatarStore, err := storage.NewAvatarStore(cfg.Storage)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to init object store")
	}

	processor := tasks.NewProcessor(
		mail.NewSMTPSender(cfg.Mail, logger),
		avatarStore,
		repository.NewUserRepository(dbPool),
		cfg.Sweep.Grace,
		logger,
	)
	consumer := queue.NewConsumer(client, queue.ConsumerOptions{
		Stream:        cfg.Mail.Stream,
		Group:         cfg.Redis.Group,
		Consumer:      cfg.Redis.Consumer,
		ClaimInterval: cfg.Queues.ClaimInterval,
		BatchSize:     cfg.Queues.BatchSize,
		Block:         cfg.Queues.Block,
		MaxAttempts:   cfg.Queues.MaxAttempts,
		MaxAge:        cfg.Queues.MaxAge,
		DeadLetter:    cfg.Queues.DeadLetter,
	}, logger, processor)

	logger.Info().Str("stream", cfg.Mail.Stream).Str("group", cfg.Redis.Group).Msg("worker started")
	if err := consumer.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error().Err(err).Msg("consumer stopped unexpectedly")
	}
	logger.Info().Msg("worker exited")
}

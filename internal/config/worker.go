package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

var envKeyReplacer = strings.NewReplacer(".", "_")

type WorkerConfig struct {
	Environment string
	Redis       WorkerRedisConfig
	Postgres    PostgresConfig
	Storage     StorageConfig
	Mail        MailConfig
	Queues      QueueConfig
	Sweep       SweepConfig
	Logging     LoggingConfig
}

type WorkerRedisConfig struct {
	Addr     string
	Password string
	DB       int
	Group    string
	Consumer string
}

type QueueConfig struct {
	ClaimInterval time.Duration
	BatchSize     int64
	Block         time.Duration
	MaxAttempts   int64
	MaxAge        time.Duration
	DeadLetter    string
}

type SweepConfig struct {
	Grace time.Duration
}

type LoggingConfig struct {
	Level string
}

func LoadWorker() (*WorkerConfig, error) {
	v, err := newViper("worker")
	if err != nil {
		return nil, err
	}
	setWorkerDefaults(v)

	var cfg WorkerConfig
	if err := v.Unmarshal(&cfg, decoderOptions); err != nil {
		return nil, fmt.Errorf("unmarshal: %w", err)
	}
	if cfg.Postgres.DSN == "" {
		return nil, fmt.Errorf("postgres: dsn is required")
	}
	return &cfg, nil
}

func setWorkerDefaults(v *viper.Viper) {
	v.SetDefault("environment", "development")
	v.SetDefault("redis.addr", "127.0.0.1:6379")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.group", "restaurant-workers")
	v.SetDefault("redis.consumer", "worker-1")

	v.SetDefault("postgres.dsn", "")
	v.SetDefault("postgres.maxopen", 5)
	v.SetDefault("postgres.maxidle", 1)
	v.SetDefault("postgres.connmaxlifetime", "30m")

	v.SetDefault("storage.endpoint", "127.0.0.1:9000")
	v.SetDefault("storage.accesskey", "")
	v.SetDefault("storage.secretkey", "")
	v.SetDefault("storage.bucketavatars", "avatars")
	v.SetDefault("storage.usessl", false)
	v.SetDefault("storage.region", "us-east-1")

	setMailDefaults(v)

	v.SetDefault("queues.claiminterval", "30s")
	v.SetDefault("queues.batchsize", 10)
	v.SetDefault("queues.block", "5s")
	v.SetDefault("queues.maxattempts", 3)
	v.SetDefault("queues.maxage", "5m") // activation codes are dead after this
	v.SetDefault("queues.deadletter", "restaurant:tasks:dead")

	v.SetDefault("sweep.grace", "24h")

	v.SetDefault("logging.level", "info")
}

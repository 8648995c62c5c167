package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func setRequired(t *testing.T) {
	t.Setenv("RESTO_POSTGRES_DSN", "postgres://localhost/resto")
	t.Setenv("RESTO_SECURITY_ACCESSTOKENSECRET", "access")
	t.Setenv("RESTO_SECURITY_REFRESHTOKENSECRET", "refresh")
	t.Setenv("RESTO_SECURITY_ACTIVATIONTOKENSECRET", "activation")
}

func TestLoadDefaults(t *testing.T) {
	setRequired(t)

	cfg, err := Load()
	require.NoError(t, err)

	require.Equal(t, "development", cfg.Environment)
	require.Equal(t, 7000, cfg.HTTP.Port)
	require.Equal(t, 5*time.Minute, cfg.Security.AccessTokenTTL)
	require.Equal(t, 72*time.Hour, cfg.Security.RefreshTokenTTL)
	require.Equal(t, 5*time.Minute, cfg.Security.ActivationTokenTTL)
	require.Equal(t, 10, cfg.Security.BcryptCost)
	require.Equal(t, "avatars", cfg.Storage.BucketAvatars)
	require.Equal(t, 150, cfg.Storage.AvatarWidth)
	require.Equal(t, "restaurant:tasks", cfg.Mail.Stream)
}

func TestLoadEnvOverrides(t *testing.T) {
	setRequired(t)
	t.Setenv("RESTO_SECURITY_ACCESSTOKENTTL", "15m")
	t.Setenv("RESTO_HTTP_PORT", "9090")

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, 15*time.Minute, cfg.Security.AccessTokenTTL)
	require.Equal(t, 9090, cfg.HTTP.Port)
}

func TestLoadRequiresSecrets(t *testing.T) {
	t.Setenv("RESTO_POSTGRES_DSN", "postgres://localhost/resto")

	_, err := Load()
	require.Error(t, err)
}

func TestLoadRejectsSharedTokenSecret(t *testing.T) {
	setRequired(t)
	t.Setenv("RESTO_SECURITY_REFRESHTOKENSECRET", "access")

	_, err := Load()
	require.ErrorContains(t, err, "must differ")
}

func TestLoadWorkerDefaults(t *testing.T) {
	t.Setenv("RESTO_POSTGRES_DSN", "postgres://localhost/resto")

	cfg, err := LoadWorker()
	require.NoError(t, err)
	require.Equal(t, "restaurant-workers", cfg.Redis.Group)
	require.Equal(t, 30*time.Second, cfg.Queues.ClaimInterval)
	require.EqualValues(t, 3, cfg.Queues.MaxAttempts)
	require.Equal(t, 5*time.Minute, cfg.Queues.MaxAge)
	require.Equal(t, "restaurant:tasks:dead", cfg.Queues.DeadLetter)
	require.Equal(t, 24*time.Hour, cfg.Sweep.Grace)
	require.Equal(t, "restaurant:tasks", cfg.Mail.Stream)
}

package config

import (
	"fmt"
	"time"

	"github.com/joho/godotenv"
	"github.com/mitchellh/mapstructure"
	"github.com/spf13/viper"
)

const envPrefix = "RESTO"

type HTTPConfig struct {
	Host         string
	Port         int
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
	MaxBodyBytes int64
}

type PostgresConfig struct {
	DSN             string
	MaxOpen         int
	MaxIdle         int
	ConnMaxLifetime time.Duration
	AutoMigrate     bool
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

type StorageConfig struct {
	Endpoint      string
	PublicURL     string
	AccessKey     string
	SecretKey     string
	BucketAvatars string
	UseSSL        bool
	Region        string
	AvatarWidth   int
}

type SecurityConfig struct {
	AccessTokenSecret     string
	RefreshTokenSecret    string
	ActivationTokenSecret string
	AccessTokenTTL        time.Duration
	RefreshTokenTTL       time.Duration
	ActivationTokenTTL    time.Duration
	BcryptCost            int
	CookieSecure          bool
	CookieDomain          string
}

type MailConfig struct {
	SMTPHost  string
	SMTPPort  int
	SMTPUser  string
	SMTPPass  string
	FromEmail string
	Stream    string
}

type RateLimitConfig struct {
	AuthPerMinute int
}

type JobsConfig struct {
	AvatarSweepSpec string
}

type AppConfig struct {
	Environment      string
	LogLevel         string
	HTTP             HTTPConfig
	Postgres         PostgresConfig
	Redis            RedisConfig
	Storage          StorageConfig
	Security         SecurityConfig
	Mail             MailConfig
	RateLimit        RateLimitConfig
	Jobs             JobsConfig
	AllowCORSOrigins []string
}

func Load() (*AppConfig, error) {
	v, err := newViper("config")
	if err != nil {
		return nil, err
	}
	setDefaults(v)

	var cfg AppConfig
	if err := v.Unmarshal(&cfg, decoderOptions); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *AppConfig) validate() error {
	s := c.Security
	if s.AccessTokenSecret == "" || s.RefreshTokenSecret == "" || s.ActivationTokenSecret == "" {
		return fmt.Errorf("security: access, refresh and activation secrets are required")
	}
	if s.AccessTokenSecret == s.RefreshTokenSecret {
		return fmt.Errorf("security: access and refresh secrets must differ")
	}
	if c.Postgres.DSN == "" {
		return fmt.Errorf("postgres: dsn is required")
	}
	return nil
}

// newViper reads an optional .env file and an optional yaml file named name.
// Keys are overridable through RESTO_* environment variables.
func newViper(name string) (*viper.Viper, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigName(name)
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("../config")

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(envKeyReplacer)
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("load config file: %w", err)
		}
	}
	return v, nil
}

func decoderOptions(dc *mapstructure.DecoderConfig) {
	dc.TagName = "mapstructure"
	dc.DecodeHook = mapstructure.ComposeDecodeHookFunc(
		mapstructure.StringToTimeDurationHookFunc(),
		mapstructure.StringToSliceHookFunc(","),
	)
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("environment", "development")
	v.SetDefault("loglevel", "")

	v.SetDefault("http.host", "0.0.0.0")
	v.SetDefault("http.port", 7000)
	v.SetDefault("http.readtimeout", "10s")
	v.SetDefault("http.writetimeout", "15s")
	v.SetDefault("http.idletimeout", "60s")
	v.SetDefault("http.maxbodybytes", 50<<20)

	v.SetDefault("postgres.dsn", "")
	v.SetDefault("postgres.maxopen", 30)
	v.SetDefault("postgres.maxidle", 5)
	v.SetDefault("postgres.connmaxlifetime", "30m")
	v.SetDefault("postgres.automigrate", true)

	v.SetDefault("redis.addr", "127.0.0.1:6379")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)

	v.SetDefault("storage.endpoint", "127.0.0.1:9000")
	v.SetDefault("storage.publicurl", "")
	v.SetDefault("storage.accesskey", "")
	v.SetDefault("storage.secretkey", "")
	v.SetDefault("storage.bucketavatars", "avatars")
	v.SetDefault("storage.usessl", false)
	v.SetDefault("storage.region", "us-east-1")
	v.SetDefault("storage.avatarwidth", 150)

	v.SetDefault("security.accesstokensecret", "")
	v.SetDefault("security.refreshtokensecret", "")
	v.SetDefault("security.activationtokensecret", "")
	v.SetDefault("security.accesstokenttl", "5m")
	v.SetDefault("security.refreshtokenttl", "72h") // 3 days
	v.SetDefault("security.activationtokenttl", "5m")
	v.SetDefault("security.bcryptcost", 10)
	v.SetDefault("security.cookiesecure", false)
	v.SetDefault("security.cookiedomain", "")

	setMailDefaults(v)

	v.SetDefault("ratelimit.authperminute", 20)
	v.SetDefault("jobs.avatarsweepspec", "0 30 3 * * *")
	v.SetDefault("allowcorsorigins", []string{})
}

func setMailDefaults(v *viper.Viper) {
	v.SetDefault("mail.smtphost", "")
	v.SetDefault("mail.smtpport", 587)
	v.SetDefault("mail.smtpuser", "")
	v.SetDefault("mail.smtppass", "")
	v.SetDefault("mail.fromemail", "")
	v.SetDefault("mail.stream", "restaurant:tasks")
}

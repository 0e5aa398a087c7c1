package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config is the full service configuration. Values come from defaults,
// an optional config.yaml, and environment variables (in that order of
// precedence, lowest first).
type Config struct {
	Server        ServerConfig
	Database      DatabaseConfig
	Redis         RedisConfig
	Cache         CacheConfig
	Auth          AuthConfig
	Log           LogConfig
	Telemetry     TelemetryConfig
	Events        EventsConfig
	Stream        StreamConfig
	Notifications NotificationsConfig
	RateLimit     RateLimitConfig `mapstructure:"ratelimit"`
}

type ServerConfig struct {
	Port            int           `mapstructure:"port"`
	Mode            string        `mapstructure:"mode"` // debug, release, test
	RequestTimeout  time.Duration `mapstructure:"request_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
	CORSOrigins     []string      `mapstructure:"cors_origins"`
}

type DatabaseConfig struct {
	Driver          string        `mapstructure:"driver"` // postgres, sqlite
	DSN             string        `mapstructure:"dsn"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`
	MaxOpenConns    int           `mapstructure:"max_open_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
	LogLevel        string        `mapstructure:"log_level"` // silent, error, warn, info
	AutoMigrate     bool          `mapstructure:"auto_migrate"`
}

type RedisConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Host     string `mapstructure:"host"`
	Port     string `mapstructure:"port"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

type CacheConfig struct {
	Enabled bool          `mapstructure:"enabled"`
	FeedTTL time.Duration `mapstructure:"feed_ttl"`
}

type AuthConfig struct {
	JWTSecret string        `mapstructure:"jwt_secret"`
	Issuer    string        `mapstructure:"issuer"`
	TokenTTL  time.Duration `mapstructure:"token_ttl"`
}

type LogConfig struct {
	Level string `mapstructure:"level"`
	File  string `mapstructure:"file"`
	JSON  bool   `mapstructure:"json"`
}

type TelemetryConfig struct {
	Enabled      bool    `mapstructure:"enabled"`
	ServiceName  string  `mapstructure:"service_name"`
	Environment  string  `mapstructure:"environment"`
	OTLPEndpoint string  `mapstructure:"otlp_endpoint"`
	SamplingRate float64 `mapstructure:"sampling_rate"`
}

// EventsConfig selects where engagement domain events are published.
type EventsConfig struct {
	Backend      string `mapstructure:"backend"` // none, redis, kafka
	Brokers      string `mapstructure:"brokers"`
	Topic        string `mapstructure:"topic"`
	Partitions   int    `mapstructure:"partitions"`
	RedisChannel string `mapstructure:"redis_channel"`
}

type StreamConfig struct {
	Enabled          bool   `mapstructure:"enabled"`
	APIKey           string `mapstructure:"api_key"`
	APISecret        string `mapstructure:"api_secret"`
	NotificationFeed string `mapstructure:"notification_feed"`
	DeliveryWorkers  int    `mapstructure:"delivery_workers"`
	DeliveryBuffer   int    `mapstructure:"delivery_buffer"`
}

type NotificationsConfig struct {
	EmitTimeout time.Duration `mapstructure:"emit_timeout"`
}

type RateLimitConfig struct {
	WritesPerMinute int `mapstructure:"writes_per_minute"`
}

// Load reads configuration from ./config.yaml (optional) and the
// environment. configPath may be empty.
func Load(configPath string) (*Config, error) {
	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	if configPath != "" {
		v.AddConfigPath(configPath)
	}
	v.AddConfigPath(".")
	v.AddConfigPath("./config")

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults(v)
	bindEnv(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8787)
	v.SetDefault("server.mode", "debug")
	v.SetDefault("server.request_timeout", "10s")
	v.SetDefault("server.shutdown_timeout", "30s")
	v.SetDefault("server.cors_origins", []string{"*"})

	v.SetDefault("database.driver", "postgres")
	v.SetDefault("database.dsn", "host=localhost port=5432 user=postgres dbname=chirpline sslmode=disable")
	v.SetDefault("database.max_idle_conns", 10)
	v.SetDefault("database.max_open_conns", 100)
	v.SetDefault("database.conn_max_lifetime", "1h")
	v.SetDefault("database.log_level", "warn")
	v.SetDefault("database.auto_migrate", false)

	v.SetDefault("redis.enabled", false)
	v.SetDefault("redis.host", "localhost")
	v.SetDefault("redis.port", "6379")
	v.SetDefault("redis.db", 0)

	v.SetDefault("cache.enabled", true)
	v.SetDefault("cache.feed_ttl", "2m")

	v.SetDefault("auth.issuer", "chirpline")
	v.SetDefault("auth.token_ttl", "168h")

	v.SetDefault("log.level", "info")
	v.SetDefault("log.file", "server.log")

	v.SetDefault("telemetry.enabled", false)
	v.SetDefault("telemetry.service_name", "chirpline-api")
	v.SetDefault("telemetry.environment", "development")
	v.SetDefault("telemetry.otlp_endpoint", "localhost:4318")
	v.SetDefault("telemetry.sampling_rate", 1.0)

	v.SetDefault("events.backend", "none")
	v.SetDefault("events.brokers", "localhost:9092")
	v.SetDefault("events.topic", "engagement-events")
	v.SetDefault("events.partitions", 3)
	v.SetDefault("events.redis_channel", "engagement")

	v.SetDefault("stream.enabled", false)
	v.SetDefault("stream.notification_feed", "notification")
	v.SetDefault("stream.delivery_workers", 4)
	v.SetDefault("stream.delivery_buffer", 256)

	v.SetDefault("notifications.emit_timeout", "2s")

	v.SetDefault("ratelimit.writes_per_minute", 120)
}

func bindEnv(v *viper.Viper) {
	_ = v.BindEnv("server.port", "PORT")
	_ = v.BindEnv("server.mode", "GIN_MODE")
	_ = v.BindEnv("database.driver", "DB_DRIVER")
	_ = v.BindEnv("database.dsn", "DATABASE_URL")
	_ = v.BindEnv("redis.enabled", "REDIS_ENABLED")
	_ = v.BindEnv("redis.host", "REDIS_HOST")
	_ = v.BindEnv("redis.port", "REDIS_PORT")
	_ = v.BindEnv("redis.password", "REDIS_PASSWORD")
	_ = v.BindEnv("auth.jwt_secret", "JWT_SECRET")
	_ = v.BindEnv("log.level", "LOG_LEVEL")
	_ = v.BindEnv("log.file", "LOG_FILE")
	_ = v.BindEnv("telemetry.enabled", "OTEL_ENABLED")
	_ = v.BindEnv("telemetry.otlp_endpoint", "OTEL_EXPORTER_OTLP_ENDPOINT")
	_ = v.BindEnv("telemetry.environment", "ENVIRONMENT")
	_ = v.BindEnv("events.backend", "EVENTS_BACKEND")
	_ = v.BindEnv("events.brokers", "KAFKA_BROKERS")
	_ = v.BindEnv("events.topic", "KAFKA_TOPIC")
	_ = v.BindEnv("stream.enabled", "STREAM_ENABLED")
	_ = v.BindEnv("stream.api_key", "STREAM_API_KEY")
	_ = v.BindEnv("stream.api_secret", "STREAM_API_SECRET")
}

// Validate rejects configurations the server cannot start with.
func (c *Config) Validate() error {
	switch c.Database.Driver {
	case "postgres", "sqlite":
	default:
		return fmt.Errorf("unsupported database driver %q", c.Database.Driver)
	}
	if c.Database.DSN == "" {
		return errors.New("database.dsn is required")
	}

	switch c.Events.Backend {
	case "", "none":
	case "kafka":
		if c.Events.Brokers == "" || c.Events.Topic == "" {
			return errors.New("events.brokers and events.topic are required for the kafka backend")
		}
	case "redis":
		if !c.Redis.Enabled {
			return errors.New("events.backend=redis requires redis.enabled")
		}
	default:
		return fmt.Errorf("unsupported events backend %q", c.Events.Backend)
	}

	if c.Stream.Enabled && (c.Stream.APIKey == "" || c.Stream.APISecret == "") {
		return errors.New("stream.api_key and stream.api_secret are required when stream is enabled")
	}
	if c.Server.Mode == "release" && c.Auth.JWTSecret == "" {
		return errors.New("auth.jwt_secret is required in release mode")
	}
	if c.Cache.FeedTTL < 0 {
		return errors.New("cache.feed_ttl must not be negative")
	}
	return nil
}

// Addr returns host:port for the Redis client.
func (c RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%s", c.Host, c.Port)
}

package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/viper"
)

// Session store backends
const (
	SessionBackendMemory = "memory"
	SessionBackendRedis  = "redis"
)

// Config holds all application configuration
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Telegram TelegramConfig `mapstructure:"telegram"`
	Lookup   LookupConfig   `mapstructure:"lookup"`
	Catalog  CatalogConfig  `mapstructure:"catalog"`
	Session  SessionConfig  `mapstructure:"session"`
	Redis    RedisConfig    `mapstructure:"redis"`
	Logging  LoggingConfig  `mapstructure:"logging"`
	About    AboutConfig    `mapstructure:"about"`
}

type ServerConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	IdleTimeout     time.Duration `mapstructure:"idle_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

func (c ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

type TelegramConfig struct {
	Token       string `mapstructure:"token"`
	PollTimeout int    `mapstructure:"poll_timeout"`
	Workers     int    `mapstructure:"workers"`
	Debug       bool   `mapstructure:"debug"`
}

// LookupConfig controls calls to the upstream lookup service
type LookupConfig struct {
	BaseURL     string        `mapstructure:"base_url"`
	Timeout     time.Duration `mapstructure:"timeout"`
	InlineLimit int           `mapstructure:"inline_limit"`
	EncodeArgs  bool          `mapstructure:"encode_args"`
}

type CatalogConfig struct {
	Path string `mapstructure:"path"`
}

type SessionConfig struct {
	Backend string        `mapstructure:"backend"`
	TTL     time.Duration `mapstructure:"ttl"`
}

type RedisConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

func (c RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

type LoggingConfig struct {
	Level  string        `mapstructure:"level"`
	Format string        `mapstructure:"format"`
	File   string        `mapstructure:"file"`
	MaxAge time.Duration `mapstructure:"max_age"`
}

type AboutConfig struct {
	Text string `mapstructure:"text"`
}

// Load reads configuration from file and environment variables
func Load() (*Config, error) {
	v := viper.New()

	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "./configs/config.yaml"
	}

	v.SetConfigFile(configPath)
	v.SetConfigType("yaml")

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !os.IsNotExist(err) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		// Config file is optional, defaults and env vars apply
	}

	v.AutomaticEnv()
	bindEnvVars(v)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &cfg, nil
}

// Validate checks the settings the bot cannot start without
func (c *Config) Validate() error {
	if c.Telegram.Token == "" {
		return errors.New("telegram token is required (set BOT_TOKEN)")
	}
	if c.Lookup.Timeout <= 0 {
		return errors.New("lookup.timeout must be positive")
	}
	if c.Lookup.InlineLimit <= 0 {
		return errors.New("lookup.inline_limit must be positive")
	}
	if c.Telegram.Workers <= 0 {
		return errors.New("telegram.workers must be positive")
	}
	switch c.Session.Backend {
	case SessionBackendMemory, SessionBackendRedis:
	default:
		return fmt.Errorf("unknown session backend: %s", c.Session.Backend)
	}
	return nil
}

func setDefaults(v *viper.Viper) {
	// Server
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.read_timeout", "10s")
	v.SetDefault("server.write_timeout", "10s")
	v.SetDefault("server.idle_timeout", "60s")
	v.SetDefault("server.shutdown_timeout", "15s")

	// Telegram
	v.SetDefault("telegram.poll_timeout", 60)
	v.SetDefault("telegram.workers", 64)
	v.SetDefault("telegram.debug", false)

	// Lookup
	v.SetDefault("lookup.base_url", "https://lookup.example.com")
	v.SetDefault("lookup.timeout", "15s")
	v.SetDefault("lookup.inline_limit", 4000)
	v.SetDefault("lookup.encode_args", true)

	// Session
	v.SetDefault("session.backend", SessionBackendMemory)
	v.SetDefault("session.ttl", "30m")

	// Redis
	v.SetDefault("redis.host", "localhost")
	v.SetDefault("redis.port", 6379)
	v.SetDefault("redis.db", 0)

	// Logging
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")
	v.SetDefault("logging.max_age", "168h") // 7 days

	// About
	v.SetDefault("about.text", "🤖 *About*\n\nThis bot runs lookups against a public information service.\nPick a category, choose an operation and answer the prompts.")
}

func bindEnvVars(v *viper.Viper) {
	// Platforms like Render and Heroku assign the port
	v.BindEnv("server.port", "PORT")

	// Telegram
	v.BindEnv("telegram.token", "BOT_TOKEN")

	// Lookup
	v.BindEnv("lookup.base_url", "LOOKUP_BASE_URL")

	// Catalog
	v.BindEnv("catalog.path", "CATALOG_PATH")

	// Session
	v.BindEnv("session.backend", "SESSION_BACKEND")

	// Redis
	v.BindEnv("redis.host", "REDIS_HOST")
	v.BindEnv("redis.password", "REDIS_PASSWORD")

	// Logging
	v.BindEnv("logging.level", "LOG_LEVEL")
	v.BindEnv("logging.file", "LOG_FILE")
}

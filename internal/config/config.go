// Package config loads runtime settings from flags, environment variables
// (SIGNUP_ prefix) and an optional config.toml, and validates them.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// Store backends for the activity API.
const (
	StoreMemory   = "memory"
	StorePostgres = "postgres"
	StoreRedis    = "redis"
)

type Config struct {
	// Server
	Port     string `mapstructure:"port" validate:"required,numeric"`
	LogLevel string `mapstructure:"log_level" validate:"oneof=debug info warn error"`

	// Activity API
	Store       string   `mapstructure:"store" validate:"oneof=memory postgres redis"`
	DatabaseURL string   `mapstructure:"database_url" validate:"required_if=Store postgres"`
	RedisURL    string   `mapstructure:"redis_url" validate:"required_if=Store redis"`
	CORSOrigins []string `mapstructure:"cors_origins"`
	Seed        bool     `mapstructure:"seed"`

	// Front-end
	APIURL         string        `mapstructure:"api_url" validate:"omitempty,url"`
	NoticeDuration time.Duration `mapstructure:"notice_duration" validate:"gt=0"`
	SessionTTL     time.Duration `mapstructure:"session_ttl" validate:"gt=0"`
	MaxSessions    int           `mapstructure:"max_sessions" validate:"gt=0"`

	EnableMetrics bool `mapstructure:"enable_metrics"`
}

// SetDefaults registers the default value of every key on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("port", "8080")
	v.SetDefault("log_level", "info")
	v.SetDefault("store", StoreMemory)
	v.SetDefault("database_url", "")
	v.SetDefault("redis_url", "localhost:6379")
	v.SetDefault("cors_origins", []string{"*"})
	v.SetDefault("seed", true)
	v.SetDefault("api_url", "")
	v.SetDefault("notice_duration", 5*time.Second)
	v.SetDefault("session_ttl", 30*time.Minute)
	v.SetDefault("max_sessions", 10000)
	v.SetDefault("enable_metrics", true)
}

// NewViper returns a viper instance reading SIGNUP_* environment variables
// and, when present, config.toml from the working directory or ./config.
func NewViper() *viper.Viper {
	v := viper.New()
	SetDefaults(v)
	v.SetEnvPrefix("signup")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	v.SetConfigName("config")
	v.SetConfigType("toml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config/")
	return v
}

// Load reads the optional config file, then unmarshals and validates.
func Load(v *viper.Viper) (*Config, error) {
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks the struct tags on Config.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

// SelfURL is the API base URL used when the front-end talks to the API
// served by the same process.
func (c *Config) SelfURL() string {
	return "http://localhost:" + c.Port
}

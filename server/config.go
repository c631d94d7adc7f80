package server

import (
	"fmt"
	"os"
	"time"

	traillog "github.com/ridgepath/traillog"
	"github.com/ridgepath/traillog/logger"
	"github.com/ridgepath/traillog/postgres"
	"golang.org/x/crypto/bcrypt"
)

// A Config collects every environment-supplied value the trail log needs
// to boot.
type Config struct {
	// The canonical URL clients reach the app at, e.g. https://trails.example.com
	BaseURL string

	Env traillog.Environment

	LogLevel logger.LogLevel

	Port string

	// http.Server timeouts
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration

	// bcrypt work factor for password hashing
	HashCost int

	DB *postgres.CxnConfig

	// Hex-encoded session keys
	SessionAuthKey    string
	SessionEncryptKey string

	// Optional Redis backing for sessions and the idempotency cache
	RedisURI  string
	RedisPass string
}

// NewConfig assembles a *Config from environment variables,
// falling back to development defaults where sensible.
func NewConfig() *Config {
	return &Config{
		BaseURL:  traillog.EnvVarOrString("BASE_URL", "http://localhost:8080"),
		Env:      traillog.EnvVarOrEnv("ENVIRONMENT", traillog.Development),
		LogLevel: logger.NewLogLevel(traillog.EnvVarOrString("LOG_LEVEL", "INFO")),
		Port:     traillog.EnvVarOrString("PORT", "8080"),

		ReadTimeout:  traillog.EnvVarOrDuration("SERVER_READ_TIMEOUT", 5*time.Second),
		WriteTimeout: traillog.EnvVarOrDuration("SERVER_WRITE_TIMEOUT", 10*time.Second),
		IdleTimeout:  traillog.EnvVarOrDuration("SERVER_IDLE_TIMEOUT", 120*time.Second),

		HashCost: traillog.EnvVarOrInt("PASSWORD_HASH_COST", bcrypt.DefaultCost),

		DB: &postgres.CxnConfig{
			IsTestDB: traillog.EnvVarOrBool("DATABASE_IS_TEST", false),
			URL:      os.Getenv("DATABASE_URL"),
			Host:     traillog.EnvVarOrString("DATABASE_HOST", "localhost"),
			Port:     traillog.EnvVarOrString("DATABASE_PORT", "5432"),
			Name:     traillog.EnvVarOrString("DATABASE_NAME", "traillog"),
			User:     traillog.EnvVarOrString("DATABASE_USER", "postgres"),
			Password: os.Getenv("DATABASE_PASSWORD"),
			SSLMode:  traillog.EnvVarOrString("DATABASE_SSLMODE", "prefer"),
		},
		SessionAuthKey:    os.Getenv("SESSION_AUTH_KEY"),
		SessionEncryptKey: os.Getenv("SESSION_ENCRYPTION_KEY"),
		RedisURI:          os.Getenv("SESSION_REDIS_URI"),
		RedisPass:         os.Getenv("SESSION_REDIS_PASS"),
	}
}

// Valid asserts the Config carries everything the app cannot run without.
func (c *Config) Valid() error {
	if err := c.Env.Valid(); err != nil {
		return fmt.Errorf("%w: ENVIRONMENT %q", traillog.ErrBadConfig, c.Env)
	}

	if c.SessionAuthKey == "" || c.SessionEncryptKey == "" {
		return fmt.Errorf("%w: SESSION_AUTH_KEY and SESSION_ENCRYPTION_KEY are required", traillog.ErrBadConfig)
	}

	return nil
}

package config

import (
	"errors"
	"fmt"
	"net/url"
	"time"

	"github.com/kelseyhightower/envconfig"
)

const (
	BackendMemory   = "memory"
	BackendPostgres = "postgres"
	BackendSQLite   = "sqlite"

	devJWTSecret = "dev-secret-change-me"
)

type Config struct {
	ServerPort     string `envconfig:"SERVER_PORT" default:"3001"`
	StorageBackend string `envconfig:"STORAGE_BACKEND" default:"memory"`

	DBHost      string `envconfig:"DB_HOST" default:"localhost"`
	DBPort      string `envconfig:"DB_PORT" default:"5432"`
	DBUser      string `envconfig:"DB_USER" default:"lawnpool"`
	DBPassword  string `envconfig:"DB_PASSWORD" default:"lawnpool_dev_password"`
	DBName      string `envconfig:"DB_NAME" default:"lawnpool"`
	DBSSLMode   string `envconfig:"DB_SSLMODE" default:"disable"`
	DatabaseURL string `envconfig:"DATABASE_URL"`
	SQLitePath  string `envconfig:"SQLITE_PATH" default:"lawnpool.db"`

	RedisURL string `envconfig:"REDIS_URL"`

	JWTSecret string        `envconfig:"JWT_SECRET" default:"dev-secret-change-me"`
	JWTTTL    time.Duration `envconfig:"JWT_TTL" default:"24h"`

	GoogleClientID     string        `envconfig:"GOOGLE_CLIENT_ID"`
	GoogleClientSecret string        `envconfig:"GOOGLE_CLIENT_SECRET"`
	BaseURL            string        `envconfig:"BASE_URL"`
	OAuthStateTTL      time.Duration `envconfig:"OAUTH_STATE_TTL" default:"10m"`
	OAuthStateCapacity int           `envconfig:"OAUTH_STATE_CAPACITY" default:"10000"`

	LogLevel  string `envconfig:"LOG_LEVEL" default:"info"`
	LogFormat string `envconfig:"LOG_FORMAT" default:"json"`

	WSSendRate  float64 `envconfig:"WS_SEND_RATE" default:"5"`
	WSSendBurst int     `envconfig:"WS_SEND_BURST" default:"10"`

	CORSOrigin string `envconfig:"CORS_ORIGIN" default:"*"`
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) Validate() error {
	switch c.StorageBackend {
	case BackendMemory, BackendPostgres, BackendSQLite:
	default:
		return fmt.Errorf("unknown STORAGE_BACKEND %q", c.StorageBackend)
	}

	if c.StorageBackend != BackendMemory && (c.JWTSecret == devJWTSecret || len(c.JWTSecret) < 16) {
		return errors.New("JWT_SECRET must be set to at least 16 characters for persistent storage")
	}
	if c.JWTTTL <= 0 {
		return errors.New("JWT_TTL must be positive")
	}
	if c.WSSendRate <= 0 || c.WSSendBurst <= 0 {
		return errors.New("WS_SEND_RATE and WS_SEND_BURST must be positive")
	}
	return nil
}

// DSN returns DATABASE_URL when set, otherwise a URL built from the DB_* parts.
func (c *Config) DSN() string {
	if c.DatabaseURL != "" {
		return c.DatabaseURL
	}
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(c.DBUser, c.DBPassword),
		Host:     c.DBHost + ":" + c.DBPort,
		Path:     "/" + c.DBName,
		RawQuery: "sslmode=" + url.QueryEscape(c.DBSSLMode),
	}
	return u.String()
}

func (c *Config) GoogleEnabled() bool {
	return c.GoogleClientID != "" && c.GoogleClientSecret != ""
}

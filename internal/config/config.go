package config

import (
	"fmt"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

// Store drivers accepted by STORE_DRIVER.
const (
	DriverMongo    = "mongo"
	DriverPostgres = "postgres"
	DriverMemory   = "memory"
)

// StoreConfig selects the document store backend.
type StoreConfig struct {
	Driver         string `env:"STORE_DRIVER" env-default:"mongo"`
	PingTimeoutSec int    `env:"STORE_PING_TIMEOUT_SEC" env-default:"5"`
}

// PingTimeout returns the startup connectivity check limit.
func (c StoreConfig) PingTimeout() time.Duration {
	return time.Duration(c.PingTimeoutSec) * time.Second
}

// DatabaseConfig holds PostgreSQL database connection settings.
// URL, when set, takes precedence over the individual components.
type DatabaseConfig struct {
	URL                string `env:"DATABASE_URL"`
	Host               string `env:"DB_HOST"`
	Port               string `env:"DB_PORT" env-default:"5432"`
	User               string `env:"DB_USER"`
	Password           string `env:"DB_PASSWORD"`
	Name               string `env:"DB_NAME"`
	SSLMode            string `env:"DB_SSLMODE" env-default:"disable"`
	MaxOpenConns       int    `env:"DB_MAX_OPEN_CONNS" env-default:"10"`
	MaxIdleConns       int    `env:"DB_MAX_IDLE_CONNS" env-default:"5"`
	ConnMaxLifetimeSec int    `env:"DB_CONN_MAX_LIFETIME_SEC" env-default:"300"`
}

// MongoConfig holds MongoDB connection settings.
type MongoConfig struct {
	URI      string `env:"MONGO_URI" env-default:"mongodb://localhost:27017"`
	Database string `env:"MONGO_DATABASE" env-default:"school"`
}

// LogConfig controls the process logger.
type LogConfig struct {
	Level  string `env:"LOG_LEVEL" env-default:"info"`
	Format string `env:"LOG_FORMAT" env-default:"json"`
}

// CORSConfig controls cross-origin handling.
type CORSConfig struct {
	PreflightStatus int `env:"CORS_PREFLIGHT_STATUS" env-default:"200"`
}

// TracingConfig holds OpenTelemetry exporter settings.
type TracingConfig struct {
	Enabled     bool    `env:"TRACING_ENABLED" env-default:"false"`
	ServiceName string  `env:"OTEL_SERVICE_NAME" env-default:"schoolapi"`
	Protocol    string  `env:"OTEL_EXPORTER_OTLP_PROTOCOL" env-default:"grpc"`
	Sampler     string  `env:"OTEL_TRACES_SAMPLER" env-default:"parentbased_traceidratio"`
	SamplerArg  float64 `env:"OTEL_TRACES_SAMPLER_ARG" env-default:"1.0"`
}

// AppConfig is the centralized configuration struct for the application.
// It is populated from environment variables. Sensitive values are not hardcoded.
type AppConfig struct {
	AppHost            string `env:"APP_HOST" env-default:"localhost:3000"`
	Port               string `env:"PORT" env-default:"3000"`
	ShutdownTimeoutSec int    `env:"SHUTDOWN_TIMEOUT_SEC" env-default:"10"`

	Store    StoreConfig
	Database DatabaseConfig
	Mongo    MongoConfig
	Log      LogConfig
	CORS     CORSConfig
	Tracing  TracingConfig
}

// ShutdownTimeout returns the graceful drain limit.
func (c *AppConfig) ShutdownTimeout() time.Duration {
	return time.Duration(c.ShutdownTimeoutSec) * time.Second
}

// Load reads configuration from environment variables.
// A .env file can be auto-loaded by importing: _ "github.com/joho/godotenv/autoload"
// This function does not require a .env file; real environment variables take precedence.
func Load() (*AppConfig, error) {
	var cfg AppConfig
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *AppConfig) validate() error {
	switch c.Store.Driver {
	case DriverMongo, DriverPostgres, DriverMemory:
	default:
		return fmt.Errorf("invalid STORE_DRIVER %q: want mongo, postgres or memory", c.Store.Driver)
	}
	switch c.Log.Format {
	case "json", "console":
	default:
		return fmt.Errorf("invalid LOG_FORMAT %q: want json or console", c.Log.Format)
	}
	switch c.Tracing.Protocol {
	case "grpc", "http/protobuf":
	default:
		return fmt.Errorf("invalid OTEL_EXPORTER_OTLP_PROTOCOL %q: want grpc or http/protobuf", c.Tracing.Protocol)
	}
	if c.CORS.PreflightStatus < 200 || c.CORS.PreflightStatus > 299 {
		return fmt.Errorf("invalid CORS_PREFLIGHT_STATUS %d: want a 2xx status", c.CORS.PreflightStatus)
	}
	if c.Store.PingTimeoutSec <= 0 {
		return fmt.Errorf("invalid STORE_PING_TIMEOUT_SEC %d: must be positive", c.Store.PingTimeoutSec)
	}
	return nil
}

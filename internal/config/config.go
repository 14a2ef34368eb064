package config

import (
	"fmt"
	"net/url"

	pkgconfig "github.com/Jomkit/KitchenSync/pkg/config"
)

// Config holds all configuration for the service.
type Config struct {
	Environment string `env:"APP_ENV" envDefault:"development"`
	LogLevel    string `env:"LOG_LEVEL" envDefault:"info"`

	// HTTP server
	HTTPPort int `env:"HTTP_PORT" envDefault:"5000"`

	// PostgreSQL. DATABASE_URL wins when set; otherwise the URL is
	// assembled from the DB_* parts.
	DatabaseURL string `env:"DATABASE_URL"`
	DBHost      string `env:"DB_HOST" envDefault:"localhost"`
	DBPort      int    `env:"DB_PORT" envDefault:"5432"`
	DBName      string `env:"DB_NAME" envDefault:"kitchensync"`
	DBUser      string `env:"DB_USER" envDefault:"postgres"`
	DBPassword  string `env:"DB_PASSWORD" envDefault:"postgres"`
	DBSSLMode   string `env:"DB_SSLMODE"`

	// Database pool
	DBMaxConns            int32 `env:"DB_MAX_CONNS" envDefault:"25"`
	DBMinConns            int32 `env:"DB_MIN_CONNS" envDefault:"5"`
	DBMaxConnLifetimeMins int   `env:"DB_MAX_CONN_LIFETIME_MINUTES" envDefault:"60"`
	DBMaxConnIdleTimeMins int   `env:"DB_MAX_CONN_IDLE_TIME_MINUTES" envDefault:"30"`

	// Queries slower than this are logged as warnings. Zero disables it.
	DBSlowQueryThresholdMs int `env:"DB_SLOW_QUERY_THRESHOLD_MS" envDefault:"200"`

	// Auth
	JWTSecretKey         string `env:"JWT_SECRET_KEY" envDefault:"dev-change-me"`
	JWTAccessTTLMinutes  int    `env:"JWT_ACCESS_TOKEN_TTL_MINUTES" envDefault:"60"`
	InternalExpireSecret string `env:"INTERNAL_EXPIRE_SECRET" envDefault:"dev-internal-secret"`

	// Reservation runtime parameter seeds
	ReservationTTLSeconds     int `env:"RESERVATION_TTL_SECONDS" envDefault:"600"`
	ReservationWarningSeconds int `env:"RESERVATION_WARNING_THRESHOLD_SECONDS" envDefault:"60"`

	// Expiration sweeper
	ExpirationIntervalSeconds int  `env:"EXPIRATION_INTERVAL_SECONDS" envDefault:"30"`
	EnableExpirationJob       bool `env:"ENABLE_INPROCESS_EXPIRATION_JOB" envDefault:"true"`

	// Kafka
	KafkaEnabled bool     `env:"KAFKA_ENABLED" envDefault:"false"`
	KafkaBrokers []string `env:"KAFKA_BROKERS" envDefault:"localhost:9092" envSeparator:","`

	// CORS
	CORSAllowedOrigins []string `env:"CORS_ALLOWED_ORIGINS" envDefault:"*" envSeparator:","`

	// OpenTelemetry
	OTELEnabled    bool    `env:"OTEL_ENABLED" envDefault:"false"`
	OTELEndpoint   string  `env:"OTEL_EXPORTER_OTLP_ENDPOINT" envDefault:"localhost:4318"`
	OTELSampleRate float64 `env:"OTEL_SAMPLE_RATE" envDefault:"1.0"`
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := pkgconfig.Load(cfg); err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// validate checks configuration invariants.
func (c *Config) validate() error {
	if c.HTTPPort < 1 || c.HTTPPort > 65535 {
		return fmt.Errorf("invalid HTTP port: %d", c.HTTPPort)
	}
	if c.DatabaseURL == "" && c.DBHost == "" {
		return fmt.Errorf("DATABASE_URL or DB_HOST is required")
	}
	if c.DBSlowQueryThresholdMs < 0 {
		return fmt.Errorf("DB_SLOW_QUERY_THRESHOLD_MS must be >= 0, got %d", c.DBSlowQueryThresholdMs)
	}
	if c.ReservationTTLSeconds <= 0 {
		return fmt.Errorf("RESERVATION_TTL_SECONDS must be > 0, got %d", c.ReservationTTLSeconds)
	}
	if c.ReservationWarningSeconds <= 0 {
		return fmt.Errorf("RESERVATION_WARNING_THRESHOLD_SECONDS must be > 0, got %d", c.ReservationWarningSeconds)
	}
	if c.ExpirationIntervalSeconds <= 0 {
		return fmt.Errorf("EXPIRATION_INTERVAL_SECONDS must be > 0, got %d", c.ExpirationIntervalSeconds)
	}
	if c.KafkaEnabled && len(c.KafkaBrokers) == 0 {
		return fmt.Errorf("KAFKA_BROKERS is required when KAFKA_ENABLED is set")
	}
	if c.OTELSampleRate < 0 || c.OTELSampleRate > 1.0 {
		return fmt.Errorf("OTEL_SAMPLE_RATE must be between 0.0 and 1.0, got %f", c.OTELSampleRate)
	}
	return nil
}

// PostgresDSN returns the PostgreSQL connection string.
func (c *Config) PostgresDSN() string {
	if c.DatabaseURL != "" {
		return c.DatabaseURL
	}
	dsn := fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s",
		url.QueryEscape(c.DBUser), url.QueryEscape(c.DBPassword), c.DBHost, c.DBPort, c.DBName,
	)
	if c.DBSSLMode != "" {
		dsn += "?sslmode=" + url.QueryEscape(c.DBSSLMode)
	}
	return dsn
}

// IsDevelopment reports whether the service runs in development mode.
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

// IsTest reports whether the service runs under the test environment,
// where background jobs stay off.
func (c *Config) IsTest() bool {
	return c.Environment == "test"
}

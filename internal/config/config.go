package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v6"
)

const defaultJWTSecret = "your-secret-key-change-in-production"

// Config chứa toàn bộ application configuration
// Struct này được populate từ environment variables
type Config struct {
	App      AppConfig      `envPrefix:"APP_"`
	Database DatabaseConfig `envPrefix:"DB_"`
	Redis    RedisConfig    `envPrefix:"REDIS_"`
	JWT      JWTConfig      `envPrefix:"JWT_"`
	S3       S3Config       `envPrefix:"S3_"`
	CORS     CORSConfig     `envPrefix:"CORS_"`
	LogLevel string         `env:"LOG_LEVEL" envDefault:"info"`
}

type AppConfig struct {
	Name        string `env:"NAME" envDefault:"kinex-api"`
	Environment string `env:"ENV" envDefault:"development"` // development, staging, production
	Port        string `env:"PORT" envDefault:"5000"`
	Version     string `env:"VERSION" envDefault:"1.0.0"`
}

// DatabaseConfig chọn backend: postgres (production) hoặc sqlite (local/dev)
type DatabaseConfig struct {
	Driver     string `env:"DRIVER" envDefault:"postgres"`
	URL        string `env:"URL"` // override Host/Port/User/...
	SQLitePath string `env:"SQLITE_PATH" envDefault:"data/kinex.db"`

	Host     string `env:"HOST" envDefault:"localhost"`
	Port     int    `env:"PORT" envDefault:"5432"`
	User     string `env:"USER" envDefault:"kinex"`
	Password string `env:"PASSWORD" envDefault:"secret"`
	Name     string `env:"NAME" envDefault:"kinex_dev"`
	SSLMode  string `env:"SSLMODE" envDefault:"disable"`

	MaxConns          int32         `env:"MAX_CONNECTIONS" envDefault:"25"`
	MinConns          int32         `env:"MIN_CONNECTIONS" envDefault:"5"`
	MaxConnLifetime   time.Duration `env:"MAX_CONN_LIFETIME" envDefault:"5m"`
	MaxConnIdleTime   time.Duration `env:"MAX_CONN_IDLE_TIME" envDefault:"1m"`
	HealthCheckPeriod time.Duration `env:"HEALTH_CHECK_PERIOD" envDefault:"1m"`
	MaxRetries        int           `env:"MAX_RETRIES" envDefault:"5"`
	RetryDelay        time.Duration `env:"RETRY_DELAY" envDefault:"1s"`
	ConnectTimeout    time.Duration `env:"CONNECT_TIMEOUT" envDefault:"10s"`
}

type RedisConfig struct {
	Enabled  bool          `env:"ENABLED" envDefault:"true"`
	Host     string        `env:"HOST" envDefault:"localhost:6379"`
	Password string        `env:"PASSWORD"`
	DB       int           `env:"DB" envDefault:"0"`
	UserTTL  time.Duration `env:"USER_TTL" envDefault:"15m"`
}

// JWTConfig: token luôn hết hạn sau 7 ngày (jwt.DefaultExpiry)
type JWTConfig struct {
	Secret string `env:"SECRET" envDefault:"your-secret-key-change-in-production"`
}

// S3Config: AWS S3 hoặc bất kỳ endpoint S3-compatible nào (MinIO)
type S3Config struct {
	Endpoint      string `env:"ENDPOINT" envDefault:"s3.amazonaws.com"`
	Region        string `env:"REGION"`
	Bucket        string `env:"BUCKET"`
	AccessKey     string `env:"ACCESS_KEY"`
	SecretKey     string `env:"SECRET_KEY"`
	UseSSL        bool   `env:"USE_SSL" envDefault:"true"`
	PublicBaseURL string `env:"PUBLIC_BASE_URL"`
	ObjectACL     string `env:"OBJECT_ACL" envDefault:"public-read"`
	EnsureBucket  bool   `env:"ENSURE_BUCKET" envDefault:"false"` // tạo bucket lúc khởi động (MinIO local)
}

// Configured: đủ thông tin để ký presigned URL hay chưa
func (s S3Config) Configured() bool {
	return s.Region != "" && s.Bucket != "" && s.AccessKey != "" && s.SecretKey != ""
}

type CORSConfig struct {
	AllowedOrigins []string `env:"ALLOWED_ORIGINS" envSeparator:"," envDefault:"http://localhost:5173"`
}

// Load đọc config từ environment variables
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}

	// Validate critical config
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// Validate kiểm tra các giá trị bắt buộc
func (c *Config) Validate() error {
	if c.App.Port == "" {
		return fmt.Errorf("APP_PORT is required")
	}

	switch c.Database.Driver {
	case "postgres", "sqlite":
	default:
		return fmt.Errorf("unsupported DB_DRIVER %q (postgres|sqlite)", c.Database.Driver)
	}

	if c.JWT.Secret == "" {
		return fmt.Errorf("JWT_SECRET is required")
	}
	if c.IsProduction() && c.JWT.Secret == defaultJWTSecret {
		return fmt.Errorf("JWT_SECRET must be changed in production")
	}

	return nil
}

func (c *Config) IsProduction() bool {
	return c.App.Environment == "production"
}

func (c *Config) IsDevelopment() bool {
	return c.App.Environment == "development"
}

package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	t.Setenv("APP_ENV", "staging")
	t.Setenv("DB_DRIVER", "sqlite")
	t.Setenv("DB_SQLITE_PATH", "/tmp/kinex-test.db")
	t.Setenv("REDIS_ENABLED", "false")
	t.Setenv("JWT_SECRET", "s3cret")
	t.Setenv("CORS_ALLOWED_ORIGINS", "http://a.test,http://b.test")
	t.Setenv("S3_REGION", "us-east-1")
	t.Setenv("S3_BUCKET", "kinex")
	t.Setenv("S3_ACCESS_KEY", "ak")
	t.Setenv("S3_SECRET_KEY", "sk")
	t.Setenv("S3_ENSURE_BUCKET", "true")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "staging", cfg.App.Environment)
	assert.False(t, cfg.IsProduction())
	assert.False(t, cfg.IsDevelopment())
	assert.Equal(t, "sqlite", cfg.Database.Driver)
	assert.Equal(t, "/tmp/kinex-test.db", cfg.Database.SQLitePath)
	assert.False(t, cfg.Redis.Enabled)
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, cfg.CORS.AllowedOrigins)
	assert.True(t, cfg.S3.Configured())
	assert.True(t, cfg.S3.EnsureBucket)
	assert.Equal(t, "public-read", cfg.S3.ObjectACL)
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		return &Config{
			App:      AppConfig{Port: "5000", Environment: "development"},
			Database: DatabaseConfig{Driver: "postgres"},
			JWT:      JWTConfig{Secret: "s"},
		}
	}
	require.NoError(t, valid().Validate())

	tests := []struct {
		name   string
		mutate func(c *Config)
		want   string
	}{
		{"missing port", func(c *Config) { c.App.Port = "" }, "APP_PORT"},
		{"unknown driver", func(c *Config) { c.Database.Driver = "mysql" }, "DB_DRIVER"},
		{"missing secret", func(c *Config) { c.JWT.Secret = "" }, "JWT_SECRET is required"},
		{"default secret in production", func(c *Config) {
			c.App.Environment = "production"
			c.JWT.Secret = defaultJWTSecret
		}, "must be changed"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := valid()
			tt.mutate(c)
			err := c.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestLoadDatabaseConfig(t *testing.T) {
	c := &Config{Database: DatabaseConfig{
		URL:        "postgres://u:p@db:5432/kinex",
		MaxRetries: 3,
		MinConns:   2,
		MaxConns:   10,
	}}
	dbCfg, err := c.LoadDatabaseConfig()
	require.NoError(t, err)
	assert.Equal(t, "postgres://u:p@db:5432/kinex", dbCfg.URL)
	assert.Equal(t, int32(10), dbCfg.MaxConns)

	c.Database.MinConns = 20
	_, err = c.LoadDatabaseConfig()
	assert.Error(t, err)

	c.Database.MinConns = 2
	c.Database.MaxRetries = 0
	_, err = c.LoadDatabaseConfig()
	assert.Error(t, err)
}

func TestS3Configured(t *testing.T) {
	assert.False(t, S3Config{Bucket: "b"}.Configured())
	assert.True(t, S3Config{Region: "r", Bucket: "b", AccessKey: "a", SecretKey: "s"}.Configured())
}

package main

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"kinex-backend/internal/config"
)

func TestLoadConfig(t *testing.T) {
	app := &config.Config{
		Redis: config.RedisConfig{Host: "redis:6380", Password: "pw", DB: 2},
	}

	cfg := loadConfig(app)
	assert.Equal(t, "redis:6380", cfg.RedisAddr)
	assert.Equal(t, "pw", cfg.RedisPassword)
	assert.Equal(t, 2, cfg.RedisDB)
	assert.Equal(t, 5, cfg.Concurrency)
	assert.Equal(t, ":9999", cfg.HealthAddr)
}

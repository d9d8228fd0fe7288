package main

import (
	"kinex-backend/internal/config"
	"kinex-backend/pkg/logger"
)

// Config holds all configuration for the worker
type Config struct {
	RedisAddr     string
	RedisPassword string
	RedisDB       int
	Concurrency   int
	HealthAddr    string
}

// loadConfig derives worker settings from the shared application config
func loadConfig(app *config.Config) *Config {
	cfg := &Config{
		RedisAddr:     app.Redis.Host,
		RedisPassword: app.Redis.Password,
		RedisDB:       app.Redis.DB,
		Concurrency:   5,
		HealthAddr:    ":9999",
	}

	logger.Info("[Config] Worker configured", map[string]interface{}{
		"redis":       cfg.RedisAddr,
		"redis_db":    cfg.RedisDB,
		"concurrency": cfg.Concurrency,
	})
	return cfg
}

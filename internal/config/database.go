package config

import (
	"fmt"

	"kinex-backend/internal/infrastructure/database"
)

// LoadDatabaseConfig chuyển DatabaseConfig sang DBConfig của infrastructure layer
func (c *Config) LoadDatabaseConfig() (*database.DBConfig, error) {
	d := c.Database
	if d.MaxRetries < 1 {
		return nil, fmt.Errorf("invalid DB_MAX_RETRIES: %d", d.MaxRetries)
	}
	if d.MinConns > d.MaxConns {
		return nil, fmt.Errorf("DB_MIN_CONNECTIONS (%d) > DB_MAX_CONNECTIONS (%d)", d.MinConns, d.MaxConns)
	}

	return &database.DBConfig{
		URL:               d.URL,
		Host:              d.Host,
		Port:              d.Port,
		Username:          d.User,
		Password:          d.Password,
		DBName:            d.Name,
		SSLMode:           d.SSLMode,
		MaxConns:          d.MaxConns,
		MinConns:          d.MinConns,
		MaxConnLifetime:   d.MaxConnLifetime,
		MaxConnIdleTime:   d.MaxConnIdleTime,
		HealthCheckPeriod: d.HealthCheckPeriod,
		MaxRetries:        d.MaxRetries,
		RetryDelay:        d.RetryDelay,
		ConnectTimeout:    d.ConnectTimeout,
	}, nil
}

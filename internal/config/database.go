package config

import "bookreview-backend/internal/infrastructure/database"

// LoadDatabaseConfig maps the database section onto the pool settings.
func LoadDatabaseConfig(cfg *Config) *database.DBConfig {
	db := cfg.Database
	return &database.DBConfig{
		Host:              db.Host,
		Port:              db.Port,
		Username:          db.User,
		Password:          db.Password,
		DBName:            db.Name,
		SSLMode:           db.SSLMode,
		MaxConns:          int32(db.MaxConns),
		MinConns:          int32(db.MinConns),
		MaxConnLifetime:   db.MaxConnLifetime,
		MaxConnIdleTime:   db.MaxConnIdleTime,
		HealthCheckPeriod: db.HealthCheckPeriod,
		MaxRetries:        db.MaxRetries,
		RetryDelay:        db.RetryDelay,
		ConnectTimeout:    db.ConnectTimeout,
	}
}

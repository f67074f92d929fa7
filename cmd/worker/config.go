package main

import (
	"fmt"
	"log"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config holds the worker-only settings. Everything shared with the API
// (database, redis, search backend) comes from the catalog config.
type Config struct {
	Concurrency       int           `env:"WORKER_CONCURRENCY"       envDefault:"10"`
	HealthPort        string        `env:"WORKER_HEALTH_PORT"       envDefault:"9999"`
	ShutdownTimeout   time.Duration `env:"WORKER_SHUTDOWN_TIMEOUT"  envDefault:"30s"`
	SchedulerEnabled  bool          `env:"WORKER_SCHEDULER_ENABLED" envDefault:"true"`
	SearchWeight      int           `env:"WORKER_QUEUE_SEARCH"      envDefault:"6"`
	MaintenanceWeight int           `env:"WORKER_QUEUE_MAINTENANCE" envDefault:"2"`
}

// loadConfig parses WORKER_* variables
func loadConfig() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("worker config: failed to parse environment variables: %w", err)
	}
	if cfg.Concurrency < 1 {
		return nil, fmt.Errorf("worker config: WORKER_CONCURRENCY must be positive")
	}

	log.Printf("[Config] Concurrency: %d, Health port: %s, Scheduler: %t",
		cfg.Concurrency, cfg.HealthPort, cfg.SchedulerEnabled)

	return cfg, nil
}

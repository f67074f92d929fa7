package main

import (
	"log"

	"bookreview-backend/internal/config"
	"bookreview-backend/internal/infrastructure/queue"
	"bookreview-backend/pkg/container"
)

// asynqScheduler wraps queue.Scheduler with start/stop logging
type asynqScheduler struct {
	*queue.Scheduler
}

// setupScheduler registers the periodic jobs and starts the scheduler
func setupScheduler(catalogCfg *config.Config) *asynqScheduler {
	scheduler := queue.NewScheduler(container.RedisClientOpt(catalogCfg.Redis), catalogCfg.Queue.ReconcileCron)

	if err := scheduler.RegisterJobs(); err != nil {
		log.Fatalf("[Scheduler] Failed to register: %v", err)
	}

	go func() {
		log.Println("[Scheduler] Starting...")
		if err := scheduler.Start(); err != nil {
			log.Fatalf("[Scheduler] Failed: %v", err)
		}
	}()

	return &asynqScheduler{Scheduler: scheduler}
}

// Shutdown gracefully shuts down the scheduler
func (s *asynqScheduler) Shutdown() {
	log.Println("[Scheduler] Shutting down...")
	s.Scheduler.Shutdown()
	log.Println("[Scheduler] ✓ Stopped")
}

package main

import (
	"context"
	"log"
	"time"

	"github.com/hibiken/asynq"

	"bookreview-backend/internal/config"
	"bookreview-backend/internal/shared"
	"bookreview-backend/pkg/container"
)

// asynqServer wraps asynq.Server with a bounded shutdown
type asynqServer struct {
	*asynq.Server
	shutdownTimeout time.Duration
}

// setupAsynqServer creates the server, registers the handlers and starts it
func setupAsynqServer(catalogCfg *config.Config, cfg *Config, handlers *HandlerRegistry) *asynqServer {
	mux := asynq.NewServeMux()
	handlers.RegisterHandlers(mux)

	srv := asynq.NewServer(
		container.RedisClientOpt(catalogCfg.Redis),
		asynq.Config{
			Queues: map[string]int{
				shared.QueueSearch:      cfg.SearchWeight,
				shared.QueueMaintenance: cfg.MaintenanceWeight,
			},
			Concurrency:     cfg.Concurrency,
			ShutdownTimeout: cfg.ShutdownTimeout,
			ErrorHandler: asynq.ErrorHandlerFunc(func(ctx context.Context, task *asynq.Task, err error) {
				log.Printf("[Asynq] ❌ Task failed - Type: %s, Error: %v", task.Type(), err)
			}),
		},
	)

	go func() {
		log.Println("[Worker] Starting...")
		if err := srv.Run(mux); err != nil {
			log.Fatalf("[Worker] Failed: %v", err)
		}
	}()

	return &asynqServer{Server: srv, shutdownTimeout: cfg.ShutdownTimeout}
}

// Shutdown stops taking tasks and waits for in-flight ones up to the timeout
func (s *asynqServer) Shutdown() {
	log.Printf("[Worker] Shutting down (waiting max %s)...", s.shutdownTimeout)

	done := make(chan struct{})
	go func() {
		s.Server.Shutdown()
		close(done)
	}()

	select {
	case <-done:
		log.Println("[Worker] ✓ Gracefully stopped")
	case <-time.After(s.shutdownTimeout + 5*time.Second):
		log.Println("[Worker] ⚠️ Shutdown timeout exceeded")
	}
}

package queue

import (
	"encoding/json"
	"time"

	"github.com/hibiken/asynq"

	"bookreview-backend/internal/shared"
	"bookreview-backend/pkg/logger"
)

type Scheduler struct {
	scheduler     *asynq.Scheduler
	reconcileCron string
}

func NewScheduler(redisOpt asynq.RedisClientOpt, reconcileCron string) *Scheduler {
	scheduler := asynq.NewScheduler(
		redisOpt,
		&asynq.SchedulerOpts{
			Location: time.UTC,
			LogLevel: asynq.InfoLevel,
		},
	)

	return &Scheduler{
		scheduler:     scheduler,
		reconcileCron: reconcileCron,
	}
}

// RegisterJobs registers every periodic job.
func (s *Scheduler) RegisterJobs() error {
	return s.registerReconcileSaleTotalsJob()
}

// ================================================
// Reconcile book total_sales with the sales rows
// ================================================
func (s *Scheduler) registerReconcileSaleTotalsJob() error {
	payload, err := json.Marshal(shared.ReconcileSaleTotalsPayload{Trigger: "schedule"})
	if err != nil {
		return err
	}

	task := asynq.NewTask(shared.TypeReconcileSaleTotals, payload)

	_, err = s.scheduler.Register(
		s.reconcileCron,
		task,
		asynq.Queue(shared.QueueMaintenance),
		asynq.MaxRetry(1),
		asynq.Timeout(10*time.Minute),
	)
	if err != nil {
		logger.Error("Failed to register ReconcileSaleTotals job", err)
		return err
	}

	logger.Info("✓ Registered ReconcileSaleTotals", map[string]interface{}{"cron": s.reconcileCron})
	return nil
}

func (s *Scheduler) Start() error {
	return s.scheduler.Run()
}

func (s *Scheduler) Shutdown() {
	s.scheduler.Shutdown()
}

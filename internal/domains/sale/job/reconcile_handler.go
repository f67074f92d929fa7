package job

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/hibiken/asynq"

	"bookreview-backend/internal/shared"
	"bookreview-backend/pkg/logger"
)

// Reconciler is satisfied by the sale service.
type Reconciler interface {
	ReconcileAll(ctx context.Context) (int64, error)
}

// ReconcileHandler heals total_sales drift left by failed or racing recomputes.
type ReconcileHandler struct {
	reconciler Reconciler
}

func NewReconcileHandler(reconciler Reconciler) *ReconcileHandler {
	return &ReconcileHandler{reconciler: reconciler}
}

func (h *ReconcileHandler) ProcessTask(ctx context.Context, t *asynq.Task) error {
	var payload shared.ReconcileSaleTotalsPayload
	if len(t.Payload()) > 0 {
		if err := json.Unmarshal(t.Payload(), &payload); err != nil {
			return fmt.Errorf("unmarshal payload: %v: %w", err, asynq.SkipRetry)
		}
	}

	logger.Info("Reconciling book sales totals", map[string]interface{}{
		"trigger": payload.Trigger,
	})

	start := time.Now()
	changed, err := h.reconciler.ReconcileAll(ctx)
	if err != nil {
		logger.Error("Failed to reconcile sales totals", err)
		return fmt.Errorf("reconcile sales totals: %w", err)
	}

	logger.Info("Reconciled book sales totals", map[string]interface{}{
		"books_changed": changed,
		"duration_ms":   time.Since(start).Milliseconds(),
	})

	return nil
}

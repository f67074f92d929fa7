package job

import (
	"context"
	"errors"
	"testing"

	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/assert"

	"bookreview-backend/internal/shared"
)

type stubReconciler struct {
	changed int64
	err     error
	calls   int
}

func (s *stubReconciler) ReconcileAll(context.Context) (int64, error) {
	s.calls++
	return s.changed, s.err
}

func TestReconcileHandler_RunsReconcile(t *testing.T) {
	stub := &stubReconciler{changed: 3}
	h := NewReconcileHandler(stub)

	err := h.ProcessTask(context.Background(),
		asynq.NewTask(shared.TypeReconcileSaleTotals, []byte(`{"trigger":"schedule"}`)))

	assert.NoError(t, err)
	assert.Equal(t, 1, stub.calls)
}

func TestReconcileHandler_EmptyPayload(t *testing.T) {
	stub := &stubReconciler{}

	err := NewReconcileHandler(stub).ProcessTask(context.Background(),
		asynq.NewTask(shared.TypeReconcileSaleTotals, nil))

	assert.NoError(t, err)
	assert.Equal(t, 1, stub.calls)
}

func TestReconcileHandler_MalformedPayloadSkipsRetry(t *testing.T) {
	stub := &stubReconciler{}

	err := NewReconcileHandler(stub).ProcessTask(context.Background(),
		asynq.NewTask(shared.TypeReconcileSaleTotals, []byte(`{`)))

	assert.ErrorIs(t, err, asynq.SkipRetry)
	assert.Zero(t, stub.calls)
}

func TestReconcileHandler_PropagatesFailure(t *testing.T) {
	stub := &stubReconciler{err: errors.New("db down")}

	err := NewReconcileHandler(stub).ProcessTask(context.Background(),
		asynq.NewTask(shared.TypeReconcileSaleTotals, nil))

	assert.Error(t, err)
	assert.NotErrorIs(t, err, asynq.SkipRetry)
}

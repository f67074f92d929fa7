package job

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
	"github.com/rs/zerolog/log"

	"bookreview-backend/internal/infrastructure/search"
	"bookreview-backend/internal/shared"
)

// SyncHandler applies queued index writes to the concrete index.
// Upserts re-read the row from source, so a retried task that runs after a later
// update or delete of the same entity writes the current state, never the queued one.
type SyncHandler struct {
	index  search.Index
	source search.Source
}

func NewSyncHandler(index search.Index, source search.Source) *SyncHandler {
	return &SyncHandler{index: index, source: source}
}

// ProcessTask handles every search:* task type.
// Malformed payloads are not retried.
func (h *SyncHandler) ProcessTask(ctx context.Context, task *asynq.Task) error {
	var err error
	switch task.Type() {
	case shared.TypeSearchUpsertBook:
		err = h.upsertBook(ctx, task.Payload())
	case shared.TypeSearchDeleteBook:
		err = h.delete(ctx, task.Payload(), h.index.DeleteBook)
	case shared.TypeSearchUpsertReview:
		err = h.upsertReview(ctx, task.Payload())
	case shared.TypeSearchDeleteReview:
		err = h.delete(ctx, task.Payload(), h.index.DeleteReview)
	default:
		return fmt.Errorf("unexpected task type %s: %w", task.Type(), asynq.SkipRetry)
	}

	if err != nil {
		log.Error().Err(err).Str("task", task.Type()).Msg("Search sync failed")
		return err
	}

	log.Debug().Str("task", task.Type()).Msg("Search document synced")
	return nil
}

func (h *SyncHandler) upsertBook(ctx context.Context, raw []byte) error {
	var payload shared.SearchBookPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		return fmt.Errorf("unmarshal payload: %v: %w", err, asynq.SkipRetry)
	}
	queued, err := search.BookDocumentFromPayload(payload)
	if err != nil {
		return fmt.Errorf("%v: %w", err, asynq.SkipRetry)
	}

	doc, found, err := h.source.BookDocument(ctx, queued.ID)
	if err != nil {
		return err
	}
	if !found {
		log.Debug().Str("book_id", queued.ID.String()).Msg("Book gone, dropping its documents")
		return h.index.DeleteBook(ctx, queued.ID)
	}
	return h.index.UpsertBook(ctx, doc)
}

func (h *SyncHandler) upsertReview(ctx context.Context, raw []byte) error {
	var payload shared.SearchReviewPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		return fmt.Errorf("unmarshal payload: %v: %w", err, asynq.SkipRetry)
	}
	queued, err := search.ReviewDocumentFromPayload(payload)
	if err != nil {
		return fmt.Errorf("%v: %w", err, asynq.SkipRetry)
	}

	doc, found, err := h.source.ReviewDocument(ctx, queued.ID)
	if err != nil {
		return err
	}
	if !found {
		log.Debug().Str("review_id", queued.ID.String()).Msg("Review gone, dropping its document")
		return h.index.DeleteReview(ctx, queued.ID)
	}
	return h.index.UpsertReview(ctx, doc)
}

func (h *SyncHandler) delete(ctx context.Context, raw []byte, del func(context.Context, uuid.UUID) error) error {
	var payload shared.SearchDeletePayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		return fmt.Errorf("unmarshal payload: %v: %w", err, asynq.SkipRetry)
	}
	id, err := uuid.Parse(payload.ID)
	if err != nil {
		return fmt.Errorf("invalid id %q: %v: %w", payload.ID, err, asynq.SkipRetry)
	}
	return del(ctx, id)
}

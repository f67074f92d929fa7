package search

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"

	"bookreview-backend/internal/infrastructure/queue"
	"bookreview-backend/internal/shared"
)

// QueuedIndex defers index writes to the worker; Search stays synchronous on inner.
type QueuedIndex struct {
	enqueuer queue.Enqueuer
	inner    Index
}

func NewQueuedIndex(enqueuer queue.Enqueuer, inner Index) *QueuedIndex {
	return &QueuedIndex{enqueuer: enqueuer, inner: inner}
}

func (q *QueuedIndex) UpsertBook(ctx context.Context, doc BookDocument) error {
	return q.enqueue(ctx, shared.TypeSearchUpsertBook, BookPayload(doc))
}

func (q *QueuedIndex) DeleteBook(ctx context.Context, bookID uuid.UUID) error {
	return q.enqueue(ctx, shared.TypeSearchDeleteBook, shared.SearchDeletePayload{ID: bookID.String()})
}

func (q *QueuedIndex) UpsertReview(ctx context.Context, doc ReviewDocument) error {
	return q.enqueue(ctx, shared.TypeSearchUpsertReview, ReviewPayload(doc))
}

func (q *QueuedIndex) DeleteReview(ctx context.Context, reviewID uuid.UUID) error {
	return q.enqueue(ctx, shared.TypeSearchDeleteReview, shared.SearchDeletePayload{ID: reviewID.String()})
}

func (q *QueuedIndex) Search(ctx context.Context, query string, limit int) ([]Hit, error) {
	return q.inner.Search(ctx, query, limit)
}

func (q *QueuedIndex) enqueue(ctx context.Context, taskType string, payload any) error {
	task, err := queue.NewTask(taskType, payload)
	if err != nil {
		return err
	}
	if _, err := q.enqueuer.EnqueueContext(ctx, task, asynq.Queue(shared.QueueSearch), asynq.MaxRetry(5)); err != nil {
		return fmt.Errorf("enqueue %s: %w", taskType, err)
	}
	return nil
}

// BookPayload converts a document to its task payload.
func BookPayload(doc BookDocument) shared.SearchBookPayload {
	return shared.SearchBookPayload{
		BookID:          doc.ID.String(),
		Title:           doc.Title,
		Summary:         doc.Summary,
		AuthorName:      doc.AuthorName,
		PublicationDate: doc.PublicationDate,
	}
}

// BookDocumentFromPayload is the inverse of BookPayload.
func BookDocumentFromPayload(p shared.SearchBookPayload) (BookDocument, error) {
	id, err := uuid.Parse(p.BookID)
	if err != nil {
		return BookDocument{}, fmt.Errorf("invalid book id %q: %w", p.BookID, err)
	}
	return BookDocument{
		ID:              id,
		Title:           p.Title,
		Summary:         p.Summary,
		AuthorName:      p.AuthorName,
		PublicationDate: p.PublicationDate,
	}, nil
}

// ReviewPayload converts a document to its task payload.
func ReviewPayload(doc ReviewDocument) shared.SearchReviewPayload {
	return shared.SearchReviewPayload{
		ReviewID: doc.ID.String(),
		BookID:   doc.BookID.String(),
		Text:     doc.Text,
		Score:    doc.Score,
	}
}

// ReviewDocumentFromPayload is the inverse of ReviewPayload.
func ReviewDocumentFromPayload(p shared.SearchReviewPayload) (ReviewDocument, error) {
	id, err := uuid.Parse(p.ReviewID)
	if err != nil {
		return ReviewDocument{}, fmt.Errorf("invalid review id %q: %w", p.ReviewID, err)
	}
	bookID, err := uuid.Parse(p.BookID)
	if err != nil {
		return ReviewDocument{}, fmt.Errorf("invalid book id %q: %w", p.BookID, err)
	}
	return ReviewDocument{ID: id, BookID: bookID, Text: p.Text, Score: p.Score}, nil
}

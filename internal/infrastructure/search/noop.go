package search

import (
	"context"

	"github.com/google/uuid"
)

// NoopIndex is used when no search engine is configured.
type NoopIndex struct{}

func NewNoopIndex() NoopIndex { return NoopIndex{} }

func (NoopIndex) UpsertBook(context.Context, BookDocument) error     { return nil }
func (NoopIndex) DeleteBook(context.Context, uuid.UUID) error        { return nil }
func (NoopIndex) UpsertReview(context.Context, ReviewDocument) error { return nil }
func (NoopIndex) DeleteReview(context.Context, uuid.UUID) error      { return nil }

// Search always returns an empty result.
func (NoopIndex) Search(context.Context, string, int) ([]Hit, error) {
	return []Hit{}, nil
}

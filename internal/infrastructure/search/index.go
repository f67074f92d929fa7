// Package search holds the full-text index that mirrors books and reviews.
package search

import (
	"context"
	"time"

	"github.com/google/uuid"
)

type Kind string

const (
	KindBook   Kind = "book"
	KindReview Kind = "review"

	defaultSearchLimit = 20
	maxSearchLimit     = 100
)

// BookDocument is the indexed projection of a book.
type BookDocument struct {
	ID              uuid.UUID
	Title           string
	Summary         string
	AuthorName      string
	PublicationDate *time.Time
}

// ReviewDocument is the indexed projection of a review.
type ReviewDocument struct {
	ID     uuid.UUID
	BookID uuid.UUID
	Text   string
	Score  int
}

// Hit is one ranked search result.
type Hit struct {
	ID     uuid.UUID `json:"id"`
	Kind   Kind      `json:"kind"`
	BookID uuid.UUID `json:"book_id"`
	Score  float64   `json:"score"`
}

// Index mirrors catalog writes into a search engine.
// DeleteBook also removes the documents of the book's reviews.
type Index interface {
	UpsertBook(ctx context.Context, doc BookDocument) error
	DeleteBook(ctx context.Context, bookID uuid.UUID) error
	UpsertReview(ctx context.Context, doc ReviewDocument) error
	DeleteReview(ctx context.Context, reviewID uuid.UUID) error
	Search(ctx context.Context, query string, limit int) ([]Hit, error)
}

func normalizeLimit(limit int) int {
	if limit <= 0 {
		return defaultSearchLimit
	}
	if limit > maxSearchLimit {
		return maxSearchLimit
	}
	return limit
}

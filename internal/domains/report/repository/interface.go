package repository

import (
	"context"

	"github.com/google/uuid"

	"bookreview-backend/internal/domains/report/model"
)

// Aggregator computes the derived catalog views straight from the tables.
// Every call is a fresh read. Nothing here touches the cache.
type Aggregator interface {
	// GetAuthorsSummary returns every author ordered by name
	GetAuthorsSummary(ctx context.Context) ([]model.AuthorSummary, error)

	// GetTopRatedBooks returns the reviewed books with the best average score
	GetTopRatedBooks(ctx context.Context) ([]model.TopRatedBook, error)

	// GetTopSellingBooks returns the books with the most units sold
	GetTopSellingBooks(ctx context.Context) ([]model.TopSellingBook, error)

	// SearchBooks matches every whitespace token against title or summary
	SearchBooks(ctx context.Context, query string, page, perPage int) (*model.PaginatedSearchResults, error)

	// GetBookAverageScore returns model.ErrBookNotFound for an unknown book
	GetBookAverageScore(ctx context.Context, bookID uuid.UUID) (*model.BookScore, error)
}

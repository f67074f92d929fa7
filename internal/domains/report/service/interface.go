package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"bookreview-backend/internal/domains/report/model"
	"bookreview-backend/internal/infrastructure/search"
)

// ServiceInterface - read-side catalog views
type ServiceInterface interface {
	// Cached
	AuthorsSummary(ctx context.Context) ([]model.AuthorSummary, error)
	BookAverageScore(ctx context.Context, bookID uuid.UUID) (*model.BookScore, error)
	SearchBooks(ctx context.Context, query string, page, perPage int) (*model.PaginatedSearchResults, error)

	// Always computed
	TopRatedBooks(ctx context.Context) ([]model.TopRatedBook, error)
	TopSellingBooks(ctx context.Context) ([]model.TopSellingBook, error)
	ExportTopSelling(ctx context.Context) (*model.TopSellingExport, error)

	// IndexSearch queries the search index directly
	IndexSearch(ctx context.Context, query string, limit int) ([]search.Hit, error)
}

// TTLs per cached view
type TTLs struct {
	AuthorsSummary time.Duration
	BookAvgScore   time.Duration
	Search         time.Duration
}

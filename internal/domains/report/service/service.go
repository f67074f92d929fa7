package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"bookreview-backend/internal/domains/report/model"
	"bookreview-backend/internal/domains/report/repository"
	"bookreview-backend/internal/infrastructure/search"
	"bookreview-backend/internal/invalidation"
	"bookreview-backend/internal/shared/utils"
	"bookreview-backend/pkg/cache"
)

type ReportService struct {
	aggregator repository.Aggregator
	reads      *cache.ReadThrough
	index      search.Index
	ttl        TTLs
	now        func() time.Time
}

func NewReportService(
	aggregator repository.Aggregator,
	reads *cache.ReadThrough,
	index search.Index,
	ttl TTLs,
) ServiceInterface {
	return &ReportService{
		aggregator: aggregator,
		reads:      reads,
		index:      index,
		ttl:        ttl,
		now:        time.Now,
	}
}

// =====================================================
// CACHED VIEWS
// =====================================================

func (s *ReportService) AuthorsSummary(ctx context.Context) ([]model.AuthorSummary, error) {
	return cache.Read[[]model.AuthorSummary](ctx, s.reads, invalidation.AuthorsSummaryKey, s.ttl.AuthorsSummary,
		s.aggregator.GetAuthorsSummary)
}

func (s *ReportService) BookAverageScore(ctx context.Context, bookID uuid.UUID) (*model.BookScore, error) {
	score, err := cache.Read[model.BookScore](ctx, s.reads, invalidation.BookAvgScoreKey(bookID), s.ttl.BookAvgScore,
		func(ctx context.Context) (model.BookScore, error) {
			score, err := s.aggregator.GetBookAverageScore(ctx, bookID)
			if err != nil {
				return model.BookScore{}, err
			}
			return *score, nil
		})
	if err != nil {
		return nil, err
	}
	return &score, nil
}

// SearchBooks - a query without tokens is answered without the cache or the database
func (s *ReportService) SearchBooks(ctx context.Context, query string, page, perPage int) (*model.PaginatedSearchResults, error) {
	if perPage < 1 {
		perPage = model.DefaultSearchPerPage
	}
	if perPage > model.MaxSearchPerPage {
		perPage = model.MaxSearchPerPage
	}
	if page < 1 {
		page = 1
	}

	if len(utils.SearchTokens(query)) == 0 {
		return model.EmptySearchResults(query, perPage), nil
	}

	key := invalidation.SearchKey(query, page, perPage)
	results, err := cache.Read[model.PaginatedSearchResults](ctx, s.reads, key, s.ttl.Search,
		func(ctx context.Context) (model.PaginatedSearchResults, error) {
			res, err := s.aggregator.SearchBooks(ctx, query, page, perPage)
			if err != nil {
				return model.PaginatedSearchResults{}, err
			}
			return *res, nil
		})
	if err != nil {
		return nil, err
	}

	// equivalent queries share an entry, echo the caller's spelling
	results.Query = query
	return &results, nil
}

// =====================================================
// UNCACHED VIEWS
// =====================================================

func (s *ReportService) TopRatedBooks(ctx context.Context) ([]model.TopRatedBook, error) {
	return s.aggregator.GetTopRatedBooks(ctx)
}

func (s *ReportService) TopSellingBooks(ctx context.Context) ([]model.TopSellingBook, error) {
	return s.aggregator.GetTopSellingBooks(ctx)
}

func (s *ReportService) IndexSearch(ctx context.Context, query string, limit int) ([]search.Hit, error) {
	hits, err := s.index.Search(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("search index: %w", err)
	}
	if hits == nil {
		hits = []search.Hit{}
	}
	return hits, nil
}

// =====================================================
// EXPORT
// =====================================================

func (s *ReportService) ExportTopSelling(ctx context.Context) (*model.TopSellingExport, error) {
	// Step 1: Fresh data
	books, err := s.aggregator.GetTopSellingBooks(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load top selling books: %w", err)
	}

	// Step 2: Workbook
	content, err := buildTopSellingWorkbook(books)
	if err != nil {
		return nil, fmt.Errorf("failed to build excel file: %w", err)
	}

	generatedAt := s.now().UTC()
	log.Info().Int("rows", len(books)).Msg("top selling report exported")

	return &model.TopSellingExport{
		FileName:    fmt.Sprintf("top-selling-%s.xlsx", generatedAt.Format("20060102-150405")),
		GeneratedAt: generatedAt,
		Rows:        len(books),
		Content:     content,
	}, nil
}

// IsNotFound reports whether err means the requested book does not exist.
func IsNotFound(err error) bool {
	return errors.Is(err, model.ErrBookNotFound)
}

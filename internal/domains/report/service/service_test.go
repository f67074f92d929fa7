package service

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"bookreview-backend/internal/domains/report/model"
	"bookreview-backend/internal/infrastructure/search"
	"bookreview-backend/internal/invalidation"
	"bookreview-backend/pkg/cache"
)

type MockAggregator struct {
	mock.Mock
}

func (m *MockAggregator) GetAuthorsSummary(ctx context.Context) ([]model.AuthorSummary, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.AuthorSummary), args.Error(1)
}

func (m *MockAggregator) GetTopRatedBooks(ctx context.Context) ([]model.TopRatedBook, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.TopRatedBook), args.Error(1)
}

func (m *MockAggregator) GetTopSellingBooks(ctx context.Context) ([]model.TopSellingBook, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.TopSellingBook), args.Error(1)
}

func (m *MockAggregator) SearchBooks(ctx context.Context, query string, page, perPage int) (*model.PaginatedSearchResults, error) {
	args := m.Called(ctx, query, page, perPage)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.PaginatedSearchResults), args.Error(1)
}

func (m *MockAggregator) GetBookAverageScore(ctx context.Context, bookID uuid.UUID) (*model.BookScore, error) {
	args := m.Called(ctx, bookID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.BookScore), args.Error(1)
}

var testTTLs = TTLs{
	AuthorsSummary: 5 * time.Minute,
	BookAvgScore:   2 * time.Minute,
	Search:         5 * time.Minute,
}

func setup(t *testing.T) (ServiceInterface, *MockAggregator, *cache.MemoryCache) {
	t.Helper()
	c, err := cache.NewMemoryCache(cache.DefaultMemoryConfig())
	require.NoError(t, err)

	agg := new(MockAggregator)
	svc := NewReportService(agg, cache.NewReadThrough(c), search.NewNoopIndex(), testTTLs)
	return svc, agg, c
}

func TestAuthorsSummary_CachedUntilInvalidated(t *testing.T) {
	svc, agg, c := setup(t)
	ctx := context.Background()
	summary := []model.AuthorSummary{{AuthorID: uuid.New(), Name: "Frank Herbert", PublishedBooks: 1, AverageScore: 4, TotalSales: 150}}
	agg.On("GetAuthorsSummary", mock.Anything).Return(summary, nil)

	first, err := svc.AuthorsSummary(ctx)
	require.NoError(t, err)
	second, err := svc.AuthorsSummary(ctx)
	require.NoError(t, err)

	assert.Equal(t, summary, first)
	assert.Equal(t, first, second)
	agg.AssertNumberOfCalls(t, "GetAuthorsSummary", 1)

	invalidation.NewInvalidator(c, search.NewNoopIndex()).SalesChanged(ctx)

	_, err = svc.AuthorsSummary(ctx)
	require.NoError(t, err)
	agg.AssertNumberOfCalls(t, "GetAuthorsSummary", 2)
}

func TestAuthorsSummary_CorruptEntryIsAMiss(t *testing.T) {
	svc, agg, c := setup(t)
	ctx := context.Background()
	require.NoError(t, c.Set(ctx, invalidation.AuthorsSummaryKey, []byte("{not json"), time.Minute))
	agg.On("GetAuthorsSummary", mock.Anything).Return([]model.AuthorSummary{}, nil)

	got, err := svc.AuthorsSummary(ctx)

	require.NoError(t, err)
	assert.Empty(t, got)
	agg.AssertNumberOfCalls(t, "GetAuthorsSummary", 1)
}

func TestAuthorsSummary_StoreFailureIsNotCached(t *testing.T) {
	svc, agg, c := setup(t)
	ctx := context.Background()
	agg.On("GetAuthorsSummary", mock.Anything).Return(nil, errors.New("connection refused"))

	_, err := svc.AuthorsSummary(ctx)

	require.Error(t, err)
	_, found, _ := c.Get(ctx, invalidation.AuthorsSummaryKey)
	assert.False(t, found)
}

func TestAuthorsSummary_NoopCacheAlwaysComputes(t *testing.T) {
	agg := new(MockAggregator)
	agg.On("GetAuthorsSummary", mock.Anything).Return([]model.AuthorSummary{}, nil)
	svc := NewReportService(agg, cache.NewReadThrough(cache.NewNoopCache()), search.NewNoopIndex(), testTTLs)

	for i := 0; i < 3; i++ {
		_, err := svc.AuthorsSummary(context.Background())
		require.NoError(t, err)
	}

	agg.AssertNumberOfCalls(t, "GetAuthorsSummary", 3)
}

func TestBookAverageScore(t *testing.T) {
	svc, agg, c := setup(t)
	ctx := context.Background()
	bookID := uuid.New()
	agg.On("GetBookAverageScore", mock.Anything, bookID).
		Return(&model.BookScore{BookID: bookID, AverageScore: 4, TotalReviews: 2}, nil)

	got, err := svc.BookAverageScore(ctx, bookID)
	require.NoError(t, err)
	assert.Equal(t, 4.0, got.AverageScore)

	_, found, _ := c.Get(ctx, invalidation.BookAvgScoreKey(bookID))
	assert.True(t, found)

	_, err = svc.BookAverageScore(ctx, bookID)
	require.NoError(t, err)
	agg.AssertNumberOfCalls(t, "GetBookAverageScore", 1)
}

func TestBookAverageScore_UnknownBook(t *testing.T) {
	svc, agg, _ := setup(t)
	agg.On("GetBookAverageScore", mock.Anything, mock.Anything).Return(nil, model.ErrBookNotFound)

	_, err := svc.BookAverageScore(context.Background(), uuid.New())

	assert.True(t, IsNotFound(err))
}

func TestSearchBooks_EmptyQueryTouchesNothing(t *testing.T) {
	svc, agg, c := setup(t)

	got, err := svc.SearchBooks(context.Background(), "   ", 1, 10)

	require.NoError(t, err)
	assert.Empty(t, got.Results)
	assert.Equal(t, 10, got.PerPage)
	assert.Zero(t, got.TotalResults)
	agg.AssertNotCalled(t, "SearchBooks", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	assert.Zero(t, c.Size())
}

func TestSearchBooks_EquivalentQueriesShareEntry(t *testing.T) {
	svc, agg, _ := setup(t)
	ctx := context.Background()
	result := model.NewSearchResults("Dune Messiah", 1, 10, 1, []model.SearchResult{{BookID: uuid.New(), Title: "Dune Messiah"}})
	agg.On("SearchBooks", mock.Anything, "Dune Messiah", 1, 10).Return(result, nil).Once()

	first, err := svc.SearchBooks(ctx, "Dune Messiah", 1, 10)
	require.NoError(t, err)
	second, err := svc.SearchBooks(ctx, "  dune   MESSIAH ", 1, 10)
	require.NoError(t, err)

	agg.AssertNumberOfCalls(t, "SearchBooks", 1)
	assert.Equal(t, first.Results, second.Results)
	assert.Equal(t, "  dune   MESSIAH ", second.Query)
}

func TestSearchBooks_ClampsPaging(t *testing.T) {
	svc, agg, _ := setup(t)
	agg.On("SearchBooks", mock.Anything, "dune", 1, model.MaxSearchPerPage).
		Return(model.NewSearchResults("dune", 1, model.MaxSearchPerPage, 0, nil), nil)

	got, err := svc.SearchBooks(context.Background(), "dune", 0, 5000)

	require.NoError(t, err)
	assert.Equal(t, model.MaxSearchPerPage, got.PerPage)
	agg.AssertExpectations(t)
}

func TestTopRatedBooks_NotCached(t *testing.T) {
	svc, agg, c := setup(t)
	agg.On("GetTopRatedBooks", mock.Anything).Return([]model.TopRatedBook{}, nil)

	for i := 0; i < 2; i++ {
		_, err := svc.TopRatedBooks(context.Background())
		require.NoError(t, err)
	}

	agg.AssertNumberOfCalls(t, "GetTopRatedBooks", 2)
	assert.Zero(t, c.Size())
}

func TestExportTopSelling(t *testing.T) {
	svc, agg, _ := setup(t)
	year := 1965
	date := "1965-08-01"
	agg.On("GetTopSellingBooks", mock.Anything).Return([]model.TopSellingBook{
		{BookID: uuid.New(), Title: "Dune", AuthorName: "Frank Herbert", PublicationDate: &date, PublicationYear: &year,
			BookTotalSales: 150, AuthorTotalSales: 150, WasTop5InPublicationYear: true},
		{BookID: uuid.New(), Title: "Undated", AuthorName: "Anon", BookTotalSales: 10, AuthorTotalSales: 10},
	}, nil)

	export, err := svc.ExportTopSelling(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, export.Rows)
	assert.Regexp(t, `^top-selling-\d{8}-\d{6}\.xlsx$`, export.FileName)

	f, err := excelize.OpenReader(bytes.NewReader(export.Content))
	require.NoError(t, err)
	defer f.Close()

	title, err := f.GetCellValue(topSellingSheet, "C2")
	require.NoError(t, err)
	assert.Equal(t, "Dune", title)

	header, err := f.GetCellValue(topSellingSheet, "I1")
	require.NoError(t, err)
	assert.Equal(t, "Top 5 In Year", header)

	rows, err := f.GetRows(topSellingSheet)
	require.NoError(t, err)
	assert.Len(t, rows, 3)
}

func TestIndexSearch_NoopReturnsEmpty(t *testing.T) {
	svc, _, _ := setup(t)

	hits, err := svc.IndexSearch(context.Background(), "spice", 10)

	require.NoError(t, err)
	assert.NotNil(t, hits)
	assert.Empty(t, hits)
}

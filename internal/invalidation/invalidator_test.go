package invalidation

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bookreview-backend/internal/infrastructure/search"
	"bookreview-backend/pkg/cache"
)

type recordingIndex struct {
	search.NoopIndex
	upsertedBooks   []uuid.UUID
	deletedBooks    []uuid.UUID
	upsertedReviews []uuid.UUID
	deletedReviews  []uuid.UUID
	err             error
}

func (r *recordingIndex) UpsertBook(_ context.Context, doc search.BookDocument) error {
	r.upsertedBooks = append(r.upsertedBooks, doc.ID)
	return r.err
}

func (r *recordingIndex) DeleteBook(_ context.Context, id uuid.UUID) error {
	r.deletedBooks = append(r.deletedBooks, id)
	return r.err
}

func (r *recordingIndex) UpsertReview(_ context.Context, doc search.ReviewDocument) error {
	r.upsertedReviews = append(r.upsertedReviews, doc.ID)
	return r.err
}

func (r *recordingIndex) DeleteReview(_ context.Context, id uuid.UUID) error {
	r.deletedReviews = append(r.deletedReviews, id)
	return r.err
}

type failingCache struct{ cache.NoopCache }

func (failingCache) Delete(context.Context, ...string) error { return errors.New("redis down") }
func (failingCache) DeletePrefix(context.Context, string) error {
	return errors.New("redis down")
}

func newMemoryCache(t *testing.T) *cache.MemoryCache {
	t.Helper()
	c, err := cache.NewMemoryCache(cache.DefaultMemoryConfig())
	require.NoError(t, err)
	return c
}

func seed(t *testing.T, c cache.Cache, keys ...string) {
	t.Helper()
	for _, k := range keys {
		require.NoError(t, c.Set(context.Background(), k, []byte("x"), time.Minute))
	}
}

func present(c cache.Cache, key string) bool {
	_, ok, _ := c.Get(context.Background(), key)
	return ok
}

func TestSearchKey_NormalizesQuery(t *testing.T) {
	assert.Equal(t, "search:books:q:the+great:p:1:pp:10", SearchKey("  The   GREAT ", 1, 10))
	assert.Equal(t, SearchKey("dune messiah", 2, 20), SearchKey("Dune  Messiah", 2, 20))
	assert.NotEqual(t, SearchKey("dune", 1, 10), SearchKey("dune", 2, 10))
}

func TestInvalidator_ReviewSavedEvictsBookAndSearch(t *testing.T) {
	ctx := context.Background()
	c := newMemoryCache(t)
	idx := &recordingIndex{}
	inv := NewInvalidator(c, idx)

	bookID, otherBook := uuid.New(), uuid.New()
	seed(t, c,
		BookAvgScoreKey(bookID),
		BookAvgScoreKey(otherBook),
		AuthorsSummaryKey,
		SearchKey("dune", 1, 10),
		SearchKey("the great", 3, 5),
	)

	doc := search.ReviewDocument{ID: uuid.New(), BookID: bookID, Text: "great", Score: 5}
	inv.ReviewSaved(ctx, doc, uuid.Nil)

	assert.False(t, present(c, BookAvgScoreKey(bookID)))
	assert.False(t, present(c, AuthorsSummaryKey))
	assert.False(t, present(c, SearchKey("dune", 1, 10)))
	assert.False(t, present(c, SearchKey("the great", 3, 5)))
	assert.True(t, present(c, BookAvgScoreKey(otherBook)))
	assert.Equal(t, []uuid.UUID{doc.ID}, idx.upsertedReviews)
}

func TestInvalidator_ReviewMovedEvictsBothBooks(t *testing.T) {
	c := newMemoryCache(t)
	inv := NewInvalidator(c, &recordingIndex{})

	from, to := uuid.New(), uuid.New()
	seed(t, c, BookAvgScoreKey(from), BookAvgScoreKey(to))

	inv.ReviewSaved(context.Background(), search.ReviewDocument{ID: uuid.New(), BookID: to, Score: 3}, from)

	assert.False(t, present(c, BookAvgScoreKey(from)))
	assert.False(t, present(c, BookAvgScoreKey(to)))
}

func TestInvalidator_AuthorUpdatedReindexesBooks(t *testing.T) {
	c := newMemoryCache(t)
	idx := &recordingIndex{}
	inv := NewInvalidator(c, idx)

	authorID, otherAuthor := uuid.New(), uuid.New()
	seed(t, c, AuthorKey(authorID), AuthorKey(otherAuthor), AuthorsSummaryKey, SearchKey("x", 1, 10))

	books := []search.BookDocument{{ID: uuid.New(), Title: "A"}, {ID: uuid.New(), Title: "B"}}
	inv.AuthorUpdated(context.Background(), authorID, books)

	assert.False(t, present(c, AuthorKey(authorID)))
	assert.False(t, present(c, AuthorsSummaryKey))
	assert.False(t, present(c, SearchKey("x", 1, 10)))
	assert.True(t, present(c, AuthorKey(otherAuthor)))
	assert.Equal(t, []uuid.UUID{books[0].ID, books[1].ID}, idx.upsertedBooks)
}

func TestInvalidator_BookDeletedDropsIndexDocuments(t *testing.T) {
	c := newMemoryCache(t)
	idx := &recordingIndex{}
	inv := NewInvalidator(c, idx)

	bookID := uuid.New()
	seed(t, c, BookAvgScoreKey(bookID), AuthorsSummaryKey)

	inv.BookDeleted(context.Background(), bookID)

	assert.False(t, present(c, BookAvgScoreKey(bookID)))
	assert.False(t, present(c, AuthorsSummaryKey))
	assert.Equal(t, []uuid.UUID{bookID}, idx.deletedBooks)
}

func TestInvalidator_BookChildrenRemovedKeepsBookDocument(t *testing.T) {
	c := newMemoryCache(t)
	idx := &recordingIndex{}
	inv := NewInvalidator(c, idx)

	bookID := uuid.New()
	seed(t, c, BookAvgScoreKey(bookID))

	reviewID := uuid.New()
	inv.BookChildrenRemoved(context.Background(), bookID, []uuid.UUID{reviewID})

	assert.False(t, present(c, BookAvgScoreKey(bookID)))
	assert.Empty(t, idx.deletedBooks)
	assert.Equal(t, []uuid.UUID{reviewID}, idx.deletedReviews)
}

func TestInvalidator_SalesChangedOnlyTouchesSummary(t *testing.T) {
	c := newMemoryCache(t)
	inv := NewInvalidator(c, &recordingIndex{})

	bookID := uuid.New()
	seed(t, c, AuthorsSummaryKey, BookAvgScoreKey(bookID), SearchKey("dune", 1, 10))

	inv.SalesChanged(context.Background())

	assert.False(t, present(c, AuthorsSummaryKey))
	assert.True(t, present(c, BookAvgScoreKey(bookID)))
	assert.True(t, present(c, SearchKey("dune", 1, 10)))
}

func TestInvalidator_AbsentKeysAreNotErrors(t *testing.T) {
	inv := NewInvalidator(newMemoryCache(t), &recordingIndex{})

	assert.NotPanics(t, func() {
		inv.AuthorDeleted(context.Background(), uuid.New())
		inv.AuthorDeleted(context.Background(), uuid.New())
	})
}

func TestInvalidator_FailuresAreSwallowed(t *testing.T) {
	idx := &recordingIndex{err: errors.New("index down")}
	inv := NewInvalidator(failingCache{}, idx)

	assert.NotPanics(t, func() {
		inv.BookSaved(context.Background(), search.BookDocument{ID: uuid.New()})
		inv.ReviewDeleted(context.Background(), uuid.New(), uuid.New())
	})
	assert.Len(t, idx.upsertedBooks, 1)
	assert.Len(t, idx.deletedReviews, 1)
}

func TestInvalidator_ThroughReadThroughDropsInFlightAverage(t *testing.T) {
	ctx := context.Background()
	c := newMemoryCache(t)
	reads := cache.NewReadThrough(c)
	inv := NewInvalidator(reads, &recordingIndex{})
	bookID := uuid.New()
	key := BookAvgScoreKey(bookID)

	loading, release := make(chan struct{}), make(chan struct{})
	done := make(chan float64, 1)
	go func() {
		v, err := cache.Read(ctx, reads, key, time.Minute, func(context.Context) (float64, error) {
			close(loading)
			<-release
			return 3.0, nil
		})
		assert.NoError(t, err)
		done <- v
	}()
	<-loading

	inv.ReviewSaved(ctx, search.ReviewDocument{ID: uuid.New(), BookID: bookID, Score: 5}, uuid.Nil)

	got, err := cache.Read(ctx, reads, key, time.Minute, func(context.Context) (float64, error) {
		return 4.0, nil
	})
	require.NoError(t, err)
	assert.Equal(t, 4.0, got)

	close(release)
	assert.Equal(t, 3.0, <-done)

	cached, found := cache.GetJSON[float64](ctx, c, key)
	require.True(t, found)
	assert.Equal(t, 4.0, cached)
}

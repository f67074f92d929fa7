// Package invalidation evicts cached views and syncs the search index after catalog writes.
package invalidation

import (
	"context"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"bookreview-backend/internal/infrastructure/search"
	"bookreview-backend/pkg/cache"
)

// Invalidator is called after a Store mutation has succeeded. Pass the *cache.ReadThrough
// that serves the views so evictions also detach loads already in flight.
// Cache and index failures are logged and never returned: the write already happened.
type Invalidator struct {
	cache cache.Cache
	index search.Index
}

func NewInvalidator(c cache.Cache, index search.Index) *Invalidator {
	return &Invalidator{cache: c, index: index}
}

// ================================================
// AUTHORS
// ================================================

func (i *Invalidator) AuthorCreated(ctx context.Context) {
	i.evict(ctx, AuthorsSummaryKey)
	i.evictSearch(ctx)
}

// AuthorUpdated re-indexes the author's books since their documents carry the author name.
func (i *Invalidator) AuthorUpdated(ctx context.Context, authorID uuid.UUID, books []search.BookDocument) {
	i.evict(ctx, AuthorsSummaryKey, AuthorKey(authorID))
	i.evictSearch(ctx)

	for _, doc := range books {
		i.indexErr(i.index.UpsertBook(ctx, doc), "upsert book", doc.ID)
	}
}

// AuthorDeleted runs after the author's books went through BookDeleted.
func (i *Invalidator) AuthorDeleted(ctx context.Context, authorID uuid.UUID) {
	i.evict(ctx, AuthorsSummaryKey, AuthorKey(authorID))
	i.evictSearch(ctx)
}

// AuthorImageChanged only touches the author detail view.
func (i *Invalidator) AuthorImageChanged(ctx context.Context, authorID uuid.UUID) {
	i.evict(ctx, AuthorKey(authorID))
}

// ================================================
// BOOKS
// ================================================

func (i *Invalidator) BookSaved(ctx context.Context, doc search.BookDocument) {
	i.evict(ctx, AuthorsSummaryKey)
	i.evictSearch(ctx)
	i.indexErr(i.index.UpsertBook(ctx, doc), "upsert book", doc.ID)
}

// BookDeleted also drops the index documents of the book's reviews.
func (i *Invalidator) BookDeleted(ctx context.Context, bookID uuid.UUID) {
	i.evict(ctx, BookAvgScoreKey(bookID), AuthorsSummaryKey)
	i.evictSearch(ctx)
	i.indexErr(i.index.DeleteBook(ctx, bookID), "delete book", bookID)
}

// BookChildrenRemoved covers a book delete that stopped after removing reviews or sales.
// The book document stays indexed, the removed reviews do not.
func (i *Invalidator) BookChildrenRemoved(ctx context.Context, bookID uuid.UUID, reviewIDs []uuid.UUID) {
	i.evict(ctx, BookAvgScoreKey(bookID), AuthorsSummaryKey)
	i.evictSearch(ctx)

	for _, id := range reviewIDs {
		i.indexErr(i.index.DeleteReview(ctx, id), "delete review", id)
	}
}

// ================================================
// REVIEWS
// ================================================

// ReviewSaved evicts the review's book and, when the review moved, the previous book.
// previousBookID is uuid.Nil on create.
func (i *Invalidator) ReviewSaved(ctx context.Context, doc search.ReviewDocument, previousBookID uuid.UUID) {
	keys := []string{BookAvgScoreKey(doc.BookID), AuthorsSummaryKey}
	if previousBookID != uuid.Nil && previousBookID != doc.BookID {
		keys = append(keys, BookAvgScoreKey(previousBookID))
	}
	i.evict(ctx, keys...)
	i.evictSearch(ctx)
	i.indexErr(i.index.UpsertReview(ctx, doc), "upsert review", doc.ID)
}

func (i *Invalidator) ReviewDeleted(ctx context.Context, reviewID, bookID uuid.UUID) {
	i.evict(ctx, BookAvgScoreKey(bookID), AuthorsSummaryKey)
	i.evictSearch(ctx)
	i.indexErr(i.index.DeleteReview(ctx, reviewID), "delete review", reviewID)
}

// ================================================
// SALES
// ================================================

// SalesChanged runs after total_sales of the affected books was recomputed.
func (i *Invalidator) SalesChanged(ctx context.Context) {
	i.evict(ctx, AuthorsSummaryKey)
}

func (i *Invalidator) evict(ctx context.Context, keys ...string) {
	if err := i.cache.Delete(ctx, keys...); err != nil {
		log.Warn().Err(err).Strs("keys", keys).Msg("cache eviction failed")
	}
}

func (i *Invalidator) evictSearch(ctx context.Context) {
	if err := i.cache.DeletePrefix(ctx, SearchPrefix); err != nil {
		log.Warn().Err(err).Str("prefix", SearchPrefix).Msg("cache prefix eviction failed")
	}
}

func (i *Invalidator) indexErr(err error, op string, id uuid.UUID) {
	if err != nil {
		log.Warn().Err(err).Str("op", op).Str("id", id.String()).Msg("search index sync failed")
	}
}

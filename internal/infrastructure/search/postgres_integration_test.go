//go:build integration

package search

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bookreview-backend/internal/infrastructure/database/dbtest"
)

func TestPostgresIndex(t *testing.T) {
	pool := dbtest.NewPool(t)
	ctx := context.Background()
	idx := NewPostgresIndex(pool)

	dune := BookDocument{ID: uuid.New(), Title: "Dune", Summary: "Desert planet and spice", AuthorName: "Frank Herbert"}
	emma := BookDocument{ID: uuid.New(), Title: "Emma", Summary: "A matchmaking comedy", AuthorName: "Jane Austen"}
	review := ReviewDocument{ID: uuid.New(), BookID: dune.ID, Text: "The spice must flow", Score: 5}

	require.NoError(t, idx.UpsertBook(ctx, dune))
	require.NoError(t, idx.UpsertBook(ctx, emma))
	require.NoError(t, idx.UpsertReview(ctx, review))

	t.Run("ranks title above review body", func(t *testing.T) {
		hits, err := idx.Search(ctx, "spice", 10)
		require.NoError(t, err)
		require.Len(t, hits, 2)
		assert.Equal(t, dune.ID, hits[0].BookID)
		for _, h := range hits {
			assert.Equal(t, dune.ID, h.BookID)
		}
	})

	t.Run("matches author name", func(t *testing.T) {
		hits, err := idx.Search(ctx, "austen", 10)
		require.NoError(t, err)
		require.Len(t, hits, 1)
		assert.Equal(t, KindBook, hits[0].Kind)
		assert.Equal(t, emma.ID, hits[0].ID)
	})

	t.Run("upsert replaces the document", func(t *testing.T) {
		dune.Title = "Dune Messiah"
		require.NoError(t, idx.UpsertBook(ctx, dune))

		hits, err := idx.Search(ctx, "messiah", 10)
		require.NoError(t, err)
		require.Len(t, hits, 1)
	})

	t.Run("blank query", func(t *testing.T) {
		hits, err := idx.Search(ctx, "   ", 10)
		require.NoError(t, err)
		assert.Empty(t, hits)
	})

	t.Run("delete review then book", func(t *testing.T) {
		require.NoError(t, idx.DeleteReview(ctx, review.ID))
		hits, err := idx.Search(ctx, "flow", 10)
		require.NoError(t, err)
		assert.Empty(t, hits)

		require.NoError(t, idx.UpsertReview(ctx, review))
		require.NoError(t, idx.DeleteBook(ctx, dune.ID))
		hits, err = idx.Search(ctx, "spice", 10)
		require.NoError(t, err)
		assert.Empty(t, hits)
	})
}

func TestPostgresSource(t *testing.T) {
	pool := dbtest.NewPool(t)
	ctx := context.Background()
	src := NewPostgresSource(pool)

	authorID, bookID, reviewID := uuid.New(), uuid.New(), uuid.New()
	_, err := pool.Exec(ctx, `INSERT INTO authors (id, name) VALUES ($1, 'Frank Herbert')`, authorID)
	require.NoError(t, err)
	_, err = pool.Exec(ctx, `INSERT INTO books (id, author_id, title, publication_date) VALUES ($1, $2, 'Dune', '1965-08-01')`, bookID, authorID)
	require.NoError(t, err)
	_, err = pool.Exec(ctx, `INSERT INTO reviews (id, book_id, text, score) VALUES ($1, $2, 'The spice must flow', 5)`, reviewID, bookID)
	require.NoError(t, err)

	book, found, err := src.BookDocument(ctx, bookID)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, "Dune", book.Title)
	assert.Equal(t, "", book.Summary)
	assert.Equal(t, "Frank Herbert", book.AuthorName)
	require.NotNil(t, book.PublicationDate)
	assert.Equal(t, 1965, book.PublicationDate.Year())

	review, found, err := src.ReviewDocument(ctx, reviewID)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, ReviewDocument{ID: reviewID, BookID: bookID, Text: "The spice must flow", Score: 5}, review)

	_, found, err = src.BookDocument(ctx, uuid.New())
	require.NoError(t, err)
	assert.False(t, found)

	_, found, err = src.ReviewDocument(ctx, uuid.New())
	require.NoError(t, err)
	assert.False(t, found)
}

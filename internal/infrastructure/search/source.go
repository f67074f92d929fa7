package search

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Source reads the current projection of a catalog row.
// found is false once the row is gone.
type Source interface {
	BookDocument(ctx context.Context, id uuid.UUID) (doc BookDocument, found bool, err error)
	ReviewDocument(ctx context.Context, id uuid.UUID) (doc ReviewDocument, found bool, err error)
}

// PostgresSource builds documents from the catalog tables.
type PostgresSource struct {
	pool *pgxpool.Pool
}

func NewPostgresSource(pool *pgxpool.Pool) *PostgresSource {
	return &PostgresSource{pool: pool}
}

func (s *PostgresSource) BookDocument(ctx context.Context, id uuid.UUID) (BookDocument, bool, error) {
	query := `
		SELECT b.id, b.title, COALESCE(b.summary, ''), a.name, b.publication_date
		FROM books b
		JOIN authors a ON a.id = b.author_id
		WHERE b.id = $1
	`
	var (
		doc     BookDocument
		pubDate *time.Time
	)
	err := s.pool.QueryRow(ctx, query, id).Scan(&doc.ID, &doc.Title, &doc.Summary, &doc.AuthorName, &pubDate)
	if errors.Is(err, pgx.ErrNoRows) {
		return BookDocument{}, false, nil
	}
	if err != nil {
		return BookDocument{}, false, fmt.Errorf("load book document: %w", err)
	}
	doc.PublicationDate = pubDate
	return doc, true, nil
}

func (s *PostgresSource) ReviewDocument(ctx context.Context, id uuid.UUID) (ReviewDocument, bool, error) {
	query := `SELECT id, book_id, text, score FROM reviews WHERE id = $1`

	var doc ReviewDocument
	err := s.pool.QueryRow(ctx, query, id).Scan(&doc.ID, &doc.BookID, &doc.Text, &doc.Score)
	if errors.Is(err, pgx.ErrNoRows) {
		return ReviewDocument{}, false, nil
	}
	if err != nil {
		return ReviewDocument{}, false, fmt.Errorf("load review document: %w", err)
	}
	return doc, true, nil
}

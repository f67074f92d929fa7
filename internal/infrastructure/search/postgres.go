package search

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresIndex keeps documents in search_documents and ranks them with ts_rank.
type PostgresIndex struct {
	pool *pgxpool.Pool
}

func NewPostgresIndex(pool *pgxpool.Pool) *PostgresIndex {
	return &PostgresIndex{pool: pool}
}

func (p *PostgresIndex) UpsertBook(ctx context.Context, doc BookDocument) error {
	query := `
		INSERT INTO search_documents (id, kind, book_id, title, body, document, updated_at)
		VALUES (
			$1, 'book', $1, $2::text, $3::text,
			setweight(to_tsvector('simple', $2::text), 'A') ||
			setweight(to_tsvector('simple', $4::text), 'B') ||
			setweight(to_tsvector('simple', $3::text), 'C'),
			NOW()
		)
		ON CONFLICT (id) DO UPDATE SET
			title = EXCLUDED.title,
			body = EXCLUDED.body,
			document = EXCLUDED.document,
			updated_at = NOW()
	`
	if _, err := p.pool.Exec(ctx, query, doc.ID, doc.Title, doc.Summary, doc.AuthorName); err != nil {
		return fmt.Errorf("upsert book document: %w", err)
	}
	return nil
}

func (p *PostgresIndex) DeleteBook(ctx context.Context, bookID uuid.UUID) error {
	if _, err := p.pool.Exec(ctx, `DELETE FROM search_documents WHERE book_id = $1`, bookID); err != nil {
		return fmt.Errorf("delete book documents: %w", err)
	}
	return nil
}

func (p *PostgresIndex) UpsertReview(ctx context.Context, doc ReviewDocument) error {
	query := `
		INSERT INTO search_documents (id, kind, book_id, title, body, document, updated_at)
		VALUES ($1, 'review', $2, '', $3::text, to_tsvector('simple', $3::text), NOW())
		ON CONFLICT (id) DO UPDATE SET
			book_id = EXCLUDED.book_id,
			body = EXCLUDED.body,
			document = EXCLUDED.document,
			updated_at = NOW()
	`
	if _, err := p.pool.Exec(ctx, query, doc.ID, doc.BookID, doc.Text); err != nil {
		return fmt.Errorf("upsert review document: %w", err)
	}
	return nil
}

func (p *PostgresIndex) DeleteReview(ctx context.Context, reviewID uuid.UUID) error {
	query := `DELETE FROM search_documents WHERE id = $1 AND kind = 'review'`
	if _, err := p.pool.Exec(ctx, query, reviewID); err != nil {
		return fmt.Errorf("delete review document: %w", err)
	}
	return nil
}

// Search ranks documents matching every word of query. Blank queries match nothing.
func (p *PostgresIndex) Search(ctx context.Context, query string, limit int) ([]Hit, error) {
	hits := []Hit{}
	if strings.TrimSpace(query) == "" {
		return hits, nil
	}

	sql := `
		SELECT d.id, d.kind, d.book_id, ts_rank(d.document, q)::float8 AS rank
		FROM search_documents d, plainto_tsquery('simple', $1) q
		WHERE d.document @@ q
		ORDER BY rank DESC, d.id
		LIMIT $2
	`
	rows, err := p.pool.Query(ctx, sql, query, normalizeLimit(limit))
	if err != nil {
		return nil, fmt.Errorf("search documents: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var h Hit
		var kind string
		if err := rows.Scan(&h.ID, &kind, &h.BookID, &h.Score); err != nil {
			return nil, fmt.Errorf("scan search hit: %w", err)
		}
		h.Kind = Kind(kind)
		hits = append(hits, h)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate search hits: %w", err)
	}
	return hits, nil
}

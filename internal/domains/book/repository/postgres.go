package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"bookreview-backend/internal/domains/book/model"
)

const (
	pgForeignKeyViolation = "23503"

	bookColumns = `id, author_id, title, summary, publication_date, total_sales, created_at, updated_at`
)

type postgresBookRepository struct {
	pool *pgxpool.Pool
}

func NewPostgresBookRepository(pool *pgxpool.Pool) RepositoryInterface {
	return &postgresBookRepository{pool: pool}
}

func scanBook(row pgx.Row) (*model.Book, error) {
	b := &model.Book{}
	if err := row.Scan(
		&b.ID,
		&b.AuthorID,
		&b.Title,
		&b.Summary,
		&b.PublicationDate,
		&b.TotalSales,
		&b.CreatedAt,
		&b.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return b, nil
}

func isForeignKeyViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgForeignKeyViolation
}

func (r *postgresBookRepository) Create(ctx context.Context, book *model.Book) error {
	query := `
		INSERT INTO books (` + bookColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	_, err := r.pool.Exec(ctx, query,
		book.ID,
		book.AuthorID,
		book.Title,
		book.Summary,
		book.PublicationDate,
		book.TotalSales,
		book.CreatedAt,
		book.UpdatedAt,
	)
	if err != nil {
		// author removed between the existence check and the insert
		if isForeignKeyViolation(err) {
			return model.ErrAuthorNotFound
		}
		return fmt.Errorf("insert book: %w", err)
	}
	return nil
}

func (r *postgresBookRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Book, error) {
	book, err := scanBook(r.pool.QueryRow(ctx,
		`SELECT `+bookColumns+` FROM books WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrBookNotFound
		}
		return nil, fmt.Errorf("get book: %w", err)
	}
	return book, nil
}

func (r *postgresBookRepository) Exists(ctx context.Context, id uuid.UUID) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM books WHERE id = $1)`, id).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check book exists: %w", err)
	}
	return exists, nil
}

func (r *postgresBookRepository) List(ctx context.Context, authorID *uuid.UUID, page, perPage int) ([]*model.Book, int64, error) {
	// $1 IS NULL disables the author filter
	var total int64
	err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM books WHERE ($1::uuid IS NULL OR author_id = $1)`,
		authorID,
	).Scan(&total)
	if err != nil {
		return nil, 0, fmt.Errorf("count books: %w", err)
	}

	query := `
		SELECT ` + bookColumns + `
		FROM books
		WHERE ($1::uuid IS NULL OR author_id = $1)
		ORDER BY title ASC, id ASC
		LIMIT $2 OFFSET $3
	`
	rows, err := r.pool.Query(ctx, query, authorID, perPage, (page-1)*perPage)
	if err != nil {
		return nil, 0, fmt.Errorf("list books: %w", err)
	}

	books, err := collectBooks(rows)
	if err != nil {
		return nil, 0, err
	}
	return books, total, nil
}

func (r *postgresBookRepository) ListAllByAuthor(ctx context.Context, authorID uuid.UUID) ([]*model.Book, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+bookColumns+` FROM books WHERE author_id = $1 ORDER BY title ASC, id ASC`,
		authorID,
	)
	if err != nil {
		return nil, fmt.Errorf("list books by author: %w", err)
	}
	return collectBooks(rows)
}

func collectBooks(rows pgx.Rows) ([]*model.Book, error) {
	defer rows.Close()

	books := make([]*model.Book, 0)
	for rows.Next() {
		b, err := scanBook(rows)
		if err != nil {
			return nil, fmt.Errorf("scan book: %w", err)
		}
		books = append(books, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate books: %w", err)
	}
	return books, nil
}

func (r *postgresBookRepository) Update(ctx context.Context, book *model.Book) error {
	query := `
		UPDATE books
		SET author_id = $2, title = $3, summary = $4, publication_date = $5, updated_at = $6
		WHERE id = $1
	`
	tag, err := r.pool.Exec(ctx, query,
		book.ID,
		book.AuthorID,
		book.Title,
		book.Summary,
		book.PublicationDate,
		book.UpdatedAt,
	)
	if err != nil {
		if isForeignKeyViolation(err) {
			return model.ErrAuthorNotFound
		}
		return fmt.Errorf("update book: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrBookNotFound
	}
	return nil
}

func (r *postgresBookRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM books WHERE id = $1`, id)
	if err != nil {
		if isForeignKeyViolation(err) {
			return model.ErrBookInUse
		}
		return fmt.Errorf("delete book: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrBookNotFound
	}
	return nil
}

func (r *postgresBookRepository) SetTotalSales(ctx context.Context, id uuid.UUID, total int64) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE books SET total_sales = $2 WHERE id = $1`, id, total)
	if err != nil {
		return fmt.Errorf("set total sales: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrBookNotFound
	}
	return nil
}

func (r *postgresBookRepository) ReconcileTotalSales(ctx context.Context) (int64, error) {
	query := `
		UPDATE books b
		SET total_sales = s.total
		FROM (
			SELECT bk.id, COALESCE(SUM(sa.units), 0)::bigint AS total
			FROM books bk
			LEFT JOIN sales sa ON sa.book_id = bk.id
			GROUP BY bk.id
		) s
		WHERE s.id = b.id AND b.total_sales IS DISTINCT FROM s.total
	`
	tag, err := r.pool.Exec(ctx, query)
	if err != nil {
		return 0, fmt.Errorf("reconcile total sales: %w", err)
	}
	return tag.RowsAffected(), nil
}

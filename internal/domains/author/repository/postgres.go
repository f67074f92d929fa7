package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"bookreview-backend/internal/domains/author/model"
)

// =====================================================
// POSTGRES REPOSITORY IMPLEMENTATION
// =====================================================

type postgresAuthorRepository struct {
	pool *pgxpool.Pool
}

func NewPostgresAuthorRepository(pool *pgxpool.Pool) AuthorRepository {
	return &postgresAuthorRepository{pool: pool}
}

const authorColumns = `
	id, name, date_of_birth, country, description, image_url, created_at, updated_at
`

func scanAuthor(row pgx.Row) (*model.Author, error) {
	a := &model.Author{}
	err := row.Scan(
		&a.ID,
		&a.Name,
		&a.DateOfBirth,
		&a.Country,
		&a.Description,
		&a.ImageURL,
		&a.CreatedAt,
		&a.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return a, nil
}

// =====================================================
// CREATE
// =====================================================

func (r *postgresAuthorRepository) Create(ctx context.Context, author *model.Author) error {
	query := `
		INSERT INTO authors (
			id, name, date_of_birth, country, description, image_url, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	_, err := r.pool.Exec(ctx, query,
		author.ID,
		author.Name,
		author.DateOfBirth,
		author.Country,
		author.Description,
		author.ImageURL,
		author.CreatedAt,
		author.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create author: %w", err)
	}

	return nil
}

// =====================================================
// READ
// =====================================================

func (r *postgresAuthorRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Author, error) {
	query := `SELECT ` + authorColumns + ` FROM authors WHERE id = $1`

	author, err := scanAuthor(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrAuthorNotFound
		}
		return nil, fmt.Errorf("failed to get author: %w", err)
	}

	return author, nil
}

func (r *postgresAuthorRepository) List(ctx context.Context, page, perPage int) ([]*model.Author, int64, error) {
	var total int64
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM authors`).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count authors: %w", err)
	}

	query := `
		SELECT ` + authorColumns + `
		FROM authors
		ORDER BY name ASC, id ASC
		LIMIT $1 OFFSET $2
	`

	rows, err := r.pool.Query(ctx, query, perPage, (page-1)*perPage)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list authors: %w", err)
	}
	defer rows.Close()

	authors := make([]*model.Author, 0, perPage)
	for rows.Next() {
		a, err := scanAuthor(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan author: %w", err)
		}
		authors = append(authors, a)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("failed to iterate authors: %w", err)
	}

	return authors, total, nil
}

// =====================================================
// UPDATE
// =====================================================

func (r *postgresAuthorRepository) Update(ctx context.Context, author *model.Author) error {
	query := `
		UPDATE authors
		SET name = $2, date_of_birth = $3, country = $4, description = $5, updated_at = $6
		WHERE id = $1
	`

	tag, err := r.pool.Exec(ctx, query,
		author.ID,
		author.Name,
		author.DateOfBirth,
		author.Country,
		author.Description,
		author.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to update author: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrAuthorNotFound
	}

	return nil
}

func (r *postgresAuthorRepository) SetImageURL(ctx context.Context, id uuid.UUID, url string) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE authors SET image_url = $2, updated_at = NOW() WHERE id = $1`, id, url)
	if err != nil {
		return fmt.Errorf("failed to set author image: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrAuthorNotFound
	}
	return nil
}

// =====================================================
// DELETE
// =====================================================

func (r *postgresAuthorRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM authors WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete author: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrAuthorNotFound
	}
	return nil
}

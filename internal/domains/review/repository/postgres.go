package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"bookreview-backend/internal/domains/review/model"
)

// =====================================================
// POSTGRES REPOSITORY IMPLEMENTATION
// =====================================================

type postgresReviewRepository struct {
	pool *pgxpool.Pool
}

func NewPostgresReviewRepository(pool *pgxpool.Pool) ReviewRepository {
	return &postgresReviewRepository{pool: pool}
}

// mapWriteError translates constraint violations raised by the reviews table
func mapWriteError(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "23503": // foreign_key_violation
			return model.ErrBookNotFound
		case "23514": // check_violation
			return model.ErrInvalidScore
		}
	}
	return err
}

// =====================================================
// CREATE
// =====================================================

func (r *postgresReviewRepository) Create(ctx context.Context, review *model.Review) error {
	query := `
		INSERT INTO reviews (id, book_id, text, score, up_votes, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	_, err := r.pool.Exec(ctx, query,
		review.ID,
		review.BookID,
		review.Text,
		review.Score,
		review.UpVotes,
		review.CreatedAt,
		review.UpdatedAt,
	)
	if err != nil {
		if mapped := mapWriteError(err); mapped != err {
			return mapped
		}
		return fmt.Errorf("failed to create review: %w", err)
	}

	return nil
}

// =====================================================
// GET BY ID
// =====================================================

func (r *postgresReviewRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Review, error) {
	query := `
		SELECT id, book_id, text, score, up_votes, created_at, updated_at
		FROM reviews
		WHERE id = $1
	`

	review := &model.Review{}
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&review.ID,
		&review.BookID,
		&review.Text,
		&review.Score,
		&review.UpVotes,
		&review.CreatedAt,
		&review.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrReviewNotFound
		}
		return nil, fmt.Errorf("failed to get review: %w", err)
	}

	return review, nil
}

// =====================================================
// UPDATE
// =====================================================

func (r *postgresReviewRepository) Update(ctx context.Context, review *model.Review) error {
	query := `
		UPDATE reviews
		SET book_id = $2, text = $3, score = $4, up_votes = $5, updated_at = $6
		WHERE id = $1
	`

	result, err := r.pool.Exec(ctx, query,
		review.ID,
		review.BookID,
		review.Text,
		review.Score,
		review.UpVotes,
		review.UpdatedAt,
	)
	if err != nil {
		if mapped := mapWriteError(err); mapped != err {
			return mapped
		}
		return fmt.Errorf("failed to update review: %w", err)
	}

	if result.RowsAffected() == 0 {
		return model.ErrReviewNotFound
	}

	return nil
}

// =====================================================
// DELETE
// =====================================================

func (r *postgresReviewRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.pool.Exec(ctx, `DELETE FROM reviews WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete review: %w", err)
	}

	if result.RowsAffected() == 0 {
		return model.ErrReviewNotFound
	}

	return nil
}

func (r *postgresReviewRepository) DeleteByBook(ctx context.Context, bookID uuid.UUID) ([]uuid.UUID, error) {
	rows, err := r.pool.Query(ctx, `DELETE FROM reviews WHERE book_id = $1 RETURNING id`, bookID)
	if err != nil {
		return nil, fmt.Errorf("failed to delete reviews of book: %w", err)
	}

	ids, err := pgx.CollectRows(rows, pgx.RowTo[uuid.UUID])
	if err != nil {
		return nil, fmt.Errorf("failed to delete reviews of book: %w", err)
	}

	return ids, nil
}

// =====================================================
// LIST BY BOOK
// =====================================================

func (r *postgresReviewRepository) ListByBook(
	ctx context.Context,
	bookID uuid.UUID,
	page, perPage int,
) ([]*model.Review, int64, error) {
	var total int64
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM reviews WHERE book_id = $1`, bookID).Scan(&total)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count reviews: %w", err)
	}

	query := `
		SELECT id, book_id, text, score, up_votes, created_at, updated_at
		FROM reviews
		WHERE book_id = $1
		ORDER BY score DESC, up_votes DESC, id ASC
		LIMIT $2 OFFSET $3
	`

	rows, err := r.pool.Query(ctx, query, bookID, perPage, (page-1)*perPage)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list reviews: %w", err)
	}
	defer rows.Close()

	reviews := make([]*model.Review, 0, perPage)
	for rows.Next() {
		review := &model.Review{}
		if err := rows.Scan(
			&review.ID,
			&review.BookID,
			&review.Text,
			&review.Score,
			&review.UpVotes,
			&review.CreatedAt,
			&review.UpdatedAt,
		); err != nil {
			return nil, 0, fmt.Errorf("failed to scan review: %w", err)
		}
		reviews = append(reviews, review)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("failed to iterate reviews: %w", err)
	}

	return reviews, total, nil
}

package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"bookreview-backend/internal/domains/sale/model"
	"bookreview-backend/pkg/database"
)

const saleColumns = `id, book_id, year, units, created_at, updated_at`

type postgresSaleRepository struct {
	pool *pgxpool.Pool
}

func NewPostgresSaleRepository(pool *pgxpool.Pool) SaleRepository {
	return &postgresSaleRepository{pool: pool}
}

func scanSale(row pgx.Row) (*model.Sale, error) {
	s := &model.Sale{}
	if err := row.Scan(&s.ID, &s.BookID, &s.Year, &s.Units, &s.CreatedAt, &s.UpdatedAt); err != nil {
		return nil, err
	}
	return s, nil
}

func mapWriteError(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "23503":
			return model.ErrBookNotFound
		case "23505":
			return model.ErrDuplicateSale
		}
	}
	return nil
}

func (r *postgresSaleRepository) Upsert(ctx context.Context, sale *model.Sale) (*model.Sale, error) {
	query := `
		INSERT INTO sales (` + saleColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT ON CONSTRAINT uq_sales_book_year
		DO UPDATE SET units = EXCLUDED.units, updated_at = EXCLUDED.updated_at
		RETURNING ` + saleColumns

	stored, err := scanSale(r.pool.QueryRow(ctx, query,
		sale.ID,
		sale.BookID,
		sale.Year,
		sale.Units,
		sale.CreatedAt,
		sale.UpdatedAt,
	))
	if err != nil {
		if mapped := mapWriteError(err); mapped != nil {
			return nil, mapped
		}
		return nil, fmt.Errorf("upsert sale: %w", err)
	}
	return stored, nil
}

func (r *postgresSaleRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Sale, error) {
	sale, err := scanSale(r.pool.QueryRow(ctx, `SELECT `+saleColumns+` FROM sales WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrSaleNotFound
		}
		return nil, fmt.Errorf("get sale: %w", err)
	}
	return sale, nil
}

func (r *postgresSaleRepository) GetByBookAndYear(ctx context.Context, bookID uuid.UUID, year int) (*model.Sale, error) {
	sale, err := scanSale(r.pool.QueryRow(ctx,
		`SELECT `+saleColumns+` FROM sales WHERE book_id = $1 AND year = $2`, bookID, year))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrSaleNotFound
		}
		return nil, fmt.Errorf("get sale by book and year: %w", err)
	}
	return sale, nil
}

func (r *postgresSaleRepository) Update(ctx context.Context, sale *model.Sale) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE sales SET book_id = $2, year = $3, units = $4, updated_at = $5
		WHERE id = $1
	`, sale.ID, sale.BookID, sale.Year, sale.Units, sale.UpdatedAt)
	if err != nil {
		if mapped := mapWriteError(err); mapped != nil {
			return mapped
		}
		return fmt.Errorf("update sale: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrSaleNotFound
	}
	return nil
}

func (r *postgresSaleRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM sales WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete sale: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrSaleNotFound
	}
	return nil
}

func (r *postgresSaleRepository) ListByBook(ctx context.Context, bookID uuid.UUID, page, perPage int) ([]*model.Sale, int64, error) {
	var total int64
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM sales WHERE book_id = $1`, bookID).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count sales: %w", err)
	}

	rows, err := r.pool.Query(ctx, `
		SELECT `+saleColumns+`
		FROM sales
		WHERE book_id = $1
		ORDER BY year DESC
		LIMIT $2 OFFSET $3
	`, bookID, perPage, (page-1)*perPage)
	if err != nil {
		return nil, 0, fmt.Errorf("list sales: %w", err)
	}
	defer rows.Close()

	sales := make([]*model.Sale, 0, perPage)
	for rows.Next() {
		s, err := scanSale(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan sale: %w", err)
		}
		sales = append(sales, s)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate sales: %w", err)
	}
	return sales, total, nil
}

func (r *postgresSaleRepository) SumUnitsByBook(ctx context.Context, bookID uuid.UUID) (int64, error) {
	var total int64
	err := r.pool.QueryRow(ctx,
		`SELECT COALESCE(SUM(units), 0)::bigint FROM sales WHERE book_id = $1`, bookID,
	).Scan(&total)
	if err != nil {
		return 0, fmt.Errorf("sum sales: %w", err)
	}
	return total, nil
}

func (r *postgresSaleRepository) DeleteByBook(ctx context.Context, bookID uuid.UUID) (int64, error) {
	tag, err := r.pool.Exec(ctx, `DELETE FROM sales WHERE book_id = $1`, bookID)
	if err != nil {
		return 0, fmt.Errorf("delete sales of book: %w", err)
	}
	return tag.RowsAffected(), nil
}

func (r *postgresSaleRepository) MergeInto(ctx context.Context, sourceID, targetID uuid.UUID, units int64) (*model.Sale, error) {
	return database.WithTransactionResult(ctx, r.pool, func(tx pgx.Tx) (*model.Sale, error) {
		// 1. Target takes the new units
		merged, err := scanSale(tx.QueryRow(ctx, `
			UPDATE sales SET units = $2, updated_at = NOW()
			WHERE id = $1
			RETURNING `+saleColumns, targetID, units))
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return nil, model.ErrSaleNotFound
			}
			return nil, fmt.Errorf("merge sale: %w", err)
		}

		// 2. Source goes away
		tag, err := tx.Exec(ctx, `DELETE FROM sales WHERE id = $1`, sourceID)
		if err != nil {
			return nil, fmt.Errorf("merge sale: delete source: %w", err)
		}
		if tag.RowsAffected() == 0 {
			return nil, model.ErrSaleNotFound
		}

		return merged, nil
	})
}

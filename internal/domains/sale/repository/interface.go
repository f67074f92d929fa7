package repository

import (
	"context"

	"github.com/google/uuid"

	"bookreview-backend/internal/domains/sale/model"
)

type SaleRepository interface {
	// Upsert inserts the sale or replaces the units of the existing (book_id, year) row.
	// The stored row is returned.
	Upsert(ctx context.Context, sale *model.Sale) (*model.Sale, error)

	GetByID(ctx context.Context, id uuid.UUID) (*model.Sale, error)

	// GetByBookAndYear returns model.ErrSaleNotFound when no row exists
	GetByBookAndYear(ctx context.Context, bookID uuid.UUID, year int) (*model.Sale, error)

	Update(ctx context.Context, sale *model.Sale) error
	Delete(ctx context.Context, id uuid.UUID) error

	ListByBook(ctx context.Context, bookID uuid.UUID, page, perPage int) ([]*model.Sale, int64, error)

	// SumUnitsByBook is 0 for a book without sales
	SumUnitsByBook(ctx context.Context, bookID uuid.UUID) (int64, error)

	DeleteByBook(ctx context.Context, bookID uuid.UUID) (int64, error)

	// MergeInto sets units on target and deletes source in one transaction
	MergeInto(ctx context.Context, sourceID, targetID uuid.UUID, units int64) (*model.Sale, error)
}

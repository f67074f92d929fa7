package service

import (
	"context"

	"github.com/google/uuid"

	"bookreview-backend/internal/domains/sale/model"
)

type ServiceInterface interface {
	CreateSale(ctx context.Context, req model.CreateSaleRequest) (*model.Sale, error)
	GetSale(ctx context.Context, id uuid.UUID) (*model.Sale, error)
	ListBookSales(ctx context.Context, bookID uuid.UUID, page, perPage int) ([]*model.Sale, int64, error)
	UpdateSale(ctx context.Context, id uuid.UUID, req model.UpdateSaleRequest) (*model.Sale, error)
	DeleteSale(ctx context.Context, id uuid.UUID) error

	// RecomputeBook sets the book's total_sales to the sum of its sales
	RecomputeBook(ctx context.Context, bookID uuid.UUID) (int64, error)

	// ReconcileAll recomputes every book and returns how many totals changed
	ReconcileAll(ctx context.Context) (int64, error)
}

// BookTotals is the slice of the book repository the sales path writes to.
type BookTotals interface {
	Exists(ctx context.Context, id uuid.UUID) (bool, error)
	SetTotalSales(ctx context.Context, id uuid.UUID, total int64) error
	ReconcileTotalSales(ctx context.Context) (int64, error)
}

package repository

import (
	"context"

	"github.com/google/uuid"

	"bookreview-backend/internal/domains/book/model"
)

// RepositoryInterface - book persistence
type RepositoryInterface interface {
	Create(ctx context.Context, book *model.Book) error
	GetByID(ctx context.Context, id uuid.UUID) (*model.Book, error)
	Exists(ctx context.Context, id uuid.UUID) (bool, error)

	// List pages books ordered by title; authorID narrows to one author when set
	List(ctx context.Context, authorID *uuid.UUID, page, perPage int) ([]*model.Book, int64, error)

	// ListAllByAuthor returns every book of the author, unpaged
	ListAllByAuthor(ctx context.Context, authorID uuid.UUID) ([]*model.Book, error)

	Update(ctx context.Context, book *model.Book) error

	// Delete fails with model.ErrBookInUse while reviews or sales still reference the book
	Delete(ctx context.Context, id uuid.UUID) error

	// SetTotalSales stores the recomputed sales total
	SetTotalSales(ctx context.Context, id uuid.UUID, total int64) error

	// ReconcileTotalSales recomputes total_sales for every book and returns the rows changed
	ReconcileTotalSales(ctx context.Context) (int64, error)
}

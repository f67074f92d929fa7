package repository

import (
	"context"

	"github.com/google/uuid"

	"bookreview-backend/internal/domains/review/model"
)

// =====================================================
// REVIEW REPOSITORY INTERFACE
// =====================================================

type ReviewRepository interface {
	// ========================================
	// CRUD Operations
	// ========================================

	// Create creates new review
	Create(ctx context.Context, review *model.Review) error

	// GetByID gets review by ID
	GetByID(ctx context.Context, id uuid.UUID) (*model.Review, error)

	// Update updates review
	Update(ctx context.Context, review *model.Review) error

	// Delete deletes review
	Delete(ctx context.Context, id uuid.UUID) error

	// ========================================
	// BY BOOK
	// ========================================

	// ListByBook lists reviews for a book, best first
	ListByBook(ctx context.Context, bookID uuid.UUID, page, perPage int) ([]*model.Review, int64, error)

	// DeleteByBook removes every review of a book and returns the removed ids
	DeleteByBook(ctx context.Context, bookID uuid.UUID) ([]uuid.UUID, error)
}

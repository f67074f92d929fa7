package service

import (
	"context"

	"github.com/google/uuid"

	"bookreview-backend/internal/domains/review/model"
)

// =====================================================
// REVIEW SERVICE INTERFACE
// =====================================================

type ServiceInterface interface {
	// CreateReview creates new review on an existing book
	CreateReview(ctx context.Context, req model.CreateReviewRequest) (*model.Review, error)

	// GetReview gets review by ID
	GetReview(ctx context.Context, id uuid.UUID) (*model.Review, error)

	// UpdateReview updates review, possibly moving it to another book
	UpdateReview(ctx context.Context, id uuid.UUID, req model.UpdateReviewRequest) (*model.Review, error)

	// DeleteReview deletes review
	DeleteReview(ctx context.Context, id uuid.UUID) error

	// ListBookReviews lists reviews of one book
	ListBookReviews(ctx context.Context, bookID uuid.UUID, page, perPage int) ([]*model.Review, int64, error)
}

// BookChecker is satisfied by the book repository.
type BookChecker interface {
	Exists(ctx context.Context, id uuid.UUID) (bool, error)
}

package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"bookreview-backend/internal/domains/review/model"
	"bookreview-backend/internal/domains/review/repository"
	"bookreview-backend/internal/invalidation"
)

// =====================================================
// SERVICE IMPLEMENTATION
// =====================================================

type reviewService struct {
	reviewRepo  repository.ReviewRepository
	books       BookChecker
	invalidator *invalidation.Invalidator
}

func NewReviewService(
	reviewRepo repository.ReviewRepository,
	books BookChecker,
	invalidator *invalidation.Invalidator,
) ServiceInterface {
	return &reviewService{
		reviewRepo:  reviewRepo,
		books:       books,
		invalidator: invalidator,
	}
}

// =====================================================
// CREATE REVIEW
// =====================================================

func (s *reviewService) CreateReview(ctx context.Context, req model.CreateReviewRequest) (*model.Review, error) {
	// Step 1: Validate request
	if err := req.Validate(); err != nil {
		return nil, err
	}

	// Step 2: Book must exist
	if err := s.ensureBook(ctx, req.BookID); err != nil {
		return nil, err
	}

	// Step 3: Create review entity
	now := time.Now().UTC()
	review := &model.Review{
		ID:        uuid.New(),
		BookID:    req.BookID,
		Text:      req.Text,
		Score:     req.Score,
		UpVotes:   req.UpVotes,
		CreatedAt: now,
		UpdatedAt: now,
	}

	// Step 4: Save to database
	if err := s.reviewRepo.Create(ctx, review); err != nil {
		return nil, s.mapRepoError(err, "create")
	}

	// Step 5: Evict views of the book
	s.invalidator.ReviewSaved(ctx, review.SearchDocument(), uuid.Nil)

	return review, nil
}

// =====================================================
// GET REVIEW
// =====================================================

func (s *reviewService) GetReview(ctx context.Context, id uuid.UUID) (*model.Review, error) {
	review, err := s.reviewRepo.GetByID(ctx, id)
	if err != nil {
		return nil, s.mapRepoError(err, "get")
	}
	return review, nil
}

func (s *reviewService) ListBookReviews(ctx context.Context, bookID uuid.UUID, page, perPage int) ([]*model.Review, int64, error) {
	if err := s.ensureBook(ctx, bookID); err != nil {
		return nil, 0, err
	}

	reviews, total, err := s.reviewRepo.ListByBook(ctx, bookID, page, perPage)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list reviews: %w", err)
	}
	return reviews, total, nil
}

// =====================================================
// UPDATE REVIEW
// =====================================================

func (s *reviewService) UpdateReview(ctx context.Context, id uuid.UUID, req model.UpdateReviewRequest) (*model.Review, error) {
	// Step 1: Validate request
	if err := req.Validate(); err != nil {
		return nil, err
	}

	// Step 2: Get existing review
	review, err := s.reviewRepo.GetByID(ctx, id)
	if err != nil {
		return nil, s.mapRepoError(err, "get")
	}
	previousBookID := review.BookID

	// Step 3: Update fields (only if provided)
	if req.BookID != nil && *req.BookID != review.BookID {
		if err := s.ensureBook(ctx, *req.BookID); err != nil {
			return nil, err
		}
		review.BookID = *req.BookID
	}
	if req.Text != nil {
		review.Text = *req.Text
	}
	if req.Score != nil {
		review.Score = *req.Score
	}
	if req.UpVotes != nil {
		review.UpVotes = *req.UpVotes
	}
	review.UpdatedAt = time.Now().UTC()

	// Step 4: Save changes
	if err := s.reviewRepo.Update(ctx, review); err != nil {
		return nil, s.mapRepoError(err, "update")
	}

	// Step 5: Evict current and previous book
	s.invalidator.ReviewSaved(ctx, review.SearchDocument(), previousBookID)

	return review, nil
}

// =====================================================
// DELETE REVIEW
// =====================================================

func (s *reviewService) DeleteReview(ctx context.Context, id uuid.UUID) error {
	// Step 1: Get existing review (book id is needed for eviction)
	review, err := s.reviewRepo.GetByID(ctx, id)
	if err != nil {
		return s.mapRepoError(err, "get")
	}

	// Step 2: Delete
	if err := s.reviewRepo.Delete(ctx, id); err != nil {
		return s.mapRepoError(err, "delete")
	}

	// Step 3: Evict
	s.invalidator.ReviewDeleted(ctx, review.ID, review.BookID)

	return nil
}

func (s *reviewService) ensureBook(ctx context.Context, bookID uuid.UUID) error {
	exists, err := s.books.Exists(ctx, bookID)
	if err != nil {
		return fmt.Errorf("failed to check book: %w", err)
	}
	if !exists {
		return model.NewBookNotFoundError()
	}
	return nil
}

func (s *reviewService) mapRepoError(err error, op string) error {
	switch {
	case errors.Is(err, model.ErrReviewNotFound):
		return model.NewReviewNotFoundError()
	case errors.Is(err, model.ErrBookNotFound):
		return model.NewBookNotFoundError()
	case errors.Is(err, model.ErrInvalidScore):
		return model.NewInvalidScoreError()
	default:
		return fmt.Errorf("failed to %s review: %w", op, err)
	}
}

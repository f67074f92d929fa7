package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	authorModel "bookreview-backend/internal/domains/author/model"
	"bookreview-backend/internal/domains/book/model"
	"bookreview-backend/internal/domains/book/repository"
	"bookreview-backend/internal/invalidation"
	"bookreview-backend/internal/shared/utils"
)

type BookService struct {
	repo        repository.RepositoryInterface
	authors     AuthorReader
	reviews     ReviewCleaner
	sales       SaleCleaner
	invalidator *invalidation.Invalidator
}

func NewService(
	repo repository.RepositoryInterface,
	authors AuthorReader,
	reviews ReviewCleaner,
	sales SaleCleaner,
	invalidator *invalidation.Invalidator,
) ServiceInterface {
	return &BookService{
		repo:        repo,
		authors:     authors,
		reviews:     reviews,
		sales:       sales,
		invalidator: invalidator,
	}
}

// =====================================================
// CREATE
// =====================================================

func (s *BookService) CreateBook(ctx context.Context, req model.CreateBookRequest) (*model.BookResponse, error) {
	// Step 1: Parse date
	pubDate, err := utils.ParseDate(req.PublicationDate)
	if err != nil {
		return nil, model.ErrInvalidDate
	}

	// Step 2: Author must exist before anything is written
	author, err := s.lookupAuthor(ctx, req.AuthorID)
	if err != nil {
		return nil, err
	}

	// Step 3: Insert
	now := time.Now().UTC()
	book := &model.Book{
		ID:              uuid.New(),
		AuthorID:        req.AuthorID,
		Title:           req.Title,
		Summary:         req.Summary,
		PublicationDate: pubDate,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if err := s.repo.Create(ctx, book); err != nil {
		return nil, err
	}

	// Step 4: Evict + index
	s.invalidator.BookSaved(ctx, book.SearchDocument(author.Name))

	resp := book.ToResponse()
	return &resp, nil
}

// =====================================================
// READ
// =====================================================

func (s *BookService) GetBook(ctx context.Context, id uuid.UUID) (*model.BookResponse, error) {
	book, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := book.ToResponse()
	return &resp, nil
}

func (s *BookService) ListBooks(ctx context.Context, authorID *uuid.UUID, page, perPage int) ([]model.BookResponse, int64, error) {
	books, total, err := s.repo.List(ctx, authorID, page, perPage)
	if err != nil {
		return nil, 0, err
	}

	out := make([]model.BookResponse, 0, len(books))
	for _, b := range books {
		out = append(out, b.ToResponse())
	}
	return out, total, nil
}

func (s *BookService) ListAllByAuthor(ctx context.Context, authorID uuid.UUID) ([]*model.Book, error) {
	return s.repo.ListAllByAuthor(ctx, authorID)
}

// =====================================================
// UPDATE
// =====================================================

func (s *BookService) UpdateBook(ctx context.Context, id uuid.UUID, req model.UpdateBookRequest) (*model.BookResponse, error) {
	// Step 1: Load current row
	book, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	// Step 2: Merge provided fields
	if req.AuthorID != nil {
		book.AuthorID = *req.AuthorID
	}
	if req.Title != nil {
		book.Title = *req.Title
	}
	if req.Summary != nil {
		book.Summary = req.Summary
	}
	if req.PublicationDate != nil {
		pubDate, err := utils.ParseDate(req.PublicationDate)
		if err != nil {
			return nil, model.ErrInvalidDate
		}
		book.PublicationDate = pubDate
	}

	// Step 3: Author (possibly new) must exist
	author, err := s.lookupAuthor(ctx, book.AuthorID)
	if err != nil {
		return nil, err
	}

	// Step 4: Save
	book.UpdatedAt = time.Now().UTC()
	if err := s.repo.Update(ctx, book); err != nil {
		return nil, err
	}

	// Step 5: Evict + re-index
	s.invalidator.BookSaved(ctx, book.SearchDocument(author.Name))

	resp := book.ToResponse()
	return &resp, nil
}

// =====================================================
// DELETE
// =====================================================

// DeleteBook runs the cascade children first. A failed step stops the cascade
// without rolling back; evictions still cover the steps that completed.
func (s *BookService) DeleteBook(ctx context.Context, id uuid.UUID) error {
	// Step 1: Book must exist
	if _, err := s.repo.GetByID(ctx, id); err != nil {
		return err
	}

	// Step 2: Reviews
	reviewIDs, err := s.reviews.DeleteByBook(ctx, id)
	if err != nil {
		return fmt.Errorf("delete reviews of book %s: %w", id, err)
	}

	// Step 3: Sales
	salesRemoved, err := s.sales.DeleteByBook(ctx, id)
	if err != nil {
		s.childrenRemoved(ctx, id, reviewIDs, 0)
		return fmt.Errorf("delete sales of book %s: %w", id, err)
	}

	// Step 4: Book
	if err := s.repo.Delete(ctx, id); err != nil {
		s.childrenRemoved(ctx, id, reviewIDs, salesRemoved)
		return err
	}

	log.Info().
		Str("book_id", id.String()).
		Int("reviews", len(reviewIDs)).
		Int64("sales", salesRemoved).
		Msg("book deleted")

	s.invalidator.BookDeleted(ctx, id)
	return nil
}

func (s *BookService) childrenRemoved(ctx context.Context, id uuid.UUID, reviewIDs []uuid.UUID, salesRemoved int64) {
	if len(reviewIDs) == 0 && salesRemoved == 0 {
		return
	}
	log.Warn().
		Str("book_id", id.String()).
		Int("reviews", len(reviewIDs)).
		Int64("sales", salesRemoved).
		Msg("book delete stopped after removing children")
	s.invalidator.BookChildrenRemoved(ctx, id, reviewIDs)
}

func (s *BookService) lookupAuthor(ctx context.Context, authorID uuid.UUID) (*authorModel.Author, error) {
	author, err := s.authors.GetByID(ctx, authorID)
	if err != nil {
		if errors.Is(err, authorModel.ErrAuthorNotFound) {
			return nil, model.ErrAuthorNotFound
		}
		return nil, fmt.Errorf("lookup author: %w", err)
	}
	return author, nil
}

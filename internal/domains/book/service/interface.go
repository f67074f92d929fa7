package service

import (
	"context"

	"github.com/google/uuid"

	authorModel "bookreview-backend/internal/domains/author/model"
	"bookreview-backend/internal/domains/book/model"
)

// ServiceInterface - book use cases
type ServiceInterface interface {
	CreateBook(ctx context.Context, req model.CreateBookRequest) (*model.BookResponse, error)
	GetBook(ctx context.Context, id uuid.UUID) (*model.BookResponse, error)
	ListBooks(ctx context.Context, authorID *uuid.UUID, page, perPage int) ([]model.BookResponse, int64, error)
	UpdateBook(ctx context.Context, id uuid.UUID, req model.UpdateBookRequest) (*model.BookResponse, error)

	// DeleteBook removes reviews, then sales, then the book
	DeleteBook(ctx context.Context, id uuid.UUID) error

	// ListAllByAuthor is used by the author cascade and re-indexing
	ListAllByAuthor(ctx context.Context, authorID uuid.UUID) ([]*model.Book, error)
}

// AuthorReader resolves the owning author of a book.
type AuthorReader interface {
	GetByID(ctx context.Context, id uuid.UUID) (*authorModel.Author, error)
}

// ReviewCleaner removes a book's reviews and returns their ids.
type ReviewCleaner interface {
	DeleteByBook(ctx context.Context, bookID uuid.UUID) ([]uuid.UUID, error)
}

// SaleCleaner removes a book's sales and returns how many rows went.
type SaleCleaner interface {
	DeleteByBook(ctx context.Context, bookID uuid.UUID) (int64, error)
}

package repository

import (
	"context"

	"github.com/google/uuid"

	"bookreview-backend/internal/domains/author/model"
)

// =====================================================
// AUTHOR REPOSITORY INTERFACE
// =====================================================

type AuthorRepository interface {
	// Create inserts a new author
	Create(ctx context.Context, author *model.Author) error

	// GetByID returns model.ErrAuthorNotFound when no row matches
	GetByID(ctx context.Context, id uuid.UUID) (*model.Author, error)

	// List returns one page ordered by name, plus the total count
	List(ctx context.Context, page, perPage int) ([]*model.Author, int64, error)

	// Update overwrites the mutable columns
	Update(ctx context.Context, author *model.Author) error

	// Delete removes the author row only. Books must be gone already.
	Delete(ctx context.Context, id uuid.UUID) error

	// SetImageURL stores the public URL of the author's picture
	SetImageURL(ctx context.Context, id uuid.UUID, url string) error
}
